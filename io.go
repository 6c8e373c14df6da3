// File: lixenwraith/paramtree/io.go
package paramtree

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// WriteTOML encodes the initialized leaves of the tree as TOML. Lists of
// structures are written as arrays of tables.
func (t *Tree) WriteTOML(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(nestedOf(t.RootEntry(), tomlLeaf)); err != nil {
		return fmt.Errorf("failed to marshal tree to TOML: %w", err)
	}
	return nil
}

// tomlLeaf renders a leaf for TOML, whose integers are signed 64-bit.
// Unsigned values above math.MaxInt64 are written as strings, which the
// loader parses back through the cell.
func tomlLeaf(v *Value) any {
	native := v.Interface()
	items, ok := native.([]any)
	if !ok {
		return tomlScalar(native)
	}
	for i, item := range items {
		items[i] = tomlScalar(item)
	}
	return items
}

func tomlScalar(x any) any {
	switch n := x.(type) {
	case uint64:
		if n > math.MaxInt64 {
			return strconv.FormatUint(n, 10)
		}
	case uint:
		if uint64(n) > math.MaxInt64 {
			return strconv.FormatUint(uint64(n), 10)
		}
	}
	return x
}

// Save writes the tree to a TOML file atomically. The file can be read back
// with Loader.LoadFile.
func (t *Tree) Save(path string) error {
	var buf bytes.Buffer
	if err := t.WriteTOML(&buf); err != nil {
		return err
	}
	return atomicWriteFile(path, buf.Bytes())
}

// Dump writes the current tree to stdout in TOML format
func (t *Tree) Dump() error {
	return t.WriteTOML(os.Stdout)
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
