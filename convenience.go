// File: lixenwraith/paramtree/convenience.go
package paramtree

import (
	"fmt"
	"os"
	"strings"
)

// Quick finalizes b, binds its leaves to the command line and loads every
// source with standard precedence: CLI > Env > File > Default. The tree and
// binder are returned even when loading fails, so callers can print usage.
func Quick(b *Builder, envPrefix, configFile string) (*Tree, *Binder, error) {
	t, err := b.Finalize()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build tree: %w", err)
	}
	binder, err := NewBinder(t)
	if err != nil {
		return t, nil, fmt.Errorf("failed to bind command line: %w", err)
	}

	opts := DefaultLoadOptions()
	opts.EnvPrefix = envPrefix

	err = NewLoader(t, opts).Load(configFile, binder, os.Args[1:])
	return t, binder, err
}

// MustQuick is like Quick but panics on error
func MustQuick(b *Builder, envPrefix, configFile string) *Tree {
	t, _, err := Quick(b, envPrefix, configFile)
	if err != nil {
		panic(fmt.Sprintf("paramtree initialization failed: %v", err))
	}
	return t
}

// MissingRequired returns the paths of required leaves that no source has
// set, in declaration order. Only the leaves themselves are checked.
func (t *Tree) MissingRequired() []string {
	var missing []string
	for _, e := range t.Leaves() {
		if e.aspects.Required && !e.aspects.Set {
			missing = append(missing, e.Path())
		}
	}
	return missing
}

// Validate fails with a *MissingRequiredError when required leaves are unset.
// Call it once, after all sources have been applied.
func (t *Tree) Validate() error {
	if missing := t.MissingRequired(); len(missing) > 0 {
		return &MissingRequiredError{Paths: missing}
	}
	return nil
}

// Debug returns a formatted listing of every leaf with its current value,
// default and status.
func (t *Tree) Debug() string {
	var b strings.Builder
	b.WriteString("Parameter tree:\n")
	for _, e := range t.Leaves() {
		b.WriteString(fmt.Sprintf("  %s (%s):\n", e.Path(), e.value.TypeName()))
		if e.value.IsInitialized() {
			b.WriteString(fmt.Sprintf("    Current: %s\n", e.value.String()))
		} else {
			b.WriteString("    Current: <unset>\n")
		}
		if def, ok := e.Default(); ok {
			b.WriteString(fmt.Sprintf("    Default: %s\n", def))
		}
		b.WriteString(fmt.Sprintf("    Set: %t Required: %t\n", e.aspects.Set, e.aspects.Required))
	}
	return b.String()
}
