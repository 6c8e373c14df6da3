// FILE: lixenwraith/paramtree/loader.go
package paramtree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Source represents a configuration source, used to define load precedence
type Source string

const (
	// SourceDefault represents the values the tree was declared with
	SourceDefault Source = "default"
	// SourceFile represents values loaded from a configuration file
	SourceFile Source = "file"
	// SourceEnv represents values loaded from environment variables
	SourceEnv Source = "env"
	// SourceCLI represents values loaded from command-line arguments
	SourceCLI Source = "cli"
)

// Format names a configuration file syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// DefaultMaxFileSize bounds how much of a configuration file is read.
const DefaultMaxFileSize int64 = 10 << 20

// EnvTransformFunc converts a tree path to an environment variable name
type EnvTransformFunc func(path string) string

// LoadOptions configures how values are loaded from multiple sources
type LoadOptions struct {
	// Sources defines the precedence order (first = highest priority)
	// Default: [SourceCLI, SourceEnv, SourceFile, SourceDefault]
	Sources []Source

	// EnvPrefix is prepended to environment variable names
	// Example: "MYAPP_" transforms "server.port" to "MYAPP_SERVER_PORT"
	EnvPrefix string

	// EnvTransform customizes how paths map to environment variables
	// If nil, uses default transformation (dots to underscores, uppercase)
	EnvTransform EnvTransformFunc

	// Format of configuration files; FormatAuto detects by extension, then content
	Format Format

	// Strict fails on file keys that name no entry instead of skipping them
	Strict bool

	// MaxFileSize limits the bytes read from a configuration file (0 = no limit)
	MaxFileSize int64

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultLoadOptions returns the standard load options
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Sources:     []Source{SourceCLI, SourceEnv, SourceFile, SourceDefault},
		Format:      FormatAuto,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Loader feeds external sources into a tree. It only resolves paths and sets
// leaves from text; schema is never created, except that list items are
// appended at the next free index.
type Loader struct {
	tree   *Tree
	opts   LoadOptions
	logger *slog.Logger
}

// NewLoader creates a loader writing into t.
func NewLoader(t *Tree, opts LoadOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Format == "" {
		opts.Format = FormatAuto
	}
	return &Loader{tree: t, opts: opts, logger: logger}
}

// Load applies every configured source, lowest precedence first, then checks
// required leaves. A missing file is reported but does not stop the other
// sources; any other file error is fatal. b may be nil when no CLI is bound.
func (l *Loader) Load(filePath string, b *Binder, args []string) error {
	var loadErrors []error

	// Process each source according to precedence (in reverse order for proper layering)
	for i := len(l.opts.Sources) - 1; i >= 0; i-- {
		switch l.opts.Sources[i] {
		case SourceDefault:
			// Defaults are already in place from the declarations
			continue

		case SourceFile:
			if filePath == "" {
				continue
			}
			if err := l.LoadFile(filePath); err != nil {
				if !errors.Is(err, ErrConfigNotFound) {
					return err
				}
				loadErrors = append(loadErrors, err)
			}

		case SourceEnv:
			if err := l.LoadEnv(); err != nil {
				loadErrors = append(loadErrors, err)
			}

		case SourceCLI:
			if b == nil {
				continue
			}
			if err := b.Parse(args); err != nil {
				if errors.Is(err, pflag.ErrHelp) {
					return err
				}
				loadErrors = append(loadErrors, err)
			}
		}
	}

	if err := l.tree.Validate(); err != nil {
		loadErrors = append(loadErrors, err)
	}
	return errors.Join(loadErrors...)
}

// LoadFile reads, decodes and applies a configuration file.
func (l *Loader) LoadFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if l.opts.MaxFileSize > 0 && info.Size() > l.opts.MaxFileSize {
		return fmt.Errorf("config file '%s' exceeds maximum size %d bytes", path, l.opts.MaxFileSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if l.opts.MaxFileSize > 0 {
		reader = io.LimitReader(file, l.opts.MaxFileSize)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := l.opts.Format
	if format == FormatAuto {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(data)
		}
	}

	l.logger.Debug("Applying config file.", "path", path, "format", format)
	if err := l.apply(data, format, path); err != nil {
		return fmt.Errorf("config file '%s': %w", path, err)
	}
	return nil
}

// LoadBytes decodes and applies an in-memory document.
func (l *Loader) LoadBytes(data []byte, format Format) error {
	if format == "" || format == FormatAuto {
		format = detectFormatFromContent(data)
	}
	return l.apply(data, format, "input")
}

// LoadEnv sets every leaf whose environment variable is present.
func (l *Loader) LoadEnv() error {
	transform := l.opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(l.opts.EnvPrefix)
	}

	var errs []error
	for _, e := range l.tree.Leaves() {
		name := transform(e.Path())
		text, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		l.logger.Debug("Applying environment variable.", "var", name, "path", e.Path())
		if err := e.Parse(text); err != nil {
			errs = append(errs, fmt.Errorf("env %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// EnvNames maps every addressable leaf path to its environment variable name.
func (l *Loader) EnvNames() map[string]string {
	transform := l.opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(l.opts.EnvPrefix)
	}
	names := make(map[string]string)
	for _, e := range l.tree.Leaves() {
		names[e.Path()] = transform(e.Path())
	}
	return names
}

func (l *Loader) apply(data []byte, format Format, name string) error {
	doc, err := decodeDocument(data, format, name)
	if err != nil {
		return err
	}
	return l.applyMap(l.tree.RootEntry(), doc)
}

// applyMap writes a decoded mapping into the section or list item e. Keys
// are visited in sorted order so that failures are reproducible.
func (l *Loader) applyMap(e *Entry, data map[string]any) error {
	for _, key := range sortedKeys(data) {
		child, ok := e.section.Get(key)
		if !ok {
			path := joinPath(e.Path(), key)
			if l.opts.Strict {
				return fmt.Errorf("%w: %q", ErrNotFound, path)
			}
			l.logger.Debug("Skipping unknown key.", "path", path)
			continue
		}
		if err := l.applyValue(child, data[key]); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) applyValue(e *Entry, raw any) error {
	if raw == nil {
		l.logger.Debug("Skipping null value.", "path", e.Path())
		return nil
	}

	switch e.kind {
	case EntryLeaf:
		if e.value.IsList() {
			if texts, ok, err := listTexts(e.value.Kind(), raw); ok {
				if err != nil {
					return fmt.Errorf("%s: %w", e.Path(), err)
				}
				if err := e.ParseList(texts); err != nil {
					return fmt.Errorf("%s: %w", e.Path(), err)
				}
				return nil
			}
		}
		text, err := leafText(e.value.Kind(), raw)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Path(), err)
		}
		if err := e.Parse(text); err != nil {
			return fmt.Errorf("%s: %w", e.Path(), err)
		}
		return nil

	case EntrySection:
		m, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is a section, got %T", ErrTypeMismatch, e.Path(), raw)
		}
		return l.applyMap(e, m)

	case EntryList:
		items, err := itemMaps(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", e.Path(), err)
		}
		for i, m := range items {
			item, ok := e.list.At(i)
			if !ok {
				if item, err = e.list.Insert(i); err != nil {
					return err
				}
			}
			if err := l.applyMap(item, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeDocument(data []byte, format Format, name string) (map[string]any, error) {
	doc := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatHCL:
		var err error
		if doc, err = decodeHCL(data, name); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return doc, nil
}

// scalarText renders a decoded scalar in the text form cells parse.
func scalarText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case json.Number:
		return v.String(), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	}
	return "", fmt.Errorf("%w: %T is not a scalar", ErrTypeMismatch, raw)
}

// leafText renders a decoded scalar for a leaf of kind k. Document numbers
// for a character leaf are character codes, not digits.
func leafText(k Kind, raw any) (string, error) {
	if k == KindChar {
		switch v := raw.(type) {
		case int:
			return fmt.Sprintf("%#x", v), nil
		case int64:
			return fmt.Sprintf("%#x", v), nil
		case uint64:
			return fmt.Sprintf("%#x", v), nil
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return fmt.Sprintf("%#x", n), nil
			}
		}
	}
	return scalarText(raw)
}

// listTexts renders a decoded array element by element. ok is false when raw
// is not an array at all.
func listTexts(k Kind, raw any) (texts []string, ok bool, err error) {
	switch v := raw.(type) {
	case []any:
		texts = make([]string, len(v))
		for i, item := range v {
			if texts[i], err = leafText(k, item); err != nil {
				return nil, true, err
			}
		}
		return texts, true, nil
	case []string:
		return append([]string(nil), v...), true, nil
	}
	return nil, false, nil
}

// itemMaps accepts an array of tables or a single table for a list of
// structures.
func itemMaps(raw any) ([]map[string]any, error) {
	switch v := raw.(type) {
	case []map[string]any:
		return v, nil
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		out := make([]map[string]any, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: list item %d is %T, not a table", ErrTypeMismatch, i, item)
			}
			out[i] = m
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T is not a list of tables", ErrTypeMismatch, raw)
}

// defaultEnvTransform creates the default environment variable transformer.
// "servers.#0.host" with prefix "APP_" becomes "APP_SERVERS_0_HOST".
func defaultEnvTransform(prefix string) EnvTransformFunc {
	replacer := strings.NewReplacer(".", "_", "-", "_", "#", "")
	return func(path string) string {
		env := strings.ToUpper(replacer.Replace(path))
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl", ".tf":
		return FormatHCL
	default:
		// .conf, .config and the rest are detected from content
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing. YAML accepts
// almost anything, so the stricter formats are tried first.
func detectFormatFromContent(data []byte) Format {
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil && len(yamlTest) > 0 {
		return FormatYAML
	}

	if _, err := decodeHCL(data, "detect"); err == nil {
		return FormatHCL
	}
	return ""
}
