// FILE: lixenwraith/paramtree/binder.go
package paramtree

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FirstLongCode is the option code given to the first long option; codes
// above the single-byte range never collide with shortcuts.
const FirstLongCode = 256

// flagPresent is what the scanner hands to an argument-less option.
const flagPresent = "true"

// Binding is one row of the option table derived from a tree.
type Binding struct {
	Code       int
	Long       string
	Short      rune // 0 when the leaf has no shortcut
	Entry      ID
	Flag       bool // takes no argument
	List       bool // each occurrence appends
	Positional bool
}

// BinderOption configures a Binder.
type BinderOption func(*binderConfig)

type binderConfig struct {
	separator string
	name      string
	logger    *slog.Logger
}

// WithSeparator sets the text joining path tokens into long option names.
// The default is "-".
func WithSeparator(sep string) BinderOption {
	return func(c *binderConfig) { c.separator = sep }
}

// WithProgramName sets the name reported by the underlying flag set.
func WithProgramName(name string) BinderOption {
	return func(c *binderConfig) { c.name = name }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) BinderOption {
	return func(c *binderConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Binder maps the leaves of a tree onto POSIX-style command-line options.
// The argv scan (permutation, "--long=value", grouped short flags and the
// "--" terminator) is done by pflag; matched options write back into the
// leaves. A Binder keeps entry IDs only and must not outlive its tree; after
// the tree changes, call Rebuild.
//
// A sequence leaf takes one element per occurrence. Within one Parse call the
// first occurrence replaces the declared default elements and later
// occurrences append, so "--tag a --tag b" yields [a b] whatever the default.
// Options installed through AddTo behave the same way.
type Binder struct {
	tree *Tree
	cfg  binderConfig

	bindings   []Binding
	byShort    map[rune]int
	byLong     map[string]int
	byCode     map[int]int
	positional int

	fs      *pflag.FlagSet
	touched map[ID]bool
	lastErr error
}

// NewBinder derives the option table of t.
func NewBinder(t *Tree, opts ...BinderOption) (*Binder, error) {
	b := &Binder{
		tree: t,
		cfg: binderConfig{
			separator: "-",
			name:      "paramtree",
			logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		positional: -1,
		touched:    make(map[ID]bool),
	}
	for _, opt := range opts {
		opt(&b.cfg)
	}
	if err := b.Rebuild(); err != nil {
		return nil, err
	}
	return b, nil
}

// Rebuild derives the option table again from the current tree. On error
// the previous table stays in place.
func (b *Binder) Rebuild() error {
	var bindings []Binding
	byShort := make(map[rune]int)
	byLong := make(map[string]int)
	byCode := make(map[int]int)
	positional := -1

	err := b.tree.Walk(func(e *Entry) error {
		if e.kind != EntryLeaf {
			return nil
		}
		row := Binding{
			Code:  FirstLongCode + len(bindings),
			Long:  b.longName(e),
			Entry: e.id,
			List:  e.value.IsList(),
			Flag:  e.value.Kind() == KindBool && !e.value.IsList(),
		}
		if !validLongName(row.Long) {
			return fmt.Errorf("%w: --%s for %q", ErrInvalidLongName, row.Long, e.Path())
		}
		if prev, dup := byLong[row.Long]; dup {
			return fmt.Errorf("%w: --%s claimed by %q and %q",
				ErrDuplicateLongName, row.Long, b.pathOf(bindings[prev]), e.Path())
		}
		if sc := e.aspects.Shortcut; sc != 0 {
			if !validShortcut(sc) {
				return fmt.Errorf("%w: %q on %q", ErrInvalidShortcut, sc, e.Path())
			}
			if prev, dup := byShort[sc]; dup {
				return fmt.Errorf("%w: -%c claimed by %q and %q",
					ErrDuplicateShortcut, sc, b.pathOf(bindings[prev]), e.Path())
			}
			row.Short = sc
			byShort[sc] = len(bindings)
		}
		if e.aspects.Positional {
			if positional >= 0 {
				return fmt.Errorf("%w: %q and %q",
					ErrDuplicatePositional, b.pathOf(bindings[positional]), e.Path())
			}
			row.Positional = true
			positional = len(bindings)
		}
		byLong[row.Long] = len(bindings)
		byCode[row.Code] = len(bindings)
		bindings = append(bindings, row)
		return nil
	})
	if err != nil {
		return err
	}

	b.bindings = bindings
	b.byShort = byShort
	b.byLong = byLong
	b.byCode = byCode
	b.positional = positional

	fs := pflag.NewFlagSet(b.cfg.name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	b.install(fs)
	b.fs = fs

	b.cfg.logger.Debug("Built option table.", "options", len(bindings), "positional", positional >= 0)
	return nil
}

// AddTo installs the options into a foreign flag set, e.g. a cobra
// command's. Options are then applied when that flag set parses;
// ApplyPositional handles the remaining arguments.
func (b *Binder) AddTo(fs *pflag.FlagSet) error {
	for _, row := range b.bindings {
		if fs.Lookup(row.Long) != nil {
			return fmt.Errorf("%w: --%s already defined", ErrDuplicateLongName, row.Long)
		}
		if row.Short != 0 && fs.ShorthandLookup(string(row.Short)) != nil {
			return fmt.Errorf("%w: -%c already defined", ErrDuplicateShortcut, row.Short)
		}
	}
	b.install(fs)
	b.fs = fs
	b.touched = make(map[ID]bool)
	return nil
}

// Parse scans args and writes every matched option into its leaf, then
// hands the remaining arguments to the positional binding. An option that
// fails to parse aborts the scan; values written before it are kept.
func (b *Binder) Parse(args []string) error {
	b.touched = make(map[ID]bool)
	b.lastErr = nil

	if err := b.fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		if b.lastErr != nil {
			return b.lastErr
		}
		return fmt.Errorf("%w: %v", ErrCLIParse, err)
	}
	return b.ApplyPositional(b.fs.Args())
}

// ApplyPositional writes unnamed arguments into the positional leaf. A
// scalar leaf takes exactly one argument; a sequence takes all of them.
func (b *Binder) ApplyPositional(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if b.positional < 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrCLIParse, args[0])
	}
	row := b.bindings[b.positional]
	e := b.tree.entries[row.Entry]

	if !row.List && len(args) > 1 {
		return fmt.Errorf("%w: unexpected argument %q", ErrCLIParse, args[1])
	}
	for _, arg := range args {
		if err := b.apply(e, row, arg); err != nil {
			return fmt.Errorf("argument %q for %s: %w", arg, e.Path(), err)
		}
	}
	return nil
}

// Bindings returns a copy of the option table in declaration order.
func (b *Binder) Bindings() []Binding {
	return append([]Binding(nil), b.bindings...)
}

// LookupShort returns the leaf bound to a single-character option.
func (b *Binder) LookupShort(r rune) (*Entry, bool) {
	i, ok := b.byShort[r]
	if !ok {
		return nil, false
	}
	return b.tree.entries[b.bindings[i].Entry], true
}

// LookupLong returns the leaf bound to a long option name.
func (b *Binder) LookupLong(name string) (*Entry, bool) {
	i, ok := b.byLong[name]
	if !ok {
		return nil, false
	}
	return b.tree.entries[b.bindings[i].Entry], true
}

// LookupCode returns the leaf bound to a long option code.
func (b *Binder) LookupCode(code int) (*Entry, bool) {
	i, ok := b.byCode[code]
	if !ok {
		return nil, false
	}
	return b.tree.entries[b.bindings[i].Entry], true
}

// Positional returns the leaf bound to positional arguments, if any.
func (b *Binder) Positional() (*Entry, bool) {
	if b.positional < 0 {
		return nil, false
	}
	return b.tree.entries[b.bindings[b.positional].Entry], true
}

// FlagSet returns the flag set the options are installed in.
func (b *Binder) FlagSet() *pflag.FlagSet { return b.fs }

// Usage renders the option table in declaration order.
func (b *Binder) Usage() string {
	var sb strings.Builder
	sb.WriteString(b.fs.FlagUsages())
	if e, ok := b.Positional(); ok {
		fmt.Fprintf(&sb, "\nArguments:\n  %s  %s\n", positionalName(e), e.aspects.Description)
	}
	return sb.String()
}

func (b *Binder) install(fs *pflag.FlagSet) {
	for _, row := range b.bindings {
		e := b.tree.entries[row.Entry]
		short := ""
		if row.Short != 0 {
			short = string(row.Short)
		}
		f := fs.VarPF(&leafFlag{binder: b, entry: e, row: row}, row.Long, short, usageLine(e))
		f.DefValue = e.defaultText
		if row.Flag {
			f.NoOptDefVal = flagPresent
		}
	}
}

// apply writes one option occurrence. Argument-less presence sets true
// directly; the first occurrence of a sequence option in a scan replaces the
// declared defaults and later ones append.
func (b *Binder) apply(e *Entry, row Binding, text string) error {
	switch {
	case row.Flag && text == flagPresent:
		if err := Set(e.value, true); err != nil {
			return err
		}
	case row.List && !b.touched[e.id]:
		if err := e.ParseList([]string{text}); err != nil {
			return err
		}
		b.touched[e.id] = true
	case row.List:
		if err := e.Append(text); err != nil {
			return err
		}
	default:
		if err := e.Parse(text); err != nil {
			return err
		}
	}
	b.cfg.logger.Debug("Applied option.", "option", row.Long, "path", e.Path(), "value", text)
	return nil
}

func (b *Binder) longName(e *Entry) string {
	tokens := e.Tokens()
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		if t.Kind == TokenIndex {
			parts[i] = strconv.Itoa(t.Index)
		} else {
			parts[i] = t.Name
		}
	}
	return strings.Join(parts, b.cfg.separator)
}

func (b *Binder) pathOf(row Binding) string {
	return b.tree.entries[row.Entry].Path()
}

// validLongName rejects names the scanner cannot match: a leading "-" reads
// as bad syntax and "=" splits off a value.
func validLongName(name string) bool {
	return name != "" && name[0] != '-' && !strings.Contains(name, "=")
}

func validShortcut(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func usageLine(e *Entry) string {
	if e.aspects.Required {
		return e.aspects.Description + " (required)"
	}
	return e.aspects.Description
}

func positionalName(e *Entry) string {
	if e.value.IsList() {
		return e.name + "..."
	}
	return e.name
}

// leafFlag adapts a leaf to pflag.Value.
type leafFlag struct {
	binder *Binder
	entry  *Entry
	row    Binding
}

func (f *leafFlag) String() string {
	if f.entry == nil {
		return ""
	}
	return f.entry.String()
}

// Set is called by the scanner for each occurrence. pflag flattens the
// returned error into text, so the typed error is also kept on the binder.
func (f *leafFlag) Set(text string) error {
	err := f.binder.apply(f.entry, f.row, text)
	if err != nil {
		f.binder.lastErr = fmt.Errorf("option --%s: %w", f.row.Long, err)
	}
	return err
}

func (f *leafFlag) Type() string {
	if f.entry.value.IsList() {
		return f.entry.value.Kind().String() + "s"
	}
	return f.entry.value.Kind().String()
}
