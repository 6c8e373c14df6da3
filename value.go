// FILE: lixenwraith/paramtree/value.go
package paramtree

import (
	"fmt"
)

// Value is a typed cell. Its kind and its scalar-or-sequence shape are fixed
// at construction; content changes on every successful write.
type Value struct {
	kind        Kind
	list        bool
	scalar      any
	items       []any
	initialized bool

	interp Interpolator
	cache  []string
	cached bool

	owner *Entry // entry whose is-set aspect flips on write
}

// Default creates an initialized scalar cell holding v.
func Default[T Scalar](v T) *Value {
	return &Value{kind: kindOf[T](), scalar: v, initialized: true}
}

// Empty creates an uninitialized scalar cell of type T.
func Empty[T Scalar]() *Value {
	var zero T
	return &Value{kind: kindOf[T](), scalar: zero}
}

// DefaultList creates an initialized sequence cell holding vs.
func DefaultList[T Scalar](vs ...T) *Value {
	items := make([]any, len(vs))
	for i, v := range vs {
		items[i] = v
	}
	return &Value{kind: kindOf[T](), list: true, items: items, initialized: true}
}

// EmptyList creates an uninitialized sequence cell of element type T.
func EmptyList[T Scalar]() *Value {
	return &Value{kind: kindOf[T](), list: true}
}

// Kind returns the type tag (the element tag for sequences).
func (v *Value) Kind() Kind { return v.kind }

// IsList reports whether the cell holds a sequence.
func (v *Value) IsList() bool { return v.list }

// IsInitialized reports whether the cell has a default or has been written.
func (v *Value) IsInitialized() bool { return v.initialized }

// Len returns the number of sequence elements, or 1 for a scalar.
func (v *Value) Len() int {
	if v.list {
		return len(v.items)
	}
	return 1
}

// TypeName renders the declared type, e.g. "uint16" or "[]string".
func (v *Value) TypeName() string {
	if v.list {
		return "[]" + v.kind.String()
	}
	return v.kind.String()
}

// Get returns the content of a scalar cell of type T.
func Get[T Scalar](v *Value) (T, error) {
	var zero T
	if err := v.check(kindOf[T](), false); err != nil {
		return zero, err
	}
	x, _ := v.scalar.(T)
	return x, nil
}

// GetList returns a copy of the content of a sequence cell of element type T.
func GetList[T Scalar](v *Value) ([]T, error) {
	if err := v.check(kindOf[T](), true); err != nil {
		return nil, err
	}
	out := make([]T, len(v.items))
	for i, item := range v.items {
		out[i] = item.(T)
	}
	return out, nil
}

// Set writes x into a scalar cell of type T.
func Set[T Scalar](v *Value, x T) error {
	if err := v.check(kindOf[T](), false); err != nil {
		return err
	}
	v.scalar = x
	v.touch()
	return nil
}

// SetList replaces the content of a sequence cell of element type T.
func SetList[T Scalar](v *Value, xs []T) error {
	if err := v.check(kindOf[T](), true); err != nil {
		return err
	}
	items := make([]any, len(xs))
	for i, x := range xs {
		items[i] = x
	}
	v.items = items
	v.touch()
	return nil
}

// Parse sets the cell from its text form. A sequence reads one CSV record.
// On failure the cell is left untouched.
func (v *Value) Parse(text string) error {
	if !v.list {
		x, err := parseScalar(v.kind, text)
		if err != nil {
			return err
		}
		v.scalar = x
		v.touch()
		return nil
	}

	fields, err := splitRecord(text)
	if err != nil {
		return fmt.Errorf("%w: %v", &ParseError{Kind: v.kind, Text: text}, err)
	}
	return v.ParseList(fields)
}

// ParseList replaces a sequence with one element per text. All elements are
// validated before anything is written.
func (v *Value) ParseList(texts []string) error {
	if !v.list {
		return fmt.Errorf("%w: %s cell is not a sequence", ErrTypeMismatch, v.TypeName())
	}
	items := make([]any, 0, len(texts))
	for _, text := range texts {
		x, err := parseScalar(v.kind, text)
		if err != nil {
			return err
		}
		items = append(items, x)
	}
	v.items = items
	v.touch()
	return nil
}

// Append parses text as one element and adds it to the end of a sequence.
func (v *Value) Append(text string) error {
	if !v.list {
		return fmt.Errorf("%w: %s cell is not a sequence", ErrTypeMismatch, v.TypeName())
	}
	x, err := parseScalar(v.kind, text)
	if err != nil {
		return err
	}
	v.items = append(v.items, x)
	v.touch()
	return nil
}

// String renders the content so that Parse(String()) restores it.
func (v *Value) String() string {
	if v.list {
		return joinRecord(v.Strings())
	}
	return formatScalar(v.scalar)
}

// Strings renders each element of a sequence, or the scalar as one element.
func (v *Value) Strings() []string {
	if !v.list {
		return []string{formatScalar(v.scalar)}
	}
	out := make([]string, len(v.items))
	for i, item := range v.items {
		out[i] = formatScalar(item)
	}
	return out
}

// Interface returns the content as a native Go value: the scalar itself, or
// a fresh []any for sequences.
func (v *Value) Interface() any {
	if v.list {
		out := make([]any, len(v.items))
		copy(out, v.items)
		return out
	}
	return v.scalar
}

// Clone returns an independent copy that belongs to no entry.
func (v *Value) Clone() *Value {
	c := *v
	c.owner = nil
	if v.items != nil {
		c.items = make([]any, len(v.items))
		copy(c.items, v.items)
	}
	if v.cache != nil {
		c.cache = make([]string, len(v.cache))
		copy(c.cache, v.cache)
	}
	return &c
}

func (v *Value) check(k Kind, list bool) error {
	if v.kind == k && v.list == list {
		return nil
	}
	want := k.String()
	if list {
		want = "[]" + want
	}
	return fmt.Errorf("%w: cell holds %s, requested %s", ErrTypeMismatch, v.TypeName(), want)
}

func (v *Value) touch() {
	v.initialized = true
	v.cached = false
	v.cache = nil
	if v.owner != nil {
		v.owner.aspects.Set = true
	}
}
