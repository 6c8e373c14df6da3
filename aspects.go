// FILE: lixenwraith/paramtree/aspects.go
package paramtree

// Aspects is the metadata attached to every entry. Everything except Set is
// fixed at insertion.
type Aspects struct {
	Description string
	Required    bool
	Set         bool // a value was supplied, even one equal to the default
	Shortcut    rune // single-character CLI option, 0 for none
	Positional  bool // leaf receives the unnamed command-line arguments
}

// AspectOption adjusts aspects at declaration time.
type AspectOption func(*Aspects)

// Required marks a leaf that must be set by some source.
func Required() AspectOption {
	return func(a *Aspects) { a.Required = true }
}

// Shortcut assigns a single-character command-line option.
func Shortcut(r rune) AspectOption {
	return func(a *Aspects) { a.Shortcut = r }
}

// Positional binds a leaf to the positional command-line arguments.
func Positional() AspectOption {
	return func(a *Aspects) { a.Positional = true }
}

// NewAspects builds an aspect record from a description and options.
func NewAspects(description string, opts ...AspectOption) Aspects {
	a := Aspects{Description: description}
	for _, opt := range opts {
		if opt != nil {
			opt(&a)
		}
	}
	return a
}
