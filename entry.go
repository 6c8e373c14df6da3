// FILE: lixenwraith/paramtree/entry.go
package paramtree

import "fmt"

// ID is the stable arena index of an entry within its tree.
type ID int

// NoID marks the absence of an entry, e.g. the parent of the root.
const NoID ID = -1

// EntryKind tells which variant an entry is.
type EntryKind uint8

const (
	EntryLeaf EntryKind = iota + 1
	EntrySection
	EntryList
)

func (k EntryKind) String() string {
	switch k {
	case EntryLeaf:
		return "leaf"
	case EntrySection:
		return "section"
	case EntryList:
		return "list"
	}
	return "unknown"
}

// Entry is a node of the tree: a leaf holding a Value, a section holding a
// Dictionary, or a list holding an IndexedDictionary.
type Entry struct {
	tree     *Tree
	id       ID
	parent   ID
	name     string // member name, empty for list items and the root
	index    int    // position in the parent list, -1 otherwise
	template bool   // item template of a list, not addressable by path

	kind    EntryKind
	aspects Aspects

	value   *Value
	section *Dictionary
	list    *IndexedDictionary

	defaultText string
	hasDefault  bool
}

func (e *Entry) ID() ID { return e.id }
func (e *Entry) Kind() EntryKind { return e.kind }
func (e *Entry) Name() string { return e.name }
func (e *Entry) Index() int { return e.index }
func (e *Entry) Aspects() Aspects { return e.aspects }
func (e *Entry) Description() string { return e.aspects.Description }
func (e *Entry) Required() bool { return e.aspects.Required }
func (e *Entry) IsSet() bool { return e.aspects.Set }
func (e *Entry) Shortcut() rune { return e.aspects.Shortcut }

// Value returns the cell of a leaf, nil otherwise.
func (e *Entry) Value() *Value { return e.value }

// Section returns the dictionary of a section, nil otherwise.
func (e *Entry) Section() *Dictionary { return e.section }

// List returns the indexed dictionary of a list, nil otherwise.
func (e *Entry) List() *IndexedDictionary { return e.list }

// Parent returns the enclosing entry, or nil for the root.
func (e *Entry) Parent() *Entry {
	if e.parent == NoID {
		return nil
	}
	return e.tree.entries[e.parent]
}

// Default returns the rendering of the value the leaf was declared with.
func (e *Entry) Default() (string, bool) {
	return e.defaultText, e.hasDefault
}

// MarkSet flips the is-set aspect without writing a value.
func (e *Entry) MarkSet() { e.aspects.Set = true }

// Tokens returns the path of the entry from the root.
func (e *Entry) Tokens() []Token {
	var rev []Token
	for cur := e; cur.parent != NoID; cur = e.tree.entries[cur.parent] {
		if cur.index >= 0 || cur.template {
			rev = append(rev, IndexToken(cur.index))
		} else {
			rev = append(rev, NameToken(cur.name))
		}
	}
	tokens := make([]Token, len(rev))
	for i, t := range rev {
		tokens[len(rev)-1-i] = t
	}
	return tokens
}

// Path returns the dotted path of the entry; the root has an empty path.
func (e *Entry) Path() string { return FormatPath(e.Tokens()) }

// Parse sets a leaf from text and marks it set.
func (e *Entry) Parse(text string) error {
	if err := e.requireLeaf(); err != nil {
		return err
	}
	return e.value.Parse(text)
}

// ParseList replaces a sequence leaf from element texts and marks it set.
func (e *Entry) ParseList(texts []string) error {
	if err := e.requireLeaf(); err != nil {
		return err
	}
	return e.value.ParseList(texts)
}

// Append adds one element to a sequence leaf and marks it set.
func (e *Entry) Append(text string) error {
	if err := e.requireLeaf(); err != nil {
		return err
	}
	return e.value.Append(text)
}

// String renders a leaf's current content; non-leaves render empty.
func (e *Entry) String() string {
	if e.value == nil {
		return ""
	}
	return e.value.String()
}

// SetValue writes x into a scalar leaf of type T and marks it set.
func SetValue[T Scalar](e *Entry, x T) error {
	if err := e.requireLeaf(); err != nil {
		return err
	}
	return Set(e.value, x)
}

func (e *Entry) requireLeaf() error {
	if e.kind != EntryLeaf {
		return fmt.Errorf("%w: %q is a %s, not a leaf", ErrTypeMismatch, e.Path(), e.kind)
	}
	return nil
}
