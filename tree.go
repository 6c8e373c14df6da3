// FILE: lixenwraith/paramtree/tree.go
package paramtree

import (
	"fmt"
)

// Tree owns every entry of a parameter hierarchy in a single arena. Entries
// are addressed by ID; the root section is always ID 0. A Tree is not safe
// for concurrent mutation.
type Tree struct {
	entries []*Entry
}

// New creates a tree holding only an empty root section.
func New() *Tree {
	t := &Tree{}
	root := t.alloc(EntrySection, "", NoID, Aspects{})
	root.section = newDictionary(t, root.id)
	return t
}

// Root returns the top-level dictionary.
func (t *Tree) Root() *Dictionary { return t.entries[0].section }

// RootEntry returns the root section entry.
func (t *Tree) RootEntry() *Entry { return t.entries[0] }

// Entry returns the entry with the given ID.
func (t *Tree) Entry(id ID) (*Entry, bool) {
	if id < 0 || int(id) >= len(t.entries) {
		return nil, false
	}
	return t.entries[id], true
}

// Lookup resolves a path string from the root.
func (t *Tree) Lookup(path string) (*Entry, error) {
	tokens, err := Tokenize(path)
	if err != nil {
		return nil, err
	}
	return t.Root().Lookup(tokens...)
}

// SetString resolves path and sets the leaf found there from text. This is
// the entry point for every external source of values.
func (t *Tree) SetString(path, text string) error {
	e, err := t.Lookup(path)
	if err != nil {
		return err
	}
	if err := e.Parse(text); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ValueAt returns the content of the scalar leaf at path.
func ValueAt[T Scalar](t *Tree, path string) (T, error) {
	var zero T
	e, err := t.Lookup(path)
	if err != nil {
		return zero, err
	}
	if err := e.requireLeaf(); err != nil {
		return zero, err
	}
	return Get[T](e.value)
}

// ListAt returns the content of the sequence leaf at path.
func ListAt[T Scalar](t *Tree, path string) ([]T, error) {
	e, err := t.Lookup(path)
	if err != nil {
		return nil, err
	}
	if err := e.requireLeaf(); err != nil {
		return nil, err
	}
	return GetList[T](e.value)
}

// Walk visits every addressable entry depth-first in declaration order.
// List item templates are not visited.
func (t *Tree) Walk(fn func(e *Entry) error) error {
	return t.walk(t.entries[0], false, fn)
}

// Leaves returns every addressable leaf in declaration order.
func (t *Tree) Leaves() []*Entry {
	var leaves []*Entry
	_ = t.Walk(func(e *Entry) error {
		if e.kind == EntryLeaf {
			leaves = append(leaves, e)
		}
		return nil
	})
	return leaves
}

func (t *Tree) walk(e *Entry, templates bool, fn func(e *Entry) error) error {
	var children []ID
	switch e.kind {
	case EntrySection:
		for _, name := range e.section.order {
			children = append(children, e.section.names[name])
		}
	case EntryList:
		if templates {
			children = append(children, e.list.template)
		}
		children = append(children, e.list.items...)
	}

	for _, id := range children {
		child := t.entries[id]
		if child.template && !templates {
			continue
		}
		// The template itself is structure, not a declared entry.
		if !child.template {
			if err := fn(child); err != nil {
				return err
			}
		}
		if err := t.walk(child, templates, fn); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy: the same structure and IDs, aspects copied by
// value, and fresh storage for every value.
func (t *Tree) Clone() *Tree {
	c := &Tree{entries: make([]*Entry, len(t.entries))}
	for i, e := range t.entries {
		ne := new(Entry)
		*ne = *e
		ne.tree = c
		if e.value != nil {
			ne.value = e.value.Clone()
			ne.value.owner = ne
		}
		if e.section != nil {
			ne.section = e.section.clone(c)
		}
		if e.list != nil {
			ne.list = e.list.clone(c)
		}
		c.entries[i] = ne
	}
	return c
}

func (t *Tree) alloc(kind EntryKind, name string, parent ID, aspects Aspects) *Entry {
	e := &Entry{
		tree:    t,
		id:      ID(len(t.entries)),
		parent:  parent,
		name:    name,
		index:   -1,
		kind:    kind,
		aspects: aspects,
	}
	t.entries = append(t.entries, e)
	return e
}

// copySubtree duplicates src and everything below it into fresh entries
// under parent. Used to materialize list items from their template.
func (t *Tree) copySubtree(src *Entry, parent ID) *Entry {
	dst := t.alloc(src.kind, src.name, parent, src.aspects)
	dst.defaultText, dst.hasDefault = src.defaultText, src.hasDefault

	switch src.kind {
	case EntryLeaf:
		dst.value = src.value.Clone()
		dst.value.owner = dst
	case EntrySection:
		dst.section = newDictionary(t, dst.id)
		for _, name := range src.section.order {
			child := t.copySubtree(t.entries[src.section.names[name]], dst.id)
			dst.section.names[name] = child.id
			dst.section.order = append(dst.section.order, name)
		}
	case EntryList:
		tmpl := t.copySubtree(t.entries[src.list.template], dst.id)
		tmpl.template = true
		dst.list = &IndexedDictionary{tree: t, owner: dst.id, template: tmpl.id}
		for i, id := range src.list.items {
			item := t.copySubtree(t.entries[id], dst.id)
			item.index = i
			dst.list.items = append(dst.list.items, item.id)
		}
	}
	return dst
}

// Dictionary maps unique names to entries. Declaration order is kept for
// traversal; lookup does not depend on it.
type Dictionary struct {
	tree  *Tree
	owner ID
	names map[string]ID
	order []string
}

func newDictionary(t *Tree, owner ID) *Dictionary {
	return &Dictionary{tree: t, owner: owner, names: make(map[string]ID)}
}

// Len returns the number of members.
func (d *Dictionary) Len() int { return len(d.order) }

// Names returns member names in declaration order.
func (d *Dictionary) Names() []string { return append([]string(nil), d.order...) }

// Get returns the member called name.
func (d *Dictionary) Get(name string) (*Entry, bool) {
	id, ok := d.names[name]
	if !ok {
		return nil, false
	}
	return d.tree.entries[id], true
}

// Entries returns members in declaration order.
func (d *Dictionary) Entries() []*Entry {
	out := make([]*Entry, len(d.order))
	for i, name := range d.order {
		out[i] = d.tree.entries[d.names[name]]
	}
	return out
}

// InsertLeaf adds a leaf holding v. A value that already belongs to another
// entry is copied rather than shared.
func (d *Dictionary) InsertLeaf(name string, v *Value, aspects Aspects) (*Entry, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value for %q", ErrTypeMismatch, name)
	}
	if err := d.checkName(name); err != nil {
		return nil, err
	}
	if v.owner != nil {
		v = v.Clone()
	}

	e := d.tree.alloc(EntryLeaf, name, d.owner, aspects)
	e.value = v
	v.owner = e
	if v.initialized {
		e.defaultText, e.hasDefault = v.String(), true
	}
	d.add(name, e)
	return e, nil
}

// InsertSection adds an empty nested section.
func (d *Dictionary) InsertSection(name string, aspects Aspects) (*Entry, error) {
	if err := d.checkName(name); err != nil {
		return nil, err
	}
	e := d.tree.alloc(EntrySection, name, d.owner, aspects)
	e.section = newDictionary(d.tree, e.id)
	d.add(name, e)
	return e, nil
}

// InsertList adds an empty list of structures. Members declared in its
// Template are copied into every item.
func (d *Dictionary) InsertList(name string, aspects Aspects) (*Entry, error) {
	if err := d.checkName(name); err != nil {
		return nil, err
	}
	e := d.tree.alloc(EntryList, name, d.owner, aspects)
	tmpl := d.tree.alloc(EntrySection, "", e.id, Aspects{})
	tmpl.template = true
	tmpl.section = newDictionary(d.tree, tmpl.id)
	e.list = &IndexedDictionary{tree: d.tree, owner: e.id, template: tmpl.id}
	d.add(name, e)
	return e, nil
}

// Lookup walks tokens relative to this dictionary. With no tokens it returns
// the dictionary's own entry.
func (d *Dictionary) Lookup(tokens ...Token) (*Entry, error) {
	cur := d.tree.entries[d.owner]
	for i, tok := range tokens {
		switch cur.kind {
		case EntrySection:
			if tok.Kind != TokenName {
				return nil, fmt.Errorf("%w: index %s applied to section %q", ErrTypeMismatch, tok, FormatPath(tokens[:i]))
			}
			id, ok := cur.section.names[tok.Name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrNotFound, FormatPath(tokens[:i+1]))
			}
			cur = d.tree.entries[id]
		case EntryList:
			if tok.Kind != TokenIndex {
				return nil, fmt.Errorf("%w: name %q applied to list %q", ErrTypeMismatch, tok.Name, FormatPath(tokens[:i]))
			}
			if tok.Index < 0 || tok.Index >= len(cur.list.items) {
				return nil, fmt.Errorf("%w: %q", ErrNotFound, FormatPath(tokens[:i+1]))
			}
			cur = d.tree.entries[cur.list.items[tok.Index]]
		default:
			return nil, fmt.Errorf("%w: leaf %q has no member %s", ErrTypeMismatch, FormatPath(tokens[:i]), tok)
		}
	}
	return cur, nil
}

func (d *Dictionary) checkName(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, exists := d.names[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return nil
}

func (d *Dictionary) add(name string, e *Entry) {
	d.names[name] = e.id
	d.order = append(d.order, name)
}

func (d *Dictionary) clone(t *Tree) *Dictionary {
	c := &Dictionary{tree: t, owner: d.owner, names: make(map[string]ID, len(d.names))}
	for name, id := range d.names {
		c.names[name] = id
	}
	c.order = append([]string(nil), d.order...)
	return c
}

// IndexedDictionary is an append-only list of structures. Items are indexed
// from 0 without gaps.
type IndexedDictionary struct {
	tree     *Tree
	owner    ID
	template ID
	items    []ID
}

// Len returns the number of items.
func (l *IndexedDictionary) Len() int { return len(l.items) }

// At returns the item at index i.
func (l *IndexedDictionary) At(i int) (*Entry, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.tree.entries[l.items[i]], true
}

// Items returns the items in index order.
func (l *IndexedDictionary) Items() []*Entry {
	out := make([]*Entry, len(l.items))
	for i, id := range l.items {
		out[i] = l.tree.entries[id]
	}
	return out
}

// Template returns the dictionary every new item is copied from.
func (l *IndexedDictionary) Template() *Dictionary {
	return l.tree.entries[l.template].section
}

// Insert creates the item at index, which must equal Len.
func (l *IndexedDictionary) Insert(index int) (*Entry, error) {
	if index != len(l.items) {
		return nil, fmt.Errorf("%w: insert at %d, next index is %d", ErrNonConsecutiveIndex, index, len(l.items))
	}
	item := l.tree.copySubtree(l.tree.entries[l.template], l.owner)
	item.index = index
	l.items = append(l.items, item.id)
	return item, nil
}

// Append creates the next item.
func (l *IndexedDictionary) Append() (*Entry, error) {
	return l.Insert(len(l.items))
}

func (l *IndexedDictionary) clone(t *Tree) *IndexedDictionary {
	return &IndexedDictionary{
		tree:     t,
		owner:    l.owner,
		template: l.template,
		items:    append([]ID(nil), l.items...),
	}
}
