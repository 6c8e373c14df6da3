// FILE: lixenwraith/paramtree/builder.go
package paramtree

import (
	"fmt"
	"strings"
)

// frame is one open section on the builder stack.
type frame struct {
	name  string
	entry *Entry
}

// Builder provides a fluent interface for declaring a tree once, at startup.
// The first error is kept and every later call becomes a no-op; Err and
// Finalize report it.
type Builder struct {
	tree  *Tree
	stack []frame
	err   error
}

// NewBuilder creates a builder over a fresh tree.
func NewBuilder() *Builder {
	return &Builder{tree: New()}
}

// BeginSection declares a subsection of the current section and opens it.
func (b *Builder) BeginSection(name, description string, opts ...AspectOption) *Builder {
	if b.err != nil {
		return b
	}
	e, err := b.current().InsertSection(name, NewAspects(description, opts...))
	if err != nil {
		return b.fail(err)
	}
	b.stack = append(b.stack, frame{name: name, entry: e})
	return b
}

// BeginStructList declares a list of structures and opens its item template.
// Leaves declared until the matching EndSection describe each item.
func (b *Builder) BeginStructList(name, description string, opts ...AspectOption) *Builder {
	if b.err != nil {
		return b
	}
	e, err := b.current().InsertList(name, NewAspects(description, opts...))
	if err != nil {
		return b.fail(err)
	}
	b.stack = append(b.stack, frame{name: name, entry: e})
	return b
}

// EndSection closes the innermost open section. If expected is given it must
// name that section.
func (b *Builder) EndSection(expected ...string) *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 0 {
		return b.fail(fmt.Errorf("%w: no section is open", ErrUnbalancedSection))
	}
	top := b.stack[len(b.stack)-1]
	if len(expected) > 0 && expected[0] != top.name {
		return b.fail(fmt.Errorf("%w: closing %q while %q is open", ErrStructureMismatch, expected[0], top.name))
	}
	b.stack = b.stack[:len(b.stack)-1]
	return b
}

// DeclareLeaf adds a leaf holding v to the current section.
func (b *Builder) DeclareLeaf(name, description string, v *Value, opts ...AspectOption) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := b.current().InsertLeaf(name, v, NewAspects(description, opts...)); err != nil {
		return b.fail(err)
	}
	return b
}

// DeclareList adds a sequence leaf to the current section. v must be a
// sequence cell, see DefaultList and EmptyList.
func (b *Builder) DeclareList(name, description string, v *Value, opts ...AspectOption) *Builder {
	if b.err != nil {
		return b
	}
	if v == nil || !v.IsList() {
		return b.fail(fmt.Errorf("%w: list %q needs a sequence value", ErrTypeMismatch, name))
	}
	return b.DeclareLeaf(name, description, v, opts...)
}

// Depth returns the number of open sections.
func (b *Builder) Depth() int { return len(b.stack) }

// Tree returns the tree under construction.
func (b *Builder) Tree() *Tree { return b.tree }

// Err returns the first error recorded so far.
func (b *Builder) Err() error { return b.err }

// Finalize returns the finished tree. Every opened section must be closed.
func (b *Builder) Finalize() (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) > 0 {
		open := make([]string, len(b.stack))
		for i, f := range b.stack {
			open[i] = f.name
		}
		return nil, fmt.Errorf("%w: %s", ErrUnclosedSection, strings.Join(open, "."))
	}
	return b.tree, nil
}

// MustFinalize is like Finalize but panics on error.
func (b *Builder) MustFinalize() *Tree {
	t, err := b.Finalize()
	if err != nil {
		panic(fmt.Sprintf("paramtree build failed: %v", err))
	}
	return t
}

// current returns the dictionary receiving the next declaration.
func (b *Builder) current() *Dictionary {
	if len(b.stack) == 0 {
		return b.tree.Root()
	}
	top := b.stack[len(b.stack)-1].entry
	if top.kind == EntryList {
		return top.list.Template()
	}
	return top.section
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}
