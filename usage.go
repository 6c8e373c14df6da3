// FILE: lixenwraith/paramtree/usage.go
package paramtree

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// UsageEntry is the reference record of one leaf.
type UsageEntry struct {
	Path        string
	Description string
	Kind        Kind
	List        bool
	Default     string
	HasDefault  bool
	Required    bool
	Shortcut    rune
}

// TypeName renders the declared type of the leaf.
func (u UsageEntry) TypeName() string {
	if u.List {
		return "[]" + u.Kind.String()
	}
	return u.Kind.String()
}

// Usage lists every leaf depth-first in declaration order. Leaves of list
// item templates are included with a "#N" index token.
func (t *Tree) Usage() []UsageEntry {
	var out []UsageEntry
	_ = t.walk(t.entries[0], true, func(e *Entry) error {
		if e.kind != EntryLeaf {
			return nil
		}
		out = append(out, UsageEntry{
			Path:        e.Path(),
			Description: e.aspects.Description,
			Kind:        e.value.Kind(),
			List:        e.value.IsList(),
			Default:     e.defaultText,
			HasDefault:  e.hasDefault,
			Required:    e.aspects.Required,
			Shortcut:    e.aspects.Shortcut,
		})
		return nil
	})
	return out
}

// WriteUsage renders the usage table as aligned columns.
func (t *Tree) WriteUsage(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tTYPE\tDEFAULT\tDESCRIPTION")
	for _, u := range t.Usage() {
		def := "-"
		if u.HasDefault {
			def = u.Default
			if def == "" {
				def = `""`
			}
		}
		desc := u.Description
		if u.Shortcut != 0 {
			desc = fmt.Sprintf("[-%c] %s", u.Shortcut, desc)
		}
		if u.Required {
			desc += " (required)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Path, u.TypeName(), def, desc)
	}
	return tw.Flush()
}
