// File: lixenwraith/paramtree/helper.go
package paramtree

import (
	"sort"
	"strings"
)

// nestedOf converts the subtree under e into nested maps. Sections become
// map[string]any, lists become []map[string]any, and leaves become their
// content as rendered by leaf. Leaves that were never initialized are left out.
func nestedOf(e *Entry, leaf func(v *Value) any) any {
	switch e.kind {
	case EntryLeaf:
		return leaf(e.value)
	case EntrySection:
		out := make(map[string]any, e.section.Len())
		for _, child := range e.section.Entries() {
			if child.kind == EntryLeaf && !child.value.IsInitialized() {
				continue
			}
			out[child.name] = nestedOf(child, leaf)
		}
		return out
	case EntryList:
		items := make([]map[string]any, 0, e.list.Len())
		for _, item := range e.list.Items() {
			m, _ := nestedOf(item, leaf).(map[string]any)
			items = append(items, m)
		}
		return items
	}
	return nil
}

// sortedKeys returns the keys of m in lexical order so that maps are applied
// deterministically.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// joinPath appends a segment to a dotted path.
func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

// isValidKeySegment checks if a single path segment is a valid TOML bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 || strings.ContainsRune(s, '.') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}
