// FILE: lixenwraith/paramtree/hcl.go
package paramtree

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// decodeHCL turns an HCL document into the generic mapping the loader
// applies. Attributes become keys; a block becomes a nested table under its
// type, further nested under each label. Repeated unlabeled blocks of the
// same type become a list of tables.
//
//	server { port = 8080 }
//	listener { addr = ":80" }
//	listener { addr = ":443" }
func decodeHCL(data []byte, filename string) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL: unexpected body %T", file.Body)
	}
	return hclBodyToMap(body)
}

func hclBodyToMap(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attr := body.Attributes[name]
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("attribute %q: %w", name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = native
	}

	for _, block := range body.Blocks {
		inner, err := hclBodyToMap(block.Body)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", block.Type, err)
		}

		if len(block.Labels) == 0 {
			switch prev := out[block.Type].(type) {
			case nil:
				out[block.Type] = inner
			case map[string]any:
				out[block.Type] = []any{prev, inner}
			case []any:
				out[block.Type] = append(prev, inner)
			default:
				return nil, fmt.Errorf("block %q conflicts with an attribute", block.Type)
			}
			continue
		}

		keys := append([]string{block.Type}, block.Labels...)
		target := out
		for _, key := range keys[:len(keys)-1] {
			next, ok := target[key].(map[string]any)
			if !ok {
				if target[key] != nil {
					return nil, fmt.Errorf("block %q conflicts with an attribute", key)
				}
				next = make(map[string]any)
				target[key] = next
			}
			target = next
		}
		last := keys[len(keys)-1]
		if prev, ok := target[last].(map[string]any); ok {
			mergeMaps(prev, inner)
		} else {
			target[last] = inner
		}
	}
	return out, nil
}

// mergeMaps copies src into dst, merging nested tables.
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeMaps(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}

// ctyToNative converts an evaluated HCL value into plain Go values. Whole
// numbers that fit become int64, other numbers float64.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = native
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported HCL type %s", ty.FriendlyName())
}
