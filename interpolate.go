// FILE: lixenwraith/paramtree/interpolate.go
package paramtree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Interpolator rewrites the raw text of a path cell, typically substituting
// variables. It runs lazily on first read and its result is cached.
type Interpolator func(raw string) (string, error)

// SetInterpolator installs fn on a path cell and drops any cached result.
// A nil fn restores identity reads.
func (v *Value) SetInterpolator(fn Interpolator) error {
	if v.kind != KindPath {
		return fmt.Errorf("%w: interpolation needs a path cell, have %s", ErrTypeMismatch, v.TypeName())
	}
	v.interp = fn
	v.cached = false
	v.cache = nil
	return nil
}

// Interpolated returns the interpolated content of a scalar path cell.
func (v *Value) Interpolated() (string, error) {
	if err := v.check(KindPath, false); err != nil {
		return "", err
	}
	out, err := v.interpolate()
	if err != nil {
		return "", err
	}
	return out[0], nil
}

// InterpolatedList returns the interpolated elements of a path sequence.
func (v *Value) InterpolatedList() ([]string, error) {
	if err := v.check(KindPath, true); err != nil {
		return nil, err
	}
	out, err := v.interpolate()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), out...), nil
}

func (v *Value) interpolate() ([]string, error) {
	if v.cached {
		return v.cache, nil
	}
	raw := v.Strings()
	out := make([]string, len(raw))
	for i, s := range raw {
		if v.interp == nil {
			out[i] = s
			continue
		}
		expanded, err := v.interp(s)
		if err != nil {
			return nil, fmt.Errorf("failed to interpolate %q: %w", s, err)
		}
		out[i] = expanded
	}
	v.cache = out
	v.cached = true
	return out, nil
}

// ExpandEnv substitutes $VAR and ${VAR} from the environment and a leading
// "~" with the user's home directory.
func ExpandEnv(raw string) (string, error) {
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		raw = home + raw[1:]
	}
	return os.ExpandEnv(raw), nil
}

// ExpandMap returns an Interpolator substituting from vars. Unknown names fail.
func ExpandMap(vars map[string]string) Interpolator {
	return func(raw string) (string, error) {
		var missing string
		out := os.Expand(raw, func(name string) string {
			val, ok := vars[name]
			if !ok && missing == "" {
				missing = name
			}
			return val
		})
		if missing != "" {
			return "", fmt.Errorf("undefined variable %q", missing)
		}
		return out, nil
	}
}

// ReadDir lists the directory named by a scalar path cell.
func (v *Value) ReadDir() ([]os.DirEntry, error) {
	dir, err := v.Interpolated()
	if err != nil {
		return nil, err
	}
	return os.ReadDir(dir)
}

// Glob matches pattern inside the directory named by a scalar path cell.
func (v *Value) Glob(pattern string) ([]string, error) {
	dir, err := v.Interpolated()
	if err != nil {
		return nil, err
	}
	return filepath.Glob(filepath.Join(dir, pattern))
}

// Exists reports whether the location named by a scalar path cell exists.
func (v *Value) Exists() bool {
	p, err := v.Interpolated()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}
