// FILE: lixenwraith/paramtree/errors.go
package paramtree

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below unwrap to one of these, so callers can
// always test with errors.Is.
var (
	// Tree construction
	ErrDuplicateName       = errors.New("duplicate name")
	ErrNonConsecutiveIndex = errors.New("list index out of sequence")

	// Builder
	ErrStructureMismatch = errors.New("section structure mismatch")
	ErrUnbalancedSection = errors.New("unbalanced section end")
	ErrUnclosedSection   = errors.New("unclosed section")

	// Lookup and paths
	ErrNotFound     = errors.New("entry not found")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrInvalidPath  = errors.New("invalid path")
	ErrPathTooLong  = errors.New("path too long")

	// Value parsing
	ErrParse = errors.New("parse error")
	ErrRange = errors.New("value out of range")

	// Binder
	ErrDuplicateShortcut   = errors.New("duplicate shortcut")
	ErrDuplicateLongName   = errors.New("duplicate long option name")
	ErrDuplicatePositional = errors.New("more than one positional binding")
	ErrInvalidShortcut     = errors.New("invalid shortcut")
	ErrInvalidLongName     = errors.New("invalid long option name")
	ErrCLIParse            = errors.New("failed to parse command-line arguments")

	// Validation and sources
	ErrMissingRequired = errors.New("missing required value")
	ErrConfigNotFound  = errors.New("configuration file not found")
	ErrUnknownFormat   = errors.New("unknown configuration format")
)

// Bound tells which side of a numeric range a value fell off.
type Bound int

const (
	Overflow Bound = iota
	Underflow
)

func (b Bound) String() string {
	if b == Underflow {
		return "underflow"
	}
	return "overflow"
}

// RangeError reports a numeral that is well-formed but does not fit the
// declared width of its kind.
type RangeError struct {
	Kind  Kind
	Text  string
	Bound Bound
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %q does not fit %s (%s)", ErrRange, e.Text, e.Kind, e.Bound)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// ParseError reports text that cannot be read as a value of Kind.
type ParseError struct {
	Kind Kind
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: cannot read %q as %s", ErrParse, e.Text, e.Kind)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// PathError reports a malformed path. Pos is the byte offset of the offending
// character, or of the token that could not be accepted.
type PathError struct {
	Path string
	Pos  int
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v: %q at position %d", e.Err, e.Path, e.Pos)
}

func (e *PathError) Unwrap() error { return e.Err }

// MissingRequiredError lists every required leaf that was never set.
type MissingRequiredError struct {
	Paths []string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequired, strings.Join(e.Paths, ", "))
}

func (e *MissingRequiredError) Unwrap() error { return ErrMissingRequired }
