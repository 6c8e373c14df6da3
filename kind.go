// FILE: lixenwraith/paramtree/kind.go
package paramtree

import "strconv"

// Kind is the runtime type tag of a value cell. The set is closed.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindChar
	KindString
	KindPath
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint:    "uint",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindChar:    "char",
	KindString:  "string",
	KindPath:    "path",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// FilePath is a string naming a filesystem location. Path cells support
// lazy interpolation and directory helpers.
type FilePath string

// Char is a character-typed 8-bit value. A single character of input is
// taken literally instead of being read as a numeral.
type Char byte

// Scalar is the set of Go types a cell can hold, alone or as a sequence.
type Scalar interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 | bool | Char | string | FilePath
}

func kindOf[T Scalar]() Kind {
	var zero T
	switch any(zero).(type) {
	case int:
		return KindInt
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case uint:
		return KindUint
	case uint8:
		return KindUint8
	case uint16:
		return KindUint16
	case uint32:
		return KindUint32
	case uint64:
		return KindUint64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case bool:
		return KindBool
	case Char:
		return KindChar
	case string:
		return KindString
	case FilePath:
		return KindPath
	}
	return KindInvalid
}

// bits returns the declared width of numeric kinds.
func (k Kind) bits() int {
	switch k {
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8, KindChar:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
	return 0
}

func (k Kind) isSigned() bool {
	return k >= KindInt && k <= KindInt64
}

func (k Kind) isUnsigned() bool {
	return k >= KindUint && k <= KindUint64
}

func (k Kind) isFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}
