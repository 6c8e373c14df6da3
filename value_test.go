// FILE: lixenwraith/paramtree/value_test.go
package paramtree

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValueRoundTrip checks that rendering and re-parsing restores the value
func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cell *Value
	}{
		{"Int", Default(-42)},
		{"Int8Min", Default[int8](math.MinInt8)},
		{"Int64Max", Default[int64](math.MaxInt64)},
		{"Uint16", Default[uint16](65535)},
		{"Uint64Max", Default[uint64](math.MaxUint64)},
		{"Float32", Default[float32](0.1)},
		{"Float64", Default(2.5e-300)},
		{"Bool", Default(true)},
		{"CharPrintable", Default(Char('x'))},
		{"CharDigit", Default(Char('7'))},
		{"CharControl", Default(Char(7))},
		{"String", Default("hello, world")},
		{"EmptyString", Default("")},
		{"Path", Default(FilePath("/var/log/app"))},
		{"IntList", DefaultList(1, -2, 3)},
		{"StringListQuoted", DefaultList("a", "b,c", " d", `e"f`)},
		{"StringListEmptyElement", DefaultList("")},
		{"StringListCRLF", DefaultList("a\r\nb", "c\r", "\rd")},
		{"PathListCRLF", DefaultList[FilePath]("x\r\ny", "z")},
		{"StringListPrivateUse", DefaultList("\uE000\r\n", "\uE001")},
		{"EmptyList", DefaultList[string]()},
		{"CharList", DefaultList(Char('a'), Char(0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh := tt.cell.Clone()
			require.NoError(t, fresh.Parse(tt.cell.String()))
			assert.Equal(t, tt.cell.Interface(), fresh.Interface())
		})
	}
}

// TestValueParseErrors tests integral and float range handling
func TestValueParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		cell  *Value
		text  string
		sent  error
		bound Bound
	}{
		{"Uint8Overflow", Empty[uint8](), "256", ErrRange, Overflow},
		{"Uint8Negative", Empty[uint8](), "-1", ErrRange, Underflow},
		{"Int8Underflow", Empty[int8](), "-129", ErrRange, Underflow},
		{"Int8Overflow", Empty[int8](), "128", ErrRange, Overflow},
		{"Float64Overflow", Empty[float64](), "1e400", ErrRange, Overflow},
		{"Float64NegativeOverflow", Empty[float64](), "-1e400", ErrRange, Underflow},
		{"Uint8Letters", Empty[uint8](), "abc", ErrParse, 0},
		{"Uint8Empty", Empty[uint8](), "", ErrParse, 0},
		{"IntTrailing", Empty[int](), "12x", ErrParse, 0},
		{"BoolUnknown", Empty[bool](), "maybe", ErrParse, 0},
		{"CharTooWide", Empty[Char](), "300", ErrRange, Overflow},
		{"CharEmpty", Empty[Char](), "", ErrParse, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cell.Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sent), "got %v", err)
			assert.False(t, tt.cell.IsInitialized(), "failed parse must not write")

			if tt.sent == ErrRange {
				var re *RangeError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, tt.bound, re.Bound)
				assert.Equal(t, tt.cell.Kind(), re.Kind)
			}
		})
	}
}

func TestValueParseAccepted(t *testing.T) {
	t.Run("NumeralBases", func(t *testing.T) {
		v := Empty[int]()
		require.NoError(t, v.Parse("0x1f"))
		got, err := Get[int](v)
		require.NoError(t, err)
		assert.Equal(t, 31, got)

		require.NoError(t, v.Parse("0o17"))
		got, _ = Get[int](v)
		assert.Equal(t, 15, got)
	})

	t.Run("UnsignedNegativeZero", func(t *testing.T) {
		v := Empty[uint]()
		require.NoError(t, v.Parse("-0"))
		got, _ := Get[uint](v)
		assert.Equal(t, uint(0), got)
	})

	t.Run("BoolTokens", func(t *testing.T) {
		for text, want := range map[string]bool{
			"true": true, "YES": true, "On": true, "1": true, "y": true,
			"false": false, "No": false, "OFF": false, "0": false, "F": false,
		} {
			v := Empty[bool]()
			require.NoError(t, v.Parse(text), text)
			got, _ := Get[bool](v)
			assert.Equal(t, want, got, text)
		}
	})

	t.Run("CharLiteralAndNumeral", func(t *testing.T) {
		v := Empty[Char]()
		require.NoError(t, v.Parse("7"))
		got, _ := Get[Char](v)
		assert.Equal(t, Char('7'), got)

		require.NoError(t, v.Parse("0x41"))
		got, _ = Get[Char](v)
		assert.Equal(t, Char('A'), got)
		assert.Equal(t, "A", v.String())

		require.NoError(t, v.Parse("9"))
		require.NoError(t, v.Parse("10"))
		got, _ = Get[Char](v)
		assert.Equal(t, Char(10), got)
		assert.Equal(t, "0x0a", v.String())
	})
}

func TestValueTypedAccess(t *testing.T) {
	t.Run("MismatchedScalar", func(t *testing.T) {
		v := Default[uint16](80)
		_, err := Get[int](v)
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.ErrorIs(t, Set(v, "80"), ErrTypeMismatch)

		_, err = GetList[uint16](v)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("MismatchedList", func(t *testing.T) {
		v := DefaultList("a")
		_, err := Get[string](v)
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.ErrorIs(t, Set(v, "b"), ErrTypeMismatch)
	})

	t.Run("EmptyHasZeroContent", func(t *testing.T) {
		v := Empty[string]()
		assert.False(t, v.IsInitialized())
		got, err := Get[string](v)
		require.NoError(t, err)
		assert.Equal(t, "", got)

		require.NoError(t, Set(v, "x"))
		assert.True(t, v.IsInitialized())
	})

	t.Run("GetListCopies", func(t *testing.T) {
		v := DefaultList(1, 2)
		got, err := GetList[int](v)
		require.NoError(t, err)
		got[0] = 99

		again, _ := GetList[int](v)
		assert.Equal(t, []int{1, 2}, again)
	})

	t.Run("TypeName", func(t *testing.T) {
		assert.Equal(t, "uint16", Default[uint16](1).TypeName())
		assert.Equal(t, "[]path", EmptyList[FilePath]().TypeName())
		assert.Equal(t, 3, DefaultList(1, 2, 3).Len())
	})
}

func TestValueSequences(t *testing.T) {
	t.Run("ParseRecord", func(t *testing.T) {
		v := EmptyList[string]()
		require.NoError(t, v.Parse(`a, "b,c", d`))
		got, _ := GetList[string](v)
		assert.Equal(t, []string{"a", "b,c", "d"}, got)
		assert.Equal(t, `a,"b,c",d`, v.String())
	})

	t.Run("ParseListIsAtomic", func(t *testing.T) {
		v := DefaultList(1, 2)
		err := v.ParseList([]string{"3", "x"})
		assert.ErrorIs(t, err, ErrParse)

		got, _ := GetList[int](v)
		assert.Equal(t, []int{1, 2}, got)
	})

	t.Run("AppendKeepsExisting", func(t *testing.T) {
		v := DefaultList[uint8](1)
		require.NoError(t, v.Append("2"))
		assert.ErrorIs(t, v.Append("256"), ErrRange)

		got, _ := GetList[uint8](v)
		assert.Equal(t, []uint8{1, 2}, got)
	})

	t.Run("MultipleRecordsRejected", func(t *testing.T) {
		v := EmptyList[string]()
		err := v.Parse("a\nb")
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("ScalarRejectsListOps", func(t *testing.T) {
		v := Default(1)
		assert.ErrorIs(t, v.ParseList([]string{"1"}), ErrTypeMismatch)
		assert.ErrorIs(t, v.Append("1"), ErrTypeMismatch)
	})
}

func TestValueClone(t *testing.T) {
	v := DefaultList("a", "b")
	c := v.Clone()
	require.NoError(t, c.Append("c"))

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 3, c.Len())
}
