// FILE: lixenwraith/paramtree/parse.go
package paramtree

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// parseScalar reads text as a single value of kind k. The returned value has
// the Go type that kindOf maps to k.
func parseScalar(k Kind, text string) (any, error) {
	switch {
	case k.isSigned():
		return parseSigned(k, text)
	case k.isUnsigned():
		return parseUnsigned(k, text)
	case k.isFloat():
		return parseFloat(k, text)
	}

	switch k {
	case KindChar:
		// A lone character is the character itself, "7" included.
		if len(text) == 1 {
			return Char(text[0]), nil
		}
		n, err := parseUnsigned(KindUint8, text)
		if err != nil {
			return nil, retag(err, KindChar)
		}
		return Char(n.(uint8)), nil
	case KindBool:
		return parseBool(text)
	case KindString:
		return text, nil
	case KindPath:
		return FilePath(text), nil
	}
	return nil, &ParseError{Kind: k, Text: text}
}

func parseSigned(k Kind, text string) (any, error) {
	if text == "" {
		return nil, &ParseError{Kind: k, Text: text}
	}
	n, err := strconv.ParseInt(text, 0, k.bits())
	if err != nil {
		return nil, numeralError(k, text, err)
	}
	switch k {
	case KindInt:
		return int(n), nil
	case KindInt8:
		return int8(n), nil
	case KindInt16:
		return int16(n), nil
	case KindInt32:
		return int32(n), nil
	}
	return n, nil
}

func parseUnsigned(k Kind, text string) (any, error) {
	if text == "" {
		return nil, &ParseError{Kind: k, Text: text}
	}
	if strings.HasPrefix(text, "-") {
		// A well-formed negative numeral is below the range of any unsigned kind.
		n, err := strconv.ParseInt(text, 0, 64)
		switch {
		case err == nil && n == 0:
			text = "0"
		case err == nil || errors.Is(err, strconv.ErrRange):
			return nil, &RangeError{Kind: k, Text: text, Bound: Underflow}
		default:
			return nil, &ParseError{Kind: k, Text: text}
		}
	}
	n, err := strconv.ParseUint(text, 0, k.bits())
	if err != nil {
		return nil, numeralError(k, text, err)
	}
	switch k {
	case KindUint:
		return uint(n), nil
	case KindUint8:
		return uint8(n), nil
	case KindUint16:
		return uint16(n), nil
	case KindUint32:
		return uint32(n), nil
	}
	return n, nil
}

func parseFloat(k Kind, text string) (any, error) {
	if text == "" {
		return nil, &ParseError{Kind: k, Text: text}
	}
	f, err := strconv.ParseFloat(text, k.bits())
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			bound := Overflow
			if f < 0 {
				bound = Underflow
			}
			return nil, &RangeError{Kind: k, Text: text, Bound: bound}
		}
		return nil, &ParseError{Kind: k, Text: text}
	}
	if k == KindFloat32 {
		return float32(f), nil
	}
	return f, nil
}

func parseBool(text string) (any, error) {
	switch cases.Fold().String(text) {
	case "true", "t", "1", "yes", "y", "on":
		return true, nil
	case "false", "f", "0", "no", "n", "off":
		return false, nil
	}
	return nil, &ParseError{Kind: KindBool, Text: text}
}

// numeralError maps strconv failures onto RangeError or ParseError.
func numeralError(k Kind, text string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		bound := Overflow
		if strings.HasPrefix(text, "-") {
			bound = Underflow
		}
		return &RangeError{Kind: k, Text: text, Bound: bound}
	}
	return &ParseError{Kind: k, Text: text}
}

func retag(err error, k Kind) error {
	var re *RangeError
	if errors.As(err, &re) {
		return &RangeError{Kind: k, Text: re.Text, Bound: re.Bound}
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return &ParseError{Kind: k, Text: pe.Text}
	}
	return err
}

// formatScalar is the inverse of parseScalar.
func formatScalar(v any) string {
	switch x := v.(type) {
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case Char:
		return formatChar(x)
	case string:
		return x
	case FilePath:
		return string(x)
	}
	return fmt.Sprint(v)
}

// formatChar renders printable ASCII literally and everything else as a
// hex numeral, which is never a single character and so parses back as a number.
func formatChar(c Char) string {
	if c > ' ' && c < 0x7f {
		return string(rune(c))
	}
	return fmt.Sprintf("0x%02x", byte(c))
}

// splitRecord reads one CSV record, the text form of a sequence. Carriage
// returns inside fields are kept; encoding/csv would drop the one before a
// newline.
func splitRecord(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	var cr string
	if strings.ContainsRune(text, '\r') {
		text = strings.TrimSuffix(text, "\r\n")
		cr = string(unusedRune(text))
		text = strings.ReplaceAll(text, "\r", cr)
	}
	r := csv.NewReader(strings.NewReader(text))
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return nil, err
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("sequence text holds more than one record")
	}
	if cr != "" {
		for i, f := range fields {
			fields[i] = strings.ReplaceAll(f, cr, "\r")
		}
	}
	return fields, nil
}

// unusedRune returns a private-use rune that does not occur in text.
func unusedRune(text string) rune {
	r := rune(0xE000)
	for strings.ContainsRune(text, r) {
		r++
	}
	return r
}

func joinRecord(fields []string) string {
	if len(fields) == 1 && fields[0] == "" {
		return `""`
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	// Writes to a strings.Builder cannot fail.
	_ = w.Write(fields)
	w.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}
