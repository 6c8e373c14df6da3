// FILE: lixenwraith/paramtree/path.go
package paramtree

import (
	"errors"
	"strconv"
	"strings"
)

// Token pool sizing for Tokenize. The pool starts small and doubles on
// overflow, re-tokenizing from scratch, until MaxPathTokens.
const (
	initialTokenCap = 4
	MaxPathTokens   = 64
)

var errTokenPoolFull = errors.New("token pool full")

// TokenKind distinguishes named and indexed path tokens.
type TokenKind uint8

const (
	TokenName TokenKind = iota
	TokenIndex
)

// Token is one step of a path: a name into a section or an index into a list.
type Token struct {
	Kind  TokenKind
	Name  string
	Index int
}

// NameToken returns a token addressing a section member.
func NameToken(name string) Token { return Token{Kind: TokenName, Name: name} }

// IndexToken returns a token addressing a list item.
func IndexToken(i int) Token { return Token{Kind: TokenIndex, Index: i} }

func (t Token) String() string {
	if t.Kind == TokenName {
		return t.Name
	}
	if t.Index < 0 {
		// item template placeholder
		return "#N"
	}
	return "#" + strconv.Itoa(t.Index)
}

// FormatPath renders tokens back into path syntax.
func FormatPath(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, ".")
}

// Tokenize splits a path such as "servers.#2.host" into tokens.
// Tokens are separated by '.', may contain ASCII letters, digits, '-' and
// '_', and a leading '#' turns a token of digits into an index.
func Tokenize(path string) ([]Token, error) {
	for capacity := initialTokenCap; ; capacity *= 2 {
		tokens, err := tokenizeInto(path, make([]Token, 0, capacity))
		var pe *PathError
		if !errors.As(err, &pe) || !errors.Is(pe.Err, errTokenPoolFull) {
			return tokens, err
		}
		if capacity >= MaxPathTokens {
			return nil, &PathError{Path: path, Pos: pe.Pos, Err: ErrPathTooLong}
		}
	}
}

func tokenizeInto(path string, pool []Token) ([]Token, error) {
	if path == "" {
		return nil, &PathError{Path: path, Pos: 0, Err: ErrInvalidPath}
	}

	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			c := path[i]
			if c == '#' && i == start {
				continue
			}
			if !isTokenChar(c) {
				return nil, &PathError{Path: path, Pos: i, Err: ErrInvalidPath}
			}
			continue
		}

		tok, err := makeToken(path, start, i)
		if err != nil {
			return nil, err
		}
		if len(pool) == cap(pool) {
			return nil, &PathError{Path: path, Pos: start, Err: errTokenPoolFull}
		}
		pool = append(pool, tok)
		start = i + 1
	}
	return pool, nil
}

func makeToken(path string, start, end int) (Token, error) {
	raw := path[start:end]
	if raw == "" {
		return Token{}, &PathError{Path: path, Pos: start, Err: ErrInvalidPath}
	}
	if raw[0] != '#' {
		return NameToken(raw), nil
	}

	digits := raw[1:]
	if digits == "" {
		return Token{}, &PathError{Path: path, Pos: end, Err: ErrInvalidPath}
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return Token{}, &PathError{Path: path, Pos: start + 1 + j, Err: ErrInvalidPath}
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Token{}, &PathError{Path: path, Pos: start + 1, Err: ErrInvalidPath}
	}
	return IndexToken(n), nil
}

// validName checks that name can be addressed as a single name token.
func validName(name string) error {
	if name == "" {
		return &PathError{Path: name, Pos: 0, Err: ErrInvalidPath}
	}
	for i := 0; i < len(name); i++ {
		if !isTokenChar(name[i]) {
			return &PathError{Path: name, Pos: i, Err: ErrInvalidPath}
		}
	}
	return nil
}

func isTokenChar(c byte) bool {
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	isDigit := c >= '0' && c <= '9'
	return isLetter || isDigit || c == '-' || c == '_'
}
