// Package scan provides the character-level scanning layer for the assist
// engine: a tokenizer producing a flat token stream with paren depth, and
// point-in-text predicates that answer what the cursor is "inside".
// Both run off the same State machine so they can never disagree.
package scan

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	// KindWord is a run of [A-Za-z0-9_] characters.
	KindWord Kind = iota
	// KindBracket is a [...] delimited identifier; Value holds the inner
	// text without the brackets.
	KindBracket
	// KindSymbol is a single significant punctuation character: ( ) , .
	KindSymbol
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindBracket:
		return "bracket"
	case KindSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit of the input. Tokens are ordered by Start
// and never overlap. String literals, comments and whitespace produce no
// tokens.
type Token struct {
	Kind  Kind
	Value string
	Start int // byte offset of the first character
	End   int // byte offset just past the last character
	// ParenDepth is the parenthesis nesting depth at the position where
	// the token starts. Never negative.
	ParenDepth int
}

// Is reports whether the token is a word equal to s, case-insensitively.
func (t Token) Is(s string) bool {
	return t.Kind == KindWord && equalFold(t.Value, s)
}

// IsSymbol reports whether the token is the given symbol.
func (t Token) IsSymbol(s string) bool {
	return t.Kind == KindSymbol && t.Value == s
}

// equalFold is an ASCII-only case-insensitive compare. SQL keywords and
// identifiers in this dialect are ASCII.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
