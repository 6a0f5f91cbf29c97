package scan

import (
	"regexp"
	"strings"
)

// The predicates answer point-in-text questions for a cursor offset by
// re-running the shared state machine from the start of the input. They are
// pure, allocation-light, and safe on any malformed input.

// InString reports whether the offset is inside a quoted string.
func InString(text string, offset int) bool {
	s := Walk(text, offset)
	return s.InString()
}

// InComment reports whether the offset is inside a line or block comment.
func InComment(text string, offset int) bool {
	s := Walk(text, offset)
	return s.InComment()
}

// InBrackets reports whether the offset is inside a [...] identifier.
func InBrackets(text string, offset int) bool {
	s := Walk(text, offset)
	return s.InBracket
}

// OpenBracketBefore returns the offset of the '[' that the given offset is
// inside, or -1 when the offset is not inside a bracketed identifier.
func OpenBracketBefore(text string, offset int) int {
	s := Walk(text, offset)
	if !s.InBracket {
		return -1
	}
	return s.BracketStart
}

var comparisonTail = regexp.MustCompile(`(=|!=|<>|<=|>=|<|>)\s*$`)

// AfterComparisonOperator reports whether the text immediately before the
// offset ends with a comparison operator, allowing trailing whitespace.
func AfterComparisonOperator(text string, offset int) bool {
	if offset < 0 {
		return false
	}
	if offset > len(text) {
		offset = len(text)
	}
	return comparisonTail.MatchString(text[:offset])
}

// InFunctionParens reports whether the offset sits inside the argument
// parens of a function call. It collects every paren still open at the
// offset and checks, innermost first, whether the token immediately before
// the '(' is a word that is not a control keyword. A bare '(' or a control
// keyword defers to the next enclosing paren, which is what makes nested
// calls like LOWER(TRIM( work.
func InFunctionParens(text string, offset int) bool {
	opens := openParensBefore(text, offset)
	if len(opens) == 0 {
		return false
	}

	tokens := Tokenize(text)
	for i := len(opens) - 1; i >= 0; i-- {
		word, ok := tokenBefore(tokens, opens[i])
		if !ok || word.Kind != KindWord {
			continue
		}
		if !IsControlKeyword(word.Value) {
			return true
		}
	}
	return false
}

// openParensBefore returns the offsets of the parens still open at the
// given offset, outermost first.
func openParensBefore(text string, offset int) []int {
	if offset > len(text) {
		offset = len(text)
	}

	var (
		s     State
		stack []int
	)
	for i := 0; i < offset; {
		if !s.InAny() {
			switch text[i] {
			case '(':
				stack = append(stack, i)
			case ')':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		}
		i = s.Advance(text, i)
	}
	return stack
}

// tokenBefore returns the last token ending at or before the offset.
func tokenBefore(tokens []Token, offset int) (Token, bool) {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].End <= offset {
			return tokens[i], true
		}
	}
	return Token{}, false
}

// CurrentWord returns the identifier run immediately before the offset, or
// the trimmed interior of the bracketed identifier the offset is inside.
func CurrentWord(text string, offset int) string {
	if offset < 0 {
		return ""
	}
	if offset > len(text) {
		offset = len(text)
	}

	if open := OpenBracketBefore(text, offset); open >= 0 {
		return strings.TrimSpace(text[open+1 : offset])
	}

	start := offset
	for start > 0 && isWordChar(text[start-1]) {
		start--
	}
	return text[start:offset]
}
