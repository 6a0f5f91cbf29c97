package scan

// Tokenize scans input left to right and returns the token stream. Quoted
// strings and comments are consumed without emitting tokens; a bracketed
// identifier is emitted as a single bracket token holding the inner text;
// parens, commas and dots are symbol tokens; identifier runs are word
// tokens. Everything else, including whitespace, is skipped. Malformed
// input never fails: unterminated strings, comments and brackets simply
// extend to the end of the input.
func Tokenize(input string) []Token {
	var (
		tokens []Token
		s      State
	)

	for i := 0; i < len(input); {
		if s.InAny() {
			i = s.Advance(input, i)
			continue
		}

		ch := input[i]
		switch {
		case ch == '-' && i+1 < len(input) && input[i+1] == '-',
			ch == '/' && i+1 < len(input) && input[i+1] == '*',
			ch == '\'', ch == '"':
			i = s.Advance(input, i)

		case ch == '[':
			start := i
			depth := s.ParenDepth
			i = s.Advance(input, i)
			for i < len(input) && s.InBracket {
				i = s.Advance(input, i)
			}
			end := i
			inner := input[start+1 : end]
			if end > start+1 && input[end-1] == ']' {
				inner = input[start+1 : end-1]
			}
			tokens = append(tokens, Token{
				Kind:       KindBracket,
				Value:      inner,
				Start:      start,
				End:        end,
				ParenDepth: depth,
			})

		case ch == '(' || ch == ')' || ch == ',' || ch == '.':
			// Record the depth at the symbol's own position: a paren
			// pair brackets its contents, so '(' and its matching ')'
			// both carry the outer depth.
			depth := s.ParenDepth
			if ch == ')' && depth > 0 {
				depth--
			}
			tokens = append(tokens, Token{
				Kind:       KindSymbol,
				Value:      input[i : i+1],
				Start:      i,
				End:        i + 1,
				ParenDepth: depth,
			})
			i = s.Advance(input, i)

		case isWordChar(ch):
			start := i
			for i < len(input) && isWordChar(input[i]) {
				i++
			}
			tokens = append(tokens, Token{
				Kind:       KindWord,
				Value:      input[start:i],
				Start:      start,
				End:        i,
				ParenDepth: s.ParenDepth,
			})

		default:
			i++
		}
	}

	return tokens
}

// isWordChar reports whether c is part of an identifier run.
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}
