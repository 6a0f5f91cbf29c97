package scan

// State is the shared scanning state machine. It tracks the mutually
// exclusive quoted/bracketed/comment states plus the paren depth, advancing
// one construct at a time over raw text. The tokenizer and every predicate
// drive the same transitions, which keeps their answers consistent for any
// input, including unterminated constructs.
type State struct {
	InSingleQuote  bool
	InDoubleQuote  bool
	InBracket      bool
	InLineComment  bool
	InBlockComment bool

	// ParenDepth counts unclosed parens outside quotes, brackets and
	// comments. A stray ')' never takes it below zero.
	ParenDepth int

	// BracketStart is the offset of the '[' that opened the current
	// bracket state. Meaningful only while InBracket.
	BracketStart int
}

// InAny reports whether the scanner is inside any quoted, bracketed or
// comment construct.
func (s *State) InAny() bool {
	return s.InSingleQuote || s.InDoubleQuote || s.InBracket || s.InLineComment || s.InBlockComment
}

// InString reports whether the scanner is inside a quoted string.
func (s *State) InString() bool {
	return s.InSingleQuote || s.InDoubleQuote
}

// InComment reports whether the scanner is inside a line or block comment.
func (s *State) InComment() bool {
	return s.InLineComment || s.InBlockComment
}

// Advance consumes the construct starting at text[i] and returns the index
// of the next unconsumed character. Two-character markers (--, /*, */, the
// doubled '' escape) are consumed as a unit so a scan can never stop in the
// middle of one.
func (s *State) Advance(text string, i int) int {
	ch := text[i]

	switch {
	case s.InLineComment:
		if ch == '\n' {
			s.InLineComment = false
		}
		return i + 1

	case s.InBlockComment:
		if ch == '*' && i+1 < len(text) && text[i+1] == '/' {
			s.InBlockComment = false
			return i + 2
		}
		return i + 1

	case s.InSingleQuote:
		if ch == '\'' {
			if i+1 < len(text) && text[i+1] == '\'' {
				// Doubled quote escape, still inside the string.
				return i + 2
			}
			s.InSingleQuote = false
		}
		return i + 1

	case s.InDoubleQuote:
		if ch == '"' {
			s.InDoubleQuote = false
		}
		return i + 1

	case s.InBracket:
		if ch == ']' {
			s.InBracket = false
		}
		return i + 1
	}

	switch ch {
	case '-':
		if i+1 < len(text) && text[i+1] == '-' {
			s.InLineComment = true
			return i + 2
		}
	case '/':
		if i+1 < len(text) && text[i+1] == '*' {
			s.InBlockComment = true
			return i + 2
		}
	case '\'':
		s.InSingleQuote = true
	case '"':
		s.InDoubleQuote = true
	case '[':
		s.InBracket = true
		s.BracketStart = i
	case '(':
		s.ParenDepth++
	case ')':
		if s.ParenDepth > 0 {
			s.ParenDepth--
		}
	}
	return i + 1
}

// Walk scans text from the beginning up to (not including) limit and
// returns the resulting state. Limit values outside [0, len(text)] are
// clamped.
func Walk(text string, limit int) State {
	if limit < 0 {
		limit = 0
	}
	if limit > len(text) {
		limit = len(text)
	}

	var s State
	for i := 0; i < limit; {
		i = s.Advance(text, i)
	}
	return s
}

// MatchingParen returns the offset of the ')' matching the '(' at open,
// skipping parens inside strings, brackets and comments. If the paren is
// never closed it returns len(text), per the unterminated-runs-to-end rule.
func MatchingParen(text string, open int) int {
	if open < 0 || open >= len(text) || text[open] != '(' {
		return len(text)
	}

	var s State
	depth := 0
	for i := open; i < len(text); {
		if !s.InAny() {
			switch text[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i
				}
			}
		}
		i = s.Advance(text, i)
	}
	return len(text)
}
