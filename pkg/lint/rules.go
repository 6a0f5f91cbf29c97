package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlassist/pkg/scan"
)

// selectClauseRule checks the statement's overall SELECT...FROM shape.
type selectClauseRule struct{}

func (r *selectClauseRule) Name() string { return "select-clause" }

func (r *selectClauseRule) Check(in Input) []Diagnostic {
	sel := findToken(in.Tokens, "select", 0)
	if sel == nil {
		return []Diagnostic{anchorFirst(in, Diagnostic{
			Rule:     r.Name(),
			Message:  "statement is missing a SELECT clause",
			Severity: SeverityPrereq,
		})}
	}

	from := findTokenAfter(in.Tokens, "from", 0, sel.End)
	listEnd := len(in.SQL)
	if from != nil {
		listEnd = from.Start
	}

	var (
		diags      []Diagnostic
		hasColumns bool
	)
	for _, seg := range splitSegments(in.SQL[sel.End:listEnd], sel.End) {
		switch classifySegment(in.SQL, seg) {
		case segmentColumn:
			hasColumns = true
		case segmentBareLiteral:
			diags = append(diags, Diagnostic{
				Rule:     r.Name(),
				Message:  "literal SELECT expression requires an alias",
				Severity: SeverityError,
				Start:    seg.start,
				End:      seg.end,
			})
		}
	}

	if !hasColumns {
		return diags
	}
	if from == nil {
		diags = append(diags, Diagnostic{
			Rule:     r.Name(),
			Message:  "statement is missing a FROM clause",
			Severity: SeverityPrereq,
			Start:    sel.Start,
			End:      sel.End,
		})
		return diags
	}
	if !hasAnyTable(in) {
		diags = append(diags, Diagnostic{
			Rule:     r.Name(),
			Message:  "FROM clause has no table reference",
			Severity: SeverityPrereq,
			Start:    from.Start,
			End:      from.End,
		})
	}
	return diags
}

type segment struct {
	start int
	end   int
}

type segmentKind int

const (
	segmentBlank segmentKind = iota
	segmentColumn
	segmentBareLiteral
	segmentAliasedLiteral
)

// classifySegment decides what one select-list segment projects. A
// segment with no tokens but non-blank text is a string literal, since
// the tokenizer skips quoted strings. "*" counts as a column.
func classifySegment(sql string, seg segment) segmentKind {
	text := sql[seg.start:seg.end]
	if strings.TrimSpace(text) == "" {
		return segmentBlank
	}

	tokens := scan.Tokenize(text)
	aliased := false
	for i, tok := range tokens {
		if tok.Is("as") && i+1 < len(tokens) {
			aliased = true
			continue
		}
		if tok.Kind == scan.KindBracket {
			return segmentColumn
		}
		if tok.Kind == scan.KindWord && !scan.IsKeyword(tok.Value) &&
			!(tok.Value[0] >= '0' && tok.Value[0] <= '9') {
			if aliased && i == len(tokens)-1 {
				// The alias itself does not make the expression a column.
				break
			}
			return segmentColumn
		}
	}
	if strings.Contains(text, "*") {
		return segmentColumn
	}
	if aliased {
		return segmentAliasedLiteral
	}
	return segmentBareLiteral
}

// splitSegments splits a select list on top-level commas, returning
// trimmed absolute spans.
func splitSegments(text string, base int) []segment {
	var (
		segs  []segment
		st    scan.State
		start int
	)
	emit := func(from, to int) {
		for from < to && isSpace(text[from]) {
			from++
		}
		for to > from && isSpace(text[to-1]) {
			to--
		}
		segs = append(segs, segment{start: base + from, end: base + to})
	}

	for i := 0; i < len(text); {
		if !st.InAny() && st.ParenDepth == 0 && text[i] == ',' {
			emit(start, i)
			start = i + 1
			i++
			continue
		}
		i = st.Advance(text, i)
	}
	emit(start, len(text))
	return segs
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// duplicateAliasRule flags table aliases reused within the statement.
type duplicateAliasRule struct{}

func (r *duplicateAliasRule) Name() string { return "duplicate-table-alias" }

func (r *duplicateAliasRule) Check(in Input) []Diagnostic {
	var diags []Diagnostic
	seen := map[string]bool{}

	for _, ref := range in.Refs {
		if ref.IsSubquery || ref.Alias == "" {
			continue
		}
		key := strings.ToLower(ref.Alias)
		if seen[key] {
			diags = append(diags, Diagnostic{
				Rule:     r.Name(),
				Message:  fmt.Sprintf("duplicate table alias %q", ref.Alias),
				Severity: SeverityError,
				Start:    ref.AliasStart,
				End:      ref.AliasEnd,
			})
			continue
		}
		seen[key] = true
	}
	return diags
}

// notEqualStyleRule flags the legacy <> operator outside strings,
// comments and brackets.
type notEqualStyleRule struct{}

func (r *notEqualStyleRule) Name() string { return "not-equal-style" }

func (r *notEqualStyleRule) Check(in Input) []Diagnostic {
	var (
		diags []Diagnostic
		st    scan.State
	)
	for i := 0; i < len(in.SQL); {
		if !st.InAny() && in.SQL[i] == '<' && i+1 < len(in.SQL) && in.SQL[i+1] == '>' {
			diags = append(diags, Diagnostic{
				Rule:     r.Name(),
				Message:  "prefer != over <>",
				Severity: SeverityWarning,
				Start:    i,
				End:      i + 2,
			})
			i += 2
			continue
		}
		i = st.Advance(in.SQL, i)
	}
	return diags
}

// aggregateInWhereRule flags aggregate calls placed directly in a WHERE
// clause. Aggregates inside a nested subquery belong to that subquery's
// own clauses and are not flagged here.
type aggregateInWhereRule struct{}

func (r *aggregateInWhereRule) Name() string { return "aggregate-in-where" }

var aggregateFunctions = map[string]bool{
	"count": true, "sum": true, "avg": true, "min": true, "max": true,
}

var whereClauseEnders = map[string]bool{
	"group": true, "order": true, "having": true, "union": true,
}

func (r *aggregateInWhereRule) Check(in Input) []Diagnostic {
	var diags []Diagnostic

	for i, tok := range in.Tokens {
		if !tok.Is("where") {
			continue
		}
		depth := tok.ParenDepth

		for j := i + 1; j < len(in.Tokens); j++ {
			t := in.Tokens[j]
			if t.ParenDepth < depth {
				break
			}
			if t.ParenDepth == depth && t.Kind == scan.KindWord && whereClauseEnders[strings.ToLower(t.Value)] {
				break
			}
			if t.ParenDepth != depth || t.Kind != scan.KindWord {
				continue
			}
			if !aggregateFunctions[strings.ToLower(t.Value)] {
				continue
			}
			// A plain identifier that happens to spell an aggregate is
			// fine; only a call counts.
			if j+1 >= len(in.Tokens) || !in.Tokens[j+1].IsSymbol("(") {
				continue
			}
			diags = append(diags, Diagnostic{
				Rule:     r.Name(),
				Message:  fmt.Sprintf("aggregate %s() is not allowed in WHERE; use HAVING", strings.ToUpper(t.Value)),
				Severity: SeverityError,
				Start:    t.Start,
				End:      t.End,
			})
		}
	}
	return diags
}

// findToken returns the first token at the given depth matching word.
func findToken(tokens []scan.Token, word string, depth int) *scan.Token {
	return findTokenAfter(tokens, word, depth, 0)
}

func findTokenAfter(tokens []scan.Token, word string, depth, start int) *scan.Token {
	for i := range tokens {
		if tokens[i].Start < start || tokens[i].ParenDepth != depth {
			continue
		}
		if tokens[i].Is(word) {
			return &tokens[i]
		}
	}
	return nil
}

func hasAnyTable(in Input) bool {
	for _, ref := range in.Refs {
		if !ref.IsSubquery {
			return true
		}
	}
	return false
}

// anchorFirst anchors a statement-level diagnostic at the first token, or
// at the text start when there are no tokens.
func anchorFirst(in Input, d Diagnostic) Diagnostic {
	if len(in.Tokens) > 0 {
		d.Start = in.Tokens[0].Start
		d.End = in.Tokens[0].End
	}
	return d
}
