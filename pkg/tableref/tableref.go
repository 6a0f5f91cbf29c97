// Package tableref extracts table references from a token stream: the
// tables and subqueries introduced by FROM and JOIN, their aliases, and the
// scope depth they live at. It tolerates incomplete and malformed input;
// anything it cannot make sense of is skipped rather than reported.
package tableref

import (
	"strings"

	"github.com/leapstack-labs/sqlassist/pkg/scan"
)

// SharedPrefix is the qualifier that addresses tables in the shared parent
// account folder. A bare "ent.Name" reference folds into one qualified
// reference rather than an alias lookup.
const SharedPrefix = "ENT."

// TableReference is a single table or subquery introduced by FROM or JOIN.
type TableReference struct {
	// Name is the bare table name, without the shared prefix and without
	// brackets. Empty for subqueries.
	Name string
	// QualifiedName is the name including the ENT. prefix when present.
	QualifiedName string
	// Alias is the alias if one follows the reference, else empty.
	Alias string

	// Start and End delimit the name portion of the reference (the
	// bracket pair, the qualified name, or the subquery parens),
	// half-open. The alias span is carried separately.
	Start int
	End   int
	// AliasStart and AliasEnd delimit the alias token; both are -1 when
	// there is no alias.
	AliasStart int
	AliasEnd   int

	IsBracketed bool
	IsSubquery  bool

	// ScopeDepth is the paren depth of the FROM/JOIN keyword that
	// introduced this reference.
	ScopeDepth int

	// OutputFields is the ordered, deduplicated projected field list of a
	// subquery. Nil for plain tables.
	OutputFields []string
}

// DisplayName returns the alias when set, else the qualified name.
func (r TableReference) DisplayName() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.QualifiedName
}

// Contains reports whether the offset falls within the reference's name
// span, boundaries included.
func (r TableReference) Contains(offset int) bool {
	return offset >= r.Start && offset <= r.End
}

// ExtractAll tokenizes sql and extracts its table references.
func ExtractAll(sql string) []TableReference {
	return Extract(sql, scan.Tokenize(sql))
}

// Extract walks the token stream for FROM/JOIN keywords and collects the
// table references they introduce.
func Extract(sql string, tokens []scan.Token) []TableReference {
	var refs []TableReference

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.Is("from") && !tok.Is("join") {
			continue
		}

		j := i + 1
		// Tolerate stray commas between the keyword and the table.
		for j < len(tokens) && tokens[j].IsSymbol(",") {
			j++
		}
		if j >= len(tokens) {
			break
		}

		if tokens[j].IsSymbol("(") {
			ref, _ := extractSubquery(sql, tokens, j, tok.ParenDepth)
			refs = append(refs, ref)
			// Keep scanning inside the subquery so its own FROM/JOIN
			// references register at their scope depth.
			i = j
			continue
		}

		ref, ok, next := extractTable(tokens, j, tok.ParenDepth)
		if ok {
			refs = append(refs, ref)
		}
		i = next - 1
	}

	return refs
}

// extractTable reads a plain table reference starting at tokens[j].
// Returns the reference, whether one was found, and the index of the first
// unconsumed token.
func extractTable(tokens []scan.Token, j int, depth int) (TableReference, bool, int) {
	tok := tokens[j]

	switch tok.Kind {
	case scan.KindWord:
		if scan.IsKeyword(tok.Value) {
			return TableReference{}, false, j
		}
	case scan.KindBracket:
		// Bracketed names are always identifiers.
	default:
		return TableReference{}, false, j + 1
	}

	ref := TableReference{
		Name:          tok.Value,
		QualifiedName: tok.Value,
		Start:         tok.Start,
		End:           tok.End,
		AliasStart:    -1,
		AliasEnd:      -1,
		IsBracketed:   tok.Kind == scan.KindBracket,
		ScopeDepth:    depth,
	}
	next := j + 1

	// Fold "ent.Name" into a single shared-prefix reference.
	if tok.Kind == scan.KindWord && strings.EqualFold(tok.Value, "ent") &&
		j+2 < len(tokens) && tokens[j+1].IsSymbol(".") &&
		(tokens[j+2].Kind == scan.KindWord || tokens[j+2].Kind == scan.KindBracket) &&
		!(tokens[j+2].Kind == scan.KindWord && scan.IsKeyword(tokens[j+2].Value)) {
		inner := tokens[j+2]
		ref.Name = inner.Value
		ref.QualifiedName = SharedPrefix + inner.Value
		ref.End = inner.End
		ref.IsBracketed = inner.Kind == scan.KindBracket
		next = j + 3
	}

	next = extractAlias(tokens, next, depth, &ref)
	return ref, true, next
}

// extractAlias reads an optional alias (with or without AS) at tokens[k]
// into ref and returns the index of the first unconsumed token.
func extractAlias(tokens []scan.Token, k int, depth int, ref *TableReference) int {
	if k < len(tokens) && tokens[k].Is("as") {
		k++
	}
	if k >= len(tokens) {
		return k
	}

	tok := tokens[k]
	if tok.ParenDepth != depth {
		return k
	}
	switch tok.Kind {
	case scan.KindWord:
		if scan.IsKeyword(tok.Value) {
			return k
		}
	case scan.KindBracket:
	default:
		return k
	}

	ref.Alias = tok.Value
	ref.AliasStart = tok.Start
	ref.AliasEnd = tok.End
	return k + 1
}

// extractSubquery reads a parenthesized subquery starting at the '(' token
// tokens[j], including its projected field list and optional alias.
func extractSubquery(sql string, tokens []scan.Token, j int, depth int) (TableReference, int) {
	open := tokens[j].Start
	closePos := scan.MatchingParen(sql, open)

	end := closePos
	if end < len(sql) {
		end++ // include the ')'
	}

	ref := TableReference{
		Start:        open,
		End:          end,
		AliasStart:   -1,
		AliasEnd:     -1,
		IsSubquery:   true,
		ScopeDepth:   depth,
		OutputFields: subqueryFields(sql[open+1 : closePos]),
	}

	// Skip tokens inside the subquery, then read the alias.
	k := j + 1
	for k < len(tokens) && tokens[k].Start < end {
		k++
	}
	k = extractAlias(tokens, k, depth, &ref)
	return ref, k
}

// subqueryFields extracts the projected field names of a subquery body:
// the segment between SELECT and its FROM, split on top-level commas, with
// each segment contributing its alias (after AS) or its trailing
// identifier. Order is preserved and duplicates dropped.
func subqueryFields(body string) []string {
	tokens := scan.Tokenize(body)

	selEnd, fromStart := -1, len(body)
	for _, tok := range tokens {
		if tok.ParenDepth != 0 {
			continue
		}
		if selEnd < 0 && tok.Is("select") {
			selEnd = tok.End
			continue
		}
		if selEnd >= 0 && tok.Is("from") {
			fromStart = tok.Start
			break
		}
	}
	if selEnd < 0 || selEnd >= fromStart {
		return nil
	}

	var (
		fields []string
		seen   = map[string]bool{}
	)
	for _, segment := range splitTopLevel(body[selEnd:fromStart]) {
		name := segmentField(segment)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		fields = append(fields, name)
	}
	return fields
}

// splitTopLevel splits text on commas that sit outside any parens, quotes,
// brackets or comments.
func splitTopLevel(text string) []string {
	var (
		parts []string
		s     scan.State
		start int
	)
	for i := 0; i < len(text); {
		if !s.InAny() && s.ParenDepth == 0 && text[i] == ',' {
			parts = append(parts, text[start:i])
			start = i + 1
			i++
			continue
		}
		i = s.Advance(text, i)
	}
	parts = append(parts, text[start:])
	return parts
}

// segmentField returns the output name of one select-list segment: the
// alias after AS when present, else the trailing identifier of the
// expression.
func segmentField(segment string) string {
	tokens := scan.Tokenize(segment)
	if len(tokens) == 0 {
		return ""
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Is("as") && i+1 < len(tokens) {
			next := tokens[i+1]
			if next.Kind == scan.KindBracket ||
				(next.Kind == scan.KindWord && !scan.IsKeyword(next.Value)) {
				return next.Value
			}
		}
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if tok.Kind == scan.KindBracket {
			return tok.Value
		}
		// Numeric literals tokenize as words but are not identifiers.
		if tok.Kind == scan.KindWord && !scan.IsKeyword(tok.Value) &&
			!(tok.Value[0] >= '0' && tok.Value[0] <= '9') {
			return tok.Value
		}
	}
	return ""
}
