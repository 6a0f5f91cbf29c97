package suggest

import (
	"context"
	"strings"

	"github.com/leapstack-labs/sqlassist/pkg/cursorctx"
	"github.com/leapstack-labs/sqlassist/pkg/scan"
)

// joinKeywordRule completes "INNER" and friends with " JOIN".
type joinKeywordRule struct{}

func (r *joinKeywordRule) Name() string  { return "join-keyword" }
func (r *joinKeywordRule) Priority() int { return 100 }

var joinModifiers = map[string]bool{
	"inner": true,
	"left":  true,
	"right": true,
	"full":  true,
	"outer": true,
	"cross": true,
}

func (r *joinKeywordRule) Matches(cc *cursorctx.Context) bool {
	word := strings.ToLower(cc.CurrentWord)
	if !joinModifiers[word] {
		return false
	}
	// LEFT and RIGHT are also scalar string functions; only treat them as
	// join modifiers once a FROM or JOIN appeared earlier in the text.
	if word == "left" || word == "right" {
		return hasFromJoinBefore(cc)
	}
	return true
}

func (r *joinKeywordRule) Suggest(_ context.Context, _ *cursorctx.Context) (*Suggestion, error) {
	return &Suggestion{Text: " JOIN", Priority: r.Priority()}, nil
}

func hasFromJoinBefore(cc *cursorctx.Context) bool {
	for _, tok := range cc.Tokens {
		if tok.End > cc.Cursor {
			break
		}
		if tok.Is("from") || tok.Is("join") {
			return true
		}
	}
	return false
}

// aliasRule proposes " AS <alias>" after an unaliased FROM/JOIN table.
type aliasRule struct{}

func (r *aliasRule) Name() string  { return "alias" }
func (r *aliasRule) Priority() int { return 80 }

var clauseAfterTable = map[string]bool{
	"on":     true,
	"where":  true,
	"group":  true,
	"order":  true,
	"having": true,
}

func (r *aliasRule) Matches(cc *cursorctx.Context) bool {
	if cc.LastKeyword != "from" && cc.LastKeyword != "join" {
		return false
	}
	ref := cc.FromJoinTable()
	if ref == nil || ref.Alias != "" || ref.IsSubquery {
		return false
	}

	if cc.CursorInFromJoinTable {
		return true
	}
	// Fire once the table name is complete: either the cursor sits right
	// after the name on whitespace, or the typed word is the full name.
	if cc.CurrentWord != "" && !strings.EqualFold(cc.CurrentWord, ref.Name) {
		return false
	}
	if next := wordAfterCursor(cc); clauseAfterTable[strings.ToLower(next)] {
		return false
	}
	return true
}

func (r *aliasRule) Suggest(_ context.Context, cc *cursorctx.Context) (*Suggestion, error) {
	ref := cc.FromJoinTable()
	if ref == nil {
		return nil, nil
	}

	existing := make(map[string]bool, len(cc.AliasMap))
	for alias := range cc.AliasMap {
		existing[alias] = true
	}
	alias := GenerateAlias(ref.QualifiedName, existing)
	if alias == "" {
		return nil, nil
	}

	text := " AS " + alias
	if open := scan.OpenBracketBefore(cc.SQL, cc.Cursor); open >= 0 {
		// Typing inside an unterminated bracket: close it first. A
		// terminated bracket gets no mid-name suggestion.
		if strings.IndexByte(cc.SQL[cc.Cursor:], ']') >= 0 {
			return nil, nil
		}
		text = "] AS " + alias
	}
	return &Suggestion{Text: text, Priority: r.Priority()}, nil
}

func wordAfterCursor(cc *cursorctx.Context) string {
	for _, tok := range cc.Tokens {
		if tok.Start < cc.Cursor {
			continue
		}
		if tok.Kind == scan.KindWord {
			return tok.Value
		}
		return ""
	}
	return ""
}

// onKeywordRule proposes " ON " once both sides of a join are aliased.
type onKeywordRule struct{}

func (r *onKeywordRule) Name() string  { return "on-keyword" }
func (r *onKeywordRule) Priority() int { return 70 }

func (r *onKeywordRule) Matches(cc *cursorctx.Context) bool {
	if cc.LastKeyword != "join" || len(cc.TablesInScope) < 2 {
		return false
	}
	latest := cc.TablesInScope[len(cc.TablesInScope)-1]
	if latest.Alias == "" {
		return false
	}
	return !onSinceLastJoin(cc)
}

func (r *onKeywordRule) Suggest(_ context.Context, _ *cursorctx.Context) (*Suggestion, error) {
	return &Suggestion{Text: " ON ", Priority: r.Priority()}, nil
}

func onSinceLastJoin(cc *cursorctx.Context) bool {
	if cc.LastFromJoin == nil {
		return false
	}
	for _, tok := range cc.Tokens {
		if tok.Start <= cc.LastFromJoin.Start || tok.End > cc.Cursor {
			continue
		}
		if tok.ParenDepth == cc.CursorDepth && tok.Is("on") {
			return true
		}
	}
	return false
}

// joinConditionRule proposes an equi-join predicate after ON, ranking
// candidate field pairs across the two most recent tables.
type joinConditionRule struct {
	provider FieldProvider
	identity *IdentityCatalog
}

func (r *joinConditionRule) Name() string  { return "join-condition" }
func (r *joinConditionRule) Priority() int { return 60 }

func (r *joinConditionRule) Matches(cc *cursorctx.Context) bool {
	return cc.LastKeyword == "on" && cc.CurrentWord == "" && len(cc.TablesInScope) >= 2
}

// maxAlternatives caps the runner-up list shown alongside the best match.
const maxAlternatives = 3

func (r *joinConditionRule) Suggest(ctx context.Context, cc *cursorctx.Context) (*Suggestion, error) {
	if r.provider == nil {
		return nil, nil
	}

	pair := cc.LatestTables(2)
	left, right := pair[0], pair[1]

	leftFields, err := r.provider.FieldsForTable(ctx, left)
	if err != nil {
		return nil, err
	}
	rightFields, err := r.provider.FieldsForTable(ctx, right)
	if err != nil {
		return nil, err
	}

	matches := rankFieldPairs(leftFields, rightFields, r.identity)
	if len(matches) == 0 {
		return nil, nil
	}

	s := &Suggestion{
		Text:     joinPredicate(left.DisplayName(), matches[0].left, right.DisplayName(), matches[0].right),
		Priority: r.Priority(),
	}
	for _, m := range matches[1:] {
		if len(s.Alternatives) == maxAlternatives {
			break
		}
		s.Alternatives = append(s.Alternatives, joinPredicate(left.DisplayName(), m.left, right.DisplayName(), m.right))
	}
	return s, nil
}

func joinPredicate(leftTable, leftField, rightTable, rightField string) string {
	return leftTable + "." + leftField + " = " + rightTable + "." + rightField
}

type fieldPair struct {
	left  string
	right string
	rank  int
}

// rankFieldPairs scores every cross-table field pair. Rank 1 is an exact
// case-insensitive name match, rank 2 an identity-catalog equivalence,
// rank 3 equality after stripping non-alphanumerics. Lower wins; ties keep
// left-then-right source order.
func rankFieldPairs(left, right []Field, identity *IdentityCatalog) []fieldPair {
	var pairs []fieldPair
	for _, lf := range left {
		for _, rf := range right {
			rank := pairRank(lf.Name, rf.Name, identity)
			if rank == 0 {
				continue
			}
			pairs = append(pairs, fieldPair{left: lf.Name, right: rf.Name, rank: rank})
		}
	}

	// Stable selection sort by rank; candidate lists are tiny.
	for i := 0; i < len(pairs); i++ {
		best := i
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].rank < pairs[best].rank {
				best = j
			}
		}
		if best != i {
			picked := pairs[best]
			copy(pairs[i+1:best+1], pairs[i:best])
			pairs[i] = picked
		}
	}
	return pairs
}

func pairRank(a, b string, identity *IdentityCatalog) int {
	if strings.EqualFold(a, b) {
		return 1
	}
	if identity != nil && identity.Equivalent(a, b) {
		return 2
	}
	if stripNonAlnum(a) == stripNonAlnum(b) {
		return 3
	}
	return 0
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
