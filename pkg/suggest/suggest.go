// Package suggest implements the inline-suggestion engine: an ordered,
// first-match-wins rule set that turns a cursor context into ghost text.
// Rules are fixed at engine construction; there is no global rule registry.
package suggest

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/sqlassist/pkg/cursorctx"
	"github.com/leapstack-labs/sqlassist/pkg/scan"
	"github.com/leapstack-labs/sqlassist/pkg/tableref"
)

// Suggestion is one inline completion. Text is inserted verbatim at the
// cursor; Alternatives feed a secondary completion list.
type Suggestion struct {
	Text         string   `json:"text"`
	Priority     int      `json:"priority"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Field is the column metadata the join-condition rule ranks on.
type Field struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsPrimaryKey bool   `json:"isPrimaryKey"`
	IsNullable   bool   `json:"isNullable"`
	Length       int    `json:"length,omitempty"`
}

// FieldProvider fetches column metadata for a table reference. Lookups may
// hit the network; implementations must honor ctx cancellation. The engine
// does no request deduplication, the caller owns latest-wins semantics.
type FieldProvider interface {
	FieldsForTable(ctx context.Context, ref tableref.TableReference) ([]Field, error)
}

// Rule is one suggestion strategy. Matches is a cheap synchronous check;
// Suggest may fetch metadata and may legitimately return (nil, nil), in
// which case the engine falls through to the next rule.
type Rule interface {
	Name() string
	Priority() int
	Matches(cc *cursorctx.Context) bool
	Suggest(ctx context.Context, cc *cursorctx.Context) (*Suggestion, error)
}

// Engine evaluates rules in the order given until one produces a suggestion.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over an explicitly ordered rule list.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// DefaultRules returns the standard rule set, highest priority first.
func DefaultRules(provider FieldProvider, identity *IdentityCatalog) []Rule {
	return []Rule{
		&joinKeywordRule{},
		&aliasRule{},
		&onKeywordRule{},
		&joinConditionRule{provider: provider, identity: identity},
	}
}

// Suggest resolves the cursor context for sql at cursor and evaluates the
// rules. A nil suggestion with nil error means nothing applies.
func (e *Engine) Suggest(ctx context.Context, sql string, cursor int) (*Suggestion, error) {
	return e.SuggestContext(ctx, cursorctx.Resolve(sql, cursor))
}

// SuggestContext evaluates the rules against an already resolved context.
func (e *Engine) SuggestContext(ctx context.Context, cc *cursorctx.Context) (*Suggestion, error) {
	if suppressed(cc) {
		return nil, nil
	}

	for _, rule := range e.rules {
		if !rule.Matches(cc) {
			continue
		}
		s, err := rule.Suggest(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, nil
}

// suppressed is the negative gate: positions where ghost text would fight
// with what the user is typing. Brackets only suppress when the bracket is
// not itself a FROM/JOIN table, since the alias rule completes those.
func suppressed(cc *cursorctx.Context) bool {
	if scan.InString(cc.SQL, cc.Cursor) || scan.InComment(cc.SQL, cc.Cursor) {
		return true
	}
	if scan.InBrackets(cc.SQL, cc.Cursor) && !cc.CursorInFromJoinTable {
		return true
	}
	if scan.AfterComparisonOperator(cc.SQL, cc.Cursor) {
		return true
	}
	return scan.InFunctionParens(cc.SQL, cc.Cursor)
}
