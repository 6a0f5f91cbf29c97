// Package cursorctx resolves everything the assist engines need to know
// about a caret position into one context value: nesting depth, the word
// being typed, the alias before a dot, the governing keyword, and the table
// references in scope. The context is recomputed from scratch on every call;
// nothing is retained between keystrokes.
package cursorctx

import (
	"strings"

	"github.com/leapstack-labs/sqlassist/pkg/scan"
	"github.com/leapstack-labs/sqlassist/pkg/tableref"
)

// Context is the resolved cursor context shared by the suggestion and lint
// engines.
type Context struct {
	// SQL and Cursor are the inputs the context was derived from, with
	// Cursor clamped to [0, len(SQL)].
	SQL    string
	Cursor int

	// Tokens and Refs are the full token stream and table references of
	// SQL, computed once and shared with the rule engines.
	Tokens []scan.Token
	Refs   []tableref.TableReference

	// CursorDepth is the paren nesting depth at the cursor.
	CursorDepth int
	// CurrentWord is the identifier run ending at the cursor, or the
	// trimmed interior of the bracketed identifier the cursor is inside.
	CurrentWord string
	// AliasBeforeDot is the alias of a "alias." chain ending at the
	// cursor, empty when there is none. The shared prefix "ent" is not
	// an alias and resolves to empty.
	AliasBeforeDot string
	// LastKeyword is the nearest preceding SQL keyword at the cursor's
	// depth, lowercased; empty when there is none.
	LastKeyword string
	// LastFromJoin is the nearest preceding FROM or JOIN token at the
	// cursor's depth; nil when there is none.
	LastFromJoin *scan.Token

	// HasFromJoinTable is true when a table reference was introduced by
	// LastFromJoin before the cursor.
	HasFromJoinTable bool
	// CursorInFromJoinTable is true when the cursor falls within that
	// reference's span.
	CursorInFromJoinTable bool
	// HasTableReference and CursorInTableReference generalize the two
	// flags above across all references at the cursor's depth.
	HasTableReference      bool
	CursorInTableReference bool

	// TablesInScope lists the references whose scope depth equals the
	// cursor depth, in source order.
	TablesInScope []tableref.TableReference
	// AliasMap maps lowercase alias to reference for TablesInScope.
	// Later duplicates overwrite; duplicate detection is a lint concern.
	AliasMap map[string]tableref.TableReference
}

// Resolve computes the cursor context for sql at the given offset. It never
// fails; malformed input degrades to a neutral context.
func Resolve(sql string, cursor int) *Context {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(sql) {
		cursor = len(sql)
	}

	ctx := &Context{
		SQL:    sql,
		Cursor: cursor,
		Tokens: scan.Tokenize(sql),
	}
	ctx.Refs = tableref.Extract(sql, ctx.Tokens)

	state := scan.Walk(sql, cursor)
	ctx.CursorDepth = state.ParenDepth
	ctx.CurrentWord = scan.CurrentWord(sql, cursor)
	ctx.AliasBeforeDot = aliasBeforeDot(sql, cursor)

	ctx.resolveKeywords()
	ctx.resolveTables()
	return ctx
}

// resolveKeywords finds the nearest preceding keyword and FROM/JOIN token
// at the cursor's depth.
func (c *Context) resolveKeywords() {
	for i := len(c.Tokens) - 1; i >= 0; i-- {
		tok := c.Tokens[i]
		if tok.End > c.Cursor || tok.ParenDepth != c.CursorDepth {
			continue
		}
		if tok.Kind != scan.KindWord || !scan.IsKeyword(tok.Value) {
			continue
		}
		if c.LastKeyword == "" {
			c.LastKeyword = strings.ToLower(tok.Value)
		}
		if c.LastFromJoin == nil && (tok.Is("from") || tok.Is("join")) {
			t := tok
			c.LastFromJoin = &t
		}
		if c.LastKeyword != "" && c.LastFromJoin != nil {
			return
		}
	}
}

// resolveTables derives the table-related flags, the in-scope table list
// and the alias map.
func (c *Context) resolveTables() {
	c.AliasMap = map[string]tableref.TableReference{}

	for _, ref := range c.Refs {
		if ref.ScopeDepth != c.CursorDepth {
			continue
		}

		c.TablesInScope = append(c.TablesInScope, ref)
		if ref.Alias != "" {
			c.AliasMap[strings.ToLower(ref.Alias)] = ref
		}

		if ref.Start < c.Cursor {
			c.HasTableReference = true
		}
		if ref.Contains(c.Cursor) {
			c.CursorInTableReference = true
		}

		if c.LastFromJoin != nil && ref.Start > c.LastFromJoin.Start && ref.Start < c.Cursor {
			c.HasFromJoinTable = true
			if ref.Contains(c.Cursor) {
				c.CursorInFromJoinTable = true
			}
		}
	}
}

// FromJoinTable returns the reference introduced by the last FROM/JOIN
// before the cursor, or nil.
func (c *Context) FromJoinTable() *tableref.TableReference {
	if c.LastFromJoin == nil {
		return nil
	}
	for i := len(c.TablesInScope) - 1; i >= 0; i-- {
		ref := c.TablesInScope[i]
		if ref.Start > c.LastFromJoin.Start && ref.Start < c.Cursor {
			return &c.TablesInScope[i]
		}
	}
	return nil
}

// LatestTables returns the n most recently introduced in-scope tables, most
// recent last.
func (c *Context) LatestTables(n int) []tableref.TableReference {
	if n > len(c.TablesInScope) {
		n = len(c.TablesInScope)
	}
	return c.TablesInScope[len(c.TablesInScope)-n:]
}

// sharedPrefixWord is excluded from alias resolution: "ent.Table" is a
// qualified name, not an alias lookup. Kept as a single named constant so
// any future reserved prefix is a one-line change.
const sharedPrefixWord = "ent"

// aliasBeforeDot scans backward from the cursor for an "alias." chain. The
// alias is the bracketed text or identifier run immediately before the dot;
// whitespace, commas or parens before a dot is found mean there is none.
func aliasBeforeDot(sql string, cursor int) string {
	i := cursor
	if i > len(sql) {
		i = len(sql)
	}

	// A cursor inside a bracketed identifier belongs to the bracket; the
	// dot, if any, precedes the '['.
	if open := scan.OpenBracketBefore(sql, cursor); open >= 0 {
		i = open
	}

	// Skip the identifier run being typed.
	for i > 0 && isWordByte(sql[i-1]) {
		i--
	}
	if i == 0 || sql[i-1] != '.' {
		return ""
	}
	i-- // at the dot

	var alias string
	if i > 0 && sql[i-1] == ']' {
		end := i - 1
		open := strings.LastIndexByte(sql[:end], '[')
		if open < 0 {
			return ""
		}
		alias = sql[open+1 : end]
	} else {
		j := i
		for j > 0 && isWordByte(sql[j-1]) {
			j--
		}
		alias = sql[j:i]
	}

	if alias == "" || strings.EqualFold(alias, sharedPrefixWord) {
		return ""
	}
	return alias
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}
