package cursorctx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlassist/pkg/scan"
)

// resolveAt resolves the context for text with a | cursor marker.
func resolveAt(t *testing.T, marked string) *Context {
	t.Helper()
	idx := strings.Index(marked, "|")
	require.GreaterOrEqual(t, idx, 0, "no cursor marker in %q", marked)
	return Resolve(marked[:idx]+marked[idx+1:], idx)
}

func TestCursorDepth(t *testing.T) {
	tests := []struct {
		marked string
		depth  int
	}{
		{"SELECT * FROM a|", 0},
		{"SELECT * FROM (SELECT |", 1},
		{"SELECT * FROM (SELECT b FROM (|", 2},
		{"SELECT * FROM (SELECT b FROM c) |", 0},
		{")))|", 0},
	}

	for _, tt := range tests {
		ctx := resolveAt(t, tt.marked)
		assert.Equal(t, tt.depth, ctx.CursorDepth, "%q", tt.marked)
	}
}

func TestCursorDepthAgreesWithTokens(t *testing.T) {
	sql := "SELECT a FROM (SELECT b FROM (SELECT c FROM d) e) f WHERE g = 1"
	for _, tok := range scan.Tokenize(sql) {
		if tok.Kind != scan.KindWord {
			continue
		}
		ctx := Resolve(sql, tok.Start)
		assert.Equal(t, tok.ParenDepth, ctx.CursorDepth, "token %q", tok.Value)
	}
}

func TestCurrentWord(t *testing.T) {
	tests := []struct {
		marked string
		word   string
	}{
		{"SELECT * FROM Custo|", "Custo"},
		{"SELECT * FROM Customers |", ""},
		{"SELECT * FROM [Order De|", "Order De"},
	}

	for _, tt := range tests {
		ctx := resolveAt(t, tt.marked)
		assert.Equal(t, tt.word, ctx.CurrentWord, "%q", tt.marked)
	}
}

func TestAliasBeforeDot(t *testing.T) {
	tests := []struct {
		marked string
		alias  string
	}{
		{"SELECT c.| FROM Customers c", "c"},
		{"SELECT c.Na| FROM Customers c", "c"},
		{"SELECT [Order Details].| FROM x", "Order Details"},
		{"SELECT ent.| FROM x", ""},
		{"SELECT ENT.Subs| FROM x", ""},
		{"SELECT c | FROM Customers c", ""},
		{"SELECT (c.| FROM Customers c", "c"},
		{"SELECT x, | FROM y", ""},
	}

	for _, tt := range tests {
		ctx := resolveAt(t, tt.marked)
		assert.Equal(t, tt.alias, ctx.AliasBeforeDot, "%q", tt.marked)
	}
}

func TestLastKeywordSameDepth(t *testing.T) {
	tests := []struct {
		marked  string
		keyword string
	}{
		{"SELECT * FROM a |", "from"},
		{"SELECT * FROM a JOIN b |", "join"},
		{"SELECT * FROM a JOIN b ON |", "on"},
		{"SELECT * FROM (SELECT x FROM y) z |", "from"},
		{"SELECT |", "select"},
		{"|", ""},
	}

	for _, tt := range tests {
		ctx := resolveAt(t, tt.marked)
		assert.Equal(t, tt.keyword, ctx.LastKeyword, "%q", tt.marked)
	}
}

func TestLastKeywordIgnoresDeeperScopes(t *testing.T) {
	// The WHERE lives inside the subquery; at depth 0 the governing
	// keyword is still the outer FROM chain's JOIN.
	ctx := resolveAt(t, "SELECT * FROM a JOIN (SELECT x FROM y WHERE z = 1) s |")
	assert.Equal(t, "join", ctx.LastKeyword)
}

func TestFromJoinTableFlags(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM [Customers] |")
	assert.True(t, ctx.HasFromJoinTable)
	assert.False(t, ctx.CursorInFromJoinTable)

	ctx = resolveAt(t, "SELECT * FROM [Custo|mers]")
	assert.True(t, ctx.HasFromJoinTable)
	assert.True(t, ctx.CursorInFromJoinTable)

	ctx = resolveAt(t, "SELECT * FROM |")
	assert.False(t, ctx.HasFromJoinTable)
	assert.False(t, ctx.CursorInFromJoinTable)
}

func TestTablesInScopeFiltersByDepth(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM a JOIN (SELECT x FROM inner_t) s ON |")
	names := make([]string, 0, len(ctx.TablesInScope))
	for _, ref := range ctx.TablesInScope {
		if ref.IsSubquery {
			names = append(names, "(subquery)")
			continue
		}
		names = append(names, ref.Name)
	}
	assert.Equal(t, []string{"a", "(subquery)"}, names)
}

func TestAliasMap(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM [A] first JOIN [B] SECOND |")
	require.Len(t, ctx.AliasMap, 2)
	assert.Equal(t, "A", ctx.AliasMap["first"].Name)
	assert.Equal(t, "B", ctx.AliasMap["second"].Name)
}

func TestAliasMapLaterDuplicateWins(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM [A] x JOIN [B] x |")
	require.Len(t, ctx.AliasMap, 1)
	assert.Equal(t, "B", ctx.AliasMap["x"].Name)
}

func TestLatestTables(t *testing.T) {
	ctx := resolveAt(t, "SELECT * FROM [A] a JOIN [B] b JOIN [C] c |")
	latest := ctx.LatestTables(2)
	require.Len(t, latest, 2)
	assert.Equal(t, "B", latest[0].Name)
	assert.Equal(t, "C", latest[1].Name)
}

func TestResolveClampsCursor(t *testing.T) {
	ctx := Resolve("SELECT", 999)
	assert.Equal(t, 6, ctx.Cursor)

	ctx = Resolve("SELECT", -3)
	assert.Equal(t, 0, ctx.Cursor)
}
