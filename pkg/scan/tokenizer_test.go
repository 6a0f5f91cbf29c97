package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasicSelect(t *testing.T) {
	tokens := Tokenize("SELECT a, b FROM Customers")

	require.Len(t, tokens, 6)
	assert.Equal(t, Token{Kind: KindWord, Value: "SELECT", Start: 0, End: 6}, tokens[0])
	assert.Equal(t, Token{Kind: KindWord, Value: "a", Start: 7, End: 8}, tokens[1])
	assert.Equal(t, Token{Kind: KindSymbol, Value: ",", Start: 8, End: 9}, tokens[2])
	assert.Equal(t, Token{Kind: KindWord, Value: "b", Start: 10, End: 11}, tokens[3])
	assert.Equal(t, Token{Kind: KindWord, Value: "FROM", Start: 12, End: 16}, tokens[4])
	assert.Equal(t, Token{Kind: KindWord, Value: "Customers", Start: 17, End: 26}, tokens[5])
}

func TestTokenizeBracketedIdentifier(t *testing.T) {
	tokens := Tokenize("FROM [Order Details]")

	require.Len(t, tokens, 2)
	assert.Equal(t, KindBracket, tokens[1].Kind)
	assert.Equal(t, "Order Details", tokens[1].Value)
	assert.Equal(t, 5, tokens[1].Start)
	assert.Equal(t, 20, tokens[1].End)
}

func TestTokenizeUnterminatedBracket(t *testing.T) {
	tokens := Tokenize("FROM [Customers")

	require.Len(t, tokens, 2)
	assert.Equal(t, KindBracket, tokens[1].Kind)
	assert.Equal(t, "Customers", tokens[1].Value)
	assert.Equal(t, len("FROM [Customers"), tokens[1].End)
}

func TestTokenizeSkipsStringsAndComments(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		words []string
	}{
		{"single quoted", "SELECT 'from x' FROM a", []string{"SELECT", "FROM", "a"}},
		{"escaped quote", "SELECT 'it''s from' FROM a", []string{"SELECT", "FROM", "a"}},
		{"line comment", "SELECT a -- FROM nowhere\nFROM b", []string{"SELECT", "a", "FROM", "b"}},
		{"block comment", "SELECT /* FROM x */ a FROM b", []string{"SELECT", "a", "FROM", "b"}},
		{"unterminated block comment", "SELECT a FROM b /* rest", []string{"SELECT", "a", "FROM", "b"}},
		{"unterminated string", "SELECT a FROM b WHERE c = 'oops", []string{"SELECT", "a", "FROM", "b", "WHERE", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var words []string
			for _, tok := range Tokenize(tt.sql) {
				if tok.Kind == KindWord {
					words = append(words, tok.Value)
				}
			}
			assert.Equal(t, tt.words, words)
		})
	}
}

func TestTokenizeParenDepth(t *testing.T) {
	sql := "SELECT a FROM (SELECT b FROM c) d"
	tokens := Tokenize(sql)

	byValue := map[string]Token{}
	for _, tok := range tokens {
		byValue[tok.Value] = tok
	}

	assert.Equal(t, 0, byValue["a"].ParenDepth)
	assert.Equal(t, 0, byValue["("].ParenDepth)
	assert.Equal(t, 1, byValue["b"].ParenDepth)
	assert.Equal(t, 1, byValue["c"].ParenDepth)
	assert.Equal(t, 0, byValue[")"].ParenDepth)
	assert.Equal(t, 0, byValue["d"].ParenDepth)
}

func TestTokenizeDepthNeverNegative(t *testing.T) {
	tokens := Tokenize(")) SELECT a ) FROM b")
	for _, tok := range tokens {
		assert.GreaterOrEqual(t, tok.ParenDepth, 0, "token %q", tok.Value)
	}
}

func TestTokenizeDepthMatchesWalk(t *testing.T) {
	inputs := []string{
		"SELECT a FROM (SELECT b FROM (SELECT c FROM d) e) f",
		"WHERE (a = 1 AND (b = '(' OR c = 2))",
		"FROM [A] JOIN (SELECT x FROM y) z ON ",
	}

	for _, sql := range inputs {
		for _, tok := range Tokenize(sql) {
			s := Walk(sql, tok.Start)
			depth := s.ParenDepth
			if tok.IsSymbol(")") && depth > 0 {
				depth--
			}
			assert.Equal(t, depth, tok.ParenDepth, "input %q token %q at %d", sql, tok.Value, tok.Start)
		}
	}
}
