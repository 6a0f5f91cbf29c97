package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlassist/pkg/suggest"
)

func runSuggestWith(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewSuggestCommand()
	cmd.SetIn(strings.NewReader(input))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSuggestJoinKeyword(t *testing.T) {
	out, err := runSuggestWith(t, "SELECT * FROM [A] INNER")
	require.NoError(t, err)

	var s suggest.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, " JOIN", s.Text)
	assert.Equal(t, 100, s.Priority)
}

func TestSuggestNothing(t *testing.T) {
	out, err := runSuggestWith(t, "SELECT a FROM [T] WHERE a = ")
	require.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(out))
}

func TestSuggestInlineFields(t *testing.T) {
	out, err := runSuggestWith(t, "SELECT * FROM [A] a JOIN [B] b ON ",
		"--fields", "A:CustomerID,Name", "--fields", "B:CustomerID")
	require.NoError(t, err)

	var s suggest.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "a.CustomerID = b.CustomerID", s.Text)
}

func TestSuggestExplicitCursor(t *testing.T) {
	sql := "SELECT * FROM [A] INNER JOIN [B] b ON x = y"
	out, err := runSuggestWith(t, sql, "--cursor", "23")
	require.NoError(t, err)

	var s suggest.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, " JOIN", s.Text)
}

func TestParseFieldSpecs(t *testing.T) {
	tables, err := parseFieldSpecs([]string{"A:x, y", "ENT.B:z"})
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, []suggest.Field{{Name: "x"}, {Name: "y"}}, tables["A"])
	assert.Equal(t, []suggest.Field{{Name: "z"}}, tables["ENT.B"])

	_, err = parseFieldSpecs([]string{"missing-colon"})
	assert.Error(t, err)
}
