package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultEngine() *Engine {
	return NewEngine(Config{}, DefaultRules()...)
}

func TestMissingSelect(t *testing.T) {
	diags := defaultEngine().Check("FROM [A]")

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityPrereq, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "SELECT")
}

func TestMissingFrom(t *testing.T) {
	diags := defaultEngine().Check("SELECT a, b")

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityPrereq, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "FROM")
}

func TestEmptyFrom(t *testing.T) {
	diags := defaultEngine().Check("SELECT a FROM ")

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityPrereq, diags[0].Severity)
	assert.Equal(t, "FROM clause has no table reference", diags[0].Message)
	assert.Equal(t, len("SELECT a "), diags[0].Start)
}

func TestLiteralSelectNeedsAlias(t *testing.T) {
	diags := defaultEngine().Check("SELECT 'x' FROM [A]")

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "alias")
}

func TestAliasedLiteralIsFine(t *testing.T) {
	assert.Empty(t, defaultEngine().Check("SELECT 'x' AS label, 1 AS one FROM [A]"))
}

func TestSubqueryFromCountsInnerTables(t *testing.T) {
	assert.Empty(t, defaultEngine().Check("SELECT a FROM (SELECT a FROM [Inner]) s"))
}

func TestCleanQuery(t *testing.T) {
	assert.Empty(t, defaultEngine().Check("SELECT c.Name FROM [Customers] c JOIN [Orders] o ON c.ID = o.CustomerID"))
}

func TestDuplicateAlias(t *testing.T) {
	diags := defaultEngine().Check("SELECT * FROM [A] x JOIN [B] X")

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, `"X"`)
	// The second occurrence is the flagged one.
	assert.Equal(t, len("SELECT * FROM [A] x JOIN [B] "), diags[0].Start)
}

func TestDuplicateAliasThreeWay(t *testing.T) {
	diags := defaultEngine().Check("SELECT * FROM [A] x JOIN [B] x JOIN [C] x")
	assert.Len(t, diags, 2)
}

func TestNotEqualStyle(t *testing.T) {
	diags := defaultEngine().Check("SELECT a FROM [T] WHERE a <> 1")

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "!=")
	assert.Equal(t, 2, diags[0].End-diags[0].Start)
	assert.False(t, HasBlocking(diags))
}

func TestNotEqualInsideStringIgnored(t *testing.T) {
	assert.Empty(t, defaultEngine().Check("SELECT a FROM [T] WHERE a = '<>'"))
	assert.Empty(t, defaultEngine().Check("SELECT a FROM [T] -- a <> b"))
	assert.Empty(t, defaultEngine().Check("SELECT a FROM [a<>b]"))
}

func TestAggregateInWhere(t *testing.T) {
	diags := defaultEngine().Check("SELECT a FROM [T] WHERE COUNT(b) > 1")

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "HAVING")
}

func TestAggregateInWhereSubqueryNotFlagged(t *testing.T) {
	sql := "SELECT a FROM [T] WHERE b IN (SELECT c FROM [U] GROUP BY c HAVING COUNT(d) > 1)"
	assert.Empty(t, defaultEngine().Check(sql))
}

func TestAggregateAsIdentifierNotFlagged(t *testing.T) {
	assert.Empty(t, defaultEngine().Check("SELECT a FROM [T] WHERE count > 1"))
}

func TestAggregateInSubqueryWhereFlagged(t *testing.T) {
	sql := "SELECT a FROM (SELECT b FROM [U] WHERE SUM(c) > 1) s"
	diags := defaultEngine().Check(sql)

	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "SUM")
}

func TestBlockingHelpers(t *testing.T) {
	warnings := []Diagnostic{
		{Severity: SeverityWarning},
		{Severity: SeverityWarning},
	}
	assert.False(t, HasBlocking(warnings))
	assert.Nil(t, FirstBlocking(warnings))

	mixed := []Diagnostic{
		{Severity: SeverityWarning, Message: "w"},
		{Severity: SeverityPrereq, Message: "p"},
		{Severity: SeverityError, Message: "e"},
	}
	assert.True(t, HasBlocking(mixed))
	require.NotNil(t, FirstBlocking(mixed))
	// The first error wins over an earlier prereq.
	assert.Equal(t, "e", FirstBlocking(mixed).Message)

	prereqOnly := []Diagnostic{
		{Severity: SeverityWarning, Message: "w"},
		{Severity: SeverityPrereq, Message: "p"},
	}
	require.NotNil(t, FirstBlocking(prereqOnly))
	assert.Equal(t, "p", FirstBlocking(prereqOnly).Message)

	assert.Nil(t, FirstBlocking(nil))
	assert.False(t, HasBlocking(nil))
}

func TestEngineDisable(t *testing.T) {
	e := NewEngine(Config{Disable: []string{"not-equal-style"}}, DefaultRules()...)
	assert.Empty(t, e.Check("SELECT a FROM [T] WHERE a <> 1"))
}

func TestEngineSeverityOverride(t *testing.T) {
	e := NewEngine(Config{
		Severity: map[string]Severity{"not-equal-style": SeverityError},
	}, DefaultRules()...)

	diags := e.Check("SELECT a FROM [T] WHERE a <> 1")
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.True(t, HasBlocking(diags))
}
