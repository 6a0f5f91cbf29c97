package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlassist/pkg/lint"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
log_level: debug
catalog:
  database: .sqlassist/catalog.db
rules:
  disabled:
    - not-equal-style
  severity:
    aggregate-in-where: warning
identity_fields:
  - [SubscriberKey, MemberKey]
`)

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ".sqlassist/catalog.db", cfg.Catalog.Database)
	assert.Equal(t, dir, cfg.ProjectRoot)

	lintCfg := cfg.LintConfig()
	assert.Equal(t, []string{"not-equal-style"}, lintCfg.Disable)
	assert.Equal(t, lint.SeverityWarning, lintCfg.Severity["aggregate-in-where"])

	catalog := cfg.IdentityCatalog()
	assert.True(t, catalog.Equivalent("subscriberkey", "memberkey"))
}

func TestLoadFromDirMissing(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFromDirDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "catalog:\n  database: x.db\n")

	cfg, err := LoadFromDir(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)

	// No identity override falls back to the built-in catalog.
	assert.True(t, cfg.IdentityCatalog().Equivalent("SubscriberKey", "ContactKey"))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "log_level: info\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, "", FindProjectRoot(t.TempDir()))
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log_level: warn\n")

	cfg, err := Load(filepath.Join(dir, ConfigFileName), nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, dir, cfg.ProjectRoot)
}
