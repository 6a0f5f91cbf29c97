// Package config loads sqlassist configuration. It is decoupled from CLI
// concerns so the LSP server and other tools can load project settings the
// same way.
package config

import (
	"github.com/leapstack-labs/sqlassist/pkg/lint"
	"github.com/leapstack-labs/sqlassist/pkg/suggest"
)

// CatalogConfig points at the local field-metadata catalog.
type CatalogConfig struct {
	// Database is the sqlite file holding cached table metadata. Empty
	// disables catalog-backed suggestions.
	Database string `koanf:"database"`
}

// RulesConfig tunes the lint rule set.
type RulesConfig struct {
	// Disabled contains rule names to skip entirely.
	Disabled []string `koanf:"disabled"`

	// Severity maps rule name to a severity override (error, warning,
	// prereq).
	Severity map[string]string `koanf:"severity"`
}

// Config is the full sqlassist configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Catalog CatalogConfig `koanf:"catalog"`
	Rules   RulesConfig   `koanf:"rules"`

	// IdentityFields overrides the built-in identity-column equivalence
	// groups used to rank join-condition suggestions.
	IdentityFields [][]string `koanf:"identity_fields"`

	// ProjectRoot is where the config file was found; set by the loader,
	// never read from the file.
	ProjectRoot string `koanf:"-"`
}

// LintConfig converts the rules section into the lint engine's config.
func (c *Config) LintConfig() lint.Config {
	cfg := lint.Config{Disable: c.Rules.Disabled}
	if len(c.Rules.Severity) > 0 {
		cfg.Severity = make(map[string]lint.Severity, len(c.Rules.Severity))
		for rule, sev := range c.Rules.Severity {
			cfg.Severity[rule] = lint.Severity(sev)
		}
	}
	return cfg
}

// IdentityCatalog returns the configured identity catalog, falling back to
// the built-in one when the config does not override it.
func (c *Config) IdentityCatalog() *suggest.IdentityCatalog {
	if len(c.IdentityFields) == 0 {
		return suggest.DefaultIdentityCatalog()
	}
	return suggest.NewIdentityCatalog(c.IdentityFields)
}
