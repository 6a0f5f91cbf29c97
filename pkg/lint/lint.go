// Package lint implements the diagnostic rule engine. Rules are pure
// functions over (sql, tokens, table references); each runs independently
// and never sees another rule's output. Severity decides whether a
// diagnostic blocks execution.
package lint

import (
	"github.com/leapstack-labs/sqlassist/pkg/scan"
	"github.com/leapstack-labs/sqlassist/pkg/tableref"
)

// Severity classifies a diagnostic.
//
//	error   - the statement will fail execution
//	prereq  - the statement is structurally incomplete
//	warning - style advice, never blocks
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityPrereq  Severity = "prereq"
)

// Blocking reports whether the severity is sufficient to gate execution.
// Exactly error and prereq block.
func (s Severity) Blocking() bool {
	return s == SeverityError || s == SeverityPrereq
}

// Diagnostic is one finding with a half-open [Start, End) text span.
type Diagnostic struct {
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
}

// Input is the shared, precomputed material every rule checks against.
type Input struct {
	SQL    string
	Tokens []scan.Token
	Refs   []tableref.TableReference
}

// Rule is one lint check.
type Rule interface {
	Name() string
	Check(in Input) []Diagnostic
}

// Config tunes the engine without changing rule code: rules can be
// disabled by name or have their severity overridden.
type Config struct {
	Disable  []string
	Severity map[string]Severity
}

// Engine runs an ordered rule list and collects diagnostics.
type Engine struct {
	rules     []Rule
	disabled  map[string]bool
	overrides map[string]Severity
}

// NewEngine builds an engine over an explicitly ordered rule list.
func NewEngine(cfg Config, rules ...Rule) *Engine {
	e := &Engine{
		rules:     rules,
		disabled:  make(map[string]bool, len(cfg.Disable)),
		overrides: cfg.Severity,
	}
	for _, name := range cfg.Disable {
		e.disabled[name] = true
	}
	return e
}

// DefaultRules returns the standard rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		&selectClauseRule{},
		&duplicateAliasRule{},
		&notEqualStyleRule{},
		&aggregateInWhereRule{},
	}
}

// Check tokenizes sql and runs every enabled rule over it.
func (e *Engine) Check(sql string) []Diagnostic {
	tokens := scan.Tokenize(sql)
	return e.CheckInput(Input{
		SQL:    sql,
		Tokens: tokens,
		Refs:   tableref.Extract(sql, tokens),
	})
}

// CheckInput runs the rules over already computed input.
func (e *Engine) CheckInput(in Input) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range e.rules {
		if e.disabled[rule.Name()] {
			continue
		}
		found := rule.Check(in)
		if sev, ok := e.overrides[rule.Name()]; ok {
			for i := range found {
				found[i].Severity = sev
			}
		}
		diags = append(diags, found...)
	}
	return diags
}

// HasBlocking reports whether any diagnostic gates execution. A list of
// warnings alone never blocks.
func HasBlocking(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity.Blocking() {
			return true
		}
	}
	return false
}

// FirstBlocking returns the first error in the list, else the first
// prereq, else nil. Warnings are never returned even when they precede a
// blocking diagnostic.
func FirstBlocking(diags []Diagnostic) *Diagnostic {
	var prereq *Diagnostic
	for i := range diags {
		switch diags[i].Severity {
		case SeverityError:
			return &diags[i]
		case SeverityPrereq:
			if prereq == nil {
				prereq = &diags[i]
			}
		}
	}
	return prereq
}
