package lsp

import (
	"testing"

	"github.com/leapstack-labs/sqlassist/pkg/lint"
)

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		in   lint.Severity
		want DiagnosticSeverity
	}{
		{lint.SeverityError, DiagnosticSeverityError},
		{lint.SeverityPrereq, DiagnosticSeverityWarning},
		{lint.SeverityWarning, DiagnosticSeverityInformation},
		{lint.Severity("bogus"), DiagnosticSeverityHint},
	}

	for _, tt := range tests {
		if got := mapSeverity(tt.in); got != tt.want {
			t.Errorf("mapSeverity(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
