package lsp

import (
	"github.com/leapstack-labs/sqlassist/pkg/lint"
)

// publishDiagnostics lints the document and pushes the results to the
// client.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	diags := s.linter.Check(doc.Content)

	lspDiags := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		lspDiags = append(lspDiags, Diagnostic{
			Range: Range{
				Start: doc.OffsetToPosition(d.Start),
				End:   doc.OffsetToPosition(d.End),
			},
			Severity: mapSeverity(d.Severity),
			Code:     d.Rule,
			Source:   "sqlassist",
			Message:  d.Message,
		})
	}

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: lspDiags,
	})
}

// mapSeverity maps lint severities onto LSP ones. Prereq findings mark an
// incomplete statement, which reads better as a warning underline than an
// error while the user is still typing.
func mapSeverity(sev lint.Severity) DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return DiagnosticSeverityError
	case lint.SeverityPrereq:
		return DiagnosticSeverityWarning
	case lint.SeverityWarning:
		return DiagnosticSeverityInformation
	default:
		return DiagnosticSeverityHint
	}
}
