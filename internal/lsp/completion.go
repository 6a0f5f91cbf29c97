package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/leapstack-labs/sqlassist/pkg/suggest"
)

// handleCompletion resolves inline suggestions at the cursor position.
func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: -32602, Message: err.Error()})
		return err
	}

	uri := params.TextDocument.URI
	doc := s.documents.Get(uri)
	if doc == nil {
		s.sendResponse(msg.ID, &CompletionList{Items: []CompletionItem{}}, nil)
		return nil
	}

	ctx := s.beginInflight(uri)
	offset := doc.PositionToOffset(params.Position)

	suggestion, err := s.suggester.Suggest(ctx, doc.Content, offset)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Superseded by a newer request; an empty list is correct.
			s.sendResponse(msg.ID, &CompletionList{Items: []CompletionItem{}}, nil)
			return nil
		}
		s.logger.Warn("Suggestion failed", "uri", uri, "error", err)
		s.sendResponse(msg.ID, &CompletionList{Items: []CompletionItem{}}, nil)
		return nil
	}

	items := suggestionItems(suggestion)
	s.sendResponse(msg.ID, &CompletionList{Items: items}, nil)
	return nil
}

// suggestionItems converts an inline suggestion and its alternatives into
// completion items. The primary suggestion sorts first and is preselected.
func suggestionItems(s *suggest.Suggestion) []CompletionItem {
	if s == nil {
		return []CompletionItem{}
	}

	items := []CompletionItem{{
		Label:            strings.TrimSpace(s.Text),
		Kind:             completionKind(s.Priority),
		Detail:           "sqlassist",
		Preselect:        true,
		SortText:         "0",
		InsertText:       s.Text,
		InsertTextFormat: InsertTextFormatPlainText,
	}}

	for i, alt := range s.Alternatives {
		items = append(items, CompletionItem{
			Label:            strings.TrimSpace(alt),
			Kind:             CompletionItemKindField,
			Detail:           "sqlassist",
			SortText:         string(rune('1' + i)),
			InsertText:       alt,
			InsertTextFormat: InsertTextFormatPlainText,
		})
	}
	return items
}

// completionKind picks an item kind by rule priority: keyword-style rules
// emit keywords, the join-condition rule emits field pairs.
func completionKind(priority int) CompletionItemKind {
	if priority >= 70 {
		return CompletionItemKindKeyword
	}
	return CompletionItemKindField
}
