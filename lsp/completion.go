package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/argfill"
)

// Completion handles textDocument/completion requests.
//
// The completion surface only offers suggestions backed by the authoritative
// signature source: surfacing heuristic guesses as a selectable list was
// judged too unreliable, so without a source (or without a signature at the
// cursor) the result is simply empty.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	opts := s.options()
	if !opts.EnableCompletion {
		return nil, nil //nolint:nilnil
	}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	offset := offsetAt(doc.Content, params.Position)

	// Cheap syntactic gate. This fires on every "(" keystroke, so it has to
	// stay far lighter than the full locator.
	if !insideCallParens(doc.Content, offset) {
		return nil, nil //nolint:nilnil
	}

	if s.source == nil {
		return nil, nil //nolint:nilnil
	}

	pos := argfill.DocumentPosition{URI: string(params.TextDocument.URI), Text: doc.Content, Offset: offset}

	sig, err := s.source.Signature(ctx, pos)
	if err != nil {
		s.logger.Debug("Signature query failed", zap.Error(err))

		return nil, nil //nolint:nilnil
	}

	sigParams := argfill.ParametersOf(sig)
	if len(sigParams) == 0 {
		return nil, nil //nolint:nilnil
	}

	replaceRange := protocol.Range{
		Start: positionAt(doc.Content, replacementStart(doc.Content, offset)),
		End:   positionAt(doc.Content, replacementEnd(doc.Content, offset)),
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        buildCompletionItems(sigParams, replaceRange),
	}, nil
}

// insideCallParens reports whether offset is plausibly inside a call's
// parentheses: an unmatched "(" before the cursor that is immediately
// preceded by an identifier character.
func insideCallParens(text string, offset int) bool {
	if offset > len(text) {
		offset = len(text)
	}

	depth := 0
	for i := offset - 1; i >= 0; i-- {
		switch text[i] {
		case ')':
			depth++
		case '(':
			if depth > 0 {
				depth--

				continue
			}

			return i > 0 && isIdentByte(text[i-1])
		}
	}

	return false
}

// buildCompletionItems renders the suggestion list: one top-ranked
// multi-placeholder snippet filling every parameter, then one entry per
// parameter in declaration order.
func buildCompletionItems(params []argfill.Parameter, replaceRange protocol.Range) []protocol.CompletionItem {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}

	var snippet strings.Builder
	for i, p := range params {
		if i > 0 {
			snippet.WriteString(", ")
		}

		fmt.Fprintf(&snippet, "${%d:%s}", i+1, p.Name)
	}

	items := make([]protocol.CompletionItem, 0, len(params)+1)

	items = append(items, protocol.CompletionItem{
		Label:            strings.Join(names, ", "),
		Kind:             protocol.CompletionItemKindSnippet,
		Detail:           "fill all arguments",
		SortText:         "0000",
		FilterText:       strings.Join(names, ", "),
		InsertTextFormat: protocol.InsertTextFormatSnippet,
		TextEdit: &protocol.TextEdit{
			Range:   replaceRange,
			NewText: snippet.String(),
		},
	})

	for i, p := range params {
		items = append(items, protocol.CompletionItem{
			Label:    p.Name,
			Kind:     protocol.CompletionItemKindVariable,
			Detail:   fmt.Sprintf("%d: %s", i+1, p.Type),
			SortText: fmt.Sprintf("%04d", i+1),
			TextEdit: &protocol.TextEdit{
				Range:   replaceRange,
				NewText: p.Name,
			},
		})
	}

	return items
}

// replacementEnd scans forward from offset for the end of the span the
// accepted suggestion replaces: the next top-level comma or closing bracket.
// Nested (), [] and {} are skipped; string literals are not special-cased
// here, a long-standing asymmetry with the argument counter.
func replacementEnd(text string, offset int) int {
	depth := 0

	for i := offset; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return i
			}

			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}

	return len(text)
}

// replacementStart scans backward from offset for the nearest "(" or ",",
// then skips whitespace that immediately follows it.
func replacementStart(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}

	start := offset
	for i := offset - 1; i >= 0; i-- {
		if text[i] == '(' || text[i] == ',' {
			start = i + 1

			break
		}

		if i == 0 {
			start = 0
		}
	}

	for start < offset && (text[start] == ' ' || text[start] == '\t') {
		start++
	}

	return start
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
