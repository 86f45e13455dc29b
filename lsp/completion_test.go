package lsp_test

import (
	"context"
	"errors"
	"testing"

	"go.lsp.dev/protocol"

	"github.com/rlch/argfill"
	"github.com/rlch/argfill/lsp"
)

func complete(t *testing.T, server *lsp.Server, uri protocol.DocumentURI, pos protocol.Position) *protocol.CompletionList {
	t.Helper()

	list, err := server.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     pos,
		},
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	return list
}

func TestCompletion_BuildsSnippetAndPerParameterItems(t *testing.T) {
	t.Parallel()

	source := &fakeSource{sig: &argfill.Signature{
		Label:      "someMethod(int a, String b)",
		Parameters: []string{"int a", "String b"},
	}}
	server, _ := newTestServer(t, source)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "void m(){ someMethod(); }")

	list := complete(t, server, uri, protocol.Position{Line: 0, Character: 21})
	if list == nil {
		t.Fatal("expected completion list")
	}

	if len(list.Items) != 3 {
		t.Fatalf("expected 3 items (snippet + 2 params), got %d", len(list.Items))
	}

	all := list.Items[0]
	if all.Label != "a, b" {
		t.Errorf("top item label = %q, want %q", all.Label, "a, b")
	}
	if all.InsertTextFormat != protocol.InsertTextFormatSnippet {
		t.Error("top item should be a snippet")
	}
	if all.TextEdit == nil || all.TextEdit.NewText != "${1:a}, ${2:b}" {
		t.Errorf("unexpected snippet edit: %+v", all.TextEdit)
	}

	first := list.Items[1]
	if first.Label != "a" || first.Detail != "1: int" {
		t.Errorf("first param item = %q / %q", first.Label, first.Detail)
	}

	second := list.Items[2]
	if second.Label != "b" || second.Detail != "2: String" {
		t.Errorf("second param item = %q / %q", second.Label, second.Detail)
	}

	if !(all.SortText < first.SortText && first.SortText < second.SortText) {
		t.Errorf("items not ranked: %q %q %q", all.SortText, first.SortText, second.SortText)
	}
}

func TestCompletion_ReplacementSpanStopsAtTopLevelComma(t *testing.T) {
	t.Parallel()

	source := &fakeSource{sig: &argfill.Signature{
		Parameters: []string{"int a"},
	}}
	server, _ := newTestServer(t, source)

	uri := protocol.DocumentURI("file:///T.java")
	// Cursor right after the open paren, existing text "first, second" follows.
	openDoc(t, server, uri, "java", "call(first, second)")

	list := complete(t, server, uri, protocol.Position{Line: 0, Character: 5})
	if list == nil || len(list.Items) == 0 {
		t.Fatal("expected completion items")
	}

	edit := list.Items[0].TextEdit
	if edit == nil {
		t.Fatal("expected a text edit")
	}

	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 5},
		End:   protocol.Position{Line: 0, Character: 10}, // up to the comma after "first"
	}
	if edit.Range != want {
		t.Errorf("replacement range = %+v, want %+v", edit.Range, want)
	}
}

func TestCompletion_DisabledByOptions(t *testing.T) {
	t.Parallel()

	source := &fakeSource{sig: &argfill.Signature{Parameters: []string{"int a"}}}
	server, _ := newTestServer(t, source)

	opts := argfill.DefaultOptions()
	opts.EnableCompletion = false
	server.SetOptions(opts)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "foo()")

	list := complete(t, server, uri, protocol.Position{Line: 0, Character: 4})
	if list != nil {
		t.Errorf("expected no completions, got %+v", list)
	}
}

func TestCompletion_NoSourceNoSuggestions(t *testing.T) {
	t.Parallel()

	// Completion never falls back to heuristics, even for names the
	// fill command could resolve.
	server, _ := newTestServer(t, nil)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "w.setTitle()")

	list := complete(t, server, uri, protocol.Position{Line: 0, Character: 11})
	if list != nil {
		t.Errorf("expected no completions, got %+v", list)
	}
}

func TestCompletion_SourceErrorNoSuggestions(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: errors.New("upstream down")}
	server, _ := newTestServer(t, source)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "foo()")

	list := complete(t, server, uri, protocol.Position{Line: 0, Character: 4})
	if list != nil {
		t.Errorf("expected no completions, got %+v", list)
	}
}

func TestCompletion_OutsideCallParens(t *testing.T) {
	t.Parallel()

	source := &fakeSource{sig: &argfill.Signature{Parameters: []string{"int a"}}}
	server, _ := newTestServer(t, source)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "int x = 3;")

	list := complete(t, server, uri, protocol.Position{Line: 0, Character: 5})
	if list != nil {
		t.Errorf("expected no completions, got %+v", list)
	}
}
