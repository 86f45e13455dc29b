package lsp_test

import (
	"context"
	"errors"
	"testing"

	"go.lsp.dev/protocol"

	"github.com/rlch/argfill"
	"github.com/rlch/argfill/lsp"
)

func fillAt(t *testing.T, server *lsp.Server, uri protocol.DocumentURI, pos protocol.Position) {
	t.Helper()

	_, err := server.ExecuteCommand(context.Background(), &protocol.ExecuteCommandParams{
		Command: lsp.CommandFillArguments,
		Arguments: []interface{}{
			map[string]interface{}{
				"uri": string(uri),
				"position": map[string]interface{}{
					"line":      float64(pos.Line),
					"character": float64(pos.Character),
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("ExecuteCommand() error: %v", err)
	}
}

func TestFillArguments_FromSignatureSource(t *testing.T) {
	t.Parallel()

	source := &fakeSource{sig: &argfill.Signature{
		Label:      "someMethod(int a, String b)",
		Parameters: []string{"int a", "String b"},
	}}
	server, client := newTestServer(t, source)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "void m(){ someMethod(); }")

	// Cursor between the parens of someMethod
	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 21})

	edits := client.edits()
	if len(edits) != 1 {
		t.Fatalf("expected 1 applied edit, got %d", len(edits))
	}

	change := edits[0].Edit.Changes[uri]
	if len(change) != 1 {
		t.Fatalf("expected 1 text edit, got %d", len(change))
	}

	if change[0].NewText != "a, b" {
		t.Errorf("NewText = %q, want %q", change[0].NewText, "a, b")
	}

	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 21},
		End:   protocol.Position{Line: 0, Character: 21},
	}
	if change[0].Range != want {
		t.Errorf("Range = %+v, want %+v", change[0].Range, want)
	}
}

func TestFillArguments_SetterHeuristic(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t, nil)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "w.setTitle()")

	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 11})

	edits := client.edits()
	if len(edits) != 1 {
		t.Fatalf("expected 1 applied edit, got %d", len(edits))
	}

	change := edits[0].Edit.Changes[uri]
	if len(change) != 1 || change[0].NewText != "title" {
		t.Fatalf("unexpected edit: %+v", change)
	}
}

func TestFillArguments_PatternTable(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t, nil)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "a.equals()")

	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 9})

	edits := client.edits()
	if len(edits) != 1 {
		t.Fatalf("expected 1 applied edit, got %d", len(edits))
	}

	change := edits[0].Edit.Changes[uri]
	if len(change) != 1 || change[0].NewText != "obj" {
		t.Fatalf("unexpected edit: %+v", change)
	}
}

func TestFillArguments_UnknownCalleeIsInformational(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t, nil)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "mysteryMethod()")

	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 14})

	if len(client.edits()) != 0 {
		t.Fatal("expected no edit")
	}

	msg, ok := client.lastMessage()
	if !ok {
		t.Fatal("expected an informational message")
	}

	if msg.Type != protocol.MessageTypeInfo {
		t.Errorf("message type = %v, want Info", msg.Type)
	}
}

func TestFillArguments_ExistingArgumentsUntouched(t *testing.T) {
	t.Parallel()

	// Even with a working source, user-typed arguments are never replaced.
	source := &fakeSource{sig: &argfill.Signature{Parameters: []string{"int a"}}}
	server, client := newTestServer(t, source)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "foo(1, 2)")

	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 5})

	if len(client.edits()) != 0 {
		t.Fatal("expected no edit for an already-filled call")
	}

	msg, ok := client.lastMessage()
	if !ok || msg.Type != protocol.MessageTypeInfo {
		t.Errorf("expected Info message, got %+v", msg)
	}
}

func TestFillArguments_NonJavaDocumentWarns(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t, nil)

	uri := protocol.DocumentURI("file:///main.go")
	openDoc(t, server, uri, "go", "foo()")

	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 4})

	if len(client.edits()) != 0 {
		t.Fatal("expected no edit")
	}

	msg, ok := client.lastMessage()
	if !ok || msg.Type != protocol.MessageTypeWarning {
		t.Errorf("expected Warning message, got %+v", msg)
	}
}

func TestFillArguments_NoCallSiteIsInformational(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t, nil)

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "int x = 3;")

	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 5})

	if len(client.edits()) != 0 {
		t.Fatal("expected no edit")
	}

	msg, ok := client.lastMessage()
	if !ok || msg.Type != protocol.MessageTypeInfo {
		t.Errorf("expected Info message, got %+v", msg)
	}
}

func TestFillArguments_ApplyEditFailureSurfacesError(t *testing.T) {
	t.Parallel()

	server, client := newTestServer(t, nil)
	client.applyErr = errors.New("stale document")

	uri := protocol.DocumentURI("file:///T.java")
	openDoc(t, server, uri, "java", "w.setTitle()")

	fillAt(t, server, uri, protocol.Position{Line: 0, Character: 11})

	msg, ok := client.lastMessage()
	if !ok || msg.Type != protocol.MessageTypeError {
		t.Errorf("expected Error message, got %+v", msg)
	}
}

func TestExecuteCommand_UnknownCommand(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, nil)

	_, err := server.ExecuteCommand(context.Background(), &protocol.ExecuteCommandParams{
		Command: "argfill.bogus",
	})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}
