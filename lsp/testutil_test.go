package lsp_test

import (
	"context"
	"sync"
	"testing"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/argfill"
	"github.com/rlch/argfill/lsp"
)

// mockClient records the notifications and requests the server sends.
type mockClient struct {
	mu           sync.Mutex
	messages     []protocol.ShowMessageParams
	appliedEdits []protocol.ApplyWorkspaceEditParams

	// applyResult / applyErr control the ApplyEdit response.
	applyResult bool
	applyErr    error
}

func newMockClient() *mockClient {
	return &mockClient{applyResult: true}
}

func (m *mockClient) Progress(_ context.Context, _ *protocol.ProgressParams) error { return nil }

func (m *mockClient) WorkDoneProgressCreate(_ context.Context, _ *protocol.WorkDoneProgressCreateParams) error {
	return nil
}

func (m *mockClient) LogMessage(_ context.Context, _ *protocol.LogMessageParams) error { return nil }

func (m *mockClient) PublishDiagnostics(_ context.Context, _ *protocol.PublishDiagnosticsParams) error {
	return nil
}

func (m *mockClient) ShowMessage(_ context.Context, params *protocol.ShowMessageParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, *params)

	return nil
}

func (m *mockClient) ShowMessageRequest(_ context.Context, _ *protocol.ShowMessageRequestParams) (*protocol.MessageActionItem, error) {
	return nil, nil //nolint:nilnil
}

func (m *mockClient) Telemetry(_ context.Context, _ interface{}) error { return nil }

func (m *mockClient) RegisterCapability(_ context.Context, _ *protocol.RegistrationParams) error {
	return nil
}

func (m *mockClient) UnregisterCapability(_ context.Context, _ *protocol.UnregistrationParams) error {
	return nil
}

func (m *mockClient) ApplyEdit(_ context.Context, params *protocol.ApplyWorkspaceEditParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appliedEdits = append(m.appliedEdits, *params)

	return m.applyResult, m.applyErr
}

func (m *mockClient) Configuration(_ context.Context, _ *protocol.ConfigurationParams) ([]interface{}, error) {
	return nil, nil
}

func (m *mockClient) WorkspaceFolders(_ context.Context) ([]protocol.WorkspaceFolder, error) {
	return nil, nil
}

func (m *mockClient) lastMessage() (protocol.ShowMessageParams, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.messages) == 0 {
		return protocol.ShowMessageParams{}, false
	}

	return m.messages[len(m.messages)-1], true
}

func (m *mockClient) edits() []protocol.ApplyWorkspaceEditParams {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]protocol.ApplyWorkspaceEditParams(nil), m.appliedEdits...)
}

// fakeSource is a canned SignatureSource for tests.
type fakeSource struct {
	sig *argfill.Signature
	err error
}

func (f *fakeSource) Signature(_ context.Context, _ argfill.DocumentPosition) (*argfill.Signature, error) {
	return f.sig, f.err
}

func newTestServer(t *testing.T, source argfill.SignatureSource) (*lsp.Server, *mockClient) {
	t.Helper()

	client := newMockClient()
	server := lsp.NewServer(client, zap.NewNop(), source)

	return server, client
}

// openDoc opens a document on the server with the given language.
func openDoc(t *testing.T, server *lsp.Server, uri protocol.DocumentURI, langID, text string) {
	t.Helper()

	ctx := context.Background()

	_, _ = server.Initialize(ctx, &protocol.InitializeParams{})
	_ = server.Initialized(ctx, &protocol.InitializedParams{})

	err := server.DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: protocol.LanguageIdentifier(langID),
			Version:    1,
			Text:       text,
		},
	})
	if err != nil {
		t.Fatalf("DidOpen() error: %v", err)
	}
}
