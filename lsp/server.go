// Package lsp implements a Language Server Protocol server exposing the
// argfill call-argument filler to editors.
package lsp

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/argfill"
)

// Server implements the LSP handlers for argfill.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// Optional authoritative signature provider. Nil means absent; every
	// code path degrades to heuristics or to no result.
	source argfill.SignatureSource

	// Options snapshot. Swapped atomically on configuration changes;
	// in-flight requests keep the snapshot they captured at start.
	optsMu sync.RWMutex
	opts   argfill.Options

	// Server state
	initialized bool
	shutdown    bool
}

// Document represents an open document in the server.
type Document struct {
	URI        protocol.DocumentURI
	LanguageID string
	Version    int32
	Content    string
}

// NewServer creates a new LSP server. source may be nil when no upstream
// signature provider is configured.
func NewServer(client protocol.Client, logger *zap.Logger, source argfill.SignatureSource) *Server {
	return &Server{
		client:    client,
		logger:    logger,
		documents: make(map[protocol.DocumentURI]*Document),
		source:    source,
		opts:      argfill.DefaultOptions(),
	}
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.Any("params", params))

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			// Argument completion inside freshly typed parentheses
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"("},
				ResolveProvider:   false,
			},
			// Explicit fill-at-cursor command
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandFillArguments},
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "argfill-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	if closer, ok := s.source.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop handles process exit after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(_ context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.String("languageID", string(params.TextDocument.LanguageID)))

	doc := &Document{
		URI:        params.TextDocument.URI,
		LanguageID: string(params.TextDocument.LanguageID),
		Version:    params.TextDocument.Version,
		Content:    params.TextDocument.Text,
	}

	s.mu.Lock()
	s.documents[params.TextDocument.URI] = doc
	s.mu.Unlock()

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(_ context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Debug("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one)
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
	}

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(_ context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	return nil
}

// DidChangeConfiguration handles workspace/didChangeConfiguration.
//
// Settings are decoded from the "argfill" section and the whole snapshot is
// replaced in one step, so a concurrent request sees either the old or the
// new Options, never a mix.
func (s *Server) DidChangeConfiguration(_ context.Context, params *protocol.DidChangeConfigurationParams) error {
	s.logger.Info("DidChangeConfiguration")

	opts, ok := decodeSettings(params.Settings)
	if !ok {
		return nil
	}

	s.optsMu.Lock()
	s.opts = opts
	s.optsMu.Unlock()

	return nil
}

// SetOptions replaces the Options snapshot. Exposed for embedding and tests.
func (s *Server) SetOptions(opts argfill.Options) {
	s.optsMu.Lock()
	s.opts = opts
	s.optsMu.Unlock()
}

// options returns the current Options snapshot.
func (s *Server) options() argfill.Options {
	s.optsMu.RLock()
	defer s.optsMu.RUnlock()

	return s.opts
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]

	return doc, ok
}

// decodeSettings extracts Options from a didChangeConfiguration payload of
// the shape {"argfill": {"completion": ..., "useParameterNames": ...,
// "fallbackToTypeName": ...}}. Returns false when the payload carries no
// argfill section.
func decodeSettings(settings interface{}) (argfill.Options, bool) {
	opts := argfill.DefaultOptions()

	top, ok := settings.(map[string]interface{})
	if !ok {
		return opts, false
	}

	section, ok := top["argfill"].(map[string]interface{})
	if !ok {
		return opts, false
	}

	if v, ok := section["completion"].(bool); ok {
		opts.EnableCompletion = v
	}

	if v, ok := section["useParameterNames"].(bool); ok {
		opts.UseParameterNames = v
	}

	if v, ok := section["fallbackToTypeName"].(bool); ok {
		opts.FallbackToTypeName = v
	}

	return opts, true
}
