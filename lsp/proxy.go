package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/argfill"
)

// Provider is the production SignatureSource: it spawns a configured
// upstream language server and forwards textDocument/signatureHelp queries
// to it over stdio.
//
// The upstream process is started lazily on the first query and kept alive
// until Close. Every failure - spawn, handshake, query, malformed response -
// surfaces as an error that the resolver treats as "no authoritative data",
// so a broken provider degrades to heuristics instead of breaking the fill.
type Provider struct {
	logger  *zap.Logger
	command []string

	mu          sync.Mutex
	cmd         *exec.Cmd
	conn        jsonrpc2.Conn
	initialized bool
	versions    map[string]int32
}

// NewProvider creates a provider for the given upstream command line.
func NewProvider(logger *zap.Logger, command []string) *Provider {
	return &Provider{
		logger:   logger,
		command:  command,
		versions: make(map[string]int32),
	}
}

// Signature implements argfill.SignatureSource.
func (p *Provider) Signature(ctx context.Context, pos argfill.DocumentPosition) (*argfill.Signature, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureStarted(ctx); err != nil {
		return nil, err
	}

	if err := p.syncDocument(ctx, pos.URI, pos.Text); err != nil {
		return nil, err
	}

	params := protocol.SignatureHelpParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(pos.URI)},
			Position:     positionAt(pos.Text, pos.Offset),
		},
	}

	var result signatureHelpResult

	_, err := p.conn.Call(ctx, protocol.MethodTextDocumentSignatureHelp, params, &result)
	if err != nil {
		return nil, fmt.Errorf("signatureHelp query: %w", err)
	}

	return result.active(), nil
}

// Close shuts the upstream server down.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}

	ctx := context.Background()
	_, _ = p.conn.Call(ctx, protocol.MethodShutdown, nil, nil)
	_ = p.conn.Notify(ctx, protocol.MethodExit, nil)
	_ = p.conn.Close()

	err := p.cmd.Wait()

	p.conn = nil
	p.cmd = nil
	p.initialized = false

	return err
}

// ensureStarted spawns and initializes the upstream server once.
func (p *Provider) ensureStarted(ctx context.Context) error {
	if p.initialized {
		return nil
	}

	if len(p.command) == 0 {
		return fmt.Errorf("no provider command configured")
	}

	cmd := exec.Command(p.command[0], p.command[1:]...) //nolint:gosec // G204: command comes from user config
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting provider %q: %w", p.command[0], err)
	}

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(&pipeReadWriteCloser{stdout, stdin}))

	// Upstream-initiated requests are not part of the proxy contract.
	conn.Go(ctx, jsonrpc2.MethodNotFoundHandler)

	initParams := protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
	}

	var initResult protocol.InitializeResult

	_, err = conn.Call(ctx, protocol.MethodInitialize, initParams, &initResult)
	if err != nil {
		_ = conn.Close()
		_ = cmd.Process.Kill()

		return fmt.Errorf("initializing provider: %w", err)
	}

	if err := conn.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}); err != nil {
		_ = conn.Close()
		_ = cmd.Process.Kill()

		return err
	}

	p.logger.Info("Signature provider started", zap.String("command", p.command[0]))

	p.cmd = cmd
	p.conn = conn
	p.initialized = true

	return nil
}

// syncDocument pushes the current snapshot upstream: didOpen on first sight
// of a URI, full-content didChange after that.
func (p *Provider) syncDocument(ctx context.Context, docURI, text string) error {
	version, known := p.versions[docURI]

	if !known {
		p.versions[docURI] = 1

		return p.conn.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
			TextDocument: protocol.TextDocumentItem{
				URI:        protocol.DocumentURI(docURI),
				LanguageID: "java",
				Version:    1,
				Text:       text,
			},
		})
	}

	version++
	p.versions[docURI] = version

	return p.conn.Notify(ctx, protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(docURI)},
			Version:                version,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: text}},
	})
}

// pipeReadWriteCloser joins the upstream's stdout/stdin into one stream.
type pipeReadWriteCloser struct {
	io.ReadCloser
	io.WriteCloser
}

func (p *pipeReadWriteCloser) Close() error {
	werr := p.WriteCloser.Close()
	rerr := p.ReadCloser.Close()

	if werr != nil {
		return werr
	}

	return rerr
}

// signatureHelpResult decodes a signatureHelp response, tolerating both
// parameter label encodings the protocol allows: a plain string, or a
// [start, end) offset pair into the signature label.
type signatureHelpResult struct {
	Signatures      []signatureInformation `json:"signatures"`
	ActiveSignature uint32                 `json:"activeSignature"`
}

type signatureInformation struct {
	Label      string                 `json:"label"`
	Parameters []parameterInformation `json:"parameters"`
}

type parameterInformation struct {
	Label parameterLabel `json:"label"`
}

// parameterLabel is either a string or an offset pair.
type parameterLabel struct {
	text    string
	start   int
	end     int
	offsets bool
}

func (l *parameterLabel) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var pair [2]int
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}

		l.start, l.end = pair[0], pair[1]
		l.offsets = true

		return nil
	}

	return json.Unmarshal(data, &l.text)
}

// resolve materializes the label text, slicing the signature label for the
// offset encoding. Out-of-range offsets yield an empty label, which the
// parameter parser then defaults.
func (l parameterLabel) resolve(sigLabel string) string {
	if !l.offsets {
		return l.text
	}

	if l.start < 0 || l.end > len(sigLabel) || l.start > l.end {
		return ""
	}

	return sigLabel[l.start:l.end]
}

// active converts the response's active signature, or nil when the upstream
// reported none.
func (r *signatureHelpResult) active() *argfill.Signature {
	if len(r.Signatures) == 0 {
		return nil
	}

	idx := int(r.ActiveSignature)
	if idx >= len(r.Signatures) {
		idx = 0
	}

	info := r.Signatures[idx]

	sig := &argfill.Signature{
		Label:      info.Label,
		Parameters: make([]string, 0, len(info.Parameters)),
	}

	for _, param := range info.Parameters {
		sig.Parameters = append(sig.Parameters, param.Label.resolve(info.Label))
	}

	return sig
}
