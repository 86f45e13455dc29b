package lsp

import (
	"context"
	"encoding/json"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Handler returns the jsonrpc2 handler dispatching LSP methods to the
// server. Methods outside the supported surface answer MethodNotFound, which
// well-behaved clients treat as "capability not offered".
func (s *Server) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodInitialize:
			var params protocol.InitializeParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			result, err := s.Initialize(ctx, &params)

			return reply(ctx, result, err)

		case protocol.MethodInitialized:
			var params protocol.InitializedParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.Initialized(ctx, &params))

		case protocol.MethodShutdown:
			return reply(ctx, nil, s.Shutdown(ctx))

		case protocol.MethodExit:
			return reply(ctx, nil, s.Exit(ctx))

		case protocol.MethodTextDocumentDidOpen:
			var params protocol.DidOpenTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidOpen(ctx, &params))

		case protocol.MethodTextDocumentDidChange:
			var params protocol.DidChangeTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidChange(ctx, &params))

		case protocol.MethodTextDocumentDidClose:
			var params protocol.DidCloseTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidClose(ctx, &params))

		case protocol.MethodTextDocumentDidSave:
			var params protocol.DidSaveTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidSave(ctx, &params))

		case protocol.MethodTextDocumentCompletion:
			var params protocol.CompletionParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			result, err := s.Completion(ctx, &params)

			return reply(ctx, result, err)

		case protocol.MethodWorkspaceExecuteCommand:
			var params protocol.ExecuteCommandParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			result, err := s.ExecuteCommand(ctx, &params)

			return reply(ctx, result, err)

		case protocol.MethodWorkspaceDidChangeConfiguration:
			var params protocol.DidChangeConfigurationParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}

			return reply(ctx, nil, s.DidChangeConfiguration(ctx, &params))

		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}
}

func replyParseError(ctx context.Context, reply jsonrpc2.Replier, err error) error {
	return reply(ctx, nil, err)
}
