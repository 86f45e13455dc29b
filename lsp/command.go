package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/argfill"
)

// CommandFillArguments is the workspace/executeCommand identifier for the
// explicit fill-at-cursor action.
const CommandFillArguments = "argfill.fillArguments"

// fillCommandArgs is the expected payload of the fill command.
type fillCommandArgs struct {
	URI      protocol.DocumentURI `json:"uri"`
	Position protocol.Position    `json:"position"`
}

// ExecuteCommand handles workspace/executeCommand requests.
func (s *Server) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	s.logger.Debug("ExecuteCommand", zap.String("command", params.Command))

	if params.Command != CommandFillArguments {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}

	args, err := decodeFillArgs(params.Arguments)
	if err != nil {
		return nil, err
	}

	return nil, s.fillArguments(ctx, args)
}

// fillArguments runs the fill pipeline for one cursor position and applies
// the resulting edit through the client.
//
// Everything below the edit application is an informational outcome: no call
// site, nothing resolvable, or arguments already present all end in a
// showMessage Info, never an error. Only a failing workspace/applyEdit is
// surfaced as an Error message.
func (s *Server) fillArguments(ctx context.Context, args fillCommandArgs) error {
	doc, ok := s.getDocument(args.URI)
	if !ok {
		s.showInfo(ctx, "argfill: document is not open")

		return nil
	}

	if doc.LanguageID != "java" {
		s.showWarning(ctx, "argfill: fill arguments only works on Java files")

		return nil
	}

	opts := s.options()
	offset := offsetAt(doc.Content, args.Position)

	site, ok := argfill.Locate(doc.Content, offset)
	if !ok {
		s.showInfo(ctx, "argfill: no method call found at the cursor")

		return nil
	}

	if argfill.CountArguments(site.Args) > 0 {
		s.showInfo(ctx, "argfill: arguments already present")

		return nil
	}

	resolver := argfill.NewResolver(s.source)
	pos := argfill.DocumentPosition{URI: string(args.URI), Text: doc.Content, Offset: site.ArgsStart()}

	params := resolver.Resolve(ctx, pos, site, opts)
	if len(params) == 0 {
		s.showInfo(ctx, fmt.Sprintf("argfill: no parameters could be resolved for %q", site.Callee))

		return nil
	}

	fill := argfill.FillResult{
		Arguments:     argfill.Synthesize(params, opts),
		ReplaceStart:  site.ArgsStart(),
		ReplaceLength: site.ArgsLen(),
	}

	edit := protocol.TextEdit{
		Range: protocol.Range{
			Start: positionAt(doc.Content, fill.ReplaceStart),
			End:   positionAt(doc.Content, fill.ReplaceStart+fill.ReplaceLength),
		},
		NewText: fill.Arguments,
	}

	applied, err := s.client.ApplyEdit(ctx, &protocol.ApplyWorkspaceEditParams{
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				args.URI: {edit},
			},
		},
	})
	if err != nil {
		s.showError(ctx, fmt.Sprintf("argfill: failed to apply edit: %v", err))

		return nil
	}

	if !applied {
		s.showError(ctx, "argfill: the editor rejected the edit")
	}

	return nil
}

// decodeFillArgs extracts the command payload from the loosely-typed
// executeCommand arguments array.
func decodeFillArgs(raw []interface{}) (fillCommandArgs, error) {
	var args fillCommandArgs

	if len(raw) == 0 {
		return args, fmt.Errorf("%s: missing arguments", CommandFillArguments)
	}

	data, err := json.Marshal(raw[0])
	if err != nil {
		return args, fmt.Errorf("%s: %w", CommandFillArguments, err)
	}

	if err := json.Unmarshal(data, &args); err != nil {
		return args, fmt.Errorf("%s: %w", CommandFillArguments, err)
	}

	if args.URI == "" {
		return args, fmt.Errorf("%s: missing uri", CommandFillArguments)
	}

	return args, nil
}

func (s *Server) showInfo(ctx context.Context, message string) {
	s.showMessage(ctx, protocol.MessageTypeInfo, message)
}

func (s *Server) showWarning(ctx context.Context, message string) {
	s.showMessage(ctx, protocol.MessageTypeWarning, message)
}

func (s *Server) showError(ctx context.Context, message string) {
	s.showMessage(ctx, protocol.MessageTypeError, message)
}

func (s *Server) showMessage(ctx context.Context, typ protocol.MessageType, message string) {
	err := s.client.ShowMessage(ctx, &protocol.ShowMessageParams{
		Type:    typ,
		Message: message,
	})
	if err != nil {
		s.logger.Error("Failed to send showMessage", zap.Error(err))
	}
}
