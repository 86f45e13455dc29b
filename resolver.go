package argfill

import "context"

// Resolver produces a parameter list for a located call site, layering an
// optional authoritative SignatureSource over the heuristic fallbacks.
//
// A nil Resolver value is not usable; construct with NewResolver. The zero
// source is valid and means the capability is absent.
type Resolver struct {
	source SignatureSource
}

// NewResolver creates a resolver. source may be nil when no signature
// capability is available; resolution then relies on heuristics alone.
func NewResolver(source SignatureSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the parameters to fill at the given call site, or nil when
// the call is unresolvable. Unresolvable is a normal outcome, never an error:
// it covers already-present arguments, an absent or failing source, and
// callee names no heuristic recognizes.
//
// Existing arguments always win: a call site whose parentheses already
// contain a non-blank argument list is never overridden, regardless of what
// the source would report.
func (r *Resolver) Resolve(ctx context.Context, pos DocumentPosition, site CallSite, opts Options) []Parameter {
	if CountArguments(site.Args) > 0 {
		return nil
	}

	if r.source != nil {
		sig, err := r.source.Signature(ctx, pos)
		if err == nil {
			if params := ParametersOf(sig); len(params) > 0 {
				return params
			}
		}
		// Source errors fall through to heuristics: a failing provider is
		// indistinguishable from an absent one.
	}

	if !opts.FallbackToTypeName {
		return nil
	}

	return HeuristicParameters(site.Callee)
}

// FillAt runs the full pipeline against a document snapshot: locate the call
// enclosing offset, resolve its parameters, and synthesize the replacement.
// Returns nil when there is nothing to fill.
func (r *Resolver) FillAt(ctx context.Context, uri, text string, offset int, opts Options) *FillResult {
	site, ok := Locate(text, offset)
	if !ok {
		return nil
	}

	pos := DocumentPosition{URI: uri, Text: text, Offset: site.ArgsStart()}

	params := r.Resolve(ctx, pos, site, opts)
	if len(params) == 0 {
		return nil
	}

	return &FillResult{
		Arguments:     Synthesize(params, opts),
		ReplaceStart:  site.ArgsStart(),
		ReplaceLength: site.ArgsLen(),
	}
}
