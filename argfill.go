// Package argfill locates call expressions in raw source text and synthesizes
// plausible argument text to insert at the cursor.
//
// The core is purely lexical: it tolerates nested brackets, string literals
// containing punctuation, and partially-typed code, and never requires a full
// parse. Authoritative parameter information, when available, comes from a
// pluggable SignatureSource; without one, a small set of naming heuristics
// fills the gap on a best-effort basis.
package argfill

// Options controls how arguments are resolved and rendered.
//
// Precedence is fixed: when UseParameterNames is set, parameter names are used
// whenever available, even if FallbackToTypeName is also set. Otherwise
// type-derived names are used when FallbackToTypeName is set, and positional
// argN placeholders when neither is.
type Options struct {
	// EnableCompletion enables the interactive completion surface.
	EnableCompletion bool

	// UseParameterNames renders arguments using the parameter names.
	UseParameterNames bool

	// FallbackToTypeName enables type-derived argument names and, in the
	// resolver, the heuristic fallback table.
	FallbackToTypeName bool
}

// DefaultOptions returns the default configuration: everything enabled.
func DefaultOptions() Options {
	return Options{
		EnableCompletion:   true,
		UseParameterNames:  true,
		FallbackToTypeName: true,
	}
}

// Parameter is one formal parameter of a resolved call target.
// Index is zero-based declaration order.
type Parameter struct {
	Name  string
	Type  string
	Index int
}

// FillResult is a computed text replacement: Arguments replaces the half-open
// range [ReplaceStart, ReplaceStart+ReplaceLength) of the document.
// Applying the edit is the caller's responsibility; the range is only valid
// for the document snapshot the fill was computed against.
type FillResult struct {
	Arguments     string
	ReplaceStart  int
	ReplaceLength int
}

// ObjectType is the generic type marker used when no type information exists.
const ObjectType = "Object"
