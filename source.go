package argfill

import (
	"context"
	"fmt"
	"strings"
)

// DocumentPosition identifies where a signature query should be answered.
// Text is the full document snapshot so implementations can sync or convert
// the offset without re-reading the file.
type DocumentPosition struct {
	URI    string
	Text   string
	Offset int
}

// SignatureSource provides authoritative, declaration-ordered parameter
// information for the call at a position. It is an optional capability: a nil
// SignatureSource means the capability is absent, and the resolver behaves
// identically whether the source is missing or merely declines to answer.
//
// Implementations return (nil, nil) when no signature is active at the
// position. Errors are treated by callers as "no authoritative data" and are
// never propagated further.
type SignatureSource interface {
	Signature(ctx context.Context, pos DocumentPosition) (*Signature, error)
}

// Signature is one call signature as reported by a SignatureSource.
type Signature struct {
	// Label is the full signature label, e.g. "indexOf(String str, int fromIndex)".
	Label string

	// Parameters holds one label per formal parameter, in declaration order,
	// in the convention "<type> <name>". A trailing variadic marker is part
	// of the type text.
	Parameters []string
}

// ParametersOf converts a signature's parameter labels into Parameters.
//
// Each label splits on whitespace: the last token is the name, the preceding
// tokens joined by single spaces form the type. A single-token label becomes
// the name with the generic Object type. Blank labels fall back to a
// positional arg<N> name.
func ParametersOf(sig *Signature) []Parameter {
	if sig == nil || len(sig.Parameters) == 0 {
		return nil
	}

	params := make([]Parameter, 0, len(sig.Parameters))
	for i, label := range sig.Parameters {
		params = append(params, parseParameterLabel(label, i))
	}

	return params
}

// parseParameterLabel parses one "<type> <name>" label.
func parseParameterLabel(label string, index int) Parameter {
	fields := strings.Fields(label)

	p := Parameter{Index: index}

	switch len(fields) {
	case 0:
	case 1:
		p.Name = fields[0]
	default:
		p.Name = fields[len(fields)-1]
		p.Type = strings.Join(fields[:len(fields)-1], " ")
	}

	if p.Name == "" {
		p.Name = fmt.Sprintf("arg%d", index+1)
	}

	if p.Type == "" {
		p.Type = ObjectType
	}

	return p
}
