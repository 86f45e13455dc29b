package argfill

import (
	"fmt"
	"strings"
)

// Synthesize renders a parameter list as insertable argument text, joined
// with ", ". The naming mode is chosen once from the Options precedence and
// applied uniformly: parameter names, then type-derived names, then
// positional placeholders.
func Synthesize(params []Parameter, opts Options) string {
	var render func(Parameter) string

	switch {
	case opts.UseParameterNames:
		render = func(p Parameter) string { return p.Name }
	case opts.FallbackToTypeName:
		render = func(p Parameter) string { return TypeDerivedName(p.Type) }
	default:
		render = func(p Parameter) string { return fmt.Sprintf("arg%d", p.Index+1) }
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = render(p)
	}

	return strings.Join(parts, ", ")
}

// TypeDerivedName derives an identifier from a type label: angle and square
// brackets are stripped, the simple name after the last '.' is taken, and the
// first character is lower-cased. An empty result becomes "arg".
func TypeDerivedName(typ string) string {
	var b strings.Builder
	for i := 0; i < len(typ); i++ {
		switch typ[i] {
		case '<', '>', '[', ']':
		default:
			b.WriteByte(typ[i])
		}
	}

	name := b.String()
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[dot+1:]
	}

	if name == "" {
		return "arg"
	}

	return decapitalize(name)
}
