package argfill

import "strings"

// callPatterns maps common method names to predetermined parameter names.
// Kept as data rather than branches so it can be inspected, tested, and
// extended in isolation. All entries carry the generic Object type.
var callPatterns = map[string][]string{
	"equals":       {"obj"},
	"compareTo":    {"o"},
	"add":          {"e"},
	"remove":       {"o"},
	"contains":     {"o"},
	"get":          {"index"},
	"put":          {"key", "value"},
	"set":          {"index", "element"},
	"append":       {"str"},
	"charAt":       {"index"},
	"indexOf":      {"str"},
	"substring":    {"beginIndex", "endIndex"},
	"valueOf":      {"obj"},
	"format":       {"format", "args"},
	"print":        {"x"},
	"println":      {"x"},
	"assertEquals": {"expected", "actual"},
}

const setterPrefix = "set"

// HeuristicParameters guesses a parameter list from the callee name alone.
//
// Setter-style names (the "set" prefix followed by at least one character)
// yield a single parameter named after the de-capitalized remainder.
// Otherwise the static pattern table is consulted. Returns nil when neither
// convention matches.
func HeuristicParameters(callee string) []Parameter {
	if strings.HasPrefix(callee, setterPrefix) && len(callee) > len(setterPrefix) {
		return []Parameter{{
			Name: decapitalize(callee[len(setterPrefix):]),
			Type: ObjectType,
		}}
	}

	names, ok := callPatterns[callee]
	if !ok {
		return nil
	}

	params := make([]Parameter, len(names))
	for i, name := range names {
		params[i] = Parameter{Name: name, Type: ObjectType, Index: i}
	}

	return params
}

// decapitalize lowers the first character, leaving the rest unchanged.
func decapitalize(s string) string {
	if s == "" {
		return s
	}

	if c := s[0]; c >= 'A' && c <= 'Z' {
		return string(c+'a'-'A') + s[1:]
	}

	return s
}
