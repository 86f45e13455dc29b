package argfill

// CallSite is one located call expression in a document snapshot.
// Open and Close are the offsets of the opening and closing parentheses;
// Args is the exact substring between them.
//
// A CallSite is only valid for the text it was located in. Re-locate after
// every edit rather than caching across document versions.
type CallSite struct {
	Callee      string
	Constructor bool
	Open        int
	Close       int
	Args        string
}

// ArgsStart returns the offset of the first character between the parentheses.
func (c CallSite) ArgsStart() int {
	return c.Open + 1
}

// ArgsLen returns the length of the existing argument text.
func (c CallSite) ArgsLen() int {
	return c.Close - c.Open - 1
}

// Locate finds the innermost call expression enclosing offset in text.
//
// It scans backward from offset-1 for an unmatched opening paren, so a cursor
// sitting immediately before the ')' of empty parentheses still counts as
// inside the call. The second result is false when there is no enclosing call,
// no matching close paren, or no callee identifier before the paren; all of
// these are normal negative outcomes, not errors.
func Locate(text string, offset int) (CallSite, bool) {
	if offset > len(text) {
		offset = len(text)
	}

	open := -1
	depth := 0

	for i := offset - 1; i >= 0; i-- {
		switch text[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}

		if open >= 0 {
			break
		}
	}

	if open < 0 {
		return CallSite{}, false
	}

	end := -1
	depth = 0

	for i := open + 1; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				end = i
			} else {
				depth--
			}
		}

		if end >= 0 {
			break
		}
	}

	if end < 0 {
		return CallSite{}, false
	}

	callee, calleeStart := calleeBefore(text, open)
	if callee == "" {
		return CallSite{}, false
	}

	return CallSite{
		Callee:      callee,
		Constructor: precededByNew(text, calleeStart),
		Open:        open,
		Close:       end,
		Args:        text[open+1 : end],
	}, true
}

// calleeBefore extracts the identifier immediately preceding the open paren,
// skipping whitespace. Returns the identifier and the offset of its first
// character, or "" when no identifier precedes the paren (e.g. a bare
// parenthesized expression).
func calleeBefore(text string, open int) (string, int) {
	i := open - 1
	for i >= 0 && isSpace(text[i]) {
		i--
	}

	end := i + 1
	for i >= 0 && isIdentChar(text[i]) {
		i--
	}

	start := i + 1
	if start == end {
		return "", -1
	}

	return text[start:end], start
}

// precededByNew reports whether the three characters before the callee
// (after skipping whitespace) spell the instantiation keyword. The check is
// purely lexical: an identifier ending in "new" will misfire. Accepted
// heuristic limitation.
func precededByNew(text string, calleeStart int) bool {
	i := calleeStart - 1
	for i >= 0 && isSpace(text[i]) {
		i--
	}

	return i >= 2 && text[i-2:i+1] == "new"
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
