package argfill

import "strings"

// CountArguments counts top-level comma-separated segments in the text
// between a call's parentheses. Commas nested inside (), [], {} or inside
// single-/double-quoted string literals are ignored.
//
// Bracket kinds share one depth counter; the scanner does not verify that
// closers match their openers. The string toggle is keyed to the quote
// character that opened the literal, so a double quote inside a
// single-quoted literal does not end it.
func CountArguments(args string) int {
	if strings.TrimSpace(args) == "" {
		return 0
	}

	count := 1
	depth := 0

	var quote byte

	for i := 0; i < len(args); i++ {
		c := args[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}

			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				count++
			}
		}
	}

	return count
}
