package osc

import (
	"regexp"
	"strings"
)

////
// Utility and helper functions
////

// getRegEx compiles and returns a regular expression object for the given
// address `pattern`. The expression is anchored at both ends. A ',' is an
// alternative separator only inside '{...}'; anywhere else it is literal.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteByte('^')

	inBraces, inClass := false, false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case inClass && c == ']':
			inClass = false
			sb.WriteByte(']')
		case inClass:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		case c == '[':
			inClass = true
			sb.WriteByte('[')
			if i+1 < len(pattern) && pattern[i+1] == '!' {
				sb.WriteByte('^')
				i++
			}
		case c == '*':
			sb.WriteString("[^/]*")
		case c == '?':
			sb.WriteString("[^/]")
		case c == '{' && !inBraces:
			inBraces = true
			sb.WriteByte('(')
		case c == '}' && inBraces:
			inBraces = false
			sb.WriteByte(')')
		case c == ',' && inBraces:
			sb.WriteByte('|')
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}

	sb.WriteByte('$')
	return regexp.Compile(sb.String())
}
