package render

import "regexp"

// boldPattern matches **text** non-greedily; like the reply renderer on the
// web, '.' does not cross newlines.
var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// StripBold removes markdown bold markers, keeping the enclosed text.
// Matches are taken left to right and never overlap.
func StripBold(s string) string {
	return boldPattern.ReplaceAllString(s, "$1")
}
