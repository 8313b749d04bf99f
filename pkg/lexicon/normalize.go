package lexicon

import (
	"strings"
	"unicode"
)

// Normalize cleans and lowercases text for matching.
// Letters, digits and apostrophes survive; everything else becomes a single
// space. The same key is used for question text, lexicon phrases, entity
// labels, aliases and search queries.
func Normalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	for _, ch := range s {
		c := unicode.ToLower(ch)

		// Curly apostrophe -> straight
		if c == '’' {
			out.WriteRune('\'')
			continue
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' {
			out.WriteRune(c)
		} else {
			out.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(out.String()), " ")
}
