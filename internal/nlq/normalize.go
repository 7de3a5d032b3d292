package nlq

import "strings"

// Normalize lower-cases the query and collapses runs of whitespace into
// single spaces. Accents are preserved: the intent and extraction
// patterns match accented Portuguese phrases ("última semana") and
// stripping diacritics would break every downstream probe.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
