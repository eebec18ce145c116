package jsonapi

import "strings"

// KeyFormatter translates a domain field name (e.g. "toOneAttribute") into
// the identifier used on the wire (e.g. "to-one-attribute"). Routers and the
// (de)serializer share one formatter so that a field's wire name is computed
// consistently in both directions.
type KeyFormatter interface {
	Format(fieldName string) string
}

// KeyFormatterFunc adapts a plain function to the [KeyFormatter] interface.
type KeyFormatterFunc func(string) string

// Format implements [KeyFormatter].
func (f KeyFormatterFunc) Format(fieldName string) string { return f(fieldName) }

// PassthroughKeyFormatter returns field names unchanged. Useful for APIs
// that mirror Go identifiers on the wire.
var PassthroughKeyFormatter KeyFormatter = KeyFormatterFunc(func(s string) string { return s })

// dashCaseFormatter implements the default JSON:API convention of dashed,
// lower-case member names (camelCase/PascalCase -> dash-case).
type dashCaseFormatter struct{}

// DashCaseFormatter is the default [KeyFormatter]. It converts
// "toOneAttribute" to "to-one-attribute" and "ID" to "id".
var DashCaseFormatter KeyFormatter = dashCaseFormatter{}

// Format implements [KeyFormatter].
func (dashCaseFormatter) Format(fieldName string) string {
	if fieldName == "" {
		return fieldName
	}

	var b strings.Builder
	runes := []rune(fieldName)

	for i, r := range runes {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper {
			// Insert a dash before a capital that starts a new word: the
			// previous rune is lowercase, or the previous rune is upper and
			// the next one is lowercase (handles runs like "HTTPServer").
			prevLower := i > 0 && !(runes[i-1] >= 'A' && runes[i-1] <= 'Z')
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}
