package salesforce

import "strings"

// escapeSOQL escapes a string literal for interpolation into a SOQL
// single-quoted string.
func escapeSOQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
