// Package email derives human-facing display names from email addresses.
// Access requests arrive from upstream systems that sometimes omit the
// requester's name; notifications and audit entries still need one.
package email

import (
	"strings"
	"unicode"
)

// DisplayName builds a "First Last" display name from the local part of an
// email address. Separators (dot, underscore, hyphen, plus) split name parts;
// a single part yields just that part capitalized. An unusable address yields
// "Unknown User".
func DisplayName(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Unknown User"
	}
	if len(parts) == 1 {
		return capitalize(parts[0])
	}
	return capitalize(parts[0]) + " " + capitalize(parts[len(parts)-1])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
