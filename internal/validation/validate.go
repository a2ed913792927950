// Package validation holds the input rules for user-supplied fields.
package validation

import (
	"html"
	"net/mail"
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	tagRegex      = regexp.MustCompile(`<[^>]*>`)
)

// Username accepts 3-50 alphanumeric characters or underscores.
func Username(username string) bool {
	return usernameRegex.MatchString(username)
}

// Email accepts syntactically valid addresses.
func Email(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Password requires a minimum length of 6 characters.
func Password(password string) bool {
	return len(password) >= 6
}

// SanitizeString trims whitespace, strips markup and escapes what remains.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = tagRegex.ReplaceAllString(s, "")
	return html.EscapeString(s)
}

// SanitizeEmail trims whitespace around an address.
func SanitizeEmail(email string) string {
	return strings.TrimSpace(email)
}
