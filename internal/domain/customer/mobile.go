package customer

import (
	"regexp"
	"strings"
)

// Supported mobile formats, full international form only. Indian numbers
// are +91 followed by 10 digits starting 6-9; Nepali numbers are +977
// followed by 10 digits starting 9.
var (
	indianMobile = regexp.MustCompile(`^\+91[6-9]\d{9}$`)
	nepaliMobile = regexp.MustCompile(`^\+9779\d{9}$`)
)

// NormalizeMobile strips whitespace, hyphens, and parentheses from a mobile
// number and rewrites a leading 00 to +. It does not validate.
func NormalizeMobile(mobile string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(mobile) {
		switch r {
		case ' ', '-', '(', ')':
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	return s
}

// ValidMobile reports whether a normalized mobile number is in one of the
// two supported formats.
func ValidMobile(mobile string) bool {
	return indianMobile.MatchString(mobile) || nepaliMobile.MatchString(mobile)
}
