// Package validation holds the format rules for phone book fields. Every
// function is a pure predicate.
package validation

import "regexp"

// namePattern accepts one or two capitalised name segments, each optionally
// containing a hyphen or apostrophe, separated by a space or comma-space, with
// an optional third segment and trailing period for initials.
var namePattern = regexp.MustCompile(
	`^[A-Z][a-zA-Z]*[-']?[a-zA-Z]+,? ?[a-zA-Z]*[-']?[a-zA-Z]+ ?[a-zA-Z]*[-']?[a-zA-Z]*[.]?$`,
)

// phonePatterns is the fixed set of accepted phone notations. A phone number
// is valid when at least one alternative matches the whole string. \d is
// ASCII-only, so digits from other scripts are rejected.
var phonePatterns = []*regexp.Regexp{
	// 12345
	regexp.MustCompile(`^\d{5}$`),
	// 12345.12345, 12345 12345
	regexp.MustCompile(`^\d{5}[. ]\d{5}$`),
	// 123-4567
	regexp.MustCompile(`^\d{3}[-. ]\d{4}$`),
	// +1 123-456-7890, 1(703)123-1234, +32 (21) 212-2324
	regexp.MustCompile(`^\+?\b([1-9]|[1-9][0-9]|[1-9][0-9][0-8])\b[-.\( ]{0,2}\d{2,3}[ \-.\)]{0,2}\d{3}[-. ]\d{4}$`),
	// (703)111-2121
	regexp.MustCompile(`^[-.\( ]?\d{2,3}[ \-.\)]\d{3}[-. ]\d{4}$`),
	// 011 701 111 1234, 00 1 703 111 1234
	regexp.MustCompile(`^(00|011)[-.\( ]?\d{0,3}[ -.\)][-.\( ]?\d{2,3}[ -.\)]\d{3}[-. ]\d{4}$`),
	// +45 1234 5678
	regexp.MustCompile(`^[+45. ]{0,4}\d{4}[. ]\d{4}$`),
	// +45 12.34.56.78
	regexp.MustCompile(`^[+45. ]{0,4}\d{2}[. ]\d{2}[. ]\d{2}[. ]\d{2}$`),
}

// ValidName reports whether s is an acceptable full name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// ValidPhone reports whether s matches one of the accepted phone notations.
func ValidPhone(s string) bool {
	for _, p := range phonePatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
