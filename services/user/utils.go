package user

import (
	"regexp"
	"strings"
)

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	numberRe = regexp.MustCompile(`[0-9]`)
)

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	switch {
	case len(pw) < 8:
		return WeakPasswordError{Reason: "password must be at least 8 characters long"}
	case !upperRe.MatchString(pw):
		return WeakPasswordError{Reason: "password must include at least one uppercase letter"}
	case !lowerRe.MatchString(pw):
		return WeakPasswordError{Reason: "password must include at least one lowercase letter"}
	case !numberRe.MatchString(pw):
		return WeakPasswordError{Reason: "password must include at least one number"}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
