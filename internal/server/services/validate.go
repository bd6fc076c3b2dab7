package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bkozyrev/vidstream/internal/common"
)

// Input shape rules. Business invariants (uniqueness, ownership, token
// matching) live in the flows themselves; these only reject malformed input.
var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	fullNameRe = regexp.MustCompile(`^[A-Za-z]+([ '-][A-Za-z]+)*$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func validateUsername(username string) error {
	if len(username) < 8 || len(username) > 12 {
		return fmt.Errorf("%w: username must be 8 to 12 characters", common.ErrorValidation)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username must contain only lowercase letters, numbers, or underscores", common.ErrorValidation)
	}
	return nil
}

func validateFullName(fullName string) error {
	if len(fullName) < 2 {
		return fmt.Errorf("%w: full name must be at least 2 characters", common.ErrorValidation)
	}
	if !fullNameRe.MatchString(fullName) {
		return fmt.Errorf("%w: full name must consist of letters, optionally separated by spaces, hyphens, or apostrophes", common.ErrorValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: email must be a valid email address", common.ErrorValidation)
	}
	return nil
}

func validatePassword(label, password string) error {
	if len(password) < 6 || len(password) > 10 {
		return fmt.Errorf("%w: %s must be 6 to 10 characters", common.ErrorValidation, label)
	}
	return nil
}

func validateVideoTitle(title string) error {
	if title == "" || len(title) > 100 {
		return fmt.Errorf("%w: title must be 1 to 100 characters", common.ErrorValidation)
	}
	return nil
}

func validateVideoDescription(description string) error {
	if description == "" || len(description) > 5000 {
		return fmt.Errorf("%w: description must be 1 to 5000 characters", common.ErrorValidation)
	}
	return nil
}

// normalize lower-cases and trims identity fields the way they are stored.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
