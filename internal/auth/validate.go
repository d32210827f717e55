// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/oops"
)

// Credential policy constraints.
const (
	MinUsernameLength = 2
	MinPasswordLength = 5
)

// usernameRegex matches usernames containing only letters, digits, and
// underscores.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername checks a username against policy. The username is trimmed
// before checking. The returned error message names the first rule violated
// and is safe to show to the user.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if strings.Contains(username, " ") {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username cannot contain spaces")
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").
			Errorf("username can only contain letters, numbers, and underscore")
	}
	return nil
}

// ValidatePassword checks a password against policy: minimum length, at least
// one digit, one letter, and one special (non-alphanumeric) character.
// The returned error message names the first rule violated.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code("AUTH_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return oops.Code("AUTH_INVALID_PASSWORD").
			Errorf("password must contain at least one number")
	}
	if !strings.ContainsFunc(password, unicode.IsLetter) {
		return oops.Code("AUTH_INVALID_PASSWORD").
			Errorf("password must contain at least one letter")
	}
	if !strings.ContainsFunc(password, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		return oops.Code("AUTH_INVALID_PASSWORD").
			Errorf("password must contain at least one special character (e.g., @, #, !)")
	}
	return nil
}
