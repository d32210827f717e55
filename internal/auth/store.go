// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import "context"

// UserRepository manages user persistence.
//
// Implementations must make Create atomic with respect to concurrent inserts
// of the same username: exactly one of two racing registrations may succeed,
// the other must observe ErrDuplicateUsername. A unique constraint on the
// username column satisfies this.
type UserRepository interface {
	// GetByUsername retrieves a user by exact, case-sensitive username.
	// Returns ErrNotFound if no such user exists; absence is not a storage
	// failure.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create stores a new user, assigning an ID if the user has none.
	// Returns ErrDuplicateUsername if a user with that username already
	// exists.
	Create(ctx context.Context, user *User) error

	// UpdateCredentials overwrites the password hash and role for an existing
	// username. Returns ErrNotFound if the username is absent.
	UpdateCredentials(ctx context.Context, username, passwordHash string, role Role) error

	// Count returns the number of registered users.
	Count(ctx context.Context) (int64, error)
}
