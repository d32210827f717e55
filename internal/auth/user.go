// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role is the authorization tier attached to a user account.
type Role string

// Recognized roles. Analysts can read dashboards; admins can additionally
// approve elevated registrations and manage records.
const (
	RoleAnalyst Role = "analyst"
	RoleAdmin   Role = "admin"
)

// DefaultRole is assigned when a registration supplies no role or an
// unrecognized one.
const DefaultRole = RoleAnalyst

// NormalizeRole coerces arbitrary role input to a recognized Role.
// Unrecognized values become DefaultRole; normalization never fails.
// The legacy "user" role from pre-database deployments maps to analyst.
func NormalizeRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleAnalyst), "user":
		return RoleAnalyst
	default:
		return DefaultRole
	}
}

// User is a registered account.
type User struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a User with a fresh ID and normalized role.
// The username and hash are assumed to be pre-validated by the caller.
func NewUser(username, passwordHash string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         NormalizeRole(string(role)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
