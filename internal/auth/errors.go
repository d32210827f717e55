// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when a registration collides with an
// existing username.
var ErrDuplicateUsername = errors.New("username already taken")
