// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

// Package auth provides the credential core for IntelBoard: password hashing,
// credential policy, user persistence contracts, and authorization decisions.
//
// # Domain Types
//
// User records are created through NewUser, which assigns a fresh ID and
// normalizes the role; direct struct initialization bypasses that
// normalization. Roles are always one of the recognized values - unrecognized
// input is coerced to the default at write time, never rejected.
//
// # Services
//
//   - Service - registration, authentication, and the IsAdmin gate
//   - SeedService - idempotent, self-healing seed admin bootstrap
//
// Call SeedService.EnsureSeedAdmin once at process start, before any
// authentication decision is trusted.
//
// # Hardening notes
//
// Failed logins are not counted, locked out, or throttled: every attempt is
// independent. Deployments exposed to untrusted networks should rate-limit at
// the boundary in front of this package.
package auth
