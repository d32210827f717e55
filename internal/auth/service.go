// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/intelboard/intelboard/internal/mirror"
	"github.com/intelboard/intelboard/pkg/errutil"
)

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service provides registration, authentication, and role-gated authorization
// decisions. It holds no mutable state of its own; all shared state lives in
// the UserRepository, so a single Service is safe for concurrent use.
//
// Authentication attempts are stateless and independent: there is no lockout,
// failure counting, or throttling across calls.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	mirror *mirror.File
	logger *slog.Logger
}

// NewService creates a Service. The mirror file is optional; when nil, the
// legacy users file is not maintained.
func NewService(users UserRepository, hasher PasswordHasher, m *mirror.File) (*Service, error) {
	return NewServiceWithLogger(users, hasher, m, slog.Default())
}

// NewServiceWithLogger creates a Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, m *mirror.File, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("logger is required")
	}
	return &Service{
		users:  users,
		hasher: hasher,
		mirror: m,
		logger: logger,
	}, nil
}

// Register creates a new user after validating the credentials.
//
// Checks run in order: username policy, password policy, then uniqueness via
// the atomic insert. The role string is normalized to a recognized Role; an
// unrecognized role silently becomes the default and never fails the
// registration. On success the legacy mirror is appended best-effort: a
// mirror write failure is logged but does not roll back the insert.
func (s *Service) Register(ctx context.Context, username, password, role string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		registrations.WithLabelValues("invalid_username").Inc()
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		registrations.WithLabelValues("invalid_password").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		registrations.WithLabelValues("error").Inc()
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user := NewUser(normalizeUsername(username), hash, NormalizeRole(role))

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			registrations.WithLabelValues("duplicate").Inc()
			return nil, err
		}
		registrations.WithLabelValues("error").Inc()
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			With("username", user.Username).
			Wrap(err)
	}

	s.appendMirror(user.Username, user.PasswordHash, user.Role)

	registrations.WithLabelValues("created").Inc()
	s.logger.Info("user registered", "username", user.Username, "role", user.Role)
	return user, nil
}

// Authenticate checks a username/password pair.
//
// Unknown username and wrong password produce the identical (false, "", nil)
// result so the return shape never reveals whether the username exists. A
// dummy hash is verified when the user is absent to keep the work roughly
// constant. A storage failure is returned as a non-nil error, never disguised
// as a failed login.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, Role, error) {
	start := time.Now()

	user, lookupErr := s.users.GetByUsername(ctx, normalizeUsername(username))

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			recordAuthenticate(start, "error")
			return false, "", oops.Code("AUTH_LOOKUP_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// A malformed stored hash can never match; reject rather than fail.
		if userExists {
			s.logger.Warn("stored password hash is not verifiable",
				"username", user.Username, "error", verifyErr)
		}
		recordAuthenticate(start, "rejected")
		return false, "", nil
	}

	if !userExists || !valid {
		recordAuthenticate(start, "rejected")
		return false, "", nil
	}

	// Rehash bcrypt records migrated from the legacy users file. Login
	// succeeds regardless of whether the upgrade write goes through.
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			if updErr := s.users.UpdateCredentials(ctx, user.Username, newHash, user.Role); updErr != nil {
				errutil.LogWarn(s.logger, "password hash upgrade failed", updErr)
			}
		}
	}

	recordAuthenticate(start, "accepted")
	return true, user.Role, nil
}

// IsAdmin reports whether the credentials belong to an admin account. It
// performs a live credential check on every call; no caching and no token
// issuance.
func (s *Service) IsAdmin(ctx context.Context, username, password string) (bool, error) {
	ok, role, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return false, err
	}
	return ok && role == RoleAdmin, nil
}

// appendMirror writes one record to the legacy users file, if configured.
func (s *Service) appendMirror(username, passwordHash string, role Role) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Append(username, passwordHash, string(role)); err != nil {
		errutil.LogWarn(s.logger, "legacy mirror append failed", err)
	}
}

// normalizeUsername trims surrounding whitespace. Comparison stays
// case-sensitive.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
