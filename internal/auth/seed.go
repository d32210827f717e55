// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/intelboard/intelboard/internal/mirror"
	"github.com/intelboard/intelboard/pkg/errutil"
)

// Fixed seed admin identity. The account is guaranteed to exist so the
// platform can never be locked out of administration; operators are expected
// to rotate the password after first login.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "Admin@2008"
)

// SeedService reconciles the seed admin account on startup.
type SeedService struct {
	users  UserRepository
	hasher PasswordHasher
	mirror *mirror.File
	logger *slog.Logger
}

// NewSeedService creates a SeedService. The mirror file is optional.
func NewSeedService(users UserRepository, hasher PasswordHasher, m *mirror.File, logger *slog.Logger) (*SeedService, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("logger is required")
	}
	return &SeedService{users: users, hasher: hasher, mirror: m, logger: logger}, nil
}

// EnsureSeedAdmin makes sure exactly one admin account with the fixed seed
// identity exists. Idempotent and self-healing: if the account is missing it
// is created; if it exists its password hash and role are unconditionally
// overwritten, undoing any tampering. The password is rehashed on every call
// since each hash carries a fresh salt, so the stored hash value changes
// between calls even though the password does not.
func (s *SeedService) EnsureSeedAdmin(ctx context.Context) error {
	hash, err := s.hasher.Hash(SeedAdminPassword)
	if err != nil {
		return oops.Code("SEED_FAILED").
			With("operation", "hash seed password").
			Wrap(err)
	}

	existing, err := s.users.GetByUsername(ctx, SeedAdminUsername)
	switch {
	case errors.Is(err, ErrNotFound):
		user := NewUser(SeedAdminUsername, hash, RoleAdmin)
		if createErr := s.users.Create(ctx, user); createErr != nil {
			// A concurrent bootstrap may have won the insert race; the
			// account exists either way.
			if !errors.Is(createErr, ErrDuplicateUsername) {
				return oops.Code("SEED_FAILED").
					With("operation", "create seed admin").
					Wrap(createErr)
			}
		}
		seedRepairs.WithLabelValues("created").Inc()
		s.logger.Info("seed admin created", "username", SeedAdminUsername)
	case err != nil:
		return oops.Code("SEED_FAILED").
			With("operation", "get seed admin").
			Wrap(err)
	default:
		if updErr := s.users.UpdateCredentials(ctx, SeedAdminUsername, hash, RoleAdmin); updErr != nil {
			return oops.Code("SEED_FAILED").
				With("operation", "reset seed admin credentials").
				Wrap(updErr)
		}
		if !existing.IsAdmin() {
			s.logger.Warn("seed admin role was tampered, restored",
				"username", SeedAdminUsername, "found_role", existing.Role)
		}
		seedRepairs.WithLabelValues("repaired").Inc()
	}

	return s.syncMirror(ctx)
}

// syncMirror appends the seed admin to the legacy users file if it is not
// already listed. The hash is read back from the store rather than reusing
// the locally computed one, so the mirror never drifts from what the store
// actually holds.
func (s *SeedService) syncMirror(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}

	present, err := s.mirror.Contains(SeedAdminUsername)
	if err != nil {
		return oops.Code("SEED_FAILED").
			With("operation", "check mirror for seed admin").
			Wrap(err)
	}
	if present {
		return nil
	}

	stored, err := s.users.GetByUsername(ctx, SeedAdminUsername)
	if err != nil {
		return oops.Code("SEED_FAILED").
			With("operation", "read back seed admin").
			Wrap(err)
	}

	if err := s.mirror.Append(stored.Username, stored.PasswordHash, string(stored.Role)); err != nil {
		// Mirror is best-effort for the seed account too.
		errutil.LogWarn(s.logger, "legacy mirror append failed", err)
	}
	return nil
}
