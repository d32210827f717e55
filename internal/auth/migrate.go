// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/intelboard/intelboard/internal/mirror"
)

// ImportMirror migrates records from the legacy users file into the store.
// Intended to run once at startup, before any login is trusted.
//
// Records whose username already exists in the store are skipped; the store
// stays authoritative and an import never overwrites it. Malformed lines and
// per-record insert conflicts are logged and skipped, never fatal. Only a
// storage failure aborts the import.
func ImportMirror(ctx context.Context, users UserRepository, m *mirror.File, logger *slog.Logger) (imported int, err error) {
	records, malformed, err := m.Records()
	if err != nil {
		return 0, oops.Code("MIRROR_IMPORT_FAILED").
			With("operation", "read mirror").
			With("path", m.Path()).
			Wrap(err)
	}

	for _, line := range malformed {
		logger.Warn("skipping malformed mirror line", "path", m.Path(), "line", line)
	}

	for _, rec := range records {
		user := NewUser(rec.Username, rec.PasswordHash, NormalizeRole(rec.Role))
		if createErr := users.Create(ctx, user); createErr != nil {
			if errors.Is(createErr, ErrDuplicateUsername) {
				continue
			}
			return imported, oops.Code("MIRROR_IMPORT_FAILED").
				With("operation", "insert mirror record").
				With("username", rec.Username).
				Wrap(createErr)
		}
		imported++
	}

	if imported > 0 {
		logger.Info("legacy mirror imported", "path", m.Path(), "imported", imported)
	}
	return imported, nil
}
