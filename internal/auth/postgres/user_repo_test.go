// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelboard/intelboard/internal/auth"
)

func TestUserRepository_GetByUsername(t *testing.T) {
	userID := ulid.Make()
	now := time.Now().UTC()

	tests := []struct {
		name      string
		username  string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *auth.User
		wantErr   error
		errMsg    string
	}{
		{
			name:     "existing user",
			username: "alice",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at", "updated_at"}).
					AddRow(userID.String(), "alice", "$argon2id$hash", "admin", now, now)
				mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at, updated_at`).
					WithArgs("alice").
					WillReturnRows(rows)
			},
			want: &auth.User{
				ID:           userID,
				Username:     "alice",
				PasswordHash: "$argon2id$hash",
				Role:         auth.RoleAdmin,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		},
		{
			name:     "unknown user",
			username: "ghost",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at", "updated_at"})
				mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at, updated_at`).
					WithArgs("ghost").
					WillReturnRows(rows)
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name:     "database error",
			username: "alice",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at, updated_at`).
					WithArgs("alice").
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
		{
			name:     "corrupt id column",
			username: "alice",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at", "updated_at"}).
					AddRow("not-a-ulid", "alice", "$argon2id$hash", "admin", now, now)
				mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at, updated_at`).
					WithArgs("alice").
					WillReturnRows(rows)
			},
			errMsg: "parse user id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			got, err := repo.GetByUsername(context.Background(), tt.username)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		user      *auth.User
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful insert",
			user: auth.NewUser("alice", "$argon2id$hash", auth.RoleAnalyst),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "alice", "$argon2id$hash", "analyst", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate username",
			user: auth.NewUser("alice", "$argon2id$hash", auth.RoleAnalyst),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "alice", "$argon2id$hash", "analyst", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: auth.ErrDuplicateUsername,
		},
		{
			name: "database error",
			user: auth.NewUser("alice", "$argon2id$hash", auth.RoleAnalyst),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "alice", "$argon2id$hash", "analyst", pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			err = repo.Create(context.Background(), tt.user)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_Create_AssignsID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "alice", "$argon2id$hash", "analyst", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	user := &auth.User{
		Username:     "alice",
		PasswordHash: "$argon2id$hash",
		Role:         auth.RoleAnalyst,
	}

	repo := NewUserRepository(mock)
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEqual(t, ulid.ULID{}, user.ID, "zero ID should be replaced")
	assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
}

func TestUserRepository_UpdateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful update",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET password_hash`).
					WithArgs("alice", "$argon2id$newhash", "admin", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "unknown user",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET password_hash`).
					WithArgs("alice", "$argon2id$newhash", "admin", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET password_hash`).
					WithArgs("alice", "$argon2id$newhash", "admin", pgxmock.AnyArg()).
					WillReturnError(errors.New("connection lost"))
			},
			errMsg: "connection lost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := NewUserRepository(mock)
			err = repo.UpdateCredentials(context.Background(), "alice", "$argon2id$newhash", auth.RoleAdmin)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_Count(t *testing.T) {
	t.Run("returns count", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"count"}).AddRow(int64(42))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).WillReturnRows(rows)

		repo := NewUserRepository(mock)
		n, err := repo.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(42), n)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
			WillReturnError(errors.New("timeout"))

		repo := NewUserRepository(mock)
		_, err = repo.Count(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestUserRepositoryInterface(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	defer mock.Close()

	var _ auth.UserRepository = NewUserRepository(mock)
}
