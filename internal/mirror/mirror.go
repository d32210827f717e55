// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 IntelBoard Contributors

// Package mirror reads and writes the legacy flat-file user list.
//
// The file predates the database: one UTF-8 line per user, comma-separated
// as "username,passwordHash" or "username,passwordHash,role". It is kept as
// an append-only audit trail loosely synchronized with the database, which
// is authoritative. The file is never consulted for authentication once the
// database is populated; it is only read during the one-time startup
// migration.
package mirror

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"

	"github.com/intelboard/intelboard/internal/xdg"
)

// Record is one parsed line of the mirror file.
type Record struct {
	Username     string
	PasswordHash string
	Role         string // empty when the line has only two fields
}

// File is a handle to the mirror file at a fixed path.
type File struct {
	path string
}

// New creates a File for the given path. The file itself is created lazily
// on first append.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the mirror file path.
func (f *File) Path() string {
	return f.path
}

// Append adds one record to the end of the file, creating parent directories
// and the file as needed. Concurrent appends of whole lines are independently
// parseable, so a torn write corrupts at most its own line.
func (f *File) Append(username, passwordHash, role string) error {
	if err := xdg.EnsureDir(filepath.Dir(f.path)); err != nil {
		return oops.Code("MIRROR_APPEND_FAILED").
			With("operation", "create mirror directory").
			With("path", f.path).
			Wrap(err)
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return oops.Code("MIRROR_APPEND_FAILED").
			With("operation", "open mirror file").
			With("path", f.path).
			Wrap(err)
	}
	defer file.Close() //nolint:errcheck // write error is what matters

	line := username + "," + passwordHash
	if role != "" {
		line += "," + role
	}
	if _, err := file.WriteString(line + "\n"); err != nil {
		return oops.Code("MIRROR_APPEND_FAILED").
			With("operation", "append record").
			With("path", f.path).
			With("username", username).
			Wrap(err)
	}
	return nil
}

// Contains reports whether any record's first column matches the username
// exactly. A missing file means no records.
func (f *File) Contains(username string) (bool, error) {
	records, _, err := f.Records()
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// Records reads all well-formed records from the file. Lines that do not
// split into at least two non-empty fields are returned as malformed raw
// lines for the caller to log; they never abort the read. A missing file
// yields no records and no error.
func (f *File) Records() (records []Record, malformed []string, err error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, oops.Code("MIRROR_READ_FAILED").
			With("path", f.path).
			Wrap(err)
	}
	defer file.Close() //nolint:errcheck // read-only

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, ok := parseLine(line)
		if !ok {
			malformed = append(malformed, line)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, oops.Code("MIRROR_READ_FAILED").
			With("path", f.path).
			Wrap(err)
	}
	return records, malformed, nil
}

// parseLine splits one mirror line into a Record. Fields are trimmed; a line
// needs at least two non-empty fields (username, hash) to be well-formed.
func parseLine(line string) (Record, bool) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Record{}, false
	}
	rec := Record{Username: parts[0], PasswordHash: parts[1]}
	if len(parts) >= 3 {
		rec.Role = parts[2]
	}
	return rec, true
}
