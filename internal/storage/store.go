// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package storage persists source documents by key. A document's backup
// lives under a sibling key so the slow path can restore it verbatim.
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound indicates no document is stored under the key.
var ErrNotFound = errors.New("document not found")

// BackupSuffix is appended to a key to form its backup key.
const BackupSuffix = ".backup"

// Store reads and writes whole documents. Writes replace the previous
// content atomically.
type Store interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, content string) error
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate their documents.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// BackupKey returns the sibling key that holds key's backup.
func BackupKey(key string) string {
	return key + BackupSuffix
}

// IsBackupKey reports whether key names a backup rather than a document.
func IsBackupKey(key string) bool {
	return strings.HasSuffix(key, BackupSuffix)
}
