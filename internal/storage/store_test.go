// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns one fresh instance of every Store implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{"file": fs, "sqlite": db}
}

func TestStore_RoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write(ctx, "emails/welcome.tsx", "v1"))
			require.NoError(t, s.Write(ctx, "emails/welcome.tsx", "v2"))

			got, err := s.Read(ctx, "emails/welcome.tsx")
			require.NoError(t, err)
			assert.Equal(t, "v2", got)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(ctx, "missing.tsx")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := BackupKey("a.tsx")
			require.NoError(t, s.Write(ctx, key, "backup"))
			require.NoError(t, s.Delete(ctx, key))
			require.NoError(t, s.Delete(ctx, key), "deleting twice is fine")

			_, err := s.Read(ctx, key)
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestBackupKey(t *testing.T) {
	assert.Equal(t, "emails/welcome.tsx.backup", BackupKey("emails/welcome.tsx"))
}

func TestFileStore_PreservesPermissions(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root)
	require.NoError(t, err)

	path := filepath.Join(root, "a.tsx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
	require.NoError(t, s.Write(context.Background(), "a.tsx", "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_RejectsKeysOutsideRoot(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape.tsx", "a/../../escape.tsx", "/etc/passwd", "", "."} {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, s.Write(context.Background(), key, "x"))
		})
	}
}

func TestFileStore_AbsoluteKeyInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root)
	require.NoError(t, err)

	abs := filepath.Join(s.Root(), "b.tsx")
	require.NoError(t, s.Write(context.Background(), abs, "content"))

	got, err := s.Read(context.Background(), "b.tsx")
	require.NoError(t, err)
	assert.Equal(t, "content", got)
}

func TestFileStore_CanceledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Write(ctx, "a.tsx", "x"), context.Canceled)
}

func TestSQLiteStore_Keys(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Write(ctx, "b", "2"))
	require.NoError(t, db.Write(ctx, "a", "1"))

	keys, err := db.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestStore_ListsWrittenDocuments(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Write(ctx, "welcome.tsx", "x"))
			require.NoError(t, s.Write(ctx, BackupKey("welcome.tsx"), "y"))

			keys, err := s.(Lister).Keys(ctx)
			require.NoError(t, err)
			assert.Contains(t, keys, "welcome.tsx")
		})
	}
}

func TestFileStore_Keys(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.tsx", "emails/a.tsx", "notes.md", ".git/x.tsx", "node_modules/pkg/y.tsx", "welcome.tsx.backup"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	s, err := NewFileStore(root)
	require.NoError(t, err)

	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.tsx", "emails/a.tsx"}, keys)
}

func TestIsBackupKey(t *testing.T) {
	assert.True(t, IsBackupKey(BackupKey("welcome.tsx")))
	assert.False(t, IsBackupKey("welcome.tsx"))
}
