// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

const welcomeTSX = `export default function Welcome() {
  return <Html><Button style={{ color: '#000000' }}>Buy</Button></Html>;
}
`

func TestOpen_ValidRepo(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(Config{WorkDir: dir, DirtyCommit: true})
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpen_DetectsRepoFromSubdirectory(t *testing.T) {
	dir := initTestRepo(t)
	sub := filepath.Join(dir, "emails", "drafts")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(Config{WorkDir: sub})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(repo.Root())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpen_NotARepo(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(Config{WorkDir: dir})
	assert.ErrorIs(t, err, ErrNoGit)
}

func TestIsDirty_CleanRepo(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestIsDirty_WithUnstagedChanges(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.tsx"), []byte(welcomeTSX+"// edited\n"), 0o644))

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestIsDirty_WithUntrackedFiles(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "promo.tsx"), []byte(welcomeTSX), 0o644))

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestIsDirty_OnlyChecksGivenPaths(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "promo.tsx"), []byte(welcomeTSX), 0o644))

	dirty, err := repo.IsDirty(filepath.Join(dir, "welcome.tsx"))
	require.NoError(t, err)
	assert.False(t, dirty)

	dirty, err = repo.IsDirty("promo.tsx")
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestIsDirty_PathOutsideWorkTree(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	_, err = repo.IsDirty(filepath.Join(t.TempDir(), "other.tsx"))
	assert.Error(t, err)
}

func TestIsRefinerCommit(t *testing.T) {
	t.Run("refiner commit", func(t *testing.T) {
		dir := initTestRepo(t)
		addFileAndCommit(t, dir, "promo.tsx", welcomeTSX, "feat: promo\n\n"+refinerTrailer)

		repo, err := Open(Config{WorkDir: dir})
		require.NoError(t, err)

		ok, err := repo.IsRefinerCommit()
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("manual commit", func(t *testing.T) {
		dir := initTestRepo(t)

		repo, err := Open(Config{WorkDir: dir})
		require.NoError(t, err)

		ok, err := repo.IsRefinerCommit()
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGenerateMessage(t *testing.T) {
	res := &types.EditResult{
		RequestID: "req-42",
		Success:   true,
		Method:    types.MethodFast,
		Attempts:  0,
		Changes: []types.Change{
			{Kind: types.ChangeModified, ComponentID: "button-2", Description: "Button color changed from #000000 to #ff0000"},
		},
	}

	msg := GenerateMessage(types.EditRequest{Message: "Make the button red."}, res, []string{"emails/welcome.tsx"})

	assert.Equal(t, "style: make the button red", firstLineOf(msg))
	assert.Contains(t, msg, "Changes:\n- Button color changed from #000000 to #ff0000")
	assert.Contains(t, msg, "Method: fast")
	assert.NotContains(t, msg, "attempts")
	assert.Contains(t, msg, "Modified files:\n- emails/welcome.tsx")
	assert.True(t, strings.HasSuffix(msg, refinerTrailer+"\nRequest-Id: req-42"))
}

func TestGenerateMessage_SlowPathAttempts(t *testing.T) {
	res := &types.EditResult{Method: types.MethodSlow, Attempts: 2}

	msg := GenerateMessage(types.EditRequest{Message: "add a footer section"}, res, nil)

	assert.Equal(t, "feat: add a footer section", firstLineOf(msg))
	assert.Contains(t, msg, "Method: slow (2 attempts)")
	assert.NotContains(t, msg, "Request-Id")
}

func TestGenerateMessage_EmptyRequest(t *testing.T) {
	msg := GenerateMessage(types.EditRequest{Message: "   "}, nil, nil)

	assert.Equal(t, "feat: refine email component", firstLineOf(msg))
	assert.Contains(t, msg, refinerTrailer)
}

func TestGenerateMessage_LongRequestTruncated(t *testing.T) {
	long := strings.Repeat("please update the hero copy ", 10)
	msg := GenerateMessage(types.EditRequest{Message: long}, nil, nil)

	subject := firstLineOf(msg)
	assert.LessOrEqual(t, len(subject), maxSubjectLength)
	assert.True(t, strings.HasSuffix(subject, "..."))
}

func TestInferCommitType(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"fix the typo in the heading", "fix"},
		{"remove the footer", "refactor"},
		{"move the logo above the heading", "refactor"},
		{"make the button red", "style"},
		{"make the title bigger", "style"},
		{"add a divider after the hero", "feat"},
		{"change the greeting to Hello", "feat"},
		{"prefix the heading", "feat"}, // "fix" inside a word does not count
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, inferCommitType(tt.message))
		})
	}
}

// initTestRepo creates a temp dir with a git repo holding one committed
// email component and returns the directory path.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.tsx"), []byte(welcomeTSX), 0o644))

	_, err = wt.Add("welcome.tsx")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

// addFileAndCommit writes a file and creates a commit with the given message.
func addFileAndCommit(t *testing.T, dir, name, content, msg string) {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	_, err = wt.Add(name)
	require.NoError(t, err)

	_, err = wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}

func firstLineOf(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
