// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git commits accepted refinements of file-backed documents and
// undoes the last one.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	refinerTrailer = "Refined-By: go-refiner"
	dirtyCommitMsg = "chore: save manual edits before refinement"
)

// ErrNotRefinerCommit is returned when undo targets a commit not made by
// go-refiner.
var ErrNotRefinerCommit = errors.New("not a go-refiner commit")

// ErrDirtyDocument is returned when the document has uncommitted changes
// and DirtyCommit is false.
var ErrDirtyDocument = errors.New("document has uncommitted changes")

// ErrNoGit is returned when the working directory is not inside a git
// repository.
var ErrNoGit = errors.New("not a git repository")

// Config configures git integration behavior.
type Config struct {
	WorkDir     string // Directory inside the repository
	DirtyCommit bool   // Commit manual edits of a document before refining it
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	cfg  Config
	root string // Absolute work tree root
}

// Open opens the repository containing cfg.WorkDir. Returns ErrNoGit if
// there is none.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, fmt.Errorf("resolving work tree: %w", err)
	}
	return &Repo{repo: r, cfg: cfg, root: root}, nil
}

// Root returns the absolute work tree root.
func (r *Repo) Root() string {
	return r.root
}

// rel converts a path to the slash-separated form git uses, relative to
// the work tree root.
func (r *Repo) rel(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	rel, err := filepath.Rel(r.root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the work tree %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}

// IsDirty reports whether any of paths has uncommitted changes (staged,
// unstaged, or untracked). With no paths it checks the whole work tree.
func (r *Repo) IsDirty(paths ...string) (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}
	if len(paths) == 0 {
		return !status.IsClean(), nil
	}

	for _, p := range paths {
		rel, err := r.rel(p)
		if err != nil {
			return false, err
		}
		fs, ok := status[rel]
		if ok && (fs.Staging != gogit.Unmodified || fs.Worktree != gogit.Unmodified) {
			return true, nil
		}
	}
	return false, nil
}

// IsRefinerCommit checks whether the HEAD commit was made by go-refiner by
// looking for its trailer.
func (r *Repo) IsRefinerCommit() (bool, error) {
	commit, err := r.head()
	if err != nil {
		return false, err
	}
	return strings.Contains(commit.Message, refinerTrailer), nil
}

func (r *Repo) head() (*object.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	return commit, nil
}

// lastCommitMessage returns the message of the HEAD commit.
func (r *Repo) lastCommitMessage() (string, error) {
	commit, err := r.head()
	if err != nil {
		return "", err
	}
	return commit.Message, nil
}

// commitCount returns the total number of commits reachable from HEAD.
func (r *Repo) commitCount() (int, error) {
	iter, err := r.repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0, err
	}
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		count++
		return nil
	})
	return count, err
}
