// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

const (
	authorName  = "go-refiner"
	authorEmail = "noreply@go-refiner"
)

func signature() *object.Signature {
	return &object.Signature{Name: authorName, Email: authorEmail, When: time.Now()}
}

// HandleDirty commits uncommitted manual edits of paths separately, so a
// later undo only reverts the refinement. It returns ErrDirtyDocument when
// DirtyCommit is false.
func (r *Repo) HandleDirty(paths ...string) error {
	dirty, err := r.IsDirty(paths...)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	if !r.cfg.DirtyCommit {
		return ErrDirtyDocument
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := r.stage(wt, paths); err != nil {
		return err
	}
	if _, err := wt.Commit(dirtyCommitMsg, &gogit.CommitOptions{Author: signature()}); err != nil {
		return fmt.Errorf("committing manual edits: %w", err)
	}
	return nil
}

// Commit stages paths and records the refinement described by req and res.
// It returns the new commit hash.
func (r *Repo) Commit(paths []string, req types.EditRequest, res *types.EditResult) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	if err := r.stage(wt, paths); err != nil {
		return "", err
	}

	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := r.rel(p)
		if err != nil {
			return "", err
		}
		rels = append(rels, rel)
	}

	hash, err := wt.Commit(GenerateMessage(req, res, rels), &gogit.CommitOptions{Author: signature()})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// stage adds only the given paths to the index.
func (r *Repo) stage(wt *gogit.Worktree, paths []string) error {
	for _, p := range paths {
		rel, err := r.rel(p)
		if err != nil {
			return err
		}
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
	}
	return nil
}

// Undo reverts the last commit if it was made by go-refiner. HEAD moves
// back one commit and the files that commit touched are restored to their
// previous content in both the index and the work tree. Other uncommitted
// work is left alone. It returns the restored paths.
func (r *Repo) Undo() ([]string, error) {
	isRefiner, err := r.IsRefinerCommit()
	if err != nil {
		return nil, err
	}
	if !isRefiner {
		return nil, ErrNotRefinerCommit
	}

	commit, err := r.head()
	if err != nil {
		return nil, err
	}
	if commit.NumParents() == 0 {
		return nil, fmt.Errorf("cannot undo: HEAD is the initial commit")
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("getting parent commit: %w", err)
	}

	paths, err := changedPaths(parent, commit)
	if err != nil {
		return nil, err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return nil, fmt.Errorf("resetting to parent: %w", err)
	}

	parentTree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading parent tree: %w", err)
	}
	for _, p := range paths {
		if err := r.restorePath(wt, parentTree, p); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// restorePath makes p match its content in tree, deleting it when tree
// does not have it.
func (r *Repo) restorePath(wt *gogit.Worktree, tree *object.Tree, p string) error {
	abs := filepath.Join(r.root, filepath.FromSlash(p))

	f, err := tree.File(p)
	if errors.Is(err, object.ErrFileNotFound) {
		if _, err := wt.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s from parent: %w", p, err)
	}

	content, err := f.Contents()
	if err != nil {
		return fmt.Errorf("reading %s from parent: %w", p, err)
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(abs, []byte(content), perm); err != nil {
		return fmt.Errorf("restoring %s: %w", p, err)
	}
	if _, err := wt.Add(p); err != nil {
		return fmt.Errorf("staging %s: %w", p, err)
	}
	return nil
}

// changedPaths lists the files that differ between two commits.
func changedPaths(from, to *object.Commit) ([]string, error) {
	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree: %w", err)
	}
	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, fmt.Errorf("diffing trees: %w", err)
	}

	var paths []string
	for _, c := range changes {
		name := c.To.Name
		if name == "" {
			name = c.From.Name
		}
		paths = append(paths, name)
	}
	return paths, nil
}
