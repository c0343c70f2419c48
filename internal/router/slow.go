// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package router

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-refiner/internal/extract"
	"github.com/petar-djukic/go-refiner/internal/feedback"
	"github.com/petar-djukic/go-refiner/internal/llm"
	"github.com/petar-djukic/go-refiner/internal/storage"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// slowPath regenerates the document. A backup is written before the first
// attempt; only a verified candidate is ever written to key.
func (r *Router) slowPath(ctx context.Context, run *run, res *types.EditResult, key, original string, req types.EditRequest) (*types.EditResult, error) {
	if r.deps.Generator == nil {
		return r.fail(run, res, ErrNoGenerator)
	}

	backup := storage.BackupKey(key)
	if err := r.deps.Store.Write(ctx, backup, original); err != nil {
		return r.fail(run, res, fmt.Errorf("writing backup: %w", err))
	}
	run.log.Debug("backup written", zap.String("backup", backup))

	selected := r.selectedSource(ctx, original, req)
	verifier := feedback.NewVerifier(r.deps.Validator, original)
	tokens := 0

	generate := func(ctx context.Context, a feedback.Attempt) (string, error) {
		run.log.Info("regeneration attempt",
			zap.Int("attempt", a.Number),
			zap.Float64("temperature", a.Temperature),
			zap.Int("problems", len(a.Problems)))

		messages, err := llm.BuildRefineMessages(r.system, llm.RefineData{
			Code:       original,
			Request:    req,
			Selected:   selected,
			Strictness: a.Strictness,
			Feedback:   a.Feedback,
		})
		if err != nil {
			return "", err
		}
		gen, err := r.deps.Generator.Generate(ctx, messages, types.GenerateOptions{
			Temperature: a.Temperature,
			MaxTokens:   r.cfg.MaxTokens,
		})
		if err != nil {
			return "", err
		}
		tokens += gen.TokensUsed

		ex, err := extract.Extract(gen.Content)
		if err != nil {
			return "", err
		}
		if ex.Truncated {
			run.log.Warn("response ended inside a code block", zap.Int("attempt", a.Number))
		}
		return ex.Code, nil
	}

	loop, err := feedback.Run(ctx, r.cfg.Loop, generate, verifier.Verify)
	res.Attempts = loop.Attempts
	res.TokensUsed = tokens
	if loop.LastCheck != nil {
		v := loop.LastCheck.Validation
		res.Validation = &v
	}
	for _, f := range loop.Failures {
		run.log.Info("attempt rejected", zap.Error(f))
	}

	if err == nil {
		run.to(StateValidated, zap.Int("attempts", loop.Attempts))
		err = r.deps.Store.Write(ctx, key, loop.Candidate)
		if err == nil {
			if derr := r.deps.Store.Delete(ctx, backup); derr != nil {
				run.log.Warn("backup not deleted", zap.String("backup", backup), zap.Error(derr))
			}
			return r.saved(run, res, types.MethodSlow, original, loop.Candidate), nil
		}
		err = fmt.Errorf("saving document: %w", err)
	}

	if rerr := r.restore(ctx, key); rerr != nil {
		return r.fail(run, res, fmt.Errorf("%w: %w (regeneration: %v)", ErrRollback, rerr, err))
	}
	run.log.Info("document restored from backup", zap.String("backup", backup))
	return r.fail(run, res, err)
}

// restore writes the backup of key back over key. The backup is kept so a
// failed request always leaves a recoverable copy.
func (r *Router) restore(ctx context.Context, key string) error {
	ctx = context.WithoutCancel(ctx)
	content, err := r.deps.Store.Read(ctx, storage.BackupKey(key))
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}
	if err := r.deps.Store.Write(ctx, key, content); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	return nil
}
