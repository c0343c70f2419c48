// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package router carries one edit request from a natural-language message
// to a saved document. It tries a positional mutation first and falls back
// to regeneration with retries, restoring the document when every attempt
// fails.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petar-djukic/go-refiner/internal/diff"
	"github.com/petar-djukic/go-refiner/internal/feedback"
	"github.com/petar-djukic/go-refiner/internal/intent"
	"github.com/petar-djukic/go-refiner/internal/llm"
	"github.com/petar-djukic/go-refiner/internal/mutator"
	"github.com/petar-djukic/go-refiner/internal/parser"
	"github.com/petar-djukic/go-refiner/internal/registry"
	"github.com/petar-djukic/go-refiner/internal/storage"
	"github.com/petar-djukic/go-refiner/internal/validator"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// ErrRollback indicates the backup could not be restored after a failed
// regeneration. The document may be in an unknown state.
var ErrRollback = errors.New("rollback failed")

// ErrNoGenerator indicates the slow path was needed but no generator is
// configured.
var ErrNoGenerator = errors.New("no generator configured")

// Strategy selects which paths a request may take.
type Strategy string

const (
	StrategyAuto Strategy = "auto" // Fast path when eligible, slow path on fallback
	StrategyFast Strategy = "fast" // Fast path only; its failure is terminal
	StrategySlow Strategy = "slow" // Regeneration only
)

// ParseStrategy converts a flag value to a Strategy. "" means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyFast:
		return StrategyFast, nil
	case StrategySlow:
		return StrategySlow, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want auto, fast, or slow)", s)
}

// Config tunes routing and the slow path.
type Config struct {
	Strategy  Strategy            // Default auto
	Loop      feedback.LoopConfig // Attempts, delays, timeouts
	MaxTokens int                 // Per generation (0 = generator default)
}

// Deps holds the collaborators of a Router. Store is required; nil
// components get defaults built from Registry.
type Deps struct {
	Store      storage.Store
	Generator  llm.Generator // Required only when the slow path runs
	Registry   *registry.Registry
	Parser     *parser.Parser
	Mutator    *mutator.Mutator
	Validator  *validator.Validator
	Classifier *intent.Classifier
	Differ     *diff.Differ
	Logger     *zap.Logger
}

// Router routes edit requests. It holds no per-request state; callers
// serialize requests against the same document.
type Router struct {
	cfg    Config
	deps   Deps
	log    *zap.Logger
	system string
}

// New creates a Router.
func New(cfg Config, deps Deps) (*Router, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("router: store is required")
	}
	strategy, err := ParseStrategy(string(cfg.Strategy))
	if err != nil {
		return nil, err
	}
	cfg.Strategy = strategy

	if deps.Registry == nil {
		deps.Registry = registry.Default()
	}
	if deps.Parser == nil {
		deps.Parser = parser.New(deps.Registry)
	}
	if deps.Mutator == nil {
		deps.Mutator = mutator.New(deps.Registry)
	}
	if deps.Validator == nil {
		deps.Validator = validator.New(validator.Options{})
	}
	if deps.Classifier == nil {
		deps.Classifier = intent.New(deps.Registry, intent.Options{})
	}
	if deps.Differ == nil {
		deps.Differ = diff.New(deps.Parser)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	opts := deps.Validator.Options()
	var colors []string
	for _, name := range deps.Registry.ColorNames() {
		hex, _ := deps.Registry.Color(name)
		colors = append(colors, name+": "+hex)
	}
	system, err := llm.RenderSystemPrompt(llm.SystemData{
		ExportMarker: opts.ExportMarker,
		RootWrapper:  opts.RootWrapper,
		Colors:       colors,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}

	return &Router{cfg: cfg, deps: deps, log: deps.Logger, system: system}, nil
}

// Route applies req to the document stored under key. The result is never
// nil; err is non-nil exactly when the result is not successful. On failure
// the stored document is unchanged.
func (r *Router) Route(ctx context.Context, key string, req types.EditRequest) (*types.EditResult, error) {
	start := time.Now()
	res := &types.EditResult{RequestID: uuid.NewString(), Method: types.MethodFailed}
	defer func() { res.DurationMs = time.Since(start).Milliseconds() }()

	run := newRun(r.log.With(zap.String("request_id", res.RequestID), zap.String("key", key)))
	run.log.Info("edit received",
		zap.String("message", req.Message),
		zap.String("strategy", string(r.cfg.Strategy)),
		zap.String("selected_id", req.SelectedComponentID))

	if strings.TrimSpace(req.Message) == "" {
		return r.fail(run, res, fmt.Errorf("empty edit message"))
	}
	original, err := r.deps.Store.Read(ctx, key)
	if err != nil {
		return r.fail(run, res, fmt.Errorf("loading document: %w", err))
	}

	in := r.deps.Classifier.Classify(req.Message)
	res.Intent = &in
	run.to(StateIntentClassified,
		zap.String("category", string(in.Category)),
		zap.String("action", string(in.Action)),
		zap.Float64("confidence", in.Confidence))

	fast := false
	switch r.cfg.Strategy {
	case StrategyFast:
		fast = true
	case StrategyAuto:
		fast = intent.FastPathEligible(in, req.Message)
	}

	if fast {
		run.to(StateFastPath)
		code, vr, err := r.fastPath(ctx, run, original, req, in)
		res.Validation = vr
		if err == nil {
			run.to(StateValidated)
			if err := r.deps.Store.Write(ctx, key, code); err != nil {
				return r.fail(run, res, fmt.Errorf("saving document: %w", err))
			}
			return r.saved(run, res, types.MethodFast, original, code), nil
		}
		if r.cfg.Strategy == StrategyFast {
			return r.fail(run, res, err)
		}
		run.log.Info("fast path failed, falling back to regeneration", zap.Error(err))
		res.Validation = nil
	}

	run.to(StateSlowPath)
	return r.slowPath(ctx, run, res, key, original, req)
}

// saved completes a successful request.
func (r *Router) saved(run *run, res *types.EditResult, method types.Method, original, code string) *types.EditResult {
	res.Success = true
	res.Method = method
	res.Code = code
	res.Changes = r.deps.Differ.Diff(original, code)
	res.Diff = diff.Unified(original, code)
	res.Message = summarize(res.Changes)
	run.to(StateSaved, zap.String("method", string(method)), zap.Int("changes", len(res.Changes)))
	return res
}

// fail completes a failed request, surfacing err.
func (r *Router) fail(run *run, res *types.EditResult, err error) (*types.EditResult, error) {
	res.Success = false
	res.Method = types.MethodFailed
	res.Code = ""
	res.Message = err.Error()
	run.to(StateFailed, zap.Error(err))
	return res, err
}

func summarize(changes []types.Change) string {
	switch len(changes) {
	case 0:
		return "no visible changes"
	case 1:
		return changes[0].Description
	}
	return fmt.Sprintf("%s (and %d more)", changes[0].Description, len(changes)-1)
}
