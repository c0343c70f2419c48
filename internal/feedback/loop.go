// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package feedback runs the bounded regeneration loop of the slow path:
// each attempt produces a candidate, the candidate is verified, and the
// problems found are formatted into the next attempt's instructions.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultMaxAttempts    = 3
	defaultBaseDelay      = time.Second
	defaultAttemptTimeout = 60 * time.Second
)

// DefaultTemperatures is the per-attempt temperature schedule. Attempts
// past the end of the schedule reuse its last entry.
var DefaultTemperatures = []float64{0.7, 0.4, 0.2}

// ErrExhausted is returned when every attempt failed.
var ErrExhausted = errors.New("attempts exhausted")

// Attempt describes one regeneration attempt.
type Attempt struct {
	Number      int      // 1-based
	Temperature float64  // From the schedule
	Strictness  string   // Instructions for this attempt
	Feedback    string   // Problems with the previous candidate, "" on the first attempt
	Problems    []string // The same problems, unformatted
}

// AttemptFunc produces a candidate for one attempt. The context carries the
// per-attempt timeout. A returned error counts as a failed attempt.
type AttemptFunc func(ctx context.Context, a Attempt) (candidate string, err error)

// CheckFunc verifies a candidate against the previous one.
type CheckFunc func(candidate, previous string) *VerifyResult

// LoopConfig configures the attempt loop.
type LoopConfig struct {
	MaxAttempts    int           // Hard cap on attempts (default 3)
	BaseDelay      time.Duration // Delay after attempt n is BaseDelay x n (default 1s)
	AttemptTimeout time.Duration // Per-attempt deadline (default 60s)
	Temperatures   []float64     // Per-attempt schedule (default 0.7, 0.4, 0.2)
}

// LoopResult holds the outcome of the attempt loop.
type LoopResult struct {
	Success   bool          // A candidate passed verification
	Attempts  int           // Attempts started
	Candidate string        // The accepted candidate
	Failures  []error       // One entry per failed attempt
	LastCheck *VerifyResult // Verification of the last candidate, if any
}

// LastError returns the error of the most recent failed attempt.
func (r *LoopResult) LastError() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return r.Failures[len(r.Failures)-1]
}

// Run executes up to MaxAttempts attempts and returns on the first
// candidate that passes check. An attempt that times out or fails is
// abandoned and its output discarded. Between attempts Run waits
// BaseDelay x attempt number, returning early if ctx is done.
func Run(ctx context.Context, cfg LoopConfig, attempt AttemptFunc, check CheckFunc) (*LoopResult, error) {
	cfg = withDefaults(cfg)
	result := &LoopResult{}

	var feedback string
	var problems []string
	var previous string

	for n := 1; n <= cfg.MaxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("canceled after %d attempts: %w", result.Attempts, err)
		}
		result.Attempts++

		a := Attempt{
			Number:      n,
			Temperature: temperature(cfg.Temperatures, n),
			Strictness:  Strictness(n, cfg.MaxAttempts),
			Feedback:    feedback,
			Problems:    problems,
		}

		candidate, err := runAttempt(ctx, cfg.AttemptTimeout, attempt, a)
		if err != nil {
			result.Failures = append(result.Failures, fmt.Errorf("attempt %d: %w", n, err))
			problems = []string{err.Error()}
		} else {
			vr := check(candidate, previous)
			result.LastCheck = vr
			previous = candidate
			if vr.Valid() {
				result.Success = true
				result.Candidate = candidate
				return result, nil
			}
			result.Failures = append(result.Failures, fmt.Errorf("attempt %d: %w", n, vr))
			problems = vr.Problems
		}
		feedback = FormatProblems(problems)

		if n < cfg.MaxAttempts {
			if err := sleep(ctx, cfg.BaseDelay*time.Duration(n)); err != nil {
				return result, fmt.Errorf("canceled after %d attempts: %w", result.Attempts, err)
			}
		}
	}

	return result, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, result.Attempts, result.LastError())
}

// runAttempt bounds one attempt by timeout. A candidate returned after the
// deadline is discarded.
func runAttempt(ctx context.Context, timeout time.Duration, fn AttemptFunc, a Attempt) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	candidate, err := fn(attemptCtx, a)
	if err != nil {
		return "", err
	}
	if ctxErr := attemptCtx.Err(); ctxErr != nil {
		return "", fmt.Errorf("abandoned: %w", ctxErr)
	}
	return candidate, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func temperature(schedule []float64, n int) float64 {
	if n > len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[n-1]
}

func withDefaults(cfg LoopConfig) LoopConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if len(cfg.Temperatures) == 0 {
		cfg.Temperatures = DefaultTemperatures
	}
	return cfg
}
