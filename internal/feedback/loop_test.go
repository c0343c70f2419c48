// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// acceptGood passes only the candidate "good".
func acceptGood(candidate, _ string) *VerifyResult {
	if candidate == "good" {
		return &VerifyResult{}
	}
	return &VerifyResult{Problems: []string{"min_length: too short"}}
}

func fastConfig() LoopConfig {
	return LoopConfig{BaseDelay: time.Millisecond, AttemptTimeout: time.Second}
}

func TestRun_StopsOnSuccess(t *testing.T) {
	var seen []Attempt
	fn := func(_ context.Context, a Attempt) (string, error) {
		seen = append(seen, a)
		if a.Number == 2 {
			return "good", nil
		}
		return "bad", nil
	}

	result, err := Run(context.Background(), fastConfig(), fn, acceptGood)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "good", result.Candidate)
	require.Len(t, seen, 2)
	assert.Empty(t, seen[0].Feedback)
	assert.Contains(t, seen[1].Feedback, "min_length: too short")
	assert.Equal(t, []string{"min_length: too short"}, seen[1].Problems)
}

func TestRun_ExhaustsAttempts(t *testing.T) {
	var temps []float64
	var strictness []string
	fn := func(_ context.Context, a Attempt) (string, error) {
		temps = append(temps, a.Temperature)
		strictness = append(strictness, a.Strictness)
		return "bad", nil
	}

	result, err := Run(context.Background(), fastConfig(), fn, acceptGood)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExhausted))
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Len(t, result.Failures, 3)
	assert.Equal(t, []float64{0.7, 0.4, 0.2}, temps)
	assert.Contains(t, strictness[2], "FINAL ATTEMPT")
	assert.Contains(t, err.Error(), "min_length: too short", "the last concrete error is surfaced")
}

func TestRun_DelayGrowsWithAttemptNumber(t *testing.T) {
	cfg := fastConfig()
	cfg.BaseDelay = 10 * time.Millisecond

	fn := func(context.Context, Attempt) (string, error) { return "bad", nil }

	start := time.Now()
	_, err := Run(context.Background(), cfg, fn, acceptGood)
	require.Error(t, err)

	// 10ms after attempt 1, 20ms after attempt 2, none after the last.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRun_AttemptTimeoutAbandonsAttempt(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := LoopConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, AttemptTimeout: 20 * time.Millisecond}
	fn := func(ctx context.Context, _ Attempt) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	checked := false
	check := func(string, string) *VerifyResult {
		checked = true
		return &VerifyResult{}
	}

	result, err := Run(context.Background(), cfg, fn, check)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, checked)
	assert.Equal(t, 2, result.Attempts)
}

func TestRun_LateCandidateDiscarded(t *testing.T) {
	cfg := LoopConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, AttemptTimeout: 10 * time.Millisecond}
	fn := func(context.Context, Attempt) (string, error) {
		time.Sleep(30 * time.Millisecond)
		return "good", nil
	}

	result, err := Run(context.Background(), cfg, fn, acceptGood)

	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, err.Error(), "abandoned")
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	fn := func(context.Context, Attempt) (string, error) {
		called = true
		return "good", nil
	}

	result, err := Run(ctx, fastConfig(), fn, acceptGood)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, called)
	assert.Equal(t, 0, result.Attempts)
}

func TestRun_GenerationErrorIsRetried(t *testing.T) {
	fn := func(_ context.Context, a Attempt) (string, error) {
		if a.Number == 1 {
			return "", errors.New("throttled")
		}
		return "good", nil
	}

	result, err := Run(context.Background(), fastConfig(), fn, acceptGood)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Error(), "throttled")
}
