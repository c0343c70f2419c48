// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package refiner is the public interface of go-refiner, the refinement
// engine for generated React-email components. A Service applies
// natural-language edit requests to stored documents, editing in place
// when it can and regenerating through a language model when it cannot.
package refiner

import (
	"context"
	"errors"
	"time"

	"github.com/petar-djukic/go-refiner/internal/llm"
	"github.com/petar-djukic/go-refiner/internal/router"
	"github.com/petar-djukic/go-refiner/internal/storage"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// Error types for the Service API.
var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrRollback          = router.ErrRollback
	ErrGenerationFailure = llm.ErrGenerationFailure
	ErrNotFound          = storage.ErrNotFound
	ErrGitDisabled       = errors.New("git integration is disabled")
)

// Store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Generation providers.
const (
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
)

// Config configures a Service.
type Config struct {
	Root      string // Document directory; file store root and git work dir
	StoreKind string // "file" (default) or "sqlite"
	DBPath    string // SQLite database (default <Root>/.go-refiner.db)

	Provider string // "bedrock", "gemini", or "" for edits without regeneration
	Model    string // Model id (required for bedrock)
	Region   string // AWS region (required for bedrock)
	Profile  string // AWS credential profile (optional)
	APIKey   string // Gemini API key (required for gemini)

	// Generator overrides Provider when set.
	Generator Generator

	MaxAttempts    int           // Regeneration attempts (default 3)
	BaseDelay      time.Duration // Delay after attempt n is BaseDelay x n (default 1s)
	AttemptTimeout time.Duration // Per-attempt deadline (default 60s)
	MaxTokens      int           // Max tokens per generation (default 8192)

	Strategy           string // "auto" (default), "fast", or "slow"
	DefaultColorTarget string // Style property for untargeted color requests (default "color")
	RegistryPath       string // Optional YAML merged over the embedded registry

	Git GitConfig
}

// GitConfig controls committing refinements. It requires the file store.
type GitConfig struct {
	Enabled     bool // Commit each saved refinement
	DirtyCommit bool // Commit manual edits of a document before refining it
}

// Generator produces a completion for a conversation. Implementations
// must honor ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.Generation, error)
}
