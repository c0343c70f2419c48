// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package refiner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-refiner/internal/diff"
	"github.com/petar-djukic/go-refiner/internal/feedback"
	"github.com/petar-djukic/go-refiner/internal/git"
	"github.com/petar-djukic/go-refiner/internal/intent"
	"github.com/petar-djukic/go-refiner/internal/llm"
	"github.com/petar-djukic/go-refiner/internal/parser"
	"github.com/petar-djukic/go-refiner/internal/registry"
	"github.com/petar-djukic/go-refiner/internal/router"
	"github.com/petar-djukic/go-refiner/internal/storage"
	"github.com/petar-djukic/go-refiner/internal/validator"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

const (
	defaultMaxAttempts    = 3
	defaultBaseDelay      = time.Second
	defaultAttemptTimeout = 60 * time.Second
	defaultMaxTokens      = 8192
	defaultDBName         = ".go-refiner.db"
	defaultLLMTimeout     = 5 * time.Minute
)

// Service applies edit requests to stored documents. It is safe for
// concurrent use; requests against the same key run one at a time.
type Service struct {
	cfg       Config
	log       *zap.Logger
	store     storage.Store
	files     *storage.FileStore // nil for the SQLite store
	sqlite    *storage.SQLiteStore
	router    *router.Router
	parser    *parser.Parser
	validator *validator.Validator
	differ    *diff.Differ
	repo      *git.Repo // nil when git integration is off
	locks     *keyedMutex
}

// New validates the config, opens the store and generator, and returns a
// ready-to-use Service. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) (*Service, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := registry.Default()
	if cfg.RegistryPath != "" {
		var err error
		if reg, err = registry.Load(cfg.RegistryPath); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	s := &Service{cfg: cfg, log: logger, locks: newKeyedMutex()}
	if err := s.openStore(); err != nil {
		return nil, err
	}

	if cfg.Git.Enabled {
		repo, err := git.Open(git.Config{WorkDir: cfg.Root, DirtyCommit: cfg.Git.DirtyCommit})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		s.repo = repo
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	strategy, _ := router.ParseStrategy(cfg.Strategy)
	s.parser = parser.New(reg)
	s.validator = validator.New(validator.Options{})
	s.differ = diff.New(s.parser)
	s.router, err = router.New(router.Config{
		Strategy: strategy,
		Loop: feedback.LoopConfig{
			MaxAttempts:    cfg.MaxAttempts,
			BaseDelay:      cfg.BaseDelay,
			AttemptTimeout: cfg.AttemptTimeout,
		},
		MaxTokens: cfg.MaxTokens,
	}, router.Deps{
		Store:      s.store,
		Generator:  gen,
		Registry:   reg,
		Parser:     s.parser,
		Validator:  s.validator,
		Classifier: intent.New(reg, intent.Options{DefaultColorTarget: cfg.DefaultColorTarget}),
		Differ:     s.differ,
		Logger:     logger,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Service) openStore() error {
	switch s.cfg.StoreKind {
	case StoreSQLite:
		db, err := storage.OpenSQLite(s.cfg.DBPath)
		if err != nil {
			return err
		}
		s.store, s.sqlite = db, db
	default:
		fs, err := storage.NewFileStore(s.cfg.Root)
		if err != nil {
			return err
		}
		s.store, s.files = fs, fs
	}
	return nil
}

// newGenerator builds the configured generator. A nil generator with a
// nil error means regeneration is unavailable.
func newGenerator(cfg Config) (llm.Generator, error) {
	if cfg.Generator != nil {
		return cfg.Generator, nil
	}
	switch cfg.Provider {
	case ProviderBedrock:
		client, err := llm.NewClient(context.Background(), llm.ClientConfig{
			ModelID:   cfg.Model,
			Region:    cfg.Region,
			Profile:   cfg.Profile,
			Timeout:   defaultLLMTimeout,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
		}
		return client, nil
	case ProviderGemini:
		client, err := llm.NewGeminiClient(context.Background(), llm.GeminiConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
		}
		return client, nil
	}
	return nil, nil
}

// Refine applies req to the document stored under key. The result is never
// nil. When git integration is on, a saved refinement is committed; a
// commit failure is logged and does not fail the request.
func (s *Service) Refine(ctx context.Context, key string, req types.EditRequest) (*types.EditResult, error) {
	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return failed(err), err
	}
	defer unlock()

	var path string
	if s.repo != nil {
		if path, err = s.files.Path(key); err != nil {
			return failed(err), err
		}
		if err := s.repo.HandleDirty(path); err != nil {
			return failed(err), err
		}
	}

	res, err := s.router.Route(ctx, key, req)
	if err != nil || s.repo == nil {
		return res, err
	}

	hash, cerr := s.repo.Commit([]string{path}, req, res)
	if cerr != nil {
		s.log.Warn("refinement not committed",
			zap.String("request_id", res.RequestID), zap.String("key", key), zap.Error(cerr))
		return res, nil
	}
	s.log.Info("refinement committed",
		zap.String("request_id", res.RequestID), zap.String("key", key), zap.String("commit", hash))
	return res, nil
}

func failed(err error) *types.EditResult {
	return &types.EditResult{Method: types.MethodFailed, Message: err.Error()}
}

// Read returns the stored document under key.
func (s *Service) Read(ctx context.Context, key string) (string, error) {
	return s.store.Read(ctx, key)
}

// Keys lists the stored documents, leaving out backups.
func (s *Service) Keys(ctx context.Context) ([]string, error) {
	var l storage.Lister = s.files
	if s.sqlite != nil {
		l = s.sqlite
	}
	all, err := l.Keys(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if !storage.IsBackupKey(k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Validate checks source against the structural rules.
func (s *Service) Validate(source string) types.ValidationResult {
	return s.validator.Validate(source)
}

// Map parses source into its component map.
func (s *Service) Map(source string) (*types.ComponentMap, error) {
	return s.parser.Parse(source)
}

// Diff reports the ranked changes between two versions and their unified
// text diff.
func (s *Service) Diff(oldSource, newSource string) ([]types.Change, string) {
	return s.differ.Diff(oldSource, newSource), diff.Unified(oldSource, newSource)
}

// Undo reverts the last refinement commit and returns the restored paths.
func (s *Service) Undo() ([]string, error) {
	if s.repo == nil {
		return nil, ErrGitDisabled
	}
	return s.repo.Undo()
}

// Close releases the store.
func (s *Service) Close() error {
	if s.sqlite != nil {
		return s.sqlite.Close()
	}
	return nil
}

// validateConfig checks that required fields are present and consistent.
func validateConfig(cfg Config) error {
	switch cfg.StoreKind {
	case "", StoreFile:
		if cfg.Root == "" {
			return fmt.Errorf("Root is required for the file store")
		}
		if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
			return fmt.Errorf("Root %q does not exist or is not a directory", cfg.Root)
		}
	case StoreSQLite:
		if cfg.DBPath == "" && cfg.Root == "" {
			return fmt.Errorf("DBPath or Root is required for the sqlite store")
		}
		if cfg.Git.Enabled {
			return fmt.Errorf("git integration requires the file store")
		}
	default:
		return fmt.Errorf("unknown StoreKind %q (want file or sqlite)", cfg.StoreKind)
	}

	if cfg.Generator == nil {
		switch cfg.Provider {
		case "":
		case ProviderBedrock:
			if cfg.Model == "" {
				return fmt.Errorf("Model is required for bedrock")
			}
			if cfg.Region == "" {
				return fmt.Errorf("Region is required for bedrock")
			}
		case ProviderGemini:
			if cfg.APIKey == "" {
				return fmt.Errorf("APIKey is required for gemini")
			}
		default:
			return fmt.Errorf("unknown Provider %q (want bedrock or gemini)", cfg.Provider)
		}
	}

	if cfg.MaxAttempts < 0 || cfg.BaseDelay < 0 || cfg.AttemptTimeout < 0 || cfg.MaxTokens < 0 {
		return fmt.Errorf("MaxAttempts, BaseDelay, AttemptTimeout, and MaxTokens must not be negative")
	}
	if _, err := router.ParseStrategy(cfg.Strategy); err != nil {
		return err
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.StoreKind == "" {
		cfg.StoreKind = StoreFile
	}
	if cfg.StoreKind == StoreSQLite && cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.Root, defaultDBName)
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
}
