// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey    string // Gemini API key (required)
	Model     string // Model name (default gemini-2.5-flash)
	MaxTokens int    // Max output tokens (default 8192)
}

// GeminiAPI is the subset of genai.Models used by GeminiClient.
type GeminiAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient is a Generator backed by the Gemini API.
type GeminiClient struct {
	api       GeminiAPI
	model     string
	maxTokens int
}

// NewGeminiClient creates a Gemini client from cfg.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", ErrGenerationFailure)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating Gemini client: %v", ErrGenerationFailure, err)
	}
	return NewGeminiClientWithAPI(client.Models, cfg), nil
}

// NewGeminiClientWithAPI creates a client with a pre-configured API
// implementation.
func NewGeminiClientWithAPI(api GeminiAPI, cfg GeminiConfig) *GeminiClient {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	return &GeminiClient{api: api, model: model, maxTokens: maxTokens}
}

// Generate sends messages to the Gemini model and returns the response text.
func (g *GeminiClient) Generate(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.Generation, error) {
	system, conversation := splitSystem(messages)
	if len(conversation) == 0 {
		return nil, fmt.Errorf("%w: no user message", ErrGenerationFailure)
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := make([]*genai.Content, 0, len(conversation))
	for _, m := range conversation {
		role := genai.Role(genai.RoleUser)
		if m.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	resp, err := g.api.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", ErrGenerationFailure, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailure)
	}

	gen := &types.Generation{Content: text}
	if resp.UsageMetadata != nil {
		gen.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
		gen.Usage = types.TokenUsage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return gen, nil
}
