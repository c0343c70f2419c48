// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

type fakeGemini struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGemini) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{TotalTokenCount: 321},
	}, nil
}

func TestGeminiClient_Generate(t *testing.T) {
	f := &fakeGemini{text: "```tsx\nexport default function A() {}\n```"}
	g := NewGeminiClientWithAPI(f, GeminiConfig{})

	messages := append(conversation, types.Message{Role: types.RoleAssistant, Content: "previous"},
		types.Message{Role: types.RoleUser, Content: "fix it"})
	gen, err := g.Generate(context.Background(), messages, types.GenerateOptions{Temperature: 0.2, MaxTokens: 1000})
	require.NoError(t, err)

	assert.Equal(t, f.text, gen.Content)
	assert.Equal(t, 321, gen.TokensUsed)
	assert.Equal(t, defaultGeminiModel, f.model)

	require.Len(t, f.contents, 3)
	assert.Equal(t, "model", string(f.contents[1].Role))
	require.NotNil(t, f.config.SystemInstruction)
	assert.Equal(t, "You edit email components.", f.config.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.2, float64(*f.config.Temperature), 1e-6)
	assert.Equal(t, int32(1000), f.config.MaxOutputTokens)
}

func TestGeminiClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeGemini
	}{
		{"api error", &fakeGemini{err: errors.New("quota exceeded")}},
		{"empty text", &fakeGemini{text: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeminiClientWithAPI(tt.f, GeminiConfig{Model: "m"}).
				Generate(context.Background(), conversation, types.GenerateOptions{})
			assert.True(t, errors.Is(err, ErrGenerationFailure))
		})
	}
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.True(t, errors.Is(err, ErrGenerationFailure))
}
