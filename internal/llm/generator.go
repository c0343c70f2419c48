// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package llm provides the generation collaborators used by the slow path:
// an AWS Bedrock ConverseStream client, a Gemini client, and the prompt
// templates that ask for a regenerated email component.
package llm

import (
	"context"
	"errors"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

// ErrGenerationFailure indicates the generation call failed (network, auth,
// rate limit, empty response).
var ErrGenerationFailure = errors.New("generation failure")

// Generator produces a response for a conversation. Implementations must
// return promptly once ctx is done.
type Generator interface {
	Generate(ctx context.Context, messages []types.Message, opts types.GenerateOptions) (*types.Generation, error)
}

// splitSystem separates system messages from the conversation. Both
// providers take the system prompt as a separate field.
func splitSystem(messages []types.Message) (string, []types.Message) {
	var system string
	var rest []types.Message
	for _, m := range messages {
		if m.Role == types.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
