// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// MessageRole identifies the sender of a message in the LLM conversation.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message represents a single message in the LLM conversation.
type Message struct {
	Role    MessageRole // Who sent the message
	Content string      // Message text
}

// TokenUsage tracks token consumption for a single LLM call.
type TokenUsage struct {
	InputTokens  int // Tokens in the prompt
	OutputTokens int // Tokens in the response
}

// Total returns the sum of input and output tokens.
func (u TokenUsage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// GenerateOptions tunes one generation call.
type GenerateOptions struct {
	Temperature float64 // Lower is more deterministic
	MaxTokens   int     // Response token cap (0 = client default)
}

// Generation is the result of one generation call.
type Generation struct {
	Content    string     // Raw response text
	TokensUsed int        // Input plus output tokens
	Usage      TokenUsage // Split counts when the provider reports them
	Retries    int        // Rate-limit retries before the call went through
}
