// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// Category is the kind of change an edit request asks for.
type Category string

const (
	CategoryColor     Category = "color"
	CategoryText      Category = "text"
	CategorySize      Category = "size"
	CategoryLayout    Category = "layout"
	CategoryStyle     Category = "style"
	CategoryStructure Category = "structure"
)

// Action is the verb of an edit request.
type Action string

const (
	ActionChange  Action = "change"
	ActionAdd     Action = "add"
	ActionRemove  Action = "remove"
	ActionReplace Action = "replace"
)

// EditIntent is the classified form of a natural-language edit request.
type EditIntent struct {
	Category   Category `json:"category"`
	Action     Action   `json:"action"`
	Confidence float64  `json:"confidence"` // 0.0-1.0
}

// EditRequest is a natural-language edit against one document. The selected
// component fields come from the editor UI and refer to ids of a map built
// from the current document version.
type EditRequest struct {
	Message               string `json:"message"`
	SelectedComponentID   string `json:"selectedComponentId,omitempty"`
	SelectedComponentType string `json:"selectedComponentType,omitempty"`
}

// Method identifies how an edit was carried out.
type Method string

const (
	MethodFast   Method = "fast"
	MethodSlow   Method = "slow"
	MethodFailed Method = "failed"
)

// EditResult is the outcome of one edit request.
type EditResult struct {
	RequestID  string            `json:"requestId"`
	Success    bool              `json:"success"`
	Method     Method            `json:"method"`
	Code       string            `json:"code,omitempty"`
	Message    string            `json:"message,omitempty"`
	DurationMs int64             `json:"durationMs"`
	Intent     *EditIntent       `json:"intent,omitempty"`
	Changes    []Change          `json:"changes,omitempty"`
	Validation *ValidationResult `json:"validation,omitempty"`
	Diff       string            `json:"diff,omitempty"`
	Attempts   int               `json:"attempts"`
	TokensUsed int               `json:"tokensUsed"`
}

// ValidationResult is the outcome of structural validation. Valid is true
// only when Errors is empty.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
