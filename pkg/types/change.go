// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// ChangeKind classifies a difference between two document versions.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// Priority weights used to rank changes in a diff report.
const (
	WeightStructural = 10 // Node added or removed
	WeightImage      = 9  // Image source changed
	WeightColor      = 8  // Color property changed
	WeightTextSize   = 7  // Text content or size property changed
	WeightOther      = 1
)

// Change is a single reported difference between two document versions.
type Change struct {
	Kind          ChangeKind `json:"kind"`
	ComponentID   string     `json:"componentId"`
	ComponentType string     `json:"componentType"`
	Property      string     `json:"property,omitempty"`
	OldValue      string     `json:"oldValue,omitempty"`
	NewValue      string     `json:"newValue,omitempty"`
	Weight        int        `json:"priorityWeight"`
	Description   string     `json:"description"`
}
