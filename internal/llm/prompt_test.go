// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

func TestRenderSystemPrompt(t *testing.T) {
	tests := []struct {
		name     string
		data     SystemData
		contains []string
		excludes []string
	}{
		{
			name:     "defaults",
			data:     SystemData{},
			contains: []string{"`export default`", "<Html>", "```tsx", "space-x-*"},
			excludes: []string{"Named colors"},
		},
		{
			name:     "custom markers and colors",
			data:     SystemData{ExportMarker: "export const", RootWrapper: "Email", Colors: []string{"red: #ef4444"}},
			contains: []string{"`export const`", "<Email>", "Named colors available:\n- red: #ef4444"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderSystemPrompt(tt.data)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, result, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, result, s)
			}
		})
	}
}

func TestBuildRefineMessages(t *testing.T) {
	messages, err := BuildRefineMessages("SYSTEM", RefineData{
		Code: "export default function A() {}\n",
		Request: types.EditRequest{
			Message:               "Make the button red",
			SelectedComponentID:   "button-4",
			SelectedComponentType: "Button",
		},
		Selected:   "<Button>Buy</Button>",
		Strictness: "Apply the requested change.",
	})
	require.NoError(t, err)

	require.Len(t, messages, 2)
	assert.Equal(t, types.Message{Role: types.RoleSystem, Content: "SYSTEM"}, messages[0])
	assert.Equal(t, types.RoleUser, messages[1].Role)

	user := messages[1].Content
	assert.Contains(t, user, "```tsx\nexport default function A() {}\n```")
	assert.Contains(t, user, "Make the button red")
	assert.Contains(t, user, "component button-4 (a <Button> element)")
	assert.Contains(t, user, "<Button>Buy</Button>")
	assert.Contains(t, user, "Apply the requested change.")
	assert.NotContains(t, user, "rejected")
}

func TestBuildRefineMessages_WithFeedback(t *testing.T) {
	messages, err := BuildRefineMessages("SYSTEM", RefineData{
		Code:       "x",
		Request:    types.EditRequest{Message: "shorter headline"},
		Strictness: "FINAL ATTEMPT.",
		Feedback:   "The previous candidate was rejected. Fix these problems:\n\n- balance: unbalanced braces\n",
	})
	require.NoError(t, err)

	user := messages[1].Content
	assert.Contains(t, user, "FINAL ATTEMPT.")
	assert.Contains(t, user, "- balance: unbalanced braces")
	assert.NotContains(t, user, "The user selected")
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]types.Message{
		{Role: types.RoleSystem, Content: "a"},
		{Role: types.RoleUser, Content: "u"},
		{Role: types.RoleSystem, Content: "b"},
	})
	assert.Equal(t, "a\n\nb", system)
	assert.Equal(t, []types.Message{{Role: types.RoleUser, Content: "u"}}, rest)
}
