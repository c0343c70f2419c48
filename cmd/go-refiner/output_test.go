// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

func init() {
	color.NoColor = true
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &types.EditResult{
		Success:    true,
		Method:     types.MethodSlow,
		Message:    "Footer section removed",
		DurationMs: 12,
		Attempts:   2,
		TokensUsed: 300,
		Changes: []types.Change{
			{Kind: types.ChangeRemoved, ComponentID: "section-4", Description: "Footer section removed", Weight: 10},
		},
		Diff: "@@ -1,1 +1,1 @@\n-old\n+new\n",
	})

	out := buf.String()
	assert.Contains(t, out, "✓ Footer section removed  [slow, 12ms, 2 attempts, 300 tokens]")
	assert.Contains(t, out, "removed  Footer section removed (section-4, weight 10)")
	assert.Contains(t, out, "-old\n+new\n")
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	printValidation(&buf, types.ValidationResult{
		Errors:   []string{"missing export default"},
		Warnings: []string{"no Preview element"},
	})

	assert.Equal(t, "error: missing export default\nwarning: no Preview element\n", buf.String())
}

func TestPrintMap(t *testing.T) {
	cm := types.NewComponentMap("")
	cm.Add(&types.ComponentNode{ID: "section-0", Type: "Section", StartLine: 1, EndLine: 3})
	cm.Add(&types.ComponentNode{ID: "button-1", Type: "Button", Parent: "section-0", Depth: 1, StartLine: 2, EndLine: 2, Text: "Buy"})

	var buf bytes.Buffer
	printMap(&buf, cm)

	assert.Equal(t, "Section section-0  lines 1-3\n  Button button-1  lines 2-2  \"Buy\"\n", buf.String())
}

func TestPrintKeys(t *testing.T) {
	var buf bytes.Buffer
	printKeys(&buf, []string{"emails/promo.tsx", "welcome.tsx"})
	assert.Equal(t, "emails/promo.tsx\nwelcome.tsx\n", buf.String())

	buf.Reset()
	printKeys(&buf, nil)
	assert.Equal(t, "no documents\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
