// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

func TestClassify(t *testing.T) {
	c := New(nil, Options{})

	tests := []struct {
		message    string
		category   types.Category
		action     types.Action
		confidence float64
		fast       bool
	}{
		{"make button color red", types.CategoryColor, types.ActionChange, 1.0, true},
		{"remove the footer", types.CategoryStructure, types.ActionRemove, 0.7, false},
		{"change the headline to 'Summer Sale'", types.CategoryText, types.ActionChange, 1.0, true},
		{"make the headline bigger", types.CategorySize, types.ActionChange, 0.55, false},
		{"make the headline 24px", types.CategorySize, types.ActionChange, 0.85, true},
		{"make the title red and the button blue and bigger", types.CategoryColor, types.ActionChange, 0.75, false},
		{"do something nice", types.CategoryStructure, types.ActionChange, 0.4, false},
		{"add a banner image", types.CategoryStructure, types.ActionAdd, 0.7, false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := c.Classify(tt.message)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.action, got.Action)
			assert.InDelta(t, tt.confidence, got.Confidence, 0.001)
			assert.Equal(t, tt.fast, FastPathEligible(got, tt.message))
		})
	}
}

func TestFastPathEligible_Rule(t *testing.T) {
	high := types.EditIntent{Category: types.CategoryColor, Confidence: 0.6}

	assert.True(t, FastPathEligible(high, "make it red"))
	assert.True(t, FastPathEligible(high, "make it red and bold"), "one conjunction is allowed")
	assert.False(t, FastPathEligible(high, "make it red and bold or italic"))

	low := types.EditIntent{Category: types.CategoryColor, Confidence: 0.59}
	assert.False(t, FastPathEligible(low, "make it red"))

	layout := types.EditIntent{Category: types.CategoryLayout, Confidence: 1}
	assert.False(t, FastPathEligible(layout, "center it"))
}

func TestExtractColor(t *testing.T) {
	c := New(nil, Options{})

	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"make it #FF0000", "#ff0000", true},
		{"make button color red", "#ef4444", true},
		{"use navy blue for the header", "#1e3a8a", true},
		{"make it pop", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := c.ExtractColor(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorProperty(t *testing.T) {
	c := New(nil, Options{})
	assert.Equal(t, "backgroundColor", c.ColorProperty("make the background blue"))
	assert.Equal(t, "borderColor", c.ColorProperty("make the border gray"))
	assert.Equal(t, "color", c.ColorProperty("make the text blue"))
	assert.Equal(t, "color", c.ColorProperty("make it blue"))

	bg := New(nil, Options{DefaultColorTarget: "backgroundColor"})
	assert.Equal(t, "backgroundColor", bg.ColorProperty("make it blue"))
	assert.Equal(t, "color", bg.ColorProperty("make the text blue"), "explicit target wins over the default")
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{`change the headline to "Summer Sale"`, "Summer Sale", true},
		{"change the headline to 'Summer Sale'", "Summer Sale", true},
		{"change the headline to “Summer Sale”", "Summer Sale", true},
		{"make it say Hello world.", "Hello world", true},
		{"make it blue", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ExtractText(tt.message)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSizeAndProperty(t *testing.T) {
	c := New(nil, Options{})

	size, ok := c.ExtractSize("make it 18px")
	assert.True(t, ok)
	assert.Equal(t, "18px", size)

	size, ok = c.ExtractSize("make the heading large")
	assert.True(t, ok)
	assert.Equal(t, "20px", size)

	_, ok = c.ExtractSize("make it bigger")
	assert.False(t, ok)

	assert.Equal(t, "padding", c.SizeProperty("increase padding to 24px"))
	assert.Equal(t, "fontSize", c.SizeProperty("make the heading 24px"))
}

func TestConjunctions(t *testing.T) {
	assert.Equal(t, 0, Conjunctions("make it red"))
	assert.Equal(t, 2, Conjunctions("red and blue or green"))
	assert.Equal(t, 0, Conjunctions("Android brand"), "whole words only")
}
