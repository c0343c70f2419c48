// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Colors(t *testing.T) {
	r := Default()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"red", "#ef4444", true},
		{"RED", "#ef4444", true},
		{"#FF0000", "#ff0000", true},
		{"#abc", "#abc", true},
		{"chartreuse-ish", "", false},
		{"#12", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := r.Color(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefault_Wrappers(t *testing.T) {
	r := Default()

	assert.True(t, r.IsWrapper("Html"))
	assert.True(t, r.IsWrapper("Body"))
	assert.True(t, r.IsWrapper(""), "fragments are wrappers")
	assert.False(t, r.IsWrapper("Button"))
	assert.False(t, r.IsWrapper("Section"))
}

func TestColorNames_LongestFirst(t *testing.T) {
	names := Default().ColorNames()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.GreaterOrEqual(t, len(names[i-1]), len(names[i]))
	}
}

func TestSizeAndProperty(t *testing.T) {
	r := Default()

	size, ok := r.Size("Large")
	require.True(t, ok)
	assert.Equal(t, "20px", size)

	prop, ok := r.Property("background")
	require.True(t, ok)
	assert.Equal(t, "backgroundColor", prop)

	_, ok = r.Property("sparkle")
	assert.False(t, ok)
}

func TestParse_RejectsBadColor(t *testing.T) {
	_, err := Parse([]byte("colors:\n  red: crimson\n"))
	assert.Error(t, err)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brand.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors:\n  brand: \"#123456\"\n  red: \"#dc2626\"\n"), 0o644))

	r, err := Load(path)
	require.NoError(t, err)

	brand, ok := r.Color("brand")
	require.True(t, ok)
	assert.Equal(t, "#123456", brand)

	red, _ := r.Color("red")
	assert.Equal(t, "#dc2626", red)

	blue, _ := r.Color("blue")
	assert.Equal(t, "#3b82f6", blue, "defaults survive the merge")
	assert.True(t, r.IsWrapper("Html"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestElement(t *testing.T) {
	r := Default()

	tests := []struct {
		word string
		want string
		ok   bool
	}{
		{"button", "Button", true},
		{"Headline", "Heading", true},
		{"logo", "Img", true},
		{"banana", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := r.Element(tt.word)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
