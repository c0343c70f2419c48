// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package registry holds the lookup tables shared by the parser, mutator,
// and intent classifier. A Registry is built once and passed to the
// components that need it.
package registry

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var defaultData []byte

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Registry maps request vocabulary to static values.
type Registry struct {
	Colors     map[string]string `yaml:"colors"`
	Sizes      map[string]string `yaml:"sizes"`
	Properties map[string]string `yaml:"properties"`
	Elements   map[string]string `yaml:"elements"`
	Wrappers   []string          `yaml:"wrappers"`

	wrapperSet map[string]bool
}

// Default returns the registry compiled into the binary.
func Default() *Registry {
	r, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("registry: embedded data is invalid: %v", err))
	}
	return r
}

// Load reads a registry file and merges it over the defaults. Entries in the
// file override default entries with the same name.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry %s: %w", path, err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, err
	}

	r := Default()
	for k, v := range override.Colors {
		r.Colors[k] = v
	}
	for k, v := range override.Sizes {
		r.Sizes[k] = v
	}
	for k, v := range override.Properties {
		r.Properties[k] = v
	}
	for k, v := range override.Elements {
		r.Elements[k] = v
	}
	if len(override.Wrappers) > 0 {
		r.Wrappers = override.Wrappers
	}
	r.index()
	return r, nil
}

// Parse decodes registry YAML.
func Parse(data []byte) (*Registry, error) {
	r := &Registry{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("decoding registry: %w", err)
	}
	if r.Colors == nil {
		r.Colors = map[string]string{}
	}
	if r.Sizes == nil {
		r.Sizes = map[string]string{}
	}
	if r.Properties == nil {
		r.Properties = map[string]string{}
	}
	if r.Elements == nil {
		r.Elements = map[string]string{}
	}
	for name, hex := range r.Colors {
		if !hexColorRegex.MatchString(hex) {
			return nil, fmt.Errorf("registry color %q: %q is not a hex color", name, hex)
		}
	}
	r.index()
	return r, nil
}

func (r *Registry) index() {
	r.wrapperSet = make(map[string]bool, len(r.Wrappers))
	for _, w := range r.Wrappers {
		r.wrapperSet[w] = true
	}
}

// IsWrapper reports whether elements of this type are structural wrappers
// that are never addressable on their own. Fragments have an empty name.
func (r *Registry) IsWrapper(typeName string) bool {
	return typeName == "" || r.wrapperSet[typeName]
}

// Color resolves a color name or hex literal to a lowercase hex value.
func (r *Registry) Color(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if hexColorRegex.MatchString(v) {
		return strings.ToLower(v), true
	}
	hex, ok := r.Colors[strings.ToLower(v)]
	return hex, ok
}

// ColorNames returns the known color names, longest first so that callers
// scanning text prefer "emerald" over a shorter overlapping name.
func (r *Registry) ColorNames() []string {
	names := make([]string, 0, len(r.Colors))
	for name := range r.Colors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// Size resolves a size name to a CSS length.
func (r *Registry) Size(name string) (string, bool) {
	v, ok := r.Sizes[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// Property resolves a request word to a style property name.
func (r *Registry) Property(word string) (string, bool) {
	p, ok := r.Properties[strings.ToLower(word)]
	return p, ok
}

// Element resolves a request word such as "headline" to the element type
// it refers to.
func (r *Registry) Element(word string) (string, bool) {
	e, ok := r.Elements[strings.ToLower(word)]
	return e, ok
}
