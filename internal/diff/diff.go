// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package diff compares two versions of an email component and reports the
// changes a reviewer cares about, ranked by priority weight.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/go-refiner/internal/parser"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// MaxReported caps the number of changes Diff returns.
const MaxReported = 5

// similarWording is the similarity above which a text change is described
// as a wording tweak rather than a rewrite.
const similarWording = 0.8

// Differ computes component-level changes.
type Differ struct {
	parser *parser.Parser
}

// New creates a Differ that parses with p. A nil parser uses the default
// registry.
func New(p *parser.Parser) *Differ {
	if p == nil {
		p = parser.New(nil)
	}
	return &Differ{parser: p}
}

// Diff reports the top changes between two versions with the default parser.
func Diff(oldSource, newSource string) []types.Change {
	return New(nil).Diff(oldSource, newSource)
}

// Diff returns at most MaxReported changes, highest weight first.
func (d *Differ) Diff(oldSource, newSource string) []types.Change {
	changes := d.Compute(oldSource, newSource)
	if len(changes) > MaxReported {
		changes = changes[:MaxReported]
	}
	return changes
}

// Compute returns every change between two versions sorted by weight,
// descending, with ties kept in document order. When either version fails
// to parse, a single generic change is returned.
func (d *Differ) Compute(oldSource, newSource string) []types.Change {
	if oldSource == newSource {
		return []types.Change{}
	}

	oldMap, err := d.parser.Parse(oldSource)
	if err != nil {
		return degraded()
	}
	newMap, err := d.parser.Parse(newSource)
	if err != nil {
		return degraded()
	}

	c := &comparer{oldMap: oldMap, newMap: newMap}
	c.compareChildren("", "")

	sort.SliceStable(c.changes, func(i, j int) bool {
		return c.changes[i].Weight > c.changes[j].Weight
	})
	return c.changes
}

func degraded() []types.Change {
	return []types.Change{{
		Kind:          types.ChangeModified,
		ComponentType: "Document",
		Weight:        types.WeightOther,
		Description:   "document updated",
	}}
}

// comparer walks two component maps in parallel.
type comparer struct {
	oldMap  *types.ComponentMap
	newMap  *types.ComponentMap
	changes []types.Change
}

// compareChildren aligns the children of a matched parent pair and recurses
// into each matched child pair.
func (c *comparer) compareChildren(oldParent, newParent string) {
	oldKids := c.oldMap.Children(oldParent)
	newKids := c.newMap.Children(newParent)

	for _, p := range align(oldKids, newKids) {
		switch {
		case p.old == nil:
			c.subtree(p.new, c.newMap, types.ChangeAdded)
		case p.new == nil:
			c.subtree(p.old, c.oldMap, types.ChangeRemoved)
		default:
			c.compareNodes(p.old, p.new)
			c.compareChildren(p.old.ID, p.new.ID)
		}
	}
}

// subtree records an added or removed change for n and every descendant.
func (c *comparer) subtree(n *types.ComponentNode, m *types.ComponentMap, kind types.ChangeKind) {
	verb := "Added"
	if kind == types.ChangeRemoved {
		verb = "Removed"
	}
	desc := fmt.Sprintf("%s %s", verb, n.Type)
	if n.Text != "" {
		desc += fmt.Sprintf(" %q", truncate(n.Text, 40))
	}
	c.changes = append(c.changes, types.Change{
		Kind:          kind,
		ComponentID:   n.ID,
		ComponentType: n.Type,
		Weight:        types.WeightStructural,
		Description:   desc,
	})
	for _, child := range m.Children(n.ID) {
		c.subtree(child, m, kind)
	}
}

// compareNodes records one modified change per differing property: text,
// then image source, then style properties, then remaining attributes.
func (c *comparer) compareNodes(a, b *types.ComponentNode) {
	if a.Text != b.Text {
		c.modified(b, "text", a.Text, b.Text, types.WeightTextSize, describeText(b.Type, a.Text, b.Text))
	}
	if a.Attributes["src"] != b.Attributes["src"] {
		c.modified(b, "src", a.Attributes["src"], b.Attributes["src"], types.WeightImage,
			fmt.Sprintf("Replaced %s image", b.Type))
	}

	for _, key := range unionKeys(a.Style, b.Style) {
		ov, nv := a.Style[key], b.Style[key]
		if ov == nv {
			continue
		}
		c.modified(b, key, ov, nv, styleWeight(key), describeValue(b.Type, key, ov, nv))
	}
	if a.StyleRef != b.StyleRef {
		c.modified(b, "style", a.StyleRef, b.StyleRef, types.WeightOther, describeValue(b.Type, "style", a.StyleRef, b.StyleRef))
	}

	for _, key := range unionKeys(a.Attributes, b.Attributes) {
		if key == "src" {
			continue
		}
		ov, ok1 := a.Attributes[key]
		nv, ok2 := b.Attributes[key]
		if ov == nv && ok1 == ok2 {
			continue
		}
		c.modified(b, key, ov, nv, types.WeightOther, describeValue(b.Type, key, ov, nv))
	}
}

func (c *comparer) modified(n *types.ComponentNode, prop, oldValue, newValue string, weight int, desc string) {
	c.changes = append(c.changes, types.Change{
		Kind:          types.ChangeModified,
		ComponentID:   n.ID,
		ComponentType: n.Type,
		Property:      prop,
		OldValue:      oldValue,
		NewValue:      newValue,
		Weight:        weight,
		Description:   desc,
	})
}

// styleWeight ranks a style property: colors 8, sizes 7, anything else 1.
func styleWeight(key string) int {
	lower := strings.ToLower(key)
	switch {
	case strings.HasSuffix(lower, "color"):
		return types.WeightColor
	case lower == "fontsize", lower == "width", lower == "height", lower == "lineheight":
		return types.WeightTextSize
	}
	return types.WeightOther
}

func describeText(typ, oldText, newText string) string {
	switch {
	case oldText == "":
		return fmt.Sprintf("Added text to %s: %q", typ, truncate(newText, 40))
	case newText == "":
		return fmt.Sprintf("Cleared %s text", typ)
	case Similarity(oldText, newText) >= similarWording:
		return fmt.Sprintf("Adjusted %s wording: %q", typ, truncate(newText, 40))
	}
	return fmt.Sprintf("Changed %s text from %q to %q", typ, truncate(oldText, 40), truncate(newText, 40))
}

func describeValue(typ, prop, oldValue, newValue string) string {
	switch {
	case oldValue == "":
		return fmt.Sprintf("Set %s %s to %s", typ, prop, newValue)
	case newValue == "":
		return fmt.Sprintf("Removed %s %s", typ, prop)
	}
	return fmt.Sprintf("Changed %s %s from %s to %s", typ, prop, oldValue, newValue)
}

func unionKeys(a, b map[string]string) []string {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
