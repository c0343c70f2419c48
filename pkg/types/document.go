// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across go-refiner packages.
package types

// SourceDocument is one version of a component source file. It is replaced
// wholesale on every accepted mutation.
type SourceDocument struct {
	Key     string // File path or document id in the store
	Content string // Full source text
}

// ComponentNode is one addressable element found by the parser. Offsets are
// byte offsets into the exact source the map was built from; the span
// [StartOffset, EndOffset) includes the closing tag of container elements.
type ComponentNode struct {
	ID          string // Unique within one parse pass
	Type        string // Element name as written, e.g. "Button" or "Section"
	StartOffset int    // First byte of the opening tag
	EndOffset   int    // One past the last byte of the closing tag
	StartLine   int    // 1-based
	EndLine     int    // 1-based
	HasChildren bool   // True when the element contains child elements

	OpenTagEnd    int  // One past the '>' of the opening tag
	CloseTagStart int  // First byte of the closing tag (EndOffset when self-closing)
	SelfClosing   bool // Written as <X ... />

	Parent string // Id of the nearest addressable ancestor ("" at top level)
	Depth  int    // Number of addressable ancestors
	Index  int    // Position in pre-order

	Text       string            // Direct text content, whitespace-trimmed and joined
	Attributes map[string]string // Attributes with literal string values
	Style      map[string]string // Properties of an inline style={{...}} literal
	StyleRef   string            // Shared style reference, e.g. "styles.button"
}

// Span returns the node's half-open byte range.
func (n *ComponentNode) Span() (int, int) {
	return n.StartOffset, n.EndOffset
}

// Contains reports whether other lies strictly inside n.
func (n *ComponentNode) Contains(other *ComponentNode) bool {
	return n.StartOffset <= other.StartOffset && other.EndOffset <= n.EndOffset &&
		(n.StartOffset != other.StartOffset || n.EndOffset != other.EndOffset)
}

// ComponentMap is the set of addressable nodes parsed from one version of a
// document. It is only valid against the source it was built from.
type ComponentMap struct {
	source string
	nodes  map[string]*ComponentNode
	order  []string
}

// NewComponentMap creates an empty map bound to source.
func NewComponentMap(source string) *ComponentMap {
	return &ComponentMap{
		source: source,
		nodes:  make(map[string]*ComponentNode),
	}
}

// Add registers a node. Nodes must be added in pre-order.
func (m *ComponentMap) Add(n *ComponentNode) {
	n.Index = len(m.order)
	m.nodes[n.ID] = n
	m.order = append(m.order, n.ID)
}

// Get returns the node with the given id.
func (m *ComponentMap) Get(id string) (*ComponentNode, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Len returns the number of addressable nodes.
func (m *ComponentMap) Len() int {
	return len(m.order)
}

// IDs returns node ids in pre-order.
func (m *ComponentMap) IDs() []string {
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	return ids
}

// Nodes returns the nodes in pre-order.
func (m *ComponentMap) Nodes() []*ComponentNode {
	nodes := make([]*ComponentNode, len(m.order))
	for i, id := range m.order {
		nodes[i] = m.nodes[id]
	}
	return nodes
}

// Children returns the direct addressable children of parent in source
// order. An empty parent id returns the top-level nodes.
func (m *ComponentMap) Children(parent string) []*ComponentNode {
	var out []*ComponentNode
	for _, id := range m.order {
		if n := m.nodes[id]; n.Parent == parent {
			out = append(out, n)
		}
	}
	return out
}

// FindByType returns the first node, in pre-order, whose type matches
// typeName (case-insensitive).
func (m *ComponentMap) FindByType(typeName string) (*ComponentNode, bool) {
	for _, id := range m.order {
		n := m.nodes[id]
		if equalFold(n.Type, typeName) {
			return n, true
		}
	}
	return nil, false
}

// Source returns the source text the map was built from.
func (m *ComponentMap) Source() string {
	return m.source
}

// ValidFor reports whether the map was built from exactly source. A map is
// stale the moment its document is mutated.
func (m *ComponentMap) ValidFor(source string) bool {
	return m.source == source
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
