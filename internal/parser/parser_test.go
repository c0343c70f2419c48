// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-refiner/internal/registry"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

const welcomeEmail = `import { Body, Button, Container, Html, Section, Text } from '@react-email/components';
import * as React from 'react';

const styles = {
  button: { backgroundColor: '#2563eb', color: '#ffffff', padding: '12px 20px' },
  footer: { color: '#6b7280', fontSize: '12px' },
};

export default function WelcomeEmail(): React.ReactElement {
  return (
    <Html>
      <Body style={{ backgroundColor: '#f9fafb' }}>
        <Container>
          <Section>
            <Text style={{ color: '#111827', fontSize: '16px' }}>Welcome aboard</Text>
            <Button href="https://example.com" style={styles.button}>Get started</Button>
          </Section>
          <Section>
            <Text style={styles.footer}>You are receiving this email because you signed up.</Text>
          </Section>
        </Container>
      </Body>
    </Html>
  );
}
`

func TestParse_AssignsSequentialIDsInPreOrder(t *testing.T) {
	m, err := Parse(welcomeEmail)
	require.NoError(t, err)

	assert.Equal(t, []string{"container-0", "section-1", "text-2", "button-3", "section-4", "text-5"}, m.IDs())

	names := make([]string, 0, m.Len())
	for _, n := range m.Nodes() {
		names = append(names, n.Type)
	}
	assert.Equal(t, []string{"Container", "Section", "Text", "Button", "Section", "Text"}, names)
}

func TestParse_SpansCoverWholeElement(t *testing.T) {
	m, err := Parse(welcomeEmail)
	require.NoError(t, err)

	for _, n := range m.Nodes() {
		start, end := n.Span()
		src := welcomeEmail[start:end]
		assert.True(t, strings.HasPrefix(src, "<"+n.Type), "node %s starts with its tag: %q", n.ID, src)
		assert.True(t, strings.HasSuffix(src, "</"+n.Type+">"), "node %s ends with its closing tag: %q", n.ID, src)
		assert.Equal(t, ">", welcomeEmail[n.OpenTagEnd-1:n.OpenTagEnd])
		assert.Equal(t, "</"+n.Type+">", welcomeEmail[n.CloseTagStart:n.EndOffset])
	}
}

func TestParse_SpansNeverPartiallyOverlap(t *testing.T) {
	m, err := Parse(welcomeEmail)
	require.NoError(t, err)

	nodes := m.Nodes()
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			disjoint := a.EndOffset <= b.StartOffset || b.EndOffset <= a.StartOffset
			nested := a.Contains(b) || b.Contains(a)
			assert.True(t, disjoint || nested, "%s [%d,%d) and %s [%d,%d) partially overlap",
				a.ID, a.StartOffset, a.EndOffset, b.ID, b.StartOffset, b.EndOffset)
		}
	}
}

func TestParse_NestedSameTypeElements(t *testing.T) {
	src := `const X = () => (
  <Section>
    <Section>
      <Text>inner</Text>
    </Section>
    <Section>
      <Text>second</Text>
    </Section>
  </Section>
);
`
	m, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, []string{"section-0", "section-1", "text-2", "section-3", "text-4"}, m.IDs())

	outer, _ := m.Get("section-0")
	first, _ := m.Get("section-1")
	second, _ := m.Get("section-3")

	assert.True(t, outer.Contains(first))
	assert.True(t, outer.Contains(second))
	assert.LessOrEqual(t, first.EndOffset, second.StartOffset, "siblings do not collapse into each other")
	assert.Equal(t, "<Section>\n      <Text>inner</Text>\n    </Section>", src[first.StartOffset:first.EndOffset])
	assert.Equal(t, "section-0", first.Parent)
	assert.Equal(t, 1, first.Depth)
	assert.Equal(t, "section-1", nodeOf(t, m, "text-2").Parent)
}

func TestParse_SelfClosingAndChildren(t *testing.T) {
	src := `const X = () => (
  <Section>
    <Img src="https://cdn.example.com/logo.png" alt="Logo" width="120" />
    <Text>Caption</Text>
  </Section>
);
`
	m, err := Parse(src)
	require.NoError(t, err)

	section := nodeOf(t, m, "section-0")
	img := nodeOf(t, m, "img-1")
	text := nodeOf(t, m, "text-2")

	assert.True(t, section.HasChildren)
	assert.False(t, section.SelfClosing)
	assert.True(t, img.SelfClosing)
	assert.False(t, img.HasChildren)
	assert.Equal(t, img.EndOffset, img.OpenTagEnd)
	assert.Equal(t, "https://cdn.example.com/logo.png", img.Attributes["src"])
	assert.Equal(t, "Logo", img.Attributes["alt"])
	assert.False(t, text.HasChildren)
	assert.Equal(t, "Caption", text.Text)
}

func TestParse_AttributesAndStyles(t *testing.T) {
	m, err := Parse(welcomeEmail)
	require.NoError(t, err)

	text := nodeOf(t, m, "text-2")
	assert.Equal(t, "Welcome aboard", text.Text)
	assert.Equal(t, "#111827", text.Style["color"])
	assert.Equal(t, "16px", text.Style["fontSize"])
	assert.Empty(t, text.StyleRef)

	button := nodeOf(t, m, "button-3")
	assert.Equal(t, "https://example.com", button.Attributes["href"])
	assert.Equal(t, "styles.button", button.StyleRef)
	assert.Empty(t, button.Style)
	assert.Equal(t, 16, button.StartLine)
	assert.Equal(t, 16, button.EndLine)
}

func TestParse_WrappersAreNotAddressable(t *testing.T) {
	m, err := Parse(welcomeEmail)
	require.NoError(t, err)

	_, ok := m.FindByType("Html")
	assert.False(t, ok)
	_, ok = m.FindByType("Body")
	assert.False(t, ok)

	container := nodeOf(t, m, "container-0")
	assert.Empty(t, container.Parent, "children of wrappers are top level")
}

func TestParse_CustomWrappers(t *testing.T) {
	reg, err := registry.Parse([]byte("wrappers:\n  - Container\n"))
	require.NoError(t, err)

	m, err := New(reg).Parse(welcomeEmail)
	require.NoError(t, err)

	_, ok := m.FindByType("Container")
	assert.False(t, ok)
	_, ok = m.FindByType("Html")
	assert.True(t, ok, "Html is addressable when not listed")
}

func TestParse_Fragments(t *testing.T) {
	src := "const X = () => (\n  <>\n    <Text>a</Text>\n    <Text>b</Text>\n  </>\n);\n"
	m, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"text-0", "text-1"}, m.IDs())
}

func TestParse_MalformedSource(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "   \n"},
		{"unclosed element", "const X = () => (\n  <Section>\n    <Text>hi</Text>\n);\n"},
		{"mismatched closing tag", "const X = () => <Section><Text>hi</Section></Text>;\n"},
		{"broken expression", "export default function ( {\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.src)
			assert.Nil(t, m)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %v", err)
			assert.NotEmpty(t, pe.Error())
		})
	}
}

func TestParse_MapIsBoundToSource(t *testing.T) {
	m, err := Parse(welcomeEmail)
	require.NoError(t, err)

	assert.True(t, m.ValidFor(welcomeEmail))
	assert.False(t, m.ValidFor(welcomeEmail+" "))
}

func nodeOf(t *testing.T, m *types.ComponentMap, id string) *types.ComponentNode {
	t.Helper()
	n, ok := m.Get(id)
	require.True(t, ok, "node %s not found in %v", id, m.IDs())
	return n
}
