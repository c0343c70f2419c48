// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parser builds a ComponentMap from TSX component source by walking
// the tree-sitter syntax tree. Every addressable JSX element gets a fresh
// sequential id and its exact byte span.
package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/petar-djukic/go-refiner/internal/registry"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// ParseError describes source that could not be parsed into a well-formed
// element tree. No map is returned alongside it.
type ParseError struct {
	Line    int    // 1-based line of the first syntax error
	Column  int    // 1-based column of the first syntax error
	Message string // What went wrong
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parser turns source text into a ComponentMap. It is stateless between
// calls and safe for concurrent use.
type Parser struct {
	reg *registry.Registry
}

// New creates a parser that skips the wrapper elements listed in reg.
func New(reg *registry.Registry) *Parser {
	if reg == nil {
		reg = registry.Default()
	}
	return &Parser{reg: reg}
}

// Parse parses source with the default registry.
func Parse(source string) (*types.ComponentMap, error) {
	return New(nil).Parse(source)
}

// Parse builds a fresh ComponentMap for source.
func (p *Parser) Parse(source string) (*types.ComponentMap, error) {
	return p.ParseCtx(context.Background(), source)
}

// ParseCtx builds a fresh ComponentMap for source, honoring cancellation
// of the underlying tree-sitter parse.
func (p *Parser) ParseCtx(ctx context.Context, source string) (*types.ComponentMap, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &ParseError{Message: "empty source"}
	}

	content := []byte(source)
	root, err := sitter.ParseCtx(ctx, content, tsx.GetLanguage())
	if err != nil {
		return nil, &ParseError{Message: err.Error()}
	}
	if root == nil {
		return nil, &ParseError{Message: "no syntax tree produced"}
	}
	if root.HasError() {
		return nil, syntaxError(root)
	}

	w := &walker{
		reg:     p.reg,
		content: content,
		m:       types.NewComponentMap(source),
	}
	w.walk(root, "", 0)
	if w.err != nil {
		return nil, w.err
	}
	return w.m, nil
}

// syntaxError locates the first ERROR or MISSING node in the tree.
func syntaxError(root *sitter.Node) *ParseError {
	bad := firstErrorNode(root)
	if bad == nil {
		return &ParseError{Message: "syntax error"}
	}
	pos := bad.StartPoint()
	msg := "unexpected syntax"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %s", bad.Type())
	}
	return &ParseError{
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Message: msg,
	}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return n
}

// walker carries the state of one parse pass.
type walker struct {
	reg     *registry.Registry
	content []byte
	m       *types.ComponentMap
	seq     int
	err     *ParseError
}

// walk visits every named descendant of n, recording JSX elements. Wrapper
// elements are descended into without becoming nodes themselves.
func (w *walker) walk(n *sitter.Node, parent string, depth int) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "jsx_element":
			w.element(child, parent, depth)
		case "jsx_self_closing_element":
			w.selfClosing(child, parent, depth)
		default:
			w.walk(child, parent, depth)
		}
	}
}

func (w *walker) element(n *sitter.Node, parent string, depth int) {
	open := fieldOrType(n, "open_tag", "jsx_opening_element")
	closeTag := fieldOrType(n, "close_tag", "jsx_closing_element")
	if open == nil {
		w.walk(n, parent, depth)
		return
	}

	name := w.tagName(open)
	if closeTag != nil && w.err == nil {
		if closing := w.tagName(closeTag); closing != name {
			pos := closeTag.StartPoint()
			w.err = &ParseError{
				Line:    int(pos.Row) + 1,
				Column:  int(pos.Column) + 1,
				Message: fmt.Sprintf("closing tag </%s> does not match <%s>", closing, name),
			}
		}
	}
	if w.reg.IsWrapper(name) {
		w.walkContents(n, parent, depth)
		return
	}

	node := w.newNode(n, name, parent, depth)
	node.OpenTagEnd = int(open.EndByte())
	node.CloseTagStart = node.EndOffset
	if closeTag != nil {
		node.CloseTagStart = int(closeTag.StartByte())
	}
	w.attributes(open, node)
	node.Text = w.directText(n)
	node.HasChildren = countElementChildren(n) > 0
	w.m.Add(node)

	w.walkContents(n, node.ID, depth+1)
}

func (w *walker) selfClosing(n *sitter.Node, parent string, depth int) {
	name := w.tagName(n)
	if w.reg.IsWrapper(name) {
		return
	}

	node := w.newNode(n, name, parent, depth)
	node.SelfClosing = true
	node.OpenTagEnd = node.EndOffset
	node.CloseTagStart = node.EndOffset
	w.attributes(n, node)
	w.m.Add(node)

	// Attribute values may hold JSX (e.g. icon={<Img />}).
	w.walkAttributes(n, node.ID, depth+1)
}

// walkContents walks the children of a jsx_element, skipping its tags but
// descending into JSX nested in opening-tag attribute values.
func (w *walker) walkContents(n *sitter.Node, parent string, depth int) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "jsx_opening_element":
			w.walkAttributes(child, parent, depth)
		case "jsx_closing_element", "jsx_text":
		case "jsx_element":
			w.element(child, parent, depth)
		case "jsx_self_closing_element":
			w.selfClosing(child, parent, depth)
		default:
			w.walk(child, parent, depth)
		}
	}
}

func (w *walker) walkAttributes(tag *sitter.Node, parent string, depth int) {
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		child := tag.NamedChild(i)
		if child.Type() == "jsx_attribute" || child.Type() == "jsx_expression" {
			w.walk(child, parent, depth)
		}
	}
}

func (w *walker) newNode(n *sitter.Node, name, parent string, depth int) *types.ComponentNode {
	id := fmt.Sprintf("%s-%d", strings.ToLower(name), w.seq)
	w.seq++
	return &types.ComponentNode{
		ID:          id,
		Type:        name,
		StartOffset: int(n.StartByte()),
		EndOffset:   int(n.EndByte()),
		StartLine:   int(n.StartPoint().Row) + 1,
		EndLine:     int(n.EndPoint().Row) + 1,
		Parent:      parent,
		Depth:       depth,
		Attributes:  map[string]string{},
		Style:       map[string]string{},
	}
}

// tagName returns the element name of an opening or self-closing tag.
// Fragments have no name and return "".
func (w *walker) tagName(tag *sitter.Node) string {
	if name := tag.ChildByFieldName("name"); name != nil {
		return name.Content(w.content)
	}
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		child := tag.NamedChild(i)
		switch child.Type() {
		case "identifier", "nested_identifier", "member_expression", "jsx_namespace_name":
			return child.Content(w.content)
		}
	}
	return ""
}

// attributes records literal attribute values, the inline style literal,
// and any shared style reference.
func (w *walker) attributes(tag *sitter.Node, node *types.ComponentNode) {
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		attr := tag.NamedChild(i)
		if attr.Type() != "jsx_attribute" || attr.NamedChildCount() == 0 {
			continue
		}
		name := attr.NamedChild(0).Content(w.content)
		if attr.NamedChildCount() < 2 {
			node.Attributes[name] = ""
			continue
		}

		value := attr.NamedChild(1)
		switch value.Type() {
		case "string":
			node.Attributes[name] = unquote(value.Content(w.content))
		case "jsx_expression":
			w.expressionAttribute(name, value, node)
		}
	}
}

func (w *walker) expressionAttribute(name string, expr *sitter.Node, node *types.ComponentNode) {
	if expr.NamedChildCount() == 0 {
		return
	}
	inner := expr.NamedChild(0)
	switch inner.Type() {
	case "string", "template_string":
		node.Attributes[name] = unquote(inner.Content(w.content))
	case "number":
		node.Attributes[name] = inner.Content(w.content)
	case "object":
		if name == "style" {
			w.styleObject(inner, node.Style)
		}
	case "identifier", "member_expression":
		if name == "style" {
			node.StyleRef = inner.Content(w.content)
		}
	}
}

// styleObject records the literal key/value pairs of a style object.
func (w *walker) styleObject(obj *sitter.Node, into map[string]string) {
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := pair.ChildByFieldName("key")
		value := pair.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		into[unquote(key.Content(w.content))] = unquote(value.Content(w.content))
	}
}

// directText joins the element's own text children, not those of nested
// elements.
func (w *walker) directText(n *sitter.Node) string {
	var parts []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "jsx_text":
			if t := collapseSpace(child.Content(w.content)); t != "" {
				parts = append(parts, t)
			}
		case "jsx_expression":
			if child.NamedChildCount() == 1 && child.NamedChild(0).Type() == "string" {
				parts = append(parts, unquote(child.NamedChild(0).Content(w.content)))
			}
		}
	}
	return strings.Join(parts, " ")
}

func countElementChildren(n *sitter.Node) int {
	count := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		switch n.NamedChild(i).Type() {
		case "jsx_element", "jsx_self_closing_element":
			count++
		}
	}
	return count
}

// fieldOrType returns the child in field, or the first named child of the
// given type for grammars that do not label the field.
func fieldOrType(n *sitter.Node, field, typ string) *sitter.Node {
	if c := n.ChildByFieldName(field); c != nil {
		return c
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
