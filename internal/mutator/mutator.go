// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package mutator applies one targeted change to a component source by
// substituting text inside the byte span of a single node.
package mutator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/petar-djukic/go-refiner/internal/registry"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// ErrNotApplicable is returned when the target node or the pattern to
// change cannot be found. Callers fall back to regeneration.
var ErrNotApplicable = errors.New("mutation not applicable")

// ErrStaleMap is returned when the component map was built from a different
// version of the source.
var ErrStaleMap = errors.New("component map does not match source")

// StyleStep identifies which resolution step updated a style property.
type StyleStep int

const (
	StepNone       StyleStep = iota // Nothing matched
	StepInline                      // Inline style literal on the node
	StepReference                   // Shared style object referenced by the node
	StepFirstMatch                  // First declaration anywhere with the property
)

func (s StyleStep) String() string {
	switch s {
	case StepInline:
		return "inline"
	case StepReference:
		return "reference"
	case StepFirstMatch:
		return "first_match"
	default:
		return "none"
	}
}

// Mutator performs span-bounded edits. It never writes to storage.
type Mutator struct {
	reg *registry.Registry
}

// New creates a Mutator that normalizes named colors and sizes through reg.
func New(reg *registry.Registry) *Mutator {
	if reg == nil {
		reg = registry.Default()
	}
	return &Mutator{reg: reg}
}

// UpdateText replaces the direct text content of the node. Elements without
// child elements have their whole inner content replaced; containers have
// their first text run replaced.
func (m *Mutator) UpdateText(cm *types.ComponentMap, source, id, newText string) (string, error) {
	node, err := resolve(cm, source, id)
	if err != nil {
		return "", err
	}
	if node.SelfClosing {
		return "", fmt.Errorf("%w: %s is self-closing and has no text", ErrNotApplicable, id)
	}

	text := jsxText(newText)
	inner := source[node.OpenTagEnd:node.CloseTagStart]

	if !node.HasChildren {
		trimmed := strings.TrimSpace(inner)
		if trimmed == "" {
			return splice(source, node.OpenTagEnd, node.CloseTagStart, text), nil
		}
		lead := strings.Index(inner, trimmed)
		start := node.OpenTagEnd + lead
		return splice(source, start, start+len(trimmed), text), nil
	}

	start, end, ok := firstTextRun(source, node, cm)
	if !ok {
		return "", fmt.Errorf("%w: %s has no text content", ErrNotApplicable, id)
	}
	return splice(source, start, end, text), nil
}

// UpdateAttribute sets a string attribute on the node's opening tag, adding
// it when absent.
func (m *Mutator) UpdateAttribute(cm *types.ComponentMap, source, id, name, value string) (string, error) {
	node, err := resolve(cm, source, id)
	if err != nil {
		return "", err
	}
	if !attrNameRegex.MatchString(name) {
		return "", fmt.Errorf("%w: invalid attribute name %q", ErrNotApplicable, name)
	}

	literal := attributeLiteral(value)
	if attr, ok := findAttribute(source, node.StartOffset, node.OpenTagEnd, name); ok {
		if attr.valueStart == attr.end {
			return splice(source, attr.end, attr.end, "="+literal), nil
		}
		return splice(source, attr.valueStart, attr.end, literal), nil
	}

	at := tagInsertPoint(source, node.StartOffset, node.OpenTagEnd)
	return splice(source, at, at, " "+name+"="+literal), nil
}

// UpdateClassName replaces the node's className attribute.
func (m *Mutator) UpdateClassName(cm *types.ComponentMap, source, id, className string) (string, error) {
	return m.UpdateAttribute(cm, source, id, "className", className)
}

// UpdateStyleProperty sets one style property for the node.
func (m *Mutator) UpdateStyleProperty(cm *types.ComponentMap, source, id, prop, value string) (string, error) {
	out, _, err := m.UpdateStylePropertyStep(cm, source, id, prop, value)
	return out, err
}

// UpdateStylePropertyStep sets one style property and reports which step of
// the resolution chain applied it. Steps are tried in order: the node's
// inline style literal, the shared style object the node references, then
// the first declaration of the property anywhere in the document. The last
// step may change a declaration shared with unrelated nodes.
func (m *Mutator) UpdateStylePropertyStep(cm *types.ComponentMap, source, id, prop, value string) (string, StyleStep, error) {
	node, err := resolve(cm, source, id)
	if err != nil {
		return "", StepNone, err
	}
	if !isIdent(prop) {
		return "", StepNone, fmt.Errorf("%w: invalid style property %q", ErrNotApplicable, prop)
	}
	value = m.normalize(prop, value)

	if attr, ok := findAttribute(source, node.StartOffset, node.OpenTagEnd, "style"); ok && attr.valueStart < attr.end && source[attr.valueStart] == '{' {
		exprOpen := attr.valueStart
		exprClose := attr.end - 1
		inner := skipSpaceAndComments(source, exprOpen+1, exprClose)

		if inner < exprClose && source[inner] == '{' {
			objClose := matchBrace(source, inner)
			if objClose > 0 && objClose < exprClose {
				obj := setProperty(source, inner, objClose, prop, formatValue(value, quoteStyle(source[inner:objClose])))
				return splice(source, inner, objClose+1, obj), StepInline, nil
			}
		}

		ref := strings.TrimSpace(source[inner:exprClose])
		if refRegex.MatchString(ref) {
			if open, close, ok := findStyleObject(source, ref); ok {
				obj := setProperty(source, open, close, prop, formatValue(value, quoteStyle(source[open:close])))
				return splice(source, open, close+1, obj), StepReference, nil
			}
		}
	}

	if p, ok := firstDeclaration(source, prop); ok {
		literal := formatValue(value, quoteStyle(source[p.valueStart:p.valueEnd]))
		return splice(source, p.valueStart, p.valueEnd, literal), StepFirstMatch, nil
	}

	return "", StepNone, fmt.Errorf("%w: no style declaration for %s on %s", ErrNotApplicable, prop, id)
}

// normalize resolves registry names for color and size properties.
func (m *Mutator) normalize(prop, value string) string {
	lower := strings.ToLower(prop)
	if strings.HasSuffix(lower, "color") {
		if hex, ok := m.reg.Color(value); ok {
			return hex
		}
	}
	if isLengthProperty(lower) {
		if size, ok := m.reg.Size(value); ok {
			return size
		}
	}
	return value
}

// isLengthProperty reports whether a lower-cased style property takes a CSS
// length. Keyword-valued properties such as fontWeight or lineHeight keep
// values like "normal" as written.
func isLengthProperty(lower string) bool {
	switch lower {
	case "fontsize", "width", "height", "minwidth", "maxwidth", "minheight", "maxheight",
		"borderradius", "borderwidth", "letterspacing":
		return true
	}
	return strings.HasPrefix(lower, "padding") || strings.HasPrefix(lower, "margin")
}

func resolve(cm *types.ComponentMap, source, id string) (*types.ComponentNode, error) {
	if cm == nil {
		return nil, fmt.Errorf("%w: no component map", ErrNotApplicable)
	}
	if !cm.ValidFor(source) {
		return nil, ErrStaleMap
	}
	node, ok := cm.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: component %q not found", ErrNotApplicable, id)
	}
	return node, nil
}

func splice(source string, start, end int, replacement string) string {
	return source[:start] + replacement + source[end:]
}

// firstTextRun finds the first non-blank text between the node's tags that
// is not inside a descendant element or an expression container.
func firstTextRun(source string, node *types.ComponentNode, cm *types.ComponentMap) (int, int, bool) {
	var children [][2]int
	for _, n := range cm.Nodes() {
		if node.Contains(n) {
			children = append(children, [2]int{n.StartOffset, n.EndOffset})
		}
	}

	i := node.OpenTagEnd
	limit := node.CloseTagStart
	runStart := i
	flush := func(end int) (int, int, bool) {
		seg := source[runStart:end]
		trimmed := strings.TrimSpace(seg)
		if trimmed == "" {
			return 0, 0, false
		}
		lead := strings.Index(seg, trimmed)
		return runStart + lead, runStart + lead + len(trimmed), true
	}

	for i < limit {
		if skip := spanAt(children, i); skip > i {
			if s, e, ok := flush(i); ok {
				return s, e, true
			}
			i = skip
			runStart = i
			continue
		}
		switch source[i] {
		case '{':
			if s, e, ok := flush(i); ok {
				return s, e, true
			}
			close := matchBrace(source, i)
			if close < 0 || close >= limit {
				return 0, 0, false
			}
			i = close + 1
			runStart = i
			continue
		case '<':
			// A non-addressable element (wrapper) we have no span for.
			if s, e, ok := flush(i); ok {
				return s, e, true
			}
			end := strings.IndexByte(source[i:limit], '>')
			if end < 0 {
				return 0, 0, false
			}
			i += end + 1
			runStart = i
			continue
		}
		i++
	}
	return flush(limit)
}

// spanAt returns the end of the outermost span starting at i, or i.
func spanAt(spans [][2]int, i int) int {
	end := i
	for _, s := range spans {
		if s[0] == i && s[1] > end {
			end = s[1]
		}
	}
	return end
}

var (
	refRegex      = regexp.MustCompile(`^[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*$`)
	attrNameRegex = regexp.MustCompile(`^[A-Za-z_][\w:-]*$`)
)

// findStyleObject resolves a reference such as "styles.button" or
// "buttonStyle" to the object literal it names.
func findStyleObject(source, ref string) (int, int, bool) {
	parts := strings.Split(ref, ".")
	declRegex := regexp.MustCompile(`\b(?:const|let|var)\s+` + regexp.QuoteMeta(parts[0]) + `\s*(?::[^=]+)?=\s*\{`)
	loc := declRegex.FindStringIndex(source)
	if loc == nil {
		return 0, 0, false
	}
	open := loc[1] - 1
	close := matchBrace(source, open)
	if close < 0 {
		return 0, 0, false
	}

	for _, key := range parts[1:] {
		p, ok := findProperty(source, open, close, key)
		if !ok || source[p.valueStart] != '{' {
			return 0, 0, false
		}
		open = p.valueStart
		close = matchBrace(source, open)
		if close < 0 {
			return 0, 0, false
		}
	}
	return open, close, true
}

// firstDeclaration finds the first object property named prop anywhere in
// source whose value is a string or number literal.
func firstDeclaration(source, prop string) (property, bool) {
	keyRegex := regexp.MustCompile(`(?:^|[{,\s])(['"]?)` + regexp.QuoteMeta(prop) + `(['"]?)\s*:`)
	offset := 0
	for offset < len(source) {
		loc := keyRegex.FindStringSubmatchIndex(source[offset:])
		if loc == nil {
			return property{}, false
		}
		matchEnd := offset + loc[1]
		if loc[2] != loc[3] || loc[4] != loc[5] {
			if source[offset+loc[2]:offset+loc[3]] != source[offset+loc[4]:offset+loc[5]] {
				offset = matchEnd
				continue
			}
		}
		if inStringOrComment(source, matchEnd-1) {
			offset = matchEnd
			continue
		}

		valueStart := skipSpaceAndComments(source, matchEnd, len(source))
		if valueStart < len(source) && isLiteralStart(source[valueStart]) {
			valueEnd := valueStart
			if c := source[valueStart]; c == '\'' || c == '"' || c == '`' {
				valueEnd = skipString(source, valueStart)
			} else {
				for valueEnd < len(source) && (isIdentByte(source[valueEnd]) || source[valueEnd] == '.' || source[valueEnd] == '-') {
					valueEnd++
				}
			}
			return property{valueStart: valueStart, valueEnd: valueEnd}, true
		}
		offset = matchEnd
	}
	return property{}, false
}

func isLiteralStart(c byte) bool {
	return c == '\'' || c == '"' || c == '`' || c == '-' || ('0' <= c && c <= '9')
}

// inStringOrComment reports whether position pos lies inside a string
// literal or comment, scanning from the start of source.
func inStringOrComment(source string, pos int) bool {
	for i := 0; i < len(source) && i <= pos; {
		c := source[i]
		if c == '"' || c == '\'' || c == '`' {
			end := skipString(source, i)
			if pos < end {
				return true
			}
			i = end
			continue
		}
		if c == '/' {
			if end := skipComment(source, i); end != i {
				if pos < end {
					return true
				}
				i = end
				continue
			}
		}
		i++
	}
	return false
}

// jsxText renders text as JSX children, using an expression container when
// the text holds characters JSX would interpret.
func jsxText(text string) string {
	if strings.ContainsAny(text, "<>{}") {
		return "{" + strconv.Quote(text) + "}"
	}
	return text
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return !('0' <= s[0] && s[0] <= '9')
}
