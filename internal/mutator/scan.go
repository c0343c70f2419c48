// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package mutator

import (
	"regexp"
	"strconv"
	"strings"
)

// Lexical helpers for the TSX subset the mutator edits: they skip string
// literals, template literals, and comments so that braces and commas
// inside them are never mistaken for structure.

// skipString returns the index just past the string literal starting at i.
// Quoted strings stop at a newline so that an apostrophe in JSX text cannot
// swallow the rest of the document; template literals may span lines.
func skipString(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			if quote != '`' {
				return j
			}
		}
	}
	return len(src)
}

// skipComment returns the index just past a comment starting at i, or i
// when no comment starts there.
func skipComment(src string, i int) int {
	if i+1 >= len(src) || src[i] != '/' {
		return i
	}
	switch src[i+1] {
	case '/':
		if end := strings.IndexByte(src[i:], '\n'); end >= 0 {
			return i + end
		}
		return len(src)
	case '*':
		if end := strings.Index(src[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 2
		}
		return len(src)
	}
	return i
}

// matchBrace returns the index of the bracket closing the one at open, or
// -1 when it is unbalanced.
func matchBrace(src string, open int) int {
	var closer byte
	switch src[open] {
	case '{':
		closer = '}'
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	default:
		return -1
	}
	opener := src[open]
	depth := 0
	for i := open; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '\'' || c == '`':
			i = skipString(src, i)
			continue
		case c == '/':
			if next := skipComment(src, i); next != i {
				i = next
				continue
			}
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// property locates a top-level key inside an object literal.
type property struct {
	keyStart   int
	valueStart int
	valueEnd   int // Exclusive, trailing whitespace trimmed
}

// findProperty finds key at depth one of the object literal spanning
// src[open:close+1].
func findProperty(src string, open, close int, key string) (property, bool) {
	i := open + 1
	for i < close {
		i = skipSpaceAndComments(src, i, close)
		if i >= close {
			break
		}

		keyStart := i
		var name string
		switch c := src[i]; {
		case c == '"' || c == '\'':
			end := skipString(src, i)
			name = src[i+1 : end-1]
			i = end
		case c == '.' && strings.HasPrefix(src[i:], "..."):
			// Spread element: skip to the next top-level comma.
			i = skipValue(src, i, close)
			if i < close && src[i] == ',' {
				i++
			}
			continue
		case isIdentByte(c):
			end := i
			for end < close && isIdentByte(src[end]) {
				end++
			}
			name = src[i:end]
			i = end
		default:
			i = skipValue(src, i, close)
			if i < close && src[i] == ',' {
				i++
			}
			continue
		}

		i = skipSpaceAndComments(src, i, close)
		if i >= close || src[i] != ':' {
			// Shorthand property or method; skip it.
			i = skipValue(src, i, close)
			if i < close && src[i] == ',' {
				i++
			}
			continue
		}
		i = skipSpaceAndComments(src, i+1, close)
		valueStart := i
		valueEnd := skipValue(src, i, close)
		if name == key {
			trimmed := valueEnd
			for trimmed > valueStart && isSpace(src[trimmed-1]) {
				trimmed--
			}
			return property{keyStart: keyStart, valueStart: valueStart, valueEnd: trimmed}, true
		}
		i = valueEnd
		if i < close && src[i] == ',' {
			i++
		}
	}
	return property{}, false
}

// skipValue advances from i to the next top-level ',' or to limit.
func skipValue(src string, i, limit int) int {
	for i < limit {
		c := src[i]
		switch {
		case c == ',':
			return i
		case c == '"' || c == '\'' || c == '`':
			i = skipString(src, i)
			continue
		case c == '{' || c == '(' || c == '[':
			end := matchBrace(src, i)
			if end < 0 || end >= limit {
				return limit
			}
			i = end + 1
			continue
		case c == '/':
			if next := skipComment(src, i); next != i {
				i = next
				continue
			}
		}
		i++
	}
	return limit
}

func skipSpaceAndComments(src string, i, limit int) int {
	for i < limit {
		if isSpace(src[i]) {
			i++
			continue
		}
		if next := skipComment(src, i); next != i {
			i = next
			continue
		}
		break
	}
	return i
}

// setProperty returns the object literal src[open:close+1] with key set to
// the already formatted value, adding the key when absent.
func setProperty(src string, open, close int, key, value string) string {
	obj := src[open : close+1]
	if p, ok := findProperty(src, open, close, key); ok {
		return src[open:p.valueStart] + value + src[p.valueEnd:close+1]
	}

	body := obj[1 : len(obj)-1]
	trimmed := strings.TrimRight(body, " \t\r\n")
	trailing := body[len(trimmed):]

	if strings.TrimSpace(trimmed) == "" {
		return "{ " + key + ": " + value + " }"
	}

	sep := ", "
	if strings.Contains(body, "\n") {
		sep = ",\n" + propertyIndent(body)
	}
	if strings.HasSuffix(trimmed, ",") {
		trimmed = strings.TrimSuffix(trimmed, ",")
	}
	return "{" + trimmed + sep + key + ": " + value + trailing + "}"
}

// propertyIndent returns the indentation of the last property line.
func propertyIndent(body string) string {
	lines := strings.Split(strings.TrimRight(body, " \t\r\n"), "\n")
	last := lines[len(lines)-1]
	return last[:len(last)-len(strings.TrimLeft(last, " \t"))]
}

var numericRegex = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// formatValue renders value as a JS literal, keeping numbers bare and
// quoting everything else with quote.
func formatValue(value string, quote byte) string {
	if numericRegex.MatchString(value) {
		return value
	}
	if quote != '"' {
		quote = '\''
	}
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, string(quote), `\`+string(quote))
	return string(quote) + escaped + string(quote)
}

// quoteStyle returns the quote character used by the first string literal
// in s, defaulting to a single quote.
func quoteStyle(s string) byte {
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '"' {
			return s[i]
		}
	}
	return '\''
}

// attribute locates one attribute inside an opening tag.
type attribute struct {
	start      int // Start of the attribute name
	valueStart int // Start of the value ('"', '\'' or '{'); equals end for boolean attributes
	end        int // Exclusive end of the attribute
}

// findAttribute scans the opening tag src[start:end] for name.
func findAttribute(src string, start, end int, name string) (attribute, bool) {
	i := start + 1
	for i < end && (isIdentByte(src[i]) || src[i] == '.') {
		i++
	}
	for i < end {
		i = skipSpaceAndComments(src, i, end)
		if i >= end || src[i] == '>' || src[i] == '/' {
			break
		}
		if src[i] == '{' {
			close := matchBrace(src, i)
			if close < 0 {
				break
			}
			i = close + 1
			continue
		}

		nameStart := i
		for i < end && (isIdentByte(src[i]) || src[i] == '-' || src[i] == ':') {
			i++
		}
		if i == nameStart {
			i++
			continue
		}
		attrName := src[nameStart:i]

		j := skipSpaceAndComments(src, i, end)
		if j >= end || src[j] != '=' {
			if attrName == name {
				return attribute{start: nameStart, valueStart: i, end: i}, true
			}
			continue
		}
		j = skipSpaceAndComments(src, j+1, end)
		valueStart := j
		switch {
		case j < end && (src[j] == '"' || src[j] == '\''):
			j = skipString(src, j)
		case j < end && src[j] == '{':
			close := matchBrace(src, j)
			if close < 0 {
				return attribute{}, false
			}
			j = close + 1
		}
		if attrName == name {
			return attribute{start: nameStart, valueStart: valueStart, end: j}, true
		}
		i = j
	}
	return attribute{}, false
}

// tagInsertPoint returns where a new attribute goes in the opening tag
// src[start:end]: just before the closing '>' or '/>'.
func tagInsertPoint(src string, start, end int) int {
	i := end - 1
	if i > start && src[i] == '>' {
		i--
	}
	if src[i] == '/' {
		i--
	}
	for i > start && isSpace(src[i]) {
		i--
	}
	return i + 1
}

func attributeLiteral(value string) string {
	if strings.ContainsAny(value, `"{}`) {
		return "{" + strconv.Quote(value) + "}"
	}
	return `"` + value + `"`
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
