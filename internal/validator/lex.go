// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package validator

import "strings"

// comment is one line or block comment found in the source.
type comment struct {
	Line int
	Text string
}

// lexed is a view of the source with string literal contents and comments
// blanked to spaces. Offsets and line numbers match the original.
type lexed struct {
	code              string
	comments          []comment
	templateExprLines []int // Lines holding a ${...} inside a template literal
}

func lex(src string) *lexed {
	out := []byte(src)
	l := &lexed{}
	line := 1

	blank := func(from, to int) {
		for k := from; k < to; k++ {
			if out[k] != '\n' {
				out[k] = ' '
			}
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++

		case (c == '\'' || c == '"') && inJSXText(src, i):
			// Apostrophes and quotes in copy ("We're") are text, not strings.
			i++

		case c == '\'' || c == '"' || c == '`':
			start := i
			startLine := line
			closed := false
			j := i + 1
			for ; j < len(src); j++ {
				ch := src[j]
				if ch == '\\' {
					j++
					continue
				}
				if ch == '\n' {
					if c != '`' {
						break
					}
					line++
				}
				if c == '`' && ch == '$' && j+1 < len(src) && src[j+1] == '{' {
					l.templateExprLines = append(l.templateExprLines, startLine)
				}
				if ch == c {
					closed = true
					j++
					break
				}
			}
			if j > len(src) {
				j = len(src)
			}
			// Keep the quotes so that attribute syntax stays recognizable.
			if closed {
				blank(start+1, j-1)
			} else {
				blank(start+1, j)
			}
			i = j

		case c == '/' && i+1 < len(src) && src[i+1] == '/' && (i == 0 || src[i-1] != ':'):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			l.comments = append(l.comments, comment{Line: line, Text: src[i+2 : i+end]})
			blank(i, i+end)
			i += end

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			stop := len(src)
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			text := strings.TrimSuffix(src[i+2:stop], "*/")
			l.comments = append(l.comments, comment{Line: line, Text: text})
			line += strings.Count(src[i:stop], "\n")
			blank(i, stop)
			i = stop

		default:
			i++
		}
	}

	l.code = string(out)
	return l
}

// inJSXText reports whether offset i lies in JSX text: the nearest
// preceding structural character is the '>' closing a tag, or the '}' of an
// expression container that itself sits in text. JSX text cannot contain
// a literal '<', '>', '{' or '}', so scanning back to one of them is enough.
func inJSXText(src string, i int) bool {
	for k := i - 1; k >= 0; k-- {
		switch src[k] {
		case '>':
			return k == 0 || src[k-1] != '='
		case '}':
			open := matchingOpen(src, k)
			return open >= 0 && inJSXText(src, open)
		case '<', '{', '=':
			return false
		}
	}
	return false
}

// matchingOpen returns the offset of the '{' that the '}' at close closes,
// or -1.
func matchingOpen(src string, close int) int {
	depth := 0
	for k := close; k >= 0; k-- {
		switch src[k] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// lineAt returns the 1-based line of offset in s.
func lineAt(s string, offset int) int {
	return strings.Count(s[:offset], "\n") + 1
}
