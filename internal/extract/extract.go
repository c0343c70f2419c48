// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package extract pulls the component source out of a generation response.
// A response may be a JSON object with a "code" field, markdown with fenced
// code blocks, or bare source.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format records where the code was found.
type Format string

const (
	FormatJSON  Format = "json"
	FormatFence Format = "fence"
	FormatBare  Format = "bare"
)

// NoCodeFoundError is returned when the response holds no usable code.
type NoCodeFoundError struct {
	Preview string // Start of the response, for logs
}

func (e *NoCodeFoundError) Error() string {
	if e.Preview == "" {
		return "no code found in empty response"
	}
	return fmt.Sprintf("no code found in response starting %q", e.Preview)
}

// Result is the extracted code plus any surrounding prose.
type Result struct {
	Code        string // Extracted source, trimmed, with a trailing newline
	Format      Format // How the code was found
	Explanation string // JSON "explanation" field or text outside the chosen block
	BlocksFound int    // Fenced blocks seen
	Truncated   bool   // The chosen fence was never closed
}

// codeLanguages are fence tags accepted as component source. The empty tag
// covers untagged fences.
var codeLanguages = map[string]bool{
	"": true, "tsx": true, "jsx": true, "typescript": true, "ts": true,
	"javascript": true, "js": true, "react": true,
}

type jsonResponse struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

type block struct {
	lang   string
	body   string
	closed bool
}

// Extract returns the code carried by response. JSON wins over fences, and
// among fences the longest code block wins.
func Extract(response string) (*Result, error) {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return nil, &NoCodeFoundError{}
	}

	if r, ok := fromJSON(trimmed); ok {
		return r, nil
	}

	blocks, prose := fences(trimmed)
	var best *block
	for i := range blocks {
		b := &blocks[i]
		if b.lang == "json" {
			if r, ok := fromJSON(b.body); ok {
				r.BlocksFound = len(blocks)
				return r, nil
			}
			continue
		}
		if !codeLanguages[b.lang] || strings.TrimSpace(b.body) == "" {
			continue
		}
		if best == nil || len(b.body) > len(best.body) {
			best = b
		}
	}
	if best != nil {
		return &Result{
			Code:        normalize(best.body),
			Format:      FormatFence,
			Explanation: strings.TrimSpace(prose),
			BlocksFound: len(blocks),
			Truncated:   !best.closed,
		}, nil
	}

	if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "export ") || strings.HasPrefix(trimmed, "'use client'") {
		return &Result{Code: normalize(trimmed), Format: FormatBare}, nil
	}

	return nil, &NoCodeFoundError{Preview: preview(trimmed)}
}

func fromJSON(s string) (*Result, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var jr jsonResponse
	if err := json.Unmarshal([]byte(s), &jr); err != nil || strings.TrimSpace(jr.Code) == "" {
		return nil, false
	}
	return &Result{
		Code:        normalize(jr.Code),
		Format:      FormatJSON,
		Explanation: strings.TrimSpace(jr.Explanation),
	}, true
}

// fences splits text into fenced blocks and the prose around them.
func fences(text string) ([]block, string) {
	var blocks []block
	var prose strings.Builder
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "```") {
			prose.WriteString(lines[i])
			prose.WriteByte('\n')
			continue
		}

		b := block{lang: strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "```")))}
		var body strings.Builder
		for i++; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "```" {
				b.closed = true
				break
			}
			body.WriteString(lines[i])
			body.WriteByte('\n')
		}
		b.body = body.String()
		blocks = append(blocks, b)
	}
	return blocks, prose.String()
}

func normalize(code string) string {
	return strings.TrimSpace(code) + "\n"
}

func preview(s string) string {
	const n = 60
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
