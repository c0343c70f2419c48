// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

const maxSubjectLength = 72

// commitTypes maps request keywords to conventional commit types.
var commitTypes = []struct {
	keywords []string
	prefix   string
}{
	{[]string{"fix", "typo", "correct", "repair"}, "fix"},
	{[]string{"remove", "delete", "drop", "move", "reorder", "swap"}, "refactor"},
	{[]string{"color", "colour", "background", "bigger", "smaller", "larger", "size",
		"font", "bold", "italic", "align", "center", "padding", "margin", "style",
		"red", "blue", "green", "yellow", "orange", "purple", "black", "white", "gray", "grey"}, "style"},
	// "feat" is the default, so it comes last with broad keywords.
	{[]string{"add", "insert", "create", "new", "introduce"}, "feat"},
}

// GenerateMessage creates a conventional commit message for one accepted
// refinement of files.
func GenerateMessage(req types.EditRequest, res *types.EditResult, files []string) string {
	subject := buildSubject(inferCommitType(req.Message), req.Message)

	var sections []string
	if body := buildBody(res, files); body != "" {
		sections = append(sections, body)
	}
	trailers := refinerTrailer
	if res != nil && res.RequestID != "" {
		trailers += "\nRequest-Id: " + res.RequestID
	}
	sections = append(sections, trailers)

	return subject + "\n\n" + strings.Join(sections, "\n\n")
}

// inferCommitType determines the conventional commit type from request
// keywords.
func inferCommitType(message string) string {
	lower := strings.ToLower(message)
	for _, ct := range commitTypes {
		for _, kw := range ct.keywords {
			if containsWord(lower, kw) {
				return ct.prefix
			}
		}
	}
	return "feat"
}

// containsWord checks whether text contains keyword as a whole word
// (bounded by non-letter characters or string edges).
func containsWord(text, keyword string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		leftOK := start == 0 || !unicode.IsLetter(rune(text[start-1]))
		rightOK := end == len(text) || !unicode.IsLetter(rune(text[end]))
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
}

// buildSubject creates the first line of the commit message.
// Format: "type: summary" (max 72 chars).
func buildSubject(commitType, message string) string {
	summary := strings.Join(strings.Fields(message), " ")
	summary = strings.TrimRight(summary, ".")
	if summary == "" {
		summary = "refine email component"
	}
	summary = strings.ToLower(summary[:1]) + summary[1:]

	subject := fmt.Sprintf("%s: %s", commitType, summary)
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

// buildBody lists the reported changes, how they were made, and the files.
func buildBody(res *types.EditResult, files []string) string {
	var buf strings.Builder
	if res != nil && len(res.Changes) > 0 {
		buf.WriteString("Changes:\n")
		for _, c := range res.Changes {
			buf.WriteString(fmt.Sprintf("- %s\n", c.Description))
		}
		buf.WriteString("\n")
	}
	if res != nil && res.Method != "" {
		buf.WriteString(fmt.Sprintf("Method: %s", res.Method))
		if res.Attempts > 0 {
			buf.WriteString(fmt.Sprintf(" (%d attempts)", res.Attempts))
		}
		buf.WriteString("\n")
	}
	if len(files) > 0 {
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("Modified files:\n")
		for _, f := range files {
			buf.WriteString(fmt.Sprintf("- %s\n", f))
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}
