// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	ellipsisCommentRegex = regexp.MustCompile(`^\s*(?:\.\.\.|…)`)
	restOfCodeRegex      = regexp.MustCompile(`(?i)\b(?:rest of (?:the )?(?:code|component|email|content|file)|remaining (?:code|content|sections?)|existing (?:code|content)|same as (?:before|above)|unchanged (?:code|content))\b`)
	todoRegex            = regexp.MustCompile(`\b(?:TODO|FIXME)\b`)
)

// CheckPlaceholders reports leftover placeholder markers: ellipsis comments,
// standalone ellipsis lines, "rest of the code" phrases, and TODO or FIXME
// markers. Spread operators and ellipses inside string literals are not
// placeholders.
func CheckPlaceholders(source string) []string {
	return placeholders(lex(source))
}

func placeholders(l *lexed) []string {
	var errs []string
	for _, c := range l.comments {
		text := strings.TrimSpace(c.Text)
		switch {
		case ellipsisCommentRegex.MatchString(text):
			errs = append(errs, fmt.Sprintf("%s: ellipsis comment at line %d", RulePlaceholder, c.Line))
		case restOfCodeRegex.MatchString(text):
			errs = append(errs, fmt.Sprintf("%s: %q at line %d", RulePlaceholder, restOfCodeRegex.FindString(text), c.Line))
		case todoRegex.MatchString(text):
			errs = append(errs, fmt.Sprintf("%s: %s marker at line %d", RulePlaceholder, todoRegex.FindString(text), c.Line))
		}
	}

	// Standalone ellipsis lines use the blanked view so that a string
	// literal holding "..." on its own line is not reported.
	for i, line := range strings.Split(l.code, "\n") {
		switch strings.TrimSpace(line) {
		case "...", "…", "{...}", "{…}":
			errs = append(errs, fmt.Sprintf("%s: standalone ellipsis at line %d", RulePlaceholder, i+1))
		}
	}
	return errs
}
