// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"fmt"
	"strings"
)

const maxProblems = 20

// Strictness returns the instructions for attempt n of total. Each attempt
// after the first narrows what the generator may do.
func Strictness(n, total int) string {
	switch {
	case n <= 1:
		return "Apply the requested change and keep everything else as it is."
	case n < total:
		return "The previous attempt was rejected. Change only what the request asks for, " +
			"keep every other element, attribute, and style exactly as in the original, " +
			"and return the complete component."
	default:
		return "FINAL ATTEMPT. Return the complete component as a single tsx code block. " +
			"Copy the original verbatim except for the requested change. " +
			"Do not use placeholders, ellipses, loops, or variables in text. " +
			"Do not add, remove, or reorder elements unless the request says so."
	}
}

// FormatProblems renders the problems of a rejected candidate as a
// follow-up instruction. No problems yield "".
func FormatProblems(problems []string) string {
	if len(problems) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("The previous candidate was rejected. Fix these problems:\n\n")

	shown := problems
	if len(shown) > maxProblems {
		shown = shown[:maxProblems]
	}
	for _, p := range shown {
		buf.WriteString(fmt.Sprintf("- %s\n", p))
	}
	if extra := len(problems) - len(shown); extra > 0 {
		buf.WriteString(fmt.Sprintf("- ... and %d more\n", extra))
	}
	return buf.String()
}
