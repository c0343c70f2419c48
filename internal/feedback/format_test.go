// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatProblems(t *testing.T) {
	formatted := FormatProblems([]string{
		"root_wrapper: missing <Html> root element",
		"placeholder: ellipsis comment at line 12",
	})

	assert.Contains(t, formatted, "Fix these problems")
	assert.Contains(t, formatted, "- root_wrapper: missing <Html> root element\n")
	assert.Contains(t, formatted, "- placeholder: ellipsis comment at line 12\n")
}

func TestFormatProblems_Empty(t *testing.T) {
	assert.Empty(t, FormatProblems(nil))
}

func TestFormatProblems_Truncated(t *testing.T) {
	var problems []string
	for i := 0; i < maxProblems+5; i++ {
		problems = append(problems, fmt.Sprintf("problem %d", i))
	}

	formatted := FormatProblems(problems)
	assert.Equal(t, maxProblems+1, strings.Count(formatted, "\n- "))
	assert.Contains(t, formatted, "and 5 more")
}

func TestStrictness_Escalates(t *testing.T) {
	first := Strictness(1, 3)
	second := Strictness(2, 3)
	last := Strictness(3, 3)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, last)
	assert.Greater(t, len(second), len(first))
	assert.Contains(t, last, "FINAL ATTEMPT")
	assert.Equal(t, last, Strictness(5, 3), "attempts past the cap stay at the strictest level")
}
