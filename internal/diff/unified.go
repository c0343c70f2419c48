// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const contextLines = 3

// Similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)).
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// lineOp is one line of a line-level diff.
type lineOp struct {
	kind    byte // ' ', '-' or '+'
	oldLine int  // 0-based, -1 for insertions
	newLine int  // 0-based, -1 for deletions
	text    string
}

// Unified renders a line-level unified diff of two versions with three
// lines of context. Equal inputs yield "".
func Unified(oldSource, newSource string) string {
	if oldSource == newSource {
		return ""
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	a, b, lineArray := dmp.DiffLinesToChars(oldSource, newSource)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	ops := toLineOps(diffs)

	var buf strings.Builder
	for _, h := range hunks(ops) {
		writeHunk(&buf, ops[h[0]:h[1]])
	}
	return buf.String()
}

func toLineOps(diffs []diffmatchpatch.Diff) []lineOp {
	var ops []lineOp
	oldLine, newLine := 0, 0
	for _, d := range diffs {
		lines := strings.SplitAfter(d.Text, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		for _, line := range lines {
			text := strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, lineOp{kind: ' ', oldLine: oldLine, newLine: newLine, text: text})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, lineOp{kind: '-', oldLine: oldLine, newLine: -1, text: text})
				oldLine++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, lineOp{kind: '+', oldLine: -1, newLine: newLine, text: text})
				newLine++
			}
		}
	}
	return ops
}

// hunks groups changed lines with their context into [start, end) ranges of
// ops, merging groups whose context overlaps.
func hunks(ops []lineOp) [][2]int {
	var out [][2]int
	for i, op := range ops {
		if op.kind == ' ' {
			continue
		}
		start := max(i-contextLines, 0)
		end := min(i+contextLines+1, len(ops))
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func writeHunk(buf *strings.Builder, ops []lineOp) {
	oldStart, newStart := -1, -1
	oldCount, newCount := 0, 0
	for _, op := range ops {
		if op.oldLine >= 0 {
			if oldStart < 0 {
				oldStart = op.oldLine
			}
			oldCount++
		}
		if op.newLine >= 0 {
			if newStart < 0 {
				newStart = op.newLine
			}
			newCount++
		}
	}

	fmt.Fprintf(buf, "@@ -%d,%d +%d,%d @@\n", oldStart+1, oldCount, newStart+1, newCount)
	for _, op := range ops {
		buf.WriteByte(op.kind)
		buf.WriteString(op.text)
		buf.WriteByte('\n')
	}
}
