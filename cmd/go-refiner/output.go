// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// printJSON outputs v as indented JSON.
func printJSON(w io.Writer, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(out))
}

// printResult renders an edit result for a terminal.
func printResult(w io.Writer, res *types.EditResult) {
	if res == nil {
		return
	}
	if res.Success {
		green.Fprintf(w, "✓ %s", res.Message)
	} else {
		red.Fprintf(w, "✗ %s", res.Message)
	}
	faint.Fprintf(w, "  [%s, %dms", res.Method, res.DurationMs)
	if res.Attempts > 0 {
		faint.Fprintf(w, ", %d attempts, %d tokens", res.Attempts, res.TokensUsed)
	}
	faint.Fprintln(w, "]")

	if res.Validation != nil && !res.Validation.Valid {
		printValidation(w, *res.Validation)
	}
	printChanges(w, res.Changes)
	printUnified(w, res.Diff)
}

// printValidation lists errors and warnings.
func printValidation(w io.Writer, v types.ValidationResult) {
	if v.Valid {
		green.Fprintln(w, "valid")
	}
	for _, e := range v.Errors {
		red.Fprintf(w, "error: %s\n", e)
	}
	for _, warn := range v.Warnings {
		yellow.Fprintf(w, "warning: %s\n", warn)
	}
}

// printChanges lists ranked changes.
func printChanges(w io.Writer, changes []types.Change) {
	for _, c := range changes {
		var mark *color.Color
		switch c.Kind {
		case types.ChangeAdded:
			mark = green
		case types.ChangeRemoved:
			mark = red
		default:
			mark = yellow
		}
		mark.Fprintf(w, "%-8s ", c.Kind)
		fmt.Fprintf(w, "%s ", c.Description)
		faint.Fprintf(w, "(%s, weight %d)\n", c.ComponentID, c.Weight)
	}
}

// printUnified colors a unified diff line by line.
func printUnified(w io.Writer, unified string) {
	if unified == "" {
		return
	}
	fmt.Fprintln(w)
	for _, line := range strings.SplitAfter(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			cyan.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			green.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			red.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

// printMap renders the component tree, one node per line.
func printMap(w io.Writer, cm *types.ComponentMap) {
	for _, n := range cm.Nodes() {
		indent := strings.Repeat("  ", n.Depth)
		fmt.Fprintf(w, "%s%s ", indent, n.Type)
		cyan.Fprint(w, n.ID)
		faint.Fprintf(w, "  lines %d-%d", n.StartLine, n.EndLine)
		if n.Text != "" {
			faint.Fprintf(w, "  %q", truncate(n.Text, 40))
		}
		fmt.Fprintln(w)
	}
}

// printKeys lists document keys, one per line.
func printKeys(w io.Writer, keys []string) {
	if len(keys) == 0 {
		faint.Fprintln(w, "no documents")
		return
	}
	for _, k := range keys {
		fmt.Fprintln(w, k)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
