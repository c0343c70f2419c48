// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package validator checks email component source against a fixed rule
// table. It works on the raw text and never depends on the parser, so that
// it can judge candidates the parser would reject.
package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

// Rule names prefix every error string.
const (
	RuleMinLength      = "min_length"
	RuleExportMarker   = "export_marker"
	RuleRootWrapper    = "root_wrapper"
	RuleBalance        = "balance"
	RuleDynamicContent = "dynamic_content"
	RuleForbiddenClass = "forbidden_class"
	RuleDuplicateDecl  = "duplicate_declaration"
	RulePlaceholder    = "placeholder"
)

const (
	defaultMinLength    = 100
	defaultExportMarker = "export default"
	defaultRootWrapper  = "Html"
	defaultAngleSkew    = 2
)

// Options tunes the rule table. Zero values take the defaults.
type Options struct {
	MinLength    int    // Minimum trimmed length in characters (default 100)
	ExportMarker string // Required export marker (default "export default")
	RootWrapper  string // Required root element name (default "Html")
	AngleSkew    int    // Tolerated difference between '<' and '>' counts (default 2)
}

// Failure carries a failed ValidationResult as an error.
type Failure struct {
	Result types.ValidationResult
}

func (f *Failure) Error() string {
	return "validation failed: " + strings.Join(f.Result.Errors, "; ")
}

// Validator applies the rule table.
type Validator struct {
	opts Options
}

// New creates a Validator, filling unset options with defaults.
func New(opts Options) *Validator {
	if opts.MinLength == 0 {
		opts.MinLength = defaultMinLength
	}
	if opts.ExportMarker == "" {
		opts.ExportMarker = defaultExportMarker
	}
	if opts.RootWrapper == "" {
		opts.RootWrapper = defaultRootWrapper
	}
	if opts.AngleSkew == 0 {
		opts.AngleSkew = defaultAngleSkew
	}
	return &Validator{opts: opts}
}

// Options returns the effective options.
func (v *Validator) Options() Options {
	return v.opts
}

// Validate checks source with the default options.
func Validate(source string) types.ValidationResult {
	return New(Options{}).Validate(source)
}

// Check returns a *Failure when source does not validate.
func (v *Validator) Check(source string) error {
	if r := v.Validate(source); !r.Valid {
		return &Failure{Result: r}
	}
	return nil
}

// Validate runs every rule. The result is valid only when no rule reports
// an error; warnings never affect validity.
func (v *Validator) Validate(source string) types.ValidationResult {
	l := lex(source)
	var errs []string

	if n := len(strings.TrimSpace(source)); n < v.opts.MinLength {
		errs = append(errs, fmt.Sprintf("%s: source is %d characters, minimum is %d", RuleMinLength, n, v.opts.MinLength))
	}
	if !strings.Contains(l.code, v.opts.ExportMarker) {
		errs = append(errs, fmt.Sprintf("%s: missing %q", RuleExportMarker, v.opts.ExportMarker))
	}
	if !tagPresent(l.code, v.opts.RootWrapper) {
		errs = append(errs, fmt.Sprintf("%s: missing <%s> root element", RuleRootWrapper, v.opts.RootWrapper))
	}
	errs = append(errs, checkBalance(l.code, v.opts.AngleSkew)...)
	errs = append(errs, checkDynamic(l)...)
	errs = append(errs, checkClasses(source)...)
	errs = append(errs, checkDuplicates(l.code)...)
	errs = append(errs, placeholders(l)...)

	return types.ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings(l.code),
	}
}

func tagPresent(code, name string) bool {
	return regexp.MustCompile(`<` + regexp.QuoteMeta(name) + `[\s>/]`).MatchString(code)
}

func checkBalance(code string, skew int) []string {
	var braces, parens, angles [2]int
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '{':
			braces[0]++
		case '}':
			braces[1]++
		case '(':
			parens[0]++
		case ')':
			parens[1]++
		case '<':
			if i+1 < len(code) && code[i+1] == '=' {
				continue
			}
			angles[0]++
		case '>':
			if i > 0 && code[i-1] == '=' {
				continue
			}
			if i+1 < len(code) && code[i+1] == '=' {
				continue
			}
			angles[1]++
		}
	}

	var errs []string
	if braces[0] != braces[1] {
		errs = append(errs, fmt.Sprintf("%s: unbalanced braces (%d '{', %d '}')", RuleBalance, braces[0], braces[1]))
	}
	if parens[0] != parens[1] {
		errs = append(errs, fmt.Sprintf("%s: unbalanced parentheses (%d '(', %d ')')", RuleBalance, parens[0], parens[1]))
	}
	if d := angles[0] - angles[1]; d > skew || d < -skew {
		errs = append(errs, fmt.Sprintf("%s: unbalanced angle brackets (%d '<', %d '>')", RuleBalance, angles[0], angles[1]))
	}
	return errs
}

var (
	jsxTextRegex       = regexp.MustCompile(`>([^<>]*)<`)
	interpolationRegex = regexp.MustCompile(`\{\s*[A-Za-z_$][\w$]*(?:\s*\.\s*[A-Za-z_$][\w$]*|\[[^\]]*\])*\s*\}`)
	iterationRegexes   = []struct {
		re   *regexp.Regexp
		name string
	}{
		{regexp.MustCompile(`\.map\s*\(`), ".map("},
		{regexp.MustCompile(`\.forEach\s*\(`), ".forEach("},
		{regexp.MustCompile(`\bfor\s*\(`), "for ("},
		{regexp.MustCompile(`\bwhile\s*\(`), "while ("},
	}
)

// checkDynamic reports variable interpolation in JSX text, template
// interpolation, and iteration constructs.
func checkDynamic(l *lexed) []string {
	var errs []string
	for _, m := range jsxTextRegex.FindAllStringSubmatchIndex(l.code, -1) {
		if m[0] > 0 && l.code[m[0]-1] == '=' {
			continue // Arrow function, not JSX text.
		}
		text := l.code[m[2]:m[3]]
		if loc := interpolationRegex.FindStringIndex(text); loc != nil {
			expr := strings.Join(strings.Fields(text[loc[0]:loc[1]]), "")
			errs = append(errs, fmt.Sprintf("%s: variable interpolation %s at line %d; write the literal text instead",
				RuleDynamicContent, expr, lineAt(l.code, m[2]+loc[0])))
		}
	}
	for _, line := range l.templateExprLines {
		errs = append(errs, fmt.Sprintf("%s: template interpolation at line %d; use a literal string", RuleDynamicContent, line))
	}
	for _, it := range iterationRegexes {
		if loc := it.re.FindStringIndex(l.code); loc != nil {
			errs = append(errs, fmt.Sprintf("%s: iteration construct %s at line %d; repeat the elements statically",
				RuleDynamicContent, it.name, lineAt(l.code, loc[0])))
		}
	}
	return errs
}

var (
	classAttrRegex = regexp.MustCompile("className\\s*=\\s*(?:\"([^\"]*)\"|'([^']*)'|\\{\\s*[\"'`]([^\"'`]*)[\"'`]\\s*\\})")
	pseudoRegex    = regexp.MustCompile(`^(?:[a-z]+:)*(hover|focus|focus-within|focus-visible|active|visited|disabled|first|last|odd|even|group-hover|peer-hover|peer-focus):`)
)

// forbiddenClass maps a class utility to its static alternative, or "" when
// the class is allowed.
func forbiddenClass(class string) string {
	if pseudoRegex.MatchString(class) {
		return "an inline style without the state variant"
	}
	base := class
	if i := strings.LastIndexByte(base, ':'); i >= 0 {
		base = base[i+1:]
	}
	switch {
	case strings.HasPrefix(base, "gap-"):
		return "padding on the child elements"
	case strings.HasPrefix(base, "space-x-"), strings.HasPrefix(base, "space-y-"):
		return "margin on the child elements"
	case base == "grid", base == "inline-grid", strings.HasPrefix(base, "grid-"):
		return "Row and Column components"
	case strings.HasPrefix(base, "col-span-"), strings.HasPrefix(base, "row-span-"):
		return "a Column with an explicit width"
	}
	return ""
}

// checkClasses names each forbidden utility class once.
func checkClasses(source string) []string {
	seen := map[string]bool{}
	var errs []string
	for _, m := range classAttrRegex.FindAllStringSubmatch(source, -1) {
		value := m[1] + m[2] + m[3]
		for _, class := range strings.Fields(value) {
			if seen[class] {
				continue
			}
			if alt := forbiddenClass(class); alt != "" {
				seen[class] = true
				errs = append(errs, fmt.Sprintf("%s: %q is not supported by email clients; use %s instead", RuleForbiddenClass, class, alt))
			}
		}
	}
	return errs
}

var importRegex = regexp.MustCompile(`(?s)\bimport\s+([^;'"]+?)\s+from\s+['"]`)

// checkDuplicates reports top-level names declared more than once.
func checkDuplicates(code string) []string {
	counts := map[string]int{}
	for _, name := range topLevelNames(code) {
		counts[name]++
	}
	var dups []string
	for name, n := range counts {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	sort.Strings(dups)

	errs := make([]string, 0, len(dups))
	for _, name := range dups {
		errs = append(errs, fmt.Sprintf("%s: %q is declared %d times", RuleDuplicateDecl, name, counts[name]))
	}
	return errs
}

// topLevelNames collects names bound by imports and by declarations at
// nesting depth zero.
func topLevelNames(code string) []string {
	var names []string
	for _, m := range importRegex.FindAllStringSubmatch(code, -1) {
		names = append(names, importNames(m[1])...)
	}

	depth := 0
	for i := 0; i < len(code); i++ {
		switch c := code[i]; c {
		case '{', '(', '[':
			depth++
			continue
		case '}', ')', ']':
			depth--
			continue
		}
		if depth != 0 || !startsWord(code, i) {
			continue
		}
		word := readWord(code, i)
		switch word {
		case "const", "let", "var":
			j := skipSpaces(code, i+len(word))
			if j < len(code) && (code[j] == '{' || code[j] == '[') {
				end := closing(code, j)
				names = append(names, patternNames(code[j+1:end])...)
			} else if n := readWord(code, j); n != "" {
				names = append(names, n)
			}
		case "function", "class":
			j := skipSpaces(code, i+len(word))
			if j < len(code) && code[j] == '*' {
				j = skipSpaces(code, j+1)
			}
			if n := readWord(code, j); n != "" {
				names = append(names, n)
			}
		}
		i += len(word) - 1
	}
	return names
}

// importNames lists the local names bound by an import clause such as
// "React, { Body, Html as Root }" or "* as React".
func importNames(clause string) []string {
	var names []string
	clause = strings.TrimSpace(clause)
	if strings.HasPrefix(clause, "type ") {
		clause = strings.TrimSpace(clause[len("type "):])
	}
	if open := strings.IndexByte(clause, '{'); open >= 0 {
		close := strings.LastIndexByte(clause, '}')
		if close > open {
			for _, spec := range strings.Split(clause[open+1:close], ",") {
				f := strings.Fields(spec)
				if len(f) == 0 {
					continue
				}
				names = append(names, f[len(f)-1])
			}
			clause = clause[:open] + clause[close+1:]
		}
	}
	for _, part := range strings.Split(clause, ",") {
		f := strings.Fields(part)
		if len(f) == 0 {
			continue
		}
		names = append(names, f[len(f)-1])
	}
	return names
}

// patternNames lists the names bound by the inside of an object or array
// destructuring pattern.
func patternNames(pattern string) []string {
	var names []string
	for _, elem := range splitTopLevel(pattern) {
		elem = strings.TrimSpace(elem)
		if eq := strings.IndexByte(elem, '='); eq >= 0 {
			elem = strings.TrimSpace(elem[:eq])
		}
		elem = strings.TrimPrefix(elem, "...")
		if colon := strings.IndexByte(elem, ':'); colon >= 0 {
			elem = strings.TrimSpace(elem[colon+1:])
		}
		if elem == "" {
			continue
		}
		if elem[0] == '{' || elem[0] == '[' {
			if end := closing(elem, 0); end > 0 {
				names = append(names, patternNames(elem[1:end])...)
			}
			continue
		}
		if n := readWord(elem, 0); n != "" {
			names = append(names, n)
		}
	}
	return names
}

func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// closing returns the index of the bracket closing s[open], or len(s)-1.
func closing(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s) - 1
}

func startsWord(s string, i int) bool {
	return isWordByte(s[i]) && (i == 0 || (!isWordByte(s[i-1]) && s[i-1] != '.'))
}

func readWord(s string, i int) string {
	j := i
	for j < len(s) && isWordByte(s[j]) {
		j++
	}
	return s[i:j]
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

var typeAnnotationRegex = regexp.MustCompile(`\)\s*:\s*[\w.]+|\binterface\s+\w+|\btype\s+\w+\s*=|:\s*React\.\w+`)

func warnings(code string) []string {
	var warns []string
	if !tagPresent(code, "Container") {
		warns = append(warns, "no <Container> element; content width is unconstrained")
	}
	if !typeAnnotationRegex.MatchString(code) {
		warns = append(warns, "no type annotations found")
	}
	if !strings.Contains(code, "style=") && !strings.Contains(code, "className=") {
		warns = append(warns, "no styling detected")
	}
	return warns
}
