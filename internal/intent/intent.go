// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package intent classifies natural-language edit requests and extracts the
// values they carry.
package intent

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/go-refiner/internal/registry"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// FastPathThreshold is the minimum confidence for a local edit.
const FastPathThreshold = 0.6

const (
	baseConfidence     = 0.3
	perMatch           = 0.15
	matchCap           = 0.6
	explicitValueBonus = 0.3
	brevityBonus       = 0.1
	briefWords         = 8
)

// categoryPatterns is checked in order; ties go to the earlier category.
var categoryPatterns = []struct {
	category types.Category
	patterns []*regexp.Regexp
}{
	{types.CategoryColor, compile(
		`\bcolou?rs?\b`,
		`#[0-9a-fA-F]{3,8}\b`,
		`\b(?:darker|lighter|brighter)\b`,
		`\b(?:background|bg)\b`,
	)},
	{types.CategorySize, compile(
		`\b(?:bigger|smaller|larger|size|shrink|enlarge|increase|decrease)\b`,
		`\b\d+(?:\.\d+)?(?:px|pt|em|rem|%)`,
		`\b(?:tiny|huge)\b`,
	)},
	{types.CategoryText, compile(
		`\b(?:text|copy|wording|headline|heading|title|label|caption)\b`,
		`\b(?:say|says|read|reads)\b`,
		`\b(?:change|replace|rewrite|update|rename)\b.*\bto\b`,
		`["“‘][^"”’]+["”’]|(?:^|\s)'[^']+'`,
	)},
	{types.CategoryLayout, compile(
		`\b(?:move|align|center|centre|left|right|layout|position)\b`,
		`\b(?:columns?|rows?|spacing|padding|margin)\b`,
	)},
	{types.CategoryStyle, compile(
		`\b(?:bold|italic|underline|rounded|shadow)\b`,
		`\b(?:border|style|font)\b`,
	)},
	{types.CategoryStructure, compile(
		`\b(?:add|remove|delete|insert|duplicate|drop)\b`,
		`\b(?:section|footer|header|banner|image|button|block)s?\b`,
	)},
}

var actionPatterns = []struct {
	action  types.Action
	pattern *regexp.Regexp
}{
	{types.ActionAdd, regexp.MustCompile(`\b(?:add|insert|include|append)\b`)},
	{types.ActionRemove, regexp.MustCompile(`\b(?:remove|delete|drop|hide)\b`)},
	{types.ActionReplace, regexp.MustCompile(`\b(?:replace|swap)\b`)},
}

var (
	hexRegex     = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b`)
	quotedRegex  = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|‘([^’]+)’|(?:^|\s)'([^']+)'(?:\s|$|[.!?,])`)
	unitRegex    = regexp.MustCompile(`\b(\d+(?:\.\d+)?)(px|pt|em|rem|%)`)
	trailingText = regexp.MustCompile(`(?i)\b(?:to|say|says|read|reads)\s+(.+?)[.!]?$`)
	wordRegex    = regexp.MustCompile(`[\p{L}\p{N}'#]+`)
	conjunctions = map[string]bool{"and": true, "or": true, "but": true, "nor": true, "yet": true, "so": true, "for": true}
)

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// Options configures a Classifier.
type Options struct {
	// DefaultColorTarget is the style property a color request changes when
	// it names neither text nor background. Defaults to "color".
	DefaultColorTarget string
}

// Classifier derives EditIntents from request messages.
type Classifier struct {
	reg                *registry.Registry
	defaultColorTarget string
	colorNames         []string
	colorPatterns      []*regexp.Regexp
}

// New creates a Classifier. A nil registry uses the default registry.
func New(reg *registry.Registry, opts Options) *Classifier {
	if reg == nil {
		reg = registry.Default()
	}
	target := opts.DefaultColorTarget
	if target == "" {
		target = "color"
	}
	c := &Classifier{reg: reg, defaultColorTarget: target}
	c.colorNames = reg.ColorNames()
	for _, name := range c.colorNames {
		c.colorPatterns = append(c.colorPatterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(name)+`\b`))
	}
	return c
}

// Classify returns the category, action, and confidence for message.
// Confidence is min(0.3 + 0.15 x matches, 0.6), plus 0.3 when the message
// carries an explicit value, plus 0.1 when it has at most eight words,
// clamped to 1.
func (c *Classifier) Classify(message string) types.EditIntent {
	category := types.CategoryStructure
	matches := 0
	for _, cp := range categoryPatterns {
		n := 0
		for _, p := range cp.patterns {
			if p.MatchString(message) {
				n++
			}
		}
		if cp.category == types.CategoryColor && c.hasColorName(message) {
			n++
		}
		if n > matches {
			category, matches = cp.category, n
		}
	}

	confidence := min(baseConfidence+perMatch*float64(matches), matchCap)
	if c.hasExplicitValue(message) {
		confidence += explicitValueBonus
	}
	if len(words(message)) <= briefWords {
		confidence += brevityBonus
	}
	confidence = min(confidence, 1.0)

	return types.EditIntent{
		Category:   category,
		Action:     action(message),
		Confidence: round2(confidence),
	}
}

// FastPathEligible applies the routing rule: confidence at least 0.6, a
// color, text, or size category, and no more than one coordinating
// conjunction.
func FastPathEligible(in types.EditIntent, message string) bool {
	if in.Confidence < FastPathThreshold {
		return false
	}
	switch in.Category {
	case types.CategoryColor, types.CategoryText, types.CategorySize:
	default:
		return false
	}
	return Conjunctions(message) <= 1
}

// Conjunctions counts coordinating conjunctions in message.
func Conjunctions(message string) int {
	n := 0
	for _, w := range words(message) {
		if conjunctions[strings.ToLower(w)] {
			n++
		}
	}
	return n
}

// ExtractColor returns the first hex color or registry color name in
// message as a lowercase hex value.
func (c *Classifier) ExtractColor(message string) (string, bool) {
	if hex := hexRegex.FindString(message); hex != "" {
		if v, ok := c.reg.Color(hex); ok {
			return v, true
		}
	}
	best, bestAt := "", -1
	for i, re := range c.colorPatterns {
		loc := re.FindStringIndex(message)
		if loc == nil {
			continue
		}
		if bestAt < 0 || loc[0] < bestAt {
			best, bestAt = c.colorNames[i], loc[0]
		}
	}
	if bestAt < 0 {
		return "", false
	}
	return c.reg.Color(best)
}

// ColorProperty returns the style property a color request targets.
func (c *Classifier) ColorProperty(message string) string {
	for _, w := range words(message) {
		p, ok := c.reg.Property(w)
		if ok && strings.HasSuffix(strings.ToLower(p), "color") {
			return p
		}
	}
	return c.defaultColorTarget
}

// ExtractText returns the replacement text in message: a quoted literal
// when present, otherwise the words after a trailing "to" or "say".
func ExtractText(message string) (string, bool) {
	if m := quotedRegex.FindStringSubmatch(message); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				return g, true
			}
		}
	}
	if m := trailingText.FindStringSubmatch(strings.TrimSpace(message)); m != nil {
		text := strings.TrimSpace(m[1])
		if text != "" {
			return text, true
		}
	}
	return "", false
}

// ExtractSize returns an explicit CSS length or a registry size name from
// message.
func (c *Classifier) ExtractSize(message string) (string, bool) {
	if m := unitRegex.FindString(message); m != "" {
		return m, true
	}
	for _, w := range words(message) {
		if v, ok := c.reg.Size(w); ok {
			return v, true
		}
	}
	return "", false
}

// SizeProperty returns the style property a size request targets,
// defaulting to fontSize.
func (c *Classifier) SizeProperty(message string) string {
	for _, w := range words(message) {
		if p, ok := c.reg.Property(w); ok && !strings.HasSuffix(strings.ToLower(p), "color") {
			return p
		}
	}
	return "fontSize"
}

func (c *Classifier) hasColorName(message string) bool {
	for _, re := range c.colorPatterns {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

func (c *Classifier) hasExplicitValue(message string) bool {
	return quotedRegex.MatchString(message) ||
		hexRegex.MatchString(message) ||
		unitRegex.MatchString(message) ||
		c.hasColorName(message)
}

func action(message string) types.Action {
	for _, ap := range actionPatterns {
		if ap.pattern.MatchString(strings.ToLower(message)) {
			return ap.action
		}
	}
	return types.ActionChange
}

func words(message string) []string {
	return wordRegex.FindAllString(message, -1)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
