// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"fmt"
	"slices"
	"strings"

	"github.com/petar-djukic/go-refiner/internal/validator"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

// MinLengthRatio is the smallest accepted candidate length as a fraction of
// the original document.
const MinLengthRatio = 0.5

// VerifyResult holds every problem found in one candidate.
type VerifyResult struct {
	Validation types.ValidationResult // Structural validation
	Problems   []string               // Validation errors plus candidate checks
}

// Valid reports whether the candidate may be saved.
func (r *VerifyResult) Valid() bool {
	return len(r.Problems) == 0
}

func (r *VerifyResult) Error() string {
	return fmt.Sprintf("candidate rejected: %s", strings.Join(r.Problems, "; "))
}

// Verifier checks regeneration candidates against the original document.
type Verifier struct {
	validator *validator.Validator
	original  string
}

// NewVerifier creates a Verifier for candidates replacing original.
func NewVerifier(v *validator.Validator, original string) *Verifier {
	if v == nil {
		v = validator.New(validator.Options{})
	}
	return &Verifier{validator: v, original: original}
}

// Verify runs the structural validator, the placeholder check, the
// sameness checks, and the length-ratio check on candidate.
func (v *Verifier) Verify(candidate, previous string) *VerifyResult {
	vr := &VerifyResult{Validation: v.validator.Validate(candidate)}
	vr.Problems = append(vr.Problems, vr.Validation.Errors...)

	for _, p := range validator.CheckPlaceholders(candidate) {
		if !slices.Contains(vr.Problems, p) {
			vr.Problems = append(vr.Problems, p)
		}
	}

	trimmed := strings.TrimSpace(candidate)
	if previous != "" && trimmed == strings.TrimSpace(previous) {
		vr.Problems = append(vr.Problems, "candidate is identical to the previous attempt")
	}
	if trimmed == strings.TrimSpace(v.original) {
		vr.Problems = append(vr.Problems, "candidate is identical to the original; the requested change was not made")
	}
	if len(v.original) > 0 {
		ratio := float64(len(trimmed)) / float64(len(strings.TrimSpace(v.original)))
		if ratio < MinLengthRatio {
			vr.Problems = append(vr.Problems, fmt.Sprintf(
				"candidate is %.0f%% of the original length; return the complete component", ratio*100))
		}
	}
	return vr
}
