// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package router

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/petar-djukic/go-refiner/internal/intent"
	"github.com/petar-djukic/go-refiner/internal/mutator"
	"github.com/petar-djukic/go-refiner/internal/validator"
	"github.com/petar-djukic/go-refiner/pkg/types"
)

var wordRegex = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*`)

// fastPath applies the positional mutation the intent calls for and
// validates the result. Any error means the caller should fall back.
func (r *Router) fastPath(ctx context.Context, run *run, source string, req types.EditRequest, in types.EditIntent) (string, *types.ValidationResult, error) {
	cm, err := r.deps.Parser.ParseCtx(ctx, source)
	if err != nil {
		return "", nil, err
	}
	node, err := r.target(cm, req)
	if err != nil {
		return "", nil, err
	}

	c := r.deps.Classifier
	var updated string
	switch in.Category {
	case types.CategoryColor:
		value, ok := c.ExtractColor(req.Message)
		if !ok {
			return "", nil, fmt.Errorf("%w: no color in request", mutator.ErrNotApplicable)
		}
		updated, err = r.style(run, cm, source, node.ID, c.ColorProperty(req.Message), value)
	case types.CategorySize:
		value, ok := c.ExtractSize(req.Message)
		if !ok {
			return "", nil, fmt.Errorf("%w: no size in request", mutator.ErrNotApplicable)
		}
		updated, err = r.style(run, cm, source, node.ID, c.SizeProperty(req.Message), value)
	case types.CategoryText:
		text, ok := intent.ExtractText(req.Message)
		if !ok {
			return "", nil, fmt.Errorf("%w: no replacement text in request", mutator.ErrNotApplicable)
		}
		updated, err = r.deps.Mutator.UpdateText(cm, source, node.ID, text)
	default:
		return "", nil, fmt.Errorf("%w: %s edits need regeneration", mutator.ErrNotApplicable, in.Category)
	}
	if err != nil {
		return "", nil, err
	}

	vr := r.deps.Validator.Validate(updated)
	if !vr.Valid {
		return "", &vr, &validator.Failure{Result: vr}
	}
	return updated, &vr, nil
}

// style sets one style property. A change resolved by the first-match
// step may touch a declaration other nodes share, so it is logged at warn.
func (r *Router) style(run *run, cm *types.ComponentMap, source, id, prop, value string) (string, error) {
	updated, step, err := r.deps.Mutator.UpdateStylePropertyStep(cm, source, id, prop, value)
	if err != nil {
		return "", err
	}
	fields := []zap.Field{zap.String("id", id), zap.String("property", prop), zap.Stringer("step", step)}
	if step == mutator.StepFirstMatch {
		run.log.Warn("style property set on first matching declaration", fields...)
	} else {
		run.log.Debug("style property set", fields...)
	}
	return updated, nil
}

// target picks the node a request refers to: the selected id, else the
// first node of the selected type, else the first node of a type the
// message names.
func (r *Router) target(cm *types.ComponentMap, req types.EditRequest) (*types.ComponentNode, error) {
	if id := req.SelectedComponentID; id != "" {
		if n, ok := cm.Get(id); ok {
			return n, nil
		}
		return nil, fmt.Errorf("%w: selected component %s not found", mutator.ErrNotApplicable, id)
	}
	if typ := req.SelectedComponentType; typ != "" {
		if n, ok := cm.FindByType(typ); ok {
			return n, nil
		}
		return nil, fmt.Errorf("%w: no <%s> element", mutator.ErrNotApplicable, typ)
	}
	for _, w := range wordRegex.FindAllString(req.Message, -1) {
		typ, ok := r.deps.Registry.Element(w)
		if !ok {
			typ = w
		}
		if n, ok := cm.FindByType(typ); ok {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: request names no component", mutator.ErrNotApplicable)
}

// selectedSource returns the source of the selected element, or "" when
// nothing is selected or the selection cannot be resolved.
func (r *Router) selectedSource(ctx context.Context, source string, req types.EditRequest) string {
	if req.SelectedComponentID == "" && req.SelectedComponentType == "" {
		return ""
	}
	cm, err := r.deps.Parser.ParseCtx(ctx, source)
	if err != nil {
		return ""
	}
	n, err := r.target(cm, req)
	if err != nil {
		return ""
	}
	return source[n.StartOffset:n.EndOffset]
}
