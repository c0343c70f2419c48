// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package router

import (
	"slices"

	"go.uber.org/zap"
)

// State is a step of one edit request.
type State string

const (
	StateReceived         State = "received"
	StateIntentClassified State = "intent_classified"
	StateFastPath         State = "fast_path"
	StateSlowPath         State = "slow_path"
	StateValidated        State = "validated"
	StateSaved            State = "saved"
	StateFailed           State = "failed"
)

// transitions lists the legal successors of each state. Saved and Failed
// are terminal.
var transitions = map[State][]State{
	StateReceived:         {StateIntentClassified, StateFailed},
	StateIntentClassified: {StateFastPath, StateSlowPath},
	StateFastPath:         {StateValidated, StateSlowPath, StateFailed},
	StateSlowPath:         {StateValidated, StateFailed},
	StateValidated:        {StateSaved, StateFailed},
}

// run tracks the state of one request and carries its logger.
type run struct {
	log   *zap.Logger
	state State
	path  []State
}

func newRun(log *zap.Logger) *run {
	return &run{log: log, state: StateReceived, path: []State{StateReceived}}
}

// to moves the request to next and logs the transition.
func (r *run) to(next State, fields ...zap.Field) {
	if !slices.Contains(transitions[r.state], next) {
		r.log.DPanic("illegal state transition",
			zap.String("from", string(r.state)), zap.String("to", string(next)))
	}
	fields = append(fields, zap.String("from", string(r.state)), zap.String("state", string(next)))
	r.log.Info("state transition", fields...)
	r.state = next
	r.path = append(r.path, next)
}
