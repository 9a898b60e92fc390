// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package operations reports the lifecycle of long running deployment work,
// such as downloading and launching an installer, to an observer.
package operations

import (
	"context"

	"github.com/google/uuid"
)

// StateKind is the lifecycle state of a background operation.
type StateKind string

const (
	StateInProgress  StateKind = "inProgress"
	StateDownloading StateKind = "downloading"
	StateLaunching   StateKind = "launching"
	StateSucceeded   StateKind = "succeeded"
	StateFailed      StateKind = "failed"
)

// Message is a single status report of a background operation. Messages for
// the same operation share a correlation id.
type Message struct {
	CorrelationId uuid.UUID
	Message       string
	State         StateKind
	// Err carries the triggering error when State is StateFailed.
	Err error
}

// Observer receives every status message of every operation run by a Manager.
type Observer func(ctx context.Context, msg *Message)

// Operation represents an atomic long running operation.
type Operation struct {
	correlationId uuid.UUID
	observer      Observer
}

func (o *Operation) send(ctx context.Context, message string, state StateKind, err error) {
	o.observer(ctx, &Message{
		CorrelationId: o.correlationId,
		Message:       message,
		State:         state,
		Err:           err,
	})
}

// Progress reports an intermediate state of the operation.
func (o *Operation) Progress(ctx context.Context, message string, state StateKind) {
	o.send(ctx, message, state, nil)
}

// Manager runs background operations, bracketing them with the appropriate
// lifecycle messages.
type Manager struct {
	observer Observer
}

// NewManager creates a manager sending messages to the observer. A nil
// observer discards all messages.
func NewManager(observer Observer) *Manager {
	if observer == nil {
		observer = func(context.Context, *Message) {}
	}

	return &Manager{
		observer: observer,
	}
}

// OperationRunFunc is the body of a background operation.
type OperationRunFunc func(ctx context.Context, operation *Operation) error

// Run executes operationFunc as a background operation. The observer first
// receives StateInProgress, then every progress message the function reports,
// and finally StateSucceeded or StateFailed carrying the function's error.
// Run returns the function's error unchanged.
//
// A failed operation never escalates beyond its failure message; runtime
// dispatch failures surface here rather than through a global handler.
func (m *Manager) Run(ctx context.Context, operationMessage string, operationFunc OperationRunFunc) error {
	operation := &Operation{
		correlationId: uuid.New(),
		observer:      m.observer,
	}

	operation.send(ctx, operationMessage, StateInProgress, nil)

	err := operationFunc(ctx, operation)
	if err != nil {
		operation.send(ctx, err.Error(), StateFailed, err)
		return err
	}

	operation.send(ctx, operationMessage, StateSucceeded, nil)
	return nil
}
