// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBracketsSuccess(t *testing.T) {
	var received []*Message
	manager := NewManager(func(ctx context.Context, msg *Message) {
		received = append(received, msg)
	})

	err := manager.Run(context.Background(), "Deploying SQL Server", func(ctx context.Context, op *Operation) error {
		op.Progress(ctx, "Downloading installer", StateDownloading)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, received, 3)
	assert.Equal(t, StateInProgress, received[0].State)
	assert.Equal(t, "Deploying SQL Server", received[0].Message)
	assert.Equal(t, StateDownloading, received[1].State)
	assert.Equal(t, StateSucceeded, received[2].State)

	for _, msg := range received[1:] {
		assert.Equal(t, received[0].CorrelationId, msg.CorrelationId)
	}
}

func TestRunBracketsFailure(t *testing.T) {
	var received []*Message
	manager := NewManager(func(ctx context.Context, msg *Message) {
		received = append(received, msg)
	})

	runErr := errors.New("download interrupted")
	err := manager.Run(context.Background(), "Deploying SQL Server", func(ctx context.Context, op *Operation) error {
		return runErr
	})
	require.ErrorIs(t, err, runErr)

	require.Len(t, received, 2)
	final := received[1]
	assert.Equal(t, StateFailed, final.State)
	assert.Equal(t, runErr.Error(), final.Message)
	assert.Equal(t, runErr, final.Err)
}

func TestRunDistinctCorrelationIds(t *testing.T) {
	var received []*Message
	manager := NewManager(func(ctx context.Context, msg *Message) {
		received = append(received, msg)
	})

	noop := func(ctx context.Context, op *Operation) error { return nil }
	require.NoError(t, manager.Run(context.Background(), "first", noop))
	require.NoError(t, manager.Run(context.Background(), "second", noop))

	require.Len(t, received, 4)
	assert.NotEqual(t, received[0].CorrelationId, received[2].CorrelationId)
}

func TestNilObserverDiscards(t *testing.T) {
	manager := NewManager(nil)

	err := manager.Run(context.Background(), "quiet", func(ctx context.Context, op *Operation) error {
		op.Progress(ctx, "working", StateInProgress)
		return nil
	})
	require.NoError(t, err)
}
