// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package lazy

import (
	"context"
	"sync"
)

// InitializerFn loads the value of a Lazy on first use.
type InitializerFn[T any] func(ctx context.Context) (T, error)

// Lazy lazily loads an instance of the underlying type from the specified
// initializer. A failed initialization is retried on the next request;
// a successful one is cached until Invalidate is called.
type Lazy[T any] struct {
	initialized bool
	initializer InitializerFn[T]
	value       T
	mutex       sync.Mutex
}

// NewLazy creates a new Lazy[T]
func NewLazy[T any](initializerFn InitializerFn[T]) *Lazy[T] {
	return &Lazy[T]{
		initializer: initializerFn,
	}
}

// GetValue gets the value from the configured initializer.
// The initializer will only run once on success; concurrent callers block
// until the in-flight initialization completes.
func (l *Lazy[T]) GetValue(ctx context.Context) (T, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.initialized {
		return l.value, nil
	}

	value, err := l.initializer(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	l.value = value
	l.initialized = true

	return l.value, nil
}

// SetValue sets a value on the lazy type, bypassing the initializer.
func (l *Lazy[T]) SetValue(value T) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.value = value
	l.initialized = true
}

// Invalidate drops the cached value so the next GetValue reruns the initializer.
func (l *Lazy[T]) Invalidate() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	var zero T
	l.value = zero
	l.initialized = false
}
