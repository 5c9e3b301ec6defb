/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInMemoryBus_WithOptions(t *testing.T) {
	logger := logr.Discard()

	bus := NewInMemoryBus(
		WithLogger(logger),
		WithMiddleware(LoggingMiddleware(logger), RecoveryMiddleware(logger)),
	)

	assert.NotNil(t, bus)
	assert.Len(t, bus.middleware, 2)
}

func TestInMemoryBus_Subscribe_DuplicateName(t *testing.T) {
	bus := NewInMemoryBus()

	handler1 := func(ctx context.Context, event Event) error { return nil }
	handler2 := func(ctx context.Context, event Event) error { return nil }

	bus.Subscribe(EventReconciliationRequested, "sameHandler", handler1)
	bus.Subscribe(EventReconciliationRequested, "sameHandler", handler2)

	assert.Len(t, bus.Handlers(EventReconciliationRequested), 1, "Duplicate handler should be ignored")
}

func TestInMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryBus()

	handler := func(ctx context.Context, event Event) error { return nil }
	bus.Subscribe(EventReconciliationRequested, "first", handler)
	bus.Subscribe(EventReconciliationRequested, "second", handler)

	bus.Unsubscribe(EventReconciliationRequested, "first")
	handlers := bus.Handlers(EventReconciliationRequested)
	require.Len(t, handlers, 1)
	assert.Equal(t, "second", handlers[0].Name)

	bus.Unsubscribe("NonExistentEvent", "nonExistentHandler")
}

func TestInMemoryBus_Publish(t *testing.T) {
	bus := NewInMemoryBus()

	var received *ReconciliationRequested
	bus.Subscribe(EventReconciliationRequested, "capture", func(ctx context.Context, event Event) error {
		received = event.(*ReconciliationRequested)
		return nil
	})

	err := bus.Publish(context.Background(), NewReconciliationRequested("ADDED", "EntandoApp", "my-namespace", "my-app"))

	require.NoError(t, err)
	require.NotNil(t, received)
	assert.Equal(t, "EntandoApp", received.Kind)
	assert.Equal(t, "my-namespace/my-app", received.AggregateID())
	assert.Equal(t, "EntandoApp", received.AggregateType())
	assert.Equal(t, "ADDED", received.Action)
}

func TestInMemoryBus_Publish_NoHandlers(t *testing.T) {
	bus := NewInMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), NewReconciliationRequested("ADDED", "EntandoApp", "ns", "n")))
}

func TestInMemoryBus_Publish_HandlerErrorsAreJoined(t *testing.T) {
	bus := NewInMemoryBus()

	errFirst := errors.New("first failed")
	errSecond := errors.New("second failed")
	var calls atomic.Int32

	bus.Subscribe(EventReconciliationRequested, "first", func(ctx context.Context, event Event) error {
		calls.Add(1)
		return errFirst
	})
	bus.Subscribe(EventReconciliationRequested, "second", func(ctx context.Context, event Event) error {
		calls.Add(1)
		return errSecond
	})

	err := bus.Publish(context.Background(), NewReconciliationRequested("ADDED", "EntandoApp", "ns", "n"))

	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInMemoryBus_PublishAsync(t *testing.T) {
	bus := NewInMemoryBus()

	var mu sync.Mutex
	var names []string
	bus.Subscribe(EventReconciliationRequested, "collect", func(ctx context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, event.(*ReconciliationRequested).Name)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.PublishAsync(ctx, NewReconciliationRequested("ADDED", "ProvidedCapability", "ns", "a"))
	bus.PublishAsync(ctx, NewReconciliationRequested("ADDED", "ProvidedCapability", "ns", "b"))
	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestInMemoryBus_PublishAsync_IgnoresParentCancellation(t *testing.T) {
	bus := NewInMemoryBus()

	var ctxErr error
	bus.Subscribe(EventReconciliationRequested, "check", func(ctx context.Context, event Event) error {
		ctxErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.PublishAsync(ctx, NewReconciliationRequested("ADDED", "EntandoApp", "ns", "n"))
	bus.Wait()

	assert.NoError(t, ctxErr)
}
