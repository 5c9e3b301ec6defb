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

// Package eventbus is the in-process channel through which controllers ask
// each other for reconciliations.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Event is something that happened to, or is wanted for, a resource.
type Event interface {
	// EventName returns the unique name identifying this event type.
	EventName() string

	// EventTime returns when the event occurred.
	EventTime() time.Time

	// AggregateID returns the namespace/name of the resource concerned.
	AggregateID() string

	// AggregateType returns the kind of the resource concerned.
	AggregateType() string
}

// Handler processes events of a specific type.
// Handlers must be idempotent; a reconciliation may be requested twice.
type Handler func(ctx context.Context, event Event) error

// HandlerInfo contains metadata about a registered handler.
type HandlerInfo struct {
	Name    string
	Handler Handler
}

// Bus manages event publishing and subscriptions.
type Bus interface {
	// Publish runs every handler for the event and joins their errors.
	Publish(ctx context.Context, event Event) error

	// PublishAsync runs the handlers on a separate goroutine. The goroutine
	// keeps the values of ctx but not its cancellation. Errors are logged.
	PublishAsync(ctx context.Context, event Event)

	// Subscribe registers a named handler for a specific event type.
	Subscribe(eventName string, handlerName string, handler Handler)

	// Unsubscribe removes a handler by name from a specific event type.
	Unsubscribe(eventName string, handlerName string)

	// Handlers returns all registered handlers for an event type.
	Handlers(eventName string) []HandlerInfo
}

// InMemoryBus is an in-process Bus.
type InMemoryBus struct {
	mu         sync.RWMutex
	handlers   map[string][]HandlerInfo
	logger     logr.Logger
	middleware []Middleware
	inflight   sync.WaitGroup
}

// BusOption configures the InMemoryBus.
type BusOption func(*InMemoryBus)

// WithLogger sets the logger for the bus.
func WithLogger(logger logr.Logger) BusOption {
	return func(b *InMemoryBus) {
		b.logger = logger
	}
}

// WithMiddleware adds middleware to the bus.
func WithMiddleware(middleware ...Middleware) BusOption {
	return func(b *InMemoryBus) {
		b.middleware = append(b.middleware, middleware...)
	}
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(opts ...BusOption) *InMemoryBus {
	bus := &InMemoryBus{
		handlers: make(map[string][]HandlerInfo),
		logger:   logr.Discard(),
	}

	for _, opt := range opts {
		opt(bus)
	}

	return bus
}

// Publish sends an event to all registered handlers.
// All handlers run even if some fail.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) error {
	handlers := b.Handlers(event.EventName())

	if len(handlers) == 0 {
		b.logger.V(1).Info("No handlers registered for event",
			"event", event.EventName(),
			"aggregate", event.AggregateID())
		return nil
	}

	publish := b.buildMiddlewareChain(b.executeHandlers)
	return publish(ctx, event, handlers)
}

func (b *InMemoryBus) executeHandlers(ctx context.Context, event Event, handlers []HandlerInfo) error {
	var errs []error

	for _, hi := range handlers {
		start := time.Now()

		if err := hi.Handler(ctx, event); err != nil {
			b.logger.Error(err, "Handler failed",
				"event", event.EventName(),
				"aggregate", event.AggregateID(),
				"handler", hi.Name,
				"duration", time.Since(start))
			errs = append(errs, fmt.Errorf("handler %s: %w", hi.Name, err))
			continue
		}
		b.logger.V(2).Info("Handler completed",
			"event", event.EventName(),
			"handler", hi.Name,
			"duration", time.Since(start))
	}

	return errors.Join(errs...)
}

// buildMiddlewareChain wraps final so the first middleware runs outermost.
func (b *InMemoryBus) buildMiddlewareChain(final PublishFunc) PublishFunc {
	chain := final
	for i := len(b.middleware) - 1; i >= 0; i-- {
		chain = b.middleware[i](chain)
	}
	return chain
}

// PublishAsync sends an event asynchronously.
func (b *InMemoryBus) PublishAsync(ctx context.Context, event Event) {
	asyncCtx := context.WithoutCancel(ctx)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		if err := b.Publish(asyncCtx, event); err != nil {
			b.logger.Error(err, "Async event publish failed",
				"event", event.EventName(),
				"aggregate", event.AggregateID())
		}
	}()
}

// Wait blocks until every event published with PublishAsync was handled.
func (b *InMemoryBus) Wait() {
	b.inflight.Wait()
}

// Subscribe registers a handler for an event type.
// A second handler with the same name is ignored.
func (b *InMemoryBus) Subscribe(eventName string, handlerName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, hi := range b.handlers[eventName] {
		if hi.Name == handlerName {
			b.logger.Info("Handler already registered, skipping",
				"event", eventName,
				"handler", handlerName)
			return
		}
	}

	b.handlers[eventName] = append(b.handlers[eventName], HandlerInfo{
		Name:    handlerName,
		Handler: handler,
	})

	b.logger.V(1).Info("Handler subscribed",
		"event", eventName,
		"handler", handlerName)
}

// Unsubscribe removes a handler by name.
func (b *InMemoryBus) Unsubscribe(eventName string, handlerName string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventName]
	for i, hi := range handlers {
		if hi.Name == handlerName {
			b.handlers[eventName] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// Handlers returns a snapshot of the handlers registered for an event type.
func (b *InMemoryBus) Handlers(eventName string) []HandlerInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]HandlerInfo, len(b.handlers[eventName]))
	copy(handlers, b.handlers[eventName])
	return handlers
}

var _ Bus = (*InMemoryBus)(nil)
