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
	"time"
)

// Event names.
const (
	// EventReconciliationRequested asks the controller of a resource to run.
	EventReconciliationRequested = "ReconciliationRequested"

	// EventReconciliationCompleted reports the outcome of a reconciliation.
	EventReconciliationCompleted = "ReconciliationCompleted"
)

// BaseEvent provides common event fields.
// Embed this struct in concrete event types.
type BaseEvent struct {
	name          string
	timestamp     time.Time
	aggregateID   string
	aggregateType string
}

// NewBaseEvent creates a new base event with current timestamp.
func NewBaseEvent(name, aggregateID, aggregateType string) BaseEvent {
	return BaseEvent{
		name:          name,
		timestamp:     time.Now(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
	}
}

func (e BaseEvent) EventName() string     { return e.name }
func (e BaseEvent) EventTime() time.Time  { return e.timestamp }
func (e BaseEvent) AggregateID() string   { return e.aggregateID }
func (e BaseEvent) AggregateType() string { return e.aggregateType }

// ReconciliationRequested is published to have a resource reconciled.
type ReconciliationRequested struct {
	BaseEvent
	Action    string
	Kind      string
	Namespace string
	Name      string
}

// NewReconciliationRequested creates a new ReconciliationRequested event.
func NewReconciliationRequested(action, kind, namespace, name string) *ReconciliationRequested {
	return &ReconciliationRequested{
		BaseEvent: NewBaseEvent(EventReconciliationRequested, namespace+"/"+name, kind),
		Action:    action,
		Kind:      kind,
		Namespace: namespace,
		Name:      name,
	}
}

// ReconciliationCompleted is published once a reconciliation finished.
type ReconciliationCompleted struct {
	BaseEvent
	Kind      string
	Namespace string
	Name      string
	Phase     string
	Duration  time.Duration
	Err       error
}

// NewReconciliationCompleted creates a new ReconciliationCompleted event.
func NewReconciliationCompleted(kind, namespace, name, phase string, duration time.Duration, err error) *ReconciliationCompleted {
	return &ReconciliationCompleted{
		BaseEvent: NewBaseEvent(EventReconciliationCompleted, namespace+"/"+name, kind),
		Kind:      kind,
		Namespace: namespace,
		Name:      name,
		Phase:     phase,
		Duration:  duration,
		Err:       err,
	}
}
