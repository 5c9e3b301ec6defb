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

package logging

import (
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

// ControllerBuilder wraps controller-runtime's builder so that every Entando
// controller gets the same reconciler middleware.
//
// Usage:
//
//	return logging.BuildController(mgr).
//	    For(&entandov1alpha1.EntandoApp{}).
//	    Named("entandoapp").
//	    Complete(r)
type ControllerBuilder struct {
	mgr        ctrl.Manager
	obj        client.Object
	name       string
	predicates []predicate.Predicate
}

// BuildController creates a builder that auto-applies all standard middleware.
func BuildController(mgr ctrl.Manager) *ControllerBuilder {
	return &ControllerBuilder{mgr: mgr}
}

// For sets the primary resource this controller reconciles.
func (b *ControllerBuilder) For(obj client.Object) *ControllerBuilder {
	b.obj = obj
	return b
}

// Named sets the controller name used for logging and metrics.
func (b *ControllerBuilder) Named(name string) *ControllerBuilder {
	b.name = name
	return b
}

// WithEventFilter adds an event predicate that filters which events trigger reconciliation.
func (b *ControllerBuilder) WithEventFilter(p predicate.Predicate) *ControllerBuilder {
	b.predicates = append(b.predicates, p)
	return b
}

// Complete registers the controller. Each reconciliation runs with a fresh
// reconcile ID and the controller name attached to its logger.
func (b *ControllerBuilder) Complete(r reconcile.Reconciler) error {
	builder := ctrl.NewControllerManagedBy(b.mgr).
		For(b.obj).
		Named(b.name)
	for _, p := range b.predicates {
		builder = builder.WithEventFilter(p)
	}
	return builder.Complete(&withReconcileID{inner: r})
}
