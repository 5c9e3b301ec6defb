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

package app

import (
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// ReconciliationPredicate filters the events that start a reconciliation.
//
// Matching rules:
//   - Create → accept
//   - Update with a new generation → accept
//   - Update of an object without generation tracking whose spec changed → accept
//   - Update that sets or changes the reconciliation-requested annotation → accept
//   - Delete → reject, owner references remove what was deployed
//   - Generic → accept
//
// Status updates and the removal of the annotation by the controller itself
// are rejected.
type ReconciliationPredicate struct {
	predicate.Funcs
}

// NewReconciliationPredicate creates the reconciliation predicate.
func NewReconciliationPredicate() ReconciliationPredicate {
	return ReconciliationPredicate{}
}

func requestedAt(obj client.Object) string {
	if obj == nil {
		return ""
	}
	return obj.GetAnnotations()[entandov1alpha1.AnnotationReconciliationRequested]
}

// specChanged compares the declared state of two versions of the same
// resource. Unknown or mismatched types count as unchanged.
func specChanged(oldObj, newObj client.Object) bool {
	switch o := oldObj.(type) {
	case *entandov1alpha1.EntandoApp:
		n, ok := newObj.(*entandov1alpha1.EntandoApp)
		return ok && !o.SpecEquals(n)
	case *entandov1alpha1.EntandoPlugin:
		n, ok := newObj.(*entandov1alpha1.EntandoPlugin)
		return ok && !o.SpecEquals(n)
	case *entandov1alpha1.EntandoDatabaseService:
		n, ok := newObj.(*entandov1alpha1.EntandoDatabaseService)
		return ok && !o.SpecEquals(n)
	case *entandov1alpha1.EntandoKeycloakServer:
		n, ok := newObj.(*entandov1alpha1.EntandoKeycloakServer)
		return ok && !o.SpecEquals(n)
	case *entandov1alpha1.ProvidedCapability:
		n, ok := newObj.(*entandov1alpha1.ProvidedCapability)
		return ok && !o.SpecEquals(n)
	}
	return false
}

// Create filters create events.
func (p ReconciliationPredicate) Create(e event.CreateEvent) bool {
	return e.Object != nil
}

// Update filters update events.
func (p ReconciliationPredicate) Update(e event.UpdateEvent) bool {
	if e.ObjectOld == nil || e.ObjectNew == nil {
		return false
	}
	if e.ObjectNew.GetGeneration() != e.ObjectOld.GetGeneration() {
		return true
	}
	if e.ObjectNew.GetGeneration() == 0 && specChanged(e.ObjectOld, e.ObjectNew) {
		return true
	}
	requested := requestedAt(e.ObjectNew)
	return requested != "" && requested != requestedAt(e.ObjectOld)
}

// Delete filters delete events.
func (p ReconciliationPredicate) Delete(event.DeleteEvent) bool {
	return false
}

// Generic filters generic events.
func (p ReconciliationPredicate) Generic(e event.GenericEvent) bool {
	return e.Object != nil
}
