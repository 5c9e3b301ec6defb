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

package reconcile

import (
	"context"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/reconcileutil"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
)

// OnKind returns a bus handler that dispatches the reconciliation requests
// published for kind.
func OnKind(kind string, dispatcher Dispatcher) eventbus.Handler {
	return func(ctx context.Context, e eventbus.Event) error {
		event, ok := e.(*eventbus.ReconciliationRequested)
		if !ok || event.Kind != kind {
			return nil
		}
		action, err := config.ParseAction(event.Action)
		if err != nil {
			return err
		}
		return dispatcher.Handle(ctx, config.ResourceIdentity{
			Action:    action,
			Kind:      kind,
			Namespace: event.Namespace,
			Name:      event.Name,
		})
	}
}

// UpToDate reports whether obj was reconciled successfully for its current
// generation and nobody asked for another pass.
func UpToDate(obj entandov1alpha1.EntandoResource) bool {
	st := obj.GetEntandoStatus()
	if _, requested := obj.GetAnnotations()[entandov1alpha1.AnnotationReconciliationRequested]; requested {
		return false
	}
	return st.Phase == entandov1alpha1.PhaseSuccessful && st.ObservedGeneration == obj.GetGeneration()
}

// Reconcile is the manager-mode entry point shared by every kind: it loads
// obj, consumes a pending reconciliation request annotation and dispatches
// the resource unless it is up to date.
func Reconcile(ctx context.Context, c client.Client, dispatcher Dispatcher, kind string,
	obj entandov1alpha1.EntandoResource, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx).WithValues("kind", kind, "resource", req.NamespacedName)

	if err := c.Get(ctx, req.NamespacedName, obj); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}
	if !obj.GetDeletionTimestamp().IsZero() {
		return ctrl.Result{}, nil
	}
	if UpToDate(obj) {
		log.V(1).Info("Resource is up to date")
		return ctrl.Result{}, nil
	}
	if err := clearRequest(ctx, c, obj); err != nil {
		return ctrl.Result{}, err
	}

	action := config.ActionModified
	if obj.GetEntandoStatus().ObservedGeneration == 0 {
		action = config.ActionAdded
	}
	err := dispatcher.Handle(ctx, config.ResourceIdentity{
		Action:    action,
		Kind:      kind,
		Namespace: req.Namespace,
		Name:      req.Name,
	})
	return reconcileutil.ClassifyRequeue(err)
}

func clearRequest(ctx context.Context, c client.Client, obj entandov1alpha1.EntandoResource) error {
	if _, ok := obj.GetAnnotations()[entandov1alpha1.AnnotationReconciliationRequested]; !ok {
		return nil
	}
	patch := client.MergeFrom(obj.DeepCopyObject().(client.Object))
	annotations := obj.GetAnnotations()
	delete(annotations, entandov1alpha1.AnnotationReconciliationRequested)
	obj.SetAnnotations(annotations)
	return client.IgnoreNotFound(c.Patch(ctx, obj, patch))
}
