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

package providedcapability

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/kube"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// Handler contains the business logic of the capability controller.
type Handler struct {
	deps   *reconcile.Dependencies
	now    func() time.Time
	logger logr.Logger
}

// HandlerConfig holds dependencies for the handler.
type HandlerConfig struct {
	Dependencies *reconcile.Dependencies
	Logger       logr.Logger
}

// NewHandler creates a new capability handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{deps: cfg.Dependencies, now: time.Now, logger: cfg.Logger}
}

// Run makes sure the backing resource of the capability named by rc exists
// and is reconciled, waits for it and copies its outcome into the main
// server status of the capability. A failed backing resource fails the
// capability with the same failure record.
// Implements API.Run
func (h *Handler) Run(ctx context.Context, rc *config.ReconciliationContext) error {
	log := logf.FromContext(ctx).WithValues("providedcapability", rc.Key())

	pc := &entandov1alpha1.ProvidedCapability{}
	if err := h.deps.Client.Get(ctx, rc.Key(), pc); err != nil {
		if apierrors.IsNotFound(err) {
			log.Info("Capability no longer exists")
			return nil
		}
		return err
	}
	if err := h.deps.Status.DeploymentStarted(ctx, pc); err != nil {
		return err
	}

	b, err := backingFor(pc)
	if err != nil {
		return h.deps.Fail(ctx, pc, err, entandov1alpha1.QualifierMain)
	}
	if err := h.ensureBacking(ctx, log, pc, b); err != nil {
		return h.deps.Fail(ctx, pc, err, entandov1alpha1.QualifierMain)
	}

	timeout := rc.Config().CapabilityTimeout()
	if err := h.waitForBacking(ctx, b, timeout); err != nil {
		err = failure.AsTimeout(err, fmt.Sprintf("completion of %s %s/%s", b.kind, pc.Namespace, pc.Name), timeout)
		if failure.IsTimeout(err) && !b.obj.GetEntandoStatus().Phase.IsTerminal() {
			return h.failBoth(ctx, pc, b, err)
		}
		return h.deps.Fail(ctx, pc, err, entandov1alpha1.QualifierMain)
	}

	st := b.obj.GetEntandoStatus()
	if st.Phase == entandov1alpha1.PhaseFailed {
		f := st.FirstFailure()
		if f == nil {
			return h.deps.Fail(ctx, pc, failure.NewControllerError("%s %s/%s failed", b.kind, pc.Namespace, pc.Name),
				entandov1alpha1.QualifierMain)
		}
		if err := h.deps.Status.RecordFailure(ctx, pc, entandov1alpha1.QualifierMain, f); err != nil {
			return err
		}
		return failure.FromStatus(f)
	}

	ss, ok := st.ForQualifier(b.qualifier)
	if !ok {
		return h.deps.Fail(ctx, pc, failure.NewControllerError("%s %s/%s reported no %s status", b.kind, pc.Namespace, pc.Name, b.qualifier),
			entandov1alpha1.QualifierMain)
	}
	ss.Qualifier = entandov1alpha1.QualifierMain
	ss.Type = entandov1alpha1.ServerStatusCapability
	ss.OriginatingControllerPod = ""
	ss.Started, ss.Finished = nil, nil
	if err := h.deps.Status.UpdateServerStatus(ctx, pc, ss); err != nil {
		return err
	}
	return h.deps.Finish(ctx, pc, entandov1alpha1.QualifierMain)
}

// failBoth records one failure on the capability and its backing resource.
func (h *Handler) failBoth(ctx context.Context, pc *entandov1alpha1.ProvidedCapability, b *backing, err error) error {
	f := failure.ToStatus(err, failure.Object{
		GVK:       entandov1alpha1.GroupVersion.WithKind(entandov1alpha1.KindProvidedCapability),
		Namespace: pc.Namespace,
		Name:      pc.Name,
	})
	log := logf.FromContext(ctx)
	if statusErr := h.deps.Status.RecordFailure(ctx, b.obj, b.qualifier, f); statusErr != nil {
		log.Error(statusErr, "Failed to record failure", "kind", b.kind)
	}
	if statusErr := h.deps.Status.RecordFailure(ctx, pc, entandov1alpha1.QualifierMain, f); statusErr != nil {
		log.Error(statusErr, "Failed to record failure", "qualifier", entandov1alpha1.QualifierMain)
	}
	return err
}

// ensureBacking creates or updates the backing resource and triggers its
// controller when it is new, changed or not successful.
func (h *Handler) ensureBacking(ctx context.Context, log logr.Logger, pc *entandov1alpha1.ProvidedCapability, b *backing) error {
	op, err := controllerutil.CreateOrUpdate(ctx, h.deps.Client, b.obj, func() error {
		b.apply()
		return controllerutil.SetControllerReference(pc, b.obj, h.deps.Scheme)
	})
	if err != nil {
		return fmt.Errorf("ensure %s %s/%s: %w", b.kind, pc.Namespace, pc.Name, err)
	}
	if op == controllerutil.OperationResultNone && b.obj.GetEntandoStatus().Phase == entandov1alpha1.PhaseSuccessful {
		log.V(1).Info("Reusing backing resource", "kind", b.kind)
		return nil
	}

	log.Info("Requesting reconciliation of backing resource", "kind", b.kind, "operation", op)
	if err := h.deps.Status.Requested(ctx, b.obj); err != nil {
		return err
	}
	if h.deps.Bus != nil {
		h.deps.RequestReconciliation(ctx, b.kind, b.obj)
		return nil
	}
	if op != controllerutil.OperationResultNone {
		// Watches pick up new and changed resources.
		return nil
	}
	return h.annotate(ctx, b.obj)
}

// annotate asks the manager to reconcile obj again.
func (h *Handler) annotate(ctx context.Context, obj entandov1alpha1.EntandoResource) error {
	patch := client.MergeFrom(obj.DeepCopyObject().(client.Object))
	annotations := obj.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	annotations[entandov1alpha1.AnnotationReconciliationRequested] = h.now().UTC().Format(time.RFC3339Nano)
	obj.SetAnnotations(annotations)
	return h.deps.Client.Patch(ctx, obj, patch)
}

// waitForBacking polls the backing resource until it reaches a terminal phase.
func (h *Handler) waitForBacking(ctx context.Context, b *backing, timeout time.Duration) error {
	key := client.ObjectKeyFromObject(b.obj)
	return kube.Poll(ctx, h.deps.Config.PollInterval, timeout, func(ctx context.Context) (bool, error) {
		if err := h.deps.Client.Get(ctx, key, b.obj); err != nil {
			return false, client.IgnoreNotFound(err)
		}
		return b.obj.GetEntandoStatus().Phase.IsTerminal(), nil
	})
}

var _ API = (*Handler)(nil)
