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

// Package capability resolves the shared services (DBMS, SSO) that Entando
// resources depend on. Capabilities are located or created as
// ProvidedCapability resources, whose own controller provisions them.
package capability

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/kube"
	"github.com/entando-k8s-operator/internal/metrics"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/status"
)

// Provider locates or creates ProvidedCapabilities and waits for them.
type Provider struct {
	client   client.Client
	bus      eventbus.Bus
	status   *status.Updater
	interval time.Duration
	flight   singleflight.Group
}

// NewProvider creates a Provider that requests reconciliations on bus.
func NewProvider(c client.Client, bus eventbus.Bus, updater *status.Updater, pollInterval time.Duration) *Provider {
	return &Provider{client: c, bus: bus, status: updater, interval: pollInterval}
}

// ProvideCapability returns a capability satisfying req once it reached a
// terminal phase. An existing capability that has not failed is reused; a
// failed one is retried. Failures are returned as *failure.ControllerError
// and expired waits as *failure.TimeoutError.
func (p *Provider) ProvideCapability(ctx context.Context, requester entandov1alpha1.EntandoResource, req entandov1alpha1.CapabilityRequirement, timeout time.Duration) (*entandov1alpha1.ProvidedCapability, error) {
	req = *req.DeepCopy()
	if req.Implementation == "" {
		req.Implementation = DefaultImplementation(req.Capability)
	}
	capName := kindName(req.Capability)

	key, err := p.resolve(ctx, requester, req)
	if err != nil {
		metrics.RecordCapabilityRequest(capName, metrics.OutcomeRejected)
		return nil, err
	}

	// Concurrent requests for one capability share a single provisioning.
	// It outlives the caller that started it; every caller stops waiting
	// when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := p.flight.DoChan(key.String(), func() (any, error) {
		return p.provide(shared, key, req, timeout)
	})
	select {
	case <-ctx.Done():
		return nil, failure.AsTimeout(ctx.Err(), "completion of capability "+key.String(), timeout)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entandov1alpha1.ProvidedCapability).DeepCopy(), nil
	}
}

func (p *Provider) provide(ctx context.Context, key types.NamespacedName, req entandov1alpha1.CapabilityRequirement, timeout time.Duration) (*entandov1alpha1.ProvidedCapability, error) {
	log := logf.FromContext(ctx).WithValues("capability", key.String())
	capName := kindName(req.Capability)

	capability, outcome, err := p.ensure(ctx, key, req)
	if err != nil {
		metrics.RecordCapabilityRequest(capName, metrics.OutcomeFailed)
		return nil, err
	}
	if outcome != metrics.OutcomeReused && p.bus != nil {
		log.Info("Requesting capability provisioning", "outcome", outcome)
		p.bus.PublishAsync(ctx, eventbus.NewReconciliationRequested(
			string(config.ActionAdded), entandov1alpha1.KindProvidedCapability, capability.Namespace, capability.Name))
	}

	result, err := p.WaitForCapabilityCompletion(ctx, key, timeout)
	if err != nil {
		if failure.IsTimeout(err) {
			metrics.RecordCapabilityRequest(capName, metrics.OutcomeTimedOut)
			if failErr := p.failExpired(ctx, capability, err); failErr != nil {
				log.Error(failErr, "Failed to record capability timeout")
			}
		} else {
			metrics.RecordCapabilityRequest(capName, metrics.OutcomeFailed)
		}
		return nil, err
	}
	if result.Status.Phase == entandov1alpha1.PhaseFailed {
		metrics.RecordCapabilityRequest(capName, metrics.OutcomeFailed)
		if f := result.Status.FirstFailure(); f != nil {
			return nil, failure.FromStatus(f)
		}
		return nil, failure.NewControllerError("capability %s failed", key)
	}
	metrics.RecordCapabilityRequest(capName, outcome)
	return result, nil
}

// ensure returns the capability at key, creating it when absent and
// re-requesting it when it failed before.
func (p *Provider) ensure(ctx context.Context, key types.NamespacedName, req entandov1alpha1.CapabilityRequirement) (*entandov1alpha1.ProvidedCapability, string, error) {
	existing := &entandov1alpha1.ProvidedCapability{}
	err := p.client.Get(ctx, key, existing)
	switch {
	case apierrors.IsNotFound(err):
		capability := newCapability(key, req)
		err := p.client.Create(ctx, capability)
		if err == nil {
			return capability, metrics.OutcomeCreated, nil
		}
		if !apierrors.IsAlreadyExists(err) {
			return nil, "", fmt.Errorf("create capability %s: %w", key, err)
		}
		// Lost a creation race with another requester; use theirs.
		if err := p.client.Get(ctx, key, existing); err != nil {
			return nil, "", fmt.Errorf("get capability %s: %w", key, err)
		}
	case err != nil:
		return nil, "", fmt.Errorf("get capability %s: %w", key, err)
	}

	if !existing.Status.HasFailed() {
		return existing, metrics.OutcomeReused, nil
	}

	// Reset the status before touching the object so that a watch-triggered
	// run cannot finish before waiters see the capability in flight.
	if err := p.status.Requested(ctx, existing); err != nil {
		return nil, "", err
	}
	existing.Spec = newCapability(key, req).Spec
	if existing.Annotations == nil {
		existing.Annotations = map[string]string{}
	}
	existing.Annotations[entandov1alpha1.AnnotationReconciliationRequested] = time.Now().UTC().Format(time.RFC3339Nano)
	if err := p.client.Update(ctx, existing); err != nil {
		return nil, "", fmt.Errorf("update capability %s: %w", key, err)
	}
	return existing, metrics.OutcomeRetried, nil
}

// failExpired fails a capability that did not complete in time, together
// with its backing resource, using one failure record. The next request
// for the capability then re-requests it instead of waiting again.
func (p *Provider) failExpired(ctx context.Context, capability *entandov1alpha1.ProvidedCapability, err error) error {
	if getErr := p.client.Get(ctx, client.ObjectKeyFromObject(capability), capability); getErr != nil {
		return client.IgnoreNotFound(getErr)
	}
	if capability.Status.Phase.IsTerminal() {
		return nil
	}
	f := failure.ToStatus(err, failure.Object{
		GVK:       entandov1alpha1.GroupVersion.WithKind(entandov1alpha1.KindProvidedCapability),
		Namespace: capability.Namespace,
		Name:      capability.Name,
	})
	if err := p.status.RecordFailure(ctx, capability, entandov1alpha1.QualifierMain, f); err != nil {
		return fmt.Errorf("fail capability %s/%s: %w", capability.Namespace, capability.Name, err)
	}

	backing, qualifier, ok := backingOf(capability)
	if !ok {
		return nil
	}
	if err := p.client.Get(ctx, client.ObjectKeyFromObject(capability), backing); err != nil {
		return client.IgnoreNotFound(err)
	}
	if backing.GetEntandoStatus().Phase.IsTerminal() {
		return nil
	}
	if err := p.status.RecordFailure(ctx, backing, qualifier, f); err != nil {
		return fmt.Errorf("fail backing resource of %s/%s: %w", capability.Namespace, capability.Name, err)
	}
	return nil
}

// backingOf returns an empty object of the kind that backs capability,
// named like it, and the qualifier under which that kind reports.
func backingOf(capability *entandov1alpha1.ProvidedCapability) (entandov1alpha1.EntandoResource, string, bool) {
	switch capability.Spec.Capability {
	case entandov1alpha1.CapabilityDBMS:
		return &entandov1alpha1.EntandoDatabaseService{}, entandov1alpha1.QualifierMain, true
	case entandov1alpha1.CapabilitySSO:
		return &entandov1alpha1.EntandoKeycloakServer{}, entandov1alpha1.QualifierServer, true
	}
	return nil, "", false
}

func newCapability(key types.NamespacedName, req entandov1alpha1.CapabilityRequirement) *entandov1alpha1.ProvidedCapability {
	labels := Labels(req)
	if req.Scope() == entandov1alpha1.ScopeLabeled {
		labels = kube.MergeLabels(req.Selector, labels)
	}
	return &entandov1alpha1.ProvidedCapability{
		ObjectMeta: metav1.ObjectMeta{
			Name:      key.Name,
			Namespace: key.Namespace,
			Labels:    labels,
		},
		Spec: entandov1alpha1.ProvidedCapabilitySpec{CapabilityRequirement: req},
	}
}

// WaitForCapabilityCompletion polls the capability at key until its phase is terminal.
func (p *Provider) WaitForCapabilityCompletion(ctx context.Context, key types.NamespacedName, timeout time.Duration) (*entandov1alpha1.ProvidedCapability, error) {
	capability := &entandov1alpha1.ProvidedCapability{}
	err := kube.Poll(ctx, p.interval, timeout, func(ctx context.Context) (bool, error) {
		if err := p.client.Get(ctx, key, capability); err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return capability.Status.Phase.IsTerminal(), nil
	})
	if err != nil {
		return nil, failure.AsTimeout(err, "completion of capability "+key.String(), timeout)
	}
	return capability, nil
}
