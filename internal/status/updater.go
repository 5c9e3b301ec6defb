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

// Package status writes per-qualifier server statuses back to Entando
// resources. Every write reloads the resource first so concurrent writers
// are never clobbered.
package status

import (
	"context"
	"fmt"
	"slices"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/failure"
)

// Updater performs reload-modify-write updates of the status subresource.
type Updater struct {
	client        client.Client
	scheme        *runtime.Scheme
	controllerPod string
	now           func() time.Time
}

// NewUpdater creates an Updater that stamps statuses with controllerPod.
func NewUpdater(c client.Client, scheme *runtime.Scheme, controllerPod string) *Updater {
	return &Updater{client: c, scheme: scheme, controllerPod: controllerPod, now: time.Now}
}

// Reload refreshes obj from the cluster.
func (u *Updater) Reload(ctx context.Context, obj entandov1alpha1.EntandoResource) error {
	return u.client.Get(ctx, client.ObjectKeyFromObject(obj), obj)
}

// mutate applies fn to the latest stored status and writes it back, retrying
// on conflicts. On success obj carries the written status.
func (u *Updater) mutate(ctx context.Context, obj entandov1alpha1.EntandoResource, fn func(latest entandov1alpha1.EntandoResource)) error {
	var written entandov1alpha1.EntandoResource
	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		latest, ok := obj.DeepCopyObject().(entandov1alpha1.EntandoResource)
		if !ok {
			return fmt.Errorf("unsupported resource type %T", obj)
		}
		if err := u.client.Get(ctx, client.ObjectKeyFromObject(obj), latest); err != nil {
			return err
		}
		fn(latest)
		if err := u.client.Status().Update(ctx, latest); err != nil {
			return err
		}
		written = latest
		return nil
	})
	if err != nil {
		return fmt.Errorf("update status of %s/%s: %w", obj.GetNamespace(), obj.GetName(), err)
	}
	*obj.GetEntandoStatus() = *written.GetEntandoStatus().DeepCopy()
	obj.SetResourceVersion(written.GetResourceVersion())
	return nil
}

func (u *Updater) timestamp() *metav1.Time {
	t := metav1.NewTime(u.now().Truncate(time.Second))
	return &t
}

// DeploymentStarted marks the resource STARTED for its current generation.
// Failures of an earlier run are dropped.
func (u *Updater) DeploymentStarted(ctx context.Context, obj entandov1alpha1.EntandoResource) error {
	return u.mutate(ctx, obj, func(latest entandov1alpha1.EntandoResource) {
		st := latest.GetEntandoStatus()
		st.Phase = entandov1alpha1.PhaseStarted
		st.ObservedGeneration = latest.GetGeneration()
		dropFailed(st)
	})
}

// Requested puts the resource back to REQUESTED so that waiters block until
// a new run finishes.
func (u *Updater) Requested(ctx context.Context, obj entandov1alpha1.EntandoResource) error {
	return u.mutate(ctx, obj, func(latest entandov1alpha1.EntandoResource) {
		st := latest.GetEntandoStatus()
		st.Phase = entandov1alpha1.PhaseRequested
		dropFailed(st)
	})
}

func dropFailed(st *entandov1alpha1.EntandoStatus) {
	st.ServerStatuses = slices.DeleteFunc(st.ServerStatuses, func(ss entandov1alpha1.ServerStatus) bool {
		return ss.HasFailed()
	})
}

// UpdatePhase sets the overall phase.
func (u *Updater) UpdatePhase(ctx context.Context, obj entandov1alpha1.EntandoResource, phase entandov1alpha1.EntandoDeploymentPhase) error {
	return u.mutate(ctx, obj, func(latest entandov1alpha1.EntandoResource) {
		latest.GetEntandoStatus().Phase = phase
	})
}

// UpdateServerStatus stores ss, replacing any status with the same qualifier.
// A failed server status also fails the resource.
func (u *Updater) UpdateServerStatus(ctx context.Context, obj entandov1alpha1.EntandoResource, ss entandov1alpha1.ServerStatus) error {
	ss = *ss.DeepCopy()
	if ss.OriginatingControllerPod == "" {
		ss.OriginatingControllerPod = u.controllerPod
	}
	if ss.Phase.IsTerminal() && ss.Finished == nil {
		ss.Finished = u.timestamp()
	}
	return u.mutate(ctx, obj, func(latest entandov1alpha1.EntandoResource) {
		st := latest.GetEntandoStatus()
		if previous, ok := st.ForQualifier(ss.Qualifier); ok && ss.Started == nil {
			ss.Started = previous.Started
		}
		if ss.Started == nil {
			ss.Started = u.timestamp()
		}
		st.PutServerStatus(ss)
		if ss.HasFailed() {
			st.Phase = entandov1alpha1.PhaseFailed
		}
	})
}

// DeploymentFailed records err against qualifier and fails the resource.
func (u *Updater) DeploymentFailed(ctx context.Context, obj entandov1alpha1.EntandoResource, err error, qualifier string) error {
	gvk, gvkErr := apiutil.GVKForObject(obj, u.scheme)
	if gvkErr != nil {
		return fmt.Errorf("resolve kind of %T: %w", obj, gvkErr)
	}
	return u.RecordFailure(ctx, obj, qualifier, failure.ToStatus(err, failure.Object{
		GVK:       gvk,
		Namespace: obj.GetNamespace(),
		Name:      obj.GetName(),
	}))
}

// RecordFailure stores an existing failure record against qualifier and fails the resource.
func (u *Updater) RecordFailure(ctx context.Context, obj entandov1alpha1.EntandoResource, qualifier string, f *entandov1alpha1.EntandoControllerFailure) error {
	finished := u.timestamp()
	return u.mutate(ctx, obj, func(latest entandov1alpha1.EntandoResource) {
		st := latest.GetEntandoStatus()
		ss, ok := st.ForQualifier(qualifier)
		if !ok {
			ss = entandov1alpha1.ServerStatus{Qualifier: qualifier, Started: finished}
		}
		ss.Phase = entandov1alpha1.PhaseFailed
		ss.EntandoControllerFailure = f.DeepCopy()
		ss.OriginatingControllerPod = u.controllerPod
		ss.Finished = finished
		st.PutServerStatus(ss)
		st.Phase = entandov1alpha1.PhaseFailed
	})
}

// Finalize sets the overall phase from the server statuses, given the
// qualifiers that must be present, and returns it.
func (u *Updater) Finalize(ctx context.Context, obj entandov1alpha1.EntandoResource, required ...string) (entandov1alpha1.EntandoDeploymentPhase, error) {
	var phase entandov1alpha1.EntandoDeploymentPhase
	err := u.mutate(ctx, obj, func(latest entandov1alpha1.EntandoResource) {
		st := latest.GetEntandoStatus()
		phase = st.AggregatePhase(required...)
		st.Phase = phase
	})
	return phase, err
}
