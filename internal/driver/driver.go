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

// Package driver turns a reconciliation request into one run of the
// controller of the requested kind.
package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/logging"
	"github.com/entando-k8s-operator/internal/metrics"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
	"github.com/entando-k8s-operator/internal/status"
)

// Driver dispatches reconciliation requests to the controller registered for
// their kind.
type Driver struct {
	client        client.Client
	status        *status.Updater
	cfg           config.OperatorConfig
	controllerPod string
	bus           eventbus.Bus

	mu      sync.RWMutex
	runners map[string]reconcile.Runner
}

// New creates a Driver. bus may be nil; when set, a ReconciliationCompleted
// event is published after every run.
func New(c client.Client, updater *status.Updater, cfg config.OperatorConfig, controllerPod string, bus eventbus.Bus) *Driver {
	return &Driver{
		client:        c,
		status:        updater,
		cfg:           cfg,
		controllerPod: controllerPod,
		bus:           bus,
		runners:       map[string]reconcile.Runner{},
	}
}

// Register makes runner the controller of kind.
func (d *Driver) Register(kind string, runner reconcile.Runner) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.runners[kind] = runner
}

func (d *Driver) runner(kind string) (reconcile.Runner, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.runners[kind]
	return r, ok
}

// Handle runs one reconciliation of resource. DELETED requests are ignored
// because owner references let the garbage collector remove what the
// controllers created. A panicking controller is turned into an error, and
// a failed run always leaves a FAILED status behind.
func (d *Driver) Handle(ctx context.Context, resource config.ResourceIdentity) (err error) {
	if logging.IDFromContext(ctx) == "" {
		ctx, _ = logging.NewReconcileContext(ctx)
	}
	log := logf.FromContext(ctx).WithValues("kind", resource.Kind, "resource", resource.Key(), "action", resource.Action)
	ctx = logr.NewContext(ctx, log)

	if resource.Action == config.ActionDeleted {
		log.Info("Ignoring deletion, owned resources are garbage collected")
		return nil
	}
	runner, ok := d.runner(resource.Kind)
	if !ok {
		return &config.ValidationError{Field: config.EnvResourceKind, Message: fmt.Sprintf("unsupported kind %q", resource.Kind)}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("controller for %s panicked: %v", resource, r)
		}
		duration := time.Since(start)
		outcome := metrics.StatusSuccess
		phase := entandov1alpha1.PhaseSuccessful
		if err != nil {
			outcome = metrics.StatusFailure
			phase = entandov1alpha1.PhaseFailed
			d.ensureFailureRecorded(ctx, resource, err)
			log.Error(err, "Reconciliation failed", "detail", failure.Detail(err))
		} else {
			log.Info("Reconciliation succeeded", "duration", duration)
		}
		metrics.RecordReconciliation(resource.Kind, outcome, duration.Seconds())
		if d.bus != nil {
			if pubErr := d.bus.Publish(ctx, eventbus.NewReconciliationCompleted(
				resource.Kind, resource.Namespace, resource.Name, string(phase), duration, err)); pubErr != nil {
				log.Error(pubErr, "Failed to publish completion")
			}
		}
	}()

	log.Info("Reconciling")
	return runner.Run(ctx, config.NewReconciliationContext(d.cfg, resource, d.controllerPod))
}

// ensureFailureRecorded stores err under the main qualifier unless the
// controller already recorded a failure.
func (d *Driver) ensureFailureRecorded(ctx context.Context, resource config.ResourceIdentity, err error) {
	obj, ok := newObject(resource.Kind)
	if !ok {
		return
	}
	if getErr := d.client.Get(ctx, resource.Key(), obj); getErr != nil {
		return
	}
	if obj.GetEntandoStatus().HasFailed() {
		return
	}
	if statusErr := d.status.DeploymentFailed(ctx, obj, err, entandov1alpha1.QualifierMain); statusErr != nil {
		logf.FromContext(ctx).Error(statusErr, "Failed to record failure")
	}
}

func newObject(kind string) (entandov1alpha1.EntandoResource, bool) {
	switch kind {
	case entandov1alpha1.KindEntandoApp:
		return &entandov1alpha1.EntandoApp{}, true
	case entandov1alpha1.KindEntandoPlugin:
		return &entandov1alpha1.EntandoPlugin{}, true
	case entandov1alpha1.KindEntandoDatabaseService:
		return &entandov1alpha1.EntandoDatabaseService{}, true
	case entandov1alpha1.KindEntandoKeycloakServer:
		return &entandov1alpha1.EntandoKeycloakServer{}, true
	case entandov1alpha1.KindProvidedCapability:
		return &entandov1alpha1.ProvidedCapability{}, true
	}
	return nil, false
}

var _ reconcile.Dispatcher = (*Driver)(nil)
