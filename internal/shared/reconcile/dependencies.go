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

// Package reconcile holds what every Entando controller shares: the
// collaborators a run needs and the steps that consume capabilities and
// deploy servers.
package reconcile

import (
	"context"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/capability"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/dbprobe"
	"github.com/entando-k8s-operator/internal/deployment"
	"github.com/entando-k8s-operator/internal/secret"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/status"
)

// Runner runs one reconciliation of a single kind.
type Runner interface {
	Run(ctx context.Context, rc *config.ReconciliationContext) error
}

// Dispatcher routes a reconciliation request to the controller of its kind.
type Dispatcher interface {
	Handle(ctx context.Context, resource config.ResourceIdentity) error
}

// Dependencies are the collaborators shared by the controllers of every kind.
type Dependencies struct {
	Client        client.Client
	Scheme        *runtime.Scheme
	Config        config.OperatorConfig
	ControllerPod string
	Bus           eventbus.Bus
	Status        *status.Updater
	Secrets       *secret.Manager
	Provider      *capability.Provider
	Processor     *deployment.Processor
	// Prober checks external databases when VerifyExternalDatabases is set.
	Prober dbprobe.Prober
}

// Options customize NewDependencies.
type Options struct {
	Registrar deployment.SsoClientRegistrar
	Prober    dbprobe.Prober
}

// NewDependencies wires the shared collaborators on top of c.
func NewDependencies(c client.Client, scheme *runtime.Scheme, cfg config.OperatorConfig, controllerPod string, bus eventbus.Bus, opts Options) *Dependencies {
	updater := status.NewUpdater(c, scheme, controllerPod)
	prober := opts.Prober
	if prober == nil {
		prober = dbprobe.New()
	}
	return &Dependencies{
		Client:        c,
		Scheme:        scheme,
		Config:        cfg,
		ControllerPod: controllerPod,
		Bus:           bus,
		Status:        updater,
		Secrets:       secret.NewManager(c, scheme),
		Provider:      capability.NewProvider(c, bus, updater, cfg.PollInterval),
		Processor:     deployment.NewProcessor(c, scheme, cfg, updater, opts.Registrar),
		Prober:        prober,
	}
}

// RequestReconciliation asks the controller of kind to reconcile obj. It is a
// no-op without a bus, where watches trigger the controller instead.
func (d *Dependencies) RequestReconciliation(ctx context.Context, kind string, obj entandov1alpha1.EntandoResource) {
	if d.Bus == nil {
		return
	}
	d.Bus.PublishAsync(ctx, eventbus.NewReconciliationRequested(
		string(config.ActionModified), kind, obj.GetNamespace(), obj.GetName()))
}
