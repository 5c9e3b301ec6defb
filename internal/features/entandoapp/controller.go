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

package entandoapp

import (
	"context"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/logging"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// Controller handles K8s reconciliation for EntandoApp resources.
// It is a thin wrapper that hands every resource to the dispatcher.
type Controller struct {
	client.Client
	dispatcher reconcile.Dispatcher
	predicates []predicate.Predicate
	logger     logr.Logger
}

// ControllerConfig holds dependencies for the controller.
type ControllerConfig struct {
	Client     client.Client
	Dispatcher reconcile.Dispatcher
	Predicates []predicate.Predicate
	Logger     logr.Logger
}

// NewController creates a new app controller.
func NewController(cfg ControllerConfig) *Controller {
	return &Controller{
		Client:     cfg.Client,
		dispatcher: cfg.Dispatcher,
		predicates: cfg.Predicates,
		logger:     cfg.Logger,
	}
}

// Reconcile implements the reconciliation loop for EntandoApp resources.
// +kubebuilder:rbac:groups=entando.org,resources=entandoapps,verbs=get;list;watch;create;update;patch
// +kubebuilder:rbac:groups=entando.org,resources=entandoapps/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=entando.org,resources=providedcapabilities,verbs=get;list;watch;create;update;patch
// +kubebuilder:rbac:groups="",resources=services;secrets;persistentvolumeclaims,verbs=get;list;watch;create;update;patch
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch
// +kubebuilder:rbac:groups=batch,resources=jobs,verbs=get;list;watch;create;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=ingresses,verbs=get;list;watch;create;update;patch
func (c *Controller) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	return reconcile.Reconcile(ctx, c.Client, c.dispatcher, entandov1alpha1.KindEntandoApp,
		&entandov1alpha1.EntandoApp{}, req)
}

// SetupWithManager registers the controller with the manager.
func (c *Controller) SetupWithManager(mgr ctrl.Manager) error {
	b := logging.BuildController(mgr).
		For(&entandov1alpha1.EntandoApp{}).
		Named("entandoapp")
	for _, p := range c.predicates {
		b = b.WithEventFilter(p)
	}
	return b.Complete(c)
}
