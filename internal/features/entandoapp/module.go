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
	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// Module represents the EntandoApp feature module.
type Module struct {
	handler    *Handler
	controller *Controller
	logger     logr.Logger
}

// Config holds dependencies for the app module.
type Config struct {
	Dependencies *reconcile.Dependencies
	Dispatcher   reconcile.Dispatcher
	// EventBus is set in one-shot mode, where other controllers request
	// reconciliations in process.
	EventBus   eventbus.Bus
	Predicates []predicate.Predicate
	Logger     logr.Logger
}

// NewModule creates and wires the app module.
func NewModule(cfg Config) (*Module, error) {
	logger := cfg.Logger.WithName("entandoapp")

	handler := NewHandler(HandlerConfig{
		Dependencies: cfg.Dependencies,
		Logger:       logger.WithName("handler"),
	})

	controller := NewController(ControllerConfig{
		Client:     cfg.Dependencies.Client,
		Dispatcher: cfg.Dispatcher,
		Predicates: cfg.Predicates,
		Logger:     logger.WithName("controller"),
	})

	if cfg.EventBus != nil {
		subscribeToEvents(cfg.EventBus, cfg.Dispatcher)
	}

	return &Module{handler: handler, controller: controller, logger: logger}, nil
}

// subscribeToEvents registers event handlers for events from other modules.
func subscribeToEvents(bus eventbus.Bus, dispatcher reconcile.Dispatcher) {
	// Resync and command line requests arrive on the bus
	bus.Subscribe(eventbus.EventReconciliationRequested, "entandoapp.OnReconciliationRequested",
		reconcile.OnKind(entandov1alpha1.KindEntandoApp, dispatcher))
}

// SetupWithManager registers the controller with the manager.
func (m *Module) SetupWithManager(mgr ctrl.Manager) error {
	return m.controller.SetupWithManager(mgr)
}

// Handler returns the module's handler.
func (m *Module) Handler() API {
	return m.handler
}

// Kind returns the kind reconciled by the module.
func (m *Module) Kind() string {
	return entandov1alpha1.KindEntandoApp
}

// Name returns the module name.
func (m *Module) Name() string {
	return "entandoapp"
}
