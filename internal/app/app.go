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

// Package app provides the application bootstrap for wiring all feature modules together.
package app

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/dbprobe"
	"github.com/entando-k8s-operator/internal/deployment"
	"github.com/entando-k8s-operator/internal/driver"
	"github.com/entando-k8s-operator/internal/features/databaseservice"
	"github.com/entando-k8s-operator/internal/features/entandoapp"
	"github.com/entando-k8s-operator/internal/features/keycloakserver"
	"github.com/entando-k8s-operator/internal/features/plugin"
	"github.com/entando-k8s-operator/internal/features/providedcapability"
	"github.com/entando-k8s-operator/internal/resync"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// Mode selects how reconciliations are triggered.
type Mode string

const (
	// ModeOneShot handles a single resource per process. Dependencies are
	// reconciled in process through the event bus.
	ModeOneShot Mode = "one-shot"
	// ModeManager runs one controller per kind under a controller-runtime
	// manager. Watches trigger dependencies.
	ModeManager Mode = "manager"
)

// Module represents a feature module that can be registered with the manager.
type Module interface {
	SetupWithManager(ctrl.Manager) error
	Kind() string
	Name() string
}

// Config holds what the application is wired from.
type Config struct {
	Client        client.Client
	Scheme        *runtime.Scheme
	Operator      config.OperatorConfig
	ControllerPod string
	Mode          Mode
	Logger        logr.Logger
	// Registerer receives the event bus metrics when set.
	Registerer prometheus.Registerer
	Registrar  deployment.SsoClientRegistrar
	Prober     dbprobe.Prober
}

// Application represents the main application with all feature modules.
type Application struct {
	mode     Mode
	eventBus *eventbus.InMemoryBus
	deps     *reconcile.Dependencies
	driver   *driver.Driver
	resync   *resync.Resyncer
	modules  []Module
	logger   logr.Logger
}

// NewApplication creates a new Application with all feature modules wired together.
func NewApplication(cfg Config) (*Application, error) {
	logger := cfg.Logger.WithName("app")
	if cfg.Mode == "" {
		cfg.Mode = ModeOneShot
	}

	// Create shared infrastructure
	middleware := []eventbus.Middleware{
		eventbus.LoggingMiddleware(logger.WithName("events")),
		eventbus.RecoveryMiddleware(logger.WithName("recovery")),
	}
	if cfg.Registerer != nil {
		m := eventbus.NewMetrics("entando_operator")
		if err := m.Register(cfg.Registerer); err != nil {
			return nil, fmt.Errorf("register event bus metrics: %w", err)
		}
		middleware = append(middleware, eventbus.MetricsMiddleware(m))
	}
	eventBus := eventbus.NewInMemoryBus(
		eventbus.WithLogger(logger.WithName("eventbus")),
		eventbus.WithMiddleware(middleware...),
	)

	// Only one-shot mode routes reconciliation requests over the bus
	var requestBus eventbus.Bus
	var predicates []predicate.Predicate
	if cfg.Mode == ModeOneShot {
		requestBus = eventBus
	} else {
		predicates = append(predicates, NewReconciliationPredicate())
	}

	deps := reconcile.NewDependencies(cfg.Client, cfg.Scheme, cfg.Operator, cfg.ControllerPod, requestBus,
		reconcile.Options{Registrar: cfg.Registrar, Prober: cfg.Prober})
	drv := driver.New(cfg.Client, deps.Status, cfg.Operator, cfg.ControllerPod, eventBus)

	a := &Application{
		mode:     cfg.Mode,
		eventBus: eventBus,
		deps:     deps,
		driver:   drv,
		logger:   logger,
	}

	// Create feature modules, capabilities first so that their consumers
	// find them registered
	pcMod, err := providedcapability.NewModule(providedcapability.Config{
		Dependencies: deps, Dispatcher: drv, EventBus: requestBus, Predicates: predicates, Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	drv.Register(pcMod.Kind(), pcMod.Handler())
	a.modules = append(a.modules, pcMod)

	// Database service module (backs DBMS capabilities)
	dbsMod, err := databaseservice.NewModule(databaseservice.Config{
		Dependencies: deps, Dispatcher: drv, EventBus: requestBus, Predicates: predicates, Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	drv.Register(dbsMod.Kind(), dbsMod.Handler())
	a.modules = append(a.modules, dbsMod)

	// Keycloak server module (backs SSO capabilities, may consume a DBMS)
	kcMod, err := keycloakserver.NewModule(keycloakserver.Config{
		Dependencies: deps, Dispatcher: drv, EventBus: requestBus, Predicates: predicates, Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	drv.Register(kcMod.Kind(), kcMod.Handler())
	a.modules = append(a.modules, kcMod)

	// App module (consumes DBMS and SSO)
	appMod, err := entandoapp.NewModule(entandoapp.Config{
		Dependencies: deps, Dispatcher: drv, EventBus: requestBus, Predicates: predicates, Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	drv.Register(appMod.Kind(), appMod.Handler())
	a.modules = append(a.modules, appMod)

	// Plugin module (consumes DBMS and SSO)
	pluginMod, err := plugin.NewModule(plugin.Config{
		Dependencies: deps, Dispatcher: drv, EventBus: requestBus, Predicates: predicates, Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	drv.Register(pluginMod.Kind(), pluginMod.Handler())
	a.modules = append(a.modules, pluginMod)

	if cfg.Mode == ModeManager && cfg.Operator.ResyncSchedule != "" {
		a.resync, err = resync.New(resync.Config{
			Client:   cfg.Client,
			Schedule: cfg.Operator.ResyncSchedule,
			Logger:   logger.WithName("resync"),
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Application created with feature modules",
		"moduleCount", len(a.modules), "mode", cfg.Mode)
	return a, nil
}

// SetupWithManager registers all feature modules with the controller manager.
func (a *Application) SetupWithManager(mgr ctrl.Manager) error {
	for _, mod := range a.modules {
		if err := mod.SetupWithManager(mgr); err != nil {
			return fmt.Errorf("setup %s controller: %w", mod.Name(), err)
		}
	}
	if a.resync != nil {
		if err := mgr.Add(a.resync); err != nil {
			return fmt.Errorf("add resync schedule: %w", err)
		}
	}
	a.logger.Info("All feature modules registered with manager")
	return nil
}

// Reconcile handles one resource and waits for the in-process
// reconciliations it requested.
func (a *Application) Reconcile(ctx context.Context, resource config.ResourceIdentity) error {
	err := a.driver.Handle(ctx, resource)
	a.eventBus.Wait()
	return err
}

// Modules returns the registered feature modules.
func (a *Application) Modules() []Module {
	return a.modules
}

// Dependencies returns the collaborators shared by the controllers.
func (a *Application) Dependencies() *reconcile.Dependencies {
	return a.deps
}

// EventBus returns the application's event bus for external use.
func (a *Application) EventBus() eventbus.Bus {
	return a.eventBus
}
