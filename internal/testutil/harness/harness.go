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

// Package harness assembles an in-process operator against a fake cluster:
// the shared dependencies, a driver, an event bus and a simulator.
package harness

import (
	"context"
	"testing"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/dbprobe"
	"github.com/entando-k8s-operator/internal/driver"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
	"github.com/entando-k8s-operator/internal/testutil"
)

// Config returns an operator configuration with short timeouts.
func Config() config.OperatorConfig {
	cfg := config.DefaultOperatorConfig()
	cfg.PodReadinessTimeout = 2 * time.Second
	cfg.PodCompletionTimeout = 2 * time.Second
	cfg.PollInterval = 20 * time.Millisecond
	return cfg
}

// Harness is an operator wired against a fake cluster.
type Harness struct {
	Client client.WithWatch
	Scheme *runtime.Scheme
	Bus    *eventbus.InMemoryBus
	Deps   *reconcile.Dependencies
	Driver *driver.Driver
	Sim    *testutil.Simulator
}

// Option customizes a Harness before it is wired.
type Option func(*options)

type options struct {
	cfg    config.OperatorConfig
	prober dbprobe.Prober
}

// WithConfig replaces the operator configuration.
func WithConfig(cfg config.OperatorConfig) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithProber replaces the external database prober.
func WithProber(p dbprobe.Prober) Option {
	return func(o *options) { o.prober = p }
}

// New creates a Harness holding objs. Bus handlers still running when the
// test ends are waited for.
func New(t testing.TB, objs []client.Object, opts ...Option) *Harness {
	o := &options{cfg: Config()}
	for _, opt := range opts {
		opt(o)
	}
	scheme := testutil.NewScheme()
	c := testutil.NewFakeClient(scheme, objs...)
	bus := eventbus.NewInMemoryBus()
	deps := reconcile.NewDependencies(c, scheme, o.cfg, testutil.TestPod, bus, reconcile.Options{Prober: o.prober})
	h := &Harness{
		Client: c,
		Scheme: scheme,
		Bus:    bus,
		Deps:   deps,
		Driver: driver.New(c, deps.Status, o.cfg, testutil.TestPod, bus),
		Sim:    testutil.NewSimulator(c),
	}
	t.Cleanup(bus.Wait)
	return h
}

// Start runs the simulator until the test ends.
func (h *Harness) Start(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h.Sim.Start(ctx)
	return ctx
}

// Reconcile dispatches one ADDED request for kind ns/name.
func (h *Harness) Reconcile(ctx context.Context, kind, namespace, name string) error {
	return h.Driver.Handle(ctx, config.ResourceIdentity{
		Action:    config.ActionAdded,
		Kind:      kind,
		Namespace: namespace,
		Name:      name,
	})
}
