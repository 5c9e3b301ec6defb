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

// Package resync periodically re-requests failed Entando resources so that
// transient failures heal without user intervention.
package resync

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/robfig/cron/v3"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/manager"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/metrics"
)

// Resyncer annotates FAILED resources on a cron schedule. The annotation
// passes the reconciliation predicate and the controller runs again.
type Resyncer struct {
	client   client.Client
	schedule cron.Schedule
	spec     string
	now      func() time.Time
	logger   logr.Logger
}

// Config holds dependencies for the Resyncer.
type Config struct {
	Client client.Client
	// Schedule is a standard five field cron expression or a descriptor
	// such as @every 10m.
	Schedule string
	Logger   logr.Logger
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// New creates a Resyncer after validating the schedule.
func New(cfg Config) (*Resyncer, error) {
	schedule, err := parser.Parse(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid resync schedule %q: %w", cfg.Schedule, err)
	}
	return &Resyncer{
		client:   cfg.Client,
		schedule: schedule,
		spec:     cfg.Schedule,
		now:      time.Now,
		logger:   cfg.Logger,
	}, nil
}

// Start runs the schedule until ctx is cancelled.
// Implements manager.Runnable
func (r *Resyncer) Start(ctx context.Context) error {
	c := cron.New(cron.WithParser(parser), cron.WithLogger(r.logger))
	c.Schedule(r.schedule, cron.FuncJob(func() {
		if _, err := r.Run(ctx); err != nil {
			r.logger.Error(err, "Resync failed")
		}
	}))
	r.logger.Info("Starting resync schedule", "schedule", r.spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// NeedLeaderElection makes only the leader annotate resources.
func (r *Resyncer) NeedLeaderElection() bool { return true }

// Run annotates every FAILED resource that is not already waiting for a
// reconciliation and returns how many it annotated. Resource counts per
// phase are refreshed on the way.
func (r *Resyncer) Run(ctx context.Context) (int, error) {
	stamp := r.now().UTC().Format(time.RFC3339Nano)
	requested := 0
	for _, kind := range kinds {
		items, err := kind.list(ctx, r.client)
		if err != nil {
			return requested, fmt.Errorf("list %s: %w", kind.name, err)
		}
		counts := map[[2]string]int{}
		for _, obj := range items {
			phase := obj.GetEntandoStatus().Phase
			counts[[2]string{string(phase), obj.GetNamespace()}]++
			if phase != entandov1alpha1.PhaseFailed {
				continue
			}
			if _, pending := obj.GetAnnotations()[entandov1alpha1.AnnotationReconciliationRequested]; pending {
				continue
			}
			patch := client.MergeFrom(obj.DeepCopyObject().(client.Object))
			annotations := obj.GetAnnotations()
			if annotations == nil {
				annotations = map[string]string{}
			}
			annotations[entandov1alpha1.AnnotationReconciliationRequested] = stamp
			obj.SetAnnotations(annotations)
			if err := r.client.Patch(ctx, obj, patch); err != nil {
				return requested, fmt.Errorf("annotate %s %s/%s: %w", kind.name, obj.GetNamespace(), obj.GetName(), err)
			}
			r.logger.Info("Requested reconciliation of failed resource",
				"kind", kind.name, "namespace", obj.GetNamespace(), "name", obj.GetName())
			metrics.RecordResync(kind.name)
			requested++
		}
		metrics.ResetResourceCounts(kind.name)
		for key, n := range counts {
			metrics.SetResourceCount(kind.name, key[0], key[1], float64(n))
		}
	}
	return requested, nil
}

type resourceKind struct {
	name string
	list func(ctx context.Context, c client.Client) ([]entandov1alpha1.EntandoResource, error)
}

// kinds lists capabilities last so the resources they back are retried first.
var kinds = []resourceKind{
	{entandov1alpha1.KindEntandoDatabaseService, func(ctx context.Context, c client.Client) ([]entandov1alpha1.EntandoResource, error) {
		var l entandov1alpha1.EntandoDatabaseServiceList
		err := c.List(ctx, &l)
		return collect(l.Items), err
	}},
	{entandov1alpha1.KindEntandoKeycloakServer, func(ctx context.Context, c client.Client) ([]entandov1alpha1.EntandoResource, error) {
		var l entandov1alpha1.EntandoKeycloakServerList
		err := c.List(ctx, &l)
		return collect(l.Items), err
	}},
	{entandov1alpha1.KindEntandoApp, func(ctx context.Context, c client.Client) ([]entandov1alpha1.EntandoResource, error) {
		var l entandov1alpha1.EntandoAppList
		err := c.List(ctx, &l)
		return collect(l.Items), err
	}},
	{entandov1alpha1.KindEntandoPlugin, func(ctx context.Context, c client.Client) ([]entandov1alpha1.EntandoResource, error) {
		var l entandov1alpha1.EntandoPluginList
		err := c.List(ctx, &l)
		return collect(l.Items), err
	}},
	{entandov1alpha1.KindProvidedCapability, func(ctx context.Context, c client.Client) ([]entandov1alpha1.EntandoResource, error) {
		var l entandov1alpha1.ProvidedCapabilityList
		err := c.List(ctx, &l)
		return collect(l.Items), err
	}},
}

func collect[T any, P interface {
	*T
	entandov1alpha1.EntandoResource
}](items []T) []entandov1alpha1.EntandoResource {
	out := make([]entandov1alpha1.EntandoResource, 0, len(items))
	for i := range items {
		out = append(out, P(&items[i]))
	}
	return out
}

var _ manager.LeaderElectionRunnable = (*Resyncer)(nil)
var _ manager.Runnable = (*Resyncer)(nil)
