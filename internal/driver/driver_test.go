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

package driver

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/status"
	"github.com/entando-k8s-operator/internal/testutil"
)

type runnerFunc func(ctx context.Context, rc *config.ReconciliationContext) error

func (f runnerFunc) Run(ctx context.Context, rc *config.ReconciliationContext) error {
	return f(ctx, rc)
}

func newDriver(t *testing.T, bus eventbus.Bus) (*Driver, client.Client) {
	t.Helper()
	s := testutil.NewScheme()
	c := testutil.NewFakeClient(s, testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace))
	return New(c, status.NewUpdater(c, s, testutil.TestPod), config.DefaultOperatorConfig(), testutil.TestPod, bus), c
}

func appIdentity(action config.Action) config.ResourceIdentity {
	return config.ResourceIdentity{
		Action:    action,
		Kind:      entandov1alpha1.KindEntandoApp,
		Namespace: testutil.TestNamespace,
		Name:      testutil.TestAppName,
	}
}

func loadApp(t *testing.T, c client.Client) *entandov1alpha1.EntandoApp {
	t.Helper()
	app := &entandov1alpha1.EntandoApp{}
	require.NoError(t, c.Get(context.Background(), appIdentity(config.ActionAdded).Key(), app))
	return app
}

func TestHandle_RunsRegisteredController(t *testing.T) {
	d, _ := newDriver(t, nil)
	var got *config.ReconciliationContext
	d.Register(entandov1alpha1.KindEntandoApp, runnerFunc(func(_ context.Context, rc *config.ReconciliationContext) error {
		got = rc
		return nil
	}))

	require.NoError(t, d.Handle(context.Background(), appIdentity(config.ActionAdded)))
	require.NotNil(t, got)
	assert.Equal(t, testutil.TestAppName, got.Key().Name)
	assert.Equal(t, testutil.TestPod, got.ControllerPod())
}

func TestHandle_IgnoresDeletion(t *testing.T) {
	d, _ := newDriver(t, nil)
	called := false
	d.Register(entandov1alpha1.KindEntandoApp, runnerFunc(func(context.Context, *config.ReconciliationContext) error {
		called = true
		return nil
	}))

	require.NoError(t, d.Handle(context.Background(), appIdentity(config.ActionDeleted)))
	assert.False(t, called)
}

func TestHandle_RejectsUnknownKind(t *testing.T) {
	d, _ := newDriver(t, nil)

	err := d.Handle(context.Background(), appIdentity(config.ActionAdded))
	require.Error(t, err)
	assert.True(t, config.IsValidationError(err))
}

func TestHandle_RecordsFailureWhenControllerDidNot(t *testing.T) {
	d, c := newDriver(t, nil)
	d.Register(entandov1alpha1.KindEntandoApp, runnerFunc(func(context.Context, *config.ReconciliationContext) error {
		return errors.New("image pull failed")
	}))

	err := d.Handle(context.Background(), appIdentity(config.ActionAdded))
	require.Error(t, err)

	app := loadApp(t, c)
	assert.Equal(t, entandov1alpha1.PhaseFailed, app.Status.Phase)
	ss, ok := app.Status.ForQualifier(entandov1alpha1.QualifierMain)
	require.True(t, ok)
	require.NotNil(t, ss.EntandoControllerFailure)
	assert.Equal(t, "image pull failed", ss.EntandoControllerFailure.Message)
	assert.Equal(t, testutil.TestAppName, ss.EntandoControllerFailure.FailedObjectName)
}

func TestHandle_KeepsFailureRecordedByController(t *testing.T) {
	d, c := newDriver(t, nil)
	updater := status.NewUpdater(c, testutil.NewScheme(), testutil.TestPod)
	d.Register(entandov1alpha1.KindEntandoApp, runnerFunc(func(ctx context.Context, rc *config.ReconciliationContext) error {
		app := &entandov1alpha1.EntandoApp{}
		if err := c.Get(ctx, rc.Key(), app); err != nil {
			return err
		}
		cause := errors.New("database unavailable")
		if err := updater.DeploymentFailed(ctx, app, cause, entandov1alpha1.QualifierServer); err != nil {
			return err
		}
		return cause
	}))

	require.Error(t, d.Handle(context.Background(), appIdentity(config.ActionAdded)))

	app := loadApp(t, c)
	_, hasMain := app.Status.ForQualifier(entandov1alpha1.QualifierMain)
	assert.False(t, hasMain)
	assert.Equal(t, "database unavailable", app.Status.FirstFailure().Message)
}

func TestHandle_RecoversPanic(t *testing.T) {
	d, c := newDriver(t, nil)
	d.Register(entandov1alpha1.KindEntandoApp, runnerFunc(func(context.Context, *config.ReconciliationContext) error {
		panic("boom")
	}))

	err := d.Handle(context.Background(), appIdentity(config.ActionAdded))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked: boom")
	assert.True(t, loadApp(t, c).Status.HasFailed())
}

func TestHandle_PublishesCompletion(t *testing.T) {
	bus := eventbus.NewInMemoryBus()
	var (
		mu        sync.Mutex
		completed []*eventbus.ReconciliationCompleted
	)
	bus.Subscribe(eventbus.EventReconciliationCompleted, "collector", func(_ context.Context, e eventbus.Event) error {
		mu.Lock()
		defer mu.Unlock()
		completed = append(completed, e.(*eventbus.ReconciliationCompleted))
		return nil
	})
	d, _ := newDriver(t, bus)
	d.Register(entandov1alpha1.KindEntandoApp, runnerFunc(func(context.Context, *config.ReconciliationContext) error {
		return nil
	}))

	require.NoError(t, d.Handle(context.Background(), appIdentity(config.ActionModified)))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, completed, 1)
	assert.Equal(t, string(entandov1alpha1.PhaseSuccessful), completed[0].Phase)
	assert.Equal(t, testutil.TestAppName, completed[0].Name)
	assert.NoError(t, completed[0].Err)
}
