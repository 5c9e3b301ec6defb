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

package capability

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/status"
	"github.com/entando-k8s-operator/internal/testutil"
)

const testTimeout = 2 * time.Second

// fakeCapabilityController completes requested capabilities with the
// outcome returned by result.
type fakeCapabilityController struct {
	client  client.Client
	updater *status.Updater
	calls   atomic.Int32
	result  func(calls int32) error
}

func (f *fakeCapabilityController) handle(ctx context.Context, event eventbus.Event) error {
	req := event.(*eventbus.ReconciliationRequested)
	if req.Kind != entandov1alpha1.KindProvidedCapability {
		return nil
	}
	calls := f.calls.Add(1)
	capability := &entandov1alpha1.ProvidedCapability{}
	if err := f.client.Get(ctx, client.ObjectKey{Namespace: req.Namespace, Name: req.Name}, capability); err != nil {
		return err
	}
	if err := f.updater.DeploymentStarted(ctx, capability); err != nil {
		return err
	}
	if f.result != nil {
		if err := f.result(calls); err != nil {
			return f.updater.DeploymentFailed(ctx, capability, err, entandov1alpha1.QualifierMain)
		}
	}
	if err := f.updater.UpdateServerStatus(ctx, capability, entandov1alpha1.ServerStatus{
		Qualifier:   entandov1alpha1.QualifierMain,
		Type:        entandov1alpha1.ServerStatusCapability,
		Phase:       entandov1alpha1.PhaseSuccessful,
		ServiceName: capability.Name + "-service",
	}); err != nil {
		return err
	}
	_, err := f.updater.Finalize(ctx, capability, entandov1alpha1.QualifierMain)
	return err
}

func newProvider(t *testing.T, c client.Client) (*Provider, *fakeCapabilityController) {
	t.Helper()
	s := testutil.NewScheme()
	updater := status.NewUpdater(c, s, testutil.TestPod)
	bus := eventbus.NewInMemoryBus()
	t.Cleanup(bus.Wait)
	controller := &fakeCapabilityController{client: c, updater: updater}
	bus.Subscribe(eventbus.EventReconciliationRequested, "capability", controller.handle)
	return NewProvider(c, bus, updater, 10*time.Millisecond), controller
}

func dbmsRequirement() entandov1alpha1.CapabilityRequirement {
	return entandov1alpha1.CapabilityRequirement{
		Capability:           entandov1alpha1.CapabilityDBMS,
		Implementation:       entandov1alpha1.ImplementationPostgreSQL,
		CapabilityParameters: map[string]string{entandov1alpha1.ParameterDatabaseName: testutil.TestDatabaseName},
	}
}

func TestProvideCapability_NamespaceScopeIsShared(t *testing.T) {
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	plugin := testutil.NewEntandoPlugin(testutil.TestPluginName, testutil.TestNamespace)
	c := testutil.NewFakeClient(testutil.NewScheme(), app, plugin)
	p, controller := newProvider(t, c)
	ctx := context.Background()

	first, err := p.ProvideCapability(ctx, app, dbmsRequirement(), testTimeout)
	require.NoError(t, err)
	assert.Equal(t, "default-postgresql-dbms-in-namespace", first.Name)
	assert.Equal(t, entandov1alpha1.PhaseSuccessful, first.Status.Phase)
	assert.Equal(t, "dbms", first.Labels[entandov1alpha1.LabelCapability])

	second, err := p.ProvideCapability(ctx, plugin, dbmsRequirement(), testTimeout)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, int32(1), controller.calls.Load(), "the second consumer reuses the capability")

	list := &entandov1alpha1.ProvidedCapabilityList{}
	require.NoError(t, c.List(ctx, list))
	assert.Len(t, list.Items, 1)
}

func TestProvideCapability_ConcurrentRequestsProvisionOnce(t *testing.T) {
	c := testutil.NewFakeClient(testutil.NewScheme())
	p, controller := newProvider(t, c)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			owner := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
			_, err := p.ProvideCapability(context.Background(), owner, dbmsRequirement(), testTimeout)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), controller.calls.Load())
}

func TestProvideCapability_FailureIsReturnedAndRetried(t *testing.T) {
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	c := testutil.NewFakeClient(testutil.NewScheme(), app)
	p, controller := newProvider(t, c)
	controller.result = func(calls int32) error {
		if calls == 1 {
			return failure.NewControllerError("Please provide the hostname of the database service you intend to connect to")
		}
		return nil
	}
	ctx := context.Background()

	_, err := p.ProvideCapability(ctx, app, dbmsRequirement(), testTimeout)
	require.Error(t, err)
	assert.True(t, failure.IsControllerError(err))
	assert.Contains(t, err.Error(), "Please provide the hostname of the database service you intend to connect to")

	capability, err := p.ProvideCapability(ctx, app, dbmsRequirement(), testTimeout)
	require.NoError(t, err)
	assert.Equal(t, entandov1alpha1.PhaseSuccessful, capability.Status.Phase)
	assert.False(t, capability.Status.HasFailed())
	assert.Equal(t, int32(2), controller.calls.Load())
}

func TestProvideCapability_Timeout(t *testing.T) {
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	c := testutil.NewFakeClient(testutil.NewScheme(), app)
	s := testutil.NewScheme()
	p := NewProvider(c, eventbus.NewInMemoryBus(), status.NewUpdater(c, s, testutil.TestPod), 10*time.Millisecond)

	_, err := p.ProvideCapability(context.Background(), app, dbmsRequirement(), 100*time.Millisecond)
	require.Error(t, err)
	assert.True(t, failure.IsTimeout(err))
}

func TestProvideCapability_TimeoutFailsCapabilityAndBacking(t *testing.T) {
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	backing := testutil.NewEntandoDatabaseService("default-postgresql-dbms-in-namespace", testutil.TestNamespace, entandov1alpha1.DbmsPostgreSQL)
	backing.Status.Phase = entandov1alpha1.PhaseStarted
	c := testutil.NewFakeClient(testutil.NewScheme(), app, backing)
	bus := eventbus.NewInMemoryBus()
	t.Cleanup(bus.Wait)
	var requested atomic.Int32
	// Requests are accepted but never completed.
	bus.Subscribe(eventbus.EventReconciliationRequested, "stalled", func(context.Context, eventbus.Event) error {
		requested.Add(1)
		return nil
	})
	p := NewProvider(c, bus, status.NewUpdater(c, testutil.NewScheme(), testutil.TestPod), 10*time.Millisecond)
	ctx := context.Background()

	_, err := p.ProvideCapability(ctx, app, dbmsRequirement(), 100*time.Millisecond)
	require.Error(t, err)
	require.True(t, failure.IsTimeout(err))

	capability := &entandov1alpha1.ProvidedCapability{}
	require.NoError(t, c.Get(ctx, client.ObjectKeyFromObject(backing), capability))
	assert.Equal(t, entandov1alpha1.PhaseFailed, capability.Status.Phase)
	f := capability.Status.FirstFailure()
	require.NotNil(t, f)
	assert.Equal(t, err.Error(), f.Message)

	dbs := &entandov1alpha1.EntandoDatabaseService{}
	require.NoError(t, c.Get(ctx, client.ObjectKeyFromObject(backing), dbs))
	assert.Equal(t, entandov1alpha1.PhaseFailed, dbs.Status.Phase)
	assert.Equal(t, f, dbs.Status.FirstFailure())

	_, err = p.ProvideCapability(ctx, app, dbmsRequirement(), 100*time.Millisecond)
	require.Error(t, err)
	bus.Wait()
	assert.Equal(t, int32(2), requested.Load(), "the expired capability is requested again")
}

func TestProvideCapability_CallerCancellationDoesNotAbortSharedProvisioning(t *testing.T) {
	c := testutil.NewFakeClient(testutil.NewScheme())
	p, controller := newProvider(t, c)
	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)
	controller.result = func(int32) error {
		<-release
		return nil
	}
	owner := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)

	firstCtx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := p.ProvideCapability(firstCtx, owner, dbmsRequirement(), testTimeout)
		first <- err
	}()
	require.Eventually(t, func() bool { return controller.calls.Load() == 1 }, testTimeout, 5*time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, err := p.ProvideCapability(context.Background(), owner, dbmsRequirement(), testTimeout)
		second <- err
	}()

	cancel()
	select {
	case err := <-first:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(testTimeout):
		t.Fatal("cancelled caller kept waiting")
	}

	unblock()
	select {
	case err := <-second:
		assert.NoError(t, err)
	case <-time.After(2 * testTimeout):
		t.Fatal("second caller did not finish")
	}
	assert.Equal(t, int32(1), controller.calls.Load())
}

func TestProvideCapability_CreationRaceReusesWinner(t *testing.T) {
	s := testutil.NewScheme()
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	var raced atomic.Bool
	c := fake.NewClientBuilder().
		WithScheme(s).
		WithObjects(app).
		WithStatusSubresource(&entandov1alpha1.ProvidedCapability{}, &entandov1alpha1.EntandoApp{}).
		WithInterceptorFuncs(interceptor.Funcs{
			Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
				capability, ok := obj.(*entandov1alpha1.ProvidedCapability)
				if !ok || raced.Swap(true) {
					return c.Create(ctx, obj, opts...)
				}
				winner := capability.DeepCopy()
				if err := c.Create(ctx, winner); err != nil {
					return err
				}
				winner.Status.Phase = entandov1alpha1.PhaseSuccessful
				if err := c.Status().Update(ctx, winner); err != nil {
					return err
				}
				return apierrors.NewAlreadyExists(schema.GroupResource{Group: "entando.org", Resource: "providedcapabilities"}, capability.Name)
			},
		}).
		Build()
	p, controller := newProvider(t, c)

	capability, err := p.ProvideCapability(context.Background(), app, dbmsRequirement(), testTimeout)
	require.NoError(t, err)
	assert.Equal(t, entandov1alpha1.PhaseSuccessful, capability.Status.Phase)
	assert.Equal(t, int32(0), controller.calls.Load(), "the winner's capability is reused, not provisioned again")
}

func TestProvideCapability_SpecifiedWithoutReference(t *testing.T) {
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	p, _ := newProvider(t, testutil.NewFakeClient(testutil.NewScheme(), app))
	req := dbmsRequirement()
	req.ResolutionScopePreference = entandov1alpha1.ScopeSpecified

	_, err := p.ProvideCapability(context.Background(), app, req, testTimeout)
	var ce *failure.ControllerError
	require.True(t, errors.As(err, &ce))
}

func TestProvideCapability_SpecifiedDefaultsToRequesterNamespace(t *testing.T) {
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	p, _ := newProvider(t, testutil.NewFakeClient(testutil.NewScheme(), app))
	req := dbmsRequirement()
	req.ResolutionScopePreference = entandov1alpha1.ScopeSpecified
	req.SpecifiedCapability = &entandov1alpha1.ResourceReference{Name: "shared-db"}

	capability, err := p.ProvideCapability(context.Background(), app, req, testTimeout)
	require.NoError(t, err)
	assert.Equal(t, testutil.TestNamespace, capability.Namespace)
	assert.Equal(t, "shared-db", capability.Name)
}

func TestProvideCapability_LabeledScope(t *testing.T) {
	app := testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace)
	c := testutil.NewFakeClient(testutil.NewScheme(), app)
	p, controller := newProvider(t, c)
	req := dbmsRequirement()
	req.ResolutionScopePreference = entandov1alpha1.ScopeLabeled
	req.Selector = map[string]string{"tier": "gold", "team": "payments"}

	first, err := p.ProvideCapability(context.Background(), app, req, testTimeout)
	require.NoError(t, err)
	assert.Equal(t, LabeledName(req), first.Name)
	assert.Equal(t, "gold", first.Labels["tier"])

	second, err := p.ProvideCapability(context.Background(), app, req, testTimeout)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, int32(1), controller.calls.Load())
}

func TestLabeledName_IsStable(t *testing.T) {
	a := dbmsRequirement()
	a.Selector = map[string]string{"a": "1", "b": "2"}
	b := dbmsRequirement()
	b.Selector = map[string]string{"b": "2", "a": "1"}
	other := dbmsRequirement()
	other.Selector = map[string]string{"a": "1"}

	assert.Equal(t, LabeledName(a), LabeledName(b))
	assert.NotEqual(t, LabeledName(a), LabeledName(other))
	assert.Regexp(t, `^postgresql-dbms-[0-9a-f]{8}$`, LabeledName(a))
}

func TestDefaultImplementation(t *testing.T) {
	assert.Equal(t, entandov1alpha1.ImplementationPostgreSQL, DefaultImplementation(entandov1alpha1.CapabilityDBMS))
	assert.Equal(t, entandov1alpha1.ImplementationKeycloak, DefaultImplementation(entandov1alpha1.CapabilitySSO))
}
