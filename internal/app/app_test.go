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

package app

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/testutil"
)

func newConfig(mode Mode) Config {
	scheme := testutil.NewScheme()
	return Config{
		Client:        testutil.NewFakeClient(scheme),
		Scheme:        scheme,
		Operator:      config.DefaultOperatorConfig(),
		ControllerPod: testutil.TestPod,
		Mode:          mode,
		Logger:        logr.Discard(),
	}
}

func TestNewApplication_RegistersEveryKind(t *testing.T) {
	a, err := NewApplication(newConfig(ModeOneShot))
	require.NoError(t, err)

	var kinds []string
	for _, m := range a.Modules() {
		kinds = append(kinds, m.Kind())
	}
	assert.ElementsMatch(t, []string{
		entandov1alpha1.KindEntandoApp,
		entandov1alpha1.KindEntandoPlugin,
		entandov1alpha1.KindEntandoDatabaseService,
		entandov1alpha1.KindEntandoKeycloakServer,
		entandov1alpha1.KindProvidedCapability,
	}, kinds)
}

func TestNewApplication_OneShotRoutesRequestsOverTheBus(t *testing.T) {
	a, err := NewApplication(newConfig(ModeOneShot))
	require.NoError(t, err)

	assert.NotNil(t, a.Dependencies().Bus)
	assert.Len(t, a.eventBus.Handlers(eventbus.EventReconciliationRequested), 5)
}

func TestNewApplication_ManagerModeLeavesRequestsToWatches(t *testing.T) {
	a, err := NewApplication(newConfig(ModeManager))
	require.NoError(t, err)

	assert.Nil(t, a.Dependencies().Bus)
	assert.Empty(t, a.eventBus.Handlers(eventbus.EventReconciliationRequested))
	assert.Nil(t, a.resync)
}

func TestNewApplication_ResyncSchedule(t *testing.T) {
	cfg := newConfig(ModeManager)
	cfg.Operator.ResyncSchedule = "@every 5m"
	a, err := NewApplication(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.resync)

	cfg.Operator.ResyncSchedule = "not a schedule"
	_, err = NewApplication(cfg)
	assert.Error(t, err)
}

func TestNewApplication_RegistersBusMetrics(t *testing.T) {
	cfg := newConfig(ModeOneShot)
	cfg.Registerer = prometheus.NewRegistry()

	_, err := NewApplication(cfg)
	require.NoError(t, err)

	_, err = NewApplication(cfg)
	assert.Error(t, err, "collectors cannot be registered twice")
}

func TestApplication_ReconcileRejectsUnknownKind(t *testing.T) {
	a, err := NewApplication(newConfig(ModeOneShot))
	require.NoError(t, err)

	err = a.Reconcile(t.Context(), config.ResourceIdentity{
		Action: config.ActionAdded, Kind: "EntandoBundle", Namespace: testutil.TestNamespace, Name: "b",
	})
	assert.True(t, config.IsValidationError(err))
}
