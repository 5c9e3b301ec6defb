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

package v1alpha1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"
)

func TestPutServerStatus_ReplacesByQualifier(t *testing.T) {
	status := &EntandoStatus{}

	status.PutServerStatus(ServerStatus{Qualifier: QualifierDB, Phase: PhaseStarted})
	status.PutServerStatus(ServerStatus{Qualifier: QualifierServer, Phase: PhaseStarted})
	status.PutServerStatus(ServerStatus{Qualifier: QualifierDB, Phase: PhaseSuccessful, ServiceName: "db-service"})

	require.Len(t, status.ServerStatuses, 2)
	db, ok := status.ForQualifier(QualifierDB)
	require.True(t, ok)
	assert.Equal(t, PhaseSuccessful, db.Phase)
	assert.Equal(t, "db-service", db.ServiceName)
}

func TestForQualifier_ReturnsCopy(t *testing.T) {
	status := &EntandoStatus{}
	status.PutServerStatus(ServerStatus{
		Qualifier:            QualifierMain,
		DeploymentParameters: map[string]string{"port": "5432"},
	})

	ss, ok := status.ForQualifier(QualifierMain)
	require.True(t, ok)
	ss.DeploymentParameters["port"] = "3306"

	stored, _ := status.ForQualifier(QualifierMain)
	assert.Equal(t, "5432", stored.DeploymentParameters["port"])

	_, ok = status.ForQualifier("missing")
	assert.False(t, ok)
}

func TestAggregatePhase(t *testing.T) {
	tests := []struct {
		name     string
		statuses []ServerStatus
		required []string
		want     EntandoDeploymentPhase
	}{
		{
			name: "empty status is requested",
			want: PhaseRequested,
		},
		{
			name: "any failure fails the resource",
			statuses: []ServerStatus{
				{Qualifier: QualifierDB, Phase: PhaseSuccessful},
				{Qualifier: QualifierServer, Phase: PhaseFailed},
			},
			required: []string{QualifierDB, QualifierServer},
			want:     PhaseFailed,
		},
		{
			name: "failure wins over in-flight qualifiers",
			statuses: []ServerStatus{
				{Qualifier: QualifierDB, Phase: PhaseStarted},
				{Qualifier: QualifierSSO, EntandoControllerFailure: &EntandoControllerFailure{Message: "boom"}},
			},
			want: PhaseFailed,
		},
		{
			name: "ignored counts as successful",
			statuses: []ServerStatus{
				{Qualifier: QualifierDB, Phase: PhaseIgnored},
				{Qualifier: QualifierServer, Phase: PhaseSuccessful},
			},
			required: []string{QualifierDB, QualifierServer},
			want:     PhaseSuccessful,
		},
		{
			name: "missing required qualifier keeps it started",
			statuses: []ServerStatus{
				{Qualifier: QualifierDB, Phase: PhaseSuccessful},
			},
			required: []string{QualifierDB, QualifierServer},
			want:     PhaseStarted,
		},
		{
			name: "in-flight optional qualifier keeps it started",
			statuses: []ServerStatus{
				{Qualifier: QualifierServer, Phase: PhaseSuccessful},
				{Qualifier: QualifierDE, Phase: PhaseStarted},
			},
			required: []string{QualifierServer},
			want:     PhaseStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := &EntandoStatus{ServerStatuses: tt.statuses}
			assert.Equal(t, tt.want, status.AggregatePhase(tt.required...))
		})
	}
}

func TestFirstFailure(t *testing.T) {
	status := &EntandoStatus{}
	assert.Nil(t, status.FirstFailure())
	assert.False(t, status.HasFailed())

	status.PutServerStatus(ServerStatus{Qualifier: QualifierDB, Phase: PhaseSuccessful})
	status.PutServerStatus(ServerStatus{
		Qualifier:                QualifierSSO,
		Phase:                    PhaseFailed,
		EntandoControllerFailure: &EntandoControllerFailure{Message: "sso down"},
	})

	assert.True(t, status.HasFailed())
	require.NotNil(t, status.FirstFailure())
	assert.Equal(t, "sso down", status.FirstFailure().Message)
}

func TestCapabilityRequirementDefaults(t *testing.T) {
	req := CapabilityRequirement{Capability: CapabilityDBMS}
	assert.Equal(t, ScopeNamespace, req.Scope())
	assert.Equal(t, DeployDirectly, req.Strategy())

	(&CapabilityResolution{
		ResolutionScopePreference: ScopeLabeled,
		ProvisioningStrategy:      UseExternal,
		Selector:                  map[string]string{"tier": "shared"},
		ExternallyProvidedService: &ExternallyProvidedService{Host: "db.example.com", Port: ptr.To[int32](5432)},
	}).ApplyTo(&req)

	assert.Equal(t, ScopeLabeled, req.Scope())
	assert.Equal(t, UseExternal, req.Strategy())
	assert.Equal(t, "shared", req.Selector["tier"])
	require.NotNil(t, req.ExternallyProvidedService)
	assert.Equal(t, int32(5432), *req.ExternallyProvidedService.Port)
}

func TestSpecEquals(t *testing.T) {
	a := &EntandoApp{Spec: EntandoAppSpec{
		Dbms:                 DbmsPostgreSQL,
		EnvironmentVariables: []corev1.EnvVar{{Name: "A", Value: "1"}},
	}}
	b := a.DeepCopy()
	assert.True(t, a.SpecEquals(b))

	b.Spec.EnvironmentVariables[0].Value = "2"
	assert.False(t, a.SpecEquals(b))
	assert.False(t, a.SpecEquals(nil))

	cap1 := &ProvidedCapability{Spec: ProvidedCapabilitySpec{CapabilityRequirement: CapabilityRequirement{
		Capability:           CapabilityDBMS,
		CapabilityParameters: map[string]string{ParameterDatabaseName: "my_db"},
	}}}
	cap2 := cap1.DeepCopy()
	assert.True(t, cap1.SpecEquals(cap2))
	cap2.Spec.CapabilityParameters[ParameterDatabaseName] = "other_db"
	assert.False(t, cap1.SpecEquals(cap2))
}

func TestDefaultVendors(t *testing.T) {
	assert.Equal(t, DbmsPostgreSQL, (&EntandoApp{}).DbmsVendor())
	assert.Equal(t, DbmsPostgreSQL, (&EntandoPlugin{}).DbmsVendor())
	assert.Equal(t, DbmsEmbedded, (&EntandoKeycloakServer{}).DbmsVendor())
	assert.Equal(t, DeployDirectly, (&EntandoDatabaseService{}).Strategy())
}
