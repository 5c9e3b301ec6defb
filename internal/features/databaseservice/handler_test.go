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

package databaseservice

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/dbprobe"
	"github.com/entando-k8s-operator/internal/testutil"
	"github.com/entando-k8s-operator/internal/testutil/harness"
)

const (
	dbsName         = "my-db"
	adminSecretName = "my-admin-secret"
)

func newHarness(t *testing.T, opts []harness.Option, objs ...client.Object) *harness.Harness {
	t.Helper()
	h := harness.New(t, objs, opts...)
	m, err := NewModule(Config{
		Dependencies: h.Deps,
		Dispatcher:   h.Driver,
		EventBus:     h.Bus,
		Logger:       logr.Discard(),
	})
	require.NoError(t, err)
	h.Driver.Register(m.Kind(), m.Handler())
	return h
}

func reconcileDBS(t *testing.T, h *harness.Harness, ctx context.Context) (*entandov1alpha1.EntandoDatabaseService, error) {
	t.Helper()
	err := h.Reconcile(ctx, entandov1alpha1.KindEntandoDatabaseService, testutil.TestNamespace, dbsName)
	dbs := &entandov1alpha1.EntandoDatabaseService{}
	require.NoError(t, h.Client.Get(ctx, types.NamespacedName{Namespace: testutil.TestNamespace, Name: dbsName}, dbs))
	return dbs, err
}

type fakeProber struct {
	err     error
	targets []dbprobe.Target
}

func (p *fakeProber) Probe(_ context.Context, target dbprobe.Target) error {
	p.targets = append(p.targets, target)
	return p.err
}

func TestRun_DeploysPostgreSQL(t *testing.T) {
	h := newHarness(t, nil, testutil.NewEntandoDatabaseService(dbsName, testutil.TestNamespace, entandov1alpha1.DbmsPostgreSQL))
	ctx := h.Start(t)

	dbs, err := reconcileDBS(t, h, ctx)
	require.NoError(t, err)

	assert.Equal(t, entandov1alpha1.PhaseSuccessful, dbs.Status.Phase)
	assert.Equal(t, dbs.Generation, dbs.Status.ObservedGeneration)
	main, ok := dbs.Status.ForQualifier(entandov1alpha1.QualifierMain)
	require.True(t, ok)
	assert.Equal(t, entandov1alpha1.ServerStatusDbServer, main.Type)
	assert.Equal(t, "my-db-service", main.ServiceName)
	assert.Equal(t, "my-db-admin-secret", main.AdminSecretName)
	assert.Equal(t, []string{"my-db-db-pvc"}, main.PersistentVolumeClaims)
	assert.Equal(t, map[string]string{
		"dbmsVendor":   "postgresql",
		"databaseName": testutil.TestDatabaseName,
		"port":         "5432",
	}, main.DeploymentParameters)

	dep := &appsv1.Deployment{}
	require.NoError(t, h.Client.Get(ctx, types.NamespacedName{Namespace: testutil.TestNamespace, Name: "my-db-deployment"}, dep))
	container := dep.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "centos/postgresql-12-centos7:latest", container.Image)
	assert.Equal(t, int32(5432), container.Ports[0].ContainerPort)

	admin := &corev1.Secret{}
	require.NoError(t, h.Client.Get(ctx, types.NamespacedName{Namespace: testutil.TestNamespace, Name: "my-db-admin-secret"}, admin))
	assert.Equal(t, "postgres", string(admin.Data["username"]))
}

func TestRun_ExternalValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*entandov1alpha1.EntandoDatabaseService)
		secret  bool
		message string
	}{
		{
			name:    "missing host",
			mutate:  func(d *entandov1alpha1.EntandoDatabaseService) { d.Spec.ExternallyProvidedService.Host = "" },
			secret:  true,
			message: MsgMissingHost,
		},
		{
			name:    "missing external service",
			mutate:  func(d *entandov1alpha1.EntandoDatabaseService) { d.Spec.ExternallyProvidedService = nil },
			secret:  true,
			message: MsgMissingHost,
		},
		{
			name:    "missing admin secret name",
			mutate:  func(d *entandov1alpha1.EntandoDatabaseService) { d.Spec.ExternallyProvidedService.AdminSecretName = "" },
			secret:  true,
			message: MsgMissingAdminSecret,
		},
		{
			name:    "missing database name",
			mutate:  func(d *entandov1alpha1.EntandoDatabaseService) { d.Spec.DatabaseName = "" },
			secret:  true,
			message: MsgMissingDatabase,
		},
		{
			name:    "missing admin secret",
			mutate:  func(*entandov1alpha1.EntandoDatabaseService) {},
			secret:  false,
			message: "Please ensure that a secret with the name 'my-admin-secret' exists in the requested namespace my-namespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbs := testutil.NewExternalDatabaseService(dbsName, testutil.TestNamespace, "db.example.com", adminSecretName)
			tt.mutate(dbs)
			objs := []client.Object{dbs}
			if tt.secret {
				objs = append(objs, testutil.NewAdminSecret(adminSecretName, testutil.TestNamespace))
			}
			h := newHarness(t, nil, objs...)

			got, err := reconcileDBS(t, h, context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, entandov1alpha1.PhaseFailed, got.Status.Phase)
			f := got.Status.FirstFailure()
			require.NotNil(t, f)
			assert.Equal(t, tt.message, f.Message)
			assert.Equal(t, entandov1alpha1.KindEntandoDatabaseService, f.FailedObjectKind)
		})
	}
}

func TestRun_RegistersExternalService(t *testing.T) {
	h := newHarness(t, nil,
		testutil.NewExternalDatabaseService(dbsName, testutil.TestNamespace, "db.example.com", adminSecretName),
		testutil.NewAdminSecret(adminSecretName, testutil.TestNamespace))
	ctx := context.Background()

	dbs, err := reconcileDBS(t, h, ctx)
	require.NoError(t, err)

	assert.Equal(t, entandov1alpha1.PhaseSuccessful, dbs.Status.Phase)
	main, ok := dbs.Status.ForQualifier(entandov1alpha1.QualifierMain)
	require.True(t, ok)
	assert.Equal(t, entandov1alpha1.ServerStatusExternalService, main.Type)
	assert.Equal(t, adminSecretName, main.AdminSecretName)
	assert.Equal(t, "db.example.com", main.DeploymentParameters["host"])

	svc := &corev1.Service{}
	require.NoError(t, h.Client.Get(ctx, types.NamespacedName{Namespace: testutil.TestNamespace, Name: "my-db-service"}, svc))
	assert.Equal(t, corev1.ServiceTypeExternalName, svc.Spec.Type)
	assert.Equal(t, "db.example.com", svc.Spec.ExternalName)

	err = h.Client.Get(ctx, types.NamespacedName{Namespace: testutil.TestNamespace, Name: "my-db-deployment"}, &appsv1.Deployment{})
	assert.True(t, apierrors.IsNotFound(err))
}

func TestRun_VerifiesExternalDatabase(t *testing.T) {
	cfg := harness.Config()
	cfg.VerifyExternalDatabases = true
	prober := &fakeProber{err: errors.New("connection refused")}
	h := newHarness(t, []harness.Option{harness.WithConfig(cfg), harness.WithProber(prober)},
		testutil.NewExternalDatabaseService(dbsName, testutil.TestNamespace, "db.example.com", adminSecretName),
		testutil.NewAdminSecret(adminSecretName, testutil.TestNamespace))

	dbs, err := reconcileDBS(t, h, context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not connect to the database service at db.example.com:5432")
	assert.Equal(t, entandov1alpha1.PhaseFailed, dbs.Status.Phase)

	require.Len(t, prober.targets, 1)
	assert.Equal(t, dbprobe.Target{
		Vendor:   entandov1alpha1.DbmsPostgreSQL,
		Host:     "db.example.com",
		Port:     5432,
		Database: testutil.TestDatabaseName,
		Username: "admin",
		Password: "s3cr3t",
		Timeout:  dbprobe.DefaultTimeout,
	}, prober.targets[0])
}

func TestRun_OracleCannotBeDeployedDirectly(t *testing.T) {
	h := newHarness(t, nil, testutil.NewEntandoDatabaseService(dbsName, testutil.TestNamespace, entandov1alpha1.DbmsOracle))

	dbs, err := reconcileDBS(t, h, context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be deployed directly")
	assert.Equal(t, entandov1alpha1.PhaseFailed, dbs.Status.Phase)
}

func TestDatabaseName_DefaultsToSnakeCaseName(t *testing.T) {
	dbs := testutil.NewEntandoDatabaseService("my-db", testutil.TestNamespace, entandov1alpha1.DbmsMySQL)
	dbs.Spec.DatabaseName = ""
	assert.Equal(t, "my_db_db", DatabaseName(dbs))
}
