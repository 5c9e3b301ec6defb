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

package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/testutil"
)

func findObject[T client.Object](objs []client.Object, name string) (T, bool) {
	for _, obj := range objs {
		if typed, ok := obj.(T); ok && obj.GetName() == name {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func envValue(c corev1.Container, name string) string {
	for _, e := range c.Env {
		if e.Name == name {
			return e.Value
		}
	}
	return ""
}

func TestRenderer_App(t *testing.T) {
	app := testutil.NewEntandoApp("my-app", testutil.TestNamespace)
	objs, err := NewRenderer(config.DefaultOperatorConfig()).Render(app)
	require.NoError(t, err)

	_, ok := findObject[*batchv1.Job](objs, "my-app-server-db-preparation-job")
	assert.True(t, ok)
	for _, name := range []string{"my-app-server-deployment", "my-app-de-deployment", "my-app-ab-deployment"} {
		_, ok := findObject[*appsv1.Deployment](objs, name)
		assert.True(t, ok, name)
	}

	server, ok := findObject[*appsv1.Deployment](objs, "my-app-server-deployment")
	require.True(t, ok)
	c := server.Spec.Template.Spec.Containers[0]
	assert.Equal(t,
		"jdbc:postgresql://default-postgresql-dbms-in-namespace-service.my-namespace.svc.cluster.local:5432/my_db",
		envValue(c, "PORTDB_URL"))
	assert.Equal(t,
		"http://default-keycloak-sso-in-namespace-server-service.my-namespace.svc.cluster.local:8080/auth",
		envValue(c, "KEYCLOAK_AUTH_URL"))
	assert.Equal(t, testutil.TestRealm, envValue(c, "KEYCLOAK_REALM"))
}

func TestRenderer_SpecifiedCapabilityAndSSOURL(t *testing.T) {
	p := testutil.NewEntandoPlugin(testutil.TestPluginName, testutil.TestNamespace)
	p.Spec.DatabaseToUse = &entandov1alpha1.CapabilityResolution{
		ResolutionScopePreference: entandov1alpha1.ScopeSpecified,
		SpecifiedCapability:       &entandov1alpha1.ResourceReference{Namespace: "shared", Name: "shared-db"},
	}
	r := NewRenderer(config.DefaultOperatorConfig())
	r.SSOBaseURL = "https://sso.example.com/auth"

	objs, err := r.Render(p)
	require.NoError(t, err)
	dep, ok := findObject[*appsv1.Deployment](objs, "my-plugin-server-deployment")
	require.True(t, ok)
	c := dep.Spec.Template.Spec.Containers[0]
	assert.Equal(t,
		"jdbc:postgresql://shared-db-service.shared.svc.cluster.local:5432/my_db",
		envValue(c, "SPRING_DATASOURCE_URL"))
	assert.Equal(t, "https://sso.example.com/auth", envValue(c, "KEYCLOAK_AUTH_URL"))
}

func TestRenderer_EmbeddedKeycloak(t *testing.T) {
	kc := testutil.NewEntandoKeycloakServer("my-kc", testutil.TestNamespace)
	kc.Spec.Dbms = entandov1alpha1.DbmsEmbedded

	objs, err := NewRenderer(config.DefaultOperatorConfig()).Render(kc)
	require.NoError(t, err)
	for _, obj := range objs {
		_, isJob := obj.(*batchv1.Job)
		assert.False(t, isJob, "embedded database needs no preparation job")
	}
	_, ok := findObject[*corev1.Service](objs, "my-kc-server-service")
	assert.True(t, ok)
}

func TestRenderer_ExternalDatabaseService(t *testing.T) {
	dbs := testutil.NewExternalDatabaseService("my-db", testutil.TestNamespace, "pg.example.com", "pg-admin")
	objs, err := NewRenderer(config.DefaultOperatorConfig()).Render(dbs)
	require.NoError(t, err)
	require.Len(t, objs, 1)

	svc, ok := objs[0].(*corev1.Service)
	require.True(t, ok)
	assert.Equal(t, corev1.ServiceTypeExternalName, svc.Spec.Type)
	assert.Equal(t, "pg.example.com", svc.Spec.ExternalName)
}

func TestRenderer_ProvidedCapability(t *testing.T) {
	pc := &entandov1alpha1.ProvidedCapability{}
	pc.Name = "default-postgresql-dbms-in-namespace"
	_, err := NewRenderer(config.DefaultOperatorConfig()).Render(pc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to render")
}

func TestPrinter_PrintObjects(t *testing.T) {
	dbs := testutil.NewEntandoDatabaseService("my-db", testutil.TestNamespace, entandov1alpha1.DbmsPostgreSQL)
	objs, err := NewRenderer(config.DefaultOperatorConfig()).Render(dbs)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, NewPrinter(testutil.NewScheme(), &out).PrintObjects(objs))
	s := out.String()
	assert.Contains(t, s, "kind: Service")
	assert.Contains(t, s, "kind: Deployment")
	assert.Contains(t, s, "apiVersion: apps/v1")
	assert.Contains(t, s, "name: my-db-service")
	assert.Contains(t, s, "\n---\n")
}
