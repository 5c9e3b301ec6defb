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

package testutil

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// Fixture values used across scenario tests.
const (
	TestDatabaseName = "my_db"
	TestRealm        = "my-realm"
	TestPluginName   = "my-plugin"
)

// NewEntandoApp returns a PostgreSQL-backed app using realm my-realm.
func NewEntandoApp(name, namespace string) *entandov1alpha1.EntandoApp {
	return &entandov1alpha1.EntandoApp{
		ObjectMeta: metav1.ObjectMeta{
			Name:       name,
			Namespace:  namespace,
			Generation: 1,
		},
		Spec: entandov1alpha1.EntandoAppSpec{
			Dbms:            entandov1alpha1.DbmsPostgreSQL,
			DbmsParameters:  map[string]string{entandov1alpha1.ParameterDatabaseName: TestDatabaseName},
			KeycloakToUse:   &entandov1alpha1.KeycloakToUse{Realm: TestRealm},
			IngressHostName: name + ".apps.example.com",
		},
	}
}

// NewEntandoPlugin returns a PostgreSQL-backed plugin served under /my-plugin.
func NewEntandoPlugin(name, namespace string) *entandov1alpha1.EntandoPlugin {
	return &entandov1alpha1.EntandoPlugin{
		ObjectMeta: metav1.ObjectMeta{
			Name:       name,
			Namespace:  namespace,
			Generation: 1,
		},
		Spec: entandov1alpha1.EntandoPluginSpec{
			Image:           "entando/my-plugin:1.0.0",
			Dbms:            entandov1alpha1.DbmsPostgreSQL,
			DbmsParameters:  map[string]string{entandov1alpha1.ParameterDatabaseName: TestDatabaseName},
			KeycloakToUse:   &entandov1alpha1.KeycloakToUse{Realm: TestRealm},
			IngressPath:     "/" + name,
			HealthCheckPath: "/actuator/health",
		},
	}
}

// NewEntandoDatabaseService returns a directly deployed database service.
func NewEntandoDatabaseService(name, namespace string, vendor entandov1alpha1.DbmsVendor) *entandov1alpha1.EntandoDatabaseService {
	return &entandov1alpha1.EntandoDatabaseService{
		ObjectMeta: metav1.ObjectMeta{
			Name:       name,
			Namespace:  namespace,
			Generation: 1,
		},
		Spec: entandov1alpha1.EntandoDatabaseServiceSpec{
			Dbms:                 vendor,
			ProvisioningStrategy: entandov1alpha1.DeployDirectly,
			DatabaseName:         TestDatabaseName,
		},
	}
}

// NewExternalDatabaseService returns a database service pointing at an external server.
func NewExternalDatabaseService(name, namespace, host, adminSecret string) *entandov1alpha1.EntandoDatabaseService {
	port := int32(5432)
	dbs := NewEntandoDatabaseService(name, namespace, entandov1alpha1.DbmsPostgreSQL)
	dbs.Spec.ProvisioningStrategy = entandov1alpha1.UseExternal
	dbs.Spec.ExternallyProvidedService = &entandov1alpha1.ExternallyProvidedService{
		Host:            host,
		Port:            &port,
		AdminSecretName: adminSecret,
	}
	return dbs
}

// NewEntandoKeycloakServer returns a directly deployed Keycloak with an embedded database.
func NewEntandoKeycloakServer(name, namespace string) *entandov1alpha1.EntandoKeycloakServer {
	return &entandov1alpha1.EntandoKeycloakServer{
		ObjectMeta: metav1.ObjectMeta{
			Name:       name,
			Namespace:  namespace,
			Generation: 1,
		},
		Spec: entandov1alpha1.EntandoKeycloakServerSpec{
			Dbms:                 entandov1alpha1.DbmsEmbedded,
			ProvisioningStrategy: entandov1alpha1.DeployDirectly,
			IngressHostName:      name + ".apps.example.com",
		},
	}
}

// NewAdminSecret returns a secret holding admin credentials.
func NewAdminSecret(name, namespace string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			"username": []byte("admin"),
			"password": []byte("s3cr3t"),
		},
	}
}
