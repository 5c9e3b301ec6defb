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
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// Namespace returns a namespace object.
func Namespace(name string) *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
}

// ToUnstructured converts a typed Entando resource for the dynamic client.
func ToUnstructured(obj runtime.Object, kind string) (*unstructured.Unstructured, error) {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, err
	}
	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(entandov1alpha1.GroupVersion.WithKind(kind))
	return u, nil
}

// DatabaseService returns a directly deployed database service.
func DatabaseService(name, namespace string, vendor entandov1alpha1.DbmsVendor) *entandov1alpha1.EntandoDatabaseService {
	return &entandov1alpha1.EntandoDatabaseService{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: entandov1alpha1.EntandoDatabaseServiceSpec{
			Dbms:                 vendor,
			ProvisioningStrategy: entandov1alpha1.DeployDirectly,
		},
	}
}

// ExternalDatabaseService returns a database service pointing at host.
func ExternalDatabaseService(name, namespace, host, adminSecret string) *entandov1alpha1.EntandoDatabaseService {
	dbs := DatabaseService(name, namespace, entandov1alpha1.DbmsPostgreSQL)
	dbs.Spec.ProvisioningStrategy = entandov1alpha1.UseExternal
	dbs.Spec.ExternallyProvidedService = &entandov1alpha1.ExternallyProvidedService{
		Host:            host,
		AdminSecretName: adminSecret,
	}
	return dbs
}

// KeycloakServer returns a Keycloak server with an embedded database.
func KeycloakServer(name, namespace, host string) *entandov1alpha1.EntandoKeycloakServer {
	return &entandov1alpha1.EntandoKeycloakServer{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: entandov1alpha1.EntandoKeycloakServerSpec{
			Dbms:                 entandov1alpha1.DbmsEmbedded,
			ProvisioningStrategy: entandov1alpha1.DeployDirectly,
			IngressHostName:      host,
		},
	}
}

// App returns a PostgreSQL-backed app served on host.
func App(name, namespace, host string) *entandov1alpha1.EntandoApp {
	return &entandov1alpha1.EntandoApp{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: entandov1alpha1.EntandoAppSpec{
			Dbms:            entandov1alpha1.DbmsPostgreSQL,
			IngressHostName: host,
		},
	}
}
