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

// Package testutil provides fixtures, a fake cluster and a simulator of the
// cluster-side behaviour that controllers wait for.
package testutil

import (
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// Namespaces and names shared by the fixtures.
const (
	TestNamespace = "my-namespace"
	TestAppName   = "my-app"
	TestPod       = "entando-operator-test"
)

// NewScheme returns a scheme with the core and Entando types registered.
func NewScheme() *runtime.Scheme {
	s := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(s); err != nil {
		panic(err)
	}
	if err := entandov1alpha1.AddToScheme(s); err != nil {
		panic(err)
	}
	return s
}

// NewFakeClient returns a fake client in which every Entando kind has a
// status subresource, mirroring the CRDs.
func NewFakeClient(s *runtime.Scheme, objs ...client.Object) client.WithWatch {
	return fake.NewClientBuilder().
		WithScheme(s).
		WithObjects(objs...).
		WithStatusSubresource(
			&entandov1alpha1.EntandoApp{},
			&entandov1alpha1.EntandoPlugin{},
			&entandov1alpha1.EntandoDatabaseService{},
			&entandov1alpha1.EntandoKeycloakServer{},
			&entandov1alpha1.ProvidedCapability{},
		).
		Build()
}
