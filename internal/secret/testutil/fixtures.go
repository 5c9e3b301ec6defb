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
	"k8s.io/apimachinery/pkg/types"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

const (
	// TestNamespace is the default namespace for test fixtures
	TestNamespace = "test-namespace"

	// TestCredentialSecretName is the default credential secret name
	TestCredentialSecretName = "test-credentials"

	// TestUsername is the default test username
	TestUsername = "testuser"

	// TestPassword is the default test password
	TestPassword = "testpassword123"
)

// NewCredentialSecret creates a credential secret for testing
func NewCredentialSecret(name, namespace string) *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			"username": []byte(TestUsername),
			"password": []byte(TestPassword),
		},
	}
}

// NewOwner returns an EntandoApp usable as the owner of generated secrets.
func NewOwner(name, namespace string) *entandov1alpha1.EntandoApp {
	return &entandov1alpha1.EntandoApp{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			UID:       types.UID(name + "-uid"),
		},
	}
}
