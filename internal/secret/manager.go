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

// Package secret creates and reads the credential secrets generated for
// Entando deployments.
package secret

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// Keys used in generated secrets.
const (
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeyClientID     = "clientId"
	KeyClientSecret = "clientSecret"
)

const defaultPasswordLength = 16

// passwordCharset omits symbols so passwords survive JDBC URLs and shell scripts unquoted.
const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Manager handles secret operations
type Manager struct {
	client client.Client
	scheme *runtime.Scheme
}

// NewManager creates a new secret manager
func NewManager(c client.Client, scheme *runtime.Scheme) *Manager {
	return &Manager{client: c, scheme: scheme}
}

// Credentials holds username and password
type Credentials struct {
	Username string
	Password string
}

// GetCredentials reads the username and password keys of a secret.
func (m *Manager) GetCredentials(ctx context.Context, namespace, name string) (*Credentials, error) {
	secret := &corev1.Secret{}
	if err := m.client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, secret); err != nil {
		return nil, err
	}

	username, ok := secret.Data[KeyUsername]
	if !ok {
		return nil, fmt.Errorf("secret %s does not contain key %s", name, KeyUsername)
	}
	password, ok := secret.Data[KeyPassword]
	if !ok {
		return nil, fmt.Errorf("secret %s does not contain key %s", name, KeyPassword)
	}

	return &Credentials{Username: string(username), Password: string(password)}, nil
}

// GeneratePassword returns a random alphanumeric password. Non-positive
// lengths fall back to the default length.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = defaultPasswordLength
	}

	password := make([]byte, length)
	charsetLen := big.NewInt(int64(len(passwordCharset)))
	for i := range password {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		password[i] = passwordCharset[idx.Int64()]
	}

	return string(password), nil
}

// EnsureSecret creates the secret in the owner's namespace when it does not
// exist yet. An existing secret is left untouched so generated credentials
// stay stable across reconciliations. It reports whether the secret was created.
func (m *Manager) EnsureSecret(ctx context.Context, owner client.Object, name string, data map[string][]byte) (bool, error) {
	exists, err := m.SecretExists(ctx, owner.GetNamespace(), name)
	if err != nil || exists {
		return false, err
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: owner.GetNamespace(),
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}
	if err := controllerutil.SetControllerReference(owner, secret, m.scheme); err != nil {
		return false, fmt.Errorf("failed to set controller reference: %w", err)
	}

	if err := m.client.Create(ctx, secret); err != nil {
		if errors.IsAlreadyExists(err) {
			return false, nil
		}
		return false, fmt.Errorf("create secret %s: %w", name, err)
	}
	return true, nil
}

// EnsureCredentials ensures a username/password secret exists, generating the
// password on first creation.
func (m *Manager) EnsureCredentials(ctx context.Context, owner client.Object, name, username string) (bool, error) {
	exists, err := m.SecretExists(ctx, owner.GetNamespace(), name)
	if err != nil || exists {
		return false, err
	}
	password, err := GeneratePassword(defaultPasswordLength)
	if err != nil {
		return false, err
	}
	return m.EnsureSecret(ctx, owner, name, map[string][]byte{
		KeyUsername: []byte(username),
		KeyPassword: []byte(password),
	})
}

// CopySecret copies the data of source into a secret called name in the
// owner's namespace, unless that secret already exists.
func (m *Manager) CopySecret(ctx context.Context, source types.NamespacedName, owner client.Object, name string) error {
	if source.Namespace == owner.GetNamespace() && source.Name == name {
		return nil
	}
	original := &corev1.Secret{}
	if err := m.client.Get(ctx, source, original); err != nil {
		return fmt.Errorf("get secret %s: %w", source, err)
	}
	_, err := m.EnsureSecret(ctx, owner, name, original.Data)
	return err
}

// SecretExists checks if a secret exists
func (m *Manager) SecretExists(ctx context.Context, namespace, name string) (bool, error) {
	secret := &corev1.Secret{}
	err := m.client.Get(ctx, types.NamespacedName{
		Namespace: namespace,
		Name:      name,
	}, secret)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
