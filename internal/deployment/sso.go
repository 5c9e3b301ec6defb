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

package deployment

import (
	"context"

	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/secret"
)

// SsoClientRegistrar registers confidential clients with the SSO server and
// returns the client secret the deployed container authenticates with.
type SsoClientRegistrar interface {
	RegisterClient(ctx context.Context, sso *deployable.SsoConnectionInfo, clientID string) (string, error)
}

// GeneratedSecretRegistrar hands out a random client secret and leaves the
// realm configuration to the Keycloak server's own provisioning.
type GeneratedSecretRegistrar struct{}

// RegisterClient implements SsoClientRegistrar.
func (GeneratedSecretRegistrar) RegisterClient(_ context.Context, _ *deployable.SsoConnectionInfo, _ string) (string, error) {
	return secret.GeneratePassword(32)
}
