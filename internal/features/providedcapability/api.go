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

// Package providedcapability provides the ProvidedCapability feature module.
// A capability is satisfied by a backing resource it owns: an
// EntandoDatabaseService for DBMS and an EntandoKeycloakServer for SSO.
package providedcapability

import (
	"context"

	"github.com/entando-k8s-operator/internal/config"
)

// API defines the public interface for the capability module.
type API interface {
	// Run reconciles the capability named by rc.
	Run(ctx context.Context, rc *config.ReconciliationContext) error
}
