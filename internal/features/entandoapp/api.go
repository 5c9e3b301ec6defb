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

// Package entandoapp provides the EntandoApp feature module. An app is the
// Entando server together with its component manager and app builder, all
// served from one ingress.
package entandoapp

import (
	"context"

	"github.com/entando-k8s-operator/internal/config"
)

// API defines the public interface for the app module.
type API interface {
	// Run reconciles the app named by rc.
	Run(ctx context.Context, rc *config.ReconciliationContext) error
}
