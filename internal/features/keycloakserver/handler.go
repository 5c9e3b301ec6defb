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

package keycloakserver

import (
	"context"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// Messages reported for an incomplete external SSO service.
const (
	MsgMissingBaseURL     = "Please provide the base URL of the SSO service you intend to connect to"
	MsgMissingAdminSecret = "Please provide the name of the secret containing the admin credentials for the SSO service you intend to connect to"
)

// Handler contains the business logic of the Keycloak server controller.
type Handler struct {
	deps   *reconcile.Dependencies
	logger logr.Logger
}

// HandlerConfig holds dependencies for the handler.
type HandlerConfig struct {
	Dependencies *reconcile.Dependencies
	Logger       logr.Logger
}

// NewHandler creates a new Keycloak server handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{deps: cfg.Dependencies, logger: cfg.Logger}
}

// Run deploys or registers the Keycloak server named by rc. A deployed server
// first gets its database through a DBMS capability unless it uses the
// embedded store, in which case the db qualifier is IGNORED.
// Implements API.Run
func (h *Handler) Run(ctx context.Context, rc *config.ReconciliationContext) error {
	log := logf.FromContext(ctx).WithValues("entandokeycloakserver", rc.Key())

	kc := &entandov1alpha1.EntandoKeycloakServer{}
	if err := h.deps.Client.Get(ctx, rc.Key(), kc); err != nil {
		if apierrors.IsNotFound(err) {
			log.Info("Keycloak server no longer exists")
			return nil
		}
		return err
	}
	if err := h.deps.Status.DeploymentStarted(ctx, kc); err != nil {
		return err
	}

	if kc.Strategy() == entandov1alpha1.UseExternal {
		d, err := h.external(ctx, kc)
		if err != nil {
			return h.deps.Fail(ctx, kc, err, entandov1alpha1.QualifierServer)
		}
		log.Info("Registering external SSO service", "baseURL", d.External.BaseURL)
		if err := h.deps.Deploy(ctx, entandov1alpha1.KindEntandoKeycloakServer, d); err != nil {
			return err
		}
		return h.deps.Finish(ctx, kc, entandov1alpha1.QualifierServer)
	}

	db, err := h.deps.PrepareDatabase(ctx, kc, entandov1alpha1.KindEntandoKeycloakServer,
		kc.DbmsVendor(), nil, kc.Spec.DatabaseToUse)
	if err != nil {
		return err
	}
	log.Info("Deploying Keycloak server", "dbms", kc.DbmsVendor())
	if err := h.deps.Deploy(ctx, entandov1alpha1.KindEntandoKeycloakServer,
		NewDeployable(kc, db, rc.Config().ComplianceMode)); err != nil {
		return err
	}
	return h.deps.Finish(ctx, kc, entandov1alpha1.QualifierDB, entandov1alpha1.QualifierServer)
}

func (h *Handler) external(ctx context.Context, kc *entandov1alpha1.EntandoKeycloakServer) (*deployable.Deployable, error) {
	ext := kc.Spec.ExternallyProvidedService
	if ext == nil || ext.Host == "" {
		return nil, failure.NewControllerError(MsgMissingBaseURL)
	}
	if ext.AdminSecretName == "" {
		return nil, failure.NewControllerError(MsgMissingAdminSecret)
	}
	if err := h.deps.RequireSecret(ctx, kc.Namespace, ext.AdminSecretName); err != nil {
		return nil, err
	}
	d, err := NewExternalDeployable(kc)
	if err != nil {
		return nil, failure.Wrap(err, MsgMissingBaseURL)
	}
	return d, nil
}

var _ API = (*Handler)(nil)
