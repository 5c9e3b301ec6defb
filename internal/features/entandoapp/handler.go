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

package entandoapp

import (
	"context"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// Handler contains the business logic of the app controller.
type Handler struct {
	deps   *reconcile.Dependencies
	logger logr.Logger
}

// HandlerConfig holds dependencies for the handler.
type HandlerConfig struct {
	Dependencies *reconcile.Dependencies
	Logger       logr.Logger
}

// NewHandler creates a new app handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{deps: cfg.Dependencies, logger: cfg.Logger}
}

// Run provisions the database and SSO capabilities of the app named by rc,
// then deploys the Entando server, the component manager and the app
// builder in that order. The first failure ends the run.
// Implements API.Run
func (h *Handler) Run(ctx context.Context, rc *config.ReconciliationContext) error {
	log := logf.FromContext(ctx).WithValues("entandoapp", rc.Key())

	app := &entandov1alpha1.EntandoApp{}
	if err := h.deps.Client.Get(ctx, rc.Key(), app); err != nil {
		if apierrors.IsNotFound(err) {
			log.Info("App no longer exists")
			return nil
		}
		return err
	}
	if err := h.deps.Status.DeploymentStarted(ctx, app); err != nil {
		return err
	}

	db, err := h.deps.PrepareDatabase(ctx, app, entandov1alpha1.KindEntandoApp,
		app.DbmsVendor(), app.Spec.DbmsParameters, app.Spec.DatabaseToUse)
	if err != nil {
		return err
	}
	sso, err := h.deps.PrepareSSO(ctx, app, entandov1alpha1.KindEntandoApp, app.Spec.KeycloakToUse)
	if err != nil {
		return err
	}

	mode := rc.Config().ComplianceMode
	for _, d := range []*deployable.Deployable{
		NewServerDeployable(app, db, sso, mode),
		NewComponentManagerDeployable(app, db, sso, mode),
		NewAppBuilderDeployable(app, mode),
	} {
		log.Info("Deploying app component", "qualifier", d.StatusQualifier())
		if err := h.deps.Deploy(ctx, entandov1alpha1.KindEntandoApp, d); err != nil {
			return err
		}
	}
	return h.deps.Finish(ctx, app,
		entandov1alpha1.QualifierDB, entandov1alpha1.QualifierSSO, entandov1alpha1.QualifierServer,
		QualifierComponentManager, QualifierAppBuilder)
}

var _ API = (*Handler)(nil)
