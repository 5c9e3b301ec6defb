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

package plugin

import (
	"context"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// MsgMissingImage is reported for a plugin without an image.
const MsgMissingImage = "Please provide the image of the plugin"

// Handler contains the business logic of the plugin controller.
type Handler struct {
	deps   *reconcile.Dependencies
	logger logr.Logger
}

// HandlerConfig holds dependencies for the handler.
type HandlerConfig struct {
	Dependencies *reconcile.Dependencies
	Logger       logr.Logger
}

// NewHandler creates a new plugin handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{deps: cfg.Dependencies, logger: cfg.Logger}
}

// Run provisions the database and SSO capabilities of the plugin named by
// rc and deploys its server.
// Implements API.Run
func (h *Handler) Run(ctx context.Context, rc *config.ReconciliationContext) error {
	log := logf.FromContext(ctx).WithValues("entandoplugin", rc.Key())

	p := &entandov1alpha1.EntandoPlugin{}
	if err := h.deps.Client.Get(ctx, rc.Key(), p); err != nil {
		if apierrors.IsNotFound(err) {
			log.Info("Plugin no longer exists")
			return nil
		}
		return err
	}
	if err := h.deps.Status.DeploymentStarted(ctx, p); err != nil {
		return err
	}
	if p.Spec.Image == "" {
		return h.deps.Fail(ctx, p, failure.NewControllerError(MsgMissingImage), entandov1alpha1.QualifierServer)
	}

	db, err := h.deps.PrepareDatabase(ctx, p, entandov1alpha1.KindEntandoPlugin,
		p.DbmsVendor(), p.Spec.DbmsParameters, p.Spec.DatabaseToUse)
	if err != nil {
		return err
	}
	sso, err := h.deps.PrepareSSO(ctx, p, entandov1alpha1.KindEntandoPlugin, p.Spec.KeycloakToUse)
	if err != nil {
		return err
	}

	log.Info("Deploying plugin", "image", p.Spec.Image)
	if err := h.deps.Deploy(ctx, entandov1alpha1.KindEntandoPlugin, NewDeployable(p, db, sso)); err != nil {
		return err
	}
	return h.deps.Finish(ctx, p,
		entandov1alpha1.QualifierDB, entandov1alpha1.QualifierSSO, entandov1alpha1.QualifierServer)
}

var _ API = (*Handler)(nil)
