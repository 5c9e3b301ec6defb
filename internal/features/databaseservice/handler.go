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

package databaseservice

import (
	"context"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/dbprobe"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/shared/reconcile"
)

// Messages reported for an incomplete external database service.
const (
	MsgMissingHost        = "Please provide the hostname of the database service you intend to connect to"
	MsgMissingAdminSecret = "Please provide the name of the secret containing the admin credentials for the database service you intend to connect to"
	MsgMissingDatabase    = "Please provide the name of the database you intend to connect to"
)

// Handler contains the business logic of the database service controller.
type Handler struct {
	deps   *reconcile.Dependencies
	logger logr.Logger
}

// HandlerConfig holds dependencies for the handler.
type HandlerConfig struct {
	Dependencies *reconcile.Dependencies
	Logger       logr.Logger
}

// NewHandler creates a new database service handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{deps: cfg.Dependencies, logger: cfg.Logger}
}

// Run deploys or registers the DBMS of the database service named by rc and
// records the outcome under the main qualifier.
// Implements API.Run
func (h *Handler) Run(ctx context.Context, rc *config.ReconciliationContext) error {
	log := logf.FromContext(ctx).WithValues("entandodatabaseservice", rc.Key())

	dbs := &entandov1alpha1.EntandoDatabaseService{}
	if err := h.deps.Client.Get(ctx, rc.Key(), dbs); err != nil {
		if apierrors.IsNotFound(err) {
			log.Info("Database service no longer exists")
			return nil
		}
		return err
	}
	if err := h.deps.Status.DeploymentStarted(ctx, dbs); err != nil {
		return err
	}

	vendor, err := deployable.VendorFor(dbs.DbmsVendor())
	if err != nil {
		return h.deps.Fail(ctx, dbs, failure.Wrap(err, "Could not resolve the DBMS of %s/%s", dbs.Namespace, dbs.Name), entandov1alpha1.QualifierMain)
	}

	if dbs.Strategy() == entandov1alpha1.UseExternal {
		if err := h.validateExternal(ctx, dbs); err != nil {
			return h.deps.Fail(ctx, dbs, err, entandov1alpha1.QualifierMain)
		}
		if rc.Config().VerifyExternalDatabases {
			if err := h.verifyExternal(ctx, dbs, vendor); err != nil {
				return h.deps.Fail(ctx, dbs, err, entandov1alpha1.QualifierMain)
			}
		}
		log.Info("Registering external database service", "host", dbs.Spec.ExternallyProvidedService.Host)
		if err := h.deps.Deploy(ctx, entandov1alpha1.KindEntandoDatabaseService, NewExternalDeployable(dbs, vendor)); err != nil {
			return err
		}
		return h.deps.Finish(ctx, dbs, entandov1alpha1.QualifierMain)
	}

	if !vendor.DeployableDirectly {
		return h.deps.Fail(ctx, dbs, failure.NewControllerError(
			"The DBMS %s cannot be deployed directly, please connect to an external %s server instead", vendor.Vendor, vendor.Vendor),
			entandov1alpha1.QualifierMain)
	}
	log.Info("Deploying database service", "vendor", vendor.Vendor)
	if err := h.deps.Deploy(ctx, entandov1alpha1.KindEntandoDatabaseService, NewDeployable(dbs, vendor, rc.Config().ComplianceMode)); err != nil {
		return err
	}
	return h.deps.Finish(ctx, dbs, entandov1alpha1.QualifierMain)
}

// validateExternal checks that an external database service can be connected to.
func (h *Handler) validateExternal(ctx context.Context, dbs *entandov1alpha1.EntandoDatabaseService) error {
	ext := dbs.Spec.ExternallyProvidedService
	if ext == nil || ext.Host == "" {
		return failure.NewControllerError(MsgMissingHost)
	}
	if ext.AdminSecretName == "" {
		return failure.NewControllerError(MsgMissingAdminSecret)
	}
	if dbs.Spec.DatabaseName == "" {
		return failure.NewControllerError(MsgMissingDatabase)
	}
	return h.deps.RequireSecret(ctx, dbs.Namespace, ext.AdminSecretName)
}

// verifyExternal connects to the external database with the admin credentials.
func (h *Handler) verifyExternal(ctx context.Context, dbs *entandov1alpha1.EntandoDatabaseService, vendor deployable.VendorConfig) error {
	ext := dbs.Spec.ExternallyProvidedService
	creds, err := h.deps.Secrets.GetCredentials(ctx, dbs.Namespace, ext.AdminSecretName)
	if err != nil {
		return err
	}
	port := vendor.Port
	if ext.Port != nil {
		port = *ext.Port
	}
	target := dbprobe.Target{
		Vendor:   vendor.Vendor,
		Host:     ext.Host,
		Port:     port,
		Database: dbs.Spec.DatabaseName,
		Username: creds.Username,
		Password: creds.Password,
		Timeout:  dbprobe.DefaultTimeout,
	}
	if err := h.deps.Prober.Probe(ctx, target); err != nil {
		return failure.Wrap(err, "Could not connect to the database service at %s:%d", ext.Host, port)
	}
	return nil
}

var _ API = (*Handler)(nil)
