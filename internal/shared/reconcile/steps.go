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

package reconcile

import (
	"context"
	"maps"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/failure"
)

// PrepareDatabase provides the DBMS capability of owner and records it under
// the db qualifier. An embedded vendor needs no capability: the qualifier is
// IGNORED and no connection info is returned.
func (d *Dependencies) PrepareDatabase(ctx context.Context, owner entandov1alpha1.EntandoResource, kind string,
	vendor entandov1alpha1.DbmsVendor, parameters map[string]string, resolution *entandov1alpha1.CapabilityResolution) (*deployable.DatabaseConnectionInfo, error) {
	if vendor == entandov1alpha1.DbmsEmbedded {
		return nil, d.Status.UpdateServerStatus(ctx, owner, entandov1alpha1.ServerStatus{
			Qualifier: entandov1alpha1.QualifierDB,
			Type:      entandov1alpha1.ServerStatusDbServer,
			Phase:     entandov1alpha1.PhaseIgnored,
		})
	}

	info, ss, err := d.provideDatabase(ctx, owner, vendor, parameters, resolution)
	if err != nil {
		err = failure.Wrap(err, "Could not prepare DBMS capability for %s %s/%s", kind, owner.GetNamespace(), owner.GetName())
		return nil, d.Fail(ctx, owner, err, entandov1alpha1.QualifierDB)
	}
	ss.Qualifier = entandov1alpha1.QualifierDB
	ss.Type = entandov1alpha1.ServerStatusDbServer
	if err := d.Status.UpdateServerStatus(ctx, owner, ss); err != nil {
		return nil, err
	}
	return info, nil
}

func (d *Dependencies) provideDatabase(ctx context.Context, owner entandov1alpha1.EntandoResource,
	vendor entandov1alpha1.DbmsVendor, parameters map[string]string, resolution *entandov1alpha1.CapabilityResolution) (*deployable.DatabaseConnectionInfo, entandov1alpha1.ServerStatus, error) {
	vc, err := deployable.VendorFor(vendor)
	if err != nil {
		return nil, entandov1alpha1.ServerStatus{}, err
	}
	req := entandov1alpha1.CapabilityRequirement{
		Capability:           entandov1alpha1.CapabilityDBMS,
		Implementation:       vc.Implementation(),
		CapabilityParameters: maps.Clone(parameters),
	}
	resolution.ApplyTo(&req)
	capability, err := d.Provider.ProvideCapability(ctx, owner, req, d.Config.CapabilityTimeout())
	if err != nil {
		return nil, entandov1alpha1.ServerStatus{}, err
	}
	info, err := deployable.NewDatabaseConnectionInfo(capability)
	if err != nil {
		return nil, entandov1alpha1.ServerStatus{}, err
	}
	ss, _ := capability.Status.ForQualifier(entandov1alpha1.QualifierMain)
	return info, consumed(ss), nil
}

// PrepareSSO provides the SSO capability of owner and records it under the
// sso qualifier.
func (d *Dependencies) PrepareSSO(ctx context.Context, owner entandov1alpha1.EntandoResource, kind string,
	keycloak *entandov1alpha1.KeycloakToUse) (*deployable.SsoConnectionInfo, error) {
	req := entandov1alpha1.CapabilityRequirement{Capability: entandov1alpha1.CapabilitySSO}
	var realm, clientID string
	if keycloak != nil {
		keycloak.CapabilityResolution.ApplyTo(&req)
		realm, clientID = keycloak.Realm, keycloak.PublicClientID
	}

	capability, err := d.Provider.ProvideCapability(ctx, owner, req, d.Config.CapabilityTimeout())
	var info *deployable.SsoConnectionInfo
	if err == nil {
		info, err = deployable.NewSsoConnectionInfo(capability, realm, clientID)
	}
	if err != nil {
		err = failure.Wrap(err, "Could not prepare SSO capability for %s %s/%s", kind, owner.GetNamespace(), owner.GetName())
		return nil, d.Fail(ctx, owner, err, entandov1alpha1.QualifierSSO)
	}

	ss, _ := capability.Status.ForQualifier(entandov1alpha1.QualifierMain)
	ss = consumed(ss)
	ss.Qualifier = entandov1alpha1.QualifierSSO
	if err := d.Status.UpdateServerStatus(ctx, owner, ss); err != nil {
		return nil, err
	}
	return info, nil
}

// consumed turns the status of a capability into the status its consumer records.
func consumed(ss entandov1alpha1.ServerStatus) entandov1alpha1.ServerStatus {
	ss.Phase = entandov1alpha1.PhaseSuccessful
	ss.EntandoControllerFailure = nil
	ss.OriginatingControllerPod = ""
	ss.Started = nil
	ss.Finished = nil
	return ss
}

// Deploy runs d through the deployment processor within the deployment
// budget. An expired budget is reported as
// "Could not complete deployment of <kind> in <N> seconds".
func (d *Dependencies) Deploy(ctx context.Context, kind string, dep *deployable.Deployable) error {
	budget := d.Config.DeploymentBudget()
	if dep.Kind == "" {
		dep.Kind = kind
	}
	if _, err := d.Processor.ProcessDeployable(ctx, dep, budget); err != nil {
		if failure.IsTimeout(err) {
			err = failure.Wrap(err, "Could not complete deployment of %s in %d seconds", kind, int(budget.Seconds()))
		}
		return d.Fail(ctx, dep.Owner, err, dep.StatusQualifier())
	}
	return nil
}

// Finish derives the overall phase of owner from its server statuses.
func (d *Dependencies) Finish(ctx context.Context, owner entandov1alpha1.EntandoResource, required ...string) error {
	phase, err := d.Status.Finalize(ctx, owner, required...)
	if err != nil {
		return err
	}
	logf.FromContext(ctx).Info("Reconciliation finished", "phase", phase)
	if phase == entandov1alpha1.PhaseFailed {
		return failure.FromStatus(owner.GetEntandoStatus().FirstFailure())
	}
	return nil
}

// Fail records err against qualifier of owner and returns it.
func (d *Dependencies) Fail(ctx context.Context, owner entandov1alpha1.EntandoResource, err error, qualifier string) error {
	if statusErr := d.Status.DeploymentFailed(ctx, owner, err, qualifier); statusErr != nil {
		logf.FromContext(ctx).Error(statusErr, "Failed to record failure", "qualifier", qualifier)
	}
	return err
}

// RequireSecret fails unless the secret name exists in namespace.
func (d *Dependencies) RequireSecret(ctx context.Context, namespace, name string) error {
	exists, err := d.Secrets.SecretExists(ctx, namespace, name)
	if err != nil {
		return err
	}
	if !exists {
		return failure.NewControllerError("Please ensure that a secret with the name '%s' exists in the requested namespace %s", name, namespace)
	}
	return nil
}
