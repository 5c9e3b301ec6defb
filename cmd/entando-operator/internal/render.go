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

package internal

import (
	"fmt"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/capability"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/deployment"
	"github.com/entando-k8s-operator/internal/features/databaseservice"
	"github.com/entando-k8s-operator/internal/features/entandoapp"
	"github.com/entando-k8s-operator/internal/features/keycloakserver"
	"github.com/entando-k8s-operator/internal/features/plugin"
)

// Renderer produces the Kubernetes objects the operator would apply for a
// resource, without a cluster. Capabilities are assumed to resolve to the
// services the operator would deploy for them.
type Renderer struct {
	cfg     config.OperatorConfig
	builder *deployment.Builder
	// SSOBaseURL replaces the assumed base URL of the SSO capability when set.
	SSOBaseURL string
}

// NewRenderer creates a Renderer for the given operator configuration.
func NewRenderer(cfg config.OperatorConfig) *Renderer {
	return &Renderer{cfg: cfg, builder: deployment.NewBuilder(cfg)}
}

// Render returns the objects of every Deployable of resource, in deployment order.
func (r *Renderer) Render(resource entandov1alpha1.EntandoResource) ([]client.Object, error) {
	deployables, err := r.Deployables(resource)
	if err != nil {
		return nil, err
	}
	var objs []client.Object
	for _, d := range deployables {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		objs = append(objs, r.builder.Render(d)...)
	}
	return objs, nil
}

// Deployables returns the Deployables the controller of resource would process.
func (r *Renderer) Deployables(resource entandov1alpha1.EntandoResource) ([]*deployable.Deployable, error) {
	mode := r.cfg.ComplianceMode
	switch res := resource.(type) {
	case *entandov1alpha1.EntandoDatabaseService:
		vendor, err := deployable.VendorFor(res.DbmsVendor())
		if err != nil {
			return nil, err
		}
		if res.Strategy() == entandov1alpha1.UseExternal {
			if res.Spec.ExternallyProvidedService == nil {
				return nil, fmt.Errorf("%s has no externallyProvidedService", res.Name)
			}
			return []*deployable.Deployable{databaseservice.NewExternalDeployable(res, vendor)}, nil
		}
		return []*deployable.Deployable{databaseservice.NewDeployable(res, vendor, mode)}, nil

	case *entandov1alpha1.EntandoKeycloakServer:
		if res.Strategy() == entandov1alpha1.UseExternal {
			d, err := keycloakserver.NewExternalDeployable(res)
			if err != nil {
				return nil, err
			}
			return []*deployable.Deployable{d}, nil
		}
		db, err := r.database(res, res.DbmsVendor(), nil, res.Spec.DatabaseToUse)
		if err != nil {
			return nil, err
		}
		return []*deployable.Deployable{keycloakserver.NewDeployable(res, db, mode)}, nil

	case *entandov1alpha1.EntandoApp:
		db, err := r.database(res, res.DbmsVendor(), res.Spec.DbmsParameters, res.Spec.DatabaseToUse)
		if err != nil {
			return nil, err
		}
		sso := r.sso(res, res.Spec.KeycloakToUse)
		return []*deployable.Deployable{
			entandoapp.NewServerDeployable(res, db, sso, mode),
			entandoapp.NewComponentManagerDeployable(res, db, sso, mode),
			entandoapp.NewAppBuilderDeployable(res, mode),
		}, nil

	case *entandov1alpha1.EntandoPlugin:
		db, err := r.database(res, res.DbmsVendor(), res.Spec.DbmsParameters, res.Spec.DatabaseToUse)
		if err != nil {
			return nil, err
		}
		return []*deployable.Deployable{plugin.NewDeployable(res, db, r.sso(res, res.Spec.KeycloakToUse))}, nil

	default:
		return nil, fmt.Errorf("%s %s is realized through the resource it provisions and has nothing to render",
			resource.GetObjectKind().GroupVersionKind().Kind, resource.GetName())
	}
}

// capabilityKey names the capability req would resolve to for owner, assuming
// no labeled capability exists yet.
func capabilityKey(owner entandov1alpha1.EntandoResource, req entandov1alpha1.CapabilityRequirement) (namespace, name string) {
	switch req.Scope() {
	case entandov1alpha1.ScopeSpecified:
		if ref := req.SpecifiedCapability; ref != nil && ref.Name != "" {
			if ref.Namespace != "" {
				return ref.Namespace, ref.Name
			}
			return owner.GetNamespace(), ref.Name
		}
	case entandov1alpha1.ScopeLabeled:
		return owner.GetNamespace(), capability.LabeledName(req)
	}
	return owner.GetNamespace(), capability.NamespaceDefaultName(req)
}

func (r *Renderer) database(owner entandov1alpha1.EntandoResource, vendor entandov1alpha1.DbmsVendor,
	parameters map[string]string, resolution *entandov1alpha1.CapabilityResolution) (*deployable.DatabaseConnectionInfo, error) {
	if vendor == entandov1alpha1.DbmsEmbedded {
		return nil, nil
	}
	vc, err := deployable.VendorFor(vendor)
	if err != nil {
		return nil, err
	}
	req := entandov1alpha1.CapabilityRequirement{
		Capability:           entandov1alpha1.CapabilityDBMS,
		Implementation:       vc.Implementation(),
		CapabilityParameters: parameters,
	}
	resolution.ApplyTo(&req)

	namespace, name := capabilityKey(owner, req)
	databaseName := parameters[deployable.ParamDatabaseName]
	if databaseName == "" {
		databaseName = strings.ReplaceAll(name, "-", "_") + "_db"
	}
	return &deployable.DatabaseConnectionInfo{
		Vendor:          vc,
		DatabaseName:    databaseName,
		ServiceName:     name + "-service",
		Namespace:       namespace,
		Port:            vc.Port,
		AdminSecretName: name + "-admin-secret",
	}, nil
}

func (r *Renderer) sso(owner entandov1alpha1.EntandoResource, keycloak *entandov1alpha1.KeycloakToUse) *deployable.SsoConnectionInfo {
	req := entandov1alpha1.CapabilityRequirement{Capability: entandov1alpha1.CapabilitySSO}
	info := &deployable.SsoConnectionInfo{
		Realm:          deployable.DefaultRealm,
		PublicClientID: deployable.DefaultPublicClientID,
	}
	if keycloak != nil {
		keycloak.CapabilityResolution.ApplyTo(&req)
		if keycloak.Realm != "" {
			info.Realm = keycloak.Realm
		}
		if keycloak.PublicClientID != "" {
			info.PublicClientID = keycloak.PublicClientID
		}
	}
	if req.Implementation == "" {
		req.Implementation = capability.DefaultImplementation(req.Capability)
	}

	namespace, name := capabilityKey(owner, req)
	info.Namespace = namespace
	info.AdminSecretName = name + "-admin-secret"
	info.BaseURL = r.SSOBaseURL
	if info.BaseURL == "" {
		info.BaseURL = fmt.Sprintf("http://%s-server-service.%s.svc.cluster.local:8080/auth", name, namespace)
	}
	return info
}
