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

package providedcapability

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/failure"
)

// backing describes the resource that satisfies a capability.
type backing struct {
	kind string
	obj  entandov1alpha1.EntandoResource
	// qualifier of the backing status copied into the capability.
	qualifier string
	// apply writes the desired spec onto the fetched or new object.
	apply func()
}

// backingFor returns the backing resource of pc, named and namespaced like pc.
func backingFor(pc *entandov1alpha1.ProvidedCapability) (*backing, error) {
	meta := metav1.ObjectMeta{Name: pc.Name, Namespace: pc.Namespace}
	req := pc.Spec.CapabilityRequirement

	switch req.Capability {
	case entandov1alpha1.CapabilityDBMS:
		vendor, err := vendorOf(req.Implementation)
		if err != nil {
			return nil, err
		}
		dbs := &entandov1alpha1.EntandoDatabaseService{ObjectMeta: meta}
		return &backing{
			kind:      entandov1alpha1.KindEntandoDatabaseService,
			obj:       dbs,
			qualifier: entandov1alpha1.QualifierMain,
			apply: func() {
				dbs.Spec.Dbms = vendor
				dbs.Spec.ProvisioningStrategy = req.Strategy()
				dbs.Spec.DatabaseName = req.CapabilityParameters[entandov1alpha1.ParameterDatabaseName]
				dbs.Spec.ExternallyProvidedService = req.ExternallyProvidedService.DeepCopy()
			},
		}, nil

	case entandov1alpha1.CapabilitySSO:
		kc := &entandov1alpha1.EntandoKeycloakServer{ObjectMeta: meta}
		return &backing{
			kind:      entandov1alpha1.KindEntandoKeycloakServer,
			obj:       kc,
			qualifier: entandov1alpha1.QualifierServer,
			apply: func() {
				kc.Spec.ProvisioningStrategy = req.Strategy()
				kc.Spec.ExternallyProvidedService = req.ExternallyProvidedService.DeepCopy()
			},
		}, nil
	}
	return nil, failure.NewControllerError("The capability %q is not supported", req.Capability)
}

func vendorOf(impl entandov1alpha1.StandardCapabilityImplementation) (entandov1alpha1.DbmsVendor, error) {
	switch impl {
	case entandov1alpha1.ImplementationPostgreSQL, "":
		return entandov1alpha1.DbmsPostgreSQL, nil
	case entandov1alpha1.ImplementationMySQL:
		return entandov1alpha1.DbmsMySQL, nil
	case entandov1alpha1.ImplementationOracle:
		return entandov1alpha1.DbmsOracle, nil
	}
	return "", failure.NewControllerError("The DBMS implementation %q is not supported", impl)
}
