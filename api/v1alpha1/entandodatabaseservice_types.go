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

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// EntandoDatabaseServiceSpec defines the desired state of EntandoDatabaseService.
type EntandoDatabaseServiceSpec struct {
	// +kubebuilder:default=postgresql
	// +optional
	Dbms DbmsVendor `json:"dbms,omitempty"`

	// +kubebuilder:default=DeployDirectly
	// +optional
	ProvisioningStrategy CapabilityProvisioningStrategy `json:"provisioningStrategy,omitempty"`

	// DatabaseName is the database the schemas of all consumers are created in.
	// +optional
	DatabaseName string `json:"databaseName,omitempty"`

	// +optional
	ExternallyProvidedService *ExternallyProvidedService `json:"externallyProvidedService,omitempty"`

	// +optional
	StorageClass string `json:"storageClass,omitempty"`

	// StorageSize overrides the size of persistent volumes, for example 5Gi.
	// +optional
	StorageSize string `json:"storageSize,omitempty"`

	// +kubebuilder:validation:Enum=ReadWriteOnce;ReadOnlyMany;ReadWriteMany;ReadWriteOncePod
	// +optional
	StorageAccessMode string `json:"storageAccessMode,omitempty"`

	// +optional
	EnvironmentVariables []corev1.EnvVar `json:"environmentVariables,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=edbs
// +kubebuilder:printcolumn:name="Dbms",type=string,JSONPath=`.spec.dbms`
// +kubebuilder:printcolumn:name="Strategy",type=string,JSONPath=`.spec.provisioningStrategy`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// EntandoDatabaseService is the Schema for the entandodatabaseservices API.
type EntandoDatabaseService struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EntandoDatabaseServiceSpec `json:"spec,omitempty"`
	Status EntandoStatus              `json:"status,omitempty"`
}

// GetEntandoStatus implements EntandoResource.
func (in *EntandoDatabaseService) GetEntandoStatus() *EntandoStatus {
	return &in.Status
}

// DbmsVendor returns the configured vendor, defaulting to PostgreSQL.
func (in *EntandoDatabaseService) DbmsVendor() DbmsVendor {
	if in.Spec.Dbms == "" {
		return DbmsPostgreSQL
	}
	return in.Spec.Dbms
}

// Strategy returns the provisioning strategy, defaulting to DeployDirectly.
func (in *EntandoDatabaseService) Strategy() CapabilityProvisioningStrategy {
	if in.Spec.ProvisioningStrategy == "" {
		return DeployDirectly
	}
	return in.Spec.ProvisioningStrategy
}

// SpecEquals reports whether both services declare the same desired state.
func (in *EntandoDatabaseService) SpecEquals(other *EntandoDatabaseService) bool {
	return other != nil && equality.Semantic.DeepEqual(in.Spec, other.Spec)
}

// +kubebuilder:object:root=true

// EntandoDatabaseServiceList contains a list of EntandoDatabaseService.
type EntandoDatabaseServiceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []EntandoDatabaseService `json:"items"`
}

func init() {
	SchemeBuilder.Register(&EntandoDatabaseService{}, &EntandoDatabaseServiceList{})
}
