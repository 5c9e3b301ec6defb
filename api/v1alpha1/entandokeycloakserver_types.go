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

// EntandoKeycloakServerSpec defines the desired state of EntandoKeycloakServer.
type EntandoKeycloakServerSpec struct {
	// Dbms selects the database Keycloak stores its realms in.
	// +kubebuilder:default=embedded
	// +optional
	Dbms DbmsVendor `json:"dbms,omitempty"`

	// +optional
	DatabaseToUse *CapabilityResolution `json:"databaseToUse,omitempty"`

	// +kubebuilder:default=DeployDirectly
	// +optional
	ProvisioningStrategy CapabilityProvisioningStrategy `json:"provisioningStrategy,omitempty"`

	// +optional
	ExternallyProvidedService *ExternallyProvidedService `json:"externallyProvidedService,omitempty"`

	// +optional
	IngressHostName string `json:"ingressHostName,omitempty"`

	// +optional
	TLSSecretName string `json:"tlsSecretName,omitempty"`

	// +optional
	CustomImage string `json:"customImage,omitempty"`

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
// +kubebuilder:resource:shortName=kc
// +kubebuilder:printcolumn:name="Strategy",type=string,JSONPath=`.spec.provisioningStrategy`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// EntandoKeycloakServer is the Schema for the entandokeycloakservers API.
type EntandoKeycloakServer struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EntandoKeycloakServerSpec `json:"spec,omitempty"`
	Status EntandoStatus             `json:"status,omitempty"`
}

// GetEntandoStatus implements EntandoResource.
func (in *EntandoKeycloakServer) GetEntandoStatus() *EntandoStatus {
	return &in.Status
}

// DbmsVendor returns the configured vendor, defaulting to the embedded store.
func (in *EntandoKeycloakServer) DbmsVendor() DbmsVendor {
	if in.Spec.Dbms == "" {
		return DbmsEmbedded
	}
	return in.Spec.Dbms
}

// Strategy returns the provisioning strategy, defaulting to DeployDirectly.
func (in *EntandoKeycloakServer) Strategy() CapabilityProvisioningStrategy {
	if in.Spec.ProvisioningStrategy == "" {
		return DeployDirectly
	}
	return in.Spec.ProvisioningStrategy
}

// SpecEquals reports whether both servers declare the same desired state.
func (in *EntandoKeycloakServer) SpecEquals(other *EntandoKeycloakServer) bool {
	return other != nil && equality.Semantic.DeepEqual(in.Spec, other.Spec)
}

// +kubebuilder:object:root=true

// EntandoKeycloakServerList contains a list of EntandoKeycloakServer.
type EntandoKeycloakServerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []EntandoKeycloakServer `json:"items"`
}

func init() {
	SchemeBuilder.Register(&EntandoKeycloakServer{}, &EntandoKeycloakServerList{})
}
