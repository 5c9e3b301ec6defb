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

// EntandoAppSpec defines the desired state of EntandoApp.
type EntandoAppSpec struct {
	// +kubebuilder:default=postgresql
	// +optional
	Dbms DbmsVendor `json:"dbms,omitempty"`

	// DbmsParameters are passed to the DBMS capability, e.g. databaseName.
	// +optional
	DbmsParameters map[string]string `json:"dbmsParameters,omitempty"`

	// +optional
	DatabaseToUse *CapabilityResolution `json:"databaseToUse,omitempty"`

	// +optional
	KeycloakToUse *KeycloakToUse `json:"keycloakToUse,omitempty"`

	// +optional
	IngressHostName string `json:"ingressHostName,omitempty"`

	// +optional
	TLSSecretName string `json:"tlsSecretName,omitempty"`

	// +kubebuilder:validation:Minimum=0
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

	// CustomServerImage replaces the default Entando server image.
	// +optional
	CustomServerImage string `json:"customServerImage,omitempty"`

	// +optional
	EnvironmentVariables []corev1.EnvVar `json:"environmentVariables,omitempty"`

	// +optional
	StorageClass string `json:"storageClass,omitempty"`

	// StorageSize overrides the size of persistent volumes, for example 5Gi.
	// +optional
	StorageSize string `json:"storageSize,omitempty"`

	// +kubebuilder:validation:Enum=ReadWriteOnce;ReadOnlyMany;ReadWriteMany;ReadWriteOncePod
	// +optional
	StorageAccessMode string `json:"storageAccessMode,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=app
// +kubebuilder:printcolumn:name="Dbms",type=string,JSONPath=`.spec.dbms`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// EntandoApp is the Schema for the entandoapps API.
type EntandoApp struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EntandoAppSpec `json:"spec,omitempty"`
	Status EntandoStatus  `json:"status,omitempty"`
}

// GetEntandoStatus implements EntandoResource.
func (in *EntandoApp) GetEntandoStatus() *EntandoStatus {
	return &in.Status
}

// DbmsVendor returns the configured vendor, defaulting to PostgreSQL.
func (in *EntandoApp) DbmsVendor() DbmsVendor {
	if in.Spec.Dbms == "" {
		return DbmsPostgreSQL
	}
	return in.Spec.Dbms
}

// SpecEquals reports whether both apps declare the same desired state.
func (in *EntandoApp) SpecEquals(other *EntandoApp) bool {
	return other != nil && equality.Semantic.DeepEqual(in.Spec, other.Spec)
}

// +kubebuilder:object:root=true

// EntandoAppList contains a list of EntandoApp.
type EntandoAppList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []EntandoApp `json:"items"`
}

func init() {
	SchemeBuilder.Register(&EntandoApp{}, &EntandoAppList{})
}
