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

// EntandoPluginSpec defines the desired state of EntandoPlugin.
type EntandoPluginSpec struct {
	// +kubebuilder:validation:Required
	Image string `json:"image"`

	// +kubebuilder:default=postgresql
	// +optional
	Dbms DbmsVendor `json:"dbms,omitempty"`

	// +optional
	DbmsParameters map[string]string `json:"dbmsParameters,omitempty"`

	// +optional
	DatabaseToUse *CapabilityResolution `json:"databaseToUse,omitempty"`

	// +optional
	KeycloakToUse *KeycloakToUse `json:"keycloakToUse,omitempty"`

	// IngressPath is the context path the plugin is served under.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:Pattern=`^/.*`
	IngressPath string `json:"ingressPath"`

	// +kubebuilder:default="/actuator/health"
	// +optional
	HealthCheckPath string `json:"healthCheckPath,omitempty"`

	// +optional
	IngressHostName string `json:"ingressHostName,omitempty"`

	// +optional
	TLSSecretName string `json:"tlsSecretName,omitempty"`

	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

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
// +kubebuilder:resource:shortName=pln
// +kubebuilder:printcolumn:name="Image",type=string,JSONPath=`.spec.image`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// EntandoPlugin is the Schema for the entandoplugins API.
type EntandoPlugin struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EntandoPluginSpec `json:"spec,omitempty"`
	Status EntandoStatus     `json:"status,omitempty"`
}

// GetEntandoStatus implements EntandoResource.
func (in *EntandoPlugin) GetEntandoStatus() *EntandoStatus {
	return &in.Status
}

// DbmsVendor returns the configured vendor, defaulting to PostgreSQL.
func (in *EntandoPlugin) DbmsVendor() DbmsVendor {
	if in.Spec.Dbms == "" {
		return DbmsPostgreSQL
	}
	return in.Spec.Dbms
}

// SpecEquals reports whether both plugins declare the same desired state.
func (in *EntandoPlugin) SpecEquals(other *EntandoPlugin) bool {
	return other != nil && equality.Semantic.DeepEqual(in.Spec, other.Spec)
}

// +kubebuilder:object:root=true

// EntandoPluginList contains a list of EntandoPlugin.
type EntandoPluginList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []EntandoPlugin `json:"items"`
}

func init() {
	SchemeBuilder.Register(&EntandoPlugin{}, &EntandoPluginList{})
}
