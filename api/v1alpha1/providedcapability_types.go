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
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ProvidedCapabilitySpec carries the resolved requirement a capability satisfies.
type ProvidedCapabilitySpec struct {
	CapabilityRequirement `json:",inline"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=pc
// +kubebuilder:printcolumn:name="Capability",type=string,JSONPath=`.spec.capability`
// +kubebuilder:printcolumn:name="Implementation",type=string,JSONPath=`.spec.implementation`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// ProvidedCapability is the Schema for the providedcapabilities API.
type ProvidedCapability struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ProvidedCapabilitySpec `json:"spec,omitempty"`
	Status EntandoStatus          `json:"status,omitempty"`
}

// GetEntandoStatus implements EntandoResource.
func (in *ProvidedCapability) GetEntandoStatus() *EntandoStatus {
	return &in.Status
}

// SpecEquals reports whether both capabilities declare the same requirement.
func (in *ProvidedCapability) SpecEquals(other *ProvidedCapability) bool {
	return other != nil && equality.Semantic.DeepEqual(in.Spec, other.Spec)
}

// +kubebuilder:object:root=true

// ProvidedCapabilityList contains a list of ProvidedCapability.
type ProvidedCapabilityList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ProvidedCapability `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ProvidedCapability{}, &ProvidedCapabilityList{})
}
