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

package kube

import (
	"maps"
	"strings"
)

// Standard Kubernetes recommended labels.
const (
	LabelAppName      = "app.kubernetes.io/name"
	LabelAppInstance  = "app.kubernetes.io/instance"
	LabelAppComponent = "app.kubernetes.io/component"
	LabelAppManagedBy = "app.kubernetes.io/managed-by"

	// ManagedBy identifies the operator managing generated resources.
	ManagedBy = "entando-operator"
)

// StandardLabels returns the labels put on every object generated for a resource.
func StandardLabels(kind, instance, component string) map[string]string {
	labels := map[string]string{
		LabelAppName:      strings.ToLower(kind),
		LabelAppInstance:  instance,
		LabelAppManagedBy: ManagedBy,
	}
	if component != "" {
		labels[LabelAppComponent] = component
	}
	return labels
}

// MergeLabels returns a new map holding base overlaid with extra.
func MergeLabels(base map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}
