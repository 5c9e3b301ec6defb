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

package capability

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/kube"
)

// DefaultImplementation returns the implementation used when a requirement names none.
func DefaultImplementation(c entandov1alpha1.StandardCapability) entandov1alpha1.StandardCapabilityImplementation {
	if c == entandov1alpha1.CapabilitySSO {
		return entandov1alpha1.ImplementationKeycloak
	}
	return entandov1alpha1.ImplementationPostgreSQL
}

func kindName(c entandov1alpha1.StandardCapability) string {
	return strings.ToLower(string(c))
}

// Labels returns the labels identifying capabilities that satisfy req.
func Labels(req entandov1alpha1.CapabilityRequirement) map[string]string {
	return map[string]string{
		entandov1alpha1.LabelCapability:               kindName(req.Capability),
		entandov1alpha1.LabelCapabilityImplementation: string(req.Implementation),
		entandov1alpha1.LabelCapabilityScope:          strings.ToLower(string(req.Scope())),
	}
}

// NamespaceDefaultName returns default-<impl>-<kind>-in-namespace.
func NamespaceDefaultName(req entandov1alpha1.CapabilityRequirement) string {
	return fmt.Sprintf("default-%s-%s-in-namespace", req.Implementation, kindName(req.Capability))
}

// LabeledName returns <impl>-<kind>-<hash of the selector>, stable for equal selectors.
func LabeledName(req entandov1alpha1.CapabilityRequirement) string {
	keys := make([]string, 0, len(req.Selector))
	for k := range req.Selector {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	h := fnv.New32a()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s;", k, req.Selector[k])
	}
	return fmt.Sprintf("%s-%s-%08x", req.Implementation, kindName(req.Capability), h.Sum32())
}

// resolve returns the key of the capability that satisfies req for requester.
// A labeled capability that already exists wins over the computed name.
func (p *Provider) resolve(ctx context.Context, requester entandov1alpha1.EntandoResource, req entandov1alpha1.CapabilityRequirement) (types.NamespacedName, error) {
	switch req.Scope() {
	case entandov1alpha1.ScopeNamespace:
		return types.NamespacedName{Namespace: requester.GetNamespace(), Name: NamespaceDefaultName(req)}, nil

	case entandov1alpha1.ScopeLabeled:
		if len(req.Selector) == 0 {
			return types.NamespacedName{}, failure.NewControllerError(
				"Please provide the labels of the %s capability you intend to use", req.Capability)
		}
		list := &entandov1alpha1.ProvidedCapabilityList{}
		if err := p.client.List(ctx, list,
			client.InNamespace(requester.GetNamespace()),
			client.MatchingLabels(kube.MergeLabels(req.Selector, Labels(req))),
		); err != nil {
			return types.NamespacedName{}, fmt.Errorf("list capabilities: %w", err)
		}
		if len(list.Items) > 0 {
			slices.SortFunc(list.Items, func(a, b entandov1alpha1.ProvidedCapability) int {
				return strings.Compare(a.Name, b.Name)
			})
			return client.ObjectKeyFromObject(&list.Items[0]), nil
		}
		return types.NamespacedName{Namespace: requester.GetNamespace(), Name: LabeledName(req)}, nil

	case entandov1alpha1.ScopeSpecified:
		ref := req.SpecifiedCapability
		if ref == nil || ref.Name == "" {
			return types.NamespacedName{}, failure.NewControllerError(
				"Please provide the name of the %s capability you intend to use", req.Capability)
		}
		ns := ref.Namespace
		if ns == "" {
			ns = requester.GetNamespace()
		}
		return types.NamespacedName{Namespace: ns, Name: ref.Name}, nil

	default:
		return types.NamespacedName{}, failure.NewControllerError("unknown resolution scope %q", req.ResolutionScopePreference)
	}
}
