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

package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/types"
)

// Environment variables identifying the resource of a one-shot reconciliation.
const (
	EnvResourceAction    = "ENTANDO_RESOURCE_ACTION"
	EnvResourceKind      = "ENTANDO_RESOURCE_KIND"
	EnvResourceNamespace = "ENTANDO_RESOURCE_NAMESPACE"
	EnvResourceName      = "ENTANDO_RESOURCE_NAME"
	EnvHostname          = "HOSTNAME"
)

// Action is the watch event that triggered a reconciliation.
type Action string

const (
	ActionAdded    Action = "ADDED"
	ActionModified Action = "MODIFIED"
	ActionDeleted  Action = "DELETED"
)

// ParseAction parses a watch action, case-insensitively.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case ActionAdded, ActionModified, ActionDeleted:
		return a, nil
	default:
		return "", &ValidationError{Field: EnvResourceAction, Message: fmt.Sprintf("unknown action %q", s)}
	}
}

// ResourceIdentity names the resource a reconciliation is about.
type ResourceIdentity struct {
	Action    Action
	Kind      string
	Namespace string
	Name      string
}

// Key returns the namespaced name of the resource.
func (r ResourceIdentity) Key() types.NamespacedName {
	return types.NamespacedName{Namespace: r.Namespace, Name: r.Name}
}

func (r ResourceIdentity) String() string {
	return fmt.Sprintf("%s %s %s/%s", r.Action, r.Kind, r.Namespace, r.Name)
}

// ResourceIdentityFromEnv reads the resource identity of a one-shot run.
func ResourceIdentityFromEnv(getEnv func(string) string) (ResourceIdentity, error) {
	action, err := ParseAction(getEnv(EnvResourceAction))
	if err != nil {
		return ResourceIdentity{}, err
	}
	id := ResourceIdentity{
		Action:    action,
		Kind:      getEnv(EnvResourceKind),
		Namespace: getEnv(EnvResourceNamespace),
		Name:      getEnv(EnvResourceName),
	}
	switch {
	case id.Kind == "":
		return ResourceIdentity{}, &ValidationError{Field: EnvResourceKind, Message: "is required"}
	case id.Namespace == "":
		return ResourceIdentity{}, &ValidationError{Field: EnvResourceNamespace, Message: "is required"}
	case id.Name == "":
		return ResourceIdentity{}, &ValidationError{Field: EnvResourceName, Message: "is required"}
	}
	return id, nil
}

// ReconciliationContext is the immutable input of one reconciliation: a
// configuration snapshot plus the identity of the resource being processed.
type ReconciliationContext struct {
	config        OperatorConfig
	resource      ResourceIdentity
	controllerPod string
}

// NewReconciliationContext snapshots cfg for a reconciliation of resource.
func NewReconciliationContext(cfg OperatorConfig, resource ResourceIdentity, controllerPod string) *ReconciliationContext {
	return &ReconciliationContext{
		config:        cfg,
		resource:      resource,
		controllerPod: controllerPod,
	}
}

// Config returns a copy of the configuration snapshot.
func (rc *ReconciliationContext) Config() OperatorConfig { return rc.config }

// Resource returns the identity of the resource being reconciled.
func (rc *ReconciliationContext) Resource() ResourceIdentity { return rc.resource }

// Key returns the namespaced name of the resource being reconciled.
func (rc *ReconciliationContext) Key() types.NamespacedName { return rc.resource.Key() }

// ControllerPod is the name of the pod running this reconciliation.
func (rc *ReconciliationContext) ControllerPod() string { return rc.controllerPod }

// For returns a context for another resource that shares this snapshot.
func (rc *ReconciliationContext) For(resource ResourceIdentity) *ReconciliationContext {
	return NewReconciliationContext(rc.config, resource, rc.controllerPod)
}
