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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// Labels and annotations shared by every Entando resource.
const (
	LabelCapability               = "entando.org/capability"
	LabelCapabilityImplementation = "entando.org/capability-implementation"
	LabelCapabilityScope          = "entando.org/capability-scope"
	LabelDeployment               = "entando.org/deployment"
	LabelJobKind                  = "entando.org/job-kind"

	// AnnotationReconciliationRequested is stamped on a resource to ask its
	// controller for another pass.
	AnnotationReconciliationRequested = "entando.org/reconciliation-requested-at"
)

// Well-known server status qualifiers.
const (
	QualifierMain   = "main"
	QualifierDB     = "db"
	QualifierSSO    = "sso"
	QualifierServer = "server"
	QualifierDE     = "de"
	QualifierAB     = "ab"
)

// EntandoDeploymentPhase is the lifecycle phase of a resource or one of its qualifiers.
// +kubebuilder:validation:Enum=requested;started;successful;failed;ignored
type EntandoDeploymentPhase string

const (
	PhaseRequested  EntandoDeploymentPhase = "requested"
	PhaseStarted    EntandoDeploymentPhase = "started"
	PhaseSuccessful EntandoDeploymentPhase = "successful"
	PhaseFailed     EntandoDeploymentPhase = "failed"
	PhaseIgnored    EntandoDeploymentPhase = "ignored"
)

// IsTerminal reports whether no further progress is expected for the phase.
func (p EntandoDeploymentPhase) IsTerminal() bool {
	return p == PhaseSuccessful || p == PhaseFailed || p == PhaseIgnored
}

// IsSuccessful reports whether the phase counts towards a successful deployment.
func (p EntandoDeploymentPhase) IsSuccessful() bool {
	return p == PhaseSuccessful || p == PhaseIgnored
}

// ServerStatusType describes what kind of server a ServerStatus tracks.
type ServerStatusType string

const (
	ServerStatusWebServer       ServerStatusType = "WebServer"
	ServerStatusDbServer        ServerStatusType = "DbServer"
	ServerStatusExternalService ServerStatusType = "ExternalService"
	ServerStatusCapability      ServerStatusType = "Capability"
)

// DbmsVendor is the database management system backing a resource.
// +kubebuilder:validation:Enum=postgresql;mysql;oracle;embedded
type DbmsVendor string

const (
	DbmsPostgreSQL DbmsVendor = "postgresql"
	DbmsMySQL      DbmsVendor = "mysql"
	DbmsOracle     DbmsVendor = "oracle"
	DbmsEmbedded   DbmsVendor = "embedded"
)

// StandardCapability is a kind of service a resource can depend on.
// +kubebuilder:validation:Enum=Dbms;Sso
type StandardCapability string

const (
	CapabilityDBMS StandardCapability = "Dbms"
	CapabilitySSO  StandardCapability = "Sso"
)

// StandardCapabilityImplementation names the product implementing a capability.
type StandardCapabilityImplementation string

const (
	ImplementationPostgreSQL StandardCapabilityImplementation = "postgresql"
	ImplementationMySQL      StandardCapabilityImplementation = "mysql"
	ImplementationOracle     StandardCapabilityImplementation = "oracle"
	ImplementationKeycloak   StandardCapabilityImplementation = "keycloak"
	ImplementationRedhatSSO  StandardCapabilityImplementation = "redhat-sso"
)

// CapabilityScope controls how an existing ProvidedCapability is located.
// +kubebuilder:validation:Enum=Namespace;Labeled;Specified
type CapabilityScope string

const (
	ScopeNamespace CapabilityScope = "Namespace"
	ScopeLabeled   CapabilityScope = "Labeled"
	ScopeSpecified CapabilityScope = "Specified"
)

// CapabilityProvisioningStrategy controls whether a capability is deployed or referenced.
// +kubebuilder:validation:Enum=DeployDirectly;UseExternal
type CapabilityProvisioningStrategy string

const (
	DeployDirectly CapabilityProvisioningStrategy = "DeployDirectly"
	UseExternal    CapabilityProvisioningStrategy = "UseExternal"
)

// Capability parameter keys understood by the backing controllers.
const (
	ParameterDatabaseName = "databaseName"
	ParameterRealm        = "realm"
)

// ResourceReference points at a namespaced resource.
type ResourceReference struct {
	// Namespace defaults to the namespace of the referring resource.
	// +optional
	Namespace string `json:"namespace,omitempty"`

	Name string `json:"name"`
}

// ExternallyProvidedService describes a service that runs outside the operator's control.
type ExternallyProvidedService struct {
	// +optional
	Host string `json:"host,omitempty"`

	// +optional
	Port *int32 `json:"port,omitempty"`

	// Path is the context path of web services such as SSO.
	// +optional
	Path string `json:"path,omitempty"`

	// AdminSecretName names a secret with username and password keys.
	// +optional
	AdminSecretName string `json:"adminSecretName,omitempty"`

	// +optional
	RequiresDirectConnection bool `json:"requiresDirectConnection,omitempty"`
}

// CapabilityRequirement states which capability a resource needs and how to satisfy it.
type CapabilityRequirement struct {
	Capability StandardCapability `json:"capability"`

	// +optional
	Implementation StandardCapabilityImplementation `json:"implementation,omitempty"`

	// +kubebuilder:default=Namespace
	// +optional
	ResolutionScopePreference CapabilityScope `json:"resolutionScopePreference,omitempty"`

	// +kubebuilder:default=DeployDirectly
	// +optional
	ProvisioningStrategy CapabilityProvisioningStrategy `json:"provisioningStrategy,omitempty"`

	// Selector is matched against capability labels when the scope is Labeled.
	// +optional
	Selector map[string]string `json:"selector,omitempty"`

	// SpecifiedCapability is used when the scope is Specified.
	// +optional
	SpecifiedCapability *ResourceReference `json:"specifiedCapability,omitempty"`

	// +optional
	ExternallyProvidedService *ExternallyProvidedService `json:"externallyProvidedService,omitempty"`

	// +optional
	CapabilityParameters map[string]string `json:"capabilityParameters,omitempty"`
}

// Scope returns the resolution scope, defaulting to Namespace.
func (r *CapabilityRequirement) Scope() CapabilityScope {
	if r.ResolutionScopePreference == "" {
		return ScopeNamespace
	}
	return r.ResolutionScopePreference
}

// Strategy returns the provisioning strategy, defaulting to DeployDirectly.
func (r *CapabilityRequirement) Strategy() CapabilityProvisioningStrategy {
	if r.ProvisioningStrategy == "" {
		return DeployDirectly
	}
	return r.ProvisioningStrategy
}

// EntandoControllerFailure records why a controller could not complete its work.
type EntandoControllerFailure struct {
	// +optional
	FailedObjectAPIVersion string `json:"failedObjectApiVersion,omitempty"`
	// +optional
	FailedObjectKind string `json:"failedObjectKind,omitempty"`
	// +optional
	FailedObjectNamespace string `json:"failedObjectNamespace,omitempty"`
	// +optional
	FailedObjectName string `json:"failedObjectName,omitempty"`

	Message string `json:"message"`

	// DetailMessage holds the complete chain of underlying errors.
	// +optional
	DetailMessage string `json:"detailMessage,omitempty"`
}

// ServerStatus is the observed state of one qualified server owned by a resource.
type ServerStatus struct {
	Qualifier string `json:"qualifier"`

	// +optional
	Type ServerStatusType `json:"type,omitempty"`

	// +optional
	Phase EntandoDeploymentPhase `json:"phase,omitempty"`

	// +optional
	DeploymentParameters map[string]string `json:"deploymentParameters,omitempty"`

	// +optional
	AdminSecretName string `json:"adminSecretName,omitempty"`
	// +optional
	ServiceName string `json:"serviceName,omitempty"`
	// +optional
	IngressName string `json:"ingressName,omitempty"`
	// +optional
	ExternalBaseURL string `json:"externalBaseUrl,omitempty"`
	// +optional
	OriginatingControllerPod string `json:"originatingControllerPod,omitempty"`
	// +optional
	PersistentVolumeClaims []string `json:"persistentVolumeClaims,omitempty"`

	// +optional
	EntandoControllerFailure *EntandoControllerFailure `json:"entandoControllerFailure,omitempty"`

	// +optional
	Started *metav1.Time `json:"started,omitempty"`
	// +optional
	Finished *metav1.Time `json:"finished,omitempty"`
}

// HasFailed reports whether this server ended in failure.
func (s *ServerStatus) HasFailed() bool {
	return s.Phase == PhaseFailed || s.EntandoControllerFailure != nil
}

// EntandoStatus is the status shared by every Entando custom resource.
type EntandoStatus struct {
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// +optional
	Phase EntandoDeploymentPhase `json:"phase,omitempty"`

	// +listType=map
	// +listMapKey=qualifier
	// +optional
	ServerStatuses []ServerStatus `json:"serverStatuses,omitempty"`
}

// PutServerStatus stores ss, replacing any entry with the same qualifier.
func (s *EntandoStatus) PutServerStatus(ss ServerStatus) {
	for i := range s.ServerStatuses {
		if s.ServerStatuses[i].Qualifier == ss.Qualifier {
			s.ServerStatuses[i] = ss
			return
		}
	}
	s.ServerStatuses = append(s.ServerStatuses, ss)
}

// ForQualifier returns a copy of the server status with the given qualifier.
func (s *EntandoStatus) ForQualifier(qualifier string) (ServerStatus, bool) {
	for i := range s.ServerStatuses {
		if s.ServerStatuses[i].Qualifier == qualifier {
			return *s.ServerStatuses[i].DeepCopy(), true
		}
	}
	return ServerStatus{}, false
}

// HasFailed reports whether the resource or any of its servers failed.
func (s *EntandoStatus) HasFailed() bool {
	if s.Phase == PhaseFailed {
		return true
	}
	for i := range s.ServerStatuses {
		if s.ServerStatuses[i].HasFailed() {
			return true
		}
	}
	return false
}

// FirstFailure returns the failure of the first failed server, if any.
func (s *EntandoStatus) FirstFailure() *EntandoControllerFailure {
	for i := range s.ServerStatuses {
		if f := s.ServerStatuses[i].EntandoControllerFailure; f != nil {
			return f.DeepCopy()
		}
	}
	return nil
}

// AggregatePhase derives the overall phase from the per-qualifier statuses.
// Any failed qualifier fails the resource. The resource is successful only
// when every required qualifier is present and successful or ignored and no
// other qualifier is still in flight.
func (s *EntandoStatus) AggregatePhase(required ...string) EntandoDeploymentPhase {
	if len(s.ServerStatuses) == 0 {
		return PhaseRequested
	}
	for i := range s.ServerStatuses {
		if s.ServerStatuses[i].HasFailed() {
			return PhaseFailed
		}
	}
	for _, q := range required {
		ss, ok := s.ForQualifier(q)
		if !ok || !ss.Phase.IsSuccessful() {
			return PhaseStarted
		}
	}
	for i := range s.ServerStatuses {
		if !s.ServerStatuses[i].Phase.IsSuccessful() {
			return PhaseStarted
		}
	}
	return PhaseSuccessful
}

// EntandoResource is implemented by every Entando custom resource.
// +kubebuilder:object:generate=false
type EntandoResource interface {
	metav1.Object
	runtime.Object
	GetEntandoStatus() *EntandoStatus
}

// CapabilityResolution overrides how a resource's capability is located and provisioned.
type CapabilityResolution struct {
	// +optional
	ResolutionScopePreference CapabilityScope `json:"resolutionScopePreference,omitempty"`

	// +optional
	ProvisioningStrategy CapabilityProvisioningStrategy `json:"provisioningStrategy,omitempty"`

	// +optional
	Selector map[string]string `json:"selector,omitempty"`

	// +optional
	SpecifiedCapability *ResourceReference `json:"specifiedCapability,omitempty"`

	// +optional
	ExternallyProvidedService *ExternallyProvidedService `json:"externallyProvidedService,omitempty"`
}

// ApplyTo copies every field set on r into req.
func (r *CapabilityResolution) ApplyTo(req *CapabilityRequirement) {
	if r == nil {
		return
	}
	if r.ResolutionScopePreference != "" {
		req.ResolutionScopePreference = r.ResolutionScopePreference
	}
	if r.ProvisioningStrategy != "" {
		req.ProvisioningStrategy = r.ProvisioningStrategy
	}
	if len(r.Selector) > 0 {
		req.Selector = make(map[string]string, len(r.Selector))
		for k, v := range r.Selector {
			req.Selector[k] = v
		}
	}
	if r.SpecifiedCapability != nil {
		req.SpecifiedCapability = r.SpecifiedCapability.DeepCopy()
	}
	if r.ExternallyProvidedService != nil {
		req.ExternallyProvidedService = r.ExternallyProvidedService.DeepCopy()
	}
}

// KeycloakToUse selects the SSO server a resource authenticates against.
type KeycloakToUse struct {
	CapabilityResolution `json:",inline"`

	// +optional
	Realm string `json:"realm,omitempty"`

	// +optional
	PublicClientID string `json:"publicClientId,omitempty"`
}
