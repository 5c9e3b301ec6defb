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

// Package deployable describes, in memory, the workloads a controller wants
// deployed. A Deployable is built fresh for every controller run and consumed
// by the deployment processor.
package deployable

import (
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/failure"
)

// Defaults applied to persistent storage.
const (
	DefaultStorageSize = "2Gi"
	DefaultAccessMode  = corev1.ReadWriteOnce
)

// DatabaseSchema is a schema a container connects to. Its credentials are
// exposed as <EnvPrefix>_URL, <EnvPrefix>_USERNAME and <EnvPrefix>_PASSWORD.
type DatabaseSchema struct {
	Name      string
	EnvPrefix string
}

// Persistence describes the volume a container keeps its data on.
type Persistence struct {
	MountPath    string
	Size         string
	AccessMode   corev1.PersistentVolumeAccessMode
	StorageClass string
}

// NewPersistence describes a volume mounted at mountPath. Empty size and
// access mode fall back to the defaults.
func NewPersistence(mountPath, storageClass, size, accessMode string) *Persistence {
	return &Persistence{
		MountPath:    mountPath,
		Size:         size,
		AccessMode:   corev1.PersistentVolumeAccessMode(accessMode),
		StorageClass: storageClass,
	}
}

// Quantity returns the requested size, defaulting to 2Gi. A size that does
// not parse also yields the default; Validate reports it.
func (p *Persistence) Quantity() resource.Quantity {
	if p.Size != "" {
		if q, err := resource.ParseQuantity(p.Size); err == nil {
			return q
		}
	}
	return resource.MustParse(DefaultStorageSize)
}

// Mode returns the access mode, defaulting to ReadWriteOnce.
func (p *Persistence) Mode() corev1.PersistentVolumeAccessMode {
	if p.AccessMode == "" {
		return DefaultAccessMode
	}
	return p.AccessMode
}

// Validate checks the size and access mode requested by the resource.
func (p *Persistence) Validate() error {
	if p.Size != "" {
		q, err := resource.ParseQuantity(p.Size)
		if err != nil {
			return failure.NewControllerError("The storage size %q is not a valid quantity", p.Size)
		}
		if q.Sign() <= 0 {
			return failure.NewControllerError("The storage size %q must be positive", p.Size)
		}
	}
	switch p.Mode() {
	case corev1.ReadWriteOnce, corev1.ReadOnlyMany, corev1.ReadWriteMany, corev1.ReadWriteOncePod:
		return nil
	}
	return failure.NewControllerError("The storage access mode %q is not supported", p.AccessMode)
}

// HealthCheck is either an HTTP path on the primary port or an exec command.
type HealthCheck struct {
	Path    string
	Command []string
	// StartupSeconds is how long the container may take to start.
	StartupSeconds int32
}

// Container is one container of a Deployable.
type Container struct {
	NameQualifier string
	Image         string
	Command       []string
	// Ports lists the container ports; the first one is the primary port.
	Ports           []corev1.ContainerPort
	Env             []corev1.EnvVar
	Persistence     *Persistence
	HealthCheck     *HealthCheck
	IngressPath     string
	DatabaseSchemas []DatabaseSchema
	FSGroup         *int64
	Resources       corev1.ResourceRequirements
	// UsesSSO adds the Keycloak connection variables and an SSO client secret.
	UsesSSO bool
}

// PrimaryPort returns the first declared port, or zero.
func (c *Container) PrimaryPort() int32 {
	if len(c.Ports) == 0 {
		return 0
	}
	return c.Ports[0].ContainerPort
}

// IngressSettings makes a Deployable reachable through the shared ingress of its owner.
type IngressSettings struct {
	HostName      string
	TLSSecretName string
}

// AdminSecret asks for generated admin credentials for the deployed server.
type AdminSecret struct {
	Username string
}

// PopulationStep is the final init container of the schema preparation job.
type PopulationStep struct {
	Image   string
	Command []string
	// Schemas whose connection variables are passed to the step.
	Schemas []DatabaseSchema
}

// ExternalService turns a Deployable into an ExternalName service only.
type ExternalService struct {
	Host string
	Port int32
	// BaseURL is reported as the external base URL of web services.
	BaseURL string
}

// Deployable is the in-memory description of one workload owned by a resource.
type Deployable struct {
	Owner         entandov1alpha1.EntandoResource
	Kind          string
	NameQualifier string
	Containers    []Container
	Database      *DatabaseConnectionInfo
	SSO           *SsoConnectionInfo
	Ingress       *IngressSettings
	Replicas      int32
	AdminSecret   *AdminSecret
	// ExistingAdminSecretName reports a user supplied admin secret instead of a generated one.
	ExistingAdminSecretName string
	Population              *PopulationStep
	External                *ExternalService
	StatusType              entandov1alpha1.ServerStatusType
	// DeploymentParameters are copied to the server status.
	DeploymentParameters map[string]string
}

// Validate checks the user supplied settings of every container.
func (d *Deployable) Validate() error {
	for i := range d.Containers {
		if p := d.Containers[i].Persistence; p != nil {
			if err := p.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// StatusQualifier is the qualifier of the server status the Deployable reports to.
func (d *Deployable) StatusQualifier() string {
	if d.NameQualifier == "" {
		return entandov1alpha1.QualifierMain
	}
	return d.NameQualifier
}

// qualifiedName returns <owner>[-<qualifier>]-<suffix>.
func (d *Deployable) qualifiedName(suffix string) string {
	parts := []string{d.Owner.GetName()}
	if d.NameQualifier != "" {
		parts = append(parts, d.NameQualifier)
	}
	return strings.Join(append(parts, suffix), "-")
}

// ServiceName returns <owner>[-<qualifier>]-service.
func (d *Deployable) ServiceName() string { return d.qualifiedName("service") }

// DeploymentName returns <owner>[-<qualifier>]-deployment.
func (d *Deployable) DeploymentName() string { return d.qualifiedName("deployment") }

// IngressName returns <owner>-ingress, shared by every Deployable of the owner.
func (d *Deployable) IngressName() string { return d.Owner.GetName() + "-ingress" }

// JobName returns <owner>-<qualifier>-db-preparation-job.
func (d *Deployable) JobName() string {
	return d.Owner.GetName() + "-" + d.StatusQualifier() + "-db-preparation-job"
}

// AdminSecretName returns <owner>-admin-secret.
func (d *Deployable) AdminSecretName() string { return d.Owner.GetName() + "-admin-secret" }

// PopulationContainerName returns <owner>-<qualifier>-db-population-job.
func (d *Deployable) PopulationContainerName() string {
	return d.Owner.GetName() + "-" + d.StatusQualifier() + "-db-population-job"
}

// PVCName returns <owner>-<container qualifier>-pvc.
func (d *Deployable) PVCName(c *Container) string {
	return d.Owner.GetName() + "-" + c.NameQualifier + "-pvc"
}

// SchemaSecretName returns <owner>-<schema>-secret.
func (d *Deployable) SchemaSecretName(schema string) string {
	return d.Owner.GetName() + "-" + schema + "-secret"
}

// SchemaContainerName returns <owner>-<schema>-schema-creation-job.
func (d *Deployable) SchemaContainerName(schema string) string {
	return d.Owner.GetName() + "-" + schema + "-schema-creation-job"
}

// SchemaUsername returns <owner_snake>_<schema>.
func (d *Deployable) SchemaUsername(schema string) string {
	return strings.ReplaceAll(d.Owner.GetName(), "-", "_") + "_" + schema
}

// SSOSecretName returns <owner>-<container qualifier>-sso-secret.
func (d *Deployable) SSOSecretName(c *Container) string {
	return d.Owner.GetName() + "-" + c.NameQualifier + "-sso-secret"
}

// SSOClientID returns the Keycloak client id registered for a container.
func (d *Deployable) SSOClientID(c *Container) string {
	return d.Owner.GetName() + "-" + c.NameQualifier
}

// Schemas returns every schema declared by the containers, in order.
func (d *Deployable) Schemas() []DatabaseSchema {
	var out []DatabaseSchema
	seen := map[string]bool{}
	for _, c := range d.Containers {
		for _, s := range c.DatabaseSchemas {
			if !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// Labels returns the labels selecting the pods of the Deployable.
func (d *Deployable) Labels() map[string]string {
	return map[string]string{entandov1alpha1.LabelDeployment: d.DeploymentName()}
}
