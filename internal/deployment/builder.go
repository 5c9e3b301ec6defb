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

package deployment

import (
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/kube"
	"github.com/entando-k8s-operator/internal/secret"
)

// JobKindDatabasePreparation labels schema preparation jobs.
const JobKindDatabasePreparation = "db-preparation"

const schemaCommandCreate = "CREATE_SCHEMA"

// Builder turns Deployables into Kubernetes objects. It never talks to the cluster.
type Builder struct {
	cfg config.OperatorConfig
}

// NewBuilder creates a Builder for the given operator configuration.
func NewBuilder(cfg config.OperatorConfig) *Builder {
	return &Builder{cfg: cfg}
}

func (b *Builder) meta(d *deployable.Deployable, name string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      name,
		Namespace: d.Owner.GetNamespace(),
		Labels: kube.MergeLabels(
			kube.StandardLabels(d.Kind, d.Owner.GetName(), d.StatusQualifier()),
			d.Labels(),
		),
	}
}

// PersistentVolumeClaims returns one claim per persistent container.
func (b *Builder) PersistentVolumeClaims(d *deployable.Deployable) []*corev1.PersistentVolumeClaim {
	var out []*corev1.PersistentVolumeClaim
	for i := range d.Containers {
		c := &d.Containers[i]
		if c.Persistence == nil {
			continue
		}
		pvc := &corev1.PersistentVolumeClaim{
			ObjectMeta: b.meta(d, d.PVCName(c)),
			Spec: corev1.PersistentVolumeClaimSpec{
				AccessModes: []corev1.PersistentVolumeAccessMode{c.Persistence.Mode()},
				Resources: corev1.VolumeResourceRequirements{
					Requests: corev1.ResourceList{corev1.ResourceStorage: c.Persistence.Quantity()},
				},
			},
		}
		if c.Persistence.StorageClass != "" {
			pvc.Spec.StorageClassName = ptr.To(c.Persistence.StorageClass)
		}
		out = append(out, pvc)
	}
	return out
}

// PreparationJob returns the schema preparation job, or nil when the
// Deployable declares no schemas.
func (b *Builder) PreparationJob(d *deployable.Deployable) *batchv1.Job {
	schemas := d.Schemas()
	if len(schemas) == 0 || d.Database == nil {
		return nil
	}
	image := deployable.ImageDatabaseJob.For(b.cfg.ComplianceMode)

	var initContainers []corev1.Container
	for _, s := range schemas {
		initContainers = append(initContainers, corev1.Container{
			Name:  d.SchemaContainerName(s.Name),
			Image: image,
			Env:   b.schemaCreationEnv(d, s),
		})
	}
	if d.Population != nil {
		var env []corev1.EnvVar
		for _, s := range d.Population.Schemas {
			env = append(env, d.SchemaEnv(s)...)
		}
		initContainers = append(initContainers, corev1.Container{
			Name:    d.PopulationContainerName(),
			Image:   d.Population.Image,
			Command: d.Population.Command,
			Env:     env,
		})
	}

	meta := b.meta(d, d.JobName())
	meta.Labels[entandov1alpha1.LabelJobKind] = JobKindDatabasePreparation
	return &batchv1.Job{
		ObjectMeta: meta,
		Spec: batchv1.JobSpec{
			BackoffLimit: ptr.To[int32](0),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: map[string]string{
					entandov1alpha1.LabelJobKind: JobKindDatabasePreparation,
				}},
				Spec: corev1.PodSpec{
					RestartPolicy:  corev1.RestartPolicyNever,
					InitContainers: initContainers,
					Containers: []corev1.Container{{
						Name:    "db-preparation-completion",
						Image:   image,
						Command: []string{"/bin/sh", "-c", "echo database preparation completed"},
					}},
				},
			},
		},
	}
}

func (b *Builder) schemaCreationEnv(d *deployable.Deployable, s deployable.DatabaseSchema) []corev1.EnvVar {
	db := d.Database
	schemaSecret := d.SchemaSecretName(s.Name)
	return []corev1.EnvVar{
		deployable.LiteralEnv("DATABASE_SERVER_HOST", db.InternalHost()),
		deployable.LiteralEnv("DATABASE_SERVER_PORT", fmt.Sprint(db.Port)),
		deployable.LiteralEnv("DATABASE_VENDOR", string(db.Vendor.Vendor)),
		deployable.LiteralEnv("DATABASE_NAME", db.DatabaseName),
		deployable.SecretEnv("DATABASE_ADMIN_USER", db.AdminSecretName, secret.KeyUsername),
		deployable.SecretEnv("DATABASE_ADMIN_PASSWORD", db.AdminSecretName, secret.KeyPassword),
		deployable.SecretEnv("DATABASE_USER", schemaSecret, secret.KeyUsername),
		deployable.SecretEnv("DATABASE_PASSWORD", schemaSecret, secret.KeyPassword),
		deployable.LiteralEnv("DATABASE_SCHEMA_COMMAND", schemaCommandCreate),
	}
}

// Service returns the Service of the Deployable: an ExternalName service for
// external servers, otherwise one selecting the Deployable's pods.
func (b *Builder) Service(d *deployable.Deployable) *corev1.Service {
	svc := &corev1.Service{ObjectMeta: b.meta(d, d.ServiceName())}
	b.applyServiceSpec(d, &svc.Spec)
	return svc
}

func (b *Builder) applyServiceSpec(d *deployable.Deployable, spec *corev1.ServiceSpec) {
	if d.External != nil {
		spec.Type = corev1.ServiceTypeExternalName
		spec.ExternalName = d.External.Host
		spec.Selector = nil
		spec.Ports = []corev1.ServicePort{{
			Name:       "external-port",
			Port:       d.External.Port,
			TargetPort: intstr.FromInt32(d.External.Port),
			Protocol:   corev1.ProtocolTCP,
		}}
		return
	}
	var ports []corev1.ServicePort
	for _, c := range d.Containers {
		for _, p := range c.Ports {
			name := p.Name
			if name == "" {
				name = fmt.Sprintf("%s-%d", c.NameQualifier, p.ContainerPort)
			}
			ports = append(ports, corev1.ServicePort{
				Name:       name,
				Port:       p.ContainerPort,
				TargetPort: intstr.FromInt32(p.ContainerPort),
				Protocol:   corev1.ProtocolTCP,
			})
		}
	}
	spec.Type = corev1.ServiceTypeClusterIP
	spec.ExternalName = ""
	spec.Selector = d.Labels()
	spec.Ports = ports
}

func volumeName(c *deployable.Container) string {
	return c.NameQualifier + "-volume"
}

// Deployment returns the Deployment running the Deployable's containers.
func (b *Builder) Deployment(d *deployable.Deployable) *appsv1.Deployment {
	dep := &appsv1.Deployment{ObjectMeta: b.meta(d, d.DeploymentName())}
	b.applyDeploymentSpec(d, dep)
	return dep
}

func (b *Builder) applyDeploymentSpec(d *deployable.Deployable, dep *appsv1.Deployment) {
	replicas := d.Replicas
	if replicas <= 0 {
		replicas = 1
	}
	podSpec := corev1.PodSpec{}
	persistent := false
	for i := range d.Containers {
		c := &d.Containers[i]
		container := corev1.Container{
			Name:      c.NameQualifier + "-container",
			Image:     c.Image,
			Command:   c.Command,
			Ports:     c.Ports,
			Env:       d.ContainerEnv(c),
			Resources: c.Resources,
		}
		b.applyProbes(c, &container)
		if c.Persistence != nil {
			persistent = true
			container.VolumeMounts = append(container.VolumeMounts, corev1.VolumeMount{
				Name:      volumeName(c),
				MountPath: c.Persistence.MountPath,
			})
			podSpec.Volumes = append(podSpec.Volumes, corev1.Volume{
				Name: volumeName(c),
				VolumeSource: corev1.VolumeSource{
					PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{ClaimName: d.PVCName(c)},
				},
			})
		}
		if b.cfg.RequiresFilesystemGroupOverride && c.FSGroup != nil && podSpec.SecurityContext == nil {
			podSpec.SecurityContext = &corev1.PodSecurityContext{FSGroup: ptr.To(*c.FSGroup)}
		}
		podSpec.Containers = append(podSpec.Containers, container)
	}

	dep.Spec.Replicas = ptr.To(replicas)
	if dep.Spec.Selector == nil {
		dep.Spec.Selector = &metav1.LabelSelector{MatchLabels: d.Labels()}
	}
	// Two pods must never mount the same ReadWriteOnce volume.
	if persistent {
		dep.Spec.Strategy = appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType}
	} else {
		dep.Spec.Strategy = appsv1.DeploymentStrategy{Type: appsv1.RollingUpdateDeploymentStrategyType}
	}
	dep.Spec.Template.Labels = kube.MergeLabels(
		kube.StandardLabels(d.Kind, d.Owner.GetName(), d.StatusQualifier()),
		d.Labels(),
	)
	dep.Spec.Template.Spec = podSpec
}

func (b *Builder) applyProbes(c *deployable.Container, container *corev1.Container) {
	var handler corev1.ProbeHandler
	switch {
	case c.HealthCheck != nil && len(c.HealthCheck.Command) > 0:
		handler.Exec = &corev1.ExecAction{Command: c.HealthCheck.Command}
	case c.HealthCheck != nil && c.HealthCheck.Path != "" && c.PrimaryPort() > 0:
		handler.HTTPGet = &corev1.HTTPGetAction{Path: c.HealthCheck.Path, Port: intstr.FromInt32(c.PrimaryPort())}
	case c.PrimaryPort() > 0:
		handler.TCPSocket = &corev1.TCPSocketAction{Port: intstr.FromInt32(c.PrimaryPort())}
	default:
		return
	}

	startupSeconds := int32(b.cfg.PodReadinessTimeout.Seconds())
	if c.HealthCheck != nil && c.HealthCheck.StartupSeconds > 0 {
		startupSeconds = c.HealthCheck.StartupSeconds
	}
	const startupPeriod = 10
	container.StartupProbe = &corev1.Probe{
		ProbeHandler:     handler,
		PeriodSeconds:    startupPeriod,
		FailureThreshold: max(1, startupSeconds/startupPeriod),
	}
	container.ReadinessProbe = &corev1.Probe{
		ProbeHandler:   handler,
		PeriodSeconds:  10,
		TimeoutSeconds: 5,
	}
	container.LivenessProbe = &corev1.Probe{
		ProbeHandler:     handler,
		PeriodSeconds:    30,
		TimeoutSeconds:   5,
		FailureThreshold: 3,
	}
}

// HostName returns the ingress host of the Deployable, falling back to
// <owner>-<namespace>.<routing suffix>.
func (b *Builder) HostName(d *deployable.Deployable) string {
	if d.Ingress == nil {
		return ""
	}
	if d.Ingress.HostName != "" {
		return d.Ingress.HostName
	}
	if b.cfg.DefaultRoutingSuffix != "" {
		return d.Owner.GetName() + "-" + d.Owner.GetNamespace() + "." + b.cfg.DefaultRoutingSuffix
	}
	return ""
}

// TLSSecretName returns the TLS secret of the ingress, if any.
func (b *Builder) TLSSecretName(d *deployable.Deployable) string {
	if d.Ingress == nil {
		return ""
	}
	if d.Ingress.TLSSecretName != "" {
		return d.Ingress.TLSSecretName
	}
	return b.cfg.DefaultTLSSecretName
}

// IngressPaths returns one path per container exposed through the ingress.
func (b *Builder) IngressPaths(d *deployable.Deployable) []networkingv1.HTTPIngressPath {
	var paths []networkingv1.HTTPIngressPath
	for _, c := range d.Containers {
		if c.IngressPath == "" || c.PrimaryPort() == 0 {
			continue
		}
		paths = append(paths, networkingv1.HTTPIngressPath{
			Path:     c.IngressPath,
			PathType: ptr.To(networkingv1.PathTypePrefix),
			Backend: networkingv1.IngressBackend{
				Service: &networkingv1.IngressServiceBackend{
					Name: d.ServiceName(),
					Port: networkingv1.ServiceBackendPort{Number: c.PrimaryPort()},
				},
			},
		})
	}
	return paths
}

// Ingress returns the owner's ingress holding the Deployable's paths.
func (b *Builder) Ingress(d *deployable.Deployable) *networkingv1.Ingress {
	if d.Ingress == nil {
		return nil
	}
	host := b.HostName(d)
	ing := &networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{
			Name:      d.IngressName(),
			Namespace: d.Owner.GetNamespace(),
			Labels:    kube.StandardLabels(d.Kind, d.Owner.GetName(), ""),
		},
		Spec: networkingv1.IngressSpec{
			Rules: []networkingv1.IngressRule{{
				Host: host,
				IngressRuleValue: networkingv1.IngressRuleValue{
					HTTP: &networkingv1.HTTPIngressRuleValue{Paths: b.IngressPaths(d)},
				},
			}},
		},
	}
	if tls := b.TLSSecretName(d); tls != "" && host != "" {
		ing.Spec.TLS = []networkingv1.IngressTLS{{Hosts: []string{host}, SecretName: tls}}
	}
	return ing
}

// ExternalBaseURL returns the URL the Deployable's first ingress path is
// reachable at. Without an ingress host the cluster-internal URL is used.
func (b *Builder) ExternalBaseURL(d *deployable.Deployable) string {
	if d.Ingress == nil {
		return ""
	}
	for _, c := range d.Containers {
		if c.IngressPath == "" {
			continue
		}
		path := strings.TrimSuffix(c.IngressPath, "/")
		host := b.HostName(d)
		if host == "" {
			return fmt.Sprintf("http://%s.%s.svc.cluster.local:%d%s", d.ServiceName(), d.Owner.GetNamespace(), c.PrimaryPort(), path)
		}
		scheme := "http"
		if b.TLSSecretName(d) != "" {
			scheme = "https"
		}
		return scheme + "://" + host + path
	}
	return ""
}

// Render returns every object ProcessDeployable would apply for d, except secrets.
func (b *Builder) Render(d *deployable.Deployable) []client.Object {
	var objs []client.Object
	for _, pvc := range b.PersistentVolumeClaims(d) {
		objs = append(objs, pvc)
	}
	if job := b.PreparationJob(d); job != nil {
		objs = append(objs, job)
	}
	objs = append(objs, b.Service(d))
	if d.External != nil {
		return objs
	}
	objs = append(objs, b.Deployment(d))
	if ing := b.Ingress(d); ing != nil {
		objs = append(objs, ing)
	}
	return objs
}
