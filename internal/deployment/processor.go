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
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/failure"
	"github.com/entando-k8s-operator/internal/kube"
	"github.com/entando-k8s-operator/internal/metrics"
	"github.com/entando-k8s-operator/internal/secret"
	"github.com/entando-k8s-operator/internal/status"
)

// Result is what ProcessDeployable applied.
type Result struct {
	Status     entandov1alpha1.ServerStatus
	Service    *corev1.Service
	Deployment *appsv1.Deployment
	Ingress    *networkingv1.Ingress
}

// Processor applies Deployables to the cluster and waits for them to come up.
type Processor struct {
	client    client.Client
	scheme    *runtime.Scheme
	cfg       config.OperatorConfig
	builder   *Builder
	secrets   *secret.Manager
	status    *status.Updater
	registrar SsoClientRegistrar
}

// NewProcessor creates a Processor. A nil registrar generates client secrets locally.
func NewProcessor(c client.Client, scheme *runtime.Scheme, cfg config.OperatorConfig, updater *status.Updater, registrar SsoClientRegistrar) *Processor {
	if registrar == nil {
		registrar = GeneratedSecretRegistrar{}
	}
	return &Processor{
		client:    c,
		scheme:    scheme,
		cfg:       cfg,
		builder:   NewBuilder(cfg),
		secrets:   secret.NewManager(c, scheme),
		status:    updater,
		registrar: registrar,
	}
}

// Builder returns the object builder used by the processor.
func (p *Processor) Builder() *Builder { return p.builder }

// ProcessDeployable creates or updates every object of d in order: volumes,
// secrets, schema preparation, service, deployment and ingress. It then waits
// for a ready pod and records the outcome in the owner's status under the
// Deployable's qualifier. The whole call is bounded by timeout.
func (p *Processor) ProcessDeployable(ctx context.Context, d *deployable.Deployable, timeout time.Duration) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	log := logf.FromContext(ctx).WithValues(
		"owner", d.Owner.GetName(), "namespace", d.Owner.GetNamespace(), "qualifier", d.StatusQualifier())

	if err := d.Validate(); err != nil {
		return nil, err
	}
	qualifier := d.StatusQualifier()
	statusType := d.StatusType
	if statusType == "" {
		statusType = entandov1alpha1.ServerStatusWebServer
	}
	if err := p.status.UpdateServerStatus(ctx, d.Owner, entandov1alpha1.ServerStatus{
		Qualifier: qualifier,
		Type:      statusType,
		Phase:     entandov1alpha1.PhaseStarted,
	}); err != nil {
		return nil, err
	}

	result := &Result{Status: entandov1alpha1.ServerStatus{
		Qualifier:            qualifier,
		Type:                 statusType,
		Phase:                entandov1alpha1.PhaseSuccessful,
		DeploymentParameters: d.DeploymentParameters,
	}}

	if d.External == nil {
		pvcs, err := timed(metrics.PhasePersistentVolumeClaims, func() ([]string, error) {
			return p.ensurePersistentVolumeClaims(ctx, d)
		})
		if err != nil {
			return nil, err
		}
		result.Status.PersistentVolumeClaims = pvcs
	}

	if _, err := timed(metrics.PhaseSecrets, func() (struct{}, error) {
		return struct{}{}, p.ensureSecrets(ctx, log, d)
	}); err != nil {
		return nil, err
	}
	switch {
	case d.AdminSecret != nil:
		result.Status.AdminSecretName = d.AdminSecretName()
	case d.ExistingAdminSecretName != "":
		result.Status.AdminSecretName = d.ExistingAdminSecretName
	}

	if d.External == nil {
		if _, err := timed(metrics.PhaseDatabasePreparation, func() (struct{}, error) {
			return struct{}{}, p.prepareDatabase(ctx, log, d)
		}); err != nil {
			return nil, err
		}
	}

	svc, err := timed(metrics.PhaseService, func() (*corev1.Service, error) {
		return p.ensureService(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	result.Service = svc
	result.Status.ServiceName = svc.Name
	if d.External != nil {
		result.Status.ExternalBaseURL = d.External.BaseURL
	}

	if d.External == nil {
		dep, err := timed(metrics.PhaseDeployment, func() (*appsv1.Deployment, error) {
			return p.ensureDeployment(ctx, d)
		})
		if err != nil {
			return nil, err
		}
		result.Deployment = dep

		if _, err := timed(metrics.PhasePodReadiness, func() (struct{}, error) {
			return struct{}{}, p.waitForReadyPod(ctx, log, d)
		}); err != nil {
			return nil, err
		}

		if d.Ingress != nil {
			ing, err := timed(metrics.PhaseIngress, func() (*networkingv1.Ingress, error) {
				return p.ensureIngress(ctx, d)
			})
			if err != nil {
				return nil, err
			}
			result.Ingress = ing
			result.Status.IngressName = ing.Name
			result.Status.ExternalBaseURL = p.builder.ExternalBaseURL(d)
		}
	}

	if err := p.status.UpdateServerStatus(ctx, d.Owner, result.Status); err != nil {
		return nil, err
	}
	log.Info("Deployment processed", "service", result.Status.ServiceName)
	return result, nil
}

func timed[T any](phase string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	metrics.RecordDeploymentPhase(phase, time.Since(start).Seconds())
	return out, err
}

func (p *Processor) own(d *deployable.Deployable, obj client.Object) error {
	if err := controllerutil.SetControllerReference(d.Owner, obj, p.scheme); err != nil {
		return fmt.Errorf("failed to set controller reference on %s: %w", obj.GetName(), err)
	}
	return nil
}

func (p *Processor) ensurePersistentVolumeClaims(ctx context.Context, d *deployable.Deployable) ([]string, error) {
	var names []string
	for _, pvc := range p.builder.PersistentVolumeClaims(d) {
		names = append(names, pvc.Name)
		existing := &corev1.PersistentVolumeClaim{}
		err := p.client.Get(ctx, client.ObjectKeyFromObject(pvc), existing)
		if err == nil {
			continue
		}
		if !apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("get persistent volume claim %s: %w", pvc.Name, err)
		}
		if err := p.own(d, pvc); err != nil {
			return nil, err
		}
		if err := p.client.Create(ctx, pvc); err != nil && !apierrors.IsAlreadyExists(err) {
			return nil, fmt.Errorf("create persistent volume claim %s: %w", pvc.Name, err)
		}
	}
	return names, nil
}

func (p *Processor) ensureSecrets(ctx context.Context, log logr.Logger, d *deployable.Deployable) error {
	if d.AdminSecret != nil {
		if _, err := p.secrets.EnsureCredentials(ctx, d.Owner, d.AdminSecretName(), d.AdminSecret.Username); err != nil {
			return err
		}
	}

	schemas := d.Schemas()
	if len(schemas) > 0 && d.Database != nil {
		for _, s := range schemas {
			created, err := p.secrets.EnsureCredentials(ctx, d.Owner, d.SchemaSecretName(s.Name), d.SchemaUsername(s.Name))
			if err != nil {
				return err
			}
			if created {
				log.V(1).Info("Created schema secret", "schema", s.Name)
			}
		}
		// The preparation job reads the DBMS admin credentials from the owner's namespace.
		if d.Database.Namespace != d.Owner.GetNamespace() {
			source := types.NamespacedName{Namespace: d.Database.Namespace, Name: d.Database.AdminSecretName}
			if err := p.secrets.CopySecret(ctx, source, d.Owner, d.Database.AdminSecretName); err != nil {
				return err
			}
		}
	}

	if d.SSO != nil {
		for i := range d.Containers {
			c := &d.Containers[i]
			if !c.UsesSSO {
				continue
			}
			name := d.SSOSecretName(c)
			exists, err := p.secrets.SecretExists(ctx, d.Owner.GetNamespace(), name)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			clientID := d.SSOClientID(c)
			clientSecret, err := p.registrar.RegisterClient(ctx, d.SSO, clientID)
			if err != nil {
				return fmt.Errorf("register SSO client %s: %w", clientID, err)
			}
			if _, err := p.secrets.EnsureSecret(ctx, d.Owner, name, map[string][]byte{
				secret.KeyClientID:     []byte(clientID),
				secret.KeyClientSecret: []byte(clientSecret),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// prepareDatabase runs the schema preparation job. A job that already
// succeeded is never run again; one that failed earlier is replaced.
func (p *Processor) prepareDatabase(ctx context.Context, log logr.Logger, d *deployable.Deployable) error {
	job := p.builder.PreparationJob(d)
	if job == nil {
		return nil
	}
	key := client.ObjectKeyFromObject(job)

	existing := &batchv1.Job{}
	err := p.client.Get(ctx, key, existing)
	switch {
	case err == nil && kube.JobSucceeded(existing):
		log.V(1).Info("Database preparation already completed", "job", job.Name)
		return nil
	case err == nil && kube.JobFailed(existing):
		log.Info("Replacing failed database preparation job", "job", job.Name)
		if err := p.client.Delete(ctx, existing, client.PropagationPolicy("Background")); err != nil && !apierrors.IsNotFound(err) {
			return fmt.Errorf("delete job %s: %w", job.Name, err)
		}
		if err := p.createJob(ctx, d, job); err != nil {
			return err
		}
	case err == nil:
	case apierrors.IsNotFound(err):
		if err := p.createJob(ctx, d, job); err != nil {
			return err
		}
	default:
		return fmt.Errorf("get job %s: %w", job.Name, err)
	}

	timeout := p.cfg.PodCompletionTimeout
	jobFailed := false
	err = kube.Poll(ctx, p.cfg.PollInterval, timeout, func(ctx context.Context) (bool, error) {
		current := &batchv1.Job{}
		if err := p.client.Get(ctx, key, current); err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		if kube.JobFailed(current) {
			jobFailed = true
			return true, nil
		}
		return kube.JobSucceeded(current), nil
	})
	if err != nil {
		return failure.AsTimeout(err, "completion of job "+job.Name, timeout)
	}
	if jobFailed {
		return fmt.Errorf("database preparation job %s/%s failed", job.Namespace, job.Name)
	}
	return nil
}

func (p *Processor) createJob(ctx context.Context, d *deployable.Deployable, job *batchv1.Job) error {
	if err := p.own(d, job); err != nil {
		return err
	}
	if err := p.client.Create(ctx, job); err != nil {
		return fmt.Errorf("create job %s: %w", job.Name, err)
	}
	return nil
}

func (p *Processor) ensureService(ctx context.Context, d *deployable.Deployable) (*corev1.Service, error) {
	desired := p.builder.Service(d)
	svc := &corev1.Service{}
	svc.Name = desired.Name
	svc.Namespace = desired.Namespace
	_, err := controllerutil.CreateOrUpdate(ctx, p.client, svc, func() error {
		svc.Labels = kube.MergeLabels(svc.Labels, desired.Labels)
		// A ClusterIP cannot be assigned to an ExternalName service.
		if d.External != nil {
			svc.Spec.ClusterIP = ""
			svc.Spec.ClusterIPs = nil
		}
		p.builder.applyServiceSpec(d, &svc.Spec)
		return p.own(d, svc)
	})
	if err != nil {
		return nil, fmt.Errorf("create or update service %s: %w", desired.Name, err)
	}
	return svc, nil
}

func (p *Processor) ensureDeployment(ctx context.Context, d *deployable.Deployable) (*appsv1.Deployment, error) {
	desired := p.builder.Deployment(d)
	dep := &appsv1.Deployment{}
	dep.Name = desired.Name
	dep.Namespace = desired.Namespace
	_, err := controllerutil.CreateOrUpdate(ctx, p.client, dep, func() error {
		dep.Labels = kube.MergeLabels(dep.Labels, desired.Labels)
		p.builder.applyDeploymentSpec(d, dep)
		return p.own(d, dep)
	})
	if err != nil {
		return nil, fmt.Errorf("create or update deployment %s: %w", desired.Name, err)
	}
	return dep, nil
}

func (p *Processor) waitForReadyPod(ctx context.Context, log logr.Logger, d *deployable.Deployable) error {
	timeout := p.cfg.PodReadinessTimeout
	log.V(1).Info("Waiting for a ready pod", "deployment", d.DeploymentName(), "timeout", timeout)
	err := kube.Poll(ctx, p.cfg.PollInterval, timeout, func(ctx context.Context) (bool, error) {
		pods := &corev1.PodList{}
		if err := p.client.List(ctx, pods,
			client.InNamespace(d.Owner.GetNamespace()),
			client.MatchingLabels(d.Labels()),
		); err != nil {
			return false, err
		}
		return kube.AnyPodReady(pods.Items), nil
	})
	return failure.AsTimeout(err, "readiness of deployment "+d.DeploymentName(), timeout)
}

// ensureIngress creates the owner's ingress or adds the Deployable's paths
// to it. Paths added by other Deployables are kept.
func (p *Processor) ensureIngress(ctx context.Context, d *deployable.Deployable) (*networkingv1.Ingress, error) {
	desired := p.builder.Ingress(d)
	existing := &networkingv1.Ingress{}
	err := p.client.Get(ctx, client.ObjectKeyFromObject(desired), existing)
	if apierrors.IsNotFound(err) {
		if err := p.own(d, desired); err != nil {
			return nil, err
		}
		if err := p.client.Create(ctx, desired); err != nil {
			return nil, fmt.Errorf("create ingress %s: %w", desired.Name, err)
		}
		return desired, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ingress %s: %w", desired.Name, err)
	}

	patch := client.MergeFrom(existing.DeepCopy())
	if !MergeIngress(existing, desired) {
		return existing, nil
	}
	if err := p.client.Patch(ctx, existing, patch); err != nil {
		return nil, fmt.Errorf("patch ingress %s: %w", desired.Name, err)
	}
	return existing, nil
}

// MergeIngress adds the rules, paths and TLS entries of desired that target
// is missing. It reports whether target changed.
func MergeIngress(target, desired *networkingv1.Ingress) bool {
	changed := false
	for _, rule := range desired.Spec.Rules {
		idx := -1
		for i := range target.Spec.Rules {
			if target.Spec.Rules[i].Host == rule.Host {
				idx = i
				break
			}
		}
		if idx < 0 {
			target.Spec.Rules = append(target.Spec.Rules, *rule.DeepCopy())
			changed = true
			continue
		}
		existing := &target.Spec.Rules[idx]
		if existing.HTTP == nil {
			existing.HTTP = &networkingv1.HTTPIngressRuleValue{}
		}
		if rule.HTTP == nil {
			continue
		}
		for _, path := range rule.HTTP.Paths {
			if !hasPath(existing.HTTP.Paths, path.Path) {
				existing.HTTP.Paths = append(existing.HTTP.Paths, *path.DeepCopy())
				changed = true
			}
		}
	}
	for _, tls := range desired.Spec.TLS {
		found := false
		for _, t := range target.Spec.TLS {
			if t.SecretName == tls.SecretName {
				found = true
				break
			}
		}
		if !found {
			target.Spec.TLS = append(target.Spec.TLS, *tls.DeepCopy())
			changed = true
		}
	}
	return changed
}

func hasPath(paths []networkingv1.HTTPIngressPath, path string) bool {
	for _, p := range paths {
		if p.Path == path {
			return true
		}
	}
	return false
}
