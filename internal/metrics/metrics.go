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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

const (
	// Metric namespace
	namespace = "entando"

	// Label names
	labelKind       = "kind"
	labelStatus     = "status"
	labelPhase      = "phase"
	labelNamespace  = "namespace"
	labelCapability = "capability"
	labelOutcome    = "outcome"
)

// Status values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Capability request outcomes
const (
	OutcomeReused   = "reused"
	OutcomeCreated  = "created"
	OutcomeRetried  = "retried"
	OutcomeFailed   = "failed"
	OutcomeTimedOut = "timed_out"
	OutcomeRejected = "rejected"
)

// Deployment phases timed by the processor
const (
	PhasePersistentVolumeClaims = "pvc"
	PhaseSecrets                = "secrets"
	PhaseDatabasePreparation    = "db_preparation"
	PhaseService                = "service"
	PhaseDeployment             = "deployment"
	PhasePodReadiness           = "pod_readiness"
	PhaseIngress                = "ingress"
)

var (
	// ReconciliationsTotal counts completed reconciliations per kind and outcome
	ReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciliations_total",
			Help:      "Total number of reconciliations by kind and outcome",
		},
		[]string{labelKind, labelStatus},
	)

	// ReconciliationDurationSeconds tracks how long a reconciliation takes
	ReconciliationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconciliation_duration_seconds",
			Help:      "Duration of reconciliations in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{labelKind},
	)

	// DeploymentPhaseDurationSeconds tracks each phase of a deployment
	DeploymentPhaseDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deployment_phase_duration_seconds",
			Help:      "Duration of deployment processing phases in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300, 600},
		},
		[]string{labelPhase},
	)

	// CapabilityRequestsTotal counts capability requests by outcome
	CapabilityRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capability_requests_total",
			Help:      "Total number of capability requests by capability and outcome",
		},
		[]string{labelCapability, labelOutcome},
	)

	// ResourceCount tracks managed resources by kind and phase
	ResourceCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resource_count",
			Help:      "Current count of managed resources by kind and phase",
		},
		[]string{labelKind, labelPhase, labelNamespace},
	)

	// ResyncTriggeredTotal counts failed resources re-queued by the resync schedule
	ResyncTriggeredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resync_triggered_total",
			Help:      "Total number of failed resources re-requested by the resync schedule",
		},
		[]string{labelKind},
	)
)

func init() {
	// Register all metrics with the controller-runtime metrics registry
	metrics.Registry.MustRegister(
		ReconciliationsTotal,
		ReconciliationDurationSeconds,
		DeploymentPhaseDurationSeconds,
		CapabilityRequestsTotal,
		ResourceCount,
		ResyncTriggeredTotal,
	)
}

// RecordReconciliation records a finished reconciliation and its duration
func RecordReconciliation(kind, status string, seconds float64) {
	ReconciliationsTotal.WithLabelValues(kind, status).Inc()
	ReconciliationDurationSeconds.WithLabelValues(kind).Observe(seconds)
}

// RecordDeploymentPhase records the duration of one deployment phase
func RecordDeploymentPhase(phase string, seconds float64) {
	DeploymentPhaseDurationSeconds.WithLabelValues(phase).Observe(seconds)
}

// RecordCapabilityRequest records the outcome of a capability request
func RecordCapabilityRequest(capability, outcome string) {
	CapabilityRequestsTotal.WithLabelValues(capability, outcome).Inc()
}

// SetResourceCount sets the count of resources of a kind in a phase
func SetResourceCount(kind, phase, namespace string, count float64) {
	ResourceCount.WithLabelValues(kind, phase, namespace).Set(count)
}

// ResetResourceCounts drops every resource count of a kind
func ResetResourceCounts(kind string) {
	ResourceCount.DeletePartialMatch(prometheus.Labels{labelKind: kind})
}

// RecordResync records a resync request for a failed resource
func RecordResync(kind string) {
	ResyncTriggeredTotal.WithLabelValues(kind).Inc()
}
