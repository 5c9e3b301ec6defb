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

package app

import (
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
)

// ManagerOptions holds manager-mode configuration set via CLI flags.
type ManagerOptions struct {
	MetricsAddr      string
	ProbeAddr        string
	LeaderElection   bool
	LeaderElectionID string
	// Namespaces restricts the watched namespaces. Empty watches the whole cluster.
	Namespaces []string
}

// DefaultManagerOptions returns ManagerOptions with production defaults.
func DefaultManagerOptions() ManagerOptions {
	return ManagerOptions{
		MetricsAddr:      ":8080",
		ProbeAddr:        ":8081",
		LeaderElectionID: "entando-k8s-operator.entando.org",
	}
}

// ManagerConfig converts the options into controller-runtime manager options.
func (o ManagerOptions) ManagerConfig(scheme *runtime.Scheme) ctrl.Options {
	opts := ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsserver.Options{BindAddress: o.MetricsAddr},
		HealthProbeBindAddress: o.ProbeAddr,
		LeaderElection:         o.LeaderElection,
		LeaderElectionID:       o.LeaderElectionID,
	}
	if len(o.Namespaces) > 0 {
		namespaces := make(map[string]cache.Config, len(o.Namespaces))
		for _, ns := range o.Namespaces {
			namespaces[ns] = cache.Config{}
		}
		opts.Cache = cache.Options{DefaultNamespaces: namespaces}
	}
	return opts
}
