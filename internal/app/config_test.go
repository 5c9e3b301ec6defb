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
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/runtime"
)

func TestDefaultManagerOptions(t *testing.T) {
	opts := DefaultManagerOptions()

	assert.Equal(t, ":8080", opts.MetricsAddr)
	assert.Equal(t, ":8081", opts.ProbeAddr)
	assert.False(t, opts.LeaderElection)
	assert.Equal(t, "entando-k8s-operator.entando.org", opts.LeaderElectionID)
	assert.Empty(t, opts.Namespaces)
}

func TestManagerConfig(t *testing.T) {
	scheme := runtime.NewScheme()
	opts := DefaultManagerOptions()
	opts.LeaderElection = true
	opts.MetricsAddr = "0"

	cfg := opts.ManagerConfig(scheme)

	assert.Same(t, scheme, cfg.Scheme)
	assert.Equal(t, "0", cfg.Metrics.BindAddress)
	assert.Equal(t, ":8081", cfg.HealthProbeBindAddress)
	assert.True(t, cfg.LeaderElection)
	assert.Equal(t, "entando-k8s-operator.entando.org", cfg.LeaderElectionID)
	assert.Nil(t, cfg.Cache.DefaultNamespaces)
}

func TestManagerConfig_RestrictsNamespaces(t *testing.T) {
	opts := DefaultManagerOptions()
	opts.Namespaces = []string{"team-a", "team-b"}

	cfg := opts.ManagerConfig(runtime.NewScheme())

	assert.Len(t, cfg.Cache.DefaultNamespaces, 2)
	assert.Contains(t, cfg.Cache.DefaultNamespaces, "team-a")
	assert.Contains(t, cfg.Cache.DefaultNamespaces, "team-b")
}
