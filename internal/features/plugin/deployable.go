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

package plugin

import (
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/deployable"
)

const (
	// Port is the port every plugin image listens on.
	Port = int32(8081)
	// DefaultHealthCheckPath is appended to the ingress path when none is set.
	DefaultHealthCheckPath = "/actuator/health"

	dataMountPath = "/entando-data"
	schemaName    = "plugindb"
)

// NewDeployable describes the plugin server. db is nil for the embedded store.
func NewDeployable(p *entandov1alpha1.EntandoPlugin, db *deployable.DatabaseConnectionInfo, sso *deployable.SsoConnectionInfo) *deployable.Deployable {
	contextPath := "/" + strings.Trim(p.Spec.IngressPath, "/")
	health := p.Spec.HealthCheckPath
	if health == "" {
		health = DefaultHealthCheckPath
	}
	if !strings.HasPrefix(health, contextPath+"/") {
		health = strings.TrimSuffix(contextPath, "/") + "/" + strings.TrimPrefix(health, "/")
	}

	env := []corev1.EnvVar{
		deployable.LiteralEnv("SERVER_SERVLET_CONTEXT_PATH", contextPath),
		deployable.LiteralEnv("SERVER_PORT", "8081"),
		deployable.LiteralEnv("ENTANDO_PLUGIN_NAME", p.Name),
	}
	server := deployable.Container{
		NameQualifier: entandov1alpha1.QualifierServer,
		Image:         p.Spec.Image,
		Ports:         []corev1.ContainerPort{{Name: "server-port", ContainerPort: Port}},
		HealthCheck:   &deployable.HealthCheck{Path: health, StartupSeconds: 300},
		IngressPath:   contextPath,
		Persistence:   deployable.NewPersistence(dataMountPath, p.Spec.StorageClass, p.Spec.StorageSize, p.Spec.StorageAccessMode),
		UsesSSO:       sso != nil,
	}
	if db == nil {
		env = append(env, deployable.LiteralEnv("SPRING_PROFILES_ACTIVE", "default,embedded"))
	} else {
		server.DatabaseSchemas = []deployable.DatabaseSchema{{Name: schemaName, EnvPrefix: "SPRING_DATASOURCE"}}
		env = append(env,
			deployable.LiteralEnv("SPRING_PROFILES_ACTIVE", "default,prod"),
			deployable.LiteralEnv("SPRING_JPA_DATABASE_PLATFORM", db.Vendor.HibernateName),
		)
	}
	server.Env = deployable.MergeEnv(env, p.Spec.EnvironmentVariables)

	return &deployable.Deployable{
		Owner:         p,
		Kind:          entandov1alpha1.KindEntandoPlugin,
		NameQualifier: entandov1alpha1.QualifierServer,
		Containers:    []deployable.Container{server},
		Database:      db,
		SSO:           sso,
		Ingress: &deployable.IngressSettings{
			HostName:      p.Spec.IngressHostName,
			TLSSecretName: p.Spec.TLSSecretName,
		},
		Replicas:   ptr.Deref(p.Spec.Replicas, 1),
		StatusType: entandov1alpha1.ServerStatusWebServer,
	}
}
