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

package keycloakserver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/secret"
)

// Settings of the Keycloak server container.
const (
	ContextPath     = "/auth"
	Port            = int32(8080)
	AdminUsername   = "entando_keycloak_admin"
	dataMountPath   = "/opt/jboss/keycloak/standalone/data"
	healthCheckPath = "/auth/realms/master"
	schemaName      = "kcdb"
)

// NewDeployable describes the Keycloak server deployed for kc. db is nil for
// the embedded store.
func NewDeployable(kc *entandov1alpha1.EntandoKeycloakServer, db *deployable.DatabaseConnectionInfo, mode config.ComplianceMode) *deployable.Deployable {
	d := &deployable.Deployable{
		Owner:         kc,
		Kind:          entandov1alpha1.KindEntandoKeycloakServer,
		NameQualifier: entandov1alpha1.QualifierServer,
		Database:      db,
		Replicas:      1,
		AdminSecret:   &deployable.AdminSecret{Username: AdminUsername},
		Ingress: &deployable.IngressSettings{
			HostName:      kc.Spec.IngressHostName,
			TLSSecretName: kc.Spec.TLSSecretName,
		},
		StatusType: entandov1alpha1.ServerStatusWebServer,
	}

	image := kc.Spec.CustomImage
	if image == "" {
		image = deployable.ImageKeycloak.For(mode)
	}
	adminSecret := d.AdminSecretName()
	env := []corev1.EnvVar{
		deployable.SecretEnv("KEYCLOAK_USER", adminSecret, secret.KeyUsername),
		deployable.SecretEnv("KEYCLOAK_PASSWORD", adminSecret, secret.KeyPassword),
		deployable.LiteralEnv("PROXY_ADDRESS_FORWARDING", "true"),
	}
	server := deployable.Container{
		NameQualifier: entandov1alpha1.QualifierServer,
		Image:         image,
		Ports:         []corev1.ContainerPort{{Name: "server-port", ContainerPort: Port}},
		HealthCheck:   &deployable.HealthCheck{Path: healthCheckPath},
		IngressPath:   ContextPath,
	}
	if db == nil {
		env = append(env, deployable.LiteralEnv("DB_VENDOR", "h2"))
		server.Persistence = deployable.NewPersistence(dataMountPath, kc.Spec.StorageClass, kc.Spec.StorageSize, kc.Spec.StorageAccessMode)
	} else {
		schemaSecret := d.SchemaSecretName(schemaName)
		server.DatabaseSchemas = []deployable.DatabaseSchema{{Name: schemaName, EnvPrefix: "KC_DB"}}
		env = append(env,
			deployable.LiteralEnv("DB_VENDOR", string(db.Vendor.Vendor)),
			deployable.LiteralEnv("DB_ADDR", db.InternalHost()),
			deployable.LiteralEnv("DB_PORT", strconv.Itoa(int(db.Port))),
			deployable.LiteralEnv("DB_DATABASE", db.DatabaseName),
			deployable.LiteralEnv("DB_SCHEMA", d.SchemaUsername(schemaName)),
			deployable.SecretEnv("DB_USER", schemaSecret, secret.KeyUsername),
			deployable.SecretEnv("DB_PASSWORD", schemaSecret, secret.KeyPassword),
		)
	}
	server.Env = deployable.MergeEnv(env, kc.Spec.EnvironmentVariables)
	d.Containers = []deployable.Container{server}
	return d
}

// NewExternalDeployable describes the ExternalName service registered for an
// external SSO server. The caller validates the external service first.
func NewExternalDeployable(kc *entandov1alpha1.EntandoKeycloakServer) (*deployable.Deployable, error) {
	ext, err := ParseExternal(kc.Spec.ExternallyProvidedService)
	if err != nil {
		return nil, err
	}
	return &deployable.Deployable{
		Owner:                   kc,
		Kind:                    entandov1alpha1.KindEntandoKeycloakServer,
		NameQualifier:           entandov1alpha1.QualifierServer,
		External:                ext,
		ExistingAdminSecretName: kc.Spec.ExternallyProvidedService.AdminSecretName,
		StatusType:              entandov1alpha1.ServerStatusExternalService,
	}, nil
}

// ParseExternal derives host, port and base URL of an external SSO server.
// The host may be a bare host name, combined with port and path, or a full URL.
func ParseExternal(svc *entandov1alpha1.ExternallyProvidedService) (*deployable.ExternalService, error) {
	if strings.Contains(svc.Host, "://") {
		u, err := url.Parse(svc.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid SSO base URL %q: %w", svc.Host, err)
		}
		port := int32(443)
		if u.Scheme == "http" {
			port = 80
		}
		if p := u.Port(); p != "" {
			parsed, err := strconv.ParseInt(p, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid port in SSO base URL %q: %w", svc.Host, err)
			}
			port = int32(parsed)
		}
		return &deployable.ExternalService{
			Host:    u.Hostname(),
			Port:    port,
			BaseURL: strings.TrimSuffix(svc.Host, "/"),
		}, nil
	}

	port := int32(443)
	if svc.Port != nil {
		port = *svc.Port
	}
	path := svc.Path
	if path == "" {
		path = ContextPath
	}
	authority := svc.Host
	if port != 443 {
		authority = fmt.Sprintf("%s:%d", svc.Host, port)
	}
	return &deployable.ExternalService{
		Host:    svc.Host,
		Port:    port,
		BaseURL: "https://" + authority + "/" + strings.Trim(path, "/"),
	}, nil
}
