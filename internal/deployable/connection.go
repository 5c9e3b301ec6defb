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

package deployable

import (
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// Keys of the deployment parameters published by capability statuses.
const (
	ParamDbmsVendor   = "dbmsVendor"
	ParamDatabaseName = "databaseName"
	ParamPort         = "port"
	ParamHost         = "host"
)

// Defaults of the SSO connection.
const (
	DefaultRealm          = "entando"
	DefaultPublicClientID = "entando-web"
)

// DatabaseConnectionInfo is a read-only view of a provisioned DBMS capability.
type DatabaseConnectionInfo struct {
	Vendor          VendorConfig
	DatabaseName    string
	ServiceName     string
	Namespace       string
	Port            int32
	AdminSecretName string
}

// NewDatabaseConnectionInfo reads the connection details from the main
// server status of a DBMS capability.
func NewDatabaseConnectionInfo(capability *entandov1alpha1.ProvidedCapability) (*DatabaseConnectionInfo, error) {
	ss, ok := capability.Status.ForQualifier(entandov1alpha1.QualifierMain)
	if !ok {
		return nil, fmt.Errorf("capability %s/%s has no main server status", capability.Namespace, capability.Name)
	}
	vendor, err := VendorFor(entandov1alpha1.DbmsVendor(ss.DeploymentParameters[ParamDbmsVendor]))
	if err != nil {
		return nil, err
	}
	port := vendor.Port
	if p := ss.DeploymentParameters[ParamPort]; p != "" {
		parsed, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q on capability %s/%s: %w", p, capability.Namespace, capability.Name, err)
		}
		port = int32(parsed)
	}
	if ss.ServiceName == "" {
		return nil, fmt.Errorf("capability %s/%s does not expose a service", capability.Namespace, capability.Name)
	}
	return &DatabaseConnectionInfo{
		Vendor:          vendor,
		DatabaseName:    ss.DeploymentParameters[ParamDatabaseName],
		ServiceName:     ss.ServiceName,
		Namespace:       capability.Namespace,
		Port:            port,
		AdminSecretName: ss.AdminSecretName,
	}, nil
}

// InternalHost returns the cluster-internal host name of the database service.
func (d *DatabaseConnectionInfo) InternalHost() string {
	return d.ServiceName + "." + d.Namespace + ".svc.cluster.local"
}

// JDBCURL returns the JDBC URL for schema.
func (d *DatabaseConnectionInfo) JDBCURL(schema string) string {
	return d.Vendor.JDBCURL(d.InternalHost(), d.Port, d.DatabaseName, schema)
}

// SsoConnectionInfo is a read-only view of a provisioned SSO capability.
type SsoConnectionInfo struct {
	BaseURL         string
	Realm           string
	PublicClientID  string
	AdminSecretName string
	Namespace       string
}

// NewSsoConnectionInfo reads the SSO details from the main server status of
// an SSO capability. Empty realm and client id fall back to the defaults.
func NewSsoConnectionInfo(capability *entandov1alpha1.ProvidedCapability, realm, publicClientID string) (*SsoConnectionInfo, error) {
	ss, ok := capability.Status.ForQualifier(entandov1alpha1.QualifierMain)
	if !ok {
		return nil, fmt.Errorf("capability %s/%s has no main server status", capability.Namespace, capability.Name)
	}
	if ss.ExternalBaseURL == "" {
		return nil, fmt.Errorf("capability %s/%s does not expose a base URL", capability.Namespace, capability.Name)
	}
	if realm == "" {
		realm = DefaultRealm
	}
	if publicClientID == "" {
		publicClientID = DefaultPublicClientID
	}
	return &SsoConnectionInfo{
		BaseURL:         ss.ExternalBaseURL,
		Realm:           realm,
		PublicClientID:  publicClientID,
		AdminSecretName: ss.AdminSecretName,
		Namespace:       capability.Namespace,
	}, nil
}

// SecretEnv returns an env var sourced from key of secret.
func SecretEnv(name, secret, key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: name,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: secret},
				Key:                  key,
			},
		},
	}
}

// LiteralEnv returns an env var with a literal value.
func LiteralEnv(name, value string) corev1.EnvVar {
	return corev1.EnvVar{Name: name, Value: value}
}
