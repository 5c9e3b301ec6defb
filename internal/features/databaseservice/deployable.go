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

package databaseservice

import (
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
	"github.com/entando-k8s-operator/internal/secret"
)

// containerQualifier names the DBMS container and its volume.
const containerQualifier = "db"

// DatabaseName returns the database the service hosts, defaulting to the
// service name in snake case.
func DatabaseName(dbs *entandov1alpha1.EntandoDatabaseService) string {
	if dbs.Spec.DatabaseName != "" {
		return dbs.Spec.DatabaseName
	}
	return strings.ReplaceAll(dbs.Name, "-", "_") + "_db"
}

func parameters(vendor entandov1alpha1.DbmsVendor, databaseName string, port int32) map[string]string {
	return map[string]string{
		deployable.ParamDbmsVendor:   string(vendor),
		deployable.ParamDatabaseName: databaseName,
		deployable.ParamPort:         strconv.Itoa(int(port)),
	}
}

// NewDeployable describes the DBMS server deployed for dbs.
func NewDeployable(dbs *entandov1alpha1.EntandoDatabaseService, vendor deployable.VendorConfig, mode config.ComplianceMode) *deployable.Deployable {
	d := &deployable.Deployable{
		Owner:       dbs,
		Kind:        entandov1alpha1.KindEntandoDatabaseService,
		Replicas:    1,
		AdminSecret: &deployable.AdminSecret{Username: vendor.AdminUser},
		StatusType:  entandov1alpha1.ServerStatusDbServer,
	}
	databaseName := DatabaseName(dbs)
	env := []corev1.EnvVar{
		deployable.SecretEnv(vendor.EnvPrefix+"_"+vendor.AdminPasswordEnv, d.AdminSecretName(), secret.KeyPassword),
		deployable.LiteralEnv(vendor.EnvPrefix+"_DATABASE", databaseName),
	}
	fsGroup := vendor.FSGroup
	d.Containers = []deployable.Container{{
		NameQualifier: containerQualifier,
		Image:         vendor.Images.For(mode),
		Ports:         []corev1.ContainerPort{{Name: containerQualifier + "-port", ContainerPort: vendor.Port}},
		Env:           deployable.MergeEnv(env, dbs.Spec.EnvironmentVariables),
		Persistence: deployable.NewPersistence(vendor.DataMountPath,
			dbs.Spec.StorageClass, dbs.Spec.StorageSize, dbs.Spec.StorageAccessMode),
		HealthCheck: &deployable.HealthCheck{Command: vendor.HealthCheck},
		FSGroup:     &fsGroup,
	}}
	d.DeploymentParameters = parameters(vendor.Vendor, databaseName, vendor.Port)
	return d
}

// NewExternalDeployable describes the ExternalName service registered for an
// external DBMS. The caller validates the external service first.
func NewExternalDeployable(dbs *entandov1alpha1.EntandoDatabaseService, vendor deployable.VendorConfig) *deployable.Deployable {
	ext := dbs.Spec.ExternallyProvidedService
	port := vendor.Port
	if ext.Port != nil {
		port = *ext.Port
	}
	params := parameters(vendor.Vendor, DatabaseName(dbs), port)
	params[deployable.ParamHost] = ext.Host
	return &deployable.Deployable{
		Owner:                   dbs,
		Kind:                    entandov1alpha1.KindEntandoDatabaseService,
		External:                &deployable.ExternalService{Host: ext.Host, Port: port},
		ExistingAdminSecretName: ext.AdminSecretName,
		StatusType:              entandov1alpha1.ServerStatusExternalService,
		DeploymentParameters:    params,
	}
}
