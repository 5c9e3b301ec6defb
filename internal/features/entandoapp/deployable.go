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

package entandoapp

import (
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/deployable"
)

// Context paths of the app components on the shared ingress.
const (
	ServerPath           = "/entando-de-app"
	ComponentManagerPath = "/digital-exchange"
	AppBuilderPath       = "/app-builder/"
)

// Qualifiers of the component manager and app builder deployables.
const (
	QualifierComponentManager = "de"
	QualifierAppBuilder       = "ab"
)

const (
	serverPort           = int32(8080)
	componentManagerPort = int32(8083)
	appBuilderPort       = int32(8081)
	dataMountPath        = "/entando-data"

	schemaPort             = "portdb"
	schemaServ             = "servdb"
	schemaComponentManager = "dedb"
)

var (
	portSchema             = deployable.DatabaseSchema{Name: schemaPort, EnvPrefix: "PORTDB"}
	servSchema             = deployable.DatabaseSchema{Name: schemaServ, EnvPrefix: "SERVDB"}
	componentManagerSchema = deployable.DatabaseSchema{Name: schemaComponentManager, EnvPrefix: "SPRING_DATASOURCE"}
)

func ingressOf(app *entandov1alpha1.EntandoApp) *deployable.IngressSettings {
	return &deployable.IngressSettings{
		HostName:      app.Spec.IngressHostName,
		TLSSecretName: app.Spec.TLSSecretName,
	}
}

func replicasOf(app *entandov1alpha1.EntandoApp) int32 {
	return ptr.Deref(app.Spec.Replicas, 1)
}

// NewServerDeployable describes the Entando server of app. db is nil for the
// embedded store, in which case the server keeps its databases on its volume.
func NewServerDeployable(app *entandov1alpha1.EntandoApp, db *deployable.DatabaseConnectionInfo,
	sso *deployable.SsoConnectionInfo, mode config.ComplianceMode) *deployable.Deployable {
	image := app.Spec.CustomServerImage
	if image == "" {
		image = deployable.ImageEntandoServer.For(mode)
	}
	env := []corev1.EnvVar{
		deployable.LiteralEnv("ENTANDO_WEB_CONTEXT", ServerPath),
		deployable.LiteralEnv("SERVER_SERVLET_CONTEXT_PATH", ServerPath),
		deployable.LiteralEnv("DB_STARTUP_CHECK", "false"),
	}
	server := deployable.Container{
		NameQualifier: entandov1alpha1.QualifierServer,
		Image:         image,
		Ports:         []corev1.ContainerPort{{Name: "server-port", ContainerPort: serverPort}},
		HealthCheck:   &deployable.HealthCheck{Path: ServerPath + "/api/health", StartupSeconds: 600},
		IngressPath:   ServerPath,
		Persistence:   deployable.NewPersistence(dataMountPath, app.Spec.StorageClass, app.Spec.StorageSize, app.Spec.StorageAccessMode),
		UsesSSO:       sso != nil,
	}

	d := &deployable.Deployable{
		Owner:         app,
		Kind:          entandov1alpha1.KindEntandoApp,
		NameQualifier: entandov1alpha1.QualifierServer,
		Database:      db,
		SSO:           sso,
		Ingress:       ingressOf(app),
		Replicas:      replicasOf(app),
		StatusType:    entandov1alpha1.ServerStatusWebServer,
	}
	if db == nil {
		env = append(env,
			deployable.LiteralEnv("PORTDB_URL", "jdbc:derby:"+dataMountPath+"/databases/entandoPort;create=true"),
			deployable.LiteralEnv("SERVDB_URL", "jdbc:derby:"+dataMountPath+"/databases/entandoServ;create=true"),
		)
	} else {
		server.DatabaseSchemas = []deployable.DatabaseSchema{portSchema, servSchema}
		env = append(env,
			deployable.LiteralEnv("PORTDB_DATABASE", db.DatabaseName),
			deployable.LiteralEnv("SERVDB_DATABASE", db.DatabaseName),
			deployable.LiteralEnv("DB_VENDOR", string(db.Vendor.Vendor)),
		)
		d.Population = &deployable.PopulationStep{
			Image:   image,
			Command: []string{"/bin/bash", "-c", "/entando-common/init-db-from-deployment.sh"},
			Schemas: []deployable.DatabaseSchema{portSchema, servSchema},
		}
	}
	server.Env = deployable.MergeEnv(env, app.Spec.EnvironmentVariables)
	d.Containers = []deployable.Container{server}
	return d
}

// NewComponentManagerDeployable describes the component manager of app,
// which talks to the Entando server through its cluster-internal service.
func NewComponentManagerDeployable(app *entandov1alpha1.EntandoApp, db *deployable.DatabaseConnectionInfo,
	sso *deployable.SsoConnectionInfo, mode config.ComplianceMode) *deployable.Deployable {
	serverURL := fmt.Sprintf("http://%s-%s-service.%s.svc.cluster.local:%d%s",
		app.Name, entandov1alpha1.QualifierServer, app.Namespace, serverPort, ServerPath)
	env := []corev1.EnvVar{
		deployable.LiteralEnv("ENTANDO_APP_NAME", app.Name),
		deployable.LiteralEnv("ENTANDO_URL", serverURL),
		deployable.LiteralEnv("SERVER_SERVLET_CONTEXT_PATH", ComponentManagerPath),
		deployable.LiteralEnv("SERVER_PORT", strconv.Itoa(int(componentManagerPort))),
	}
	c := deployable.Container{
		NameQualifier: QualifierComponentManager,
		Image:         deployable.ImageComponentManager.For(mode),
		Ports:         []corev1.ContainerPort{{Name: "de-port", ContainerPort: componentManagerPort}},
		HealthCheck:   &deployable.HealthCheck{Path: ComponentManagerPath + "/actuator/health", StartupSeconds: 300},
		IngressPath:   ComponentManagerPath,
		UsesSSO:       sso != nil,
	}
	if db == nil {
		c.Persistence = deployable.NewPersistence(dataMountPath, app.Spec.StorageClass, app.Spec.StorageSize, app.Spec.StorageAccessMode)
		env = append(env, deployable.LiteralEnv("SPRING_PROFILES_ACTIVE", "default,embedded"))
	} else {
		c.DatabaseSchemas = []deployable.DatabaseSchema{componentManagerSchema}
		env = append(env, deployable.LiteralEnv("SPRING_JPA_DATABASE_PLATFORM", db.Vendor.HibernateName))
	}
	c.Env = env

	return &deployable.Deployable{
		Owner:         app,
		Kind:          entandov1alpha1.KindEntandoApp,
		NameQualifier: QualifierComponentManager,
		Containers:    []deployable.Container{c},
		Database:      db,
		SSO:           sso,
		Ingress:       ingressOf(app),
		Replicas:      1,
		StatusType:    entandov1alpha1.ServerStatusWebServer,
	}
}

// NewAppBuilderDeployable describes the app builder of app. It is a static
// web application that calls the Entando server from the browser.
func NewAppBuilderDeployable(app *entandov1alpha1.EntandoApp, mode config.ComplianceMode) *deployable.Deployable {
	c := deployable.Container{
		NameQualifier: QualifierAppBuilder,
		Image:         deployable.ImageAppBuilder.For(mode),
		Ports:         []corev1.ContainerPort{{Name: "ab-port", ContainerPort: appBuilderPort}},
		HealthCheck:   &deployable.HealthCheck{Path: AppBuilderPath + "index.html"},
		IngressPath:   AppBuilderPath,
		Env: []corev1.EnvVar{
			deployable.LiteralEnv("REACT_APP_DOMAIN", ServerPath),
			deployable.LiteralEnv("DOMAIN", ServerPath),
		},
	}
	return &deployable.Deployable{
		Owner:         app,
		Kind:          entandov1alpha1.KindEntandoApp,
		NameQualifier: QualifierAppBuilder,
		Containers:    []deployable.Container{c},
		Ingress:       ingressOf(app),
		Replicas:      1,
		StatusType:    entandov1alpha1.ServerStatusWebServer,
	}
}
