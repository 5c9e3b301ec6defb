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

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
)

// ImageSet names the image used in each compliance mode.
type ImageSet struct {
	Community string
	Redhat    string
}

// For returns the image for mode.
func (i ImageSet) For(mode config.ComplianceMode) string {
	if mode == config.ComplianceRedhat && i.Redhat != "" {
		return i.Redhat
	}
	return i.Community
}

// Images of the Entando components.
var (
	ImageEntandoServer = ImageSet{
		Community: "entando/entando-de-app-wildfly:7.3.0",
		Redhat:    "entando/entando-de-app-eap:7.3.0",
	}
	ImageComponentManager = ImageSet{Community: "entando/entando-component-manager:7.3.0"}
	ImageAppBuilder       = ImageSet{Community: "entando/app-builder:7.3.0"}
	ImageKeycloak         = ImageSet{
		Community: "entando/entando-keycloak:15.0.2",
		Redhat:    "entando/entando-redhat-sso:7.5.1",
	}
	ImageDatabaseJob = ImageSet{Community: "entando/entando-k8s-dbjob:7.3.0"}
)

// VendorConfig describes how to run and connect to one DBMS vendor.
type VendorConfig struct {
	Vendor        entandov1alpha1.DbmsVendor
	Port          int32
	JDBCTemplate  string
	HibernateName string
	AdminUser     string
	Images        ImageSet
	DataMountPath string
	FSGroup       int64
	HealthCheck   []string
	// SchemaIsDatabase is set for vendors where every schema is a database of its own.
	SchemaIsDatabase bool
	// DeployableDirectly is false for vendors that can only be used externally.
	DeployableDirectly bool
	// EnvPrefix prefixes the environment variables of the vendor's image.
	EnvPrefix string
	// AdminPasswordEnv is the variable, without prefix, carrying the admin password.
	AdminPasswordEnv string
}

var vendors = map[entandov1alpha1.DbmsVendor]VendorConfig{
	entandov1alpha1.DbmsPostgreSQL: {
		Vendor:        entandov1alpha1.DbmsPostgreSQL,
		Port:          5432,
		JDBCTemplate:  "jdbc:postgresql://%s:%d/%s",
		HibernateName: "org.hibernate.dialect.PostgreSQLDialect",
		AdminUser:     "postgres",
		Images: ImageSet{
			Community: "centos/postgresql-12-centos7:latest",
			Redhat:    "registry.redhat.io/rhel8/postgresql-12:latest",
		},
		DataMountPath:      "/var/lib/pgsql/data",
		FSGroup:            26,
		HealthCheck:        []string{"/bin/sh", "-i", "-c", "PGPASSWORD=${POSTGRESQL_ADMIN_PASSWORD} psql -h 127.0.0.1 -U postgres -q -d postgres -c 'SELECT 1'"},
		DeployableDirectly: true,
		EnvPrefix:          "POSTGRESQL",
		AdminPasswordEnv:   "ADMIN_PASSWORD",
	},
	entandov1alpha1.DbmsMySQL: {
		Vendor:        entandov1alpha1.DbmsMySQL,
		Port:          3306,
		JDBCTemplate:  "jdbc:mysql://%s:%d/%s",
		HibernateName: "org.hibernate.dialect.MySQL5InnoDBDialect",
		AdminUser:     "root",
		Images: ImageSet{
			Community: "centos/mysql-80-centos7:latest",
			Redhat:    "registry.redhat.io/rhel8/mysql-80:latest",
		},
		DataMountPath:      "/var/lib/mysql/data",
		FSGroup:            27,
		HealthCheck:        []string{"/bin/sh", "-i", "-c", "MYSQL_PWD=${MYSQL_ROOT_PASSWORD} mysql -h127.0.0.1 -u root -e 'SELECT 1'"},
		SchemaIsDatabase:   true,
		DeployableDirectly: true,
		EnvPrefix:          "MYSQL",
		AdminPasswordEnv:   "ROOT_PASSWORD",
	},
	entandov1alpha1.DbmsOracle: {
		Vendor:        entandov1alpha1.DbmsOracle,
		Port:          1521,
		JDBCTemplate:  "jdbc:oracle:thin:@//%s:%d/%s",
		HibernateName: "org.hibernate.dialect.Oracle10gDialect",
		AdminUser:     "sys",
	},
}

// VendorFor returns the configuration of vendor.
func VendorFor(vendor entandov1alpha1.DbmsVendor) (VendorConfig, error) {
	v, ok := vendors[vendor]
	if !ok {
		return VendorConfig{}, fmt.Errorf("unsupported DBMS vendor %q", vendor)
	}
	return v, nil
}

// JDBCURL builds the JDBC URL for a schema on host.
func (v VendorConfig) JDBCURL(host string, port int32, databaseName, schema string) string {
	database := databaseName
	if v.SchemaIsDatabase {
		database = schema
	}
	return fmt.Sprintf(v.JDBCTemplate, host, port, database)
}

// Implementation returns the capability implementation matching the vendor.
func (v VendorConfig) Implementation() entandov1alpha1.StandardCapabilityImplementation {
	return entandov1alpha1.StandardCapabilityImplementation(v.Vendor)
}
