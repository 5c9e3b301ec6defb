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
	corev1 "k8s.io/api/core/v1"

	"github.com/entando-k8s-operator/internal/secret"
)

// SchemaEnv returns the connection variables of schema: the URL as a literal
// and the credentials as references to the schema secret.
func (d *Deployable) SchemaEnv(schema DatabaseSchema) []corev1.EnvVar {
	if d.Database == nil {
		return nil
	}
	secretName := d.SchemaSecretName(schema.Name)
	return []corev1.EnvVar{
		LiteralEnv(schema.EnvPrefix+"_URL", d.Database.JDBCURL(schema.Name)),
		SecretEnv(schema.EnvPrefix+"_USERNAME", secretName, secret.KeyUsername),
		SecretEnv(schema.EnvPrefix+"_PASSWORD", secretName, secret.KeyPassword),
	}
}

// SSOEnv returns the Keycloak variables of a container.
func (d *Deployable) SSOEnv(c *Container) []corev1.EnvVar {
	if d.SSO == nil {
		return nil
	}
	secretName := d.SSOSecretName(c)
	return []corev1.EnvVar{
		LiteralEnv("KEYCLOAK_ENABLED", "true"),
		LiteralEnv("KEYCLOAK_AUTH_URL", d.SSO.BaseURL),
		LiteralEnv("KEYCLOAK_REALM", d.SSO.Realm),
		LiteralEnv("KEYCLOAK_PUBLIC_CLIENT_ID", d.SSO.PublicClientID),
		SecretEnv("KEYCLOAK_CLIENT_ID", secretName, secret.KeyClientID),
		SecretEnv("KEYCLOAK_CLIENT_SECRET", secretName, secret.KeyClientSecret),
	}
}

// ContainerEnv returns every variable of c: schema connections, SSO settings
// and finally the container's own variables, which win on duplicates.
func (d *Deployable) ContainerEnv(c *Container) []corev1.EnvVar {
	var env []corev1.EnvVar
	for _, s := range c.DatabaseSchemas {
		env = append(env, d.SchemaEnv(s)...)
	}
	if c.UsesSSO {
		env = append(env, d.SSOEnv(c)...)
	}
	return MergeEnv(env, c.Env)
}

// MergeEnv appends overrides to base, replacing variables with the same name.
func MergeEnv(base []corev1.EnvVar, overrides []corev1.EnvVar) []corev1.EnvVar {
	out := make([]corev1.EnvVar, 0, len(base)+len(overrides))
	index := map[string]int{}
	for _, e := range append(append([]corev1.EnvVar{}, base...), overrides...) {
		if i, ok := index[e.Name]; ok {
			out[i] = e
			continue
		}
		index[e.Name] = len(out)
		out = append(out, e)
	}
	return out
}
