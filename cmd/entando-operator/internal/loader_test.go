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

package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

const twoResources = `apiVersion: entando.org/v1alpha1
kind: EntandoApp
metadata:
  name: my-app
  namespace: my-namespace
spec:
  dbms: postgresql
  ingressHostName: my-app.apps.example.com
---
apiVersion: entando.org/v1alpha1
kind: EntandoDatabaseService
metadata:
  name: my-db
spec:
  dbms: mysql
`

func TestLoadReader(t *testing.T) {
	resources, err := LoadReader(strings.NewReader(twoResources))
	require.NoError(t, err)
	require.Len(t, resources, 2)

	app, ok := resources[0].(*entandov1alpha1.EntandoApp)
	require.True(t, ok)
	assert.Equal(t, "my-app", app.Name)
	assert.Equal(t, "my-namespace", app.Namespace)
	assert.Equal(t, entandov1alpha1.DbmsPostgreSQL, app.Spec.Dbms)

	dbs, ok := resources[1].(*entandov1alpha1.EntandoDatabaseService)
	require.True(t, ok)
	assert.Equal(t, entandov1alpha1.DbmsMySQL, dbs.DbmsVendor())
	assert.Empty(t, dbs.Namespace)
}

func TestLoadReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty",
			content: "---\n",
			wantErr: "no valid resources",
		},
		{
			name:    "foreign api version",
			content: "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: x\n",
			wantErr: "unsupported apiVersion",
		},
		{
			name:    "unknown kind",
			content: "apiVersion: entando.org/v1alpha1\nkind: EntandoBundle\nmetadata:\n  name: x\n",
			wantErr: `unsupported kind "EntandoBundle"`,
		},
		{
			name:    "missing name",
			content: "apiVersion: entando.org/v1alpha1\nkind: EntandoPlugin\nspec:\n  image: x\n",
			wantErr: "has no metadata.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitYAMLDocuments(t *testing.T) {
	docs := splitYAMLDocuments([]byte("a: 1\n---\nb: 2\n  ---  \nc: 3\n"))
	require.Len(t, docs, 3)
	assert.Equal(t, "b: 2\n", string(docs[1]))
}
