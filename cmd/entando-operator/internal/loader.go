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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// typeMeta is used for initial parsing to determine the kind
type typeMeta struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
}

// LoadFile loads Entando resources from a YAML file.
// Supports multi-document YAML files separated by "---"
func LoadFile(path string) ([]entandov1alpha1.EntandoResource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return LoadReader(file)
}

// LoadReader loads Entando resources from a reader.
func LoadReader(r io.Reader) ([]entandov1alpha1.EntandoResource, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	var resources []entandov1alpha1.EntandoResource
	for i, doc := range splitYAMLDocuments(content) {
		if len(bytes.TrimSpace(doc)) == 0 {
			continue
		}
		resource, err := parseDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse document %d: %w", i+1, err)
		}
		resources = append(resources, resource)
	}

	if len(resources) == 0 {
		return nil, fmt.Errorf("no valid resources found in file")
	}
	return resources, nil
}

func parseDocument(doc []byte) (entandov1alpha1.EntandoResource, error) {
	var tm typeMeta
	if err := yaml.Unmarshal(doc, &tm); err != nil {
		return nil, fmt.Errorf("failed to parse type metadata: %w", err)
	}
	if tm.APIVersion != entandov1alpha1.GroupVersion.String() {
		return nil, fmt.Errorf("unsupported apiVersion %q, expected %q", tm.APIVersion, entandov1alpha1.GroupVersion.String())
	}

	var obj entandov1alpha1.EntandoResource
	switch tm.Kind {
	case entandov1alpha1.KindEntandoApp:
		obj = &entandov1alpha1.EntandoApp{}
	case entandov1alpha1.KindEntandoPlugin:
		obj = &entandov1alpha1.EntandoPlugin{}
	case entandov1alpha1.KindEntandoDatabaseService:
		obj = &entandov1alpha1.EntandoDatabaseService{}
	case entandov1alpha1.KindEntandoKeycloakServer:
		obj = &entandov1alpha1.EntandoKeycloakServer{}
	case entandov1alpha1.KindProvidedCapability:
		obj = &entandov1alpha1.ProvidedCapability{}
	default:
		return nil, fmt.Errorf("unsupported kind %q", tm.Kind)
	}

	if err := yaml.Unmarshal(doc, obj); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tm.Kind, err)
	}
	if obj.GetName() == "" {
		return nil, fmt.Errorf("%s has no metadata.name", tm.Kind)
	}
	return obj, nil
}

// splitYAMLDocuments splits YAML content by "---" separator
func splitYAMLDocuments(content []byte) [][]byte {
	var documents [][]byte
	var current bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(content))

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			if current.Len() > 0 {
				documents = append(documents, bytes.Clone(current.Bytes()))
				current.Reset()
			}
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}

	if current.Len() > 0 {
		documents = append(documents, current.Bytes())
	}
	return documents
}
