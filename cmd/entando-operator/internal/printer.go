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
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
	"sigs.k8s.io/yaml"
)

// Printer writes Kubernetes objects as a multi-document YAML stream.
type Printer struct {
	scheme *runtime.Scheme
	writer io.Writer
}

// NewPrinter creates a new Printer. The scheme supplies apiVersion and kind
// for objects built without type metadata.
func NewPrinter(scheme *runtime.Scheme, writer io.Writer) *Printer {
	return &Printer{scheme: scheme, writer: writer}
}

// PrintObjects prints objs separated by "---".
func (p *Printer) PrintObjects(objs []client.Object) error {
	for i, obj := range objs {
		if obj.GetObjectKind().GroupVersionKind().Empty() {
			gvk, err := apiutil.GVKForObject(obj, p.scheme)
			if err != nil {
				return err
			}
			obj.GetObjectKind().SetGroupVersionKind(gvk)
		}
		output, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if i > 0 {
			fmt.Fprintln(p.writer, "---")
		}
		fmt.Fprint(p.writer, string(output))
	}
	return nil
}
