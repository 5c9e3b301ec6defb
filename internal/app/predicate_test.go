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

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/event"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

func newApp(generation int64, requestedAt string) *entandov1alpha1.EntandoApp {
	app := &entandov1alpha1.EntandoApp{
		ObjectMeta: metav1.ObjectMeta{
			Name:       "my-app",
			Namespace:  "my-namespace",
			Generation: generation,
		},
	}
	if requestedAt != "" {
		app.Annotations = map[string]string{entandov1alpha1.AnnotationReconciliationRequested: requestedAt}
	}
	return app
}

func TestReconciliationPredicate_Create(t *testing.T) {
	p := NewReconciliationPredicate()

	assert.True(t, p.Create(event.CreateEvent{Object: newApp(1, "")}))
	assert.False(t, p.Create(event.CreateEvent{}))
}

func TestReconciliationPredicate_Update(t *testing.T) {
	tests := []struct {
		name     string
		old      *entandov1alpha1.EntandoApp
		new      *entandov1alpha1.EntandoApp
		expected bool
	}{
		{name: "generation changed", old: newApp(1, ""), new: newApp(2, ""), expected: true},
		{name: "status only", old: newApp(1, ""), new: newApp(1, ""), expected: false},
		{name: "annotation added", old: newApp(1, ""), new: newApp(1, "t1"), expected: true},
		{name: "annotation changed", old: newApp(1, "t1"), new: newApp(1, "t2"), expected: true},
		{name: "annotation unchanged", old: newApp(1, "t1"), new: newApp(1, "t1"), expected: false},
		{name: "annotation removed", old: newApp(1, "t1"), new: newApp(1, ""), expected: false},
	}

	p := NewReconciliationPredicate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Update(event.UpdateEvent{ObjectOld: tt.old, ObjectNew: tt.new}))
		})
	}
}

func TestReconciliationPredicate_UpdateWithoutGeneration(t *testing.T) {
	p := NewReconciliationPredicate()

	old := newApp(0, "")
	old.Spec.IngressHostName = "old.example.com"
	same := old.DeepCopy()
	changed := old.DeepCopy()
	changed.Spec.IngressHostName = "new.example.com"

	assert.False(t, p.Update(event.UpdateEvent{ObjectOld: old, ObjectNew: same}))
	assert.True(t, p.Update(event.UpdateEvent{ObjectOld: old, ObjectNew: changed}))

	withGeneration := newApp(1, "")
	withGeneration.Spec.IngressHostName = "new.example.com"
	oldWithGeneration := newApp(1, "")
	assert.False(t, p.Update(event.UpdateEvent{ObjectOld: oldWithGeneration, ObjectNew: withGeneration}))
}

func TestReconciliationPredicate_UpdateWithNilObject(t *testing.T) {
	p := NewReconciliationPredicate()

	assert.False(t, p.Update(event.UpdateEvent{ObjectNew: newApp(1, "t1")}))
	assert.False(t, p.Update(event.UpdateEvent{ObjectOld: newApp(1, "")}))
}

func TestReconciliationPredicate_DeleteIsIgnored(t *testing.T) {
	p := NewReconciliationPredicate()

	assert.False(t, p.Delete(event.DeleteEvent{Object: newApp(1, "")}))
}

func TestReconciliationPredicate_Generic(t *testing.T) {
	p := NewReconciliationPredicate()

	assert.True(t, p.Generic(event.GenericEvent{Object: newApp(1, "")}))
	assert.False(t, p.Generic(event.GenericEvent{}))
}
