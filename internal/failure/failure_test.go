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

package failure

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/wait"
)

func TestControllerError(t *testing.T) {
	plain := NewControllerError("Please provide the name of the database you intend to connect to")
	assert.Equal(t, "Please provide the name of the database you intend to connect to", plain.Error())
	assert.Nil(t, plain.Unwrap())

	cause := errors.New("secret not found")
	wrapped := Wrap(cause, "Could not prepare %s capability for %s %s", "DBMS", "EntandoApp", "ns/app")
	assert.Equal(t, "Could not prepare DBMS capability for EntandoApp ns/app: secret not found", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, IsControllerError(fmt.Errorf("outer: %w", wrapped)))
	assert.False(t, IsControllerError(cause))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(NewTimeoutError("pod readiness", time.Second, nil)))
	assert.True(t, IsTimeout(fmt.Errorf("wait: %w", context.DeadlineExceeded)))
	assert.True(t, IsTimeout(wait.ErrorInterrupted(errors.New("stopped"))))
	assert.False(t, IsTimeout(errors.New("connection refused")))
	assert.False(t, IsTimeout(nil))
}

func TestAsTimeout(t *testing.T) {
	assert.NoError(t, AsTimeout(nil, "x", time.Second))

	plain := errors.New("boom")
	assert.Same(t, plain, AsTimeout(plain, "x", time.Second))

	err := AsTimeout(context.DeadlineExceeded, "job completion", 2*time.Second)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "job completion", te.Operation)
	assert.Equal(t, 2*time.Second, te.Timeout)
	assert.Contains(t, err.Error(), "timed out after 2s waiting for job completion")

	assert.Same(t, err, AsTimeout(err, "other", time.Minute))
}

func TestDetail(t *testing.T) {
	root := NewControllerError("Please provide the hostname of the database service you intend to connect to")
	err := Wrap(root, "Could not prepare DBMS capability for EntandoApp my-namespace/my-app")

	detail := Detail(err)
	assert.Contains(t, detail, "Could not prepare DBMS capability for EntandoApp my-namespace/my-app")
	assert.Contains(t, detail, "caused by *failure.ControllerError: Please provide the hostname")
	assert.Empty(t, Detail(nil))
}

func TestToStatus(t *testing.T) {
	assert.Nil(t, ToStatus(nil, Object{}))

	gvk := schema.GroupVersionKind{Group: "entando.org", Version: "v1alpha1", Kind: "EntandoDatabaseService"}
	f := ToStatus(NewControllerError("bad input"), Object{GVK: gvk, Namespace: "ns", Name: "db"})
	require.NotNil(t, f)
	assert.Equal(t, "entando.org/v1alpha1", f.FailedObjectAPIVersion)
	assert.Equal(t, "EntandoDatabaseService", f.FailedObjectKind)
	assert.Equal(t, "ns", f.FailedObjectNamespace)
	assert.Equal(t, "db", f.FailedObjectName)
	assert.Equal(t, "bad input", f.Message)
	assert.Equal(t, "bad input", f.DetailMessage)

	restored := FromStatus(f)
	assert.True(t, IsControllerError(restored))
	assert.Equal(t, "bad input", restored.Error())
	assert.NoError(t, FromStatus(nil))
}
