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

package testutil

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/dynamic"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

const (
	// DefaultPollInterval is the default interval between polling attempts
	DefaultPollInterval = 2 * time.Second
)

// WaitForPhase waits for an Entando resource to reach the expected phase.
// Reaching the failed phase while waiting for another one stops the wait
// with the recorded failure message.
func WaitForPhase(
	ctx context.Context,
	dynamicClient dynamic.Interface,
	gvr schema.GroupVersionResource,
	namespace, name string,
	expectedPhase entandov1alpha1.EntandoDeploymentPhase,
	timeout time.Duration,
) (*unstructured.Unstructured, error) {
	var last *unstructured.Unstructured
	err := wait.PollUntilContextTimeout(ctx, DefaultPollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		resource, err := dynamicClient.Resource(gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil // Resource not found yet, keep polling
			}
			return false, fmt.Errorf("failed to get resource %s/%s: %w", namespace, name, err)
		}
		last = resource

		phase, _, _ := unstructured.NestedString(resource.Object, "status", "phase")
		switch entandov1alpha1.EntandoDeploymentPhase(phase) {
		case expectedPhase:
			return true, nil
		case entandov1alpha1.PhaseFailed:
			return false, fmt.Errorf("resource %s/%s failed: %s", namespace, name, FailureMessage(resource))
		}
		return false, nil
	})
	return last, err
}

// FailureMessage returns the message of the first failed server status.
func FailureMessage(resource *unstructured.Unstructured) string {
	statuses, _, _ := unstructured.NestedSlice(resource.Object, "status", "serverStatuses")
	for _, s := range statuses {
		ss, ok := s.(map[string]interface{})
		if !ok {
			continue
		}
		if msg, found, _ := unstructured.NestedString(ss, "entandoControllerFailure", "message"); found {
			return msg
		}
	}
	return ""
}

// ServerStatus returns the server status recorded under qualifier.
func ServerStatus(resource *unstructured.Unstructured, qualifier string) (map[string]interface{}, bool) {
	statuses, _, _ := unstructured.NestedSlice(resource.Object, "status", "serverStatuses")
	for _, s := range statuses {
		ss, ok := s.(map[string]interface{})
		if ok && ss["qualifier"] == qualifier {
			return ss, true
		}
	}
	return nil, false
}

// WaitForDeletion waits for a custom resource to be deleted.
func WaitForDeletion(
	ctx context.Context,
	dynamicClient dynamic.Interface,
	gvr schema.GroupVersionResource,
	namespace, name string,
	timeout time.Duration,
) error {
	return wait.PollUntilContextTimeout(ctx, DefaultPollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		_, err := dynamicClient.Resource(gvr).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				return true, nil // Resource is gone, we're done
			}
			return false, fmt.Errorf("failed to check resource %s/%s: %w", namespace, name, err)
		}
		return false, nil // Resource still exists, keep polling
	})
}
