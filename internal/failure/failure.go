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

// Package failure classifies reconciliation errors and turns them into the
// failure records stored on resource status.
package failure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/wait"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
)

// ControllerError is a failure with a user-facing message, raised for invalid
// input or for a dependency that could not be provisioned.
type ControllerError struct {
	Message string
	Err     error
}

func (e *ControllerError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ControllerError) Unwrap() error {
	return e.Err
}

// NewControllerError creates a ControllerError without a cause.
func NewControllerError(format string, args ...any) *ControllerError {
	return &ControllerError{Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a ControllerError with err as its cause.
func Wrap(err error, format string, args ...any) *ControllerError {
	return &ControllerError{Message: fmt.Sprintf(format, args...), Err: err}
}

// TimeoutError reports that a blocking phase did not finish within its budget.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Operation)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a TimeoutError.
func NewTimeoutError(operation string, timeout time.Duration, err error) *TimeoutError {
	return &TimeoutError{Operation: operation, Timeout: timeout, Err: err}
}

// IsControllerError reports whether err carries a user-facing controller message.
func IsControllerError(err error) bool {
	var ce *ControllerError
	return errors.As(err, &ce)
}

// IsTimeout reports whether err was caused by an expired wait.
func IsTimeout(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || wait.Interrupted(err)
}

// AsTimeout returns err unchanged when it already is a TimeoutError, wraps it
// when it is an expired wait, and otherwise returns it as is.
func AsTimeout(err error, operation string, timeout time.Duration) error {
	if err == nil {
		return nil
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || wait.Interrupted(err) {
		return NewTimeoutError(operation, timeout, err)
	}
	return err
}

// Detail renders err and every error it wraps, outermost first.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(&b, "\ncaused by %T: %s", cause, cause.Error())
	}
	return b.String()
}

// Object identifies the resource a failure is attributed to.
type Object struct {
	GVK       schema.GroupVersionKind
	Namespace string
	Name      string
}

// ToStatus converts err into the failure record persisted on a ServerStatus.
func ToStatus(err error, obj Object) *entandov1alpha1.EntandoControllerFailure {
	if err == nil {
		return nil
	}
	return &entandov1alpha1.EntandoControllerFailure{
		FailedObjectAPIVersion: obj.GVK.GroupVersion().String(),
		FailedObjectKind:       obj.GVK.Kind,
		FailedObjectNamespace:  obj.Namespace,
		FailedObjectName:       obj.Name,
		Message:                err.Error(),
		DetailMessage:          Detail(err),
	}
}

// FromStatus rebuilds an error from a persisted failure record.
func FromStatus(f *entandov1alpha1.EntandoControllerFailure) error {
	if f == nil {
		return nil
	}
	return &ControllerError{Message: f.Message}
}
