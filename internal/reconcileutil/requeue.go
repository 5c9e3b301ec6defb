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

package reconcileutil

import (
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/failure"
)

const (
	// RequeueDefault is the standard requeue interval for transient errors.
	RequeueDefault = 30 * time.Second

	// RequeueSlow is the requeue interval after a timed out wait.
	RequeueSlow = 1 * time.Minute
)

// ErrorClass represents the classification of an error for requeue decisions.
type ErrorClass int

const (
	// ErrorClassTransient indicates a transient error that should be retried.
	ErrorClassTransient ErrorClass = iota

	// ErrorClassSlow indicates a wait that ran out of time (longer backoff).
	ErrorClassSlow

	// ErrorClassPermanent indicates an error that needs a spec change or a
	// resync request before it can succeed.
	ErrorClassPermanent
)

// ClassifyError determines the error class for requeue decisions.
// Timeouts are checked first because controllers wrap them in a
// ControllerError with a user-facing message.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassTransient
	}

	if failure.IsTimeout(err) {
		return ErrorClassSlow
	}
	if apierrors.IsServerTimeout(err) || apierrors.IsTooManyRequests(err) {
		return ErrorClassSlow
	}

	if failure.IsControllerError(err) || config.IsValidationError(err) {
		return ErrorClassPermanent
	}
	if apierrors.IsInvalid(err) || apierrors.IsForbidden(err) {
		return ErrorClassPermanent
	}

	return ErrorClassTransient
}

// ClassifyRequeue returns the appropriate ctrl.Result and error based on error classification.
// - Permanent errors: no requeue (the failure is already recorded in the status)
// - Slow errors: longer requeue interval
// - Transient errors: standard requeue interval
func ClassifyRequeue(err error) (ctrl.Result, error) {
	if err == nil {
		return ctrl.Result{}, nil
	}
	switch ClassifyError(err) {
	case ErrorClassPermanent:
		return ctrl.Result{}, nil
	case ErrorClassSlow:
		return ctrl.Result{RequeueAfter: RequeueSlow}, err
	default:
		return ctrl.Result{RequeueAfter: RequeueDefault}, err
	}
}
