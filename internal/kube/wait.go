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

package kube

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Poll evaluates cond every interval until it returns true, returns an error,
// or timeout expires. Expiry surfaces as an error for which wait.Interrupted
// is true.
func Poll(ctx context.Context, interval, timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	if interval <= 0 {
		interval = time.Second
	}
	return wait.PollUntilContextTimeout(ctx, interval, timeout, true, cond)
}
