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

package logging

import (
	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Options configures the process logger.
type Options struct {
	Development bool
	// Verbosity enables V(n) logs up to n.
	Verbosity int
}

// NewLogger builds the zap-backed logr.Logger used by the operator.
func NewLogger(o Options, extra ...zap.Opts) logr.Logger {
	opts := []zap.Opts{zap.UseDevMode(o.Development)}
	if o.Verbosity > 0 {
		opts = append(opts, zap.Level(zapcore.Level(-o.Verbosity)))
	}
	return zap.New(append(opts, extra...)...)
}
