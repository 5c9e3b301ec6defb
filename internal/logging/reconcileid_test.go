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
	"bytes"
	"context"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	ctrl "sigs.k8s.io/controller-runtime"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
)

var _ = Describe("GenerateID", func() {
	It("should return an 8-character hex string", func() {
		Expect(GenerateID()).To(MatchRegexp("^[0-9a-f]{8}$"))
	})

	It("should produce unique values on successive calls", func() {
		ids := make(map[string]struct{}, 100)
		for i := 0; i < 100; i++ {
			ids[GenerateID()] = struct{}{}
		}
		Expect(ids).To(HaveLen(100))
	})
})

var _ = Describe("NewReconcileContext", func() {
	It("should attach the reconcile ID and the given values to the logger", func() {
		var buf bytes.Buffer
		base := zap.New(zap.WriteTo(&buf), zap.UseDevMode(false))
		ctx := logr.NewContext(context.Background(), base)

		ctx, id := NewReconcileContext(ctx, "kind", "EntandoApp")
		logf.FromContext(ctx).Info("hello")

		Expect(IDFromContext(ctx)).To(Equal(id))
		Expect(buf.String()).To(ContainSubstring(`"reconcileID":"` + id + `"`))
		Expect(buf.String()).To(ContainSubstring(`"kind":"EntandoApp"`))
	})

	It("should return empty string from empty context", func() {
		Expect(IDFromContext(context.Background())).To(BeEmpty())
	})
})

var _ = Describe("withReconcileID middleware", func() {
	var baseCtx context.Context

	BeforeEach(func() {
		baseCtx = logr.NewContext(context.Background(), zap.New(zap.UseDevMode(true)))
	})

	It("should generate a different ID for each reconciliation", func() {
		var ids []string
		inner := reconcile.Func(func(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
			ids = append(ids, IDFromContext(ctx))
			return ctrl.Result{}, nil
		})
		middleware := &withReconcileID{inner: inner}

		for i := 0; i < 10; i++ {
			_, _ = middleware.Reconcile(baseCtx, ctrl.Request{})
		}

		unique := make(map[string]struct{})
		for _, id := range ids {
			Expect(id).To(HaveLen(8))
			unique[id] = struct{}{}
		}
		Expect(unique).To(HaveLen(10))
	})

	It("should propagate the result and error from the inner reconciler", func() {
		expectedResult := ctrl.Result{RequeueAfter: 42}
		inner := reconcile.Func(func(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
			return expectedResult, context.DeadlineExceeded
		})

		result, err := (&withReconcileID{inner: inner}).Reconcile(baseCtx, ctrl.Request{})
		Expect(result).To(Equal(expectedResult))
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})
})

var _ = Describe("NewLogger", func() {
	It("should honour the verbosity", func() {
		var buf bytes.Buffer
		log := NewLogger(Options{Verbosity: 1}, zap.WriteTo(&buf))
		log.V(1).Info("visible")
		log.V(2).Info("hidden")

		Expect(buf.String()).To(ContainSubstring("visible"))
		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
	})
})
