//go:build e2e

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

package e2e

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/test/e2e/testutil"
)

var _ = Describe("EntandoDatabaseService", Ordered, func() {
	ctx := context.Background()

	create := func(dbs *entandov1alpha1.EntandoDatabaseService) {
		u, err := testutil.ToUnstructured(dbs, entandov1alpha1.KindEntandoDatabaseService)
		Expect(err).NotTo(HaveOccurred())
		_, err = dynamicClient.Resource(databaseServiceGVR).Namespace(testNamespace).Create(ctx, u, metav1.CreateOptions{})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = dynamicClient.Resource(databaseServiceGVR).Namespace(testNamespace).Delete(ctx, dbs.Name, metav1.DeleteOptions{})
		})
	}

	It("deploys a PostgreSQL server", func() {
		create(testutil.DatabaseService("e2e-postgresql", testNamespace, entandov1alpha1.DbmsPostgreSQL))

		By("waiting for the database service to succeed")
		res, err := testutil.WaitForPhase(ctx, dynamicClient, databaseServiceGVR, testNamespace, "e2e-postgresql",
			entandov1alpha1.PhaseSuccessful, defaultTimeout)
		Expect(err).NotTo(HaveOccurred())

		ss, ok := testutil.ServerStatus(res, entandov1alpha1.QualifierMain)
		Expect(ok).To(BeTrue())
		Expect(ss["serviceName"]).To(Equal("e2e-postgresql-service"))
		Expect(ss["adminSecretName"]).To(Equal("e2e-postgresql-admin-secret"))

		By("verifying the service and admin secret exist")
		_, err = k8sClient.CoreV1().Services(testNamespace).Get(ctx, "e2e-postgresql-service", metav1.GetOptions{})
		Expect(err).NotTo(HaveOccurred())
		_, err = k8sClient.CoreV1().Secrets(testNamespace).Get(ctx, "e2e-postgresql-admin-secret", metav1.GetOptions{})
		Expect(err).NotTo(HaveOccurred())
	})

	It("fails an external service without a host", func() {
		create(testutil.ExternalDatabaseService("e2e-external", testNamespace, "", "missing-admin-secret"))

		_, err := testutil.WaitForPhase(ctx, dynamicClient, databaseServiceGVR, testNamespace, "e2e-external",
			entandov1alpha1.PhaseSuccessful, defaultTimeout)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed"))
	})
})
