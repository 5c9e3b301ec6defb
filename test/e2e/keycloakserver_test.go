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

var _ = Describe("EntandoKeycloakServer", func() {
	ctx := context.Background()

	It("deploys Keycloak with an embedded database", func() {
		const name = "e2e-keycloak"
		host := envOr("E2E_KEYCLOAK_HOST", name+".apps.example.com")
		u, err := testutil.ToUnstructured(testutil.KeycloakServer(name, testNamespace, host), entandov1alpha1.KindEntandoKeycloakServer)
		Expect(err).NotTo(HaveOccurred())
		_, err = dynamicClient.Resource(keycloakServerGVR).Namespace(testNamespace).Create(ctx, u, metav1.CreateOptions{})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = dynamicClient.Resource(keycloakServerGVR).Namespace(testNamespace).Delete(ctx, name, metav1.DeleteOptions{})
		})

		res, err := testutil.WaitForPhase(ctx, dynamicClient, keycloakServerGVR, testNamespace, name,
			entandov1alpha1.PhaseSuccessful, defaultTimeout)
		Expect(err).NotTo(HaveOccurred())

		db, ok := testutil.ServerStatus(res, entandov1alpha1.QualifierDB)
		Expect(ok).To(BeTrue())
		Expect(db["phase"]).To(Equal(string(entandov1alpha1.PhaseIgnored)))

		server, ok := testutil.ServerStatus(res, entandov1alpha1.QualifierServer)
		Expect(ok).To(BeTrue())
		Expect(server["externalBaseUrl"]).To(Equal("http://" + host + "/auth"))

		By("deleting the server")
		Expect(dynamicClient.Resource(keycloakServerGVR).Namespace(testNamespace).Delete(ctx, name, metav1.DeleteOptions{})).To(Succeed())
		Expect(testutil.WaitForDeletion(ctx, dynamicClient, keycloakServerGVR, testNamespace, name, defaultTimeout)).To(Succeed())
	})
})
