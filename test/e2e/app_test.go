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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/test/e2e/testutil"
)

var _ = Describe("EntandoApp", Ordered, func() {
	ctx := context.Background()
	const appName = "e2e-app"

	BeforeAll(func() {
		app := testutil.App(appName, testNamespace, envOr("E2E_APP_HOST", appName+".apps.example.com"))
		u, err := testutil.ToUnstructured(app, entandov1alpha1.KindEntandoApp)
		Expect(err).NotTo(HaveOccurred())
		_, err = dynamicClient.Resource(appGVR).Namespace(testNamespace).Create(ctx, u, metav1.CreateOptions{})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			_ = dynamicClient.Resource(appGVR).Namespace(testNamespace).Delete(ctx, appName, metav1.DeleteOptions{})
		})
	})

	It("provisions the namespace default capabilities", func() {
		for _, name := range []string{"default-postgresql-dbms-in-namespace", "default-keycloak-sso-in-namespace"} {
			Eventually(func() error {
				_, err := dynamicClient.Resource(capabilityGVR).Namespace(testNamespace).Get(ctx, name, metav1.GetOptions{})
				return err
			}, 2*time.Minute, pollingInterval).Should(Succeed(), name)
		}

		_, err := testutil.WaitForPhase(ctx, dynamicClient, keycloakServerGVR, testNamespace,
			"default-keycloak-sso-in-namespace", entandov1alpha1.PhaseSuccessful, 2*defaultTimeout)
		Expect(err).NotTo(HaveOccurred())
	})

	It("deploys the server, component manager and app builder", func() {
		res, err := testutil.WaitForPhase(ctx, dynamicClient, appGVR, testNamespace, appName,
			entandov1alpha1.PhaseSuccessful, 3*defaultTimeout)
		Expect(err).NotTo(HaveOccurred())

		for _, qualifier := range []string{
			entandov1alpha1.QualifierDB, entandov1alpha1.QualifierSSO,
			entandov1alpha1.QualifierServer, entandov1alpha1.QualifierDE, entandov1alpha1.QualifierAB,
		} {
			ss, ok := testutil.ServerStatus(res, qualifier)
			Expect(ok).To(BeTrue(), qualifier)
			phase, _, _ := unstructured.NestedString(ss, "phase")
			Expect(phase).To(Equal(string(entandov1alpha1.PhaseSuccessful)), qualifier)
		}

		_, err = k8sClient.NetworkingV1().Ingresses(testNamespace).Get(ctx, appName+"-ingress", metav1.GetOptions{})
		Expect(err).NotTo(HaveOccurred())
	})
})
