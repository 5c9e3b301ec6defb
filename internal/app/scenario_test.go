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

package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/features/databaseservice"
	"github.com/entando-k8s-operator/internal/shared/eventbus"
	"github.com/entando-k8s-operator/internal/testutil"
	"github.com/entando-k8s-operator/internal/testutil/harness"
)

type scenario struct {
	client client.WithWatch
	app    *Application
	sim    *testutil.Simulator
	ctx    context.Context
}

func newScenario(cfg config.OperatorConfig, objs ...client.Object) *scenario {
	scheme := testutil.NewScheme()
	c := testutil.NewFakeClient(scheme, objs...)
	a, err := NewApplication(Config{
		Client:        c,
		Scheme:        scheme,
		Operator:      cfg,
		ControllerPod: testutil.TestPod,
		Mode:          ModeOneShot,
		Logger:        logr.Discard(),
	})
	Expect(err).NotTo(HaveOccurred())

	ctx, cancel := context.WithCancel(context.Background())
	DeferCleanup(func() {
		cancel()
		a.eventBus.Wait()
	})
	sim := testutil.NewSimulator(c)
	sim.Start(ctx)
	return &scenario{client: c, app: a, sim: sim, ctx: ctx}
}

func (s *scenario) reconcile(kind, name string) error {
	return s.app.Reconcile(s.ctx, config.ResourceIdentity{
		Action:    config.ActionAdded,
		Kind:      kind,
		Namespace: testutil.TestNamespace,
		Name:      name,
	})
}

func (s *scenario) get(name string, obj client.Object) {
	ExpectWithOffset(1, s.client.Get(s.ctx, types.NamespacedName{Namespace: testutil.TestNamespace, Name: name}, obj)).To(Succeed())
}

func (s *scenario) countCompletions(kind string) *atomic.Int32 {
	var n atomic.Int32
	s.app.EventBus().Subscribe(eventbus.EventReconciliationCompleted, "scenario.count."+kind,
		func(_ context.Context, e eventbus.Event) error {
			if e.AggregateType() == kind {
				n.Add(1)
			}
			return nil
		})
	return &n
}

func envNamed(env []corev1.EnvVar, name string) string {
	for _, e := range env {
		if e.Name == name {
			return e.Value
		}
	}
	return ""
}

var _ = Describe("EntandoApp deployment", func() {
	Context("with a PostgreSQL database and the my-realm SSO realm", func() {
		var s *scenario

		BeforeEach(func() {
			s = newScenario(harness.Config(), testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace))
		})

		It("provisions the capabilities and deploys every component", func() {
			Expect(s.reconcile(entandov1alpha1.KindEntandoApp, testutil.TestAppName)).To(Succeed())

			pc := &entandov1alpha1.ProvidedCapability{}
			s.get("default-postgresql-dbms-in-namespace", pc)
			Expect(pc.Status.Phase).To(Equal(entandov1alpha1.PhaseSuccessful))

			job := &batchv1.Job{}
			s.get("my-app-server-db-preparation-job", job)
			var initContainers []string
			for _, c := range job.Spec.Template.Spec.InitContainers {
				initContainers = append(initContainers, c.Name)
			}
			Expect(initContainers).To(ContainElements(
				"my-app-portdb-schema-creation-job",
				"my-app-servdb-schema-creation-job",
			))

			dep := &appsv1.Deployment{}
			s.get("my-app-server-deployment", dep)
			Expect(envNamed(dep.Spec.Template.Spec.Containers[0].Env, "PORTDB_URL")).To(Equal(
				"jdbc:postgresql://default-postgresql-dbms-in-namespace-service.my-namespace.svc.cluster.local:5432/my_db"))

			app := &entandov1alpha1.EntandoApp{}
			s.get(testutil.TestAppName, app)
			Expect(app.Status.Phase).To(Equal(entandov1alpha1.PhaseSuccessful))
		})

		It("reuses the capabilities when reconciled again", func() {
			dbCompletions := s.countCompletions(entandov1alpha1.KindEntandoDatabaseService)
			kcCompletions := s.countCompletions(entandov1alpha1.KindEntandoKeycloakServer)

			Expect(s.reconcile(entandov1alpha1.KindEntandoApp, testutil.TestAppName)).To(Succeed())
			Expect(s.reconcile(entandov1alpha1.KindEntandoApp, testutil.TestAppName)).To(Succeed())

			Expect(dbCompletions.Load()).To(BeEquivalentTo(1))
			Expect(kcCompletions.Load()).To(BeEquivalentTo(1))
			Expect(s.sim.JobRuns("my-app-server-db-preparation-job")).To(Equal(1))

			var capabilities entandov1alpha1.ProvidedCapabilityList
			Expect(s.client.List(s.ctx, &capabilities)).To(Succeed())
			Expect(capabilities.Items).To(HaveLen(2))
		})
	})

	Context("when the server pod does not become ready in time", func() {
		It("reports the sum of the phase timeouts", func() {
			cfg := harness.Config()
			cfg.PodReadinessTimeout = time.Second
			cfg.PodCompletionTimeout = time.Second
			s := newScenario(cfg, testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace))
			s.sim.DelayDeployment("my-app-server-deployment", 10*time.Second)

			err := s.reconcile(entandov1alpha1.KindEntandoApp, testutil.TestAppName)
			Expect(err).To(MatchError(ContainSubstring("Could not complete deployment of EntandoApp in 3 seconds")))

			app := &entandov1alpha1.EntandoApp{}
			s.get(testutil.TestAppName, app)
			Expect(app.Status.Phase).To(Equal(entandov1alpha1.PhaseFailed))
			Expect(app.Status.FirstFailure()).NotTo(BeNil())
			Expect(app.Status.FirstFailure().Message).To(ContainSubstring("Could not complete deployment of EntandoApp in 3 seconds"))
		})
	})

	Context("when two apps request the same database concurrently", func() {
		It("provisions a single capability", func() {
			s := newScenario(harness.Config(),
				testutil.NewEntandoApp(testutil.TestAppName, testutil.TestNamespace),
				testutil.NewEntandoApp("other-app", testutil.TestNamespace))
			dbCompletions := s.countCompletions(entandov1alpha1.KindEntandoDatabaseService)

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for i, name := range []string{testutil.TestAppName, "other-app"} {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					errs[i] = s.app.driver.Handle(s.ctx, config.ResourceIdentity{
						Action: config.ActionAdded, Kind: entandov1alpha1.KindEntandoApp,
						Namespace: testutil.TestNamespace, Name: name,
					})
				}()
			}
			wg.Wait()
			s.app.eventBus.Wait()

			Expect(errs).To(HaveEach(BeNil()))
			Expect(dbCompletions.Load()).To(BeEquivalentTo(1))
		})
	})
})

var _ = Describe("EntandoDatabaseService with an external server", func() {
	It("rejects a missing host", func() {
		dbs := testutil.NewExternalDatabaseService("my-db", testutil.TestNamespace, "", "my-db-admin")
		s := newScenario(harness.Config(), dbs, testutil.NewAdminSecret("my-db-admin", testutil.TestNamespace))

		err := s.reconcile(entandov1alpha1.KindEntandoDatabaseService, "my-db")
		Expect(err).To(MatchError(databaseservice.MsgMissingHost))

		got := &entandov1alpha1.EntandoDatabaseService{}
		s.get("my-db", got)
		Expect(got.Status.Phase).To(Equal(entandov1alpha1.PhaseFailed))
		main, ok := got.Status.ForQualifier(entandov1alpha1.QualifierMain)
		Expect(ok).To(BeTrue())
		Expect(main.EntandoControllerFailure).NotTo(BeNil())
		Expect(main.EntandoControllerFailure.Message).To(Equal(databaseservice.MsgMissingHost))
		Expect(main.EntandoControllerFailure.FailedObjectKind).To(Equal(entandov1alpha1.KindEntandoDatabaseService))
	})
})
