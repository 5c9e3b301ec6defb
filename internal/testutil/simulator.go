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
	"sync"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Simulator plays the part of the kubelet and the job controller against a
// fake client: it completes jobs and starts a ready pod for every deployment.
type Simulator struct {
	client   client.Client
	interval time.Duration

	mu        sync.Mutex
	delays    map[string]time.Duration
	failing   map[string]bool
	firstSeen map[string]time.Time
	jobRuns   map[string]int
}

// NewSimulator creates a Simulator polling every 10ms.
func NewSimulator(c client.Client) *Simulator {
	return &Simulator{
		client:    c,
		interval:  10 * time.Millisecond,
		delays:    map[string]time.Duration{},
		failing:   map[string]bool{},
		firstSeen: map[string]time.Time{},
		jobRuns:   map[string]int{},
	}
}

// DelayDeployment holds back the pod of the named deployment for d.
func (s *Simulator) DelayDeployment(name string, d time.Duration) *Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[name] = d
	return s
}

// FailJob makes the named job fail.
func (s *Simulator) FailJob(name string) *Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[name] = true
	return s
}

// JobRuns returns how many times the named job was completed or failed.
func (s *Simulator) JobRuns(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobRuns[name]
}

// Start runs the simulator until ctx is cancelled.
func (s *Simulator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = s.Step(ctx)
			}
		}
	}()
}

// Step advances every job and deployment once.
func (s *Simulator) Step(ctx context.Context) error {
	if err := s.stepJobs(ctx); err != nil {
		return err
	}
	return s.stepDeployments(ctx)
}

func (s *Simulator) stepJobs(ctx context.Context) error {
	jobs := &batchv1.JobList{}
	if err := s.client.List(ctx, jobs); err != nil {
		return err
	}
	for i := range jobs.Items {
		job := &jobs.Items[i]
		if len(job.Status.Conditions) > 0 {
			continue
		}
		s.mu.Lock()
		fail := s.failing[job.Name]
		s.jobRuns[job.Name]++
		s.mu.Unlock()

		condition := batchv1.JobCondition{
			Type:               batchv1.JobComplete,
			Status:             corev1.ConditionTrue,
			LastTransitionTime: metav1.Now(),
		}
		job.Status.Succeeded = 1
		if fail {
			condition.Type = batchv1.JobFailed
			job.Status.Succeeded = 0
			job.Status.Failed = 1
		}
		job.Status.Conditions = append(job.Status.Conditions, condition)
		if err := s.client.Status().Update(ctx, job); err != nil && !apierrors.IsConflict(err) && !apierrors.IsNotFound(err) {
			return err
		}
	}
	return nil
}

// PodName returns the name of the pod started for a deployment.
func PodName(deployment string) string {
	return deployment + "-pod"
}

func (s *Simulator) stepDeployments(ctx context.Context) error {
	deployments := &appsv1.DeploymentList{}
	if err := s.client.List(ctx, deployments); err != nil {
		return err
	}
	for i := range deployments.Items {
		dep := &deployments.Items[i]
		key := dep.Namespace + "/" + dep.Name

		s.mu.Lock()
		first, seen := s.firstSeen[key]
		if !seen {
			first = time.Now()
			s.firstSeen[key] = first
		}
		delay := s.delays[dep.Name]
		s.mu.Unlock()
		if time.Since(first) < delay {
			continue
		}

		pod := &corev1.Pod{}
		err := s.client.Get(ctx, client.ObjectKey{Namespace: dep.Namespace, Name: PodName(dep.Name)}, pod)
		if err == nil {
			continue
		}
		if !apierrors.IsNotFound(err) {
			return err
		}
		pod = &corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{
				Name:      PodName(dep.Name),
				Namespace: dep.Namespace,
				Labels:    dep.Spec.Template.Labels,
			},
			Spec: dep.Spec.Template.Spec,
		}
		if err := s.client.Create(ctx, pod); err != nil {
			if apierrors.IsAlreadyExists(err) {
				continue
			}
			return err
		}
		pod.Status.Phase = corev1.PodRunning
		pod.Status.Conditions = []corev1.PodCondition{{
			Type:               corev1.PodReady,
			Status:             corev1.ConditionTrue,
			LastTransitionTime: metav1.Now(),
		}}
		if err := s.client.Status().Update(ctx, pod); err != nil {
			return err
		}
	}
	return nil
}
