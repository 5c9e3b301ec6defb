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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/entando-k8s-operator/internal/app"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/dbprobe"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a single resource and exit",
	Long: `Reconcile the resource named by the ENTANDO_RESOURCE_* variables.

Capabilities the resource requires are reconciled in the same process. The
command exits non-zero when the reconciliation fails.`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadOperatorConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	resource, err := config.ResourceIdentityFromEnv(os.Getenv)
	if err != nil {
		return err
	}

	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return fmt.Errorf("load kubeconfig: %w", err)
	}
	c, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	application, err := app.NewApplication(app.Config{
		Client:        c,
		Scheme:        scheme,
		Operator:      cfg,
		ControllerPod: os.Getenv(config.EnvHostname),
		Mode:          app.ModeOneShot,
		Logger:        logger,
		Prober:        dbprobe.WithRetry(dbprobe.New(), dbprobe.ConnectionRetryConfig()),
	})
	if err != nil {
		return err
	}

	logger.Info("Reconciling", "resource", resource.String())
	return application.Reconcile(cmd.Context(), resource)
}
