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
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/entando-k8s-operator/internal/app"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/dbprobe"
)

var managerOpts = app.DefaultManagerOptions()

var managerCmd = &cobra.Command{
	Use:   "manager",
	Short: "Run the controllers of every Entando kind",
	Long: `Run a controller-runtime manager with one controller per Entando kind.

Metrics are served on --metrics-bind-address and health probes on
--health-probe-bind-address.`,
	RunE: runManager,
}

func init() {
	managerCmd.Flags().StringVar(&managerOpts.MetricsAddr, "metrics-bind-address", managerOpts.MetricsAddr,
		"The address the metrics endpoint binds to. Use 0 to disable it")
	managerCmd.Flags().StringVar(&managerOpts.ProbeAddr, "health-probe-bind-address", managerOpts.ProbeAddr,
		"The address the probe endpoint binds to")
	managerCmd.Flags().BoolVar(&managerOpts.LeaderElection, "leader-elect", managerOpts.LeaderElection,
		"Enable leader election so that only one manager is active")
	managerCmd.Flags().StringSliceVar(&managerOpts.Namespaces, "namespace", nil,
		"Namespaces to watch. All namespaces are watched when empty")
}

func runManager(cmd *cobra.Command, args []string) error {
	cfg, err := loadOperatorConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	restConfig, err := ctrl.GetConfig()
	if err != nil {
		return fmt.Errorf("load kubeconfig: %w", err)
	}
	mgr, err := ctrl.NewManager(restConfig, managerOpts.ManagerConfig(scheme))
	if err != nil {
		return fmt.Errorf("create manager: %w", err)
	}

	application, err := app.NewApplication(app.Config{
		Client:        mgr.GetClient(),
		Scheme:        mgr.GetScheme(),
		Operator:      cfg,
		ControllerPod: os.Getenv(config.EnvHostname),
		Mode:          app.ModeManager,
		Logger:        logger,
		Registerer:    ctrlmetrics.Registry,
		Prober:        dbprobe.WithRetry(dbprobe.New(), dbprobe.ConnectionRetryConfig()),
	})
	if err != nil {
		return err
	}
	if err := application.SetupWithManager(mgr); err != nil {
		return err
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		return fmt.Errorf("add health check: %w", err)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		return fmt.Errorf("add ready check: %w", err)
	}

	logger.Info("Starting manager", "namespaces", managerOpts.Namespaces)
	return mgr.Start(ctrl.SetupSignalHandler())
}
