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
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"

	entandov1alpha1 "github.com/entando-k8s-operator/api/v1alpha1"
	"github.com/entando-k8s-operator/internal/config"
	"github.com/entando-k8s-operator/internal/logging"
)

var (
	// Global flags
	configFile  string
	verbosity   int
	development bool

	scheme = runtime.NewScheme()
	logger logr.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "entando-operator",
	Short: "Kubernetes operator for Entando applications",
	Long: `entando-operator deploys EntandoApps, EntandoPlugins and the database and
Keycloak services they consume.

It either reconciles a single resource and exits, or runs as a long-lived
controller manager watching every Entando kind.

Environment Variables (reconcile):
  ENTANDO_RESOURCE_ACTION     ADDED|MODIFIED|DELETED [required]
  ENTANDO_RESOURCE_KIND       Kind of the resource [required]
  ENTANDO_RESOURCE_NAMESPACE  Namespace of the resource [required]
  ENTANDO_RESOURCE_NAME       Name of the resource [required]

Operator settings are read from ENTANDO_* variables and may be overridden
by a YAML file passed with --config.

Example:
  entando-operator manager --leader-elect
  entando-operator render -f my-app.yaml`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(logging.Options{Development: development, Verbosity: verbosity})
		ctrl.SetLogger(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(entandov1alpha1.AddToScheme(scheme))

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML file overriding the operator settings")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "Log verbosity level")
	rootCmd.PersistentFlags().BoolVar(&development, "development", false, "Human readable development logging")

	// Add subcommands
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(managerCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadOperatorConfig reads the operator settings from the environment and
// overlays the --config file when given.
func loadOperatorConfig() (config.OperatorConfig, error) {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return config.OperatorConfig{}, err
	}
	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			return config.OperatorConfig{}, err
		}
	}
	return *cfg, nil
}
