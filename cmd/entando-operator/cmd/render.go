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

	"github.com/spf13/cobra"

	"github.com/entando-k8s-operator/cmd/entando-operator/internal"
)

var (
	renderFile      string
	renderNamespace string
	renderSSOURL    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the Kubernetes objects deployed for a resource",
	Long: `Print, as YAML, the objects the operator would apply for the Entando
resources in a file. Nothing is sent to the cluster.

Capabilities are assumed to resolve to the services the operator would
deploy for them. Secrets are not rendered.

Example:
  entando-operator render -f my-app.yaml --namespace entando`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFile, "file", "f", "", "YAML file with Entando resources")
	renderCmd.Flags().StringVarP(&renderNamespace, "namespace", "n", "default", "Namespace of resources that name none")
	renderCmd.Flags().StringVar(&renderSSOURL, "sso-url", "", "Base URL assumed for the SSO capability")
	_ = renderCmd.MarkFlagRequired("file")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadOperatorConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	resources, err := internal.LoadFile(renderFile)
	if err != nil {
		return err
	}

	renderer := internal.NewRenderer(cfg)
	renderer.SSOBaseURL = renderSSOURL
	printer := internal.NewPrinter(scheme, cmd.OutOrStdout())
	for _, res := range resources {
		if res.GetNamespace() == "" {
			res.SetNamespace(renderNamespace)
		}
		objs, err := renderer.Render(res)
		if err != nil {
			return fmt.Errorf("render %s: %w", res.GetName(), err)
		}
		if err := printer.PrintObjects(objs); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "---")
	}
	return nil
}
