// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd defines the chronos-toolkit command line.
package cmd

import (
	"chronos-toolkit/pkg/chronos"
	"chronos-toolkit/pkg/config"
	"chronos-toolkit/pkg/logging"
	"chronos-toolkit/pkg/soa"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	soaDir    string
	configDir string
	verbose   bool

	appFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "chronos-toolkit",
	Short: "Validate, build and submit scheduled jobs for Chronos.",
	Long: `chronos-toolkit reads the chronos-<cluster>.yaml job configs of a soa-configs
checkout, validates them, builds the Chronos job payloads and submits them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&soaDir, "soa-dir", "d", soa.DefaultSoaDir, "Directory containing the soa configs of every service.")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultConfigDir, "Directory containing the system configuration JSON files.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newSource() *soa.Source {
	return soa.NewSource(appFs, soaDir)
}

func loadSystemConfig() *config.SystemConfig {
	system, err := config.LoadSystemConfig(appFs, configDir)
	if err != nil {
		logging.Fatal("Failed to load system config: %v", err)
	}
	return system
}

// resolveCluster prefers the --cluster flag over the system config.
func resolveCluster(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	cluster, err := loadSystemConfig().GetCluster()
	if err != nil {
		logging.Fatal("%v; pass --cluster explicitly", err)
	}
	return cluster
}

func newChronosClient() *chronos.HTTPClient {
	cfg, err := config.LoadChronosConfig(appFs, configDir)
	if err != nil {
		logging.Fatal("Failed to load Chronos config: %v", err)
	}
	client, err := chronos.NewHTTPClient(cfg, nil)
	if err != nil {
		logging.Fatal("Failed to create Chronos client: %v", err)
	}
	return client
}
