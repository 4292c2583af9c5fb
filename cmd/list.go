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

package cmd

import (
	"fmt"

	"chronos-toolkit/pkg/chronos"
	"chronos-toolkit/pkg/logging"

	"github.com/spf13/cobra"
)

var listCluster string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listCluster, "cluster", "c", "", "Cluster whose jobs are listed. Defaults to the cluster of the system config.")
}

var listCmd = &cobra.Command{
	Use:   "list [SERVICE_PATTERN...]",
	Short: "Lists the Chronos jobs configured for a cluster.",
	Long: `The 'list' command prints service.job for every Chronos job configured for a
cluster in the soa dir. SERVICE_PATTERN arguments restrict the services using
.dockerignore syntax, e.g. 'example_*' or '!legacy_service'.`,
	Run:          runListCmd,
	SilenceUsage: true,
}

func runListCmd(cmd *cobra.Command, args []string) {
	cluster := resolveCluster(listCluster)
	jobs, err := newSource().ListClusterJobs(cmd.Context(), cluster, args)
	if err != nil {
		logging.Fatal("Failed to list jobs of cluster %s: %v", cluster, err)
	}
	out := cmd.OutOrStdout()
	for _, job := range jobs {
		fmt.Fprintln(out, job.Service+chronos.InternalSpacer+job.Job)
	}
}
