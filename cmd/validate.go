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
	"io"

	"chronos-toolkit/pkg/chronos"
	"chronos-toolkit/pkg/logging"
	"chronos-toolkit/pkg/soa"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCluster string

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateCluster, "cluster", "c", "", "Cluster whose job configs are validated. Defaults to the cluster of the system config.")
}

var validateCmd = &cobra.Command{
	Use:   "validate SERVICE [JOB...]",
	Short: "Validates the Chronos job configs of a service.",
	Long: `The 'validate' command checks the Chronos job configs of SERVICE on a cluster
and reports every problem found. Without JOB arguments every job of the
service is validated.`,
	Args:         cobra.MinimumNArgs(1),
	Run:          runValidateCmd,
	SilenceUsage: true,
}

func runValidateCmd(cmd *cobra.Command, args []string) {
	cluster := resolveCluster(validateCluster)
	valid, err := validateJobs(cmd.OutOrStdout(), newSource(), args[0], cluster, args[1:])
	if err != nil {
		logging.Fatal("%v", err)
	}
	if !valid {
		logging.Fatal("invalid Chronos job configs for service %s on cluster %s", args[0], cluster)
	}
}

// validateJobs writes a report for each job and returns whether all of them
// are valid. No jobs means every job of the service.
func validateJobs(out io.Writer, source *soa.Source, service, cluster string, jobs []string) (bool, error) {
	if len(jobs) == 0 {
		names, err := source.ListJobNames(service, cluster)
		if err != nil {
			return false, err
		}
		for _, n := range names {
			jobs = append(jobs, n.Job)
		}
	}

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	allValid := true
	for _, job := range jobs {
		jobConfig, err := source.LoadJobConfig(service, job, cluster)
		if err != nil {
			return false, err
		}
		id := service + chronos.InternalSpacer + job
		ds := jobConfig.Validate()
		if ds.Valid() {
			ok.Fprintf(out, "%s is valid\n", id)
			continue
		}
		allValid = false
		bad.Fprintf(out, "%s is invalid\n", id)
		for _, d := range ds {
			fmt.Fprintf(out, "  [%s] %s: %s\n", d.Severity, d.Field, d.Message)
		}
	}
	return allValid, nil
}
