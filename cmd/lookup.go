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

	"github.com/spf13/cobra"
)

var (
	maxExpected     int
	includeDisabled bool
)

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().IntVarP(&maxExpected, "max-expected", "m", 0, "Fail when more jobs than this match. 0 means no limit.")
	lookupCmd.Flags().BoolVarP(&includeDisabled, "include-disabled", "a", false, "Also match disabled jobs.")
}

var lookupCmd = &cobra.Command{
	Use:   "lookup PATTERN",
	Short: "Lists the Chronos jobs whose name matches a regular expression.",
	Long: `The 'lookup' command lists the jobs known to Chronos and prints those whose
name matches PATTERN, e.g. "^example_service cleanup ". Disabled jobs are
skipped unless --include-disabled is given.`,
	Args:         cobra.ExactArgs(1),
	Run:          runLookupCmd,
	SilenceUsage: true,
}

func runLookupCmd(cmd *cobra.Command, args []string) {
	if maxExpected < 0 {
		logging.Fatal("--max-expected cannot be negative.")
	}
	opts := chronos.LookupOptions{MaxExpected: maxExpected, IncludeDisabled: includeDisabled}
	jobs, err := chronos.LookupChronosJobs(cmd.Context(), newChronosClient(), args[0], opts)
	if err != nil {
		logging.Fatal("%v", err)
	}
	printJobs(cmd.OutOrStdout(), jobs)
}

func printJobs(out io.Writer, jobs []chronos.Job) {
	for _, job := range jobs {
		state := "enabled"
		if job.Disabled {
			state = "disabled"
		}
		fmt.Fprintf(out, "%s\t%s\n", job.Name, state)
	}
}
