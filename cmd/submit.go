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
	"chronos-toolkit/pkg/chronos"
	"chronos-toolkit/pkg/logging"
	"chronos-toolkit/pkg/orchestrator"
	chronosorchestrator "chronos-toolkit/pkg/orchestrator/chronos"

	"github.com/spf13/cobra"
)

var (
	submitCluster  string
	dockerImage    string
	outputManifest string
	resolveDigest  bool
	platform       string
)

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVarP(&submitCluster, "cluster", "c", "", "Cluster the job is deployed to. Defaults to the cluster of the system config.")
	submitCmd.Flags().StringVarP(&dockerImage, "docker-image", "i", "", "Image to run instead of the one recorded in deployments.json (e.g., services-foo:paasta-abcdef1234).")
	submitCmd.Flags().StringVarP(&outputManifest, "output-manifest", "o", "", "Path to output the generated Chronos job instead of submitting it.")
	submitCmd.Flags().BoolVar(&resolveDigest, "resolve-digest", false, "Version the job by the image digest from the registry instead of its tag.")
	submitCmd.Flags().StringVarP(&platform, "platform", "f", "linux/amd64", "Platform used to resolve the image digest (e.g., 'linux/amd64', 'linux/arm64'). Used with --resolve-digest.")
}

var submitCmd = &cobra.Command{
	Use:   "submit SERVICE JOB",
	Short: "Builds a job's Chronos payload and submits it.",
	Long: `The 'submit' command validates the job config of SERVICE.JOB, builds the
complete Chronos payload for the deployed image and posts it to Chronos.

The payload name carries the code and configuration revision, so a job is only
posted once per revision. With --output-manifest the payload is written to a
file instead.`,
	Args:         cobra.ExactArgs(2),
	Run:          runSubmitCmd,
	SilenceUsage: true,
}

func runSubmitCmd(cmd *cobra.Command, args []string) {
	logging.Info("Executing chronos-toolkit submit command...")

	if cmd.Flags().Changed("platform") && !resolveDigest {
		logging.Fatal("--platform can only be used together with --resolve-digest.")
	}

	jobDef := orchestrator.JobDefinition{
		Service:        args[0],
		Job:            args[1],
		Cluster:        submitCluster,
		DockerImage:    dockerImage,
		OutputManifest: outputManifest,
		ResolveDigest:  resolveDigest,
		Platform:       platform,
	}

	var client chronos.Client
	if outputManifest == "" {
		client = newChronosClient()
	}

	chronosOrchestrator, err := chronosorchestrator.NewChronosOrchestrator(appFs, newSource(), loadSystemConfig(), client)
	if err != nil {
		logging.Fatal("Failed to create Chronos orchestrator: %v", err)
	}

	if err := chronosOrchestrator.SubmitJob(cmd.Context(), jobDef); err != nil {
		logging.Fatal("chronos-toolkit submit failed: %v", err)
	}
}
