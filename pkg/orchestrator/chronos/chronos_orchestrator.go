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

package chronos

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	chronosjob "chronos-toolkit/pkg/chronos"
	"chronos-toolkit/pkg/config"
	"chronos-toolkit/pkg/imageref"
	"chronos-toolkit/pkg/logging"
	"chronos-toolkit/pkg/orchestrator"
	"chronos-toolkit/pkg/soa"

	"github.com/spf13/afero"
)

// ChronosOrchestrator implements the Orchestrator interface for Chronos.
type ChronosOrchestrator struct {
	fs     afero.Fs
	source *soa.Source
	system *config.SystemConfig
	client chronosjob.Client

	resolveDigest func(dockerURL, platform string) (string, error)
}

// NewChronosOrchestrator creates a ChronosOrchestrator. client may be nil when
// jobs are only written to manifests.
func NewChronosOrchestrator(fs afero.Fs, source *soa.Source, system *config.SystemConfig, client chronosjob.Client) (*ChronosOrchestrator, error) {
	if source == nil {
		return nil, fmt.Errorf("soa source cannot be nil")
	}
	if system == nil {
		return nil, fmt.Errorf("system config cannot be nil")
	}
	return &ChronosOrchestrator{
		fs:            fs,
		source:        source,
		system:        system,
		client:        client,
		resolveDigest: imageref.ResolveDigest,
	}, nil
}

// SubmitJob builds the complete payload of a job and either saves it or
// posts it to Chronos. A job whose full name already exists is left alone,
// since the name already pins its code and configuration.
func (c *ChronosOrchestrator) SubmitJob(ctx context.Context, job orchestrator.JobDefinition) error {
	logging.Info("Starting chronos-toolkit submit workflow...")

	payload, err := c.BuildPayload(job)
	if err != nil {
		return err
	}

	if job.OutputManifest != "" {
		return c.writeManifest(payload, job.OutputManifest)
	}
	return c.submitPayload(ctx, payload)
}

// BuildPayload resolves everything a job needs and returns its complete
// payload.
func (c *ChronosOrchestrator) BuildPayload(job orchestrator.JobDefinition) (*chronosjob.Payload, error) {
	cluster := job.Cluster
	if cluster == "" {
		var err error
		if cluster, err = c.system.GetCluster(); err != nil {
			return nil, err
		}
	}

	jobConfig, err := c.source.LoadJobConfig(job.Service, job.Job, cluster)
	if err != nil {
		return nil, err
	}

	image := job.DockerImage
	if image == "" {
		image = jobConfig.DockerImage()
	}
	if image == "" {
		return nil, fmt.Errorf("no docker image deployed for %s on cluster %s", chronosjob.JobID(job.Service, job.Job, ""), cluster)
	}
	registry, err := c.system.GetDockerRegistry()
	if err != nil {
		return nil, err
	}
	dockerURL, err := imageref.DockerURL(registry, image)
	if err != nil {
		return nil, err
	}

	codeID, err := c.codeID(dockerURL, job)
	if err != nil {
		return nil, err
	}

	payload, err := chronosjob.CompleteJobPayload(jobConfig, dockerURL, c.system.Volumes, codeID)
	if err != nil {
		return nil, err
	}
	logging.Info("Job %q uses image %s", payload.Name, dockerURL)
	return payload, nil
}

func (c *ChronosOrchestrator) codeID(dockerURL string, job orchestrator.JobDefinition) (string, error) {
	if !job.ResolveDigest {
		return imageref.CodeSHA(dockerURL)
	}
	platform := job.Platform
	if platform == "" {
		platform = string(imageref.LinuxAMD64)
	}
	digest, err := c.resolveDigest(dockerURL, platform)
	if err != nil {
		return "", err
	}
	return imageref.DigestID(digest)
}

func (c *ChronosOrchestrator) writeManifest(payload *chronosjob.Payload, path string) error {
	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode job %q: %w", payload.Name, err)
	}
	logging.Info("Saving Chronos job to %s", path)
	if err := afero.WriteFile(c.fs, path, append(content, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write Chronos job to file %s: %w", path, err)
	}
	logging.Info("Chronos job saved successfully.")
	return nil
}

func (c *ChronosOrchestrator) submitPayload(ctx context.Context, payload *chronosjob.Payload) error {
	if c.client == nil {
		return fmt.Errorf("no chronos client configured to submit %q", payload.Name)
	}

	existing, err := chronosjob.LookupChronosJobs(ctx, c.client, "^"+regexp.QuoteMeta(payload.Name)+"$", chronosjob.LookupOptions{
		MaxExpected:     1,
		IncludeDisabled: true,
	})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logging.Info("Job %q already exists, nothing to submit.", payload.Name)
		return nil
	}

	logging.Info("Submitting job %q to Chronos...", payload.Name)
	if err := c.client.AddJob(ctx, payload); err != nil {
		return fmt.Errorf("failed to submit job %q: %w", payload.Name, err)
	}
	logging.Info("Chronos job submitted successfully.")
	return nil
}
