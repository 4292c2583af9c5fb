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

package orchestrator

import "context"

// JobDefinition holds all the necessary parameters to deploy a scheduled job.
// Orchestrator implementations extract the fields relevant to them.
type JobDefinition struct {
	Service string
	Job     string
	Cluster string

	// DockerImage overrides the image recorded in the service's deployments.
	DockerImage    string
	OutputManifest string

	// ResolveDigest versions the job by the image content digest instead of
	// its tag. Platform selects the manifest of multi-platform images.
	ResolveDigest bool
	Platform      string
}

// Orchestrator defines the interface for submitting and managing jobs on a cluster.
type Orchestrator interface {
	// SubmitJob takes a JobDefinition and orchestrates its deployment.
	SubmitJob(ctx context.Context, job JobDefinition) error
}
