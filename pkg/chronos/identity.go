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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"chronos-toolkit/pkg/config"
	"chronos-toolkit/pkg/instance"
)

// Marathon forbids spaces in names and Chronos forbids periods, so Chronos
// job names are joined with a space.
const Spacer = " "

// InternalSpacer separates service and instance everywhere else.
const InternalSpacer = "."

const configHashLength = 8

// JobID composes the Chronos name of a job, with an optional revision tag.
func JobID(service, job, tag string) string {
	id := service + Spacer + job
	if tag != "" {
		id += Spacer + tag
	}
	return id
}

// SplitJobID is the inverse of JobID. The tag is empty for untagged names.
func SplitJobID(id string) (service, job, tag string, err error) {
	parts := strings.SplitN(id, Spacer, 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("invalid chronos job name %q", id)
	}
	if len(parts) == 3 {
		tag = parts[2]
	}
	return parts[0], parts[1], tag, nil
}

// RevisionTag identifies one revision of a job's code and configuration.
func RevisionTag(codeID, configHash string) string {
	return codeID + Spacer + configHash
}

// ConfigHash hashes the canonical JSON encoding of a payload.
func ConfigHash(p *Payload) (string, error) {
	content, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload for hashing: %w", err)
	}
	sum := sha256.Sum256(content)
	return "config" + hex.EncodeToString(sum[:])[:configHashLength], nil
}

// StampIdentity names the payload after its revision and applies the desired
// state from deployment control, which wins over the job's own disabled flag.
func StampIdentity(p *Payload, service, job, tag, desiredState string) {
	p.Name = JobID(service, job, tag)
	switch desiredState {
	case instance.DesiredStateStart:
		p.Disabled = false
	case instance.DesiredStateStop:
		p.Disabled = true
	}
}

// CompleteJobPayload builds the payload to post for a job. Chronos clears a
// job's history whenever it is updated, so every revision gets its own name
// and old revisions keep their history.
func CompleteJobPayload(c *JobConfig, dockerURL string, volumes []config.Volume, codeID string) (*Payload, error) {
	p, err := c.FormatJobPayload(dockerURL, volumes)
	if err != nil {
		return nil, err
	}
	configHash, err := ConfigHash(p)
	if err != nil {
		return nil, err
	}
	StampIdentity(p, c.ServiceName(), c.JobName(), RevisionTag(codeID, configHash), c.DesiredState())
	return p, nil
}
