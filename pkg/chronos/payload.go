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
	"encoding/json"

	"chronos-toolkit/pkg/config"
	"chronos-toolkit/pkg/logging"

	"github.com/sirupsen/logrus"
)

const (
	NetworkBridge = "BRIDGE"
	ContainerType = "DOCKER"
)

// Container describes the docker container a job runs in.
type Container struct {
	Image   string          `json:"image"`
	Network string          `json:"network"`
	Type    string          `json:"type"`
	Volumes []config.Volume `json:"volumes"`
}

// Payload is a job as posted to the Chronos API.
// https://mesos.github.io/chronos/docs/api.html#adding-a-docker-job
type Payload struct {
	Name                 string     `json:"name"`
	Container            Container  `json:"container"`
	EnvironmentVariables []EnvVar   `json:"environmentVariables"`
	Mem                  float64    `json:"mem"`
	CPUs                 float64    `json:"cpus"`
	Constraints          [][]string `json:"constraints"`
	Command              string     `json:"command"`
	Arguments            []string   `json:"arguments"`
	Epsilon              string     `json:"epsilon"`
	Retries              int        `json:"retries"`
	Async                bool       `json:"async"`
	Disabled             bool       `json:"disabled"`
	Owner                string     `json:"owner"`
	Schedule             string     `json:"schedule"`
	ScheduleTimeZone     *string    `json:"scheduleTimeZone"`
}

// FormatJobPayload validates the job config and builds its payload for the
// given docker URL and volumes. Nothing is built for an invalid config.
func (c *JobConfig) FormatJobPayload(dockerURL string, volumes []config.Volume) (*Payload, error) {
	if ds := c.Validate(); !ds.Valid() {
		return nil, &InvalidJobConfigError{Service: c.ServiceName(), Job: c.JobName(), Diagnostics: ds}
	}

	if volumes == nil {
		volumes = []config.Volume{}
	}
	p := &Payload{
		Name: c.JobName(),
		Container: Container{
			Image:   dockerURL,
			Network: NetworkBridge,
			Type:    ContainerType,
			Volumes: volumes,
		},
		EnvironmentVariables: c.Env,
		Mem:                  c.Mem(),
		CPUs:                 c.CPUs(),
		Constraints:          c.Constraints,
		Command:              c.Cmd(),
		Arguments:            c.Args,
		Epsilon:              c.Epsilon,
		Retries:              c.Retries,
		Async:                false, // async jobs are not supported
		Disabled:             c.Disabled,
		Owner:                c.Owner(),
		Schedule:             *c.Schedule,
		ScheduleTimeZone:     c.ScheduleTimeZone,
	}

	logPayload(c, p)
	return p, nil
}

func logPayload(c *JobConfig, p *Payload) {
	content, err := json.Marshal(p)
	if err != nil {
		logging.Warn("Could not render configuration for %s: %v", c.JobName(), err)
		return
	}
	logging.WithFields(logrus.Fields{
		"service": c.ServiceName(),
		"job":     c.JobName(),
	}).Infof("Complete configuration for instance is: %s", content)
}
