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

// Package instance implements the configuration contract shared by every
// kind of service instance: resources, command, monitoring and the deployment
// branch it was resolved against.
package instance

import (
	"fmt"
	"math"

	"chronos-toolkit/pkg/validation"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

const (
	DefaultCPUs = 0.25
	DefaultMem  = 1024.0

	DesiredStateStart = "start"
	DesiredStateStop  = "stop"
)

// BranchRecord is the deployment metadata resolved for one cluster/instance
// pairing.
type BranchRecord struct {
	DockerImage  string `yaml:"docker_image" json:"docker_image"`
	DesiredState string `yaml:"desired_state" json:"desired_state"`
}

// Config is the shared part of an instance's configuration. Typed values are
// resolved once in New; Raw is kept so checks can report the authored value.
type Config struct {
	Service  string
	Instance string
	Raw      map[string]any
	Branch   BranchRecord

	cpus       float64
	mem        float64
	cmd        string
	monitoring map[string]any
}

// New resolves the shared fields of raw, falling back to defaults for absent
// or mistyped values. Mistyped values are reported by the checks.
func New(service, instance string, raw map[string]any, branch BranchRecord) Config {
	if raw == nil {
		raw = map[string]any{}
	}
	c := Config{
		Service:  service,
		Instance: instance,
		Raw:      raw,
		Branch:   branch,
		cpus:     DefaultCPUs,
		mem:      DefaultMem,
	}
	if v, ok := ToFloat(raw["cpus"]); ok {
		c.cpus = v
	}
	if v, ok := ToFloat(raw["mem"]); ok {
		c.mem = v
	}
	if v, ok := raw["cmd"].(string); ok {
		c.cmd = v
	}
	if v, ok := raw["monitoring"].(map[string]any); ok {
		c.monitoring = v
	}
	return c
}

func (c Config) CPUs() float64 { return c.cpus }

func (c Config) Mem() float64 { return c.mem }

func (c Config) Cmd() string { return c.cmd }

// Monitoring returns the monitoring overrides, never nil.
func (c Config) Monitoring() map[string]any {
	if c.monitoring == nil {
		return map[string]any{}
	}
	return c.monitoring
}

func (c Config) DockerImage() string { return c.Branch.DockerImage }

// DesiredState defaults to "start" when the branch record carries none.
func (c Config) DesiredState() string {
	if c.Branch.DesiredState == "" {
		return DesiredStateStart
	}
	return c.Branch.DesiredState
}

func (c Config) CheckCPUs() validation.Diagnostics {
	return checkPositiveFloat(c.Raw, "cpus")
}

func (c Config) CheckMem() validation.Diagnostics {
	return checkPositiveFloat(c.Raw, "mem")
}

// Validate checks the shared keys that have no instance-specific check.
// Resources are checked through CheckCPUs and CheckMem.
func (c Config) Validate() validation.Diagnostics {
	var ds validation.Diagnostics
	if v, ok := c.Raw["cmd"]; ok && v != nil {
		if _, isString := v.(string); !isString {
			ds = append(ds, validation.Invalid(field.NewPath("cmd"),
				fmt.Sprintf(`The specified cmd value "%v" is not a valid string.`, v)))
		}
	}
	if v, ok := c.Raw["monitoring"]; ok && v != nil {
		if _, isMap := v.(map[string]any); !isMap {
			ds = append(ds, validation.Invalid(field.NewPath("monitoring"),
				fmt.Sprintf(`The specified monitoring value "%v" is not a mapping.`, v)))
		}
	}
	return ds
}

func checkPositiveFloat(raw map[string]any, key string) validation.Diagnostics {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	f, isNumber := ToFloat(v)
	if !isNumber {
		return validation.Diagnostics{validation.Invalid(field.NewPath(key),
			fmt.Sprintf(`The specified %s value "%v" is not a valid float.`, key, v))}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return validation.Diagnostics{validation.Invalid(field.NewPath(key),
			fmt.Sprintf(`The specified %s value "%v" is not a finite number.`, key, v))}
	}
	if f <= 0 {
		return validation.Diagnostics{validation.Invalid(field.NewPath(key),
			fmt.Sprintf(`The specified %s value "%v" must be greater than zero.`, key, v))}
	}
	return nil
}

// ToFloat converts any decoded numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
