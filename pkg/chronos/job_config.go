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
	"fmt"
	"math"

	"chronos-toolkit/pkg/instance"
	"chronos-toolkit/pkg/validation"

	"golang.org/x/exp/slices"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

const (
	DefaultEpsilon  = "PT60S"
	DefaultRetries  = 2
	DefaultDisabled = false
)

// recognizedKeys are the configuration keys a chronos job may set.
var recognizedKeys = []string{
	"args",
	"cmd",
	"command",
	"constraints",
	"cpus",
	"description",
	"disabled",
	"env",
	"epsilon",
	"mem",
	"monitoring",
	"owner",
	"retries",
	"schedule",
	"schedule_time_zone",
}

// validatedParams are checked, in order, by Validate.
var validatedParams = []string{"epsilon", "retries", "cpus", "mem", "schedule", "scheduleTimeZone"}

// paramsWithoutChecks are accepted by Check without any validation.
var paramsWithoutChecks = []string{"description", "command", "owner", "disabled"}

// EnvVar is one entry of a job's environment.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// JobConfig is a single chronos job of a service. Optional fields are
// resolved to their defaults when the config is built.
type JobConfig struct {
	instance.Config

	Args             []string
	Env              []EnvVar
	Constraints      [][]string
	Epsilon          string
	Retries          int
	Disabled         bool
	Schedule         *string
	ScheduleTimeZone *string
	Description      string

	decodeDiagnostics validation.Diagnostics
}

// NewJobConfig builds a JobConfig from the raw mapping authored for job and
// the branch record resolved for it.
func NewJobConfig(service, job string, raw map[string]any, branch instance.BranchRecord) *JobConfig {
	c := &JobConfig{
		Config:   instance.New(service, job, raw, branch),
		Env:      []EnvVar{},
		Epsilon:  DefaultEpsilon,
		Retries:  DefaultRetries,
		Disabled: DefaultDisabled,
	}
	raw = c.Raw

	var ds validation.Diagnostics
	c.Args, ds = decodeStringList(raw, "args")
	c.decodeDiagnostics = append(c.decodeDiagnostics, ds...)
	c.Env, ds = decodeEnv(raw)
	c.decodeDiagnostics = append(c.decodeDiagnostics, ds...)
	c.Constraints, ds = decodeConstraints(raw)
	c.decodeDiagnostics = append(c.decodeDiagnostics, ds...)

	if v, ok := raw["epsilon"].(string); ok {
		c.Epsilon = v
	}
	if v, ok := toInt(raw["retries"]); ok {
		c.Retries = v
	}
	if v, ok := raw["schedule"].(string); ok {
		c.Schedule = &v
	}
	if v, ok := raw["schedule_time_zone"].(string); ok {
		c.ScheduleTimeZone = &v
	} else if present(raw, "schedule_time_zone") {
		c.decodeDiagnostics = append(c.decodeDiagnostics, validation.Invalid(field.NewPath("schedule_time_zone"),
			fmt.Sprintf(`The specified schedule_time_zone value "%v" is not a valid string.`, raw["schedule_time_zone"])))
	}
	if v, ok := raw["disabled"].(bool); ok {
		c.Disabled = v
	} else if present(raw, "disabled") {
		c.decodeDiagnostics = append(c.decodeDiagnostics, validation.Invalid(field.NewPath("disabled"),
			fmt.Sprintf(`The specified disabled value "%v" is not a valid bool.`, raw["disabled"])))
	}
	if v, ok := raw["description"].(string); ok {
		c.Description = v
	}
	return c
}

func (c *JobConfig) ServiceName() string { return c.Service }

func (c *JobConfig) JobName() string { return c.Instance }

// Owner is the explicit owner if one is set, otherwise the notification email
// of the job's monitoring config.
func (c *JobConfig) Owner() string {
	if v, ok := c.Raw["owner"].(string); ok && v != "" {
		return v
	}
	if v, ok := c.Monitoring()["notification_email"].(string); ok {
		return v
	}
	return ""
}

func (c *JobConfig) CheckEpsilon() validation.Diagnostics {
	path := field.NewPath("epsilon")
	if present(c.Raw, "epsilon") {
		if _, ok := c.Raw["epsilon"].(string); !ok {
			return validation.Diagnostics{validation.Invalid(path,
				fmt.Sprintf(`The specified epsilon value "%v" does not conform to the ISO8601 format.`, c.Raw["epsilon"]))}
		}
	}
	if _, err := parseISODuration(c.Epsilon); err != nil {
		return validation.Diagnostics{validation.Invalid(path,
			fmt.Sprintf(`The specified epsilon value "%s" does not conform to the ISO8601 format.`, c.Epsilon))}
	}
	return nil
}

func (c *JobConfig) CheckRetries() validation.Diagnostics {
	if !present(c.Raw, "retries") {
		return nil
	}
	if _, ok := toInt(c.Raw["retries"]); !ok {
		return validation.Diagnostics{validation.Invalid(field.NewPath("retries"),
			fmt.Sprintf(`The specified retries value "%v" is not a valid int.`, c.Raw["retries"]))}
	}
	return nil
}

func (c *JobConfig) CheckSchedule() validation.Diagnostics {
	if !present(c.Raw, "schedule") {
		return validation.Diagnostics{validation.Required(schedulePath,
			`You must specify a "schedule" in your configuration`)}
	}
	if c.Schedule == nil {
		return validation.Diagnostics{validation.Invalid(schedulePath,
			fmt.Sprintf(`The specified schedule "%v" is invalid`, c.Raw["schedule"]))}
	}
	return CheckSchedule(*c.Schedule)
}

// CheckScheduleTimeZone accepts any value. schedule_time_zone takes a tz
// database name while the schedule start time takes an ISO 8601 offset, and
// how the two should be cross-checked is not settled.
func (c *JobConfig) CheckScheduleTimeZone() validation.Diagnostics {
	return nil
}

// Check runs the check registered for param.
func (c *JobConfig) Check(param string) validation.Diagnostics {
	checks := map[string]func() validation.Diagnostics{
		"epsilon":          c.CheckEpsilon,
		"retries":          c.CheckRetries,
		"cpus":             c.CheckCPUs,
		"mem":              c.CheckMem,
		"schedule":         c.CheckSchedule,
		"scheduleTimeZone": c.CheckScheduleTimeZone,
	}
	if check, ok := checks[param]; ok {
		return check()
	}
	if slices.Contains(paramsWithoutChecks, param) {
		return nil
	}
	return validation.Diagnostics{unsupported(param)}
}

// Validate runs every check and returns all diagnostics found.
func (c *JobConfig) Validate() validation.Diagnostics {
	var ds validation.Diagnostics
	ds = append(ds, c.Config.Validate()...)
	ds = append(ds, c.decodeDiagnostics...)
	ds = append(ds, c.checkUnsupportedKeys()...)
	for _, param := range validatedParams {
		ds = append(ds, c.Check(param)...)
	}
	return ds
}

func (c *JobConfig) checkUnsupportedKeys() validation.Diagnostics {
	var keys []string
	for key := range c.Raw {
		if !slices.Contains(recognizedKeys, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	var ds validation.Diagnostics
	for _, key := range keys {
		ds = append(ds, unsupported(key))
	}
	return ds
}

func unsupported(param string) validation.Diagnostic {
	return validation.NotSupported(field.NewPath(param),
		fmt.Sprintf(`Your Chronos config specifies "%s", an unsupported parameter.`, param))
}

func present(raw map[string]any, key string) bool {
	v, ok := raw[key]
	return ok && v != nil
}

// toInt accepts integer kinds and integral floats, which is how JSON
// decoders hand back whole numbers. Values outside the int range are rejected.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n >= math.MinInt && n <= math.MaxInt {
			return int(n), true
		}
	case uint64:
		if n <= math.MaxInt {
			return int(n), true
		}
	case float64:
		// -math.MinInt is the first float above the int range.
		if n == math.Trunc(n) && n >= math.MinInt && n < -math.MinInt {
			return int(n), true
		}
	}
	return 0, false
}

func decodeStringList(raw map[string]any, key string) ([]string, validation.Diagnostics) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, validation.Diagnostics{validation.Invalid(field.NewPath(key),
			fmt.Sprintf(`The specified %s value "%v" is not a list of strings.`, key, v))}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, validation.Diagnostics{validation.Invalid(field.NewPath(key),
				fmt.Sprintf(`The specified %s value "%v" is not a list of strings.`, key, v))}
		}
		out = append(out, s)
	}
	return out, nil
}

// decodeEnv accepts either a list of {name, value} entries or a name to value
// mapping, which is emitted sorted by name.
func decodeEnv(raw map[string]any) ([]EnvVar, validation.Diagnostics) {
	path := field.NewPath("env")
	invalid := func() ([]EnvVar, validation.Diagnostics) {
		return []EnvVar{}, validation.Diagnostics{validation.Invalid(path,
			fmt.Sprintf(`The specified env value "%v" is not a list of name/value pairs.`, raw["env"]))}
	}

	switch v := raw["env"].(type) {
	case nil:
		return []EnvVar{}, nil
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		slices.Sort(names)
		env := make([]EnvVar, 0, len(v))
		for _, name := range names {
			env = append(env, EnvVar{Name: name, Value: fmt.Sprint(v[name])})
		}
		return env, nil
	case []any:
		env := make([]EnvVar, 0, len(v))
		for _, item := range v {
			entry, ok := item.(map[string]any)
			if !ok {
				return invalid()
			}
			name, ok := entry["name"].(string)
			if !ok || name == "" {
				return invalid()
			}
			value, ok := entry["value"]
			if !ok {
				return invalid()
			}
			env = append(env, EnvVar{Name: name, Value: fmt.Sprint(value)})
		}
		return env, nil
	default:
		return invalid()
	}
}

func decodeConstraints(raw map[string]any) ([][]string, validation.Diagnostics) {
	v, ok := raw["constraints"]
	if !ok || v == nil {
		return nil, nil
	}
	invalid := validation.Diagnostics{validation.Invalid(field.NewPath("constraints"),
		fmt.Sprintf(`The specified constraints value "%v" is not a list of [attribute, operator, value] lists.`, v))}

	items, ok := v.([]any)
	if !ok {
		return nil, invalid
	}
	out := make([][]string, 0, len(items))
	for _, item := range items {
		parts, ok := item.([]any)
		if !ok || len(parts) < 2 {
			return nil, invalid
		}
		constraint := make([]string, 0, len(parts))
		for _, part := range parts {
			s, ok := part.(string)
			if !ok {
				return nil, invalid
			}
			constraint = append(constraint, s)
		}
		out = append(out, constraint)
	}
	return out, nil
}
