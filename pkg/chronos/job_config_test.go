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
	"errors"
	"math"
	"strings"
	"testing"

	"chronos-toolkit/pkg/instance"

	. "gopkg.in/check.v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

type JobConfigSuite struct{}

var _ = Suite(&JobConfigSuite{})

func validRaw() map[string]any {
	return map[string]any{
		"cmd":         "/bin/sleep 40",
		"args":        []any{"--verbose"},
		"schedule":    "R/2015-03-25T19:36:35Z/PT5M",
		"epsilon":     "PT30S",
		"retries":     5,
		"cpus":        0.5,
		"mem":         256,
		"description": "cleans up old records",
	}
}

func newTestJobConfig(raw map[string]any) *JobConfig {
	return NewJobConfig("example_service", "cleanup", raw, instance.BranchRecord{
		DockerImage:  "services-example_service:paasta-c4d2b1e9",
		DesiredState: instance.DesiredStateStart,
	})
}

func (s *JobConfigSuite) TestDefaults(c *C) {
	cfg := newTestJobConfig(map[string]any{})

	c.Check(cfg.Epsilon, Equals, "PT60S")
	c.Check(cfg.Retries, Equals, 2)
	c.Check(cfg.Disabled, Equals, false)
	c.Check(cfg.Env, DeepEquals, []EnvVar{})
	c.Check(cfg.Args, IsNil)
	c.Check(cfg.Constraints, IsNil)
	c.Check(cfg.Schedule, IsNil)
	c.Check(cfg.ScheduleTimeZone, IsNil)
	c.Check(cfg.ServiceName(), Equals, "example_service")
	c.Check(cfg.JobName(), Equals, "cleanup")
	c.Check(cfg.DockerImage(), Equals, "services-example_service:paasta-c4d2b1e9")
}

func (s *JobConfigSuite) TestAccessors(c *C) {
	raw := validRaw()
	raw["schedule_time_zone"] = "America/Los_Angeles"
	raw["disabled"] = true
	raw["constraints"] = []any{[]any{"rack", "EQUALS", "rack-1"}}
	raw["monitoring"] = map[string]any{"notification_email": "team@example.com"}
	cfg := newTestJobConfig(raw)

	c.Check(cfg.Args, DeepEquals, []string{"--verbose"})
	c.Check(cfg.Epsilon, Equals, "PT30S")
	c.Check(cfg.Retries, Equals, 5)
	c.Check(cfg.Disabled, Equals, true)
	c.Check(*cfg.Schedule, Equals, "R/2015-03-25T19:36:35Z/PT5M")
	c.Check(*cfg.ScheduleTimeZone, Equals, "America/Los_Angeles")
	c.Check(cfg.Constraints, DeepEquals, [][]string{{"rack", "EQUALS", "rack-1"}})
	c.Check(cfg.CPUs(), Equals, 0.5)
	c.Check(cfg.Mem(), Equals, 256.0)
	c.Check(cfg.Cmd(), Equals, "/bin/sleep 40")
	c.Check(cfg.Owner(), Equals, "team@example.com")

	raw["owner"] = "oncall@example.com"
	c.Check(newTestJobConfig(raw).Owner(), Equals, "oncall@example.com")
}

func (s *JobConfigSuite) TestEnvForms(c *C) {
	list := newTestJobConfig(map[string]any{"env": []any{
		map[string]any{"name": "B", "value": "2"},
		map[string]any{"name": "A", "value": 1},
	}})
	c.Check(list.Env, DeepEquals, []EnvVar{{Name: "B", Value: "2"}, {Name: "A", Value: "1"}})

	mapping := newTestJobConfig(map[string]any{"env": map[string]any{"B": "2", "A": "1"}})
	c.Check(mapping.Env, DeepEquals, []EnvVar{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}})

	bad := newTestJobConfig(map[string]any{"env": "A=1"})
	c.Check(bad.Validate().ForField("env"), HasLen, 1)
}

func (s *JobConfigSuite) TestValidConfigPasses(c *C) {
	ds := newTestJobConfig(validRaw()).Validate()
	c.Check(ds.Valid(), Equals, true, Commentf("%v", ds.Messages()))
}

func (s *JobConfigSuite) TestValidateReportsEveryFailure(c *C) {
	raw := validRaw()
	raw["epsilon"] = "not-iso"
	raw["retries"] = "two"
	ds := newTestJobConfig(raw).Validate()

	c.Assert(ds, HasLen, 2)
	c.Check(ds[0].Field, Equals, "epsilon")
	c.Check(ds[0].Message, Equals, `The specified epsilon value "not-iso" does not conform to the ISO8601 format.`)
	c.Check(ds[1].Field, Equals, "retries")
	c.Check(ds[1].Message, Equals, `The specified retries value "two" is not a valid int.`)
}

func (s *JobConfigSuite) TestEpsilonRequiresUnitDesignators(c *C) {
	for _, epsilon := range []string{"PT1M5", "PT", "P", "60S", "PT1.5"} {
		raw := validRaw()
		raw["epsilon"] = epsilon
		ds := newTestJobConfig(raw).CheckEpsilon()
		c.Check(ds, HasLen, 1, Commentf("epsilon %q", epsilon))
	}
	for _, epsilon := range []string{"PT1M5S", "PT90S", "P1D", "P1W"} {
		raw := validRaw()
		raw["epsilon"] = epsilon
		c.Check(newTestJobConfig(raw).CheckEpsilon().Valid(), Equals, true, Commentf("epsilon %q", epsilon))
	}
}

func (s *JobConfigSuite) TestLenientDurationsFailValidation(c *C) {
	raw := validRaw()
	raw["schedule"] = "R/2015-03-25T19:36:35Z/PT1H30"
	raw["epsilon"] = "PT1M5"
	cfg := newTestJobConfig(raw)

	ds := cfg.Validate()
	c.Check(ds.ForField("epsilon"), HasLen, 1)
	c.Check(ds.ForField("schedule"), HasLen, 1)

	_, err := cfg.FormatJobPayload("registry.example.com/services-example_service:paasta-c4d2b1e9", nil)
	c.Check(err, ErrorMatches, "(?s).*PT1H30.*")
}

func (s *JobConfigSuite) TestNonFiniteResourcesFailValidation(c *C) {
	raw := validRaw()
	raw["cpus"] = math.Inf(1)
	raw["mem"] = math.NaN()
	cfg := newTestJobConfig(raw)

	ds := cfg.Validate()
	c.Check(ds.ForField("cpus"), HasLen, 1)
	c.Check(ds.ForField("mem"), HasLen, 1)

	_, err := cfg.FormatJobPayload("registry.example.com/services-example_service:paasta-c4d2b1e9", nil)
	c.Check(errors.Is(err, ErrInvalidJobConfig), Equals, true, Commentf("%v", err))
}

func (s *JobConfigSuite) TestRetriesAcceptsWholeNumbers(c *C) {
	for _, retries := range []any{0, 3, int64(4), 5.0} {
		raw := validRaw()
		raw["retries"] = retries
		c.Check(newTestJobConfig(raw).CheckRetries().Valid(), Equals, true, Commentf("retries %v", retries))
	}
	for _, retries := range []any{1.5, "3", true, 1e20, -1e20, math.Inf(1), math.NaN(), uint64(math.MaxUint64)} {
		raw := validRaw()
		raw["retries"] = retries
		cfg := newTestJobConfig(raw)
		c.Check(cfg.CheckRetries(), HasLen, 1, Commentf("retries %v", retries))
		c.Check(cfg.Retries, Equals, DefaultRetries, Commentf("retries %v", retries))
	}
}

func (s *JobConfigSuite) TestMissingSchedule(c *C) {
	raw := validRaw()
	delete(raw, "schedule")
	ds := newTestJobConfig(raw).Validate()

	c.Assert(ds, HasLen, 1)
	c.Check(ds[0].Type, Equals, field.ErrorTypeRequired)
	c.Check(ds[0].Message, Equals, `You must specify a "schedule" in your configuration`)
}

func (s *JobConfigSuite) TestInvalidScheduleIsReportedPerPart(c *C) {
	raw := validRaw()
	raw["schedule"] = "R5x/2020-01-01T00:00:00/PT1H"
	ds := newTestJobConfig(raw).Validate()

	c.Assert(ds, HasLen, 2)
	c.Check(ds.ForField("schedule"), HasLen, 2)
}

func (s *JobConfigSuite) TestUnsupportedKey(c *C) {
	raw := validRaw()
	raw["retriesx"] = 3
	raw["aardvark"] = true
	ds := newTestJobConfig(raw).Validate()

	unsupported := ds.OfType(field.ErrorTypeNotSupported)
	c.Assert(unsupported, HasLen, 2)
	c.Check(unsupported[0].Field, Equals, "aardvark")
	c.Check(unsupported[1].Field, Equals, "retriesx")
	c.Check(unsupported[1].Message, Equals, `Your Chronos config specifies "retriesx", an unsupported parameter.`)
}

func (s *JobConfigSuite) TestCheckDispatch(c *C) {
	cfg := newTestJobConfig(validRaw())

	for _, param := range []string{"description", "command", "owner", "disabled", "epsilon", "schedule"} {
		c.Check(cfg.Check(param), HasLen, 0, Commentf("param %s", param))
	}
	ds := cfg.Check("bogus")
	c.Assert(ds, HasLen, 1)
	c.Check(strings.Contains(ds[0].Message, `"bogus"`), Equals, true)
}

func (s *JobConfigSuite) TestScheduleTimeZoneIsPermissive(c *C) {
	for _, tz := range []any{"America/Los_Angeles", "+01:00", "not a zone"} {
		raw := validRaw()
		raw["schedule_time_zone"] = tz
		c.Check(newTestJobConfig(raw).CheckScheduleTimeZone(), HasLen, 0)
	}
}

func (s *JobConfigSuite) TestResourceChecksAreDelegated(c *C) {
	raw := validRaw()
	raw["cpus"] = "lots"
	raw["mem"] = -5
	ds := newTestJobConfig(raw).Validate()

	c.Check(ds.ForField("cpus"), HasLen, 1)
	c.Check(ds.ForField("mem"), HasLen, 1)
}

func (s *JobConfigSuite) TestMistypedFields(c *C) {
	raw := validRaw()
	raw["disabled"] = "yes"
	raw["args"] = "--verbose"
	raw["constraints"] = []any{"rack"}
	ds := newTestJobConfig(raw).Validate()

	c.Check(ds.ForField("disabled"), HasLen, 1)
	c.Check(ds.ForField("args"), HasLen, 1)
	c.Check(ds.ForField("constraints"), HasLen, 1)
}
