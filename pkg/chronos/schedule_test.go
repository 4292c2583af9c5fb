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
	"strings"
	"testing"

	"chronos-toolkit/pkg/validation"
)

func TestCheckScheduleValid(t *testing.T) {
	schedules := []string{
		"R5/2015-03-25T19:36:35Z/PT5M",
		"R/2015-03-25T19:36:35+01:00/PT60S",
		"R0/2020-01-01T00:00:00.000-08:00/P1D",
		"R10/20150325T193635Z/PT1H",
		"R/2015-03-25T19:36Z/P1DT12H",
		"R/2015-03-25T19Z/PT1H",
		"R/2015-03-25T19+0100/P2W",
	}
	for _, schedule := range schedules {
		if ds := CheckSchedule(schedule); !ds.Valid() {
			t.Errorf("CheckSchedule(%q) = %v, want no diagnostics", schedule, ds.Messages())
		}
	}
}

func TestCheckScheduleDiagnostics(t *testing.T) {
	tests := []struct {
		name         string
		schedule     string
		wantFields   []string
		wantContains string
		wantWarning  bool
	}{
		{
			name:         "missing third part",
			schedule:     "R5/PT1H",
			wantFields:   []string{"schedule"},
			wantContains: `The specified schedule "R5/PT1H" is invalid`,
		},
		{
			name:         "too many parts",
			schedule:     "R5/2015-03-25T19:36:35Z/PT1H/extra",
			wantFields:   []string{"schedule"},
			wantContains: "is invalid",
		},
		{
			name:         "empty string",
			schedule:     "",
			wantFields:   []string{"schedule"},
			wantContains: "is invalid",
		},
		{
			name:         "empty start time",
			schedule:     "R//PT1H",
			wantFields:   []string{"schedule.startTime"},
			wantContains: "does not contain a start time",
			wantWarning:  true,
		},
		{
			name:         "start time without time zone",
			schedule:     "R/2020-01-01T00:00:00/PT1H",
			wantFields:   []string{"schedule.startTime"},
			wantContains: `The specified start time "2020-01-01T00:00:00" must contain a time zone`,
		},
		{
			name:         "unparseable start time",
			schedule:     "R/not-a-date/PT1H",
			wantFields:   []string{"schedule.startTime"},
			wantContains: `The specified start time "not-a-date" in schedule "R/not-a-date/PT1H" does not conform to the ISO 8601 format`,
		},
		{
			name:         "empty interval",
			schedule:     "R/2015-03-25T19:36:35Z/",
			wantFields:   []string{"schedule.interval"},
			wantContains: `The specified interval "" in schedule`,
		},
		{
			name:         "interval without designator",
			schedule:     "R/2015-03-25T19:36:35Z/5M",
			wantFields:   []string{"schedule.interval"},
			wantContains: `The specified interval "5M"`,
		},
		{
			name:         "interval with a trailing bare number",
			schedule:     "R/2015-03-25T19:36:35Z/PT1H30",
			wantFields:   []string{"schedule.interval"},
			wantContains: `The specified interval "PT1H30"`,
		},
		{
			name:         "interval with an empty time part",
			schedule:     "R/2015-03-25T19:36:35Z/P1DT",
			wantFields:   []string{"schedule.interval"},
			wantContains: `The specified interval "P1DT"`,
		},
		{
			name:         "every part invalid",
			schedule:     "Q/garbage/xx",
			wantFields:   []string{"schedule.startTime", "schedule.interval", "schedule.repeat"},
			wantContains: `The specified repeat "Q"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := CheckSchedule(tt.schedule)
			if len(ds) != len(tt.wantFields) {
				t.Fatalf("CheckSchedule(%q) = %d diagnostics %v, want %d", tt.schedule, len(ds), ds.Messages(), len(tt.wantFields))
			}
			for i, field := range tt.wantFields {
				if ds[i].Field != field {
					t.Errorf("diagnostic %d field = %q, want %q", i, ds[i].Field, field)
				}
			}
			if !strings.Contains(strings.Join(ds.Messages(), "\n"), tt.wantContains) {
				t.Errorf("CheckSchedule(%q) messages %q do not contain %q", tt.schedule, ds.Messages(), tt.wantContains)
			}
			if gotWarning := ds[0].Severity == validation.SeverityWarning; gotWarning != tt.wantWarning {
				t.Errorf("first diagnostic warning = %v, want %v", gotWarning, tt.wantWarning)
			}
		})
	}
}

func TestCheckScheduleRepeat(t *testing.T) {
	tests := []struct {
		repeat string
		valid  bool
	}{
		{"R", true},
		{"R0", true},
		{"R5", true},
		{"R123", true},
		{"Q5", false},
		{"r5", false},
		{"R5x", false},
		{" R5", false},
		{"R5 ", false},
		{"R-1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.repeat, func(t *testing.T) {
			schedule := tt.repeat + "/2015-03-25T19:36:35Z/PT1H"
			ds := CheckSchedule(schedule)
			if ds.Valid() != tt.valid {
				t.Errorf("CheckSchedule(%q) valid = %v, want %v (%v)", schedule, ds.Valid(), tt.valid, ds.Messages())
			}
			if !tt.valid && (len(ds) != 1 || ds[0].Field != "schedule.repeat") {
				t.Errorf("CheckSchedule(%q) = %v, want a single repeat diagnostic", schedule, ds.Messages())
			}
		})
	}
}
