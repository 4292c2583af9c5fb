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
	"regexp"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

// Accepted ISO 8601 datetime layouts. time.Parse also accepts fractional
// seconds after the seconds field of any of them.
var (
	zonedLayouts = []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04:05Z07",
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15Z07:00",
		"2006-01-02T15Z0700",
		"20060102T150405Z0700",
		"20060102T150405Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02T15",
		"20060102T150405",
	}
)

// Every component needs its unit designator; duration.Parse alone accepts a
// trailing bare number such as "PT1H30".
var durationPattern = regexp.MustCompile(`^[+-]?P(?:\d+(?:[.,]\d+)?[YMWD])*(?:T(?:\d+(?:[.,]\d+)?[HMS])+)?$`)

// parseISODuration parses an ISO 8601 duration such as "PT60S" or "P1DT2H".
func parseISODuration(s string) (*duration.Duration, error) {
	if !strings.ContainsAny(s, "0123456789") {
		return nil, fmt.Errorf("%q has no duration components", s)
	}
	if !durationPattern.MatchString(s) {
		return nil, fmt.Errorf("%q is not an ISO 8601 duration", s)
	}
	d, err := duration.Parse(s)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// parseISODateTime parses an ISO 8601 datetime. hasZone reports whether the
// input carried an explicit offset.
func parseISODateTime(s string) (t time.Time, hasZone bool, err error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unable to parse datetime string %q", s)
}
