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

	"chronos-toolkit/pkg/validation"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// A repeat is "R" or "Rn": https://en.wikipedia.org/wiki/ISO_8601#Repeating_intervals
var repeatPattern = regexp.MustCompile(`^R\d*$`)

var schedulePath = field.NewPath("schedule")

// CheckSchedule validates a "repeat/start/interval" schedule expression.
// Apart from a wrong number of parts, every part is checked so all problems
// are reported together.
func CheckSchedule(schedule string) validation.Diagnostics {
	parts := strings.Split(schedule, "/")
	if len(parts) != 3 {
		return validation.Diagnostics{validation.Invalid(schedulePath,
			fmt.Sprintf(`The specified schedule "%s" is invalid`, schedule))}
	}
	repeat, startTime, interval := parts[0], parts[1], parts[2]

	var ds validation.Diagnostics
	ds = append(ds, checkStartTime(schedule, startTime)...)
	ds = append(ds, checkInterval(schedule, interval)...)
	ds = append(ds, checkRepeat(schedule, repeat)...)
	return ds
}

// An empty start time is not ISO 8601 but Chronos reads it as "now".
func checkStartTime(schedule, startTime string) validation.Diagnostics {
	path := schedulePath.Child("startTime")
	if startTime == "" {
		return validation.Diagnostics{validation.Warning(path,
			fmt.Sprintf(`The specified schedule "%s" does not contain a start time`, schedule))}
	}
	_, hasZone, err := parseISODateTime(startTime)
	if err != nil {
		return validation.Diagnostics{validation.Invalid(path,
			fmt.Sprintf("The specified start time \"%s\" in schedule \"%s\" does not conform to the ISO 8601 format:\n%s",
				startTime, schedule, err))}
	}
	if !hasZone {
		return validation.Diagnostics{validation.Invalid(path,
			fmt.Sprintf(`The specified start time "%s" must contain a time zone`, startTime))}
	}
	return nil
}

func checkInterval(schedule, interval string) validation.Diagnostics {
	if _, err := parseISODuration(interval); err != nil {
		return validation.Diagnostics{validation.Invalid(schedulePath.Child("interval"),
			fmt.Sprintf(`The specified interval "%s" in schedule "%s" does not conform to the ISO 8601 format.`, interval, schedule))}
	}
	return nil
}

func checkRepeat(schedule, repeat string) validation.Diagnostics {
	if !repeatPattern.MatchString(repeat) {
		return validation.Diagnostics{validation.Invalid(schedulePath.Child("repeat"),
			fmt.Sprintf(`The specified repeat "%s" in schedule "%s" does not conform to the ISO 8601 format.`, repeat, schedule))}
	}
	return nil
}
