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
	"fmt"
	"regexp"
	"strings"
)

// Job is an entry of the job listing Chronos reports.
type Job struct {
	Name        string `json:"name"`
	Disabled    bool   `json:"disabled"`
	Owner       string `json:"owner,omitempty"`
	Schedule    string `json:"schedule,omitempty"`
	LastSuccess string `json:"lastSuccess,omitempty"`
	LastError   string `json:"lastError,omitempty"`
}

// LookupOptions narrow a job lookup. A MaxExpected of zero means no limit.
type LookupOptions struct {
	MaxExpected     int
	IncludeDisabled bool
}

// LookupJobs returns the jobs whose name matches pattern, in listing order.
// Exceeding MaxExpected fails the lookup instead of truncating it.
func LookupJobs(pattern string, jobs []Job, opts LookupOptions) ([]Job, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	return filterJobs(re, jobs, opts)
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", ErrInvalidPattern, pattern, err)
	}
	return re, nil
}

func filterJobs(re *regexp.Regexp, jobs []Job, opts LookupOptions) ([]Job, error) {
	var matching []Job
	for _, job := range jobs {
		if !re.MatchString(job.Name) {
			continue
		}
		if job.Disabled && !opts.IncludeDisabled {
			continue
		}
		matching = append(matching, job)
	}

	if opts.MaxExpected > 0 && len(matching) > opts.MaxExpected {
		ids := make([]string, 0, len(matching))
		for _, job := range matching {
			ids = append(ids, job.Name)
		}
		return nil, fmt.Errorf("%w: found %d jobs for pattern '%s', but max_expected is set to %d (ids: %s)",
			ErrTooManyJobs, len(matching), re.String(), opts.MaxExpected, strings.Join(ids, ", "))
	}
	return matching, nil
}

// JobLister lists the jobs known to Chronos.
type JobLister interface {
	ListJobs(ctx context.Context) ([]Job, error)
}

// LookupChronosJobs runs LookupJobs over a fresh listing from client.
func LookupChronosJobs(ctx context.Context, client JobLister, pattern string, opts LookupOptions) ([]Job, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	jobs, err := client.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chronos jobs: %w", err)
	}
	return filterJobs(re, jobs, opts)
}
