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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var listing = []Job{
	{Name: "foo bar", Disabled: false},
	{Name: "foo baz", Disabled: true},
	{Name: "qux", Disabled: false},
}

func jobNames(jobs []Job) []string {
	names := []string{}
	for _, job := range jobs {
		names = append(names, job.Name)
	}
	return names
}

func TestLookupJobs(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		opts    LookupOptions
		want    []string
	}{
		{name: "enabled only", pattern: "^foo ", want: []string{"foo bar"}},
		{name: "include disabled", pattern: "^foo ", opts: LookupOptions{IncludeDisabled: true}, want: []string{"foo bar", "foo baz"}},
		{name: "unanchored search", pattern: "ba", opts: LookupOptions{IncludeDisabled: true}, want: []string{"foo bar", "foo baz"}},
		{name: "within bound", pattern: "^foo ", opts: LookupOptions{MaxExpected: 1}, want: []string{"foo bar"}},
		{name: "no matches", pattern: "^nothing$", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LookupJobs(tt.pattern, listing, tt.opts)
			if err != nil {
				t.Fatalf("LookupJobs failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, jobNames(got)); diff != "" {
				t.Errorf("LookupJobs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookupJobsTooMany(t *testing.T) {
	_, err := LookupJobs("^foo ", listing, LookupOptions{MaxExpected: 1, IncludeDisabled: true})
	if !errors.Is(err, ErrTooManyJobs) {
		t.Fatalf("LookupJobs() error = %v, want ErrTooManyJobs", err)
	}
	if !strings.Contains(err.Error(), "ids: foo bar, foo baz") {
		t.Errorf("error %q does not name every match", err.Error())
	}
}

func TestLookupJobsInvalidPattern(t *testing.T) {
	_, err := LookupJobs("(unclosed", listing, LookupOptions{})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("LookupJobs() error = %v, want ErrInvalidPattern", err)
	}
}

type fakeLister struct {
	jobs  []Job
	err   error
	calls int
}

func (f *fakeLister) ListJobs(ctx context.Context) ([]Job, error) {
	f.calls++
	return f.jobs, f.err
}

func TestLookupChronosJobs(t *testing.T) {
	lister := &fakeLister{jobs: listing}
	got, err := LookupChronosJobs(context.Background(), lister, "^qux$", LookupOptions{MaxExpected: 1})
	if err != nil {
		t.Fatalf("LookupChronosJobs failed: %v", err)
	}
	if diff := cmp.Diff([]string{"qux"}, jobNames(got)); diff != "" {
		t.Errorf("LookupChronosJobs() mismatch (-want +got):\n%s", diff)
	}

	lister = &fakeLister{jobs: listing}
	if _, err := LookupChronosJobs(context.Background(), lister, "[", LookupOptions{}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("LookupChronosJobs() error = %v, want ErrInvalidPattern", err)
	}
	if lister.calls != 0 {
		t.Errorf("listed jobs %d times for an invalid pattern", lister.calls)
	}

	failing := &fakeLister{err: errors.New("connection refused")}
	if _, err := LookupChronosJobs(context.Background(), failing, "foo", LookupOptions{}); err == nil {
		t.Error("expected listing error to propagate")
	}
}
