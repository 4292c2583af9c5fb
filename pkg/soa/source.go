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

// Package soa reads service configuration from a soa-configs checkout: the
// chronos jobs of each cluster, the deployments resolved for them and the
// service monitoring defaults.
package soa

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chronos-toolkit/pkg/chronos"
	"chronos-toolkit/pkg/instance"
	"chronos-toolkit/pkg/logging"

	"github.com/moby/patternmatcher"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSoaDir   = "/nail/etc/services"
	DeploymentsFile = "deployments.json"
	MonitoringFile  = "monitoring.yaml"
)

var ErrConfigNotFound = errors.New("configuration not found")

// ServiceJob names one chronos job of one service.
type ServiceJob struct {
	Service string
	Job     string
}

// Source reads soa configs below Dir.
type Source struct {
	fs  afero.Fs
	Dir string
}

func NewSource(fs afero.Fs, dir string) *Source {
	return &Source{fs: fs, Dir: dir}
}

// DefaultBranch is the deployment branch of a job on a cluster.
func DefaultBranch(cluster, job string) string {
	return fmt.Sprintf("paasta-%s%s%s", cluster, chronos.InternalSpacer, job)
}

func chronosConfFile(cluster string) string {
	return fmt.Sprintf("chronos-%s.yaml", cluster)
}

// ReadChronosJobs returns the raw job configs of service on cluster, keyed by
// job name. A service without a chronos file for cluster has no jobs.
func (s *Source) ReadChronosJobs(service, cluster string) (map[string]map[string]any, error) {
	path := filepath.Join(s.Dir, service, chronosConfFile(cluster))
	logging.Debug("Reading Chronos configuration file: %s", path)

	jobs := map[string]map[string]any{}
	if err := s.readYAML(path, &jobs); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return map[string]map[string]any{}, nil
		}
		return nil, err
	}
	return jobs, nil
}

// Deployments is the content of a service's deployments.json.
type Deployments struct {
	V1 map[string]instance.BranchRecord `yaml:"v1"`
}

// BranchRecord returns the record for service:branch, or an empty record
// when the branch was never deployed.
func (d *Deployments) BranchRecord(service, branch string) instance.BranchRecord {
	if d == nil {
		return instance.BranchRecord{}
	}
	return d.V1[service+":"+branch]
}

func (s *Source) LoadDeployments(service string) (*Deployments, error) {
	path := filepath.Join(s.Dir, service, DeploymentsFile)
	d := &Deployments{}
	if err := s.readYAML(path, d); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(ErrConfigNotFound, "no %s for service %s", DeploymentsFile, service)
		}
		return nil, err
	}
	return d, nil
}

// LoadMonitoring returns the service-level monitoring config, empty if the
// service has none.
func (s *Source) LoadMonitoring(service string) (map[string]any, error) {
	path := filepath.Join(s.Dir, service, MonitoringFile)
	monitoring := map[string]any{}
	if err := s.readYAML(path, &monitoring); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return map[string]any{}, nil
		}
		return nil, err
	}
	return monitoring, nil
}

// LoadJobConfig builds the JobConfig of service's job on cluster. Job-level
// monitoring keys override the service-level ones.
func (s *Source) LoadJobConfig(service, job, cluster string) (*chronos.JobConfig, error) {
	jobs, err := s.ReadChronosJobs(service, cluster)
	if err != nil {
		return nil, err
	}
	raw, ok := jobs[job]
	if !ok {
		return nil, errors.Wrapf(ErrConfigNotFound, "no job named %q in config file %s/%s/%s", job, s.Dir, service, chronosConfFile(cluster))
	}
	if raw == nil {
		raw = map[string]any{}
	}

	monitoring, err := s.LoadMonitoring(service)
	if err != nil {
		return nil, err
	}
	if len(monitoring) > 0 {
		raw = mergeMonitoring(raw, monitoring)
	}

	deployments, err := s.LoadDeployments(service)
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
		logging.Debug("Service %s has no deployments, job %s has no image", service, job)
	}
	branch := deployments.BranchRecord(service, DefaultBranch(cluster, job))
	return chronos.NewJobConfig(service, job, raw, branch), nil
}

// mergeMonitoring returns a copy of raw whose monitoring falls back to the
// service defaults. A mistyped job monitoring value is left for validation.
func mergeMonitoring(raw map[string]any, defaults map[string]any) map[string]any {
	merged := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		merged[k] = v
	}
	jobMonitoring := map[string]any{}
	if v, ok := raw["monitoring"]; ok && v != nil {
		m, isMap := v.(map[string]any)
		if !isMap {
			return merged
		}
		jobMonitoring = m
	}
	combined := make(map[string]any, len(defaults)+len(jobMonitoring))
	for k, v := range defaults {
		combined[k] = v
	}
	for k, v := range jobMonitoring {
		combined[k] = v
	}
	merged["monitoring"] = combined
	return merged
}

// ListJobNames lists the chronos jobs of service on cluster, sorted by name.
func (s *Source) ListJobNames(service, cluster string) ([]ServiceJob, error) {
	jobs, err := s.ReadChronosJobs(service, cluster)
	if err != nil {
		return nil, err
	}
	out := make([]ServiceJob, 0, len(jobs))
	for job := range jobs {
		out = append(out, ServiceJob{Service: service, Job: job})
	}
	slices.SortFunc(out, compareServiceJobs)
	logging.Debug("Enumerated the following jobs: %v", out)
	return out, nil
}

// ListClusterJobs lists the chronos jobs of every service on cluster. When
// patterns are given, only services they match are read; patterns follow
// .dockerignore syntax, so "!name" excludes a service.
func (s *Source) ListClusterJobs(ctx context.Context, cluster string, patterns []string) ([]ServiceJob, error) {
	services, err := s.services(patterns)
	if err != nil {
		return nil, err
	}
	logging.Info("Retrieving all Chronos job names from %s for cluster %s", s.Dir, cluster)

	var (
		mu  sync.Mutex
		all []ServiceJob
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, service := range services {
		service := service
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			jobs, err := s.ListJobNames(service, cluster)
			if err != nil {
				return fmt.Errorf("failed to list jobs of service %s: %w", service, err)
			}
			mu.Lock()
			all = append(all, jobs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(all, compareServiceJobs)
	return all, nil
}

func (s *Source) services(patterns []string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read soa dir %s", s.Dir)
	}

	var matcher *patternmatcher.PatternMatcher
	if len(patterns) > 0 {
		matcher, err = patternmatcher.New(patterns)
		if err != nil {
			return nil, fmt.Errorf("failed to create service pattern matcher: %w", err)
		}
	}

	var services []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if matcher != nil {
			matched, err := matcher.MatchesOrParentMatches(entry.Name())
			if err != nil {
				return nil, fmt.Errorf("failed to match service %q: %w", entry.Name(), err)
			}
			if !matched {
				logging.Debug("Skipping service %q", entry.Name())
				continue
			}
		}
		services = append(services, entry.Name())
	}
	return services, nil
}

func (s *Source) readYAML(path string, out any) error {
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	if err := yaml.Unmarshal(content, out); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}

func compareServiceJobs(a, b ServiceJob) int {
	if a.Service != b.Service {
		if a.Service < b.Service {
			return -1
		}
		return 1
	}
	if a.Job < b.Job {
		return -1
	}
	if a.Job > b.Job {
		return 1
	}
	return 0
}
