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

// Package config loads the system-wide settings the toolkit needs: the local
// cluster, the docker registry, host volumes and how to reach Chronos.
// Nothing is read implicitly; callers construct these objects and pass them on.
package config

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = "/etc/paasta"
	ChronosConfigFile = "chronos.json"
)

var (
	ErrChronosNotConfigured = errors.New("chronos is not configured")
	ErrSystemConfigMissing  = errors.New("system config value missing")
)

// Volume is a host path mounted into every job container.
type Volume struct {
	ContainerPath string `yaml:"containerPath" json:"containerPath"`
	HostPath      string `yaml:"hostPath" json:"hostPath"`
	Mode          string `yaml:"mode" json:"mode"`
}

// SystemConfig is the merged content of every JSON file in the config dir.
type SystemConfig struct {
	Cluster        string   `yaml:"cluster"`
	DockerRegistry string   `yaml:"docker_registry"`
	Volumes        []Volume `yaml:"volumes"`

	dir string
}

// LoadSystemConfig merges the *.json files of dir in lexical order; later
// files override keys set by earlier ones.
func LoadSystemConfig(fs afero.Fs, dir string) (*SystemConfig, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read system config dir %s", dir)
	}

	cfg := &SystemConfig{dir: dir}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read system config file %s", path)
		}
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse system config file %s", path)
		}
	}
	return cfg, nil
}

func (c *SystemConfig) GetCluster() (string, error) {
	if c.Cluster == "" {
		return "", errors.Wrapf(ErrSystemConfigMissing, "could not find cluster in system config dir %s", c.dir)
	}
	return c.Cluster, nil
}

func (c *SystemConfig) GetDockerRegistry() (string, error) {
	if c.DockerRegistry == "" {
		return "", errors.Wrapf(ErrSystemConfigMissing, "could not find docker_registry in system config dir %s", c.dir)
	}
	return c.DockerRegistry, nil
}

// URLList accepts either a single URL or a list of URLs.
type URLList []string

func (u *URLList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*u = URLList{single}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*u = many
	return nil
}

// ChronosConfig holds the endpoint and credentials of the Chronos API.
type ChronosConfig struct {
	URLs     URLList `yaml:"url"`
	User     string  `yaml:"user"`
	Password string  `yaml:"password"`

	path string
}

// LoadChronosConfig reads chronos.json from dir.
func LoadChronosConfig(fs afero.Fs, dir string) (*ChronosConfig, error) {
	path := filepath.Join(dir, ChronosConfigFile)
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(ErrChronosNotConfigured, "could not load chronos config file %s: %v", path, err)
	}
	cfg := &ChronosConfig{path: path}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse chronos config file %s", path)
	}
	return cfg, nil
}

// GetURL returns the first configured Chronos endpoint.
func (c *ChronosConfig) GetURL() (string, error) {
	if len(c.URLs) == 0 || c.URLs[0] == "" {
		return "", errors.Wrapf(ErrChronosNotConfigured, "could not find chronos url in system chronos config: %s", c.path)
	}
	return c.URLs[0], nil
}

func (c *ChronosConfig) GetUsername() (string, error) {
	if c.User == "" {
		return "", errors.Wrapf(ErrChronosNotConfigured, "could not find chronos user in system chronos config: %s", c.path)
	}
	return c.User, nil
}

func (c *ChronosConfig) GetPassword() (string, error) {
	if c.Password == "" {
		return "", errors.Wrapf(ErrChronosNotConfigured, "could not find chronos password in system chronos config: %s", c.path)
	}
	return c.Password, nil
}
