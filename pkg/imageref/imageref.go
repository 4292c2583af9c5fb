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

// Package imageref turns deployment image names into the docker URLs and
// content identifiers used to version scheduled jobs.
package imageref

import (
	"fmt"
	"strings"

	"chronos-toolkit/pkg/logging"

	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
)

// DockerPlatform represents the target platform for a Docker image.
type DockerPlatform string

const (
	LinuxAMD64 DockerPlatform = "linux/amd64"
	LinuxARM64 DockerPlatform = "linux/arm64"
)

// identifierLength is how much of a sha is kept in job names.
const identifierLength = 8

// DockerURL joins a registry host and a deployed image name.
func DockerURL(registry, image string) (string, error) {
	registry = strings.TrimSuffix(strings.TrimSpace(registry), "/")
	image = strings.TrimSpace(image)
	if registry == "" {
		return "", fmt.Errorf("docker registry cannot be empty")
	}
	if image == "" {
		return "", fmt.Errorf("docker image cannot be empty")
	}
	return fmt.Sprintf("%s/%s", registry, image), nil
}

// CodeSHA derives the code identifier from a docker URL. Tags follow the
// "<prefix>-<sha>" convention of deployed images; digests use their hex.
func CodeSHA(dockerURL string) (string, error) {
	ref, err := name.ParseReference(dockerURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse image reference %q: %w", dockerURL, err)
	}

	switch r := ref.(type) {
	case name.Tag:
		parts := strings.Split(r.TagStr(), "-")
		return "git" + truncate(parts[len(parts)-1]), nil
	case name.Digest:
		return DigestID(r.DigestStr())
	default:
		return "", fmt.Errorf("unsupported image reference %q", dockerURL)
	}
}

// DigestID derives the code identifier from an image content digest.
func DigestID(digest string) (string, error) {
	h, err := v1.NewHash(digest)
	if err != nil {
		return "", fmt.Errorf("failed to parse image digest %q: %w", digest, err)
	}
	return "img" + truncate(h.Hex), nil
}

// ResolveDigest asks the registry for the content digest of dockerURL on the
// given platform.
func ResolveDigest(dockerURL string, platformStr string) (string, error) {
	platform, err := parsePlatform(platformStr)
	if err != nil {
		return "", err
	}
	ref, err := name.ParseReference(dockerURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse image reference %q: %w", dockerURL, err)
	}

	logging.Debug("Resolving digest of %s for %s", ref.String(), platform.String())
	digest, err := crane.Digest(ref.String(), crane.WithPlatform(&platform))
	if err != nil {
		return "", fmt.Errorf("failed to resolve digest of %q: %w", dockerURL, err)
	}
	logging.Info("Image %s resolved to %s", dockerURL, digest)
	return digest, nil
}

// parsePlatform converts a platform string (e.g., "linux/amd64") into a v1.Platform struct.
func parsePlatform(platformStr string) (v1.Platform, error) {
	parts := strings.Split(platformStr, "/")
	if len(parts) != 2 {
		return v1.Platform{}, fmt.Errorf("invalid platform format: %q, expected \"os/arch\"", platformStr)
	}
	return v1.Platform{
		OS:           parts[0],
		Architecture: parts[1],
	}, nil
}

func truncate(s string) string {
	if len(s) > identifierLength {
		return s[:identifierLength]
	}
	return s
}
