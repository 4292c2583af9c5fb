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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chronos-toolkit/pkg/config"
	"chronos-toolkit/pkg/logging"
)

const defaultTimeout = 30 * time.Second

// Client is the subset of the Chronos API the toolkit uses.
type Client interface {
	JobLister
	AddJob(ctx context.Context, p *Payload) error
	DeleteJob(ctx context.Context, name string) error
}

// HTTPClient talks to the Chronos REST API with basic auth.
type HTTPClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewHTTPClient connects to the first Chronos URL of cfg. A nil httpClient
// gets a client with a default timeout.
func NewHTTPClient(cfg *config.ChronosConfig, httpClient *http.Client) (*HTTPClient, error) {
	rawURL, err := cfg.GetURL()
	if err != nil {
		return nil, err
	}
	username, err := cfg.GetUsername()
	if err != nil {
		return nil, err
	}
	password, err := cfg.GetPassword()
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid chronos url %q", rawURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	logging.Info("Connecting to Chronos server at: %s", rawURL)
	return &HTTPClient{
		baseURL:  strings.TrimSuffix(rawURL, "/"),
		username: username,
		password: password,
		http:     httpClient,
	}, nil
}

func (c *HTTPClient) ListJobs(ctx context.Context) ([]Job, error) {
	body, err := c.do(ctx, http.MethodGet, "/scheduler/jobs", nil)
	if err != nil {
		return nil, err
	}
	var jobs []Job
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode chronos job listing: %w", err)
	}
	return jobs, nil
}

func (c *HTTPClient) AddJob(ctx context.Context, p *Payload) error {
	content, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode job %q: %w", p.Name, err)
	}
	_, err = c.do(ctx, http.MethodPost, "/scheduler/iso8601", content)
	return err
}

func (c *HTTPClient) DeleteJob(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodDelete, "/scheduler/job/"+url.PathEscape(name), nil)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create chronos request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("%s %s", method, req.URL.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chronos request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chronos response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s returned %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
