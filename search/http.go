// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPService implements [Service] against an HTTP search/scrape API
// matching the documented contract:
//
//	POST {endpoint}
//	{"query": "...", "timeout": 15000, "limit": 5,
//	 "scrapeOptions": {"formats": ["markdown"]}}
//	-> {"data": [{"url": "...", "markdown": "..."}]}
type HTTPService struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

// NewHTTPService returns an HTTPService with a default http.Client.
func NewHTTPService(endpoint, apiKey string) *HTTPService {
	return &HTTPService{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client:   &http.Client{},
	}
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type searchRequest struct {
	Query         string        `json:"query"`
	TimeoutMs     int64         `json:"timeout"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type searchResponse struct {
	Data []struct {
		URL      string `json:"url"`
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// Search implements [Service].
func (s *HTTPService) Search(ctx context.Context, query string, opts Options) ([]Page, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}

	body, err := json.Marshal(searchRequest{
		Query:         query,
		TimeoutMs:     timeout.Milliseconds(),
		Limit:         limit,
		ScrapeOptions: scrapeOptions{Formats: []string{"markdown"}},
	})
	if err != nil {
		return nil, fmt.Errorf("search: marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("search: unmarshal response: %w", err)
	}

	pages := make([]Page, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		pages = append(pages, Page{URL: d.URL, Markdown: d.Markdown})
	}
	return pages, nil
}
