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

// Package search treats the web search/scrape provider as a narrow
// capability: return a list of pages with a URL and extracted markdown.
package search

import (
	"context"
	"time"
)

// DefaultTimeout is the per-call search timeout the spec names (§5, §6).
const DefaultTimeout = 15 * time.Second

// Page is one search result with its scraped markdown body.
type Page struct {
	URL      string
	Markdown string
}

// Options configures a single Search call.
type Options struct {
	Timeout time.Duration
	Limit   int
}

// Service is the capability the orchestrator needs from a web search
// provider.
type Service interface {
	Search(ctx context.Context, query string, opts Options) ([]Page, error)
}
