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

// Package searchtest provides a scriptable fake of search.Service.
package searchtest

import (
	"context"
	"sync"

	"deepresearch.dev/orchestrator/search"
)

// Fake is a scriptable search.Service.
type Fake struct {
	// SearchFunc, when set, is called for every query. When nil, Fake
	// returns Pages for every query.
	SearchFunc func(ctx context.Context, query string, opts search.Options) ([]search.Page, error)
	Pages      []search.Page

	mu      sync.Mutex
	Queries []string
}

// Search implements search.Service.
func (f *Fake) Search(ctx context.Context, query string, opts search.Options) ([]search.Page, error) {
	f.mu.Lock()
	f.Queries = append(f.Queries, query)
	f.mu.Unlock()

	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, query, opts)
	}
	return f.Pages, nil
}

// SeenQueries returns every query passed to Search, in order.
func (f *Fake) SeenQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Queries))
	copy(out, f.Queries)
	return out
}
