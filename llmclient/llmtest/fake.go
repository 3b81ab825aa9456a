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

// Package llmtest provides a scriptable fake of llmclient.Client shared by
// every package's tests, the way the teacher shares go-cmp-based table
// tests without a mocking framework.
package llmtest

import (
	"context"
	"iter"
	"sync"

	"deepresearch.dev/orchestrator/llmclient"
)

// Fake is a scriptable llmclient.Client.
type Fake struct {
	NameValue    string
	GenerateFunc func(ctx context.Context, req llmclient.Request) (*llmclient.Response, error)
	StreamFunc   func(ctx context.Context, req llmclient.Request) iter.Seq2[string, error]

	mu    sync.Mutex
	calls []llmclient.Request
}

// Name implements llmclient.Client.
func (f *Fake) Name() string {
	if f.NameValue != "" {
		return f.NameValue
	}
	return "fake"
}

// Generate implements llmclient.Client.
func (f *Fake) Generate(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.GenerateFunc == nil {
		return &llmclient.Response{JSON: []byte("{}")}, nil
	}
	return f.GenerateFunc(ctx, req)
}

// StreamText implements llmclient.Client.
func (f *Fake) StreamText(ctx context.Context, req llmclient.Request) iter.Seq2[string, error] {
	if f.StreamFunc != nil {
		return f.StreamFunc(ctx, req)
	}
	return func(yield func(string, error) bool) {}
}

// Calls returns every request passed to Generate, in order.
func (f *Fake) Calls() []llmclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]llmclient.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// JSONGenerator returns a GenerateFunc that always responds with the given
// raw JSON payload, ignoring the request.
func JSONGenerator(raw string) func(context.Context, llmclient.Request) (*llmclient.Response, error) {
	return func(context.Context, llmclient.Request) (*llmclient.Response, error) {
		return &llmclient.Response{JSON: []byte(raw)}, nil
	}
}
