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

// Package llmclient treats an LLM provider as a narrow capability: produce
// text, or produce a JSON object matching a schema. Callers never depend on
// a specific provider's SDK types.
package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mitchellh/mapstructure"
)

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Request is a single-turn system+user prompt, optionally constrained to a
// JSON schema.
type Request struct {
	System string
	User   string

	// Schema constrains the response to a JSON object matching it. When nil,
	// Generate returns free text in Response.Text instead.
	Schema     *jsonschema.Schema
	SchemaName string

	MaxTokens   int
	Temperature *float64
}

// Response is the raw result of a Generate call.
type Response struct {
	JSON  json.RawMessage
	Text  string
	Usage Usage
}

// Client is the capability the orchestrator needs from an LLM provider.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
	// StreamText emits incremental text chunks for an unconstrained request.
	// Used for final report synthesis and the TestAnthropicMode smoke test.
	StreamText(ctx context.Context, req Request) iter.Seq2[string, error]
}

// Generate performs a schema-constrained call and decodes the result into T.
// It is the centralized "generate<T>" primitive: it returns an error when
// the call fails or the JSON cannot be decoded into T. The JSON is not
// checked against schema, so a required field missing from the response
// decodes as its zero value.
func Generate[T any](ctx context.Context, c Client, schema *jsonschema.Schema, system, user string) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("llmclient: nil client")
	}

	resp, err := c.Generate(ctx, Request{System: system, User: user, Schema: schema})
	if err != nil {
		return zero, fmt.Errorf("llmclient: generate: %w", err)
	}

	var out T
	if err := json.Unmarshal(resp.JSON, &out); err == nil {
		return out, nil
	}

	// Second-chance decode: some providers flatten or nest fields in ways
	// json.Unmarshal's strict typing rejects but mapstructure can coerce.
	var loose map[string]any
	if jerr := json.Unmarshal(resp.JSON, &loose); jerr != nil {
		return zero, fmt.Errorf("llmclient: decode response: %w", jerr)
	}
	if derr := mapstructure.Decode(loose, &out); derr != nil {
		return zero, fmt.Errorf("llmclient: decode response: %w", derr)
	}
	return out, nil
}
