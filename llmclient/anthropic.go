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

package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicMaxTokens = 4096
	structuredToolName        = "emit_result"
)

// AnthropicConfig configures an Anthropic-backed Client.
type AnthropicConfig struct {
	// APIKey falls back to the ANTHROPIC_API_KEY environment variable when empty.
	APIKey string

	// DefaultMaxTokens defaults to 4096 when zero. Anthropic requires
	// max_tokens to be set explicitly on every request.
	DefaultMaxTokens int
}

type anthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int
}

// NewAnthropic returns a [Client] backed by Anthropic Claude. It is the
// primary model used for planning, scoring, sub-query generation,
// saturation/quality evaluation, component summaries and report sections.
func NewAnthropic(modelName anthropic.Model, cfg *AnthropicConfig) (Client, error) {
	if cfg == nil {
		cfg = &AnthropicConfig{}
	}

	var opts []option.RequestOption
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llmclient: ANTHROPIC_API_KEY not set")
	}
	opts = append(opts, option.WithAPIKey(apiKey))

	maxTokens := cfg.DefaultMaxTokens
	if maxTokens == 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	return &anthropicClient{
		client:    anthropic.NewClient(opts...),
		model:     modelName,
		maxTokens: maxTokens,
	}, nil
}

func (m *anthropicClient) Name() string { return string(m.model) }

func (m *anthropicClient) Generate(ctx context.Context, req Request) (*Response, error) {
	params := m.baseParams(req)

	if req.Schema == nil {
		msg, err := m.client.Messages.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("anthropic: generate: %w", err)
		}
		return &Response{Text: concatText(msg), Usage: usageOf(msg)}, nil
	}

	toolName := req.SchemaName
	if toolName == "" {
		toolName = structuredToolName
	}
	params.Tools = []anthropic.ToolUnionParam{
		{
			OfTool: &anthropic.ToolParam{
				Name:        toolName,
				InputSchema: jsonSchemaToAnthropicInput(req.Schema),
			},
		},
	}
	params.ToolChoice = anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{Name: toolName},
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: generate: %w", err)
	}

	for _, block := range msg.Content {
		if tu, ok := block.AsAny().(anthropic.ToolUseBlock); ok && tu.Name == toolName {
			return &Response{JSON: json.RawMessage(tu.Input), Usage: usageOf(msg)}, nil
		}
	}
	return nil, fmt.Errorf("anthropic: response had no %q tool_use block", toolName)
}

func (m *anthropicClient) StreamText(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		params := m.baseParams(req)
		stream := m.client.Messages.NewStreaming(ctx, params)
		for stream.Next() {
			event := stream.Current()
			delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
			if !ok {
				continue
			}
			if !yield(text.Text, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("anthropic: stream: %w", err))
		}
	}
}

func (m *anthropicClient) baseParams(req Request) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = m.maxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     m.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	return params
}

func concatText(msg *anthropic.Message) string {
	var out string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			out += tb.Text
		}
	}
	return out
}

func usageOf(msg *anthropic.Message) Usage {
	return Usage{InputTokens: int(msg.Usage.InputTokens), OutputTokens: int(msg.Usage.OutputTokens)}
}
