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
	"fmt"
	"iter"
	"os"

	"google.golang.org/genai"
)

// GeminiConfig configures a Gemini-backed Client.
type GeminiConfig struct {
	// APIKey falls back to the GOOGLE_GENAI_API_KEY environment variable when empty.
	APIKey string
}

type geminiClient struct {
	client *genai.Client
	model  string
}

// NewGemini returns a [Client] backed by Gemini. The reference cmd/research
// wiring uses it as the synthesis model only; web search goes through the
// search package, not through this client.
func NewGemini(ctx context.Context, modelName string, cfg *GeminiConfig) (Client, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_GENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llmclient: GOOGLE_GENAI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("llmclient: create genai client: %w", err)
	}

	return &geminiClient{client: client, model: modelName}, nil
}

func (m *geminiClient) Name() string { return m.model }

func (m *geminiClient) Generate(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		cfg.Temperature = &t
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = jsonSchemaToGenai(req.Schema)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(req.User), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}

	text := resp.Text()
	usage := Usage{}
	if resp.UsageMetadata != nil {
		usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	if req.Schema != nil {
		return &Response{JSON: []byte(text), Usage: usage}, nil
	}
	return &Response{Text: text, Usage: usage}, nil
}

func (m *geminiClient) StreamText(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cfg := &genai.GenerateContentConfig{}
		if req.System != "" {
			cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
		}

		for chunk, err := range m.client.Models.GenerateContentStream(ctx, m.model, genai.Text(req.User), cfg) {
			if err != nil {
				yield("", fmt.Errorf("gemini: stream: %w", err))
				return
			}
			if chunk == nil {
				continue
			}
			if !yield(chunk.Text(), nil) {
				return
			}
		}
	}
}
