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
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"
)

// jsonSchemaToAnthropicInput converts a jsonschema.Schema into the
// map[string]any shape Anthropic's tool input_schema expects.
func jsonSchemaToAnthropicInput(s *jsonschema.Schema) anthropic.ToolInputSchemaParam {
	input := anthropic.ToolInputSchemaParam{
		Properties: map[string]any{},
	}
	if s == nil {
		return input
	}
	if props := jsonSchemaProperties(s); props != nil {
		input.Properties = props
	}
	if len(s.Required) > 0 {
		input.Required = s.Required
	}
	return input
}

func jsonSchemaProperties(s *jsonschema.Schema) map[string]any {
	if s == nil || s.Properties == nil {
		return nil
	}
	props := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		props[name] = jsonSchemaToMap(prop)
	}
	return props
}

func jsonSchemaToMap(s *jsonschema.Schema) map[string]any {
	if s == nil {
		return nil
	}
	m := make(map[string]any)
	if s.Type != "" {
		m["type"] = string(s.Type)
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.Items != nil {
		m["items"] = jsonSchemaToMap(s.Items)
	}
	if s.Properties != nil {
		m["properties"] = jsonSchemaProperties(s)
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	return m
}

// jsonSchemaToGenai converts a jsonschema.Schema into a genai.Schema, used
// for the Gemini-backed client's ResponseSchema.
func jsonSchemaToGenai(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genai.Type(strings.ToUpper(string(s.Type))),
		Description: s.Description,
		Required:    s.Required,
	}
	if out.Type == "" {
		out.Type = genai.TypeObject
	}

	if len(s.Enum) > 0 {
		for _, e := range s.Enum {
			if str, ok := e.(string); ok {
				out.Enum = append(out.Enum, str)
			}
		}
	}

	if s.Items != nil {
		out.Items = jsonSchemaToGenai(s.Items)
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = jsonSchemaToGenai(prop)
		}
	}

	return out
}
