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

package research

import "github.com/google/jsonschema-go/jsonschema"

type subQueriesResponse struct {
	Queries []struct {
		Query     string `json:"query"`
		Reasoning string `json:"reasoning"`
	} `json:"queries"`
}

func subQueriesSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"queries": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"query":     {Type: "string", Description: "A focused search query, 2-5 words, no quoted strings, no operators other than site:reddit.com or site:quora.com."},
						"reasoning": {Type: "string", Description: "Why this query closes a gap."},
					},
					Required: []string{"query", "reasoning"},
				},
			},
		},
		Required: []string{"queries"},
	}
}

type summaryResponse struct {
	Learnings []string `json:"learnings"`
}

func summarizerSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"learnings": {
				Type:        "array",
				Description: "Up to 5 factual learnings extracted from the search results.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"learnings"},
	}
}

type analysisResponse struct {
	Summary         string   `json:"summary"`
	Valuable        bool     `json:"valuable"`
	Gaps            []string `json:"gaps"`
	ShouldContinue  bool     `json:"shouldContinue"`
	NextSearchTopic string   `json:"nextSearchTopic"`
}

func analysisSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"summary":         {Type: "string"},
			"valuable":        {Type: "boolean"},
			"gaps":            {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"shouldContinue":  {Type: "boolean"},
			"nextSearchTopic": {Type: "string"},
		},
		Required: []string{"summary", "valuable", "shouldContinue"},
	}
}

type saturationResponse struct {
	IsSaturated        bool              `json:"isSaturated"`
	CoveragePercentage int               `json:"coveragePercentage"`
	CoveredCriteria    []string          `json:"coveredCriteria"`
	RemainingCriteria  []string          `json:"remainingCriteria"`
	GapDetails         map[string]string `json:"gapDetails"`
	Reasoning          string            `json:"reasoning"`
}

func saturationSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"isSaturated":        {Type: "boolean"},
			"coveragePercentage": {Type: "integer", Description: "0-100."},
			"coveredCriteria":    {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"remainingCriteria":  {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"gapDetails": {
				Type:        "object",
				Description: "Per-criterion description of what's missing, for remaining criteria. Keys are criterion text, values are gap descriptions.",
			},
			"reasoning": {Type: "string"},
		},
		Required: []string{"isSaturated", "coveragePercentage", "coveredCriteria", "remainingCriteria", "reasoning"},
	}
}

type qualityResponse struct {
	MeetsQuality      bool     `json:"meetsQuality"`
	MissingElements   []string `json:"missingElements"`
	AdditionalQueries []string `json:"additionalQueries"`
}

func qualitySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"meetsQuality":      {Type: "boolean"},
			"missingElements":   {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"additionalQueries": {Type: "array", Description: "At most 2 follow-up queries.", Items: &jsonschema.Schema{Type: "string"}},
		},
		Required: []string{"meetsQuality"},
	}
}

type summaryTextResponse struct {
	Summary string `json:"summary"`
}

func componentSummarySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"summary": {Type: "string"},
		},
		Required: []string{"summary"},
	}
}
