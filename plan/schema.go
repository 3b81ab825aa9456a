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

package plan

import "github.com/google/jsonschema-go/jsonschema"

// planResponse mirrors planSchema's shape for decoding.
type planResponse struct {
	MainObjective string `json:"main_objective"`
	Components    []struct {
		Name            string   `json:"name"`
		Description     string   `json:"description"`
		SubQuestions    []string `json:"sub_questions"`
		SuccessCriteria []string `json:"success_criteria"`
	} `json:"components"`
	Sequencing      []string `json:"sequencing"`
	PotentialPivots []string `json:"potential_pivots"`
}

// toPlan converts the raw LLM response into a ResearchPlan.
func (r planResponse) toPlan() *ResearchPlan {
	p := &ResearchPlan{
		MainObjective:   r.MainObjective,
		Sequencing:      r.Sequencing,
		PotentialPivots: r.PotentialPivots,
	}
	for _, c := range r.Components {
		p.Components = append(p.Components, Component{
			Name:            c.Name,
			Description:     c.Description,
			SubQuestions:    c.SubQuestions,
			SuccessCriteria: c.SuccessCriteria,
		})
	}
	return p
}

// planSchema describes the JSON object the Planner must emit.
func planSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "A decomposition of a research query into independently researchable components.",
		Properties: map[string]*jsonschema.Schema{
			"main_objective": {
				Type:        "string",
				Description: "A restatement of the overall research objective.",
			},
			"components": {
				Type:        "array",
				Description: "3-6 components the objective decomposes into. Each must be independently researchable.",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name": {
							Type:        "string",
							Description: "A short, unique, human-readable component name.",
						},
						"description": {
							Type:        "string",
							Description: "What this component covers and why it matters to the objective.",
						},
						"sub_questions": {
							Type:        "array",
							Description: "2-5 specific questions this component must answer.",
							Items:       &jsonschema.Schema{Type: "string"},
						},
						"success_criteria": {
							Type:        "array",
							Description: "1-3 concrete conditions that mean this component is adequately researched.",
							Items:       &jsonschema.Schema{Type: "string"},
						},
					},
					Required: []string{"name", "description", "sub_questions", "success_criteria"},
				},
			},
			"sequencing": {
				Type:        "array",
				Description: "Component names in the order they should be researched, most foundational first. Must be a permutation of every component name.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
			"potential_pivots": {
				Type:        "array",
				Description: "Alternative directions the research might reveal a need to pivot towards.",
				Items:       &jsonschema.Schema{Type: "string"},
			},
		},
		Required: []string{"main_objective", "components", "sequencing"},
	}
}

// importanceResponse is the raw decode target for the scorer's output.
type importanceResponse struct {
	Scores []struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	} `json:"scores"`
}

// importanceSchema describes the JSON object the Importance Scorer must
// emit: a score in [0, 100] per component, summing to roughly 100.
func importanceSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "object",
		Description: "Relative importance scores for each research plan component.",
		Properties: map[string]*jsonschema.Schema{
			"scores": {
				Type:        "array",
				Description: "One entry per component, in any order. Scores should sum to approximately 100.",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":  {Type: "string", Description: "The component name, exactly as given."},
						"score": {Type: "number", Description: "Relative importance, 0-100."},
					},
					Required: []string{"name", "score"},
				},
			},
		},
		Required: []string{"scores"},
	}
}
