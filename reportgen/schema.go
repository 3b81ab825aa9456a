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

package reportgen

import "github.com/google/jsonschema-go/jsonschema"

type sectionResponse struct {
	SectionContent string `json:"sectionContent"`
}

func sectionSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"sectionContent": {
				Type:        "string",
				Description: "A markdown section covering this component's success criteria and learnings.",
			},
		},
		Required: []string{"sectionContent"},
	}
}

type fallbackReportResponse struct {
	ReportMarkdown string `json:"reportMarkdown"`
}

func fallbackReportSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"reportMarkdown": {
				Type:        "string",
				Description: "The complete report, as markdown.",
			},
		},
		Required: []string{"reportMarkdown"},
	}
}
