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

import "strings"

// minUsefulContentLen is the threshold below which a page's scraped
// markdown is treated as having no usable content (spec §4.7 step 3: "no
// page has >100 chars of markdown").
const minUsefulContentLen = 100

// trim cuts s down to at most maxLen characters, never below minChunk, by
// truncating at the nearest preceding whitespace so words aren't split.
func trim(s string, maxLen, minChunk int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < minChunk {
		maxLen = minChunk
	}
	if maxLen >= len(s) {
		return s
	}
	cut := maxLen
	if idx := strings.LastIndexAny(s[:cut], " \n\t"); idx > minChunk {
		cut = idx
	}
	return s[:cut]
}

// hasUsableContent reports whether any page carries more than
// minUsefulContentLen characters of markdown.
func hasUsableContent(bodies []string) bool {
	for _, b := range bodies {
		if len(strings.TrimSpace(b)) > minUsefulContentLen {
			return true
		}
	}
	return false
}

// firstWords returns the first n whitespace-separated words of s.
func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

// stripOperators removes quote characters and "site:" operators other than
// the two allowed domains, leaving plain keyword text.
func stripOperators(query string) string {
	query = strings.ReplaceAll(query, `"`, "")
	fields := strings.Fields(query)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		lower := strings.ToLower(f)
		if strings.HasPrefix(lower, "site:") && lower != "site:reddit.com" && lower != "site:quora.com" {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
