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

// Package fallback holds the degrade-never-panic helper used throughout
// the orchestrator wherever an LLM or search failure must produce a local
// default instead of propagating.
package fallback

import "log"

// Value logs err with context and returns val. Call sites read as
// "fallback.Value(minimalPlan(query), "plan: create plan", err)" at the point a degraded
// result replaces a failed call.
func Value[T any](val T, context string, err error) T {
	log.Printf("%s: falling back: %v", context, err)
	return val
}
