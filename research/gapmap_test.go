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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewGapMap_AllNeutral(t *testing.T) {
	g := NewGapMap([]string{"b", "a"})
	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}

	var order []string
	for k := range g.All() {
		order = append(order, k)
	}
	if diff := cmp.Diff([]string{"a", "b"}, order); diff != "" {
		t.Errorf("iteration order mismatch (-want +got):\n%s", diff)
	}

	if got := g.NonNeutral(); len(got) != 0 {
		t.Errorf("NonNeutral() = %v, want empty", got)
	}
}

func TestGapMap_SetAndNonNeutral(t *testing.T) {
	g := NewGapMap([]string{"a", "b", "c"})
	g.Set("b", "missing pricing data")

	got := g.NonNeutral()
	if diff := cmp.Diff([]string{"b"}, got); diff != "" {
		t.Errorf("NonNeutral() mismatch (-want +got):\n%s", diff)
	}

	gap, ok := g.Get("b")
	if !ok || gap != "missing pricing data" {
		t.Errorf("Get(b) = (%q, %v), want (%q, true)", gap, ok, "missing pricing data")
	}
}
