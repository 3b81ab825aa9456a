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

// Package budget is the orchestrator's time-state machine: it tracks
// elapsed and remaining wall-clock budget, which component is active, and
// the rolling iteration/component time averages that feed the scheduling
// decision.
package budget

import "time"

// ResearchState is a snapshot of the run's progress through the plan's
// sequencing. completed, remaining and inProgress always partition the
// full sequencing. RunID is a stable identifier for this run, assigned by
// the orchestrator; it is not attached to progress events. state.go itself
// never generates one, since every other field here is a pure function of
// (startTime, now) and an injected run identifier keeps it that way.
type ResearchState struct {
	RunID string

	StartTime     time.Time
	CurrentTime   time.Time
	ElapsedTime   time.Duration
	RemainingTime time.Duration

	Budget time.Duration

	Completed      []string
	InProgress     string
	Remaining      []string
	ComponentTimes map[string]time.Duration
}

// ResearchStats accumulates rolling timing averages for the duration of a
// run.
type ResearchStats struct {
	CompletedIterations   int
	TotalIterationsTime   time.Duration
	IterationTimes        []time.Duration
	AverageIterationTime  time.Duration
	AverageComponentTime  time.Duration
	completedComponentSum time.Duration
	completedComponents   int
}

// Init starts a new ResearchState for plan's sequencing against budget.
func Init(sequencing []string, budgetDur time.Duration, now time.Time) ResearchState {
	remaining := make([]string, len(sequencing))
	copy(remaining, sequencing)

	s := ResearchState{
		StartTime:      now,
		CurrentTime:    now,
		RemainingTime:  budgetDur,
		Budget:         budgetDur,
		Remaining:      remaining,
		ComponentTimes: make(map[string]time.Duration),
	}
	if len(remaining) > 0 {
		s.InProgress = remaining[0]
	}
	return s
}

// Tick refreshes currentTime/elapsed/remainingTime against now. Calling
// Tick twice with the same now is idempotent up to those three fields,
// satisfying the "tick(tick(s)) == tick(s)" law: elapsed/remaining are
// pure functions of (startTime, now).
func Tick(s ResearchState, now time.Time) ResearchState {
	s.CurrentTime = now
	s.ElapsedTime = now.Sub(s.StartTime)
	remaining := s.Budget - s.ElapsedTime
	if remaining < 0 {
		remaining = 0
	}
	s.RemainingTime = remaining
	return s
}

// Complete moves name into Completed, removes it from Remaining, records
// its spent time, and advances InProgress to the new first element of
// Remaining (or "" if none remain).
//
// Resolves the spec's open question: the naive "first element not equal
// to completed" lookup for the next InProgress only works when the
// just-completed component is first in Remaining. Advancing to
// Remaining[0] after removal is correct regardless of where name was.
func Complete(s ResearchState, name string, spent time.Duration) ResearchState {
	s.Completed = append(append([]string(nil), s.Completed...), name)

	newRemaining := make([]string, 0, len(s.Remaining))
	for _, n := range s.Remaining {
		if n != name {
			newRemaining = append(newRemaining, n)
		}
	}
	s.Remaining = newRemaining

	times := make(map[string]time.Duration, len(s.ComponentTimes)+1)
	for k, v := range s.ComponentTimes {
		times[k] = v
	}
	times[name] = spent
	s.ComponentTimes = times

	if len(newRemaining) > 0 {
		s.InProgress = newRemaining[0]
	} else {
		s.InProgress = ""
	}
	return s
}

// RecordIteration folds one iteration's duration into the rolling stats.
func RecordIteration(stats ResearchStats, d time.Duration) ResearchStats {
	stats.CompletedIterations++
	stats.TotalIterationsTime += d
	stats.IterationTimes = append(append([]time.Duration(nil), stats.IterationTimes...), d)
	stats.AverageIterationTime = stats.TotalIterationsTime / time.Duration(stats.CompletedIterations)
	return stats
}

// RecordComponent folds one completed component's total spent time into
// the rolling average component time.
func RecordComponent(stats ResearchStats, d time.Duration) ResearchStats {
	stats.completedComponentSum += d
	stats.completedComponents++
	stats.AverageComponentTime = stats.completedComponentSum / time.Duration(stats.completedComponents)
	return stats
}

// recentIterationTime returns the mean of the last up-to-3 iteration
// times, falling back to the stats average, falling back to 60s.
func recentIterationTime(stats ResearchStats) time.Duration {
	n := len(stats.IterationTimes)
	if n == 0 {
		if stats.AverageIterationTime > 0 {
			return stats.AverageIterationTime
		}
		return 60 * time.Second
	}
	start := n - 3
	if start < 0 {
		start = 0
	}
	var sum time.Duration
	for _, d := range stats.IterationTimes[start:] {
		sum += d
	}
	return sum / time.Duration(n-start)
}
