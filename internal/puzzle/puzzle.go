// Package puzzle decides whether a command advances a multi-step puzzle,
// and separately whether any global-condition puzzle has just become true.
// Multi-step puzzles are matched per command by the verb handlers; global
// puzzles are standing CEL predicates over world state, checked after use.
package puzzle

import "time"

// Step is one precondition-gated unit of progress. A step matches a command
// when the verb and object line up and every declared requirement (flags,
// held items, location) holds. Matching sets SetsFlag and marks the step
// complete.
type Step struct {
	ID               string   `yaml:"id"`
	Verb             string   `yaml:"verb"`
	Object           string   `yaml:"object"`
	RequiredFlags    []string `yaml:"required_flags"`
	RequiredItems    []string `yaml:"required_items"`
	RequiredLocation string   `yaml:"required_location"`
	SetsFlag         string   `yaml:"sets_flag"`
	Message          string   `yaml:"message"`
}

// Puzzle owns an ordered or unordered set of steps. Sequential puzzles only
// offer their first unmet step; unordered puzzles offer any unmet step.
type Puzzle struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Sequential        bool   `yaml:"sequential"`
	Steps             []Step `yaml:"steps"`
	CompletionFlag    string `yaml:"completion_flag"`
	CompletionMessage string `yaml:"completion_message"`
	Reward            string `yaml:"reward"`
}

// Global is a puzzle whose completion is a standing predicate over world
// state rather than a discrete step sequence. Condition is a CEL expression
// over the rules vocabulary (has_item, flag, in_room, all_rooms_visited,
// holding_lit_light, room_is_dark).
type Global struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	Condition         string `yaml:"condition"`
	CompletionMessage string `yaml:"completion_message"`
	Reward            string `yaml:"reward"`
}

// State tracks one puzzle's live progress.
type State struct {
	CompletedSteps []string  `json:"completed_steps"`
	Completed      bool      `json:"completed"`
	HintsUsed      int       `json:"hints_used"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// stepDone reports whether the step id is recorded complete.
func (s *State) stepDone(id string) bool {
	for _, done := range s.CompletedSteps {
		if done == id {
			return true
		}
	}
	return false
}

// StepResult is the outcome of attempting one puzzle's next eligible step
// against a command.
type StepResult struct {
	Matched           bool
	StepID            string
	Message           string
	PuzzleCompleted   bool
	CompletionMessage string
}

// GlobalResult is the outcome of a global completion scan.
type GlobalResult struct {
	Completed         bool
	PuzzleID          string
	CompletionMessage string
	Reward            string
}
