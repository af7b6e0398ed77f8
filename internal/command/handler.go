// Package command implements the per-verb command handlers and the router
// that dispatches parsed commands to them. Handlers own world mutation:
// each validates and executes exactly one verb against the live game state,
// deferring to the puzzle engine before falling back to built-in verb
// semantics.
package command

import (
	"github.com/suderio/fable/internal/engine"
	"github.com/suderio/fable/internal/puzzle"
)

// Validation is the outcome of a handler's precondition check. Validation
// never mutates state; an invalid result carries a human-readable reason
// the player can act on.
type Validation struct {
	Valid   bool
	Message string
}

// Valid is the always-passing validation.
func Valid() Validation {
	return Validation{Valid: true}
}

// Invalid builds a failed validation with a player-facing reason.
func Invalid(msg string) Validation {
	return Validation{Valid: false, Message: msg}
}

// Handler is the per-verb contract. Execute is only called after Validate
// returned valid; both receive the live, mutable state machine.
type Handler interface {
	Verb() string
	Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation
	Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error)
}

// Puzzles is the slice of the puzzle engine the handlers consume. A no-op
// implementation is injected when the pack declares no puzzles, so handler
// bodies never nil-check.
type Puzzles interface {
	Active() []*puzzle.Puzzle
	AttemptStep(puzzleID string, cmd engine.ParsedCommand, m *engine.Machine) puzzle.StepResult
	CheckGlobalCompletion(m *engine.Machine) (puzzle.GlobalResult, error)
}

// NopPuzzles is the puzzle collaborator used when no puzzles are loaded.
type NopPuzzles struct{}

func (NopPuzzles) Active() []*puzzle.Puzzle { return nil }

func (NopPuzzles) AttemptStep(string, engine.ParsedCommand, *engine.Machine) puzzle.StepResult {
	return puzzle.StepResult{}
}

func (NopPuzzles) CheckGlobalCompletion(*engine.Machine) (puzzle.GlobalResult, error) {
	return puzzle.GlobalResult{}, nil
}

// attemptPuzzles runs the command against every active puzzle's next
// eligible step and returns the first match. Falling through with no match
// is the normal path for the majority of commands.
func attemptPuzzles(p Puzzles, cmd engine.ParsedCommand, m *engine.Machine) (puzzle.StepResult, bool) {
	for _, active := range p.Active() {
		if res := p.AttemptStep(active.ID, cmd, m); res.Matched {
			return res, true
		}
	}
	return puzzle.StepResult{}, false
}
