package puzzle

import (
	"fmt"
	"strings"
	"time"

	"github.com/suderio/fable/internal/achievement"
	"github.com/suderio/fable/internal/engine"
	"github.com/suderio/fable/internal/rules"
)

// Engine holds the session's puzzle registry and progress. One engine per
// session; the rules registry it evaluates globals through is bound to the
// same session's state machine.
type Engine struct {
	puzzles []*Puzzle
	globals []Global
	states  map[string]*State
	reg     *rules.Registry
}

// NewEngine registers the pack's puzzles. The registry may be nil when the
// pack declares no global puzzles.
func NewEngine(puzzles []*Puzzle, globals []Global, reg *rules.Registry) *Engine {
	states := make(map[string]*State, len(puzzles))
	now := time.Now()
	for _, p := range puzzles {
		states[p.ID] = &State{StartedAt: now}
	}
	return &Engine{
		puzzles: puzzles,
		globals: globals,
		states:  states,
		reg:     reg,
	}
}

// Active returns the registered puzzles not yet fully completed, in
// registration order.
func (e *Engine) Active() []*Puzzle {
	var active []*Puzzle
	for _, p := range e.puzzles {
		if !e.states[p.ID].Completed {
			active = append(active, p)
		}
	}
	return active
}

// StateOf exposes a puzzle's progress for the UI.
func (e *Engine) StateOf(puzzleID string) (*State, bool) {
	s, ok := e.states[puzzleID]
	return s, ok
}

// AttemptStep tests the puzzle's next eligible step against the command.
// Sequential puzzles offer only the first unmet step in declared order;
// unordered puzzles offer every unmet step until one matches. A match sets
// the step's flag through the machine and records completion; when it was
// the last unmet step the whole puzzle completes.
func (e *Engine) AttemptStep(puzzleID string, cmd engine.ParsedCommand, m *engine.Machine) StepResult {
	p := e.findPuzzle(puzzleID)
	if p == nil {
		return StepResult{}
	}
	state := e.states[p.ID]
	if state.Completed {
		return StepResult{}
	}

	for i := range p.Steps {
		step := &p.Steps[i]
		if state.stepDone(step.ID) {
			continue
		}
		if e.stepMatches(step, cmd, m) {
			return e.completeStep(p, state, step, m)
		}
		if p.Sequential {
			// Only the first unmet step of a sequential puzzle is eligible.
			return StepResult{}
		}
	}
	return StepResult{}
}

// stepMatches checks the step's declared action and preconditions against
// the command and live state.
func (e *Engine) stepMatches(step *Step, cmd engine.ParsedCommand, m *engine.Machine) bool {
	if !strings.EqualFold(step.Verb, cmd.Verb) {
		return false
	}
	if !objectMatches(step.Object, cmd, m) {
		return false
	}
	for _, flag := range step.RequiredFlags {
		if !m.StoryFlag(flag) {
			return false
		}
	}
	for _, item := range step.RequiredItems {
		if !m.Holding(item) {
			return false
		}
	}
	if step.RequiredLocation != "" && m.Location() != step.RequiredLocation {
		return false
	}
	return true
}

// objectMatches resolves the command's noun phrase and compares it to the
// step's declared object id, falling back to bidirectional substring
// comparison when the phrase resolves to nothing.
func objectMatches(stepObject string, cmd engine.ParsedCommand, m *engine.Machine) bool {
	if stepObject == "" {
		return true
	}
	if obj := m.FindObject(cmd.Object); obj != nil {
		return obj.ID == stepObject
	}
	phrase := strings.ToLower(cmd.Object)
	target := strings.ToLower(stepObject)
	return phrase != "" && (strings.Contains(target, phrase) || strings.Contains(phrase, target))
}

func (e *Engine) completeStep(p *Puzzle, state *State, step *Step, m *engine.Machine) StepResult {
	if step.SetsFlag != "" {
		m.SetStoryFlag(step.SetsFlag, true)
	}
	state.CompletedSteps = append(state.CompletedSteps, step.ID)

	res := StepResult{
		Matched: true,
		StepID:  step.ID,
		Message: step.Message,
	}

	// Re-scan: the puzzle completes when no pending steps remain.
	for _, s := range p.Steps {
		if !state.stepDone(s.ID) {
			return res
		}
	}

	state.Completed = true
	state.CompletedAt = time.Now()
	if p.CompletionFlag != "" {
		m.SetStoryFlag(p.CompletionFlag, true)
	}
	e.recordSolved(p.ID, m)
	res.PuzzleCompleted = true
	res.CompletionMessage = p.CompletionMessage
	return res
}

// CheckGlobalCompletion evaluates the registered global predicates against
// the live state. The first newly-satisfied, not-yet-completed predicate is
// recorded and returned. Completed puzzles are never evaluated again, so
// replaying a winning command cannot re-fire the reward.
func (e *Engine) CheckGlobalCompletion(m *engine.Machine) (GlobalResult, error) {
	if e.reg == nil {
		return GlobalResult{}, nil
	}
	for i := range e.globals {
		g := &e.globals[i]
		state, ok := e.states[g.ID]
		if !ok {
			state = &State{StartedAt: time.Now()}
			e.states[g.ID] = state
		}
		if state.Completed {
			continue
		}
		satisfied, err := e.reg.EvalBool(g.Condition, nil)
		if err != nil {
			return GlobalResult{}, fmt.Errorf("global puzzle %q: %w", g.ID, err)
		}
		if !satisfied {
			continue
		}
		state.Completed = true
		state.CompletedAt = time.Now()
		e.recordSolved(g.ID, m)
		return GlobalResult{
			Completed:         true,
			PuzzleID:          g.ID,
			CompletionMessage: g.CompletionMessage,
			Reward:            g.Reward,
		}, nil
	}
	return GlobalResult{}, nil
}

// recordSolved folds a completion into session progress and notifies the
// achievement tracker.
func (e *Engine) recordSolved(puzzleID string, m *engine.Machine) {
	st := m.State()
	st.Progress.CompletedPuzzles = append(st.Progress.CompletedPuzzles, puzzleID)
	st.Progress.Stats.PuzzlesSolved++
	m.Tracker().TrackEvent(achievement.TriggerPuzzleSolved, puzzleID, m.TrackerState())
}

func (e *Engine) findPuzzle(id string) *Puzzle {
	for _, p := range e.puzzles {
		if p.ID == id {
			return p
		}
	}
	return nil
}
