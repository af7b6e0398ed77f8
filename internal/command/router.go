package command

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/suderio/fable/internal/achievement"
	"github.com/suderio/fable/internal/engine"
)

// Router is the single entry point that turns a ParsedCommand into a
// CommandResult, independent of verb. Handlers are registered one per verb
// at construction; duplicate verbs overwrite, case-insensitively.
type Router struct {
	handlers map[string]Handler
	log      zerolog.Logger
}

// NewRouter registers the given handlers and the standard verb set bound
// to the puzzle collaborator.
func NewRouter(log zerolog.Logger, handlers ...Handler) *Router {
	r := &Router{
		handlers: make(map[string]Handler),
		log:      log,
	}
	for _, h := range handlers {
		r.Register(h)
	}
	return r
}

// DefaultHandlers returns the built-in verb set wired to the given puzzle
// collaborator.
func DefaultHandlers(puzzles Puzzles) []Handler {
	return []Handler{
		&MoveHandler{},
		&TakeHandler{Puzzles: puzzles},
		&DropHandler{Puzzles: puzzles},
		&UseHandler{Puzzles: puzzles},
		&OpenHandler{Puzzles: puzzles},
		&CloseHandler{Puzzles: puzzles},
		&ExamineHandler{Puzzles: puzzles},
		&LookHandler{},
		&InventoryHandler{},
	}
}

// Register adds a handler for its declared verb, overwriting any previous
// registration.
func (r *Router) Register(h Handler) {
	r.handlers[strings.ToLower(h.Verb())] = h
}

// Verbs lists the registered verbs (for autocomplete and help).
func (r *Router) Verbs() []string {
	verbs := make([]string, 0, len(r.handlers))
	for v := range r.handlers {
		verbs = append(verbs, v)
	}
	return verbs
}

// Dispatch routes one command: handler lookup, validate, execute, counter
// and narrative bookkeeping. Routing has no retry; a failed validation or
// a handler error is terminal for this command and the player re-submits.
func (r *Router) Dispatch(cmd engine.ParsedCommand, m *engine.Machine) engine.CommandResult {
	handler, ok := r.handlers[strings.ToLower(cmd.Verb)]
	if !ok {
		return engine.Failure(engine.ResultInvalidCommand,
			fmt.Sprintf("I don't understand %q. Try 'look' to get your bearings.", cmd.Raw))
	}

	if v := handler.Validate(cmd, m); !v.Valid {
		return engine.Failure(engine.ResultRequirementsNotMet, v.Message)
	}

	turnBefore := m.State().World.TurnNumber
	result, err := r.execute(handler, cmd, m)
	if err != nil {
		// Handler errors are bugs, not gameplay outcomes. Surface a
		// graceful message and keep the session alive.
		r.log.Error().Err(err).Str("verb", cmd.Verb).Str("raw", cmd.Raw).Msg("handler failed")
		return engine.Failure(engine.ResultFailure, err.Error())
	}

	state := m.State()
	state.Progress.Stats.CommandsIssued++
	if state.World.TurnNumber == turnBefore {
		// Some handlers (move) advance the turn inside the state machine;
		// everything else is advanced here so each routed command counts
		// exactly once.
		state.World.TurnNumber++
	}
	m.Tracker().TrackEvent(achievement.TriggerCommandIssued, cmd.Verb, m.TrackerState())

	m.AddNarrativeEntry(cmd.Raw, engine.NarrativePlayerCommand, false)
	entryType := engine.NarrativeSuccess
	if !result.Success {
		entryType = engine.NarrativeFailure
	}
	m.AddNarrativeEntry(result.Message, entryType, !result.Success)

	return result
}

// execute runs the handler with a recover boundary: a panicking handler
// must not take the session down.
func (r *Router) execute(h Handler, cmd engine.ParsedCommand, m *engine.Machine) (result engine.CommandResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("command %q failed: %v", cmd.Verb, rec)
		}
	}()
	return h.Execute(cmd, m)
}
