// Package session manages the cohesive loop of taking player input,
// parsing it, routing the command, and recording the transcript. The
// engine itself is single-threaded and turn-at-a-time; the session's
// mutex is what serializes access when a UI thread and a background
// worker share one game.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suderio/fable/internal/achievement"
	"github.com/suderio/fable/internal/command"
	"github.com/suderio/fable/internal/data"
	"github.com/suderio/fable/internal/engine"
	"github.com/suderio/fable/internal/parser"
	"github.com/suderio/fable/internal/persistence"
	"github.com/suderio/fable/internal/puzzle"
	"github.com/suderio/fable/internal/rules"
)

// Store is the dependency the session persists transcript records to.
// persistence.Transcript satisfies it.
type Store interface {
	Append(rec persistence.Record) error
	Close() error
}

// Session owns one running game: state machine, puzzle engine, router,
// parser, and transcript. One command is fully validated, executed, and
// logged before the next is accepted.
type Session struct {
	mu sync.Mutex

	id      string
	machine *engine.Machine
	puzzles command.Puzzles
	router  *command.Router
	parser  *parser.Parser
	store   Store
	tracker achievement.Tracker
	log     zerolog.Logger
}

// Options configure a new session.
type Options struct {
	// PackName selects the story pack within the loader's directories.
	PackName string
	// Store receives transcript records; nil disables the transcript.
	Store Store
	// Logger is the diagnostic logger; the zero value is silent.
	Logger zerolog.Logger
	// DisableAchievements swaps in the no-op tracker.
	DisableAchievements bool
	// MaxCapacity overrides the pack's inventory capacity when positive.
	MaxCapacity float64
}

// New bootstraps a session from a story pack: load and validate the pack,
// materialize a fresh GameState, and wire the puzzle engine and router.
func New(loader *data.Loader, opts Options) (*Session, error) {
	pack, err := loader.LoadPack(opts.PackName)
	if err != nil {
		return nil, fmt.Errorf("failed to load story pack: %w", err)
	}

	var tracker achievement.Tracker = achievement.Nop{}
	if !opts.DisableAchievements {
		tracker = achievement.NewRegistry(pack.Achievements)
	}

	template := pack.StoryPack()
	if opts.MaxCapacity > 0 {
		template.MaxCapacity = opts.MaxCapacity
	}
	machine, err := engine.NewMachine(template,
		engine.WithTracker(tracker),
		engine.WithLogger(opts.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize game state: %w", err)
	}

	var puzzles command.Puzzles = command.NopPuzzles{}
	if len(pack.Puzzles) > 0 || len(pack.GlobalPuzzles) > 0 {
		reg, err := rules.NewRegistry(machine)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rules registry: %w", err)
		}
		puzzles = puzzle.NewEngine(pack.Puzzles, pack.GlobalPuzzles, reg)
	}

	router := command.NewRouter(opts.Logger, command.DefaultHandlers(puzzles)...)

	return &Session{
		id:      uuid.NewString(),
		machine: machine,
		puzzles: puzzles,
		router:  router,
		parser:  parser.New(),
		store:   opts.Store,
		tracker: tracker,
		log:     opts.Logger,
	}, nil
}

// ID returns the session identifier used in transcript records.
func (s *Session) ID() string { return s.id }

// Execute takes one raw input line, parses it, routes the command, and
// appends the outcome to the transcript. The whole aggregate is guarded by
// one lock because handlers touch player, world, and progress together as
// one logical transaction.
func (s *Session) Execute(input string) engine.CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd := s.parser.Parse(input)
	result := s.router.Dispatch(cmd, s.machine)

	if s.store != nil {
		rec := persistence.Record{
			Session: s.id,
			Turn:    s.machine.State().World.TurnNumber,
			Input:   input,
			Result:  result,
			At:      time.Now(),
		}
		if err := s.store.Append(rec); err != nil {
			s.log.Error().Err(err).Msg("failed to persist transcript record")
		}
	}
	return result
}

// State exposes the live aggregate for the presentation layer. Callers
// must not mutate it; commands go through Execute.
func (s *Session) State() *engine.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

// Opening returns the initial room view shown before the first command.
func (s *Session) Opening() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, err := command.DescribeRoom(s.machine)
	if err != nil {
		return ""
	}
	return view
}

// Verbs lists the registered command verbs for autocomplete.
func (s *Session) Verbs() []string {
	return s.router.Verbs()
}

// Close releases the transcript store.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
