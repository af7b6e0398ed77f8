package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suderio/fable/internal/data"
	"github.com/suderio/fable/internal/engine"
	"github.com/suderio/fable/internal/persistence"
)

const testPackYAML = `
theme_id: cellar
name: The Forgotten Cellar
author: Paulo Suderio
starting_room: cellar
max_capacity: 20
rooms:
  - id: cellar
    description: A damp cellar.
    exits:
      up: kitchen
    objects: [lantern]
  - id: kitchen
    description: A cold kitchen.
    exits:
      down: cellar
objects:
  lantern:
    name: lantern
    type: light
    collectable: true
    weight: 2
    actions:
      use:
        success_message: The lantern flares to life.
        changes:
          - kind: set_state
            target: self
            string_value: lit
global_puzzles:
  - id: light-the-dark
    condition: has_item("lantern") && flag("lantern_lit")
    completion_message: You will never fear the dark again.
puzzles:
  - id: lighting
    sequential: true
    steps:
      - id: lift
        verb: take
        object: lantern
        sets_flag: lantern_held
        message: You lift the lantern from its hook.
      - id: light
        verb: use
        object: lantern
        required_flags: [lantern_held]
        sets_flag: lantern_lit
        message: The wick catches.
    completion_flag: lantern_mastered
    completion_message: The lantern is yours now.
`

func testLoader(t *testing.T) *data.Loader {
	t.Helper()
	dir := t.TempDir()
	packsDir := filepath.Join(dir, "packs")
	if err := os.MkdirAll(packsDir, 0755); err != nil {
		t.Fatalf("failed to create packs dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(packsDir, "cellar.yaml"), []byte(testPackYAML), 0644); err != nil {
		t.Fatalf("failed to write pack: %v", err)
	}
	return data.NewLoader([]string{dir})
}

func TestNewSessionBootstrap(t *testing.T) {
	s, err := New(testLoader(t), Options{PackName: "cellar"})
	assert.NoError(t, err)
	defer s.Close()

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "cellar", s.State().Player.Location)
	assert.Contains(t, s.Verbs(), "go")

	_, err = New(testLoader(t), Options{PackName: "missing"})
	assert.Error(t, err)
}

func TestOpeningDoesNotConsumeTurn(t *testing.T) {
	s, err := New(testLoader(t), Options{PackName: "cellar"})
	assert.NoError(t, err)
	defer s.Close()

	opening := s.Opening()
	assert.Contains(t, opening, "A damp cellar.")
	assert.Contains(t, opening, "You see: lantern.")
	assert.Equal(t, 0, s.State().World.TurnNumber)
	assert.Equal(t, 0, s.State().Progress.Stats.CommandsIssued)
}

func TestExecuteFullFlow(t *testing.T) {
	s, err := New(testLoader(t), Options{PackName: "cellar"})
	assert.NoError(t, err)
	defer s.Close()

	res := s.Execute("take the lantern")
	assert.True(t, res.Success)
	assert.Equal(t, "You lift the lantern from its hook.", res.Message)
	assert.Equal(t, 1, s.State().World.TurnNumber)

	res = s.Execute("use lantern")
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "The wick catches.")
	assert.Contains(t, res.Message, "The lantern is yours now.")
	assert.Contains(t, res.Message, "You will never fear the dark again.")
	assert.Equal(t, 2, s.State().Progress.Stats.PuzzlesSolved)

	res = s.Execute("go up")
	assert.True(t, res.Success)
	assert.Equal(t, "kitchen", s.State().Player.Location)
	assert.Equal(t, 3, s.State().World.TurnNumber)
}

func TestExecuteRejectsNonsense(t *testing.T) {
	s, err := New(testLoader(t), Options{PackName: "cellar"})
	assert.NoError(t, err)
	defer s.Close()

	res := s.Execute("flibber the wobble")
	assert.False(t, res.Success)
	assert.Equal(t, engine.ResultInvalidCommand, res.Type)
	assert.Equal(t, 0, s.State().World.TurnNumber)
}

func TestExecuteWritesTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.jsonl")
	store, err := persistence.NewTranscript(path)
	assert.NoError(t, err)

	s, err := New(testLoader(t), Options{PackName: "cellar", Store: store})
	assert.NoError(t, err)

	s.Execute("look")
	s.Execute("take lantern")

	records, err := store.Load()
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, s.ID(), records[0].Session)
	assert.Equal(t, "look", records[0].Input)
	assert.Equal(t, "take lantern", records[1].Input)
	assert.True(t, records[1].Result.Success)

	assert.NoError(t, s.Close())
}

func TestMaxCapacityOverride(t *testing.T) {
	s, err := New(testLoader(t), Options{PackName: "cellar", MaxCapacity: 1})
	assert.NoError(t, err)
	defer s.Close()

	res := s.Execute("take lantern")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "carrying too much")
}
