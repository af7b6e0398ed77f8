package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/suderio/fable/internal/engine"
)

// directionSynonyms normalizes shorthand and elaborated forms to the
// canonical exit directions.
var directionSynonyms = map[string]string{
	"n": "north", "s": "south", "e": "east", "w": "west",
	"ne": "northeast", "nw": "northwest", "se": "southeast", "sw": "southwest",
	"u": "up", "upstairs": "up",
	"d": "down", "downstairs": "down",
	"enter": "in", "inside": "in",
	"exit": "out", "outside": "out",
}

// NormalizeDirection lowercases and resolves direction synonyms.
func NormalizeDirection(dir string) string {
	d := strings.ToLower(strings.TrimSpace(dir))
	if canonical, ok := directionSynonyms[d]; ok {
		return canonical
	}
	return d
}

// MoveHandler implements go/move: room transitions through the state
// machine's exit and lock rules.
type MoveHandler struct{}

func (h *MoveHandler) Verb() string { return "go" }

func (h *MoveHandler) Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation {
	if strings.TrimSpace(cmd.Object) == "" {
		return Invalid("Which direction? Try 'go north'.")
	}
	return Valid()
}

func (h *MoveHandler) Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	room, err := m.CurrentRoom()
	if err != nil {
		return engine.CommandResult{}, err
	}

	dir := NormalizeDirection(cmd.Object)
	targetID, ok := room.Exits[dir]
	if !ok {
		return engine.Failure(engine.ResultFailure,
			fmt.Sprintf("You can't go %s. Exits: %s.", dir, strings.Join(sortedExits(room), ", "))), nil
	}

	if err := m.TransitionTo(targetID); err != nil {
		if errors.Is(err, engine.ErrTransitionBlocked) {
			return engine.Failure(engine.ResultRequirementsNotMet,
				fmt.Sprintf("The way %s is blocked or locked.", dir)), nil
		}
		return engine.CommandResult{}, err
	}

	view, err := DescribeRoom(m)
	if err != nil {
		return engine.CommandResult{}, err
	}
	result := engine.Successf(view)
	result.Delta = &engine.StateDelta{LocationChanged: targetID}
	return result, nil
}
