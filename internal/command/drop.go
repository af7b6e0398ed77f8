package command

import (
	"fmt"
	"strings"

	"github.com/suderio/fable/internal/engine"
)

// DropHandler moves a carried item back into the current room's visible
// objects.
type DropHandler struct {
	Puzzles Puzzles
}

func (h *DropHandler) Verb() string { return "drop" }

func (h *DropHandler) Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation {
	if strings.TrimSpace(cmd.Object) == "" {
		return Invalid("Drop what?")
	}
	if m.State().Player.Inventory.Find(cmd.Object) == nil {
		return Invalid(fmt.Sprintf("You're not carrying any %q.", cmd.Object))
	}
	return Valid()
}

func (h *DropHandler) Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	inv := &m.State().Player.Inventory
	obj := inv.Find(cmd.Object)
	if obj == nil {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("You're not carrying any %q.", cmd.Object)), nil
	}

	stepRes, matched := attemptPuzzles(h.Puzzles, cmd, m)

	room, err := m.CurrentRoom()
	if err != nil {
		return engine.CommandResult{}, err
	}
	inv.Remove(obj.ID)
	addVisible(room, obj.ID)
	obj.IsVisible = true

	msg := fmt.Sprintf("You drop the %s.", obj.Name)
	if matched {
		msg = stepRes.Message
		if stepRes.PuzzleCompleted && stepRes.CompletionMessage != "" {
			msg += "\n" + stepRes.CompletionMessage
		}
	}
	result := engine.Successf(msg)
	result.Delta = &engine.StateDelta{ItemsRemoved: []string{obj.ID}}
	return result, nil
}
