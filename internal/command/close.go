package command

import (
	"fmt"

	"github.com/suderio/fable/internal/engine"
)

// CloseHandler closes doors and containers. An object with no is_open flag
// at all counts as already closed, not as an error.
type CloseHandler struct {
	Puzzles Puzzles
}

func (h *CloseHandler) Verb() string { return "close" }

func (h *CloseHandler) Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation {
	return validateOpenClose("close", cmd, m)
}

func (h *CloseHandler) Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	obj := m.FindVisibleObject(cmd.Object)
	if obj == nil {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("You don't see any %q here.", cmd.Object)), nil
	}
	action := obj.Action("close")

	if !obj.Flag("is_open") {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("The %s is already closed.", obj.Name)), nil
	}

	stepRes, matched := attemptPuzzles(h.Puzzles, cmd, m)

	obj.SetFlag("is_open", false)
	obj.State.CurrentState = "closed"
	for _, change := range action.Changes {
		if err := m.ApplyChange(change, obj); err != nil {
			return engine.CommandResult{}, err
		}
	}

	var msg string
	switch {
	case matched:
		msg = stepRes.Message
		if stepRes.PuzzleCompleted && stepRes.CompletionMessage != "" {
			msg += "\n" + stepRes.CompletionMessage
		}
	case action.SuccessMessage != "":
		msg = action.SuccessMessage
	default:
		msg = fmt.Sprintf("You close the %s.", obj.Name)
	}
	return engine.Successf(msg), nil
}
