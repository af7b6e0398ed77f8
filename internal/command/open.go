package command

import (
	"fmt"
	"strings"

	"github.com/suderio/fable/internal/engine"
)

// OpenHandler opens doors and containers. Opening a container reveals its
// declared contents into the room.
type OpenHandler struct {
	Puzzles Puzzles
}

func (h *OpenHandler) Verb() string { return "open" }

func (h *OpenHandler) Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation {
	return validateOpenClose("open", cmd, m)
}

// validateOpenClose shares the structural checks of both verbs: the target
// must be visible, be a door or container, and declare the verb.
func validateOpenClose(verb string, cmd engine.ParsedCommand, m *engine.Machine) Validation {
	if strings.TrimSpace(cmd.Object) == "" {
		return Invalid(fmt.Sprintf("%s what?", strings.ToUpper(verb[:1])+verb[1:]))
	}
	obj := m.FindVisibleObject(cmd.Object)
	if obj == nil {
		return Invalid(fmt.Sprintf("You don't see any %q here.", cmd.Object))
	}
	if obj.Type != engine.ObjectDoor && obj.Type != engine.ObjectContainer {
		return Invalid(fmt.Sprintf("You can't %s the %s.", verb, obj.Name))
	}
	if obj.Action(verb) == nil {
		return Invalid(fmt.Sprintf("The %s doesn't %s.", obj.Name, verb))
	}
	return Validation{Valid: true}
}

func (h *OpenHandler) Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	obj := m.FindVisibleObject(cmd.Object)
	if obj == nil {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("You don't see any %q here.", cmd.Object)), nil
	}
	action := obj.Action("open")

	if obj.Flag("is_open") {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("The %s is already open.", obj.Name)), nil
	}
	if obj.Flag("is_locked") {
		msg := action.FailureMessage
		if msg == "" {
			msg = fmt.Sprintf("The %s is locked.", obj.Name)
		}
		return engine.Failure(engine.ResultRequirementsNotMet, msg), nil
	}

	stepRes, matched := attemptPuzzles(h.Puzzles, cmd, m)

	// Opening mutates state the same way on both paths.
	obj.SetFlag("is_open", true)
	obj.State.CurrentState = "open"
	for _, change := range action.Changes {
		if err := m.ApplyChange(change, obj); err != nil {
			return engine.CommandResult{}, err
		}
	}
	revealed := m.RevealContents(obj)

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
		msg = fmt.Sprintf("You open the %s.", obj.Name)
	}
	if len(revealed) > 0 {
		msg += fmt.Sprintf("\nInside you find: %s.", strings.Join(revealed, ", "))
	}
	return engine.Successf(msg), nil
}
