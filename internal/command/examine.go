package command

import (
	"fmt"
	"strings"

	"github.com/suderio/fable/internal/engine"
)

// ExamineHandler describes an object: the declared examine message or the
// base description, plus derived state commentary. Room objects win over
// inventory items on an id collision.
type ExamineHandler struct {
	Puzzles Puzzles
}

func (h *ExamineHandler) Verb() string { return "examine" }

func (h *ExamineHandler) Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation {
	if strings.TrimSpace(cmd.Object) == "" {
		return Invalid("Examine what?")
	}
	if obj, _ := resolveTarget(cmd.Object, m, true); obj == nil {
		return Invalid(fmt.Sprintf("You don't see any %q here.", cmd.Object))
	}
	return Valid()
}

func (h *ExamineHandler) Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	obj, _ := resolveTarget(cmd.Object, m, true)
	if obj == nil {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("You don't see any %q here.", cmd.Object)), nil
	}

	if stepRes, matched := attemptPuzzles(h.Puzzles, cmd, m); matched {
		msg := stepRes.Message
		if stepRes.PuzzleCompleted && stepRes.CompletionMessage != "" {
			msg += "\n" + stepRes.CompletionMessage
		}
		return engine.Successf(msg), nil
	}

	var b strings.Builder
	if action := obj.Action("examine"); action != nil && action.SuccessMessage != "" {
		b.WriteString(action.SuccessMessage)
	} else {
		b.WriteString(obj.Description)
	}

	switch {
	case obj.Type == engine.ObjectContainer:
		if obj.Flag("is_open") {
			b.WriteString("\nIt is open.")
		} else {
			b.WriteString("\nIt is closed.")
		}
	case obj.Type == engine.ObjectLight && obj.State.CurrentState == "lit":
		b.WriteString("\nIt is lit, casting a warm glow.")
	default:
		if s := obj.State.CurrentState; s != "" && s != "default" {
			fmt.Fprintf(&b, "\nIt is %s.", s)
		}
	}
	return engine.Successf(b.String()), nil
}
