package command

import (
	"fmt"
	"strings"

	"github.com/suderio/fable/internal/engine"
)

// UseHandler applies an object's declared "use" action: flag gates, state
// changes, consumption, and the global puzzle completion check.
type UseHandler struct {
	Puzzles Puzzles
}

func (h *UseHandler) Verb() string { return "use" }

func (h *UseHandler) Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation {
	if strings.TrimSpace(cmd.Object) == "" {
		return Invalid("Use what?")
	}
	obj, _ := resolveInventoryFirst(cmd.Object, m)
	if obj == nil {
		return Invalid(fmt.Sprintf("You don't have or see any %q.", cmd.Object))
	}
	if obj.Action("use") == nil {
		return Invalid(fmt.Sprintf("You can't think of a way to use the %s.", obj.Name))
	}
	return Valid()
}

func (h *UseHandler) Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	obj, fromInventory := resolveInventoryFirst(cmd.Object, m)
	if obj == nil {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("You don't have or see any %q.", cmd.Object)), nil
	}
	action := obj.Action("use")
	if action == nil {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("You can't think of a way to use the %s.", obj.Name)), nil
	}

	for _, flag := range action.RequiredFlags {
		if !m.StoryFlag(flag) {
			msg := action.FailureMessage
			if msg == "" {
				msg = fmt.Sprintf("Nothing happens when you use the %s.", obj.Name)
			}
			return engine.Failure(engine.ResultRequirementsNotMet, msg), nil
		}
	}

	var msg string
	if stepRes, matched := attemptPuzzles(h.Puzzles, cmd, m); matched {
		msg = stepRes.Message
		if stepRes.PuzzleCompleted && stepRes.CompletionMessage != "" {
			msg += "\n" + stepRes.CompletionMessage
		}
	} else {
		for _, change := range action.Changes {
			if err := m.ApplyChange(change, obj); err != nil {
				return engine.CommandResult{}, err
			}
		}
		msg = action.SuccessMessage
		if msg == "" {
			msg = fmt.Sprintf("You use the %s.", obj.Name)
		}
	}

	// The global completion scan is distinct from per-command step
	// matching: a use can satisfy a standing predicate (a lit lamp in a
	// dark room) without matching any declared step.
	global, err := h.Puzzles.CheckGlobalCompletion(m)
	if err != nil {
		return engine.CommandResult{}, err
	}
	if global.Completed && global.CompletionMessage != "" {
		msg += "\n" + global.CompletionMessage
	}

	delta := &engine.StateDelta{}
	if action.ConsumesItem && fromInventory {
		m.State().Player.Inventory.Remove(obj.ID)
		delta.ItemsRemoved = []string{obj.ID}
	} else {
		obj.State.UseCount++
	}

	result := engine.Successf(msg)
	result.Delta = delta
	return result, nil
}
