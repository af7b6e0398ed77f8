package command

import (
	"fmt"
	"strings"

	"github.com/suderio/fable/internal/achievement"
	"github.com/suderio/fable/internal/engine"
)

// TakeHandler moves a visible, collectable object from the room into the
// inventory, subject to the weight capacity.
type TakeHandler struct {
	Puzzles Puzzles
}

func (h *TakeHandler) Verb() string { return "take" }

func (h *TakeHandler) Validate(cmd engine.ParsedCommand, m *engine.Machine) Validation {
	if strings.TrimSpace(cmd.Object) == "" {
		return Invalid("Take what?")
	}
	obj := m.FindVisibleObject(cmd.Object)
	if obj == nil {
		return Invalid(fmt.Sprintf("You don't see any %q here.", cmd.Object))
	}
	if !obj.Collectable {
		return Invalid(fmt.Sprintf("You can't take the %s.", obj.Name))
	}
	if !m.State().Player.Inventory.CanAdd(obj) {
		return Invalid(fmt.Sprintf("You're carrying too much to pick up the %s.", obj.Name))
	}
	return Valid()
}

func (h *TakeHandler) Execute(cmd engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	obj := m.FindVisibleObject(cmd.Object)
	if obj == nil {
		return engine.Failure(engine.ResultFailure, fmt.Sprintf("You don't see any %q here.", cmd.Object)), nil
	}

	stepRes, matched := attemptPuzzles(h.Puzzles, cmd, m)

	// The inventory/visibility mutation applies on both the puzzle and the
	// standard path so the two flows stay state-consistent.
	room, err := m.CurrentRoom()
	if err != nil {
		return engine.CommandResult{}, err
	}
	if err := m.State().Player.Inventory.Add(obj); err != nil {
		return engine.Failure(engine.ResultFailure, err.Error()), nil
	}
	removeVisible(room, obj.ID)
	obj.IsVisible = false
	m.State().Progress.Stats.ItemsCollected++
	m.Tracker().TrackEvent(achievement.TriggerItemCollected, obj.ID, m.TrackerState())

	msg := fmt.Sprintf("You take the %s.", obj.Name)
	if matched {
		msg = stepRes.Message
		if stepRes.PuzzleCompleted && stepRes.CompletionMessage != "" {
			msg += "\n" + stepRes.CompletionMessage
		}
	}
	result := engine.Successf(msg)
	result.Delta = &engine.StateDelta{ItemsAdded: []string{obj.ID}}
	return result, nil
}
