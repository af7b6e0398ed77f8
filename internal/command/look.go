package command

import (
	"github.com/suderio/fable/internal/engine"
)

// LookHandler re-describes the current room. It is always valid and
// idempotent: repeated looks with no intervening mutation produce the same
// listing.
type LookHandler struct{}

func (h *LookHandler) Verb() string { return "look" }

func (h *LookHandler) Validate(engine.ParsedCommand, *engine.Machine) Validation {
	return Valid()
}

func (h *LookHandler) Execute(_ engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	view, err := DescribeRoom(m)
	if err != nil {
		return engine.CommandResult{}, err
	}
	return engine.Successf(view), nil
}

// InventoryHandler lists carried items. Always valid.
type InventoryHandler struct{}

func (h *InventoryHandler) Verb() string { return "inventory" }

func (h *InventoryHandler) Validate(engine.ParsedCommand, *engine.Machine) Validation {
	return Valid()
}

func (h *InventoryHandler) Execute(_ engine.ParsedCommand, m *engine.Machine) (engine.CommandResult, error) {
	return engine.Successf(m.State().Player.Inventory.Describe()), nil
}
