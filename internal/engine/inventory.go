package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTooHeavy is returned when adding an item would exceed capacity.
var ErrTooHeavy = errors.New("carrying too much weight")

// CanAdd reports whether the item fits within the remaining capacity.
func (inv *Inventory) CanAdd(item *GameObject) bool {
	return inv.TotalWeight+item.Weight <= inv.MaxCapacity
}

// Add appends the item and updates the running weight. The mutation is
// transactional: a capacity failure leaves both the list and the weight
// untouched.
func (inv *Inventory) Add(item *GameObject) error {
	if !inv.CanAdd(item) {
		return fmt.Errorf("%w: %s weighs %.1f, only %.1f capacity left",
			ErrTooHeavy, item.Name, item.Weight, inv.MaxCapacity-inv.TotalWeight)
	}
	inv.Items = append(inv.Items, item)
	inv.TotalWeight += item.Weight
	return nil
}

// Remove deletes the item with the exact id, preserving insertion order of
// the remainder, and returns the removed object.
func (inv *Inventory) Remove(itemID string) (*GameObject, bool) {
	for i, item := range inv.Items {
		if item.ID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			inv.TotalWeight -= item.Weight
			return item, true
		}
	}
	return nil, false
}

// Find resolves an identifier against carried items: exact id first, then
// case-insensitive substring in both directions on id and name. The order
// mirrors the state machine's object resolution so identification behaves
// the same in room and inventory contexts.
func (inv *Inventory) Find(identifier string) *GameObject {
	return matchObject(identifier, inv.Items)
}

// Names lists carried item names in display order.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.Items))
	for _, item := range inv.Items {
		names = append(names, item.Name)
	}
	return names
}

// Describe renders the inventory line shown to the player.
func (inv *Inventory) Describe() string {
	if len(inv.Items) == 0 {
		return "You are not carrying anything."
	}
	return fmt.Sprintf("You are carrying: %s. (%.1f/%.1f kg)",
		strings.Join(inv.Names(), ", "), inv.TotalWeight, inv.MaxCapacity)
}
