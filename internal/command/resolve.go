package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suderio/fable/internal/engine"
)

// resolveTarget finds the object a command refers to, preferring a match
// among the room's visible objects. When withInventory is set (drop,
// examine, use resolve carried items too) the inventory is searched as a
// fallback; the returned flag reports whether the match came from there.
func resolveTarget(identifier string, m *engine.Machine, withInventory bool) (*engine.GameObject, bool) {
	if obj := m.FindVisibleObject(identifier); obj != nil {
		return obj, false
	}
	if withInventory {
		if obj := m.State().Player.Inventory.Find(identifier); obj != nil {
			return obj, true
		}
	}
	return nil, false
}

// resolveInventoryFirst is the use-handler order: carried items win over
// room objects.
func resolveInventoryFirst(identifier string, m *engine.Machine) (*engine.GameObject, bool) {
	if obj := m.State().Player.Inventory.Find(identifier); obj != nil {
		return obj, true
	}
	if obj := m.FindVisibleObject(identifier); obj != nil {
		return obj, false
	}
	return nil, false
}

// sortedExits lists a room's exit directions in stable order.
func sortedExits(room *engine.Room) []string {
	dirs := make([]string, 0, len(room.Exits))
	for dir := range room.Exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// DescribeRoom renders the canonical room view: description, visible
// object names, exit list. Look and move share it so their output stays
// consistent.
func DescribeRoom(m *engine.Machine) (string, error) {
	room, err := m.CurrentRoom()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(room.Description)

	visible := m.VisibleObjects()
	if len(visible) > 0 {
		names := make([]string, 0, len(visible))
		for _, obj := range visible {
			names = append(names, obj.Name)
		}
		fmt.Fprintf(&b, "\n\nYou see: %s.", strings.Join(names, ", "))
	}

	if exits := sortedExits(room); len(exits) > 0 {
		fmt.Fprintf(&b, "\nExits: %s.", strings.Join(exits, ", "))
	} else {
		b.WriteString("\nThere are no obvious exits.")
	}
	return b.String(), nil
}

// removeVisible deletes an object id from the room's visible list.
func removeVisible(room *engine.Room, id string) {
	for i, v := range room.State.VisibleObjects {
		if v == id {
			room.State.VisibleObjects = append(room.State.VisibleObjects[:i], room.State.VisibleObjects[i+1:]...)
			return
		}
	}
}

// addVisible appends an object id to the room's visible list if absent.
func addVisible(room *engine.Room, id string) {
	for _, v := range room.State.VisibleObjects {
		if v == id {
			return
		}
	}
	room.State.VisibleObjects = append(room.State.VisibleObjects, id)
}
