package engine

import "strings"

// The methods below make Machine satisfy rules.View, the read-only window
// puzzle predicates evaluate against.

// Location returns the player's current room id.
func (m *Machine) Location() string {
	return m.state.Player.Location
}

// AllRoomsVisited reports whether every room in the world has been entered.
func (m *Machine) AllRoomsVisited() bool {
	for _, room := range m.state.World.Rooms {
		if !room.Visited {
			return false
		}
	}
	return true
}

// HoldingLitLight reports whether a carried light source is in the "lit"
// state.
func (m *Machine) HoldingLitLight() bool {
	for _, item := range m.state.Player.Inventory.Items {
		if item.Type == ObjectLight && item.State.CurrentState == "lit" {
			return true
		}
	}
	return false
}

// CurrentRoomDark reports whether the current room's light level is "dark".
func (m *Machine) CurrentRoomDark() bool {
	room, err := m.CurrentRoom()
	if err != nil {
		return false
	}
	return strings.EqualFold(room.LightLevel, "dark")
}
