package engine

import "fmt"

// ChangeKind enumerates the closed set of deferred mutations an action may
// declare. Unknown kinds are rejected at story-pack load time, so a typo in
// pack data is a load error rather than a silent no-op at play time.
type ChangeKind string

const (
	ChangeSetFlag        ChangeKind = "set_flag"
	ChangeSetState       ChangeKind = "set_state"
	ChangeSetDescription ChangeKind = "set_description"
	ChangeSetLightLevel  ChangeKind = "set_light_level"
	ChangeSetVisibility  ChangeKind = "set_visibility"
	ChangeRevealContents ChangeKind = "reveal_contents"
)

// Target selectors understood by StateChange. Anything else is taken as an
// explicit object id.
const (
	TargetSelf = "self"
	TargetRoom = "room"
)

// StateChange is a declarative mutation applied after a successful action.
// Target is "self", "room", or an explicit object id; the Kind picks which
// typed field is meaningful.
type StateChange struct {
	Kind   ChangeKind `json:"kind" yaml:"kind"`
	Target string     `json:"target" yaml:"target"`

	Flag        string `json:"flag,omitempty" yaml:"flag,omitempty"`
	BoolValue   bool   `json:"bool_value,omitempty" yaml:"bool_value,omitempty"`
	StringValue string `json:"string_value,omitempty" yaml:"string_value,omitempty"`
}

// KnownChangeKind reports whether k is one of the supported mutation kinds.
func KnownChangeKind(k ChangeKind) bool {
	switch k {
	case ChangeSetFlag, ChangeSetState, ChangeSetDescription,
		ChangeSetLightLevel, ChangeSetVisibility, ChangeRevealContents:
		return true
	}
	return false
}

// ApplyChange resolves the change target against the live state and applies
// the mutation. The self object is the object whose action declared the
// change. Applying to a missing target is an error so pack bugs surface
// during play testing instead of silently dropping effects.
func (m *Machine) ApplyChange(change StateChange, self *GameObject) error {
	switch change.Target {
	case TargetRoom:
		room, err := m.CurrentRoom()
		if err != nil {
			return err
		}
		return applyRoomChange(change, room)
	case TargetSelf, "":
		if self == nil {
			return fmt.Errorf("state change targets self but no object is in scope")
		}
		return m.applyObjectChange(change, self)
	default:
		obj, ok := m.state.World.Objects[change.Target]
		if !ok {
			return fmt.Errorf("state change target %q not found", change.Target)
		}
		return m.applyObjectChange(change, obj)
	}
}

func applyRoomChange(change StateChange, room *Room) error {
	switch change.Kind {
	case ChangeSetFlag:
		if room.State.Flags == nil {
			room.State.Flags = make(map[string]bool)
		}
		room.State.Flags[change.Flag] = change.BoolValue
		if change.Flag == "locked" {
			room.State.Locked = change.BoolValue
		}
	case ChangeSetDescription:
		room.Description = change.StringValue
	case ChangeSetLightLevel:
		room.LightLevel = change.StringValue
	default:
		return fmt.Errorf("change kind %q cannot target a room", change.Kind)
	}
	return nil
}

func (m *Machine) applyObjectChange(change StateChange, obj *GameObject) error {
	switch change.Kind {
	case ChangeSetFlag:
		obj.SetFlag(change.Flag, change.BoolValue)
	case ChangeSetState:
		obj.State.CurrentState = change.StringValue
	case ChangeSetDescription:
		obj.Description = change.StringValue
	case ChangeSetVisibility:
		obj.IsVisible = change.BoolValue
	case ChangeRevealContents:
		m.RevealContents(obj)
	default:
		return fmt.Errorf("change kind %q cannot target an object", change.Kind)
	}
	return nil
}
