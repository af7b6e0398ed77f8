// Package achievement provides the narrow event-tracking collaborator the
// engine reports progress to. The engine never depends on tracking being
// enabled: when achievements are off, the no-op implementation is injected
// and every call site stays unconditional.
package achievement

import "time"

// TriggerType names the engine events a definition can react to.
type TriggerType string

const (
	TriggerRoomVisited   TriggerType = "room_visited"
	TriggerItemCollected TriggerType = "item_collected"
	TriggerPuzzleSolved  TriggerType = "puzzle_solved"
	TriggerCommandIssued TriggerType = "command_issued"
)

// Counters is the projection of session progress the tracker evaluates
// thresholds against.
type Counters struct {
	RoomsExplored  int
	ItemsCollected int
	PuzzlesSolved  int
	CommandsIssued int
}

// Definition describes one unlockable achievement from a story pack:
// a trigger, an optional specific target id, and a counter threshold.
type Definition struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Trigger     TriggerType `yaml:"trigger"`
	TargetID    string      `yaml:"target_id"`
	Threshold   int         `yaml:"threshold"`
}

// Unlocked records one achievement unlock.
type Unlocked struct {
	ID         string
	Name       string
	UnlockedAt time.Time
}

// Tracker is the collaborator contract. TrackEvent returns the
// achievements newly unlocked by this event, if any.
type Tracker interface {
	TrackEvent(trigger TriggerType, targetID string, counters Counters) []Unlocked
}

// Nop is the disabled-tracking implementation.
type Nop struct{}

// TrackEvent never unlocks anything.
func (Nop) TrackEvent(TriggerType, string, Counters) []Unlocked { return nil }

// Registry evaluates story-pack achievement definitions against engine
// events. Each definition unlocks at most once.
type Registry struct {
	defs     []Definition
	unlocked map[string]bool
}

// NewRegistry builds a tracker over the pack's definitions.
func NewRegistry(defs []Definition) *Registry {
	return &Registry{
		defs:     defs,
		unlocked: make(map[string]bool),
	}
}

// TrackEvent matches the event against pending definitions. A definition
// matches when its trigger equals the event trigger, its target (if any)
// equals the event target, and its threshold (if any) is met by the
// corresponding counter.
func (r *Registry) TrackEvent(trigger TriggerType, targetID string, counters Counters) []Unlocked {
	var out []Unlocked
	for _, def := range r.defs {
		if r.unlocked[def.ID] || def.Trigger != trigger {
			continue
		}
		if def.TargetID != "" && def.TargetID != targetID {
			continue
		}
		if def.Threshold > 0 && counterFor(trigger, counters) < def.Threshold {
			continue
		}
		r.unlocked[def.ID] = true
		out = append(out, Unlocked{ID: def.ID, Name: def.Name, UnlockedAt: time.Now()})
	}
	return out
}

// UnlockedIDs returns the ids unlocked so far.
func (r *Registry) UnlockedIDs() []string {
	ids := make([]string, 0, len(r.unlocked))
	for _, def := range r.defs {
		if r.unlocked[def.ID] {
			ids = append(ids, def.ID)
		}
	}
	return ids
}

func counterFor(trigger TriggerType, c Counters) int {
	switch trigger {
	case TriggerRoomVisited:
		return c.RoomsExplored
	case TriggerItemCollected:
		return c.ItemsCollected
	case TriggerPuzzleSolved:
		return c.PuzzlesSolved
	case TriggerCommandIssued:
		return c.CommandsIssued
	}
	return 0
}
