// Package data reads story packs from the read-only data layer. A pack is
// the authoritative template (rooms, objects, puzzles, achievements) used
// once, at game start, to materialize a fresh session; it is validated
// fully at load time so play-time code never meets malformed pack data.
package data

import (
	"fmt"

	"github.com/suderio/fable/internal/achievement"
	"github.com/suderio/fable/internal/engine"
	"github.com/suderio/fable/internal/puzzle"
	"github.com/suderio/fable/internal/rules"
)

// Pack is the YAML shape of one story pack file.
type Pack struct {
	ThemeID       string                        `yaml:"theme_id"`
	Name          string                        `yaml:"name"`
	Author        string                        `yaml:"author"`
	StartingRoom  string                        `yaml:"starting_room"`
	MaxCapacity   float64                       `yaml:"max_capacity"`
	MaxHealth     int                           `yaml:"max_health"`
	Rooms         []*engine.Room                `yaml:"rooms"`
	Objects       map[string]*engine.GameObject `yaml:"objects"`
	Puzzles       []*puzzle.Puzzle              `yaml:"puzzles"`
	GlobalPuzzles []puzzle.Global               `yaml:"global_puzzles"`
	Achievements  []achievement.Definition      `yaml:"achievements"`
}

// Validate checks the structural integrity of a pack: room and object
// references resolve, state-change kinds are known, and global puzzle
// predicates compile. Returning an error here turns pack bugs into load
// failures instead of silent play-time no-ops.
func (p *Pack) Validate() error {
	if p.ThemeID == "" {
		return fmt.Errorf("pack has no theme_id")
	}
	if p.StartingRoom == "" {
		return fmt.Errorf("pack %q has no starting_room", p.ThemeID)
	}

	rooms := make(map[string]bool, len(p.Rooms))
	for _, room := range p.Rooms {
		if room.ID == "" {
			return fmt.Errorf("pack %q has a room without an id", p.ThemeID)
		}
		if rooms[room.ID] {
			return fmt.Errorf("pack %q declares room %q twice", p.ThemeID, room.ID)
		}
		rooms[room.ID] = true
	}
	if !rooms[p.StartingRoom] {
		return fmt.Errorf("pack %q starting room %q is not defined", p.ThemeID, p.StartingRoom)
	}

	for _, room := range p.Rooms {
		for dir, target := range room.Exits {
			if !rooms[target] {
				return fmt.Errorf("room %q exit %q leads to unknown room %q", room.ID, dir, target)
			}
		}
		for _, id := range room.Objects {
			if _, ok := p.Objects[id]; !ok {
				return fmt.Errorf("room %q lists unknown object %q", room.ID, id)
			}
		}
	}

	for id, obj := range p.Objects {
		for verb, action := range obj.Actions {
			if action == nil {
				return fmt.Errorf("object %q declares an empty action for %q", id, verb)
			}
			for _, change := range action.Changes {
				if !engine.KnownChangeKind(change.Kind) {
					return fmt.Errorf("object %q action %q uses unknown change kind %q", id, verb, change.Kind)
				}
			}
		}
		for _, contained := range obj.Contains {
			if _, ok := p.Objects[contained]; !ok {
				return fmt.Errorf("object %q contains unknown object %q", id, contained)
			}
		}
	}

	for _, g := range p.GlobalPuzzles {
		if g.Condition == "" {
			return fmt.Errorf("global puzzle %q has no condition", g.ID)
		}
		if err := rules.CompileCheck(g.Condition); err != nil {
			return fmt.Errorf("global puzzle %q condition: %w", g.ID, err)
		}
	}
	return nil
}

// normalize fills in derived fields after decoding: object ids and action
// verbs from their map keys, and visibility for objects placed in rooms.
// Contained objects keep their declared (hidden) visibility until their
// container opens.
func (p *Pack) normalize() {
	for id, obj := range p.Objects {
		if obj.ID == "" {
			obj.ID = id
		}
		for verb, action := range obj.Actions {
			if action != nil && action.Verb == "" {
				action.Verb = verb
			}
		}
	}
	for _, room := range p.Rooms {
		for _, id := range room.Objects {
			if obj, ok := p.Objects[id]; ok {
				obj.IsVisible = true
			}
		}
	}
}

// StoryPack converts the pack to the engine's template form.
func (p *Pack) StoryPack() *engine.StoryPack {
	return &engine.StoryPack{
		ThemeID:      p.ThemeID,
		Name:         p.Name,
		StartingRoom: p.StartingRoom,
		Rooms:        p.Rooms,
		Objects:      p.Objects,
		MaxCapacity:  p.MaxCapacity,
		MaxHealth:    p.MaxHealth,
	}
}
