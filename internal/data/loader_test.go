package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const validPackYAML = `
theme_id: cellar
name: The Forgotten Cellar
author: Paulo Suderio
starting_room: cellar
max_capacity: 20
max_health: 100
rooms:
  - id: cellar
    description: A damp cellar.
    exits:
      up: kitchen
    objects: [lantern, crate]
  - id: kitchen
    description: A cold kitchen.
    exits:
      down: cellar
objects:
  lantern:
    name: lantern
    type: light
    collectable: true
    weight: 2
    actions:
      use:
        success_message: The lantern flares to life.
        changes:
          - kind: set_state
            target: self
            string_value: lit
  crate:
    name: crate
    type: container
    weight: 30
    contains: [coin]
  coin:
    name: gold coin
    type: item
    collectable: true
    weight: 0.1
global_puzzles:
  - id: lit-cellar
    condition: holding_lit_light() && in_room("cellar")
    completion_message: The cellar is bathed in light.
achievements:
  - id: first-steps
    name: First Steps
    trigger: room_visited
    target_id: kitchen
`

func writePack(t *testing.T, dir, name, content string) {
	t.Helper()
	packsDir := filepath.Join(dir, "packs")
	if err := os.MkdirAll(packsDir, 0755); err != nil {
		t.Fatalf("failed to create packs dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(packsDir, name+".yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write pack: %v", err)
	}
}

func TestLoadPack(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "cellar", validPackYAML)

	l := NewLoader([]string{dir})
	pack, err := l.LoadPack("cellar")
	assert.NoError(t, err)
	assert.Equal(t, "cellar", pack.ThemeID)
	assert.Equal(t, "The Forgotten Cellar", pack.Name)
	assert.Len(t, pack.Rooms, 2)
	assert.Len(t, pack.GlobalPuzzles, 1)
	assert.Len(t, pack.Achievements, 1)

	// normalization: ids and verbs filled from map keys
	lantern := pack.Objects["lantern"]
	assert.Equal(t, "lantern", lantern.ID)
	assert.Equal(t, "use", lantern.Actions["use"].Verb)

	// objects placed in a room become visible; contained ones stay hidden
	assert.True(t, lantern.IsVisible)
	assert.True(t, pack.Objects["crate"].IsVisible)
	assert.False(t, pack.Objects["coin"].IsVisible)
}

func TestLoadPackMissing(t *testing.T) {
	l := NewLoader([]string{t.TempDir()})
	_, err := l.LoadPack("nope")
	assert.Error(t, err)
}

func TestLoaderDirectoryShadowing(t *testing.T) {
	primary := t.TempDir()
	fallback := t.TempDir()
	writePack(t, fallback, "cellar", validPackYAML)

	shadowed := strings.Replace(validPackYAML, "name: The Forgotten Cellar", "name: Cellar Remix", 1)
	writePack(t, primary, "cellar", shadowed)

	l := NewLoader([]string{primary, fallback})
	pack, err := l.LoadPack("cellar")
	assert.NoError(t, err)
	assert.Equal(t, "Cellar Remix", pack.Name)
}

func TestListPacks(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writePack(t, first, "cellar", validPackYAML)
	writePack(t, second, "cellar", validPackYAML)
	writePack(t, second, "attic", validPackYAML)

	l := NewLoader([]string{first, second})
	assert.Equal(t, []string{"attic", "cellar"}, l.ListPacks())
}

func TestValidateRejectsBrokenPacks(t *testing.T) {
	base := func() *Pack {
		dir := t.TempDir()
		writePack(t, dir, "cellar", validPackYAML)
		pack, err := NewLoader([]string{dir}).LoadPack("cellar")
		assert.NoError(t, err)
		return pack
	}

	t.Run("unknown exit target", func(t *testing.T) {
		p := base()
		p.Rooms[0].Exits["west"] = "garden"
		assert.ErrorContains(t, p.Validate(), "unknown room")
	})

	t.Run("unknown room object", func(t *testing.T) {
		p := base()
		p.Rooms[0].Objects = append(p.Rooms[0].Objects, "sword")
		assert.ErrorContains(t, p.Validate(), "unknown object")
	})

	t.Run("bad starting room", func(t *testing.T) {
		p := base()
		p.StartingRoom = "garden"
		assert.ErrorContains(t, p.Validate(), "not defined")
	})

	t.Run("unknown change kind", func(t *testing.T) {
		p := base()
		p.Objects["lantern"].Actions["use"].Changes[0].Kind = "teleport"
		assert.ErrorContains(t, p.Validate(), "unknown change kind")
	})

	t.Run("unknown contained object", func(t *testing.T) {
		p := base()
		p.Objects["crate"].Contains = []string{"ghost"}
		assert.ErrorContains(t, p.Validate(), "contains unknown object")
	})

	t.Run("bad global predicate", func(t *testing.T) {
		p := base()
		p.GlobalPuzzles[0].Condition = "holding_lit_light("
		assert.ErrorContains(t, p.Validate(), "condition")
	})

	t.Run("duplicate room", func(t *testing.T) {
		p := base()
		p.Rooms = append(p.Rooms, p.Rooms[0])
		assert.ErrorContains(t, p.Validate(), "twice")
	})
}
