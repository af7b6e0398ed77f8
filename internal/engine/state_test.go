package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testPack() *StoryPack {
	return &StoryPack{
		ThemeID:      "test-theme",
		Name:         "Test Theme",
		StartingRoom: "hall",
		MaxCapacity:  20,
		MaxHealth:    100,
		Rooms: []*Room{
			{
				ID:          "hall",
				Description: "A dusty hall.",
				Exits:       map[string]string{"north": "library", "east": "vault"},
				Objects:     []string{"lantern"},
			},
			{
				ID:          "library",
				Description: "Shelves line every wall.",
				Exits:       map[string]string{"south": "hall"},
			},
			{
				ID:          "vault",
				Description: "A sealed vault.",
				Exits:       map[string]string{"west": "hall"},
				State:       RoomState{Locked: true, RequiredKeyID: "brass_key"},
			},
		},
		Objects: map[string]*GameObject{
			"lantern": {
				ID: "lantern", Name: "lantern", Type: ObjectLight,
				Collectable: true, IsVisible: true, Weight: 2,
			},
			"brass_key": {
				ID: "brass_key", Name: "brass key", Type: ObjectItem,
				Collectable: true, Weight: 0.1,
			},
			"chest": {
				ID: "chest", Name: "wooden chest", Type: ObjectContainer,
				Contains: []string{"brass_key"},
			},
		},
	}
}

func TestNewMachineInitializesState(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	state := m.State()
	assert.Equal(t, "hall", state.Player.Location)
	assert.Equal(t, 100, state.Player.Health)
	assert.Equal(t, 100, state.Player.MaxHealth)
	assert.Equal(t, 20.0, state.Player.Inventory.MaxCapacity)
	assert.Equal(t, 0, state.World.TurnNumber)

	assert.True(t, state.World.Rooms["hall"].Visited)
	assert.False(t, state.World.Rooms["library"].Visited)
	assert.Equal(t, 1, state.Progress.Stats.RoomsExplored)

	// Seeded room visibility from the static object list
	assert.Equal(t, []string{"lantern"}, state.World.Rooms["hall"].State.VisibleObjects)

	// Opening description is the first narrative entry
	assert.Len(t, state.Narrative, 1)
	assert.Equal(t, "A dusty hall.", state.Narrative[0].Text)
	assert.Equal(t, NarrativeDescription, state.Narrative[0].Type)
}

func TestNewMachineDefaults(t *testing.T) {
	pack := testPack()
	pack.MaxHealth = 0
	pack.MaxCapacity = 0
	m, err := NewMachine(pack)
	assert.NoError(t, err)
	assert.Equal(t, 100, m.State().Player.MaxHealth)
	assert.Equal(t, 20.0, m.State().Player.Inventory.MaxCapacity)
}

func TestNewMachineRejectsBadStartingRoom(t *testing.T) {
	pack := testPack()
	pack.StartingRoom = "nowhere"
	_, err := NewMachine(pack)
	assert.Error(t, err)

	pack.StartingRoom = ""
	_, err = NewMachine(pack)
	assert.Error(t, err)
}

func TestTransitionTo(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	assert.NoError(t, m.TransitionTo("library"))
	assert.Equal(t, "library", m.State().Player.Location)
	assert.Equal(t, 1, m.State().World.TurnNumber)
	assert.Equal(t, 2, m.State().Progress.Stats.RoomsExplored)

	// Revisiting never re-counts exploration
	assert.NoError(t, m.TransitionTo("hall"))
	assert.Equal(t, 2, m.State().World.TurnNumber)
	assert.Equal(t, 2, m.State().Progress.Stats.RoomsExplored)
}

func TestTransitionBlockedByLock(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	err = m.TransitionTo("vault")
	assert.ErrorIs(t, err, ErrTransitionBlocked)
	assert.Equal(t, "hall", m.State().Player.Location)
	assert.Equal(t, 0, m.State().World.TurnNumber)

	// Holding the bound key satisfies the lock
	key := m.State().World.Objects["brass_key"]
	assert.NoError(t, m.State().Player.Inventory.Add(key))
	assert.True(t, m.CanTransitionTo("vault"))
	assert.NoError(t, m.TransitionTo("vault"))
	assert.Equal(t, "vault", m.State().Player.Location)
}

func TestTransitionRejectsUnreachableRoom(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	// vault is adjacent but locked; library is fine; hall itself is not an exit
	assert.ErrorIs(t, m.TransitionTo("hall"), ErrTransitionBlocked)
	assert.ErrorIs(t, m.TransitionTo("nowhere"), ErrTransitionBlocked)
}

func TestLegacyRequiresKeyFlag(t *testing.T) {
	pack := testPack()
	pack.Rooms[2].State = RoomState{
		Locked: true,
		Flags:  map[string]bool{"requires_key": true},
	}
	m, err := NewMachine(pack)
	assert.NoError(t, err)

	assert.False(t, m.CanTransitionTo("vault"))
	key := m.State().World.Objects["brass_key"]
	assert.NoError(t, m.State().Player.Inventory.Add(key))
	assert.True(t, m.CanTransitionTo("vault"))
}

func TestRequiredFlagUnlock(t *testing.T) {
	pack := testPack()
	pack.Rooms[2].State = RoomState{Locked: true, RequiredFlag: "vault_unsealed"}
	m, err := NewMachine(pack)
	assert.NoError(t, err)

	assert.False(t, m.CanTransitionTo("vault"))
	m.SetStoryFlag("vault_unsealed", true)
	assert.True(t, m.CanTransitionTo("vault"))
}

func TestFindObject(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	assert.Equal(t, "lantern", m.FindObject("lantern").ID)
	assert.Equal(t, "lantern", m.FindObject("LANTERN").ID)
	assert.Equal(t, "brass_key", m.FindObject("brass key").ID)
	assert.Equal(t, "brass_key", m.FindObject("key").ID)
	assert.Nil(t, m.FindObject("dragon"))
	assert.Nil(t, m.FindObject(""))
}

func TestFindVisibleObject(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	assert.NotNil(t, m.FindVisibleObject("lantern"))
	// The key exists in the world but is not visible in the hall
	assert.Nil(t, m.FindVisibleObject("brass key"))
}

func TestRevealContents(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	chest := m.State().World.Objects["chest"]
	revealed := m.RevealContents(chest)
	assert.Equal(t, []string{"brass key"}, revealed)

	key := m.State().World.Objects["brass_key"]
	assert.True(t, key.IsVisible)
	assert.Contains(t, m.State().World.Rooms["hall"].State.VisibleObjects, "brass_key")

	// Revealing again never duplicates the room entry
	m.RevealContents(chest)
	count := 0
	for _, id := range m.State().World.Rooms["hall"].State.VisibleObjects {
		if id == "brass_key" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNarrativeLogTrimsOldestEntries(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	for i := 0; i < 150; i++ {
		m.AddNarrativeEntry("entry", NarrativeSystem, false)
	}
	assert.Len(t, m.State().Narrative, 100)
	// The opening description entry was trimmed away
	assert.Equal(t, NarrativeSystem, m.State().Narrative[0].Type)
}

func TestModifyHealthClamps(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	m.ModifyHealth(-30)
	assert.Equal(t, 70, m.State().Player.Health)
	m.ModifyHealth(-200)
	assert.Equal(t, 0, m.State().Player.Health)
	m.ModifyHealth(500)
	assert.Equal(t, 100, m.State().Player.Health)
}

func TestViewMethods(t *testing.T) {
	m, err := NewMachine(testPack())
	assert.NoError(t, err)

	assert.Equal(t, "hall", m.Location())
	assert.False(t, m.AllRoomsVisited())
	assert.False(t, m.HoldingLitLight())
	assert.False(t, m.CurrentRoomDark())

	lantern := m.State().World.Objects["lantern"]
	lantern.State.CurrentState = "lit"
	assert.NoError(t, m.State().Player.Inventory.Add(lantern))
	assert.True(t, m.HoldingLitLight())

	m.State().World.Rooms["hall"].LightLevel = "dark"
	assert.True(t, m.CurrentRoomDark())
}
