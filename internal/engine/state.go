package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/suderio/fable/internal/achievement"
)

// Sentinel errors surfaced by the state machine.
var (
	// ErrRoomNotFound indicates the player's location id is missing from
	// the room map. This never happens in a consistently initialized game,
	// so callers treat it as fatal rather than retrying.
	ErrRoomNotFound = errors.New("current room not found in world")

	// ErrTransitionBlocked is returned when a transition target is
	// unreachable, unknown, or locked.
	ErrTransitionBlocked = errors.New("transition blocked")
)

// StoryPack is the read-only template a Machine is materialized from. The
// loader in internal/data produces an already-validated pack; the machine
// copies it into a fresh GameState and never writes back.
type StoryPack struct {
	ThemeID      string
	Name         string
	StartingRoom string
	Rooms        []*Room
	Objects      map[string]*GameObject
	MaxCapacity  float64
	MaxHealth    int
}

// Machine owns the mutable GameState. It is the only component permitted to
// replace or transition the current room. All methods are synchronous; the
// session layer serializes access (one command at a time).
type Machine struct {
	state   *GameState
	tracker achievement.Tracker
	log     zerolog.Logger
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithTracker injects the achievement collaborator. Absence of a tracker
// never changes engine behavior beyond skipping notifications, so the
// default is the no-op implementation.
func WithTracker(t achievement.Tracker) Option {
	return func(m *Machine) {
		if t != nil {
			m.tracker = t
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) { m.log = log }
}

// NewMachine builds a fresh GameState from the story pack template. It
// fails when the starting room id is empty or does not exist in the pack.
func NewMachine(pack *StoryPack, opts ...Option) (*Machine, error) {
	m := &Machine{
		tracker: achievement.Nop{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if pack.StartingRoom == "" {
		return nil, fmt.Errorf("story pack %q has no starting room", pack.ThemeID)
	}

	state := NewGameState()
	state.Meta.ThemeID = pack.ThemeID
	state.Meta.StartedAt = time.Now()

	var start *Room
	for _, room := range pack.Rooms {
		if room.State.VisibleObjects == nil {
			// Seed visibility from the room's static object list once;
			// packs that pre-set it keep their own ordering.
			room.State.VisibleObjects = append([]string(nil), room.Objects...)
		}
		state.World.Rooms[room.ID] = room
		if room.ID == pack.StartingRoom {
			start = room
		}
	}
	if start == nil {
		return nil, fmt.Errorf("starting room %q not defined in story pack %q", pack.StartingRoom, pack.ThemeID)
	}

	for id, obj := range pack.Objects {
		state.World.Objects[id] = obj
	}

	maxHealth := pack.MaxHealth
	if maxHealth <= 0 {
		maxHealth = 100
	}
	capacity := pack.MaxCapacity
	if capacity <= 0 {
		capacity = 20
	}
	state.Player = Player{
		Location:  start.ID,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Inventory: Inventory{MaxCapacity: capacity},
	}

	start.Visited = true
	state.Progress.Stats.RoomsExplored = 1

	m.state = state
	m.AddNarrativeEntry(start.Description, NarrativeDescription, false)
	m.log.Info().Str("theme", pack.ThemeID).Str("start", start.ID).Msg("game state initialized")
	return m, nil
}

// State exposes the live aggregate for handlers. Handlers mutate it under
// the session's lock.
func (m *Machine) State() *GameState {
	return m.state
}

// CurrentRoom resolves the player's location. A missing room means the
// aggregate is corrupt, so the error is the fatal ErrRoomNotFound sentinel.
func (m *Machine) CurrentRoom() (*Room, error) {
	room, ok := m.state.World.Rooms[m.state.Player.Location]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRoomNotFound, m.state.Player.Location)
	}
	return room, nil
}

// VisibleObjects returns the current room's visible objects in the room's
// declared order. Stale ids (removed or invisible objects) are skipped so a
// partially mutated room never breaks lookups.
func (m *Machine) VisibleObjects() []*GameObject {
	room, err := m.CurrentRoom()
	if err != nil {
		return nil
	}
	visible := make([]*GameObject, 0, len(room.State.VisibleObjects))
	for _, id := range room.State.VisibleObjects {
		obj, ok := m.state.World.Objects[id]
		if !ok || !obj.IsVisible {
			continue
		}
		visible = append(visible, obj)
	}
	return visible
}

// CanTransitionTo reports whether roomID is reachable from the current room
// through an exit, exists, and is either unlocked or has its unlock
// condition satisfied.
func (m *Machine) CanTransitionTo(roomID string) bool {
	current, err := m.CurrentRoom()
	if err != nil {
		return false
	}
	reachable := false
	for _, target := range current.Exits {
		if target == roomID {
			reachable = true
			break
		}
	}
	if !reachable {
		return false
	}
	target, ok := m.state.World.Rooms[roomID]
	if !ok {
		return false
	}
	if !target.State.Locked {
		return true
	}
	return m.unlockSatisfied(target)
}

// unlockSatisfied evaluates a locked room's entry condition.
//
// An explicit RequiredKeyID binds the lock to one item id. The legacy
// requires_key flag accepts any held item whose id contains "key"; packs
// are expected to migrate to the explicit binding.
func (m *Machine) unlockSatisfied(room *Room) bool {
	if room.State.RequiredKeyID != "" {
		return m.Holding(room.State.RequiredKeyID)
	}
	if room.Flag("requires_key") {
		for _, item := range m.state.Player.Inventory.Items {
			if strings.Contains(strings.ToLower(item.ID), "key") {
				return true
			}
		}
		return false
	}
	if room.State.RequiredFlag != "" {
		return m.StoryFlag(room.State.RequiredFlag)
	}
	return false
}

// TransitionTo moves the player to roomID. It fails with
// ErrTransitionBlocked when CanTransitionTo vetoes the move. Side effects:
// location update, first-visit bookkeeping, turn counter increment, play
// time update, and a RoomVisited achievement event.
func (m *Machine) TransitionTo(roomID string) error {
	if !m.CanTransitionTo(roomID) {
		return fmt.Errorf("%w: %q", ErrTransitionBlocked, roomID)
	}
	room := m.state.World.Rooms[roomID]

	m.state.Player.Location = roomID
	if !room.Visited {
		room.Visited = true
		m.state.Progress.Stats.RoomsExplored++
	}
	m.state.World.TurnNumber++
	m.touchPlayTime()
	m.tracker.TrackEvent(achievement.TriggerRoomVisited, roomID, m.TrackerState())
	return nil
}

// touchPlayTime folds wall-clock time since the last input into the
// cumulative play time.
func (m *Machine) touchPlayTime() {
	now := time.Now()
	if !m.state.Meta.LastInput.IsZero() {
		m.state.Meta.PlayTime += now.Sub(m.state.Meta.LastInput)
	}
	m.state.Meta.LastInput = now
}

// FindObject resolves an identifier against the whole world map:
// case-insensitive exact id first, then substring matching in both
// directions on id and name, tolerating players who type either a
// shortened or an elaborated noun phrase.
func (m *Machine) FindObject(identifier string) *GameObject {
	return matchObject(identifier, m.allObjects())
}

// FindVisibleObject is FindObject restricted to the current room's visible
// objects.
func (m *Machine) FindVisibleObject(identifier string) *GameObject {
	return matchObject(identifier, m.VisibleObjects())
}

func (m *Machine) allObjects() []*GameObject {
	ids := make([]string, 0, len(m.state.World.Objects))
	for id := range m.state.World.Objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	objects := make([]*GameObject, 0, len(ids))
	for _, id := range ids {
		objects = append(objects, m.state.World.Objects[id])
	}
	return objects
}

// matchObject implements the shared resolution order: exact id, then
// bidirectional substring on id and name. All comparisons are
// case-insensitive.
func matchObject(identifier string, candidates []*GameObject) *GameObject {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return nil
	}
	for _, obj := range candidates {
		if strings.ToLower(obj.ID) == needle {
			return obj
		}
	}
	for _, obj := range candidates {
		id := strings.ToLower(obj.ID)
		name := strings.ToLower(obj.Name)
		if strings.Contains(id, needle) || strings.Contains(needle, id) ||
			strings.Contains(name, needle) || strings.Contains(needle, name) {
			return obj
		}
	}
	return nil
}

// Holding reports whether the exact item id is in the inventory.
func (m *Machine) Holding(itemID string) bool {
	for _, item := range m.state.Player.Inventory.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// RevealContents moves a container's declared contents into the current
// room's visible-object list. Ids with no backing object are skipped.
func (m *Machine) RevealContents(container *GameObject) []string {
	room, err := m.CurrentRoom()
	if err != nil {
		return nil
	}
	revealed := make([]string, 0, len(container.Contains))
	for _, id := range container.Contains {
		obj, ok := m.state.World.Objects[id]
		if !ok {
			continue
		}
		obj.IsVisible = true
		if !containsString(room.State.VisibleObjects, id) {
			room.State.VisibleObjects = append(room.State.VisibleObjects, id)
		}
		revealed = append(revealed, obj.Name)
	}
	return revealed
}

// AddNarrativeEntry appends one line of session history and trims the log
// from the oldest end to stay within the bound.
func (m *Machine) AddNarrativeEntry(text string, t NarrativeType, important bool) {
	m.state.Narrative = append(m.state.Narrative, NarrativeEntry{
		Text:      text,
		Type:      t,
		Important: important,
		Turn:      m.state.World.TurnNumber,
		At:        time.Now(),
	})
	if over := len(m.state.Narrative) - maxNarrativeEntries; over > 0 {
		m.state.Narrative = m.state.Narrative[over:]
	}
}

// ModifyHealth applies a delta clamped to [0, MaxHealth].
func (m *Machine) ModifyHealth(delta int) {
	h := m.state.Player.Health + delta
	if h < 0 {
		h = 0
	}
	if h > m.state.Player.MaxHealth {
		h = m.state.Player.MaxHealth
	}
	m.state.Player.Health = h
}

// StoryFlag reads a story flag. Absent flags read as false.
func (m *Machine) StoryFlag(name string) bool {
	return m.state.Progress.StoryFlags[name]
}

// SetStoryFlag writes a story flag.
func (m *Machine) SetStoryFlag(name string, value bool) {
	m.state.Progress.StoryFlags[name] = value
}

// Tracker returns the achievement collaborator.
func (m *Machine) Tracker() achievement.Tracker {
	return m.tracker
}

// TrackerState projects the counters the achievement tracker evaluates
// thresholds against.
func (m *Machine) TrackerState() achievement.Counters {
	return achievement.Counters{
		RoomsExplored:  m.state.Progress.Stats.RoomsExplored,
		ItemsCollected: m.state.Progress.Stats.ItemsCollected,
		PuzzlesSolved:  m.state.Progress.Stats.PuzzlesSolved,
		CommandsIssued: m.state.Progress.Stats.CommandsIssued,
	}
}

// Logger exposes the machine's diagnostic logger to the router.
func (m *Machine) Logger() zerolog.Logger {
	return m.log
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
