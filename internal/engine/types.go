// Package engine implements the core rules engine for a story-pack-driven
// interactive fiction game: the world model, the game state machine that
// owns it, and the inventory capacity rules. The engine turns structured
// commands into world-state mutation; parsing and presentation live outside.
package engine

import "time"

// --- Object model ---

// ObjectType classifies a GameObject for verb gating (open/close only work
// on doors and containers, examine adds light commentary for lights, etc).
type ObjectType string

const (
	ObjectItem       ObjectType = "item"
	ObjectTool       ObjectType = "tool"
	ObjectFurniture  ObjectType = "furniture"
	ObjectDoor       ObjectType = "door"
	ObjectContainer  ObjectType = "container"
	ObjectLight      ObjectType = "light"
	ObjectPuzzle     ObjectType = "puzzle"
	ObjectDecoration ObjectType = "decoration"
)

// ActionDefinition is the declared behavior an object exposes for one verb:
// the messages to show, the deferred state changes to apply on success, the
// story flags that gate it, and whether a successful use consumes the item.
type ActionDefinition struct {
	Verb           string        `json:"verb" yaml:"verb"`
	SuccessMessage string        `json:"success_message" yaml:"success_message"`
	FailureMessage string        `json:"failure_message" yaml:"failure_message"`
	Changes        []StateChange `json:"changes" yaml:"changes"`
	RequiredFlags  []string      `json:"required_flags" yaml:"required_flags"`
	ConsumesItem   bool          `json:"consumes_item" yaml:"consumes_item"`
}

// ObjectState is the mutable part of a GameObject.
type ObjectState struct {
	CurrentState string          `json:"current_state" yaml:"current_state"`
	Flags        map[string]bool `json:"flags" yaml:"flags"`
	UseCount     int             `json:"use_count" yaml:"use_count"`
}

// GameObject is any interactive entity addressable globally by id: items,
// tools, doors, containers, light sources, scenery. Objects stay in the
// world map even when not placed in any room.
type GameObject struct {
	ID          string                       `json:"id" yaml:"id"`
	Name        string                       `json:"name" yaml:"name"`
	Description string                       `json:"description" yaml:"description"`
	Type        ObjectType                   `json:"type" yaml:"type"`
	Collectable bool                         `json:"collectable" yaml:"collectable"`
	IsVisible   bool                         `json:"is_visible" yaml:"is_visible"`
	Weight      float64                      `json:"weight" yaml:"weight"`
	Actions     map[string]*ActionDefinition `json:"actions" yaml:"actions"`
	Contains    []string                     `json:"contains" yaml:"contains"`
	State       ObjectState                  `json:"state" yaml:"state"`
}

// Action returns the declared action for a verb, or nil.
func (o *GameObject) Action(verb string) *ActionDefinition {
	if o.Actions == nil {
		return nil
	}
	return o.Actions[verb]
}

// Flag reads a boolean object flag. Absent flags read as false.
func (o *GameObject) Flag(name string) bool {
	return o.State.Flags[name]
}

// SetFlag writes a boolean object flag, initializing the map on first use.
func (o *GameObject) SetFlag(name string, value bool) {
	if o.State.Flags == nil {
		o.State.Flags = make(map[string]bool)
	}
	o.State.Flags[name] = value
}

// --- Room model ---

// RoomState is the mutable part of a Room.
type RoomState struct {
	Locked         bool            `json:"locked" yaml:"locked"`
	Flags          map[string]bool `json:"flags" yaml:"flags"`
	VisibleObjects []string        `json:"visible_objects" yaml:"visible_objects"`

	// RequiredKeyID binds the lock to one specific inventory item. When
	// empty, the legacy requires_key flag falls back to matching any held
	// item whose id contains "key".
	RequiredKeyID string `json:"required_key_id" yaml:"required_key_id"`
	// RequiredFlag names a story flag that must be set before entering.
	RequiredFlag string `json:"required_flag" yaml:"required_flag"`
}

// Room is a location node: exits keyed by normalized direction, a mutable
// visibility/lock state, and a light level used by puzzle predicates.
type Room struct {
	ID          string            `json:"id" yaml:"id"`
	Description string            `json:"description" yaml:"description"`
	Exits       map[string]string `json:"exits" yaml:"exits"`
	Objects     []string          `json:"objects" yaml:"objects"`
	State       RoomState         `json:"state" yaml:"state"`
	Visited     bool              `json:"visited" yaml:"visited"`
	LightLevel  string            `json:"light_level" yaml:"light_level"`
}

// Flag reads a boolean room flag. Absent flags read as false.
func (r *Room) Flag(name string) bool {
	return r.State.Flags[name]
}

// --- Player & progress ---

// Inventory is the ordered list of carried objects with a running weight
// total bounded by MaxCapacity. Insertion order is display order.
type Inventory struct {
	Items       []*GameObject `json:"items"`
	TotalWeight float64       `json:"total_weight"`
	MaxCapacity float64       `json:"max_capacity"`
}

// Player holds the player's runtime state.
type Player struct {
	Location      string    `json:"location"`
	Health        int       `json:"health"`
	MaxHealth     int       `json:"max_health"`
	Inventory     Inventory `json:"inventory"`
	StatusEffects []string  `json:"status_effects"`
}

// ProgressStats are the cumulative per-session counters reported to the
// achievement tracker and surfaced in the UI.
type ProgressStats struct {
	RoomsExplored  int `json:"rooms_explored"`
	ItemsCollected int `json:"items_collected"`
	PuzzlesSolved  int `json:"puzzles_solved"`
	CommandsIssued int `json:"commands_issued"`
}

// Progress tracks story flags and stats across the session.
type Progress struct {
	StoryFlags       map[string]bool `json:"story_flags"`
	Stats            ProgressStats   `json:"stats"`
	CompletedPuzzles []string        `json:"completed_puzzles"`
}

// Meta carries session bookkeeping.
type Meta struct {
	ThemeID   string        `json:"theme_id"`
	StartedAt time.Time     `json:"started_at"`
	PlayTime  time.Duration `json:"play_time"`
	LastInput time.Time     `json:"last_input"`
}

// --- World & game state ---

// WorldState maps room and object ids to their live instances and carries
// the monotonically increasing turn counter.
type WorldState struct {
	Rooms      map[string]*Room       `json:"rooms"`
	Objects    map[string]*GameObject `json:"objects"`
	TurnNumber int                    `json:"turn_number"`
}

// NarrativeType classifies narrative log entries.
type NarrativeType string

const (
	NarrativeDescription   NarrativeType = "description"
	NarrativePlayerCommand NarrativeType = "player_command"
	NarrativeSuccess       NarrativeType = "success"
	NarrativeFailure       NarrativeType = "failure"
	NarrativeSystem        NarrativeType = "system"
)

// NarrativeEntry is one line of session history.
type NarrativeEntry struct {
	Text      string        `json:"text"`
	Type      NarrativeType `json:"type"`
	Important bool          `json:"important"`
	Turn      int           `json:"turn"`
	At        time.Time     `json:"at"`
}

// maxNarrativeEntries bounds the narrative log: the log keeps only the most
// recent entries, trimming from the oldest end.
const maxNarrativeEntries = 100

// GameState is the root aggregate owned by a single session. It is replaced
// wholesale on new-game, never partially reconstructed.
type GameState struct {
	Player    Player           `json:"player"`
	World     WorldState       `json:"world"`
	Progress  Progress         `json:"progress"`
	Meta      Meta             `json:"meta"`
	Narrative []NarrativeEntry `json:"narrative"`
}

// NewGameState creates an empty state with all maps initialized.
func NewGameState() *GameState {
	return &GameState{
		World: WorldState{
			Rooms:   make(map[string]*Room),
			Objects: make(map[string]*GameObject),
		},
		Progress: Progress{
			StoryFlags:       make(map[string]bool),
			CompletedPuzzles: make([]string, 0),
		},
	}
}

// --- Command contracts ---

// ParsedCommand is the structured form of one player input, produced by an
// external parser. The engine treats it as input only.
type ParsedCommand struct {
	Verb       string    `json:"verb"`
	Object     string    `json:"object"`
	Target     string    `json:"target"`
	Context    string    `json:"context"`
	Confidence float64   `json:"confidence"`
	Raw        string    `json:"raw"`
	At         time.Time `json:"at"`
}

// ResultType tags a CommandResult for the presentation layer.
type ResultType string

const (
	ResultSuccess            ResultType = "success"
	ResultFailure            ResultType = "failure"
	ResultInvalidCommand     ResultType = "invalid_command"
	ResultRequirementsNotMet ResultType = "requirements_not_met"
	ResultAmbiguousCommand   ResultType = "ambiguous_command"
	ResultSystemMessage      ResultType = "system_message"
)

// StateDelta summarizes the world-state effects of one command for external
// stat/UI consumers. All fields are optional.
type StateDelta struct {
	LocationChanged string   `json:"location_changed,omitempty"`
	ItemsAdded      []string `json:"items_added,omitempty"`
	ItemsRemoved    []string `json:"items_removed,omitempty"`
	HealthDelta     int      `json:"health_delta,omitempty"`
	FlagsChanged    []string `json:"flags_changed,omitempty"`
}

// CommandResult is the sole output contract toward presentation layers.
type CommandResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Type    ResultType  `json:"type"`
	Delta   *StateDelta `json:"delta,omitempty"`
}

// Failure builds a failed result with the given type and message.
func Failure(t ResultType, msg string) CommandResult {
	return CommandResult{Success: false, Message: msg, Type: t}
}

// Successf builds a successful result.
func Successf(msg string) CommandResult {
	return CommandResult{Success: true, Message: msg, Type: ResultSuccess}
}
