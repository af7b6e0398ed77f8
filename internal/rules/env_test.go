package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubView is a fixed-state view for predicate tests.
type stubView struct {
	items      map[string]bool
	flags      map[string]bool
	location   string
	allVisited bool
	litLight   bool
	dark       bool
}

func (v stubView) Holding(id string) bool     { return v.items[id] }
func (v stubView) StoryFlag(name string) bool { return v.flags[name] }
func (v stubView) Location() string           { return v.location }
func (v stubView) AllRoomsVisited() bool      { return v.allVisited }
func (v stubView) HoldingLitLight() bool      { return v.litLight }
func (v stubView) CurrentRoomDark() bool      { return v.dark }

func TestRegistryVocabulary(t *testing.T) {
	view := stubView{
		items:    map[string]bool{"brass_key": true},
		flags:    map[string]bool{"chest_open": true},
		location: "vault",
		litLight: true,
	}
	registry, err := NewRegistry(view)
	assert.NoError(t, err)

	t.Run("has_item", func(t *testing.T) {
		out, err := registry.EvalBool(`has_item("brass_key")`, nil)
		assert.NoError(t, err)
		assert.True(t, out)

		out, err = registry.EvalBool(`has_item("sword")`, nil)
		assert.NoError(t, err)
		assert.False(t, out)
	})

	t.Run("flag", func(t *testing.T) {
		out, err := registry.EvalBool(`flag("chest_open")`, nil)
		assert.NoError(t, err)
		assert.True(t, out)
	})

	t.Run("in_room", func(t *testing.T) {
		out, err := registry.EvalBool(`in_room("vault")`, nil)
		assert.NoError(t, err)
		assert.True(t, out)

		out, err = registry.EvalBool(`in_room("hall")`, nil)
		assert.NoError(t, err)
		assert.False(t, out)
	})

	t.Run("nullary functions", func(t *testing.T) {
		out, err := registry.EvalBool(`holding_lit_light()`, nil)
		assert.NoError(t, err)
		assert.True(t, out)

		out, err = registry.EvalBool(`all_rooms_visited()`, nil)
		assert.NoError(t, err)
		assert.False(t, out)

		out, err = registry.EvalBool(`room_is_dark()`, nil)
		assert.NoError(t, err)
		assert.False(t, out)
	})

	t.Run("compound predicate", func(t *testing.T) {
		out, err := registry.EvalBool(`has_item("brass_key") && flag("chest_open") && in_room("vault")`, nil)
		assert.NoError(t, err)
		assert.True(t, out)

		out, err = registry.EvalBool(`room_is_dark() && !holding_lit_light()`, nil)
		assert.NoError(t, err)
		assert.False(t, out)
	})
}

func TestEvalWithCommandContext(t *testing.T) {
	registry, err := NewRegistry(stubView{})
	assert.NoError(t, err)

	out, err := registry.EvalBool(`verb == "use" && object == "lever"`, map[string]any{
		"verb":   "use",
		"object": "lever",
	})
	assert.NoError(t, err)
	assert.True(t, out)
}

func TestEvalBoolRejectsNonBool(t *testing.T) {
	registry, err := NewRegistry(stubView{})
	assert.NoError(t, err)

	_, err = registry.EvalBool(`verb`, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "want bool")
}

func TestCompileCheck(t *testing.T) {
	assert.NoError(t, CompileCheck(`has_item("lamp") || all_rooms_visited()`))
	assert.Error(t, CompileCheck(`has_item(`))
	assert.Error(t, CompileCheck(`unknown_fn("x")`))
}
