// Package rules hosts the CEL environment global puzzle predicates are
// written in. Predicates live in story packs as data; this package gives
// them a small vocabulary of game-state functions to evaluate against.
package rules

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// View is the read-only window a predicate gets into the live game state.
// The engine's state machine satisfies it.
type View interface {
	Holding(itemID string) bool
	StoryFlag(name string) bool
	Location() string
	AllRoomsVisited() bool
	HoldingLitLight() bool
	CurrentRoomDark() bool
}

// Registry manages the CEL environment and provides helper methods for
// compiling and evaluating predicate expressions.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes the CEL environment with the game-state
// vocabulary bound to the given view. The bindings read the view at
// evaluation time, so one registry serves the whole session.
func NewRegistry(view View) (*Registry, error) {
	env, err := cel.NewEnv(
		// Per-command context for step-style conditions
		cel.Variable("verb", cel.StringType),
		cel.Variable("object", cel.StringType),

		cel.Function("has_item",
			cel.Overload("has_item_string", []*cel.Type{cel.StringType}, cel.BoolType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					return types.Bool(view.Holding(arg.Value().(string)))
				}),
			),
		),
		cel.Function("flag",
			cel.Overload("flag_string", []*cel.Type{cel.StringType}, cel.BoolType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					return types.Bool(view.StoryFlag(arg.Value().(string)))
				}),
			),
		),
		cel.Function("in_room",
			cel.Overload("in_room_string", []*cel.Type{cel.StringType}, cel.BoolType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					return types.Bool(view.Location() == arg.Value().(string))
				}),
			),
		),
		cel.Function("all_rooms_visited",
			cel.Overload("all_rooms_visited", nil, cel.BoolType,
				cel.FunctionBinding(func(...ref.Val) ref.Val {
					return types.Bool(view.AllRoomsVisited())
				}),
			),
		),
		cel.Function("holding_lit_light",
			cel.Overload("holding_lit_light", nil, cel.BoolType,
				cel.FunctionBinding(func(...ref.Val) ref.Val {
					return types.Bool(view.HoldingLitLight())
				}),
			),
		),
		cel.Function("room_is_dark",
			cel.Overload("room_is_dark", nil, cel.BoolType,
				cel.FunctionBinding(func(...ref.Val) ref.Val {
					return types.Bool(view.CurrentRoomDark())
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Registry{env: env}, nil
}

// Compile checks an expression against the environment without evaluating
// it. The story pack loader uses this so a malformed predicate is a load
// error, not a silent play-time no-op.
func (r *Registry) Compile(expression string) error {
	_, iss := r.env.Compile(expression)
	return iss.Err()
}

// Eval executes a CEL expression against the provided context.
func (r *Registry) Eval(expression string, context map[string]any) (any, error) {
	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(context)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

// EvalBool evaluates a predicate expected to yield a boolean.
func (r *Registry) EvalBool(expression string, context map[string]any) (bool, error) {
	if context == nil {
		context = map[string]any{"verb": "", "object": ""}
	}
	out, err := r.Eval(expression, context)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q evaluated to %T, want bool", expression, out)
	}
	return b, nil
}

// nopView backs CompileCheck: it never evaluates, only type-checks.
type nopView struct{}

func (nopView) Holding(string) bool   { return false }
func (nopView) StoryFlag(string) bool { return false }
func (nopView) Location() string      { return "" }
func (nopView) AllRoomsVisited() bool { return false }
func (nopView) HoldingLitLight() bool { return false }
func (nopView) CurrentRoomDark() bool { return false }

// CompileCheck validates an expression with no live state attached.
func CompileCheck(expression string) error {
	reg, err := NewRegistry(nopView{})
	if err != nil {
		return err
	}
	return reg.Compile(expression)
}
