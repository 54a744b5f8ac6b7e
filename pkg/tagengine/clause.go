package tagengine

import (
	"fmt"

	"github.com/dymk/tagengine/internal/compiler"
	"github.com/dymk/tagengine/internal/engine"
	"github.com/dymk/tagengine/internal/ids"
	"github.com/dymk/tagengine/internal/query"
)

// ClauseOp names a clause's boolean combinator: a bare tag id, (not, x),
// (and, x, y), (or, x, y), and the any sentinel.
type ClauseOp int

const (
	// OpLiteral is a bare tag id clause; Tag holds the id.
	OpLiteral ClauseOp = iota
	OpNot
	OpAnd
	OpOr
	// OpAny matches every entity, independent of tags.
	OpAny
)

// Clause is the external, language-neutral query AST a host hands to
// DoQuery. It is a plain data value — not a [query.Node] — precisely so
// that hosts without Go's type system (the Erlang/Elixir NIF in
// original_source/, a JSON-over-the-wire binding, ...) can build one
// without reaching into internal/query.
type Clause struct {
	Op  ClauseOp
	Tag ID // meaningful only when Op == OpLiteral

	// Left is the sole child of a Not clause. Left and Right are the two
	// children of an And/Or clause.
	Left, Right *Clause
}

// Literal returns a clause matching entities that bear tag (directly or
// by implication).
func Literal(tag ID) *Clause { return &Clause{Op: OpLiteral, Tag: tag} }

// Not returns a clause matching entities that don't match child.
func Not(child *Clause) *Clause { return &Clause{Op: OpNot, Left: child} }

// And returns a clause matching entities that match both l and r.
func And(l, r *Clause) *Clause { return &Clause{Op: OpAnd, Left: l, Right: r} }

// Or returns a clause matching entities that match either l or r.
func Or(l, r *Clause) *Clause { return &Clause{Op: OpOr, Left: l, Right: r} }

// Any returns a clause matching every entity.
func Any() *Clause { return &Clause{Op: OpAny} }

// compileClause translates the external clause tree into a [query.Node],
// expanding every literal through the condensation via e's compiler. A
// clause with an unrecognized Op, or with a nil child where one is
// required, fails with engine.ErrMalformed ("unknown operator" / "arity
// mismatch"). A literal naming a tag id that doesn't exist fails with
// engine.ErrNotFound, the same way original_source/c_src/erl_api's
// build_clause fails the whole query when a literal's tag can't be
// resolved, rather than silently compiling to a vacuous match.
func compileClause(e *engine.Context, cl *Clause) (query.Node, error) {
	if cl == nil {
		return nil, fmt.Errorf("nil clause: %w", engine.ErrMalformed)
	}
	switch cl.Op {
	case OpLiteral:
		if _, err := e.TagByID(ids.ID(cl.Tag)); err != nil {
			return nil, err
		}
		return e.Compiler().BuildLiteral(ids.ID(cl.Tag)), nil
	case OpAny:
		return compiler.BuildAny(), nil
	case OpNot:
		if cl.Left == nil {
			return nil, fmt.Errorf("not clause missing operand: %w", engine.ErrMalformed)
		}
		child, err := compileClause(e, cl.Left)
		if err != nil {
			return nil, err
		}
		return compiler.BuildNot(child), nil
	case OpAnd, OpOr:
		if cl.Left == nil || cl.Right == nil {
			return nil, fmt.Errorf("binary clause missing operand: %w", engine.ErrMalformed)
		}
		left, err := compileClause(e, cl.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileClause(e, cl.Right)
		if err != nil {
			return nil, err
		}
		if cl.Op == OpAnd {
			return compiler.BuildAnd(left, right), nil
		}
		return compiler.BuildOr(left, right), nil
	default:
		return nil, fmt.Errorf("clause op %d: %w", cl.Op, engine.ErrMalformed)
	}
}
