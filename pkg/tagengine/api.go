// Package tagengine is the external, language-neutral interface a host
// (an Erlang/Elixir NIF in original_source/, or any other caller) would
// call through. It owns the [engine.Context] and [rwguard.Guard] for one
// tag-query engine instance and translates the external clause AST into a
// compiled, optimized [query.Node] before running it.
package tagengine

import (
	"log/slog"

	"github.com/dymk/tagengine/internal/compiler"
	"github.com/dymk/tagengine/internal/engine"
	"github.com/dymk/tagengine/internal/ids"
	"github.com/dymk/tagengine/internal/rwguard"
)

// ID is the wire-level identifier type for both tags and entities — a
// literal clause is a bare tag id. Which domain an ID belongs to is
// determined by which function it's passed to.
type ID = int

// Context is one tag-query engine instance: a set of tags, entities, and
// the implication relationships between tags.
type Context struct {
	guard *rwguard.Guard
}

// NewContext returns a new, empty Context.
func NewContext(opts ...Option) *Context {
	var o options
	for _, apply := range opts {
		apply(&o)
	}
	ctx := engine.NewContext(engine.WithLogger(o.logger))
	return &Context{guard: rwguard.New(ctx)}
}

type options struct {
	logger *slog.Logger
}

// Option configures a new Context.
type Option func(*options)

// WithLogger attaches a structured logger for condensation rebuild and
// dirty-state events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewTag allocates a fresh tag id, or — if id is non-nil — reserves that
// specific id, failing if it's already in use.
func (c *Context) NewTag(id *ID) (ID, error) {
	var out ID
	err := c.guard.Write(func(e *engine.Context) error {
		if id == nil {
			out = int(e.NewTag())
			return nil
		}
		if err := e.NewTagWithID(ids.ID(*id)); err != nil {
			return err
		}
		out = *id
		return nil
	})
	return out, err
}

// NewEntity allocates a fresh entity id, or reserves a specific one.
func (c *Context) NewEntity(id *ID) (ID, error) {
	var out ID
	err := c.guard.Write(func(e *engine.Context) error {
		if id == nil {
			out = int(e.NewEntity())
			return nil
		}
		if err := e.NewEntityWithID(ids.ID(*id)); err != nil {
			return err
		}
		out = *id
		return nil
	})
	return out, err
}

// NumTags returns the number of tags in the context. This is a plain
// status read: it does not reconcile a dirty condensation.
func (c *Context) NumTags() int {
	var n int
	c.guard.Peek(func(e *engine.Context) error { n = e.NumTags(); return nil })
	return n
}

// NumEntities returns the number of entities in the context. This is a
// plain status read: it does not reconcile a dirty condensation.
func (c *Context) NumEntities() int {
	var n int
	c.guard.Peek(func(e *engine.Context) error { n = e.NumEntities(); return nil })
	return n
}

// AddTag attaches tagID to entityID, returning whether the tag set
// actually changed.
func (c *Context) AddTag(entityID, tagID ID) (bool, error) {
	var changed bool
	err := c.guard.Write(func(e *engine.Context) error {
		var err error
		changed, err = e.AddTagToEntity(ids.ID(entityID), ids.ID(tagID))
		return err
	})
	return changed, err
}

// RemoveTag detaches tagID from entityID, returning whether the tag set
// actually changed.
func (c *Context) RemoveTag(entityID, tagID ID) (bool, error) {
	var changed bool
	err := c.guard.Write(func(e *engine.Context) error {
		var err error
		changed, err = e.RemoveTagFromEntity(ids.ID(entityID), ids.ID(tagID))
		return err
	})
	return changed, err
}

// ImplyTag asserts a ⇒ b, returning false if the implication already held.
func (c *Context) ImplyTag(a, b ID) (bool, error) {
	var added bool
	err := c.guard.Write(func(e *engine.Context) error {
		var err error
		added, err = e.Imply(ids.ID(a), ids.ID(b))
		return err
	})
	return added, err
}

// UnimplyTag retracts a ⇒ b, returning false if it did not hold.
func (c *Context) UnimplyTag(a, b ID) (bool, error) {
	var removed bool
	err := c.guard.Write(func(e *engine.Context) error {
		var err error
		removed, err = e.Unimply(ids.ID(a), ids.ID(b))
		return err
	})
	return removed, err
}

// GetImplies returns the ids tag directly implies. The raw implication
// edges it reads are unaffected by a dirty condensation, so this is a
// plain status read and does not reconcile.
func (c *Context) GetImplies(tag ID) ([]ID, error) {
	var out []ID
	err := c.guard.Peek(func(e *engine.Context) error {
		t, err := e.TagByID(ids.ID(tag))
		if err != nil {
			return err
		}
		out = toIDs(t.Implies())
		return nil
	})
	return out, err
}

// GetImpliedBy returns the ids that directly imply tag. Like GetImplies,
// this reads raw implication edges and does not reconcile.
func (c *Context) GetImpliedBy(tag ID) ([]ID, error) {
	var out []ID
	err := c.guard.Peek(func(e *engine.Context) error {
		t, err := e.TagByID(ids.ID(tag))
		if err != nil {
			return err
		}
		out = toIDs(t.ImpliedBy())
		return nil
	})
	return out, err
}

// IsDirty reports whether the condensation is currently known to be
// stale. It never reconciles — checking status must not have the side
// effect of forcing a full rebuild; only the query path does that.
func (c *Context) IsDirty() bool {
	var dirty bool
	c.guard.Peek(func(e *engine.Context) error { dirty = e.IsDirty(); return nil })
	return dirty
}

// MarkDirty forces a condensation rebuild before the next query.
func (c *Context) MarkDirty() {
	c.guard.Write(func(e *engine.Context) error { e.MarkDirty(); return nil })
}

// EntityTagKind distinguishes a directly-attached tag from one that
// applies only by implication.
type EntityTagKind int

const (
	TagDirect EntityTagKind = iota
	TagImplied
)

// EntityTagRow is one row of an entity_tags result: a tag that applies to
// the entity, either directly or by implication.
type EntityTagRow struct {
	Kind     EntityTagKind
	Tag      ID
	Impliers []ID // non-nil only when Kind == TagImplied
}

// EntityTags lists every tag that applies to entityID, direct and implied.
func (c *Context) EntityTags(entityID ID) ([]EntityTagRow, error) {
	var out []EntityTagRow
	err := c.guard.Read(func(e *engine.Context) error {
		rows, err := e.EntityTags(ids.ID(entityID))
		if err != nil {
			return err
		}
		out = make([]EntityTagRow, len(rows))
		for i, r := range rows {
			kind := TagDirect
			if r.Kind == engine.Implied {
				kind = TagImplied
			}
			out[i] = EntityTagRow{Kind: kind, Tag: int(r.Tag), Impliers: toIDs(r.Impliers)}
		}
		return nil
	})
	return out, err
}

// DoQuery compiles, optimizes, and runs clause, returning every matching
// entity id.
func (c *Context) DoQuery(clause *Clause) ([]ID, error) {
	var out []ID
	err := c.guard.Read(func(e *engine.Context) error {
		compiled, err := compileClause(e, clause)
		if err != nil {
			return err
		}
		optimized := compiler.Optimize(compiled)
		return e.Query(optimized, func(id ids.ID) error {
			out = append(out, int(id))
			return nil
		})
	})
	return out, err
}

func toIDs(in []ids.ID) []ID {
	if len(in) == 0 {
		return nil
	}
	out := make([]ID, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
