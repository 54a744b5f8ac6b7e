// Package engine implements the Context that owns every Tag, Entity, and
// (via internal/condensation) meta-node, and that orchestrates incremental
// and full condensation rebuilds as tags are related by implication.
//
// Context plays the same "owns everything, arena-indexed, no raw pointers"
// role that golang.org/x/tools/gopls/internal/cache.Session/Snapshot play
// for packages: all state lives in maps keyed by [ids.ID], never behind a
// pointer that could dangle across a meta-node collapse or a full rebuild.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/dymk/tagengine/internal/compiler"
	"github.com/dymk/tagengine/internal/condensation"
	"github.com/dymk/tagengine/internal/ids"
	"github.com/dymk/tagengine/internal/query"
)

// Context owns every Tag, Entity, and meta-node, and tracks whether the
// condensation is known to be up to date.
type Context struct {
	log *slog.Logger

	tagAlloc    *ids.Allocator
	entityAlloc *ids.Allocator

	tags     map[ids.ID]*Tag
	entities map[ids.ID]*Entity

	graph    *condensation.Graph
	compiler *compiler.Compiler
	dirty    bool
}

// Option configures a new Context.
type Option func(*Context)

// WithLogger attaches a structured logger; nil (the default) uses
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.log = l }
}

// NewContext returns an empty, clean Context.
func NewContext(opts ...Option) *Context {
	g := condensation.NewGraph()
	c := &Context{
		tagAlloc:    ids.NewAllocator(),
		entityAlloc: ids.NewAllocator(),
		tags:        make(map[ids.ID]*Tag),
		entities:    make(map[ids.ID]*Entity),
		graph:       g,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	c.compiler = compiler.New(g, tagCounts{c})
	return c
}

// tagCounts adapts Context to compiler.TagEntityCounts.
type tagCounts struct{ c *Context }

func (t tagCounts) EntityCount(id ids.ID) int64 {
	if tag := t.c.tags[id]; tag != nil {
		return int64(tag.entityCount)
	}
	return 0
}

// NewTag allocates a fresh tag id and returns it.
func (c *Context) NewTag() ids.ID {
	id := c.tagAlloc.Next()
	c.tags[id] = newTag(id)
	return id
}

// NewTagWithID allocates a tag with a caller-chosen id, failing with
// ErrDuplicateID if that id is already used.
func (c *Context) NewTagWithID(id ids.ID) error {
	if err := c.tagAlloc.Reserve(id); err != nil {
		return fmt.Errorf("new tag %d: %w", id, ErrDuplicateID)
	}
	c.tags[id] = newTag(id)
	return nil
}

// NewEntity allocates a fresh entity id and returns it.
func (c *Context) NewEntity() ids.ID {
	id := c.entityAlloc.Next()
	c.entities[id] = newEntity(id)
	return id
}

// NewEntityWithID allocates an entity with a caller-chosen id, failing with
// ErrDuplicateID if that id is already used.
func (c *Context) NewEntityWithID(id ids.ID) error {
	if err := c.entityAlloc.Reserve(id); err != nil {
		return fmt.Errorf("new entity %d: %w", id, ErrDuplicateID)
	}
	c.entities[id] = newEntity(id)
	return nil
}

// TagByID looks up a tag, failing with ErrNotFound if absent.
func (c *Context) TagByID(id ids.ID) (*Tag, error) {
	t, ok := c.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	return t, nil
}

// EntityByID looks up an entity, failing with ErrNotFound if absent.
func (c *Context) EntityByID(id ids.ID) (*Entity, error) {
	e, ok := c.entities[id]
	if !ok {
		return nil, fmt.Errorf("entity %d: %w", id, ErrNotFound)
	}
	return e, nil
}

// NumTags returns the number of tags in the context.
func (c *Context) NumTags() int { return len(c.tags) }

// NumEntities returns the number of entities in the context.
func (c *Context) NumEntities() int { return len(c.entities) }

// IsDirty reports whether the condensation is known to be stale.
func (c *Context) IsDirty() bool { return c.dirty }

// MarkDirty forces the condensation to be rebuilt before the next query.
func (c *Context) MarkDirty() { c.dirty = true }

// MetaNodeOf reports tag's current meta-node, if any.
func (c *Context) MetaNodeOf(tag ids.ID) (condensation.MetaID, bool) {
	return c.graph.MetaNodeOf(tag)
}

// Condensation exposes the underlying condensation graph read-only, for
// callers (pkg/tagengine's Inspect) that report its meta-nodes.
func (c *Context) Condensation() *condensation.Graph { return c.graph }

// AddTagToEntity attaches tag to entity, returning whether the tag set
// actually changed.
func (c *Context) AddTagToEntity(entityID, tagID ids.ID) (bool, error) {
	e, err := c.EntityByID(entityID)
	if err != nil {
		return false, err
	}
	t, err := c.TagByID(tagID)
	if err != nil {
		return false, err
	}
	if !e.addTag(tagID) {
		return false, nil
	}
	t.entityCount++
	return true, nil
}

// RemoveTagFromEntity detaches tag from entity, returning whether the tag
// set actually changed.
func (c *Context) RemoveTagFromEntity(entityID, tagID ids.ID) (bool, error) {
	e, err := c.EntityByID(entityID)
	if err != nil {
		return false, err
	}
	t, err := c.TagByID(tagID)
	if err != nil {
		return false, err
	}
	if !e.removeTag(tagID) {
		return false, nil
	}
	t.entityCount--
	return true, nil
}

// buildSnapshot constructs a query.Snapshot for e's direct tag set.
func (c *Context) buildSnapshot(e *Entity) *query.Snapshot {
	return query.NewSnapshot(e.Tags(), func(t ids.ID) (query.MetaID, bool) {
		m, ok := c.graph.MetaNodeOf(t)
		return query.MetaID(m), ok
	})
}

// Compiler returns the literal/query compiler bound to this context's
// condensation (pkg/tagengine uses it to translate the external clause AST).
func (c *Context) Compiler() *compiler.Compiler { return c.compiler }

// Logger returns the context's logger.
func (c *Context) Logger() *slog.Logger { return c.log }

func (c *Context) bug(format string, args ...any) { bug(c.log, format, args...) }
