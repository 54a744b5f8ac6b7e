package engine

import "github.com/dymk/tagengine/internal/ids"

// Entity is an element bearing a set of directly attached tags.
type Entity struct {
	id   ids.ID
	tags map[ids.ID]struct{}
}

func newEntity(id ids.ID) *Entity {
	return &Entity{id: id, tags: make(map[ids.ID]struct{})}
}

// ID returns the entity's identifier.
func (e *Entity) ID() ids.ID { return e.id }

// Tags returns the ids of this entity's directly attached tags.
func (e *Entity) Tags() []ids.ID { return keys(e.tags) }

// HasTag reports whether t is directly attached to this entity.
func (e *Entity) HasTag(t ids.ID) bool {
	_, ok := e.tags[t]
	return ok
}

// addTag inserts t into e's tag set, returning whether it was newly
// present.
func (e *Entity) addTag(t ids.ID) bool {
	if _, ok := e.tags[t]; ok {
		return false
	}
	e.tags[t] = struct{}{}
	return true
}

// removeTag removes t from e's tag set, returning whether it was actually
// removed.
func (e *Entity) removeTag(t ids.ID) bool {
	if _, ok := e.tags[t]; !ok {
		return false
	}
	delete(e.tags, t)
	return true
}
