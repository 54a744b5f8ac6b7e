package engine

import "github.com/dymk/tagengine/internal/ids"

// Tag is a label with identity, membership in the implication graph, and a
// count of entities that directly carry it. Its meta-node
// membership is not stored here — [Context] delegates that to
// [internal/condensation.Graph], the single source of truth, so the two
// never fall out of sync.
type Tag struct {
	id          ids.ID
	implies     map[ids.ID]struct{}
	impliedBy   map[ids.ID]struct{}
	entityCount int
}

func newTag(id ids.ID) *Tag {
	return &Tag{
		id:        id,
		implies:   make(map[ids.ID]struct{}),
		impliedBy: make(map[ids.ID]struct{}),
	}
}

// ID returns the tag's identifier.
func (t *Tag) ID() ids.ID { return t.id }

// EntityCount returns the number of entities directly labeled with this tag.
func (t *Tag) EntityCount() int { return t.entityCount }

// Implies returns the ids this tag directly implies (a snapshot copy; the
// caller may not mutate engine state through it).
func (t *Tag) Implies() []ids.ID { return keys(t.implies) }

// ImpliedBy returns the ids that directly imply this tag.
func (t *Tag) ImpliedBy() []ids.ID { return keys(t.impliedBy) }

func keys(m map[ids.ID]struct{}) []ids.ID {
	out := make([]ids.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
