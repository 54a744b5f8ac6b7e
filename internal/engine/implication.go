package engine

import (
	"github.com/dymk/tagengine/internal/condensation"
	"github.com/dymk/tagengine/internal/ids"
)

// Imply asserts a ⇒ b, returning false if the edge already existed:
// idempotent, never forcing a rebuild on its own. Every case of a new edge
// can be folded into the condensation incrementally — adding an edge never
// forces a full rebuild.
func (c *Context) Imply(a, b ids.ID) (bool, error) {
	ta, err := c.TagByID(a)
	if err != nil {
		return false, err
	}
	tb, err := c.TagByID(b)
	if err != nil {
		return false, err
	}
	if _, exists := ta.implies[b]; exists {
		return false, nil
	}
	ta.implies[b] = struct{}{}
	tb.impliedBy[a] = struct{}{}
	c.compiler.Invalidate()

	if c.dirty {
		// The condensation is already stale; make_clean will rebuild from the
		// raw tag graph regardless, so there's no point folding this edge in
		// incrementally.
		return true, nil
	}

	collapsed := c.graph.Link(a, b)
	if collapsed {
		c.log.Debug("implication closed a cycle; meta-nodes collapsed", "a", a, "b", b)
	}
	return true, nil
}

// Unimply retracts a ⇒ b, returning false if the edge did not exist.
// Removing an edge internal to one meta-node can fracture its SCC, which
// the incremental path cannot resolve safely, so it marks the context
// dirty and defers to the next make_clean.
func (c *Context) Unimply(a, b ids.ID) (bool, error) {
	ta, err := c.TagByID(a)
	if err != nil {
		return false, err
	}
	tb, err := c.TagByID(b)
	if err != nil {
		return false, err
	}
	if _, exists := ta.implies[b]; !exists {
		return false, nil
	}
	delete(ta.implies, b)
	delete(tb.impliedBy, a)
	c.compiler.Invalidate()

	if c.dirty {
		// Incremental updates are disabled outright once the context is
		// already dirty; make_clean will rebuild from the raw tag graph
		// regardless.
		return true, nil
	}

	ma, aok := c.graph.MetaNodeOf(a)
	mb, bok := c.graph.MetaNodeOf(b)
	if !aok || !bok {
		c.bug("unimply(%d, %d): raw edge existed but a tag had no meta-node", a, b)
	}

	if c.graph.SameComponent(a, b) {
		c.dirty = true
		c.log.Debug("unimply removed an intra-SCC edge; marking dirty", "a", a, "b", b)
		return true, nil
	}

	if c.otherEdgeSurvives(ma, mb) {
		return true, nil
	}
	c.graph.Unlink(ma, mb)
	return true, nil
}

// otherEdgeSurvives reports whether some tag inside ma still directly
// implies some tag inside mb, other than the edge the caller just removed:
// if so, the condensation edge between ma and mb remains.
func (c *Context) otherEdgeSurvives(ma, mb condensation.MetaID) bool {
	bTags := make(map[ids.ID]struct{})
	for _, t := range c.graph.TagsOf(mb) {
		bTags[t] = struct{}{}
	}
	for _, a := range c.graph.TagsOf(ma) {
		tag := c.tags[a]
		if tag == nil {
			continue
		}
		for out := range tag.implies {
			if _, ok := bTags[out]; ok {
				return true
			}
		}
	}
	return false
}
