package engine

import (
	"github.com/dymk/tagengine/internal/condensation"
	"github.com/dymk/tagengine/internal/ids"
)

// TagKind distinguishes a directly-attached tag from one that applies only
// transitively, via implication.
type TagKind int

const (
	Direct TagKind = iota
	Implied
)

// EntityTag is one row of an entity_tags result: a tag that applies to an
// entity, either directly or by implication, and — for the implied case —
// the directly-present tags responsible (grounded on
// original_source/c_src/erl_api.cc).
type EntityTag struct {
	Kind     TagKind
	Tag      ids.ID
	Impliers []ids.ID // nil for Kind == Direct
}

// EntityTags computes every tag that applies to entityID, direct and
// implied, with impliers recorded for each implied tag.
func (c *Context) EntityTags(entityID ids.ID) ([]EntityTag, error) {
	e, err := c.EntityByID(entityID)
	if err != nil {
		return nil, err
	}

	direct := e.Tags()
	out := make([]EntityTag, 0, len(direct))
	for _, d := range direct {
		out = append(out, EntityTag{Kind: Direct, Tag: d})
	}

	impliers := make(map[ids.ID]map[ids.ID]struct{})
	for _, d := range direct {
		m, ok := c.graph.MetaNodeOf(d)
		if !ok {
			continue
		}
		// Walk child edges: d's tags apply the tags of every meta-node
		// reachable from d's own (its SCC included).
		seen := map[condensation.MetaID]bool{m: true}
		stack := []condensation.MetaID{m}
		for len(stack) > 0 {
			mid := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, child := range c.graph.Children(mid) {
				if !seen[child] {
					seen[child] = true
					stack = append(stack, child)
				}
			}
			for _, t := range c.graph.TagsOf(mid) {
				if e.HasTag(t) {
					continue // already listed as Direct
				}
				if impliers[t] == nil {
					impliers[t] = make(map[ids.ID]struct{})
				}
				impliers[t][d] = struct{}{}
			}
		}
	}

	for t, causers := range impliers {
		out = append(out, EntityTag{Kind: Implied, Tag: t, Impliers: keys(causers)})
	}
	return out, nil
}
