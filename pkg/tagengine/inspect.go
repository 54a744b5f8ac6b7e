package tagengine

import (
	"github.com/dymk/tagengine/internal/condensation"
	"github.com/dymk/tagengine/internal/engine"
)

// MetaNodeReport describes one condensation meta-node for diagnostic
// tooling (the tagengine CLI's inspect command): its member tags, and the
// meta-nodes it points at and is pointed at by.
type MetaNodeReport struct {
	Tags     []ID
	Children []ID
	Parents  []ID
	Sink     bool
}

// CondensationReport is a snapshot of every meta-node.
type CondensationReport struct {
	Dirty     bool
	MetaNodes []MetaNodeReport
}

// Inspect reports the current condensation shape without forcing a
// rebuild. If Dirty is true, the meta-nodes below reflect the condensation
// as of the last reconciliation, which may be stale relative to the
// current tags/entities; run a query first to force reconciliation if a
// fresh view is needed.
func (c *Context) Inspect() CondensationReport {
	var report CondensationReport
	c.guard.Peek(func(e *engine.Context) error {
		report.Dirty = e.IsDirty()
		g := e.Condensation()

		sinks := make(map[int]bool)
		for _, s := range g.Sinks() {
			sinks[int(s)] = true
		}

		for _, m := range g.AllMetaIDs() {
			report.MetaNodes = append(report.MetaNodes, MetaNodeReport{
				Tags:     toIDs(g.TagsOf(m)),
				Children: metaIDsToInts(g.Children(m)),
				Parents:  metaIDsToInts(g.Parents(m)),
				Sink:     sinks[int(m)],
			})
		}
		return nil
	})
	return report
}

func metaIDsToInts(in []condensation.MetaID) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}
