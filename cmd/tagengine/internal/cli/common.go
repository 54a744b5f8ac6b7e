package cli

import (
	"fmt"

	"github.com/dymk/tagengine/cmd/tagengine/internal/scenario"
	"github.com/dymk/tagengine/pkg/tagengine"
)

// loadContext parses the scenario at path and applies it to a fresh
// Context, returning both so callers can also inspect the named queries.
func loadContext(path string) (*tagengine.Context, *scenario.Scenario, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return nil, nil, err
	}
	ctx := tagengine.NewContext()
	if err := s.Apply(ctx); err != nil {
		return nil, nil, err
	}
	return ctx, s, nil
}

func findQuery(s *scenario.Scenario, name string) (*scenario.NamedQuery, error) {
	for i := range s.Queries {
		if s.Queries[i].Name == name {
			return &s.Queries[i], nil
		}
	}
	return nil, fmt.Errorf("no query named %q in scenario", name)
}
