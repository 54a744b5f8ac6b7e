// Package scenario loads a YAML fixture describing tags, their
// implications, entity tag assignments, and named queries, and applies it
// to a [tagengine.Context]: a worked scenario a user can hand-write once
// and replay, the way golang-tools' cmd/* tools take a package pattern on
// the command line rather than requiring a Go program to drive the API.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dymk/tagengine/pkg/tagengine"
)

// Clause is the YAML-friendly mirror of tagengine.Clause: a string Op
// instead of an enum, since YAML has no native notion of Go's ClauseOp
// constants.
type Clause struct {
	Op    string  `yaml:"op"`
	Tag   int     `yaml:"tag,omitempty"`
	Left  *Clause `yaml:"left,omitempty"`
	Right *Clause `yaml:"right,omitempty"`
}

// ToClause translates the YAML clause into a tagengine.Clause, failing if
// Op doesn't name one of literal/not/and/or/any.
func (c *Clause) ToClause() (*tagengine.Clause, error) {
	if c == nil {
		return nil, fmt.Errorf("scenario: nil clause")
	}
	switch c.Op {
	case "literal":
		return tagengine.Literal(c.Tag), nil
	case "any":
		return tagengine.Any(), nil
	case "not":
		left, err := c.Left.ToClause()
		if err != nil {
			return nil, err
		}
		return tagengine.Not(left), nil
	case "and", "or":
		left, err := c.Left.ToClause()
		if err != nil {
			return nil, err
		}
		right, err := c.Right.ToClause()
		if err != nil {
			return nil, err
		}
		if c.Op == "and" {
			return tagengine.And(left, right), nil
		}
		return tagengine.Or(left, right), nil
	default:
		return nil, fmt.Errorf("scenario: unknown clause op %q", c.Op)
	}
}

// Implication is one tag-implies-tag edge to assert.
type Implication struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Assignment attaches a tag directly to an entity.
type Assignment struct {
	Entity int `yaml:"entity"`
	Tag    int `yaml:"tag"`
}

// NamedQuery pairs a human-readable label with a clause to run.
type NamedQuery struct {
	Name   string `yaml:"name"`
	Clause Clause `yaml:"clause"`
}

// Scenario is the root of the YAML document: a self-contained fixture a
// Context can be built from and queried against.
type Scenario struct {
	Tags        []int         `yaml:"tags"`
	Entities    []int         `yaml:"entities"`
	Implies     []Implication `yaml:"implications"`
	Assignments []Assignment  `yaml:"tag_assignments"`
	Queries     []NamedQuery  `yaml:"queries"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parsing %s: %w", path, err)
	}
	return &s, nil
}

// Apply builds every tag, entity, implication, and tag assignment named in
// the scenario against a fresh ctx, in declaration order.
func (s *Scenario) Apply(ctx *tagengine.Context) error {
	for _, id := range s.Tags {
		id := id
		if _, err := ctx.NewTag(&id); err != nil {
			return fmt.Errorf("scenario: tag %d: %w", id, err)
		}
	}
	for _, id := range s.Entities {
		id := id
		if _, err := ctx.NewEntity(&id); err != nil {
			return fmt.Errorf("scenario: entity %d: %w", id, err)
		}
	}
	for _, im := range s.Implies {
		if _, err := ctx.ImplyTag(im.From, im.To); err != nil {
			return fmt.Errorf("scenario: imply %d -> %d: %w", im.From, im.To, err)
		}
	}
	for _, a := range s.Assignments {
		if _, err := ctx.AddTag(a.Entity, a.Tag); err != nil {
			return fmt.Errorf("scenario: add_tag(entity=%d, tag=%d): %w", a.Entity, a.Tag, err)
		}
	}
	return nil
}
