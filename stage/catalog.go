/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stage

import (
	"fmt"
	"slices"
)

// Catalog is an ordered, read-only set of stages.
type Catalog struct {
	stages []*Stage
	index  map[string]int
}

// NewCatalog builds a catalog in the given order. IDs must be unique.
func NewCatalog(stages ...*Stage) (*Catalog, error) {
	if len(stages) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		stages: slices.Clone(stages),
		index:  make(map[string]int, len(stages)),
	}
	for i, s := range c.stages {
		if prev, ok := c.index[s.ID()]; ok {
			return nil, fmt.Errorf("%w: %s (%s and %s)", ErrDuplicateStage, s.ID(), c.stages[prev].Source(), s.Source())
		}
		c.index[s.ID()] = i
	}
	return c, nil
}

// All returns the stages in order.
func (c *Catalog) All() []*Stage {
	return slices.Clone(c.stages)
}

// Len returns the number of stages.
func (c *Catalog) Len() int {
	return len(c.stages)
}

// IDs returns the stage IDs in order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.stages))
	for i, s := range c.stages {
		ids[i] = s.ID()
	}
	return ids
}

// Lookup returns the stage with the given ID.
func (c *Catalog) Lookup(id string) (*Stage, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	return c.stages[i], nil
}

// Default returns the first stage.
func (c *Catalog) Default() *Stage {
	return c.stages[0]
}

// Next returns the stage after id, wrapping to the first.
func (c *Catalog) Next(id string) (*Stage, error) {
	return c.offset(id, 1)
}

// Prev returns the stage before id, wrapping to the last.
func (c *Catalog) Prev(id string) (*Stage, error) {
	return c.offset(id, -1)
}

func (c *Catalog) offset(id string, delta int) (*Stage, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	n := len(c.stages)
	return c.stages[((i+delta)%n+n)%n], nil
}
