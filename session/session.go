/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package session tracks one learner's current stage, filter text, and
// evaluation outcome.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/stage"
)

// Options configures a Session.
type Options struct {
	// ID identifies the session. A random UUID is used when empty.
	ID string

	// Debounce is passed to the pipeline.
	Debounce time.Duration

	// Messages localises outcome text.
	Messages *i18n.Printer
}

// Session is the state of one learner. It is safe for concurrent use.
type Session struct {
	id      string
	catalog *stage.Catalog
	pipe    *pipeline.Pipeline

	mu     sync.Mutex
	stage  *stage.Stage
	filter string
}

// Snapshot is a consistent view of a session.
type Snapshot struct {
	ID         string           `json:"id"`
	StageID    string           `json:"stage"`
	Filter     string           `json:"filter"`
	Location   string           `json:"location"`
	Generation uint64           `json:"generation"`
	Outcome    pipeline.Outcome `json:"outcome"`
}

// New starts a session on the catalog's default stage with its default filter,
// and submits that input for evaluation. publish receives pipeline updates.
func New(catalog *stage.Catalog, eval engine.Engine, publish func(pipeline.Update), opts Options) *Session {
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	s := &Session{
		id:      id,
		catalog: catalog,
		pipe: pipeline.New(eval, publish, pipeline.Options{
			Debounce: opts.Debounce,
			Messages: opts.Messages,
		}),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.enterLocked(catalog.Default(), catalog.Default().DefaultFilter())
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Catalog returns the catalog the session navigates.
func (s *Session) Catalog() *stage.Catalog {
	return s.catalog
}

// Stage returns the current stage.
func (s *Session) Stage() *stage.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Filter returns the current filter text.
func (s *Session) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Outcome returns the current outcome.
func (s *Session) Outcome() pipeline.Outcome {
	return s.pipe.Outcome()
}

// Generation returns the pipeline generation of the current input.
func (s *Session) Generation() uint64 {
	return s.pipe.Generation()
}

// SetFilter replaces the filter text, as typed by the learner.
func (s *Session) SetFilter(text string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = text
	return s.pipe.Submit(s.inputLocked())
}

// SelectStage switches to stage id, resetting the filter to its default and the
// outcome to the placeholder. The placeholder is returned.
func (s *Session) SelectStage(id string) (pipeline.Outcome, error) {
	st, err := s.catalog.Lookup(id)
	if err != nil {
		return pipeline.Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enterLocked(st, st.DefaultFilter()), nil
}

// Navigate applies an address, such as one restored by back/forward
// navigation. A stage change resets the outcome; a filter change on the
// same stage behaves like typing.
func (s *Session) Navigate(raw string) (pipeline.Outcome, error) {
	loc, err := ParseLocation(raw)
	if err != nil {
		return pipeline.Outcome{}, err
	}

	st := s.catalog.Default()
	if loc.StageID != "" {
		st, err = s.catalog.Lookup(loc.StageID)
		if err != nil {
			return pipeline.Outcome{}, err
		}
	}
	filter := st.DefaultFilter()
	if loc.HasFilter {
		filter = loc.Filter
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st == s.stage {
		if filter != s.filter {
			s.filter = filter
			s.pipe.Submit(s.inputLocked())
		}
		return s.pipe.Outcome(), nil
	}
	return s.enterLocked(st, filter), nil
}

// Location returns the shareable address of the current stage and filter.
func (s *Session) Location() Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locationLocked()
}

// Snapshot returns the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		StageID:    s.stage.ID(),
		Filter:     s.filter,
		Location:   s.locationLocked().String(),
		Generation: s.pipe.Generation(),
		Outcome:    s.pipe.Outcome(),
	}
}

// Close stops the session's pipeline.
func (s *Session) Close() {
	s.pipe.Close()
}

func (s *Session) enterLocked(st *stage.Stage, filter string) pipeline.Outcome {
	s.stage = st
	s.filter = filter
	return s.pipe.Reset(s.inputLocked())
}

func (s *Session) inputLocked() pipeline.Input {
	return pipeline.Input{Document: s.stage.InputText(), Filter: s.filter}
}

func (s *Session) locationLocked() Location {
	return Location{StageID: s.stage.ID(), Filter: s.filter, HasFilter: true}
}
