/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidLocation indicates an address that names no stage.
var ErrInvalidLocation = errors.New("invalid location")

// StagesPath prefixes every stage location.
const StagesPath = "/stages/"

// Location is the shareable address of a stage and filter:
// /stages/{id}?filter={text}.
type Location struct {
	// StageID is empty for the root location, which means the default stage.
	StageID string

	// Filter is the filter text when HasFilter is set.
	Filter string

	// HasFilter distinguishes an empty filter from a missing one, which
	// means the stage's default filter.
	HasFilter bool
}

// ParseLocation parses a path with optional query, or a full URL.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}

	var loc Location
	switch {
	case u.Path == "" || u.Path == "/":
	case strings.HasPrefix(u.Path, StagesPath):
		id := strings.TrimSuffix(strings.TrimPrefix(u.Path, StagesPath), "/")
		if id == "" || strings.Contains(id, "/") {
			return Location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
		}
		loc.StageID = id
	default:
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidLocation, raw)
	}

	query := u.Query()
	if query.Has("filter") {
		loc.Filter = query.Get("filter")
		loc.HasFilter = true
	}
	return loc, nil
}

// String renders the location as a path and query.
func (l Location) String() string {
	var b strings.Builder
	if l.StageID == "" {
		b.WriteString("/")
	} else {
		b.WriteString(StagesPath)
		b.WriteString(url.PathEscape(l.StageID))
	}
	if l.HasFilter {
		b.WriteString("?filter=")
		b.WriteString(url.QueryEscape(l.Filter))
	}
	return b.String()
}
