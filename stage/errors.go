/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stage

import "errors"

// Sentinel errors for stage operations.
var (
	// ErrUnknownStage indicates no stage has the requested ID.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrDuplicateStage indicates two stages share an ID.
	ErrDuplicateStage = errors.New("duplicate stage")

	// ErrInvalidDocument indicates a stage fixture is not valid JSON.
	ErrInvalidDocument = errors.New("invalid stage document")

	// ErrMissingField indicates a stage definition lacks a required field.
	ErrMissingField = errors.New("missing stage field")

	// ErrEmptyCatalog indicates a catalog with no stages.
	ErrEmptyCatalog = errors.New("catalog has no stages")
)
