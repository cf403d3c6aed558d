/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package highlight

import "slices"

// DefaultManualBase is the jq manual that function links point at.
const DefaultManualBase = "https://jqlang.org/manual/"

// functionNames are the documentation-linkable jq builtins.
var functionNames = []string{
	// basic filters
	"map", "select", "empty",

	// conversions
	"tonumber", "tostring", "toarray",

	// arrays
	"length", "reverse", "sort", "sort_by", "group_by", "unique", "unique_by",
	"max", "min", "max_by", "min_by", "add", "flatten",

	// strings
	"split", "join", "startswith", "endswith", "contains", "test", "match",

	// objects
	"keys", "keys_unsorted", "values", "has", "in",

	// math
	"floor", "ceil", "round", "sqrt",

	// other
	"type", "not", "and", "or", "any", "all", "range", "recurse", "paths",
	"to_entries", "from_entries", "with_entries",
}

// functionAnchors maps builtins documented together to their shared manual anchor.
var functionAnchors = map[string]string{
	"map":           "map-map_values",
	"keys":          "keys-keys_unsorted",
	"keys_unsorted": "keys-keys_unsorted",
	"sort":          "sort-sort_by",
	"sort_by":       "sort-sort_by",
	"unique":        "unique-unique_by",
	"unique_by":     "unique-unique_by",
	"max":           "min-max-min_by-max_by",
	"min":           "min-max-min_by-max_by",
	"max_by":        "min-max-min_by-max_by",
	"min_by":        "min-max-min_by-max_by",
	"to_entries":    "to_entries-from_entries-with_entries",
	"from_entries":  "to_entries-from_entries-with_entries",
	"with_entries":  "to_entries-from_entries-with_entries",
}

// Functions returns the recognized builtin names in declaration order.
func Functions() []string {
	return slices.Clone(functionNames)
}

// IsFunction reports whether name is a recognized builtin.
func IsFunction(name string) bool {
	return slices.Contains(functionNames, name)
}

// Anchor returns the manual anchor documenting name.
func Anchor(name string) string {
	if anchor, ok := functionAnchors[name]; ok {
		return anchor
	}
	return name
}

// Manual builds links into a copy of the jq manual.
type Manual struct {
	// Base is the manual page URL, without a fragment.
	Base string
}

// DefaultManual links into the upstream jq manual.
var DefaultManual = Manual{Base: DefaultManualBase}

// URL returns the manual link for a builtin.
func (m Manual) URL(name string) string {
	base := m.Base
	if base == "" {
		base = DefaultManualBase
	}
	return base + "#" + Anchor(name)
}
