/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Shared regex patterns for the tokenizers.
// The JSON pattern needs lookahead to tell keys from strings, which RE2 cannot express,
// so it runs on regexp2 in ECMAScript mode.

// jsonStringPattern matches a quoted JSON string, including escapes.
const jsonStringPattern = `"(?:\\.|[^"\\])*"`

// JSONTokenPattern matches one JSON token. Order matters: keys must be matched before generic strings.
var JSONTokenPattern = regexp2.MustCompile(
	jsonStringPattern+`(?=\s*:)`+
		`|`+jsonStringPattern+
		`|-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`+
		`|\btrue\b|\bfalse\b|\bnull\b`+
		`|[{}[\],:]`,
	regexp2.ECMAScript,
)

// FunctionPattern matches any recognized jq builtin as a whole identifier.
var FunctionPattern = functionPattern(functionNames)

// functionPattern builds a word-bounded alternation over names, longest first
// so that sort_by is preferred over sort at the same position.
func functionPattern(names []string) *regexp.Regexp {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, len(sorted))
	for i, name := range sorted {
		quoted[i] = regexp.QuoteMeta(name)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
