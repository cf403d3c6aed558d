/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package highlight

// Span is a piece of jq filter text, tagged when it names a builtin.
type Span struct {
	Text         string `json:"text"`
	IsFunction   bool   `json:"isFunction"`
	FunctionName string `json:"functionName,omitempty"`
}

// Filter splits a jq filter into spans, marking every recognized builtin name.
//
// Matching is purely lexical: a builtin name used as an object key or inside a
// string literal is still reported as a function.
func Filter(source string) []Span {
	var spans []Span
	last := 0

	for _, loc := range FunctionPattern.FindAllStringIndex(source, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: source[last:loc[0]]})
		}
		name := source[loc[0]:loc[1]]
		spans = append(spans, Span{Text: name, IsFunction: true, FunctionName: name})
		last = loc[1]
	}

	if last < len(source) {
		spans = append(spans, Span{Text: source[last:]})
	}
	return spans
}

// FunctionsIn returns the distinct builtins referenced by a filter, in order of first use.
func FunctionsIn(source string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, span := range Filter(source) {
		if span.IsFunction && !seen[span.FunctionName] {
			seen[span.FunctionName] = true
			names = append(names, span.FunctionName)
		}
	}
	return names
}
