/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package highlight_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bennypowers.dev/learnjq/highlight"
)

func join(tokens []highlight.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

func TestJSON_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"object", `{"a":1}`},
		{"pretty", "{\n  \"users\": [\n    {\n      \"name\": \"Alice\",\n      \"age\": 30\n    }\n  ]\n}"},
		{"escapes", `{"q\"uote":"back\\slash","tab":"\t"}`},
		{"unicode", `{"名前":"太郎","emoji":"🎉"}`},
		{"numbers", `[-1, 2.5, 3e10, -4.25E-3, 0]`},
		{"literals", `[true, false, null]`},
		{"malformed", `{"a": tru, "b": "unterminated`},
		{"plain text", "not json at all"},
		{"crlf", "{\r\n  \"a\": 1\r\n}"},
		{"invalid utf-8", "{\"a\": \"\xff\xfe\"}"},
		{"invalid utf-8 outside tokens", "\xff{\"a\":\x80 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := join(highlight.JSON(tt.source))
			if got != tt.source {
				t.Errorf("round trip mismatch:\n got: %q\nwant: %q", got, tt.source)
			}
		})
	}
}

func TestJSON_KeyVersusString(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []highlight.Token
	}{
		{
			"object key",
			`{"a":1}`,
			[]highlight.Token{
				{Kind: highlight.KindPunctuation, Text: "{"},
				{Kind: highlight.KindKey, Text: `"a"`},
				{Kind: highlight.KindPunctuation, Text: ":"},
				{Kind: highlight.KindNumber, Text: "1"},
				{Kind: highlight.KindPunctuation, Text: "}"},
			},
		},
		{
			"array string",
			`["a"]`,
			[]highlight.Token{
				{Kind: highlight.KindPunctuation, Text: "["},
				{Kind: highlight.KindString, Text: `"a"`},
				{Kind: highlight.KindPunctuation, Text: "]"},
			},
		},
		{
			"key with whitespace before colon",
			`{"a" : "b"}`,
			[]highlight.Token{
				{Kind: highlight.KindPunctuation, Text: "{"},
				{Kind: highlight.KindKey, Text: `"a"`},
				{Kind: highlight.KindText, Text: " "},
				{Kind: highlight.KindPunctuation, Text: ":"},
				{Kind: highlight.KindText, Text: " "},
				{Kind: highlight.KindString, Text: `"b"`},
				{Kind: highlight.KindPunctuation, Text: "}"},
			},
		},
		{
			"key across newline",
			"{\"a\"\n:null}",
			[]highlight.Token{
				{Kind: highlight.KindPunctuation, Text: "{"},
				{Kind: highlight.KindKey, Text: `"a"`},
				{Kind: highlight.KindText, Text: "\n"},
				{Kind: highlight.KindPunctuation, Text: ":"},
				{Kind: highlight.KindNull, Text: "null"},
				{Kind: highlight.KindPunctuation, Text: "}"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := highlight.JSON(tt.source)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("JSON(%q) mismatch (-want +got):\n%s", tt.source, diff)
			}
		})
	}
}

func TestJSON_Literals(t *testing.T) {
	tests := []struct {
		source string
		kind   highlight.Kind
	}{
		{"true", highlight.KindBoolean},
		{"false", highlight.KindBoolean},
		{"null", highlight.KindNull},
		{"-12.5e+3", highlight.KindNumber},
		{"0", highlight.KindNumber},
		{",", highlight.KindPunctuation},
		{"nullable", highlight.KindText},
		{"truest", highlight.KindText},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tokens := highlight.JSON(tt.source)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d: %v", len(tokens), tokens)
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("JSON(%q) kind = %s, want %s", tt.source, tokens[0].Kind, tt.kind)
			}
		})
	}
}

func TestJSON_UnicodeOffsets(t *testing.T) {
	tokens := highlight.JSON(`{"名前": "値"}`)
	var keys, strs []string
	for _, tok := range tokens {
		switch tok.Kind {
		case highlight.KindKey:
			keys = append(keys, tok.Text)
		case highlight.KindString:
			strs = append(strs, tok.Text)
		}
	}
	if diff := cmp.Diff([]string{`"名前"`}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{`"値"`}, strs); diff != "" {
		t.Errorf("strings mismatch (-want +got):\n%s", diff)
	}
}
