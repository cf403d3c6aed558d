/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package highlight provides the cosmetic tokenizers used to colour JSON
// documents and to turn jq builtin names into manual links.
//
// None of these functions validate their input. Concatenating the Text of
// the returned tokens always reproduces the source exactly.
package highlight

import (
	"unicode"
	"unicode/utf8"
)

// Kind classifies a JSON token for colouring.
type Kind string

const (
	KindKey         Kind = "key"
	KindString      Kind = "string"
	KindNumber      Kind = "number"
	KindBoolean     Kind = "boolean"
	KindNull        Kind = "null"
	KindPunctuation Kind = "punctuation"
	KindText        Kind = "text"
)

// Kinds lists every token kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindKey, KindString, KindNumber, KindBoolean, KindNull, KindPunctuation, KindText}
}

// Token is a classified span of JSON source text.
type Token struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// JSON splits source into classified tokens. Whitespace and anything the
// pattern does not recognize is emitted as KindText, so malformed input
// degrades to more text tokens rather than an error.
func JSON(source string) []Token {
	if source == "" {
		return nil
	}

	// regexp2 reports match positions in runes. Text is cut from source by
	// byte offset so bytes that are not valid UTF-8 survive untouched.
	runes := []rune(source)
	offsets := byteOffsets(source, len(runes))
	span := func(from, to int) string { return source[offsets[from]:offsets[to]] }

	var tokens []Token
	last := 0

	m, err := JSONTokenPattern.FindRunesMatch(runes)
	for err == nil && m != nil {
		if m.Index > last {
			tokens = append(tokens, Token{Kind: KindText, Text: span(last, m.Index)})
		}
		end := m.Index + m.Length
		text := span(m.Index, end)
		tokens = append(tokens, Token{Kind: classify(text, runes[end:]), Text: text})
		last = end
		m, err = JSONTokenPattern.FindNextMatch(m)
	}

	if last < len(runes) {
		tokens = append(tokens, Token{Kind: KindText, Text: span(last, len(runes))})
	}
	return tokens
}

// byteOffsets maps each rune index of source, plus the end, to its byte
// offset. An invalid byte counts as one rune, as it does in []rune(source).
func byteOffsets(source string, n int) []int {
	offsets := make([]int, 0, n+1)
	for i := 0; i < len(source); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(source[i:])
		i += size
	}
	return append(offsets, len(source))
}

// classify decides the kind of a matched token. rest is the source after the match,
// used to tell an object key from a string value.
func classify(text string, rest []rune) Kind {
	switch {
	case text == "true" || text == "false":
		return KindBoolean
	case text == "null":
		return KindNull
	case len(text) == 1 && isPunctuation(text[0]):
		return KindPunctuation
	case text[0] == '"':
		if nextNonSpace(rest) == ':' {
			return KindKey
		}
		return KindString
	default:
		return KindNumber
	}
}

func isPunctuation(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}

func nextNonSpace(rest []rune) rune {
	for _, r := range rest {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			continue
		}
		return r
	}
	return 0
}
