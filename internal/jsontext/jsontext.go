/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package jsontext renders JSON values the way every learnjq surface displays them.
package jsontext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/itchyny/gojq"
	"github.com/tidwall/jsonc"
)

// Indentation used for all pretty-printed documents.
const Indentation = "  "

// ErrTrailingData is returned by Decode when more text follows the first value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// ValueOptions compares decoded values by meaning: numbers are equal when
// their decimal values are, however they were spelled.
var ValueOptions = cmp.Options{cmp.Comparer(numbersEqual)}

// Marshal pretty-prints v with two-space indentation, using jq's encoding:
// object keys are sorted, NaN is null, infinities clamp to the largest float,
// HTML characters are left as is, and there is no trailing newline.
// A json.RawMessage is re-indented without being reordered.
func Marshal(v any) (string, error) {
	raw, err := encode(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", Indentation); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encode(v any) (raw []byte, err error) {
	if msg, ok := v.(json.RawMessage); ok {
		return msg, nil
	}
	// gojq.Marshal panics on types jq values never hold.
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("cannot encode %T: %v", v, r)
		}
	}()
	return gojq.Marshal(v)
}

// Stream pretty-prints each value and joins them with newlines, like jq's output stream.
// An empty stream renders as the empty string.
func Stream(values []any) (string, error) {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, err := Marshal(v)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n"), nil
}

// Indent re-indents raw JSON while preserving its key order.
// Comments and trailing commas are stripped first.
func Indent(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(jsonc.ToJSON(raw)), "", Indentation); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Decode strictly parses a single JSON value. Numbers decode as json.Number so
// integers beyond float64 precision survive. Comments, trailing commas and
// trailing values are errors.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

// DecodeStream parses whitespace-separated JSON values, as jq prints them.
func DecodeStream(text string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	values := []any{}
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
}

// Equal reports whether two decoded values are the same JSON value.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, ValueOptions)
}

func numbersEqual(a, b json.Number) bool {
	x, okx := new(big.Rat).SetString(a.String())
	y, oky := new(big.Rat).SetString(b.String())
	if !okx || !oky {
		return a == b
	}
	return x.Cmp(y) == 0
}
