/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/internal/jsontext"
)

// Input is the effective input of one evaluation: a JSON document and a filter.
type Input struct {
	Document string `json:"document"`
	Filter   string `json:"filter"`
}

// Evaluate runs one evaluation synchronously and classifies the result.
//
// An empty filter yields OK("") and a malformed document yields an error
// outcome, neither of which reaches the engine.
func Evaluate(ctx context.Context, eval engine.Engine, in Input, msgs *i18n.Printer) Outcome {
	return evaluate(ctx, eval, in, printer(msgs), nil)
}

func evaluate(ctx context.Context, eval engine.Engine, in Input, msgs *i18n.Printer, running func(Outcome)) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed(fmt.Sprintf("jq: error: %v", r))
		}
	}()

	filter := strings.TrimSpace(in.Filter)
	if filter == "" {
		return OK("")
	}

	document, err := jsontext.Decode([]byte(in.Document))
	if err != nil {
		return Failed(msgs.T(i18n.JSONParseError, err.Error()))
	}

	if running != nil {
		running(Running(msgs))
	}

	if eval == nil {
		return Failed(fmt.Errorf("%w: no engine configured", engine.ErrLoad).Error())
	}
	values, err := eval.Evaluate(ctx, engine.Document{Value: document, Raw: []byte(in.Document)}, filter)
	if err != nil {
		return Failed(engine.Diagnostic(err))
	}

	text, err := jsontext.Stream(values)
	if err != nil {
		return Failed(err.Error())
	}
	return OK(text)
}
