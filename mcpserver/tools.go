/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/stage"
)

// StageInfo describes a stage without its documents.
type StageInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	DefaultFilter string `json:"defaultFilter"`
}

// ListStagesInput takes no arguments.
type ListStagesInput struct{}

// ListStagesOutput is the result of list_stages.
type ListStagesOutput struct {
	Stages []StageInfo `json:"stages"`
}

// GetStageInput selects a stage.
type GetStageInput struct {
	ID string `json:"id" jsonschema:"the stage id, such as 001"`
}

// StageDetail is the result of get_stage.
type StageDetail struct {
	Stage    StageInfo `json:"stage"`
	Input    string    `json:"input" jsonschema:"the input document, pretty-printed"`
	Expected string    `json:"expected" jsonschema:"the expected output, pretty-printed"`
}

// EvaluateInput is the argument of evaluate_filter.
type EvaluateInput struct {
	Stage  string `json:"stage" jsonschema:"the stage id"`
	Filter string `json:"filter" jsonschema:"the jq filter to run"`
}

// EvaluateOutput is the result of evaluate_filter.
type EvaluateOutput struct {
	Stage   string        `json:"stage"`
	Kind    pipeline.Kind `json:"kind" jsonschema:"ok or error"`
	Output  string        `json:"output" jsonschema:"the output stream, or the error message"`
	Matches bool          `json:"matches" jsonschema:"whether the output equals the expected output"`
}

// HighlightInput is the argument of highlight_filter.
type HighlightInput struct {
	Filter string `json:"filter" jsonschema:"the jq filter"`
}

// FunctionLink is a builtin and its manual section.
type FunctionLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// HighlightOutput is the result of highlight_filter.
type HighlightOutput struct {
	Spans     []highlight.Span `json:"spans"`
	Functions []FunctionLink   `json:"functions"`
}

func info(st *stage.Stage) StageInfo {
	return StageInfo{
		ID:            st.ID(),
		Title:         st.Title(),
		Description:   st.Description(),
		DefaultFilter: st.DefaultFilter(),
	}
}

func (s *Server) listStages(ctx context.Context, req *mcp.CallToolRequest, in ListStagesInput) (*mcp.CallToolResult, ListStagesOutput, error) {
	stages := s.catalog.All()
	out := ListStagesOutput{Stages: make([]StageInfo, 0, len(stages))}
	for _, st := range stages {
		out.Stages = append(out.Stages, info(st))
	}
	return nil, out, nil
}

func (s *Server) getStage(ctx context.Context, req *mcp.CallToolRequest, in GetStageInput) (*mcp.CallToolResult, StageDetail, error) {
	st, err := s.catalog.Lookup(in.ID)
	if err != nil {
		return nil, StageDetail{}, err
	}
	return nil, StageDetail{
		Stage:    info(st),
		Input:    st.InputText(),
		Expected: st.ExpectedText(),
	}, nil
}

func (s *Server) evaluateFilter(ctx context.Context, req *mcp.CallToolRequest, in EvaluateInput) (*mcp.CallToolResult, EvaluateOutput, error) {
	st, err := s.catalog.Lookup(in.Stage)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}
	out := pipeline.Evaluate(ctx, s.eval, pipeline.Input{
		Document: st.InputText(),
		Filter:   in.Filter,
	}, s.opts.Messages)
	return nil, EvaluateOutput{
		Stage:   st.ID(),
		Kind:    out.Kind,
		Output:  out.Text,
		Matches: out.Kind == pipeline.KindOK && st.Matches(out.Text),
	}, nil
}

func (s *Server) highlightFilter(ctx context.Context, req *mcp.CallToolRequest, in HighlightInput) (*mcp.CallToolResult, HighlightOutput, error) {
	out := HighlightOutput{
		Spans:     highlight.Filter(in.Filter),
		Functions: []FunctionLink{},
	}
	if out.Spans == nil {
		out.Spans = []highlight.Span{}
	}
	for _, name := range highlight.FunctionsIn(in.Filter) {
		out.Functions = append(out.Functions, FunctionLink{Name: name, URL: s.opts.Manual.URL(name)})
	}
	return nil, out, nil
}
