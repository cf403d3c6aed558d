/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/session"
	"bennypowers.dev/learnjq/stage"
)

// maxRequestBody bounds JSON API request bodies.
const maxRequestBody = 1 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := session.Location{StageID: s.Catalog().Default().ID()}
	if r.URL.Query().Has("filter") {
		loc.Filter = r.URL.Query().Get("filter")
		loc.HasFilter = true
	}
	http.Redirect(w, r, loc.String(), http.StatusFound)
}

func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	catalog := s.Catalog()
	st, err := catalog.Lookup(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	filter := st.DefaultFilter()
	if r.URL.Query().Has("filter") {
		filter = r.URL.Query().Get("filter")
	}

	data, err := s.render.page(catalog, st, filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.render.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		s.log.Error("render page", zap.String("stage", st.ID()), zap.Error(err))
	}
}

func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	stages := s.Catalog().All()
	out := make([]stage.Summary, 0, len(stages))
	for _, st := range stages {
		out = append(out, st.Summary(false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	st, err := s.Catalog().Lookup(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Summary(true))
}

// EvaluateRequest is the body of POST /api/evaluate.
type EvaluateRequest struct {
	Stage string `json:"stage"`
	// Filter defaults to the stage's default filter when absent.
	Filter *string `json:"filter,omitempty"`
}

// EvaluateResponse is the result of POST /api/evaluate.
type EvaluateResponse struct {
	Stage   string        `json:"stage"`
	Filter  string        `json:"filter"`
	Kind    pipeline.Kind `json:"kind"`
	Text    string        `json:"text"`
	Matches bool          `json:"matches"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	catalog := s.Catalog()
	st := catalog.Default()
	if req.Stage != "" {
		var err error
		if st, err = catalog.Lookup(req.Stage); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
	}
	filter := st.DefaultFilter()
	if req.Filter != nil {
		filter = *req.Filter
	}

	out := pipeline.Evaluate(r.Context(), s.opts.Engine, pipeline.Input{
		Document: st.InputText(),
		Filter:   filter,
	}, s.opts.Messages)

	writeJSON(w, http.StatusOK, EvaluateResponse{
		Stage:   st.ID(),
		Filter:  filter,
		Kind:    out.Kind,
		Text:    out.Text,
		Matches: out.Kind == pipeline.KindOK && st.Matches(out.Text),
	})
}

// HighlightRequest is the body of POST /api/highlight. Kind is "json" or "filter".
type HighlightRequest struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// HighlightResponse carries tokens for json and spans for filter requests.
type HighlightResponse struct {
	Tokens []highlight.Token `json:"tokens,omitempty"`
	Spans  []highlight.Span  `json:"spans,omitempty"`
}

var errUnknownKind = errors.New(`kind must be "json" or "filter"`)

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch req.Kind {
	case "json":
		writeJSON(w, http.StatusOK, HighlightResponse{Tokens: highlight.JSON(req.Text)})
	case "filter":
		writeJSON(w, http.StatusOK, HighlightResponse{Spans: highlight.Filter(req.Text)})
	default:
		writeError(w, http.StatusBadRequest, errUnknownKind)
	}
}

type loadReporter interface {
	Loaded() bool
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded := s.opts.Engine != nil
	if lr, ok := s.opts.Engine.(loadReporter); ok {
		loaded = lr.Loaded()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"stages":       s.Catalog().Len(),
		"engineLoaded": loaded,
	})
}

func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = io.WriteString(w, s.theme.CSS())
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
