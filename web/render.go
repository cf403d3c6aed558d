/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package web

import (
	"embed"
	"html/template"
	"strings"

	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/pipeline"
	"bennypowers.dev/learnjq/stage"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// renderer executes the page and fragment templates for one language and manual.
type renderer struct {
	tmpl   *template.Template
	msgs   *i18n.Printer
	manual highlight.Manual
}

func newRenderer(msgs *i18n.Printer, manual highlight.Manual) (*renderer, error) {
	funcs := template.FuncMap{
		"t":      func(key string) string { return msgs.T(i18n.Key(key)) },
		"manual": manual.URL,
		"tokens": highlight.JSON,
	}
	tmpl, err := template.New("learnjq").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &renderer{tmpl: tmpl, msgs: msgs, manual: manual}, nil
}

func (r *renderer) fragment(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *renderer) json(src string) (string, error) {
	return r.fragment("json", highlight.JSON(src))
}

func (r *renderer) filter(src string) (string, error) {
	return r.fragment("filter", highlight.Filter(src))
}

func (r *renderer) outcome(out pipeline.Outcome) (string, error) {
	return r.fragment("outcome", out)
}

// verdict returns the match message for an ok outcome, or "".
func (r *renderer) verdict(st *stage.Stage, out pipeline.Outcome) string {
	if out.Kind != pipeline.KindOK {
		return ""
	}
	if st.Matches(out.Text) {
		return r.msgs.T(i18n.Match)
	}
	return r.msgs.T(i18n.Mismatch)
}

// pageData is the model of the stage page.
type pageData struct {
	Lang        string
	Stage       stage.Summary
	Stages      []stage.Summary
	PrevID      string
	NextID      string
	Filter      string
	FilterSpans []highlight.Span
	Input       []highlight.Token
	Expected    []highlight.Token
	Outcome     pipeline.Outcome
	ManualURL   string
}

func (r *renderer) page(catalog *stage.Catalog, st *stage.Stage, filter string) (pageData, error) {
	prev, err := catalog.Prev(st.ID())
	if err != nil {
		return pageData{}, err
	}
	next, err := catalog.Next(st.ID())
	if err != nil {
		return pageData{}, err
	}
	manualURL := r.manual.Base
	if manualURL == "" {
		manualURL = highlight.DefaultManualBase
	}
	stages := make([]stage.Summary, 0, catalog.Len())
	for _, s := range catalog.All() {
		stages = append(stages, s.Summary(false))
	}
	return pageData{
		Lang:        r.msgs.Lang(),
		Stage:       st.Summary(false),
		Stages:      stages,
		PrevID:      prev.ID(),
		NextID:      next.ID(),
		Filter:      filter,
		FilterSpans: highlight.Filter(filter),
		Input:       highlight.JSON(st.InputText()),
		Expected:    highlight.JSON(st.ExpectedText()),
		Outcome:     pipeline.Placeholder(r.msgs),
		ManualURL:   manualURL,
	}, nil
}
