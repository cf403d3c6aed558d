/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/learnjq/engine"
	"bennypowers.dev/learnjq/highlight"
	"bennypowers.dev/learnjq/internal/i18n"
	"bennypowers.dev/learnjq/stage"
	"bennypowers.dev/learnjq/web"
)

func newServer(t *testing.T, eval engine.Engine) *web.Server {
	t.Helper()
	catalog, err := stage.BuiltinCatalog()
	require.NoError(t, err)
	srv, err := web.New(catalog, web.Options{
		Engine:   eval,
		Messages: i18n.New("en"),
		Manual:   highlight.DefaultManual,
		Debounce: -1,
	})
	require.NoError(t, err)
	return srv
}

func adapter() *engine.Adapter {
	return engine.NewAdapter(engine.GojqLoader(engine.GojqOptions{}))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexRedirectsToDefaultStage(t *testing.T) {
	srv := newServer(t, adapter())

	rec := do(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/stages/001", rec.Header().Get("Location"))

	rec = do(t, srv, http.MethodGet, "/?filter=.users", "")
	assert.Equal(t, "/stages/001?filter=.users", rec.Header().Get("Location"))
}

func TestStagePage(t *testing.T) {
	srv := newServer(t, adapter())

	rec := do(t, srv, http.MethodGet, "/stages/001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "Input JSON")
	assert.Contains(t, body, `class="tok-key"`)
	assert.Contains(t, body, `class="tok-string"`)
	assert.Contains(t, body, `data-manual href="https://jqlang.org/manual/#map-map_values"`)
	assert.Contains(t, body, "(the result will appear here)")
	assert.Contains(t, body, `data-stage="005" data-step="prev"`)
	assert.Contains(t, body, `data-stage="002" data-step="next"`)
	assert.Contains(t, body, `src="https://jqlang.org/manual/"`)
	for _, id := range []string{"001", "002", "003", "004", "005"} {
		assert.Contains(t, body, `href="/stages/`+id+`"`)
	}
}

func TestStagePageFilterQuery(t *testing.T) {
	srv := newServer(t, adapter())

	body := do(t, srv, http.MethodGet, "/stages/002?filter=.products+%7C+length", "").Body.String()
	assert.Contains(t, body, ".products | length</textarea>")
	assert.Contains(t, body, `>length</a>`)

	body = do(t, srv, http.MethodGet, "/stages/002?filter=", "").Body.String()
	assert.Contains(t, body, `placeholder="e.g. .users | map(.name)"></textarea>`)
}

func TestStagePageUnknown(t *testing.T) {
	srv := newServer(t, adapter())
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/stages/404", "").Code)
}

func TestAPIStages(t *testing.T) {
	srv := newServer(t, adapter())

	rec := do(t, srv, http.MethodGet, "/api/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []stage.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 5)
	assert.Equal(t, "001", list[0].ID)
	assert.Nil(t, list[0].Input)

	rec = do(t, srv, http.MethodGet, "/api/stages/003", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var one stage.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "003", one.ID)
	assert.NotEmpty(t, one.Input)
	assert.NotEmpty(t, one.Expected)

	rec = do(t, srv, http.MethodGet, "/api/stages/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown stage")
}

func TestAPIEvaluate(t *testing.T) {
	srv := newServer(t, adapter())

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantKind    string
		wantText    string
		wantMatches bool
	}{
		{
			name:        "default filter solves the stage",
			body:        `{"stage": "002"}`,
			wantStatus:  http.StatusOK,
			wantKind:    "ok",
			wantMatches: true,
		},
		{
			name:       "custom filter",
			body:       `{"stage": "002", "filter": ".products | length"}`,
			wantStatus: http.StatusOK,
			wantKind:   "ok",
			wantText:   "5",
		},
		{
			name:       "empty filter",
			body:       `{"stage": "002", "filter": ""}`,
			wantStatus: http.StatusOK,
			wantKind:   "ok",
		},
		{
			name:       "syntax error",
			body:       `{"stage": "001", "filter": ".users |"}`,
			wantStatus: http.StatusOK,
			wantKind:   "error",
		},
		{
			name:       "unknown stage",
			body:       `{"stage": "404"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed body",
			body:       `{"stage":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"stage": "001", "query": "."}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/evaluate", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp web.EvaluateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, string(resp.Kind))
			assert.Equal(t, tt.wantMatches, resp.Matches)
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, resp.Text)
			}
		})
	}
}

func TestAPIHighlight(t *testing.T) {
	srv := newServer(t, adapter())

	rec := do(t, srv, http.MethodPost, "/api/highlight", `{"kind": "json", "text": "{\"a\": 1}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp web.HighlightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []highlight.Token{
		{Kind: highlight.KindPunctuation, Text: "{"},
		{Kind: highlight.KindKey, Text: `"a"`},
		{Kind: highlight.KindPunctuation, Text: ":"},
		{Kind: highlight.KindText, Text: " "},
		{Kind: highlight.KindNumber, Text: "1"},
		{Kind: highlight.KindPunctuation, Text: "}"},
	}, resp.Tokens)

	rec = do(t, srv, http.MethodPost, "/api/highlight", `{"kind": "filter", "text": ".a | keys"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = web.HighlightResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []highlight.Span{
		{Text: ".a | "},
		{Text: "keys", IsFunction: true, FunctionName: "keys"},
	}, resp.Spans)

	rec = do(t, srv, http.MethodPost, "/api/highlight", `{"kind": "yaml", "text": "a: 1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	eng := adapter()
	srv := newServer(t, eng)

	health := func() map[string]any {
		rec := do(t, srv, http.MethodGet, "/healthz", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return body
	}

	body := health()
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(5), body["stages"])
	assert.Equal(t, false, body["engineLoaded"])

	require.NoError(t, eng.Load(context.Background()))
	assert.Equal(t, true, health()["engineLoaded"])
}

func TestAssets(t *testing.T) {
	srv := newServer(t, adapter())

	rec := do(t, srv, http.MethodGet, "/assets/app.js", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requestAnimationFrame")
	assert.Contains(t, rec.Body.String(), "popstate")

	rec = do(t, srv, http.MethodGet, "/assets/app.css", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/assets/theme.css", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, highlight.DefaultTheme().CSS(), rec.Body.String())
}

func TestSetCatalog(t *testing.T) {
	srv := newServer(t, adapter())

	st, err := stage.New(stage.Fields{
		ID:       "900",
		Input:    []byte(`{"a": 1}`),
		Expected: []byte(`1`),
	})
	require.NoError(t, err)
	catalog, err := stage.NewCatalog(st)
	require.NoError(t, err)
	srv.SetCatalog(catalog)

	assert.Same(t, catalog, srv.Catalog())
	rec := do(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, "/stages/900", rec.Header().Get("Location"))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/stages/001", "").Code)
}

func TestNewRejectsInvalidTheme(t *testing.T) {
	catalog, err := stage.BuiltinCatalog()
	require.NoError(t, err)
	theme := highlight.DefaultTheme()
	theme.Function = "not a colour"
	_, err = web.New(catalog, web.Options{Theme: &theme})
	assert.Error(t, err)
}
