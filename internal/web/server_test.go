// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alarmingText = "SHOCKING BREAKING NEWS!!! The government is HIDING the REAL truth about this AMAZING discovery!"

func newTestServer(t *testing.T, mutate func(*config.WebConfig)) *WebServer {
	t.Helper()
	cfg := config.DefaultConfig().Web
	cfg.RateLimit = 0
	if mutate != nil {
		mutate(&cfg)
	}
	ws, err := NewWebServer(cfg, analysis.NewService(nil, analysis.DefaultMinLength, nil))
	require.NoError(t, err)
	t.Cleanup(func() { ws.Stop(context.Background()) })
	return ws
}

func do(t *testing.T, ws *WebServer, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	ws.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func analyzeJSON(t *testing.T, ws *WebServer, text string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"text": text})
	require.NoError(t, err)
	return do(t, ws, http.MethodPost, "/analyze", "application/json", string(payload))
}

func TestServeHome(t *testing.T) {
	ws := newTestServer(t, nil)

	rec := do(t, ws, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<form")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(t, ws, http.MethodGet, "/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	ws := newTestServer(t, nil)

	rec := do(t, ws, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disinfo-scan-web", body["service"])
}

func TestHandleAnalyze_JSON(t *testing.T) {
	ws := newTestServer(t, nil)

	rec := analyzeJSON(t, ws, alarmingText)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, "web", result["source"])
	assert.Greater(t, result["overall_risk_score"].(float64), 0.4)
	assert.NotEmpty(t, result["patterns_detected"])
	assert.Contains(t, result, "text_metrics")
	assert.Contains(t, result, "timeline_analysis")

	entries, err := ws.history.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, result["id"], entries[0].ID)
}

func TestHandleAnalyze_Form(t *testing.T) {
	ws := newTestServer(t, nil)

	form := url.Values{"text": {alarmingText}, "source": {"pasted"}}
	rec := do(t, ws, http.MethodPost, "/analyze", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode(t, rec)["result"].(map[string]interface{})
	assert.Equal(t, "pasted", result["source"])
}

func TestHandleAnalyze_Errors(t *testing.T) {
	ws := newTestServer(t, func(cfg *config.WebConfig) { cfg.MaxBodyBytes = 256 })

	t.Run("too short", func(t *testing.T) {
		rec := analyzeJSON(t, ws, "   hi   ")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "please enter text to analyze (minimum 10 characters)")
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := do(t, ws, http.MethodPost, "/analyze", "application/json", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec)["error"], "Troubleshooting")
	})

	t.Run("too large", func(t *testing.T) {
		rec := analyzeJSON(t, ws, strings.Repeat("a", 1024))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, ws, http.MethodGet, "/analyze", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	entries, err := ws.history.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleAnalyze_RateLimited(t *testing.T) {
	ws := newTestServer(t, func(cfg *config.WebConfig) {
		cfg.RateLimit = 0.001
		cfg.Burst = 1
	})

	assert.Equal(t, http.StatusOK, analyzeJSON(t, ws, alarmingText).Code)

	rec := analyzeJSON(t, ws, alarmingText)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestApplyConfig(t *testing.T) {
	ws := newTestServer(t, nil)

	cfg := config.DefaultConfig()
	cfg.Defaults.MinLength = 500
	cfg.Web.RateLimit = 0.001
	cfg.Web.Burst = 1
	require.NoError(t, ws.ApplyConfig(cfg))

	assert.Equal(t, 500, ws.service.MinLength())
	assert.Equal(t, http.StatusBadRequest, analyzeJSON(t, ws, alarmingText).Code)
	assert.Equal(t, http.StatusTooManyRequests, analyzeJSON(t, ws, alarmingText).Code)

	cfg.Scoring.AuthenticityDamping = 5
	assert.Error(t, ws.ApplyConfig(cfg))
}

func TestHandlePatterns(t *testing.T) {
	ws := newTestServer(t, nil)

	rec := do(t, ws, http.MethodGet, "/patterns", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["patterns"].([]interface{})
	first := list[0].(map[string]interface{})
	assert.Equal(t, "emotional_amplification", first["id"])
	assert.Equal(t, "disinformation", first["kind"])

	rec = do(t, ws, http.MethodGet, "/patterns/source_transparency", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pattern := decode(t, rec)["pattern"].(map[string]interface{})
	assert.Equal(t, "authenticity", pattern["kind"])

	rec = do(t, ws, http.MethodGet, "/patterns/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCases(t *testing.T) {
	ws := newTestServer(t, nil)

	rec := do(t, ws, http.MethodGet, "/cases", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["cases"], 5)

	rec = do(t, ws, http.MethodGet, "/cases/random", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	study := decode(t, rec)["case"].(map[string]interface{})
	assert.NotEmpty(t, study["title"])
	assert.NotEmpty(t, study["text"])
}

func TestHistoryLifecycle(t *testing.T) {
	ws := newTestServer(t, nil)

	require.Equal(t, http.StatusOK, analyzeJSON(t, ws, alarmingText).Code)
	require.Equal(t, http.StatusOK, analyzeJSON(t, ws, "A calm note about the weather this week.").Code)

	rec := do(t, ws, http.MethodGet, "/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	entries := body["entries"].([]interface{})
	require.Len(t, entries, 2)
	first := entries[0].(map[string]interface{})
	assert.Contains(t, first, "age")
	assert.Contains(t, first, "text_preview")
	assert.Equal(t, float64(2), body["summary"].(map[string]interface{})["total_analyses"])

	rec = do(t, ws, http.MethodGet, "/history?limit=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["entries"], 1)

	rec = do(t, ws, http.MethodGet, "/history?limit=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, ws, http.MethodGet, "/history/summary", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode(t, rec)["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["total_analyses"])

	rec = do(t, ws, http.MethodDelete, "/history", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, ws, http.MethodGet, "/history", "", "")
	assert.Empty(t, decode(t, rec)["entries"])
}

func TestHandleExport(t *testing.T) {
	ws := newTestServer(t, func(cfg *config.WebConfig) { cfg.HistoryStore = "sqlite" })

	require.Equal(t, http.StatusOK, analyzeJSON(t, ws, alarmingText).Code)

	rec := do(t, ws, http.MethodGet, "/export", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="pattern_analysis_data.csv"`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 2)

	rec = do(t, ws, http.MethodGet, "/export?format=json", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, decode(t, rec)["entries"], 1)

	rec = do(t, ws, http.MethodGet, "/export?format=pdf", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFormats(t *testing.T) {
	ws := newTestServer(t, nil)

	rec := do(t, ws, http.MethodGet, "/formats", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["formats"], 4)
}

func TestSessionsAreIsolated(t *testing.T) {
	first := newTestServer(t, nil)
	second := newTestServer(t, nil)

	require.Equal(t, http.StatusOK, analyzeJSON(t, first, alarmingText).Code)

	entries, err := second.history.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewWebServer_Errors(t *testing.T) {
	cfg := config.DefaultConfig().Web
	_, err := NewWebServer(cfg, nil)
	assert.Error(t, err)

	cfg.HistoryStore = "redis"
	_, err = NewWebServer(cfg, analysis.NewService(nil, 10, nil))
	assert.ErrorContains(t, err, "open history")
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	ws := newTestServer(t, func(cfg *config.WebConfig) { cfg.Port = 18480 })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ws.Start(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
