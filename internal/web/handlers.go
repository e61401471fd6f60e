// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/cases"
	"disinfo-scan/internal/formatters"
	"disinfo-scan/internal/formatters/shared"
	"disinfo-scan/internal/history"
	"disinfo-scan/internal/patterns"
	"disinfo-scan/internal/version"
)

// defaultSource labels documents submitted through the web UI
const defaultSource = "web"

type analyzeRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type analyzeResponse struct {
	Success bool              `json:"success"`
	Result  shared.JSONReport `json:"result"`
}

type historyEntryView struct {
	history.Entry
	Age string `json:"age"`
}

type historyResponse struct {
	Success bool               `json:"success"`
	Entries []historyEntryView `json:"entries"`
	Summary history.Summary    `json:"summary"`
}

type patternView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Kind         patterns.Kind `json:"kind"`
	Description  string        `json:"description"`
	Weight       float64       `json:"weight"`
	Indicators   []string      `json:"indicators"`
	Examples     []string      `json:"examples,omitempty"`
	DetectionTip string        `json:"detection_tip,omitempty"`
}

func newPatternView(def patterns.Definition, kind patterns.Kind) patternView {
	return patternView{
		ID:           def.ID,
		Name:         def.Name,
		Kind:         kind,
		Description:  def.Description,
		Weight:       def.Weight,
		Indicators:   def.Indicators,
		Examples:     def.Examples,
		DetectionTip: def.DetectionTip,
	}
}

// serveHome serves the main HTML page
func (ws *WebServer) serveHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(indexHTML)
}

// handleHealth provides a health check endpoint with version information
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Full()

	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": ws.now().UTC().Format(time.RFC3339),
		"service":   "disinfo-scan-web",
		"version":   versionInfo["version"],
		"build_info": map[string]interface{}{
			"version":    versionInfo["version"],
			"commit":     versionInfo["commit"],
			"build_date": versionInfo["buildDate"],
			"go_version": versionInfo["goVersion"],
			"platform":   versionInfo["platform"],
		},
	})
}

// handleAnalyze scores text submitted as JSON or as a form and records it in
// the session history
func (ws *WebServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ws.cfg.MaxBodyBytes)

	req, err := decodeAnalyzeRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ws.sendErrorWithStatus(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		ws.sendError(w, err.Error())
		return
	}
	if req.Source == "" {
		req.Source = defaultSource
	}

	report, err := ws.service.AnalyzeText(r.Context(), req.Source, req.Text)
	if err != nil {
		if errors.Is(err, analysis.ErrTextTooShort) {
			ws.sendError(w, err.Error())
			return
		}
		ws.logger.Error("analysis failed", "error", err)
		ws.sendErrorWithStatus(w, "Analysis failed", http.StatusInternalServerError)
		return
	}

	if err := ws.history.Append(r.Context(), history.NewEntry(report)); err != nil {
		ws.logger.Warn("failed to record history entry", "id", report.Document.ID, "error", err)
	}

	response := shared.ConvertReportsToJSONFormat([]analysis.Report{report}, formatters.FormatterOptions{Verbose: true})
	ws.writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Result: response.Results[0]})
}

func decodeAnalyzeRequest(r *http.Request) (analyzeRequest, error) {
	var req analyzeRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return req, err
			}
			return req, fmt.Errorf("Invalid JSON in request body: %w", err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, err
		}
		return req, fmt.Errorf("Failed to parse form data: %w", err)
	}
	req.Text = r.PostFormValue("text")
	req.Source = r.PostFormValue("source")
	return req, nil
}

// handlePatterns lists both registries in definition order
func (ws *WebServer) handlePatterns(w http.ResponseWriter, r *http.Request) {
	var views []patternView
	for _, def := range patterns.Disinformation() {
		views = append(views, newPatternView(def, patterns.KindDisinformation))
	}
	for _, def := range patterns.Authenticity() {
		views = append(views, newPatternView(def, patterns.KindAuthenticity))
	}
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"patterns": views,
	})
}

func (ws *WebServer) handlePattern(w http.ResponseWriter, r *http.Request) {
	def, kind, ok := patterns.Find(r.PathValue("id"))
	if !ok {
		ws.sendErrorWithStatus(w, fmt.Sprintf("Pattern '%s' not found", r.PathValue("id")), http.StatusNotFound)
		return
	}
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"pattern": newPatternView(def, kind),
	})
}

func (ws *WebServer) handleCases(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"cases":   ws.catalog.All(),
	})
}

func (ws *WebServer) handleRandomCase(w http.ResponseWriter, r *http.Request) {
	ws.rngMu.Lock()
	study, err := ws.catalog.Random(ws.rng)
	ws.rngMu.Unlock()
	if err != nil {
		if errors.Is(err, cases.ErrEmptyCatalog) {
			ws.sendErrorWithStatus(w, err.Error(), http.StatusNotFound)
			return
		}
		ws.sendErrorWithStatus(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"case":    study,
	})
}

// handleHistory returns the session history, optionally only the newest ?limit=n entries
func (ws *WebServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			ws.sendError(w, fmt.Sprintf("Invalid limit '%s'", raw))
			return
		}
		limit = n
	}

	entries, err := ws.history.Recent(r.Context(), limit)
	if err != nil {
		ws.logger.Error("failed to read history", "error", err)
		ws.sendErrorWithStatus(w, "Failed to read history", http.StatusInternalServerError)
		return
	}
	summary, err := ws.history.Summary(r.Context())
	if err != nil {
		ws.logger.Error("failed to summarize history", "error", err)
		ws.sendErrorWithStatus(w, "Failed to read history", http.StatusInternalServerError)
		return
	}

	now := ws.now()
	views := make([]historyEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, historyEntryView{Entry: e, Age: history.FormatAge(e, now)})
	}
	ws.writeJSON(w, http.StatusOK, historyResponse{Success: true, Entries: views, Summary: summary})
}

func (ws *WebServer) handleHistorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := ws.history.Summary(r.Context())
	if err != nil {
		ws.logger.Error("failed to summarize history", "error", err)
		ws.sendErrorWithStatus(w, "Failed to read history", http.StatusInternalServerError)
		return
	}
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

func (ws *WebServer) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := ws.history.Clear(r.Context()); err != nil {
		ws.logger.Error("failed to clear history", "error", err)
		ws.sendErrorWithStatus(w, "Failed to clear history", http.StatusInternalServerError)
		return
	}
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleExport downloads the session history in the requested format (csv by default)
func (ws *WebServer) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	entries, err := ws.history.Entries(r.Context())
	if err != nil {
		ws.logger.Error("failed to read history", "error", err)
		ws.sendErrorWithStatus(w, "Failed to read history", http.StatusInternalServerError)
		return
	}

	content, contentType, filename, err := formatters.ExportHistory(format, entries, history.Summarize(entries))
	if err != nil {
		ws.sendError(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

func (ws *WebServer) handleFormats(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"formats": formatters.GetSupportedFormats(),
	})
}
