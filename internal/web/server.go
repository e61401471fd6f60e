// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"disinfo-scan/internal/analysis"
	"disinfo-scan/internal/cases"
	"disinfo-scan/internal/config"
	"disinfo-scan/internal/history"
	"disinfo-scan/internal/logging"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	// Import formatters to register them
	_ "disinfo-scan/internal/formatters/csv"
	_ "disinfo-scan/internal/formatters/json"
	_ "disinfo-scan/internal/formatters/text"
	_ "disinfo-scan/internal/formatters/yaml"
)

//go:embed static/index.html
var indexHTML []byte

// portAttempts is how many consecutive ports Start tries
const portAttempts = 10

// WebServer represents the web server instance. Each instance owns its
// session history.
type WebServer struct {
	cfg     config.WebConfig
	service *analysis.Service
	history history.Log
	catalog *cases.Catalog
	limiter *rate.Limiter
	logger  *log.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mux    *http.ServeMux
	server *http.Server
	now    func() time.Time
}

// NewWebServer creates a web server around an analysis service
func NewWebServer(cfg config.WebConfig, service *analysis.Service) (*WebServer, error) {
	if service == nil {
		return nil, errors.New("analysis service is required")
	}

	store, err := history.Open(cfg.HistoryStore, cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	catalog, err := cases.Default()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load case studies: %w", err)
	}

	ws := &WebServer{
		cfg:     cfg,
		service: service,
		history: store,
		catalog: catalog,
		limiter: newLimiter(cfg.RateLimit, cfg.Burst),
		logger:  logging.WithPrefix("web"),
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		mux:     http.NewServeMux(),
		now:     time.Now,
	}
	ws.setupRoutes()
	return ws, nil
}

// newLimiter builds the /analyze limiter; a zero rate disables limiting
func newLimiter(limit float64, burst int) *rate.Limiter {
	if limit <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(limit), burst)
}

// setupRoutes configures all HTTP route handlers
func (ws *WebServer) setupRoutes() {
	ws.mux.HandleFunc("GET /{$}", ws.serveHome)
	ws.mux.HandleFunc("GET /health", ws.handleHealth)
	ws.mux.Handle("POST /analyze", ws.rateLimited(http.HandlerFunc(ws.handleAnalyze)))
	ws.mux.HandleFunc("GET /patterns", ws.handlePatterns)
	ws.mux.HandleFunc("GET /patterns/{id}", ws.handlePattern)
	ws.mux.HandleFunc("GET /cases", ws.handleCases)
	ws.mux.HandleFunc("GET /cases/random", ws.handleRandomCase)
	ws.mux.HandleFunc("GET /history", ws.handleHistory)
	ws.mux.HandleFunc("GET /history/summary", ws.handleHistorySummary)
	ws.mux.HandleFunc("DELETE /history", ws.handleClearHistory)
	ws.mux.HandleFunc("GET /export", ws.handleExport)
	ws.mux.HandleFunc("GET /formats", ws.handleFormats)
}

// Handler returns the root handler with request logging and security headers
func (ws *WebServer) Handler() http.Handler {
	return ws.logRequests(secureHeaders(ws.mux))
}

// ApplyConfig swaps in reloaded scoring and rate limit settings. The history
// store and its limit are fixed for the lifetime of the server.
func (ws *WebServer) ApplyConfig(cfg *config.Config) error {
	if err := ws.service.Reconfigure(cfg.Scoring, cfg.Defaults.MinLength); err != nil {
		return err
	}

	if cfg.Web.RateLimit <= 0 {
		ws.limiter.SetLimit(rate.Inf)
	} else {
		ws.limiter.SetLimit(rate.Limit(cfg.Web.RateLimit))
		ws.limiter.SetBurst(cfg.Web.Burst)
	}
	ws.logger.Info("configuration applied", "rate_limit", cfg.Web.RateLimit, "min_length", cfg.Defaults.MinLength)
	return nil
}

// Start listens on the configured port, falling back to the next free port,
// and serves until ctx is canceled.
func (ws *WebServer) Start(ctx context.Context) error {
	listener, err := ws.listen()
	if err != nil {
		return err
	}

	ws.server = ws.createSecureServer()
	ws.logger.Info("web UI started", "url", fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- ws.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return ws.Stop(shutdownCtx)
	}
}

func (ws *WebServer) listen() (net.Listener, error) {
	var lastError error
	for i := 0; i < portAttempts; i++ {
		port := ws.cfg.Port + i
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			lastError = err
			if i == 0 {
				ws.logger.Warn("port is not available, trying alternative ports", "port", port)
			}
			continue
		}
		return listener, nil
	}

	return nil, fmt.Errorf("could not find an available port in range %d-%d\n"+
		"Last error: %v\n"+
		"Troubleshooting:\n"+
		"  1. Try a specific port with --port <number>\n"+
		"  2. Ensure you have permission to bind to the requested port", ws.cfg.Port, ws.cfg.Port+portAttempts-1, lastError)
}

// Stop shuts the server down and drops the session history
func (ws *WebServer) Stop(ctx context.Context) error {
	var err error
	if ws.server != nil {
		err = ws.server.Shutdown(ctx)
	}
	if closeErr := ws.history.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer() *http.Server {
	return &http.Server{
		Handler: ws.Handler(),
		// Timeout for reading request headers (prevents slow header attacks)
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// rateLimited rejects requests once the limiter's budget is exhausted
func (ws *WebServer) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ws.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			ws.sendErrorWithStatus(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (ws *WebServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		ws.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// sendError sends an error response with enhanced error information
func (ws *WebServer) sendError(w http.ResponseWriter, message string) {
	ws.sendErrorWithStatus(w, message, http.StatusBadRequest)
}

// sendErrorWithStatus sends an error response with a specific HTTP status code
func (ws *WebServer) sendErrorWithStatus(w http.ResponseWriter, message string, statusCode int) {
	ws.writeJSON(w, statusCode, errorResponse{
		Success: false,
		Error:   ws.enhanceErrorMessage(message, statusCode),
	})
}

// enhanceErrorMessage adds troubleshooting information to error messages
func (ws *WebServer) enhanceErrorMessage(message string, statusCode int) string {
	switch {
	case strings.Contains(message, "Invalid JSON"):
		return message + "\nTroubleshooting: Send a JSON object such as {\"text\": \"...\"} or a form with a 'text' field"
	case statusCode == http.StatusRequestEntityTooLarge:
		return message + fmt.Sprintf("\nTroubleshooting: Requests are limited to %d bytes", ws.cfg.MaxBodyBytes)
	case statusCode == http.StatusTooManyRequests:
		return message + "\nTroubleshooting: Wait a moment before submitting another analysis"
	case statusCode == http.StatusInternalServerError:
		return message + "\nTroubleshooting: Check server logs for detailed error information"
	case statusCode == http.StatusNotFound:
		return message + "\nTroubleshooting: Verify the requested resource path is correct"
	default:
		return message
	}
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ws.logger.Error("failed to write response", "error", err)
	}
}
