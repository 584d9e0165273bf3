// Copyright 2026 © The Quartet Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge connects the crew to its callers. It carries the two
// inbound surfaces the binary can start: a networked HTTP+JSON API for
// deployed processes and a local REPL for interactive sessions. The
// configured domain decides which one runs.
package bridge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/zainaedelson/quartet/pkg/artifact"
	"github.com/zainaedelson/quartet/pkg/core"
	qerrors "github.com/zainaedelson/quartet/pkg/errors"
	"github.com/zainaedelson/quartet/pkg/telemetry"
)

// Responder produces one reply per inbound message. It never fails: the
// crew resolves every fault to a usable reply before it reaches the bridge.
type Responder interface {
	Respond(ctx context.Context, message string) string
}

// Server exposes the crew over HTTP+JSON.
//
// Routes:
//
//	POST /api/message   run the pipeline for one message
//	GET  /api/document  fetch the saved document
//	GET  /healthz       component health
type Server struct {
	responder Responder
	store     *artifact.Store
	health    core.HealthCheckProvider
	metrics   *telemetry.PipelineMetrics
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithHealthProvider wires component health checks into /healthz.
func WithHealthProvider(provider core.HealthCheckProvider) ServerOption {
	return func(s *Server) {
		if provider != nil {
			s.health = provider
		}
	}
}

// WithMetrics records component health on the status gauge whenever
// /healthz runs its checks.
func WithMetrics(metrics *telemetry.PipelineMetrics) ServerOption {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// NewServer creates the HTTP+JSON binding around a responder and the
// document store it writes to.
func NewServer(responder Responder, store *artifact.Store, opts ...ServerOption) (*Server, error) {
	if responder == nil {
		return nil, qerrors.New(qerrors.CodeInvalidInput, "responder is required", nil)
	}
	if store == nil {
		return nil, qerrors.New(qerrors.CodeInvalidInput, "document store is required", nil)
	}
	s := &Server{responder: responder, store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type messageRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Response string `json:"response"`
}

type documentSections struct {
	DirectAnswer string `json:"direct_answer"`
	Rationale    string `json:"rationale"`
}

type documentResponse struct {
	Name     string            `json:"name"`
	Content  string            `json:"content"`
	Sections *documentSections `json:"sections,omitempty"`
}

type healthComponent struct {
	Component string            `json:"component"`
	Status    core.HealthStatus `json:"status"`
	Message   string            `json:"message,omitempty"`
}

type healthResponse struct {
	Status     core.HealthStatus `json:"status"`
	Components []healthComponent `json:"components,omitempty"`
}

// ServeHTTP routes requests to their handlers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/message":
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		s.handleMessage(w, r)
	case "/api/document":
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		s.handleDocument(w, r)
	case "/healthz":
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		s.handleHealth(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	response := s.responder.Respond(r.Context(), req.Content)
	writeJSON(w, http.StatusOK, messageResponse{Response: response})
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	content, err := s.store.Read()
	if err != nil {
		writeError(w, err)
		return
	}
	resp := documentResponse{Name: s.store.Name(), Content: content}
	if sections, ok := artifact.Sections(content); ok {
		resp.Sections = &documentSections{
			DirectAnswer: sections.DirectAnswer,
			Rationale:    sections.Rationale,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: core.HealthHealthy})
		return
	}
	results, overall := s.health.CheckAll(r.Context())
	components := make([]healthComponent, 0, len(results))
	for _, result := range results {
		s.metrics.RecordHealthStatus(r.Context(), result.Component, healthGaugeValue(result.Status))
		components = append(components, healthComponent{
			Component: result.Component,
			Status:    result.Status,
			Message:   result.Message,
		})
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Component < components[j].Component
	})
	status := http.StatusOK
	if overall == core.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: overall, Components: components})
}

func healthGaugeValue(status core.HealthStatus) int64 {
	switch status {
	case core.HealthHealthy:
		return 2
	case core.HealthDegraded:
		return 1
	default:
		return 0
	}
}

// Serve runs the HTTP API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("bridge.server.shutdown_error", slog.String("error", err.Error()))
		}
	}()

	displayAddr := addr
	if strings.HasPrefix(addr, ":") {
		displayAddr = "localhost" + addr
	}
	slog.Info("bridge.server.listening", slog.String("addr", "http://"+displayAddr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return qerrors.New(qerrors.CodeInternal, "http server failed", err).
			WithContext("addr", addr)
	}
	return nil
}

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, value any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return qerrors.New(qerrors.CodeInvalidInput, "invalid body", err)
	}
	if len(body) == 0 {
		return qerrors.New(qerrors.CodeInvalidInput, "empty body", nil)
	}
	if err := json.Unmarshal(body, value); err != nil {
		return qerrors.New(qerrors.CodeInvalidInput, "malformed json", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, err error) {
	pe := qerrors.AsPipelineError(err)
	code := pe.StatusCode
	if code == 0 {
		code = http.StatusInternalServerError
	}
	body := map[string]interface{}{
		"type":   "about:blank",
		"title":  string(pe.Code),
		"detail": pe.Message,
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
