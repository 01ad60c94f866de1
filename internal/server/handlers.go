package server

import (
	"net/http"
)

// Version is reported by the API index.
const Version = "1.0.0"

type endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Roles  string `json:"roles,omitempty"`
}

var endpoints = []endpoint{
	{Method: http.MethodPost, Path: "/api/auth/login"},
	{Method: http.MethodGet, Path: "/api/auth/me", Roles: "any"},
	{Method: http.MethodGet, Path: "/api/cycles", Roles: "any"},
	{Method: http.MethodGet, Path: "/api/benchmark-tasks", Roles: "any"},
	{Method: http.MethodPost, Path: "/api/benchmark-tasks", Roles: "coordinator, admin"},
	{Method: http.MethodGet, Path: "/api/benchmark-tasks/{taskId}", Roles: "any"},
	{Method: http.MethodPost, Path: "/api/benchmark-tasks/{taskId}/submit", Roles: "faculty"},
	{Method: http.MethodPatch, Path: "/api/benchmark-tasks/{taskId}/review", Roles: "coordinator, admin"},
	{Method: http.MethodGet, Path: "/health"},
	{Method: http.MethodGet, Path: "/metrics"},
}

// handleIndex describes the API
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	successResponse(w, http.StatusOK, "AccrediTrack API", map[string]any{
		"name":      "AccrediTrack API",
		"version":   Version,
		"endpoints": endpoints,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	successResponse(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	failureResponse(w, http.StatusNotFound, "route not found: "+r.Method+" "+r.URL.Path)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	failureResponse(w, http.StatusMethodNotAllowed, "method not allowed: "+r.Method+" "+r.URL.Path)
}
