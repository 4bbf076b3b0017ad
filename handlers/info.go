package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"focusflow/respond"
)

// Version is reported by /api/info. Overridden at build time with -ldflags.
var Version = "1.0.0"

// Info describes the service for GET /api/info.
type Info struct {
	Project      string            `json:"project"`
	Description  string            `json:"description"`
	Version      string            `json:"version"`
	Routes       map[string]string `json:"routes"`
	Technologies []string          `json:"technologies"`
}

// GetInfo handles GET /api/info
func GetInfo(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, Info{
		Project:     "FocusFlow",
		Description: "A simple habit and routine tracker that helps you stay consistent with clear weekly insights.",
		Version:     Version,
		Routes: map[string]string{
			"habits":   "/api/habits",
			"habit":    "/api/habits/{id}",
			"login":    "/api/login",
			"logout":   "/api/logout",
			"status":   "/api/auth/status",
			"register": "/api/register",
			"health":   "/health",
			"info":     "/api/info",
		},
		Technologies: []string{"Go", "chi", "MongoDB", "SQLite"},
	})
}

// Pinger is the part of a store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /health by pinging the store.
func Health(store Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Error("health check failed", "error", err)
			respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "up"})
	}
}

// NotFound answers unknown API routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed answers known routes called with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
