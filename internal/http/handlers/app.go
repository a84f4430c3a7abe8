package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"mediaproxy/internal/domain"
	"mediaproxy/internal/generation"
	"mediaproxy/internal/infra"
	"mediaproxy/internal/middleware"
)

// Generator resolves a request into a finished media URL.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*generation.Result, error)
}

type App struct {
	Generator      Generator
	Logger         *infra.Logger
	allowedMethods map[string]struct{}
}

// NewApp wires the handler container. An empty method list means POST only.
func NewApp(gen Generator, logger *infra.Logger, allowedMethods []string) *App {
	if logger == nil {
		logger = infra.NopLogger()
	}
	allowed := make(map[string]struct{}, len(allowedMethods))
	for _, m := range allowedMethods {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			allowed[m] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		allowed[http.MethodPost] = struct{}{}
	}
	return &App{Generator: gen, Logger: logger, allowedMethods: allowed}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string, details any) {
	a.json(w, code, errorResponse{Error: message, Details: details})
}

func (a *App) log(r *http.Request) *infra.Logger {
	l := a.Logger.With().Str("request_id", middleware.RequestIDFromContext(r.Context())).Logger()
	return &l
}
