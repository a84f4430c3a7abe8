package httpapi

import (
	"net/http"

	"mediaproxy/internal/http/handlers"
	"mediaproxy/internal/infra"
	"mediaproxy/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions carries the per-deployment variant knobs.
type RouterOptions struct {
	CORSAllowedOrigins []string
	AllowedMethods     []string
	Logger             infra.Logger
}

// middlewares returns the chain in application order. Logger sits outside
// Recover so a recovered panic still gets its access log line with status 500.
func middlewares(opts RouterOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		middleware.Recover(opts.Logger),
		middleware.CORS(opts.CORSAllowedOrigins, opts.AllowedMethods),
	}
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewares(opts)...)

	// Health
	r.Get("/v1/healthz", app.Health)

	// Method filtering happens in the handler so the 405 body stays JSON.
	r.HandleFunc("/api/generateMedia", app.GenerateMedia)
	r.HandleFunc("/.netlify/functions/generateMedia", app.GenerateMedia)

	return r
}
