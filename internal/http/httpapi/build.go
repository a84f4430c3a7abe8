package httpapi

import (
	"fmt"
	"net/http"

	"mediaproxy/internal/generation"
	"mediaproxy/internal/http/handlers"
	"mediaproxy/internal/infra"
	"mediaproxy/internal/providers/luma"
)

// NewHandlerFromConfig assembles provider client, poll service, handlers and
// router for one deployment variant.
func NewHandlerFromConfig(cfg *infra.Config, logger infra.Logger) (http.Handler, error) {
	client, err := luma.NewClient(luma.Options{
		APIKey:          cfg.LumaAPIKey,
		BaseURL:         cfg.LumaBaseURL,
		PhotoModel:      cfg.PhotoModel,
		VideoModel:      cfg.VideoModel,
		VideoDuration:   cfg.VideoDuration,
		VideoResolution: cfg.VideoResolution,
		RequestTimeout:  cfg.ProviderRequestTimeout,
		Logger:          &logger,
	})
	if err != nil {
		return nil, fmt.Errorf("configure provider client: %w", err)
	}

	svc := generation.NewService(client, generation.Options{
		PollInterval: cfg.PollInterval,
		MaxPolls:     cfg.MaxPolls,
		Timeout:      cfg.GenerationTimeout,
		Logger:       &logger,
	})

	app := handlers.NewApp(svc, &logger, cfg.AllowedMethods)
	return NewRouter(app, RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods:     cfg.AllowedMethods,
		Logger:             logger,
	}), nil
}
