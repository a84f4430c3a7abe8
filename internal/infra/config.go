package infra

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                 string
	Port                   string
	LumaAPIKey             string
	LumaBaseURL            string
	PhotoModel             string
	VideoModel             string
	VideoDuration          string
	VideoResolution        string
	PollInterval           time.Duration
	MaxPolls               int
	GenerationTimeout      time.Duration
	ProviderRequestTimeout time.Duration
	CORSAllowedOrigins     []string
	AllowedMethods         []string
	HTTPReadTimeout        time.Duration
	HTTPWriteTimeout       time.Duration
	HTTPIdleTimeout        time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "8080"),
		LumaAPIKey:             strings.TrimSpace(os.Getenv("LUMA_LABS_API_KEY")),
		LumaBaseURL:            getEnv("LUMA_BASE_URL", "https://api.lumalabs.ai/dream-machine/v1"),
		PhotoModel:             getEnv("GENERATION_PHOTO_MODEL", "ray-1-6"),
		VideoModel:             getEnv("GENERATION_VIDEO_MODEL", "ray-2"),
		VideoDuration:          getEnv("GENERATION_VIDEO_DURATION", "5s"),
		VideoResolution:        getEnv("GENERATION_VIDEO_RESOLUTION", "720p"),
		PollInterval:           time.Second * time.Duration(getEnvInt("GENERATION_POLL_INTERVAL_SECONDS", 3)),
		MaxPolls:               getEnvInt("GENERATION_MAX_POLLS", 200),
		GenerationTimeout:      time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 600)),
		ProviderRequestTimeout: time.Second * time.Duration(getEnvInt("PROVIDER_REQUEST_TIMEOUT_SECONDS", 30)),
		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowedMethods:         upper(getEnvList("GENERATION_ALLOWED_METHODS", []string{http.MethodPost})),
		HTTPReadTimeout:        time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:       time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 660)),
		HTTPIdleTimeout:        time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.LumaAPIKey == "" {
		return nil, fmt.Errorf("LUMA_LABS_API_KEY is required")
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("GENERATION_POLL_INTERVAL_SECONDS must be positive")
	}

	if cfg.MaxPolls < 0 {
		return nil, fmt.Errorf("GENERATION_MAX_POLLS must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func upper(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}
