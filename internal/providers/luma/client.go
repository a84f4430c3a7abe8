package luma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mediaproxy/internal/domain"
	"mediaproxy/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("luma: api key is required")

// Operation names carried by APIError.
const (
	OpCreateGeneration = "create generation"
	OpGetGeneration    = "get generation"
)

// Options configures the Dream Machine client.
type Options struct {
	APIKey          string
	BaseURL         string
	PhotoModel      string
	VideoModel      string
	VideoDuration   string
	VideoResolution string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	RequestTimeout  time.Duration
}

// Client performs HTTP calls to the Dream Machine generations API.
type Client struct {
	apiKey          string
	baseURL         string
	photoModel      string
	videoModel      string
	videoDuration   string
	videoResolution string
	httpClient      *http.Client
	logger          *infra.Logger
}

// APIError carries a non-success provider response verbatim.
type APIError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("luma: %s: status %d: %s", e.Op, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

func (e *APIError) Unwrap() error {
	return domain.ErrProviderFailure
}

// Details returns the provider payload as JSON when it is JSON, otherwise as
// text. An empty payload is the empty string, never nil.
func (e *APIError) Details() any {
	trimmed := bytes.TrimSpace(e.Body)
	if len(trimmed) == 0 {
		return ""
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(trimmed)
}

type generationPayload struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
	Model       string `json:"model"`
	Duration    string `json:"duration,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.lumalabs.ai/dream-machine/v1"
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("luma: invalid base url: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &Client{
		apiKey:          apiKey,
		baseURL:         baseURL,
		photoModel:      defaultString(opts.PhotoModel, "ray-1-6"),
		videoModel:      defaultString(opts.VideoModel, "ray-2"),
		videoDuration:   defaultString(opts.VideoDuration, "5s"),
		videoResolution: defaultString(opts.VideoResolution, "720p"),
		httpClient:      httpClient,
		logger:          logger,
	}, nil
}

// CreateGeneration submits a new job and returns the provider's view of it.
func (c *Client) CreateGeneration(ctx context.Context, req domain.GenerationRequest) (*domain.Job, error) {
	payload := c.payloadFor(req)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("luma: encode request: %w", err)
	}
	c.logger.Debug().
		Str("model", payload.Model).
		RawJSON("payload", body).
		Msg("luma: sending generation request")

	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/generations", body, OpCreateGeneration)
	if err != nil {
		return nil, err
	}
	job, err := decodeJob(raw)
	if err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, errors.New("luma: create generation: response has no id")
	}
	c.logger.Debug().Str("job_id", job.ID).Str("state", string(job.Status)).Msg("luma: generation created")
	return job, nil
}

// GetGeneration fetches the current state of a job.
func (c *Client) GetGeneration(ctx context.Context, id string) (*domain.Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("luma: generation id is required")
	}
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/generations/"+url.PathEscape(id), nil, OpGetGeneration)
	if err != nil {
		return nil, err
	}
	return decodeJob(raw)
}

func (c *Client) payloadFor(req domain.GenerationRequest) generationPayload {
	payload := generationPayload{
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		Model:       c.photoModel,
	}
	if req.MediaType != domain.MediaTypePhoto {
		payload.Model = c.videoModel
		payload.Duration = c.videoDuration
		payload.Resolution = c.videoResolution
	}
	return payload
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, op string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("luma: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("luma: %s: http request: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("luma: %s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Str("op", op).
			Int("status", resp.StatusCode).
			Bytes("body", raw).
			Msg("luma: provider returned error")
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: raw}
	}
	return raw, nil
}

func decodeJob(raw []byte) (*domain.Job, error) {
	var job domain.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("luma: decode response: %w", err)
	}
	job.ID = strings.TrimSpace(job.ID)
	return &job, nil
}

func defaultString(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}
