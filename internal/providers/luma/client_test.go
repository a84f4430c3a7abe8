package luma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"mediaproxy/internal/domain"
)

func TestCreateGenerationVideoPayload(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSON("POST /dream-machine/v1/generations", http.StatusCreated, map[string]any{
		"id":    "gen-123",
		"state": "pending",
	})
	client := newTestClient(t, transport)

	job, err := client.CreateGeneration(context.Background(), domain.GenerationRequest{
		Prompt:      "a lighthouse at dusk",
		MediaType:   domain.MediaTypeVideo,
		AspectRatio: "16:9",
	})
	if err != nil {
		t.Fatalf("create generation: %v", err)
	}
	if job.ID != "gen-123" {
		t.Fatalf("job id = %q, want gen-123", job.ID)
	}
	if got := transport.lastHeader.Get("Authorization"); got != "Bearer luma-test" {
		t.Fatalf("authorization = %q, want Bearer luma-test", got)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	want := map[string]any{
		"prompt":       "a lighthouse at dusk",
		"aspect_ratio": "16:9",
		"model":        "ray-2",
		"duration":     "5s",
		"resolution":   "720p",
	}
	for k, v := range want {
		if payload[k] != v {
			t.Fatalf("payload[%s] = %v, want %v", k, payload[k], v)
		}
	}
}

func TestCreateGenerationPhotoPayloadOmitsVideoParams(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSON("POST /dream-machine/v1/generations", http.StatusCreated, map[string]any{"id": "gen-1"})
	client := newTestClient(t, transport)

	if _, err := client.CreateGeneration(context.Background(), domain.GenerationRequest{
		Prompt:      "a lighthouse",
		MediaType:   domain.MediaTypePhoto,
		AspectRatio: "1:1",
	}); err != nil {
		t.Fatalf("create generation: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["model"] != "ray-1-6" {
		t.Fatalf("model = %v, want ray-1-6", payload["model"])
	}
	if _, ok := payload["duration"]; ok {
		t.Fatalf("duration should be omitted for photo")
	}
	if _, ok := payload["resolution"]; ok {
		t.Fatalf("resolution should be omitted for photo")
	}
}

func TestCreateGenerationProviderError(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSON("POST /dream-machine/v1/generations", http.StatusServiceUnavailable, map[string]any{
		"detail": "overloaded",
	})
	client := newTestClient(t, transport)

	_, err := client.CreateGeneration(context.Background(), domain.GenerationRequest{
		Prompt: "x", MediaType: domain.MediaTypePhoto, AspectRatio: "1:1",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", apiErr.StatusCode)
	}
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("expected error to wrap ErrProviderFailure")
	}
	details, ok := apiErr.Details().(json.RawMessage)
	if !ok {
		t.Fatalf("details should be raw json, got %T", apiErr.Details())
	}
	if !strings.Contains(string(details), "overloaded") {
		t.Fatalf("details = %s, want provider payload", details)
	}
}

func TestCreateGenerationRejectsMissingID(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSON("POST /dream-machine/v1/generations", http.StatusOK, map[string]any{"state": "pending"})
	client := newTestClient(t, transport)

	_, err := client.CreateGeneration(context.Background(), domain.GenerationRequest{
		Prompt: "x", MediaType: domain.MediaTypePhoto, AspectRatio: "1:1",
	})
	if err == nil {
		t.Fatalf("expected error for missing id")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("missing id is not a provider status error")
	}
}

func TestGetGenerationDecodesAssets(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.setJSON("GET /dream-machine/v1/generations/gen-9", http.StatusOK, map[string]any{
		"id":    "gen-9",
		"state": "completed",
		"assets": map[string]any{
			"image": "https://cdn.example.com/gen-9.png",
		},
	})
	client := newTestClient(t, transport)

	job, err := client.GetGeneration(context.Background(), "gen-9")
	if err != nil {
		t.Fatalf("get generation: %v", err)
	}
	if !job.Status.Completed() {
		t.Fatalf("state = %q, want completed", job.Status)
	}
	if got := job.AssetURL(domain.MediaTypePhoto); got != "https://cdn.example.com/gen-9.png" {
		t.Fatalf("image asset = %q", got)
	}
	if got := transport.lastHeader.Get("Authorization"); got != "Bearer luma-test" {
		t.Fatalf("authorization = %q, want Bearer luma-test", got)
	}
}

func TestGetGenerationNonJSONError(t *testing.T) {
	transport := &captureTransport{responses: map[string]responseStub{}}
	transport.responses["GET /dream-machine/v1/generations/gen-9"] = responseStub{
		status: http.StatusBadGateway,
		body:   []byte("upstream down"),
	}
	client := newTestClient(t, transport)

	_, err := client.GetGeneration(context.Background(), "gen-9")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Details() != "upstream down" {
		t.Fatalf("details = %v, want plain text payload", apiErr.Details())
	}
}

func TestAPIErrorDetailsEmptyBody(t *testing.T) {
	for _, body := range [][]byte{nil, []byte("  \n")} {
		apiErr := &APIError{Op: OpCreateGeneration, StatusCode: http.StatusServiceUnavailable, Body: body}
		if got := apiErr.Details(); got != "" {
			t.Fatalf("Details() = %#v, want empty string", got)
		}
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("NewClient() error = %v, want ErrMissingAPIKey", err)
	}
}

func newTestClient(t *testing.T, transport http.RoundTripper) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "luma-test",
		BaseURL:    "https://api.lumalabs.ai/dream-machine/v1/",
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

type captureTransport struct {
	responses  map[string]responseStub
	lastBody   []byte
	lastHeader http.Header
}

type responseStub struct {
	status int
	body   []byte
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.lastHeader = req.Header.Clone()
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		c.lastBody = body
	}
	if stub, ok := c.responses[req.Method+" "+req.URL.Path]; ok {
		return &http.Response{
			StatusCode: stub.status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewReader(stub.body)),
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("not found")),
	}, nil
}

func (c *captureTransport) setJSON(key string, status int, payload any) {
	body, _ := json.Marshal(payload)
	c.responses[key] = responseStub{status: status, body: body}
}
