package domain

import (
	"errors"
	"testing"
)

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  GenerationRequest
		want error
	}{
		{
			name: "complete photo",
			req:  GenerationRequest{Prompt: "a cat", MediaType: "photo", AspectRatio: "16:9"},
		},
		{
			name: "complete video",
			req:  GenerationRequest{Prompt: "a cat", MediaType: "video", AspectRatio: "9:16"},
		},
		{
			name: "missing prompt",
			req:  GenerationRequest{MediaType: "photo", AspectRatio: "16:9"},
			want: ErrMissingFields,
		},
		{
			name: "missing media type",
			req:  GenerationRequest{Prompt: "a cat", AspectRatio: "16:9"},
			want: ErrMissingFields,
		},
		{
			name: "missing aspect ratio",
			req:  GenerationRequest{Prompt: "a cat", MediaType: "video"},
			want: ErrMissingFields,
		},
		{
			name: "whitespace prompt",
			req:  GenerationRequest{Prompt: "   ", MediaType: "photo", AspectRatio: "1:1"},
			want: ErrMissingFields,
		},
		{
			name: "unknown media type",
			req:  GenerationRequest{Prompt: "a cat", MediaType: "audio", AspectRatio: "1:1"},
			want: ErrUnsupportedMediaType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			req.Normalize()
			err := req.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestJobStatusInProgress(t *testing.T) {
	inProgress := []JobStatus{"pending", "processing", "queued", "dreaming", "PENDING"}
	for _, s := range inProgress {
		if !s.InProgress() {
			t.Fatalf("%q should be in progress", s)
		}
	}
	terminal := []JobStatus{"completed", "failed", "cancelled", ""}
	for _, s := range terminal {
		if s.InProgress() {
			t.Fatalf("%q should be terminal", s)
		}
	}
}

func TestJobAssetURL(t *testing.T) {
	job := &Job{Assets: &Assets{Image: "https://cdn.example.com/x.png", Video: "https://cdn.example.com/y.mp4"}}
	if got := job.AssetURL(MediaTypePhoto); got != "https://cdn.example.com/x.png" {
		t.Fatalf("photo asset = %q", got)
	}
	if got := job.AssetURL(MediaTypeVideo); got != "https://cdn.example.com/y.mp4" {
		t.Fatalf("video asset = %q", got)
	}
	if got := (&Job{}).AssetURL(MediaTypePhoto); got != "" {
		t.Fatalf("expected empty url without assets, got %q", got)
	}
}
