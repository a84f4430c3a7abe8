package domain

import (
	"fmt"
	"strings"
)

// MediaType enumerates what the caller asks the provider to render.
type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"
)

// AssetKind names the provider asset that carries the result for this type.
func (m MediaType) AssetKind() string {
	if m == MediaTypePhoto {
		return "image"
	}
	return "video"
}

// GenerationRequest is the inbound contract of the proxy.
type GenerationRequest struct {
	Prompt      string    `json:"prompt"`
	MediaType   MediaType `json:"media_type"`
	AspectRatio string    `json:"aspect_ratio"`
}

// Normalize trims surrounding whitespace from every field.
func (r *GenerationRequest) Normalize() {
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.MediaType = MediaType(strings.ToLower(strings.TrimSpace(string(r.MediaType))))
	r.AspectRatio = strings.TrimSpace(r.AspectRatio)
}

// Validate checks that prompt, media_type and aspect_ratio are all present.
// media_type must then be exactly "photo" or "video"; any other value fails
// with ErrUnsupportedMediaType instead of being treated as video.
func (r GenerationRequest) Validate() error {
	if r.Prompt == "" || r.MediaType == "" || r.AspectRatio == "" {
		return ErrMissingFields
	}
	switch r.MediaType {
	case MediaTypePhoto, MediaTypeVideo:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, r.MediaType)
}
