package domain

import "errors"

var (
	ErrMissingFields        = errors.New("missing required fields")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrProviderFailure      = errors.New("provider failure")
	ErrGenerationFailed     = errors.New("generation failed")
	ErrGenerationTimeout    = errors.New("generation timed out")
	ErrJobMismatch          = errors.New("provider returned a different job")
	ErrMissingAsset         = errors.New("completed job has no asset")
)
