package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mediaproxy/internal/domain"
	"mediaproxy/internal/generation"
	"mediaproxy/internal/providers/luma"
)

const maxRequestBody = 1 << 20

type generateMediaResponse struct {
	MediaURL string `json:"media_url"`
}

// GenerateMedia validates the request, runs the generation to a terminal
// state and answers with the media URL or a translated failure.
func (a *App) GenerateMedia(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.allowedMethods[r.Method]; !ok {
		a.error(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	var req domain.GenerationRequest
	if r.Body != nil {
		if err := decodeGenerationRequest(r.Body, &req); err != nil {
			a.error(w, http.StatusBadRequest, "Invalid JSON body", nil)
			return
		}
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		if errors.Is(err, domain.ErrUnsupportedMediaType) {
			a.error(w, http.StatusBadRequest, "Unsupported media type", nil)
			return
		}
		a.error(w, http.StatusBadRequest, "Missing required fields", nil)
		return
	}

	res, err := a.Generator.Generate(r.Context(), req)
	if err != nil {
		a.generationError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, generateMediaResponse{MediaURL: res.MediaURL})
}

var errTrailingData = errors.New("unexpected data after json body")

// decodeGenerationRequest reads exactly one JSON value. An empty body decodes
// to the zero request.
func decodeGenerationRequest(body io.Reader, req *domain.GenerationRequest) error {
	dec := json.NewDecoder(io.LimitReader(body, maxRequestBody))
	if err := dec.Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func (a *App) generationError(w http.ResponseWriter, r *http.Request, err error) {
	log := a.log(r)

	var apiErr *luma.APIError
	if errors.As(err, &apiErr) {
		message := "Generation request failed"
		if apiErr.Op == luma.OpGetGeneration {
			message = "Failed to fetch generation status"
		}
		log.Warn().Err(err).Int("status", apiErr.StatusCode).Msg(message)
		a.error(w, apiErr.StatusCode, message, apiErr.Details())
		return
	}

	var failed *generation.FailedError
	if errors.As(err, &failed) {
		log.Warn().Str("job_id", failed.JobID).Str("reason", failed.Reason).Msg("media generation failed")
		a.error(w, http.StatusInternalServerError, "Media generation failed", failed.Reason)
		return
	}

	if errors.Is(err, domain.ErrGenerationTimeout) {
		log.Warn().Err(err).Msg("media generation timed out")
		a.error(w, http.StatusGatewayTimeout, "Media generation timed out", err.Error())
		return
	}

	log.Error().Err(err).Msg("generate media")
	a.error(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
}
