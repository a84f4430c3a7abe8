package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediaproxy/internal/domain"
	"mediaproxy/internal/infra"
)

// Provider is the external generative-media API.
type Provider interface {
	CreateGeneration(ctx context.Context, req domain.GenerationRequest) (*domain.Job, error)
	GetGeneration(ctx context.Context, id string) (*domain.Job, error)
}

// WaitFunc suspends for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Options tunes the poll loop. Zero MaxPolls or Timeout disables that bound.
type Options struct {
	PollInterval time.Duration
	MaxPolls     int
	Timeout      time.Duration
	Wait         WaitFunc
	Logger       *infra.Logger
}

// Result is what a completed job resolves to.
type Result struct {
	JobID    string
	MediaURL string
	Polls    int
}

// FailedError reports a job that reached a terminal state other than completed.
type FailedError struct {
	JobID  string
	Status domain.JobStatus
	Reason string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("generation %s ended in state %q: %s", e.JobID, e.Status, e.Reason)
}

func (e *FailedError) Unwrap() error {
	return domain.ErrGenerationFailed
}

// Service submits a job and polls it to a terminal state. It holds no
// per-job state, so one instance serves concurrent requests.
type Service struct {
	provider Provider
	interval time.Duration
	maxPolls int
	timeout  time.Duration
	wait     WaitFunc
	logger   *infra.Logger
}

const defaultPollInterval = 3 * time.Second

func NewService(provider Provider, opts Options) *Service {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	wait := opts.Wait
	if wait == nil {
		wait = Sleep
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	maxPolls := opts.MaxPolls
	if maxPolls < 0 {
		maxPolls = 0
	}
	return &Service{
		provider: provider,
		interval: interval,
		maxPolls: maxPolls,
		timeout:  opts.Timeout,
		wait:     wait,
		logger:   logger,
	}
}

// Generate runs validating → submitting → polling → terminal for one request.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	parent := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	created, err := s.provider.CreateGeneration(ctx, req)
	if err != nil {
		return nil, s.deadline(parent, ctx, err)
	}
	jobID := created.ID
	log := s.logger.With().Str("job_id", jobID).Str("media_type", string(req.MediaType)).Logger()
	log.Info().Msg("generation submitted")

	// The create response is not trusted to be terminal; the first status
	// query decides.
	job := &domain.Job{ID: jobID, Status: domain.JobStatusPending}
	polls := 0
	for job.Status.InProgress() {
		if s.maxPolls > 0 && polls >= s.maxPolls {
			log.Warn().Int("polls", polls).Msg("generation poll limit reached")
			return nil, fmt.Errorf("%w after %d status queries", domain.ErrGenerationTimeout, polls)
		}
		if err := s.wait(ctx, s.interval); err != nil {
			return nil, s.deadline(parent, ctx, err)
		}
		polls++
		next, err := s.provider.GetGeneration(ctx, jobID)
		if err != nil {
			return nil, s.deadline(parent, ctx, err)
		}
		if next.ID != "" && next.ID != jobID {
			return nil, fmt.Errorf("%w: asked for %s, got %s", domain.ErrJobMismatch, jobID, next.ID)
		}
		if next.Status != job.Status {
			log.Debug().
				Str("from", string(job.Status)).
				Str("to", string(next.Status)).
				Int("poll", polls).
				Msg("generation state changed")
		}
		next.ID = jobID
		job = next
	}

	if !job.Status.Completed() {
		reason := job.FailureReason
		if reason == "" {
			reason = "Unknown error"
		}
		log.Warn().Str("state", string(job.Status)).Str("reason", reason).Msg("generation failed")
		return nil, &FailedError{JobID: jobID, Status: job.Status, Reason: reason}
	}

	mediaURL := job.AssetURL(req.MediaType)
	if mediaURL == "" {
		return nil, fmt.Errorf("%w: %s asset missing for %s", domain.ErrMissingAsset, req.MediaType.AssetKind(), jobID)
	}
	log.Info().Int("polls", polls).Msg("generation completed")
	return &Result{JobID: jobID, MediaURL: mediaURL, Polls: polls}, nil
}

// deadline maps expiry of the service's own timeout to ErrGenerationTimeout.
// Cancellation by the caller passes through untouched.
func (s *Service) deadline(parent, ctx context.Context, err error) error {
	if parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", domain.ErrGenerationTimeout, s.timeout, err)
	}
	return err
}

// Sleep waits for d unless ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
