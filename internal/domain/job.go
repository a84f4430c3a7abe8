package domain

import "strings"

// JobStatus enumerates provider-side job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"

	// Emitted by the Dream Machine API in place of pending/processing.
	JobStatusQueued   JobStatus = "queued"
	JobStatusDreaming JobStatus = "dreaming"
)

// InProgress reports whether the job still needs polling.
func (s JobStatus) InProgress() bool {
	switch JobStatus(strings.ToLower(string(s))) {
	case JobStatusPending, JobStatusProcessing, JobStatusQueued, JobStatusDreaming:
		return true
	}
	return false
}

// Completed reports whether the job finished with assets.
func (s JobStatus) Completed() bool {
	return JobStatus(strings.ToLower(string(s))) == JobStatusCompleted
}

// Assets maps media kinds to the URLs the provider produced.
type Assets struct {
	Image string `json:"image,omitempty"`
	Video string `json:"video,omitempty"`
}

// Job is a single asynchronous generation tracked by the provider. It lives
// only for the duration of one proxy request.
type Job struct {
	ID            string    `json:"id"`
	Status        JobStatus `json:"state"`
	Assets        *Assets   `json:"assets,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

// AssetURL selects the asset matching the requested media type.
func (j *Job) AssetURL(mediaType MediaType) string {
	if j == nil || j.Assets == nil {
		return ""
	}
	if mediaType == MediaTypePhoto {
		return strings.TrimSpace(j.Assets.Image)
	}
	return strings.TrimSpace(j.Assets.Video)
}
