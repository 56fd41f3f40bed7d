package backfill

import (
	"time"
)

// JobType enumerates the supported backfill job variants.
type JobType string

const (
	// JobTypeSeasons refreshes an explicit list of seasons.
	JobTypeSeasons JobType = "seasons"
	// JobTypeRecent refreshes the most recent N seasons.
	JobTypeRecent JobType = "recent"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is one backfill run and its progress.
type Job struct {
	JobID           string     `json:"job_id"`
	JobType         JobType    `json:"job_type"`
	Team            string     `json:"team"`
	Seasons         []string   `json:"seasons"`
	DryRun          bool       `json:"dry_run,omitempty"`
	Status          JobStatus  `json:"status"`
	StatusMessage   string     `json:"status_message,omitempty"`
	ProgressCurrent int        `json:"progress_current"`
	ProgressTotal   int        `json:"progress_total"`
	FailedSeasons   []string   `json:"failed_seasons,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Copy returns a copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	cpy.Seasons = append([]string(nil), j.Seasons...)
	cpy.FailedSeasons = append([]string(nil), j.FailedSeasons...)
	if j.StartedAt != nil {
		t := *j.StartedAt
		cpy.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cpy.CompletedAt = &t
	}
	return &cpy
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	Type    JobType
	Team    string
	Seasons []string
	DryRun  bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnSeasonStart(seasonID string, index int, total int)
	OnSeasonRefreshed(seasonID string, games int)
	OnProgress(message string, current int, total int)
	OnJobComplete()
	OnJobError(seasonID string, err error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs"`
}
