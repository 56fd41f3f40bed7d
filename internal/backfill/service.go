package backfill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/season"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/teams"
)

const (
	defaultHistoryLimit = 10
	queueSize           = 16

	// MaxRecentSeasons caps a recent-seasons job.
	MaxRecentSeasons = season.DefaultWindow + 1
)

var (
	// ErrInvalidRequest means the request names no valid team or seasons.
	ErrInvalidRequest = errors.New("invalid backfill request")

	// ErrQueueFull means too many jobs are waiting.
	ErrQueueFull = errors.New("backfill queue full")
)

// Request represents a backfill invocation request.
type Request struct {
	Team    string
	Seasons []string
	Recent  int
	DryRun  bool
}

// DeriveType infers the job type based on populated fields.
func (r Request) DeriveType() (JobType, error) {
	if len(r.Seasons) > 0 {
		return JobTypeSeasons, nil
	}
	if r.Recent > 0 {
		return JobTypeRecent, nil
	}
	return "", fmt.Errorf("%w: specify seasons or recent", ErrInvalidRequest)
}

// BuildSpec validates r and resolves its seasons, oldest first for recent
// jobs and in request order otherwise.
func BuildSpec(r Request, now time.Time) (JobSpec, error) {
	jobType, err := r.DeriveType()
	if err != nil {
		return JobSpec{}, err
	}

	team, ok := teams.Lookup(strings.ToUpper(strings.TrimSpace(r.Team)))
	if !ok {
		return JobSpec{}, fmt.Errorf("%w: unknown team %q", ErrInvalidRequest, r.Team)
	}

	spec := JobSpec{Type: jobType, Team: team.ID, DryRun: r.DryRun}
	switch jobType {
	case JobTypeSeasons:
		seen := make(map[string]bool, len(r.Seasons))
		for _, id := range r.Seasons {
			id = strings.TrimSpace(id)
			if _, ok := season.ByID(id); !ok {
				return JobSpec{}, fmt.Errorf("%w: unknown season %q", ErrInvalidRequest, id)
			}
			if !seen[id] {
				seen[id] = true
				spec.Seasons = append(spec.Seasons, id)
			}
		}
	case JobTypeRecent:
		if r.Recent > MaxRecentSeasons {
			return JobSpec{}, fmt.Errorf("%w: recent must be at most %d", ErrInvalidRequest, MaxRecentSeasons)
		}
		for _, info := range season.Available(r.Recent-1, now) {
			spec.Seasons = append(spec.Seasons, info.ID)
		}
	}
	return spec, nil
}

// Service queues jobs in memory and runs them one at a time.
type Service struct {
	runner *Runner
	clock  clockwork.Clock

	historyLimit int
	queue        chan *Job

	mu      sync.Mutex
	active  *Job
	history []*Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	log zerolog.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(runner *Runner, clock clockwork.Clock, log zerolog.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		runner:       runner,
		clock:        clock,
		historyLimit: defaultHistoryLimit,
		queue:        make(chan *Job, queueSize),
		ctx:          ctx,
		cancel:       cancel,
		log:          log.With().Str("component", "backfill").Logger(),
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops workers and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(_ context.Context, req Request) (*Job, error) {
	now := s.clock.Now()
	spec, err := BuildSpec(req, now)
	if err != nil {
		return nil, err
	}

	job := &Job{
		JobID:         uuid.NewString(),
		JobType:       spec.Type,
		Team:          spec.Team,
		Seasons:       spec.Seasons,
		DryRun:        spec.DryRun,
		Status:        JobStatusQueued,
		StatusMessage: "Queued",
		ProgressTotal: len(spec.Seasons),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.queue <- job:
	default:
		return nil, ErrQueueFull
	}
	s.record(job)

	s.log.Info().Str("job_id", job.JobID).Str("team", job.Team).Strs("seasons", job.Seasons).Msg("job queued")
	return job.Copy(), nil
}

// GetStatus returns the currently running job plus recent history, newest
// first.
func (s *Service) GetStatus(_ context.Context) (*StatusSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &StatusSummary{
		ActiveJob: s.active.Copy(),
		History:   make([]*Job, 0, len(s.history)),
	}
	for _, job := range s.history {
		summary.History = append(summary.History, job.Copy())
	}
	return summary, nil
}

// Job returns a copy of the job with id, if it is still in the history.
func (s *Service) Job(id string) (*Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.history {
		if job.JobID == id {
			return job.Copy(), true
		}
	}
	return nil, false
}

// record prepends job to the history, dropping the oldest finished jobs
// beyond the limit. Callers hold s.mu.
func (s *Service) record(job *Job) {
	s.history = append([]*Job{job}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

func (s *Service) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.cancelQueued()
			return
		case job := <-s.queue:
			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	s.update(job, func(j *Job) {
		now := s.clock.Now()
		j.Status = JobStatusRunning
		j.StatusMessage = "Starting job..."
		j.StartedAt = &now
		s.active = j
	})

	spec := JobSpec{Type: job.JobType, Team: job.Team, Seasons: job.Seasons, DryRun: job.DryRun}
	err := s.runner.Run(s.ctx, spec, &jobReporter{service: s, job: job})

	s.update(job, func(j *Job) {
		now := s.clock.Now()
		j.CompletedAt = &now
		s.active = nil

		switch {
		case err == nil:
			j.Status = JobStatusCompleted
			j.StatusMessage = "Job completed"
		case errors.Is(err, context.Canceled):
			j.Status = JobStatusCancelled
			j.StatusMessage = "Job cancelled"
		default:
			j.Status = JobStatusFailed
			j.StatusMessage = "Job failed"
			j.LastError = err.Error()
		}
	})

	s.log.Info().Str("job_id", job.JobID).Str("status", string(job.Status)).Msg("job finished")
}

func (s *Service) cancelQueued() {
	for {
		select {
		case job := <-s.queue:
			s.update(job, func(j *Job) {
				j.Status = JobStatusCancelled
				j.StatusMessage = "Service shutting down"
			})
		default:
			return
		}
	}
}

// update applies fn to job under the lock and stamps UpdatedAt.
func (s *Service) update(job *Job, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(job)
	job.UpdatedAt = s.clock.Now()
}

type jobReporter struct {
	service *Service
	job     *Job
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	r.service.update(r.job, func(j *Job) {
		j.ProgressTotal = len(spec.Seasons)
		j.StatusMessage = "Job starting"
	})
}

func (r *jobReporter) OnSeasonStart(seasonID string, index int, total int) {
	r.service.update(r.job, func(j *Job) {
		j.StatusMessage = fmt.Sprintf("Refreshing %s (%d/%d)", season.DisplayName(seasonID), index+1, total)
	})
}

func (r *jobReporter) OnSeasonRefreshed(string, int) {}

func (r *jobReporter) OnProgress(message string, current int, total int) {
	r.service.update(r.job, func(j *Job) {
		j.ProgressCurrent = current
		if total > 0 {
			j.ProgressTotal = total
		}
		j.StatusMessage = message
	})
}

func (r *jobReporter) OnJobComplete() {
	r.service.update(r.job, func(j *Job) {
		j.ProgressCurrent = j.ProgressTotal
		j.StatusMessage = "Job complete"
	})
}

func (r *jobReporter) OnJobError(seasonID string, err error) {
	r.service.update(r.job, func(j *Job) {
		if seasonID != "" {
			j.FailedSeasons = append(j.FailedSeasons, seasonID)
		}
		j.LastError = err.Error()
	})
}
