package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, loader *fakeLoader) *Service {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))
	svc := NewService(NewRunner(loader, zerolog.Nop()), clock, zerolog.Nop())
	svc.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc
}

func waitForStatus(t *testing.T, svc *Service, id string, want JobStatus) *Job {
	t.Helper()
	var job *Job
	require.Eventually(t, func() bool {
		var ok bool
		job, ok = svc.Job(id)
		return ok && job.Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestServiceRunsQueuedJob(t *testing.T) {
	loader := &fakeLoader{}
	svc := newTestService(t, loader)

	job, err := svc.Enqueue(context.Background(), Request{Team: "VGK", Recent: 2})
	require.NoError(t, err)
	assert.Equal(t, JobTypeRecent, job.JobType)
	assert.Equal(t, []string{"20232024", "20242025"}, job.Seasons)
	assert.NotEmpty(t, job.JobID)

	done := waitForStatus(t, svc, job.JobID, JobStatusCompleted)
	assert.Equal(t, 2, done.ProgressCurrent)
	assert.Equal(t, 2, done.ProgressTotal)
	assert.NotNil(t, done.StartedAt)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, []string{"20232024", "20242025"}, loader.seasons())

	status, err := svc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Nil(t, status.ActiveJob)
	require.Len(t, status.History, 1)
	assert.Equal(t, job.JobID, status.History[0].JobID)
}

func TestServiceRecordsFailedSeasons(t *testing.T) {
	loader := &fakeLoader{failing: map[string]error{"20232024": errors.New("boom")}}
	svc := newTestService(t, loader)

	job, err := svc.Enqueue(context.Background(), Request{Team: "VGK", Seasons: []string{"20232024", "20242025"}})
	require.NoError(t, err)

	failed := waitForStatus(t, svc, job.JobID, JobStatusFailed)
	assert.Equal(t, []string{"20232024"}, failed.FailedSeasons)
	assert.Contains(t, failed.LastError, "boom")
}

func TestServiceReportsActiveJob(t *testing.T) {
	loader := &fakeLoader{block: make(chan struct{})}
	svc := newTestService(t, loader)

	job, err := svc.Enqueue(context.Background(), Request{Team: "VGK", Seasons: []string{"20242025"}})
	require.NoError(t, err)
	waitForStatus(t, svc, job.JobID, JobStatusRunning)

	status, err := svc.GetStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status.ActiveJob)
	assert.Equal(t, job.JobID, status.ActiveJob.JobID)

	close(loader.block)
	waitForStatus(t, svc, job.JobID, JobStatusCompleted)
}

func TestServiceHistoryIsBounded(t *testing.T) {
	loader := &fakeLoader{}
	svc := newTestService(t, loader)

	var last *Job
	for i := 0; i < defaultHistoryLimit+3; i++ {
		job, err := svc.Enqueue(context.Background(), Request{Team: "VGK", Recent: 1, DryRun: true})
		require.NoError(t, err)
		waitForStatus(t, svc, job.JobID, JobStatusCompleted)
		last = job
	}

	status, err := svc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Len(t, status.History, defaultHistoryLimit)
	assert.Equal(t, last.JobID, status.History[0].JobID)
	assert.Empty(t, loader.seasons())
}

func TestServiceRejectsInvalidRequest(t *testing.T) {
	svc := newTestService(t, &fakeLoader{})

	_, err := svc.Enqueue(context.Background(), Request{Team: "VGK"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	status, err := svc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, status.History)
}

func TestServiceShutdownCancelsRunningJob(t *testing.T) {
	loader := &fakeLoader{block: make(chan struct{})}
	clock := clockwork.NewFakeClock()
	svc := NewService(NewRunner(loader, zerolog.Nop()), clock, zerolog.Nop())
	svc.Start()

	job, err := svc.Enqueue(context.Background(), Request{Team: "VGK", Seasons: []string{"20242025"}})
	require.NoError(t, err)
	waitForStatus(t, svc, job.JobID, JobStatusRunning)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	got, ok := svc.Job(job.JobID)
	require.True(t, ok)
	assert.Equal(t, JobStatusCancelled, got.Status)
}
