package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	financeapp "github.com/m77ag/backend/internal/application/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	fail  int // number of leading calls that fail
}

func (f *fakeRefresher) RefreshOverdue(context.Context) (*financeapp.RefreshResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fail {
		return nil, errors.New("database unavailable")
	}
	return &financeapp.RefreshResult{InvoicesChecked: 4, InvoicesUpdated: 2}, nil
}

type fakeInvalidator struct {
	mu        sync.Mutex
	calls     int
	refresher *fakeRefresher
	seen      []int // refresher calls observed at each invalidation
}

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.refresher != nil {
		f.refresher.mu.Lock()
		f.seen = append(f.seen, f.refresher.calls)
		f.refresher.mu.Unlock()
	}
	return nil
}

// startScheduler returns a running scheduler and a channel of finished jobs
func startScheduler(t *testing.T, cfg SchedulerConfig) (*Scheduler, <-chan *Job) {
	t.Helper()
	s := NewScheduler(cfg, zap.NewNop())
	finished := make(chan *Job, 16)
	s.onFinish = func(j *Job) { finished <- j }
	return s, finished
}

func run(t *testing.T, s *Scheduler) {
	t.Helper()
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
}

func waitJob(t *testing.T, finished <-chan *Job) *Job {
	t.Helper()
	select {
	case j := <-finished:
		return j
	case <-time.After(2 * time.Second):
		t.Fatal("job did not finish")
		return nil
	}
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(TaskRefreshOverdue, 1)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Empty(t, job.Error)

	job.Start()
	job.Fail("boom again")
	assert.False(t, job.ShouldRetry())

	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
}

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Register("b", noop))
	require.NoError(t, s.Register("a", noop))
	require.NoError(t, s.RegisterManual("c", noop))
	assert.ErrorIs(t, s.Register("a", noop), ErrDuplicateTask)
	assert.ErrorIs(t, s.RegisterManual("b", noop), ErrDuplicateTask)
	assert.Equal(t, []string{"a", "b", "c"}, s.Tasks())
}

func TestScheduler_SubmitErrors(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	require.NoError(t, s.Register(TaskRefreshOverdue, func(context.Context) error { return nil }))

	_, err := s.Submit(TaskRefreshOverdue)
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)

	run(t, s)
	_, err = s.Submit("calve_heifers")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestRegisterMaintenance_RunDaily(t *testing.T) {
	for _, workers := range []int{1, 4} {
		cfg := DefaultSchedulerConfig()
		cfg.MaxConcurrentJobs = workers
		s, finished := startScheduler(t, cfg)
		refresher := &fakeRefresher{}
		overview := &fakeInvalidator{refresher: refresher}
		require.NoError(t, RegisterMaintenance(s, refresher, overview, zap.NewNop()))
		run(t, s)

		require.NoError(t, s.RunDaily())

		job := waitJob(t, finished)
		assert.Equal(t, TaskRefreshOverdue, job.Task)
		assert.Equal(t, JobStatusSuccess, job.Status)
		select {
		case extra := <-finished:
			t.Fatalf("unexpected daily job %s", extra.Task)
		case <-time.After(50 * time.Millisecond):
		}

		assert.Equal(t, 1, refresher.calls)
		assert.Equal(t, []int{1}, overview.seen, "overview dropped after the sweep with %d workers", workers)
	}
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	cfg.RetryAttempts = 2
	cfg.RetryDelay = 10 * time.Millisecond
	s, finished := startScheduler(t, cfg)
	refresher := &fakeRefresher{fail: 1}
	overview := &fakeInvalidator{refresher: refresher}
	require.NoError(t, RegisterMaintenance(s, refresher, overview, zap.NewNop()))
	run(t, s)

	_, err := s.Submit(TaskRefreshOverdue)
	require.NoError(t, err)

	job := waitJob(t, finished)
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, 2, refresher.calls)
	assert.Equal(t, []int{2}, overview.seen)
}

func TestScheduler_GivesUpAfterRetries(t *testing.T) {
	cfg := DefaultSchedulerConfig()
	cfg.RetryAttempts = 1
	cfg.RetryDelay = time.Millisecond
	s, finished := startScheduler(t, cfg)
	refresher := &fakeRefresher{fail: 10}
	overview := &fakeInvalidator{}
	require.NoError(t, RegisterMaintenance(s, refresher, overview, zap.NewNop()))
	run(t, s)

	_, err := s.Submit(TaskRefreshOverdue)
	require.NoError(t, err)

	job := waitJob(t, finished)
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "database unavailable", job.Error)
	assert.Equal(t, 2, refresher.calls)
	assert.Zero(t, overview.calls)
}

func TestCronTrigger_CheckAndTrigger(t *testing.T) {
	s, finished := startScheduler(t, DefaultSchedulerConfig())
	overview := &fakeInvalidator{}
	require.NoError(t, s.Register(TaskInvalidateReport, overview.Invalidate))
	run(t, s)

	trigger := NewCronTrigger(CronTriggerConfig{DailyHour: 2, DailyMinute: 30}, s, zap.NewNop())
	clock := time.Date(2026, 3, 14, 1, 59, 0, 0, time.UTC)
	trigger.now = func() time.Time { return clock }

	assert.False(t, trigger.checkAndTrigger(), "before run time")

	clock = time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)
	assert.True(t, trigger.checkAndTrigger())
	waitJob(t, finished)

	clock = time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	assert.False(t, trigger.checkAndTrigger(), "already ran today")

	clock = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	assert.True(t, trigger.checkAndTrigger(), "late start still runs")
	waitJob(t, finished)

	assert.Equal(t, 2, overview.calls)
}

func TestCronTrigger_StartStop(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig(), zap.NewNop())
	trigger := NewCronTrigger(CronTriggerConfig{CheckInterval: 5 * time.Millisecond}, s, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
}

func TestCronTrigger_TriggerManualRun(t *testing.T) {
	s, finished := startScheduler(t, DefaultSchedulerConfig())
	refresher := &fakeRefresher{}
	overview := &fakeInvalidator{}
	require.NoError(t, RegisterMaintenance(s, refresher, overview, zap.NewNop()))
	run(t, s)
	trigger := NewCronTrigger(DefaultCronTriggerConfig(), s, zap.NewNop())

	require.NoError(t, trigger.TriggerManualRun(TaskInvalidateReport))
	waitJob(t, finished)
	assert.Equal(t, 0, refresher.calls)
	assert.Equal(t, 1, overview.calls)

	assert.ErrorIs(t, trigger.TriggerManualRun("sell_hay"), ErrUnknownTask)
}
