package monitor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rs/zerolog"

	"pagewatch/internal/fetcher"
)

func countingFetcher(counter *atomic.Int32, body string) ContentFetcher {
	return fetchFunc(func(ctx context.Context, url string) (*fetcher.Result, error) {
		counter.Add(1)
		return htmlResult(body), nil
	})
}

func TestSchedulerRunsFirstCycleImmediately(t *testing.T) {
	var calls atomic.Int32
	job, _, _ := newTestJob(t, countingFetcher(&calls, "<p>stable</p>"))
	job.target.Interval = time.Hour

	scheduler := NewScheduler([]*Job{job}, time.Second, zerolog.Nop())
	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return calls.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSchedulerStartTwiceFails(t *testing.T) {
	var calls atomic.Int32
	job, _, _ := newTestJob(t, countingFetcher(&calls, "<p>stable</p>"))
	job.target.Interval = time.Hour

	scheduler := NewScheduler([]*Job{job}, time.Second, zerolog.Nop())
	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	assert.Error(t, scheduler.Start())
}

func TestSchedulerTargetsAreIndependent(t *testing.T) {
	failing := fetchFunc(func(ctx context.Context, url string) (*fetcher.Result, error) {
		return nil, fetcher.NewNetworkError(url, "connection refused", nil)
	})
	jobA, storeA, _ := newTestJob(t, failing)
	jobA.target.Name = "broken"
	jobA.target.Interval = 10 * time.Millisecond

	var healthyCalls atomic.Int32
	jobB, storeB, _ := newTestJob(t, countingFetcher(&healthyCalls, "<p>ok</p>"))
	jobB.target.Name = "healthy"
	jobB.target.Interval = 10 * time.Millisecond

	scheduler := NewScheduler([]*Job{jobA, jobB}, time.Second, zerolog.Nop())
	require.NoError(t, scheduler.Start())

	assert.Eventually(t, func() bool {
		return healthyCalls.Load() >= 3
	}, time.Second, 10*time.Millisecond)
	scheduler.Stop()

	_, err := storeA.Get("broken")
	assert.Error(t, err)
	snapshot, err := storeB.Get("healthy")
	require.NoError(t, err)
	assert.Equal(t, "ok", snapshot.Content)
}

func TestSchedulerRecoversFromPanic(t *testing.T) {
	panicking := fetchFunc(func(ctx context.Context, url string) (*fetcher.Result, error) {
		panic("parser blew up")
	})
	jobA, _, _ := newTestJob(t, panicking)
	jobA.target.Name = "panicky"
	jobA.target.Interval = 10 * time.Millisecond

	var healthyCalls atomic.Int32
	jobB, _, _ := newTestJob(t, countingFetcher(&healthyCalls, "<p>ok</p>"))
	jobB.target.Name = "healthy"
	jobB.target.Interval = 10 * time.Millisecond

	scheduler := NewScheduler([]*Job{jobA, jobB}, time.Second, zerolog.Nop())
	require.NoError(t, scheduler.Start())
	defer scheduler.Stop()

	assert.Eventually(t, func() bool {
		return healthyCalls.Load() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestSchedulerStopWaitsForInFlightCycle(t *testing.T) {
	started := make(chan struct{})
	blocking := fetchFunc(func(ctx context.Context, url string) (*fetcher.Result, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	job, _, _ := newTestJob(t, blocking)
	job.target.Interval = time.Hour

	scheduler := NewScheduler([]*Job{job}, 500*time.Millisecond, zerolog.Nop())
	require.NoError(t, scheduler.Start())
	<-started

	begin := time.Now()
	scheduler.Stop()
	assert.Less(t, time.Since(begin), 500*time.Millisecond)
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	job, _, _ := newTestJob(t, countingFetcher(&calls, "<p>stable</p>"))
	job.target.Interval = time.Hour

	scheduler := NewScheduler([]*Job{job}, time.Second, zerolog.Nop())
	require.NoError(t, scheduler.Start())
	scheduler.Stop()
	scheduler.Stop()
}
