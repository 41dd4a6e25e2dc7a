package monitor

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pagewatch/internal/common"
)

// Scheduler runs each job on its own ticker so targets never block one
// another. The first cycle for every target fires immediately on Start.
type Scheduler struct {
	logger zerolog.Logger
	jobs   []*Job
	grace  time.Duration

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	mutex      sync.Mutex
	active     bool
}

// NewScheduler creates a scheduler for the given jobs. grace bounds how
// long Stop waits for in-flight cycles to finish.
func NewScheduler(jobs []*Job, grace time.Duration, logger zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger:     logger.With().Str("component", "Scheduler").Logger(),
		jobs:       jobs,
		grace:      grace,
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches one polling goroutine per job.
func (s *Scheduler) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.active {
		return common.NewError("scheduler is already running")
	}
	s.active = true

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	s.logger.Info().Int("targets", len(s.jobs)).Msg("Scheduler started")
	return nil
}

// Stop cancels all jobs and waits for in-flight cycles up to the grace
// period.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	if !s.active {
		s.mutex.Unlock()
		return
	}
	s.active = false
	s.mutex.Unlock()

	s.logger.Info().Msg("Scheduler stopping")
	s.cancelFunc()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Scheduler stopped")
	case <-time.After(s.grace):
		s.logger.Warn().
			Dur("grace", s.grace).
			Msg("Scheduler did not stop within grace period")
	}
}

func (s *Scheduler) runJob(job *Job) {
	defer s.wg.Done()

	s.logger.Info().
		Str("target", job.Name()).
		Dur("interval", job.Interval()).
		Msg("Monitor job started")

	s.runCycleSafe(job)

	ticker := time.NewTicker(job.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info().Str("target", job.Name()).Msg("Monitor job stopped")
			return
		case <-ticker.C:
			s.runCycleSafe(job)
		}
	}
}

// runCycleSafe isolates panics so one misbehaving target cannot take
// down the other polling goroutines.
func (s *Scheduler) runCycleSafe(job *Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("target", job.Name()).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic in check cycle")
		}
	}()
	job.RunCycle(s.ctx)
}
