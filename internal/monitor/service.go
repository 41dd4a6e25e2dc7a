package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pagewatch/internal/common"
	"pagewatch/internal/config"
	"pagewatch/internal/differ"
	"pagewatch/internal/fetcher"
	"pagewatch/internal/models"
	"pagewatch/internal/notifier"
)

const (
	eventQueueSize       = 64
	notificationTimeout  = 30 * time.Second
	defaultShutdownGrace = 10 * time.Second
	minimumShutdownGrace = time.Second
)

// MonitoringService owns the scheduler and the notification dispatcher.
// Change events from all jobs flow through a single queue so notifier
// implementations are never called concurrently.
type MonitoringService struct {
	logger    zerolog.Logger
	scheduler *Scheduler
	store     models.SnapshotStore
	notifiers []notifier.Notifier

	events     chan models.ChangeEvent
	dispatchWg sync.WaitGroup

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewMonitoringService wires jobs, scheduler, and the notification
// dispatcher from validated configuration.
func NewMonitoringService(
	cfg *config.MonitorConfig,
	store models.SnapshotStore,
	notifiers []notifier.Notifier,
	logger zerolog.Logger,
) (*MonitoringService, error) {
	if cfg == nil {
		return nil, common.NewError("monitor configuration is required")
	}
	if store == nil {
		return nil, common.NewError("snapshot store is required")
	}
	if len(cfg.Targets) == 0 {
		return nil, common.NewError("at least one target is required")
	}

	serviceLogger := logger.With().Str("component", "MonitoringService").Logger()

	grace := cfg.ShutdownGrace.Std()
	if grace <= 0 {
		grace = defaultShutdownGrace
	}
	if grace < minimumShutdownGrace {
		grace = minimumShutdownGrace
	}

	events := make(chan models.ChangeEvent, eventQueueSize)
	contentFetcher := fetcher.New(cfg, logger)
	contentDiffer := differ.New(cfg.MaxContentSize)

	jobs := make([]*Job, 0, len(cfg.Targets))
	for _, target := range TargetsFromConfig(cfg.Targets) {
		jobs = append(jobs, NewJob(target, contentFetcher, store, contentDiffer, events, logger))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &MonitoringService{
		logger:     serviceLogger,
		scheduler:  NewScheduler(jobs, grace, logger),
		store:      store,
		notifiers:  notifiers,
		events:     events,
		ctx:        ctx,
		cancelFunc: cancel,
	}, nil
}

// Start launches the notification dispatcher and the scheduler.
func (s *MonitoringService) Start() error {
	s.dispatchWg.Add(1)
	go s.dispatchLoop()

	if err := s.scheduler.Start(); err != nil {
		s.cancelFunc()
		s.dispatchWg.Wait()
		return common.WrapError(err, "failed to start scheduler")
	}

	s.logger.Info().Int("notifiers", len(s.notifiers)).Msg("Monitoring service started")
	return nil
}

// Stop shuts down the scheduler, then the dispatcher. The dispatcher
// delivers events already queued before exiting, so Stop never consumes
// the queue itself: only one goroutine ever invokes the notifiers.
func (s *MonitoringService) Stop() {
	s.logger.Info().Msg("Monitoring service stopping")
	s.scheduler.Stop()

	s.cancelFunc()
	s.dispatchWg.Wait()

	if err := s.store.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to close snapshot store")
	}
	s.logger.Info().Msg("Monitoring service stopped")
}

func (s *MonitoringService) dispatchLoop() {
	defer s.dispatchWg.Done()

	for {
		select {
		case <-s.ctx.Done():
			s.drainQueuedEvents()
			return
		case event := <-s.events:
			s.deliver(event)
		}
	}
}

// drainQueuedEvents delivers events that were queued before the scheduler
// stopped. The scheduler is already down when the context is cancelled, so
// nothing new arrives; it never blocks waiting for events.
func (s *MonitoringService) drainQueuedEvents() {
	for {
		select {
		case event := <-s.events:
			s.deliver(event)
		default:
			return
		}
	}
}

func (s *MonitoringService) deliver(event models.ChangeEvent) {
	for _, n := range s.notifiers {
		notifyCtx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		err := n.Notify(notifyCtx, event)
		cancel()

		if err != nil {
			s.logger.Error().
				Err(err).
				Str("notifier", n.Name()).
				Str("target", event.TargetName).
				Msg("Notification delivery failed")
			continue
		}
		s.logger.Info().
			Str("notifier", n.Name()).
			Str("target", event.TargetName).
			Msg("Notification sent")
	}
}
