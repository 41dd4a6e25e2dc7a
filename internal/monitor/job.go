package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"pagewatch/internal/differ"
	"pagewatch/internal/fetcher"
	"pagewatch/internal/models"
	"pagewatch/internal/normalizer"
)

// ContentFetcher retrieves the current body of a monitored URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Result, error)
}

// Job runs check cycles for one target: fetch, normalize, compare against
// the stored snapshot, and emit a ChangeEvent when the content changed.
type Job struct {
	target Target
	fetch  ContentFetcher
	store  models.SnapshotStore
	differ *differ.Differ
	events chan<- models.ChangeEvent
	logger zerolog.Logger

	inFlight            atomic.Bool
	lastAttempt         atomic.Int64 // unix nanos of the last cycle start
	consecutiveFailures int
}

// NewJob creates a monitor job for a single target.
func NewJob(
	target Target,
	contentFetcher ContentFetcher,
	store models.SnapshotStore,
	contentDiffer *differ.Differ,
	events chan<- models.ChangeEvent,
	logger zerolog.Logger,
) *Job {
	return &Job{
		target: target,
		fetch:  contentFetcher,
		store:  store,
		differ: contentDiffer,
		events: events,
		logger: logger.With().Str("target", target.Name).Str("url", target.URL).Logger(),
	}
}

// Name returns the target's unique name.
func (j *Job) Name() string {
	return j.target.Name
}

// Interval returns the target's check interval.
func (j *Job) Interval() time.Duration {
	return j.target.Interval
}

// RunCycle performs one check cycle. Cycles for the same target never
// overlap: if a previous cycle is still running the tick is dropped.
func (j *Job) RunCycle(ctx context.Context) {
	if !j.inFlight.CompareAndSwap(false, true) {
		j.logger.Warn().
			Time("in_flight_since", time.Unix(0, j.lastAttempt.Load())).
			Msg("Previous check cycle still running, dropping tick")
		return
	}
	defer j.inFlight.Store(false)
	j.lastAttempt.Store(time.Now().UnixNano())

	result, err := j.fetch.Fetch(ctx, j.target.URL)
	if err != nil {
		j.consecutiveFailures++
		j.logger.Warn().
			Err(err).
			Int("consecutive_failures", j.consecutiveFailures).
			Msg("Fetch failed, keeping last known snapshot")
		return
	}

	normalized := normalizer.Normalize(result.Body)
	newHash := normalizer.KeyOf(normalized)

	last, err := j.store.Get(j.target.Name)
	if err != nil && !errors.Is(err, models.ErrSnapshotNotFound) {
		j.consecutiveFailures++
		j.logger.Error().Err(err).Msg("Failed to load stored snapshot")
		return
	}

	snapshot := models.Snapshot{
		TargetName: j.target.Name,
		URL:        j.target.URL,
		Hash:       newHash,
		Content:    normalized,
		FetchedAt:  result.FetchedAt,
	}

	if last == nil {
		if err := j.store.Put(snapshot); err != nil {
			j.consecutiveFailures++
			j.logger.Error().Err(err).Msg("Failed to store baseline snapshot")
			return
		}
		j.consecutiveFailures = 0
		j.logger.Info().Str("hash", newHash).Msg("Baseline snapshot stored")
		return
	}

	if last.Hash == newHash {
		j.consecutiveFailures = 0
		j.logger.Debug().Msg("No content change detected")
		return
	}

	diffResult := j.differ.Render(last.Content, normalized)

	if err := j.store.Put(snapshot); err != nil {
		j.consecutiveFailures++
		j.logger.Error().Err(err).Msg("Failed to store updated snapshot")
		return
	}
	j.consecutiveFailures = 0

	j.logger.Info().
		Str("old_hash", last.Hash).
		Str("new_hash", newHash).
		Int("lines_added", diffResult.LinesAdded).
		Int("lines_removed", diffResult.LinesRemoved).
		Msg("Content change detected")

	event := models.ChangeEvent{
		TargetName: j.target.Name,
		URL:        j.target.URL,
		DetectedAt: time.Now(),
		OldHash:    last.Hash,
		NewHash:    newHash,
		Diff:       diffResult.Text,
	}

	select {
	case j.events <- event:
	case <-ctx.Done():
		j.logger.Warn().Msg("Shutdown before change event could be queued")
	}
}
