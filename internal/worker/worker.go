// Package worker runs the periodic ingestion cycle: load topics and
// active sources, fan out to platform adapters, merge/dedupe/score/gate,
// and persist accepted results (spec.md §4.9).
package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/jibe0123/mysteryfactory/internal/classifier"
	"github.com/jibe0123/mysteryfactory/internal/dedup"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/pipeline"
	"github.com/jibe0123/mysteryfactory/internal/platforms"
	"github.com/jibe0123/mysteryfactory/internal/scoring"
	"github.com/jibe0123/mysteryfactory/internal/store"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

// Stats are the counters one cycle returns.
type Stats struct {
	Processed      int
	Viral          int
	Skipped        int
	Errors         int
	RejectedFilter int
	ErrorMessage   string
}

// Worker owns the cron schedule, the in-progress flag, and the platform
// adapters registered for each enabled platform.
type Worker struct {
	store       store.Store
	pipeline    *pipeline.Pipeline
	adapters    map[models.Platform][]platforms.Adapter
	logger      *logger.Logger
	dryRun      bool
	intervalMin int

	parsingInProgress atomic.Bool
	cron              *cron.Cron

	historyMu sync.Mutex
	history   []CycleRecord
}

// CycleRecord is one historical cycle's outcome, kept in memory for the
// dashboard read endpoint (spec.md's SUPPLEMENTED FEATURES).
type CycleRecord struct {
	RanAt time.Time
	Stats Stats
}

// maxHistory bounds the in-memory cycle history ring buffer.
const maxHistory = 50

// History returns the most recent cycle records, newest first.
func (w *Worker) History() []CycleRecord {
	w.historyMu.Lock()
	defer w.historyMu.Unlock()
	out := make([]CycleRecord, len(w.history))
	for i, rec := range w.history {
		out[len(w.history)-1-i] = rec
	}
	return out
}

func (w *Worker) recordHistory(stats Stats) {
	w.historyMu.Lock()
	defer w.historyMu.Unlock()
	w.history = append(w.history, CycleRecord{RanAt: time.Now().UTC(), Stats: stats})
	if len(w.history) > maxHistory {
		w.history = w.history[len(w.history)-maxHistory:]
	}
}

// New builds a Worker. adapters maps a platform to the one or more
// adapters registered for it (Instagram may have both a native and a
// hosted backend enabled at once).
func New(
	st store.Store,
	c classifier.Classifier,
	adapters map[models.Platform][]platforms.Adapter,
	log *logger.Logger,
	dryRun bool,
	intervalMinutes int,
) *Worker {
	return &Worker{
		store:       st,
		pipeline:    pipeline.New(c),
		adapters:    adapters,
		logger:      log,
		dryRun:      dryRun,
		intervalMin: intervalMinutes,
	}
}

// IsRunning reports whether a cycle is currently in progress. Safe to
// call from HTTP handlers concurrently with Run.
func (w *Worker) IsRunning() bool {
	return w.parsingInProgress.Load()
}

// Start schedules RunCycle on the configured interval using robfig/cron,
// grounded on the teacher-adjacent tovinhtuan-tiktok_tool_auto_upload
// scheduler's AddFunc + Start pattern.
func (w *Worker) Start(ctx context.Context) error {
	w.cron = cron.New()
	spec := fmt.Sprintf("@every %dm", w.intervalMin)
	if _, err := w.cron.AddFunc(spec, func() {
		if _, err := w.RunCycle(ctx); err != nil {
			w.logger.Error("worker: scheduled cycle failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("worker: schedule cycle: %w", err)
	}
	w.cron.Start()
	return nil
}

// Stop stops the cron scheduler.
func (w *Worker) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

// RunCycle executes one ingestion cycle. A second call while a cycle is
// already in progress short-circuits immediately and returns zero counters
// with an ErrorMessage saying a cycle is already in progress (IsRunning
// reports true meanwhile); it does not queue.
func (w *Worker) RunCycle(ctx context.Context) (Stats, error) {
	if !w.parsingInProgress.CompareAndSwap(false, true) {
		return Stats{ErrorMessage: "cycle already in progress"}, nil
	}
	defer w.parsingInProgress.Store(false)

	stats, err := w.runCycle(ctx)
	w.recordHistory(stats)
	return stats, err
}

func (w *Worker) runCycle(ctx context.Context) (Stats, error) {
	topics, err := w.store.ListTopics()
	if err != nil {
		return Stats{}, fmt.Errorf("worker: list topics: %w", err)
	}
	if len(topics) == 0 {
		return Stats{}, nil
	}

	sources, err := w.store.ListSources()
	if err != nil {
		return Stats{}, fmt.Errorf("worker: list sources: %w", err)
	}
	active := activeSources(sources)
	if len(active) == 0 {
		return Stats{}, nil
	}

	byPlatform := groupByPlatform(active)
	videos, errMessages := w.fetchAllPlatforms(ctx, byPlatform)

	deduped := dedup.Deduplicate(videos)

	keywords := make([]string, len(topics))
	for i, t := range topics {
		keywords[i] = t.Keyword
	}

	result, err := w.pipeline.Run(ctx, deduped, keywords, time.Now().UTC())
	if err != nil {
		return Stats{}, fmt.Errorf("worker: pipeline run: %w", err)
	}

	stats := Stats{RejectedFilter: result.RejectedCount}
	sourceIDByChannel := sourceIDIndex(active)

	for _, decision := range result.Accepted {
		v := decision.Candidate.Video
		// virality_score and is_viral are both pure functions of the raw
		// (unpenalized) viral_score, not the penalized score used for
		// gate ranking (spec.md §3 invariants, §4.9 step 6).
		rawScore := decision.Candidate.Breakdown.ViralScore
		viralityScore := scoring.ViralityScore(rawScore)
		isViral := rawScore >= 1.5

		if isViral {
			stats.Viral++
		}

		if w.dryRun {
			w.logger.Info("worker: dry run, would insert", "external_id", v.ExternalID(), "reason", decision.Reason)
			stats.Processed++
			continue
		}

		sv := &models.StoredVideo{
			SourceID:              sourceIDByChannel[strings.TrimPrefix(v.AuthorID, "@")],
			Platform:              v.Platform,
			ExternalID:            v.ExternalID(),
			Title:                 v.Title,
			Description:           v.Description,
			ViralityScore:         viralityScore,
			IsViral:               isViral,
			ViewsAtCapture:        v.Views,
			QualityDecisionReason: decision.Reason,
		}

		if err := w.store.InsertVideo(sv); err != nil {
			if err == models.ErrDuplicateExternalID {
				stats.Skipped++
				continue
			}
			stats.Errors++
			w.logger.Error("worker: insert failed", "external_id", v.ExternalID(), "error", err)
			continue
		}
		stats.Processed++
	}

	if len(errMessages) > 0 {
		stats.Errors += len(errMessages)
		stats.ErrorMessage = strings.Join(errMessages, "; ")
	}

	return stats, nil
}

// fetchAllPlatforms runs one fetch per platform group concurrently,
// isolating failures so a CreditsExhausted or generic error on one
// platform never affects another's results (spec.md §4.9 step 4). It
// collects per-platform errors explicitly through a channel rather than
// relying on an errgroup's short-circuiting Wait, since every platform's
// partial results must still be merged even when another platform failed.
func (w *Worker) fetchAllPlatforms(ctx context.Context, byPlatform map[models.Platform][]string) ([]models.Video, []string) {
	type platformResult struct {
		platform models.Platform
		videos   []models.Video
		err      error
	}

	resultsCh := make(chan platformResult, len(byPlatform))
	var wg sync.WaitGroup

	for platform, channels := range byPlatform {
		platform, channels := platform, channels
		adapters := w.adapters[platform]
		if len(adapters) == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			var merged []models.Video
			var firstErr error
			for _, adapter := range adapters {
				videos, err := adapter.FetchFromSources(ctx, channels)
				merged = append(merged, videos...)
				if err != nil && firstErr == nil {
					firstErr = err
				}
			}
			resultsCh <- platformResult{platform: platform, videos: merged, err: firstErr}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var allVideos []models.Video
	var errMessages []string
	for res := range resultsCh {
		allVideos = append(allVideos, res.videos...)
		if res.err != nil {
			if ce, ok := res.err.(*platforms.CreditsExhaustedError); ok {
				errMessages = append(errMessages, ce.Error())
			} else {
				errMessages = append(errMessages, fmt.Sprintf("%s: %v", res.platform, res.err))
			}
		}
	}
	return allVideos, errMessages
}

func activeSources(sources []*models.Source) []*models.Source {
	active := make([]*models.Source, 0, len(sources))
	for _, s := range sources {
		if s.Status == models.SourceActive {
			active = append(active, s)
		}
	}
	return active
}

// groupByPlatform parses each source's URL into a channel identifier
// (§6's source URL parsing rules) and groups identifiers by platform.
func groupByPlatform(sources []*models.Source) map[models.Platform][]string {
	out := make(map[models.Platform][]string)
	for _, s := range sources {
		channel := ParseSourceURL(s.Platform, s.URL)
		out[s.Platform] = append(out[s.Platform], channel)
	}
	return out
}

// sourceIDIndex maps a parsed channel identifier back to the Source row
// that produced it, so accepted videos can be attributed to a source_id.
// Keys drop a leading "@", so "@handle" and "handle" match the same source.
func sourceIDIndex(sources []*models.Source) map[string]string {
	out := make(map[string]string, len(sources))
	for _, s := range sources {
		channel := ParseSourceURL(s.Platform, s.URL)
		out[strings.TrimPrefix(channel, "@")] = s.ID
	}
	return out
}
