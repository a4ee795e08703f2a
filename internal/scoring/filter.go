package scoring

import (
	"time"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// ageBucket is one row of the age-dependent threshold table in spec.md §4.4.
type ageBucket struct {
	maxHours      float64
	minViews      int64
	minLikes      int64
	minVPH        float64
	minEngagement float64
}

var ageBuckets = []ageBucket{
	{maxHours: 1, minViews: 50, minLikes: 5, minVPH: 10, minEngagement: 0.010},
	{maxHours: 6, minViews: 300, minLikes: 20, minVPH: 25, minEngagement: 0.020},
	{maxHours: 24, minViews: 1000, minLikes: 60, minVPH: 40, minEngagement: 0.025},
	{maxHours: 72, minViews: 4000, minLikes: 200, minVPH: 60, minEngagement: 0.030},
}

var elseBucket = ageBucket{maxHours: -1, minViews: 10000, minLikes: 400, minVPH: 80, minEngagement: 0.035}

func bucketFor(hours float64) ageBucket {
	for _, b := range ageBuckets {
		if hours <= b.maxHours {
			return b
		}
	}
	return elseBucket
}

// FilterResult is the per-video output of the age-aware soft filter.
type FilterResult struct {
	Video   models.Video
	Penalty float64
	Passed  bool
}

// MinKeep is the batch safety floor: if fewer than MinKeep videos pass and
// the batch is at least that large, the highest-penalty rejects are
// promoted until MinKeep is reached.
const MinKeep = 40

// RejectThreshold is the penalty floor below which a video fails the filter.
const RejectThreshold = 0.25

// Filter evaluates every video's age-aware penalty, applies the batch
// safety floor, and returns (results for every surviving video in input
// order, count of videos that were rejected before any floor promotion).
func Filter(videos []models.Video, now time.Time) ([]FilterResult, int) {
	evaluated := make([]FilterResult, len(videos))
	for i, v := range videos {
		evaluated[i] = evaluate(v, now)
	}

	originallyRejected := 0
	for _, r := range evaluated {
		if !r.Passed {
			originallyRejected++
		}
	}

	passed := make([]FilterResult, 0, len(evaluated))
	rejected := make([]FilterResult, 0, originallyRejected)
	for _, r := range evaluated {
		if r.Passed {
			passed = append(passed, r)
		} else {
			rejected = append(rejected, r)
		}
	}

	if len(passed) < MinKeep && len(videos) >= MinKeep {
		sortDescByPenalty(rejected)
		need := MinKeep - len(passed)
		for i := 0; i < need && i < len(rejected); i++ {
			promoted := rejected[i]
			promoted.Passed = true
			passed = append(passed, promoted)
		}
	}

	return reorderByInput(videos, passed), originallyRejected
}

// reorderByInput restores the original input order among the kept results,
// since the safety-floor promotion step may have reordered them.
func reorderByInput(videos []models.Video, kept []FilterResult) []FilterResult {
	index := make(map[string]FilterResult, len(kept))
	for _, r := range kept {
		index[r.Video.ExternalID()] = r
	}
	out := make([]FilterResult, 0, len(kept))
	for _, v := range videos {
		if r, ok := index[v.ExternalID()]; ok {
			out = append(out, r)
		}
	}
	return out
}

func sortDescByPenalty(results []FilterResult) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Penalty > results[j-1].Penalty; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}

func evaluate(v models.Video, now time.Time) FilterResult {
	hours := HoursSincePublish(v, now)

	if hours < 2.0 {
		if v.Views >= 30 {
			return FilterResult{Video: v, Penalty: 1.0, Passed: true}
		}
		penalty := 0.7
		return FilterResult{Video: v, Penalty: penalty, Passed: penalty >= RejectThreshold}
	}

	bucket := bucketFor(hours)
	vph := ViewsPerHour(v, hours)
	engagement := EngagementRate(v)

	penalty := 1.0
	if v.Views < bucket.minViews {
		penalty *= 0.7
	}
	if v.Likes < bucket.minLikes {
		penalty *= 0.7
	}
	if vph < bucket.minVPH {
		penalty *= 0.6
	}
	if engagement < bucket.minEngagement {
		penalty *= 0.6
	}
	if v.Duration > 120 {
		penalty *= 0.5
	}
	if v.CommentsDisabled {
		penalty *= 0.5
	}

	return FilterResult{Video: v, Penalty: penalty, Passed: penalty >= RejectThreshold}
}
