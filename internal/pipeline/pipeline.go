// Package pipeline composes the age-aware filter, viral scorer, quality
// classifier, and quality gate into the single orchestrated pass the
// worker runs once per platform-merged, deduplicated batch of videos
// (spec.md §4.6).
package pipeline

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/jibe0123/mysteryfactory/internal/classifier"
	"github.com/jibe0123/mysteryfactory/internal/gate"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/scoring"
)

// MinForLLM is the minimum top-slice size handed to the quality
// classifier, regardless of batch size.
const MinForLLM = 5

// Result is the outcome of one orchestrated pass: the gate's accepted
// decisions plus the count of videos the age-aware filter rejected before
// any safety-floor promotion.
type Result struct {
	Accepted      []gate.Decision
	RejectedCount int
}

// Pipeline wires together the filter, scorer, classifier, and gate.
type Pipeline struct {
	Classifier classifier.Classifier
}

// New builds a Pipeline with the given quality classifier.
func New(c classifier.Classifier) *Pipeline {
	return &Pipeline{Classifier: c}
}

// Run executes one pass over videos against the given topic keywords, at
// evaluation instant now. The tail (everything past the top slice) always
// reaches the gate even if the classifier drops every top-slice item, so
// the gate never sees an empty batch for non-empty videos; Result.Accepted
// can still be empty when the gate rejects every candidate.
func (p *Pipeline) Run(ctx context.Context, videos []models.Video, topicKeywords []string, now time.Time) (Result, error) {
	if len(videos) == 0 {
		return Result{}, nil
	}

	filterResults, rejectedCount := scoring.Filter(videos, now)

	candidates := make([]gate.Candidate, 0, len(filterResults))
	for _, fr := range filterResults {
		breakdown := scoring.Score(fr.Video, topicKeywords, now)
		penalizedScore := breakdown.ViralScore * fr.Penalty
		candidates = append(candidates, gate.Candidate{
			Video:      fr.Video,
			Breakdown:  breakdown,
			ViralScore: penalizedScore,
		})
	}

	sortDescByViralScore(candidates)

	topSliceSize := topSliceSize(len(candidates))
	topSlice := candidates[:topSliceSize]
	tail := candidates[topSliceSize:]

	topVideos := make([]models.Video, len(topSlice))
	for i, c := range topSlice {
		topVideos[i] = c.Video
	}

	keptVideos, err := p.Classifier.Classify(ctx, topVideos)
	if err != nil {
		// Default behavior on classifier error: keep everything (spec.md §4.7).
		keptVideos = topVideos
	}
	keptIDs := make(map[string]struct{}, len(keptVideos))
	for _, v := range keptVideos {
		keptIDs[v.ExternalID()] = struct{}{}
	}

	keptFromTop := make([]gate.Candidate, 0, len(topSlice))
	for _, c := range topSlice {
		if _, ok := keptIDs[c.Video.ExternalID()]; ok {
			keptFromTop = append(keptFromTop, c)
		}
	}

	merged := append(keptFromTop, tail...)
	sortDescByViralScore(merged)

	decisions := gate.Apply(merged)

	return Result{Accepted: decisions, RejectedCount: rejectedCount}, nil
}

func topSliceSize(n int) int {
	size := int(math.Floor(0.30 * float64(n)))
	if size < MinForLLM {
		size = MinForLLM
	}
	if size > n {
		size = n
	}
	return size
}

func sortDescByViralScore(candidates []gate.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ViralScore > candidates[j].ViralScore
	})
}
