// Package gate implements the quality gate that decides which scored
// candidates are accepted for persistence, including the borderline pool
// and fallback fill (spec.md §4.8).
package gate

import (
	"sort"

	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/scoring"
)

// MinResults is the fallback-fill floor: if fewer than this many
// candidates have been accepted outright, the borderline pool is drained
// into the result until this floor is reached or the pool runs dry.
const MinResults = 15

// Candidate bundles a video with its penalized viral-score breakdown, the
// shape the pipeline orchestrator hands to the gate.
type Candidate struct {
	Video      models.Video
	Breakdown  scoring.ViralScoreBreakdown
	ViralScore float64 // penalized
}

// Decision is one accepted candidate plus the reason it was accepted.
type Decision struct {
	Candidate Candidate
	Reason    string
}

const (
	ReasonHighQuality         = "accepted_high_quality"
	ReasonBorderlineHighViral = "accepted_borderline_high_viral"
	ReasonBorderlineEngage    = "accepted_borderline_engagement"
	ReasonFallbackFill        = "fallback_fill"
)

// Apply runs the quality gate over an ordered (descending penalized
// viral_score) list of candidates and returns the accepted decisions, in
// the same relative order they were accepted (high-quality and borderline
// accepts first, fallback fills appended last). Empty input yields empty
// output; otherwise the gate never guarantees non-empty output on its own
// (that property belongs to the orchestrator's tail-preservation, not the
// gate).
func Apply(candidates []Candidate) []Decision {
	if len(candidates) == 0 {
		return nil
	}

	top30Count := topPercentCount(len(candidates), 0.30)
	inTop30ByRawScore := rankByRawViralScore(candidates, top30Count)

	var accepted []Decision
	var borderlinePool []Candidate

	for i, c := range candidates {
		qs := scoring.QualityScore(c.ViralScore)
		switch {
		case qs >= 7.0:
			accepted = append(accepted, Decision{Candidate: c, Reason: ReasonHighQuality})
		case qs >= 6.2:
			switch {
			case inTop30ByRawScore[i]:
				accepted = append(accepted, Decision{Candidate: c, Reason: ReasonBorderlineHighViral})
			case scoring.EngagementRate(c.Video) > 0.08:
				accepted = append(accepted, Decision{Candidate: c, Reason: ReasonBorderlineEngage})
			default:
				borderlinePool = append(borderlinePool, c)
			}
		default:
			// rejected
		}
	}

	if len(accepted) < MinResults && len(borderlinePool) > 0 {
		sort.SliceStable(borderlinePool, func(i, j int) bool {
			return borderlinePool[i].ViralScore > borderlinePool[j].ViralScore
		})
		need := MinResults - len(accepted)
		for i := 0; i < need && i < len(borderlinePool); i++ {
			accepted = append(accepted, Decision{Candidate: borderlinePool[i], Reason: ReasonFallbackFill})
		}
	}

	return accepted
}

// topPercentCount returns floor(n*pct), floored at 1 whenever n > 0 so a
// batch too small for the percentage to round up still has a top set —
// otherwise a single-candidate batch could never qualify via the
// top-30%-by-raw-viral_score rule. Bounded by n.
func topPercentCount(n int, pct float64) int {
	if n <= 0 {
		return 0
	}
	count := int(float64(n) * pct)
	if count < 1 {
		count = 1
	}
	if count > n {
		return n
	}
	return count
}

// rankByRawViralScore returns, indexed by position in candidates, whether
// that candidate falls in the top `count` of the batch when ranked by raw
// (unpenalized) viral_score — independent of the input slice's own
// ordering, which is sorted by penalized score.
func rankByRawViralScore(candidates []Candidate, count int) []bool {
	type ranked struct {
		index    int
		rawScore float64
	}
	order := make([]ranked, len(candidates))
	for i, c := range candidates {
		order[i] = ranked{index: i, rawScore: c.Breakdown.ViralScore}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].rawScore > order[j].rawScore
	})

	inTop := make([]bool, len(candidates))
	for i := 0; i < count && i < len(order); i++ {
		inTop[order[i].index] = true
	}
	return inTop
}
