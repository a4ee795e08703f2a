package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/scoring"
)

func candidate(id string, viralScore float64, likes, views int64) Candidate {
	return Candidate{
		Video:      models.Video{VideoID: id, Likes: likes, Views: views},
		Breakdown:  scoring.ViralScoreBreakdown{ViralScore: viralScore},
		ViralScore: viralScore,
	}
}

func TestApply_HighQualityAccepted(t *testing.T) {
	// quality_score = viral_score * 2.5 >= 7.0 => viral_score >= 2.8
	c := candidate("a", 3.0, 10, 100)
	decisions := Apply([]Candidate{c})
	assert.Len(t, decisions, 1)
	assert.Equal(t, ReasonHighQuality, decisions[0].Reason)
}

func TestApply_BelowThresholdRejected(t *testing.T) {
	// quality_score < 6.2 => viral_score < 2.48
	c := candidate("a", 1.0, 0, 1000)
	decisions := Apply([]Candidate{c})
	assert.Len(t, decisions, 0)
}

func TestApply_BorderlineHighEngagementAccepted(t *testing.T) {
	// quality_score in [6.2,7.0) => viral_score in [2.48, 2.8)
	// not in top 30% (single other higher-scored candidate), but engagement_rate > 0.08
	high := candidate("top", 5.0, 1, 1)
	borderline := candidate("b", 2.6, 200, 1000) // engagement = 200/1000=0.2 > 0.08
	decisions := Apply([]Candidate{high, borderline})
	var reasons []string
	for _, d := range decisions {
		reasons = append(reasons, d.Reason)
	}
	assert.Contains(t, reasons, ReasonBorderlineEngage)
}

func TestApply_FallbackFillDrainsBorderlinePool(t *testing.T) {
	var candidates []Candidate
	// One clear high-quality accept.
	candidates = append(candidates, candidate("hq", 3.0, 10, 100))
	// Many low-engagement borderline candidates to populate the pool; of the
	// 21 candidates only the top 6 by raw score count as top 30%.
	for i := 0; i < 20; i++ {
		candidates = append(candidates, candidate("b"+string(rune('a'+i)), 2.5, 0, 10000))
	}
	decisions := Apply(candidates)
	assert.GreaterOrEqual(t, len(decisions), MinResults)

	fallbackCount := 0
	for _, d := range decisions {
		if d.Reason == ReasonFallbackFill {
			fallbackCount++
		}
	}
	assert.Greater(t, fallbackCount, 0)
}

func TestApply_EmptyInputYieldsEmptyOutput(t *testing.T) {
	decisions := Apply(nil)
	assert.Len(t, decisions, 0)
}

func TestTopPercentCount_FloorsAtOneForSmallBatches(t *testing.T) {
	assert.Equal(t, 0, topPercentCount(0, 0.30))
	assert.Equal(t, 1, topPercentCount(1, 0.30))
	assert.Equal(t, 1, topPercentCount(2, 0.30))
	assert.Equal(t, 1, topPercentCount(3, 0.30))
	assert.Equal(t, 3, topPercentCount(10, 0.30))
}

func TestApply_SingleBorderlineCandidateQualifiesViaTopRule(t *testing.T) {
	// quality_score in [6.2,7.0) => viral_score in [2.48, 2.8); below the
	// engagement threshold, so it only qualifies if it's in the batch's
	// top-30%-by-raw-score set — which for a single candidate requires
	// topPercentCount's max(1, ...) floor.
	c := candidate("only", 2.6, 0, 1000) // engagement = 0/1000 = 0, not > threshold
	decisions := Apply([]Candidate{c})
	assert.Len(t, decisions, 1)
	assert.Equal(t, ReasonBorderlineHighViral, decisions[0].Reason)
}
