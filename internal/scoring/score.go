package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// ViralScoreBreakdown retains every intermediate of the five-stage viral
// scoring function plus a short human-readable explanation.
type ViralScoreBreakdown struct {
	VelocityRaw    float64
	InteractionRaw float64
	DiscussionRaw  float64
	VNorm          float64
	INorm          float64
	DNorm          float64
	CreatorMult    float64
	Freshness      float64
	KeywordMatch   float64
	ViralScore     float64 // unpenalized
	Explanation    string
}

// creatorMultiplier maps follower count to the scorer's small-creator bias.
func creatorMultiplier(followers int64) float64 {
	switch {
	case followers < 50_000:
		return 1.35
	case followers < 150_000:
		return 1.20
	case followers < 500_000:
		return 1.05
	case followers > 2_000_000:
		return 0.85
	default:
		return 1.0
	}
}

// keywordMatch returns 1.0 if any topic keyword (case-insensitive) occurs
// as a substring of the video's lowercased title+description+hashtags.
func keywordMatch(v models.Video, topicKeywords []string) float64 {
	if len(topicKeywords) == 0 {
		return 0.0
	}
	haystack := strings.ToLower(v.Title + " " + v.Description + " " + strings.Join(v.Hashtags, " "))
	for _, kw := range topicKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, kw) {
			return 1.0
		}
	}
	return 0.0
}

// Score computes the five-stage viral score for a single video against the
// given topic keywords, at the given evaluation instant.
func Score(v models.Video, topicKeywords []string, now time.Time) ViralScoreBreakdown {
	hours := HoursSincePublish(v, now)

	velocityRaw := ViewsPerHour(v, hours)
	interactionRaw := EngagementRate(v)
	discussionRaw := DiscussionScore(v)

	vNorm := math.Log(velocityRaw + 1)
	iNorm := math.Log(100*interactionRaw + 1)
	dNorm := math.Log(10*discussionRaw + 1)

	creatorMult := creatorMultiplier(v.AuthorFollowers)
	freshness := Freshness(hours)
	kwMatch := keywordMatch(v, topicKeywords)

	viralScore := (0.45*vNorm + 0.30*iNorm + 0.15*dNorm + 0.10*kwMatch) * creatorMult * freshness

	return ViralScoreBreakdown{
		VelocityRaw:    velocityRaw,
		InteractionRaw: interactionRaw,
		DiscussionRaw:  discussionRaw,
		VNorm:          vNorm,
		INorm:          iNorm,
		DNorm:          dNorm,
		CreatorMult:    creatorMult,
		Freshness:      freshness,
		KeywordMatch:   kwMatch,
		ViralScore:     viralScore,
		Explanation:    explain(velocityRaw, creatorMult, freshness, kwMatch),
	}
}

func explain(velocityRaw, creatorMult, freshness, kwMatch float64) string {
	var reasons []string
	if velocityRaw >= 1000 {
		reasons = append(reasons, "high velocity")
	}
	if freshness >= 1.4 {
		reasons = append(reasons, "fresh")
	}
	if creatorMult >= 1.20 {
		reasons = append(reasons, "small creator")
	}
	if kwMatch >= 1.0 {
		reasons = append(reasons, "keyword match")
	}
	if len(reasons) == 0 {
		return "no distinguishing signal"
	}
	return strings.Join(reasons, " + ")
}

// QualityScore maps a viral score to the 0-10 gate scale.
func QualityScore(viralScore float64) float64 {
	q := viralScore * 2.5
	if q < 0 {
		return 0
	}
	if q > 10 {
		return 10
	}
	return q
}

// ViralityScore maps a viral score to the persisted 1-10 integer rating.
func ViralityScore(viralScore float64) int {
	v := math.Round(viralScore * 2.5)
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return int(v)
}
