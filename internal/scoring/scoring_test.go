package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

func TestFilter_SmallCreatorBreakout(t *testing.T) {
	now := time.Now().UTC()
	v := models.Video{
		Platform: models.PlatformTikTok, VideoID: "A",
		Views: 8000, Likes: 900, Comments: 80, Shares: 40,
		AuthorFollowers: 12000, Duration: 22,
		PublishTime: now.Add(-1 * time.Hour), PublishTimeKnown: true,
	}
	results, rejected := Filter([]models.Video{v}, now)
	assert.Equal(t, 0, rejected)
	assert.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Penalty)
	assert.True(t, results[0].Passed)

	breakdown := Score(v, nil, now)
	assert.InDelta(t, 8000.0, breakdown.VelocityRaw, 1.0)
	assert.Equal(t, 1.35, breakdown.CreatorMult)
	assert.Equal(t, 1.6, breakdown.Freshness)
	assert.True(t, breakdown.ViralScore > 0)
}

func TestFilter_DeadViral(t *testing.T) {
	now := time.Now().UTC()
	v := models.Video{
		Platform: models.PlatformYouTube, VideoID: "B",
		Views: 500000, Likes: 1000, Comments: 10, Shares: 5,
		AuthorFollowers: 5000000,
		PublishTime:     now.Add(-96 * time.Hour), PublishTimeKnown: true,
	}
	results, _ := Filter([]models.Video{v}, now)
	assert.Len(t, results, 1)
	assert.InDelta(t, 0.6, results[0].Penalty, 1e-9)

	breakdown := Score(v, nil, now)
	assert.Equal(t, 0.85, breakdown.CreatorMult)
	assert.Equal(t, 0.7, breakdown.Freshness)
}

func TestFilter_EarlyNewVideo(t *testing.T) {
	now := time.Now().UTC()
	v := models.Video{
		Platform: models.PlatformReels, VideoID: "C",
		Views: 45, Likes: 2,
		PublishTime: now.Add(-30 * time.Minute), PublishTimeKnown: true,
	}
	results, rejected := Filter([]models.Video{v}, now)
	assert.Equal(t, 0, rejected)
	assert.Equal(t, 1.0, results[0].Penalty)
	assert.True(t, results[0].Passed)
}

func TestFilter_BatchSafetyFloorPromotesRejects(t *testing.T) {
	now := time.Now().UTC()
	videos := make([]models.Video, 50)
	for i := range videos {
		videos[i] = models.Video{
			Platform: models.PlatformTikTok, VideoID: string(rune('a' + i)),
			Views: 1, Likes: 0,
			PublishTime: now.Add(-96 * time.Hour), PublishTimeKnown: true,
		}
	}
	results, rejected := Filter(videos, now)
	assert.Equal(t, 50, rejected)
	assert.GreaterOrEqual(t, len(results), MinKeep)
}

func TestFilter_NoPromotionBelowBatchFloor(t *testing.T) {
	now := time.Now().UTC()
	videos := make([]models.Video, 10)
	for i := range videos {
		videos[i] = models.Video{
			Platform: models.PlatformTikTok, VideoID: string(rune('a' + i)),
			Views: 1, Likes: 0,
			PublishTime: now.Add(-96 * time.Hour), PublishTimeKnown: true,
		}
	}
	results, rejected := Filter(videos, now)
	assert.Equal(t, 10, rejected)
	assert.Len(t, results, 0)
}

func TestKeywordMatch_CaseInsensitiveSubstring(t *testing.T) {
	now := time.Now().UTC()
	v := models.Video{
		Platform: models.PlatformTikTok, VideoID: "x",
		Title: "Amazing AI Tools for 2026", PublishTimeKnown: true, PublishTime: now,
	}
	breakdown := Score(v, []string{"artificial intelligence", "ai tools"}, now)
	assert.Equal(t, 1.0, breakdown.KeywordMatch)

	noMatch := Score(v, []string{"cooking recipes"}, now)
	assert.Equal(t, 0.0, noMatch.KeywordMatch)
}

func TestQualityScore_Clamped(t *testing.T) {
	assert.Equal(t, 0.0, QualityScore(-1))
	assert.Equal(t, 10.0, QualityScore(100))
	assert.InDelta(t, 5.0, QualityScore(2.0), 1e-9)
}

func TestViralityScore_ClampedToOneToTen(t *testing.T) {
	assert.Equal(t, 1, ViralityScore(-5))
	assert.Equal(t, 10, ViralityScore(100))
	assert.Equal(t, int(math.Round(2.0*2.5)), ViralityScore(2.0))
}

func TestHoursSincePublish_UnknownDefaultsTo24(t *testing.T) {
	now := time.Now().UTC()
	v := models.Video{PublishTimeKnown: false}
	assert.Equal(t, DefaultMissingPublishHours, HoursSincePublish(v, now))
}
