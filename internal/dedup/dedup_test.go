package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

func TestDeduplicate_ExactIDMatch(t *testing.T) {
	videos := []models.Video{
		{Platform: models.PlatformTikTok, VideoID: "a", Title: "one"},
		{Platform: models.PlatformTikTok, VideoID: "a", Title: "one again"},
		{Platform: models.PlatformTikTok, VideoID: "b", Title: "unrelated clip here"},
	}
	out := Deduplicate(videos)
	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].VideoID)
	assert.Equal(t, "b", out[1].VideoID)
}

func TestDeduplicate_TikTokSoundReuse(t *testing.T) {
	videos := []models.Video{
		{Platform: models.PlatformTikTok, VideoID: "a", SoundID: "sound-1", Title: "completely different wording here"},
		{Platform: models.PlatformTikTok, VideoID: "b", SoundID: "sound-1", Title: "another totally unrelated caption"},
	}
	out := Deduplicate(videos)
	assert.Len(t, out, 1)
	assert.Equal(t, "a", out[0].VideoID)
}

func TestDeduplicate_SoundReuseOnlyAppliesToTikTok(t *testing.T) {
	videos := []models.Video{
		{Platform: models.PlatformReels, VideoID: "a", SoundID: "sound-1", Title: "completely different wording here"},
		{Platform: models.PlatformReels, VideoID: "b", SoundID: "sound-1", Title: "another totally unrelated caption"},
	}
	out := Deduplicate(videos)
	assert.Len(t, out, 2)
}

func TestDeduplicate_TitleCosineHigh(t *testing.T) {
	videos := []models.Video{
		{Platform: models.PlatformYouTube, VideoID: "a", Title: "funny cat falls off the table"},
		{Platform: models.PlatformYouTube, VideoID: "b", Title: "funny cat falls off table today"},
	}
	out := Deduplicate(videos)
	assert.Len(t, out, 1)
}

func TestDeduplicate_DurationAndModerateCosine(t *testing.T) {
	videos := []models.Video{
		{Platform: models.PlatformYouTube, VideoID: "a", Title: "daily vlog update", Duration: 30},
		{Platform: models.PlatformYouTube, VideoID: "b", Title: "daily vlog content", Duration: 31},
	}
	out := Deduplicate(videos)
	assert.Len(t, out, 1)
}

func TestDeduplicate_DistinctVideosSurvive(t *testing.T) {
	videos := []models.Video{
		{Platform: models.PlatformTikTok, VideoID: "a", Title: "recipe for banana bread", Duration: 60},
		{Platform: models.PlatformTikTok, VideoID: "b", Title: "city skyline timelapse drone", Duration: 15},
	}
	out := Deduplicate(videos)
	assert.Len(t, out, 2)
}

func TestDeduplicate_Idempotent(t *testing.T) {
	videos := []models.Video{
		{Platform: models.PlatformTikTok, VideoID: "a", SoundID: "s1", Title: "one"},
		{Platform: models.PlatformTikTok, VideoID: "b", SoundID: "s1", Title: "two"},
		{Platform: models.PlatformYouTube, VideoID: "c", Title: "completely unrelated vlog content"},
	}
	once := Deduplicate(videos)
	twice := Deduplicate(once)
	assert.Equal(t, once, twice)
}

func TestCosine_EmptyInputsAreZero(t *testing.T) {
	assert.Equal(t, 0.0, cosine(wordSet(""), wordSet("anything")))
	assert.Equal(t, 0.0, cosine(wordSet("anything"), wordSet("")))
}
