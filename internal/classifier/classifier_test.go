package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

func TestPassThrough_KeepsEverything(t *testing.T) {
	videos := []models.Video{
		{VideoID: "a"},
		{VideoID: "b"},
	}
	out, err := PassThrough{}.Classify(context.Background(), videos)
	assert.NoError(t, err)
	assert.Equal(t, videos, out)
}

func TestHeuristic_DropsShortClickbaitTitles(t *testing.T) {
	videos := []models.Video{
		{VideoID: "a", Title: "gone wrong!!", Description: "a longer write up", Hashtags: []string{"x", "y", "z"}},
		{VideoID: "b", Title: "a detailed recipe walkthrough video", Description: "full recipe"},
	}
	out, err := Heuristic{}.Classify(context.Background(), videos)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "b", out[0].VideoID)
}

func TestHeuristic_DropsEmptyDescriptionFewHashtags(t *testing.T) {
	videos := []models.Video{
		{VideoID: "a", Title: "a perfectly normal long video title", Description: "", Hashtags: []string{"one"}},
	}
	out, err := Heuristic{}.Classify(context.Background(), videos)
	assert.NoError(t, err)
	assert.Len(t, out, 0)
}

func TestParseVerdicts_ExtractsJSONArray(t *testing.T) {
	content := "Here is my answer:\n[{\"video_id\":\"a\",\"keep\":true},{\"video_id\":\"b\",\"keep\":false}]\nThanks."
	verdicts, err := parseVerdicts(content)
	assert.NoError(t, err)
	assert.Len(t, verdicts, 2)
	assert.True(t, shouldKeepVerdict(verdicts, "a"))
	assert.False(t, shouldKeepVerdict(verdicts, "b"))
	assert.True(t, shouldKeepVerdict(verdicts, "missing"))
}

func TestParseVerdicts_NoArrayIsError(t *testing.T) {
	_, err := parseVerdicts("no json here")
	assert.Error(t, err)
}
