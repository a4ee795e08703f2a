package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jibe0123/mysteryfactory/internal/classifier"
	"github.com/jibe0123/mysteryfactory/internal/models"
)

func strongVideo(id string, now time.Time) models.Video {
	return models.Video{
		Platform: models.PlatformTikTok, VideoID: id,
		Views: 8000, Likes: 900, Comments: 80, Shares: 40,
		AuthorFollowers: 12000, Duration: 22,
		PublishTime: now.Add(-1 * time.Hour), PublishTimeKnown: true,
	}
}

func TestRun_NonEmptyInputYieldsNonEmptyOutput(t *testing.T) {
	now := time.Now().UTC()
	videos := []models.Video{strongVideo("a", now)}

	p := New(classifier.PassThrough{})
	result, err := p.Run(context.Background(), videos, nil, now)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Accepted)
}

// dropAllClassifier always empties the top slice, exercising the tail
// fallback path described in spec.md §4.6.
type dropAllClassifier struct{}

func (dropAllClassifier) Classify(ctx context.Context, videos []models.Video) ([]models.Video, error) {
	return nil, nil
}

func TestRun_TailSurvivesWhenClassifierDropsTopSlice(t *testing.T) {
	now := time.Now().UTC()
	var videos []models.Video
	for i := 0; i < 20; i++ {
		v := strongVideo(string(rune('a'+i)), now)
		videos = append(videos, v)
	}

	p := New(dropAllClassifier{})
	result, err := p.Run(context.Background(), videos, nil, now)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Accepted)
}

func TestRun_EmptyInputYieldsEmptyResult(t *testing.T) {
	p := New(classifier.PassThrough{})
	result, err := p.Run(context.Background(), nil, nil, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Equal(t, 0, result.RejectedCount)
}

func TestTopSliceSize_FloorsAtMinForLLM(t *testing.T) {
	assert.Equal(t, MinForLLM, topSliceSize(10))
	assert.Equal(t, 6, topSliceSize(20))
	assert.Equal(t, 2, topSliceSize(2))
}
