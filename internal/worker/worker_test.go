package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jibe0123/mysteryfactory/internal/classifier"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/platforms"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

type fakeStore struct {
	mu       sync.Mutex
	topics   []*models.Topic
	sources  []*models.Source
	inserted []*models.StoredVideo
	existing map[string]bool
}

func (f *fakeStore) ListTopics() ([]*models.Topic, error)   { return f.topics, nil }
func (f *fakeStore) ListSources() ([]*models.Source, error) { return f.sources, nil }

func (f *fakeStore) ExistsByExternalID(externalID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existing[externalID], nil
}

func (f *fakeStore) InsertVideo(video *models.StoredVideo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existing[video.ExternalID] {
		return models.ErrDuplicateExternalID
	}
	if f.existing == nil {
		f.existing = make(map[string]bool)
	}
	f.existing[video.ExternalID] = true
	f.inserted = append(f.inserted, video)
	return nil
}

type fakeAdapter struct {
	videos []models.Video
	err    error
}

func (f *fakeAdapter) FetchFromSources(ctx context.Context, channels []string) ([]models.Video, error) {
	return f.videos, f.err
}
func (f *fakeAdapter) FetchTrending(ctx context.Context) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}
func (f *fakeAdapter) FetchByKeywords(ctx context.Context, keywords []string) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}

func strongVideo(id string, now time.Time) models.Video {
	return models.Video{
		Platform:         models.PlatformTikTok,
		VideoID:          id,
		AuthorID:         "creator-1",
		Views:            8000,
		Likes:            900,
		Comments:         80,
		Shares:           40,
		AuthorFollowers:  12000,
		Duration:         22,
		PublishTime:      now.Add(-1 * time.Hour),
		PublishTimeKnown: true,
		Title:            "a real breakout clip",
		Description:      "something genuinely interesting happens here",
		Hashtags:         []string{"#fyp", "#viral", "#trend"},
	}
}

func newTestWorker(t *testing.T, st *fakeStore, adapters map[models.Platform][]platforms.Adapter, dryRun bool) *Worker {
	t.Helper()
	log := logger.New("error", "test")
	return New(st, classifier.PassThrough{}, adapters, log, dryRun, 60)
}

func TestRunCycle_InsertsAcceptedVideos(t *testing.T) {
	now := time.Now().UTC()
	st := &fakeStore{
		topics:  []*models.Topic{{ID: "t1", Keyword: "trend"}},
		sources: []*models.Source{{ID: "s1", Platform: models.PlatformTikTok, URL: "https://tiktok.com/@creator-1", Status: models.SourceActive}},
	}
	adapters := map[models.Platform][]platforms.Adapter{
		models.PlatformTikTok: {&fakeAdapter{videos: []models.Video{strongVideo("A", now)}}},
	}
	w := newTestWorker(t, st, adapters, false)

	stats, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 0, stats.Errors)
	require.Len(t, st.inserted, 1)
	assert.Equal(t, "tiktok:A", st.inserted[0].ExternalID)
	assert.Equal(t, "s1", st.inserted[0].SourceID)
}

func TestRunCycle_NoActiveSourcesIsNoOp(t *testing.T) {
	st := &fakeStore{
		topics:  []*models.Topic{{ID: "t1", Keyword: "trend"}},
		sources: []*models.Source{{ID: "s1", Platform: models.PlatformTikTok, URL: "x", Status: models.SourceInactive}},
	}
	w := newTestWorker(t, st, nil, false)

	stats, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, st.inserted)
}

func TestRunCycle_NoTopicsIsNoOp(t *testing.T) {
	st := &fakeStore{}
	w := newTestWorker(t, st, nil, false)

	stats, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestRunCycle_DryRunDoesNotInsert(t *testing.T) {
	now := time.Now().UTC()
	st := &fakeStore{
		topics:  []*models.Topic{{ID: "t1", Keyword: "trend"}},
		sources: []*models.Source{{ID: "s1", Platform: models.PlatformTikTok, URL: "https://tiktok.com/@creator-1", Status: models.SourceActive}},
	}
	adapters := map[models.Platform][]platforms.Adapter{
		models.PlatformTikTok: {&fakeAdapter{videos: []models.Video{strongVideo("A", now)}}},
	}
	w := newTestWorker(t, st, adapters, true)

	stats, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Empty(t, st.inserted)
}

func TestRunCycle_DuplicateInsertCountsSkipped(t *testing.T) {
	now := time.Now().UTC()
	st := &fakeStore{
		topics:   []*models.Topic{{ID: "t1", Keyword: "trend"}},
		sources:  []*models.Source{{ID: "s1", Platform: models.PlatformTikTok, URL: "https://tiktok.com/@creator-1", Status: models.SourceActive}},
		existing: map[string]bool{"tiktok:A": true},
	}
	adapters := map[models.Platform][]platforms.Adapter{
		models.PlatformTikTok: {&fakeAdapter{videos: []models.Video{strongVideo("A", now)}}},
	}
	w := newTestWorker(t, st, adapters, false)

	stats, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Processed)
}

func TestRunCycle_CreditsExhaustedOnOnePlatformDoesNotBlockOthers(t *testing.T) {
	now := time.Now().UTC()
	st := &fakeStore{
		topics: []*models.Topic{{ID: "t1", Keyword: "trend"}},
		sources: []*models.Source{
			{ID: "s1", Platform: models.PlatformTikTok, URL: "https://tiktok.com/@creator-1", Status: models.SourceActive},
			{ID: "s2", Platform: models.PlatformYouTube, URL: "https://youtube.com/@creator-2", Status: models.SourceActive},
		},
	}
	ytVideo := strongVideo("B", now)
	ytVideo.Platform = models.PlatformYouTube
	adapters := map[models.Platform][]platforms.Adapter{
		models.PlatformTikTok:  {&fakeAdapter{err: &platforms.CreditsExhaustedError{Platform: models.PlatformTikTok}}},
		models.PlatformYouTube: {&fakeAdapter{videos: []models.Video{ytVideo}}},
	}
	w := newTestWorker(t, st, adapters, false)

	stats, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.NotEmpty(t, stats.ErrorMessage)
}

func TestRunCycle_ConcurrentCallReportsInProgress(t *testing.T) {
	st := &fakeStore{
		topics:  []*models.Topic{{ID: "t1", Keyword: "trend"}},
		sources: []*models.Source{{ID: "s1", Platform: models.PlatformTikTok, URL: "x", Status: models.SourceActive}},
	}
	w := newTestWorker(t, st, nil, false)
	w.parsingInProgress.Store(true)

	stats, err := w.RunCycle(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, stats.ErrorMessage)
	assert.True(t, w.IsRunning())
}
