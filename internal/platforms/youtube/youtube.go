// Package youtube fetches recent Shorts for a list of YouTube channel IDs
// using the official google.golang.org/api/youtube/v3 client, grounded on
// the OAuth2/service wiring in pkg/partners/youtube_client.go but
// repointed at Search.List/Videos.List instead of Videos.Insert.
package youtube

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/platforms"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

// Adapter fetches recent Shorts for YouTube channels via the Data API v3.
type Adapter struct {
	service *youtube.Service
	cfg     platforms.Config
	logger  *logger.Logger
}

// New builds a YouTube adapter authenticated with a server API key, which
// is sufficient for the public read-only Search/Videos endpoints this
// adapter uses.
func New(ctx context.Context, apiKey string, cfg platforms.Config, log *logger.Logger) (*Adapter, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube: new service: %w", err)
	}
	return &Adapter{service: svc, cfg: cfg, logger: log}, nil
}

// FetchFromSources fetches up to cfg.MaxResults most recent videos for
// each channel ID in channels, then hydrates statistics and duration via
// Videos.List. No duration filter is applied: long uploads are returned
// alongside Shorts-length ones.
func (a *Adapter) FetchFromSources(ctx context.Context, channels []string) ([]models.Video, error) {
	var out []models.Video
	for _, channelID := range channels {
		var searchResp *youtube.SearchListResponse
		err := platforms.Retry(ctx, a.cfg, func(callCtx context.Context) error {
			call := a.service.Search.List([]string{"id"}).
				ChannelId(channelID).
				Order("date").
				Type("video").
				MaxResults(int64(a.cfg.MaxResults)).
				Context(callCtx)
			resp, err := call.Do()
			if err != nil {
				if isQuotaError(err) {
					return &platforms.CreditsExhaustedError{Platform: models.PlatformYouTube, Reason: err.Error()}
				}
				return err
			}
			searchResp = resp
			return nil
		})
		if err != nil {
			if platforms.IsCreditsExhausted(err) {
				return out, err
			}
			a.logger.Warn("youtube: search failed for channel", "channel_id", channelID, "error", err)
			continue
		}

		var videoIDs []string
		for _, item := range searchResp.Items {
			if item.Id != nil {
				videoIDs = append(videoIDs, item.Id.VideoId)
			}
		}
		if len(videoIDs) == 0 {
			continue
		}

		var videosResp *youtube.VideoListResponse
		err = platforms.Retry(ctx, a.cfg, func(callCtx context.Context) error {
			resp, err := a.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
				Id(videoIDs...).
				Context(callCtx).
				Do()
			if err != nil {
				if isQuotaError(err) {
					return &platforms.CreditsExhaustedError{Platform: models.PlatformYouTube, Reason: err.Error()}
				}
				return err
			}
			videosResp = resp
			return nil
		})
		if err != nil {
			if platforms.IsCreditsExhausted(err) {
				return out, err
			}
			a.logger.Warn("youtube: videos.list failed for channel", "channel_id", channelID, "error", err)
			continue
		}

		for _, v := range videosResp.Items {
			if v.Id == "" {
				continue
			}
			out = append(out, convertVideo(channelID, v))
		}
	}
	return out, nil
}

// FetchTrending uses the chart=mostPopular endpoint.
func (a *Adapter) FetchTrending(ctx context.Context) ([]models.Video, error) {
	resp, err := a.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Chart("mostPopular").
		MaxResults(int64(a.cfg.MaxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	var out []models.Video
	for _, v := range resp.Items {
		out = append(out, convertVideo(v.Snippet.ChannelId, v))
	}
	return out, nil
}

// FetchByKeywords uses Search.List with Q set instead of ChannelId.
func (a *Adapter) FetchByKeywords(ctx context.Context, keywords []string) ([]models.Video, error) {
	var out []models.Video
	for _, kw := range keywords {
		resp, err := a.service.Search.List([]string{"id"}).
			Q(kw).
			Type("video").
			MaxResults(int64(a.cfg.MaxResults)).
			Context(ctx).
			Do()
		if err != nil {
			return out, err
		}
		var videoIDs []string
		for _, item := range resp.Items {
			if item.Id != nil {
				videoIDs = append(videoIDs, item.Id.VideoId)
			}
		}
		if len(videoIDs) == 0 {
			continue
		}
		videosResp, err := a.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
			Id(videoIDs...).
			Context(ctx).
			Do()
		if err != nil {
			return out, err
		}
		for _, v := range videosResp.Items {
			out = append(out, convertVideo(v.Snippet.ChannelId, v))
		}
	}
	return out, nil
}

func isQuotaError(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "quotaexceeded")
}

func convertVideo(channelID string, v *youtube.Video) models.Video {
	publishTime, known := platforms.ParseTimestamp(v.Snippet.PublishedAt)
	return models.Video{
		Platform:         models.PlatformYouTube,
		VideoID:          v.Id,
		URL:              "https://www.youtube.com/shorts/" + v.Id,
		AuthorID:         channelID,
		AuthorName:       v.Snippet.ChannelTitle,
		Views:            int64(v.Statistics.ViewCount),
		Likes:            int64(v.Statistics.LikeCount),
		Comments:         int64(v.Statistics.CommentCount),
		PublishTime:      publishTime,
		PublishTimeKnown: known,
		Duration:         parseISODuration(v.ContentDetails.Duration),
		Title:            platforms.TruncateTitle(v.Snippet.Title),
		Description:      v.Snippet.Description,
		Hashtags:         v.Snippet.Tags,
		ThumbnailURL:     thumbnailURL(v),
		CommentsDisabled: v.Statistics.CommentCount == 0 && v.Statistics.LikeCount > 0,
		RawPayload:       map[string]interface{}{"youtube_id": v.Id},
	}
}

func thumbnailURL(v *youtube.Video) string {
	if v.Snippet.Thumbnails == nil {
		return ""
	}
	if v.Snippet.Thumbnails.High != nil {
		return v.Snippet.Thumbnails.High.Url
	}
	if v.Snippet.Thumbnails.Default != nil {
		return v.Snippet.Thumbnails.Default.Url
	}
	return ""
}

// parseISODuration parses the ISO-8601 duration YouTube returns
// (e.g. "PT45S", "PT1M30S") into whole seconds.
func parseISODuration(iso string) int {
	if iso == "" || iso[0] != 'P' {
		return 0
	}
	seconds := 0
	num := 0
	inTime := false
	for _, r := range iso[1:] {
		switch {
		case r == 'T':
			inTime = true
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
		case r == 'H' && inTime:
			seconds += num * 3600
			num = 0
		case r == 'M' && inTime:
			seconds += num * 60
			num = 0
		case r == 'S' && inTime:
			seconds += num
			num = 0
		default:
			num = 0
		}
	}
	return seconds
}
