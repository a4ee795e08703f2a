// Package tiktok fetches recent uploads for a list of TikTok usernames.
// Like internal/platforms/instagram, it supports two interchangeable
// backends behind the same platforms.Adapter interface:
//
//   - native: the HiWay-Media TikTok Display API SDK, grounded on the
//     authentication pattern in pkg/partners/tiktok_client.go but
//     repointed at video listing instead of upload.
//   - hosted: a configurable third-party scraping service reachable over
//     plain HTTP+bearer token, grounded on
//     original_source/backend/app/adapters/apify/apify_tiktok_adapter.py
//     (which extends — not replaces — the native adapter with an Apify
//     actor once USE_APIFY/APIFY_TOKEN are configured).
//
// internal/worker picks whichever backend(s) are enabled in config and
// merges their output before deduplication, same as Instagram.
package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	tiktoksdk "github.com/HiWay-Media/tiktok-go-sdk/tiktok"

	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/platforms"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

// NativeAdapter fetches recent uploads from TikTok creator accounts via
// the official Display API.
type NativeAdapter struct {
	sdk    tiktoksdk.ITiktok
	cfg    platforms.Config
	logger *logger.Logger
}

// New builds a TikTok native adapter. appID/appSecret/accessToken are read
// from config (TIKTOK_APP_ID / TIKTOK_APP_SECRET / TIKTOK_TOKEN).
func New(appID, appSecret, accessToken string, cfg platforms.Config, log *logger.Logger) (*NativeAdapter, error) {
	client, err := tiktoksdk.NewTikTok(appID, appSecret, false)
	if err != nil {
		return nil, fmt.Errorf("tiktok: create client: %w", err)
	}
	client.SetAccessToken(accessToken)
	return &NativeAdapter{sdk: client, cfg: cfg, logger: log}, nil
}

// FetchFromSources fetches up to cfg.MaxResults most recent videos for each
// username in channels, merging the results in source order. A single
// username's failure is logged and skipped; it does not abort the call
// unless the SDK reports credits/quota exhaustion.
func (a *NativeAdapter) FetchFromSources(ctx context.Context, channels []string) ([]models.Video, error) {
	var out []models.Video
	for _, username := range channels {
		var page *tiktoksdk.VideoListResponse
		err := platforms.Retry(ctx, a.cfg, func(callCtx context.Context) error {
			resp, err := a.sdk.QueryUserVideos(username, a.cfg.MaxResults)
			if err != nil {
				if isQuotaError(err) {
					return &platforms.CreditsExhaustedError{Platform: models.PlatformTikTok, Reason: err.Error()}
				}
				return err
			}
			page = resp
			return nil
		})
		if err != nil {
			if platforms.IsCreditsExhausted(err) {
				return out, err
			}
			a.logger.Warn("tiktok: native fetch failed for source", "username", username, "error", err)
			continue
		}
		for _, v := range page.Data.Videos {
			if v.ID == "" {
				continue
			}
			out = append(out, convertVideo(username, v))
		}
	}
	return out, nil
}

// FetchTrending is not exposed by the Display API scopes this adapter
// authenticates with.
func (a *NativeAdapter) FetchTrending(ctx context.Context) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}

// FetchByKeywords is not exposed by the Display API scopes this adapter
// authenticates with.
func (a *NativeAdapter) FetchByKeywords(ctx context.Context, keywords []string) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}

func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

func convertVideo(username string, v tiktoksdk.VideoItem) models.Video {
	publishTime, known := platforms.ParseTimestamp(v.CreateTime)
	return models.Video{
		Platform:         models.PlatformTikTok,
		VideoID:          v.ID,
		URL:              v.ShareURL,
		AuthorID:         username,
		AuthorName:       username,
		Views:            int64(v.Statistics.PlayCount),
		Likes:            int64(v.Statistics.DiggCount),
		Comments:         int64(v.Statistics.CommentCount),
		Shares:           int64(v.Statistics.ShareCount),
		PublishTime:      publishTime,
		PublishTimeKnown: known,
		Duration:         platforms.NormalizeDuration(float64(v.Duration)),
		Title:            platforms.TruncateTitle(v.Title),
		Description:      v.Title,
		SoundID:          v.MusicID,
		ThumbnailURL:     v.CoverImageURL,
		RawPayload:       map[string]interface{}{"tiktok_id": v.ID},
	}
}

// HostedAdapter delegates to a configurable third-party TikTok scraping
// service over a small JSON HTTP contract, grounded on the Apify TikTok
// actor's clockworks/tiktok-scraper output shape
// (original_source/backend/app/adapters/apify/apify_tiktok_adapter.py),
// adapted to the same bearer-token HTTP contract as
// internal/platforms/instagram's hosted backend.
type HostedAdapter struct {
	httpClient *http.Client
	baseURL    string
	actorToken string
	cfg        platforms.Config
	logger     *logger.Logger
}

// NewHosted builds an adapter against a hosted TikTok scraper service.
// baseURL and actorToken come from TIKTOK_SCRAPER_URL / TIKTOK_ACTOR.
func NewHosted(baseURL, actorToken string, cfg platforms.Config, log *logger.Logger) *HostedAdapter {
	return &HostedAdapter{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    baseURL,
		actorToken: actorToken,
		cfg:        cfg,
		logger:     log,
	}
}

type hostedVideoItem struct {
	ID            string   `json:"id"`
	WebVideoURL   string   `json:"web_video_url"`
	Text          string   `json:"text"`
	CreateTime    int64    `json:"create_time"`
	DiggCount     int64    `json:"digg_count"`
	PlayCount     int64    `json:"play_count"`
	CommentCount  int64    `json:"comment_count"`
	ShareCount    int64    `json:"share_count"`
	Duration      float64  `json:"duration"`
	CoverURL      string   `json:"cover_url"`
	Hashtags      []string `json:"hashtags"`
	AuthorID      string   `json:"author_id"`
	AuthorUser    string   `json:"author_username"`
	AuthorName    string   `json:"author_nickname"`
	AuthorFollows int64    `json:"author_followers"`
}

// FetchFromSources treats each channel entry as a public TikTok username,
// stripping a leading "@" the way apify_tiktok_adapter.py's
// fetch_from_sources does before building its actor run input.
func (a *HostedAdapter) FetchFromSources(ctx context.Context, channels []string) ([]models.Video, error) {
	var out []models.Video
	for _, raw := range channels {
		username := strings.TrimPrefix(strings.TrimSpace(raw), "@")
		if username == "" {
			continue
		}
		var items []hostedVideoItem
		err := platforms.Retry(ctx, a.cfg, func(callCtx context.Context) error {
			reqURL := fmt.Sprintf("%s/v1/tiktok/videos?username=%s&limit=%s",
				a.baseURL, url.QueryEscape(username), strconv.Itoa(a.cfg.MaxResults))
			req, err := http.NewRequestWithContext(callCtx, http.MethodGet, reqURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Authorization", "Bearer "+a.actorToken)
			resp, err := a.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusOK:
				return json.NewDecoder(resp.Body).Decode(&items)
			case http.StatusPaymentRequired, http.StatusTooManyRequests:
				return &platforms.CreditsExhaustedError{Platform: models.PlatformTikTok, Reason: "hosted scraper credits exhausted"}
			default:
				return fmt.Errorf("tiktok: hosted scraper status %d", resp.StatusCode)
			}
		})
		if err != nil {
			if platforms.IsCreditsExhausted(err) {
				return out, err
			}
			a.logger.Warn("tiktok: hosted fetch failed", "username", username, "error", err)
			continue
		}
		for _, item := range items {
			if item.ID == "" {
				continue
			}
			out = append(out, convertHostedItem(username, item))
		}
	}
	return out, nil
}

func (a *HostedAdapter) FetchTrending(ctx context.Context) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}

func (a *HostedAdapter) FetchByKeywords(ctx context.Context, keywords []string) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}

func convertHostedItem(username string, item hostedVideoItem) models.Video {
	publishTime, known := platforms.ParseTimestamp(item.CreateTime)
	videoURL := item.WebVideoURL
	if videoURL == "" {
		videoURL = fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", username, item.ID)
	}
	authorName := item.AuthorName
	if authorName == "" {
		authorName = username
	}
	return models.Video{
		Platform:         models.PlatformTikTok,
		VideoID:          item.ID,
		URL:              videoURL,
		AuthorID:         item.AuthorID,
		AuthorName:       authorName,
		AuthorFollowers:  item.AuthorFollows,
		Views:            item.PlayCount,
		Likes:            item.DiggCount,
		Comments:         item.CommentCount,
		Shares:           item.ShareCount,
		PublishTime:      publishTime,
		PublishTimeKnown: known,
		Duration:         platforms.NormalizeDuration(item.Duration),
		Title:            platforms.TruncateTitle(item.Text),
		Description:      item.Text,
		Hashtags:         item.Hashtags,
		ThumbnailURL:     item.CoverURL,
		RawPayload:       map[string]interface{}{"tiktok_id": item.ID},
	}
}
