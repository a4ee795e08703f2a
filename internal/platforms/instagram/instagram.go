// Package instagram fetches recent Reels for a list of Instagram business
// accounts. Instagram's own Graph API only exposes Reels the authenticated
// business account itself published, which is not enough to track third
// party creators; the adapter therefore supports two interchangeable
// backends behind the same platforms.Adapter interface:
//
//   - native: the official Graph API, grounded on the HTTP call shape in
//     pkg/partners/instagram_client.go (repointed at the /media read
//     endpoint instead of the upload endpoint), usable only for accounts
//     the deployment itself owns.
//   - hosted: a configurable third-party scraping service reachable over
//     plain HTTP+bearer token (spec.md §4.1's "Instagram via a backend
//     service"), for arbitrary public creator accounts.
//
// internal/worker picks whichever backend(s) are enabled in config and
// merges their output before deduplication.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/internal/platforms"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

// NativeAdapter calls the Graph API directly with a long-lived user access
// token, for accounts owned by the deployment.
type NativeAdapter struct {
	httpClient  *http.Client
	accessToken string
	cfg         platforms.Config
	logger      *logger.Logger
}

// NewNative builds a Graph API-backed adapter.
func NewNative(accessToken string, cfg platforms.Config, log *logger.Logger) *NativeAdapter {
	return &NativeAdapter{
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		accessToken: accessToken,
		cfg:         cfg,
		logger:      log,
	}
}

type graphMediaResponse struct {
	Data []graphMediaItem `json:"data"`
}

type graphMediaItem struct {
	ID            string `json:"id"`
	MediaType     string `json:"media_type"`
	Caption       string `json:"caption"`
	Timestamp     string `json:"timestamp"`
	Permalink     string `json:"permalink"`
	ThumbnailURL  string `json:"thumbnail_url"`
	LikeCount     int64  `json:"like_count"`
	CommentsCount int64  `json:"comments_count"`
}

// FetchFromSources treats each channel entry as an Instagram Business
// Account ID (the Graph API has no username lookup without extra
// permissions the spec does not require).
func (a *NativeAdapter) FetchFromSources(ctx context.Context, channels []string) ([]models.Video, error) {
	var out []models.Video
	for _, igUserID := range channels {
		var parsed graphMediaResponse
		err := platforms.Retry(ctx, a.cfg, func(callCtx context.Context) error {
			reqURL := fmt.Sprintf(
				"https://graph.facebook.com/v19.0/%s/media?fields=id,media_type,caption,timestamp,permalink,thumbnail_url,like_count,comments_count&limit=%d&access_token=%s",
				url.PathEscape(igUserID), a.cfg.MaxResults, url.QueryEscape(a.accessToken),
			)
			req, err := http.NewRequestWithContext(callCtx, http.MethodGet, reqURL, nil)
			if err != nil {
				return err
			}
			resp, err := a.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				return &platforms.CreditsExhaustedError{Platform: models.PlatformReels, Reason: "graph api rate limited"}
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("instagram: graph api status %d", resp.StatusCode)
			}
			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
		if err != nil {
			if platforms.IsCreditsExhausted(err) {
				return out, err
			}
			a.logger.Warn("instagram: native fetch failed", "ig_user_id", igUserID, "error", err)
			continue
		}
		for _, item := range parsed.Data {
			if item.ID == "" {
				continue
			}
			if item.MediaType != "VIDEO" && item.MediaType != "REELS" {
				continue
			}
			out = append(out, convertGraphItem(igUserID, item))
		}
	}
	return out, nil
}

func (a *NativeAdapter) FetchTrending(ctx context.Context) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}

func (a *NativeAdapter) FetchByKeywords(ctx context.Context, keywords []string) ([]models.Video, error) {
	return nil, platforms.ErrNotSupported
}

func convertGraphItem(igUserID string, item graphMediaItem) models.Video {
	publishTime, known := platforms.ParseTimestamp(item.Timestamp)
	return models.Video{
		Platform:         models.PlatformReels,
		VideoID:          item.ID,
		URL:              item.Permalink,
		AuthorID:         igUserID,
		Likes:            item.LikeCount,
		Comments:         item.CommentsCount,
		PublishTime:      publishTime,
		PublishTimeKnown: known,
		Title:            platforms.TruncateTitle(item.Caption),
		Description:      item.Caption,
		ThumbnailURL:     item.ThumbnailURL,
		RawPayload:       map[string]interface{}{"ig_media_id": item.ID},
	}
}

// HostedAdapter delegates to a configurable third-party Instagram
// scraping service over a small JSON HTTP contract, for arbitrary public
// accounts the deployment does not own.
type HostedAdapter struct {
	httpClient *http.Client
	baseURL    string
	actorToken string
	cfg        platforms.Config
	logger     *logger.Logger
}

// NewHosted builds an adapter against a hosted scraper service. baseURL
// and actorToken come from INSTAGRAM_SCRAPER_URL / INSTAGRAM_ACTOR.
func NewHosted(baseURL, actorToken string, cfg platforms.Config, log *logger.Logger) *HostedAdapter {
	return &HostedAdapter{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    baseURL,
		actorToken: actorToken,
		cfg:        cfg,
		logger:     log,
	}
}

type hostedItem struct {
	ShortCode       string  `json:"shortcode"`
	URL             string  `json:"url"`
	Username        string  `json:"username"`
	Caption         string  `json:"caption"`
	VideoViewCount  int64   `json:"video_view_count"`
	LikeCount       int64   `json:"like_count"`
	CommentCount    int64   `json:"comment_count"`
	TakenAtTimestamp float64 `json:"taken_at_timestamp"`
	VideoDuration   float64 `json:"video_duration"`
	DisplayURL      string  `json:"display_url"`
	ProductType     string  `json:"product_type"`
}

// FetchFromSources treats each channel entry as a public username.
func (a *HostedAdapter) FetchFromSources(ctx context.Context, channels []string) ([]models.Video, error) {
	var out []models.Video
	for _, username := range channels {
		var items []hostedItem
		err := platforms.Retry(ctx, a.cfg, func(callCtx context.Context) error {
			reqURL := fmt.Sprintf("%s/v1/reels?username=%s&limit=%s",
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
				return &platforms.CreditsExhaustedError{Platform: models.PlatformReels, Reason: "hosted scraper credits exhausted"}
			default:
				return fmt.Errorf("instagram: hosted scraper status %d", resp.StatusCode)
			}
		})
		if err != nil {
			if platforms.IsCreditsExhausted(err) {
				return out, err
			}
			a.logger.Warn("instagram: hosted fetch failed", "username", username, "error", err)
			continue
		}
		for _, item := range items {
			if item.ShortCode == "" {
				continue
			}
			if item.ProductType != "" && item.ProductType != "clips" && item.ProductType != "reels" {
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

func convertHostedItem(username string, item hostedItem) models.Video {
	publishTime, known := platforms.ParseTimestamp(item.TakenAtTimestamp)
	return models.Video{
		Platform:         models.PlatformReels,
		VideoID:          item.ShortCode,
		URL:              item.URL,
		AuthorID:         username,
		AuthorName:       username,
		Views:            item.VideoViewCount,
		Likes:            item.LikeCount,
		Comments:         item.CommentCount,
		PublishTime:      publishTime,
		PublishTimeKnown: known,
		Duration:         platforms.NormalizeDuration(item.VideoDuration),
		Title:            platforms.TruncateTitle(item.Caption),
		Description:      item.Caption,
		ThumbnailURL:     item.DisplayURL,
		RawPayload:       map[string]interface{}{"shortcode": item.ShortCode},
	}
}
