// Package scoring computes the age-aware soft filter penalty and the
// multi-stage viral score for a Video.
package scoring

import (
	"math"
	"time"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// DefaultMissingPublishHours is used for both the filter and the scorer
// when a video's publish_time is unknown, unifying the two defaults
// spec.md left inconsistent (24h for the filter, 48h for the scorer).
const DefaultMissingPublishHours = 24.0

// HoursSincePublish returns the elapsed hours since v was published,
// floored at 0.1 so later divisions never blow up. Videos with an
// unknown publish time use DefaultMissingPublishHours.
func HoursSincePublish(v models.Video, now time.Time) float64 {
	if !v.PublishTimeKnown {
		return DefaultMissingPublishHours
	}
	hours := now.Sub(v.PublishTime).Hours()
	if hours < 0.1 {
		return 0.1
	}
	return hours
}

// EngagementRate is (likes + 2*comments + 3*shares) / max(views, 1).
func EngagementRate(v models.Video) float64 {
	views := v.Views
	if views < 1 {
		views = 1
	}
	weighted := float64(v.Likes) + 2*float64(v.Comments) + 3*float64(v.Shares)
	return weighted / float64(views)
}

// ViewsPerHour is views / hours_since_publish.
func ViewsPerHour(v models.Video, hoursSincePublish float64) float64 {
	if hoursSincePublish <= 0 {
		hoursSincePublish = 0.1
	}
	return float64(v.Views) / hoursSincePublish
}

// DiscussionScore is comments / max(likes, 1).
func DiscussionScore(v models.Video) float64 {
	likes := v.Likes
	if likes < 1 {
		likes = 1
	}
	return float64(v.Comments) / float64(likes)
}

// AuthorPower is log10(followers + 1).
func AuthorPower(v models.Video) float64 {
	return math.Log10(float64(v.AuthorFollowers) + 1)
}

// Freshness returns the piecewise freshness weight for hoursSincePublish.
func Freshness(hoursSincePublish float64) float64 {
	switch {
	case hoursSincePublish <= 2:
		return 1.6
	case hoursSincePublish <= 6:
		return 1.4
	case hoursSincePublish <= 18:
		return 1.2
	case hoursSincePublish <= 48:
		return 1.0
	default:
		return 0.7
	}
}
