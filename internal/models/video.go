package models

import "time"

// Platform identifies which short-video platform a Video or Source belongs to.
type Platform string

const (
	PlatformTikTok  Platform = "tiktok"
	PlatformReels   Platform = "reels"
	PlatformYouTube Platform = "youtube"
)

// Valid reports whether p is one of the three supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTikTok, PlatformReels, PlatformYouTube:
		return true
	default:
		return false
	}
}

// Video is the canonical, cross-platform in-memory representation of a
// single short video. It lives only for the duration of one pipeline pass
// and is either dropped (filtered or deduplicated away) or turned into a
// StoredVideo.
type Video struct {
	Platform Platform
	VideoID  string // platform-native identifier; required, non-empty

	URL string

	AuthorID        string
	AuthorName      string
	AuthorFollowers int64

	Views    int64
	Likes    int64
	Comments int64
	Shares   int64

	// PublishTime is the zero value when the source payload had no
	// parseable timestamp; PublishTimeKnown disambiguates that from an
	// actual publish at the Unix epoch.
	PublishTime      time.Time
	PublishTimeKnown bool

	Duration int // seconds, normalized (see platforms.NormalizeDuration)

	Title        string
	Description  string
	Hashtags     []string
	SoundID      string
	ThumbnailURL string

	CommentsDisabled bool

	// RawPayload is the untouched source record, retained for diagnostics only.
	RawPayload map[string]interface{}
}

// Identity returns the (platform, video_id) pair that uniquely identifies
// this video for deduplication and storage purposes.
func (v Video) Identity() (Platform, string) {
	return v.Platform, v.VideoID
}

// Equal reports whether two Video values share the same identity. Per the
// data model, two Video values are equal iff their identities match.
func (v Video) Equal(other Video) bool {
	return v.Platform == other.Platform && v.VideoID == other.VideoID
}

// ExternalID returns the "{platform}:{video_id}" uniqueness key used by
// the store.
func (v Video) ExternalID() string {
	return string(v.Platform) + ":" + v.VideoID
}
