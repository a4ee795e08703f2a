package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

func TestParseSourceURL_TikTokHandle(t *testing.T) {
	got := ParseSourceURL(models.PlatformTikTok, "https://www.tiktok.com/@somecreator")
	assert.Equal(t, "@somecreator", got)
}

func TestParseSourceURL_TikTokFallsBackToLastSegment(t *testing.T) {
	got := ParseSourceURL(models.PlatformTikTok, "somecreator")
	assert.Equal(t, "somecreator", got)
}

func TestParseSourceURL_ReelsUsername(t *testing.T) {
	got := ParseSourceURL(models.PlatformReels, "https://instagram.com/anothercreator/")
	assert.Equal(t, "anothercreator", got)
}

func TestParseSourceURL_YouTubeChannelID(t *testing.T) {
	got := ParseSourceURL(models.PlatformYouTube, "https://www.youtube.com/channel/UCabcdefghijklmnopqrstuv")
	assert.Equal(t, "UCabcdefghijklmnopqrstuv", got)
}

func TestParseSourceURL_YouTubeHandle(t *testing.T) {
	got := ParseSourceURL(models.PlatformYouTube, "https://www.youtube.com/@somehandle")
	assert.Equal(t, "@somehandle", got)
}

func TestParseSourceURL_YouTubeCustomName(t *testing.T) {
	got := ParseSourceURL(models.PlatformYouTube, "https://www.youtube.com/c/CustomName")
	assert.Equal(t, "CustomName", got)
}

func TestParseSourceURL_YouTubeLiteralChannelID(t *testing.T) {
	id := "UC1234567890123456789012"
	got := ParseSourceURL(models.PlatformYouTube, id)
	assert.Equal(t, id, got)
}
