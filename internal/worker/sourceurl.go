package worker

import (
	"strings"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// ParseSourceURL turns a user-entered source URL into the channel
// identifier the matching platform adapter expects (spec.md §6). Inputs
// that are already bare identifiers (no scheme, no dots) pass through
// unchanged.
func ParseSourceURL(platform models.Platform, raw string) string {
	url := strings.TrimSpace(raw)
	url = strings.TrimSuffix(url, "/")

	switch platform {
	case models.PlatformTikTok:
		return parseTikTokURL(url)
	case models.PlatformReels:
		return parseReelsURL(url)
	case models.PlatformYouTube:
		return parseYouTubeURL(url)
	default:
		return lastPathSegment(url)
	}
}

func parseTikTokURL(url string) string {
	if idx := strings.Index(url, "tiktok.com/@"); idx != -1 {
		rest := url[idx+len("tiktok.com/@"):]
		return "@" + firstPathSegment(rest)
	}
	return lastPathSegment(url)
}

func parseReelsURL(url string) string {
	if idx := strings.Index(url, "instagram.com/"); idx != -1 {
		rest := url[idx+len("instagram.com/"):]
		return firstPathSegment(rest)
	}
	return lastPathSegment(url)
}

func parseYouTubeURL(url string) string {
	if idx := strings.Index(url, "youtube.com/channel/"); idx != -1 {
		rest := url[idx+len("youtube.com/channel/"):]
		return firstPathSegment(rest)
	}
	if idx := strings.Index(url, "youtube.com/@"); idx != -1 {
		rest := url[idx+len("youtube.com/@"):]
		return "@" + firstPathSegment(rest)
	}
	if idx := strings.Index(url, "youtube.com/c/"); idx != -1 {
		rest := url[idx+len("youtube.com/c/"):]
		return firstPathSegment(rest)
	}
	if strings.HasPrefix(url, "UC") && len(url) >= 24 {
		return url
	}
	return url
}

// firstPathSegment returns everything up to the next '/', '?', or '#'.
func firstPathSegment(s string) string {
	for i, r := range s {
		if r == '/' || r == '?' || r == '#' {
			return s[:i]
		}
	}
	return s
}

func lastPathSegment(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx != -1 {
		return trimmed[idx+1:]
	}
	return trimmed
}
