// Package dedup collapses cross-platform duplicates and reposts out of a
// merged list of videos, order-preserving: the first occurrence of any
// duplicate wins.
package dedup

import (
	"math"
	"strings"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// Deduplicate applies the four ordered rules against videos, in input
// order, and returns the survivors in the same relative order.
//
//  1. exact (platform, video_id) match
//  2. for platform=tiktok, sound_id reuse
//  3. title cosine similarity ≥ 0.80
//  4. duration within ±2s AND title cosine ≥ 0.50
//
// Deduplicate is idempotent: Deduplicate(Deduplicate(xs)) == Deduplicate(xs).
func Deduplicate(videos []models.Video) []models.Video {
	kept := make([]models.Video, 0, len(videos))

	for _, v := range videos {
		if isDuplicate(v, kept) {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

func isDuplicate(v models.Video, emitted []models.Video) bool {
	vWords := wordSet(v.Title)
	for _, r := range emitted {
		if v.Platform == r.Platform && v.VideoID == r.VideoID {
			return true
		}
		if v.Platform == models.PlatformTikTok && r.Platform == models.PlatformTikTok &&
			v.SoundID != "" && v.SoundID == r.SoundID {
			return true
		}
		titleCosine := cosine(vWords, wordSet(r.Title))
		if titleCosine >= 0.80 {
			return true
		}
		if durationClose(v.Duration, r.Duration) && titleCosine >= 0.50 {
			return true
		}
	}
	return false
}

func durationClose(a, b int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 2
}

// wordSet lowercases and whitespace-splits a title into a set of words.
func wordSet(title string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(title))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// cosine computes word-set cosine similarity: |A∩B| / sqrt(|A|*|B|).
// Either set being empty yields 0.
func cosine(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	return float64(intersection) / math.Sqrt(float64(len(a))*float64(len(b)))
}
