package classifier

import (
	"context"
	"strings"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// clickbaitMarkers are low-effort title patterns the heuristic classifier
// penalizes when deciding whether a top-slice candidate is worth keeping.
var clickbaitMarkers = []string{
	"you won't believe", "gone wrong", "click here", "number 7 will shock",
}

// Heuristic is a rule-based stand-in for an LLM quality classifier: it
// keeps everything except videos whose title is both suspiciously short
// and carries a clickbait marker, and videos with no description at all
// and fewer than three hashtags (a weak signal of low production effort).
// It never errors, so its "keep on error" default never triggers.
type Heuristic struct{}

// Classify applies the heuristic rule to each video independently.
func (Heuristic) Classify(ctx context.Context, videos []models.Video) ([]models.Video, error) {
	kept := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if shouldKeep(v) {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

func shouldKeep(v models.Video) bool {
	title := strings.ToLower(v.Title)
	if len(v.Title) < 15 {
		for _, marker := range clickbaitMarkers {
			if strings.Contains(title, marker) {
				return false
			}
		}
	}
	if v.Description == "" && len(v.Hashtags) < 3 {
		return false
	}
	return true
}
