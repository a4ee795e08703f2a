// Package classifier defines the pluggable quality-classifier capability
// the pipeline's top slice is run through, plus three implementations:
// a deterministic pass-through, a heuristic scorer, and an AWS Bedrock
// (Claude) backed classifier.
package classifier

import (
	"context"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// Classifier returns the subset of videos worth keeping. Implementations
// must behave deterministically from the pipeline's perspective: the same
// input produces the same keep/drop partition. On internal error, an
// implementation must default to keeping the item rather than dropping it.
type Classifier interface {
	Classify(ctx context.Context, videos []models.Video) ([]models.Video, error)
}

// PassThrough keeps every video unconditionally. It is the default
// classifier when no quality-filter backend is configured.
type PassThrough struct{}

// Classify returns videos unchanged.
func (PassThrough) Classify(ctx context.Context, videos []models.Video) ([]models.Video, error) {
	return videos, nil
}
