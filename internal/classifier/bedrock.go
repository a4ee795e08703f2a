package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/pkg/aws"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
	"github.com/jibe0123/mysteryfactory/pkg/metrics"
)

// Bedrock classifies each top-slice candidate with a single Claude call
// via AWS Bedrock, grounded on the prompt/response wiring in
// internal/services/ai_service.go but repointed at a keep/drop verdict
// instead of generated copy.
type Bedrock struct {
	client  aws.BedrockClient
	model   aws.FoundationModel
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewBedrock builds a Bedrock-backed classifier.
func NewBedrock(client aws.BedrockClient, model aws.FoundationModel, log *logger.Logger, m *metrics.Metrics) *Bedrock {
	return &Bedrock{client: client, model: model, logger: log, metrics: m}
}

type verdict struct {
	VideoID string `json:"video_id"`
	Keep    bool   `json:"keep"`
}

// Classify sends one batched prompt covering all candidates and parses a
// JSON verdict array back. Any failure (request error, malformed JSON, a
// video_id present in input but missing from the verdict) defaults that
// video to kept, per spec.md §4.7's "default behavior on error: keep".
func (b *Bedrock) Classify(ctx context.Context, videos []models.Video) ([]models.Video, error) {
	if len(videos) == 0 {
		return videos, nil
	}

	b.metrics.IncrementAIInFlight()
	defer b.metrics.DecrementAIInFlight()

	prompt := buildPrompt(videos)
	resp, err := b.client.InvokeModel(ctx, &aws.InvokeModelRequest{
		ModelID:     string(b.model),
		Prompt:      prompt,
		MaxTokens:   1024,
		Temperature: 0.0,
	})
	if err != nil {
		b.logger.Warn("classifier: bedrock invocation failed, keeping all candidates", "error", err)
		return videos, nil
	}

	verdicts, err := parseVerdicts(resp.Content)
	if err != nil {
		b.logger.Warn("classifier: could not parse bedrock verdict, keeping all candidates", "error", err)
		return videos, nil
	}

	kept := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if shouldKeepVerdict(verdicts, v.VideoID) {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

func buildPrompt(videos []models.Video) string {
	var sb strings.Builder
	sb.WriteString("You are screening short-video candidates for a viral-trend tracker. ")
	sb.WriteString("For each video, decide whether it is worth keeping (true) or should be dropped as low-quality or off-topic (false). ")
	sb.WriteString("Respond ONLY with a JSON array of {\"video_id\": string, \"keep\": bool}.\n\n")
	for _, v := range videos {
		sb.WriteString(fmt.Sprintf("- video_id=%q title=%q description=%q\n", v.VideoID, v.Title, v.Description))
	}
	return sb.String()
}

func parseVerdicts(content string) ([]verdict, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("classifier: no JSON array found in bedrock response")
	}
	var verdicts []verdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &verdicts); err != nil {
		return nil, fmt.Errorf("classifier: unmarshal bedrock verdicts: %w", err)
	}
	return verdicts, nil
}

func shouldKeepVerdict(verdicts []verdict, videoID string) bool {
	for _, v := range verdicts {
		if v.VideoID == videoID {
			return v.Keep
		}
	}
	return true
}
