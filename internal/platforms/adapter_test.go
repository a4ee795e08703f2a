package platforms

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTitle_UnderLimitUnchanged(t *testing.T) {
	title := "a short title"
	assert.Equal(t, title, TruncateTitle(title))
}

func TestTruncateTitle_OverLimitTruncatedTo500(t *testing.T) {
	title := strings.Repeat("x", 600)
	out := TruncateTitle(title)
	assert.Len(t, out, 500)
}

func TestNormalizeDuration_SecondsPassThrough(t *testing.T) {
	assert.Equal(t, 45, NormalizeDuration(45))
}

func TestNormalizeDuration_MillisecondsDividedDown(t *testing.T) {
	assert.Equal(t, 30, NormalizeDuration(30000))
}

func TestNormalizeDuration_NegativeClampedToZero(t *testing.T) {
	assert.Equal(t, 0, NormalizeDuration(-5))
}

func TestParseTimestamp_ISO8601(t *testing.T) {
	tm, ok := ParseTimestamp("2024-01-15T10:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, 2024, tm.Year())
	assert.Equal(t, time.UTC, tm.Location())
}

func TestParseTimestamp_EpochSeconds(t *testing.T) {
	tm, ok := ParseTimestamp(int64(1700000000))
	assert.True(t, ok)
	assert.Equal(t, 2023, tm.Year())
}

func TestParseTimestamp_EpochMilliseconds(t *testing.T) {
	tm, ok := ParseTimestamp(float64(1700000000000))
	assert.True(t, ok)
	assert.Equal(t, 2023, tm.Year())
}

func TestParseTimestamp_Unparseable(t *testing.T) {
	_, ok := ParseTimestamp("not a timestamp")
	assert.False(t, ok)
}

func TestParseTimestamp_Empty(t *testing.T) {
	_, ok := ParseTimestamp("")
	assert.False(t, ok)
}

func TestRetry_SucceedsWithoutRetryingOnFirstSuccess(t *testing.T) {
	cfg := Config{RetryCount: 3, RetryDelay: time.Millisecond}
	calls := 0
	err := Retry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_RetriesUpToRetryCountThenGivesUp(t *testing.T) {
	cfg := Config{RetryCount: 2, RetryDelay: time.Millisecond}
	calls := 0
	err := Retry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestRetry_StopsImmediatelyOnCreditsExhausted(t *testing.T) {
	cfg := Config{RetryCount: 3, RetryDelay: time.Millisecond}
	calls := 0
	err := Retry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return &CreditsExhaustedError{Platform: "tiktok"}
	})
	assert.True(t, IsCreditsExhausted(err))
	assert.Equal(t, 1, calls)
}

func TestCreditsExhaustedError_MessageIncludesReason(t *testing.T) {
	err := &CreditsExhaustedError{Platform: "tiktok", Reason: "daily quota hit"}
	assert.Contains(t, err.Error(), "tiktok")
	assert.Contains(t, err.Error(), "daily quota hit")
}

func TestCreditsExhaustedError_MessageWithoutReason(t *testing.T) {
	err := &CreditsExhaustedError{Platform: "youtube"}
	assert.Equal(t, "youtube: credits exhausted", err.Error())
}
