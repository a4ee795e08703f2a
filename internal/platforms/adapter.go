// Package platforms defines the adapter contract used to fetch recent
// uploads from each short-video platform and normalize them into
// models.Video, plus the shared retry/backoff and normalization helpers
// every concrete adapter builds on.
package platforms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jibe0123/mysteryfactory/internal/models"
)

// Adapter is implemented once per platform (and, where a platform supports
// multiple scraping backends, once per backend — see instagram's native
// and hosted backends). The worker calls only FetchFromSources; the other
// two methods are optional entry points kept for parity with the
// platform's own capabilities but unused by the core pipeline (§9 open
// question: dropped from the worker's call graph, kept on the interface
// as optional so a caller outside this module can still reach them).
type Adapter interface {
	// FetchFromSources fetches recent uploads for the given channel
	// identifiers (usernames, channel IDs, handles — already parsed by
	// ParseSourceURL). It always returns a (possibly empty) slice; it
	// never returns an error for a single-item failure, only for the
	// CreditsExhausted condition, which aborts the whole call.
	FetchFromSources(ctx context.Context, channels []string) ([]models.Video, error)

	// FetchTrending returns the platform's current trending videos, if
	// supported. Not called by the worker.
	FetchTrending(ctx context.Context) ([]models.Video, error)

	// FetchByKeywords searches the platform for videos matching the given
	// keywords, if supported. Not called by the worker.
	FetchByKeywords(ctx context.Context, keywords []string) ([]models.Video, error)
}

// ErrNotSupported is returned by the optional FetchTrending/FetchByKeywords
// entry points on adapters whose platform has no corresponding public
// endpoint.
var ErrNotSupported = fmt.Errorf("operation not supported by this adapter")

// CreditsExhaustedError is the one exception an adapter is permitted to
// raise. It signals the orchestrator that this platform must be skipped
// for the remainder of the cycle and surfaced to the user.
type CreditsExhaustedError struct {
	Platform models.Platform
	Reason   string
}

func (e *CreditsExhaustedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: credits exhausted", e.Platform)
	}
	return fmt.Sprintf("%s: credits exhausted: %s", e.Platform, e.Reason)
}

// IsCreditsExhausted reports whether err is (or wraps) a CreditsExhaustedError.
func IsCreditsExhausted(err error) bool {
	var ce *CreditsExhaustedError
	return errors.As(err, &ce)
}

// Config bounds every adapter's network behavior, per spec.md §4.1/§6.
type Config struct {
	MaxResults     int           // default 20
	RequestTimeout time.Duration // default 30s
	RetryCount     int           // default 3
	RetryDelay     time.Duration // base delay; actual backoff is base * attempt
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		MaxResults:     20,
		RequestTimeout: 30 * time.Second,
		RetryCount:     3,
		RetryDelay:     2 * time.Second,
	}
}

// Retry runs fn up to cfg.RetryCount+1 times with linearly increasing
// backoff (base * attempt), cooperatively sleeping so fan-out stays dense
// rather than blocking an OS thread. It stops retrying immediately if fn
// returns a CreditsExhaustedError, or if ctx is done.
func Retry(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.RetryCount; attempt++ {
		if attempt > 0 {
			delay := cfg.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		err := fn(callCtx)
		cancel()

		if err == nil {
			return nil
		}
		if IsCreditsExhausted(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// TruncateTitle truncates a title to the spec-mandated 500 characters.
func TruncateTitle(title string) string {
	if len(title) <= 500 {
		return title
	}
	return title[:500]
}

// NormalizeDuration converts a raw duration value to seconds. Values over
// 1000 are assumed to be milliseconds, per spec.md §4.1.
func NormalizeDuration(raw float64) int {
	if raw > 1000 {
		raw = raw / 1000
	}
	if raw < 0 {
		return 0
	}
	return int(raw)
}

// ParseTimestamp coerces a raw timestamp value — ISO-8601 string, epoch
// seconds, or epoch milliseconds — into a UTC time. ok is false when the
// value could not be parsed, in which case callers should leave
// PublishTimeKnown false ("unknown publish_time").
func ParseTimestamp(raw interface{}) (t time.Time, ok bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			return parsed.UTC(), true
		}
		if parsed, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return parsed.UTC(), true
		}
		return time.Time{}, false
	case int64:
		return epochToTime(float64(v)), true
	case int:
		return epochToTime(float64(v)), true
	case float64:
		return epochToTime(v), true
	default:
		return time.Time{}, false
	}
}

// epochToTime disambiguates epoch seconds from epoch milliseconds: values
// beyond roughly year 5138 in seconds (1e11) are treated as milliseconds.
func epochToTime(epoch float64) time.Time {
	const msThreshold = 1e11
	if epoch > msThreshold {
		return time.UnixMilli(int64(epoch)).UTC()
	}
	return time.Unix(int64(epoch), 0).UTC()
}
