package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/budjet/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		expected string
	}{
		{name: "user error", err: NewUserError("Pick a month between 1 and 12", errors.New("bad month")), expected: "Pick a month between 1 and 12"},
		{name: "not found", err: fmt.Errorf("expense x: %w", ErrNotFound), expected: "That expense no longer exists."},
		{name: "persistence", err: fmt.Errorf("%w: disk full", ErrPersistenceFailed), expected: "The expense could not be saved."},
		{name: "other", err: errors.New("boom"), expected: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestUserError_Unwrap(t *testing.T) {
	err := NewUserError("nope", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "nope: not found", err.Error())
	assert.Equal(t, "nope", NewUserError("nope", nil).Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("503"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("400"), Retryable: false}))
	assert.False(t, IsRetryable(fmt.Errorf("%w: locked", ErrPersistenceFailed)))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	}, fastRetry(3))

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("down")
	}, fastRetry(2))

	require.ErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_DoesNotRetryPersistenceFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return fmt.Errorf("%w: readonly", ErrPersistenceFailed)
	}, fastRetry(5))

	require.ErrorIs(t, err, ErrPersistenceFailed)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error { return errors.New("down") }, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Hour,
		MaxDelay:     time.Hour,
		Multiplier:   1,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	level, err = ParseLevel(" WARNING ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFieldsAttrsAreOrdered(t *testing.T) {
	attrs := Fields{"b": 2, "a": 1, "c": 3}.attrs(slog.String("error", "x"))

	keys := make([]string, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Key
	}
	assert.Equal(t, []string{"error", "a", "b", "c"}, keys)
	assert.Empty(t, Fields(nil).attrs())
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	slog.New(handler).Info("expense created", "id", "abc")
	assert.Contains(t, buf.String(), `"msg":"expense created"`)
	assert.Contains(t, buf.String(), `"id":"abc"`)

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandler(&buf, slog.LevelDebug, "console")
	require.NoError(t, err)

	previous := slog.Default()
	slog.SetDefault(slog.New(handler))
	t.Cleanup(func() { slog.SetDefault(previous) })

	ctx := context.Background()
	LogError(ctx, errors.New("disk full"), "Failed to create expense", Fields{"title": "Coffee"})
	LogDebug(ctx, "Created expense", Fields{"id": "e1"})
	LogInfo(ctx, "Imported expenses", Fields{"count": 3})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "error=\"disk full\"")
	assert.Contains(t, out, "title=Coffee")
	assert.Contains(t, out, "id=e1")
	assert.Contains(t, out, "count=3")
}

func TestMatchRegex(t *testing.T) {
	matched, err := MatchRegex(`(?i)coffee`, "BLUE BOTTLE COFFEE")
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = MatchRegex(`(?i)coffee`, "RENT")
	require.NoError(t, err)
	assert.False(t, matched)

	_, err = MatchRegex(`(unclosed`, "x")
	require.Error(t, err)
}

func TestWithRetry_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	bad := errors.New("400 bad request")
	err := WithRetry(context.Background(), func() error {
		calls++
		return Permanent(bad)
	}, fastRetry(5))

	require.ErrorIs(t, err, bad)
	assert.NotErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 1, calls)
	assert.NoError(t, Permanent(nil))
}

func TestBackoff(t *testing.T) {
	b := &backoff{opts: fastRetry(5).WithDefaults(), delay: time.Millisecond}

	assert.Equal(t, time.Millisecond, b.next(errors.New("x")))
	assert.Equal(t, 2*time.Millisecond, b.next(errors.New("x")))
	assert.Equal(t, 2*time.Millisecond, b.next(errors.New("x")), "capped at MaxDelay")

	b = &backoff{opts: fastRetry(5).WithDefaults(), delay: time.Millisecond}
	assert.Equal(t, 2*time.Millisecond, b.next(ErrRateLimit), "rate limits jump to MaxDelay")
}
