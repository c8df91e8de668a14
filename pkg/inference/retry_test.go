package inference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInferencer struct {
	failures int
	calls    int
	reply    string
	err      error
}

func (f *fakeInferencer) Infer(ctx context.Context, system, user string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeInferencer) Verify(ctx context.Context, result string) (bool, error) {
	return result != "", nil
}

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestRetrierSucceedsFirstAttempt(t *testing.T) {
	fake := &fakeInferencer{reply: "ok"}
	r := NewRetrier(fake, fastConfig())

	got, err := r.Infer(context.Background(), "", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, fake.calls)
}

func TestRetrierRecoversAfterFailures(t *testing.T) {
	fake := &fakeInferencer{failures: 2, reply: "ok", err: errors.New("503 upstream")}
	r := NewRetrier(fake, fastConfig())

	got, err := r.Infer(context.Background(), "", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, fake.calls)
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	boom := errors.New("429 too many requests")
	fake := &fakeInferencer{failures: 10, err: boom}
	r := NewRetrier(fake, fastConfig())

	_, err := r.Infer(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, fake.calls) // 1 original + 3 retries
}

func TestRetrierNonRetryableStopsEarly(t *testing.T) {
	boom := errors.New("invalid api key")
	fake := &fakeInferencer{failures: 10, err: boom}
	config := fastConfig()
	config.RetryableFunc = func(err error) bool { return false }
	r := NewRetrier(fake, config)

	_, err := r.Infer(context.Background(), "", "prompt")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, 1, fake.calls)
}

func TestRetrierHonorsContextCancellation(t *testing.T) {
	fake := &fakeInferencer{failures: 10, err: errors.New("502 bad gateway")}
	config := fastConfig()
	config.InitialBackoff = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRetrier(fake, config)
	_, err := r.Infer(ctx, "", "prompt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.calls)
}

func TestRetrierVerifyDelegates(t *testing.T) {
	fake := &fakeInferencer{reply: "ok"}
	r := NewRetrier(fake, fastConfig())

	ok, err := r.Verify(context.Background(), "something")
	require.NoError(t, err)
	assert.True(t, ok)
}
