package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
)

func TestLimiter_FixedWindow(t *testing.T) {
	l := ratelimit.NewMemory(limiter.Rate{Period: time.Hour, Limit: 5}, "test")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		d, err := l.Allow(ctx, "otp:user-1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "attempt %d", i)
	}

	d, err := l.Allow(ctx, "otp:user-1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(0), d.Remaining)

	// other keys are independent
	d, err = l.Allow(ctx, "otp:user-2")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestParseRate(t *testing.T) {
	rate, err := ratelimit.ParseRate("5-H")
	require.NoError(t, err)
	assert.Equal(t, int64(5), rate.Limit)
	assert.Equal(t, time.Hour, rate.Period)

	_, err = ratelimit.ParseRate("five per hour")
	assert.Error(t, err)
}
