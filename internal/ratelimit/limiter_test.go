package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestUnlimited_NeverBlocks(t *testing.T) {
	l := Unlimited()
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow(APIAlphaVantage))
	}
	require.NoError(t, l.Wait(context.Background(), APIContentful))
}

func TestNilLimiter(t *testing.T) {
	var l *Limiter
	assert.True(t, l.Allow(APIAlphaVantage))
	assert.NoError(t, l.Wait(context.Background(), APIAlphaVantage))
}

func TestNew_AlphaVantageBurst(t *testing.T) {
	l := New()
	assert.True(t, l.Allow(APIAlphaVantage))
	assert.True(t, l.Allow(APIAlphaVantage))
	assert.False(t, l.Allow(APIAlphaVantage), "third call inside the window should be limited")
}

func TestWait_ContextCancelled(t *testing.T) {
	l := Unlimited()
	l.Set(APIAlphaVantage, rate.Every(time.Hour), 1)
	require.True(t, l.Allow(APIAlphaVantage))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, l.Wait(ctx, APIAlphaVantage))
}
