package cache

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newIdleClient builds a client around a connection that is never
// dialed, so metrics and breaker behavior can be exercised offline.
func newIdleClient() *RedisClient {
	return &RedisClient{
		client:  redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{"127.0.0.1:1"}}),
		logger:  zap.NewNop(),
		metrics: &RedisMetrics{LastUpdate: time.Now()},
		circuitBreaker: &CircuitBreaker{
			maxFailures: 2,
			timeout:     time.Millisecond,
			state:       CircuitClosed,
		},
	}
}

func TestCacheHitRatioTracksHitsAndMisses(t *testing.T) {
	c := newIdleClient()
	assert.Zero(t, c.metrics.GetCacheHitRatio())

	c.metrics.incrementCacheHit()
	c.metrics.incrementCacheHit()
	c.metrics.incrementCacheHit()
	c.metrics.incrementCacheMiss()

	assert.InDelta(t, 0.75, c.metrics.GetCacheHitRatio(), 1e-9)
}

func TestGetMetricsReturnsDetachedCopy(t *testing.T) {
	c := newIdleClient()
	c.updateMetrics(nil, 10*time.Millisecond)

	m := c.GetMetrics()
	require.Equal(t, int64(1), m.TotalCommands)
	assert.Equal(t, 10*time.Millisecond, m.AvgResponseTime)

	m.TotalCommands = 99
	assert.Equal(t, int64(1), c.GetMetrics().TotalCommands)
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	c := newIdleClient()
	cb := c.circuitBreaker

	require.True(t, cb.AllowRequest())
	cb.RecordFailure()
	cb.RecordFailure()
	assert.False(t, cb.AllowRequest())

	time.Sleep(2 * time.Millisecond)
	assert.True(t, cb.AllowRequest(), "breaker should half-open after the timeout")
	cb.RecordSuccess()
	assert.True(t, cb.AllowRequest())
}

func TestCloseReportsFinalMetrics(t *testing.T) {
	c := newIdleClient()
	c.metrics.incrementCacheHit()
	c.metrics.incrementCacheMiss()

	assert.NoError(t, c.Close())
}
