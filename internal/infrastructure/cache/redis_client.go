// Package cache provides the Redis connection layer backing the shared
// score cache. The engine treats the cache as optional: callers map any
// error here to a cache miss and recompute.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fitplate/engine/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrKeyNotFound is returned when a key is absent from the cache.
var ErrKeyNotFound = fmt.Errorf("key not found in cache")

// RedisClient provides Redis connection management with circuit breaker
// protection so a degraded cache cannot stall score computation.
type RedisClient struct {
	client         redis.UniversalClient
	config         *config.RedisConfig
	logger         *zap.Logger
	metrics        *RedisMetrics
	circuitBreaker *CircuitBreaker
}

// RedisMetrics tracks Redis performance and health
type RedisMetrics struct {
	TotalCommands    int64         `json:"total_commands"`
	SuccessfulOps    int64         `json:"successful_ops"`
	FailedOps        int64         `json:"failed_ops"`
	AvgResponseTime  time.Duration `json:"avg_response_time"`
	ConnectionErrors int64         `json:"connection_errors"`
	CacheHits        int64         `json:"cache_hits"`
	CacheMisses      int64         `json:"cache_misses"`
	LastUpdate       time.Time     `json:"last_update"`
	mu               sync.RWMutex
}

// CircuitBreaker implements circuit breaker pattern for Redis
type CircuitBreaker struct {
	maxFailures     int
	timeout         time.Duration
	failures        int
	lastFailureTime time.Time
	state           CircuitState
	mu              sync.RWMutex
}

// CircuitState represents circuit breaker states
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// NewRedisClient creates a new Redis client and verifies connectivity.
func NewRedisClient(cfg *config.RedisConfig, logger *zap.Logger) (*RedisClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	opts := &redis.UniversalOptions{
		Addrs:        []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// Connection timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		ConnMaxIdleTime: time.Minute * 5,
		PoolTimeout:     time.Second * 10,
	}

	client := redis.NewUniversalClient(opts)

	redisClient := &RedisClient{
		client:  client,
		config:  cfg,
		logger:  logger,
		metrics: &RedisMetrics{LastUpdate: time.Now()},
		circuitBreaker: &CircuitBreaker{
			maxFailures: 5,
			timeout:     time.Second * 30,
			state:       CircuitClosed,
		},
	}

	// Test initial connection
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis client initialized successfully",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Int("database", cfg.Database))

	return redisClient, nil
}

// Ping tests Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	if !r.circuitBreaker.AllowRequest() {
		return fmt.Errorf("redis circuit breaker is open")
	}

	start := time.Now()
	err := r.client.Ping(ctx).Err()
	r.updateMetrics(err, time.Since(start))

	if err != nil {
		r.circuitBreaker.RecordFailure()
		r.logger.Error("Redis ping failed", zap.Error(err))
		return err
	}

	r.circuitBreaker.RecordSuccess()
	return nil
}

// Get retrieves a value from Redis with circuit breaker protection
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	if !r.circuitBreaker.AllowRequest() {
		r.metrics.incrementCacheMiss()
		return nil, fmt.Errorf("redis circuit breaker is open")
	}

	start := time.Now()
	result, err := r.client.Get(ctx, key).Bytes()
	r.updateMetrics(err, time.Since(start))

	if err == redis.Nil {
		r.metrics.incrementCacheMiss()
		return nil, ErrKeyNotFound
	}

	if err != nil {
		r.circuitBreaker.RecordFailure()
		r.metrics.incrementCacheMiss()
		r.logger.Error("Redis GET failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	r.circuitBreaker.RecordSuccess()
	r.metrics.incrementCacheHit()
	return result, nil
}

// Set stores a value in Redis with TTL
func (r *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !r.circuitBreaker.AllowRequest() {
		return fmt.Errorf("redis circuit breaker is open")
	}

	start := time.Now()
	err := r.client.Set(ctx, key, value, ttl).Err()
	r.updateMetrics(err, time.Since(start))

	if err != nil {
		r.circuitBreaker.RecordFailure()
		r.logger.Error("Redis SET failed", zap.String("key", key), zap.Error(err))
		return err
	}

	r.circuitBreaker.RecordSuccess()
	return nil
}

// Delete removes keys from Redis
func (r *RedisClient) Delete(ctx context.Context, keys ...string) error {
	if !r.circuitBreaker.AllowRequest() {
		return fmt.Errorf("redis circuit breaker is open")
	}

	start := time.Now()
	err := r.client.Del(ctx, keys...).Err()
	r.updateMetrics(err, time.Since(start))

	if err != nil {
		r.circuitBreaker.RecordFailure()
		r.logger.Error("Redis DEL failed", zap.Strings("keys", keys), zap.Error(err))
		return err
	}

	r.circuitBreaker.RecordSuccess()
	return nil
}

// Exists checks if keys exist in Redis
func (r *RedisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	if !r.circuitBreaker.AllowRequest() {
		return 0, fmt.Errorf("redis circuit breaker is open")
	}

	start := time.Now()
	result, err := r.client.Exists(ctx, keys...).Result()
	r.updateMetrics(err, time.Since(start))

	if err != nil {
		r.circuitBreaker.RecordFailure()
		r.logger.Error("Redis EXISTS failed", zap.Strings("keys", keys), zap.Error(err))
		return 0, err
	}

	r.circuitBreaker.RecordSuccess()
	return result, nil
}

// GetMetrics returns a copy of current Redis metrics
func (r *RedisClient) GetMetrics() *RedisMetrics {
	r.metrics.mu.RLock()
	defer r.metrics.mu.RUnlock()

	return &RedisMetrics{
		TotalCommands:    r.metrics.TotalCommands,
		SuccessfulOps:    r.metrics.SuccessfulOps,
		FailedOps:        r.metrics.FailedOps,
		AvgResponseTime:  r.metrics.AvgResponseTime,
		ConnectionErrors: r.metrics.ConnectionErrors,
		CacheHits:        r.metrics.CacheHits,
		CacheMisses:      r.metrics.CacheMisses,
		LastUpdate:       r.metrics.LastUpdate,
	}
}

// Close logs the final cache metrics and closes the connection.
func (r *RedisClient) Close() error {
	m := r.GetMetrics()
	r.logger.Info("Redis client closing",
		zap.Int64("total_commands", m.TotalCommands),
		zap.Int64("failed_ops", m.FailedOps),
		zap.Float64("cache_hit_ratio", m.GetCacheHitRatio()),
		zap.Duration("avg_response_time", m.AvgResponseTime))
	return r.client.Close()
}

func (r *RedisClient) updateMetrics(err error, duration time.Duration) {
	r.metrics.mu.Lock()
	defer r.metrics.mu.Unlock()

	r.metrics.TotalCommands++
	if err != nil {
		r.metrics.FailedOps++
		if err != redis.Nil {
			r.metrics.ConnectionErrors++
		}
	} else {
		r.metrics.SuccessfulOps++
	}

	// Exponential moving average with alpha = 0.1
	if r.metrics.TotalCommands == 1 {
		r.metrics.AvgResponseTime = duration
	} else {
		alpha := 0.1
		r.metrics.AvgResponseTime = time.Duration(float64(r.metrics.AvgResponseTime)*(1-alpha) + float64(duration)*alpha)
	}

	r.metrics.LastUpdate = time.Now()
}

// Circuit breaker methods

// AllowRequest checks if requests are allowed based on circuit state
func (cb *CircuitBreaker) AllowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.lastFailureTime) > cb.timeout {
			cb.state = CircuitHalfOpen
			return true
		}
		return false
	case CircuitHalfOpen:
		return true
	default:
		return false
	}
}

// RecordSuccess records a successful operation
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = CircuitClosed
}

// RecordFailure records a failed operation
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = time.Now()

	if cb.failures >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

// Metrics helper methods

func (m *RedisMetrics) incrementCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *RedisMetrics) incrementCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

// GetCacheHitRatio calculates cache hit ratio
func (m *RedisMetrics) GetCacheHitRatio() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0.0
	}
	return float64(m.CacheHits) / float64(total)
}
