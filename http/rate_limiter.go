package http

import (
	"math"
	"sync"
	"time"
)

const (
	bucketCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

type clientBucket struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket holding up to capacity tokens and
// refilling capacity tokens every window.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    float64
	window      time.Duration
	perToken    time.Duration
	clients     map[string]*clientBucket
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	if capacity < 1 {
		capacity = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		capacity:    float64(capacity),
		window:      window,
		perToken:    window / time.Duration(capacity),
		clients:     make(map[string]*clientBucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for client, bucket := range r.clients {
		if now.Sub(bucket.lastRefill) > bucketCleanupThreshold {
			delete(r.clients, client)
		}
	}
}

func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow takes one token for client. When the bucket is empty it returns false
// and the time until the next token.
func (r *RateLimiter) Allow(client string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	bucket, exists := r.clients[client]
	if !exists {
		r.clients[client] = &clientBucket{
			tokens:     r.capacity - 1,
			lastRefill: now,
		}
		return true, 0
	}

	elapsed := now.Sub(bucket.lastRefill)
	bucket.tokens = math.Min(r.capacity, bucket.tokens+elapsed.Seconds()/r.perToken.Seconds())
	bucket.lastRefill = now

	if bucket.tokens < 1 {
		missing := 1 - bucket.tokens
		return false, time.Duration(missing * float64(r.perToken))
	}

	bucket.tokens--
	return true, 0
}

func (r *RateLimiter) clientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
