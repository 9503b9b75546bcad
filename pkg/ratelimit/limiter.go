// Package ratelimit throttles roll commands per sender.
// Each sender gets its own token bucket.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration.
type Config struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
	// IdleTTL drops buckets that have not been used for this long.
	IdleTTL time.Duration
}

// DefaultConfig returns the default rate limiting configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		RequestsPerMinute: 30,
		Burst:             5,
		IdleTTL:           10 * time.Minute,
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per sender key.
type Limiter struct {
	config  Config
	mu      sync.Mutex
	senders map[string]*entry
	now     func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config Config) *Limiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultConfig().IdleTTL
	}
	return &Limiter{
		config:  config,
		senders: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow reports whether key may run a command now, consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	if l == nil || !l.config.Enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.senders[key]
	if !ok {
		perSecond := rate.Limit(float64(l.config.RequestsPerMinute) / 60)
		e = &entry{limiter: rate.NewLimiter(perSecond, l.config.Burst)}
		l.senders[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Tracked returns the number of senders with a live bucket.
func (l *Limiter) Tracked() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.senders)
}

func (l *Limiter) sweep(now time.Time) {
	for key, e := range l.senders {
		if now.Sub(e.lastSeen) > l.config.IdleTTL {
			delete(l.senders, key)
		}
	}
}
