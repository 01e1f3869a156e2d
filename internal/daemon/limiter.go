package daemon

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
// A bucket idle that long has refilled, so dropping it loses nothing.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages rate limits per client.
type Limiter struct {
	limiters  map[string]*clientLimiter
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLimiter creates a limiter allowing requestsPerMinute per client with the given burst.
func NewLimiter(requestsPerMinute int, burst int) *Limiter {
	r := rate.Limit(float64(requestsPerMinute) / 60.0)
	ttl := limiterIdleTTL
	if r > 0 {
		if refill := time.Duration(float64(burst) / float64(r) * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}
	return &Limiter{
		limiters: make(map[string]*clientLimiter),
		rate:     r,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// get returns the rate limiter for a client, creating it on first use.
// Idle clients are swept at most once per ttl.
func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.ttl {
		for k, c := range l.limiters {
			if now.Sub(c.lastSeen) >= l.ttl {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	c, exists := l.limiters[key]
	if !exists {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Allow checks if a request is allowed for the given client.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// clients reports how many client buckets are retained.
func (l *Limiter) clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
