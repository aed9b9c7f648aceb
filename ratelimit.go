package main

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Submission caps, matching the public form's published policy.
const (
	contactRateLimit  = 5
	contactRateWindow = 15 * time.Minute
)

const rateLimitMessage = "Too many contact form submissions. Please try again later."

// AddressLimiter caps accepted events per source address inside a sliding
// window: at most `limit` events in any trailing `window`. State is
// process-local; a multi-instance deployment would swap this for a shared
// counter store.
type AddressLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	hits      map[string][]time.Time
	lastSweep time.Time

	now func() time.Time
}

func NewAddressLimiter(limit int, window time.Duration) *AddressLimiter {
	return &AddressLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records an accepted event for addr if the trailing window still has
// room. The check and the increment happen under one lock, so two concurrent
// requests from the same address cannot both take the last slot. A rejected
// attempt consumes no quota.
func (l *AddressLimiter) Allow(addr string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now, cutoff)

	recent := pruneBefore(l.hits[addr], cutoff)
	if len(recent) >= l.limit {
		l.hits[addr] = recent
		return false
	}
	l.hits[addr] = append(recent, now)
	return true
}

// Status reports the remaining quota for addr and when the oldest tracked
// event leaves the window.
func (l *AddressLimiter) Status(addr string) (remaining int, reset time.Time) {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := pruneBefore(l.hits[addr], cutoff)
	remaining = l.limit - len(recent)
	if remaining < 0 {
		remaining = 0
	}
	reset = now
	if len(recent) > 0 {
		reset = recent[0].Add(l.window)
	}
	return remaining, reset
}

// sweepLocked drops addresses whose every event has aged out. Runs at most
// once per window to keep Allow cheap.
func (l *AddressLimiter) sweepLocked(now, cutoff time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for addr, times := range l.hits {
		if len(times) == 0 || !times[len(times)-1].After(cutoff) {
			delete(l.hits, addr)
		}
	}
}

func pruneBefore(times []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

// Middleware gates a route on the limiter, keyed by the normalized client
// address. Over-limit requests are rejected before enrichment or
// persistence ever run.
func (l *AddressLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := normalizeIP(c.ClientIP())
		allowed := l.Allow(addr)
		remaining, reset := l.Status(addr)

		c.Header("RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(int(time.Until(reset).Seconds())))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   rateLimitMessage,
			})
			return
		}
		c.Next()
	}
}
