package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces per-client throttling.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	window  time.Duration
	nowTime func() time.Time
	// trustForwarded keys clients on X-Forwarded-For instead of RemoteAddr.
	trustForwarded bool
	mu             sync.Mutex
	clients        map[string]*clientLimiter
}

type RateLimiterOption func(*RateLimiter)

// WithTrustForwardedFor keys clients on the first X-Forwarded-For hop. Only
// use it behind a proxy that sets the header itself.
func WithTrustForwardedFor(trust bool) RateLimiterOption {
	return func(r *RateLimiter) {
		r.trustForwarded = trust
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter for the provided requests-per-minute
// budget. It returns nil, meaning no limit, when requestsPerMinute <= 0.
func NewRateLimiter(requestsPerMinute int, opts ...RateLimiterOption) *RateLimiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	limit := rate.Limit(float64(requestsPerMinute) / 60.0)
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	r := &RateLimiter{
		limit:   limit,
		burst:   burst,
		window:  5 * time.Minute,
		nowTime: time.Now,
		clients: make(map[string]*clientLimiter),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allow reports whether the client identified by key may make a request now.
func (r *RateLimiter) Allow(key string) bool {
	now := r.nowTime()
	return r.getLimiter(key, now).AllowN(now, 1)
}

func (r *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.clients[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	limiter := rate.NewLimiter(r.limit, r.burst)
	r.clients[key] = &clientLimiter{limiter: limiter, lastSeen: now}
	r.cleanupLocked(now)
	return limiter
}

func (r *RateLimiter) cleanupLocked(now time.Time) {
	for key, entry := range r.clients {
		if now.Sub(entry.lastSeen) > r.window {
			delete(r.clients, key)
		}
	}
}

// ClientKey identifies the client making the request. It is the host part of
// RemoteAddr unless forwarded headers are trusted and present.
func (r *RateLimiter) ClientKey(req *http.Request) string {
	if r.trustForwarded {
		if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	return remoteHost(req)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
