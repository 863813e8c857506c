package httpapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; past it the map starts over.
const maxTrackedClients = 10000

// ClientLimiter rate-limits per client address.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

// NewClientLimiter returns nil (no limiting) when perMinute <= 0.
func NewClientLimiter(perMinute, burst int) *ClientLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &ClientLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Every(time.Minute / time.Duration(perMinute)),
		b: burst,
	}
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if lim, ok := cl.m[client]; ok {
		return lim
	}
	if len(cl.m) >= maxTrackedClients {
		cl.m = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[client] = lim
	return lim
}

func (cl *ClientLimiter) Allow(client string) bool {
	return cl.limiterFor(client).Allow()
}

// Limit wraps h so that over-limit clients get 429.
func (cl *ClientLimiter) Limit(h http.HandlerFunc) http.HandlerFunc {
	if cl == nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !cl.Allow(clientHost(r)) {
			retry := time.Duration(float64(time.Second) / float64(cl.r))
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(retry.Seconds()))))
			WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "Too many submissions, please try again later.")
			return
		}
		h(w, r)
	}
}
