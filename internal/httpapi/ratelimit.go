package httpapi

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ClientLimiter keeps one token bucket per client address.
type ClientLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if lim, ok := cl.m[client]; ok {
		return lim
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[client] = lim
	return lim
}

func (cl *ClientLimiter) Allow(r *http.Request) bool {
	return cl.limiterFor(clientKey(r)).Allow()
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "_"
	}
	return host
}

// RateLimit answers 429 once a client drains its bucket. A nil limiter
// disables limiting.
func RateLimit(cl *ClientLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		if cl == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.Allow(r) {
				w.Header().Set("Retry-After", "1")
				WriteError(w, r, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
