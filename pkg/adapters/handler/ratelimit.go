package handler

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

const maxTrackedIPs = 10000

// IPRateLimiter manages rate limiters for each IP
type IPRateLimiter struct {
	ips        map[string]*rate.Limiter
	mu         sync.Mutex
	r          rate.Limit
	b          int
	trustProxy bool
}

// NewIPRateLimiter creates a new limiter with rate r and burst b
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

// NewPerMinuteLimiter allows n requests per minute per IP, burst n.
func NewPerMinuteLimiter(n int) *IPRateLimiter {
	if n <= 0 {
		n = 10
	}
	return NewIPRateLimiter(rate.Limit(float64(n)/60), n)
}

// TrustProxyHeaders keys limiters on proxy-supplied client addresses.
// Only enable it behind a proxy that overwrites those headers.
func (i *IPRateLimiter) TrustProxyHeaders(trust bool) *IPRateLimiter {
	i.trustProxy = trust
	return i
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		// Reset instead of tracking last-seen times.
		if len(i.ips) >= maxTrackedIPs {
			i.ips = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

func (i *IPRateLimiter) Allow(r *http.Request) bool {
	return i.GetLimiter(clientIP(r, i.trustProxy)).Allow()
}

// clientIP returns the connection address without port. Proxy headers are
// consulted first only when trustProxy is set, since clients can forge them.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
			return ip
		}
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
