package myhttp

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dayp-uci/donationsite/lib/mycontext"
	"github.com/dayp-uci/donationsite/lib/myerrors"
	"github.com/dayp-uci/donationsite/lib/mytime"
)

const clientIdleTimeout = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter hands out one token bucket per client address.
type ClientLimiter struct {
	mutex     sync.Mutex
	nower     mytime.Nower
	perSecond rate.Limit
	burst     int
	clients   map[string]*clientEntry
	lastSweep time.Time
}

// NewLimiter returns nil when perSecond is zero or negative, which disables limiting.
func NewLimiter(perSecond float64, burst int, nower mytime.Nower) *ClientLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		nower:     nower,
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		clients:   map[string]*clientEntry{},
		lastSweep: nower.Now(),
	}
}

// Allow takes a token from the bucket of the given client.
func (l *ClientLimiter) Allow(client string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	now := l.nower.Now()
	l.evictIdle(now)

	entry, found := l.clients[client]
	if !found {
		entry = &clientEntry{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Clients reports how many buckets are currently tracked.
func (l *ClientLimiter) Clients() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return len(l.clients)
}

func (l *ClientLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastSweep) < clientIdleTimeout {
		return
	}
	for client, entry := range l.clients {
		if now.Sub(entry.lastSeen) >= clientIdleTimeout {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}

// ClientAddress identifies the caller: the first X-Forwarded-For hop when
// running behind a proxy, the remote host otherwise.
func ClientAddress(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimited rejects requests with 429 once the bucket of the calling client runs dry.
func RateLimited(limiter *ClientLimiter, writer ResponseWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientAddress(r)) {
				c := mycontext.ContextFromHTTPRequest(r)
				writer.WriteError(c, w, 1, myerrors.NewTooManyRequestsError(fmt.Errorf("Too many requests")))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
