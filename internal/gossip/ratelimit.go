package gossip

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedIPs bounds the limiter map against a hostile fan-in of
// distinct source addresses (§C per-IP rate limiting), mirroring the
// teacher's peerLimiters eviction in internal/p2p/pubsub.go.
const maxTrackedIPs = 500

// ipLimiter hands out one token-bucket limiter per remote IP on the
// gossip accept loop, adapted from pubsub.go's map[peer.ID]*rate.Limiter
// to a map keyed by remote address instead of a libp2p peer ID.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{limiters: make(map[string]*rate.Limiter), rate: r, burst: burst}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			for k := range l.limiters {
				delete(l.limiters, k)
				break
			}
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[ip] = lim
	}
	return lim.Allow()
}
