// Package ratelimit spaces out requests per host so scraping stays
// polite and sites don't start serving 403s.
package ratelimit

import (
	"sync"
	"time"
)

// HostLimiter enforces a minimum interval between requests to the same
// host. Different hosts are independent.
type HostLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastRequest map[string]time.Time
	requests    map[string]int64
}

func NewHostLimiter(minInterval time.Duration) *HostLimiter {
	return &HostLimiter{
		minInterval: minInterval,
		lastRequest: make(map[string]time.Time),
		requests:    make(map[string]int64),
	}
}

// Wait blocks until a request to host is allowed, then records it.
func (l *HostLimiter) Wait(host string) {
	l.mu.Lock()
	last, ok := l.lastRequest[host]
	var sleep time.Duration
	if ok {
		if elapsed := time.Since(last); elapsed < l.minInterval {
			sleep = l.minInterval - elapsed
		}
	}
	l.lastRequest[host] = time.Now().Add(sleep)
	l.requests[host]++
	l.mu.Unlock()

	if sleep > 0 {
		time.Sleep(sleep)
	}
}

// Requests returns how many requests were made to host so far.
func (l *HostLimiter) Requests(host string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests[host]
}
