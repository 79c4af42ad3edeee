package services

import (
	"sync"
	"time"

	"github.com/bluele/gcache"
)

// loginLimiter counts failed logins per email inside a sliding window.
//
// The cache is sized one above capacity so gcache never evicts a live
// counter. Once capacity emails are being tracked, failures for untracked
// emails are refused instead of displacing someone else's count.
type loginLimiter struct {
	mu          sync.Mutex
	attempts    gcache.Cache
	capacity    int
	maxAttempts int
	window      time.Duration
}

func newLoginLimiter(capacity, maxAttempts int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		attempts:    gcache.New(capacity + 1).LRU().Build(),
		capacity:    capacity,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow returns ErrTooManyLoginAttempts once email has used up its failures.
func (l *loginLimiter) Allow(email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count(email) >= l.maxAttempts {
		return ErrTooManyLoginAttempts
	}
	return nil
}

// Fail records one failed attempt. It returns ErrTooManyLoginAttempts when
// the attempt cannot be tracked because the limiter is full.
func (l *loginLimiter) Fail(email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.count(email)
	if n == 0 && l.attempts.Len(false) >= l.capacity {
		l.pruneExpired()
		if l.attempts.Len(false) >= l.capacity {
			return ErrTooManyLoginAttempts
		}
	}
	return l.attempts.SetWithExpire(email, n+1, l.window)
}

// pruneExpired drops expired counters; gcache removes an expired entry when
// it is read.
func (l *loginLimiter) pruneExpired() {
	for _, key := range l.attempts.Keys(false) {
		_, _ = l.attempts.GetIFPresent(key)
	}
}

func (l *loginLimiter) Reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempts.Remove(email)
}

func (l *loginLimiter) count(email string) int {
	v, err := l.attempts.Get(email)
	if err != nil {
		return 0
	}
	n, _ := v.(int)
	return n
}
