package rest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func newTestLimiter(rps float64, burst int, now *time.Time) *ipLimiter {
	l := newIPLimiter(rps, burst)
	l.now = func() time.Time { return *now }
	l.lastSweep = *now
	return l
}

func TestIPLimiter_PerAddressBuckets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(1, 2, &now)

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"), "other addresses have their own bucket")

	now = now.Add(time.Second)
	assert.True(t, l.allow("10.0.0.1"), "bucket refills over time")
}

func TestIPLimiter_EvictsIdleAddresses(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(1, 1, &now)

	for i := 0; i < 100; i++ {
		l.allow(fmt.Sprintf("10.0.0.%d", i))
	}
	assert.Equal(t, 100, l.size())

	now = now.Add(limiterIdleTTL / 2)
	l.allow("10.0.1.1")
	assert.Equal(t, 101, l.size(), "no sweep before the idle window has passed")

	now = now.Add(limiterIdleTTL / 2)
	l.allow("10.0.1.2")
	assert.Equal(t, 2, l.size(), "only addresses seen within the idle window remain")
}

func TestIPLimiter_ActiveAddressKeepsState(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := newTestLimiter(0.001, 1, &now)

	assert.True(t, l.allow("10.0.0.1"))
	now = now.Add(limiterIdleTTL - time.Second)
	assert.False(t, l.allow("10.0.0.1"))

	now = now.Add(2 * time.Second)
	assert.False(t, l.allow("10.0.0.1"), "a recently seen address is not reset by the sweep")
}
