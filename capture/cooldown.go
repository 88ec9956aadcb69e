package capture

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// cooldownTracker suppresses repeat recognitions of the same person inside
// one visit. Each accepted name is rejected again until the window elapses.
type cooldownTracker struct {
	window time.Duration
	seen   cmap.ConcurrentMap[string, time.Time]
	now    func() time.Time
}

func newCooldownTracker(window time.Duration) *cooldownTracker {
	return &cooldownTracker{
		window: window,
		seen:   cmap.New[time.Time](),
		now:    time.Now,
	}
}

// Allow reports whether the name is outside its cooldown window and, if so,
// starts a new window for it.
func (c *cooldownTracker) Allow(name string) bool {
	now := c.now()
	if last, ok := c.seen.Get(name); ok && now.Sub(last) < c.window {
		return false
	}
	c.seen.Set(name, now)
	return true
}
