package consistency

import (
	"time"
)

// DefaultCacheWindow is how long a computed consistency ratio is served
// without recomputing.
const DefaultCacheWindow = 5 * time.Minute

// Cache is the explicit cache state of one consistency ratio: the value plus
// the moment it was computed. The zero value is an empty cache. Making the
// state an explicit value keeps invalidation a plain data transformation
// instead of hidden mutable state.
type Cache struct {
	Ratio      float64
	ComputedAt time.Time
	computed   bool
}

// Fresh returns true while the cached ratio is inside the validity window.
func (c Cache) Fresh(now time.Time, window time.Duration) bool {
	return c.computed && now.Sub(c.ComputedAt) < window
}

// GetOrRecompute returns the cached ratio when fresh, otherwise runs the
// recompute function and returns the refreshed cache. The input cache is
// never mutated.
func GetOrRecompute(c Cache, now time.Time, window time.Duration, recompute func() float64) (Cache, float64) {
	if c.Fresh(now, window) {
		return c, c.Ratio
	}

	ratio := recompute()
	return Cache{Ratio: ratio, ComputedAt: now, computed: true}, ratio
}
