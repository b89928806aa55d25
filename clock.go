package filegate

import "time"

// Clock supplies timestamps for LRU bookkeeping and TTL expiry. Injected so
// tests can drive expiry deterministically; time.Time carries a monotonic
// reading when produced by the system clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
