package filegate

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// sweeper drives the periodic TTL sweep. SkipIfStillRunning gives the sweep
// its non-overlapping semantics: a slow pass is never stacked on top of
// itself, the next tick simply skips.
type sweeper struct {
	cron *cron.Cron
}

func startSweeper(e *cacheEngine, interval time.Duration, clock Clock, log Logger) *sweeper {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		e.expireOlderThan(clock.Now())
	})
	if err != nil {
		// Only reachable with an unparseable interval; limits are
		// validated up front, so log and run without a sweep.
		log.Error("could not schedule ttl sweep", Fields{"interval": interval.String(), "err": err})
		return nil
	}
	c.Start()
	return &sweeper{cron: c}
}

// stop halts scheduling and waits for an in-flight sweep, bounded by ctx.
func (s *sweeper) stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
