// Package asynchook wraps a filegate.Hooks so callbacks never block the cache
// hot path: events are queued and delivered by worker goroutines. When the
// queue is full events are dropped, not waited on.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{EvictedEvery: 50})
//	hooks := asynchook.New(raw, 1, 1000)
//	defer hooks.Close()
package asynchook

import (
	"sync"

	"github.com/filegate/filegate"
)

type Hooks struct {
	inner filegate.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ filegate.Hooks = (*Hooks)(nil)

func New(inner filegate.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains the queue and stops the workers.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) enqueue(f func()) {
	select {
	case h.q <- f:
	default: // full queue: drop rather than block the cache
	}
}

func (h *Hooks) Evicted(key, reason string) {
	h.enqueue(func() { h.inner.Evicted(key, reason) })
}

func (h *Hooks) IntegrityMismatch(key string) {
	h.enqueue(func() { h.inner.IntegrityMismatch(key) })
}

func (h *Hooks) StaleEntry(key string) {
	h.enqueue(func() { h.inner.StaleEntry(key) })
}

func (h *Hooks) PutRejected(key string, size int64) {
	h.enqueue(func() { h.inner.PutRejected(key, size) })
}

func (h *Hooks) BatchFailures(requested, failed int) {
	h.enqueue(func() { h.inner.BatchFailures(requested, failed) })
}
