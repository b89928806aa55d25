// Package sloghooks implements filegate.Hooks on log/slog with sampling, so
// an eviction burst under memory pressure cannot flood the log.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/filegate/filegate"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EvictedEvery uint64
	StaleEvery   uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	evictedCtr atomic.Uint64
	staleCtr   atomic.Uint64
}

var _ filegate.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Evicted(key, reason string) {
	if h.l == nil || !sample(h.opts.EvictedEvery, &h.evictedCtr) {
		return
	}
	h.l.Debug("filegate.evicted", "key", key, "reason", reason)
}

func (h *Hooks) IntegrityMismatch(key string) {
	if h.l == nil {
		return
	}
	// Never sampled: corruption is always worth a line.
	h.l.Warn("filegate.integrity_mismatch", "key", key)
}

func (h *Hooks) StaleEntry(key string) {
	if h.l == nil || !sample(h.opts.StaleEvery, &h.staleCtr) {
		return
	}
	h.l.Debug("filegate.stale_entry", "key", key)
}

func (h *Hooks) PutRejected(key string, size int64) {
	if h.l == nil {
		return
	}
	h.l.Debug("filegate.put_rejected", "key", key, "size", size)
}

func (h *Hooks) BatchFailures(requested, failed int) {
	if h.l == nil {
		return
	}
	h.l.Warn("filegate.batch_failures", "requested", requested, "failed", failed)
}
