package filegate

// Hooks are lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking — the engine calls them on
// hot paths while holding its lock. Wrap with hooks/async to offload.
type Hooks interface {
	// An entry was removed. reason is one of the Evict* constants.
	Evicted(key, reason string)

	// A hit failed fingerprint re-verification and was dropped.
	IntegrityMismatch(key string)

	// A hit was dropped because the backing file changed on disk
	// (modification time mismatch or the file vanished).
	StaleEntry(key string)

	// A put was rejected without caching (oversized content, or content
	// that cannot fit even in an empty cache).
	PutRejected(key string, size int64)

	// A ReadMany batch finished with failures.
	BatchFailures(requested, failed int)
}

// Removal reasons passed to Hooks.Evicted.
const (
	EvictCapacity  = "capacity"
	EvictTTL       = "ttl"
	EvictStale     = "stale"
	EvictIntegrity = "integrity"
	EvictExplicit  = "explicit"
	EvictClear     = "clear"

	// evictReplaced marks the silent retirement of an old version when a
	// key is re-put; not an eviction, not surfaced through the constants.
	evictReplaced = "replaced"
)

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) Evicted(string, string)    {}
func (NopHooks) IntegrityMismatch(string)  {}
func (NopHooks) StaleEntry(string)         {}
func (NopHooks) PutRejected(string, int64) {}
func (NopHooks) BatchFailures(int, int)    {}
