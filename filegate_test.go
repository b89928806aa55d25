package filegate

// Shared test doubles: an in-memory recording Filesystem, a manual Clock and
// recording Logger/Hooks implementations.

import (
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/filegate/filegate/fsys"
)

type fakeFile struct {
	data    []byte
	modTime time.Time
}

type fakeFS struct {
	mu    sync.Mutex
	files map[string]fakeFile

	statCalls atomic.Int64
	readCalls atomic.Int64

	readDelay   time.Duration
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

var _ fsys.Filesystem = (*fakeFS)(nil)

func newFakeFS() *fakeFS { return &fakeFS{files: make(map[string]fakeFile)} }

func (f *fakeFS) add(name string, data []byte, modTime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = fakeFile{data: data, modTime: modTime}
}

func (f *fakeFS) touch(name string, modTime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ff := f.files[name]
	ff.modTime = modTime
	f.files[name] = ff
}

func (f *fakeFS) remove(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, name)
}

func (f *fakeFS) Stat(name string) (os.FileInfo, error) {
	f.statCalls.Add(1)
	f.mu.Lock()
	ff, ok := f.files[name]
	f.mu.Unlock()
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fakeInfo{name: name, size: int64(len(ff.data)), modTime: ff.modTime}, nil
}

func (f *fakeFS) ReadFile(name string) ([]byte, error) {
	f.readCalls.Add(1)
	if f.readDelay > 0 {
		cur := f.inFlight.Add(1)
		for {
			peak := f.maxInFlight.Load()
			if cur <= peak || f.maxInFlight.CompareAndSwap(peak, cur) {
				break
			}
		}
		time.Sleep(f.readDelay)
		f.inFlight.Add(-1)
	}
	f.mu.Lock()
	ff, ok := f.files[name]
	f.mu.Unlock()
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(ff.data))
	copy(out, ff.data)
	return out, nil
}

func (f *fakeFS) WriteFile(name string, data []byte, _ os.FileMode) error {
	f.add(name, append([]byte(nil), data...), time.Now())
	return nil
}

func (f *fakeFS) MkdirAll(string, os.FileMode) error { return nil }

type fakeInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return i.size }
func (i fakeInfo) Mode() os.FileMode  { return 0o644 }
func (i fakeInfo) ModTime() time.Time { return i.modTime }
func (i fakeInfo) IsDir() bool        { return false }
func (i fakeInfo) Sys() any           { return nil }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Tick forward so consecutive accesses never share a timestamp.
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type logLine struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) append(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level: level, msg: msg})
}

func (l *recordingLogger) Debug(msg string, _ Fields) { l.append("debug", msg) }
func (l *recordingLogger) Info(msg string, _ Fields)  { l.append("info", msg) }
func (l *recordingLogger) Warn(msg string, _ Fields)  { l.append("warn", msg) }
func (l *recordingLogger) Error(msg string, _ Fields) { l.append("error", msg) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ln := range l.lines {
		if ln.level == level {
			n++
		}
	}
	return n
}

type recordingHooks struct {
	mu         sync.Mutex
	evicted    map[string]string // key -> last reason
	integrity  []string
	stale      []string
	rejected   []string
	batchCalls [][2]int
}

func newRecordingHooks() *recordingHooks {
	return &recordingHooks{evicted: make(map[string]string)}
}

func (h *recordingHooks) Evicted(key, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evicted[key] = reason
}

func (h *recordingHooks) IntegrityMismatch(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.integrity = append(h.integrity, key)
}

func (h *recordingHooks) StaleEntry(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stale = append(h.stale, key)
}

func (h *recordingHooks) PutRejected(key string, _ int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rejected = append(h.rejected, key)
}

func (h *recordingHooks) BatchFailures(requested, failed int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.batchCalls = append(h.batchCalls, [2]int{requested, failed})
}

func (h *recordingHooks) evictReason(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.evicted[key]
}
