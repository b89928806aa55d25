package filegate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/filegate/filegate/fsys"
	"github.com/filegate/filegate/internal/pathkey"
)

type gateway struct {
	engine *cacheEngine
	fs     fsys.Filesystem
	log    Logger
	hooks  Hooks

	root        string
	allowed     map[string]struct{}
	maxFileSize int64
	concurrency int

	// coalesces concurrent misses for the same key into one disk read
	sf singleflight.Group

	sweep *sweeper
}

func newGateway(opts Options) (*gateway, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("filegate: root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("filegate: resolve root: %w", err)
	}
	if opts.MaxMemoryUsage < 0 || opts.MaxEntries < 0 || opts.MaxFileSize < 0 ||
		opts.TTL < 0 || opts.SweepInterval < 0 || opts.ReadConcurrency < 0 {
		return nil, fmt.Errorf("filegate: negative limits are not valid")
	}

	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})
	clock := coalesce[Clock](opts.Clock, systemClock{})
	fsImpl := coalesce[fsys.Filesystem](opts.FS, fsys.OS())

	maxBytes := coalesce(opts.MaxMemoryUsage, int64(defaultMaxMemoryUsage))
	maxEntries := coalesce(opts.MaxEntries, defaultMaxEntries)
	maxFileSize := coalesce(opts.MaxFileSize, int64(defaultMaxFileSize))
	ttl := coalesce(opts.TTL, defaultTTL)
	sweepInterval := coalesce(opts.SweepInterval, defaultSweepInterval)
	concurrency := coalesce(opts.ReadConcurrency, defaultReadConcurrency)

	exts := opts.AllowedExtensions
	if exts == nil {
		exts = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = struct{}{}
	}

	engine := newCacheEngine(engineConfig{
		fs:          fsImpl,
		log:         log,
		hooks:       hooks,
		clock:       clock,
		maxBytes:    maxBytes,
		maxEntries:  maxEntries,
		maxFileSize: maxFileSize,
		ttl:         ttl,
		verify:      !opts.DisableIntegrityCheck,
		disabled:    opts.Disabled,
	})

	g := &gateway{
		engine:      engine,
		fs:          fsImpl,
		log:         log,
		hooks:       hooks,
		root:        pathkey.Normalize(root),
		allowed:     allowed,
		maxFileSize: maxFileSize,
		concurrency: concurrency,
	}

	if !opts.DisableSweep && !opts.Disabled {
		g.sweep = startSweeper(engine, sweepInterval, clock, log)
	}

	log.Info("file gate ready", Fields{
		"root":        g.root,
		"max_memory":  humanize.IBytes(uint64(maxBytes)),
		"max_entries": maxEntries,
		"ttl":         ttl.String(),
	})
	return g, nil
}

// validate resolves path against the root and checks the extension
// allow-list. No filesystem access happens here or before it.
func (g *gateway) validate(path string) (string, error) {
	key, err := pathkey.Resolve(g.root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	ext := strings.ToLower(filepath.Ext(key))
	if _, ok := g.allowed[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
	}
	return key, nil
}

func (g *gateway) Read(ctx context.Context, path string) ([]byte, error) {
	key, err := g.validate(path)
	if err != nil {
		return nil, err
	}
	if content, ok := g.engine.get(key); ok {
		return content, nil
	}
	v, err, _ := g.sf.Do(key, func() (any, error) {
		return g.load(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// load performs the miss path: stat (size ceiling before any content enters
// memory), read, then a best-effort put. The content is returned to the
// caller regardless of whether caching succeeded.
func (g *gateway) load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := g.fs.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %s: is a directory", key)
	}
	if info.Size() > g.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %s (ceiling %s)", ErrFileTooLarge, key,
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(g.maxFileSize)))
	}

	content, err := g.fs.ReadFile(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	g.engine.put(key, content, info.ModTime())
	return content, nil
}

func (g *gateway) Write(ctx context.Context, path string, content []byte) error {
	key, err := g.validate(path)
	if err != nil {
		return err
	}
	if int64(len(content)) > g.maxFileSize {
		return fmt.Errorf("%w: content is %s (ceiling %s)", ErrFileTooLarge,
			humanize.IBytes(uint64(len(content))), humanize.IBytes(uint64(g.maxFileSize)))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.fs.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", key, err)
	}
	if err := g.fs.WriteFile(key, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	// The next Read must reflect the new content, not a stale copy.
	g.engine.invalidate(key)
	return nil
}

func (g *gateway) ReadMany(ctx context.Context, paths []string) (map[string][]byte, []ReadError) {
	results := make(map[string][]byte, len(paths))
	var (
		mu       sync.Mutex
		failures []ReadError
	)

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for _, p := range paths {
		p := p
		eg.Go(func() error {
			content, err := g.Read(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, ReadError{Path: p, Err: err})
				return nil
			}
			results[p] = content
			return nil
		})
	}
	_ = eg.Wait()

	if len(failures) > 0 {
		g.log.Warn("batch read finished with failures", Fields{
			"requested": len(paths),
			"failed":    len(failures),
		})
		g.hooks.BatchFailures(len(paths), len(failures))
	}
	return results, failures
}

func (g *gateway) Invalidate(path string) bool {
	key, err := pathkey.Resolve(g.root, path)
	if err != nil {
		return false
	}
	return g.engine.invalidate(key)
}

func (g *gateway) Stats() Stats { return g.engine.snapshot() }

func (g *gateway) ResetStats() { g.engine.resetStats() }

func (g *gateway) ClearCache() { g.engine.clear() }

func (g *gateway) Close(ctx context.Context) error {
	if g.sweep != nil {
		g.sweep.stop(ctx)
	}
	g.engine.clear()
	return nil
}
