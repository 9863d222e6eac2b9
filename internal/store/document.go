// Package store turns a storage key into a typed, in-memory document that is
// rewritten in full on every mutation.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hackgods/vortex-care/internal/storage"
)

var ErrNotFound = errors.New("record not found")

// Locker serialises writers of the same key across processes.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Observer receives the outcome of every persist.
type Observer interface {
	ObservePersist(key string, took time.Duration, err error)
}

type Option func(*options)

type options struct {
	locker   Locker
	observer Observer
	logger   *slog.Logger
}

func WithLocker(l Locker) Option { return func(o *options) { o.locker = l } }

func WithObserver(obs Observer) Option { return func(o *options) { o.observer = obs } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Document is the state S of one store, mirrored to a single storage key.
type Document[S any] struct {
	mu    sync.RWMutex
	kv    storage.Store
	key   string
	state S
	last  []byte // bytes last read from or written to kv
	gen   uint64 // bumped whenever state is replaced
	opts  options
}

// Open loads key from kv. A missing key is initialised with seed() and
// written back immediately.
func Open[S any](ctx context.Context, kv storage.Store, key string, seed func() S, opts ...Option) (*Document[S], error) {
	d := &Document[S]{kv: kv, key: key}
	for _, o := range opts {
		o(&d.opts)
	}
	if d.opts.logger == nil {
		d.opts.logger = slog.Default()
	}

	raw, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		d.state = seed()
		if err := d.persist(ctx); err != nil {
			return nil, fmt.Errorf("seed %s: %w", key, err)
		}
		d.opts.logger.Info("store seeded", slog.String("key", key))
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", key, err)
	default:
		if err := json.Unmarshal(raw, &d.state); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		d.last = raw
	}
	return d, nil
}

// Key returns the storage key this document is persisted under.
func (d *Document[S]) Key() string { return d.key }

// View runs fn against the current state. fn must not retain references into
// the state after it returns.
func (d *Document[S]) View(ctx context.Context, fn func(s *S)) error {
	if err := d.refresh(ctx); err != nil {
		return err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(&d.state)
	return nil
}

// Mutate applies fn and persists the whole state. If fn or the write fails
// the in-memory state is restored to what it was before.
func (d *Document[S]) Mutate(ctx context.Context, fn func(s *S) error) error {
	if d.opts.locker == nil {
		return d.mutate(ctx, fn)
	}
	return d.opts.locker.WithLock(ctx, "doc:"+d.key, func(lockCtx context.Context) error {
		return d.mutate(lockCtx, fn)
	})
}

func (d *Document[S]) mutate(ctx context.Context, fn func(s *S) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := d.load(ctx)
	if err != nil {
		return err
	}
	if raw != nil && !bytes.Equal(raw, d.last) {
		if err := d.install(raw); err != nil {
			return err
		}
	}

	before := d.last
	if err := fn(&d.state); err != nil {
		d.restore(before)
		return err
	}
	if err := d.persist(ctx); err != nil {
		d.restore(before)
		return err
	}
	return nil
}

// refresh reloads the state when another process rewrote the key. The read
// happens outside the lock, so what it read is installed only if no local
// write or reload happened in the meantime.
func (d *Document[S]) refresh(ctx context.Context) error {
	d.mu.RLock()
	gen := d.gen
	d.mu.RUnlock()

	raw, err := d.load(ctx)
	if err != nil || raw == nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen || bytes.Equal(raw, d.last) {
		return nil
	}
	return d.install(raw)
}

// load returns the stored bytes, or nil when the key is absent.
func (d *Document[S]) load(ctx context.Context) ([]byte, error) {
	raw, err := d.kv.Get(ctx, d.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", d.key, err)
	}
	return raw, nil
}

// install replaces the state with raw. mu must be held for writing.
func (d *Document[S]) install(raw []byte) error {
	var next S
	if err := json.Unmarshal(raw, &next); err != nil {
		return fmt.Errorf("decode %s: %w", d.key, err)
	}
	d.state = next
	d.last = raw
	d.gen++
	return nil
}

// persist must be called with mu held (or before d is shared).
func (d *Document[S]) persist(ctx context.Context) error {
	start := time.Now()
	raw, err := json.Marshal(d.state)
	if err == nil {
		err = d.kv.Put(ctx, d.key, raw)
	}
	if d.opts.observer != nil {
		d.opts.observer.ObservePersist(d.key, time.Since(start), err)
	}
	if err != nil {
		d.opts.logger.Error("store persist failed",
			slog.String("key", d.key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("persist %s: %w", d.key, err)
	}
	d.last = raw
	d.gen++
	return nil
}

func (d *Document[S]) restore(raw []byte) {
	var prev S
	if raw != nil {
		if err := json.Unmarshal(raw, &prev); err != nil {
			d.opts.logger.Error("store rollback failed",
				slog.String("key", d.key),
				slog.String("error", err.Error()),
			)
			return
		}
	}
	d.state = prev
	d.gen++
}
