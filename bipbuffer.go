// Package bipbuffer implements a lock-free bipartite buffer: a
// fixed-capacity, single-producer/single-consumer queue that hands each
// side contiguous linear regions of a backing array instead of one
// element at a time, so callers can run zero-copy bulk operations
// (syscalls, memcpy, SIMD) directly against the buffer's storage.
//
// The hard part, and the only thing this package is about, is the
// three-index state machine (read index, write index, invalidate index)
// that lets a producer and a consumer on different goroutines agree on
// ownership of the backing array without a mutex.
package bipbuffer

import "sync/atomic"

const indexWordBytes = 8 // width of atomic.Uint64 backing each index

// paddedIndex pairs one atomic index with a pad whose length is chosen
// at construction time. The pad is a slice, so its bytes live in a
// separate allocation: the struct has the same size and layout whatever
// the pad length, and the three indices in core sit next to each other
// in memory. The pad does not place an index on its own cache line.
type paddedIndex struct {
	v   atomic.Uint64
	pad []byte
}

func newPaddedIndex(cachelineLength int, multicoreHosted bool) paddedIndex {
	if !multicoreHosted || cachelineLength <= indexWordBytes {
		return paddedIndex{}
	}
	return paddedIndex{pad: make([]byte, cachelineLength-indexWordBytes)}
}

// core holds the storage and index triad shared by a Producer/Consumer
// pair. Neither handle exposes core directly; all field access goes
// through the role-specific methods, so the split between the indices
// the producer owns (w, i) and the one the consumer owns (r) is
// enforced by which methods exist on which handle, not by a runtime
// check.
type core[T any] struct {
	data []T
	n    uint64 // len(data); capacity including the sentinel slot

	// Mutated only by the producer, read by both.
	w paddedIndex
	i paddedIndex
	// Mutated only by the consumer, read by both.
	r paddedIndex

	trace        TraceFunc
	statsEnabled bool
	stats        stats
}

// freeSpace returns the number of slots currently free across the whole
// ring, excluding the one sentinel slot reserved to tell empty from
// full apart. Kept as a pure function of (w, r, n) rather than a
// core method so it can be unit-tested without constructing a buffer.
func freeSpace(w, r, n uint64) uint64 {
	if r > w {
		return (r - w) - 1
	}
	return (n - (w - r)) - 1
}

// Stats is a point-in-time, lock-free snapshot of cumulative operation
// counts. Only populated when the buffer was constructed with
// WithStatsEnabled; otherwise every field reads zero.
type Stats struct {
	WriteAcquireCalls    uint64
	WriteAcquireRejected uint64 // returned nil: not enough linear space
	WriteAcquireWrapped  uint64
	WriteReleaseCalls    uint64
	ReadAcquireCalls     uint64
	ReadAcquireEmpty     uint64
	ReadAcquireWrapped   uint64
	ReadReleaseCalls     uint64
}

type stats struct {
	writeAcquireCalls    atomic.Uint64
	writeAcquireRejected atomic.Uint64
	writeAcquireWrapped  atomic.Uint64
	writeReleaseCalls    atomic.Uint64
	readAcquireCalls     atomic.Uint64
	readAcquireEmpty     atomic.Uint64
	readAcquireWrapped   atomic.Uint64
	readReleaseCalls     atomic.Uint64
}

func (s *stats) snapshot() Stats {
	return Stats{
		WriteAcquireCalls:    s.writeAcquireCalls.Load(),
		WriteAcquireRejected: s.writeAcquireRejected.Load(),
		WriteAcquireWrapped:  s.writeAcquireWrapped.Load(),
		WriteReleaseCalls:    s.writeReleaseCalls.Load(),
		ReadAcquireCalls:     s.readAcquireCalls.Load(),
		ReadAcquireEmpty:     s.readAcquireEmpty.Load(),
		ReadAcquireWrapped:   s.readAcquireWrapped.Load(),
		ReadReleaseCalls:     s.readReleaseCalls.Load(),
	}
}

// New constructs a bipartite buffer of the given capacity and splits it
// into a Producer handle and a Consumer handle. capacity must be at
// least 2: one slot is always reserved as the empty/full sentinel, so
// usable capacity is capacity-1.
//
// The two handles are the only way to reach the buffer:
// WriteAcquire/WriteRelease exist only on *Producer[T],
// ReadAcquire/ReadRelease only on *Consumer[T]. Pass each handle to a
// different goroutine and never share a handle across goroutines.
func New[T any](capacity int, opts ...Option) (*Producer[T], *Consumer[T]) {
	if capacity < 2 {
		panic("bipbuffer: capacity must be at least 2")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &core[T]{
		data:         make([]T, capacity),
		n:            uint64(capacity),
		w:            newPaddedIndex(cfg.cachelineLength, cfg.multicoreHosted),
		i:            newPaddedIndex(cfg.cachelineLength, cfg.multicoreHosted),
		r:            newPaddedIndex(cfg.cachelineLength, cfg.multicoreHosted),
		trace:        cfg.trace,
		statsEnabled: cfg.statsEnabled,
	}

	return &Producer[T]{c: c}, &Consumer[T]{c: c}
}

// Stats returns a snapshot of cumulative operation counters. Safe to
// call from any goroutine at any time; returns all zeros if the buffer
// was not constructed with WithStatsEnabled.
func (p *Producer[T]) Stats() Stats { return p.c.stats.snapshot() }

// Stats returns the same snapshot as Producer.Stats; both handles share
// one underlying counter set.
func (c *Consumer[T]) Stats() Stats { return c.c.stats.snapshot() }

// Capacity returns the buffer's total slot count, including the
// reserved sentinel slot. Usable capacity is Capacity()-1.
func (p *Producer[T]) Capacity() int { return int(p.c.n) }

// Capacity mirrors Producer.Capacity for symmetry on the consumer side.
func (c *Consumer[T]) Capacity() int { return int(c.c.n) }
