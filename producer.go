package bipbuffer

// Producer is the write-side handle to a bipartite buffer. It owns the
// write index w and the invalidate index i exclusively: only code
// holding this handle may call WriteAcquire/WriteRelease, and it must
// be called from a single goroutine at a time. There is no
// multi-producer support; a second producer racing on the same
// indices would corrupt them.
type Producer[T any] struct {
	c *core[T]

	wrapped  bool // write_wrapped: set by WriteAcquire, consumed by WriteRelease
	active   bool // an acquire is outstanding without a matching release
	acquired int  // free_required from the outstanding acquire, for debug-assert
}

// WriteAcquire reserves a linear region of exactly freeRequired slots
// for writing and returns it, or returns nil if that many contiguous
// free slots are not available right now. freeRequired must be > 0.
//
// The returned slice is exclusively the producer's until the matching
// WriteRelease; at most one WriteAcquire may be outstanding at a time.
// The producer may write fewer than freeRequired elements into the
// slice between acquire and release, but must pass the count it
// actually wrote to WriteRelease, and must not write past freeRequired.
func (p *Producer[T]) WriteAcquire(freeRequired int) []T {
	debugAssertf(!p.active, "bipbuffer: WriteAcquire called with an acquire already outstanding")
	debugAssertf(freeRequired > 0, "bipbuffer: WriteAcquire requires freeRequired > 0, got %d", freeRequired)

	c := p.c
	if c.statsEnabled {
		c.stats.writeAcquireCalls.Add(1)
	}

	// w is producer-owned: relaxed load is safe, this goroutine is the
	// only writer. r is consumer-owned: acquire load synchronizes-with
	// the consumer's release store in ReadRelease.
	w := c.w.v.Load()
	r := c.r.v.Load()

	free := freeSpace(w, r, c.n)
	linearFree := min(free, c.n-w)

	need := uint64(freeRequired)
	var region []T
	var wrapped bool
	branch := "no_space"

	switch {
	case need <= linearFree:
		region = c.data[w : w+need]
		branch = "linear"
	case need <= free-linearFree:
		wrapped = true
		region = c.data[0:need]
		branch = "wrap"
	}

	if region != nil {
		p.wrapped = wrapped
		p.active = true
		p.acquired = freeRequired
		if wrapped && c.statsEnabled {
			c.stats.writeAcquireWrapped.Add(1)
		}
	} else if c.statsEnabled {
		c.stats.writeAcquireRejected.Add(1)
	}

	if c.trace != nil {
		c.trace(TraceEvent{
			Op: "write_acquire", Branch: branch,
			Requested: freeRequired, Result: len(region),
			W: w, R: r, I: c.i.v.Load(), Wrapped: wrapped,
		})
	}
	return region
}

// WriteRelease commits written slots from the region returned by the
// last WriteAcquire, publishing them to the consumer. 0 <= written <=
// the freeRequired passed to that acquire.
func (p *Producer[T]) WriteRelease(written int) {
	debugAssertf(p.active, "bipbuffer: WriteRelease called without an outstanding WriteAcquire")
	debugAssertf(written >= 0 && written <= p.acquired, "bipbuffer: WriteRelease(%d) exceeds outstanding acquire of %d", written, p.acquired)

	c := p.c
	if c.statsEnabled {
		c.stats.writeReleaseCalls.Add(1)
	}

	w := c.w.v.Load()
	i := c.i.v.Load()

	wasWrapped := p.wrapped
	if p.wrapped {
		// Freeze the trailing valid-data boundary at the old w, then
		// restart the write index at 0: the acquired region actually
		// began at storage[0].
		p.wrapped = false
		i = w
		w = 0
	}

	w += uint64(written)
	if w > i {
		// No wrap in effect (or we just wrote past the old boundary):
		// the invalidate index tracks the furthest contiguous write.
		i = w
	}
	if w == c.n {
		// Exact-end wrap: w resets to 0 but i is left at n, not
		// decremented. This is intentional: the consumer may still be
		// mid-read over the tail region ending at n, and moving i back
		// would make that region look invalid out from under it.
		w = 0
	}

	// i must be published before w: a consumer that observes the new w
	// via an acquire load must also observe the i that goes with it.
	c.i.v.Store(i)
	c.w.v.Store(w)

	p.active = false
	p.acquired = 0

	if c.trace != nil {
		branch := "linear"
		if wasWrapped {
			branch = "wrap"
		}
		c.trace(TraceEvent{
			Op: "write_release", Branch: branch,
			Requested: written, Result: written,
			W: w, R: c.r.v.Load(), I: i, Wrapped: wasWrapped,
		})
	}
}

// WriteReleaseSlice is WriteRelease(len(written)), for callers holding
// on to the (possibly shortened) slice they actually filled rather than
// a bare count. Mirrors the span-typed overload in the original
// lfbb_impl.hpp (`WriteRelease(const std::span<T> written)`).
func (p *Producer[T]) WriteReleaseSlice(written []T) {
	p.WriteRelease(len(written))
}
