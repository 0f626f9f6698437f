package bipbuffer

// Consumer is the read-side handle to a bipartite buffer. It owns the
// read index r exclusively: only code holding this handle may call
// ReadAcquire/ReadRelease, and it must be called from a single
// goroutine at a time. There is no multi-consumer support; a second
// consumer racing on r would corrupt it.
type Consumer[T any] struct {
	c *core[T]

	wrapped  bool // read_wrapped: set by ReadAcquire, consumed by ReadRelease
	active   bool // an acquire is outstanding without a matching release
	acquired int  // length of the region from the outstanding acquire
}

// ReadAcquire returns the currently readable linear region. A nil (or
// zero-length) result means the buffer is empty right now; no state is
// changed in that case. The returned slice is exclusively the
// consumer's until the matching ReadRelease.
func (c *Consumer[T]) ReadAcquire() []T {
	debugAssertf(!c.active, "bipbuffer: ReadAcquire called with an acquire already outstanding")

	cc := c.c
	if cc.statsEnabled {
		cc.stats.readAcquireCalls.Add(1)
	}

	// w and i are producer-owned: acquire loads synchronize-with the
	// producer's release stores in WriteRelease. r is consumer-owned:
	// relaxed load is safe, this goroutine is the only writer of it.
	w := cc.w.v.Load()
	i := cc.i.v.Load()
	r := cc.r.v.Load()

	var region []T
	var wrapped bool
	branch := "empty"

	switch {
	case r == w:
		// empty; region stays nil
	case r < w:
		region = cc.data[r:w]
		branch = "contig"
	case r == i:
		wrapped = true
		region = cc.data[0:w]
		branch = "wrap"
	default: // r > w && r < i
		region = cc.data[r:i]
		branch = "tail"
	}

	if region != nil {
		c.wrapped = wrapped
		c.active = true
		c.acquired = len(region)
		if wrapped && cc.statsEnabled {
			cc.stats.readAcquireWrapped.Add(1)
		}
	} else if cc.statsEnabled {
		cc.stats.readAcquireEmpty.Add(1)
	}

	if cc.trace != nil {
		cc.trace(TraceEvent{
			Op: "read_acquire", Branch: branch,
			Requested: 0, Result: len(region),
			W: w, R: r, I: i, Wrapped: wrapped,
		})
	}
	return region
}

// ReadRelease commits read slots from the region returned by the last
// ReadAcquire, freeing them for the producer to reuse. 0 <= read <= the
// length returned by that acquire.
func (c *Consumer[T]) ReadRelease(read int) {
	debugAssertf(c.active, "bipbuffer: ReadRelease called without an outstanding ReadAcquire")
	debugAssertf(read >= 0 && read <= c.acquired, "bipbuffer: ReadRelease(%d) exceeds outstanding acquire of %d", read, c.acquired)

	cc := c.c
	if cc.statsEnabled {
		cc.stats.readReleaseCalls.Add(1)
	}

	r := cc.r.v.Load()

	wasWrapped := c.wrapped
	if c.wrapped {
		// The wrap commitment belongs to the acquire/release pair that
		// declared it: even a zero-length release still starts r at 0.
		c.wrapped = false
		r = 0
	}

	r += uint64(read)
	if r == cc.n {
		r = 0
	}

	cc.r.v.Store(r)

	c.active = false
	c.acquired = 0

	if cc.trace != nil {
		branch := "contig"
		if wasWrapped {
			branch = "wrap"
		}
		cc.trace(TraceEvent{
			Op: "read_release", Branch: branch,
			Requested: read, Result: read,
			W: cc.w.v.Load(), R: r, I: cc.i.v.Load(), Wrapped: wasWrapped,
		})
	}
}

// ReadReleaseSlice is ReadRelease(len(read)), for callers holding on to
// the (possibly shortened) slice they actually consumed rather than a
// bare count. Mirrors the span-typed overload in the original
// lfbb_impl.hpp (`ReadRelease(const std::span<T> read)`).
func (c *Consumer[T]) ReadReleaseSlice(read []T) {
	c.ReadRelease(len(read))
}
