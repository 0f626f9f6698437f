package bipbuffer

// config collects the construction-time knobs of a buffer. It is never
// exposed directly; callers build it via Option functions passed to New.
type config struct {
	multicoreHosted bool
	cachelineLength int
	trace           TraceFunc
	statsEnabled    bool
}

func defaultConfig() config {
	return config{
		multicoreHosted: false, // padding off by default: costs memory for no benefit on a single core
		cachelineLength: 64,    // typical x86/arm64 cache line size
	}
}

// Option configures a buffer at construction time. Options affect only
// throughput or observability, never correctness: a buffer built with
// no options at all behaves identically to one with every option set,
// modulo timing.
type Option func(*config)

// WithMulticoreHosted gives each index a pad of cache-line length minus
// 8 bytes (see paddedIndex). Off by default. The pad is a separate
// allocation, so it does not move the indices apart in memory or put
// each one on its own cache line.
func WithMulticoreHosted(enabled bool) Option {
	return func(c *config) { c.multicoreHosted = enabled }
}

// WithCacheLineLength sets the cache-line size in bytes used to size the
// padding installed by WithMulticoreHosted. Default 64. Has no effect
// unless multicore hosting is also enabled.
func WithCacheLineLength(bytes int) Option {
	return func(c *config) {
		if bytes > 0 {
			c.cachelineLength = bytes
		}
	}
}

// WithTrace installs a callback invoked once per acquire/release
// operation with a structured event describing what happened. Passing
// nil (the default) disables tracing entirely; the hot path then costs
// a single nil check per operation.
func WithTrace(fn TraceFunc) Option {
	return func(c *config) { c.trace = fn }
}

// WithStatsEnabled turns on the cumulative atomic counters returned by
// Stats(). Off by default so the zero-configuration buffer pays no
// counter-increment cost on its hot path.
func WithStatsEnabled() Option {
	return func(c *config) { c.statsEnabled = true }
}
