//go:build !debug

package bipbuffer

// debugAssertsEnabled is false in the default (release) build: the hot
// path pays nothing for usage-discipline checking.
const debugAssertsEnabled = false

func debugAssertf(cond bool, format string, args ...any) {}
