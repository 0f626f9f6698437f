//go:build debug

package bipbuffer

import "fmt"

// debugAssertsEnabled is true when built with -tags debug: usage
// violations that are otherwise undefined behavior (double-acquire,
// release without an acquire, oversized release, a non-positive write
// request) panic instead of silently corrupting state. Use of one
// handle from several goroutines is not detected. Never enabled by
// default.
const debugAssertsEnabled = true

func debugAssertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
