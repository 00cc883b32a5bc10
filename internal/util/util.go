// Package util holds the handful of small, dependency-free helpers the
// reactor and room registry share: an unbiased digit draw and fatal-error
// reporting for the startup paths that have no recovery path.
package util

import (
	"fmt"
	"math/rand/v2"
	"os"
)

// RandomDigit draws a uniformly distributed digit in [0, 9].
//
// math/rand/v2's IntN is unbiased by construction (unlike the classic
// rand()/divisor trick the original C implementation used), so there is no
// rejection loop here the way there was in util.c's random_int.
func RandomDigit() byte {
	return byte('0' + rand.IntN(10))
}

// Fatalf reports an unrecoverable error — a failed ring submission, a
// listener that could not be created, anything with no local recovery path
// — and terminates the process. site identifies the call site the way the
// original's die() used a colon-terminated format string to trigger an
// errno suffix; here the wrapped error carries that information instead.
func Fatalf(site string, err error) {
	fmt.Fprintf(os.Stderr, "sticks: %s: %v\n", site, err)
	os.Exit(1)
}
