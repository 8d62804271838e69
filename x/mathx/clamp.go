// Package mathx holds small numeric helpers shared by the control core and the
// firmware targets. Everything here is allocation-free and safe to call from an
// interrupt handler.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. Swapped bounds are reordered.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AbsDiff returns |a - b| without overflowing unsigned types.
func AbsDiff[T constraints.Integer](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}

// Within reports whether a and b differ by at most tol.
func Within[T constraints.Integer](a, b, tol T) bool {
	return AbsDiff(a, b) <= tol
}
