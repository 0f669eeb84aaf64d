package deadfish

import (
	"math/bits"
	"slices"
)

// IsWrappingSquare reports whether some y has y*y == x under 32-bit
// wrapping multiplication. Nonzero squares have an even number of trailing
// zeros and an odd part that is 1 mod 8.
func IsWrappingSquare(x uint32) bool {
	if x == 0 {
		return true
	}
	tz := bits.TrailingZeros32(x)
	return tz%2 == 0 && (x>>tz)%8 == 1
}

// WrappingSqrt returns every y with y*y == x under 32-bit wrapping
// multiplication, in ascending order. Zero has 65536 roots, every multiple
// of 65536.
func WrappingSqrt(x uint32) []uint32 {
	if x == 0 {
		roots := make([]uint32, 0, 1<<16)
		for t := uint32(0); t < 1<<16; t++ {
			roots = append(roots, t<<16)
		}
		return roots
	}
	if !IsWrappingSquare(x) {
		return nil
	}

	// x = 2^(2v) * u with u odd. Roots are 2^v * s where s*s == u mod 2^e,
	// and s only matters mod 2^(32-v).
	tz := bits.TrailingZeros32(x)
	v := tz / 2
	e := 32 - 2*v
	m := uint64(1) << e
	odd := oddSqrts(uint64(x>>tz), e)

	roots := make([]uint32, 0, len(odd)<<v)
	for _, s := range odd {
		for t := uint64(0); t < 1<<v; t++ {
			roots = append(roots, uint32((s+t*m)<<v))
		}
	}
	slices.Sort(roots)
	return roots
}

// oddSqrts lists the odd s below 2^e with s*s == u mod 2^e. u must be odd
// and a square mod 2^e.
func oddSqrts(u uint64, e int) []uint64 {
	m := uint64(1) << e
	if e <= 3 {
		var roots []uint64
		for s := uint64(1); s < m; s += 2 {
			if s*s%m == u%m {
				roots = append(roots, s)
			}
		}
		return roots
	}

	// Lift a root of u mod 8 one bit at a time. If y*y misses u in bit k,
	// adding 2^(k-1) flips that bit and leaves the lower ones alone.
	y := uint64(1)
	for k := 3; k < e; k++ {
		if (y*y-u)>>k&1 != 0 {
			y += 1 << (k - 1)
		}
	}
	half := m / 2
	roots := []uint64{y, m - y, y + half, half - y}
	slices.Sort(roots)
	return roots
}

// WrappingRoots returns every Value whose square is v, in ascending order.
func (v Value) WrappingRoots() []Value {
	var raws []uint32
	if v == 0 {
		raws = append(WrappingSqrt(0), WrappingSqrt(Boundary)...)
	} else {
		raws = WrappingSqrt(uint32(v))
	}

	roots := make([]Value, 0, len(raws))
	for _, r := range raws {
		if root, ok := FromChecked(r); ok {
			roots = append(roots, root)
		}
	}
	slices.Sort(roots)
	return roots
}
