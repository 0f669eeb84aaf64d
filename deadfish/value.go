package deadfish

import (
	"math"
	"math/bits"
	"strconv"
)

// Value is the accumulator of a deadfish machine. The machine resets the
// accumulator to zero whenever it would become 256 or -1, so a Value never
// holds either bit pattern.
type Value uint32

const (
	Boundary   = 256
	MaxRaw     = math.MaxUint32
	MaxValue   = Value(MaxRaw - 1)
	boundary64 = uint64(Boundary)
)

// From normalizes a raw magnitude into a Value.
func From(n uint32) Value {
	if n == Boundary || n == MaxRaw {
		return 0
	}
	return Value(n)
}

// FromChecked rejects the two reset patterns instead of normalizing them.
func FromChecked(n uint32) (Value, bool) {
	if n == Boundary || n == MaxRaw {
		return 0, false
	}
	return Value(n), true
}

func FromInt32(n int32) Value {
	return From(uint32(n))
}

func (v Value) Uint32() uint32 {
	return uint32(v)
}

func (v Value) Int32() int32 {
	return int32(v)
}

func (v Value) String() string {
	return strconv.FormatInt(int64(int32(v)), 10)
}

// BelowBoundary reports which side of 256 the value sits on. Increment and
// decrement runs can only move linearly within one side.
func (v Value) BelowBoundary() bool {
	return v < Boundary
}

// Neg returns the two's complement negation, which squares to the same
// value as v.
func (v Value) Neg() (Value, bool) {
	return FromChecked(-uint32(v))
}

func (v Value) Apply(inst Inst) Value {
	return From(v.applyRaw(inst))
}

// applyRaw is inst under plain 32-bit wrapping arithmetic, before the
// reset rule.
func (v Value) applyRaw(inst Inst) uint32 {
	switch inst {
	case Increment:
		return uint32(v) + 1
	case Decrement:
		return uint32(v) - 1
	case Square:
		return uint32(v) * uint32(v)
	default:
		return uint32(v)
	}
}

// ApplyInverse undoes one instruction where that is possible. Zero is
// ambiguous after normalization, so the inverse only returns the
// non-reset predecessor.
func (v Value) ApplyInverse(inst Inst) (Value, bool) {
	switch inst {
	case Increment:
		return FromChecked(uint32(v) - 1)
	case Decrement:
		return FromChecked(uint32(v) + 1)
	case Square:
		root := isqrt(uint64(v))
		if root*root != uint64(v) {
			return 0, false
		}
		return FromChecked(uint32(root))
	default:
		return v, true
	}
}

func (v Value) Square() Value {
	return From(uint32(v) * uint32(v))
}

// SquareRepeat squares n times, stopping early once the value collapses to
// zero.
func (v Value) SquareRepeat(n uint32) Value {
	for i := uint32(0); i < n && v != 0; i++ {
		v = v.Square()
	}
	return v
}

// SaturatingAdd gives the same result as k sequential increments.
func (v Value) SaturatingAdd(k uint32) Value {
	if v < Boundary {
		return Value((uint64(v) + uint64(k)) % boundary64)
	}
	toReset := uint32(MaxRaw - v)
	if k < toReset {
		return v + Value(k)
	}
	return Value(uint64(k-toReset) % boundary64)
}

// SaturatingSub gives the same result as k sequential decrements. Below 256
// the value sticks at zero, since decrementing zero yields -1 which resets.
func (v Value) SaturatingSub(k uint32) Value {
	if v < Boundary {
		if k >= uint32(v) {
			return 0
		}
		return v - Value(k)
	}
	toReset := uint32(v - Boundary)
	if k < toReset {
		return v - Value(k)
	}
	return 0
}

func (v Value) AddOffset(o Offset) Value {
	if o.IsNegative() {
		return v.SaturatingSub(uint32(o.Abs()))
	}
	return v.SaturatingAdd(uint32(o.Abs()))
}

// OffsetTo is the linear run from v to target. It only exists when both
// lie on the same side of 256.
func (v Value) OffsetTo(target Value) (Offset, bool) {
	if v.BelowBoundary() != target.BelowBoundary() {
		return 0, false
	}
	return Offset(int64(target) - int64(v)), true
}

// NearestSqrt returns the root whose square is closest to v along with the
// offset from that square back to v. Roots 16 and 65536 square into the
// reset patterns and root 256 is itself a reset, so they are never chosen.
func (v Value) NearestSqrt() (Value, Offset) {
	n := uint64(v)
	floor := isqrt(n)
	ceil := floor
	if floor*floor != n {
		ceil++
	}
	floorDist := n - floor*floor
	ceilDist := ceil*ceil - n
	if (floorDist < ceilDist && floor != 16) || ceil == 16 || ceil == Boundary || ceil == 65536 {
		if floor == Boundary {
			return Value(Boundary - 1), Offset(int64(n) - (Boundary-1)*(Boundary-1))
		}
		return Value(floor), Offset(floorDist)
	}
	return Value(ceil), -Offset(ceilDist)
}

func (v Value) TrailingZeros() int {
	return bits.TrailingZeros32(uint32(v))
}

func isqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
