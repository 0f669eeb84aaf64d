package deadfish

import (
	"strconv"
)

// Offset is a signed run of increments (positive) or decrements (negative)
// between two values on the same side of 256.
type Offset int64

func (o Offset) IsNegative() bool {
	return o < 0
}

// Abs is the number of instructions the run costs.
func (o Offset) Abs() uint64 {
	if o < 0 {
		return uint64(-o)
	}
	return uint64(o)
}

// Compare orders offsets by magnitude. Of two offsets with the same
// magnitude the non-negative one comes first.
func (o Offset) Compare(other Offset) int {
	a, b := o.Abs(), other.Abs()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case o == other:
		return 0
	case o >= 0:
		return -1
	default:
		return 1
	}
}

func (o Offset) Less(other Offset) bool {
	return o.Compare(other) < 0
}

// Inst is the instruction a run of this offset repeats.
func (o Offset) Inst() Inst {
	if o < 0 {
		return Decrement
	}
	return Increment
}

func (o Offset) String() string {
	if o > 0 {
		return "+" + strconv.FormatInt(int64(o), 10)
	}
	return strconv.FormatInt(int64(o), 10)
}
