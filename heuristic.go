package fishsynth

import (
	"math"
	"slices"

	"nickandperla.net/fishsynth/deadfish"
)

// ZeroPath reaches zero with a run of Offset followed by Squares
// squarings.
type ZeroPath struct {
	Offset  deadfish.Offset
	Squares uint32
}

func (z ZeroPath) Len() uint64 {
	return z.Offset.Abs() + uint64(z.Squares)
}

// shorter orders paths by length, preferring fewer squarings on a tie.
func (z ZeroPath) shorter(other ZeroPath) bool {
	if z.Len() != other.Len() {
		return z.Len() < other.Len()
	}
	return z.Squares < other.Squares
}

type zeroAnchor struct {
	value   deadfish.Value
	squares uint32
}

// zeroAnchors are values that square into a reset. The roots of 256 reach
// zero with one squaring and the roots of 16 take two.
var zeroAnchors []zeroAnchor = buildZeroAnchors()

func buildZeroAnchors() []zeroAnchor {
	anchors := []zeroAnchor{{0, 0}}
	for _, raw := range deadfish.WrappingSqrt(deadfish.Boundary) {
		if root, ok := deadfish.FromChecked(raw); ok {
			anchors = append(anchors, zeroAnchor{root, 1})
		}
	}
	for _, root := range deadfish.Value(16).WrappingRoots() {
		anchors = append(anchors, zeroAnchor{root, 2})
	}
	return anchors
}

// EncodeToZero picks the cheaper of walking to a value that squares into
// a reset and correcting the low bits so repeated squaring overflows to
// zero. The boundary strategy wins ties.
func EncodeToZero(v deadfish.Value) ZeroPath {
	best := boundaryToZero(v)
	if overflow, ok := overflowToZero(v); ok && overflow.shorter(best) {
		return overflow
	}
	return best
}

func boundaryToZero(v deadfish.Value) ZeroPath {
	var best ZeroPath
	found := false
	consider := func(off deadfish.Offset, squares uint32) {
		candidate := ZeroPath{Offset: off, Squares: squares}
		if !found || candidate.shorter(best) {
			best = candidate
			found = true
		}
	}

	if v.BelowBoundary() {
		consider(deadfish.Offset(deadfish.Boundary-int64(v)), 0)
	} else {
		consider(deadfish.Offset(deadfish.MaxRaw-int64(v)), 0)
		consider(deadfish.Offset(deadfish.Boundary-int64(v)), 0)
	}
	for _, anchor := range zeroAnchors {
		if off, ok := v.OffsetTo(anchor.value); ok {
			consider(off, anchor.squares)
		}
	}
	return best
}

// overflowToZero nudges v until it has at least two trailing zero bits,
// then squares until the set bits shift out of the word.
func overflowToZero(v deadfish.Value) (ZeroPath, bool) {
	if v == 0 {
		return ZeroPath{}, true
	}

	var off deadfish.Offset
	if v.TrailingZeros() < 2 {
		switch {
		case v&0xff == 0xfd:
			off = 3
		case v&0xff == 0x03:
			off = -3
		case v&0xf == 0xe:
			off = 2
		case v&0xf == 0x2:
			off = -2
		case v&3 == 3:
			off = 1
		case v&3 == 1:
			off = -1
		}
	}

	squares, ok := squaresToZero(v.AddOffset(off))
	if !ok {
		return ZeroPath{}, false
	}
	return ZeroPath{Offset: off, Squares: squares}, true
}

func squaresToZero(w deadfish.Value) (uint32, bool) {
	var n uint32
	for w != 0 {
		next := w.Square()
		if next == w {
			return 0, false
		}
		w = next
		n++
		if n > 6 {
			return 0, false
		}
	}
	return n, true
}

// rootChain follows nearest square roots down from a value. roots[0] is
// the value itself and legs[i] is the run from roots[i+1] squared back up
// to roots[i].
type rootChain struct {
	roots []deadfish.Value
	legs  []deadfish.Offset
}

func newRootChain(v deadfish.Value) rootChain {
	chain := rootChain{roots: []deadfish.Value{v}}
	for v >= 4 {
		root, leg := v.NearestSqrt()
		chain.roots = append(chain.roots, root)
		chain.legs = append(chain.legs, leg)
		v = root
	}
	return chain
}

func (c rootChain) depth() int {
	return len(c.legs)
}

// EncodeFromZero describes a path from zero to v as offsets separated by
// single squarings. The first offset climbs from zero to the innermost
// root.
func EncodeFromZero(v deadfish.Value) []deadfish.Offset {
	chain := newRootChain(v)
	k := chain.depth()
	offsets := make([]deadfish.Offset, k+1)
	offsets[0] = deadfish.Offset(chain.roots[k])
	for i := 1; i <= k; i++ {
		offsets[i] = chain.legs[k-i]
	}
	return offsets
}

const (
	// maxRootShift skips squares with more factors of four than this. Their
	// root sets grow past a few dozen values.
	maxRootShift = 4
	maxNudge     = 3
	landingHops  = 2
	maxLaunches  = 3
)

// launchNudges are the runs tried before squaring away from the start.
var launchNudges = [...]deadfish.Offset{0, 1, -1, 2, -2, 3, -3, 4, -4}

// landing is a value the plan may walk to. A base landing joins the root
// chain at level. Any other landing squares once and moves by nudge to
// reach landings[next].
type landing struct {
	value deadfish.Value
	cost  uint64
	level int
	next  int
	nudge deadfish.Offset
}

// landingSet holds every value the planner knows how to finish from,
// with the number of mutating instructions left from each.
type landingSet struct {
	chain    rootChain
	tail     []uint64
	landings []landing
	index    map[deadfish.Value]int
}

// newLandingSet grows the landings of target outward. The chain roots and
// every wrapped root sharing their square cost what the chain costs from
// there. Each hop then adds the wrapped roots of values a short run away
// from a known landing.
func newLandingSet(target deadfish.Value) *landingSet {
	chain := newRootChain(target)
	s := &landingSet{
		chain: chain,
		tail:  make([]uint64, len(chain.roots)),
		index: make(map[deadfish.Value]int),
	}
	for j := 1; j < len(chain.roots); j++ {
		s.tail[j] = s.tail[j-1] + 1 + chain.legs[j-1].Abs()
	}

	var frontier []deadfish.Value
	for j, root := range chain.roots {
		s.put(landing{value: root, cost: s.tail[j], level: j, next: -1})
		frontier = append(frontier, root)
		if j == 0 {
			continue
		}
		for _, alt := range shallowRoots(root.Square()) {
			s.put(landing{value: alt, cost: s.tail[j], level: j, next: -1})
			frontier = append(frontier, alt)
		}
	}

	for hop := 0; hop < landingHops; hop++ {
		slices.Sort(frontier)
		frontier = slices.Compact(frontier)
		var next []deadfish.Value
		for _, y := range frontier {
			yi := s.index[y]
			cost := s.landings[yi].cost
			for d := deadfish.Offset(-maxNudge); d <= maxNudge; d++ {
				x, ok := runBefore(y, d)
				if !ok {
					continue
				}
				for _, z := range shallowRoots(x) {
					if s.put(landing{value: z, cost: cost + d.Abs() + 1, next: yi, nudge: d}) {
						next = append(next, z)
					}
				}
			}
		}
		frontier = next
	}

	s.resolve()
	return s
}

// put records l unless its value already has a landing at most as costly.
func (s *landingSet) put(l landing) bool {
	if i, ok := s.index[l.value]; ok {
		if l.cost >= s.landings[i].cost {
			return false
		}
		s.landings[i] = l
		return true
	}
	s.index[l.value] = len(s.landings)
	s.landings = append(s.landings, l)
	return true
}

// resolve recomputes every cost from the landing it leads to. A landing
// replaced after something pointed at it only ever got cheaper.
func (s *landingSet) resolve() {
	done := make([]bool, len(s.landings))
	var cost func(i int) uint64
	cost = func(i int) uint64 {
		if done[i] {
			return s.landings[i].cost
		}
		l := &s.landings[i]
		if l.next < 0 {
			l.cost = s.tail[l.level]
		} else {
			l.cost = cost(l.next) + l.nudge.Abs() + 1
		}
		done[i] = true
		return l.cost
	}
	for i := range s.landings {
		cost(i)
	}
}

// runBefore is the value a run of d lands on y from, when that run stays
// on one side of the boundary.
func runBefore(y deadfish.Value, d deadfish.Offset) (deadfish.Value, bool) {
	raw := int64(y) - int64(d)
	if raw < 0 || raw > deadfish.MaxRaw {
		return 0, false
	}
	x, ok := deadfish.FromChecked(uint32(raw))
	if !ok {
		return 0, false
	}
	if _, ok := x.OffsetTo(y); !ok {
		return 0, false
	}
	return x, true
}

func shallowRoots(v deadfish.Value) []deadfish.Value {
	if v == 0 || v.TrailingZeros()/2 > maxRootShift {
		return nil
	}
	return v.WrappingRoots()
}

type heuristicPlan struct {
	viaZero bool
	zero    ZeroPath
	nudge   deadfish.Offset
	squares uint32
	offset  deadfish.Offset
	landing int
	cost    uint64
}

// planHeuristic launches from a few values around from, each squared up
// to maxLaunches times, and walks to the cheapest landing reachable by a
// linear run. Dropping to zero and climbing the whole chain is only taken
// when strictly cheaper.
func planHeuristic(from deadfish.Value, s *landingSet) heuristicPlan {
	best := heuristicPlan{cost: math.MaxUint64}
	for _, nudge := range launchNudges {
		launch := from.AddOffset(nudge)
		for m := uint32(0); m <= maxLaunches; m++ {
			if m > 0 {
				launch = launch.Square()
			}
			prefix := nudge.Abs() + uint64(m)
			for i, l := range s.landings {
				off, ok := launch.OffsetTo(l.value)
				if !ok {
					continue
				}
				if cost := prefix + off.Abs() + l.cost; cost < best.cost {
					best = heuristicPlan{nudge: nudge, squares: m, offset: off, landing: i, cost: cost}
				}
			}
		}
	}

	zero := EncodeToZero(from)
	k := s.chain.depth()
	if cost := zero.Len() + uint64(s.chain.roots[k]) + s.tail[k]; cost < best.cost {
		best = heuristicPlan{viaZero: true, zero: zero, cost: cost}
	}
	return best
}

// HeuristicEncode moves the builder's accumulator to target without
// printing it.
func HeuristicEncode(b *Builder, target deadfish.Value) {
	s := newLandingSet(target)
	plan := planHeuristic(b.Acc(), s)

	level := s.chain.depth()
	if plan.viaZero {
		b.Offset(plan.zero.Offset)
		b.Square(plan.zero.Squares)
		b.Offset(deadfish.Offset(s.chain.roots[level]))
	} else {
		b.Offset(plan.nudge)
		b.Square(plan.squares)
		b.Offset(plan.offset)
		l := s.landings[plan.landing]
		for l.next >= 0 {
			b.Square(1)
			b.Offset(l.nudge)
			l = s.landings[l.next]
		}
		level = l.level
	}
	for i := level - 1; i >= 0; i-- {
		b.Square(1)
		b.Offset(s.chain.legs[i])
	}
}

// HeuristicPath is a complete program printing to from an accumulator
// holding from.
func HeuristicPath(from, to deadfish.Value) []deadfish.Inst {
	b := NewBuilder(from)
	b.PushNumber(to)
	return b.IntoInsts()
}

// HeuristicLen is the length of HeuristicPath without building it.
func HeuristicLen(from, to deadfish.Value) uint64 {
	return planHeuristic(from, newLandingSet(to)).cost + 1
}
