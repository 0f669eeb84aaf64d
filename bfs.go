package fishsynth

import (
	log "github.com/sirupsen/logrus"

	"nickandperla.net/fishsynth/deadfish"
)

type bfsNode struct {
	value  deadfish.Value
	inst   deadfish.Inst
	prev   int
	length int
}

// BfsEncoder searches the state graph breadth first for the shortest path
// between two values. Its node arena and visited set are reused between
// searches, so an encoder must not be shared between goroutines.
type BfsEncoder struct {
	bound    int
	maxNodes int
	nodes    []bfsNode
	visited  map[deadfish.Value]struct{}
	explored int
}

// DefaultMaxNodes caps the node arena. A search from a small value passes
// it somewhere past depth 16, holding a few hundred megabytes.
const DefaultMaxNodes = 1 << 22

func NewBfsEncoder() *BfsEncoder {
	return &BfsEncoder{
		bound:    Unbounded,
		maxNodes: DefaultMaxNodes,
		nodes:    make([]bfsNode, 0, 1024),
		visited:  make(map[deadfish.Value]struct{}, 1024),
	}
}

// WithBound limits the number of mutating instructions a search explores.
// Searches that exhaust the bound fall back to finishing the most
// promising partial path heuristically.
func (e *BfsEncoder) WithBound(bound int) *BfsEncoder {
	if bound < 0 {
		bound = 0
	}
	e.bound = bound
	return e
}

func (e *BfsEncoder) Bound() int {
	return e.bound
}

// WithMaxNodes caps how many nodes a search may discover. A search that
// fills the arena stops expanding and falls back like one that exhausted
// its bound. Non-positive values restore DefaultMaxNodes.
func (e *BfsEncoder) WithMaxNodes(n int) *BfsEncoder {
	if n <= 0 {
		n = DefaultMaxNodes
	}
	e.maxNodes = n
	return e
}

func (e *BfsEncoder) MaxNodes() int {
	return e.maxNodes
}

// Explored is the number of nodes the last search discovered.
func (e *BfsEncoder) Explored() int {
	return e.explored
}

// Encode returns a program that prints to starting from from, and whether
// that program is known to be the shortest. A nil program means neither
// the search nor its fallback produced anything.
func (e *BfsEncoder) Encode(from, to deadfish.Value) ([]deadfish.Inst, bool) {
	e.nodes = e.nodes[:0]
	clear(e.visited)

	e.nodes = append(e.nodes, bfsNode{value: from, prev: -1})
	e.visited[from] = struct{}{}

	zero := -1
	if from == 0 {
		zero = 0
	}
	bestSquare := -1
	var bestCost uint64

	for head := 0; head < len(e.nodes); head++ {
		node := e.nodes[head]
		if node.value == to {
			e.explored = len(e.nodes)
			path := e.path(head)
			return append(path, deadfish.Output), true
		}
		if node.length >= e.bound {
			continue
		}

		for _, inst := range deadfish.MUTATING_INSTS {
			if len(e.nodes) >= e.maxNodes {
				break
			}
			next := node.value.Apply(inst)
			if _, seen := e.visited[next]; seen {
				continue
			}
			e.visited[next] = struct{}{}
			e.nodes = append(e.nodes, bfsNode{
				value:  next,
				inst:   inst,
				prev:   head,
				length: node.length + 1,
			})
			idx := len(e.nodes) - 1

			if next == 0 && zero < 0 {
				zero = idx
			}
			if inst == deadfish.Square {
				if off, ok := next.OffsetTo(to); ok {
					cost := uint64(node.length+1) + off.Abs()
					if bestSquare < 0 || cost < bestCost {
						bestSquare = idx
						bestCost = cost
					}
				}
			}
		}
	}
	e.explored = len(e.nodes)

	var best []deadfish.Inst
	for _, idx := range [...]int{zero, bestSquare} {
		if idx < 0 {
			continue
		}
		b := NewBuilder(e.nodes[idx].value)
		b.PushNumber(to)
		candidate := append(e.path(idx), b.Insts()...)
		if best == nil || len(candidate) < len(best) {
			best = candidate
		}
	}

	if best != nil && log.IsLevelEnabled(log.DebugLevel) {
		log.WithFields(log.Fields{
			"from":     from,
			"to":       to,
			"bound":    e.bound,
			"maxNodes": e.maxNodes,
			"explored": e.explored,
			"length":   len(best),
		}).Debug("Search bound exhausted, completed heuristically")
	}
	return best, false
}

// path walks the prev links from idx back to the root.
func (e *BfsEncoder) path(idx int) []deadfish.Inst {
	path := make([]deadfish.Inst, e.nodes[idx].length, e.nodes[idx].length+1)
	for i := idx; e.nodes[i].prev >= 0; i = e.nodes[i].prev {
		path[e.nodes[i].length-1] = e.nodes[i].inst
	}
	return path
}
