package fishsynth

import (
	"context"

	"github.com/xrash/smetrics"

	"nickandperla.net/fishsynth/deadfish"
)

// Verification compares the searched and heuristic programs for one pair.
type Verification struct {
	From             deadfish.Value
	To               deadfish.Value
	SearchProgram    string
	HeuristicProgram string
	SearchLength     int
	HeuristicLength  int
	Optimal          bool
	// EditDistance between the two programs, counting every insertion,
	// deletion and substitution as one.
	EditDistance int
	Reason       VerifyFailReason
}

// Verifier checks the heuristic against bounded breadth first search.
type Verifier struct {
	encoder *BfsEncoder
	metrics *SynthMetrics
}

func NewVerifier(bound uint, metrics *SynthMetrics) *Verifier {
	config := &SynthConfig{Bound: bound}
	return &Verifier{
		encoder: NewBfsEncoder().WithBound(config.SearchBound()),
		metrics: metrics,
	}
}

func (v *Verifier) Verify(from, to deadfish.Value) *Verification {
	searched, optimal := v.encoder.Encode(from, to)
	heuristic := HeuristicPath(from, to)

	ver := &Verification{
		From:             from,
		To:               to,
		SearchProgram:    deadfish.Format(searched),
		HeuristicProgram: deadfish.Format(heuristic),
		SearchLength:     len(searched),
		HeuristicLength:  len(heuristic),
		Optimal:          optimal,
	}
	ver.EditDistance = smetrics.WagnerFischer(ver.SearchProgram, ver.HeuristicProgram, 1, 1, 1)
	ver.Reason = selectReason(from, to, searched, optimal, heuristic)

	v.metrics.ObserveSearch(v.encoder.Explored())
	v.metrics.ObserveVerification(ver.Reason)
	return ver
}

// selectReason grades a pair. A heuristic program longer than a proven
// optimum is a disagreement. One shorter than it means the search is wrong.
func selectReason(from, to deadfish.Value, searched []deadfish.Inst, optimal bool, heuristic []deadfish.Inst) VerifyFailReason {
	if !printsExactly(heuristic, from, to) {
		return FailedReplay
	}
	if searched != nil && !printsExactly(searched, from, to) {
		return FailedReplay
	}
	if !optimal {
		return SkippedUnproven
	}
	if len(heuristic) < len(searched) {
		return FailedOptimality
	}
	if len(heuristic) > len(searched) {
		return FailedAgreement
	}
	return 0
}

// printsExactly reports whether insts, run from from, prints to and
// nothing else.
func printsExactly(insts []deadfish.Inst, from, to deadfish.Value) bool {
	ir, acc := deadfish.EvalIr(insts, from)
	if acc != to {
		return false
	}
	numbers := 0
	for _, entry := range ir {
		switch entry.Kind {
		case deadfish.IrNumber:
			numbers++
			if entry.Value() != to {
				return false
			}
		case deadfish.IrBlanks:
			return false
		}
	}
	return numbers == 1 && len(insts) > 0 && insts[len(insts)-1] == deadfish.Output
}

// VerifyAll verifies every pair on a pool of workers. Results line up with
// pairs.
func VerifyAll(ctx context.Context, pairs []Pair, bound uint, workers int, metrics *SynthMetrics) ([]*Verification, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]*Verification, len(pairs))
	err := runWorkers(ctx, workers, len(pairs),
		func() (*Verifier, error) {
			return NewVerifier(bound, metrics), nil
		},
		func(v *Verifier, i int) error {
			results[i] = v.Verify(pairs[i].From, pairs[i].To)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// VerifySummary tallies verification outcomes.
type VerifySummary struct {
	Total    int
	ByReason map[VerifyFailReason]int
	// Saved is the instructions the search saved over the heuristic across
	// every proven pair.
	Saved int
}

func Summarize(results []*Verification) *VerifySummary {
	summary := &VerifySummary{ByReason: make(map[VerifyFailReason]int)}
	for _, r := range results {
		summary.Total++
		summary.ByReason[r.Reason]++
		if r.Optimal {
			summary.Saved += r.HeuristicLength - r.SearchLength
		}
	}
	return summary
}

// Failed counts the outcomes that indicate a bug rather than a known gap.
func (s *VerifySummary) Failed() int {
	return s.ByReason[FailedReplay] + s.ByReason[FailedOptimality]
}
