package fishsynth

import (
	"fmt"
	"math"
)

const (
	DEBUG     = false
	Unbounded = math.MaxInt
)

type Strategy string

const (
	StrategyBFS       Strategy = "bfs"
	StrategyHeuristic Strategy = "heuristic"
	StrategyAuto      Strategy = "auto"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyBFS, StrategyHeuristic, StrategyAuto:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("Unknown strategy [%s], expected one of bfs, heuristic, auto", s)
}

// Labels recorded for every synthesized encoding.
const (
	ResultOptimal   = "optimal"
	ResultFallback  = "fallback"
	ResultHeuristic = "heuristic"
	ResultCached    = "cached"
)

type VerifyFailReason uint

const (
	FailedReplay     VerifyFailReason = 1
	FailedOptimality VerifyFailReason = 2
	FailedAgreement  VerifyFailReason = 3
	SkippedUnproven  VerifyFailReason = 4
)

func (r VerifyFailReason) String() string {
	switch r {
	case 0:
		return "ok"
	case FailedReplay:
		return "failed_replay"
	case FailedOptimality:
		return "failed_optimality"
	case FailedAgreement:
		return "failed_agreement"
	case SkippedUnproven:
		return "skipped_unproven"
	default:
		return fmt.Sprintf("unknown(%d)", uint(r))
	}
}

var (
	ErrNilConfig       error = fmt.Errorf("config cannot be nil")
	ErrUnrepresentable error = fmt.Errorf("Value cannot be printed by deadfish")
)
