package fishsynth

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"nickandperla.net/fishsynth/deadfish"
)

// Pair is one number to print and the accumulator it is printed from.
type Pair struct {
	From deadfish.Value
	To   deadfish.Value
}

// PairRange lists every pair with from in [fromLo, fromHi) and to in
// [toLo, toHi), skipping values the machine cannot hold.
func PairRange(fromLo, fromHi, toLo, toHi uint32) []Pair {
	var pairs []Pair
	for f := fromLo; f < fromHi; f++ {
		from, ok := deadfish.FromChecked(f)
		if !ok {
			continue
		}
		for t := toLo; t < toHi; t++ {
			if to, ok := deadfish.FromChecked(t); ok {
				pairs = append(pairs, Pair{From: from, To: to})
			}
		}
	}
	return pairs
}

// BatchSynthesizer encodes many pairs on a pool of workers. Every worker
// owns a Synthesizer, and results line up with the input pairs.
type BatchSynthesizer struct {
	Config  *SynthConfig
	Workers int
	Metrics *SynthMetrics
}

func NewBatchSynthesizer(config *SynthConfig, workers int, metrics *SynthMetrics) *BatchSynthesizer {
	if workers < 1 {
		workers = 1
	}
	return &BatchSynthesizer{Config: config, Workers: workers, Metrics: metrics}
}

func (bs *BatchSynthesizer) EncodeAll(ctx context.Context, pairs []Pair) ([]*Encoding, error) {
	if bs.Config == nil {
		return nil, ErrNilConfig
	}

	results := make([]*Encoding, len(pairs))
	err := runWorkers(ctx, bs.Workers, len(pairs),
		func() (*Synthesizer, error) {
			return NewSynthesizerFromConfig(bs.Config, WithMetrics(bs.Metrics))
		},
		func(s *Synthesizer, i int) error {
			enc, err := s.Encode(pairs[i].From, pairs[i].To)
			if err != nil {
				return err
			}
			results[i] = enc
			return nil
		})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// runWorkers feeds the indices [0, n) to workers goroutines. Each
// goroutine builds its own state with newWorker. The first error cancels
// the rest.
func runWorkers[W any](ctx context.Context, workers, n int, newWorker func() (W, error), work func(W, int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	indices := make(chan int)

	g.Go(func() error {
		defer close(indices)
		for i := 0; i < n; i++ {
			select {
			case indices <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for id := 0; id < workers; id++ {
		id := id
		g.Go(func() error {
			w, err := newWorker()
			if err != nil {
				return err
			}
		FOR:
			for {
				select {
				case i, ok := <-indices:
					if !ok {
						break FOR
					}
					if err := work(w, i); err != nil {
						return fmt.Errorf("item %d: %w", i, err)
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if DEBUG {
				log.Debugf("Closing worker %d", id)
			}
			return nil
		})
	}

	return g.Wait()
}
