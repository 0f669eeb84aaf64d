package fishsynth

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"nickandperla.net/fishsynth/deadfish"
)

// Cache stores encodings between runs. Lookup returns nil, nil on a miss.
type Cache interface {
	Lookup(from, to deadfish.Value, strategy Strategy, bound uint) (*Encoding, error)
	Save(enc *Encoding) error
}

type encodingKey struct {
	from deadfish.Value
	to   deadfish.Value
}

// Synthesizer produces short programs printing numbers. It owns a
// BfsEncoder, so it is not safe for concurrent use.
type Synthesizer struct {
	Config  *SynthConfig
	encoder *BfsEncoder
	cache   Cache
	metrics *SynthMetrics
	memo    map[encodingKey]*Encoding
}

type Option func(*Synthesizer)

func WithCache(cache Cache) Option {
	return func(s *Synthesizer) {
		s.cache = cache
	}
}

func WithMetrics(metrics *SynthMetrics) Option {
	return func(s *Synthesizer) {
		s.metrics = metrics
	}
}

func NewSynthesizerFromConfig(config *SynthConfig, opts ...Option) (*Synthesizer, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if _, err := ParseStrategy(string(config.Strategy)); err != nil {
		return nil, err
	}

	s := &Synthesizer{
		Config:  config,
		encoder: NewBfsEncoder().WithBound(config.SearchBound()).WithMaxNodes(config.MaxNodes),
		memo:    make(map[encodingKey]*Encoding),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Encode returns a program printing to from an accumulator holding from.
// The returned encoding belongs to the caller.
func (s *Synthesizer) Encode(from, to deadfish.Value) (*Encoding, error) {
	key := encodingKey{from, to}
	if enc, ok := s.memo[key]; ok {
		s.metrics.ObserveEncoding(s.Config.Strategy, ResultCached, enc.Length)
		return enc.Clone(), nil
	}

	if s.cache != nil {
		enc, err := s.cache.Lookup(from, to, s.Config.Strategy, s.Config.Bound)
		if err != nil {
			return nil, fmt.Errorf("Failed cache lookup: %w", err)
		}
		if enc != nil {
			s.remember(key, enc)
			s.metrics.ObserveEncoding(s.Config.Strategy, ResultCached, enc.Length)
			return enc.Clone(), nil
		}
	}

	insts, optimal, result := s.synthesize(from, to)
	enc := NewEncoding(from, to, s.Config.Strategy, s.Config.Bound, insts, optimal)

	if s.cache != nil {
		if err := s.cache.Save(enc); err != nil {
			return nil, fmt.Errorf("Failed to cache encoding %v -> %v: %w", from, to, err)
		}
	}
	s.remember(key, enc)
	s.metrics.ObserveEncoding(s.Config.Strategy, result, enc.Length)

	if DEBUG {
		log.Debugf("Encoded %v", enc)
	}
	return enc.Clone(), nil
}

func (s *Synthesizer) synthesize(from, to deadfish.Value) ([]deadfish.Inst, bool, string) {
	if s.Config.Strategy == StrategyHeuristic {
		return HeuristicPath(from, to), false, ResultHeuristic
	}

	path, optimal := s.encoder.Encode(from, to)
	s.metrics.ObserveSearch(s.encoder.Explored())
	if optimal {
		return path, true, ResultOptimal
	}

	if path == nil || (s.Config.Strategy == StrategyAuto && HeuristicLen(from, to) < uint64(len(path))) {
		return HeuristicPath(from, to), false, ResultHeuristic
	}
	return path, false, ResultFallback
}

func (s *Synthesizer) remember(key encodingKey, enc *Encoding) {
	if s.Config.MemoSize <= 0 {
		return
	}
	if len(s.memo) >= s.Config.MemoSize {
		clear(s.memo)
	}
	s.memo[key] = enc
}

// EncodeNumbers prints every value in ns in order, starting from an
// accumulator holding start.
func (s *Synthesizer) EncodeNumbers(start deadfish.Value, ns []deadfish.Value) ([]deadfish.Inst, error) {
	var program []deadfish.Inst
	acc := start
	for _, n := range ns {
		enc, err := s.Encode(acc, n)
		if err != nil {
			return nil, err
		}
		insts, err := enc.Insts()
		if err != nil {
			return nil, err
		}
		program = append(program, insts...)
		acc = n
	}
	return program, nil
}

// EncodeString prints every rune of str as a number.
func (s *Synthesizer) EncodeString(start deadfish.Value, str string) ([]deadfish.Inst, error) {
	values, err := StringValues(str)
	if err != nil {
		return nil, err
	}
	return s.EncodeNumbers(start, values)
}
