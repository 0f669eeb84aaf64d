package fishsynth

import (
	"errors"
	"fmt"
	test "testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"nickandperla.net/fishsynth/deadfish"
)

type mapCache struct {
	encodings map[string]*Encoding
	lookups   int
	saves     int
	err       error
}

func newMapCache() *mapCache {
	return &mapCache{encodings: make(map[string]*Encoding)}
}

func cacheKey(from, to deadfish.Value, strategy Strategy, bound uint) string {
	return fmt.Sprintf("%d:%d:%s:%d", from, to, strategy, bound)
}

func (c *mapCache) Lookup(from, to deadfish.Value, strategy Strategy, bound uint) (*Encoding, error) {
	c.lookups++
	if c.err != nil {
		return nil, c.err
	}
	return c.encodings[cacheKey(from, to, strategy, bound)], nil
}

func (c *mapCache) Save(enc *Encoding) error {
	c.saves++
	c.encodings[cacheKey(enc.FromValue(), enc.ToValue(), enc.Strategy, enc.Bound)] = enc.Clone()
	return nil
}

func newTestSynthesizer(t *test.T, strategy Strategy, bound uint, opts ...Option) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizerFromConfig(&SynthConfig{Strategy: strategy, Bound: bound, MemoSize: 64}, opts...)
	if err != nil {
		t.Fatalf("Unexpected failure from NewSynthesizerFromConfig(). %v", err)
	}
	return s
}

func TestNewSynthesizerFromConfig(t *test.T) {
	if _, err := NewSynthesizerFromConfig(nil); !errors.Is(err, ErrNilConfig) {
		t.Errorf("NewSynthesizerFromConfig(nil) error [%v] is not ErrNilConfig", err)
	}
	if _, err := NewSynthesizerFromConfig(&SynthConfig{Strategy: "dfs"}); err == nil {
		t.Errorf("NewSynthesizerFromConfig accepted an unknown strategy")
	}
	s := newTestSynthesizer(t, StrategyBFS, 0)
	if s.encoder.Bound() != Unbounded {
		t.Errorf("Bound 0 produced a search bound of [%d]", s.encoder.Bound())
	}
	if s.encoder.MaxNodes() != DefaultMaxNodes {
		t.Errorf("MaxNodes 0 produced a node cap of [%d]", s.encoder.MaxNodes())
	}

	capped, err := NewSynthesizerFromConfig(&SynthConfig{Strategy: StrategyBFS, MaxNodes: 16})
	if err != nil {
		t.Fatalf("Unexpected failure from NewSynthesizerFromConfig(). %v", err)
	}
	enc, err := capped.Encode(0, 111)
	if err != nil {
		t.Fatalf("Unexpected failure from Encode(). %v", err)
	}
	if enc.Optimal || capped.encoder.Explored() > 16 {
		t.Errorf("Capped unbounded search [%s] optimal [%v] explored [%d] nodes", enc.Text(), enc.Optimal, capped.encoder.Explored())
	}
}

func TestSynthesizerStrategies(t *test.T) {
	cases := []struct {
		strategy Strategy
		bound    uint
		from, to deadfish.Value
		program  string
		optimal  bool
		result   string
	}{
		{StrategyAuto, 16, 0, 7, "iiisddo", true, ResultOptimal},
		{StrategyBFS, 16, 0, 7, "iiisddo", true, ResultOptimal},
		{StrategyHeuristic, 16, 0, 7, "iiisddo", false, ResultHeuristic},
		{StrategyAuto, 12, 87, 111, "issssiiisiisddddddddddo", false, ResultFallback},
		{StrategyBFS, 3, 128, 16, "sssiisso", false, ResultFallback},
	}
	for _, c := range cases {
		reg := prometheus.NewRegistry()
		metrics := NewSynthMetrics(reg)
		s := newTestSynthesizer(t, c.strategy, c.bound, WithMetrics(metrics))

		enc, err := s.Encode(c.from, c.to)
		if err != nil {
			t.Fatalf("Unexpected failure from Encode(). %v", err)
		}
		if enc.Text() != c.program {
			t.Errorf("%s Encode(%v, %v) [%s] is not expected value [%s]", c.strategy, c.from, c.to, enc.Text(), c.program)
		}
		if enc.Optimal != c.optimal {
			t.Errorf("%s Encode(%v, %v) optimal [%v] is not expected value [%v]", c.strategy, c.from, c.to, enc.Optimal, c.optimal)
		}
		if enc.Strategy != c.strategy || enc.Bound != c.bound {
			t.Errorf("Encoding key [%s, %d] is not expected value [%s, %d]", enc.Strategy, enc.Bound, c.strategy, c.bound)
		}
		if n := testutil.ToFloat64(metrics.EncodingsTotal.WithLabelValues(string(c.strategy), c.result)); n != 1 {
			t.Errorf("%s Encode(%v, %v) counted [%v] %s results", c.strategy, c.from, c.to, n, c.result)
		}
	}
}

func TestSynthesizerMemo(t *test.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSynthMetrics(reg)
	s := newTestSynthesizer(t, StrategyAuto, 16, WithMetrics(metrics))

	first, _ := s.Encode(0, 72)
	first.Program[0] = 0
	second, _ := s.Encode(0, 72)
	if second.Text() != "iiisdsiiiiiiiio" {
		t.Errorf("Memoized encoding [%s] was modified through a returned copy", second.Text())
	}
	if n := testutil.ToFloat64(metrics.EncodingsTotal.WithLabelValues("auto", ResultCached)); n != 1 {
		t.Errorf("Memo hits [%v] is not expected value [1]", n)
	}

	s.Config.MemoSize = 1
	s.Encode(0, 4)
	if len(s.memo) != 1 {
		t.Errorf("Memo holds [%d] encodings past its size of 1", len(s.memo))
	}
}

func TestSynthesizerCache(t *test.T) {
	cache := newMapCache()
	s := newTestSynthesizer(t, StrategyAuto, 16, WithCache(cache))
	if _, err := s.Encode(0, 7); err != nil {
		t.Fatalf("Unexpected failure from Encode(). %v", err)
	}
	if cache.lookups != 1 || cache.saves != 1 {
		t.Errorf("Cache saw [%d] lookups and [%d] saves, expected [1] [1]", cache.lookups, cache.saves)
	}

	reg := prometheus.NewRegistry()
	metrics := NewSynthMetrics(reg)
	fresh := newTestSynthesizer(t, StrategyAuto, 16, WithCache(cache), WithMetrics(metrics))
	enc, err := fresh.Encode(0, 7)
	if err != nil {
		t.Fatalf("Unexpected failure from Encode(). %v", err)
	}
	if enc.Text() != "iiisddo" || cache.saves != 1 {
		t.Errorf("Cached encoding [%s] after [%d] saves", enc.Text(), cache.saves)
	}
	if n := testutil.ToFloat64(metrics.EncodingsTotal.WithLabelValues("auto", ResultCached)); n != 1 {
		t.Errorf("Cache hits [%v] is not expected value [1]", n)
	}

	cache.err = fmt.Errorf("disk on fire")
	if _, err := fresh.Encode(1, 2); err == nil {
		t.Errorf("Encode ignored a failing cache")
	}
}

func TestSynthesizerEncodeString(t *test.T) {
	s := newTestSynthesizer(t, StrategyAuto, 12)
	program, err := s.EncodeString(0, "Hello")
	if err != nil {
		t.Fatalf("Unexpected failure from EncodeString(). %v", err)
	}

	ir, _ := deadfish.EvalIr(program, 0)
	var printed []rune
	for _, entry := range ir {
		if entry.Kind == deadfish.IrNumber {
			printed = append(printed, rune(entry.Value()))
		}
	}
	if string(printed) != "Hello" {
		t.Errorf("EncodeString printed [%s], expected [Hello]", string(printed))
	}

	if _, err := s.EncodeString(0, "Ā"); !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("EncodeString error [%v] does not wrap ErrUnrepresentable", err)
	}
}
