package fishsynth

import (
	"errors"
	test "testing"

	"nickandperla.net/fishsynth/deadfish"
)

var builderEdgeValues = []deadfish.Value{
	0, 1, 2, 15, 16, 17, 200, 254, 255, 257, 258, 300, 511, 65535, 65537,
	0x7FFFFFFF, 0x80000000, 0xFFFFFF00, 0xFFFFFFFD, 0xFFFFFFFE,
}

func TestBuilderRunsMatchReplay(t *test.T) {
	for _, v := range builderEdgeValues {
		for _, k := range []uint32{0, 1, 2, 3, 55, 256, 257, 600} {
			b := NewBuilder(v)
			b.Add(k)
			if err := b.Check(); err != nil {
				t.Errorf("Add(%d) from [%v]: %v", k, v, err)
			}
			b.Sub(k)
			if err := b.Check(); err != nil {
				t.Errorf("Sub(%d) after Add from [%v]: %v", k, v, err)
			}
			if b.Len() != int(2*k) {
				t.Errorf("Builder length [%d] is not expected value [%d]", b.Len(), 2*k)
			}
		}
		for n := uint32(0); n < 8; n++ {
			b := NewBuilder(v)
			b.Square(n)
			if err := b.Check(); err != nil {
				t.Errorf("Square(%d) from [%v]: %v", n, v, err)
			}
		}
	}
}

func TestBuilderOffset(t *test.T) {
	b := NewBuilder(10)
	if acc := b.Offset(-4); acc != 6 {
		t.Errorf("Offset(-4) from 10 [%v] is not expected value [6]", acc)
	}
	if acc := b.Offset(5); acc != 11 {
		t.Errorf("Offset(+5) from 6 [%v] is not expected value [11]", acc)
	}
	if got := deadfish.Format(b.Insts()); got != "dddd"+"iiiii" {
		t.Errorf("Offset program [%s] is not expected value [ddddiiiii]", got)
	}
}

func TestBuilderCheckDetectsDrift(t *test.T) {
	b := NewBuilder(3)
	b.Add(2)
	b.acc = 7
	if err := b.Check(); err == nil {
		t.Errorf("Check() accepted an accumulator that does not match the program")
	}
}

func TestBuilderPushNumber(t *test.T) {
	b := NewBuilder(0)
	b.PushNumbers(72, 101, 108, 108, 111)
	if err := b.Check(); err != nil {
		t.Fatalf("Unexpected failure from Check(). %v", err)
	}

	ir, acc := deadfish.EvalIr(b.Insts(), 0)
	if acc != 111 {
		t.Errorf("Accumulator [%v] is not expected value [111]", acc)
	}

	var printed []deadfish.Value
	for _, entry := range ir {
		if entry.Kind == deadfish.IrNumber {
			printed = append(printed, entry.Value())
		}
	}
	expected := []deadfish.Value{72, 101, 108, 108, 111}
	if len(printed) != len(expected) {
		t.Fatalf("Printed %v is not expected value %v", printed, expected)
	}
	for i := range expected {
		if printed[i] != expected[i] {
			t.Errorf("Printed %v is not expected value %v", printed, expected)
		}
	}
}

func TestBuilderPushString(t *test.T) {
	b := NewBuilder(0)
	if err := b.PushString("Hi!"); err != nil {
		t.Fatalf("Unexpected failure from PushString(). %v", err)
	}
	if b.Acc() != '!' {
		t.Errorf("Accumulator [%v] is not expected value [%d]", b.Acc(), '!')
	}

	before := b.Len()
	err := b.PushString("aĀb")
	if !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("PushString error [%v] does not wrap ErrUnrepresentable", err)
	}
	if b.Len() != before {
		t.Errorf("PushString emitted [%d] instructions before failing", b.Len()-before)
	}
}

func TestBuilderAppendIr(t *test.T) {
	program, _ := deadfish.Parse("iisiiiisiiiiiiiio_iiio__")
	ir, _ := deadfish.EvalIr(program, 0)

	b := NewBuilder(0)
	b.AppendIr(ir)
	got, _ := deadfish.EvalIr(b.Insts(), 0)

	var want, have []deadfish.Ir
	for _, entry := range ir {
		if entry.Kind != deadfish.IrPrompts {
			want = append(want, entry)
		}
	}
	for _, entry := range got {
		if entry.Kind != deadfish.IrPrompts {
			have = append(have, entry)
		}
	}
	if len(want) != len(have) {
		t.Fatalf("AppendIr output %v is not expected value %v", have, want)
	}
	for i := range want {
		if want[i] != have[i] {
			t.Errorf("AppendIr output %v is not expected value %v", have, want)
		}
	}
}

func TestBuilderIntoInstsAndReset(t *test.T) {
	b := NewBuilder(5)
	b.Add(3)
	insts := b.IntoInsts()
	if len(insts) != 3 {
		t.Errorf("IntoInsts returned [%d] instructions, expected [3]", len(insts))
	}
	if b.Len() != 0 || b.Acc() != 8 || b.Start() != 8 {
		t.Errorf("Builder after IntoInsts has len [%d] acc [%v] start [%v]", b.Len(), b.Acc(), b.Start())
	}
	b.Push(deadfish.Square)
	if err := b.Check(); err != nil {
		t.Errorf("Builder is inconsistent after IntoInsts. %v", err)
	}

	b.Reset(9)
	if b.Len() != 0 || b.Acc() != 9 || b.Start() != 9 {
		t.Errorf("Builder after Reset has len [%d] acc [%v] start [%v]", b.Len(), b.Acc(), b.Start())
	}
}
