package deadfish

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, program string) []Inst {
	t.Helper()
	insts, err := Parse(program)
	if err != nil {
		t.Fatalf("Unexpected failure calling Parse(%q). %v", program, err)
	}
	return insts
}

func TestBasicMachine(t *testing.T) {
	m := NewMachine(&MachineConfig{})

	if m == nil {
		t.Errorf("NewMachine returned nil")
	}

	if ok, err := m.Run(&bytes.Buffer{}); ok || err == nil {
		t.Errorf("Unexpected success calling Machine.Run() without a program")
	}
}

func TestMachineRun(t *testing.T) {
	m := NewMachine(&MachineConfig{})
	m.LoadProgram(mustParse(t, "iissso"))

	var out bytes.Buffer
	if ok, err := m.Run(&out); !ok {
		t.Fatalf("Unexpected failure calling Machine.Run(). %v", err)
	}

	expected := strings.Repeat(Prompt, 6) + "0\n"
	if out.String() != expected {
		t.Errorf("Machine output [%q] is not expected value [%q]", out.String(), expected)
	}
	if m.InstructionCount != 6 {
		t.Errorf("InstructionCount [%d] is not 6", m.InstructionCount)
	}
	if m.Accumulator.Resets != 1 {
		t.Errorf("Accumulator resets [%d] is not 1", m.Accumulator.Resets)
	}
}

func TestMachineBlanksAndNegatives(t *testing.T) {
	m := NewMachine(&MachineConfig{Start: 0xFFFFFFFD})
	m.LoadProgram(mustParse(t, "o_io"))

	var out bytes.Buffer
	if ok, err := m.Run(&out); !ok {
		t.Fatalf("Unexpected failure calling Machine.Run(). %v", err)
	}

	expected := Prompt + "-3\n\n" + Prompt + Prompt + "-2\n"
	if out.String() != expected {
		t.Errorf("Machine output [%q] is not expected value [%q]", out.String(), expected)
	}
}

func TestMachineExecutionLimit(t *testing.T) {
	m := NewMachine(&MachineConfig{MaxInstructionExecutionCount: 3})
	m.LoadProgram(mustParse(t, "iiiio"))

	ok, err := m.Run(&bytes.Buffer{})
	if ok {
		t.Fatalf("Unexpected success calling Machine.Run() past the execution limit")
	}
	if !errors.Is(err, ErrMaxInstructionExecutionCountReached) {
		t.Errorf("Machine.Run() error [%v] is not ErrMaxInstructionExecutionCountReached", err)
	}

	m.LoadProgram(mustParse(t, "iio"))
	if ok, err := m.Run(&bytes.Buffer{}); !ok {
		t.Errorf("Unexpected failure running a program at the execution limit. %v", err)
	}
}

func TestMachineReset(t *testing.T) {
	m := NewMachine(&MachineConfig{Start: 5})
	m.LoadProgram(mustParse(t, "ii"))
	m.Run(&bytes.Buffer{})
	if m.Accumulator.Value != 7 {
		t.Errorf("Accumulator [%v] is not 7", m.Accumulator.Value)
	}

	m.Reset()
	if m.Accumulator.Value != 5 || m.InstructionCount != 0 || m.Tape.InstructionPointer != 0 {
		t.Errorf("Reset left state behind: acc [%v] count [%d] ip [%d]", m.Accumulator.Value, m.InstructionCount, m.Tape.InstructionPointer)
	}
}

func TestAccumulatorResets(t *testing.T) {
	a := NewAccumulator(254)
	if a.Execute(Increment) {
		t.Errorf("254 + 1 should not reset")
	}
	if !a.Execute(Increment) {
		t.Errorf("255 + 1 should reset")
	}
	if a.Value != 0 || a.Resets != 1 {
		t.Errorf("Accumulator [%v] resets [%d] is not [0] [1]", a.Value, a.Resets)
	}
	if !a.Execute(Decrement) {
		t.Errorf("0 - 1 should reset")
	}
	if a.Execute(Output) {
		t.Errorf("Output should never reset")
	}
	if a.Resets != 2 {
		t.Errorf("Resets [%d] is not 2", a.Resets)
	}
}

func TestAccumulatorMatchesApply(t *testing.T) {
	for _, v := range edgeValues {
		for _, inst := range []Inst{Increment, Decrement, Square, Output, Blank} {
			a := NewAccumulator(v)
			reset := a.Execute(inst)
			if a.Value != v.Apply(inst) {
				t.Errorf("Accumulator %v %v [%v] is not Apply [%v]", v, inst, a.Value, v.Apply(inst))
			}
			raw := v.applyRaw(inst)
			if reset != (raw == Boundary || raw == MaxRaw) {
				t.Errorf("Accumulator %v %v reported reset [%v] for raw result [%#x]", v, inst, reset, raw)
			}
			if reset && a.Value != 0 {
				t.Errorf("Accumulator %v %v reset to [%v]", v, inst, a.Value)
			}
		}
	}
}
