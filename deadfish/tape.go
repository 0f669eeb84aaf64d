package deadfish

import (
	"fmt"
)

type Tape struct {
	Instructions       []Inst
	InstructionPointer int
}

func NewTape(instructions []Inst) *Tape {
	return &Tape{
		Instructions:       instructions,
		InstructionPointer: 0,
	}
}

func (t *Tape) Reset() {
	t.InstructionPointer = 0
}

func (t *Tape) Advance() bool {
	if t.InstructionPointer < len(t.Instructions) {
		t.InstructionPointer = t.InstructionPointer + 1
	}
	return t.InBounds(t.InstructionPointer)
}

// GetCurrentInstruction returns !ok with a nil error once the tape has been
// read to the end.
func (t *Tape) GetCurrentInstruction() (bool, Inst, error) {
	if !t.InBounds(t.InstructionPointer) {
		if t.InstructionPointer == len(t.Instructions) {
			return false, Blank, nil
		}
		return false, Blank, fmt.Errorf("InstructionPointer [%d] out of bounds (Instruction length: [%d])", t.InstructionPointer, len(t.Instructions))
	}
	return true, t.Instructions[t.InstructionPointer], nil
}

func (t *Tape) InBounds(index int) bool {
	return index >= 0 && index <= len(t.Instructions)-1
}

func (t *Tape) Remaining() int {
	if t.InstructionPointer >= len(t.Instructions) {
		return 0
	}
	return len(t.Instructions) - t.InstructionPointer
}
