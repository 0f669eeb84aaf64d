package fishsynth

import (
	"fmt"

	"nickandperla.net/fishsynth/deadfish"
)

// Builder accumulates a program while tracking the accumulator it leaves
// behind. Every mutator keeps acc equal to replaying insts from start.
type Builder struct {
	insts []deadfish.Inst
	start deadfish.Value
	acc   deadfish.Value
}

func NewBuilder(acc deadfish.Value) *Builder {
	return &Builder{
		insts: make([]deadfish.Inst, 0, 32),
		start: acc,
		acc:   acc,
	}
}

func (b *Builder) Acc() deadfish.Value {
	return b.acc
}

func (b *Builder) Start() deadfish.Value {
	return b.start
}

func (b *Builder) Len() int {
	return len(b.insts)
}

// Insts returns the program built so far. The slice is shared with the
// builder.
func (b *Builder) Insts() []deadfish.Inst {
	return b.insts
}

// IntoInsts hands the program to the caller and leaves the builder empty,
// starting from the current accumulator.
func (b *Builder) IntoInsts() []deadfish.Inst {
	insts := b.insts
	b.insts = nil
	b.start = b.acc
	return insts
}

func (b *Builder) Reset(acc deadfish.Value) {
	b.insts = b.insts[:0]
	b.start = acc
	b.acc = acc
}

func (b *Builder) Push(inst deadfish.Inst) deadfish.Value {
	b.insts = append(b.insts, inst)
	b.acc = b.acc.Apply(inst)
	b.debugCheck()
	return b.acc
}

func (b *Builder) Append(insts []deadfish.Inst) deadfish.Value {
	b.insts = append(b.insts, insts...)
	b.acc = deadfish.Eval(insts, b.acc)
	b.debugCheck()
	return b.acc
}

// Offset emits |o| increments or decrements.
func (b *Builder) Offset(o deadfish.Offset) deadfish.Value {
	if o.IsNegative() {
		return b.Sub(uint32(o.Abs()))
	}
	return b.Add(uint32(o.Abs()))
}

func (b *Builder) Add(k uint32) deadfish.Value {
	b.repeat(deadfish.Increment, k)
	b.acc = b.acc.SaturatingAdd(k)
	b.debugCheck()
	return b.acc
}

func (b *Builder) Sub(k uint32) deadfish.Value {
	b.repeat(deadfish.Decrement, k)
	b.acc = b.acc.SaturatingSub(k)
	b.debugCheck()
	return b.acc
}

func (b *Builder) Square(n uint32) deadfish.Value {
	b.repeat(deadfish.Square, n)
	b.acc = b.acc.SquareRepeat(n)
	b.debugCheck()
	return b.acc
}

// PushNumber moves the accumulator to n and prints it.
func (b *Builder) PushNumber(n deadfish.Value) {
	HeuristicEncode(b, n)
	b.Push(deadfish.Output)
}

func (b *Builder) PushNumbers(ns ...deadfish.Value) {
	for _, n := range ns {
		b.PushNumber(n)
	}
}

// PushString prints every rune of s as a number. Nothing is emitted if any
// rune is one of the two values the machine can never hold.
func (b *Builder) PushString(s string) error {
	values, err := StringValues(s)
	if err != nil {
		return err
	}
	b.PushNumbers(values...)
	return nil
}

// AppendIr emits a program printing ir. Prompt runs are implied by the
// instructions and are not reproduced.
func (b *Builder) AppendIr(ir []deadfish.Ir) {
	for _, entry := range ir {
		switch entry.Kind {
		case deadfish.IrNumber:
			b.PushNumber(entry.Value())
		case deadfish.IrBlanks:
			b.repeat(deadfish.Blank, entry.N)
		}
	}
}

// Check replays the program and compares it to the tracked accumulator.
func (b *Builder) Check() error {
	if replayed := deadfish.Eval(b.insts, b.start); replayed != b.acc {
		return fmt.Errorf("Builder accumulator [%v] does not match replayed value [%v] for program [%s]",
			b.acc, replayed, deadfish.Format(b.insts))
	}
	return nil
}

func (b *Builder) debugCheck() {
	if DEBUG {
		if err := b.Check(); err != nil {
			panic(err)
		}
	}
}

func (b *Builder) repeat(inst deadfish.Inst, n uint32) {
	for i := uint32(0); i < n; i++ {
		b.insts = append(b.insts, inst)
	}
}

// StringValues converts every rune of s to the value printing it.
func StringValues(s string) ([]deadfish.Value, error) {
	values := make([]deadfish.Value, 0, len(s))
	for pos, r := range s {
		v, ok := deadfish.FromChecked(uint32(r))
		if !ok {
			return nil, fmt.Errorf("%w: rune [%q] at offset [%d]", ErrUnrepresentable, r, pos)
		}
		values = append(values, v)
	}
	return values, nil
}
