package deadfish

import (
	"fmt"
)

// Ir is a compressed view of what running a program prints. Runs of
// prompts and runs of blank lines collapse into one entry each.
type Ir struct {
	Kind IrKind
	N    uint32
}

type IrKind byte

const (
	IrPrompts IrKind = iota
	IrNumber
	IrBlanks
)

func Prompts(n uint32) Ir {
	return Ir{Kind: IrPrompts, N: n}
}

func Number(v Value) Ir {
	return Ir{Kind: IrNumber, N: uint32(v)}
}

func Blanks(n uint32) Ir {
	return Ir{Kind: IrBlanks, N: n}
}

// Value is only meaningful for IrNumber entries.
func (ir Ir) Value() Value {
	return Value(ir.N)
}

func (ir Ir) String() string {
	switch ir.Kind {
	case IrPrompts:
		return fmt.Sprintf("Prompts(%d)", ir.N)
	case IrNumber:
		return fmt.Sprintf("Number(%v)", ir.Value())
	default:
		return fmt.Sprintf("Blanks(%d)", ir.N)
	}
}

// EvalIr runs insts from acc and returns the compressed output together
// with the final accumulator.
func EvalIr(insts []Inst, acc Value) ([]Ir, Value) {
	ir := make([]Ir, 0, 8)
	for _, inst := range insts {
		if inst == Blank {
			ir = pushRun(ir, IrBlanks)
			continue
		}
		ir = pushRun(ir, IrPrompts)
		acc = acc.Apply(inst)
		if inst == Output {
			ir = append(ir, Number(acc))
		}
	}
	return ir, acc
}

func pushRun(ir []Ir, kind IrKind) []Ir {
	if n := len(ir); n > 0 && ir[n-1].Kind == kind {
		ir[n-1].N++
		return ir
	}
	return append(ir, Ir{Kind: kind, N: 1})
}
