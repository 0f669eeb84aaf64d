package deadfish

// The instructions of deadfish. Only the first three touch the
// accumulator. Output prints it and Blank prints an empty line, which lets
// a program lay out text without disturbing the accumulator.

// i  acc + 1
// d  acc - 1
// s  acc * acc
// o  print acc
// _  print a newline

// After every mutating instruction the accumulator resets to 0 if it is
// 256 or -1.

type Inst byte

const (
	Increment Inst = iota
	Decrement
	Square
	Output
	Blank
)

const (
	OP_INC    = 'i'
	OP_DEC    = 'd'
	OP_SQUARE = 's'
	OP_OUTPUT = 'o'
	OP_BLANK  = '_'
)

// MUTATING_INSTS lists the edges of the state graph in the order a search
// expands them.
var MUTATING_INSTS [3]Inst = [...]Inst{
	Increment,
	Decrement,
	Square,
}

func (i Inst) Apply(v Value) Value {
	return v.Apply(i)
}

func (i Inst) Mutates() bool {
	return i <= Square
}

func (i Inst) Rune() rune {
	switch i {
	case Increment:
		return OP_INC
	case Decrement:
		return OP_DEC
	case Square:
		return OP_SQUARE
	case Output:
		return OP_OUTPUT
	default:
		return OP_BLANK
	}
}

func (i Inst) String() string {
	return string(i.Rune())
}

// Eval replays insts from v one step at a time.
func Eval(insts []Inst, v Value) Value {
	for _, inst := range insts {
		v = v.Apply(inst)
	}
	return v
}
