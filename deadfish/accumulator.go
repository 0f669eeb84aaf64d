package deadfish

// Accumulator is the single register of the machine. It keeps count of how
// often the reset rule fired, which is handy when debugging synthesized
// programs that lean on overflow.
type Accumulator struct {
	Start  Value
	Value  Value
	Resets uint
}

func NewAccumulator(start Value) *Accumulator {
	return &Accumulator{
		Start: start,
		Value: start,
	}
}

func (a *Accumulator) Reset() {
	a.Value = a.Start
	a.Resets = 0
}

// Execute applies inst and reports whether the reset rule fired.
func (a *Accumulator) Execute(inst Inst) bool {
	if !inst.Mutates() {
		return false
	}
	raw := a.Value.applyRaw(inst)
	a.Value = a.Value.Apply(inst)
	if raw == Boundary || raw == MaxRaw {
		a.Resets = a.Resets + 1
		return true
	}
	return false
}
