package deadfish

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

var ErrMaxInstructionExecutionCountReached error = fmt.Errorf("Instruction execution count limit reached")

const Prompt = ">> "

type Machine struct {
	Tape             *Tape
	Accumulator      *Accumulator
	Config           *MachineConfig
	InstructionCount uint
}

// MaxInstructionExecutionCount of zero disables the limit.
type MachineConfig struct {
	MaxInstructionExecutionCount uint  `toml:"max_instruction_execution_count"`
	Start                        Value `toml:"start"`
}

func NewMachine(mc *MachineConfig) *Machine {
	return &Machine{
		Accumulator: NewAccumulator(mc.Start),
		Config:      mc,
	}
}

func (m *Machine) Reset() {
	if m.Tape != nil {
		m.Tape.Reset()
	}
	m.Accumulator.Reset()
	m.InstructionCount = 0
}

func (m *Machine) LoadProgram(instructions []Inst) {
	if m.Tape == nil {
		m.Tape = NewTape(instructions)
	} else {
		m.Tape.Instructions = instructions
	}
	m.Reset()
}

// Run executes the loaded program and writes what an interactive session
// would show: a prompt per command, the accumulator for o and a bare
// newline for a blank.
func (m *Machine) Run(out io.Writer) (bool, error) {
	if m.Tape == nil {
		return false, fmt.Errorf("No program loaded")
	}

	w := bufio.NewWriter(out)
	for {
		ok, inst, err := m.Tape.GetCurrentInstruction()
		if !ok {
			if err != nil {
				return false, err
			}
			break
		}

		if m.Config.MaxInstructionExecutionCount > 0 && m.InstructionCount >= m.Config.MaxInstructionExecutionCount {
			w.Flush()
			return false, ErrMaxInstructionExecutionCountReached
		}

		if err := m.step(w, inst); err != nil {
			return false, fmt.Errorf("Failed writing machine output: %w", err)
		}
		m.InstructionCount = m.InstructionCount + 1
		m.Tape.Advance()
	}

	if err := w.Flush(); err != nil {
		return false, fmt.Errorf("Failed writing machine output: %w", err)
	}
	return true, nil
}

func (m *Machine) step(w *bufio.Writer, inst Inst) error {
	if inst == Blank {
		return w.WriteByte('\n')
	}
	if _, err := w.WriteString(Prompt); err != nil {
		return err
	}
	if inst == Output {
		if _, err := w.WriteString(strconv.FormatInt(int64(m.Accumulator.Value.Int32()), 10)); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}
	m.Accumulator.Execute(inst)
	return nil
}
