package deadfish

import (
	"fmt"
	"strings"
	"unicode"
)

var ErrUnknownInst error = fmt.Errorf("Unknown instruction")

// Parse reads the text form of a program. Whitespace is ignored so programs
// can be wrapped across lines.
func Parse(program string) ([]Inst, error) {
	insts := make([]Inst, 0, len(program))
	for pos, r := range program {
		switch r {
		case OP_INC:
			insts = append(insts, Increment)
		case OP_DEC:
			insts = append(insts, Decrement)
		case OP_SQUARE:
			insts = append(insts, Square)
		case OP_OUTPUT:
			insts = append(insts, Output)
		case OP_BLANK:
			insts = append(insts, Blank)
		default:
			if unicode.IsSpace(r) {
				continue
			}
			return nil, fmt.Errorf("%w [%q] at offset [%d]", ErrUnknownInst, r, pos)
		}
	}
	return insts, nil
}

func Format(insts []Inst) string {
	var sb strings.Builder
	sb.Grow(len(insts))
	for _, inst := range insts {
		sb.WriteRune(inst.Rune())
	}
	return sb.String()
}
