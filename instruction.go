package fishsynth

import (
	"bytes"
	bin "encoding/binary"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"nickandperla.net/fishsynth/deadfish"
)

// Programs are stored packed, eight instructions to a big endian uint32
// with four bits each. Symbol 0 is padding and instruction n is stored as
// n + 1.

const instsPerWord = 8

// PackInsts compresses insts for storage.
func PackInsts(insts []deadfish.Inst) []byte {
	words := (len(insts) + instsPerWord - 1) / instsPerWord
	packed := bytes.NewBuffer(make([]byte, 0, words*4))

	if DEBUG {
		log.Debugf("Packing instructions. Count: %v, Original: %v", len(insts), deadfish.Format(insts))
	}
	for start := 0; start < len(insts); start += instsPerWord {
		end := min(start+instsPerWord, len(insts))
		var word uint32
		for i, inst := range insts[start:end] {
			word |= uint32(inst+1) << (28 - 4*i)
		}
		bin.Write(packed, bin.BigEndian, word)
	}

	if DEBUG {
		log.Debugf("Packed instructions. Count: %v, Packed: %v", packed.Len(), packed.Bytes())
	}
	return packed.Bytes()
}

// UnpackInsts reverses PackInsts.
func UnpackInsts(packed []byte) ([]deadfish.Inst, error) {
	if len(packed)%4 != 0 {
		return nil, fmt.Errorf("Packed program length [%d] is not a multiple of 4", len(packed))
	}

	insts := make([]deadfish.Inst, 0, len(packed)*2)
	buffer := bytes.NewReader(packed)
	for {
		var word uint32
		err := bin.Read(buffer, bin.BigEndian, &word)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Failed to read packed word: %w", err)
		}
		for i := 0; i < instsPerWord; i++ {
			symbol := (word >> (28 - 4*i)) & 15
			switch {
			case symbol == 0:
				continue
			case symbol <= uint32(deadfish.Blank)+1:
				insts = append(insts, deadfish.Inst(symbol-1))
			default:
				return nil, fmt.Errorf("Unknown symbol [%v] encountered", symbol)
			}
		}
	}
	return insts, nil
}
