package fishsynth

import (
	"bytes"
	"fmt"
	"time"

	cp "github.com/jinzhu/copier"
	log "github.com/sirupsen/logrus"

	"nickandperla.net/fishsynth/deadfish"
)

// Encoding is a synthesized program that prints To from an accumulator
// holding From. Encodings are keyed by the search that produced them, since
// a bounded search may settle for a longer program.
type Encoding struct {
	ID        uint
	From      uint32   `gorm:"column:from_value;uniqueIndex:idx_encoding_key"`
	To        uint32   `gorm:"column:to_value;uniqueIndex:idx_encoding_key"`
	Strategy  Strategy `gorm:"size:16;uniqueIndex:idx_encoding_key"`
	Bound     uint     `gorm:"uniqueIndex:idx_encoding_key"`
	Length    uint
	Optimal   bool
	Program   []byte
	CreatedAt time.Time
}

func NewEncoding(from, to deadfish.Value, strategy Strategy, bound uint, insts []deadfish.Inst, optimal bool) *Encoding {
	return &Encoding{
		From:     from.Uint32(),
		To:       to.Uint32(),
		Strategy: strategy,
		Bound:    bound,
		Length:   uint(len(insts)),
		Optimal:  optimal,
		Program:  PackInsts(insts),
	}
}

func (e *Encoding) FromValue() deadfish.Value {
	return deadfish.Value(e.From)
}

func (e *Encoding) ToValue() deadfish.Value {
	return deadfish.Value(e.To)
}

// Insts unpacks the stored program.
func (e *Encoding) Insts() ([]deadfish.Inst, error) {
	insts, err := UnpackInsts(e.Program)
	if err != nil {
		return nil, err
	}
	if uint(len(insts)) != e.Length {
		return nil, fmt.Errorf("Encoding %v -> %v holds [%d] instructions, expected [%d]",
			e.FromValue(), e.ToValue(), len(insts), e.Length)
	}
	return insts, nil
}

// Text is the program in deadfish source form.
func (e *Encoding) Text() string {
	insts, err := e.Insts()
	if err != nil {
		return ""
	}
	return deadfish.Format(insts)
}

// Clone returns a copy sharing no memory with e. Cloning nil gives nil.
func (e *Encoding) Clone() *Encoding {
	clone := &Encoding{}
	if err := copyEncoding(clone, e); err != nil {
		log.WithError(err).Debug("Failed to clone encoding")
		return nil
	}
	return clone
}

func copyEncoding(dst, src *Encoding) error {
	if err := cp.Copy(dst, src); err != nil {
		return fmt.Errorf("Failed to copy encoding: %w", err)
	}
	dst.Program = bytes.Clone(src.Program)
	return nil
}

func (e *Encoding) String() string {
	return fmt.Sprintf("%v -> %v [%s] (%d, optimal=%v)", e.FromValue(), e.ToValue(), e.Text(), e.Length, e.Optimal)
}
