package fishsynth

import (
	"errors"
	mop "reflect"
	test "testing"

	cp "github.com/jinzhu/copier"

	"nickandperla.net/fishsynth/deadfish"
)

func TestPackRoundTrip(t *test.T) {
	for _, program := range []string{
		"",
		"o",
		"iisiiiso",
		"iisiiisio",
		"issssiiisiisddddddddddo",
		"iisiiiisiiiiiiiio_iiio__dddddddddddddddddddddddddddddddddddddo",
	} {
		insts, _ := deadfish.Parse(program)
		packed := PackInsts(insts)
		if len(packed) != (len(insts)+7)/8*4 {
			t.Errorf("Packed [%s] into [%d] bytes, expected [%d]", program, len(packed), (len(insts)+7)/8*4)
		}

		unpacked, err := UnpackInsts(packed)
		if err != nil {
			t.Fatalf("Unexpected failure from UnpackInsts(). %v", err)
		}
		if got := deadfish.Format(unpacked); got != program {
			t.Errorf("Unpacked program [%s] is not expected value [%s]", got, program)
		}
	}
}

func TestPackLayout(t *test.T) {
	insts, _ := deadfish.Parse("idso_")
	packed := PackInsts(insts)
	expected := []byte{0x12, 0x34, 0x50, 0x00}
	if !mop.DeepEqual(packed, expected) {
		t.Errorf("Packed bytes %x are not expected value %x", packed, expected)
	}
}

func TestUnpackErrors(t *test.T) {
	if _, err := UnpackInsts([]byte{0x11, 0x11, 0x11}); err == nil {
		t.Errorf("UnpackInsts accepted a truncated word")
	}
	if _, err := UnpackInsts([]byte{0x17, 0x00, 0x00, 0x00}); err == nil {
		t.Errorf("UnpackInsts accepted an unknown symbol")
	}
}

func TestEncodingClone(t *test.T) {
	insts, _ := deadfish.Parse("iiisddo")
	enc := NewEncoding(0, 7, StrategyBFS, 16, insts, true)

	clone := enc.Clone()
	if !mop.DeepEqual(enc, clone) {
		t.Errorf("Cloned Encoding [%v] differs from original [%v]", clone, enc)
	}

	clone.Program[0] = 0
	if enc.Text() != "iiisddo" {
		t.Errorf("Mutating the clone changed the original program to [%s]", enc.Text())
	}
}

func TestEncodingCloneNil(t *test.T) {
	var enc *Encoding
	if clone := enc.Clone(); clone != nil {
		t.Errorf("Cloning a nil Encoding returned [%v]", clone)
	}

	err := copyEncoding(&Encoding{}, nil)
	if !errors.Is(err, cp.ErrInvalidCopyFrom) {
		t.Errorf("copyEncoding from nil error [%v] is not ErrInvalidCopyFrom", err)
	}
}

func TestEncodingInsts(t *test.T) {
	insts, _ := deadfish.Parse("iiisddo")
	enc := NewEncoding(0, 7, StrategyHeuristic, 0, insts, false)
	if enc.Length != 7 {
		t.Errorf("Length [%d] is not expected value [7]", enc.Length)
	}
	if enc.FromValue() != 0 || enc.ToValue() != 7 {
		t.Errorf("Encoding endpoints [%v -> %v] are not [0 -> 7]", enc.FromValue(), enc.ToValue())
	}

	enc.Length = 6
	if _, err := enc.Insts(); err == nil {
		t.Errorf("Insts() accepted a program that disagrees with its length")
	}
}
