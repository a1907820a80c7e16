package explain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/samcharles93/logodds/internal/modelcfg"
)

func TestEncoderDecoderPrependsStartToken(t *testing.T) {
	m := newFakeSeq2Seq(10, modelcfg.Config{
		IsEncoderDecoder:    true,
		DecoderStartTokenID: modelcfg.IntPtr(9),
	})
	eng, err := newEngine(m)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}

	target := []int{4, 5, 6}
	logits, err := eng.forced([]int{1, 2}, target)
	if err != nil {
		t.Fatalf("forced: %v", err)
	}

	if !reflect.DeepEqual(m.lastDecoder, []int{9, 4, 5, 6}) {
		t.Fatalf("decoder input: got %v want [9 4 5 6]", m.lastDecoder)
	}
	if !reflect.DeepEqual(m.lastEncoder, []int{1, 2}) {
		t.Fatalf("encoder input: got %v want [1 2]", m.lastEncoder)
	}
	if logits.R != len(target)+1 {
		t.Fatalf("logit positions: got %d want %d", logits.R, len(target)+1)
	}
}

func TestDecoderOnlyConcatenatesAndSlices(t *testing.T) {
	m := newFakeCausal(10, modelcfg.Config{IsDecoder: true})
	eng, err := newEngine(m)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}

	source := []int{1, 2, 3}
	target := []int{7, 8}
	logits, err := eng.forced(source, target)
	if err != nil {
		t.Fatalf("forced: %v", err)
	}

	if !reflect.DeepEqual(m.consumed, []int{1, 2, 3, 7, 8}) {
		t.Fatalf("combined sequence: got %v want [1 2 3 7 8]", m.consumed)
	}
	// Positions before len(source)-1 predict source-only content and are
	// discarded; what remains is one row per target token plus the
	// trailing row the converter skips.
	if logits.R != len(target)+1 {
		t.Fatalf("sliced positions: got %d want %d", logits.R, len(target)+1)
	}
}

func TestDecoderOnlySliceAlignment(t *testing.T) {
	m := newFakeCausal(6, modelcfg.Config{IsDecoder: true})
	// Encode the number of consumed tokens into the logits so slicing
	// can be verified by value.
	m.script = func(consumed []int) []float32 {
		row := make([]float32, 6)
		row[0] = float32(len(consumed))
		return row
	}
	eng, err := newEngine(m)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}

	logits, err := eng.forced([]int{1, 2, 3}, []int{4, 5})
	if err != nil {
		t.Fatalf("forced: %v", err)
	}
	// Combined length 5; kept rows are those after consuming 3, 4 and 5
	// tokens: the row after consuming source predicts the first target.
	want := []float64{3, 4, 5}
	for i, w := range want {
		if logits.Row(i)[0] != w {
			t.Fatalf("row %d: got %v want %v", i, logits.Row(i)[0], w)
		}
	}
}

func TestDecoderOnlyEmptySourceSubstitutesBOS(t *testing.T) {
	m := newFakeCausal(10, modelcfg.Config{
		IsDecoder:  true,
		BOSTokenID: modelcfg.IntPtr(3),
	})
	eng, err := newEngine(m)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}

	logits, err := eng.forced(nil, []int{7, 8})
	if err != nil {
		t.Fatalf("forced: %v", err)
	}
	if !reflect.DeepEqual(m.consumed, []int{3, 7, 8}) {
		t.Fatalf("expected bos-substituted sequence [3 7 8], got %v", m.consumed)
	}
	if logits.R != 3 {
		t.Fatalf("logit positions: got %d want 3", logits.R)
	}
}

func TestDecoderOnlyEmptySourceWithoutBOSFails(t *testing.T) {
	m := newFakeCausal(10, modelcfg.Config{IsDecoder: true})
	eng, err := newEngine(m)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}

	_, err = eng.forced(nil, []int{7})
	if !errors.Is(err, modelcfg.ErrMissingStartToken) {
		t.Fatalf("expected ErrMissingStartToken, got %v", err)
	}
	if m.forwards != 0 {
		t.Fatalf("expected no forward passes, got %d", m.forwards)
	}
}

func TestNewEngineRejectsUnconfiguredArchitecture(t *testing.T) {
	m := configOnlyModel{cfg: modelcfg.Config{ModelType: "blank"}}
	_, err := newEngine(m)
	if !errors.Is(err, modelcfg.ErrInvalidArchitecture) {
		t.Fatalf("expected ErrInvalidArchitecture, got %v", err)
	}
}

func TestNewEngineRejectsMissingStartToken(t *testing.T) {
	m := newFakeSeq2Seq(10, modelcfg.Config{IsEncoderDecoder: true})
	_, err := newEngine(m)
	if !errors.Is(err, modelcfg.ErrMissingStartToken) {
		t.Fatalf("expected ErrMissingStartToken, got %v", err)
	}
	if m.forwards != 0 {
		t.Fatalf("expected no forward passes, got %d", m.forwards)
	}
}

func TestNewEngineRequiresMatchingForwardContract(t *testing.T) {
	m := configOnlyModel{cfg: modelcfg.Config{IsDecoder: true}}
	if _, err := newEngine(m); err == nil {
		t.Fatalf("expected error for model without causal forward contract")
	}
}
