package generation

import (
	"context"
	"reflect"
	"testing"

	"github.com/samcharles93/logodds/internal/modelcfg"
)

// chainModel is a decoder-only fake whose next-token logits always favor
// (last token + 1) mod vocab.
type chainModel struct {
	vocab int
	last  int
}

func (m *chainModel) Config() modelcfg.Config {
	return modelcfg.Config{IsDecoder: true}
}

func (m *chainModel) ForwardToken(id int) ([]float32, error) {
	m.last = id
	logits := make([]float32, m.vocab)
	logits[(id+1)%m.vocab] = 5
	return logits, nil
}

func (m *chainModel) Reset() { m.last = -1 }

// chainSeq2Seq favors (last decoder token + 1) mod vocab at the final
// decoder position, independent of the encoder input.
type chainSeq2Seq struct {
	vocab    int
	forwards int
}

func (m *chainSeq2Seq) Config() modelcfg.Config {
	return modelcfg.Config{IsEncoderDecoder: true, DecoderStartTokenID: modelcfg.IntPtr(0)}
}

func (m *chainSeq2Seq) Forward(encoderIDs, decoderIDs []int) ([][]float32, error) {
	m.forwards++
	rows := make([][]float32, len(decoderIDs))
	for i, id := range decoderIDs {
		row := make([]float32, m.vocab)
		row[(id+1)%m.vocab] = 5
		rows[i] = row
	}
	return rows, nil
}

func TestGreedyCausalFollowsArgmaxChain(t *testing.T) {
	m := &chainModel{vocab: 10}
	out, err := GreedyCausal(context.Background(), m, []int{3}, Config{MaxTokens: 4})
	if err != nil {
		t.Fatalf("GreedyCausal: %v", err)
	}
	if !reflect.DeepEqual(out, []int{4, 5, 6, 7}) {
		t.Fatalf("unexpected continuation %v", out)
	}
}

func TestGreedyCausalStopsOnStopToken(t *testing.T) {
	m := &chainModel{vocab: 10}
	out, err := GreedyCausal(context.Background(), m, []int{3}, Config{MaxTokens: 8, StopTokens: []int{6}})
	if err != nil {
		t.Fatalf("GreedyCausal: %v", err)
	}
	if !reflect.DeepEqual(out, []int{4, 5}) {
		t.Fatalf("expected stop before token 6, got %v", out)
	}
}

func TestGreedyCausalRejectsEmptyPrompt(t *testing.T) {
	m := &chainModel{vocab: 10}
	if _, err := GreedyCausal(context.Background(), m, nil, Config{}); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}

func TestGreedyCausalDeterministic(t *testing.T) {
	a, err := GreedyCausal(context.Background(), &chainModel{vocab: 7}, []int{2, 3}, Config{MaxTokens: 5})
	if err != nil {
		t.Fatalf("GreedyCausal: %v", err)
	}
	b, err := GreedyCausal(context.Background(), &chainModel{vocab: 7}, []int{2, 3}, Config{MaxTokens: 5})
	if err != nil {
		t.Fatalf("GreedyCausal: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("greedy generation not deterministic: %v vs %v", a, b)
	}
}

func TestGreedySeq2SeqExcludesStartToken(t *testing.T) {
	m := &chainSeq2Seq{vocab: 10}
	out, err := GreedySeq2Seq(context.Background(), m, []int{8, 9}, 0, Config{MaxTokens: 3})
	if err != nil {
		t.Fatalf("GreedySeq2Seq: %v", err)
	}
	if !reflect.DeepEqual(out, []int{1, 2, 3}) {
		t.Fatalf("unexpected target %v", out)
	}
}

func TestGreedySeq2SeqStopsOnStopToken(t *testing.T) {
	m := &chainSeq2Seq{vocab: 10}
	out, err := GreedySeq2Seq(context.Background(), m, []int{8}, 0, Config{MaxTokens: 6, StopTokens: []int{3}})
	if err != nil {
		t.Fatalf("GreedySeq2Seq: %v", err)
	}
	if !reflect.DeepEqual(out, []int{1, 2}) {
		t.Fatalf("expected stop before token 3, got %v", out)
	}
}

func TestGreedyCausalHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := &chainModel{vocab: 10}
	if _, err := GreedyCausal(ctx, m, []int{1}, Config{MaxTokens: 4}); err == nil {
		t.Fatalf("expected context error")
	}
}
