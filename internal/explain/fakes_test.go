package explain

import (
	"github.com/samcharles93/logodds/internal/modelcfg"
)

// fakeCausal is a scriptable decoder-only model. Logits favor the token
// (last consumed id + 1) mod vocab unless a script overrides them.
type fakeCausal struct {
	cfg      modelcfg.Config
	vocab    int
	forwards int
	resets   int
	consumed []int

	// script, when set, maps the consumed context to the next logits row.
	script func(consumed []int) []float32
}

func newFakeCausal(vocab int, cfg modelcfg.Config) *fakeCausal {
	return &fakeCausal{cfg: cfg, vocab: vocab}
}

func (m *fakeCausal) Config() modelcfg.Config { return m.cfg }

func (m *fakeCausal) ForwardToken(id int) ([]float32, error) {
	m.forwards++
	m.consumed = append(m.consumed, id)
	if m.script != nil {
		return m.script(m.consumed), nil
	}
	row := make([]float32, m.vocab)
	row[(id+1)%m.vocab] = 5
	return row, nil
}

func (m *fakeCausal) Reset() {
	m.resets++
	m.consumed = nil
}

// fakeSeq2Seq records the ids of its last forward pass and returns one
// logits row per decoder position, favoring (decoder id + 1) mod vocab.
type fakeSeq2Seq struct {
	cfg      modelcfg.Config
	vocab    int
	forwards int

	lastEncoder []int
	lastDecoder []int

	script func(encoderIDs, decoderIDs []int) [][]float32
}

func newFakeSeq2Seq(vocab int, cfg modelcfg.Config) *fakeSeq2Seq {
	return &fakeSeq2Seq{cfg: cfg, vocab: vocab}
}

func (m *fakeSeq2Seq) Config() modelcfg.Config { return m.cfg }

func (m *fakeSeq2Seq) Forward(encoderIDs, decoderIDs []int) ([][]float32, error) {
	m.forwards++
	m.lastEncoder = append([]int(nil), encoderIDs...)
	m.lastDecoder = append([]int(nil), decoderIDs...)
	if m.script != nil {
		return m.script(encoderIDs, decoderIDs), nil
	}
	rows := make([][]float32, len(decoderIDs))
	for i, id := range decoderIDs {
		row := make([]float32, m.vocab)
		row[(id+1)%m.vocab] = 5
		rows[i] = row
	}
	return rows, nil
}

// configOnlyModel declares a configuration but no forward contract.
type configOnlyModel struct {
	cfg modelcfg.Config
}

func (m configOnlyModel) Config() modelcfg.Config { return m.cfg }
