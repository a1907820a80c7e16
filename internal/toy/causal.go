// Package toy provides tiny deterministic scoring backends. They let the
// CLI and tests exercise the full teacher-forcing pipeline without real
// model weights; the math is a two-matrix projection, not a transformer.
package toy

import (
	"fmt"

	"github.com/samcharles93/logodds/internal/modelcfg"
	"github.com/samcharles93/logodds/internal/tensor"
)

const (
	// Token id conventions shared by both toy backends.
	BOSTokenID   = 0
	EOSTokenID   = 1
	StartTokenID = 2

	// contextDecay blends older context into the hidden state. Below 1
	// so earlier tokens matter less than recent ones.
	contextDecay = 0.7
)

// Causal is a deterministic decoder-only backend. Each consumed token
// folds its embedding into a decaying hidden state, which a projection
// matrix maps back to vocabulary logits.
type Causal struct {
	vocab  int
	hidden int

	emb  tensor.Mat // [vocab x hidden]
	proj tensor.Mat // [hidden x vocab]
	h    []float64
}

// NewCausal builds a causal toy model. Identical (vocab, hidden, seed)
// arguments produce identical models.
func NewCausal(vocab, hidden int, seed int64) *Causal {
	m := &Causal{
		vocab:  vocab,
		hidden: hidden,
		emb:    tensor.NewMat(vocab, hidden),
		proj:   tensor.NewMat(hidden, vocab),
		h:      make([]float64, hidden),
	}
	tensor.FillRand(&m.emb, seed+11)
	tensor.FillRand(&m.proj, seed+23)
	return m
}

func (m *Causal) Config() modelcfg.Config {
	return modelcfg.Config{
		ModelType:  "toy-causal",
		IsDecoder:  true,
		BOSTokenID: modelcfg.IntPtr(BOSTokenID),
		EOSTokenID: modelcfg.IntPtr(EOSTokenID),
		VocabSize:  m.vocab,
	}
}

func (m *Causal) ForwardToken(id int) ([]float32, error) {
	if id < 0 || id >= m.vocab {
		return nil, fmt.Errorf("token id %d out of vocabulary range [0,%d)", id, m.vocab)
	}
	row := m.emb.Row(id)
	for i := range m.h {
		m.h[i] = m.h[i]*contextDecay + row[i]
	}
	return m.project(m.h), nil
}

func (m *Causal) Reset() {
	for i := range m.h {
		m.h[i] = 0
	}
}

func (m *Causal) project(h []float64) []float32 {
	logits := make([]float32, m.vocab)
	for j := 0; j < m.vocab; j++ {
		var sum float64
		for i := 0; i < m.hidden; i++ {
			sum += h[i] * m.proj.Row(i)[j]
		}
		// Scale up so softmax distributions are not near-uniform.
		logits[j] = float32(sum * 50)
	}
	return logits
}
