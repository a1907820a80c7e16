package toy

import (
	"fmt"

	"github.com/samcharles93/logodds/internal/modelcfg"
	"github.com/samcharles93/logodds/internal/tensor"
)

// Seq2Seq is a deterministic encoder-decoder backend. The encoder input
// is pooled into a context vector; the decoder folds its own prefix into
// a decaying hidden state and projects the sum to vocabulary logits.
type Seq2Seq struct {
	vocab  int
	hidden int

	encEmb tensor.Mat // [vocab x hidden]
	decEmb tensor.Mat // [vocab x hidden]
	proj   tensor.Mat // [hidden x vocab]
}

// NewSeq2Seq builds an encoder-decoder toy model. Identical arguments
// produce identical models.
func NewSeq2Seq(vocab, hidden int, seed int64) *Seq2Seq {
	m := &Seq2Seq{
		vocab:  vocab,
		hidden: hidden,
		encEmb: tensor.NewMat(vocab, hidden),
		decEmb: tensor.NewMat(vocab, hidden),
		proj:   tensor.NewMat(hidden, vocab),
	}
	tensor.FillRand(&m.encEmb, seed+31)
	tensor.FillRand(&m.decEmb, seed+41)
	tensor.FillRand(&m.proj, seed+53)
	return m
}

func (m *Seq2Seq) Config() modelcfg.Config {
	return modelcfg.Config{
		ModelType:           "toy-seq2seq",
		IsEncoderDecoder:    true,
		DecoderStartTokenID: modelcfg.IntPtr(StartTokenID),
		BOSTokenID:          modelcfg.IntPtr(BOSTokenID),
		EOSTokenID:          modelcfg.IntPtr(EOSTokenID),
		VocabSize:           m.vocab,
	}
}

// Forward returns one logits row per decoder position.
func (m *Seq2Seq) Forward(encoderIDs, decoderIDs []int) ([][]float32, error) {
	for _, id := range encoderIDs {
		if id < 0 || id >= m.vocab {
			return nil, fmt.Errorf("encoder token id %d out of vocabulary range [0,%d)", id, m.vocab)
		}
	}
	for _, id := range decoderIDs {
		if id < 0 || id >= m.vocab {
			return nil, fmt.Errorf("decoder token id %d out of vocabulary range [0,%d)", id, m.vocab)
		}
	}

	ctxVec := make([]float64, m.hidden)
	if len(encoderIDs) > 0 {
		for _, id := range encoderIDs {
			row := m.encEmb.Row(id)
			for i := range ctxVec {
				ctxVec[i] += row[i]
			}
		}
		inv := 1.0 / float64(len(encoderIDs))
		for i := range ctxVec {
			ctxVec[i] *= inv
		}
	}

	h := make([]float64, m.hidden)
	mixed := make([]float64, m.hidden)
	rows := make([][]float32, 0, len(decoderIDs))
	for _, id := range decoderIDs {
		row := m.decEmb.Row(id)
		for i := range h {
			h[i] = h[i]*contextDecay + row[i]
			mixed[i] = h[i] + ctxVec[i]
		}
		rows = append(rows, m.project(mixed))
	}
	return rows, nil
}

func (m *Seq2Seq) project(h []float64) []float32 {
	logits := make([]float32, m.vocab)
	for j := 0; j < m.vocab; j++ {
		var sum float64
		for i := 0; i < m.hidden; i++ {
			sum += h[i] * m.proj.Row(i)[j]
		}
		logits[j] = float32(sum * 50)
	}
	return logits
}
