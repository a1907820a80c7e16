// Package model defines the forward-pass contracts scoring backends must
// implement. Backends are injected; loading weights and picking hardware
// is the caller's problem.
package model

import (
	"fmt"

	"github.com/samcharles93/logodds/internal/modelcfg"
)

// Model is any scoring backend that can describe its own generation
// architecture. Concrete backends additionally implement Causal or
// Seq2Seq depending on what the config declares.
type Model interface {
	Config() modelcfg.Config
}

// Causal is the incremental forward contract for decoder-only models.
// ForwardToken consumes one token of context and returns the next-token
// logits over the vocabulary. Reset clears all accumulated context.
type Causal interface {
	Model
	ForwardToken(id int) ([]float32, error)
	Reset()
}

// Seq2Seq runs one full encoder-decoder pass. The returned slice holds
// one logits row per decoder input position: row i is the next-token
// distribution after the decoder has consumed decoderIDs[:i+1].
type Seq2Seq interface {
	Model
	Forward(encoderIDs, decoderIDs []int) ([][]float32, error)
}

// FullForward runs a causal model over ids from a clean state and
// collects one logits row per position. Row i is the prediction for the
// token following ids[i].
func FullForward(m Causal, ids []int) ([][]float32, error) {
	m.Reset()
	rows := make([][]float32, 0, len(ids))
	for i, id := range ids {
		logits, err := m.ForwardToken(id)
		if err != nil {
			return nil, fmt.Errorf("forward at position %d: %w", i, err)
		}
		rows = append(rows, append([]float32(nil), logits...))
	}
	return rows, nil
}
