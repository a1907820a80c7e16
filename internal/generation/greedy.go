// Package generation materialises target token sequences by greedy
// decoding. Target providers must be deterministic per input for the row
// cache to be sound, so sampling stays out of this package on purpose.
package generation

import (
	"context"
	"fmt"
	"slices"

	"github.com/samcharles93/logodds/internal/model"
)

// Config bounds a generation run.
type Config struct {
	// MaxTokens caps the number of generated tokens. Zero or negative
	// falls back to DefaultMaxTokens.
	MaxTokens int
	// StopTokens terminate generation when produced. The stop token
	// itself is not part of the result.
	StopTokens []int
}

const DefaultMaxTokens = 64

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

// GreedyCausal prefills prompt into m and extends it by argmax decoding.
// The returned ids are the generated continuation only.
func GreedyCausal(ctx context.Context, m model.Causal, prompt []int, cfg Config) ([]int, error) {
	if len(prompt) == 0 {
		return nil, fmt.Errorf("empty prompt for causal generation")
	}
	m.Reset()

	var logits []float32
	var err error
	for i, id := range prompt {
		logits, err = m.ForwardToken(id)
		if err != nil {
			return nil, fmt.Errorf("prefill at position %d: %w", i, err)
		}
	}

	out := make([]int, 0, cfg.maxTokens())
	for len(out) < cfg.maxTokens() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := argmax(logits)
		if slices.Contains(cfg.StopTokens, next) {
			break
		}
		out = append(out, next)
		logits, err = m.ForwardToken(next)
		if err != nil {
			return nil, fmt.Errorf("generation step %d: %w", len(out)-1, err)
		}
	}
	return out, nil
}

// GreedySeq2Seq decodes from an encoder-decoder model by repeatedly
// running the full decoder prefix and extending it with the argmax of the
// final position. The returned ids exclude the start token.
func GreedySeq2Seq(ctx context.Context, m model.Seq2Seq, source []int, startID int, cfg Config) ([]int, error) {
	dec := []int{startID}
	for len(dec)-1 < cfg.maxTokens() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := m.Forward(source, dec)
		if err != nil {
			return nil, fmt.Errorf("decode step %d: %w", len(dec)-1, err)
		}
		if len(rows) != len(dec) {
			return nil, fmt.Errorf("decode step %d: got %d logit rows for %d decoder positions", len(dec)-1, len(rows), len(dec))
		}
		next := argmax(rows[len(rows)-1])
		if slices.Contains(cfg.StopTokens, next) {
			break
		}
		dec = append(dec, next)
	}
	return dec[1:], nil
}

// argmax returns the index of the maximum value in the slice. If the
// slice is empty it panics.
func argmax(x []float32) int {
	if len(x) == 0 {
		panic("argmax: empty slice")
	}
	bestI := 0
	bestV := x[0]
	for i := 1; i < len(x); i++ {
		if x[i] > bestV {
			bestV = x[i]
			bestI = i
		}
	}
	return bestI
}
