package explain

import (
	"fmt"
	"math"

	"github.com/samcharles93/logodds/internal/tensor"
)

// logOdds converts per-position next-token logits into one scalar per
// realized target token. For each position i up to the second-to-last
// row, the vocabulary scores are softmax-normalized and the probability
// of target[i] is reported as a one-vs-all log-odds, ln(p/(1-p)). The
// final row predicts a token past the known target and is skipped.
//
// The softmax subtracts the row maximum so the exponentials cannot
// overflow for large logit magnitudes. A probability that rounds to
// exactly 0 or 1 maps to -Inf or +Inf, matching the unbounded codomain
// of the logit transform.
func logOdds(logits tensor.Mat, target []int) ([]float64, error) {
	if logits.R == 0 {
		return []float64{}, nil
	}
	scored := logits.R - 1
	if scored > len(target) {
		return nil, fmt.Errorf("%d scored positions but only %d target ids", scored, len(target))
	}

	out := make([]float64, 0, scored)
	for i := 0; i < scored; i++ {
		row := logits.Row(i)
		id := target[i]
		if id < 0 || id >= len(row) {
			return nil, fmt.Errorf("target id %d out of vocabulary range [0,%d) at position %d", id, len(row), i)
		}

		maxv := row[0]
		for _, v := range row[1:] {
			if v > maxv {
				maxv = v
			}
		}
		var sum float64
		for _, v := range row {
			sum += math.Exp(v - maxv)
		}
		p := math.Exp(row[id]-maxv) / sum
		out = append(out, math.Log(p)-math.Log1p(-p))
	}
	return out, nil
}
