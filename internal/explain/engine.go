package explain

import (
	"fmt"

	"github.com/samcharles93/logodds/internal/model"
	"github.com/samcharles93/logodds/internal/modelcfg"
	"github.com/samcharles93/logodds/internal/tensor"
)

// engine runs one teacher-forced forward pass of the similarity model:
// it feeds the realized target tokens as decoder input and returns the
// per-position next-token logits aligned to them. It is stateless; all
// state lives in the frozen model parameters.
type engine struct {
	cfg     modelcfg.Resolved
	causal  model.Causal
	seq2seq model.Seq2Seq
}

// newEngine resolves the model's architecture configuration eagerly and
// checks that the model implements the matching forward contract, so
// configuration errors surface at construction rather than mid-scoring.
func newEngine(m model.Model) (*engine, error) {
	cfg, err := m.Config().Resolve()
	if err != nil {
		return nil, err
	}
	e := &engine{cfg: cfg}
	switch cfg.Architecture {
	case modelcfg.ArchEncoderDecoder:
		s2s, ok := m.(model.Seq2Seq)
		if !ok {
			return nil, fmt.Errorf("encoder-decoder model %q does not implement the seq2seq forward contract", cfg.ModelType)
		}
		e.seq2seq = s2s
	case modelcfg.ArchDecoderOnly:
		causal, ok := m.(model.Causal)
		if !ok {
			return nil, fmt.Errorf("decoder-only model %q does not implement the causal forward contract", cfg.ModelType)
		}
		e.causal = causal
	}
	return e, nil
}

// forced computes teacher-forced logits for target given source context.
//
// Encoder-decoder: the resolved start id is prepended to the target and
// the full decoder logits are returned, one row per decoder position
// (len(target)+1 rows; row i predicts target[i]).
//
// Decoder-only: source and target are concatenated and run in one pass;
// the logits are sliced from position len(source)-1 onward, so the
// position before the first target token opens the scored range
// (len(target) rows). An empty source is replaced by [bos_token_id],
// which must exist in the configuration.
//
// All logits are widened to float64 regardless of the model's native
// precision.
func (e *engine) forced(source, target []int) (tensor.Mat, error) {
	if e.seq2seq != nil {
		return e.forcedSeq2Seq(source, target)
	}
	return e.forcedCausal(source, target)
}

func (e *engine) forcedSeq2Seq(source, target []int) (tensor.Mat, error) {
	dec := make([]int, 0, len(target)+1)
	dec = append(dec, e.cfg.StartTokenID)
	dec = append(dec, target...)

	rows, err := e.seq2seq.Forward(source, dec)
	if err != nil {
		return tensor.Mat{}, fmt.Errorf("seq2seq forward: %w", err)
	}
	if len(rows) != len(dec) {
		return tensor.Mat{}, fmt.Errorf("seq2seq forward returned %d logit rows for %d decoder positions", len(rows), len(dec))
	}
	return tensor.FromRows(rows)
}

func (e *engine) forcedCausal(source, target []int) (tensor.Mat, error) {
	if len(source) == 0 {
		if e.cfg.BOSTokenID == nil {
			return tensor.Mat{}, fmt.Errorf("%w: source context is empty and config has no bos_token_id", modelcfg.ErrMissingStartToken)
		}
		source = []int{*e.cfg.BOSTokenID}
	}

	combined := make([]int, 0, len(source)+len(target))
	combined = append(combined, source...)
	combined = append(combined, target...)

	rows, err := model.FullForward(e.causal, combined)
	if err != nil {
		return tensor.Mat{}, fmt.Errorf("causal forward: %w", err)
	}
	m, err := tensor.FromRows(rows)
	if err != nil {
		return tensor.Mat{}, err
	}
	// Keep only positions predicting target content; row len(source)-1
	// is the prediction of the first target token.
	sliced := m.SliceRows(len(source) - 1)
	return sliced, nil
}
