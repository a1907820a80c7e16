package explain

import (
	"context"
	"fmt"

	"github.com/samcharles93/logodds/internal/generation"
	"github.com/samcharles93/logodds/internal/model"
	"github.com/samcharles93/logodds/internal/modelcfg"
	"github.com/samcharles93/logodds/internal/tokenizer"
)

// TargetProvider produces the target token ids for an input row.
//
// Implementations must be deterministic per input: the row cache reuses
// the target sequence for every masked variant of a row, so a provider
// that returns different ids for the same input yields stale
// attributions.
type TargetProvider interface {
	Targets(ctx context.Context, in Input) ([]int, error)
}

// TargetFunc adapts a plain function to the TargetProvider contract.
type TargetFunc func(ctx context.Context, in Input) ([]int, error)

func (f TargetFunc) Targets(ctx context.Context, in Input) ([]int, error) {
	return f(ctx, in)
}

// greedyProvider generates targets from a generative scoring model by
// greedy decoding, bounded by maxTokens and the configured EOS token.
type greedyProvider struct {
	cfg       modelcfg.Resolved
	causal    model.Causal
	seq2seq   model.Seq2Seq
	tok       tokenizer.Tokenizer
	maxTokens int
}

// newGreedyProvider wires the default direct-mode provider. The model
// must implement the forward contract its configuration declares.
func newGreedyProvider(cfg modelcfg.Resolved, m model.Model, tok tokenizer.Tokenizer, maxTokens int) (*greedyProvider, error) {
	p := &greedyProvider{cfg: cfg, tok: tok, maxTokens: maxTokens}
	switch cfg.Architecture {
	case modelcfg.ArchEncoderDecoder:
		s2s, ok := m.(model.Seq2Seq)
		if !ok {
			return nil, fmt.Errorf("encoder-decoder model %q does not implement the seq2seq forward contract", cfg.ModelType)
		}
		p.seq2seq = s2s
	case modelcfg.ArchDecoderOnly:
		causal, ok := m.(model.Causal)
		if !ok {
			return nil, fmt.Errorf("decoder-only model %q does not implement the causal forward contract", cfg.ModelType)
		}
		p.causal = causal
	default:
		return nil, fmt.Errorf("unsupported architecture %v", cfg.Architecture)
	}
	return p, nil
}

func (p *greedyProvider) Targets(ctx context.Context, in Input) ([]int, error) {
	prompt, err := encodeInput(p.tok, in)
	if err != nil {
		return nil, fmt.Errorf("encode input row: %w", err)
	}

	gcfg := generation.Config{MaxTokens: p.maxTokens}
	if p.cfg.EOSTokenID != nil {
		gcfg.StopTokens = []int{*p.cfg.EOSTokenID}
	}

	if p.seq2seq != nil {
		return generation.GreedySeq2Seq(ctx, p.seq2seq, prompt, p.cfg.StartTokenID, gcfg)
	}

	if len(prompt) == 0 {
		if p.cfg.BOSTokenID == nil {
			return nil, fmt.Errorf("%w: empty input row and no bos_token_id to seed generation", modelcfg.ErrMissingStartToken)
		}
		prompt = []int{*p.cfg.BOSTokenID}
	}
	return generation.GreedyCausal(ctx, p.causal, prompt, gcfg)
}

// encodeInput tokenizes an input row, routing secondary inputs through
// the pair-encoding capability when the tokenizer has one.
func encodeInput(tok tokenizer.Tokenizer, in Input) ([]int, error) {
	if in.Pair != "" {
		if pe, ok := tok.(tokenizer.PairEncoder); ok {
			return pe.EncodePair(in.String(), in.Pair)
		}
		return nil, fmt.Errorf("input has a secondary pair but tokenizer does not support pair encoding")
	}
	return tok.Encode(in.String())
}
