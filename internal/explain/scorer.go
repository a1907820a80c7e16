// Package explain computes log-odds explanation signals for sequence
// generation models by teacher forcing: it scores how strongly a masked
// variant of an input still supports generating the target sequence the
// original input produced.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samcharles93/logodds/internal/logger"
	"github.com/samcharles93/logodds/internal/model"
	"github.com/samcharles93/logodds/internal/tokenizer"
)

// ErrNoGenerationRoute is returned at construction when no way to
// materialise target sequences exists: no custom target provider was
// supplied and the similarity model does not implement a generative
// forward contract.
var ErrNoGenerationRoute = errors.New("no generation route for target sequences")

// Scorer is the teacher-forcing scoring capability. One scorer owns the
// state of one explanation session (one original row and its masked
// variants at a time) and must not be shared across concurrent sessions.
type Scorer interface {
	// Score pairs masked and original inputs element-wise and returns
	// one log-odds vector per pair, in input order.
	Score(ctx context.Context, masked, original []Input) ([][]float64, error)
	// OutputNames returns the decoded target tokens of the current row,
	// usable as column labels for the produced vectors. Empty until the
	// first row has been scored.
	OutputNames() []string
}

// ExplainedFunc is an opaque model under explanation: input text in,
// generated text out. Supplying one selects the model-agnostic variant.
type ExplainedFunc func(ctx context.Context, in Input) (string, error)

// Options configure a Scorer.
type Options struct {
	// Similarity is the model whose forward passes produce the scored
	// logits. In direct mode it is also the model under explanation.
	Similarity model.Model
	// Tokenizer is the similarity model's tokenizer. Source and target
	// sequences are always produced with it, never mixed across models.
	Tokenizer tokenizer.Tokenizer

	// Explained, when set, is the opaque model under explanation and
	// switches the scorer to the model-agnostic variant: masked inputs
	// are run through it and its output text is tokenized as the source
	// sequence.
	Explained ExplainedFunc

	// Targets overrides the default greedy target provider.
	Targets TargetProvider

	// MaxTargetTokens bounds default greedy target generation.
	MaxTargetTokens int

	// Invalidation selects the row-cache policy for array inputs.
	Invalidation InvalidationPolicy

	Logger logger.Logger
}

// New builds a Scorer. The variant (direct or model-agnostic) is fixed
// for the scorer's lifetime, and all architecture configuration is
// resolved and validated here; scoring itself raises no configuration
// errors beyond the empty-context case.
func New(opts Options) (Scorer, error) {
	if opts.Similarity == nil {
		return nil, fmt.Errorf("similarity model is required")
	}
	if opts.Tokenizer == nil {
		return nil, fmt.Errorf("similarity tokenizer is required")
	}

	eng, err := newEngine(opts.Similarity)
	if err != nil {
		return nil, err
	}

	provider := opts.Targets
	if provider == nil {
		p, err := newGreedyProvider(eng.cfg, opts.Similarity, opts.Tokenizer, opts.MaxTargetTokens)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoGenerationRoute, err)
		}
		provider = p
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	b := base{
		engine:   eng,
		tok:      opts.Tokenizer,
		provider: provider,
		cache:    rowCache{policy: opts.Invalidation},
		log:      log.With("arch", eng.cfg.Architecture.String()),
	}
	if opts.Explained != nil {
		return &agnosticScorer{base: b, explained: opts.Explained}, nil
	}
	return &directScorer{base: b}, nil
}

// base carries the per-session state shared by both scorer variants.
type base struct {
	engine   *engine
	tok      tokenizer.Tokenizer
	provider TargetProvider
	cache    rowCache
	log      logger.Logger
}

// updateCache regenerates the target sequence and output names when the
// incoming original row differs from the cached one.
func (b *base) updateCache(ctx context.Context, row Input) error {
	if !b.cache.stale(row) {
		return nil
	}
	ids, err := b.provider.Targets(ctx, row)
	if err != nil {
		return fmt.Errorf("generate target sequence: %w", err)
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		s, err := b.tok.Decode([]int{id})
		if err != nil {
			return fmt.Errorf("decode target token %d: %w", id, err)
		}
		names = append(names, strings.TrimSpace(s))
	}
	b.cache.put(row, ids, names)
	b.log.Debug("row cache updated", "target_len", len(ids))
	return nil
}

// scoreOne runs the engine and converter for one masked input whose
// source ids are already derived.
func (b *base) scoreOne(source []int) ([]float64, error) {
	logits, err := b.engine.forced(source, b.cache.targetIDs)
	if err != nil {
		return nil, err
	}
	return logOdds(logits, b.cache.targetIDs)
}

func (b *base) OutputNames() []string {
	return append([]string(nil), b.cache.outputNames...)
}

func checkBatch(masked, original []Input) error {
	if len(masked) != len(original) {
		return fmt.Errorf("masked and original batches differ in length: %d vs %d", len(masked), len(original))
	}
	return nil
}

// directScorer scores a recognized generation model against itself: the
// masked input is tokenized directly as the source sequence.
type directScorer struct {
	base
}

func (s *directScorer) Score(ctx context.Context, masked, original []Input) ([][]float64, error) {
	if err := checkBatch(masked, original); err != nil {
		return nil, err
	}
	out := make([][]float64, 0, len(masked))
	for i := range masked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.updateCache(ctx, original[i]); err != nil {
			return nil, err
		}
		source, err := encodeInput(s.tok, masked[i])
		if err != nil {
			return nil, fmt.Errorf("encode masked input %d: %w", i, err)
		}
		scores, err := s.scoreOne(source)
		if err != nil {
			return nil, fmt.Errorf("score masked input %d: %w", i, err)
		}
		out = append(out, scores)
	}
	return out, nil
}

// agnosticScorer scores an opaque function through a surrogate: the
// masked input is first run through the explained function, and that
// output text becomes the source sequence for the similarity model.
type agnosticScorer struct {
	base
	explained ExplainedFunc
}

func (s *agnosticScorer) Score(ctx context.Context, masked, original []Input) ([][]float64, error) {
	if err := checkBatch(masked, original); err != nil {
		return nil, err
	}
	out := make([][]float64, 0, len(masked))
	for i := range masked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.updateCache(ctx, original[i]); err != nil {
			return nil, err
		}
		text, err := s.explained(ctx, masked[i])
		if err != nil {
			return nil, fmt.Errorf("explained model on masked input %d: %w", i, err)
		}
		source, err := s.tok.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("encode explained output %d: %w", i, err)
		}
		scores, err := s.scoreOne(source)
		if err != nil {
			return nil, fmt.Errorf("score masked input %d: %w", i, err)
		}
		out = append(out, scores)
	}
	return out, nil
}
