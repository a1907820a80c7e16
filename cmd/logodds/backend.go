package main

import (
	"fmt"

	"github.com/samcharles93/logodds/internal/explain"
	"github.com/samcharles93/logodds/internal/model"
	"github.com/samcharles93/logodds/internal/toy"
)

const toyHiddenSize = 16

// buildToyModel constructs the named demo backend sized to the vocab.
func buildToyModel(name string, vocabSize int, seed int64) (model.Model, error) {
	switch name {
	case "toy-causal":
		return toy.NewCausal(vocabSize, toyHiddenSize, seed), nil
	case "toy-seq2seq":
		return toy.NewSeq2Seq(vocabSize, toyHiddenSize, seed), nil
	default:
		return nil, fmt.Errorf("unknown model %q (want toy-causal or toy-seq2seq)", name)
	}
}

func parseInvalidation(name string) (explain.InvalidationPolicy, error) {
	switch name {
	case "any", "":
		return explain.InvalidateOnAnyChange, nil
	case "full":
		return explain.InvalidateOnFullChange, nil
	default:
		return 0, fmt.Errorf("unknown invalidation policy %q (want any or full)", name)
	}
}
