package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/logodds/internal/explain"
	"github.com/samcharles93/logodds/internal/logger"
	"github.com/samcharles93/logodds/internal/tokenizer"
)

func scoreCmd() *cli.Command {
	var (
		modelName    string
		vocabPath    string
		input        string
		pair         string
		masked       []string
		seed         int64
		maxTarget    int64
		invalidation string
		logLevel     string
		logFormat    string
	)

	return &cli.Command{
		Name:  "score",
		Usage: "Score masked variants of an input against its generated target",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "model",
				Aliases:     []string{"m"},
				Usage:       "scoring backend (toy-causal, toy-seq2seq)",
				Value:       "toy-causal",
				Destination: &modelName,
			},
			&cli.StringFlag{
				Name:        "vocab",
				Usage:       "path to vocab JSON file",
				Destination: &vocabPath,
			},
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "original input text",
				Destination: &input,
			},
			&cli.StringFlag{
				Name:        "pair",
				Usage:       "optional secondary input",
				Destination: &pair,
			},
			&cli.StringSliceFlag{
				Name:        "masked",
				Usage:       "masked variant (repeatable; defaults to leave-one-out deletions)",
				Destination: &masked,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "toy backend weight seed",
				Value:       0,
				Destination: &seed,
			},
			&cli.Int64Flag{
				Name:        "max-target-tokens",
				Usage:       "cap on generated target length",
				Value:       16,
				Destination: &maxTarget,
			},
			&cli.StringFlag{
				Name:        "invalidation",
				Usage:       "row cache invalidation policy (any, full)",
				Value:       "any",
				Destination: &invalidation,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (text, json)",
				Value:       "text",
				Destination: &logFormat,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyScoreConfig(cmd, LoadConfig(), &modelName, &vocabPath, &seed, &maxTarget, &invalidation)
			log := newLogger(logLevel, logFormat)

			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("--input is required")
			}

			tok, err := loadOrDefaultVocab(vocabPath, input)
			if err != nil {
				return err
			}
			policy, err := parseInvalidation(invalidation)
			if err != nil {
				return err
			}
			backend, err := buildToyModel(modelName, tok.Size(), seed)
			if err != nil {
				return err
			}

			scorer, err := explain.New(explain.Options{
				Similarity:      backend,
				Tokenizer:       tok,
				MaxTargetTokens: int(maxTarget),
				Invalidation:    policy,
				Logger:          log,
			})
			if err != nil {
				return err
			}

			variants := masked
			if len(variants) == 0 {
				variants = leaveOneOut(input)
			}
			if len(variants) == 0 {
				return fmt.Errorf("no masked variants to score")
			}

			original := explain.TextPair(input, pair)
			maskedInputs := make([]explain.Input, 0, len(variants))
			originals := make([]explain.Input, 0, len(variants))
			for _, v := range variants {
				maskedInputs = append(maskedInputs, explain.TextPair(v, pair))
				originals = append(originals, original)
			}

			scores, err := scorer.Score(ctx, maskedInputs, originals)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"model":        modelName,
				"input":        input,
				"masked":       variants,
				"output_names": scorer.OutputNames(),
				"scores":       scores,
			})
		},
	}
}

// leaveOneOut builds one masked variant per word by deleting it.
func leaveOneOut(text string) []string {
	words := strings.Fields(text)
	if len(words) < 2 {
		return nil
	}
	variants := make([]string, 0, len(words))
	for i := range words {
		rest := make([]string, 0, len(words)-1)
		rest = append(rest, words[:i]...)
		rest = append(rest, words[i+1:]...)
		variants = append(variants, strings.Join(rest, " "))
	}
	return variants
}

// loadOrDefaultVocab loads the vocab file, or derives a throwaway vocab
// from the input words so the demo path works without one.
func loadOrDefaultVocab(path, input string) (*tokenizer.Vocab, error) {
	if path != "" {
		return tokenizer.LoadVocab(path)
	}
	tokens := []string{"<unk>", "<eos>", "<start>"}
	seen := map[string]bool{}
	for _, w := range strings.Fields(input) {
		if !seen[w] {
			seen[w] = true
			tokens = append(tokens, w)
		}
	}
	return tokenizer.NewVocab(tokens, 0)
}

func newLogger(level, format string) logger.Logger {
	if format == "json" {
		return logger.JSON(os.Stderr, logger.ParseLevel(level))
	}
	return logger.Text(os.Stderr, logger.ParseLevel(level))
}
