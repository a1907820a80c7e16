package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/logodds/internal/api"
	"github.com/samcharles93/logodds/internal/explain"
	"github.com/samcharles93/logodds/internal/logger"
	"github.com/samcharles93/logodds/internal/tokenizer"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		vocabPath   string
		readTimeout time.Duration
		logLevel    string
		logFormat   string
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the scoring REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "vocab",
				Usage:       "path to vocab JSON file used when a session supplies none",
				Destination: &vocabPath,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
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
			applyServeConfig(cmd, LoadConfig(), &addr)
			log := newLogger(logLevel, logFormat)

			factory := toyScorerFactory(vocabPath, log)
			server := api.NewServer(api.NewSessionStore(), factory, log)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

// toyScorerFactory builds one scorer per session on the toy backends.
// The vocab comes from the request when supplied, otherwise from the
// server-wide vocab file.
func toyScorerFactory(vocabPath string, log logger.Logger) api.ScorerFactory {
	return func(req api.CreateSessionRequest) (explain.Scorer, error) {
		var (
			tok *tokenizer.Vocab
			err error
		)
		switch {
		case len(req.Vocab) > 0:
			tok, err = tokenizer.NewVocab(req.Vocab, 0)
		case vocabPath != "":
			tok, err = tokenizer.LoadVocab(vocabPath)
		default:
			return nil, fmt.Errorf("no vocab: supply one in the request or start the server with --vocab")
		}
		if err != nil {
			return nil, err
		}

		policy, err := parseInvalidation(req.Invalidation)
		if err != nil {
			return nil, err
		}
		backend, err := buildToyModel(req.Model, tok.Size(), req.Seed)
		if err != nil {
			return nil, err
		}
		return explain.New(explain.Options{
			Similarity:      backend,
			Tokenizer:       tok,
			MaxTargetTokens: req.MaxTargetTokens,
			Invalidation:    policy,
			Logger:          log,
		})
	}
}
