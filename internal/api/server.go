// Package api exposes the scoring core over HTTP. Each session owns one
// scorer instance, so the one-session-per-scorer discipline the row
// cache requires is enforced at the API boundary.
package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/logodds/internal/explain"
	"github.com/samcharles93/logodds/internal/logger"
)

// ScorerFactory builds a scorer for a new session. Implementations pick
// the backend named by the request; unknown models are an error.
type ScorerFactory func(req CreateSessionRequest) (explain.Scorer, error)

type Server struct {
	store    *SessionStore
	factory  ScorerFactory
	validate *validator.Validate
	log      logger.Logger
	clock    func() time.Time
}

func NewServer(store *SessionStore, factory ScorerFactory, log logger.Logger) *Server {
	if store == nil {
		store = NewSessionStore()
	}
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		store:    store,
		factory:  factory,
		validate: validator.New(),
		log:      log,
		clock:    time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/sessions", s.handleCreateSession)
	e.GET("/v1/sessions/:id", s.handleGetSession)
	e.DELETE("/v1/sessions/:id", s.handleDeleteSession)
	e.POST("/v1/sessions/:id/score", s.handleScore)
}

func (s *Server) handleCreateSession(c *echo.Context) error {
	if s.factory == nil {
		return writeServerError(c, "no scorer factory configured")
	}
	req, err := decodeJSON[CreateSessionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if err := s.validate.Struct(req); err != nil {
		return writeBadRequest(c, err.Error())
	}

	scorer, err := s.factory(req)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	sess := s.store.Create(req.Model, scorer, s.clock())
	s.log.Info("session created", "id", sess.id, "model", sess.model)
	return c.JSON(201, sess.describe())
}

func (s *Server) handleGetSession(c *echo.Context) error {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "no such session")
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return c.JSON(200, sess.describe())
}

func (s *Server) handleDeleteSession(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "no such session")
	}
	s.log.Info("session deleted", "id", id)
	return c.NoContent(204)
}

func (s *Server) handleScore(c *echo.Context) error {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "no such session")
	}
	req, err := decodeJSON[ScoreRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if err := s.validate.Struct(req); err != nil {
		return writeBadRequest(c, err.Error())
	}
	if len(req.Masked) != len(req.Original) {
		return writeBadRequest(c, "masked and original must have the same length")
	}

	masked := toInputs(req.Masked)
	original := toInputs(req.Original)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	scores, err := sess.scorer.Score(c.Request().Context(), masked, original)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return c.JSON(200, ScoreResponse{
		Scores:      scores,
		OutputNames: sess.scorer.OutputNames(),
	})
}

func toInputs(dtos []InputDTO) []explain.Input {
	inputs := make([]explain.Input, 0, len(dtos))
	for _, d := range dtos {
		inputs = append(inputs, explain.Input{
			Text:     d.Text,
			Segments: d.Segments,
			Pair:     d.Pair,
		})
	}
	return inputs
}
