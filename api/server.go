package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/mmlu-eval/internal/config"
	"github.com/stellarlinkco/mmlu-eval/internal/history"
)

// Server exposes stored run history and result artifacts over HTTP.
type Server struct {
	router     *gin.Engine
	store      *history.Store
	resultsDir string
	config     *config.Config
}

func NewServer(cfg *config.Config, st *history.Store) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("api: nil config")
	}
	if st == nil {
		return nil, errors.New("api: nil history store")
	}

	r := gin.New()
	s := &Server{
		router:     r,
		store:      st,
		resultsDir: strings.TrimSpace(cfg.Evaluation.OutputDir),
		config:     cfg,
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
