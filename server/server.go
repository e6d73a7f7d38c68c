package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/eventhub/eventhub/auth"
	"github.com/eventhub/eventhub/events"
	"github.com/eventhub/eventhub/internal/config"
	"github.com/eventhub/eventhub/token"
	"github.com/eventhub/eventhub/users"
)

// Repos holds the external stores the server depends on.
type Repos struct {
	Users  users.Repo
	Events events.Repo
}

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	log    zerolog.Logger
	codec  *token.Codec
	auth   *auth.Service
	repos  Repos
}

func New(cfg config.Config, repos Repos, codec *token.Codec, log zerolog.Logger) (*Server, error) {
	if repos.Users == nil {
		return nil, errors.New("[Server New] Users repo is required")
	}
	if repos.Events == nil {
		return nil, errors.New("[Server New] Events repo is required")
	}
	if codec == nil {
		return nil, errors.New("[Server New] token codec is required")
	}

	authService, err := auth.NewService(repos.Users)
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create auth service")
	}

	s := &Server{
		env:    cfg.GetEnv(),
		mux:    http.NewServeMux(),
		config: cfg,
		log:    log,
		codec:  codec,
		auth:   authService,
		repos:  repos,
	}

	if cfg.UsingFallbackSecrets() {
		s.log.Warn().Msg("using insecure fallback signing secrets; set JWT_SECRET and JWT_REFRESH_SECRET in production")
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		s.log.Debug().Str("route", route).Msg("registered")
	}
}
