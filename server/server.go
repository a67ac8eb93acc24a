package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/dmtool-server/campaigns"
	"github.com/jrsteele09/dmtool-server/internal/config"
	"github.com/jrsteele09/dmtool-server/systems"
	"github.com/jrsteele09/dmtool-server/token"
	"github.com/jrsteele09/dmtool-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// AccountService registers users and exchanges credentials for tokens.
type AccountService interface {
	Register(ctx context.Context, username, password string) (*users.User, error)
	Authenticate(ctx context.Context, username, password string) (*token.Token, error)
}

// SystemLister lists the supported game systems.
type SystemLister interface {
	List(ctx context.Context) ([]systems.System, error)
}

// CampaignCreator creates a campaign and assigns its author as GM.
type CampaignCreator interface {
	CreateCampaign(ctx context.Context, identity users.Identity, systemID int64, name, secret string) (*campaigns.Campaign, error)
}

// TokenVerifier checks a raw session token and returns the identity it asserts.
type TokenVerifier interface {
	Verify(raw string) (users.Identity, error)
}

// Services are the application services the handlers call into.
type Services struct {
	Accounts  AccountService
	Systems   SystemLister
	Campaigns CampaignCreator
	Tokens    TokenVerifier
}

func (s Services) validate() error {
	switch {
	case s.Accounts == nil:
		return errors.New("account service is required")
	case s.Systems == nil:
		return errors.New("systems service is required")
	case s.Campaigns == nil:
		return errors.New("campaign service is required")
	case s.Tokens == nil:
		return errors.New("token verifier is required")
	}
	return nil
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	services Services
	logger   zerolog.Logger
	limiter  *RateLimiter
}

func New(config config.Config, services Services, logger zerolog.Logger) (*Server, error) {
	if err := services.validate(); err != nil {
		return nil, errors.Wrap(err, "[Server New]")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		services: services,
		logger:   logger.With().Str("component", "server").Logger(),
		limiter:  NewRateLimiter(config.GetRateLimitPerMinute(), WithTrustForwardedFor(config.GetTrustForwardedFor())),
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

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes returns the registered route patterns in registration order.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		s.logger.Debug().Msgf("[%-16s] %s", colouredMethod(method), path)
	}
}
