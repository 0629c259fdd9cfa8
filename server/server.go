package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-slack-relay/internal/config"
	"github.com/jrsteele09/go-slack-relay/proxy"
	"github.com/jrsteele09/go-slack-relay/session"
	"github.com/jrsteele09/go-slack-relay/slack"
	"github.com/jrsteele09/go-slack-relay/store"
)

type Server struct {
	env       string // Environment (e.g., "DEV", "production")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	forwarder *proxy.Forwarder
	client    *slack.Client
	handshake *session.Handshake
	repo      store.Repo
}

func New(cfg config.Config, repo store.Repo) (*Server, error) {
	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		repo:   repo,
	}
	s.env = cfg.GetEnv()
	s.forwarder = proxy.NewForwarder(cfg)

	// The typed client funnels through the proxy endpoint like any other
	// caller; the server is just another client of its own gateway.
	s.client = slack.NewClient(cfg.GetBaseURL()+RouteProxy, repo)

	s.handshake = session.New(session.Config{
		ClientID:     cfg.GetSlackClientID(),
		Scopes:       cfg.GetSlackScopes(),
		AuthorizeURL: cfg.GetSlackAuthorizeURL(),
		RedirectURI:  cfg.GetRedirectURI(),
	}, repo, s.client, nil)

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

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Printf("[%-7s] %s\n", method, path)
}
