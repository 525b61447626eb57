package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gatehouse/gatehouse/pkg/auth"
	"github.com/gatehouse/gatehouse/pkg/middleware"
	"github.com/gatehouse/gatehouse/pkg/observability"
	"github.com/gatehouse/gatehouse/pkg/users"
)

// Server wires the account store, the auth primitives, and the
// authorization pipeline into an http.Handler
type Server struct {
	router    *mux.Router
	store     users.Store
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenService
	transport *auth.SessionTransport
	authn     *middleware.Authenticator
	logger    *logrus.Logger
	metrics   *observability.Metrics
}

// NewServer creates the API server and registers all routes
func NewServer(store users.Store, hasher *auth.PasswordHasher, tokens *auth.TokenService, transport *auth.SessionTransport, logger *logrus.Logger, metrics *observability.Metrics) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	s := &Server{
		router:    mux.NewRouter(),
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		transport: transport,
		authn:     middleware.NewAuthenticator(tokens, store, transport, logger).WithMetrics(metrics),
		logger:    logger,
		metrics:   metrics,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router

	// Public auth routes
	r.HandleFunc("/api/auth/signup", s.signup).Methods("POST")
	r.HandleFunc("/api/auth/login", s.login).Methods("POST")
	r.HandleFunc("/api/auth/logout", s.logout).Methods("POST")
	r.Handle("/api/auth/me", s.authenticated(http.HandlerFunc(s.me))).Methods("GET")

	// Self-service routes. Registered before the {id} routes so the
	// literal path segments are not captured as ids.
	r.Handle("/api/users/profile", s.authenticated(http.HandlerFunc(s.updateProfile))).Methods("PUT")
	r.Handle("/api/users/change-password", s.authenticated(http.HandlerFunc(s.changePassword))).Methods("PUT")

	// Admin-only routes
	r.Handle("/api/users", s.adminOnly(http.HandlerFunc(s.listUsers))).Methods("GET")
	r.Handle("/api/users", s.adminOnly(http.HandlerFunc(s.createUser))).Methods("POST")
	r.Handle("/api/users/{id}", s.adminOnly(http.HandlerFunc(s.deleteUser))).Methods("DELETE")

	// Self-or-admin routes
	r.Handle("/api/users/{id}", s.authenticated(http.HandlerFunc(s.getUser))).Methods("GET")
	r.Handle("/api/users/{id}", s.authenticated(s.authn.RequireOwnership("id")(http.HandlerFunc(s.updateUser)))).Methods("PUT")
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return s.authn.RequireAuthentication(next)
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return s.authn.RequireAuthentication(s.authn.RequireRole(auth.RoleAdmin)(next))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
