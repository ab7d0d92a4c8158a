package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/config"
)

//go:embed graphiql.html
var graphiqlPage []byte

type pinger interface {
	Ping(ctx context.Context) error
}

type server struct {
	cfg    config.ServerConfig
	schema *graphql.Schema
	db     pinger
	logger *zap.Logger
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// New returns the HTTP handler serving the GraphQL endpoint and the health probes.
func New(cfg config.ServerConfig, schema *graphql.Schema, db pinger, logger *zap.Logger) http.Handler {
	s := &server{cfg: cfg, schema: schema, db: db, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Post("/graphql", (&relay.Handler{Schema: schema}).ServeHTTP)
	if cfg.GraphiQL {
		r.Get("/graphql", s.graphiql)
	}
	return r
}

func (s *server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *server) readyz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Warn("database not ready", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready"})
}

func (s *server) graphiql(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(graphiqlPage)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
