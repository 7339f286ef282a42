package api

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"strconv"

	"github.com/loggate/loggate/internal/notify"
	"github.com/loggate/loggate/internal/servicelog"
)

// Server wraps the HTTP server and mux for the Loggate API.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
}

// ServerConfig carries everything the route table needs. The write token
// gates ingestion and bootstrap; the independent read token gates
// queries. Either may be empty, which opens that path.
type ServerConfig struct {
	ListenAddress   string
	Port            int
	APIMaxBodyBytes int64

	WriteToken string
	ReadToken  string

	DB             *sql.DB
	Repo           *servicelog.Repo
	Publisher      notify.Publisher
	Messenger      notify.Messenger
	Mirror         *notify.Mirror
	ServiceVersion string

	ChatLevelThreshold int64
}

// NewServer creates a new API server wired with all routes.
func NewServer(cfg ServerConfig) *Server {
	mux := http.NewServeMux()

	writeAuth := func(h http.Handler) http.Handler {
		return AuthMiddleware(cfg.WriteToken, RequestBodyLimitMiddleware(cfg.APIMaxBodyBytes, h))
	}
	readAuth := func(h http.Handler) http.Handler {
		return AuthMiddleware(cfg.ReadToken, h)
	}

	mux.Handle("POST /log", writeAuth(HandleAppendLog(
		cfg.Repo, cfg.Publisher, cfg.Messenger, cfg.Mirror, cfg.ChatLevelThreshold,
	)))
	mux.Handle("POST /systeminit", writeAuth(HandleSystemInit(cfg.DB, cfg.ServiceVersion, cfg.Mirror)))
	mux.Handle("GET /logs", readAuth(HandleQueryLogs(cfg.Repo)))
	mux.Handle("GET /healthz", HandleHealthz())

	// Everything else is a plain-text 404.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.ListenAddress, strconv.Itoa(cfg.Port)),
		Handler: mux,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
	}
}

// ListenAndServe starts the HTTP server. It blocks until the server stops.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}
