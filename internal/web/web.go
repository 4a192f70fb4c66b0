package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"routine2cal/internal/catalog"
	"routine2cal/internal/config"
	"routine2cal/internal/export"
	appLog "routine2cal/internal/log"
	"routine2cal/internal/selection"
)

const icsFilename = "BRACU_Schedule.ics"

// Server provides the HTTP API: catalog browsing, selection management and
// schedule export.
type Server struct {
	cfg      *config.Config
	catalog  *catalog.Service
	store    *selection.Store
	exporter *export.Service
	mux      *http.ServeMux

	// now supplies the reference time for occurrence resolution; injected
	// so exports are reproducible in tests.
	now func() time.Time
}

// NewServer constructs a Server. now may be nil, in which case time.Now is
// used.
func NewServer(cfg *config.Config, cat *catalog.Service, store *selection.Store, exporter *export.Service, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	s := &Server{
		cfg:      cfg,
		catalog:  cat,
		store:    store,
		exporter: exporter,
		mux:      http.NewServeMux(),
		now:      now,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/catalog", s.handleCatalogList)
	s.mux.HandleFunc("POST /api/catalog/refresh", s.handleCatalogRefresh)

	s.mux.HandleFunc("GET /api/selection", s.handleSelectionList)
	s.mux.HandleFunc("POST /api/selection", s.handleSelectionAdd)
	s.mux.HandleFunc("PUT /api/selection/{index}", s.handleSelectionEdit)
	s.mux.HandleFunc("DELETE /api/selection/{index}", s.handleSelectionRemove)
	s.mux.HandleFunc("POST /api/selection/reset", s.handleSelectionReset)

	s.mux.HandleFunc("GET /api/export/ics", s.handleExportICS)
	s.mux.HandleFunc("GET /api/export/google", s.handleExportGoogle)
	s.mux.HandleFunc("GET /api/export/text", s.handleExportText)

	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the fully wrapped http.Handler: mux, basic auth (if
// configured), CORS, request logging.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		h = s.basicAuthMiddleware(h)
	}
	h = cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(h)
	return requestLogMiddleware(h)
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="routine2cal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		reqID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(rec, r)
		appLog.Debug("http request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// StartServer runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func StartServer(ctx context.Context, s *Server) error {
	srv := &http.Server{
		Addr:    s.cfg.Listen,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
