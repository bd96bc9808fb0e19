// Package http exposes the JSON REST API: registration and login, owner
// scoped expense and income records, and a dashboard summary.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/auth"
	applog "github.com/marlonlamer/personal-finance-expense-analyzer/internal/log"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/services"
)

// ReadinessChecker reports whether the backing store is reachable.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	auth         *auth.Service
	records      *services.RecordService
	ready        ReadinessChecker
	rateLimiter  *rateLimiter
	logger       *applog.Logger
	shutdownOnce sync.Once
}

// Options tunes the server beyond its collaborators.
type Options struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, authSvc *auth.Service, records *services.RecordService, ready ReadinessChecker, opts Options) *Server {
	mux := http.NewServeMux()

	if opts.RateLimitRequests <= 0 {
		opts.RateLimitRequests = 60
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = time.Minute
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		auth:        authSvc,
		records:     records,
		ready:       ready,
		rateLimiter: newRateLimiter(opts.RateLimitRequests, opts.RateLimitWindow),
		logger:      applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
	}

	authed := auth.Middleware(authSvc, respondWithError)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /login", s.wrap(s.handleLogin))

	mux.HandleFunc("GET /expenses", s.wrap(authed(s.handleListExpenses)))
	mux.HandleFunc("POST /expenses", s.wrap(authed(s.handleCreateExpense)))
	mux.HandleFunc("DELETE /expenses/{id}", s.wrap(authed(s.handleDeleteExpense)))

	mux.HandleFunc("GET /incomes", s.wrap(authed(s.handleListIncomes)))
	mux.HandleFunc("POST /incomes", s.wrap(authed(s.handleCreateIncome)))
	mux.HandleFunc("DELETE /incomes/{id}", s.wrap(authed(s.handleDeleteIncome)))

	mux.HandleFunc("GET /dashboard", s.wrap(authed(s.handleDashboard)))

	return s
}

// wrap adds security headers, rate limiting on mutating methods, and request
// logging. A request-scoped logger travels on the context for handlers that
// want it.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		logger := s.logger.With(applog.FieldRequestID, requestID)
		r = r.WithContext(applog.WithLogger(r.Context(), logger))
		ctx := r.Context()

		logger.InfoContext(ctx, "Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		if mutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondWithError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		setSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

func mutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut ||
		method == http.MethodPatch || method == http.MethodDelete
}

// Shutdown stops the rate limiter cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready.Ping(ctx); err != nil {
			s.logger.ErrorContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
