// Package http exposes the ledger and its derived reports as a JSON API.
// The presentation layer is a consumer of this API; all state changes flow
// through the ledger store.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

const (
	cacheSize        = 100
	cacheTTL         = 5 * time.Minute
	cacheCleanupTick = 10 * time.Minute
	maxBodyBytes     = 1 << 20 // 1MB
)

type Server struct {
	http.Server
	ledger      *ledger.Store
	policy      report.Policy
	rateLimiter *rateLimiter
	log         *applog.Logger

	// Derived data is cheap to recompute but read on every render, so the
	// read endpoints cache results until the next mutation.
	summaryCache   *cache.LRU[report.Summary]
	breakdownCache *cache.LRU[[]report.CategoryTotal]
	trendCache     *cache.LRU[[]report.DayTotals]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, store *ledger.Store, policy report.Policy) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:           store,
		policy:           policy,
		rateLimiter:      newRateLimiter(),
		log:              applog.ForComponent(applog.ComponentHTTP),
		summaryCache:     cache.New[report.Summary](cacheSize, cacheTTL),
		breakdownCache:   cache.New[[]report.CategoryTotal](cacheSize, cacheTTL),
		trendCache:       cache.New[[]report.DayTotals](cacheSize, cacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/breakdown", s.withMiddleware(s.handleBreakdown))
	mux.HandleFunc("/api/trend", s.withMiddleware(s.handleTrend))
	mux.HandleFunc("/api/alerts", s.withMiddleware(s.handleAlerts))
	mux.HandleFunc("/api/categories", s.withMiddleware(s.handleCategories))

	return s
}

// withMiddleware adds security headers, rate limiting on mutations and
// request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.log.InfoContext(ctx, "Request started",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.log.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.log.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// invalidateDerived drops every cached report after a mutation.
func (s *Server) invalidateDerived() {
	s.summaryCache.Clear()
	s.breakdownCache.Clear()
	s.trendCache.Clear()
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(cacheCleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.summaryCache.CleanExpired() +
				s.breakdownCache.CleanExpired() +
				s.trendCache.CleanExpired()
			if cleaned > 0 {
				s.log.Debug("Cache cleanup completed", applog.FieldCount, cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully stops the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
