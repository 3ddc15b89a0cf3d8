package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"chickenkeeper/internal/amqp"
	"chickenkeeper/internal/analytics"
	"chickenkeeper/internal/cache"
	applog "chickenkeeper/internal/log"
	"chickenkeeper/internal/store"
	"chickenkeeper/internal/weather"
)

// LedgerPublisher publishes ledger entries for export. A nil publisher
// disables export without affecting the tracker.
type LedgerPublisher interface {
	PublishLedgerEntry(ctx context.Context, msg *amqp.LedgerEntryMessage) error
}

// WeatherSource provides the current conditions for the coop location.
type WeatherSource interface {
	Current(ctx context.Context) (*weather.Report, error)
}

type Server struct {
	http.Server
	ledger      *store.Ledger
	engine      *analytics.Engine
	weather     WeatherSource
	publisher   LedgerPublisher
	rateLimiter *rateLimiter

	// Weather responses are cached so a dashboard refresh does not hit
	// the upstream API every time.
	weatherCache *cache.LRUCache[weather.Report]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. publisher and ws may be nil; the matching endpoints degrade
// instead of failing.
func NewServer(addr string, ledger *store.Ledger, engine *analytics.Engine, ws WeatherSource, publisher LedgerPublisher, weatherTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		ledger:       ledger,
		engine:       engine,
		weather:      ws,
		publisher:    publisher,
		rateLimiter:  newRateLimiter(),
		weatherCache: cache.NewLRUCache[weather.Report](8, weatherTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.weatherCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/reminders", s.withMiddleware(s.handleReminders))
	mux.HandleFunc("/reminders/", s.withMiddleware(s.handleReminderComplete))
	mux.HandleFunc("/incomes", s.withMiddleware(s.handleCreateIncome))
	mux.HandleFunc("/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("/expenses/breakdown", s.withMiddleware(s.handleExpenseBreakdown))
	mux.HandleFunc("/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/performance", s.withMiddleware(s.handlePerformance))
	mux.HandleFunc("/weather", s.withMiddleware(s.handleWeather))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		// Rate limiting applies to mutations only.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldComponent, applog.ComponentHTTP,
				applog.FieldClientIP, clientIP,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type ctxKeyRequestID struct{}

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

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
