// Package mockapi serves positions over HTTP for local runs and tests
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/positions"
)

// Config controls the mock behaviour
type Config struct {
	// Positions served on success; nil means DefaultPositions
	Positions []domain.Position
	// FailEvery makes every Nth request fail with 500 (0 disables)
	FailEvery int
	// Latency delays every positions response
	Latency time.Duration
	// Jitter is the maximum relative price move applied per request (0.01 = 1%)
	Jitter float64
}

// Server is the mock positions API
type Server struct {
	cfg      Config
	logger   *zap.Logger
	router   chi.Router
	requests atomic.Uint64

	mu   sync.Mutex
	rand *rand.Rand
}

// NewServer builds the router
func NewServer(cfg Config, logger *zap.Logger) *Server {
	if cfg.Positions == nil {
		cfg.Positions = DefaultPositions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger.Named("mockapi"),
		rand:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get(positions.DefaultPath, s.handlePositions)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Requests returns the number of positions requests served
func (s *Server) Requests() uint64 {
	return s.requests.Load()
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Mock positions API listening", zap.String("addr", ln.Addr().String()))
	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	s.logger.Info("Mock positions API stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	n := s.requests.Add(1)

	if s.cfg.Latency > 0 {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(s.cfg.Latency):
		}
	}

	if s.cfg.FailEvery > 0 && n%uint64(s.cfg.FailEvery) == 0 {
		s.logger.Debug("Injecting failure", zap.Uint64("request", n))
		writeError(w, "Failed to fetch positions", http.StatusInternalServerError)
		return
	}

	writeJSON(w, s.snapshot(), http.StatusOK)
}

// snapshot copies the fixtures and moves prices by up to the configured jitter
func (s *Server) snapshot() []domain.Position {
	out := make([]domain.Position, len(s.cfg.Positions))
	copy(out, s.cfg.Positions)
	if s.cfg.Jitter <= 0 {
		return out
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range out {
		move := (s.rand.Float64()*2 - 1) * s.cfg.Jitter
		out[i].ValueUSD = round(out[i].ValueUSD*(1+move), 2)
		out[i].Change24h = round(out[i].Change24h+move*100, 2)
		if out[i].PriceUSD != nil {
			out[i].PriceUSD = domain.PriceOf(round(*out[i].PriceUSD*(1+move), 4))
		}
	}
	return out
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, map[string]string{"error": message}, statusCode)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
