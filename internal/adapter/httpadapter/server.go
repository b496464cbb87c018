package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
	"github.com/couchcryptid/forest-cover-service/internal/inference"
	"github.com/couchcryptid/forest-cover-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Predictor is the inference surface the HTTP layer depends on.
type Predictor interface {
	sharedobs.ReadinessChecker
	Health() inference.Health
	Predict(ctx context.Context, obs domain.Observation) (domain.Prediction, error)
	PredictBatch(ctx context.Context, f domain.Frame) (domain.BatchResult, error)
}

// Server exposes the prediction API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer     *http.Server
	predictor      Predictor
	maxUploadBytes int64
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// NewServer creates an HTTP server with the prediction routes, /healthz,
// /readyz, and /metrics.
func NewServer(addr string, predictor Predictor, maxUploadBytes int64, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		predictor:      predictor,
		maxUploadBytes: maxUploadBytes,
		metrics:        metrics,
		logger:         logger,
	}

	mux.HandleFunc("GET /{$}", s.instrument("root", s.handleRoot))
	mux.HandleFunc("POST /predict", s.instrument("predict", s.handlePredict))
	mux.HandleFunc("POST /predict/batch", s.instrument("predict_batch", s.handlePredictBatch))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(predictor))
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = withRequestID(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)(h)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
