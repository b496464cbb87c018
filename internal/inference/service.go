package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/forest-cover-service/internal/domain"
	"github.com/couchcryptid/forest-cover-service/internal/model"
	"github.com/couchcryptid/forest-cover-service/internal/observability"
)

// Health statuses.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// EventPublisher receives prediction events after a request succeeds.
type EventPublisher interface {
	Publish(ctx context.Context, events []domain.PredictionEvent) error
}

// Health is the body of the root health check.
type Health struct {
	Status             string `json:"status"`
	ModelLoaded        bool   `json:"model_loaded"`
	PreprocessorLoaded bool   `json:"preprocessor_loaded"`
}

// Service runs feature engineering, preprocessing and classification for
// single observations and CSV batches. It holds no mutable state; the model
// artifacts are read-only and shared by all requests.
type Service struct {
	provider  model.Provider
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. Pass a nil publisher to disable prediction events.
func New(provider model.Provider, publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	s := &Service{
		provider:  provider,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
	st := provider.Status()
	metrics.ArtifactsLoaded.WithLabelValues("model").Set(boolGauge(st.ModelLoaded))
	metrics.ArtifactsLoaded.WithLabelValues("preprocessor").Set(boolGauge(st.PreprocessorLoaded))
	return s
}

// Health reports artifact load status. It never fails.
func (s *Service) Health() Health {
	st := s.provider.Status()
	h := Health{
		Status:             StatusOK,
		ModelLoaded:        st.ModelLoaded,
		PreprocessorLoaded: st.PreprocessorLoaded,
	}
	if !st.Ready() {
		h.Status = StatusDegraded
	}
	return h
}

// CheckReadiness returns nil when both artifacts are loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.provider.Status().Ready() {
		return domain.ErrUnavailable
	}
	return nil
}

// Predict scores one observation.
func (s *Service) Predict(ctx context.Context, obs domain.Observation) (domain.Prediction, error) {
	if !obs.OneHotConsistent() {
		s.logger.Debug("observation does not have exactly one wilderness area and one soil type",
			"request_id", RequestID(ctx))
	}

	preds, err := s.run(domain.NewFrame(obs), domain.SourceSingle)
	if err != nil {
		return domain.Prediction{}, err
	}
	s.publish(ctx, domain.SourceSingle, preds)
	return preds[0], nil
}

// PredictBatch scores every row of f in one pass. The Cover_Type label column
// is dropped if present. Any failure fails the whole batch.
func (s *Service) PredictBatch(ctx context.Context, f domain.Frame) (domain.BatchResult, error) {
	f = f.Drop(domain.ColCoverType)

	preds, err := s.run(f, domain.SourceBatch)
	if err != nil {
		return domain.BatchResult{}, err
	}
	s.metrics.BatchRows.Observe(float64(len(preds)))

	result := domain.BatchResult{
		TotalRows:   len(preds),
		Predictions: make([]domain.BatchPrediction, len(preds)),
	}
	for i, p := range preds {
		result.Predictions[i] = domain.BatchPrediction{RowIndex: i, Prediction: p}
	}
	s.publish(ctx, domain.SourceBatch, preds)
	return result, nil
}

// run is the single code path shared by every prediction entry point.
func (s *Service) run(f domain.Frame, source string) ([]domain.Prediction, error) {
	artifacts, err := s.provider.Artifacts()
	if err != nil {
		return nil, err
	}

	start := clock.Now()
	defer func() {
		s.metrics.InferenceDuration.WithLabelValues(source).Observe(clock.Since(start).Seconds())
	}()

	engineered, err := domain.EngineerFeatures(f)
	if err != nil {
		return nil, err
	}
	if engineered.Len() == 0 {
		return []domain.Prediction{}, nil
	}

	x, err := artifacts.Transformer.Transform(engineered)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	classes, proba, err := model.Classify(artifacts.Classifier, x)
	if err != nil {
		return nil, err
	}
	if len(classes) != len(x) || len(proba) != len(x) {
		return nil, fmt.Errorf("classifier returned %d classes and %d probability rows for %d inputs",
			len(classes), len(proba), len(x))
	}

	preds := make([]domain.Prediction, len(x))
	for i := range preds {
		preds[i] = domain.NewPrediction(classes[i], proba[i])
		s.metrics.Predictions.WithLabelValues(preds[i].CoverTypeName).Inc()
	}
	return preds, nil
}

// publish hands events to the publisher. Failures are logged and counted but
// never fail the request.
func (s *Service) publish(ctx context.Context, source string, preds []domain.Prediction) {
	if s.publisher == nil || len(preds) == 0 {
		return
	}

	reqID := RequestID(ctx)
	now := clock.Now().UTC()
	events := make([]domain.PredictionEvent, len(preds))
	for i, p := range preds {
		events[i] = domain.PredictionEvent{
			RequestID:   reqID,
			Source:      source,
			RowIndex:    i,
			Prediction:  p,
			PredictedAt: now,
		}
	}

	if err := s.publisher.Publish(ctx, events); err != nil {
		s.logger.Warn("publish prediction events failed",
			"error", err, "request_id", reqID, "events", len(events))
		s.metrics.EventsPublished.WithLabelValues("error").Add(float64(len(events)))
		return
	}
	s.metrics.EventsPublished.WithLabelValues("success").Add(float64(len(events)))
}

// IsClientError reports whether err was caused by the request content rather
// than the service.
func IsClientError(err error) bool {
	var (
		verr *domain.ValidationError
		perr *domain.ParseError
		merr *domain.MissingColumnError
	)
	return errors.As(err, &verr) || errors.As(err, &perr) || errors.As(err, &merr)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
