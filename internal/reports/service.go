package reports

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lifeline/internal/classifier"
)

// Gate controls how classifier output becomes a report's urgency.
type Gate struct {
	// Timeout bounds each classification call.
	Timeout time.Duration
	// Threshold is the minimum confidence for a label other than Low to be kept.
	Threshold float64
}

type service struct {
	store      Store
	classifier classifier.Classifier
	gate       Gate
	logger     *slog.Logger
}

// Gate defaults applied by New for zero values.
const (
	DefaultTimeout   = 3 * time.Second
	DefaultThreshold = 0.8
)

// New creates the report System over store, classifying new reports with c.
func New(store Store, c classifier.Classifier, gate Gate, logger *slog.Logger) System {
	if gate.Timeout <= 0 {
		gate.Timeout = DefaultTimeout
	}
	if gate.Threshold <= 0 {
		gate.Threshold = DefaultThreshold
	}
	return &service{
		store:      store,
		classifier: c,
		gate:       gate,
		logger:     logger.With("system", "reports"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Create validates cmd, classifies the message, and stores the report with
// the gated urgency. The raw confidence is always recorded in meta. When the
// classifier fails or times out the report is stored as Low with confidence 0.
func (s *service) Create(ctx context.Context, cmd CreateCommand) (*Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := s.classify(ctx, *cmd.Message)
	urgency := s.applyGate(result)

	meta := cloneMeta(cmd.Meta)
	if meta == nil {
		meta = make(map[string]any, 1)
	}
	meta[MetaUrgencyConfidence] = result.Confidence

	cmd.Meta = meta
	cmd.Urgency = &urgency

	r, err := s.store.Create(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info(
		"report created",
		"id", r.ID,
		"urgency", urgency,
		"label", result.Label,
		"confidence", result.Confidence,
	)

	return r, nil
}

func (s *service) Update(ctx context.Context, cmd UpdateCommand) (*Report, error) {
	r, err := s.store.ResolveAndUpdate(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("report updated", "id", r.ID)
	return r, nil
}

func (s *service) List(ctx context.Context) ([]Report, error) {
	return s.store.List(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, cmd StatusCommand) (*Report, error) {
	r, err := s.store.UpdateStatus(ctx, cmd)
	if err != nil {
		return nil, err
	}

	s.logger.Info("report status updated", "id", r.ID, "status", r.Status)
	return r, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.store.Find(ctx, id)
}

var fallback = classifier.Result{Label: classifier.Low, Confidence: 0}

// classify returns the fallback result for any failure. The call runs in its
// own goroutine so a classifier that ignores ctx still cannot hold up intake
// past the gate timeout.
func (s *service) classify(ctx context.Context, message string) classifier.Result {
	cctx, cancel := context.WithTimeout(ctx, s.gate.Timeout)
	defer cancel()

	type outcome struct {
		result classifier.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		r, err := s.classifier.Classify(cctx, message)
		done <- outcome{r, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-cctx.Done():
		out.err = fmt.Errorf("%w: %w", classifier.ErrUnavailable, cctx.Err())
	}

	if out.err == nil && !out.result.Label.Valid() {
		out.err = fmt.Errorf("%w: label %q", classifier.ErrUnknownLabel, out.result.Label)
	}
	if out.err == nil && (math.IsNaN(out.result.Confidence) || out.result.Confidence < 0 || out.result.Confidence > 1) {
		out.err = fmt.Errorf("%w: confidence %v out of range", classifier.ErrUnavailable, out.result.Confidence)
	}

	if out.err != nil {
		s.logger.Warn("classification unavailable, defaulting to Low", "error", out.err)
		return fallback
	}
	return out.result
}

// applyGate keeps the predicted label only at or above the threshold.
func (s *service) applyGate(r classifier.Result) Urgency {
	if r.Confidence >= s.gate.Threshold {
		return Urgency(r.Label)
	}
	return UrgencyLow
}
