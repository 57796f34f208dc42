// Package classifier assigns an urgency label and confidence to free-text
// rescue messages. Providers are interchangeable behind the Classifier
// interface; every provider reports model failures as ErrUnavailable.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnavailable indicates the model could not produce a usable result:
	// it was unreachable, errored, timed out, or answered with an unknown label.
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrUnknownLabel indicates a model answered with a label outside Low, High, Critical.
	ErrUnknownLabel = errors.New("unknown urgency label")
	// ErrUnknownProvider indicates the configured provider name is not supported.
	ErrUnknownProvider = errors.New("unknown classifier provider")
)

// Label is an urgency class.
type Label string

const (
	Low      Label = "Low"
	High     Label = "High"
	Critical Label = "Critical"
)

// Valid reports whether l is one of the three urgency labels.
func (l Label) Valid() bool {
	switch l {
	case Low, High, Critical:
		return true
	}
	return false
}

// ParseLabel normalizes a model label. Matching is case-insensitive and the
// "Citical" spelling found in training data is accepted as Critical.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "high":
		return High, nil
	case "critical", "citical":
		return Critical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLabel, s)
}

// Result is a single classification outcome.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier maps a message to an urgency Result.
type Classifier interface {
	Classify(ctx context.Context, message string) (Result, error)
}

// Func adapts an ordinary function to the Classifier interface.
type Func func(ctx context.Context, message string) (Result, error)

// Classify calls f(ctx, message).
func (f Func) Classify(ctx context.Context, message string) (Result, error) {
	return f(ctx, message)
}

// newResult validates a raw model answer and converts it into a Result.
// Any defect is reported as ErrUnavailable.
func newResult(label string, confidence float64) (Result, error) {
	l, err := ParseLabel(label)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return Result{}, fmt.Errorf("%w: confidence %v out of range", ErrUnavailable, confidence)
	}
	return Result{Label: l, Confidence: confidence}, nil
}
