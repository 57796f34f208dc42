package classifier

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Guard wraps c so degenerate messages are answered with (Low, 1.0)
// without invoking the underlying model.
func Guard(c Classifier) Classifier {
	return &guard{next: c}
}

type guard struct {
	next Classifier
}

func (g *guard) Classify(ctx context.Context, message string) (Result, error) {
	if Degenerate(message) {
		return Result{Label: Low, Confidence: 1.0}, nil
	}
	return g.next.Classify(ctx, message)
}

// Degenerate reports whether message carries too little text to classify:
// fewer than three characters once trimmed, only digits, or no letters at all.
func Degenerate(message string) bool {
	m := strings.TrimSpace(message)
	if utf8.RuneCountInString(m) < 3 {
		return true
	}

	letters, digitsOnly := false, true
	for _, r := range m {
		if unicode.IsLetter(r) {
			letters = true
		}
		if !unicode.IsDigit(r) {
			digitsOnly = false
		}
	}

	return digitsOnly || !letters
}
