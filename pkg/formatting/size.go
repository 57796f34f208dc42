// Package formatting provides parsing helpers for model output and
// human-readable value formats such as byte sizes.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned when a byte size string cannot be parsed.
var ErrInvalidSize = errors.New("invalid byte size")

var units = []string{"B", "KB", "MB", "GB", "TB", "PB"}

var sizePattern = regexp.MustCompile(`^(\d+\.?\d*)\s*([A-Za-z]*)$`)

// ParseBytes parses a human-readable byte size (e.g. "1MB", "512 kb", "2048")
// into a byte count using base-1024 units. A bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}

	unit := strings.ToUpper(m[2])
	if unit == "" {
		return int64(value), nil
	}

	exp := slices.Index(units, unit)
	if exp == -1 {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, m[2])
	}

	return int64(value * math.Pow(1024, float64(exp))), nil
}

// FormatBytes renders n with the largest base-1024 unit that keeps the value >= 1.
func FormatBytes(n int64) string {
	exp := 0
	value := float64(n)
	for value >= 1024 && exp < len(units)-1 {
		value /= 1024
		exp++
	}

	if exp == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[exp]
}
