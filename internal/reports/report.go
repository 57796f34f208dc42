package reports

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the dispatch state of a report.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusHolding    Status = "holding"
)

// Valid reports whether s is one of the four dispatch states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDone, StatusHolding:
		return true
	}
	return false
}

// Urgency is the triage class assigned at creation.
type Urgency string

const (
	UrgencyLow      Urgency = "Low"
	UrgencyHigh     Urgency = "High"
	UrgencyCritical Urgency = "Critical"
)

// Valid reports whether u is Low, High or Critical.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// MetaUrgencyConfidence is the meta key holding the raw classifier confidence.
const MetaUrgencyConfidence = "urgency_confidence"

// Report is a single rescue request.
type Report struct {
	ID        uuid.UUID      `json:"id"`
	Phone     string         `json:"phone"`
	Lat       float64        `json:"lat"`
	Lng       float64        `json:"lng"`
	Message   string         `json:"message"`
	Ts        *string        `json:"ts"`
	Meta      map[string]any `json:"meta"`
	Status    Status         `json:"status"`
	Urgency   *Urgency       `json:"urgency,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// MarshalJSON writes timestamps in UTC and meta as an object even when empty.
func (r Report) MarshalJSON() ([]byte, error) {
	type report Report
	out := report(r)

	if out.Meta == nil {
		out.Meta = map[string]any{}
	}
	out.CreatedAt = out.CreatedAt.UTC()
	if out.UpdatedAt != nil {
		u := out.UpdatedAt.UTC()
		out.UpdatedAt = &u
	}

	return json.Marshal(out)
}

func (r *Report) clone() *Report {
	c := *r
	c.Meta = cloneMeta(r.Meta)
	if r.Ts != nil {
		ts := *r.Ts
		c.Ts = &ts
	}
	if r.Urgency != nil {
		u := *r.Urgency
		c.Urgency = &u
	}
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// cloneMeta deep-copies nested maps and slices so stored meta never
// aliases caller-owned values.
func cloneMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMeta(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// CreateCommand carries the fields of a new report. Urgency is assigned by
// the service and cannot be supplied over HTTP.
type CreateCommand struct {
	Phone   *string        `json:"phone"`
	Lat     *float64       `json:"lat"`
	Lng     *float64       `json:"lng"`
	Message *string        `json:"message"`
	Ts      *string        `json:"ts"`
	Meta    map[string]any `json:"meta"`
	Urgency *Urgency       `json:"-"`
}

// Validate checks required fields in the order phone, lat, lng, message
// and reports the first one missing.
func (c CreateCommand) Validate() error {
	if blank(c.Phone) {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if c.Lat == nil {
		return fmt.Errorf("%w: lat is required", ErrValidation)
	}
	if c.Lng == nil {
		return fmt.Errorf("%w: lng is required", ErrValidation)
	}
	if blank(c.Message) {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if err := validateCoordinates(c.Lat, c.Lng); err != nil {
		return err
	}
	if c.Urgency != nil && !c.Urgency.Valid() {
		return fmt.Errorf("%w: invalid urgency %q", ErrValidation, *c.Urgency)
	}
	return nil
}

// ParseID parses a caller-supplied report id. A value that is not a UUID
// cannot name a stored report, so it fails with ErrNotFound.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: id %q", ErrNotFound, s)
	}
	return id, nil
}

// UpdateCommand merges new values into an existing report. The target is
// resolved by ID when present, otherwise by phone. Nil fields are left
// unchanged; a non-nil Meta replaces the stored meta wholesale.
type UpdateCommand struct {
	ID      *string        `json:"id"`
	Phone   *string        `json:"phone"`
	Message *string        `json:"message"`
	Lat     *float64       `json:"lat"`
	Lng     *float64       `json:"lng"`
	Meta    map[string]any `json:"meta"`
}

// Validate requires an id or phone and checks any supplied coordinates.
func (c UpdateCommand) Validate() error {
	if blank(c.ID) && blank(c.Phone) {
		return fmt.Errorf("%w: id or phone is required", ErrValidation)
	}
	return validateCoordinates(c.Lat, c.Lng)
}

// ByID reports whether the command targets a report by id rather than phone.
func (c UpdateCommand) ByID() bool {
	return !blank(c.ID)
}

// StatusCommand moves a report to a new dispatch state.
type StatusCommand struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

// Validate checks the status first, then that an id was supplied.
func (c StatusCommand) Validate() error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, c.Status)
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func validateCoordinates(lat, lng *float64) error {
	if lat != nil && (math.IsNaN(*lat) || *lat < -90 || *lat > 90) {
		return fmt.Errorf("%w: lat out of range: %v", ErrValidation, *lat)
	}
	if lng != nil && (math.IsNaN(*lng) || *lng < -180 || *lng > 180) {
		return fmt.Errorf("%w: lng out of range: %v", ErrValidation, *lng)
	}
	return nil
}
