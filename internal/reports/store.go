package reports

import (
	"context"

	"github.com/google/uuid"
)

// Store is the authoritative report collection. Implementations assign ids
// and creation times, validate every command, and return ErrValidation,
// ErrNotFound or ErrStoreUnavailable for failures.
type Store interface {
	// Create inserts a new pending report.
	Create(ctx context.Context, cmd CreateCommand) (*Report, error)
	// ResolveAndUpdate finds the report by id, or by phone choosing the most
	// recently created match, and merges the supplied fields into it.
	ResolveAndUpdate(ctx context.Context, cmd UpdateCommand) (*Report, error)
	// List returns every report, newest first.
	List(ctx context.Context) ([]Report, error)
	// UpdateStatus sets the status of the report with the given id.
	UpdateStatus(ctx context.Context, cmd StatusCommand) (*Report, error)
	// Find returns the report with the given id.
	Find(ctx context.Context, id uuid.UUID) (*Report, error)
}
