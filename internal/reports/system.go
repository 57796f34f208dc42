// Package reports implements rescue report intake: creation with urgency
// classification, merge updates resolved by id or phone, status transitions,
// and listing for dispatch.
package reports

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for report domain operations.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, cmd CreateCommand) (*Report, error)
	Update(ctx context.Context, cmd UpdateCommand) (*Report, error)
	List(ctx context.Context) ([]Report, error)
	UpdateStatus(ctx context.Context, cmd StatusCommand) (*Report, error)
	Find(ctx context.Context, id uuid.UUID) (*Report, error)
}
