package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/lifeline/pkg/query"
	"github.com/JaimeStill/lifeline/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reports", "r").
	Project("id", "ID").
	Project("phone", "Phone").
	Project("lat", "Lat").
	Project("lng", "Lng").
	Project("message", "Message").
	Project("ts", "Ts").
	Project("meta", "Meta").
	Project("status", "Status").
	Project("urgency", "Urgency").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

var (
	insertSQL = fmt.Sprintf(`
		INSERT INTO public.reports (id, phone, lat, lng, message, ts, meta, status, urgency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, $10)
		RETURNING %s`, projection.Returning())

	mergeSQL = fmt.Sprintf(`
		UPDATE public.reports SET
			message = COALESCE($2, message),
			lat = COALESCE($3, lat),
			lng = COALESCE($4, lng),
			meta = COALESCE($5::jsonb, meta),
			updated_at = $6
		WHERE id = $1
		RETURNING %s`, projection.Returning())

	statusSQL = fmt.Sprintf(`
		UPDATE public.reports SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING %s`, projection.Returning())
)

var storeErrors = repository.Errors{
	NotFound:    ErrNotFound,
	Duplicate:   ErrStoreUnavailable,
	Invalid:     ErrStoreUnavailable,
	Unavailable: ErrStoreUnavailable,
}

// PostgresStore persists reports in the public.reports table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a Store backed by db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostgresStore) Create(ctx context.Context, cmd CreateCommand) (*Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	meta, err := encodeMeta(cmd.Meta)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = "{}"
	}

	var urgency *string
	if cmd.Urgency != nil {
		u := string(*cmd.Urgency)
		urgency = &u
	}

	args := []any{
		uuid.New(), *cmd.Phone, *cmd.Lat, *cmd.Lng, *cmd.Message,
		cmd.Ts, meta, string(StatusPending), urgency, s.now(),
	}

	r, err := repository.QueryOne(ctx, s.db, insertSQL, args, scanReport)
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (s *PostgresStore) ResolveAndUpdate(ctx context.Context, cmd UpdateCommand) (*Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	meta, err := encodeMeta(cmd.Meta)
	if err != nil {
		return nil, err
	}

	if cmd.ByID() {
		id, err := ParseID(*cmd.ID)
		if err != nil {
			return nil, err
		}
		r, err := s.merge(ctx, s.db, id, cmd, meta)
		if err != nil {
			return nil, mapError(err)
		}
		return &r, nil
	}

	r, err := repository.WithTx(ctx, s.db, nil, func(tx *sql.Tx) (Report, error) {
		q, args := query.
			NewBuilder(projection).
			WhereEquals("Phone", cmd.Phone).
			OrderByFields(defaultSort).
			Limit(1).
			ForUpdate().
			Build()

		target, err := repository.QueryOne(ctx, tx, q, args, scanReport)
		if err != nil {
			return Report{}, err
		}

		return s.merge(ctx, tx, target.ID, cmd, meta)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Report, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	items, err := repository.QueryMany(ctx, s.db, q, args, scanReport)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, cmd StatusCommand) (*Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id, err := ParseID(cmd.ID)
	if err != nil {
		return nil, err
	}

	args := []any{id, string(cmd.Status), s.now()}

	r, err := repository.QueryOne(ctx, s.db, statusSQL, args, scanReport)
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (s *PostgresStore) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	r, err := repository.QueryOne(ctx, s.db, q, args, scanReport)
	if err != nil {
		return nil, mapError(err)
	}
	return &r, nil
}

func (s *PostgresStore) merge(ctx context.Context, q repository.Querier, id uuid.UUID, cmd UpdateCommand, meta any) (Report, error) {
	args := []any{id, cmd.Message, cmd.Lat, cmd.Lng, meta, s.now()}
	return repository.QueryOne(ctx, q, mergeSQL, args, scanReport)
}

func scanReport(s repository.Scanner) (Report, error) {
	var (
		r        Report
		ts       sql.NullString
		meta     []byte
		status   string
		urgency  sql.NullString
		updateAt sql.NullTime
	)

	err := s.Scan(
		&r.ID, &r.Phone, &r.Lat, &r.Lng, &r.Message,
		&ts, &meta, &status, &urgency, &r.CreatedAt, &updateAt,
	)
	if err != nil {
		return Report{}, err
	}

	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &r.Meta); err != nil {
			return Report{}, fmt.Errorf("decode meta: %w", err)
		}
	}
	if ts.Valid {
		r.Ts = &ts.String
	}
	if urgency.Valid {
		u := Urgency(urgency.String)
		r.Urgency = &u
	}
	if updateAt.Valid {
		t := updateAt.Time.UTC()
		r.UpdatedAt = &t
	}
	r.Status = Status(status)
	r.CreatedAt = r.CreatedAt.UTC()

	return r, nil
}

// encodeMeta returns nil for absent meta so COALESCE keeps the stored value.
func encodeMeta(meta map[string]any) (any, error) {
	if meta == nil {
		return nil, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: meta: %w", ErrValidation, err)
	}
	return string(b), nil
}

// mapError folds every database failure into ErrNotFound or ErrStoreUnavailable.
func mapError(err error) error {
	mapped := repository.MapError(err, storeErrors)
	if errors.Is(mapped, ErrNotFound) || errors.Is(mapped, ErrStoreUnavailable) {
		return mapped
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
