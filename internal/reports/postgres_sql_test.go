package reports

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/lifeline/pkg/query"
)

func TestProjectionOrder(t *testing.T) {
	want := "id, phone, lat, lng, message, ts, meta, status, urgency, created_at, updated_at"
	if got := projection.Returning(); got != want {
		t.Errorf("returning:\n got  %s\n want %s", got, want)
	}
}

func TestStatementShape(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"insert", insertSQL, []string{"INSERT INTO public.reports", "$7::jsonb", "RETURNING id, phone"}},
		{"merge", mergeSQL, []string{"COALESCE($2, message)", "COALESCE($5::jsonb, meta)", "WHERE id = $1", "RETURNING"}},
		{"status", statusSQL, []string{"SET status = $2, updated_at = $3", "WHERE id = $1", "RETURNING"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, w := range tt.want {
				if !strings.Contains(tt.sql, w) {
					t.Errorf("missing %q in:\n%s", w, tt.sql)
				}
			}
		})
	}
}

func TestResolveByPhoneQuery(t *testing.T) {
	phone := "0901234567"
	q, args := query.
		NewBuilder(projection).
		WhereEquals("Phone", &phone).
		OrderByFields(defaultSort).
		Limit(1).
		ForUpdate().
		Build()

	if !strings.HasSuffix(q, "WHERE r.phone = $1 ORDER BY r.created_at DESC LIMIT 1 FOR UPDATE") {
		t.Errorf("unexpected query: %s", q)
	}
	if len(args) != 1 {
		t.Errorf("args: got %d, want 1", len(args))
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"connection lost", &pgconn.PgError{Code: "08006"}, ErrStoreUnavailable},
		{"unexpected check violation", &pgconn.PgError{Code: "23514"}, ErrStoreUnavailable},
		{"unexpected duplicate", &pgconn.PgError{Code: "23505"}, ErrStoreUnavailable},
		{"deadline", context.DeadlineExceeded, ErrStoreUnavailable},
		{"anything else", errors.New("syntax error"), ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("mapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestEncodeMeta(t *testing.T) {
	got, err := encodeMeta(nil)
	if err != nil || got != nil {
		t.Errorf("nil meta: got %v, %v; want nil", got, err)
	}

	got, err = encodeMeta(map[string]any{"urgency_confidence": 0.5})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != `{"urgency_confidence":0.5}` {
		t.Errorf("encoded: got %v", got)
	}

	if _, err := encodeMeta(map[string]any{"bad": func() {}}); !errors.Is(err, ErrValidation) {
		t.Errorf("unencodable meta: error = %v, want ErrValidation", err)
	}
}
