package reports_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/lifeline/internal/reports"
)

func ptr[T any](v T) *T { return &v }

func validCreate(phone, message string) reports.CreateCommand {
	return reports.CreateCommand{
		Phone:   ptr(phone),
		Lat:     ptr(16.0544),
		Lng:     ptr(108.2022),
		Message: ptr(message),
		Ts:      ptr("2025-11-18T08:30:00+07:00"),
		Meta:    map[string]any{"source": "sms"},
	}
}

// runStoreContract exercises the behavior every Store implementation shares.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) reports.Store) {
	ctx := context.Background()

	t.Run("create assigns id and pending status", func(t *testing.T) {
		s := newStore(t)
		urgency := reports.UrgencyHigh
		cmd := validCreate("0901000001", "nước lên tới mái")
		cmd.Urgency = &urgency

		r, err := s.Create(ctx, cmd)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if r.ID == uuid.Nil {
			t.Error("id should be assigned")
		}
		if r.Status != reports.StatusPending {
			t.Errorf("status: got %s, want pending", r.Status)
		}
		if r.Urgency == nil || *r.Urgency != reports.UrgencyHigh {
			t.Errorf("urgency: got %v, want High", r.Urgency)
		}
		if r.Ts == nil || *r.Ts != "2025-11-18T08:30:00+07:00" {
			t.Errorf("ts: got %v", r.Ts)
		}
		if r.Meta["source"] != "sms" {
			t.Errorf("meta: got %v", r.Meta)
		}
		if r.CreatedAt.IsZero() || r.CreatedAt.Location() != time.UTC {
			t.Errorf("created_at should be set in UTC: %v", r.CreatedAt)
		}
		if r.UpdatedAt != nil {
			t.Errorf("updated_at should be absent, got %v", r.UpdatedAt)
		}
	})

	t.Run("create requires fields", func(t *testing.T) {
		s := newStore(t)
		tests := []struct {
			name   string
			mutate func(*reports.CreateCommand)
			field  string
		}{
			{"phone", func(c *reports.CreateCommand) { c.Phone = nil }, "phone"},
			{"blank phone", func(c *reports.CreateCommand) { c.Phone = ptr("  ") }, "phone"},
			{"lat", func(c *reports.CreateCommand) { c.Lat = nil }, "lat"},
			{"lng", func(c *reports.CreateCommand) { c.Lng = nil }, "lng"},
			{"message", func(c *reports.CreateCommand) { c.Message = nil }, "message"},
			{"lat range", func(c *reports.CreateCommand) { c.Lat = ptr(91.0) }, "lat"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cmd := validCreate("0901000002", "help")
				tt.mutate(&cmd)

				_, err := s.Create(ctx, cmd)
				if !errors.Is(err, reports.ErrValidation) {
					t.Fatalf("error = %v, want ErrValidation", err)
				}
			})
		}

		list, _ := s.List(ctx)
		if len(list) != 0 {
			t.Errorf("rejected creates should not persist, got %d reports", len(list))
		}
	})

	t.Run("update by id merges present fields", func(t *testing.T) {
		s := newStore(t)
		created, _ := s.Create(ctx, validCreate("0901000003", "first message"))

		updated, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{
			ID:      ptr(created.ID.String()),
			Message: ptr("second message"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		if updated.Message != "second message" {
			t.Errorf("message: got %q", updated.Message)
		}
		if updated.Lat != created.Lat || updated.Lng != created.Lng {
			t.Errorf("coordinates changed: %v,%v", updated.Lat, updated.Lng)
		}
		if !reflect.DeepEqual(updated.Meta, created.Meta) {
			t.Errorf("meta changed: %v", updated.Meta)
		}
		if updated.UpdatedAt == nil {
			t.Error("updated_at should be set")
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) || updated.ID != created.ID {
			t.Error("id and created_at are immutable")
		}
	})

	t.Run("update replaces meta wholesale", func(t *testing.T) {
		s := newStore(t)
		created, _ := s.Create(ctx, validCreate("0901000004", "message"))

		updated, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{
			ID:   ptr(created.ID.String()),
			Meta: map[string]any{"people": float64(4)},
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		want := map[string]any{"people": float64(4)}
		if !reflect.DeepEqual(updated.Meta, want) {
			t.Errorf("meta: got %v, want %v", updated.Meta, want)
		}
	})

	t.Run("update by phone picks most recent", func(t *testing.T) {
		s := newStore(t)
		older, _ := s.Create(ctx, validCreate("0901000005", "older"))
		time.Sleep(2 * time.Millisecond)
		newer, _ := s.Create(ctx, validCreate("0901000005", "newer"))

		updated, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{
			Phone: ptr("0901000005"),
			Lat:   ptr(10.5),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != newer.ID {
			t.Errorf("matched %s, want newest %s", updated.ID, newer.ID)
		}

		untouched, _ := s.Find(ctx, older.ID)
		if untouched.Lat == 10.5 || untouched.UpdatedAt != nil {
			t.Error("older report should not be modified")
		}
	})

	t.Run("id takes precedence over phone", func(t *testing.T) {
		s := newStore(t)
		a, _ := s.Create(ctx, validCreate("0901000006", "a"))
		b, _ := s.Create(ctx, validCreate("0901000007", "b"))

		updated, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{
			ID:      ptr(a.ID.String()),
			Phone:   ptr(b.Phone),
			Message: ptr("by id"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != a.ID {
			t.Errorf("matched %s, want %s", updated.ID, a.ID)
		}
	})

	t.Run("update errors", func(t *testing.T) {
		s := newStore(t)
		s.Create(ctx, validCreate("0901000008", "message"))

		if _, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{Message: ptr("x")}); !errors.Is(err, reports.ErrValidation) {
			t.Errorf("no id or phone: error = %v, want ErrValidation", err)
		}
		if _, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{ID: ptr(uuid.New().String())}); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("unknown id: error = %v, want ErrNotFound", err)
		}
		if _, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{Phone: ptr("0000000000")}); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("unknown phone: error = %v, want ErrNotFound", err)
		}
		if _, err := s.ResolveAndUpdate(ctx, reports.UpdateCommand{ID: ptr("does-not-exist"), Phone: ptr("0901000008")}); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("non-uuid id: error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list is newest first and stable", func(t *testing.T) {
		s := newStore(t)

		empty, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("empty list should be non-nil and empty: %#v", empty)
		}

		var ids []uuid.UUID
		for i := range 3 {
			r, _ := s.Create(ctx, validCreate(fmt.Sprintf("09020000%02d", i), "m"))
			ids = append(ids, r.ID)
			time.Sleep(2 * time.Millisecond)
		}

		first, _ := s.List(ctx)
		second, _ := s.List(ctx)

		if len(first) != 3 {
			t.Fatalf("list length: got %d, want 3", len(first))
		}
		for i, r := range first {
			if r.ID != ids[len(ids)-1-i] {
				t.Errorf("position %d: got %s, want %s", i, r.ID, ids[len(ids)-1-i])
			}
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("consecutive lists should be identical")
		}
	})

	t.Run("update status", func(t *testing.T) {
		s := newStore(t)
		created, _ := s.Create(ctx, validCreate("0901000009", "message"))

		updated, err := s.UpdateStatus(ctx, reports.StatusCommand{ID: created.ID.String(), Status: reports.StatusDone})
		if err != nil {
			t.Fatalf("update status: %v", err)
		}
		if updated.Status != reports.StatusDone || updated.UpdatedAt == nil {
			t.Errorf("got status %s updated_at %v", updated.Status, updated.UpdatedAt)
		}
		if updated.Message != created.Message {
			t.Error("status transition should not touch other fields")
		}

		if _, err := s.UpdateStatus(ctx, reports.StatusCommand{ID: created.ID.String(), Status: "unknown"}); !errors.Is(err, reports.ErrValidation) {
			t.Errorf("invalid status: error = %v, want ErrValidation", err)
		}
		if _, err := s.UpdateStatus(ctx, reports.StatusCommand{Status: reports.StatusDone}); !errors.Is(err, reports.ErrValidation) {
			t.Errorf("missing id: error = %v, want ErrValidation", err)
		}
		if _, err := s.UpdateStatus(ctx, reports.StatusCommand{ID: uuid.New().String(), Status: reports.StatusHolding}); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("unknown id: error = %v, want ErrNotFound", err)
		}
		if _, err := s.UpdateStatus(ctx, reports.StatusCommand{ID: "does-not-exist", Status: reports.StatusHolding}); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("non-uuid id: error = %v, want ErrNotFound", err)
		}

		found, _ := s.Find(ctx, created.ID)
		if found.Status != reports.StatusDone {
			t.Errorf("rejected transitions must not persist: status %s", found.Status)
		}
	})

	t.Run("find", func(t *testing.T) {
		s := newStore(t)
		created, _ := s.Create(ctx, validCreate("0901000010", "message"))

		found, err := s.Find(ctx, created.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.ID != created.ID || found.Message != created.Message {
			t.Errorf("found %+v", found)
		}

		if _, err := s.Find(ctx, uuid.New()); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("unknown id: error = %v, want ErrNotFound", err)
		}
	})

	t.Run("concurrent creates get distinct ids", func(t *testing.T) {
		s := newStore(t)
		const n = 50

		var mu sync.Mutex
		seen := make(map[uuid.UUID]bool, n)

		var g errgroup.Group
		for i := range n {
			g.Go(func() error {
				r, err := s.Create(ctx, validCreate(fmt.Sprintf("0903%06d", i), "concurrent"))
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				if seen[r.ID] {
					return fmt.Errorf("duplicate id %s", r.ID)
				}
				seen[r.ID] = true
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatal(err)
		}

		list, _ := s.List(ctx)
		if len(list) != n {
			t.Errorf("list length: got %d, want %d", len(list), n)
		}
	})

	t.Run("concurrent status updates serialize", func(t *testing.T) {
		s := newStore(t)
		created, _ := s.Create(ctx, validCreate("0901000011", "message"))

		statuses := []reports.Status{
			reports.StatusProcessing, reports.StatusDone, reports.StatusHolding, reports.StatusPending,
		}

		var g errgroup.Group
		for i := range 40 {
			g.Go(func() error {
				_, err := s.UpdateStatus(ctx, reports.StatusCommand{
					ID:     created.ID.String(),
					Status: statuses[i%len(statuses)],
				})
				return err
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("update status: %v", err)
		}

		final, _ := s.Find(ctx, created.ID)
		if !final.Status.Valid() {
			t.Errorf("final status %q is not valid", final.Status)
		}
		if final.UpdatedAt == nil {
			t.Error("updated_at should be set")
		}
		if final.Message != created.Message || final.Phone != created.Phone {
			t.Error("status updates should not disturb other fields")
		}
	})
}
