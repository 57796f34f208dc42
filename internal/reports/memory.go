package reports

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps reports in process memory. Records are keyed by id with
// a phone index kept in insertion order. Callers only ever receive copies.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Report
	order   []uuid.UUID
	byPhone map[string][]uuid.UUID
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*Report),
		byPhone: make(map[string][]uuid.UUID),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(ctx context.Context, cmd CreateCommand) (*Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	r := &Report{
		Phone:   *cmd.Phone,
		Lat:     *cmd.Lat,
		Lng:     *cmd.Lng,
		Message: *cmd.Message,
		Meta:    cloneMeta(cmd.Meta),
		Status:  StatusPending,
	}
	if cmd.Ts != nil {
		ts := *cmd.Ts
		r.Ts = &ts
	}
	if cmd.Urgency != nil {
		u := *cmd.Urgency
		r.Urgency = &u
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.newID()
	r.CreatedAt = s.now()

	s.records[r.ID] = r
	s.order = append(s.order, r.ID)
	s.byPhone[r.Phone] = append(s.byPhone[r.Phone], r.ID)

	return r.clone(), nil
}

func (s *MemoryStore) ResolveAndUpdate(ctx context.Context, cmd UpdateCommand) (*Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.resolve(cmd)
	if err != nil {
		return nil, err
	}

	if cmd.Message != nil {
		r.Message = *cmd.Message
	}
	if cmd.Lat != nil {
		r.Lat = *cmd.Lat
	}
	if cmd.Lng != nil {
		r.Lng = *cmd.Lng
	}
	if cmd.Meta != nil {
		r.Meta = cloneMeta(cmd.Meta)
	}
	s.touch(r)

	return r.clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Report, error) {
	s.mu.RLock()
	out := make([]Report, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, *s.records[s.order[i]].clone())
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Report) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return out, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, cmd StatusCommand) (*Report, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id, err := ParseID(cmd.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}

	r.Status = cmd.Status
	s.touch(r)

	return r.clone(), nil
}

func (s *MemoryStore) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.clone(), nil
}

// resolve must be called with mu held. A phone match picks the latest
// insertion, which is also the latest creation since both happen under mu.
func (s *MemoryStore) resolve(cmd UpdateCommand) (*Report, error) {
	if cmd.ByID() {
		id, err := ParseID(*cmd.ID)
		if err != nil {
			return nil, err
		}
		r, ok := s.records[id]
		if !ok {
			return nil, ErrNotFound
		}
		return r, nil
	}

	ids := s.byPhone[*cmd.Phone]
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	return s.records[ids[len(ids)-1]], nil
}

func (s *MemoryStore) touch(r *Report) {
	now := s.now()
	r.UpdatedAt = &now
}

// newID must be called with mu held.
func (s *MemoryStore) newID() uuid.UUID {
	for {
		id := uuid.New()
		if _, taken := s.records[id]; !taken {
			return id
		}
	}
}
