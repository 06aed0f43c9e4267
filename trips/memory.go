package trips

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps trips in memory. Used by tests and as a fallback when no
// database is configured. Id assignment is guarded by the mutex so concurrent
// creates never collide.
type MemoryStore struct {
	mu     sync.Mutex
	lastID int
	items  map[int]Trip
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[int]Trip{}}
}

func (s *MemoryStore) Create(t *Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	t.ID = s.lastID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.items[t.ID] = *t
	return nil
}

func (s *MemoryStore) GetByID(id int) (*Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *MemoryStore) Update(t *Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[t.ID]; !ok {
		return ErrTripNotFound
	}
	s.items[t.ID] = *t
	return nil
}

func (s *MemoryStore) ListByUser(userID int) ([]Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Trip{}
	for _, t := range s.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) CountByUser(userID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.items {
		if t.UserID == userID {
			n++
		}
	}
	return n, nil
}
