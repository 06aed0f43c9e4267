package trips

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_CreateAssignsMonotonicIDs(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Create(&Trip{UserID: 1, Destination: "Lisbon"})
		}()
	}
	wg.Wait()
	seen := map[int]bool{}
	for id := 1; id <= 20; id++ {
		trip, err := store.GetByID(id)
		if err != nil || trip == nil {
			t.Fatalf("trip %d missing after concurrent creates", id)
		}
		if seen[trip.ID] {
			t.Fatalf("duplicate id %d", trip.ID)
		}
		seen[trip.ID] = true
	}
}

func TestMemoryStore_GetByIDUnknown(t *testing.T) {
	store := NewMemoryStore()
	trip, err := store.GetByID(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestMemoryStore_UpdateUnknownFails(t *testing.T) {
	store := NewMemoryStore()
	err := store.Update(&Trip{ID: 7, Destination: "Kyoto"})
	if !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestMemoryStore_ListByUserNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	base := time.Now()
	for i := 0; i < 3; i++ {
		trip := &Trip{UserID: 5, Destination: "Rome", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := store.Create(trip); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_ = store.Create(&Trip{UserID: 9, Destination: "Oslo", CreatedAt: base})

	list, err := store.ListByUser(5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatalf("list not newest-first: %v then %v", list[i-1].CreatedAt, list[i].CreatedAt)
		}
	}

	n, err := store.CountByUser(5)
	if err != nil || n != 3 {
		t.Fatalf("count: expected 3, got %d (%v)", n, err)
	}
}
