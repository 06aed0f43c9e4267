package accounts

import (
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps accounts in memory, mainly for tests and database-less
// local runs. The mutex covers the whole read-modify-write of a credit
// decrement, so concurrent consumes cannot over-commit.
type MemoryStore struct {
	mu     sync.Mutex
	lastID int
	items  map[int]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[int]User{}}
}

func (s *MemoryStore) GetByID(id int) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryStore) GetByUsername(username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if strings.EqualFold(u.Username, username) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetByProviderID(providerID, uid string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if u.ProviderID == providerID && u.UID == uid {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Create(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	u.ID = s.lastID
	u.PackageType = PackageFree
	u.Credits = FiniteCredits(StarterCredits)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.items[u.ID] = *u
	return nil
}

func (s *MemoryStore) LinkExternalIdentity(id int, providerID, uid, photoURL, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return ErrAccountNotFound
	}
	u.ProviderID = providerID
	u.UID = uid
	if photoURL != "" {
		u.PhotoURL = photoURL
	}
	if displayName != "" {
		u.DisplayName = displayName
	}
	s.items[id] = u
	return nil
}

func (s *MemoryStore) UpdateStripeCustomerID(id int, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return ErrAccountNotFound
	}
	u.StripeCustomerID = customerID
	s.items[id] = u
	return nil
}

func (s *MemoryStore) SetPackage(id int, packageType string, credits Credits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return ErrAccountNotFound
	}
	u.PackageType = packageType
	u.Credits = credits
	s.items[id] = u
	return nil
}

func (s *MemoryStore) DecrementCredits(id int) (Credits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return Credits{}, ErrAccountNotFound
	}
	u.Credits = u.Credits.Consume()
	s.items[id] = u
	return u.Credits, nil
}
