// Package memory keeps the directory in process memory. State lives for the
// lifetime of the process and starts from the embedded seed data; each
// instance of a multi-instance deployment has its own independent copy.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

type Store struct {
	mu         sync.RWMutex
	seed       *domain.Dataset
	categories []domain.Category
	links      []domain.Link
	users      []domain.User
	now        func() time.Time
}

// New returns a store holding a copy of seed. A nil seed starts empty.
func New(seed *domain.Dataset) *Store {
	if seed == nil {
		seed = &domain.Dataset{}
	}
	s := &Store{seed: seed.Clone(), now: time.Now}
	s.LoadDataset(seed)
	return s
}

// LoadDataset replaces everything the store holds.
func (s *Store) LoadDataset(ds *domain.Dataset) {
	c := ds.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = c.CategoryList()
	s.links = c.Links
	s.users = c.Users
}

// Reset returns the store to its seed.
func (s *Store) Reset() {
	s.LoadDataset(s.seed)
}

// Dataset returns a copy of the current contents.
func (s *Store) Dataset() *domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds := &domain.Dataset{Categories: s.categories, Links: s.links, Users: s.users}
	return ds.Clone()
}

func (s *Store) ListLinks(ctx context.Context) ([]domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Link(nil), s.links...), nil
}

func (s *Store) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.links {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateLink(ctx context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link.ID = domain.NextLinkID(s.links, s.now())
	s.links = append(s.links, *link)
	return nil
}

func (s *Store) UpdateLink(ctx context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.links {
		if s.links[i].ID == link.ID {
			link.CreatedAt = s.links[i].CreatedAt
			s.links[i] = *link
			return nil
		}
	}
	return fmt.Errorf("link %s: %w", link.ID, domain.ErrNotFound)
}

func (s *Store) DeleteLink(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.links {
		if s.links[i].ID == id {
			s.links = append(s.links[:i], s.links[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("link %s: %w", id, domain.ErrNotFound)
}

func (s *Store) Categories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...), nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) FindUserByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Role == role {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = domain.NormalizeEmail(user.Email)
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.NewValidationError("email", "already registered")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *Store) DeleteUsersByRole(ctx context.Context, role domain.Role) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.users[:0]
	removed := 0
	for _, u := range s.users {
		if u.Role == role {
			removed++
			continue
		}
		kept = append(kept, u)
	}
	s.users = kept
	return removed, nil
}

var (
	_ ports.Store         = (*Store)(nil)
	_ ports.DatasetLoader = (*Store)(nil)
)
