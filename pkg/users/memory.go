package users

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local development
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string // email -> id
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := s.byEmail[email]; exists {
		return ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = email

	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[email] = u.ID
	return nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string, includePassword bool) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	if !includePassword {
		cp.PasswordHash = ""
	}
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[u.ID]
	if !ok {
		return ErrNotFound
	}

	email := strings.ToLower(u.Email)
	if email != existing.Email {
		if _, taken := s.byEmail[email]; taken {
			return ErrEmailTaken
		}
		delete(s.byEmail, existing.Email)
		s.byEmail[email] = u.ID
	}
	u.Email = email

	// An empty hash on save means "leave the stored credential alone"
	if u.PasswordHash == "" {
		u.PasswordHash = existing.PasswordHash
	}

	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byEmail, u.Email)
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, opts ListOptions) ([]*User, int, error) {
	opts.Normalize()

	s.mu.RLock()
	matched := make([]*User, 0, len(s.byID))
	needle := strings.ToLower(opts.Search)
	for _, u := range s.byID {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(u.Email, needle) {
			continue
		}
		cp := *u
		cp.PasswordHash = ""
		matched = append(matched, &cp)
	}
	s.mu.RUnlock()

	sortUsers(matched, opts.SortBy, opts.SortOrder)

	total := len(matched)
	start := (opts.Page - 1) * opts.Limit
	if start >= total {
		return []*User{}, total, nil
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func sortUsers(list []*User, sortBy string, order SortOrder) {
	less := func(a, b *User) bool {
		switch sortBy {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "email":
			return a.Email < b.Email
		case "role":
			return a.Role < b.Role
		case "lastLogin":
			at, bt := time.Time{}, time.Time{}
			if a.LastLogin != nil {
				at = *a.LastLogin
			}
			if b.LastLogin != nil {
				bt = *b.LastLogin
			}
			return at.Before(bt)
		default: // createdAt
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if order == SortAsc {
			return less(list[i], list[j])
		}
		return less(list[j], list[i])
	})
}
