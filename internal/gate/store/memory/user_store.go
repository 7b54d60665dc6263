package memory

import (
	"context"
	"strings"
	"sync"

	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

type UserStore struct {
	mu     sync.RWMutex
	users  []types.User
	nextID int64
}

// NewUserStore builds an in-memory roster pre-populated with the given users.
// Intended for tests and dev environments.
func NewUserStore(seed ...types.User) *UserStore {
	s := &UserStore{nextID: 1}
	for _, u := range seed {
		u.ID = s.nextID
		s.nextID++
		s.users = append(s.users, u)
	}
	return s
}

func (s *UserStore) GetByUID(_ context.Context, uid string) (types.User, error) {
	uid = strings.TrimSpace(uid)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.UID == uid {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (s *UserStore) Insert(_ context.Context, u types.User) error {
	u.UID = strings.TrimSpace(u.UID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.UID == u.UID {
			return store.ErrDuplicateUID
		}
	}
	u.ID = s.nextID
	s.nextID++
	s.users = append(s.users, u)
	return nil
}

func (s *UserStore) DeleteByUID(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.UID == uid {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *UserStore) List(_ context.Context) ([]types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.User, len(s.users))
	copy(out, s.users)
	return out, nil
}
