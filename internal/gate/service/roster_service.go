package service

import (
	"context"
	"errors"
	"strings"

	"stockgate/internal/gate/store"
	"stockgate/internal/gate/types"
)

var (
	ErrInvalidName = errors.New("name is required")
)

// RosterService covers the user-manager screen: list, add, delete.
type RosterService struct {
	users store.UserStore
}

func NewRosterService(users store.UserStore) *RosterService {
	return &RosterService{users: users}
}

// AddUser validates and inserts a roster entry.  An unrecognized role
// defaults to User.  Returns store.ErrDuplicateUID when the uid is taken.
func (s *RosterService) AddUser(ctx context.Context, uid, name, role string) error {
	uid = strings.TrimSpace(uid)
	name = strings.TrimSpace(name)

	if uid == "" {
		return ErrInvalidUID
	}
	if name == "" {
		return ErrInvalidName
	}

	return s.users.Insert(ctx, types.User{
		UID:  uid,
		Name: name,
		Role: types.ParseRole(strings.TrimSpace(role)),
	})
}

func (s *RosterService) RemoveUser(ctx context.Context, uid string) error {
	return s.users.DeleteByUID(ctx, uid)
}

func (s *RosterService) ListUsers(ctx context.Context) ([]types.User, error) {
	return s.users.List(ctx)
}
