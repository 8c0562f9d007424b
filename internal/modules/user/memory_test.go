package user

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// memRepo is an in-memory Repository for tests.
type memRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*User
}

func newMemRepo() *memRepo { return &memRepo{users: map[uuid.UUID]*User{}} }

func (m *memRepo) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return ErrUsernameTaken
		}
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	m.mu.Lock()
	for _, u := range m.users {
		if u.Username == login {
			cp := *u
			m.mu.Unlock()
			return &cp, nil
		}
	}
	m.mu.Unlock()
	return m.GetUserByEmail(ctx, login)
}

func (m *memRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}
