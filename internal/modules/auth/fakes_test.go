package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

type fakeUsers struct {
	mu    sync.Mutex
	users []*user.User
}

func (f *fakeUsers) add(username, email, password string, role user.Role) *user.User {
	hash, err := user.HashPassword(password)
	if err != nil {
		panic(err)
	}
	u := &user.User{ID: uuid.New(), Username: username, Email: email, PasswordHash: hash, Role: role}
	f.mu.Lock()
	f.users = append(f.users, u)
	f.mu.Unlock()
	return u
}

func (f *fakeUsers) CreateUser(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUsers) find(match func(*user.User) bool) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return f.find(func(u *user.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	return f.find(func(u *user.User) bool { return strings.EqualFold(u.Email, email) })
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, login string) (*user.User, error) {
	return f.find(func(u *user.User) bool { return u.Username == login || strings.EqualFold(u.Email, login) })
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return user.ErrNotFound
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*ResetToken
	users  *fakeUsers
}

func newFakeTokens(users *fakeUsers) *fakeTokens {
	return &fakeTokens{tokens: map[uuid.UUID]*ResetToken{}, users: users}
}

func (f *fakeTokens) CreateResetToken(_ context.Context, t *ResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *t
	f.tokens[t.ID] = &cp
	return nil
}

func (f *fakeTokens) GetUnusedResetToken(_ context.Context, hash string) (*ResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.TokenHash == hash && !t.Used {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrTokenInvalid
}

func (f *fakeTokens) DeleteResetToken(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, id)
	return nil
}

func (f *fakeTokens) ConsumeResetToken(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	t, ok := f.tokens[tokenID]
	if !ok || t.Used {
		f.mu.Unlock()
		return ErrTokenInvalid
	}
	t.Used = true
	f.mu.Unlock()
	return f.users.UpdatePasswordHash(ctx, userID, passwordHash)
}

func (f *fakeTokens) DeleteExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, t := range f.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeTokens) all() []ResetToken {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ResetToken
	for _, t := range f.tokens {
		out = append(out, *t)
	}
	return out
}

// recorder captures published events synchronously.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) resetRequests() []events.PasswordResetRequested {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.PasswordResetRequested
	for _, ev := range r.events {
		if req, ok := ev.(events.PasswordResetRequested); ok {
			out = append(out, req)
		}
	}
	return out
}
