package users

import (
	"context"
	"sync"
	"time"

	"jobboard-backend/internal/access"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[int64]User)}
}

func (r *MemoryRepo) UpsertGoogle(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.users {
		if existing.GoogleSub == user.GoogleSub {
			existing.Email = user.Email
			r.users[id] = existing
			return existing, nil
		}
	}
	return r.insertLocked(user), nil
}

func (r *MemoryRepo) UpsertUsername(ctx context.Context, username string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == username {
			return existing, nil
		}
	}
	return r.insertLocked(User{Username: username}), nil
}

func (r *MemoryRepo) insertLocked(user User) User {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = user
	return user
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) Update(ctx context.Context, userID int64, filter access.Filter, in UpdateInput) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok || !filter.Allows(user.ID, 0, true) {
		return User{}, ErrNotFound
	}
	user = in.apply(user)
	r.users[userID] = user
	return user, nil
}

func (r *MemoryRepo) Profiles(ctx context.Context, ids []int64) (map[int64]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]Profile, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out[id] = user.Profile()
		}
	}
	return out, nil
}

// Node answers ownership lookups: a user owns itself.
func (r *MemoryRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	user, err := r.GetByID(ctx, ref.ID)
	if err != nil {
		return access.Node{}, err
	}
	return access.Node{OwnerID: user.ID}, nil
}

var _ Repo = (*MemoryRepo)(nil)
