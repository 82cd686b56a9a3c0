package users

import (
	"context"

	"jobboard-backend/internal/access"
)

var ErrNotFound = access.ErrNotFound

type Repo interface {
	// UpsertGoogle creates or refreshes the user linked to a Google subject.
	UpsertGoogle(ctx context.Context, user User) (User, error)
	// UpsertUsername returns the user with username, creating it if needed.
	UpsertUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, userID int64) (User, error)
	// Update applies in to the user matching id and filter.
	Update(ctx context.Context, userID int64, filter access.Filter, in UpdateInput) (User, error)
	Profiles(ctx context.Context, ids []int64) (map[int64]Profile, error)
	access.NodeSource
}
