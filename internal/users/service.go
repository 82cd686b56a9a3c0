package users

import (
	"context"
	"errors"
	"strings"

	"jobboard-backend/internal/access"
)

type Service struct {
	Repo   Repo
	Access *access.Evaluator
}

func NewService(repo Repo, ev *access.Evaluator) *Service {
	return &Service{Repo: repo, Access: ev}
}

// UpsertFromGoogle links a Google identity to a local user, creating it on first login.
func (s *Service) UpsertFromGoogle(ctx context.Context, sub, email, givenName, familyName string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return User{}, errors.New("google subject is required")
	}
	username := strings.TrimSpace(email)
	if username == "" {
		username = "google-" + sub
	}
	return s.Repo.UpsertGoogle(ctx, User{
		Username:  username,
		FirstName: givenName,
		LastName:  familyName,
		Email:     email,
		GoogleSub: sub,
	})
}

// EnsureUsername returns the user with the given username, creating it if needed.
func (s *Service) EnsureUsername(ctx context.Context, username string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, access.Invalid("username is required")
	}
	return s.Repo.UpsertUsername(ctx, username)
}

// Current returns the caller's own profile.
func (s *Service) Current(ctx context.Context, actor access.Actor) (User, error) {
	if !actor.Authenticated() {
		return User{}, access.ErrUnauthenticated
	}
	return s.Repo.GetByID(ctx, actor.UserID)
}

// Update changes a user profile. Only the user themselves may do so.
func (s *Service) Update(ctx context.Context, actor access.Actor, userID int64, in UpdateInput) (User, error) {
	if _, err := s.Access.Check(ctx, actor, access.Ref{Kind: access.KindUser, ID: userID}, access.OpUpdate); err != nil {
		return User{}, err
	}
	return s.Repo.Update(ctx, userID, access.MutationFilter(actor, access.KindUser), in)
}

// Profiles returns public profiles keyed by id. Unknown ids are skipped.
func (s *Service) Profiles(ctx context.Context, ids []int64) (map[int64]Profile, error) {
	return s.Repo.Profiles(ctx, ids)
}
