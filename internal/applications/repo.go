package applications

import (
	"context"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/users"
)

var ErrNotFound = access.ErrNotFound

// Guard authorizes an application against the rows the repository locked:
// the opportunity, and the owner of the attached resume (zero when there is
// no resume or it does not exist).
type Guard func(opportunity access.Subject, resumeOwnerID int64) error

type Repo interface {
	// Create locks the opportunity and resume, runs guard and inserts. A second
	// application by the same user to the same opportunity is a validation error.
	Create(ctx context.Context, app Application, guard Guard) (Application, error)
	Get(ctx context.Context, applicationID int64) (Application, error)
	// ListByOpportunity lists applications newest first; filter.PosterID
	// restricts them to opportunities posted by that user.
	ListByOpportunity(ctx context.Context, opportunityID int64, filter access.Filter, limit, offset int) ([]Application, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Application, error)
	GetByUserOpportunity(ctx context.Context, userID, opportunityID int64) (Application, error)
	Delete(ctx context.Context, applicationID int64, filter access.Filter) error
	DeleteByUserOpportunity(ctx context.Context, userID, opportunityID int64) error
	access.NodeSource
}

// ProfileSource resolves applicant profiles for the poster's views.
type ProfileSource interface {
	Profiles(ctx context.Context, ids []int64) (map[int64]users.Profile, error)
}

func applicationRef(id int64) access.Ref {
	return access.Ref{Kind: access.KindApplication, ID: id}
}

func opportunityRef(id int64) access.Ref {
	return access.Ref{Kind: access.KindOpportunity, ID: id}
}

func resumeRef(id int64) access.Ref {
	return access.Ref{Kind: access.KindResume, ID: id}
}
