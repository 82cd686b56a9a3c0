package opportunities

import (
	"context"

	"jobboard-backend/internal/access"
)

var ErrNotFound = access.ErrNotFound

// Guard authorizes a write against the opportunity row as locked by the
// repository's transaction.
type Guard func(opportunity access.Subject) error

type Repo interface {
	Create(ctx context.Context, o Opportunity) (Opportunity, error)
	Get(ctx context.Context, opportunityID int64) (Opportunity, error)
	// List returns opportunities passing filter, newest first.
	List(ctx context.Context, filter access.Filter, q Query, limit, offset int) ([]Opportunity, error)
	Update(ctx context.Context, opportunityID int64, filter access.Filter, patch Patch) (Opportunity, error)
	Delete(ctx context.Context, opportunityID int64, filter access.Filter) error

	// CreateSaved locks the opportunity, runs guard and inserts the saved row.
	// A second save of the same opportunity is a validation error.
	CreateSaved(ctx context.Context, userID, opportunityID int64, guard Guard) (Saved, error)
	ListSaved(ctx context.Context, userID int64, limit, offset int) ([]Saved, error)
	GetSaved(ctx context.Context, userID, opportunityID int64) (Saved, error)
	DeleteSaved(ctx context.Context, userID, opportunityID int64) error

	access.NodeSource
}

// Cascader removes rows that reference a deleted opportunity. Postgres does
// this with foreign keys; the memory repository calls it explicitly.
type Cascader interface {
	DeleteByOpportunity(ctx context.Context, opportunityID int64) error
}

// CompanyNamer and ApplicantCounter fill derived fields for memory listings.
type CompanyNamer interface {
	Names(ctx context.Context, ids []int64) (map[int64]string, error)
}

type ApplicantCounter interface {
	CountByOpportunity(ctx context.Context, ids []int64) (map[int64]int, error)
}

func opportunityRef(id int64) access.Ref {
	return access.Ref{Kind: access.KindOpportunity, ID: id}
}
