package opportunities

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

// List returns active opportunities, optionally narrowed by q.
func (s *Service) List(ctx context.Context, q Query, limit, offset int) ([]Opportunity, error) {
	q.Position = strings.TrimSpace(q.Position)
	q.Location = strings.TrimSpace(q.Location)
	return s.Repo.List(ctx, access.PublicListFilter(access.KindOpportunity), q, limit, offset)
}

func (s *Service) Get(ctx context.Context, actor access.Actor, opportunityID int64) (Opportunity, error) {
	if _, err := s.Access.Check(ctx, actor, opportunityRef(opportunityID), access.OpRead); err != nil {
		return Opportunity{}, err
	}
	return s.Repo.Get(ctx, opportunityID)
}

func (s *Service) Create(ctx context.Context, actor access.Actor, in Input) (Opportunity, error) {
	if !actor.Authenticated() {
		return Opportunity{}, access.ErrUnauthenticated
	}
	company, err := s.Access.Check(ctx, actor, access.Ref{Kind: access.KindCompany, ID: in.CompanyID}, access.OpRead)
	if err != nil {
		if errors.Is(err, access.ErrNotFound) {
			return Opportunity{}, access.Invalid("company does not exist")
		}
		return Opportunity{}, err
	}
	if err := s.Access.AllowCreate(actor, access.KindOpportunity, company); err != nil {
		return Opportunity{}, err
	}
	return s.Repo.Create(ctx, in.opportunity(actor.UserID))
}

func (s *Service) Update(ctx context.Context, actor access.Actor, opportunityID int64, patch Patch) (Opportunity, error) {
	if _, err := s.Access.Check(ctx, actor, opportunityRef(opportunityID), access.OpUpdate); err != nil {
		return Opportunity{}, err
	}
	return s.Repo.Update(ctx, opportunityID, access.MutationFilter(actor, access.KindOpportunity), patch)
}

func (s *Service) Delete(ctx context.Context, actor access.Actor, opportunityID int64) error {
	if _, err := s.Access.Check(ctx, actor, opportunityRef(opportunityID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, opportunityID, access.MutationFilter(actor, access.KindOpportunity))
}

// Posted lists every opportunity the user posted, inactive ones included.
func (s *Service) Posted(ctx context.Context, actor access.Actor, userID int64, limit, offset int) ([]Opportunity, error) {
	if err := s.Access.AllowScope(actor, access.KindOpportunity, userID); err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, access.OwnedFilter(actor), Query{}, limit, offset)
}

func (s *Service) ListSaved(ctx context.Context, actor access.Actor, userID int64, limit, offset int) ([]Saved, error) {
	if err := s.Access.AllowScope(actor, access.KindSaved, userID); err != nil {
		return nil, err
	}
	out, err := s.Repo.ListSaved(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Opportunity = s.Visible(actor, out[i].Opportunity)
	}
	return out, nil
}

func (s *Service) Save(ctx context.Context, actor access.Actor, userID int64, in SavedInput) (Saved, error) {
	if err := s.Access.AllowScope(actor, access.KindSaved, userID); err != nil {
		return Saved{}, err
	}
	guard := func(opportunity access.Subject) error {
		return s.Access.AllowCreate(actor, access.KindSaved, opportunity)
	}
	return s.Repo.CreateSaved(ctx, userID, in.OpportunityID, guard)
}

func (s *Service) GetSaved(ctx context.Context, actor access.Actor, userID, opportunityID int64) (Saved, error) {
	if err := s.Access.AllowScope(actor, access.KindSaved, userID); err != nil {
		return Saved{}, err
	}
	saved, err := s.Repo.GetSaved(ctx, userID, opportunityID)
	if err != nil {
		return Saved{}, err
	}
	saved.Opportunity = s.Visible(actor, saved.Opportunity)
	return saved, nil
}

func (s *Service) DeleteSaved(ctx context.Context, actor access.Actor, userID, opportunityID int64) error {
	if err := s.Access.AllowScope(actor, access.KindSaved, userID); err != nil {
		return err
	}
	return s.Repo.DeleteSaved(ctx, userID, opportunityID)
}

// Visible returns o when actor may read it and nil otherwise, for views that
// embed an opportunity that may have been deactivated since.
func (s *Service) Visible(actor access.Actor, o *Opportunity) *Opportunity {
	if o == nil {
		return nil
	}
	subject := access.Subject{Ref: opportunityRef(o.ID), OwnerID: o.UserID, Active: o.IsActive}
	if s.Access.Allow(actor, subject, access.OpRead) != nil {
		return nil
	}
	return o
}
