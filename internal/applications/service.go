package applications

import (
	"context"
	"fmt"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/opportunities"
)

var errForeignResume = access.Invalid("The resume must belong to the applicant.")

type Service struct {
	Repo          Repo
	Access        *access.Evaluator
	Profiles      ProfileSource
	Opportunities *opportunities.Service
}

// Apply creates the actor's application to an opportunity. The authorization
// guard runs inside the repository's transaction.
func (s *Service) Apply(ctx context.Context, actor access.Actor, opportunityID int64, in Input) (Application, error) {
	if !actor.Authenticated() {
		return Application{}, access.ErrUnauthenticated
	}
	guard := func(opportunity access.Subject, resumeOwnerID int64) error {
		if err := s.Access.AllowCreate(actor, access.KindApplication, opportunity); err != nil {
			return err
		}
		if in.ResumeID != nil && resumeOwnerID != actor.UserID {
			return errForeignResume
		}
		return nil
	}
	return s.Repo.Create(ctx, in.application(actor.UserID, opportunityID), guard)
}

// ListForOpportunity is the poster's view of who applied.
func (s *Service) ListForOpportunity(ctx context.Context, actor access.Actor, opportunityID int64, limit, offset int) ([]Application, error) {
	opp, err := s.Access.Check(ctx, actor, opportunityRef(opportunityID), access.OpRead)
	if err != nil {
		return nil, err
	}
	if err := s.Access.AllowScope(actor, access.KindApplication, opp.OwnerID); err != nil {
		return nil, err
	}
	out, err := s.Repo.ListByOpportunity(ctx, opportunityID, access.PosterFilter(actor), limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.withApplicants(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get is readable by the applicant and by the opportunity poster.
func (s *Service) Get(ctx context.Context, actor access.Actor, applicationID int64) (Application, error) {
	if _, err := s.Access.Check(ctx, actor, applicationRef(applicationID), access.OpRead); err != nil {
		return Application{}, err
	}
	app, err := s.Repo.Get(ctx, applicationID)
	if err != nil {
		return Application{}, err
	}
	list := []Application{app}
	if err := s.withApplicants(ctx, list); err != nil {
		return Application{}, err
	}
	return list[0], nil
}

func (s *Service) Delete(ctx context.Context, actor access.Actor, applicationID int64) error {
	if _, err := s.Access.Check(ctx, actor, applicationRef(applicationID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, applicationID, access.MutationFilter(actor, access.KindApplication))
}

// Applied lists the user's own applications with the opportunity embedded.
func (s *Service) Applied(ctx context.Context, actor access.Actor, userID int64, limit, offset int) ([]Application, error) {
	if err := s.Access.AllowScope(actor, access.KindApplication, userID); err != nil {
		return nil, err
	}
	out, err := s.Repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.withOpportunity(ctx, actor, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) GetApplied(ctx context.Context, actor access.Actor, userID, opportunityID int64) (Application, error) {
	if err := s.Access.AllowScope(actor, access.KindApplication, userID); err != nil {
		return Application{}, err
	}
	app, err := s.Repo.GetByUserOpportunity(ctx, userID, opportunityID)
	if err != nil {
		return Application{}, err
	}
	if err := s.withOpportunity(ctx, actor, &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *Service) DeleteApplied(ctx context.Context, actor access.Actor, userID, opportunityID int64) error {
	if err := s.Access.AllowScope(actor, access.KindApplication, userID); err != nil {
		return err
	}
	return s.Repo.DeleteByUserOpportunity(ctx, userID, opportunityID)
}

func (s *Service) withApplicants(ctx context.Context, list []Application) error {
	if s.Profiles == nil || len(list) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.UserID)
	}
	profiles, err := s.Profiles.Profiles(ctx, ids)
	if err != nil {
		return fmt.Errorf("applicant profiles: %w", err)
	}
	for i := range list {
		if p, ok := profiles[list[i].UserID]; ok {
			p := p
			list[i].Applicant = &p
		}
	}
	return nil
}

func (s *Service) withOpportunity(ctx context.Context, actor access.Actor, app *Application) error {
	if s.Opportunities == nil {
		return nil
	}
	o, err := s.Opportunities.Repo.Get(ctx, app.OpportunityID)
	if err != nil {
		return fmt.Errorf("opportunity %d: %w", app.OpportunityID, err)
	}
	app.Opportunity = s.Opportunities.Visible(actor, &o)
	return nil
}
