package applications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/server/params"
)

// MemoryRepo keeps applications in process. Opportunities and Resumes answer
// the ownership lookups Create and ListByOpportunity need; bootstrap wires
// them to the sibling memory repositories.
type MemoryRepo struct {
	mu           sync.RWMutex
	nextID       int64
	applications map[int64]Application

	Opportunities access.NodeSource
	Resumes       access.NodeSource
}

func NewMemoryRepo(opportunities, resumes access.NodeSource) *MemoryRepo {
	return &MemoryRepo{
		applications:  make(map[int64]Application),
		Opportunities: opportunities,
		Resumes:       resumes,
	}
}

// Create holds the write lock across the lookups, guard and insert so that
// two concurrent applications cannot both pass the duplicate check.
func (r *MemoryRepo) Create(ctx context.Context, app Application, guard Guard) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	opp, err := r.Opportunities.Node(ctx, opportunityRef(app.OpportunityID))
	if err != nil {
		return Application{}, err
	}
	var resumeOwner int64
	if app.ResumeID != nil {
		node, err := r.Resumes.Node(ctx, resumeRef(*app.ResumeID))
		switch {
		case err == nil:
			resumeOwner = node.OwnerID
		case !errors.Is(err, access.ErrNotFound):
			return Application{}, err
		}
	}
	subject := access.Subject{Ref: opportunityRef(app.OpportunityID), OwnerID: opp.OwnerID, Active: opp.Active}
	if err := guard(subject, resumeOwner); err != nil {
		return Application{}, err
	}

	for _, existing := range r.applications {
		if existing.UserID == app.UserID && existing.OpportunityID == app.OpportunityID {
			return Application{}, access.Duplicate()
		}
	}
	r.nextID++
	app.ID = r.nextID
	app.CreatedAt = time.Now().UTC()
	r.applications[app.ID] = app
	return app, nil
}

func (r *MemoryRepo) Get(ctx context.Context, applicationID int64) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.applications[applicationID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) ListByOpportunity(ctx context.Context, opportunityID int64, filter access.Filter, limit, offset int) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opp, err := r.Opportunities.Node(ctx, opportunityRef(opportunityID))
	if err != nil {
		if errors.Is(err, access.ErrNotFound) {
			return []Application{}, nil
		}
		return nil, err
	}
	if !filter.Allows(0, opp.OwnerID, true) {
		return []Application{}, nil
	}
	return r.collect(func(a Application) bool { return a.OpportunityID == opportunityID }, limit, offset), nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.collect(func(a Application) bool { return a.UserID == userID }, limit, offset), nil
}

func (r *MemoryRepo) collect(match func(Application) bool, limit, offset int) []Application {
	r.mu.RLock()
	out := make([]Application, 0)
	for _, a := range r.applications {
		if match(a) {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return params.Window(out, limit, offset)
}

func (r *MemoryRepo) GetByUserOpportunity(ctx context.Context, userID, opportunityID int64) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.applications {
		if a.UserID == userID && a.OpportunityID == opportunityID {
			return a, nil
		}
	}
	return Application{}, ErrNotFound
}

func (r *MemoryRepo) Delete(ctx context.Context, applicationID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[applicationID]
	if !ok || !filter.Allows(a.UserID, 0, true) {
		return ErrNotFound
	}
	delete(r.applications, applicationID)
	return nil
}

func (r *MemoryRepo) DeleteByUserOpportunity(ctx context.Context, userID, opportunityID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.applications {
		if a.UserID == userID && a.OpportunityID == opportunityID {
			delete(r.applications, id)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteByOpportunity removes the applications of a deleted opportunity.
func (r *MemoryRepo) DeleteByOpportunity(ctx context.Context, opportunityID int64) error {
	r.deleteWhere(func(a Application) bool { return a.OpportunityID == opportunityID })
	return ctx.Err()
}

// DeleteByResume removes the applications that attached a deleted resume.
func (r *MemoryRepo) DeleteByResume(ctx context.Context, resumeID int64) error {
	r.deleteWhere(func(a Application) bool { return a.ResumeID != nil && *a.ResumeID == resumeID })
	return ctx.Err()
}

func (r *MemoryRepo) deleteWhere(match func(Application) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.applications {
		if match(a) {
			delete(r.applications, id)
		}
	}
}

// CountByOpportunity feeds the applicant_count of memory opportunity listings.
func (r *MemoryRepo) CountByOpportunity(ctx context.Context, ids []int64) (map[int64]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int, len(ids))
	for _, a := range r.applications {
		if want[a.OpportunityID] {
			out[a.OpportunityID]++
		}
	}
	return out, nil
}

func (r *MemoryRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	if err := ctx.Err(); err != nil {
		return access.Node{}, err
	}
	if ref.Kind != access.KindApplication {
		return access.Node{}, ErrNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.applications[ref.ID]
	if !ok {
		return access.Node{}, ErrNotFound
	}
	return access.Node{OwnerID: a.UserID, Parent: opportunityRef(a.OpportunityID)}, nil
}

var _ Repo = (*MemoryRepo)(nil)
