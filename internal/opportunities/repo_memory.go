package opportunities

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/server/params"
)

type MemoryRepo struct {
	mu            sync.RWMutex
	nextID        int64
	opportunities map[int64]Opportunity
	saved         map[int64]Saved

	// Wired by bootstrap; each may be nil.
	Companies  CompanyNamer
	Applicants ApplicantCounter
	Cascade    Cascader
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		opportunities: make(map[int64]Opportunity),
		saved:         make(map[int64]Saved),
	}
}

func (r *MemoryRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepo) Create(ctx context.Context, o Opportunity) (Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return Opportunity{}, err
	}
	r.mu.Lock()
	o.ID = r.id()
	o.CreatedAt = time.Now().UTC()
	o.CompanyName, o.ApplicantCount = "", 0
	r.opportunities[o.ID] = o
	r.mu.Unlock()
	return r.one(ctx, o)
}

func (r *MemoryRepo) Get(ctx context.Context, opportunityID int64) (Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return Opportunity{}, err
	}
	r.mu.RLock()
	o, ok := r.opportunities[opportunityID]
	r.mu.RUnlock()
	if !ok {
		return Opportunity{}, ErrNotFound
	}
	return r.one(ctx, o)
}

func (r *MemoryRepo) List(ctx context.Context, filter access.Filter, q Query, limit, offset int) ([]Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	position := strings.ToLower(q.Position)
	location := strings.ToLower(q.Location)

	r.mu.RLock()
	out := make([]Opportunity, 0)
	for _, o := range r.opportunities {
		if !filter.Allows(o.UserID, 0, o.IsActive) {
			continue
		}
		if position != "" && !strings.Contains(strings.ToLower(o.Position), position) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(o.Location), location) {
			continue
		}
		out = append(out, o)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	out = params.Window(out, limit, offset)
	if err := r.enrich(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, opportunityID int64, filter access.Filter, patch Patch) (Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return Opportunity{}, err
	}
	r.mu.Lock()
	o, ok := r.opportunities[opportunityID]
	if !ok || !filter.Allows(o.UserID, 0, o.IsActive) {
		r.mu.Unlock()
		return Opportunity{}, ErrNotFound
	}
	o = patch.apply(o)
	r.opportunities[opportunityID] = o
	r.mu.Unlock()
	return r.one(ctx, o)
}

func (r *MemoryRepo) Delete(ctx context.Context, opportunityID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	o, ok := r.opportunities[opportunityID]
	if !ok || !filter.Allows(o.UserID, 0, o.IsActive) {
		r.mu.Unlock()
		return ErrNotFound
	}
	r.deleteLocked(opportunityID)
	r.mu.Unlock()
	return r.cascade(ctx, []int64{opportunityID})
}

// DeleteByCompany removes every opportunity of a deleted company.
func (r *MemoryRepo) DeleteByCompany(ctx context.Context, companyID int64) error {
	r.mu.Lock()
	var ids []int64
	for id, o := range r.opportunities {
		if o.CompanyID == companyID {
			r.deleteLocked(id)
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()
	return r.cascade(ctx, ids)
}

func (r *MemoryRepo) deleteLocked(opportunityID int64) {
	delete(r.opportunities, opportunityID)
	for id, s := range r.saved {
		if s.OpportunityID == opportunityID {
			delete(r.saved, id)
		}
	}
}

func (r *MemoryRepo) cascade(ctx context.Context, ids []int64) error {
	if r.Cascade == nil {
		return nil
	}
	for _, id := range ids {
		if err := r.Cascade.DeleteByOpportunity(ctx, id); err != nil {
			return fmt.Errorf("cascade opportunity %d: %w", id, err)
		}
	}
	return nil
}

func (r *MemoryRepo) CreateSaved(ctx context.Context, userID, opportunityID int64, guard Guard) (Saved, error) {
	if err := ctx.Err(); err != nil {
		return Saved{}, err
	}
	r.mu.Lock()
	o, ok := r.opportunities[opportunityID]
	if !ok {
		r.mu.Unlock()
		return Saved{}, ErrNotFound
	}
	subject := access.Subject{Ref: opportunityRef(o.ID), OwnerID: o.UserID, Active: o.IsActive}
	if err := guard(subject); err != nil {
		r.mu.Unlock()
		return Saved{}, err
	}
	for _, s := range r.saved {
		if s.UserID == userID && s.OpportunityID == opportunityID {
			r.mu.Unlock()
			return Saved{}, access.Duplicate()
		}
	}
	s := Saved{ID: r.id(), UserID: userID, OpportunityID: opportunityID, CreatedAt: time.Now().UTC()}
	r.saved[s.ID] = s
	r.mu.Unlock()

	embedded, err := r.one(ctx, o)
	if err != nil {
		return Saved{}, err
	}
	s.Opportunity = &embedded
	return s, nil
}

func (r *MemoryRepo) ListSaved(ctx context.Context, userID int64, limit, offset int) ([]Saved, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Saved, 0)
	for _, s := range r.saved {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	out = params.Window(out, limit, offset)
	for i := range out {
		o, err := r.Get(ctx, out[i].OpportunityID)
		if err != nil {
			return nil, err
		}
		out[i].Opportunity = &o
	}
	return out, nil
}

func (r *MemoryRepo) GetSaved(ctx context.Context, userID, opportunityID int64) (Saved, error) {
	if err := ctx.Err(); err != nil {
		return Saved{}, err
	}
	r.mu.RLock()
	var found *Saved
	for _, s := range r.saved {
		if s.UserID == userID && s.OpportunityID == opportunityID {
			s := s
			found = &s
			break
		}
	}
	r.mu.RUnlock()
	if found == nil {
		return Saved{}, ErrNotFound
	}
	o, err := r.Get(ctx, opportunityID)
	if err != nil {
		return Saved{}, err
	}
	found.Opportunity = &o
	return *found, nil
}

func (r *MemoryRepo) DeleteSaved(ctx context.Context, userID, opportunityID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.saved {
		if s.UserID == userID && s.OpportunityID == opportunityID {
			delete(r.saved, id)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	if err := ctx.Err(); err != nil {
		return access.Node{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch ref.Kind {
	case access.KindOpportunity:
		if o, ok := r.opportunities[ref.ID]; ok {
			return access.Node{OwnerID: o.UserID, Active: o.IsActive}, nil
		}
	case access.KindSaved:
		if s, ok := r.saved[ref.ID]; ok {
			return access.Node{OwnerID: s.UserID}, nil
		}
	}
	return access.Node{}, ErrNotFound
}

func (r *MemoryRepo) one(ctx context.Context, o Opportunity) (Opportunity, error) {
	list := []Opportunity{o}
	if err := r.enrich(ctx, list); err != nil {
		return Opportunity{}, err
	}
	return list[0], nil
}

// enrich fills company names and applicant counts. It must be called without
// r.mu held.
func (r *MemoryRepo) enrich(ctx context.Context, list []Opportunity) error {
	if len(list) == 0 {
		return nil
	}
	companyIDs := make([]int64, 0, len(list))
	ids := make([]int64, 0, len(list))
	for _, o := range list {
		companyIDs = append(companyIDs, o.CompanyID)
		ids = append(ids, o.ID)
	}
	if r.Companies != nil {
		names, err := r.Companies.Names(ctx, companyIDs)
		if err != nil {
			return fmt.Errorf("company names: %w", err)
		}
		for i := range list {
			list[i].CompanyName = names[list[i].CompanyID]
		}
	}
	if r.Applicants != nil {
		counts, err := r.Applicants.CountByOpportunity(ctx, ids)
		if err != nil {
			return fmt.Errorf("applicant counts: %w", err)
		}
		for i := range list {
			list[i].ApplicantCount = counts[list[i].ID]
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
