package access

import (
	"context"
	"errors"
	"testing"
)

type fakeNodes map[Ref]Node

func (f fakeNodes) Node(ctx context.Context, ref Ref) (Node, error) {
	n, ok := f[ref]
	if !ok {
		return Node{}, ErrNotFound
	}
	return n, nil
}

func newTestResolver(nodes fakeNodes) *Resolver {
	r := NewResolver()
	r.Register(nodes,
		KindCompany, KindOpportunity, KindApplication, KindResume,
		KindWorkExperience, KindAcademicExperience, KindLanguage, KindAnswer,
	)
	return r
}

func TestResolveWalksToResumeOwner(t *testing.T) {
	resume := Ref{Kind: KindResume, ID: 1}
	work := Ref{Kind: KindWorkExperience, ID: 2}
	r := newTestResolver(fakeNodes{
		resume: {OwnerID: 7},
		work:   {Parent: resume},
	})

	s, err := r.Resolve(context.Background(), work)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.OwnerID != 7 {
		t.Fatalf("expected owner 7, got %d", s.OwnerID)
	}
	if s.Ref != work {
		t.Fatalf("expected subject ref %v, got %v", work, s.Ref)
	}
}

func TestResolveApplicationCarriesPoster(t *testing.T) {
	opp := Ref{Kind: KindOpportunity, ID: 1}
	app := Ref{Kind: KindApplication, ID: 2}
	r := newTestResolver(fakeNodes{
		opp: {OwnerID: 9, Active: true},
		app: {OwnerID: 4, Parent: opp},
	})

	s, err := r.Resolve(context.Background(), app)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.OwnerID != 4 || s.PosterID != 9 {
		t.Fatalf("unexpected subject: %+v", s)
	}
}

func TestResolveOrphanIsNotFound(t *testing.T) {
	work := Ref{Kind: KindWorkExperience, ID: 2}
	r := newTestResolver(fakeNodes{
		work: {Parent: Ref{Kind: KindResume, ID: 99}},
	})

	if _, err := r.Resolve(context.Background(), work); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for orphan, got %v", err)
	}
}

func TestResolveOwnerlessResumeIsNotFound(t *testing.T) {
	resume := Ref{Kind: KindResume, ID: 1}
	r := newTestResolver(fakeNodes{resume: {}})

	if _, err := r.Resolve(context.Background(), resume); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for resume without owner, got %v", err)
	}
}

func TestResolveStopsAfterTwoHops(t *testing.T) {
	a := Ref{Kind: KindLanguage, ID: 1}
	b := Ref{Kind: KindWorkExperience, ID: 2}
	c := Ref{Kind: KindAcademicExperience, ID: 3}
	d := Ref{Kind: KindResume, ID: 4}
	r := newTestResolver(fakeNodes{
		a: {Parent: b},
		b: {Parent: c},
		c: {Parent: d},
		d: {OwnerID: 1},
	})

	if _, err := r.Resolve(context.Background(), a); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found past the hop limit, got %v", err)
	}
}

func TestResolveCompanyIsUnowned(t *testing.T) {
	company := Ref{Kind: KindCompany, ID: 1}
	r := newTestResolver(fakeNodes{company: {}})

	s, err := r.Resolve(context.Background(), company)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.OwnerID != 0 {
		t.Fatalf("expected unowned company, got owner %d", s.OwnerID)
	}
}

func TestResolveViaApplication(t *testing.T) {
	opp := Ref{Kind: KindOpportunity, ID: 1}
	app := Ref{Kind: KindApplication, ID: 2}
	ownResume := Ref{Kind: KindResume, ID: 3}
	otherResume := Ref{Kind: KindResume, ID: 4}
	r := newTestResolver(fakeNodes{
		opp:         {OwnerID: 9, Active: true},
		app:         {OwnerID: 4, Parent: opp},
		ownResume:   {OwnerID: 4},
		otherResume: {OwnerID: 5},
	})

	s, err := r.ResolveViaApplication(context.Background(), app.ID, ownResume)
	if err != nil {
		t.Fatalf("ResolveViaApplication: %v", err)
	}
	if err := Authorize(User(9), s, OpRead); err != nil {
		t.Fatalf("poster should read applicant resume: %v", err)
	}

	s, err = r.ResolveViaApplication(context.Background(), app.ID, otherResume)
	if err != nil {
		t.Fatalf("ResolveViaApplication: %v", err)
	}
	if err := Authorize(User(9), s, OpRead); !errors.Is(err, ErrNotFound) {
		t.Fatalf("poster must not read an unrelated resume, got %v", err)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	r := NewResolver()
	if _, err := r.Resolve(context.Background(), Ref{Kind: KindSaved, ID: 1}); err == nil {
		t.Fatalf("expected error for unregistered kind")
	}
}
