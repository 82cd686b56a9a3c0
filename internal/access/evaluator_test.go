package access

import (
	"errors"
	"testing"
)

const (
	owner    int64 = 1
	poster   int64 = 2
	stranger int64 = 3
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	resume := Subject{Ref: Ref{Kind: KindResume, ID: 10}, OwnerID: owner}
	resumeViaApplication := resume
	resumeViaApplication.PosterID = poster
	application := Subject{Ref: Ref{Kind: KindApplication, ID: 20}, OwnerID: owner, PosterID: poster}
	activeOpp := Subject{Ref: Ref{Kind: KindOpportunity, ID: 30}, OwnerID: poster, Active: true}
	inactiveOpp := Subject{Ref: Ref{Kind: KindOpportunity, ID: 31}, OwnerID: poster}
	review := Subject{Ref: Ref{Kind: KindReview, ID: 40}, OwnerID: owner}
	company := Subject{Ref: Ref{Kind: KindCompany, ID: 50}}
	saved := Subject{Ref: Ref{Kind: KindSaved, ID: 60}, OwnerID: owner}
	work := Subject{Ref: Ref{Kind: KindWorkExperience, ID: 70}, OwnerID: owner}

	tests := []struct {
		name    string
		actor   Actor
		subject Subject
		op      Operation
		want    error
	}{
		{name: "resume owner reads", actor: User(owner), subject: resume, op: OpRead},
		{name: "resume stranger reads", actor: User(stranger), subject: resume, op: OpRead, want: ErrNotFound},
		{name: "resume stranger updates", actor: User(stranger), subject: resume, op: OpUpdate, want: ErrNotFound},
		{name: "resume poster without application", actor: User(poster), subject: resume, op: OpRead, want: ErrNotFound},
		{name: "resume poster via application reads", actor: User(poster), subject: resumeViaApplication, op: OpRead},
		{name: "resume poster via application cannot write", actor: User(poster), subject: resumeViaApplication, op: OpUpdate, want: ErrNotFound},
		{name: "work experience stranger deletes", actor: User(stranger), subject: work, op: OpDelete, want: ErrNotFound},
		{name: "work experience owner deletes", actor: User(owner), subject: work, op: OpDelete},
		{name: "application applicant reads", actor: User(owner), subject: application, op: OpRead},
		{name: "application poster reads", actor: User(poster), subject: application, op: OpRead},
		{name: "application stranger reads", actor: User(stranger), subject: application, op: OpRead, want: ErrNotFound},
		{name: "application poster deletes", actor: User(poster), subject: application, op: OpDelete, want: ErrNotFound},
		{name: "application applicant deletes", actor: User(owner), subject: application, op: OpDelete},
		{name: "application applicant updates", actor: User(owner), subject: application, op: OpUpdate, want: ErrNotFound},
		{name: "active opportunity anonymous read", actor: Anonymous(), subject: activeOpp, op: OpRead},
		{name: "inactive opportunity anonymous read", actor: Anonymous(), subject: inactiveOpp, op: OpRead, want: ErrNotFound},
		{name: "inactive opportunity poster read", actor: User(poster), subject: inactiveOpp, op: OpRead},
		{name: "opportunity stranger updates", actor: User(stranger), subject: activeOpp, op: OpUpdate, want: ErrNotFound},
		{name: "opportunity poster deletes", actor: User(poster), subject: activeOpp, op: OpDelete},
		{name: "review anonymous read", actor: Anonymous(), subject: review, op: OpRead},
		{name: "review anonymous delete", actor: Anonymous(), subject: review, op: OpDelete, want: ErrUnauthenticated},
		{name: "review stranger update", actor: User(stranger), subject: review, op: OpUpdate, want: ErrNotFound},
		{name: "review author update", actor: User(owner), subject: review, op: OpUpdate},
		{name: "company anyone authenticated deletes", actor: User(stranger), subject: company, op: OpDelete},
		{name: "company anonymous update", actor: Anonymous(), subject: company, op: OpUpdate, want: ErrUnauthenticated},
		{name: "saved stranger reads", actor: User(stranger), subject: saved, op: OpRead, want: ErrNotFound},
		{name: "saved owner deletes", actor: User(owner), subject: saved, op: OpDelete},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Authorize(tt.actor, tt.subject, tt.op)
			if !errors.Is(got, tt.want) {
				t.Fatalf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizeCreateApplication(t *testing.T) {
	t.Parallel()

	opp := Subject{Ref: Ref{Kind: KindOpportunity, ID: 1}, OwnerID: poster, Active: true}

	if err := AuthorizeCreate(User(owner), KindApplication, opp); err != nil {
		t.Fatalf("seeker apply: %v", err)
	}

	err := AuthorizeCreate(User(poster), KindApplication, opp)
	if !IsValidation(err) {
		t.Fatalf("expected validation error for self application, got %v", err)
	}

	closed := opp
	closed.Active = false
	if err := AuthorizeCreate(User(owner), KindApplication, closed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on inactive opportunity, got %v", err)
	}

	if err := AuthorizeCreate(Anonymous(), KindApplication, opp); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthorizeCreateResumeChild(t *testing.T) {
	t.Parallel()

	resume := Subject{Ref: Ref{Kind: KindResume, ID: 1}, OwnerID: owner, PosterID: poster}
	for _, kind := range []Kind{KindWorkExperience, KindAcademicExperience, KindLanguage} {
		if err := AuthorizeCreate(User(owner), kind, resume); err != nil {
			t.Fatalf("%s owner create: %v", kind, err)
		}
		if err := AuthorizeCreate(User(poster), kind, resume); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s poster create: expected not found, got %v", kind, err)
		}
	}
}

func TestAuthorizeScope(t *testing.T) {
	t.Parallel()

	if err := AuthorizeScope(User(owner), owner); err != nil {
		t.Fatalf("own scope: %v", err)
	}
	if err := AuthorizeScope(User(stranger), owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign scope: expected not found, got %v", err)
	}
	if err := AuthorizeScope(Anonymous(), owner); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous scope: expected unauthenticated, got %v", err)
	}
}

func TestFilters(t *testing.T) {
	t.Parallel()

	if f := PublicListFilter(KindOpportunity); !f.ActiveOnly {
		t.Fatalf("opportunity listing must be active only")
	}
	if f := PublicListFilter(KindCompany); f != (Filter{}) {
		t.Fatalf("company listing must be unrestricted, got %+v", f)
	}
	if f := MutationFilter(User(owner), KindCompany); f != (Filter{}) {
		t.Fatalf("company mutation must be unrestricted, got %+v", f)
	}
	f := MutationFilter(User(owner), KindResume)
	if f.OwnerID != owner {
		t.Fatalf("resume mutation must be owner scoped, got %+v", f)
	}
	if f.Allows(stranger, 0, true) {
		t.Fatalf("owner filter allowed a stranger row")
	}
	if !PosterFilter(User(poster)).Allows(owner, poster, false) {
		t.Fatalf("poster filter rejected the poster's application")
	}
	if (Filter{ActiveOnly: true}).Allows(poster, 0, false) {
		t.Fatalf("active filter allowed an inactive row")
	}
}

func TestEvaluatorObservesDecisions(t *testing.T) {
	t.Parallel()

	var seen []error
	ev := &Evaluator{Observe: func(kind Kind, op Operation, err error) {
		seen = append(seen, err)
	}}
	subject := Subject{Ref: Ref{Kind: KindSaved, ID: 1}, OwnerID: owner}
	_ = ev.Allow(User(owner), subject, OpRead)
	_ = ev.Allow(User(stranger), subject, OpRead)

	if len(seen) != 2 || seen[0] != nil || !errors.Is(seen[1], ErrNotFound) {
		t.Fatalf("unexpected observations: %v", seen)
	}
}
