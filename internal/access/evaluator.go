package access

import "context"

const (
	msgSelfApplication = "A user cannot apply to an opportunity they have created."
	msgDuplicate       = "Record already exists"
)

// Duplicate returns the validation error used for unique (user, opportunity) clashes.
func Duplicate() error { return Invalid(msgDuplicate) }

// Authorize decides whether actor may perform op on an existing subject.
// It returns nil, ErrNotFound, or ErrUnauthenticated.
func Authorize(actor Actor, subject Subject, op Operation) error {
	if op.writes() && !actor.Authenticated() {
		return ErrUnauthenticated
	}
	owner := actor.Authenticated() && actor.UserID == subject.OwnerID
	poster := actor.Authenticated() && subject.PosterID != 0 && actor.UserID == subject.PosterID

	switch subject.Ref.Kind {
	case KindCompany:
		// Any authenticated user may edit a company; there is no owner column.
		return nil
	case KindOpportunity:
		if op == OpRead && (subject.Active || owner) {
			return nil
		}
		if (op == OpUpdate || op == OpDelete) && owner {
			return nil
		}
	case KindApplication:
		switch op {
		case OpRead:
			if owner || poster {
				return nil
			}
		case OpDelete:
			if owner {
				return nil
			}
		}
	case KindResume, KindWorkExperience, KindAcademicExperience, KindLanguage:
		if owner {
			return nil
		}
		if (op == OpRead || op == OpList) && poster {
			return nil
		}
	case KindSaved, KindUser:
		if owner {
			return nil
		}
	case KindReview, KindQuestion, KindAnswer:
		if op == OpRead || op == OpList || owner {
			return nil
		}
	}
	return ErrNotFound
}

// AuthorizeCreate decides whether actor may create a record of kind under
// parent. Parent is the zero Subject for top-level kinds (companies, resumes).
func AuthorizeCreate(actor Actor, kind Kind, parent Subject) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	switch kind {
	case KindCompany, KindResume:
		return nil
	case KindOpportunity, KindReview, KindQuestion, KindAnswer:
		// The parent only has to exist.
		return nil
	case KindApplication:
		if err := Authorize(actor, parent, OpRead); err != nil {
			return err
		}
		if actor.UserID == parent.OwnerID {
			return Invalid(msgSelfApplication)
		}
		return nil
	case KindSaved:
		return Authorize(actor, parent, OpRead)
	case KindWorkExperience, KindAcademicExperience, KindLanguage:
		if actor.UserID == parent.OwnerID {
			return nil
		}
	}
	return ErrNotFound
}

// AuthorizeScope guards the /users/:userId/... collections: only the user
// themselves may see or change them.
func AuthorizeScope(actor Actor, scopeUserID int64) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if actor.UserID != scopeUserID {
		return ErrNotFound
	}
	return nil
}

// Evaluator combines the resolver with Authorize and reports every decision
// to Observe when set.
type Evaluator struct {
	Resolver *Resolver
	Observe  func(kind Kind, op Operation, err error)
}

// Check resolves ref and authorizes op on it.
func (e *Evaluator) Check(ctx context.Context, actor Actor, ref Ref, op Operation) (Subject, error) {
	subject, err := e.Resolver.Resolve(ctx, ref)
	if err != nil {
		e.observe(ref.Kind, op, err)
		return Subject{}, err
	}
	if err := e.Allow(actor, subject, op); err != nil {
		return Subject{}, err
	}
	return subject, nil
}

// CheckViaApplication authorizes op on a resume-side record reached through
// an application, letting the opportunity poster read the applicant's records.
func (e *Evaluator) CheckViaApplication(ctx context.Context, actor Actor, applicationID int64, ref Ref, op Operation) (Subject, error) {
	subject, err := e.Resolver.ResolveViaApplication(ctx, applicationID, ref)
	if err != nil {
		e.observe(ref.Kind, op, err)
		return Subject{}, err
	}
	if err := e.Allow(actor, subject, op); err != nil {
		return Subject{}, err
	}
	return subject, nil
}

// Allow authorizes op on an already resolved subject.
func (e *Evaluator) Allow(actor Actor, subject Subject, op Operation) error {
	err := Authorize(actor, subject, op)
	e.observe(subject.Ref.Kind, op, err)
	return err
}

// AllowCreate authorizes creating kind under parent.
func (e *Evaluator) AllowCreate(actor Actor, kind Kind, parent Subject) error {
	err := AuthorizeCreate(actor, kind, parent)
	e.observe(kind, OpCreate, err)
	return err
}

// AllowScope authorizes access to a user-scoped collection.
func (e *Evaluator) AllowScope(actor Actor, kind Kind, scopeUserID int64) error {
	err := AuthorizeScope(actor, scopeUserID)
	e.observe(kind, OpList, err)
	return err
}

func (e *Evaluator) observe(kind Kind, op Operation, err error) {
	if e == nil || e.Observe == nil {
		return
	}
	e.Observe(kind, op, err)
}
