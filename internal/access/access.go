// Package access decides who may read, create, update or delete job board
// records. Denials of existing records are reported as ErrNotFound so that a
// non-owner cannot tell a hidden record from a missing one.
package access

import (
	"errors"
	"fmt"
)

// Kind names a resource type.
type Kind string

const (
	KindUser               Kind = "user"
	KindCompany            Kind = "company"
	KindReview             Kind = "company_review"
	KindQuestion           Kind = "company_question"
	KindAnswer             Kind = "company_answer"
	KindOpportunity        Kind = "opportunity"
	KindSaved              Kind = "saved"
	KindApplication        Kind = "application"
	KindResume             Kind = "resume"
	KindWorkExperience     Kind = "work_experience"
	KindAcademicExperience Kind = "academic_experience"
	KindLanguage           Kind = "language"
)

// Operation is the action an actor requests.
type Operation string

const (
	OpRead   Operation = "read"
	OpList   Operation = "list"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (op Operation) writes() bool {
	return op == OpCreate || op == OpUpdate || op == OpDelete
}

// Ref identifies a single record.
type Ref struct {
	Kind Kind
	ID   int64
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// IsZero reports whether the ref points nowhere.
func (r Ref) IsZero() bool {
	return r.Kind == "" && r.ID == 0
}

// Actor is the caller of an operation. A zero UserID is an anonymous caller.
type Actor struct {
	UserID int64
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor { return Actor{} }

// User returns the actor for an authenticated user.
func User(id int64) Actor { return Actor{UserID: id} }

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool { return a.UserID > 0 }

// Subject is a record with its ownership resolved.
type Subject struct {
	Ref Ref
	// OwnerID is the user the record's rights resolve to. Zero for public,
	// unowned records such as companies.
	OwnerID int64
	// PosterID is the poster of the related opportunity: set for
	// applications, and for resumes reached through an application.
	PosterID int64
	// Active mirrors the opportunity is_active flag.
	Active bool
}

var (
	// ErrNotFound covers both missing records and records the actor may not see.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when an anonymous actor attempts a write.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError is a rejected write with a message safe to show the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid returns a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
