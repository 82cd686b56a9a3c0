package access

// Filter is an authorization predicate pushed into a repository query.
// Zero fields impose no constraint.
type Filter struct {
	// OwnerID restricts rows to those resolving to this user.
	OwnerID int64
	// PosterID restricts applications to opportunities posted by this user.
	PosterID int64
	// ActiveOnly hides opportunities with is_active = false.
	ActiveOnly bool
}

// Allows reports whether a row with the given owner, poster and active flag
// passes the filter. Memory repositories use it where PG repositories use SQL.
func (f Filter) Allows(ownerID, posterID int64, active bool) bool {
	if f.OwnerID != 0 && f.OwnerID != ownerID {
		return false
	}
	if f.PosterID != 0 && f.PosterID != posterID {
		return false
	}
	if f.ActiveOnly && !active {
		return false
	}
	return true
}

// PublicListFilter is the predicate for public listings of kind.
func PublicListFilter(kind Kind) Filter {
	if kind == KindOpportunity {
		return Filter{ActiveOnly: true}
	}
	return Filter{}
}

// OwnedFilter restricts rows to the actor's own records. It is used for the
// /users/:userId collections and for owner-only updates and deletes.
func OwnedFilter(actor Actor) Filter {
	return Filter{OwnerID: actor.UserID}
}

// MutationFilter is the predicate an update or delete of kind carries.
func MutationFilter(actor Actor, kind Kind) Filter {
	if kind == KindCompany {
		return Filter{}
	}
	return OwnedFilter(actor)
}

// PosterFilter restricts applications to those on the actor's opportunities.
func PosterFilter(actor Actor) Filter {
	return Filter{PosterID: actor.UserID}
}

// SubjectFilter scopes a child listing to an already authorized subject, so
// the query repeats the ownership predicate the subject was checked against.
func SubjectFilter(subject Subject) Filter {
	return Filter{OwnerID: subject.OwnerID}
}
