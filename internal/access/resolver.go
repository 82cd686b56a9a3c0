package access

import (
	"context"
	"errors"
	"fmt"

	"jobboard-backend/internal/shared/telemetry"
)

// maxHops bounds the parent walk: WorkExperience -> Resume -> User is the
// longest ownership chain.
const maxHops = 2

// Node is one hop of an ownership chain as stored by a repository.
type Node struct {
	Ref Ref
	// OwnerID is the user column of the record, zero when it has none.
	OwnerID int64
	// Parent is the record this one belongs to, zero when there is none.
	Parent Ref
	// Active is only meaningful for opportunities.
	Active bool
}

// NodeSource loads a single node. Repositories implement it for the kinds
// they store and return ErrNotFound for unknown ids.
type NodeSource interface {
	Node(ctx context.Context, ref Ref) (Node, error)
}

// Resolver walks foreign-key chains to the owning user of a record.
type Resolver struct {
	sources map[Kind]NodeSource
}

// NewResolver returns an empty resolver; call Register for every kind.
func NewResolver() *Resolver {
	return &Resolver{sources: make(map[Kind]NodeSource)}
}

// Register routes lookups for kinds to src.
func (r *Resolver) Register(src NodeSource, kinds ...Kind) {
	for _, k := range kinds {
		r.sources[k] = src
	}
}

// Resolve returns the subject for ref with OwnerID, PosterID and Active set.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (Subject, error) {
	node, err := r.node(ctx, ref)
	if err != nil {
		return Subject{}, err
	}
	subject := Subject{Ref: ref, Active: node.Active}
	if ref.Kind == KindCompany {
		return subject, nil
	}

	cur := node
	for hop := 0; cur.OwnerID == 0; hop++ {
		parent := cur.Parent
		if parent.IsZero() || hop == maxHops {
			return Subject{}, orphan(ref, cur.Ref)
		}
		next, err := r.node(ctx, parent)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Subject{}, orphan(ref, parent)
			}
			return Subject{}, err
		}
		cur = next
	}
	subject.OwnerID = cur.OwnerID

	if ref.Kind == KindApplication {
		opp, err := r.node(ctx, node.Parent)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Subject{}, orphan(ref, node.Parent)
			}
			return Subject{}, err
		}
		if opp.OwnerID == 0 {
			return Subject{}, orphan(ref, opp.Ref)
		}
		subject.PosterID = opp.OwnerID
	}
	return subject, nil
}

// ResolveViaApplication resolves a resume-side record reached through an
// application. The poster of the application's opportunity gains read access
// only when the applicant owns the record.
func (r *Resolver) ResolveViaApplication(ctx context.Context, applicationID int64, ref Ref) (Subject, error) {
	app, err := r.Resolve(ctx, Ref{Kind: KindApplication, ID: applicationID})
	if err != nil {
		return Subject{}, err
	}
	subject, err := r.Resolve(ctx, ref)
	if err != nil {
		return Subject{}, err
	}
	if app.OwnerID == subject.OwnerID {
		subject.PosterID = app.PosterID
	}
	return subject, nil
}

func (r *Resolver) node(ctx context.Context, ref Ref) (Node, error) {
	src, ok := r.sources[ref.Kind]
	if !ok {
		return Node{}, fmt.Errorf("access: no node source for %s", ref.Kind)
	}
	node, err := src.Node(ctx, ref)
	if err != nil {
		return Node{}, err
	}
	node.Ref = ref
	return node, nil
}

// orphan logs a broken ownership chain and reports it as not found.
func orphan(start, broken Ref) error {
	telemetry.Warn("access.orphan", map[string]any{
		"resource": start.String(),
		"broken":   broken.String(),
	})
	return ErrNotFound
}
