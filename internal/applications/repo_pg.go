package applications

import (
	"context"
	"database/sql"
	"errors"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `a.id, a.user_id, a.opportunity_id, a.resume_id,
       a.answer_1, a.answer_2, a.answer_3, a.answer_4, a.answer_5, a.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (Application, error) {
	var a Application
	var resumeID sql.NullInt64
	err := row.Scan(&a.ID, &a.UserID, &a.OpportunityID, &resumeID,
		&a.Answer1, &a.Answer2, &a.Answer3, &a.Answer4, &a.Answer5, &a.CreatedAt)
	if err != nil {
		return Application{}, err
	}
	if resumeID.Valid {
		id := resumeID.Int64
		a.ResumeID = &id
	}
	return a, nil
}

func (r *PGRepo) Create(ctx context.Context, app Application, guard Guard) (Application, error) {
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		opp := access.Subject{Ref: opportunityRef(app.OpportunityID)}
		const lockOpportunity = `SELECT user_id, is_active FROM opportunities WHERE id = $1 FOR SHARE`
		if err := tx.QueryRowContext(ctx, lockOpportunity, app.OpportunityID).Scan(&opp.OwnerID, &opp.Active); err != nil {
			return notFound(err)
		}

		var resumeOwner int64
		if app.ResumeID != nil {
			const lockResume = `SELECT user_id FROM resumes WHERE id = $1 FOR SHARE`
			err := tx.QueryRowContext(ctx, lockResume, *app.ResumeID).Scan(&resumeOwner)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}
		if err := guard(opp, resumeOwner); err != nil {
			return err
		}

		const insert = `
INSERT INTO applications (
  user_id, opportunity_id, resume_id,
  answer_1, answer_2, answer_3, answer_4, answer_5
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, opportunity_id) DO NOTHING
RETURNING id, created_at`
		err := tx.QueryRowContext(ctx, insert,
			app.UserID,
			app.OpportunityID,
			nullableID(app.ResumeID),
			app.Answer1,
			app.Answer2,
			app.Answer3,
			app.Answer4,
			app.Answer5,
		).Scan(&app.ID, &app.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return access.Duplicate()
		}
		return err
	})
	if err != nil {
		return Application{}, err
	}
	return app, nil
}

func (r *PGRepo) Get(ctx context.Context, applicationID int64) (Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications a
WHERE a.id = $1`
	a, err := scanApplication(r.DB.QueryRowContext(ctx, query, applicationID))
	return a, notFound(err)
}

func (r *PGRepo) ListByOpportunity(ctx context.Context, opportunityID int64, filter access.Filter, limit, offset int) ([]Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications a
JOIN opportunities o ON o.id = a.opportunity_id
WHERE a.opportunity_id = $1 AND ($2::bigint = 0 OR o.user_id = $2)
ORDER BY a.created_at DESC, a.id DESC
LIMIT $3 OFFSET $4`
	return r.list(ctx, query, opportunityID, filter.PosterID, limit, offset)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications a
WHERE a.user_id = $1
ORDER BY a.created_at DESC, a.id DESC
LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByUserOpportunity(ctx context.Context, userID, opportunityID int64) (Application, error) {
	const query = `
SELECT ` + applicationColumns + `
FROM applications a
WHERE a.user_id = $1 AND a.opportunity_id = $2`
	a, err := scanApplication(r.DB.QueryRowContext(ctx, query, userID, opportunityID))
	return a, notFound(err)
}

func (r *PGRepo) Delete(ctx context.Context, applicationID int64, filter access.Filter) error {
	const query = `
DELETE FROM applications
WHERE id = $1 AND ($2::bigint = 0 OR user_id = $2)`
	res, err := r.DB.ExecContext(ctx, query, applicationID, filter.OwnerID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *PGRepo) DeleteByUserOpportunity(ctx context.Context, userID, opportunityID int64) error {
	const query = `DELETE FROM applications WHERE user_id = $1 AND opportunity_id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, opportunityID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *PGRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	if ref.Kind != access.KindApplication {
		return access.Node{}, ErrNotFound
	}
	var owner, opportunityID int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, opportunity_id FROM applications WHERE id = $1`, ref.ID,
	).Scan(&owner, &opportunityID)
	if err != nil {
		return access.Node{}, notFound(err)
	}
	return access.Node{OwnerID: owner, Parent: opportunityRef(opportunityID)}, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

var _ Repo = (*PGRepo)(nil)
