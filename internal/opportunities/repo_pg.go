package opportunities

import (
	"context"
	"database/sql"
	"errors"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. Applications and saved rows of a
// deleted opportunity go with it through ON DELETE CASCADE.
type PGRepo struct {
	DB *sql.DB
}

const opportunityColumns = `
       o.id, o.user_id, o.company_id, c.name, o.position, o.location,
       o.description, o.image_url, o.question_1, o.question_2, o.question_3,
       o.question_4, o.question_5, o.is_active,
       (SELECT COUNT(*) FROM applications a WHERE a.opportunity_id = o.id),
       o.created_at`

const opportunitySelect = `
SELECT ` + opportunityColumns + `
FROM opportunities o
JOIN companies c ON c.id = o.company_id`

type scanner interface {
	Scan(dest ...any) error
}

func opportunityDest(o *Opportunity) []any {
	return []any{
		&o.ID, &o.UserID, &o.CompanyID, &o.CompanyName, &o.Position, &o.Location,
		&o.Description, &o.ImageURL, &o.Question1, &o.Question2, &o.Question3,
		&o.Question4, &o.Question5, &o.IsActive, &o.ApplicantCount, &o.CreatedAt,
	}
}

func scanOpportunity(row scanner) (Opportunity, error) {
	var o Opportunity
	err := row.Scan(opportunityDest(&o)...)
	return o, err
}

func (r *PGRepo) Create(ctx context.Context, o Opportunity) (Opportunity, error) {
	const query = `
INSERT INTO opportunities (
  user_id, company_id, position, location, description, image_url,
  question_1, question_2, question_3, question_4, question_5, is_active
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`
	var id int64
	err := r.DB.QueryRowContext(ctx, query,
		o.UserID,
		o.CompanyID,
		o.Position,
		o.Location,
		o.Description,
		o.ImageURL,
		o.Question1,
		o.Question2,
		o.Question3,
		o.Question4,
		o.Question5,
		o.IsActive,
	).Scan(&id)
	if err != nil {
		return Opportunity{}, err
	}
	return r.Get(ctx, id)
}

func (r *PGRepo) Get(ctx context.Context, opportunityID int64) (Opportunity, error) {
	query := opportunitySelect + `
WHERE o.id = $1`
	o, err := scanOpportunity(r.DB.QueryRowContext(ctx, query, opportunityID))
	return o, notFound(err)
}

func (r *PGRepo) List(ctx context.Context, filter access.Filter, q Query, limit, offset int) ([]Opportunity, error) {
	query := opportunitySelect + `
WHERE ($1::bigint = 0 OR o.user_id = $1)
  AND (NOT $2::boolean OR o.is_active)
  AND ($3::text = '' OR o.position ILIKE ('%' || $3 || '%') ESCAPE '\')
  AND ($4::text = '' OR o.location ILIKE ('%' || $4 || '%') ESCAPE '\')
ORDER BY o.created_at DESC, o.id DESC
LIMIT $5 OFFSET $6`
	rows, err := r.DB.QueryContext(ctx, query,
		filter.OwnerID,
		filter.ActiveOnly,
		db.EscapeLike(q.Position),
		db.EscapeLike(q.Location),
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Opportunity{}
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, opportunityID int64, filter access.Filter, patch Patch) (Opportunity, error) {
	const query = `
UPDATE opportunities SET
  position = COALESCE($3, position),
  location = COALESCE($4, location),
  description = COALESCE($5, description),
  image_url = COALESCE($6, image_url),
  question_1 = COALESCE($7, question_1),
  question_2 = COALESCE($8, question_2),
  question_3 = COALESCE($9, question_3),
  question_4 = COALESCE($10, question_4),
  question_5 = COALESCE($11, question_5),
  is_active = COALESCE($12, is_active)
WHERE id = $1 AND ($2::bigint = 0 OR user_id = $2)`
	var active any
	if patch.IsActive != nil {
		active = *patch.IsActive
	}
	res, err := r.DB.ExecContext(ctx, query,
		opportunityID,
		filter.OwnerID,
		nullable(patch.Position),
		nullable(patch.Location),
		nullable(patch.Description),
		nullable(patch.ImageURL),
		nullable(patch.Question1),
		nullable(patch.Question2),
		nullable(patch.Question3),
		nullable(patch.Question4),
		nullable(patch.Question5),
		active,
	)
	if err != nil {
		return Opportunity{}, err
	}
	if err := expectRow(res); err != nil {
		return Opportunity{}, err
	}
	return r.Get(ctx, opportunityID)
}

func (r *PGRepo) Delete(ctx context.Context, opportunityID int64, filter access.Filter) error {
	const query = `
DELETE FROM opportunities
WHERE id = $1 AND ($2::bigint = 0 OR user_id = $2)`
	res, err := r.DB.ExecContext(ctx, query, opportunityID, filter.OwnerID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *PGRepo) CreateSaved(ctx context.Context, userID, opportunityID int64, guard Guard) (Saved, error) {
	s := Saved{UserID: userID, OpportunityID: opportunityID}
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		subject := access.Subject{Ref: opportunityRef(opportunityID)}
		const lock = `SELECT user_id, is_active FROM opportunities WHERE id = $1 FOR SHARE`
		if err := tx.QueryRowContext(ctx, lock, opportunityID).Scan(&subject.OwnerID, &subject.Active); err != nil {
			return notFound(err)
		}
		if err := guard(subject); err != nil {
			return err
		}

		const insert = `
INSERT INTO saved (user_id, opportunity_id)
VALUES ($1, $2)
ON CONFLICT (user_id, opportunity_id) DO NOTHING
RETURNING id, created_at`
		err := tx.QueryRowContext(ctx, insert, userID, opportunityID).Scan(&s.ID, &s.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return access.Duplicate()
		}
		return err
	})
	if err != nil {
		return Saved{}, err
	}
	o, err := r.Get(ctx, opportunityID)
	if err != nil {
		return Saved{}, err
	}
	s.Opportunity = &o
	return s, nil
}

const savedSelect = `
SELECT s.id, s.user_id, s.opportunity_id, s.created_at,` + opportunityColumns + `
FROM saved s
JOIN opportunities o ON o.id = s.opportunity_id
JOIN companies c ON c.id = o.company_id`

func scanSaved(row scanner) (Saved, error) {
	var s Saved
	var o Opportunity
	dest := append([]any{&s.ID, &s.UserID, &s.OpportunityID, &s.CreatedAt}, opportunityDest(&o)...)
	if err := row.Scan(dest...); err != nil {
		return Saved{}, err
	}
	s.Opportunity = &o
	return s, nil
}

func (r *PGRepo) ListSaved(ctx context.Context, userID int64, limit, offset int) ([]Saved, error) {
	query := savedSelect + `
WHERE s.user_id = $1
ORDER BY s.created_at DESC, s.id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Saved{}
	for rows.Next() {
		s, err := scanSaved(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetSaved(ctx context.Context, userID, opportunityID int64) (Saved, error) {
	query := savedSelect + `
WHERE s.user_id = $1 AND s.opportunity_id = $2`
	s, err := scanSaved(r.DB.QueryRowContext(ctx, query, userID, opportunityID))
	return s, notFound(err)
}

func (r *PGRepo) DeleteSaved(ctx context.Context, userID, opportunityID int64) error {
	const query = `DELETE FROM saved WHERE user_id = $1 AND opportunity_id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, opportunityID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *PGRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	var node access.Node
	var err error
	switch ref.Kind {
	case access.KindOpportunity:
		err = r.DB.QueryRowContext(ctx,
			`SELECT user_id, is_active FROM opportunities WHERE id = $1`, ref.ID,
		).Scan(&node.OwnerID, &node.Active)
	case access.KindSaved:
		err = r.DB.QueryRowContext(ctx,
			`SELECT user_id FROM saved WHERE id = $1`, ref.ID,
		).Scan(&node.OwnerID)
	default:
		return access.Node{}, ErrNotFound
	}
	if err != nil {
		return access.Node{}, notFound(err)
	}
	return node, nil
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

func nullable(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

var _ Repo = (*PGRepo)(nil)
