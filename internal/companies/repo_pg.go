package companies

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. Child rows are removed by
// ON DELETE CASCADE foreign keys.
type PGRepo struct {
	DB *sql.DB
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const companySelect = `
SELECT c.id, c.name, c.industry, c.description, c.image_url,
       COUNT(r.id), AVG(r.score)::float8
FROM companies c
LEFT JOIN company_reviews r ON r.company_id = c.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(row scanner) (Company, error) {
	var c Company
	var avg sql.NullFloat64
	if err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Description, &c.ImageURL, &c.ReviewCount, &avg); err != nil {
		return Company{}, err
	}
	if avg.Valid {
		v := avg.Float64
		c.ReviewAvg = &v
	}
	return c, nil
}

func (r *PGRepo) Create(ctx context.Context, company Company) (Company, error) {
	const query = `
INSERT INTO companies (name, industry, description, image_url)
VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO NOTHING
RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		company.Name,
		company.Industry,
		company.Description,
		company.ImageURL,
	).Scan(&company.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, errDuplicateName
		}
		return Company{}, err
	}
	company.ReviewCount, company.ReviewAvg = 0, nil
	return company, nil
}

func (r *PGRepo) Get(ctx context.Context, companyID int64) (Company, error) {
	query := companySelect + `
WHERE c.id = $1
GROUP BY c.id`
	c, err := scanCompany(r.DB.QueryRowContext(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

func (r *PGRepo) List(ctx context.Context, nameLike string, limit, offset int) ([]Company, error) {
	query := companySelect + `
WHERE ($1 = '' OR c.name ILIKE ('%' || $1 || '%') ESCAPE '\')
GROUP BY c.id
ORDER BY c.name
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, db.EscapeLike(nameLike), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, companyID int64, patch CompanyPatch) (Company, error) {
	const query = `
UPDATE companies SET
  name = COALESCE($2, name),
  industry = COALESCE($3, industry),
  description = COALESCE($4, description),
  image_url = COALESCE($5, image_url)
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		companyID,
		nullable(patch.Name),
		nullable(patch.Industry),
		nullable(patch.Description),
		nullable(patch.ImageURL),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Company{}, errDuplicateName
		}
		return Company{}, err
	}
	if err := expectRow(res); err != nil {
		return Company{}, err
	}
	return r.Get(ctx, companyID)
}

func (r *PGRepo) Delete(ctx context.Context, companyID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, companyID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *PGRepo) Names(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM companies WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func (r *PGRepo) CreateReview(ctx context.Context, review Review) (Review, error) {
	const query = `
INSERT INTO company_reviews (company_id, user_id, identification, score, review)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		review.CompanyID,
		review.UserID,
		review.Identification,
		review.Score,
		review.Review,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return Review{}, err
	}
	return review, nil
}

const reviewColumns = `id, company_id, user_id, identification, score::float8, review, created_at`

func scanReview(row scanner) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.CompanyID, &rv.UserID, &rv.Identification, &rv.Score, &rv.Review, &rv.CreatedAt)
	return rv, err
}

func (r *PGRepo) GetReview(ctx context.Context, companyID, reviewID int64) (Review, error) {
	const query = `
SELECT ` + reviewColumns + `
FROM company_reviews
WHERE id = $1 AND company_id = $2`
	rv, err := scanReview(r.DB.QueryRowContext(ctx, query, reviewID, companyID))
	return rv, notFound(err)
}

func (r *PGRepo) ListReviews(ctx context.Context, companyID int64, limit, offset int) ([]Review, error) {
	const query = `
SELECT ` + reviewColumns + `
FROM company_reviews
WHERE company_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateReview(ctx context.Context, companyID, reviewID int64, filter access.Filter, patch ReviewPatch) (Review, error) {
	var score any
	if patch.Score != nil {
		score = roundScore(*patch.Score)
	}
	const query = `
UPDATE company_reviews SET
  identification = COALESCE($4, identification),
  score = COALESCE($5, score),
  review = COALESCE($6, review)
WHERE id = $1 AND company_id = $2 AND ($3::bigint = 0 OR user_id = $3)
RETURNING ` + reviewColumns
	rv, err := scanReview(r.DB.QueryRowContext(ctx, query,
		reviewID,
		companyID,
		filter.OwnerID,
		nullable(patch.Identification),
		score,
		nullable(patch.Review),
	))
	return rv, notFound(err)
}

func (r *PGRepo) DeleteReview(ctx context.Context, companyID, reviewID int64, filter access.Filter) error {
	const query = `
DELETE FROM company_reviews
WHERE id = $1 AND company_id = $2 AND ($3::bigint = 0 OR user_id = $3)`
	res, err := r.DB.ExecContext(ctx, query, reviewID, companyID, filter.OwnerID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

const questionColumns = `id, company_id, user_id, question, created_at`

func scanQuestion(row scanner) (Question, error) {
	var q Question
	err := row.Scan(&q.ID, &q.CompanyID, &q.UserID, &q.Question, &q.CreatedAt)
	return q, err
}

func (r *PGRepo) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	const query = `
INSERT INTO company_questions (company_id, user_id, question)
VALUES ($1, $2, $3)
RETURNING id, created_at`
	if err := r.DB.QueryRowContext(ctx, query, q.CompanyID, q.UserID, q.Question).Scan(&q.ID, &q.CreatedAt); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (r *PGRepo) GetQuestion(ctx context.Context, companyID, questionID int64) (Question, error) {
	const query = `
SELECT ` + questionColumns + `
FROM company_questions
WHERE id = $1 AND ($2::bigint = 0 OR company_id = $2)`
	q, err := scanQuestion(r.DB.QueryRowContext(ctx, query, questionID, companyID))
	return q, notFound(err)
}

func (r *PGRepo) ListQuestions(ctx context.Context, companyID int64, limit, offset int) ([]Question, error) {
	const query = `
SELECT ` + questionColumns + `
FROM company_questions
WHERE company_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateQuestion(ctx context.Context, companyID, questionID int64, filter access.Filter, text string) (Question, error) {
	const query = `
UPDATE company_questions SET question = $4
WHERE id = $1 AND company_id = $2 AND ($3::bigint = 0 OR user_id = $3)
RETURNING ` + questionColumns
	q, err := scanQuestion(r.DB.QueryRowContext(ctx, query, questionID, companyID, filter.OwnerID, text))
	return q, notFound(err)
}

func (r *PGRepo) DeleteQuestion(ctx context.Context, companyID, questionID int64, filter access.Filter) error {
	const query = `
DELETE FROM company_questions
WHERE id = $1 AND company_id = $2 AND ($3::bigint = 0 OR user_id = $3)`
	res, err := r.DB.ExecContext(ctx, query, questionID, companyID, filter.OwnerID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

const answerColumns = `id, question_id, user_id, answer, created_at`

func scanAnswer(row scanner) (Answer, error) {
	var a Answer
	err := row.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Answer, &a.CreatedAt)
	return a, err
}

func (r *PGRepo) CreateAnswer(ctx context.Context, a Answer) (Answer, error) {
	const query = `
INSERT INTO company_answers (question_id, user_id, answer)
VALUES ($1, $2, $3)
RETURNING id, created_at`
	if err := r.DB.QueryRowContext(ctx, query, a.QuestionID, a.UserID, a.Answer).Scan(&a.ID, &a.CreatedAt); err != nil {
		return Answer{}, err
	}
	return a, nil
}

func (r *PGRepo) GetAnswer(ctx context.Context, questionID, answerID int64) (Answer, error) {
	const query = `
SELECT ` + answerColumns + `
FROM company_answers
WHERE id = $1 AND question_id = $2`
	a, err := scanAnswer(r.DB.QueryRowContext(ctx, query, answerID, questionID))
	return a, notFound(err)
}

func (r *PGRepo) ListAnswers(ctx context.Context, questionID int64, limit, offset int) ([]Answer, error) {
	const query = `
SELECT ` + answerColumns + `
FROM company_answers
WHERE question_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, questionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateAnswer(ctx context.Context, questionID, answerID int64, filter access.Filter, text string) (Answer, error) {
	const query = `
UPDATE company_answers SET answer = $4
WHERE id = $1 AND question_id = $2 AND ($3::bigint = 0 OR user_id = $3)
RETURNING ` + answerColumns
	a, err := scanAnswer(r.DB.QueryRowContext(ctx, query, answerID, questionID, filter.OwnerID, text))
	return a, notFound(err)
}

func (r *PGRepo) DeleteAnswer(ctx context.Context, questionID, answerID int64, filter access.Filter) error {
	const query = `
DELETE FROM company_answers
WHERE id = $1 AND question_id = $2 AND ($3::bigint = 0 OR user_id = $3)`
	res, err := r.DB.ExecContext(ctx, query, answerID, questionID, filter.OwnerID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *PGRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	var query string
	switch ref.Kind {
	case access.KindCompany:
		query = `SELECT 0::bigint FROM companies WHERE id = $1`
	case access.KindReview:
		query = `SELECT user_id FROM company_reviews WHERE id = $1`
	case access.KindQuestion:
		query = `SELECT user_id FROM company_questions WHERE id = $1`
	case access.KindAnswer:
		query = `SELECT user_id FROM company_answers WHERE id = $1`
	default:
		return access.Node{}, ErrNotFound
	}
	var owner int64
	if err := r.DB.QueryRowContext(ctx, query, ref.ID).Scan(&owner); err != nil {
		return access.Node{}, notFound(err)
	}
	return access.Node{OwnerID: owner}, nil
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
