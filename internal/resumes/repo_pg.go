package resumes

import (
	"context"
	"database/sql"
	"errors"

	"jobboard-backend/internal/access"
)

// PGRepo implements Repo using Postgres. Child tables and applications that
// reference a resume are removed by ON DELETE CASCADE.
type PGRepo struct {
	DB *sql.DB
}

type scanner interface {
	Scan(dest ...any) error
}

const resumeColumns = `id, user_id, name, summary, other`

func scanResume(row scanner) (Resume, error) {
	var res Resume
	err := row.Scan(&res.ID, &res.UserID, &res.Name, &res.Summary, &res.Other)
	return res, err
}

func (r *PGRepo) CreateResume(ctx context.Context, res Resume) (Resume, error) {
	const query = `
INSERT INTO resumes (user_id, name, summary, other)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := r.DB.QueryRowContext(ctx, query, res.UserID, res.Name, res.Summary, res.Other).Scan(&res.ID); err != nil {
		return Resume{}, err
	}
	return res, nil
}

func (r *PGRepo) GetResume(ctx context.Context, resumeID int64) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID))
	return res, notFound(err)
}

func (r *PGRepo) ListResumes(ctx context.Context, userID int64, limit, offset int) ([]Resume, error) {
	const query = `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateResume(ctx context.Context, resumeID int64, filter access.Filter, patch ResumePatch) (Resume, error) {
	const query = `
UPDATE resumes SET
  name = COALESCE($3, name),
  summary = COALESCE($4, summary),
  other = COALESCE($5, other)
WHERE id = $1 AND ($2::bigint = 0 OR user_id = $2)
RETURNING ` + resumeColumns
	res, err := scanResume(r.DB.QueryRowContext(ctx, query,
		resumeID,
		filter.OwnerID,
		nullable(patch.Name),
		nullable(patch.Summary),
		nullable(patch.Other),
	))
	return res, notFound(err)
}

func (r *PGRepo) DeleteResume(ctx context.Context, resumeID int64, filter access.Filter) error {
	const query = `
DELETE FROM resumes
WHERE id = $1 AND ($2::bigint = 0 OR user_id = $2)`
	res, err := r.DB.ExecContext(ctx, query, resumeID, filter.OwnerID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

const workColumns = `w.id, w.resume_id, w.company, w.position, w.location, w.industry,
       w.start_date::text, w.end_date::text, w.description`

func scanWork(row scanner) (WorkExperience, error) {
	var w WorkExperience
	var end sql.NullString
	err := row.Scan(&w.ID, &w.ResumeID, &w.Company, &w.Position, &w.Location, &w.Industry, &w.StartDate, &end, &w.Description)
	w.EndDate = nullString(end)
	return w, err
}

func (r *PGRepo) CreateWork(ctx context.Context, w WorkExperience) (WorkExperience, error) {
	const query = `
INSERT INTO work_experiences (resume_id, company, position, location, industry, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5, $6::date, $7::date, $8)
RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		w.ResumeID,
		w.Company,
		w.Position,
		w.Location,
		w.Industry,
		w.StartDate,
		nullable(w.EndDate),
		w.Description,
	).Scan(&w.ID)
	if err != nil {
		return WorkExperience{}, err
	}
	return w, nil
}

func (r *PGRepo) GetWork(ctx context.Context, resumeID, workID int64) (WorkExperience, error) {
	const query = `
SELECT ` + workColumns + `
FROM work_experiences w
WHERE w.id = $1 AND w.resume_id = $2`
	w, err := scanWork(r.DB.QueryRowContext(ctx, query, workID, resumeID))
	return w, notFound(err)
}

func (r *PGRepo) ListWork(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]WorkExperience, error) {
	const query = `
SELECT ` + workColumns + `
FROM work_experiences w
JOIN resumes r ON r.id = w.resume_id
WHERE w.resume_id = $1 AND ($2::bigint = 0 OR r.user_id = $2)
ORDER BY w.end_date DESC NULLS FIRST, w.start_date DESC, w.id DESC
LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctx, query, resumeID, filter.OwnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WorkExperience{}
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateWork(ctx context.Context, resumeID, workID int64, filter access.Filter, patch WorkPatch) (WorkExperience, error) {
	const query = `
UPDATE work_experiences w SET
  company = COALESCE($4, w.company),
  position = COALESCE($5, w.position),
  location = COALESCE($6, w.location),
  industry = COALESCE($7, w.industry),
  start_date = COALESCE($8::date, w.start_date),
  end_date = COALESCE($9::date, w.end_date),
  description = COALESCE($10, w.description)
FROM resumes r
WHERE w.id = $1 AND w.resume_id = $2 AND r.id = w.resume_id
  AND ($3::bigint = 0 OR r.user_id = $3)
RETURNING ` + workColumns
	w, err := scanWork(r.DB.QueryRowContext(ctx, query,
		workID,
		resumeID,
		filter.OwnerID,
		nullable(patch.Company),
		nullable(patch.Position),
		nullable(patch.Location),
		nullable(patch.Industry),
		nullable(patch.StartDate),
		nullable(patch.EndDate),
		nullable(patch.Description),
	))
	return w, notFound(err)
}

func (r *PGRepo) DeleteWork(ctx context.Context, resumeID, workID int64, filter access.Filter) error {
	const query = `
DELETE FROM work_experiences w
USING resumes r
WHERE w.id = $1 AND w.resume_id = $2 AND r.id = w.resume_id
  AND ($3::bigint = 0 OR r.user_id = $3)`
	return r.exec(ctx, query, workID, resumeID, filter.OwnerID)
}

const academicColumns = `a.id, a.resume_id, a.school, a.field, a.course, a.location,
       a.start_date::text, a.end_date::text, a.description`

func scanAcademic(row scanner) (AcademicExperience, error) {
	var a AcademicExperience
	var end sql.NullString
	err := row.Scan(&a.ID, &a.ResumeID, &a.School, &a.Field, &a.Course, &a.Location, &a.StartDate, &end, &a.Description)
	a.EndDate = nullString(end)
	return a, err
}

func (r *PGRepo) CreateAcademic(ctx context.Context, a AcademicExperience) (AcademicExperience, error) {
	const query = `
INSERT INTO academic_experiences (resume_id, school, field, course, location, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5, $6::date, $7::date, $8)
RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		a.ResumeID,
		a.School,
		a.Field,
		a.Course,
		a.Location,
		a.StartDate,
		nullable(a.EndDate),
		a.Description,
	).Scan(&a.ID)
	if err != nil {
		return AcademicExperience{}, err
	}
	return a, nil
}

func (r *PGRepo) GetAcademic(ctx context.Context, resumeID, academicID int64) (AcademicExperience, error) {
	const query = `
SELECT ` + academicColumns + `
FROM academic_experiences a
WHERE a.id = $1 AND a.resume_id = $2`
	a, err := scanAcademic(r.DB.QueryRowContext(ctx, query, academicID, resumeID))
	return a, notFound(err)
}

func (r *PGRepo) ListAcademic(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]AcademicExperience, error) {
	const query = `
SELECT ` + academicColumns + `
FROM academic_experiences a
JOIN resumes r ON r.id = a.resume_id
WHERE a.resume_id = $1 AND ($2::bigint = 0 OR r.user_id = $2)
ORDER BY a.end_date DESC NULLS FIRST, a.start_date DESC, a.id DESC
LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctx, query, resumeID, filter.OwnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AcademicExperience{}
	for rows.Next() {
		a, err := scanAcademic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateAcademic(ctx context.Context, resumeID, academicID int64, filter access.Filter, patch AcademicPatch) (AcademicExperience, error) {
	const query = `
UPDATE academic_experiences a SET
  school = COALESCE($4, a.school),
  field = COALESCE($5, a.field),
  course = COALESCE($6, a.course),
  location = COALESCE($7, a.location),
  start_date = COALESCE($8::date, a.start_date),
  end_date = COALESCE($9::date, a.end_date),
  description = COALESCE($10, a.description)
FROM resumes r
WHERE a.id = $1 AND a.resume_id = $2 AND r.id = a.resume_id
  AND ($3::bigint = 0 OR r.user_id = $3)
RETURNING ` + academicColumns
	a, err := scanAcademic(r.DB.QueryRowContext(ctx, query,
		academicID,
		resumeID,
		filter.OwnerID,
		nullable(patch.School),
		nullable(patch.Field),
		nullable(patch.Course),
		nullable(patch.Location),
		nullable(patch.StartDate),
		nullable(patch.EndDate),
		nullable(patch.Description),
	))
	return a, notFound(err)
}

func (r *PGRepo) DeleteAcademic(ctx context.Context, resumeID, academicID int64, filter access.Filter) error {
	const query = `
DELETE FROM academic_experiences a
USING resumes r
WHERE a.id = $1 AND a.resume_id = $2 AND r.id = a.resume_id
  AND ($3::bigint = 0 OR r.user_id = $3)`
	return r.exec(ctx, query, academicID, resumeID, filter.OwnerID)
}

const languageColumns = `l.id, l.resume_id, l.name, l.level`

func scanLanguage(row scanner) (Language, error) {
	var l Language
	err := row.Scan(&l.ID, &l.ResumeID, &l.Name, &l.Level)
	return l, err
}

func (r *PGRepo) CreateLanguage(ctx context.Context, l Language) (Language, error) {
	const query = `
INSERT INTO languages (resume_id, name, level)
VALUES ($1, $2, $3)
RETURNING id`
	if err := r.DB.QueryRowContext(ctx, query, l.ResumeID, l.Name, l.Level).Scan(&l.ID); err != nil {
		return Language{}, err
	}
	return l, nil
}

func (r *PGRepo) GetLanguage(ctx context.Context, resumeID, languageID int64) (Language, error) {
	const query = `
SELECT ` + languageColumns + `
FROM languages l
WHERE l.id = $1 AND l.resume_id = $2`
	l, err := scanLanguage(r.DB.QueryRowContext(ctx, query, languageID, resumeID))
	return l, notFound(err)
}

func (r *PGRepo) ListLanguages(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]Language, error) {
	const query = `
SELECT ` + languageColumns + `
FROM languages l
JOIN resumes r ON r.id = l.resume_id
WHERE l.resume_id = $1 AND ($2::bigint = 0 OR r.user_id = $2)
ORDER BY l.id
LIMIT $3 OFFSET $4`
	rows, err := r.DB.QueryContext(ctx, query, resumeID, filter.OwnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Language{}
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateLanguage(ctx context.Context, resumeID, languageID int64, filter access.Filter, patch LanguagePatch) (Language, error) {
	const query = `
UPDATE languages l SET
  name = COALESCE($4, l.name),
  level = COALESCE($5, l.level)
FROM resumes r
WHERE l.id = $1 AND l.resume_id = $2 AND r.id = l.resume_id
  AND ($3::bigint = 0 OR r.user_id = $3)
RETURNING ` + languageColumns
	l, err := scanLanguage(r.DB.QueryRowContext(ctx, query,
		languageID,
		resumeID,
		filter.OwnerID,
		nullable(patch.Name),
		nullable(patch.Level),
	))
	return l, notFound(err)
}

func (r *PGRepo) DeleteLanguage(ctx context.Context, resumeID, languageID int64, filter access.Filter) error {
	const query = `
DELETE FROM languages l
USING resumes r
WHERE l.id = $1 AND l.resume_id = $2 AND r.id = l.resume_id
  AND ($3::bigint = 0 OR r.user_id = $3)`
	return r.exec(ctx, query, languageID, resumeID, filter.OwnerID)
}

func (r *PGRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	var query string
	switch ref.Kind {
	case access.KindResume:
		var owner int64
		err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM resumes WHERE id = $1`, ref.ID).Scan(&owner)
		if err != nil {
			return access.Node{}, notFound(err)
		}
		return access.Node{OwnerID: owner}, nil
	case access.KindWorkExperience:
		query = `SELECT resume_id FROM work_experiences WHERE id = $1`
	case access.KindAcademicExperience:
		query = `SELECT resume_id FROM academic_experiences WHERE id = $1`
	case access.KindLanguage:
		query = `SELECT resume_id FROM languages WHERE id = $1`
	default:
		return access.Node{}, ErrNotFound
	}
	var resumeID int64
	if err := r.DB.QueryRowContext(ctx, query, ref.ID).Scan(&resumeID); err != nil {
		return access.Node{}, notFound(err)
	}
	return access.Node{Parent: resumeRef(resumeID)}, nil
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectRow(res)
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

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

var _ Repo = (*PGRepo)(nil)
