package users

import (
	"context"
	"database/sql"
	"errors"

	"jobboard-backend/internal/access"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, username, first_name, last_name, email, phone_number, location, COALESCE(google_sub, ''), created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PhoneNumber,
		&user.Location,
		&user.GoogleSub,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PGRepo) UpsertGoogle(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (username, first_name, last_name, email, google_sub)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (google_sub) DO UPDATE SET
  email = EXCLUDED.email
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.GoogleSub,
	))
}

func (r *PGRepo) UpsertUsername(ctx context.Context, username string) (User, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	const query = `
INSERT INTO users (username)
VALUES ($1)
ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query, username))
}

func (r *PGRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) Update(ctx context.Context, userID int64, filter access.Filter, in UpdateInput) (User, error) {
	const query = `
UPDATE users SET
  first_name = COALESCE($3, first_name),
  last_name = COALESCE($4, last_name),
  email = COALESCE($5, email),
  phone_number = COALESCE($6, phone_number),
  location = COALESCE($7, location)
WHERE id = $1 AND ($2::bigint = 0 OR id = $2)
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		userID,
		filter.OwnerID,
		nullable(in.FirstName),
		nullable(in.LastName),
		nullable(in.Email),
		nullable(in.PhoneNumber),
		nullable(in.Location),
	))
}

func (r *PGRepo) Profiles(ctx context.Context, ids []int64) (map[int64]Profile, error) {
	out := make(map[int64]Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	const query = `
SELECT id, username, first_name, last_name
FROM users
WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *PGRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	const query = `SELECT id FROM users WHERE id = $1`
	var id int64
	if err := r.DB.QueryRowContext(ctx, query, ref.ID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return access.Node{}, ErrNotFound
		}
		return access.Node{}, err
	}
	return access.Node{OwnerID: id}, nil
}

func nullable(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

var _ Repo = (*PGRepo)(nil)
