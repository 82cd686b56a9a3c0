package companies

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"jobboard-backend/internal/access"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateDuplicateName(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO companies")).
		WithArgs("Acme", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Create(context.Background(), Company{Name: "Acme"})
	if !access.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPGRepoUpdateUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	name := "Globex"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE companies SET")).
		WithArgs(int64(3), "Globex", nil, nil, nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), 3, CompanyPatch{Name: &name})
	if !access.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPGRepoGetWithoutReviews(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN company_reviews")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "industry", "description", "image_url", "count", "avg"}).
			AddRow(int64(1), "Acme", "Retail", "", "", 0, nil))

	c, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.ReviewCount != 0 || c.ReviewAvg != nil {
		t.Fatalf("unexpected stats %+v", c)
	}
}

func TestPGRepoDeleteReviewFiltersByAuthor(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM company_reviews")).
		WithArgs(int64(5), int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteReview(context.Background(), 1, 5, access.Filter{OwnerID: 7})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoListReviews(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WithArgs(int64(1), 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "user_id", "identification", "score", "review", "created_at"}).
			AddRow(int64(2), int64(1), int64(4), "Engineer", 8.5, "Great", now).
			AddRow(int64(1), int64(1), int64(5), "", 3.0, "Meh", now.Add(-time.Hour)))

	out, err := repo.ListReviews(context.Background(), 1, 20, 0)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(out) != 2 || out[0].Score != 8.5 {
		t.Fatalf("unexpected reviews %+v", out)
	}
}

func TestPGRepoNodeUnknownReview(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM company_reviews")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.Node(context.Background(), access.Ref{Kind: access.KindReview, ID: 99})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListEscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`ILIKE ('%' || $1 || '%') ESCAPE '\'`)).
		WithArgs(`100\%\_off`, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "industry", "description", "image_url", "count", "avg"}))

	out, err := repo.List(context.Background(), "100%_off", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no rows, got %d", len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
