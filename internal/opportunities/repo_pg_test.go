package opportunities

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

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

func allowAll(access.Subject) error { return nil }

func TestPGCreateSavedDuplicateRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR SHARE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "is_active"}).AddRow(int64(1), true))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO saved")).
		WithArgs(int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))
	mock.ExpectRollback()

	_, err := repo.CreateSaved(context.Background(), 2, 3, allowAll)
	if !access.IsValidation(err) {
		t.Fatalf("expected duplicate validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGCreateSavedGuardRunsOnLockedRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR SHARE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "is_active"}).AddRow(int64(1), false))
	mock.ExpectRollback()

	var seen access.Subject
	guard := func(s access.Subject) error {
		seen = s
		return access.ErrNotFound
	}
	_, err := repo.CreateSaved(context.Background(), 2, 3, guard)
	if !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("expected guard error, got %v", err)
	}
	if seen.OwnerID != 1 || seen.Active || seen.Ref.ID != 3 {
		t.Fatalf("unexpected guarded subject %+v", seen)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGCreateSavedMissingOpportunity(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR SHARE")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "is_active"}))
	mock.ExpectRollback()

	if _, err := repo.CreateSaved(context.Background(), 2, 9, allowAll); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPGListPushesActiveFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("(NOT $2::boolean OR o.is_active)")).
		WithArgs(int64(0), true, "go", "", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	out, err := repo.List(context.Background(), access.Filter{ActiveOnly: true}, Query{Position: "go"}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d", len(out))
	}
}

func TestPGListEscapesSearchInput(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`o.location ILIKE ('%' || $4 || '%') ESCAPE '\'`)).
		WithArgs(int64(0), true, `c\_\_`, `50\%`, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.List(context.Background(), access.Filter{ActiveOnly: true}, Query{Position: "c__", Location: "50%"}, 20, 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGDeleteByNonPoster(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM opportunities")).
		WithArgs(int64(3), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 3, access.Filter{OwnerID: 7}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
