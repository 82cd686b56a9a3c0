package users

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"jobboard-backend/internal/access"
)

var userRowColumns = []string{"id", "username", "first_name", "last_name", "email", "phone_number", "location", "google_sub", "created_at"}

func TestPGRepoUpdatePushesOwnerFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	city := "Porto"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET")).
		WithArgs(int64(4), int64(4), nil, nil, nil, nil, "Porto").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(4), "ana", "", "", "", "", "Porto", "", time.Now()))

	user, err := repo.Update(context.Background(), 4, access.Filter{OwnerID: 4}, UpdateInput{Location: &city})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.Location != "Porto" {
		t.Fatalf("unexpected location %q", user.Location)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
