package companies

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/storage/object/local"
)

const (
	author   int64 = 1
	stranger int64 = 2
)

type recordingCascade struct {
	deleted []int64
}

func (r *recordingCascade) DeleteByCompany(ctx context.Context, companyID int64) error {
	r.deleted = append(r.deleted, companyID)
	return nil
}

func newTestService(t *testing.T) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	resolver := access.NewResolver()
	resolver.Register(repo, access.KindCompany, access.KindReview, access.KindQuestion, access.KindAnswer)
	return &Service{
		Repo:         repo,
		Access:       &access.Evaluator{Resolver: resolver},
		Store:        local.New(t.TempDir()),
		MediaBaseURL: "/media",
	}, repo
}

func score(v float64) *float64 { return &v }

func TestCreateCompanyRequiresAuthAndUniqueName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Create(ctx, access.Anonymous(), CompanyInput{Name: "Acme"}); !errors.Is(err, access.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if _, err := svc.Create(ctx, access.User(author), CompanyInput{Name: "Acme"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, access.User(stranger), CompanyInput{Name: "Acme"}); !access.IsValidation(err) {
		t.Fatalf("expected validation error for duplicate name, got %v", err)
	}
}

func TestAnyUserMayEditCompany(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	company, err := svc.Create(ctx, access.User(author), CompanyInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	industry := "Retail"
	updated, err := svc.Update(ctx, access.User(stranger), company.ID, CompanyPatch{Industry: &industry})
	if err != nil {
		t.Fatalf("Update by another user: %v", err)
	}
	if updated.Industry != "Retail" {
		t.Fatalf("unexpected industry %q", updated.Industry)
	}
}

func TestReviewAuthorOnlyWrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	company, _ := svc.Create(ctx, access.User(author), CompanyInput{Name: "Acme"})

	review, err := svc.CreateReview(ctx, access.User(author), company.ID, ReviewInput{Score: score(7.26), Review: "Good"})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if review.Score != 7.3 {
		t.Fatalf("expected score rounded to 7.3, got %v", review.Score)
	}

	text := "Bad"
	if _, err := svc.UpdateReview(ctx, access.User(stranger), company.ID, review.ID, ReviewPatch{Review: &text}); !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("expected not found for non-author update, got %v", err)
	}
	if err := svc.DeleteReview(ctx, access.User(stranger), company.ID, review.ID); !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("expected not found for non-author delete, got %v", err)
	}
	if _, err := svc.GetReview(ctx, access.Anonymous(), company.ID, review.ID); err != nil {
		t.Fatalf("public read: %v", err)
	}
	if err := svc.DeleteReview(ctx, access.User(author), company.ID, review.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}

func TestReviewMustBelongToCompany(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	acme, _ := svc.Create(ctx, access.User(author), CompanyInput{Name: "Acme"})
	globex, _ := svc.Create(ctx, access.User(author), CompanyInput{Name: "Globex"})
	review, _ := svc.CreateReview(ctx, access.User(author), acme.ID, ReviewInput{Score: score(5), Review: "ok"})

	if _, err := svc.GetReview(ctx, access.User(author), globex.ID, review.ID); !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("expected not found through the wrong company, got %v", err)
	}
}

func TestCompanyStats(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	company, _ := svc.Create(ctx, access.User(author), CompanyInput{Name: "Acme"})

	got, _ := svc.Get(ctx, access.Anonymous(), company.ID)
	if got.ReviewCount != 0 || got.ReviewAvg != nil {
		t.Fatalf("expected empty stats, got %+v", got)
	}

	_, _ = svc.CreateReview(ctx, access.User(author), company.ID, ReviewInput{Score: score(8), Review: "a"})
	_, _ = svc.CreateReview(ctx, access.User(stranger), company.ID, ReviewInput{Score: score(6), Review: "b"})

	got, _ = svc.Get(ctx, access.Anonymous(), company.ID)
	if got.ReviewCount != 2 || got.ReviewAvg == nil || *got.ReviewAvg != 7 {
		t.Fatalf("unexpected stats %+v", got)
	}
}

func TestDeleteCompanyCascades(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	cascade := &recordingCascade{}
	repo.Cascade = cascade

	company, _ := svc.Create(ctx, access.User(author), CompanyInput{Name: "Acme"})
	q, _ := svc.CreateQuestion(ctx, access.User(author), company.ID, QuestionInput{Question: "Remote?"})
	a, _ := svc.CreateAnswer(ctx, access.User(stranger), q.ID, AnswerInput{Answer: "Yes"})

	if err := svc.Delete(ctx, access.User(stranger), company.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetAnswer(ctx, access.Anonymous(), q.ID, a.ID); !errors.Is(err, access.ErrNotFound) {
		t.Fatalf("expected answer removed with company, got %v", err)
	}
	if len(cascade.deleted) != 1 || cascade.deleted[0] != company.ID {
		t.Fatalf("expected cascade for company %d, got %v", company.ID, cascade.deleted)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, name := range []string{"Umbrella", "Acme Corp", "acme labs"} {
		if _, err := svc.Create(ctx, access.User(author), CompanyInput{Name: name}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	out, err := svc.List(ctx, "ACME", 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[0].Name != "Acme Corp" {
		t.Fatalf("unexpected search result %+v", out)
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	for _, name := range []string{"Umbrella", "100% Organic", "Data_Works"} {
		if _, err := svc.Create(ctx, access.User(author), CompanyInput{Name: name}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	tests := map[string]int{"%": 1, "_": 1, "a_w": 1, "u%a": 0}
	for needle, want := range tests {
		out, err := svc.List(ctx, needle, 20, 0)
		if err != nil {
			t.Fatalf("List %q: %v", needle, err)
		}
		if len(out) != want {
			t.Errorf("List(%q) returned %d companies, want %d", needle, len(out), want)
		}
	}
}

func TestUploadLogo(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	company, _ := svc.Create(ctx, access.User(author), CompanyInput{Name: "Acme"})

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	updated, err := svc.UploadLogo(ctx, access.User(stranger), company.ID, "logo.png", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("UploadLogo: %v", err)
	}
	prefix := fmt.Sprintf("/media/companies/%d/", company.ID)
	if !strings.HasPrefix(updated.ImageURL, prefix) || !strings.HasSuffix(updated.ImageURL, "_logo.png") {
		t.Fatalf("unexpected image url %q", updated.ImageURL)
	}

	if _, err := svc.UploadLogo(ctx, access.User(author), company.ID, "notes.txt", strings.NewReader("plain text")); !access.IsValidation(err) {
		t.Fatalf("expected validation error for non-image, got %v", err)
	}
	if _, err := svc.UploadLogo(ctx, access.Anonymous(), company.ID, "logo.png", bytes.NewReader(png)); !errors.Is(err, access.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated upload, got %v", err)
	}
}
