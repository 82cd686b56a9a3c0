package companies

import (
	"context"

	"jobboard-backend/internal/access"
)

type CompanyRepo interface {
	Create(ctx context.Context, company Company) (Company, error)
	Get(ctx context.Context, companyID int64) (Company, error)
	// List returns companies ordered by name. A non-empty nameLike keeps
	// names containing it, case-insensitively.
	List(ctx context.Context, nameLike string, limit, offset int) ([]Company, error)
	Update(ctx context.Context, companyID int64, patch CompanyPatch) (Company, error)
	Delete(ctx context.Context, companyID int64) error
	Names(ctx context.Context, ids []int64) (map[int64]string, error)
}

// ReviewRepo mutations carry the author filter; a row outside it is reported
// as not found.
type ReviewRepo interface {
	CreateReview(ctx context.Context, review Review) (Review, error)
	GetReview(ctx context.Context, companyID, reviewID int64) (Review, error)
	ListReviews(ctx context.Context, companyID int64, limit, offset int) ([]Review, error)
	UpdateReview(ctx context.Context, companyID, reviewID int64, filter access.Filter, patch ReviewPatch) (Review, error)
	DeleteReview(ctx context.Context, companyID, reviewID int64, filter access.Filter) error
}

type QuestionRepo interface {
	CreateQuestion(ctx context.Context, q Question) (Question, error)
	GetQuestion(ctx context.Context, companyID, questionID int64) (Question, error)
	ListQuestions(ctx context.Context, companyID int64, limit, offset int) ([]Question, error)
	UpdateQuestion(ctx context.Context, companyID, questionID int64, filter access.Filter, text string) (Question, error)
	DeleteQuestion(ctx context.Context, companyID, questionID int64, filter access.Filter) error

	CreateAnswer(ctx context.Context, a Answer) (Answer, error)
	GetAnswer(ctx context.Context, questionID, answerID int64) (Answer, error)
	ListAnswers(ctx context.Context, questionID int64, limit, offset int) ([]Answer, error)
	UpdateAnswer(ctx context.Context, questionID, answerID int64, filter access.Filter, text string) (Answer, error)
	DeleteAnswer(ctx context.Context, questionID, answerID int64, filter access.Filter) error
}

type Repo interface {
	CompanyRepo
	ReviewRepo
	QuestionRepo
	// Node answers ownership lookups for companies, reviews, questions and answers.
	access.NodeSource
}

// Cascader removes records in other packages that belong to a company. Memory
// repositories use it where Postgres relies on ON DELETE CASCADE.
type Cascader interface {
	DeleteByCompany(ctx context.Context, companyID int64) error
}
