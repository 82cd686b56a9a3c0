package companies

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/server/params"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	nextID    int64
	companies map[int64]Company
	reviews   map[int64]Review
	questions map[int64]Question
	answers   map[int64]Answer

	// Cascade, when set, is called after a company is deleted.
	Cascade Cascader
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		companies: make(map[int64]Company),
		reviews:   make(map[int64]Review),
		questions: make(map[int64]Question),
		answers:   make(map[int64]Answer),
	}
}

func (r *MemoryRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *MemoryRepo) Create(ctx context.Context, company Company) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTakenLocked(company.Name, 0) {
		return Company{}, errDuplicateName
	}
	company.ID = r.id()
	company.ReviewCount, company.ReviewAvg = 0, nil
	r.companies[company.ID] = company
	return company, nil
}

func (r *MemoryRepo) nameTakenLocked(name string, except int64) bool {
	for id, c := range r.companies {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) Get(ctx context.Context, companyID int64) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.companies[companyID]
	if !ok {
		return Company{}, ErrNotFound
	}
	return r.withStatsLocked(c), nil
}

func (r *MemoryRepo) withStatsLocked(c Company) Company {
	var sum float64
	count := 0
	for _, rv := range r.reviews {
		if rv.CompanyID == c.ID {
			sum += rv.Score
			count++
		}
	}
	c.ReviewCount = count
	c.ReviewAvg = nil
	if count > 0 {
		avg := sum / float64(count)
		c.ReviewAvg = &avg
	}
	return c
}

func (r *MemoryRepo) List(ctx context.Context, nameLike string, limit, offset int) ([]Company, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(nameLike)
	r.mu.RLock()
	out := make([]Company, 0, len(r.companies))
	for _, c := range r.companies {
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) {
			continue
		}
		out = append(out, r.withStatsLocked(c))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) Update(ctx context.Context, companyID int64, patch CompanyPatch) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[companyID]
	if !ok {
		return Company{}, ErrNotFound
	}
	if patch.Name != nil && r.nameTakenLocked(*patch.Name, companyID) {
		return Company{}, errDuplicateName
	}
	c = patch.apply(c)
	r.companies[companyID] = c
	return r.withStatsLocked(c), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, companyID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.companies[companyID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.companies, companyID)
	for id, rv := range r.reviews {
		if rv.CompanyID == companyID {
			delete(r.reviews, id)
		}
	}
	for id, q := range r.questions {
		if q.CompanyID == companyID {
			r.deleteQuestionLocked(id)
		}
	}
	r.mu.Unlock()

	if r.Cascade != nil {
		if err := r.Cascade.DeleteByCompany(ctx, companyID); err != nil {
			return fmt.Errorf("cascade company %d: %w", companyID, err)
		}
	}
	return nil
}

func (r *MemoryRepo) Names(ctx context.Context, ids []int64) (map[int64]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]string, len(ids))
	for _, id := range ids {
		if c, ok := r.companies[id]; ok {
			out[id] = c.Name
		}
	}
	return out, nil
}

func (r *MemoryRepo) CreateReview(ctx context.Context, review Review) (Review, error) {
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[review.CompanyID]; !ok {
		return Review{}, ErrNotFound
	}
	review.ID = r.id()
	review.CreatedAt = time.Now().UTC()
	r.reviews[review.ID] = review
	return review, nil
}

func (r *MemoryRepo) GetReview(ctx context.Context, companyID, reviewID int64) (Review, error) {
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.reviews[reviewID]
	if !ok || rv.CompanyID != companyID {
		return Review{}, ErrNotFound
	}
	return rv, nil
}

func (r *MemoryRepo) ListReviews(ctx context.Context, companyID int64, limit, offset int) ([]Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Review, 0)
	for _, rv := range r.reviews {
		if rv.CompanyID == companyID {
			out = append(out, rv)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) UpdateReview(ctx context.Context, companyID, reviewID int64, filter access.Filter, patch ReviewPatch) (Review, error) {
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[reviewID]
	if !ok || rv.CompanyID != companyID || !filter.Allows(rv.UserID, 0, true) {
		return Review{}, ErrNotFound
	}
	rv = patch.apply(rv)
	r.reviews[reviewID] = rv
	return rv, nil
}

func (r *MemoryRepo) DeleteReview(ctx context.Context, companyID, reviewID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[reviewID]
	if !ok || rv.CompanyID != companyID || !filter.Allows(rv.UserID, 0, true) {
		return ErrNotFound
	}
	delete(r.reviews, reviewID)
	return nil
}

func (r *MemoryRepo) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[q.CompanyID]; !ok {
		return Question{}, ErrNotFound
	}
	q.ID = r.id()
	q.CreatedAt = time.Now().UTC()
	r.questions[q.ID] = q
	return q, nil
}

func (r *MemoryRepo) GetQuestion(ctx context.Context, companyID, questionID int64) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questions[questionID]
	if !ok || (companyID != 0 && q.CompanyID != companyID) {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (r *MemoryRepo) ListQuestions(ctx context.Context, companyID int64, limit, offset int) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Question, 0)
	for _, q := range r.questions {
		if q.CompanyID == companyID {
			out = append(out, q)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) UpdateQuestion(ctx context.Context, companyID, questionID int64, filter access.Filter, text string) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[questionID]
	if !ok || q.CompanyID != companyID || !filter.Allows(q.UserID, 0, true) {
		return Question{}, ErrNotFound
	}
	q.Question = text
	r.questions[questionID] = q
	return q, nil
}

func (r *MemoryRepo) DeleteQuestion(ctx context.Context, companyID, questionID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[questionID]
	if !ok || q.CompanyID != companyID || !filter.Allows(q.UserID, 0, true) {
		return ErrNotFound
	}
	r.deleteQuestionLocked(questionID)
	return nil
}

func (r *MemoryRepo) deleteQuestionLocked(questionID int64) {
	delete(r.questions, questionID)
	for id, a := range r.answers {
		if a.QuestionID == questionID {
			delete(r.answers, id)
		}
	}
}

func (r *MemoryRepo) CreateAnswer(ctx context.Context, a Answer) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[a.QuestionID]; !ok {
		return Answer{}, ErrNotFound
	}
	a.ID = r.id()
	a.CreatedAt = time.Now().UTC()
	r.answers[a.ID] = a
	return a, nil
}

func (r *MemoryRepo) GetAnswer(ctx context.Context, questionID, answerID int64) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.answers[answerID]
	if !ok || a.QuestionID != questionID {
		return Answer{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) ListAnswers(ctx context.Context, questionID int64, limit, offset int) ([]Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Answer, 0)
	for _, a := range r.answers {
		if a.QuestionID == questionID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) UpdateAnswer(ctx context.Context, questionID, answerID int64, filter access.Filter, text string) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[answerID]
	if !ok || a.QuestionID != questionID || !filter.Allows(a.UserID, 0, true) {
		return Answer{}, ErrNotFound
	}
	a.Answer = text
	r.answers[answerID] = a
	return a, nil
}

func (r *MemoryRepo) DeleteAnswer(ctx context.Context, questionID, answerID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.answers[answerID]
	if !ok || a.QuestionID != questionID || !filter.Allows(a.UserID, 0, true) {
		return ErrNotFound
	}
	delete(r.answers, answerID)
	return nil
}

func (r *MemoryRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	if err := ctx.Err(); err != nil {
		return access.Node{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch ref.Kind {
	case access.KindCompany:
		if _, ok := r.companies[ref.ID]; ok {
			return access.Node{}, nil
		}
	case access.KindReview:
		if rv, ok := r.reviews[ref.ID]; ok {
			return access.Node{OwnerID: rv.UserID}, nil
		}
	case access.KindQuestion:
		if q, ok := r.questions[ref.ID]; ok {
			return access.Node{OwnerID: q.UserID}, nil
		}
	case access.KindAnswer:
		if a, ok := r.answers[ref.ID]; ok {
			return access.Node{OwnerID: a.UserID}, nil
		}
	}
	return access.Node{}, ErrNotFound
}

// newer orders by creation time descending, breaking ties by id.
func newer(at time.Time, aID int64, bt time.Time, bID int64) bool {
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return aID > bID
}

var _ Repo = (*MemoryRepo)(nil)
