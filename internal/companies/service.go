package companies

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/storage/object"
)

type Service struct {
	Repo   Repo
	Access *access.Evaluator
	// Store and MediaBaseURL back logo uploads; uploads fail when Store is nil.
	Store        object.ObjectStore
	MediaBaseURL string
}

func companyRef(id int64) access.Ref  { return access.Ref{Kind: access.KindCompany, ID: id} }
func reviewRef(id int64) access.Ref   { return access.Ref{Kind: access.KindReview, ID: id} }
func questionRef(id int64) access.Ref { return access.Ref{Kind: access.KindQuestion, ID: id} }
func answerRef(id int64) access.Ref   { return access.Ref{Kind: access.KindAnswer, ID: id} }

func (s *Service) List(ctx context.Context, nameLike string, limit, offset int) ([]Company, error) {
	return s.Repo.List(ctx, strings.TrimSpace(nameLike), limit, offset)
}

func (s *Service) Get(ctx context.Context, actor access.Actor, companyID int64) (Company, error) {
	if _, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpRead); err != nil {
		return Company{}, err
	}
	return s.Repo.Get(ctx, companyID)
}

func (s *Service) Create(ctx context.Context, actor access.Actor, in CompanyInput) (Company, error) {
	if err := s.Access.AllowCreate(actor, access.KindCompany, access.Subject{}); err != nil {
		return Company{}, err
	}
	return s.Repo.Create(ctx, Company{
		Name:        strings.TrimSpace(in.Name),
		Industry:    in.Industry,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
}

func (s *Service) Update(ctx context.Context, actor access.Actor, companyID int64, patch CompanyPatch) (Company, error) {
	if _, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpUpdate); err != nil {
		return Company{}, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Company{}, access.Invalid("name may not be blank")
		}
		patch.Name = &name
	}
	return s.Repo.Update(ctx, companyID, patch)
}

func (s *Service) Delete(ctx context.Context, actor access.Actor, companyID int64) error {
	if _, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, companyID)
}

// UploadLogo stores an image in object storage and points image_url at it.
func (s *Service) UploadLogo(ctx context.Context, actor access.Actor, companyID int64, fileName string, r io.Reader) (Company, error) {
	if _, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpUpdate); err != nil {
		return Company{}, err
	}
	if s.Store == nil {
		return Company{}, errors.New("object store not configured")
	}

	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Company{}, fmt.Errorf("read logo: %w", err)
	}
	if n == 0 || !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return Company{}, errNotImage
	}

	body := io.MultiReader(bytes.NewReader(head[:n]), r)
	key, _, _, err := s.Store.Save(ctx, fmt.Sprintf("companies/%d", companyID), fileName, body)
	if err != nil {
		return Company{}, fmt.Errorf("save logo: %w", err)
	}
	url := strings.TrimRight(s.MediaBaseURL, "/") + "/" + key
	return s.Repo.Update(ctx, companyID, CompanyPatch{ImageURL: &url})
}

// Names maps company ids to names for opportunity listings.
func (s *Service) Names(ctx context.Context, ids []int64) (map[int64]string, error) {
	return s.Repo.Names(ctx, ids)
}

func (s *Service) ListReviews(ctx context.Context, actor access.Actor, companyID int64, limit, offset int) ([]Review, error) {
	if _, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpRead); err != nil {
		return nil, err
	}
	return s.Repo.ListReviews(ctx, companyID, limit, offset)
}

func (s *Service) GetReview(ctx context.Context, actor access.Actor, companyID, reviewID int64) (Review, error) {
	if _, err := s.Access.Check(ctx, actor, reviewRef(reviewID), access.OpRead); err != nil {
		return Review{}, err
	}
	return s.Repo.GetReview(ctx, companyID, reviewID)
}

func (s *Service) CreateReview(ctx context.Context, actor access.Actor, companyID int64, in ReviewInput) (Review, error) {
	parent, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpRead)
	if err != nil {
		return Review{}, err
	}
	if err := s.Access.AllowCreate(actor, access.KindReview, parent); err != nil {
		return Review{}, err
	}
	if in.Score == nil {
		return Review{}, access.Invalid("score is required")
	}
	return s.Repo.CreateReview(ctx, Review{
		CompanyID:      companyID,
		UserID:         actor.UserID,
		Identification: in.Identification,
		Score:          roundScore(*in.Score),
		Review:         in.Review,
	})
}

func (s *Service) UpdateReview(ctx context.Context, actor access.Actor, companyID, reviewID int64, patch ReviewPatch) (Review, error) {
	if _, err := s.Access.Check(ctx, actor, reviewRef(reviewID), access.OpUpdate); err != nil {
		return Review{}, err
	}
	return s.Repo.UpdateReview(ctx, companyID, reviewID, access.MutationFilter(actor, access.KindReview), patch)
}

func (s *Service) DeleteReview(ctx context.Context, actor access.Actor, companyID, reviewID int64) error {
	if _, err := s.Access.Check(ctx, actor, reviewRef(reviewID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.DeleteReview(ctx, companyID, reviewID, access.MutationFilter(actor, access.KindReview))
}

func (s *Service) ListQuestions(ctx context.Context, actor access.Actor, companyID int64, limit, offset int) ([]Question, error) {
	if _, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpRead); err != nil {
		return nil, err
	}
	return s.Repo.ListQuestions(ctx, companyID, limit, offset)
}

func (s *Service) GetQuestion(ctx context.Context, actor access.Actor, companyID, questionID int64) (Question, error) {
	if _, err := s.Access.Check(ctx, actor, questionRef(questionID), access.OpRead); err != nil {
		return Question{}, err
	}
	return s.Repo.GetQuestion(ctx, companyID, questionID)
}

func (s *Service) CreateQuestion(ctx context.Context, actor access.Actor, companyID int64, in QuestionInput) (Question, error) {
	parent, err := s.Access.Check(ctx, actor, companyRef(companyID), access.OpRead)
	if err != nil {
		return Question{}, err
	}
	if err := s.Access.AllowCreate(actor, access.KindQuestion, parent); err != nil {
		return Question{}, err
	}
	return s.Repo.CreateQuestion(ctx, Question{CompanyID: companyID, UserID: actor.UserID, Question: in.Question})
}

func (s *Service) UpdateQuestion(ctx context.Context, actor access.Actor, companyID, questionID int64, in QuestionInput) (Question, error) {
	if _, err := s.Access.Check(ctx, actor, questionRef(questionID), access.OpUpdate); err != nil {
		return Question{}, err
	}
	return s.Repo.UpdateQuestion(ctx, companyID, questionID, access.MutationFilter(actor, access.KindQuestion), in.Question)
}

func (s *Service) DeleteQuestion(ctx context.Context, actor access.Actor, companyID, questionID int64) error {
	if _, err := s.Access.Check(ctx, actor, questionRef(questionID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.DeleteQuestion(ctx, companyID, questionID, access.MutationFilter(actor, access.KindQuestion))
}

func (s *Service) ListAnswers(ctx context.Context, actor access.Actor, questionID int64, limit, offset int) ([]Answer, error) {
	if _, err := s.Access.Check(ctx, actor, questionRef(questionID), access.OpRead); err != nil {
		return nil, err
	}
	return s.Repo.ListAnswers(ctx, questionID, limit, offset)
}

func (s *Service) GetAnswer(ctx context.Context, actor access.Actor, questionID, answerID int64) (Answer, error) {
	if _, err := s.Access.Check(ctx, actor, answerRef(answerID), access.OpRead); err != nil {
		return Answer{}, err
	}
	return s.Repo.GetAnswer(ctx, questionID, answerID)
}

func (s *Service) CreateAnswer(ctx context.Context, actor access.Actor, questionID int64, in AnswerInput) (Answer, error) {
	parent, err := s.Access.Check(ctx, actor, questionRef(questionID), access.OpRead)
	if err != nil {
		return Answer{}, err
	}
	if err := s.Access.AllowCreate(actor, access.KindAnswer, parent); err != nil {
		return Answer{}, err
	}
	return s.Repo.CreateAnswer(ctx, Answer{QuestionID: questionID, UserID: actor.UserID, Answer: in.Answer})
}

func (s *Service) UpdateAnswer(ctx context.Context, actor access.Actor, questionID, answerID int64, in AnswerInput) (Answer, error) {
	if _, err := s.Access.Check(ctx, actor, answerRef(answerID), access.OpUpdate); err != nil {
		return Answer{}, err
	}
	return s.Repo.UpdateAnswer(ctx, questionID, answerID, access.MutationFilter(actor, access.KindAnswer), in.Answer)
}

func (s *Service) DeleteAnswer(ctx context.Context, actor access.Actor, questionID, answerID int64) error {
	if _, err := s.Access.Check(ctx, actor, answerRef(answerID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.DeleteAnswer(ctx, questionID, answerID, access.MutationFilter(actor, access.KindAnswer))
}
