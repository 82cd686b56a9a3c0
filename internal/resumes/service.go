package resumes

import (
	"context"
	"time"

	"jobboard-backend/internal/access"
)

// fullViewLimit bounds each child list embedded in a recruiter's full view.
const fullViewLimit = 100

var errPeriod = access.Invalid("end date must not be before start date")

type Service struct {
	Repo   Repo
	Access *access.Evaluator
}

func checkPeriod(start string, end *string) error {
	if end == nil {
		return nil
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return access.Invalid("invalid start date")
	}
	e, err := time.Parse(dateLayout, *end)
	if err != nil {
		return access.Invalid("invalid end date")
	}
	if e.Before(s) {
		return errPeriod
	}
	return nil
}

func (s *Service) ListResumes(ctx context.Context, actor access.Actor, userID int64, limit, offset int) ([]Resume, error) {
	if err := s.Access.AllowScope(actor, access.KindResume, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListResumes(ctx, userID, limit, offset)
}

func (s *Service) CreateResume(ctx context.Context, actor access.Actor, userID int64, in ResumeInput) (Resume, error) {
	if err := s.Access.AllowScope(actor, access.KindResume, userID); err != nil {
		return Resume{}, err
	}
	if err := s.Access.AllowCreate(actor, access.KindResume, access.Subject{}); err != nil {
		return Resume{}, err
	}
	return s.Repo.CreateResume(ctx, Resume{UserID: actor.UserID, Name: in.Name, Summary: in.Summary, Other: in.Other})
}

func (s *Service) GetResume(ctx context.Context, actor access.Actor, resumeID int64) (Resume, error) {
	if _, err := s.Access.Check(ctx, actor, resumeRef(resumeID), access.OpRead); err != nil {
		return Resume{}, err
	}
	return s.Repo.GetResume(ctx, resumeID)
}

func (s *Service) UpdateResume(ctx context.Context, actor access.Actor, resumeID int64, patch ResumePatch) (Resume, error) {
	if _, err := s.Access.Check(ctx, actor, resumeRef(resumeID), access.OpUpdate); err != nil {
		return Resume{}, err
	}
	return s.Repo.UpdateResume(ctx, resumeID, access.MutationFilter(actor, access.KindResume), patch)
}

// DeleteResume removes the resume with its children and the applications
// that attached it.
func (s *Service) DeleteResume(ctx context.Context, actor access.Actor, resumeID int64) error {
	if _, err := s.Access.Check(ctx, actor, resumeRef(resumeID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.DeleteResume(ctx, resumeID, access.MutationFilter(actor, access.KindResume))
}

// parent authorizes creating a child of kind under the resume.
func (s *Service) parent(ctx context.Context, actor access.Actor, resumeID int64, kind access.Kind) error {
	if !actor.Authenticated() {
		return access.ErrUnauthenticated
	}
	subject, err := s.Access.Check(ctx, actor, resumeRef(resumeID), access.OpRead)
	if err != nil {
		return err
	}
	return s.Access.AllowCreate(actor, kind, subject)
}

func (s *Service) ListWork(ctx context.Context, actor access.Actor, resumeID int64, limit, offset int) ([]WorkExperience, error) {
	subject, err := s.Access.Check(ctx, actor, resumeRef(resumeID), access.OpList)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListWork(ctx, resumeID, access.SubjectFilter(subject), limit, offset)
}

func (s *Service) CreateWork(ctx context.Context, actor access.Actor, resumeID int64, in WorkInput) (WorkExperience, error) {
	if err := s.parent(ctx, actor, resumeID, access.KindWorkExperience); err != nil {
		return WorkExperience{}, err
	}
	if err := checkPeriod(in.StartDate, in.EndDate); err != nil {
		return WorkExperience{}, err
	}
	return s.Repo.CreateWork(ctx, in.work(resumeID))
}

func (s *Service) GetWork(ctx context.Context, actor access.Actor, resumeID, workID int64) (WorkExperience, error) {
	if _, err := s.Access.Check(ctx, actor, workRef(workID), access.OpRead); err != nil {
		return WorkExperience{}, err
	}
	return s.Repo.GetWork(ctx, resumeID, workID)
}

func (s *Service) UpdateWork(ctx context.Context, actor access.Actor, resumeID, workID int64, patch WorkPatch) (WorkExperience, error) {
	if _, err := s.Access.Check(ctx, actor, workRef(workID), access.OpUpdate); err != nil {
		return WorkExperience{}, err
	}
	current, err := s.Repo.GetWork(ctx, resumeID, workID)
	if err != nil {
		return WorkExperience{}, err
	}
	merged := patch.apply(current)
	if err := checkPeriod(merged.StartDate, merged.EndDate); err != nil {
		return WorkExperience{}, err
	}
	return s.Repo.UpdateWork(ctx, resumeID, workID, access.MutationFilter(actor, access.KindWorkExperience), patch)
}

func (s *Service) DeleteWork(ctx context.Context, actor access.Actor, resumeID, workID int64) error {
	if _, err := s.Access.Check(ctx, actor, workRef(workID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.DeleteWork(ctx, resumeID, workID, access.MutationFilter(actor, access.KindWorkExperience))
}

func (s *Service) ListAcademic(ctx context.Context, actor access.Actor, resumeID int64, limit, offset int) ([]AcademicExperience, error) {
	subject, err := s.Access.Check(ctx, actor, resumeRef(resumeID), access.OpList)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListAcademic(ctx, resumeID, access.SubjectFilter(subject), limit, offset)
}

func (s *Service) CreateAcademic(ctx context.Context, actor access.Actor, resumeID int64, in AcademicInput) (AcademicExperience, error) {
	if err := s.parent(ctx, actor, resumeID, access.KindAcademicExperience); err != nil {
		return AcademicExperience{}, err
	}
	if err := checkPeriod(in.StartDate, in.EndDate); err != nil {
		return AcademicExperience{}, err
	}
	return s.Repo.CreateAcademic(ctx, in.academic(resumeID))
}

func (s *Service) GetAcademic(ctx context.Context, actor access.Actor, resumeID, academicID int64) (AcademicExperience, error) {
	if _, err := s.Access.Check(ctx, actor, academicRef(academicID), access.OpRead); err != nil {
		return AcademicExperience{}, err
	}
	return s.Repo.GetAcademic(ctx, resumeID, academicID)
}

func (s *Service) UpdateAcademic(ctx context.Context, actor access.Actor, resumeID, academicID int64, patch AcademicPatch) (AcademicExperience, error) {
	if _, err := s.Access.Check(ctx, actor, academicRef(academicID), access.OpUpdate); err != nil {
		return AcademicExperience{}, err
	}
	current, err := s.Repo.GetAcademic(ctx, resumeID, academicID)
	if err != nil {
		return AcademicExperience{}, err
	}
	merged := patch.apply(current)
	if err := checkPeriod(merged.StartDate, merged.EndDate); err != nil {
		return AcademicExperience{}, err
	}
	return s.Repo.UpdateAcademic(ctx, resumeID, academicID, access.MutationFilter(actor, access.KindAcademicExperience), patch)
}

func (s *Service) DeleteAcademic(ctx context.Context, actor access.Actor, resumeID, academicID int64) error {
	if _, err := s.Access.Check(ctx, actor, academicRef(academicID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.DeleteAcademic(ctx, resumeID, academicID, access.MutationFilter(actor, access.KindAcademicExperience))
}

func (s *Service) ListLanguages(ctx context.Context, actor access.Actor, resumeID int64, limit, offset int) ([]Language, error) {
	subject, err := s.Access.Check(ctx, actor, resumeRef(resumeID), access.OpList)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListLanguages(ctx, resumeID, access.SubjectFilter(subject), limit, offset)
}

func (s *Service) CreateLanguage(ctx context.Context, actor access.Actor, resumeID int64, in LanguageInput) (Language, error) {
	if err := s.parent(ctx, actor, resumeID, access.KindLanguage); err != nil {
		return Language{}, err
	}
	return s.Repo.CreateLanguage(ctx, Language{ResumeID: resumeID, Name: in.Name, Level: in.Level})
}

func (s *Service) GetLanguage(ctx context.Context, actor access.Actor, resumeID, languageID int64) (Language, error) {
	if _, err := s.Access.Check(ctx, actor, languageRef(languageID), access.OpRead); err != nil {
		return Language{}, err
	}
	return s.Repo.GetLanguage(ctx, resumeID, languageID)
}

func (s *Service) UpdateLanguage(ctx context.Context, actor access.Actor, resumeID, languageID int64, patch LanguagePatch) (Language, error) {
	if _, err := s.Access.Check(ctx, actor, languageRef(languageID), access.OpUpdate); err != nil {
		return Language{}, err
	}
	return s.Repo.UpdateLanguage(ctx, resumeID, languageID, access.MutationFilter(actor, access.KindLanguage), patch)
}

func (s *Service) DeleteLanguage(ctx context.Context, actor access.Actor, resumeID, languageID int64) error {
	if _, err := s.Access.Check(ctx, actor, languageRef(languageID), access.OpDelete); err != nil {
		return err
	}
	return s.Repo.DeleteLanguage(ctx, resumeID, languageID, access.MutationFilter(actor, access.KindLanguage))
}

// FullForApplication is the recruiter's view of an applicant's resume. The
// actor must be the applicant or the poster of the application's opportunity,
// and the resume must belong to the applicant.
func (s *Service) FullForApplication(ctx context.Context, actor access.Actor, applicationID, resumeID int64) (Full, error) {
	subject, err := s.Access.CheckViaApplication(ctx, actor, applicationID, resumeRef(resumeID), access.OpRead)
	if err != nil {
		return Full{}, err
	}
	res, err := s.Repo.GetResume(ctx, resumeID)
	if err != nil {
		return Full{}, err
	}
	filter := access.SubjectFilter(subject)
	full := Full{Resume: res}
	if full.WorkExperiences, err = s.Repo.ListWork(ctx, resumeID, filter, fullViewLimit, 0); err != nil {
		return Full{}, err
	}
	if full.AcademicExperiences, err = s.Repo.ListAcademic(ctx, resumeID, filter, fullViewLimit, 0); err != nil {
		return Full{}, err
	}
	if full.Languages, err = s.Repo.ListLanguages(ctx, resumeID, filter, fullViewLimit, 0); err != nil {
		return Full{}, err
	}
	return full, nil
}

func (s *Service) WorkForApplication(ctx context.Context, actor access.Actor, applicationID, resumeID int64, limit, offset int) ([]WorkExperience, error) {
	subject, err := s.Access.CheckViaApplication(ctx, actor, applicationID, resumeRef(resumeID), access.OpList)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListWork(ctx, resumeID, access.SubjectFilter(subject), limit, offset)
}

func (s *Service) AcademicForApplication(ctx context.Context, actor access.Actor, applicationID, resumeID int64, limit, offset int) ([]AcademicExperience, error) {
	subject, err := s.Access.CheckViaApplication(ctx, actor, applicationID, resumeRef(resumeID), access.OpList)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListAcademic(ctx, resumeID, access.SubjectFilter(subject), limit, offset)
}

func (s *Service) LanguagesForApplication(ctx context.Context, actor access.Actor, applicationID, resumeID int64, limit, offset int) ([]Language, error) {
	subject, err := s.Access.CheckViaApplication(ctx, actor, applicationID, resumeRef(resumeID), access.OpList)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListLanguages(ctx, resumeID, access.SubjectFilter(subject), limit, offset)
}
