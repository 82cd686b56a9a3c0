package resumes

import (
	"context"

	"jobboard-backend/internal/access"
)

var ErrNotFound = access.ErrNotFound

// Child listings and mutations take a filter carrying the resume owner; the
// repository joins through resumes to apply it. Every child lookup also
// requires the child to belong to resumeID.
type Repo interface {
	CreateResume(ctx context.Context, r Resume) (Resume, error)
	GetResume(ctx context.Context, resumeID int64) (Resume, error)
	ListResumes(ctx context.Context, userID int64, limit, offset int) ([]Resume, error)
	UpdateResume(ctx context.Context, resumeID int64, filter access.Filter, patch ResumePatch) (Resume, error)
	DeleteResume(ctx context.Context, resumeID int64, filter access.Filter) error

	CreateWork(ctx context.Context, w WorkExperience) (WorkExperience, error)
	GetWork(ctx context.Context, resumeID, workID int64) (WorkExperience, error)
	ListWork(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]WorkExperience, error)
	UpdateWork(ctx context.Context, resumeID, workID int64, filter access.Filter, patch WorkPatch) (WorkExperience, error)
	DeleteWork(ctx context.Context, resumeID, workID int64, filter access.Filter) error

	CreateAcademic(ctx context.Context, a AcademicExperience) (AcademicExperience, error)
	GetAcademic(ctx context.Context, resumeID, academicID int64) (AcademicExperience, error)
	ListAcademic(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]AcademicExperience, error)
	UpdateAcademic(ctx context.Context, resumeID, academicID int64, filter access.Filter, patch AcademicPatch) (AcademicExperience, error)
	DeleteAcademic(ctx context.Context, resumeID, academicID int64, filter access.Filter) error

	CreateLanguage(ctx context.Context, l Language) (Language, error)
	GetLanguage(ctx context.Context, resumeID, languageID int64) (Language, error)
	ListLanguages(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]Language, error)
	UpdateLanguage(ctx context.Context, resumeID, languageID int64, filter access.Filter, patch LanguagePatch) (Language, error)
	DeleteLanguage(ctx context.Context, resumeID, languageID int64, filter access.Filter) error

	access.NodeSource
}

// Cascader removes applications that attached a deleted resume.
type Cascader interface {
	DeleteByResume(ctx context.Context, resumeID int64) error
}

func resumeRef(id int64) access.Ref   { return access.Ref{Kind: access.KindResume, ID: id} }
func workRef(id int64) access.Ref     { return access.Ref{Kind: access.KindWorkExperience, ID: id} }
func academicRef(id int64) access.Ref { return access.Ref{Kind: access.KindAcademicExperience, ID: id} }
func languageRef(id int64) access.Ref { return access.Ref{Kind: access.KindLanguage, ID: id} }
