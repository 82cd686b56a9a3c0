package resumes

// Dates are calendar days in YYYY-MM-DD form.
const dateLayout = "2006-01-02"

type Resume struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"userId"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Other   string `json:"other"`
}

// Full is a resume with every child record, as shown to a recruiter.
type Full struct {
	Resume
	WorkExperiences     []WorkExperience     `json:"workExperiences"`
	AcademicExperiences []AcademicExperience `json:"academicExperiences"`
	Languages           []Language           `json:"languages"`
}

type ResumeInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Summary string `json:"summary" binding:"max=2000"`
	Other   string `json:"other" binding:"max=2000"`
}

type ResumePatch struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Summary *string `json:"summary" binding:"omitempty,max=2000"`
	Other   *string `json:"other" binding:"omitempty,max=2000"`
}

func (p ResumePatch) apply(r Resume) Resume {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Summary != nil {
		r.Summary = *p.Summary
	}
	if p.Other != nil {
		r.Other = *p.Other
	}
	return r
}

type WorkExperience struct {
	ID          int64   `json:"id"`
	ResumeID    int64   `json:"resumeId"`
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Location    string  `json:"location"`
	Industry    string  `json:"industry"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Description string  `json:"description"`
}

type WorkInput struct {
	Company     string  `json:"company" binding:"required,max=100"`
	Position    string  `json:"position" binding:"required,max=100"`
	Location    string  `json:"location" binding:"max=100"`
	Industry    string  `json:"industry" binding:"max=100"`
	StartDate   string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description" binding:"max=2000"`
}

func (in WorkInput) work(resumeID int64) WorkExperience {
	return WorkExperience{
		ResumeID:    resumeID,
		Company:     in.Company,
		Position:    in.Position,
		Location:    in.Location,
		Industry:    in.Industry,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
	}
}

type WorkPatch struct {
	Company     *string `json:"company" binding:"omitempty,min=1,max=100"`
	Position    *string `json:"position" binding:"omitempty,min=1,max=100"`
	Location    *string `json:"location" binding:"omitempty,max=100"`
	Industry    *string `json:"industry" binding:"omitempty,max=100"`
	StartDate   *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (p WorkPatch) apply(w WorkExperience) WorkExperience {
	setString(&w.Company, p.Company)
	setString(&w.Position, p.Position)
	setString(&w.Location, p.Location)
	setString(&w.Industry, p.Industry)
	setString(&w.StartDate, p.StartDate)
	setString(&w.Description, p.Description)
	if p.EndDate != nil {
		end := *p.EndDate
		w.EndDate = &end
	}
	return w
}

type AcademicExperience struct {
	ID          int64   `json:"id"`
	ResumeID    int64   `json:"resumeId"`
	School      string  `json:"school"`
	Field       string  `json:"field"`
	Course      string  `json:"course"`
	Location    string  `json:"location"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Description string  `json:"description"`
}

type AcademicInput struct {
	School      string  `json:"school" binding:"required,max=100"`
	Field       string  `json:"field" binding:"max=100"`
	Course      string  `json:"course" binding:"max=100"`
	Location    string  `json:"location" binding:"max=100"`
	StartDate   string  `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description" binding:"max=2000"`
}

func (in AcademicInput) academic(resumeID int64) AcademicExperience {
	return AcademicExperience{
		ResumeID:    resumeID,
		School:      in.School,
		Field:       in.Field,
		Course:      in.Course,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
	}
}

type AcademicPatch struct {
	School      *string `json:"school" binding:"omitempty,min=1,max=100"`
	Field       *string `json:"field" binding:"omitempty,max=100"`
	Course      *string `json:"course" binding:"omitempty,max=100"`
	Location    *string `json:"location" binding:"omitempty,max=100"`
	StartDate   *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (p AcademicPatch) apply(a AcademicExperience) AcademicExperience {
	setString(&a.School, p.School)
	setString(&a.Field, p.Field)
	setString(&a.Course, p.Course)
	setString(&a.Location, p.Location)
	setString(&a.StartDate, p.StartDate)
	setString(&a.Description, p.Description)
	if p.EndDate != nil {
		end := *p.EndDate
		a.EndDate = &end
	}
	return a
}

type Language struct {
	ID       int64  `json:"id"`
	ResumeID int64  `json:"resumeId"`
	Name     string `json:"name"`
	Level    string `json:"level"`
}

type LanguageInput struct {
	Name  string `json:"name" binding:"required,max=50"`
	Level string `json:"level" binding:"max=50"`
}

type LanguagePatch struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Level *string `json:"level" binding:"omitempty,max=50"`
}

func (p LanguagePatch) apply(l Language) Language {
	setString(&l.Name, p.Name)
	setString(&l.Level, p.Level)
	return l
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
