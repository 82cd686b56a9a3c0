package resumes

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"jobboard-backend/internal/access"
	"jobboard-backend/internal/shared/server/params"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	nextID    int64
	resumes   map[int64]Resume
	work      map[int64]WorkExperience
	academic  map[int64]AcademicExperience
	languages map[int64]Language

	// Cascade, when set, is called after a resume is deleted.
	Cascade Cascader
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes:   make(map[int64]Resume),
		work:      make(map[int64]WorkExperience),
		academic:  make(map[int64]AcademicExperience),
		languages: make(map[int64]Language),
	}
}

func (r *MemoryRepo) id() int64 {
	r.nextID++
	return r.nextID
}

// ownedLocked reports whether resumeID exists and passes filter.
func (r *MemoryRepo) ownedLocked(resumeID int64, filter access.Filter) bool {
	res, ok := r.resumes[resumeID]
	return ok && filter.Allows(res.UserID, 0, true)
}

func (r *MemoryRepo) CreateResume(ctx context.Context, res Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = r.id()
	r.resumes[res.ID] = res
	return res, nil
}

func (r *MemoryRepo) GetResume(ctx context.Context, resumeID int64) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepo) ListResumes(ctx context.Context, userID int64, limit, offset int) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, 0)
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) UpdateResume(ctx context.Context, resumeID int64, filter access.Filter, patch ResumePatch) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownedLocked(resumeID, filter) {
		return Resume{}, ErrNotFound
	}
	res := patch.apply(r.resumes[resumeID])
	r.resumes[resumeID] = res
	return res, nil
}

func (r *MemoryRepo) DeleteResume(ctx context.Context, resumeID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if !r.ownedLocked(resumeID, filter) {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.resumes, resumeID)
	for id, w := range r.work {
		if w.ResumeID == resumeID {
			delete(r.work, id)
		}
	}
	for id, a := range r.academic {
		if a.ResumeID == resumeID {
			delete(r.academic, id)
		}
	}
	for id, l := range r.languages {
		if l.ResumeID == resumeID {
			delete(r.languages, id)
		}
	}
	r.mu.Unlock()

	if r.Cascade != nil {
		if err := r.Cascade.DeleteByResume(ctx, resumeID); err != nil {
			return fmt.Errorf("cascade resume %d: %w", resumeID, err)
		}
	}
	return nil
}

func (r *MemoryRepo) CreateWork(ctx context.Context, w WorkExperience) (WorkExperience, error) {
	if err := ctx.Err(); err != nil {
		return WorkExperience{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[w.ResumeID]; !ok {
		return WorkExperience{}, ErrNotFound
	}
	w.ID = r.id()
	r.work[w.ID] = w
	return w, nil
}

func (r *MemoryRepo) GetWork(ctx context.Context, resumeID, workID int64) (WorkExperience, error) {
	if err := ctx.Err(); err != nil {
		return WorkExperience{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.work[workID]
	if !ok || w.ResumeID != resumeID {
		return WorkExperience{}, ErrNotFound
	}
	return w, nil
}

func (r *MemoryRepo) ListWork(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]WorkExperience, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]WorkExperience, 0)
	if r.ownedLocked(resumeID, filter) {
		for _, w := range r.work {
			if w.ResumeID == resumeID {
				out = append(out, w)
			}
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return laterPeriod(out[i].EndDate, out[i].StartDate, out[j].EndDate, out[j].StartDate)
	})
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) UpdateWork(ctx context.Context, resumeID, workID int64, filter access.Filter, patch WorkPatch) (WorkExperience, error) {
	if err := ctx.Err(); err != nil {
		return WorkExperience{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.work[workID]
	if !ok || w.ResumeID != resumeID || !r.ownedLocked(resumeID, filter) {
		return WorkExperience{}, ErrNotFound
	}
	w = patch.apply(w)
	r.work[workID] = w
	return w, nil
}

func (r *MemoryRepo) DeleteWork(ctx context.Context, resumeID, workID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.work[workID]
	if !ok || w.ResumeID != resumeID || !r.ownedLocked(resumeID, filter) {
		return ErrNotFound
	}
	delete(r.work, workID)
	return nil
}

func (r *MemoryRepo) CreateAcademic(ctx context.Context, a AcademicExperience) (AcademicExperience, error) {
	if err := ctx.Err(); err != nil {
		return AcademicExperience{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[a.ResumeID]; !ok {
		return AcademicExperience{}, ErrNotFound
	}
	a.ID = r.id()
	r.academic[a.ID] = a
	return a, nil
}

func (r *MemoryRepo) GetAcademic(ctx context.Context, resumeID, academicID int64) (AcademicExperience, error) {
	if err := ctx.Err(); err != nil {
		return AcademicExperience{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.academic[academicID]
	if !ok || a.ResumeID != resumeID {
		return AcademicExperience{}, ErrNotFound
	}
	return a, nil
}

func (r *MemoryRepo) ListAcademic(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]AcademicExperience, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]AcademicExperience, 0)
	if r.ownedLocked(resumeID, filter) {
		for _, a := range r.academic {
			if a.ResumeID == resumeID {
				out = append(out, a)
			}
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return laterPeriod(out[i].EndDate, out[i].StartDate, out[j].EndDate, out[j].StartDate)
	})
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) UpdateAcademic(ctx context.Context, resumeID, academicID int64, filter access.Filter, patch AcademicPatch) (AcademicExperience, error) {
	if err := ctx.Err(); err != nil {
		return AcademicExperience{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.academic[academicID]
	if !ok || a.ResumeID != resumeID || !r.ownedLocked(resumeID, filter) {
		return AcademicExperience{}, ErrNotFound
	}
	a = patch.apply(a)
	r.academic[academicID] = a
	return a, nil
}

func (r *MemoryRepo) DeleteAcademic(ctx context.Context, resumeID, academicID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.academic[academicID]
	if !ok || a.ResumeID != resumeID || !r.ownedLocked(resumeID, filter) {
		return ErrNotFound
	}
	delete(r.academic, academicID)
	return nil
}

func (r *MemoryRepo) CreateLanguage(ctx context.Context, l Language) (Language, error) {
	if err := ctx.Err(); err != nil {
		return Language{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[l.ResumeID]; !ok {
		return Language{}, ErrNotFound
	}
	l.ID = r.id()
	r.languages[l.ID] = l
	return l, nil
}

func (r *MemoryRepo) GetLanguage(ctx context.Context, resumeID, languageID int64) (Language, error) {
	if err := ctx.Err(); err != nil {
		return Language{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.languages[languageID]
	if !ok || l.ResumeID != resumeID {
		return Language{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepo) ListLanguages(ctx context.Context, resumeID int64, filter access.Filter, limit, offset int) ([]Language, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Language, 0)
	if r.ownedLocked(resumeID, filter) {
		for _, l := range r.languages {
			if l.ResumeID == resumeID {
				out = append(out, l)
			}
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return params.Window(out, limit, offset), nil
}

func (r *MemoryRepo) UpdateLanguage(ctx context.Context, resumeID, languageID int64, filter access.Filter, patch LanguagePatch) (Language, error) {
	if err := ctx.Err(); err != nil {
		return Language{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.languages[languageID]
	if !ok || l.ResumeID != resumeID || !r.ownedLocked(resumeID, filter) {
		return Language{}, ErrNotFound
	}
	l = patch.apply(l)
	r.languages[languageID] = l
	return l, nil
}

func (r *MemoryRepo) DeleteLanguage(ctx context.Context, resumeID, languageID int64, filter access.Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.languages[languageID]
	if !ok || l.ResumeID != resumeID || !r.ownedLocked(resumeID, filter) {
		return ErrNotFound
	}
	delete(r.languages, languageID)
	return nil
}

func (r *MemoryRepo) Node(ctx context.Context, ref access.Ref) (access.Node, error) {
	if err := ctx.Err(); err != nil {
		return access.Node{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch ref.Kind {
	case access.KindResume:
		if res, ok := r.resumes[ref.ID]; ok {
			return access.Node{OwnerID: res.UserID}, nil
		}
	case access.KindWorkExperience:
		if w, ok := r.work[ref.ID]; ok {
			return access.Node{Parent: resumeRef(w.ResumeID)}, nil
		}
	case access.KindAcademicExperience:
		if a, ok := r.academic[ref.ID]; ok {
			return access.Node{Parent: resumeRef(a.ResumeID)}, nil
		}
	case access.KindLanguage:
		if l, ok := r.languages[ref.ID]; ok {
			return access.Node{Parent: resumeRef(l.ResumeID)}, nil
		}
	}
	return access.Node{}, ErrNotFound
}

// laterPeriod orders by end date descending with open-ended (current)
// periods first, then by start date descending.
func laterPeriod(aEnd *string, aStart string, bEnd *string, bStart string) bool {
	switch {
	case aEnd == nil && bEnd != nil:
		return true
	case aEnd != nil && bEnd == nil:
		return false
	case aEnd != nil && bEnd != nil && *aEnd != *bEnd:
		return *aEnd > *bEnd
	}
	return aStart > bStart
}

var _ Repo = (*MemoryRepo)(nil)
