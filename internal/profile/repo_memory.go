package profile

import (
	"context"
	"sync"
)

// MemoryRepo stores profile data in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu             sync.RWMutex
	profiles       map[string]Profile
	employment     map[string][]Employment
	education      map[string][]Education
	skills         map[string][]Skill
	projects       map[string][]Project
	certifications map[string][]Certification
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		profiles:       make(map[string]Profile),
		employment:     make(map[string][]Employment),
		education:      make(map[string][]Education),
		skills:         make(map[string][]Skill),
		projects:       make(map[string][]Project),
		certifications: make(map[string][]Certification),
	}
}

// PutProfile stores or replaces the user's profile.
func (r *MemoryRepo) PutProfile(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
}

// AddEmployment appends an employment entry.
func (r *MemoryRepo) AddEmployment(e Employment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employment[e.UserID] = append(r.employment[e.UserID], e)
}

// AddEducation appends an education entry.
func (r *MemoryRepo) AddEducation(e Education) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.education[e.UserID] = append(r.education[e.UserID], e)
}

// AddSkill appends a skill entry.
func (r *MemoryRepo) AddSkill(s Skill) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skills[s.UserID] = append(r.skills[s.UserID], s)
}

// AddProject appends a project entry.
func (r *MemoryRepo) AddProject(p Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.UserID] = append(r.projects[p.UserID], p)
}

// AddCertification appends a certification entry.
func (r *MemoryRepo) AddCertification(c Certification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.certifications[c.UserID] = append(r.certifications[c.UserID], c)
}

// GetProfile returns the user's profile.
func (r *MemoryRepo) GetProfile(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// GetComprehensive returns the profile plus all history tables.
func (r *MemoryRepo) GetComprehensive(ctx context.Context, userID string) (Comprehensive, error) {
	p, err := r.GetProfile(ctx, userID)
	if err != nil {
		return Comprehensive{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Comprehensive{
		Profile:        p,
		Employment:     append([]Employment(nil), r.employment[userID]...),
		Education:      append([]Education(nil), r.education[userID]...),
		Skills:         append([]Skill(nil), r.skills[userID]...),
		Projects:       append([]Project(nil), r.projects[userID]...),
		Certifications: append([]Certification(nil), r.certifications[userID]...),
	}, nil
}

// ListEmployment returns employment entries for the user.
func (r *MemoryRepo) ListEmployment(ctx context.Context, userID string) ([]Employment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Employment(nil), r.employment[userID]...), nil
}

// ListEducation returns education entries for the user.
func (r *MemoryRepo) ListEducation(ctx context.Context, userID string) ([]Education, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Education(nil), r.education[userID]...), nil
}

// ListSkills returns skill entries for the user.
func (r *MemoryRepo) ListSkills(ctx context.Context, userID string) ([]Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Skill(nil), r.skills[userID]...), nil
}

// ListProjects returns project entries for the user.
func (r *MemoryRepo) ListProjects(ctx context.Context, userID string) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Project(nil), r.projects[userID]...), nil
}

// ListCertifications returns certification entries for the user.
func (r *MemoryRepo) ListCertifications(ctx context.Context, userID string) ([]Certification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Certification(nil), r.certifications[userID]...), nil
}

var _ Repo = (*MemoryRepo)(nil)
