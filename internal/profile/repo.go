package profile

import "context"

// Repo reads profile data for generation context.
type Repo interface {
	GetProfile(ctx context.Context, userID string) (Profile, error)
	GetComprehensive(ctx context.Context, userID string) (Comprehensive, error)
	ListEmployment(ctx context.Context, userID string) ([]Employment, error)
	ListEducation(ctx context.Context, userID string) ([]Education, error)
	ListSkills(ctx context.Context, userID string) ([]Skill, error)
	ListProjects(ctx context.Context, userID string) ([]Project, error)
	ListCertifications(ctx context.Context, userID string) ([]Certification, error)
}
