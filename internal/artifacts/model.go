package artifacts

import "time"

// Kind identifies the category of a generation request.
type Kind string

const (
	KindResume              Kind = "resume"
	KindCoverLetter         Kind = "cover_letter"
	KindSkillsOptimization  Kind = "skills_optimization"
	KindExperienceTailoring Kind = "experience_tailoring"
	KindCompanyResearch     Kind = "company_research"
	KindSalaryResearch      Kind = "salary_research"
)

// RequiresJob reports whether the kind operates on a saved job record.
func (k Kind) RequiresJob() bool {
	switch k {
	case KindResume, KindCoverLetter, KindSkillsOptimization, KindExperienceTailoring:
		return true
	}
	return false
}

// Artifact is one generated piece of content plus its metadata. Content holds
// the kind-specific canonical shape produced by normalization.
type Artifact struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	JobID     int64          `json:"job_id,omitempty"`
	Kind      Kind           `json:"kind"`
	Title     string         `json:"title,omitempty"`
	Model     string         `json:"model,omitempty"`
	Preview   string         `json:"preview"`
	Content   any            `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// ResumeContent is the canonical shape for resume artifacts.
type ResumeContent struct {
	Summary       string         `json:"summary"`
	OrderedSkills []string       `json:"ordered_skills"`
	Sections      ResumeSections `json:"sections"`
}

// ResumeSections groups the section lists of a resume.
type ResumeSections struct {
	Experience []ExperienceSection `json:"experience"`
}

// ExperienceSection is one employment entry with tailored bullets.
type ExperienceSection struct {
	Company string   `json:"company,omitempty"`
	Role    string   `json:"role,omitempty"`
	Bullets []string `json:"bullets"`
}

// CoverLetterContent is the canonical shape for cover letter artifacts.
type CoverLetterContent struct {
	Sections CoverLetterSections `json:"sections"`
}

// CoverLetterSections holds the three parts of a cover letter.
type CoverLetterSections struct {
	Opening string   `json:"opening"`
	Body    []string `json:"body"`
	Closing string   `json:"closing"`
}

// SkillsOptimizationContent is the canonical shape for skills advice artifacts.
type SkillsOptimizationContent struct {
	Summary         string   `json:"summary"`
	OrderedSkills   []string `json:"ordered_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Recommendations []string `json:"recommendations"`
}

// ExperienceTailoringContent is the canonical shape for experience advice artifacts.
type ExperienceTailoringContent struct {
	Summary    string              `json:"summary"`
	Experience []ExperienceSection `json:"experience"`
}

// CompanyResearchContent is the canonical shape for company research artifacts.
type CompanyResearchContent struct {
	CompanyName string   `json:"companyName"`
	Industry    string   `json:"industry"`
	Size        string   `json:"size"`
	Location    string   `json:"location"`
	Founded     string   `json:"founded"`
	Website     string   `json:"website"`
	Description string   `json:"description"`
	Culture     string   `json:"culture"`
	Leadership  []string `json:"leadership"`
	Products    []string `json:"products"`
	News        []string `json:"news"`
}

// SalaryResearchContent is the canonical shape for salary research artifacts.
type SalaryResearchContent struct {
	Range          SalaryRange `json:"range"`
	TotalComp      string      `json:"totalComp"`
	Trend          string      `json:"trend"`
	Recommendation string      `json:"recommendation"`
}

// SalaryRange holds annual salary figures.
type SalaryRange struct {
	Low  int `json:"low"`
	Avg  int `json:"avg"`
	High int `json:"high"`
}
