package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"jobsearch-backend/internal/artifacts"
	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/llm"
	"jobsearch-backend/internal/profile"
	"jobsearch-backend/internal/research"
	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/ratelimit"
)

const resumeResponse = `{
  "summary": "Seasoned backend engineer with a focus on data-heavy services.",
  "ordered_skills": [{"name": "Go"}, "PostgreSQL", {"skill": "Kubernetes"}],
  "sections": {
    "experience": [
      {"company": "Acme", "role": "Engineer", "bullets": [{"text": "Cut query latency 40%"}, "Led the billing rewrite"]}
    ]
  }
}`

const salaryResponse = `{
  "range": {"low": "110,000", "average": 140000, "high": 175000},
  "totalComp": "Equity typically adds 15-25%.",
  "trend": "Flat year over year.",
  "recommendation": "Anchor at the high end."
}`

type captureLLM struct {
	mu      sync.Mutex
	resp    string
	err     error
	prompts []string
}

func (s *captureLLM) Generate(ctx context.Context, input llm.GenerateInput) (llm.Result, error) {
	_ = ctx
	s.mu.Lock()
	s.prompts = append(s.prompts, input.Prompt)
	s.mu.Unlock()
	if s.err != nil {
		return llm.Result{}, s.err
	}
	return llm.Result{Text: s.resp, Model: "test-model", TotalTokens: 321}, nil
}

func (s *captureLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func (s *captureLLM) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

type failingArtifactRepo struct {
	MemoryRepo
}

func (r *failingArtifactRepo) CanPersist() bool { return true }

func (r *failingArtifactRepo) Create(ctx context.Context, artifact artifacts.Artifact) error {
	_ = ctx
	_ = artifact
	return errors.New("store unavailable")
}

type fixture struct {
	service   *Service
	client    *captureLLM
	artifacts *MemoryRepo
	jobs      *jobs.MemoryRepo
	profiles  *profile.MemoryRepo
	counters  *metrics.Counters
}

func newFixture(t *testing.T, resp string) *fixture {
	t.Helper()
	client := &captureLLM{resp: resp}
	artifactRepo := NewMemoryRepo()
	jobRepo := jobs.NewMemoryRepo()
	profileRepo := profile.NewMemoryRepo()
	counters := &metrics.Counters{}

	profileRepo.PutProfile(profile.Profile{UserID: "u1", FullName: "Pat Doe", Summary: "Backend engineer"})
	profileRepo.AddSkill(profile.Skill{UserID: "u1", Name: "Go"})
	profileRepo.AddEmployment(profile.Employment{
		UserID: "u1", Company: "Acme", Role: "Engineer",
		StartDate: "2019-01", Description: "Built APIs",
	})

	svc := NewService(artifactRepo, profileRepo, jobRepo, nil, client, nil, counters)
	return &fixture{
		service:   svc,
		client:    client,
		artifacts: artifactRepo,
		jobs:      jobRepo,
		profiles:  profileRepo,
		counters:  counters,
	}
}

func (f *fixture) seedJob(t *testing.T, userID string) jobs.Job {
	t.Helper()
	job, err := f.jobs.Create(context.Background(), jobs.Job{
		UserID:      userID,
		Title:       "Senior Go Engineer",
		Company:     "Acme Corp",
		Location:    "Remote",
		Description: "Build backend services in Go.",
	})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func TestGenerateResumePersistsArtifact(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "u1")

	artifact, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	content, ok := artifact.Content.(artifacts.ResumeContent)
	if !ok {
		t.Fatalf("content type %T", artifact.Content)
	}
	if want := []string{"Go", "PostgreSQL", "Kubernetes"}; strings.Join(content.OrderedSkills, ",") != strings.Join(want, ",") {
		t.Fatalf("ordered skills %v", content.OrderedSkills)
	}
	if artifact.Metadata["persisted"] != true {
		t.Fatalf("metadata %v", artifact.Metadata)
	}
	if artifact.Metadata["artifact_id"] != artifact.ID {
		t.Fatalf("artifact_id metadata missing: %v", artifact.Metadata)
	}
	if artifact.Metadata["tokens"] != 321 {
		t.Fatalf("tokens metadata %v", artifact.Metadata["tokens"])
	}
	if artifact.Preview == "" {
		t.Fatalf("expected non-empty preview")
	}

	stored, err := f.artifacts.GetByID(context.Background(), "u1", artifact.ID)
	if err != nil {
		t.Fatalf("stored artifact: %v", err)
	}
	if stored.Kind != artifacts.KindResume {
		t.Fatalf("stored kind %q", stored.Kind)
	}

	total, success, fail := f.counters.Snapshot()
	if total != 1 || success != 1 || fail != 0 {
		t.Fatalf("counters total=%d success=%d fail=%d", total, success, fail)
	}
}

func TestGenerateForeignJobMakesNoCapabilityCalls(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "someone-else")

	_, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{})
	if !errors.Is(err, ErrJobOwnership) {
		t.Fatalf("expected ErrJobOwnership, got %v", err)
	}
	if f.client.calls() != 0 {
		t.Fatalf("ownership failure made %d capability calls", f.client.calls())
	}
	if _, _, fail := f.counters.Snapshot(); fail != 1 {
		t.Fatalf("expected one failure, got %d", fail)
	}
}

func TestGenerateMissingJobID(t *testing.T) {
	f := newFixture(t, resumeResponse)
	_, err := f.service.GenerateResume(context.Background(), "u1", 0, Options{})
	if !errors.Is(err, ErrMissingJobID) {
		t.Fatalf("expected ErrMissingJobID, got %v", err)
	}
}

func TestGenerateUnauthenticated(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "u1")
	_, err := f.service.GenerateResume(context.Background(), "  ", job.ID, Options{})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGenerateCapabilityErrorIsWrapped(t *testing.T) {
	f := newFixture(t, "")
	f.client.err = errors.New("boom")
	job := f.seedJob(t, "u1")

	_, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{})
	if err == nil || err.Error() != "AI error: boom" {
		t.Fatalf("expected wrapped capability error, got %v", err)
	}
	var aiErr *AIError
	if !errors.As(err, &aiErr) {
		t.Fatalf("expected AIError, got %T", err)
	}
	if _, success, fail := f.counters.Snapshot(); success != 0 || fail != 1 {
		t.Fatalf("counters success=%d fail=%d", success, fail)
	}
}

func TestGenerateInvalidResponseFormat(t *testing.T) {
	f := newFixture(t, "certainly, here is your resume")
	job := f.seedJob(t, "u1")

	_, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{})
	if !errors.Is(err, artifacts.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestGeneratePersistenceFailureDoesNotFailWorkflow(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "u1")

	failing := &failingArtifactRepo{}
	f.service.artifactRepo = failing

	artifact, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{})
	if err != nil {
		t.Fatalf("workflow must succeed despite persistence failure: %v", err)
	}
	if artifact.Metadata["persisted"] != false {
		t.Fatalf("metadata %v", artifact.Metadata)
	}
	if _, ok := artifact.Metadata["artifact_id"]; ok {
		t.Fatalf("unpersisted artifact must not advertise a stored id")
	}
	if _, success, _ := f.counters.Snapshot(); success != 1 {
		t.Fatalf("expected success counter, got %d", success)
	}
}

func TestGenerateWithoutStoreReportsUnpersisted(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "u1")
	f.service.artifactRepo = NoopRepo{}

	artifact, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if artifact.Metadata["persisted"] != false {
		t.Fatalf("metadata %v", artifact.Metadata)
	}
}

func TestGenerateRateLimitRejection(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "u1")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.service.limiter = ratelimit.NewLimiter(func() time.Time { return base })
	f.service.SetRateLimit(2, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{}); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}

	_, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{})
	var rl *RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitedError, got %v", err)
	}
	if rl.RetryAfter <= 0 || rl.RetryAfter > time.Minute {
		t.Fatalf("retry after %v out of range", rl.RetryAfter)
	}
	if f.client.calls() != 2 {
		t.Fatalf("rejected request made a capability call")
	}

	// A different kind draws from its own bucket.
	var skillsLimited *RateLimitedError
	if _, err := f.service.OptimizeSkills(context.Background(), "u1", job.ID, Options{}); errors.As(err, &skillsLimited) {
		t.Fatalf("skills request must not be limited by the resume bucket")
	}
}

func TestCoverLetterUsesCachedResearch(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "u1")

	researchRepo := research.NewMemoryRepo()
	entry := research.CacheEntry{
		CompanyName: research.NormalizeCompanyName(job.Company),
		Content: artifacts.CompanyResearchContent{
			CompanyName: "Acme Corp",
			Description: "Acme builds developer tooling for logistics teams.",
		},
		CachedAt: time.Now().UTC(),
	}
	if err := researchRepo.SaveCacheEntry(context.Background(), entry); err != nil {
		t.Fatalf("seed research: %v", err)
	}
	f.service.researchSvc = research.NewCache(researchRepo, f.client, nil, time.Hour)

	coverLetter := `{"sections": {"opening": "Dear team,", "body": ["I build Go services."], "closing": "Sincerely, Pat"}}`
	f.client.resp = coverLetter

	if _, err := f.service.GenerateCoverLetter(context.Background(), "u1", job.ID, Options{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(f.client.lastPrompt(), "logistics teams") {
		t.Fatalf("prompt missing cached company context:\n%s", f.client.lastPrompt())
	}
}

func TestCoverLetterWithoutResearchStillWorks(t *testing.T) {
	f := newFixture(t, `{"sections": {"opening": "Hello,", "body": ["Body."], "closing": "Bye."}}`)
	job := f.seedJob(t, "u1")

	artifact, err := f.service.GenerateCoverLetter(context.Background(), "u1", job.ID, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if artifact.Kind != artifacts.KindCoverLetter {
		t.Fatalf("kind %q", artifact.Kind)
	}
}

func TestCompanyResearchReportsCacheSource(t *testing.T) {
	f := newFixture(t, resumeResponse)

	researchRepo := research.NewMemoryRepo()
	entry := research.CacheEntry{
		CompanyName: "acme corp",
		Content:     artifacts.CompanyResearchContent{CompanyName: "Acme Corp", Industry: "Software"},
		CachedAt:    time.Now().UTC(),
	}
	if err := researchRepo.SaveCacheEntry(context.Background(), entry); err != nil {
		t.Fatalf("seed research: %v", err)
	}
	cache := research.NewCache(researchRepo, f.client, nil, time.Hour)
	cache.SetAsyncRunner(func(fn func()) { fn() })
	f.service.researchSvc = cache

	artifact, err := f.service.GenerateCompanyResearch(context.Background(), "u1", "Acme Corp", 0)
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if artifact.Metadata["source"] != research.SourceCached || artifact.Metadata["cacheHit"] != true {
		t.Fatalf("metadata %v", artifact.Metadata)
	}
	if f.client.calls() != 0 {
		t.Fatalf("cached research made %d capability calls", f.client.calls())
	}
	if artifact.Title != "Acme Corp" {
		t.Fatalf("title %q", artifact.Title)
	}
}

func TestCompanyResearchMissingName(t *testing.T) {
	f := newFixture(t, resumeResponse)
	f.service.researchSvc = research.NewCache(research.NewMemoryRepo(), f.client, nil, time.Hour)

	_, err := f.service.GenerateCompanyResearch(context.Background(), "u1", "  ", 0)
	if !errors.Is(err, ErrMissingCompanyName) {
		t.Fatalf("expected ErrMissingCompanyName, got %v", err)
	}
}

func TestSalaryResearchHappyPath(t *testing.T) {
	f := newFixture(t, salaryResponse)

	artifact, err := f.service.GenerateSalaryResearch(context.Background(), "u1", "Staff Engineer", "Denver, CO")
	if err != nil {
		t.Fatalf("salary research: %v", err)
	}
	content, ok := artifact.Content.(artifacts.SalaryResearchContent)
	if !ok {
		t.Fatalf("content type %T", artifact.Content)
	}
	if content.Range.Low != 110000 || content.Range.Avg != 140000 || content.Range.High != 175000 {
		t.Fatalf("range %+v", content.Range)
	}
	if artifact.Title != "Staff Engineer in Denver, CO" {
		t.Fatalf("title %q", artifact.Title)
	}
	if artifact.JobID != 0 {
		t.Fatalf("salary artifact should not carry a job id")
	}
}

func TestSalaryResearchNoResult(t *testing.T) {
	f := newFixture(t, "NOT_FOUND")
	_, err := f.service.GenerateSalaryResearch(context.Background(), "u1", "Chief Vibes Officer", "")
	if !errors.Is(err, artifacts.ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestSalaryResearchMissingTitle(t *testing.T) {
	f := newFixture(t, salaryResponse)
	_, err := f.service.GenerateSalaryResearch(context.Background(), "u1", "", "Remote")
	if !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
}

func TestListArtifactsNewestFirst(t *testing.T) {
	f := newFixture(t, resumeResponse)
	job := f.seedJob(t, "u1")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	f.service.SetClock(func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	})

	for i := 0; i < 3; i++ {
		if _, err := f.service.GenerateResume(context.Background(), "u1", job.ID, Options{}); err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
	}

	items, err := f.service.ListArtifacts(context.Background(), "u1", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 artifacts, got %d", len(items))
	}
	if !items[0].CreatedAt.After(items[1].CreatedAt) {
		t.Fatalf("artifacts not newest first: %v then %v", items[0].CreatedAt, items[1].CreatedAt)
	}
}
