package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobsearch-backend/internal/artifacts"
	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/llm"
	"jobsearch-backend/internal/profile"
	"jobsearch-backend/internal/research"
	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/ratelimit"
	"jobsearch-backend/internal/shared/telemetry"
)

const (
	defaultRateMax       = 5
	defaultRateWindow    = time.Minute
	defaultEnrichTimeout = 2 * time.Second
)

// Options carries per-request generation tweaks supplied by the caller.
type Options struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
}

// Service orchestrates generation workflows: rate limiting, validation,
// ownership, context gathering, capability invocation, normalization, and
// best-effort persistence.
type Service struct {
	artifactRepo ArtifactRepo
	profileRepo  profile.Repo
	jobsRepo     jobs.Repo
	researchSvc  *research.Cache
	client       llm.Client
	limiter      *ratelimit.Limiter
	counters     *metrics.Counters

	model         string
	rateMax       int
	rateWindow    time.Duration
	enrichTimeout time.Duration
	now           func() time.Time
}

// NewService constructs a Service. researchSvc and limiter may be nil, which
// disables cover letter enrichment and rate limiting respectively.
func NewService(
	artifactRepo ArtifactRepo,
	profileRepo profile.Repo,
	jobsRepo jobs.Repo,
	researchSvc *research.Cache,
	client llm.Client,
	limiter *ratelimit.Limiter,
	counters *metrics.Counters,
) *Service {
	if artifactRepo == nil {
		artifactRepo = NoopRepo{}
	}
	if counters == nil {
		counters = metrics.Default
	}
	return &Service{
		artifactRepo:  artifactRepo,
		profileRepo:   profileRepo,
		jobsRepo:      jobsRepo,
		researchSvc:   researchSvc,
		client:        client,
		limiter:       limiter,
		counters:      counters,
		rateMax:       defaultRateMax,
		rateWindow:    defaultRateWindow,
		enrichTimeout: defaultEnrichTimeout,
		now:           time.Now,
	}
}

// SetModel pins the default generation model.
func (s *Service) SetModel(model string) {
	s.model = model
}

// SetRateLimit overrides the per-user, per-kind request budget.
func (s *Service) SetRateLimit(max int, window time.Duration) {
	s.rateMax = max
	s.rateWindow = window
}

// SetClock overrides the clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GenerateResume produces a resume tailored to the job.
func (s *Service) GenerateResume(ctx context.Context, userID string, jobID int64, opts Options) (artifacts.Artifact, error) {
	return s.generateForJob(ctx, artifacts.KindResume, userID, jobID, opts)
}

// GenerateCoverLetter produces a cover letter for the job, enriched with
// cached company research when available.
func (s *Service) GenerateCoverLetter(ctx context.Context, userID string, jobID int64, opts Options) (artifacts.Artifact, error) {
	return s.generateForJob(ctx, artifacts.KindCoverLetter, userID, jobID, opts)
}

// OptimizeSkills produces skills-match advice for the job.
func (s *Service) OptimizeSkills(ctx context.Context, userID string, jobID int64, opts Options) (artifacts.Artifact, error) {
	return s.generateForJob(ctx, artifacts.KindSkillsOptimization, userID, jobID, opts)
}

// TailorExperience rewrites experience entries to target the job.
func (s *Service) TailorExperience(ctx context.Context, userID string, jobID int64, opts Options) (artifacts.Artifact, error) {
	return s.generateForJob(ctx, artifacts.KindExperienceTailoring, userID, jobID, opts)
}

func (s *Service) generateForJob(ctx context.Context, kind artifacts.Kind, userID string, jobID int64, opts Options) (artifacts.Artifact, error) {
	if err := s.begin(kind, userID); err != nil {
		return s.fail(kind, err)
	}
	if jobID <= 0 {
		return s.fail(kind, ErrMissingJobID)
	}

	job, err := s.jobsRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return s.fail(kind, err)
		}
		return s.fail(kind, fmt.Errorf("job lookup: %w", err))
	}
	if job.UserID != userID {
		return s.fail(kind, ErrJobOwnership)
	}

	prof, err := s.profileRepo.GetComprehensive(ctx, userID)
	if err != nil {
		return s.fail(kind, fmt.Errorf("profile lookup: %w", err))
	}

	var prompt string
	switch kind {
	case artifacts.KindResume:
		prompt = buildResumePrompt(prof, job, opts)
	case artifacts.KindCoverLetter:
		prompt = buildCoverLetterPrompt(prof, job, s.lookupEnrichment(ctx, job.Company), opts)
	case artifacts.KindSkillsOptimization:
		prompt = buildSkillsPrompt(prof, job, opts)
	case artifacts.KindExperienceTailoring:
		prompt = buildExperiencePrompt(prof, job, opts)
	default:
		return s.fail(kind, fmt.Errorf("unsupported kind %q", kind))
	}

	res, err := s.client.Generate(ctx, llm.GenerateInput{
		Kind:   string(kind),
		Prompt: prompt,
		Model:  s.pickModel(opts),
	})
	if err != nil {
		return s.fail(kind, &AIError{Err: err})
	}

	doc, err := artifacts.DecodeResponse(res.JSON, res.Text)
	if err != nil {
		return s.fail(kind, err)
	}

	var content any
	switch kind {
	case artifacts.KindResume:
		content, err = artifacts.NormalizeResume(doc)
	case artifacts.KindCoverLetter:
		content, err = artifacts.NormalizeCoverLetter(doc)
	case artifacts.KindSkillsOptimization:
		content, err = artifacts.NormalizeSkillsOptimization(doc)
	case artifacts.KindExperienceTailoring:
		content, err = artifacts.NormalizeExperienceTailoring(doc)
	}
	if err != nil {
		return s.fail(kind, err)
	}

	artifact := s.assemble(kind, userID, job.ID, s.titleFor(kind, job, opts), res, content)
	s.persist(ctx, &artifact)
	s.counters.IncGenerateSuccess()
	return artifact, nil
}

// GenerateCompanyResearch returns research for the company, served from the
// cache when fresh. jobID is optional and only links the artifact to a job.
func (s *Service) GenerateCompanyResearch(ctx context.Context, userID, companyName string, jobID int64) (artifacts.Artifact, error) {
	kind := artifacts.KindCompanyResearch
	if err := s.begin(kind, userID); err != nil {
		return s.fail(kind, err)
	}
	if strings.TrimSpace(companyName) == "" {
		return s.fail(kind, ErrMissingCompanyName)
	}
	if s.researchSvc == nil {
		return s.fail(kind, errors.New("research is not configured"))
	}

	content, source, err := s.researchSvc.Lookup(ctx, companyName)
	if err != nil {
		if errors.Is(err, artifacts.ErrNoResult) || errors.Is(err, artifacts.ErrInvalidFormat) {
			return s.fail(kind, err)
		}
		return s.fail(kind, &AIError{Err: err})
	}

	artifact := s.assemble(kind, userID, jobID, content.CompanyName, llm.Result{Model: s.model}, content)
	artifact.Metadata["source"] = source
	artifact.Metadata["cacheHit"] = source == research.SourceCached
	s.persist(ctx, &artifact)
	s.counters.IncGenerateSuccess()
	return artifact, nil
}

// GenerateSalaryResearch estimates market compensation for a role. Results
// are always generated live; salary data is too volatile and too query
// specific to share a cache keyed by company.
func (s *Service) GenerateSalaryResearch(ctx context.Context, userID, title, location string) (artifacts.Artifact, error) {
	kind := artifacts.KindSalaryResearch
	if err := s.begin(kind, userID); err != nil {
		return s.fail(kind, err)
	}
	if strings.TrimSpace(title) == "" {
		return s.fail(kind, ErrMissingTitle)
	}

	res, err := s.client.Generate(ctx, llm.GenerateInput{
		Kind:   string(kind),
		Prompt: buildSalaryPrompt(title, location),
		Model:  s.model,
	})
	if err != nil {
		return s.fail(kind, &AIError{Err: err})
	}

	doc, err := artifacts.DecodeResponse(res.JSON, res.Text)
	if err != nil {
		return s.fail(kind, err)
	}
	content, err := artifacts.NormalizeSalaryResearch(doc)
	if err != nil {
		return s.fail(kind, err)
	}

	artifactTitle := strings.TrimSpace(title)
	if loc := strings.TrimSpace(location); loc != "" {
		artifactTitle += " in " + loc
	}
	artifact := s.assemble(kind, userID, 0, artifactTitle, res, content)
	artifact.Metadata["source"] = research.SourceAPI
	s.persist(ctx, &artifact)
	s.counters.IncGenerateSuccess()
	return artifact, nil
}

// GetArtifact returns one previously persisted artifact.
func (s *Service) GetArtifact(ctx context.Context, userID, artifactID string) (artifacts.Artifact, error) {
	if strings.TrimSpace(userID) == "" {
		return artifacts.Artifact{}, ErrUnauthenticated
	}
	return s.artifactRepo.GetByID(ctx, userID, artifactID)
}

// ListArtifacts returns the user's persisted artifacts, newest first.
func (s *Service) ListArtifacts(ctx context.Context, userID string, limit, offset int) ([]artifacts.Artifact, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	return s.artifactRepo.ListByUser(ctx, userID, limit, offset)
}

// begin runs the steps shared by every workflow: the invocation counter, the
// rate limiter, and the identity check. The limiter runs before anything else
// so rejected requests cost nothing.
func (s *Service) begin(kind artifacts.Kind, userID string) error {
	s.counters.IncGenerateTotal()
	if s.limiter != nil {
		ok, retryAfter := s.limiter.Check(string(kind)+"|"+userID, s.rateMax, s.rateWindow)
		if !ok {
			return &RateLimitedError{RetryAfter: retryAfter}
		}
	}
	if strings.TrimSpace(userID) == "" {
		return ErrUnauthenticated
	}
	return nil
}

func (s *Service) fail(kind artifacts.Kind, err error) (artifacts.Artifact, error) {
	s.counters.IncGenerateFail()
	telemetry.Error("generation.workflow_failed", map[string]any{
		"kind":  string(kind),
		"error": err.Error(),
	})
	return artifacts.Artifact{}, err
}

func (s *Service) pickModel(opts Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	return s.model
}

func (s *Service) titleFor(kind artifacts.Kind, job jobs.Job, opts Options) string {
	if t := strings.TrimSpace(opts.Title); t != "" {
		return t
	}
	label := map[artifacts.Kind]string{
		artifacts.KindResume:              "Resume",
		artifacts.KindCoverLetter:         "Cover Letter",
		artifacts.KindSkillsOptimization:  "Skills Optimization",
		artifacts.KindExperienceTailoring: "Experience Tailoring",
	}[kind]
	if job.Title != "" && job.Company != "" {
		return fmt.Sprintf("%s: %s at %s", label, job.Title, job.Company)
	}
	if job.Title != "" {
		return fmt.Sprintf("%s: %s", label, job.Title)
	}
	return label
}

func (s *Service) assemble(kind artifacts.Kind, userID string, jobID int64, title string, res llm.Result, content any) artifacts.Artifact {
	a := artifacts.Artifact{
		ID:        uuid.NewString(),
		UserID:    userID,
		JobID:     jobID,
		Kind:      kind,
		Title:     title,
		Model:     res.Model,
		Preview:   artifacts.BuildPreview(content),
		Content:   content,
		Metadata:  map[string]any{"persisted": false},
		CreatedAt: s.now().UTC(),
	}
	if res.TotalTokens > 0 {
		a.Metadata["tokens"] = res.TotalTokens
	}
	return a
}

// persist writes the artifact if a store is configured. Failures downgrade to
// persisted = false and never fail the workflow.
func (s *Service) persist(ctx context.Context, a *artifacts.Artifact) {
	if !s.artifactRepo.CanPersist() {
		return
	}
	if err := s.artifactRepo.Create(ctx, *a); err != nil {
		telemetry.Error("generation.persist_failed", map[string]any{
			"kind":        string(a.Kind),
			"artifact_id": a.ID,
			"error":       err.Error(),
		})
		return
	}
	a.Metadata["persisted"] = true
	a.Metadata["artifact_id"] = a.ID
}

// lookupEnrichment fetches cached company research under a short deadline.
// Misses, timeouts, and panics all degrade to no enrichment.
func (s *Service) lookupEnrichment(ctx context.Context, company string) *artifacts.CompanyResearchContent {
	if s.researchSvc == nil || strings.TrimSpace(company) == "" {
		return nil
	}
	timeout := s.enrichTimeout
	if timeout <= 0 {
		timeout = defaultEnrichTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type lookup struct {
		content artifacts.CompanyResearchContent
		ok      bool
	}
	ch := make(chan lookup, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("generation.enrichment_panic", map[string]any{"recovered": fmt.Sprint(r)})
			}
		}()
		content, ok := s.researchSvc.CachedOnly(cctx, company)
		ch <- lookup{content: content, ok: ok}
	}()

	select {
	case r := <-ch:
		if r.ok {
			return &r.content
		}
	case <-cctx.Done():
		telemetry.Info("generation.enrichment_timeout", map[string]any{"company": company})
	}
	return nil
}
