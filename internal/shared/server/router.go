package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"jobsearch-backend/internal/generation"
	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/llm"
	"jobsearch-backend/internal/llm/openai"
	"jobsearch-backend/internal/profile"
	"jobsearch-backend/internal/research"
	"jobsearch-backend/internal/shared/config"
	"jobsearch-backend/internal/shared/metrics"
	"jobsearch-backend/internal/shared/ratelimit"
	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/server/respond"
	"jobsearch-backend/internal/shared/storage/db"
	"jobsearch-backend/internal/webcontent"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var jobRepo jobs.Repo
	var profileRepo profile.Repo
	var researchRepo research.Repo
	var artifactRepo generation.ArtifactRepo
	if sqlDB != nil {
		jobRepo = &jobs.PGRepo{DB: sqlDB}
		profileRepo = &profile.PGRepo{DB: sqlDB}
		researchRepo = &research.PGRepo{DB: sqlDB}
		artifactRepo = &generation.PGRepo{DB: sqlDB}
	} else {
		jobRepo = jobs.NewMemoryRepo()
		profileRepo = profile.NewMemoryRepo()
		researchRepo = research.NewMemoryRepo()
		artifactRepo = generation.NewMemoryRepo()
	}

	client := newLLMClient(cfg)
	fetcher := webcontent.New(cfg.FetchTimeout)

	researchSvc := research.NewCache(researchRepo, client, fetcher, cfg.ResearchCacheTTL)
	researchSvc.SetModel(cfg.LLMModel)

	genSvc := generation.NewService(artifactRepo, profileRepo, jobRepo, researchSvc, client,
		ratelimit.NewLimiter(nil), metrics.Default)
	genSvc.SetModel(cfg.LLMModel)
	genSvc.SetRateLimit(cfg.GenerateRateMax, cfg.GenerateRateWindow)
	genHandler := generation.NewHandler(genSvc)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "persistence": artifactRepo.CanPersist()})
	})

	protected := api.Group("")
	protected.Use(middleware.Auth())
	registerMeRoutes(protected)
	genHandler.Register(protected)

	return r
}

func newLLMClient(cfg config.Config) llm.Client {
	switch cfg.LLMProvider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			log.Printf("OPENAI_API_KEY not set, generation disabled")
			return &llm.PlaceholderClient{}
		}
		client, err := openai.NewClient(apiKey, cfg.LLMModel)
		if err != nil {
			log.Printf("openai client init failed, generation disabled: %v", err)
			return &llm.PlaceholderClient{}
		}
		return client
	default:
		log.Printf("unknown LLM provider %q, generation disabled", cfg.LLMProvider)
		return &llm.PlaceholderClient{}
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
