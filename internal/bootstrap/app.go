package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"recruit-backend/internal/analyses"
	"recruit-backend/internal/applications"
	"recruit-backend/internal/candidates"
	"recruit-backend/internal/llm"
	"recruit-backend/internal/llm/gemini"
	"recruit-backend/internal/notify"
	"recruit-backend/internal/postings"
	"recruit-backend/internal/queue"
	"recruit-backend/internal/shared/config"
	"recruit-backend/internal/shared/storage/db"
	"recruit-backend/internal/shared/storage/object"
	localstore "recruit-backend/internal/shared/storage/object/local"
	s3store "recruit-backend/internal/shared/storage/object/s3"
	"recruit-backend/internal/skills"
)

const cachePurgeInterval = 10 * time.Minute

func devLike(env string) bool {
	return env == "dev" || env == "local"
}

// App holds shared dependencies for the API and worker binaries.
type App struct {
	Config       config.Config
	DB           *sql.DB
	Store        object.ObjectStore
	Transport    queue.Transport
	Receiver     queue.Receiver
	Queue        *queue.Service
	Candidates   candidates.Repo
	Postings     postings.Repo
	Applications applications.Repo
	Generator    llm.Generator
	Cache        *llm.Cache
	Analyses     *analyses.Service
	Mailer       notify.Sender

	closers []func() error
}

// Build prepares shared dependencies without wiring routes. The worker
// flag decides connection pool sizing.
func Build(cfg config.Config, worker bool) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	app := &App{Config: cfg}

	sqlDB, err := buildDB(ctx, cfg, worker)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	if sqlDB != nil {
		app.Candidates = &candidates.PGRepo{DB: sqlDB}
		app.Postings = &postings.PGRepo{DB: sqlDB}
		app.Applications = &applications.PGRepo{DB: sqlDB}
	} else {
		app.Candidates = candidates.NewMemoryRepo()
		app.Postings = postings.NewMemoryRepo()
		app.Applications = applications.NewMemoryRepo()
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	if err := buildQueue(ctx, app, cfg, sqlDB); err != nil {
		return nil, err
	}

	if err := buildAnalysis(ctx, app, cfg); err != nil {
		return nil, err
	}

	return app, nil
}

// Close releases held resources in reverse build order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("close dependency: %v", err)
		}
	}
}

// NewWorker assembles the job worker around the shared dependencies.
func (a *App) NewWorker() *queue.Worker {
	return &queue.Worker{
		Svc:         a.Queue,
		Source:      a.Receiver,
		Proc:        a.Analyses,
		Concurrency: a.Config.WorkerConcurrency,
	}
}

func buildDB(ctx context.Context, cfg config.Config, worker bool) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("DATABASE_URL empty, using in-memory repositories")
		return nil, nil
	}

	defaults := db.DefaultServerOptions()
	if worker {
		defaults = db.DefaultWorkerOptions(cfg.WorkerConcurrency)
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(defaults))
	if err != nil {
		if devLike(cfg.Env) {
			log.Printf("failed to connect database, falling back to memory: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for the s3 object store")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, app *App, cfg config.Config, sqlDB *sql.DB) error {
	var jobs queue.Repo
	if sqlDB != nil {
		jobs = &queue.PGRepo{DB: sqlDB}
	} else {
		jobs = queue.NewMemoryRepo()
	}

	switch cfg.QueueMode {
	case "sqs":
		if cfg.QueueURL == "" {
			return fmt.Errorf("ANALYSIS_QUEUE_URL is required for sqs queue mode")
		}
		transport, err := queue.NewSQSTransport(ctx, cfg.AWSRegion, cfg.QueueURL)
		if err != nil {
			return fmt.Errorf("build sqs transport: %w", err)
		}
		app.Transport = transport
		app.Receiver = transport
	default:
		transport := queue.NewMemoryTransport(0)
		app.Transport = transport
		app.Receiver = transport
	}

	app.Queue = queue.NewService(jobs, app.Transport, cfg.JobMaxAttempts, cfg.JobRetryBase)
	return nil
}

func buildAnalysis(ctx context.Context, app *App, cfg config.Config) error {
	provider, err := buildProvider(ctx, app, cfg)
	if err != nil {
		return err
	}

	app.Cache = llm.NewCache(cfg.LLMCacheTTL)
	app.Cache.StartPurging(ctx, cachePurgeInterval)
	app.Generator = llm.NewClient(provider, app.Cache, llm.ClientConfig{
		MaxAttempts: cfg.LLMMaxAttempts,
		Timeout:     cfg.LLMTimeout,
	})

	mailer, err := buildMailer(ctx, cfg)
	if err != nil {
		return err
	}
	app.Mailer = mailer

	extractor := &skills.Extractor{Gen: app.Generator}
	app.Analyses = analyses.NewService(
		app.Candidates,
		app.Postings,
		app.Applications,
		app.Store,
		app.Generator,
		extractor,
		mailer,
		cfg.AnalysisVersion,
	)
	return nil
}

func buildProvider(ctx context.Context, app *App, cfg config.Config) (llm.Generator, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		if !devLike(cfg.Env) {
			return nil, fmt.Errorf("GEMINI_API_KEY is required outside dev")
		}
		log.Printf("GEMINI_API_KEY empty, using static completions")
		return &llm.StaticProvider{Completion: devCompletion}, nil
	}

	client, err := gemini.NewClient(ctx, cfg.LLMAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, fmt.Errorf("build gemini client: %w", err)
	}
	app.closers = append(app.closers, client.Close)
	return client, nil
}

func buildMailer(ctx context.Context, cfg config.Config) (notify.Sender, error) {
	if strings.TrimSpace(cfg.MailSender) == "" {
		return notify.NewMemorySender(), nil
	}
	sender, err := notify.NewSESSender(ctx, cfg.AWSRegion, cfg.MailSender)
	if err != nil {
		return nil, fmt.Errorf("build ses sender: %w", err)
	}
	return sender, nil
}

// devCompletion keeps the pipeline exercisable without credentials.
const devCompletion = `{
  "score": 72,
  "summary": "Static development result.",
  "correspondence": {"skills": 70, "experience": true, "education": true, "languages": 80},
  "alertSignals": [],
  "suggestions": ["Configure GEMINI_API_KEY for real analyses."]
}`
