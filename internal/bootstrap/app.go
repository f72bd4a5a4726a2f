package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"docsum-backend/internal/documents"
	"docsum-backend/internal/llm"
	openai "docsum-backend/internal/llm/openai"
	"docsum-backend/internal/services/health"
	"docsum-backend/internal/shared/config"
	"docsum-backend/internal/shared/metrics"
	"docsum-backend/internal/shared/server"
	"docsum-backend/internal/shared/server/middleware"
	"docsum-backend/internal/shared/storage/db"
	"docsum-backend/internal/shared/storage/object"
	localstore "docsum-backend/internal/shared/storage/object/local"
	miniostore "docsum-backend/internal/shared/storage/object/minio"
	s3store "docsum-backend/internal/shared/storage/object/s3"
	"docsum-backend/internal/shared/telemetry"
	"docsum-backend/internal/summaries"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Registry         *prometheus.Registry
	Summarizer       llm.Summarizer
	DocumentsRepo    documents.Repo
	DocumentsService *documents.Service
	SummariesService *summaries.Service
	DocumentsHandler *documents.Handler
	SummariesHandler *summaries.Handler
	Health           *health.Service
}

// Build prepares dependencies and routes. Zero-valued config fields take the
// same defaults config.Load applies.
func Build(cfg config.Config) (*App, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	summarizer, err := buildSummarizer(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Store:      store,
		Registry:   reg,
		Summarizer: summarizer,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		SummaryHandler:  app.SummariesHandler,
		Health:          app.Health,
		Registry:        app.Registry,
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, PoolOptions(cfg, db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{
				"reason": "database unavailable",
				"error":  err,
			})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

// PoolOptions applies the DB_* pool settings from cfg on top of defaults.
func PoolOptions(cfg config.Config, defaults db.Options) db.Options {
	return defaults.Override(db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		PingTimeout:     cfg.DBPingTimeout,
	})
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case config.StoreS3:
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case config.StoreMinIO:
		return miniostore.New(ctx, miniostore.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildSummarizer never fails on a missing key: the process still serves
// documents and summary requests report the misconfiguration.
func buildSummarizer(cfg config.Config) (llm.Summarizer, error) {
	if strings.TrimSpace(cfg.SummarizerAPIKey) == "" {
		telemetry.Warn("bootstrap.summarizer.unconfigured", nil)
		return llm.Unconfigured{}, nil
	}
	client, err := openai.NewClient(openai.Options{
		APIKey:  cfg.SummarizerAPIKey,
		APIURL:  cfg.SummarizerAPIURL,
		Model:   cfg.SummarizerModel,
		Timeout: cfg.SummarizerTimeout,
		Limiter: rate.NewLimiter(rate.Limit(cfg.SummarizerRPS), cfg.SummarizerBurst),
	})
	if err != nil {
		return nil, err
	}
	return llm.WithRetry(client, 0), nil
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store: app.Store,
		Repo:  docRepo,
	}
	summarySvc := &summaries.Service{
		Docs: docSvc,
		LLM:  app.Summarizer,
	}

	app.DocumentsRepo = docRepo
	app.DocumentsService = docSvc
	app.SummariesService = summarySvc
	app.DocumentsHandler = documents.NewHandler(docSvc, app.Config.MaxUploadBytes)
	app.SummariesHandler = summaries.NewHandler(summarySvc)
	app.Health = health.NewService(app.DB)

	if app.DocumentsHandler == nil || app.SummariesHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
