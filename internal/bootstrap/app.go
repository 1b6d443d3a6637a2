package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/analyses"
	"resume-matcher/internal/embedding"
	"resume-matcher/internal/history"
	"resume-matcher/internal/llm"
	"resume-matcher/internal/llm/ollama"
	"resume-matcher/internal/sections"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/storage/db"
	"resume-matcher/internal/shared/storage/object"
	localstore "resume-matcher/internal/shared/storage/object/local"
	s3store "resume-matcher/internal/shared/storage/object/s3"
	"resume-matcher/internal/shared/telemetry"
	"resume-matcher/internal/similarity"
	"resume-matcher/internal/suggestions"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Embedding       embedding.Model
	LLM             llm.Client
	HistoryStore    history.Store
	Archive         object.ObjectStore
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build loads the embedding model and wires every dependency. A model that
// cannot be loaded is fatal.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	model, err := embedding.Load(ctx, embedding.Options{
		Provider: cfg.EmbeddingProvider,
		BaseURL:  cfg.EmbeddingBaseURL,
		Model:    cfg.EmbeddingModel,
		APIKey:   cfg.EmbeddingAPIKey,
		Timeout:  cfg.EmbeddingTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("load embedding model: %w", err)
	}
	telemetry.Info("bootstrap.embedding_loaded", map[string]any{
		"model":     model.Name(),
		"dimension": model.Dimension(),
	})
	return BuildWithModel(ctx, cfg, model)
}

// BuildWithModel wires dependencies around an already loaded embedding model.
func BuildWithModel(ctx context.Context, cfg config.Config, model embedding.Model) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if model == nil {
		return nil, fmt.Errorf("embedding model is required")
	}

	llmClient, err := ollama.NewClient(ollama.Options{
		BaseURL:         cfg.OllamaBaseURL,
		Model:           cfg.OllamaModel,
		Stream:          cfg.OllamaStream,
		ProbeTimeout:    cfg.OllamaProbeTimeout,
		GenerateTimeout: cfg.OllamaGenerateTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}

	sqlDB, store, err := buildHistory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	scorer := similarity.NewScorer(model)
	svc := &analyses.Service{
		Similarity:  scorer,
		Sections:    sections.NewMatcher(scorer),
		Suggestions: suggestions.NewRequester(llmClient),
		History:     history.NewService(store),
		Archive:     archive,
		KeywordPool: cfg.KeywordTopN,
	}
	handler := analyses.NewHandler(svc, cfg.MaxUploadBytes)

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Embedding:       model,
		LLM:             llmClient,
		HistoryStore:    store,
		Archive:         archive,
		AnalysesService: svc,
		AnalysisHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
		RateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, nil),
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildHistory(ctx context.Context, cfg config.Config) (*sql.DB, history.Store, error) {
	switch cfg.HistoryBackend {
	case "memory":
		return nil, history.NewMemoryStore(cfg.HistoryLimit), nil
	case "postgres":
		sqlDB, err := connectHistoryDB(ctx, cfg)
		if err != nil {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.history_db_unavailable", map[string]any{
					"error":    err,
					"fallback": cfg.HistoryFile,
				})
				return nil, history.NewFileStore(cfg.HistoryFile, cfg.HistoryLimit), nil
			}
			return nil, nil, err
		}
		return sqlDB, &history.PGStore{DB: sqlDB, Limit: cfg.HistoryLimit}, nil
	default:
		return nil, history.NewFileStore(cfg.HistoryFile, cfg.HistoryLimit), nil
	}
}

func connectHistoryDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres history backend")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	if !cfg.ArchiveUploads {
		return nil, nil
	}
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
