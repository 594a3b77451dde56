package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	authsvc "resumai-backend/internal/auth"
	"resumai-backend/internal/llm"
	"resumai-backend/internal/llm/openai"
	"resumai-backend/internal/memos"
	"resumai-backend/internal/resumes"
	"resumai-backend/internal/shared/config"
	"resumai-backend/internal/shared/server"
	"resumai-backend/internal/shared/storage/db"
	"resumai-backend/internal/shared/telemetry"
	"resumai-backend/internal/users"
	"resumai-backend/internal/vector"
)

// App holds the wired application graph. Clients are constructed once at
// startup and injected; nothing here is an ambient singleton.
type App struct {
	Cfg    config.Config
	DB     *sql.DB
	Router *gin.Engine

	Users   *users.Service
	Memos   *memos.Service
	Resumes *resumes.Service
}

// Build wires configuration, storage, clients, services, and routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Cfg: cfg}

	userRepo, memoRepo, resumeRepo, database, err := buildRepos(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = database

	completion, embedding := buildLLMClients(cfg)
	index := buildVectorIndex(cfg)

	app.Users = users.NewService(userRepo)
	app.Memos = memos.NewService(memoRepo)
	app.Resumes = resumes.NewService(resumeRepo, completion, &resumes.Retriever{
		Embeddings: embedding,
		Index:      index,
		TopK:       cfg.RetrievalTopK,
	}, app.Users)

	kakao := authsvc.NewKakaoService(
		cfg.KakaoRESTAPIKey,
		cfg.KakaoClientSecret,
		cfg.KakaoRedirectURL,
		cfg.UIRedirectURL,
		app.Users,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Cfg: cfg,
		Registrars: []server.RouteRegistrar{
			kakao,
			users.NewHandler(app.Users),
			memos.NewHandler(app.Memos),
			resumes.NewHandler(app.Resumes),
		},
	})
	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildRepos(ctx context.Context, cfg config.Config) (users.Repo, memos.Repo, resumes.Repo, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.Env == "production" {
			return nil, nil, nil, nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		telemetry.Warn("bootstrap.memory_storage", map[string]any{
			"reason": "DATABASE_URL not set, state will not survive restarts",
		})
		return users.NewMemoryRepo(), memos.NewMemoryRepo(), resumes.NewMemoryRepo(), nil, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return &users.PGRepo{DB: database}, &memos.PGRepo{DB: database}, &resumes.PGRepo{DB: database}, database, nil
}

func buildLLMClients(cfg config.Config) (llm.CompletionClient, llm.EmbeddingClient) {
	if cfg.LLMProvider != "openai" || cfg.OpenAIAPIKey == "" {
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{
			"provider": cfg.LLMProvider,
		})
		return llm.PlaceholderCompletion{}, llm.PlaceholderEmbedding{}
	}

	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.EmbeddingModel)
	if err != nil {
		telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"error": err.Error()})
		return llm.PlaceholderCompletion{}, llm.PlaceholderEmbedding{}
	}
	return client, client
}

func buildVectorIndex(cfg config.Config) vector.Index {
	index, err := vector.NewPineconeIndex(cfg.PineconeAPIKey, cfg.PineconeIndexHost, cfg.PineconeIndexName)
	if err != nil {
		telemetry.Warn("bootstrap.vector_placeholder", map[string]any{"error": err.Error()})
		return vector.PlaceholderIndex{}
	}
	return index
}
