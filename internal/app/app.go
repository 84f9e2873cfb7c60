package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/safemind-ai/safemind/internal/config"
	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/core/crisis"
	db "github.com/safemind-ai/safemind/internal/core/database"
	"github.com/safemind-ai/safemind/internal/core/intent"
	"github.com/safemind-ai/safemind/internal/core/llm"
	"github.com/safemind-ai/safemind/internal/core/prompt"
	"github.com/safemind-ai/safemind/internal/core/retrieval"
	"github.com/safemind-ai/safemind/internal/services"
)

// App holds every process-wide collaborator. They are constructed once
// here and passed by reference into the pipeline; nothing below this
// layer reaches for globals.
type App struct {
	DBClient core.DbClient
	Embedder *llm.GeminiEmbedder
	LLM      *llm.GeminiLLM
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	geminiLLM, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the generator, %w", err)
	}

	retriever := retrieval.NewPgvectorRetriever(dbClient, geminiEmbedder)
	classifier := intent.NewClassifier(intent.DefaultKeywords())
	composer := prompt.NewComposer(crisis.NewResolver())

	pipeline := services.NewChatPipeline(dbClient, retriever, geminiLLM, classifier, composer, cfg.RetrieveK)
	conversations := services.NewConversationService(dbClient)

	server := NewServer(cfg, dbClient, conversations, pipeline)

	return &App{DBClient: dbClient, Embedder: geminiEmbedder, LLM: geminiLLM, Server: server}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
