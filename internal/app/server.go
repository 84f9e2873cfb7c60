package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/safemind-ai/safemind/internal/api/handlers"
	appMiddleware "github.com/safemind-ai/safemind/internal/api/middlewares"
	"github.com/safemind-ai/safemind/internal/config"
	"github.com/safemind-ai/safemind/internal/core"
	"github.com/safemind-ai/safemind/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, db core.DbClient, conversations *services.ConversationService, pipeline *services.ChatPipeline) *Server {
	authHandler := handlers.NewAuthHandler(db, conversations)
	convHandler := handlers.NewConversationHandler(conversations)
	chatHandler := handlers.NewChatHandler(db, pipeline)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Generation can legitimately run long; the timeout covers the
	// whole streamed turn.
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware)
			protected.Get("/conversations", convHandler.List)
			protected.Post("/conversations", convHandler.Create)
			protected.Get("/conversations/{id}", convHandler.History)
			protected.Delete("/conversations/{id}", convHandler.Delete)
			protected.Post("/conversations/{id}/messages", chatHandler.StreamMessage)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
