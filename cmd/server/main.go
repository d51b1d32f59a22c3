package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/vedran77/orbit/internal/config"
	"github.com/vedran77/orbit/internal/credentials"
	"github.com/vedran77/orbit/internal/database"
	postgresrepo "github.com/vedran77/orbit/internal/repository/postgres"
	"github.com/vedran77/orbit/internal/search"
	"github.com/vedran77/orbit/internal/service"
	"github.com/vedran77/orbit/internal/transport/http/handlers"
	"github.com/vedran77/orbit/internal/transport/http/middleware"
	"github.com/vedran77/orbit/internal/transport/ws"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Database
	if err := database.Migrate(ctx, cfg); err != nil {
		logger.Error("running migrations", "error", err)
		os.Exit(1)
	}
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Repositories
	accountRepo := postgresrepo.NewAccountRepo(pool)
	followRepo := postgresrepo.NewFollowRepo(pool)
	tokenRepo := postgresrepo.NewTokenRepo(pool)

	// Collaborators
	creds := credentials.New(cfg.HashCost, cfg.HashWorkers)
	index := search.New()
	hub := ws.NewHub()
	go hub.Run()
	notifier := ws.NewHubNotifier(hub)

	// Services
	accountService := service.NewAccountService(accountRepo, followRepo, creds, index, cfg.JWTSecret, logger)
	followService := service.NewFollowService(followRepo, accountRepo, notifier, logger)
	verificationService := service.NewVerificationService(tokenRepo, accountRepo, notifier, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(accountService, verificationService)
	accountHandler := handlers.NewAccountHandler(accountService, index)
	followHandler := handlers.NewFollowHandler(followService)
	verificationHandler := handlers.NewVerificationHandler(verificationService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/confirm", verificationHandler.Confirm)
	mux.HandleFunc("GET /api/v1/accounts", accountHandler.List)
	mux.HandleFunc("GET /api/v1/accounts/search", accountHandler.Search)
	mux.HandleFunc("GET /api/v1/accounts/{id}", accountHandler.Get)

	// Protected
	mux.Handle("POST /api/v1/auth/password", auth(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/v1/auth/verification-token", auth(http.HandlerFunc(verificationHandler.Issue)))
	mux.Handle("PATCH /api/v1/accounts/{id}", auth(http.HandlerFunc(accountHandler.Update)))
	mux.Handle("DELETE /api/v1/accounts/{id}", auth(http.HandlerFunc(accountHandler.Delete)))
	mux.Handle("POST /api/v1/accounts/{id}/follow", auth(http.HandlerFunc(followHandler.Follow)))
	mux.Handle("DELETE /api/v1/accounts/{id}/follow", auth(http.HandlerFunc(followHandler.Unfollow)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", "addr", addr)
	if err := http.ListenAndServe(addr, middleware.CORS(mux)); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
