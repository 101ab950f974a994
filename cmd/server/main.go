package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"agora/internal/core"
	"agora/internal/discord"
	httpProtocol "agora/internal/protocols/http"
	"agora/internal/repository"
	"agora/pkg/config"
	"agora/pkg/database"
	"agora/pkg/logger"
	"agora/pkg/tsid"
)

func main() {
	configPath := flag.String("config", "./configs/development.yaml", "path to config file")
	flag.Parse()

	// Local overrides; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)
	logger.Info("Starting agora server...")

	// database/sql connection for schema bootstrap and health checks
	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to bootstrap schema: %v", err)
	}
	logger.Info("Database schema ready")

	// pgx pool for the repository layer
	pool, err := database.NewPGXPool(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to create pgx pool: %v", err)
	}
	defer pool.Close()

	logger.Info("Connected to PostgreSQL database")

	ids, err := tsid.NewGenerator(cfg.TSID.Node)
	if err != nil {
		log.Fatalf("Failed to create id generator: %v", err)
	}

	feedbackRepo := repository.NewFeedbackRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	discordClient := discord.NewClient(discord.Config{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		RedirectURI:  cfg.Discord.RedirectURI,
	})

	authSvc := core.NewAuthService(discordClient, userRepo, ids, cfg.JWT.Secret)
	feedbackSvc := core.NewFeedbackService(feedbackRepo, categoryRepo, userRepo, ids)
	commentSvc := core.NewCommentService(commentRepo, feedbackRepo, userRepo, ids)
	userSvc := core.NewUserService(userRepo)

	logger.Info("Initialized all core services")

	server := httpProtocol.NewServer(cfg, authSvc, feedbackSvc, commentSvc, userSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Starting HTTP server on %s", cfg.Server.Addr())
	if err := server.Start(ctx); err != nil {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Info("Shutdown complete")
}
