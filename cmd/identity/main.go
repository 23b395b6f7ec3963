package main

import (
	"context"
	"embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"linkbridge/internal/application"
	"linkbridge/internal/client"
	"linkbridge/internal/delivery/discord"
	"linkbridge/internal/delivery/httpapi"
	"linkbridge/internal/repository"
	"linkbridge/pkg/config"
	"linkbridge/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func main() {
	_ = godotenv.Load()

	cfg := config.IdentityConfig{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	var repos *repository.Repository
	if cfg.Repo.Enabled() {
		db, err := repository.NewPostgresDB(&cfg.Repo)
		if err != nil {
			log.Error("failed to init db: %s", err.Error())
			return
		}
		defer db.Close()

		log.Info("Running migrations...")
		if err := repository.RunMigrations(db, migrationFS); err != nil {
			log.Error("failed to run migrations: %s", err.Error())
			return
		}
		log.Info("Migrations applied successfully")

		repos = repository.NewPostgresRepository(db)
	} else {
		log.Info("No database configured, using account file %s", cfg.AccountFile)
		var err error
		repos, err = repository.NewFileRepository(cfg.AccountFile)
		if err != nil {
			log.Error("failed to load account file: %s", err.Error())
			return
		}
	}

	codes := repository.NewCodeRegistry(cfg.CodeTTL)
	defer codes.Shutdown()

	gameClient := client.NewGameClient(cfg.GameServiceURL)
	services := application.NewService(repos, codes, gameClient, log)

	bot := discord.NewBot(&cfg, services, repos.Settings, log)
	services.LinkService.AttachChat(bot, bot)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.LinkService.Run(ctx)

	if err := bot.Init(); err != nil {
		log.Error("failed to init bot: %s", err.Error())
		return
	}
	go func() {
		if err := bot.Run(ctx); err != nil {
			log.Error("bot run error: %s", err.Error())
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: httpapi.NewRouter(services.LinkService, log),
	}
	go func() {
		log.Info("Identity API listening on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error: %s", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	bot.Stop()
	log.Info("Identity service stopped")
}
