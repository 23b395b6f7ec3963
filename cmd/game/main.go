package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"linkbridge/internal/application"
	"linkbridge/internal/client"
	"linkbridge/internal/delivery/gameapi"
	"linkbridge/internal/repository"
	"linkbridge/pkg/config"
	"linkbridge/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.GameConfig{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	if len(cfg.RoleMappings) == 0 {
		log.Warn("No role mappings configured, every sync will resolve to no group")
	}

	roster := repository.NewRoster()
	perms := repository.NewPermissionStore()
	identityClient := client.NewIdentityClient(cfg.IdentityServiceURL)

	syncService := application.NewPermissionSyncServiceImpl(cfg.RoleMappings, roster, perms, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go syncService.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: gameapi.NewRouter(syncService, identityClient, roster, perms, log),
	}
	go func() {
		log.Info("Game API listening on port %s", cfg.HTTPPort)
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

	log.Info("Game service stopped")
}
