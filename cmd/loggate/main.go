package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loggate/loggate/internal/api"
	"github.com/loggate/loggate/internal/buildinfo"
	"github.com/loggate/loggate/internal/config"
	"github.com/loggate/loggate/internal/notify"
	"github.com/loggate/loggate/internal/servicelog"
	"github.com/loggate/loggate/internal/store"
	"github.com/loggate/loggate/internal/sweep"
)

func main() {
	// 1. Load and validate environment config
	envCfg, err := config.LoadEnvConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	if config.IsWeakToken(envCfg.WriteToken) {
		log.Println("[config] warning: LOGGATE_WRITE_TOKEN is weak; consider a stronger token")
	}
	if config.IsWeakToken(envCfg.ReadToken) {
		log.Println("[config] warning: LOGGATE_READ_TOKEN is weak; consider a stronger token")
	}

	// 2. Open the store and run the idempotent bootstrap
	db, err := store.OpenDB(envCfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	steps, err := store.Bootstrap(db, buildinfo.Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: bootstrap after %d steps: %v\n", len(steps), err)
		os.Exit(1)
	}
	log.Printf("[store] bootstrap completed %d steps", len(steps))

	// 3. Wire forwarders and repo
	publisher := notify.NewAblyPublisher(envCfg.AblyAPIKey, envCfg.AblyChannel, envCfg.AblyAPIBase)
	messenger := notify.NewTelegramMessenger(envCfg.TelegramBotToken, envCfg.TelegramChatID, envCfg.TelegramAPIBase)
	mirror := notify.NewMirror(messenger)
	repo := servicelog.NewRepo(db)

	// 4. Start the retention sweeper
	sweeper := sweep.NewSweeper(sweep.Config{
		Repo:      repo,
		Mirror:    mirror,
		Retention: envCfg.Retention,
		Schedule:  envCfg.SweepSchedule,
	})
	sweeper.Start()
	defer sweeper.Stop()

	// 5. Create and start API server
	srv := api.NewServer(api.ServerConfig{
		ListenAddress:      envCfg.ListenAddress,
		Port:               envCfg.Port,
		APIMaxBodyBytes:    envCfg.APIMaxBodyBytes,
		WriteToken:         envCfg.WriteToken,
		ReadToken:          envCfg.ReadToken,
		DB:                 db,
		Repo:               repo,
		Publisher:          publisher,
		Messenger:          messenger,
		Mirror:             mirror,
		ServiceVersion:     buildinfo.Version,
		ChatLevelThreshold: envCfg.LogErrorThreshold,
	})

	go func() {
		log.Printf("Loggate API server starting on %s:%d", envCfg.ListenAddress, envCfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server error: %v", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received signal %s, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
