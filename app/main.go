package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stchernia/voodoo-wizz/app/api"
	"github.com/stchernia/voodoo-wizz/app/cfg"
	"github.com/stchernia/voodoo-wizz/app/database"
	"github.com/stchernia/voodoo-wizz/app/feed"
	"github.com/stchernia/voodoo-wizz/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	log.Printf("Starting game catalog server (version %s)...", appCfg.Version)

	log.Printf("Opening database at %s...", appCfg.DBPath)
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %v)", version, dirty)

	sources, err := feed.LoadSources(appCfg.SourcesFile)
	if err != nil {
		log.Fatal("Failed to load feed sources: ", err)
	}
	for _, source := range sources {
		log.Printf("Feed source: %s (%s, max %d items)", source.Platform, source.URL, source.MaxItems)
	}

	gameRepo := database.NewGameRepository(db)
	ingester := feed.NewIngester(sources, gameRepo, appCfg.UserAgent,
		time.Duration(appCfg.FetchTimeout)*time.Second)

	if appCfg.PopulateSchedule != "" {
		scheduler := tasks.NewScheduler(ingester, appCfg.PopulateSchedule)
		if err := scheduler.Start(); err != nil {
			log.Fatal("Failed to start populate scheduler: ", err)
		}
		defer scheduler.Stop()
	} else {
		log.Printf("Automatic populate disabled (POPULATE_SCHEDULE not set)")
	}

	handler := api.NewHandler(gameRepo, ingester)
	server := api.NewServer(handler, appCfg.StaticDir)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Server is up on port %s", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	log.Println("Shutdown complete")
}
