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

	"github.com/ignite/marketing-site/internal/api"
	"github.com/ignite/marketing-site/internal/config"
	"github.com/ignite/marketing-site/internal/notify"
	"github.com/ignite/marketing-site/internal/service"
	"github.com/ignite/marketing-site/internal/store"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	st, err := store.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// The subscriber-email uniqueness constraint must exist before any
	// subscription request is accepted. Idempotent, safe on every boot.
	schemaCtx, schemaCancel := context.WithTimeout(ctx, 3*time.Minute)
	if err := st.EnsureSchema(schemaCtx); err != nil {
		schemaCancel()
		log.Fatalf("Failed to ensure storage schema: %v", err)
	}
	schemaCancel()
	log.Printf("Storage ready (type=%s)", cfg.Storage.Type)

	var notifier service.Notifier
	if sesNotifier, err := notify.NewSESNotifier(ctx, cfg.Notify, cfg.Storage.AWSRegion, cfg.Storage.GetAWSProfile()); err != nil {
		log.Fatalf("Failed to initialize contact notifier: %v", err)
	} else if sesNotifier != nil {
		notifier = sesNotifier
		log.Println("Contact notifications enabled")
	}

	svc := service.New(st, cfg.Storage.Timeout(), notifier)
	router := api.SetupRoutes(api.NewHandlers(svc), cfg.CORS.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
