package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-studynotes-be/internal/bootstrap"
	"ai-studynotes-be/internal/config"
	"ai-studynotes-be/internal/server"
	"ai-studynotes-be/internal/tracer"
	"ai-studynotes-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Initialize Database (optional, only backs study set history)
	var gormDB *gorm.DB
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	switch {
	case errors.Is(err, database.ErrDisabled):
		log.Println("DB_CONNECTION_STRING not set, running without history")
	case err != nil:
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	default:
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 4. Initialize Tracer (spans started earlier are delegated once it is set)
	shutdownTracer := tracer.InitTracer(cfg.Otel, cfg.App.Environment, container.Logger)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start Background Services
	if container.ConsumerService != nil {
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Fatalf("Failed to start consumer: %v", err)
		}
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown()
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
