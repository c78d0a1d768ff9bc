package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tutorly-be/internal/bootstrap"
	"tutorly-be/internal/config"
	"tutorly-be/internal/server"
	"tutorly-be/internal/tracer"
	"tutorly-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	verbose := cfg.App.Environment != "production"

	// Tracer is a no-op unless OTEL_ENABLED=true
	shutdownTracer := tracer.InitTracer(cfg.Tracing, cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, verbose)
	if err != nil {
		log.Printf("[WARN] Unable to connect to GORM DB: %v. Waitlist and reports will fail until it is reachable", err)
		gormDB, err = database.NewLazyGormDB(cfg.Database.Connection, verbose)
		if err != nil {
			log.Panicf("Unable to configure GORM DB: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Close()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Report Consumer...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	go container.WaitlistNotifier.Start(ctx)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
