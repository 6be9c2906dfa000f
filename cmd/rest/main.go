package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"docs-assistant-be/internal/bootstrap"
	"docs-assistant-be/internal/config"
	"docs-assistant-be/internal/server"
	"docs-assistant-be/internal/tracer"
)

func main() {
	// 0. Initialize tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load configuration
	cfg := config.Load()

	// 2. Bootstrap dependencies (container)
	container := bootstrap.NewContainer(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Start background services
	go func() {
		log.Println("Background: starting reload event consumer...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()
	if container.Watcher != nil {
		go func() {
			log.Println("Background: watching corpus directory for changes...")
			container.Watcher.Run(ctx)
		}()
	}

	// 4. Initialize server
	srv := server.New(cfg, container)

	// 5. Run server, shut down cleanly on SIGINT/SIGTERM
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if container.Watcher != nil {
			container.Watcher.Stop()
		}
		if container.SessionStore != nil {
			container.SessionStore.DestroyAll()
		}
		_ = container.Logger.Sync()
		_ = srv.GetApp().Shutdown()
	}()

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
