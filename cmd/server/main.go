package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"hanzi/internal/config"
	"hanzi/internal/handler"
	"hanzi/internal/hub"
	"hanzi/internal/repository/sqlite"
	"hanzi/internal/service"
	"hanzi/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting hanzi server...")

	// A missing .env file is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg, cfgPath, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if cfgPath != "" {
		log.Printf("Config loaded: %s", cfgPath)
	}
	log.Printf("Config: %s", cfg.Summary())

	if err := run(cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func run(cfg *config.Config) error {
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Event bus feeds the SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	g.Go(func() error {
		sseHub.Run(ctx)
		return nil
	})

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	g.Go(func() error {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(event)
			case <-ctx.Done():
				return nil
			}
		}
	})

	svc := service.NewVocabularyService(repo, eventBus)

	if cfg.Import.WatchPath != "" {
		w := watcher.New(cfg.Import.WatchPath, func(ctx context.Context) {
			stats, err := svc.ImportFile(ctx, cfg.Import.Format, cfg.Import.WatchPath)
			if err != nil {
				log.Printf("Auto-import of %s failed: %v", cfg.Import.WatchPath, err)
				return
			}
			log.Printf("Auto-imported %s: %d characters, %d batches, %d groups",
				cfg.Import.WatchPath, stats.Characters, stats.Batches, stats.Groups)
		}).WithDebounce(cfg.Import.Debounce.Duration())

		g.Go(func() error {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Watcher stopped: %v", err)
			}
			return nil
		})
	}

	// Routes
	mux := http.NewServeMux()
	handler.NewVocabularyHandler(svc).RegisterRoutes(mux)
	mux.Handle("GET /events", sseHub)

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
		handler.Auth(handler.NewTokenVerifier(cfg.Auth.Token, cfg.Auth.TokenHash)),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	g.Go(func() error {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
