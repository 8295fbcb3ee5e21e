package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kojiurata-bit/reading-tracker/internal/backfill"
	"github.com/kojiurata-bit/reading-tracker/internal/config"
	"github.com/kojiurata-bit/reading-tracker/internal/database"
	http_controllers "github.com/kojiurata-bit/reading-tracker/internal/http"
	"github.com/kojiurata-bit/reading-tracker/internal/metadata"
	"github.com/kojiurata-bit/reading-tracker/internal/scheduler"
	"github.com/kojiurata-bit/reading-tracker/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// buildRunner wires provider clients and stores into a backfill runner.
// Both the serve path (via the task queue) and the one-shot backfill
// subcommand share this wiring.
func buildRunner(db *database.Database, cfg *config.Config) (*backfill.Runner, *database.BackfillState) {
	records := database.NewBackfillStore(db)
	state := database.NewBackfillState(db)

	registry := metadata.NewOpenBDClient()
	search := metadata.NewGoogleBooksClient(cfg.GoogleBooks.APIKey, cfg.GoogleBooks.Language)
	lookup := metadata.NewISBNLookup(registry, search)

	return backfill.NewRunner(records, state, lookup, search), state
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Reading Tracker v%s", version)

	if cfg.GoogleBooks.APIKey == "" {
		log.Printf("WARNING: Google Books API key is not set, search requests run on the anonymous quota. Set 'GOOGLE_BOOKS_API_KEY' to raise it.")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	runner, state := buildRunner(db, cfg)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var backfillScheduler *scheduler.BackfillScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewBackfillQueue(runner, state),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		// The scheduler exists whenever the queue does, so the API can
		// trigger passes even with the cron side disabled.
		backfillScheduler = scheduler.NewBackfillScheduler(taskClient, cfg.Backfill.Schedule)
		if cfg.Backfill.Enabled {
			if err := backfillScheduler.Start(context.Background()); err != nil {
				log.Fatalf("Failed to start backfill scheduler: %v", err)
			}
		} else {
			log.Printf("Backfill scheduler: disabled")
		}
	} else {
		log.Printf("Task queue disabled, metadata backfill only runs via the backfill subcommand")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		BackfillState: state,
		Version:       version,
	}
	if backfillScheduler != nil {
		routerCfg.Scheduler = backfillScheduler
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if backfillScheduler != nil {
			backfillScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// RunBackfill executes one synchronous backfill pass and returns its
// outcome. The `backfill` subcommand uses it for cron-less setups; the
// runner's cooldown still applies.
func RunBackfill(cfg *config.Config) error {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	runner, state := buildRunner(db, cfg)

	res, err := runner.Run(context.Background())
	if err != nil {
		if serr := state.SetLastStatus("failed", err.Error()); serr != nil {
			log.Printf("Recording backfill failure: %v", serr)
		}
		return err
	}
	if res.Ran {
		if serr := state.SetLastStatus("success", res.String()); serr != nil {
			log.Printf("Recording backfill result: %v", serr)
		}
	}
	return nil
}
