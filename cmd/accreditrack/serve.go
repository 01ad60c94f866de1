package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/accreditrack/internal/auth"
	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/db"
	"github.com/jonathan/accreditrack/internal/directory"
	"github.com/jonathan/accreditrack/internal/logging"
	"github.com/jonathan/accreditrack/internal/server"
	"github.com/jonathan/accreditrack/internal/storage"
	"github.com/jonathan/accreditrack/internal/store"
	"github.com/jonathan/accreditrack/internal/types"
	"github.com/jonathan/accreditrack/internal/workflow"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the benchmark task workflow over REST.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	logging.Info().
		Int("port", cfg.Server.Port).
		Str("environment", cfg.Server.Environment).
		Str("store", app.storeKind).
		Str("upload_dir", cfg.Upload.Dir).
		Msg("AccrediTrack server starting")

	return app.server.Start(ctx)
}

// app holds the wired components of a running server.
type app struct {
	server    *server.Server
	storeKind string
	closers   []func()
}

// Close releases resources acquired by buildApp.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	jwtConfig, err := config.NewJWTConfig(cfg.Server.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load JWT config: %w", err)
	}
	if jwtConfig.Insecure {
		logging.Warn().Msg("JWT_SECRET is not set; using the built-in development secret")
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load password config: %w", err)
	}

	dir, err := directory.Load(cfg.Directory.Path, passwords)
	if err != nil {
		return nil, err
	}

	var (
		tasks     store.TaskStore
		artifacts store.ArtifactStore
	)
	if cfg.Database.URL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		database, err := db.Connect(connectCtx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		if err := database.Migrate(connectCtx); err != nil {
			a.Close()
			return nil, err
		}
		tasks, artifacts = database, database
		a.storeKind = "postgres"
	} else {
		var seedTasks []types.Task
		var seedArtifacts []types.Artifact
		if cfg.Workflow.SeedDemoData {
			seedTasks = store.DemoTasks()
			seedArtifacts = store.DemoArtifacts()
		}
		tasks = store.NewMemoryTaskStore(seedTasks...)
		artifacts = store.NewMemoryArtifactStore(seedArtifacts...)
		a.storeKind = "memory"
	}

	files, err := storage.NewFileStore(cfg.Upload.Dir)
	if err != nil {
		a.Close()
		return nil, err
	}

	gate := auth.NewGate(dir, passwords, auth.NewTokenService(jwtConfig))
	svc := workflow.NewService(dir, tasks, artifacts, files, workflow.Config{
		MaxUploadBytes:     cfg.Upload.MaxBytes,
		StrictResubmission: cfg.Workflow.StrictResubmission,
	})

	a.server = server.New(server.Config{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
		LoginRateLimit:  cfg.RateLimit.LoginRequests,
		LoginRateWindow: cfg.RateLimit.LoginWindow,
	}, gate, dir, svc)

	return a, nil
}
