package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/api"
	"github.com/muhammadolammi/hireflow/internal/auth"
	"github.com/muhammadolammi/hireflow/internal/completion"
	"github.com/muhammadolammi/hireflow/internal/config"
	"github.com/muhammadolammi/hireflow/internal/crud"
	"github.com/muhammadolammi/hireflow/internal/database"
	"github.com/muhammadolammi/hireflow/internal/events"
	"github.com/muhammadolammi/hireflow/internal/logger"
	"github.com/muhammadolammi/hireflow/internal/parser"
	"github.com/muhammadolammi/hireflow/internal/resumes"
	"github.com/muhammadolammi/hireflow/internal/storage"
	"github.com/muhammadolammi/hireflow/internal/suggest"
	"github.com/muhammadolammi/hireflow/internal/upload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the resume parse worker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		defer log.Sync()

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("error opening db: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("error reaching db: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	queries := database.New(db)
	repo := resumes.NewPostgresRepository(queries)
	records := crud.NewPostgresReader(queries)

	store, err := storage.NewR2Store(cfg.R2, log)
	if err != nil {
		return err
	}

	var notifier parser.Notifier
	if cfg.RabbitMQURL != "" {
		pub, err := events.Dial(cfg.RabbitMQURL, log)
		if err != nil {
			log.Warn("parse status updates disabled", zap.Error(err))
		} else {
			defer pub.Close()
			notifier = pub
		}
	}

	worker := parser.NewWorker(parser.WorkerConfig{
		Repo:     repo,
		Store:    store,
		Notifier: notifier,
		Logger:   log.Named("parser"),
		Policy:   cfg.Parse,
	})
	if _, err := worker.Recover(ctx); err != nil {
		return fmt.Errorf("failed to recover unfinished resumes: %w", err)
	}

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(ctx)
	}()

	var backend completion.Backend
	if cfg.AIEnabled() {
		agent, err := completion.NewAgentBackend(completion.AgentConfig{
			APIKey: cfg.GoogleAPIKey,
			Model:  cfg.GeminiModel,
		}, log.Named("completion"))
		if err != nil {
			return err
		}
		backend = agent
	} else {
		log.Info("completion disabled, serving static suggestions")
	}

	suggestions := suggest.NewService(suggest.Config{
		Completer:   completion.NewClient(backend, log.Named("completion")),
		Records:     records,
		Resumes:     repo,
		Logger:      log.Named("suggest"),
		ForceStatic: cfg.AIDisabled,
	})

	uploads := upload.NewGateway(upload.Config{
		Store:    store,
		Repo:     repo,
		Records:  records,
		Queue:    worker,
		Logger:   log.Named("upload"),
		MaxBytes: cfg.MaxUploadBytes,
	})

	verifier, err := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return err
	}

	app := api.New(api.Config{
		Uploads:        uploads,
		Suggestions:    suggestions,
		Verifier:       verifier,
		Logger:         log.Named("api"),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("port", cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-listenErr:
		if err != nil {
			runErr = fmt.Errorf("http server stopped: %w", err)
		}
	}

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}

	cancel()
	<-workerDone
	return runErr
}
