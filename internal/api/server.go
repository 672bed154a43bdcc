// Package api exposes uploads and suggestions over HTTP.
package api

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/auth"
	"github.com/muhammadolammi/hireflow/internal/logger"
	"github.com/muhammadolammi/hireflow/internal/resumes"
	"github.com/muhammadolammi/hireflow/internal/suggest"
	"github.com/muhammadolammi/hireflow/internal/upload"
)

const (
	appName         = "hireflow"
	minBodyLimit    = 4 << 20
	bodyLimitMargin = 1 << 20
)

// Uploads stores resume documents and reports their parse state.
type Uploads interface {
	Upload(ctx context.Context, req upload.Request) (resumes.File, error)
	Get(ctx context.Context, id string) (resumes.File, error)
}

// Suggestions is the suggestion and scoring service.
type Suggestions interface {
	SuggestJobTitles(ctx context.Context, req suggest.JobTitlesRequest) suggest.ListResult
	SuggestMustHaves(ctx context.Context, req suggest.MustHavesRequest) (suggest.ListResult, error)
	GenerateJobDescription(ctx context.Context, req suggest.JobDescriptionRequest) (suggest.DescriptionResult, error)
	ScoreResume(ctx context.Context, req suggest.ScoreRequest) (suggest.ScoreResult, error)
}

type Config struct {
	Uploads        Uploads
	Suggestions    Suggestions
	Verifier       auth.Verifier
	Logger         *zap.Logger
	MaxUploadBytes int64
}

type handler struct {
	uploads     Uploads
	suggestions Suggestions
	validate    *validator.Validate
	logger      *zap.Logger
}

// New builds the fiber app with every route registered.
func New(cfg Config) *fiber.App {
	log := logger.OrNop(cfg.Logger)

	app := fiber.New(fiber.Config{
		AppName:               appName,
		BodyLimit:             bodyLimit(cfg.MaxUploadBytes),
		ErrorHandler:          errorHandler(log),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestLogger(log))

	h := &handler{
		uploads:     cfg.Uploads,
		suggestions: cfg.Suggestions,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      log,
	}

	app.Get("/health", h.health)

	v1 := app.Group("/api/v1")
	v1.Get("/health", h.health)

	authn := requireIdentity(cfg.Verifier)

	r := v1.Group("/resumes", authn)
	r.Post("/", h.uploadResume)
	r.Get("/:id", h.getResume)

	s := v1.Group("/suggestions", authn)
	s.Post("/job-titles", h.jobTitles)
	s.Post("/must-haves", h.mustHaves)
	s.Post("/job-description", h.jobDescription)
	s.Post("/score-resume", h.scoreResume)

	return app
}

func bodyLimit(maxUpload int64) int {
	return max(minBodyLimit, int(maxUpload)+bodyLimitMargin)
}

func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet; report what it will send.
			status, _ = statusFor(err)
		}
		log.Debug("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
		)
		return err
	}
}
