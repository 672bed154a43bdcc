// Package upload validates resume uploads, stores them and hands them to the
// parsing worker.
package upload

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/apperr"
	"github.com/muhammadolammi/hireflow/internal/crud"
	"github.com/muhammadolammi/hireflow/internal/extract"
	"github.com/muhammadolammi/hireflow/internal/logger"
	"github.com/muhammadolammi/hireflow/internal/resumes"
	"github.com/muhammadolammi/hireflow/internal/storage"
)

// DefaultMaxBytes is the upload size limit when none is configured.
const DefaultMaxBytes = 10 << 20

const defaultName = "resume"

var allowedMimeTypes = map[string]struct{}{
	extract.MimePDF:  {},
	extract.MimeDOCX: {},
	extract.MimeText: {},
	extract.MimeDOC:  {},
}

// Enqueuer schedules a resume file for parsing.
type Enqueuer interface {
	Enqueue(id string) bool
}

type Config struct {
	Store    storage.DocumentStore
	Repo     resumes.Repository
	Records  crud.Reader
	Queue    Enqueuer
	Logger   *zap.Logger
	MaxBytes int64
}

type Gateway struct {
	store    storage.DocumentStore
	repo     resumes.Repository
	records  crud.Reader
	queue    Enqueuer
	logger   *zap.Logger
	maxBytes int64
}

func NewGateway(cfg Config) *Gateway {
	g := &Gateway{
		store:    cfg.Store,
		repo:     cfg.Repo,
		records:  cfg.Records,
		queue:    cfg.Queue,
		logger:   logger.OrNop(cfg.Logger),
		maxBytes: cfg.MaxBytes,
	}
	if g.maxBytes <= 0 {
		g.maxBytes = DefaultMaxBytes
	}
	return g
}

// Request is one uploaded document.
type Request struct {
	Data         []byte
	MimeType     string
	OriginalName string
	ApplicantID  string
	JobID        string
}

// Upload stores the document and creates a pending resume file. When a step
// after the store fails, the stored object is removed before returning.
func (g *Gateway) Upload(ctx context.Context, req Request) (resumes.File, error) {
	mimeType := extract.NormalizeMime(req.MimeType)
	if err := g.validate(mimeType, int64(len(req.Data))); err != nil {
		return resumes.File{}, err
	}
	if err := g.checkReferences(ctx, req.ApplicantID, req.JobID); err != nil {
		return resumes.File{}, err
	}

	name := originalName(req.OriginalName, mimeType)
	obj, err := g.store.Store(ctx, req.Data, name, mimeType)
	if err != nil {
		return resumes.File{}, apperr.External("document store", "failed to store resume", err)
	}

	log := g.logger.With(zap.String("storage_path", obj.Reference))
	f, err := g.repo.Create(ctx, resumes.NewFile{
		ID:           uuid.NewString(),
		ApplicantID:  optional(req.ApplicantID),
		JobID:        optional(req.JobID),
		OriginalName: name,
		MimeType:     mimeType,
		SizeBytes:    obj.SizeBytes,
		StoragePath:  obj.Reference,
		URL:          obj.URL,
	})
	if err != nil {
		g.compensate(ctx, log, obj.Reference)
		return resumes.File{}, fmt.Errorf("failed to record resume upload: %w", err)
	}

	g.queue.Enqueue(f.ID)
	log.Info("resume uploaded",
		zap.String("file_id", f.ID),
		zap.String("mime_type", mimeType),
		zap.Int64("size_bytes", obj.SizeBytes),
	)
	return f, nil
}

// Get returns the resume file with id.
func (g *Gateway) Get(ctx context.Context, id string) (resumes.File, error) {
	f, err := g.repo.Get(ctx, id)
	if errors.Is(err, resumes.ErrNotFound) {
		return resumes.File{}, apperr.NotFound("resume file", id)
	}
	return f, err
}

func (g *Gateway) validate(mimeType string, size int64) error {
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return apperr.Validation("unsupported file type", map[string]any{
			"mimeType": mimeType,
			"allowed":  []string{extract.MimePDF, extract.MimeDOCX, extract.MimeText, extract.MimeDOC},
		})
	}
	if size <= 0 {
		return apperr.Validation("file is empty", nil)
	}
	if size > g.maxBytes {
		return apperr.Validation("file is too large", map[string]any{
			"sizeBytes": size,
			"maxBytes":  g.maxBytes,
		})
	}
	return nil
}

func (g *Gateway) checkReferences(ctx context.Context, applicantID, jobID string) error {
	if applicantID != "" {
		exists, err := g.records.ApplicantExists(ctx, applicantID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("applicant", applicantID)
		}
	}
	if jobID != "" {
		_, err := g.records.GetJob(ctx, jobID)
		if errors.Is(err, crud.ErrNotFound) {
			return apperr.NotFound("job", jobID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) compensate(ctx context.Context, log *zap.Logger, reference string) {
	if err := g.store.Delete(context.WithoutCancel(ctx), reference); err != nil {
		log.Error("failed to remove stored resume after failed upload", zap.Error(err))
		return
	}
	log.Info("removed stored resume after failed upload")
}

func originalName(name, mimeType string) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return defaultName + exts[0]
	}
	return defaultName
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
