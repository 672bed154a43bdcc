// Package parser drives uploaded resumes from pending to ready or failed with
// a single in-process consumer.
package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/events"
	"github.com/muhammadolammi/hireflow/internal/extract"
	"github.com/muhammadolammi/hireflow/internal/logger"
	"github.com/muhammadolammi/hireflow/internal/resumes"
	"github.com/muhammadolammi/hireflow/internal/storage"
)

// Notifier receives every parse status transition.
type Notifier interface {
	Notify(ctx context.Context, u events.Update)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, events.Update) {}

type WorkerConfig struct {
	Repo     resumes.Repository
	Store    storage.DocumentStore
	Notifier Notifier
	Logger   *zap.Logger
	Policy   Policy
	// Extract defaults to extract.Document.
	Extract func(mimeType string, data []byte) (string, error)
}

// Worker owns the parse queue. Ids are processed one at a time, each attempt
// running to completion before the next id is dequeued.
type Worker struct {
	repo     resumes.Repository
	store    storage.DocumentStore
	notifier Notifier
	logger   *zap.Logger
	policy   Policy
	extract  func(mimeType string, data []byte) (string, error)
	queue    *Queue

	now       func() time.Time
	afterFunc func(time.Duration, func())
}

func NewWorker(cfg WorkerConfig) *Worker {
	w := &Worker{
		repo:     cfg.Repo,
		store:    cfg.Store,
		notifier: cfg.Notifier,
		logger:   logger.OrNop(cfg.Logger),
		policy:   cfg.Policy,
		extract:  cfg.Extract,
		queue:    NewQueue(),
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	if w.notifier == nil {
		w.notifier = nopNotifier{}
	}
	if w.extract == nil {
		w.extract = extract.Document
	}
	if w.policy.MaxAttempts <= 0 {
		w.policy = DefaultPolicy()
	}
	return w
}

// Enqueue schedules id for parsing. It returns false when id is already
// queued or being processed.
func (w *Worker) Enqueue(id string) bool {
	ok := w.queue.Push(id)
	if ok {
		w.logger.Debug("resume enqueued", zap.String("file_id", id))
	}
	return ok
}

// Recover enqueues every record left pending, processing or without a status
// by a previous process.
func (w *Worker) Recover(ctx context.Context) (int, error) {
	ids, err := w.repo.ListUnfinished(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		if w.Enqueue(id) {
			n++
		}
	}
	w.logger.Info("recovered unfinished resumes", zap.Int("count", n))
	return n, nil
}

// Run consumes the queue until ctx is done. A started attempt is never
// cancelled; shutdown only stops further dequeues.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("resume parsing worker started")
	defer w.logger.Info("resume parsing worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}

		id, ok := w.queue.Pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-w.queue.Wake():
			}
			continue
		}

		delay, retry := w.process(context.WithoutCancel(ctx), id)
		w.queue.Done(id)
		if retry {
			w.scheduleRetry(id, delay)
		}
	}
}

func (w *Worker) scheduleRetry(id string, delay time.Duration) {
	w.logger.Info("resume parse retry scheduled", zap.String("file_id", id), zap.Duration("delay", delay))
	w.afterFunc(delay, func() {
		w.Enqueue(id)
	})
}

// process runs one attempt for id and reports whether, and after how long,
// it should be retried.
func (w *Worker) process(ctx context.Context, id string) (time.Duration, bool) {
	log := w.logger.With(zap.String("file_id", id))

	f, err := w.repo.Get(ctx, id)
	if errors.Is(err, resumes.ErrNotFound) {
		log.Debug("resume file missing, skipping")
		return 0, false
	}
	// Failures before the attempt is recorded do not spend the budget.
	if err != nil {
		log.Error("failed to load resume file", zap.Error(err))
		return w.policy.MaxRetryDelay, true
	}

	switch {
	case f.ParseStatus == resumes.StatusReady, f.ParseStatus == resumes.StatusFailed:
		log.Debug("resume already settled, skipping", zap.String("status", string(f.ParseStatus)))
		return 0, false
	case f.ParseAttempts >= w.policy.MaxAttempts:
		// Budget spent by an attempt that never recorded its outcome.
		f.MarkFailed(truncateError(fmt.Sprintf("gave up after %d parse attempts", f.ParseAttempts)))
		w.save(ctx, log, f)
		return 0, false
	}

	f.BeginAttempt()
	log = log.With(zap.Int("attempt", f.ParseAttempts))
	if err := w.repo.SaveParseState(ctx, f); err != nil {
		log.Error("failed to mark resume processing", zap.Error(err))
		return w.policy.MaxRetryDelay, true
	}
	w.notify(ctx, f, "parsing started")

	text, summary, err := w.parse(ctx, f)
	if err == nil {
		f.MarkReady(text, summary, w.now().UTC())
		if !w.save(ctx, log, f) {
			return w.policy.RetryDelay(f.ParseAttempts), true
		}
		log.Info("resume parsed", zap.Int("text_length", len([]rune(text))))
		w.notify(ctx, f, "parsing completed")
		return 0, false
	}

	message := truncateError(err.Error())
	if f.ParseAttempts < w.policy.MaxAttempts {
		f.MarkRetry(message)
		w.save(ctx, log, f)
		log.Warn("resume parse attempt failed", zap.Error(err))
		w.notify(ctx, f, message)
		return w.policy.RetryDelay(f.ParseAttempts), true
	}

	f.MarkFailed(message)
	w.save(ctx, log, f)
	log.Error("resume parse failed permanently", zap.Error(err))
	w.notify(ctx, f, message)
	return 0, false
}

func (w *Worker) parse(ctx context.Context, f resumes.File) (string, string, error) {
	doc, err := w.store.Fetch(ctx, f.StoragePath)
	if err != nil {
		return "", "", fmt.Errorf("file download error: %w", err)
	}

	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = doc.MimeType
	}

	text, err := w.extract(mimeType, doc.Bytes)
	if err != nil {
		return "", "", err
	}

	summary := extract.Summarize(text, w.policy.MaxSummaryChars)
	text = extract.Truncate(text, w.policy.MaxTextChars, extract.TruncationMarker)
	return text, summary, nil
}

func (w *Worker) save(ctx context.Context, log *zap.Logger, f resumes.File) bool {
	if err := w.repo.SaveParseState(ctx, f); err != nil {
		log.Error("failed to save parse state", zap.String("status", string(f.ParseStatus)), zap.Error(err))
		return false
	}
	return true
}

func (w *Worker) notify(ctx context.Context, f resumes.File, message string) {
	w.notifier.Notify(ctx, events.Update{
		FileID:    f.ID,
		Status:    string(f.ParseStatus),
		Attempts:  f.ParseAttempts,
		Message:   message,
		Timestamp: w.now().UTC(),
	})
}

func truncateError(msg string) string {
	return extract.Truncate(msg, ErrorBudget, "…")
}
