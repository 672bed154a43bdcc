// Package suggest produces job title, must-have, description and resume score
// suggestions. Every operation computes a deterministic result first and then
// tries a single completion call that may replace it.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/apperr"
	"github.com/muhammadolammi/hireflow/internal/completion"
	"github.com/muhammadolammi/hireflow/internal/crud"
	"github.com/muhammadolammi/hireflow/internal/logger"
	"github.com/muhammadolammi/hireflow/internal/resumes"
)

// Completer is the completion call the service enhances results with.
type Completer interface {
	Complete(ctx context.Context, req completion.Request) (json.RawMessage, error)
}

type Config struct {
	Completer Completer
	Records   crud.Reader
	Resumes   resumes.Repository
	Logger    *zap.Logger
	// ForceStatic disables completion calls for every request.
	ForceStatic bool
}

type Service struct {
	completer   Completer
	records     crud.Reader
	resumes     resumes.Repository
	logger      *zap.Logger
	forceStatic bool
}

func NewService(cfg Config) *Service {
	return &Service{
		completer:   cfg.Completer,
		records:     cfg.Records,
		resumes:     cfg.Resumes,
		logger:      logger.OrNop(cfg.Logger),
		forceStatic: cfg.ForceStatic,
	}
}

type JobTitlesRequest struct {
	Industry    string
	Description string
	Static      bool
}

type MustHavesRequest struct {
	JobTitle  string
	Industry  string
	Seniority string
	Static    bool
}

type JobDescriptionRequest struct {
	JobTitle  string
	MustHaves []string
	// BusinessID is looked up when Business has no name.
	BusinessID string
	Business   Business
	Extras     []string
	Static     bool
}

// JobContext is the job a resume is scored against.
type JobContext struct {
	Title       string
	MustHaves   []string
	Description string
}

// ScoreRequest scores either the resume attached to an application or an
// inline job with resume text or a resume file id.
type ScoreRequest struct {
	ApplicationID string
	Job           *JobContext
	ResumeText    string
	ResumeFileID  string
	Static        bool
}

func (s *Service) SuggestJobTitles(ctx context.Context, req JobTitlesRequest) ListResult {
	fallback := ListResult{Items: StaticJobTitles(req.Industry, req.Description), Source: SourceStatic}

	var out struct {
		Titles []string `json:"titles"`
	}
	ok := s.enhance(ctx, req.Static, completion.Request{
		Name:        opJobTitles,
		Instruction: jobTitlesInstruction,
		Prompt:      jobTitlesPrompt(req.Industry, req.Description),
		Schema:      jobTitlesSchema,
		Temperature: tempJobTitles,
	}, &out)
	if !ok {
		return fallback
	}
	if items := dedupe(out.Titles, maxTitles); len(items) > 0 {
		return ListResult{Items: items, Source: SourceAI}
	}
	s.fallback(opJobTitles, errors.New("no usable titles in response"))
	return fallback
}

func (s *Service) SuggestMustHaves(ctx context.Context, req MustHavesRequest) (ListResult, error) {
	if strings.TrimSpace(req.JobTitle) == "" {
		return ListResult{}, apperr.Validation("jobTitle is required", nil)
	}
	fallback := ListResult{Items: StaticMustHaves(req.JobTitle, req.Industry, req.Seniority), Source: SourceStatic}

	var out struct {
		MustHaves []string `json:"mustHaves"`
	}
	ok := s.enhance(ctx, req.Static, completion.Request{
		Name:        opMustHaves,
		Instruction: mustHavesInstruction,
		Prompt:      mustHavesPrompt(req.JobTitle, req.Industry, req.Seniority),
		Schema:      mustHavesSchema,
		Temperature: tempMustHaves,
	}, &out)
	if !ok {
		return fallback, nil
	}
	if items := dedupe(out.MustHaves, maxMustHaves); len(items) > 0 {
		return ListResult{Items: items, Source: SourceAI}, nil
	}
	s.fallback(opMustHaves, errors.New("no usable must-haves in response"))
	return fallback, nil
}

func (s *Service) GenerateJobDescription(ctx context.Context, req JobDescriptionRequest) (DescriptionResult, error) {
	if strings.TrimSpace(req.JobTitle) == "" {
		return DescriptionResult{}, apperr.Validation("jobTitle is required", nil)
	}
	if req.BusinessID != "" && strings.TrimSpace(req.Business.Name) == "" {
		business, err := s.business(ctx, req.BusinessID)
		if err != nil {
			return DescriptionResult{}, err
		}
		req.Business = business
	}
	fallback := DescriptionResult{
		Text:   StaticJobDescription(req.JobTitle, req.MustHaves, req.Business, req.Extras),
		Source: SourceStatic,
	}

	var out struct {
		Description string `json:"description"`
	}
	ok := s.enhance(ctx, req.Static, completion.Request{
		Name:        opJobDescription,
		Instruction: jobDescriptionInstruction,
		Prompt:      jobDescriptionPrompt(req.JobTitle, req.MustHaves, req.Business, req.Extras),
		Schema:      jobDescriptionSchema,
		Temperature: tempJobDescription,
	}, &out)
	if !ok {
		return fallback, nil
	}
	if text := strings.TrimSpace(out.Description); text != "" {
		return DescriptionResult{Text: text, Source: SourceAI}, nil
	}
	s.fallback(opJobDescription, errors.New("empty description in response"))
	return fallback, nil
}

// ScoreResume returns ScorePending while the resume is still being parsed and
// ScoreFailed when its text will never be available.
func (s *Service) ScoreResume(ctx context.Context, req ScoreRequest) (ScoreResult, error) {
	job, fileID, err := s.scoreTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.ResumeText)
	if req.ApplicationID != "" || text == "" {
		if fileID == "" {
			return ScoreFailed{Message: "no resume is attached to this application"}, nil
		}
		var settled ScoreResult
		text, settled, err = s.resumeText(ctx, fileID)
		if err != nil || settled != nil {
			return settled, err
		}
	}

	fallback := StaticScore(job.Title, job.MustHaves)

	var out ScoreReady
	ok := s.enhance(ctx, req.Static, completion.Request{
		Name:        opScoreResume,
		Instruction: scoreResumeInstruction,
		Prompt:      scoreResumePrompt(job, text),
		Schema:      scoreResumeSchema,
		Temperature: tempScoreResume,
	}, &out)
	if !ok {
		return fallback, nil
	}

	tips := dedupe(out.CVTips, maxTips)
	if len(tips) == 0 {
		s.fallback(opScoreResume, errors.New("no usable tips in response"))
		return fallback, nil
	}
	return ScoreReady{
		Score:   clampScore(out.Score),
		CVScore: clampScore(out.CVScore),
		CVTips:  tips,
		Source:  SourceAI,
	}, nil
}

func (s *Service) scoreTarget(ctx context.Context, req ScoreRequest) (JobContext, string, error) {
	if req.ApplicationID == "" {
		if req.Job == nil || strings.TrimSpace(req.Job.Title) == "" {
			return JobContext{}, "", apperr.Validation("applicationId or job with a title is required", nil)
		}
		if strings.TrimSpace(req.ResumeText) == "" && req.ResumeFileID == "" {
			return JobContext{}, "", apperr.Validation("resumeText or resumeFileId is required", nil)
		}
		return *req.Job, req.ResumeFileID, nil
	}

	if s.records == nil {
		return JobContext{}, "", fmt.Errorf("scoring by application requires a record reader")
	}
	app, err := s.records.GetApplication(ctx, req.ApplicationID)
	if errors.Is(err, crud.ErrNotFound) {
		return JobContext{}, "", apperr.NotFound("application", req.ApplicationID)
	}
	if err != nil {
		return JobContext{}, "", err
	}

	job, err := s.records.GetJob(ctx, app.JobID)
	if errors.Is(err, crud.ErrNotFound) {
		return JobContext{}, "", apperr.NotFound("job", app.JobID)
	}
	if err != nil {
		return JobContext{}, "", err
	}

	return JobContext{Title: job.Title, MustHaves: job.MustHaves, Description: job.Description}, app.ResumeFileID, nil
}

func (s *Service) business(ctx context.Context, id string) (Business, error) {
	if s.records == nil {
		return Business{}, fmt.Errorf("business lookup requires a record reader")
	}
	b, err := s.records.GetBusiness(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return Business{}, apperr.NotFound("business", id)
	}
	if err != nil {
		return Business{}, err
	}
	return Business{Name: b.Name, Industry: b.Industry, Location: b.Location, About: b.About}, nil
}

// resumeText returns the parsed text, or a settled result when the text is
// not available.
func (s *Service) resumeText(ctx context.Context, fileID string) (string, ScoreResult, error) {
	if s.resumes == nil {
		return "", nil, fmt.Errorf("scoring by resume file requires a resume repository")
	}
	f, err := s.resumes.Get(ctx, fileID)
	if errors.Is(err, resumes.ErrNotFound) {
		return "", ScoreFailed{Message: fmt.Sprintf("resume file %s does not exist", fileID)}, nil
	}
	if err != nil {
		return "", nil, err
	}

	switch f.ParseStatus {
	case resumes.StatusReady:
		if text, ok := f.Text(); ok {
			return text, nil, nil
		}
		return "", ScoreFailed{Message: "resume was parsed but has no text"}, nil
	case resumes.StatusFailed:
		msg := "resume could not be parsed"
		if f.ParseError != nil && *f.ParseError != "" {
			msg += ": " + *f.ParseError
		}
		return "", ScoreFailed{Message: msg}, nil
	default:
		return "", ScorePending{Message: "resume is still being processed, try again shortly"}, nil
	}
}

// enhance runs one completion call and decodes the response into out. It
// reports false, after logging, whenever the fallback should be used.
func (s *Service) enhance(ctx context.Context, static bool, req completion.Request, out any) bool {
	if static || s.forceStatic || s.completer == nil {
		return false
	}

	raw, err := s.completer.Complete(ctx, req)
	if err != nil {
		s.fallback(req.Name, err)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.fallback(req.Name, fmt.Errorf("failed to decode completion response: %w", err))
		return false
	}
	return true
}

func (s *Service) fallback(operation string, err error) {
	if errors.Is(err, completion.ErrNotConfigured) {
		s.logger.Debug("completion not configured, using static result", zap.String("operation", operation))
		return
	}
	s.logger.Warn("completion failed, using static result", zap.String("operation", operation), zap.Error(err))
}

func clampScore(v int) int {
	return min(100, max(0, v))
}
