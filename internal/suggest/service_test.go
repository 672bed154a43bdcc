package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muhammadolammi/hireflow/internal/apperr"
	"github.com/muhammadolammi/hireflow/internal/completion"
	"github.com/muhammadolammi/hireflow/internal/crud"
	"github.com/muhammadolammi/hireflow/internal/resumes"
)

type fakeCompleter struct {
	mu       sync.Mutex
	response string
	err      error
	calls    []completion.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req completion.Request) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.response), nil
}

type fakeRecords struct {
	jobs         map[string]crud.Job
	applications map[string]crud.Application
	businesses   map[string]crud.Business
}

func (f *fakeRecords) GetJob(_ context.Context, id string) (crud.Job, error) {
	if j, ok := f.jobs[id]; ok {
		return j, nil
	}
	return crud.Job{}, crud.ErrNotFound
}

func (f *fakeRecords) GetApplication(_ context.Context, id string) (crud.Application, error) {
	if a, ok := f.applications[id]; ok {
		return a, nil
	}
	return crud.Application{}, crud.ErrNotFound
}

func (f *fakeRecords) GetBusiness(_ context.Context, id string) (crud.Business, error) {
	if b, ok := f.businesses[id]; ok {
		return b, nil
	}
	return crud.Business{}, crud.ErrNotFound
}

func (f *fakeRecords) ApplicantExists(context.Context, string) (bool, error) {
	return false, nil
}

type fakeResumes struct {
	files map[string]resumes.File
}

func (f *fakeResumes) Create(context.Context, resumes.NewFile) (resumes.File, error) {
	return resumes.File{}, errors.New("not implemented")
}

func (f *fakeResumes) Get(_ context.Context, id string) (resumes.File, error) {
	if file, ok := f.files[id]; ok {
		return file, nil
	}
	return resumes.File{}, resumes.ErrNotFound
}

func (f *fakeResumes) SaveParseState(context.Context, resumes.File) error { return nil }

func (f *fakeResumes) ListUnfinished(context.Context) ([]string, error) { return nil, nil }

func fileWithStatus(id string, status resumes.Status) resumes.File {
	f := resumes.File{ID: id, ParseStatus: status}
	switch status {
	case resumes.StatusReady:
		f.MarkReady("Go engineer with PostgreSQL experience", "Go engineer", time.Now())
	case resumes.StatusFailed:
		f.MarkFailed("pdf contains no extractable text")
	}
	return f
}

func newScoringService(completer Completer) *Service {
	records := &fakeRecords{
		jobs: map[string]crud.Job{
			"job-1": {ID: "job-1", Title: "Backend Engineer", MustHaves: []string{"Go", "PostgreSQL", "go"}},
		},
		applications: map[string]crud.Application{
			"app-ready":      {ID: "app-ready", JobID: "job-1", ResumeFileID: "f-ready"},
			"app-processing": {ID: "app-processing", JobID: "job-1", ResumeFileID: "f-processing"},
			"app-pending":    {ID: "app-pending", JobID: "job-1", ResumeFileID: "f-pending"},
			"app-failed":     {ID: "app-failed", JobID: "job-1", ResumeFileID: "f-failed"},
			"app-missing":    {ID: "app-missing", JobID: "job-1", ResumeFileID: "f-missing"},
			"app-no-resume":  {ID: "app-no-resume", JobID: "job-1"},
			"app-no-job":     {ID: "app-no-job", JobID: "job-gone", ResumeFileID: "f-ready"},
		},
	}
	repo := &fakeResumes{files: map[string]resumes.File{
		"f-ready":      fileWithStatus("f-ready", resumes.StatusReady),
		"f-processing": fileWithStatus("f-processing", resumes.StatusProcessing),
		"f-pending":    fileWithStatus("f-pending", resumes.StatusPending),
		"f-failed":     fileWithStatus("f-failed", resumes.StatusFailed),
	}}
	return NewService(Config{Completer: completer, Records: records, Resumes: repo})
}

func TestService_SuggestMustHaves_StaticWithoutWaiting(t *testing.T) {
	tests := []struct {
		name      string
		completer *fakeCompleter
		static    bool
		calls     int
	}{
		{name: "forced static", completer: &fakeCompleter{response: `{"mustHaves":["a","b","c"]}`}, static: true, calls: 0},
		{name: "unreachable completion", completer: &fakeCompleter{err: errors.New("dial tcp: connection refused")}, calls: 1},
		{name: "not configured", completer: &fakeCompleter{err: completion.ErrNotConfigured}, calls: 1},
		{name: "undecodable payload", completer: &fakeCompleter{response: `{"mustHaves":"nope"}`}, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(Config{Completer: tt.completer})

			res, err := svc.SuggestMustHaves(context.Background(), MustHavesRequest{JobTitle: "Backend Engineer", Static: tt.static})
			require.NoError(t, err)
			assert.Equal(t, SourceStatic, res.Source)
			assert.NotEmpty(t, res.Items)
			assert.Equal(t, StaticMustHaves("Backend Engineer", "", ""), res.Items)
			assert.Len(t, tt.completer.calls, tt.calls)
		})
	}
}

func TestService_ForceStaticConfig(t *testing.T) {
	completer := &fakeCompleter{response: `{"titles":["a","b","c"]}`}
	svc := NewService(Config{Completer: completer, ForceStatic: true})

	res := svc.SuggestJobTitles(context.Background(), JobTitlesRequest{Industry: "retail"})
	assert.Equal(t, SourceStatic, res.Source)
	assert.Empty(t, completer.calls)
}

func TestService_SuggestMustHaves_AIResultDeduplicated(t *testing.T) {
	completer := &fakeCompleter{response: `{"mustHaves":["Go", " go ", "Kubernetes", "SQL", "Kubernetes"]}`}
	svc := NewService(Config{Completer: completer})

	res, err := svc.SuggestMustHaves(context.Background(), MustHavesRequest{JobTitle: "Platform Engineer", Seniority: "senior"})
	require.NoError(t, err)
	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, []string{"Go", "Kubernetes", "SQL"}, res.Items)

	require.Len(t, completer.calls, 1)
	call := completer.calls[0]
	assert.Equal(t, opMustHaves, call.Name)
	assert.Equal(t, mustHavesSchema, call.Schema)
	assert.Equal(t, tempMustHaves, call.Temperature)
	assert.Contains(t, call.Prompt, "Platform Engineer")
	assert.Contains(t, call.Prompt, "senior")
}

func TestService_SuggestMustHaves_RequiresTitle(t *testing.T) {
	svc := NewService(Config{})
	_, err := svc.SuggestMustHaves(context.Background(), MustHavesRequest{JobTitle: "  "})

	var vErr *apperr.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestService_SuggestJobTitles(t *testing.T) {
	completer := &fakeCompleter{response: `{"titles":["Backend Engineer","Go Developer","backend engineer","Platform Engineer"]}`}
	svc := NewService(Config{Completer: completer})

	res := svc.SuggestJobTitles(context.Background(), JobTitlesRequest{Industry: "technology", Description: "Go APIs"})
	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, []string{"Backend Engineer", "Go Developer", "Platform Engineer"}, res.Items)
	assert.Equal(t, tempJobTitles, completer.calls[0].Temperature)
}

func TestService_FallbackIsLoggedWithOperation(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	completer := &fakeCompleter{err: errors.New("schema mismatch")}
	svc := NewService(Config{Completer: completer, Logger: zap.New(core)})

	res := svc.SuggestJobTitles(context.Background(), JobTitlesRequest{Industry: "finance"})
	assert.Equal(t, SourceStatic, res.Source)

	entries := logs.FilterMessage("completion failed, using static result").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, opJobTitles, entries[0].ContextMap()["operation"])
}

func TestService_GenerateJobDescription(t *testing.T) {
	req := JobDescriptionRequest{
		JobTitle:  "Backend Engineer",
		MustHaves: []string{"Go"},
		Business:  Business{Name: "Acme"},
	}

	t.Run("ai", func(t *testing.T) {
		completer := &fakeCompleter{response: `{"description":"  Acme is hiring a Backend Engineer to build payment APIs in Go.  "}`}
		svc := NewService(Config{Completer: completer})

		res, err := svc.GenerateJobDescription(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, SourceAI, res.Source)
		assert.Equal(t, "Acme is hiring a Backend Engineer to build payment APIs in Go.", res.Text)
		assert.Equal(t, tempJobDescription, completer.calls[0].Temperature)
		assert.Contains(t, completer.calls[0].Prompt, "- Go")
	})

	t.Run("static", func(t *testing.T) {
		svc := NewService(Config{Completer: &fakeCompleter{err: errors.New("boom")}})

		res, err := svc.GenerateJobDescription(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, SourceStatic, res.Source)
		assert.Equal(t, StaticJobDescription(req.JobTitle, req.MustHaves, req.Business, nil), res.Text)
	})

	t.Run("business by id", func(t *testing.T) {
		records := &fakeRecords{businesses: map[string]crud.Business{
			"biz-1": {ID: "biz-1", Name: "Globex", Location: "Accra"},
		}}
		svc := NewService(Config{Records: records})

		res, err := svc.GenerateJobDescription(context.Background(), JobDescriptionRequest{JobTitle: "Chef", BusinessID: "biz-1", Static: true})
		require.NoError(t, err)
		assert.Contains(t, res.Text, "Chef at Globex\nLocation: Accra")

		_, err = svc.GenerateJobDescription(context.Background(), JobDescriptionRequest{JobTitle: "Chef", BusinessID: "ghost"})
		var nfErr *apperr.NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "business", nfErr.Entity)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := NewService(Config{}).GenerateJobDescription(context.Background(), JobDescriptionRequest{})
		var vErr *apperr.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestService_ScoreResume_ByApplication(t *testing.T) {
	tests := []struct {
		application string
		status      ScoreStatus
		message     string
	}{
		{application: "app-processing", status: ScoreStatusPending},
		{application: "app-pending", status: ScoreStatusPending},
		{application: "app-failed", status: ScoreStatusFailed, message: "no extractable text"},
		{application: "app-missing", status: ScoreStatusFailed, message: "does not exist"},
		{application: "app-no-resume", status: ScoreStatusFailed, message: "no resume"},
		{application: "app-ready", status: ScoreStatusReady},
	}

	for _, tt := range tests {
		t.Run(tt.application, func(t *testing.T) {
			completer := &fakeCompleter{err: errors.New("offline")}
			svc := newScoringService(completer)

			res, err := svc.ScoreResume(context.Background(), ScoreRequest{ApplicationID: tt.application})
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status())

			switch r := res.(type) {
			case ScoreReady:
				assert.GreaterOrEqual(t, r.Score, 0)
				assert.LessOrEqual(t, r.Score, 100)
				assert.GreaterOrEqual(t, r.CVScore, 0)
				assert.LessOrEqual(t, r.CVScore, 100)
				assert.NotEmpty(t, r.CVTips)
				assert.LessOrEqual(t, len(r.CVTips), 8)
				assert.Equal(t, SourceStatic, r.Source)
				require.Len(t, completer.calls, 1)
				assert.Contains(t, completer.calls[0].Prompt, "Go engineer with PostgreSQL experience")
			case ScorePending:
				assert.NotEmpty(t, r.Message)
				assert.Empty(t, completer.calls)
			case ScoreFailed:
				assert.Contains(t, r.Message, tt.message)
				assert.Empty(t, completer.calls)
			}
		})
	}
}

func TestService_ScoreResume_AI(t *testing.T) {
	completer := &fakeCompleter{response: `{"score":140,"cvScore":72,"cvTips":["Add metrics","add metrics","Lead with Go"]}`}
	svc := newScoringService(completer)

	res, err := svc.ScoreResume(context.Background(), ScoreRequest{ApplicationID: "app-ready"})
	require.NoError(t, err)

	ready, ok := res.(ScoreReady)
	require.True(t, ok)
	assert.Equal(t, SourceAI, ready.Source)
	assert.Equal(t, 100, ready.Score)
	assert.Equal(t, 72, ready.CVScore)
	assert.Equal(t, []string{"Add metrics", "Lead with Go"}, ready.CVTips)
	assert.Equal(t, tempScoreResume, completer.calls[0].Temperature)
}

func TestService_ScoreResume_Inline(t *testing.T) {
	svc := newScoringService(&fakeCompleter{err: errors.New("offline")})
	job := &JobContext{Title: "Backend Engineer", MustHaves: []string{"Go", "SQL"}}

	res, err := svc.ScoreResume(context.Background(), ScoreRequest{Job: job, ResumeText: "Go and SQL for years"})
	require.NoError(t, err)
	assert.Equal(t, StaticScore("Backend Engineer", []string{"Go", "SQL"}), res)

	res, err = svc.ScoreResume(context.Background(), ScoreRequest{Job: job, ResumeFileID: "f-processing"})
	require.NoError(t, err)
	assert.Equal(t, ScoreStatusPending, res.Status())

	_, err = svc.ScoreResume(context.Background(), ScoreRequest{Job: job})
	var vErr *apperr.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.ScoreResume(context.Background(), ScoreRequest{ResumeText: "text"})
	assert.ErrorAs(t, err, &vErr)
}

func TestService_ScoreResume_MissingRecords(t *testing.T) {
	svc := newScoringService(&fakeCompleter{})

	_, err := svc.ScoreResume(context.Background(), ScoreRequest{ApplicationID: "nope"})
	var nfErr *apperr.NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "application", nfErr.Entity)

	_, err = svc.ScoreResume(context.Background(), ScoreRequest{ApplicationID: "app-no-job"})
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "job", nfErr.Entity)
}
