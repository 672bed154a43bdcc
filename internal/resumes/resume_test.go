package resumes

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/muhammadolammi/hireflow/internal/database"
)

func TestFile_Lifecycle(t *testing.T) {
	f := File{ID: "f1", ParseStatus: StatusPending}

	f.BeginAttempt()
	assert.Equal(t, StatusProcessing, f.ParseStatus)
	assert.Equal(t, 1, f.ParseAttempts)

	f.MarkRetry("pdf contains no extractable text")
	assert.Equal(t, StatusPending, f.ParseStatus)
	assert.Nil(t, f.ParsedText)
	assert.Equal(t, "pdf contains no extractable text", *f.ParseError)

	f.BeginAttempt()
	assert.Nil(t, f.ParseError)
	assert.Equal(t, 2, f.ParseAttempts)

	now := time.Now()
	f.MarkReady("full text", "summary", now)
	text, ok := f.Text()
	assert.True(t, ok)
	assert.Equal(t, "full text", text)
	assert.Equal(t, "summary", *f.ParsedSummary)
	assert.Equal(t, now, *f.ParsedAt)
}

func TestFile_MarkFailedClearsParsedFields(t *testing.T) {
	f := File{ID: "f1"}
	f.MarkReady("text", "summary", time.Now())

	f.MarkFailed("gave up")

	assert.Equal(t, StatusFailed, f.ParseStatus)
	assert.Nil(t, f.ParsedText)
	assert.Nil(t, f.ParsedSummary)
	assert.Nil(t, f.ParsedAt)
	_, ok := f.Text()
	assert.False(t, ok)
}

func TestFromRow(t *testing.T) {
	parsedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	row := database.ResumeFile{
		ID:            "f1",
		JobID:         sql.NullString{String: "job-1", Valid: true},
		OriginalName:  "cv.pdf",
		MimeType:      "application/pdf",
		SizeBytes:     10,
		StoragePath:   "resumes/f1.pdf",
		Url:           "https://cdn/resumes/f1.pdf",
		ParseStatus:   sql.NullString{String: "ready", Valid: true},
		ParseAttempts: 2,
		ParsedText:    sql.NullString{String: "text", Valid: true},
		ParsedAt:      sql.NullTime{Time: parsedAt, Valid: true},
	}

	f := fromRow(row)
	assert.Nil(t, f.ApplicantID)
	assert.Equal(t, "job-1", *f.JobID)
	assert.Equal(t, StatusReady, f.ParseStatus)
	assert.Equal(t, 2, f.ParseAttempts)
	assert.Equal(t, parsedAt, *f.ParsedAt)
	assert.Nil(t, f.ParsedSummary)

	row.ParseStatus = sql.NullString{}
	assert.Equal(t, Status(""), fromRow(row).ParseStatus)
}
