// Package resumes holds the resume file record and its parse lifecycle.
package resumes

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for an id.
var ErrNotFound = errors.New("resume file not found")

// Status is the parse lifecycle state of a resume file.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// File is one uploaded resume document.
type File struct {
	ID            string     `json:"fileId"`
	ApplicantID   *string    `json:"applicantId,omitempty"`
	JobID         *string    `json:"jobId,omitempty"`
	OriginalName  string     `json:"originalName"`
	MimeType      string     `json:"mimeType"`
	SizeBytes     int64      `json:"sizeBytes"`
	StoragePath   string     `json:"storagePath"`
	URL           string     `json:"url"`
	ParseStatus   Status     `json:"parseStatus"`
	ParseAttempts int        `json:"parseAttempts"`
	ParsedText    *string    `json:"parsedText,omitempty"`
	ParsedSummary *string    `json:"parsedSummary,omitempty"`
	ParsedAt      *time.Time `json:"parsedAt,omitempty"`
	ParseError    *string    `json:"parseError,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewFile is the input for creating a record after a successful upload.
type NewFile struct {
	ID           string
	ApplicantID  *string
	JobID        *string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	StoragePath  string
	URL          string
}

// Repository persists resume files.
type Repository interface {
	Create(ctx context.Context, f NewFile) (File, error)
	Get(ctx context.Context, id string) (File, error)
	SaveParseState(ctx context.Context, f File) error
	// ListUnfinished returns ids with status pending, processing or unset.
	ListUnfinished(ctx context.Context) ([]string, error)
}

// BeginAttempt moves the record to processing and consumes one attempt.
func (f *File) BeginAttempt() {
	f.ParseStatus = StatusProcessing
	f.ParseError = nil
	f.ParseAttempts++
}

// MarkReady stores the parse output.
func (f *File) MarkReady(text, summary string, at time.Time) {
	f.ParseStatus = StatusReady
	f.ParsedText = &text
	f.ParsedSummary = &summary
	f.ParsedAt = &at
	f.ParseError = nil
}

// MarkRetry returns the record to pending with the attempt's error.
func (f *File) MarkRetry(message string) {
	f.ParseStatus = StatusPending
	f.clearParsed()
	f.ParseError = &message
}

// MarkFailed makes the failure permanent.
func (f *File) MarkFailed(message string) {
	f.ParseStatus = StatusFailed
	f.clearParsed()
	f.ParseError = &message
}

func (f *File) clearParsed() {
	f.ParsedText = nil
	f.ParsedSummary = nil
	f.ParsedAt = nil
}

// Text returns the parsed text when the record is ready.
func (f File) Text() (string, bool) {
	if f.ParseStatus != StatusReady || f.ParsedText == nil {
		return "", false
	}
	return *f.ParsedText, true
}
