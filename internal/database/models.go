package database

import (
	"database/sql"
	"time"
)

type ResumeFile struct {
	ID            string
	ApplicantID   sql.NullString
	JobID         sql.NullString
	OriginalName  string
	MimeType      string
	SizeBytes     int64
	StoragePath   string
	Url           string
	ParseStatus   sql.NullString
	ParseAttempts int32
	ParsedText    sql.NullString
	ParsedSummary sql.NullString
	ParsedAt      sql.NullTime
	ParseError    sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Job struct {
	ID          string
	BusinessID  sql.NullString
	Title       string
	MustHaves   []string
	Description sql.NullString
}

type Application struct {
	ID           string
	JobID        string
	ApplicantID  sql.NullString
	ResumeFileID sql.NullString
}

type Business struct {
	ID       string
	Name     string
	Industry sql.NullString
	Location sql.NullString
	About    sql.NullString
}
