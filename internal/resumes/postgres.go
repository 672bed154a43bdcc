package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/muhammadolammi/hireflow/internal/database"
)

// PostgresRepository stores resume files in the resume_files table.
type PostgresRepository struct {
	db *database.Queries
}

func NewPostgresRepository(db *database.Queries) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f NewFile) (File, error) {
	row, err := r.db.CreateResumeFile(ctx, database.CreateResumeFileParams{
		ID:           f.ID,
		ApplicantID:  nullString(f.ApplicantID),
		JobID:        nullString(f.JobID),
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		SizeBytes:    f.SizeBytes,
		StoragePath:  f.StoragePath,
		Url:          f.URL,
	})
	if err != nil {
		return File{}, fmt.Errorf("error creating resume file %s: %w", f.ID, err)
	}
	return fromRow(row), nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (File, error) {
	row, err := r.db.GetResumeFile(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, ErrNotFound
	}
	if err != nil {
		return File{}, fmt.Errorf("error getting resume file %s: %w", id, err)
	}
	return fromRow(row), nil
}

func (r *PostgresRepository) SaveParseState(ctx context.Context, f File) error {
	params := database.UpdateResumeFileParseStateParams{
		ID:            f.ID,
		ParseStatus:   sql.NullString{String: string(f.ParseStatus), Valid: f.ParseStatus != ""},
		ParseAttempts: int32(f.ParseAttempts),
		ParsedText:    nullString(f.ParsedText),
		ParsedSummary: nullString(f.ParsedSummary),
		ParseError:    nullString(f.ParseError),
	}
	if f.ParsedAt != nil {
		params.ParsedAt = sql.NullTime{Time: *f.ParsedAt, Valid: true}
	}

	if err := r.db.UpdateResumeFileParseState(ctx, params); err != nil {
		return fmt.Errorf("error saving parse state for %s: %w", f.ID, err)
	}
	return nil
}

func (r *PostgresRepository) ListUnfinished(ctx context.Context) ([]string, error) {
	ids, err := r.db.ListResumeFileIDsToParse(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing unfinished resume files: %w", err)
	}
	return ids, nil
}

func fromRow(row database.ResumeFile) File {
	f := File{
		ID:            row.ID,
		ApplicantID:   stringPtr(row.ApplicantID),
		JobID:         stringPtr(row.JobID),
		OriginalName:  row.OriginalName,
		MimeType:      row.MimeType,
		SizeBytes:     row.SizeBytes,
		StoragePath:   row.StoragePath,
		URL:           row.Url,
		ParseStatus:   Status(row.ParseStatus.String),
		ParseAttempts: int(row.ParseAttempts),
		ParsedText:    stringPtr(row.ParsedText),
		ParsedSummary: stringPtr(row.ParsedSummary),
		ParseError:    stringPtr(row.ParseError),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.ParsedAt.Valid {
		at := row.ParsedAt.Time.In(time.UTC)
		f.ParsedAt = &at
	}
	return f
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
