package database

import (
	"context"
	"database/sql"
)

const createResumeFile = `-- name: CreateResumeFile :one
INSERT INTO resume_files (
id, applicant_id, job_id, original_name, mime_type, size_bytes, storage_path, url, parse_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
RETURNING id, applicant_id, job_id, original_name, mime_type, size_bytes, storage_path, url, parse_status, parse_attempts, parsed_text, parsed_summary, parsed_at, parse_error, created_at, updated_at
`

type CreateResumeFileParams struct {
	ID           string
	ApplicantID  sql.NullString
	JobID        sql.NullString
	OriginalName string
	MimeType     string
	SizeBytes    int64
	StoragePath  string
	Url          string
}

func (q *Queries) CreateResumeFile(ctx context.Context, arg CreateResumeFileParams) (ResumeFile, error) {
	row := q.db.QueryRowContext(ctx, createResumeFile,
		arg.ID,
		arg.ApplicantID,
		arg.JobID,
		arg.OriginalName,
		arg.MimeType,
		arg.SizeBytes,
		arg.StoragePath,
		arg.Url,
	)
	return scanResumeFile(row)
}

const getResumeFile = `-- name: GetResumeFile :one
SELECT id, applicant_id, job_id, original_name, mime_type, size_bytes, storage_path, url, parse_status, parse_attempts, parsed_text, parsed_summary, parsed_at, parse_error, created_at, updated_at FROM resume_files WHERE id=$1
`

func (q *Queries) GetResumeFile(ctx context.Context, id string) (ResumeFile, error) {
	row := q.db.QueryRowContext(ctx, getResumeFile, id)
	return scanResumeFile(row)
}

const updateResumeFileParseState = `-- name: UpdateResumeFileParseState :exec
UPDATE resume_files
SET parse_status=$2,
    parse_attempts=GREATEST(parse_attempts, $3),
    parsed_text=$4,
    parsed_summary=$5,
    parsed_at=$6,
    parse_error=$7,
    updated_at=CURRENT_TIMESTAMP
WHERE id=$1
`

type UpdateResumeFileParseStateParams struct {
	ID            string
	ParseStatus   sql.NullString
	ParseAttempts int32
	ParsedText    sql.NullString
	ParsedSummary sql.NullString
	ParsedAt      sql.NullTime
	ParseError    sql.NullString
}

func (q *Queries) UpdateResumeFileParseState(ctx context.Context, arg UpdateResumeFileParseStateParams) error {
	_, err := q.db.ExecContext(ctx, updateResumeFileParseState,
		arg.ID,
		arg.ParseStatus,
		arg.ParseAttempts,
		arg.ParsedText,
		arg.ParsedSummary,
		arg.ParsedAt,
		arg.ParseError,
	)
	return err
}

const listResumeFileIDsToParse = `-- name: ListResumeFileIDsToParse :many
SELECT id FROM resume_files
WHERE parse_status IS NULL OR parse_status IN ('pending', 'processing')
ORDER BY created_at
`

func (q *Queries) ListResumeFileIDsToParse(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listResumeFileIDsToParse)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanResumeFile(row *sql.Row) (ResumeFile, error) {
	var i ResumeFile
	err := row.Scan(
		&i.ID,
		&i.ApplicantID,
		&i.JobID,
		&i.OriginalName,
		&i.MimeType,
		&i.SizeBytes,
		&i.StoragePath,
		&i.Url,
		&i.ParseStatus,
		&i.ParseAttempts,
		&i.ParsedText,
		&i.ParsedSummary,
		&i.ParsedAt,
		&i.ParseError,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
