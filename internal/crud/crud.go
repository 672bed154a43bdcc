// Package crud reads job, application and business records owned by the
// CRUD service. Nothing here writes.
package crud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/muhammadolammi/hireflow/internal/database"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

type Job struct {
	ID          string
	BusinessID  string
	Title       string
	MustHaves   []string
	Description string
}

type Application struct {
	ID           string
	JobID        string
	ApplicantID  string
	ResumeFileID string
}

type Business struct {
	ID       string
	Name     string
	Industry string
	Location string
	About    string
}

// Reader is the read-only view of CRUD records this service needs.
type Reader interface {
	GetJob(ctx context.Context, id string) (Job, error)
	GetApplication(ctx context.Context, id string) (Application, error)
	GetBusiness(ctx context.Context, id string) (Business, error)
	ApplicantExists(ctx context.Context, id string) (bool, error)
}

// PostgresReader reads CRUD tables directly.
type PostgresReader struct {
	db *database.Queries
}

func NewPostgresReader(db *database.Queries) *PostgresReader {
	return &PostgresReader{db: db}
}

func (r *PostgresReader) GetJob(ctx context.Context, id string) (Job, error) {
	row, err := r.db.GetJob(ctx, id)
	if err != nil {
		return Job{}, wrap("job", id, err)
	}
	return Job{
		ID:          row.ID,
		BusinessID:  row.BusinessID.String,
		Title:       row.Title,
		MustHaves:   row.MustHaves,
		Description: row.Description.String,
	}, nil
}

func (r *PostgresReader) GetApplication(ctx context.Context, id string) (Application, error) {
	row, err := r.db.GetApplication(ctx, id)
	if err != nil {
		return Application{}, wrap("application", id, err)
	}
	return Application{
		ID:           row.ID,
		JobID:        row.JobID,
		ApplicantID:  row.ApplicantID.String,
		ResumeFileID: row.ResumeFileID.String,
	}, nil
}

func (r *PostgresReader) GetBusiness(ctx context.Context, id string) (Business, error) {
	row, err := r.db.GetBusiness(ctx, id)
	if err != nil {
		return Business{}, wrap("business", id, err)
	}
	return Business{
		ID:       row.ID,
		Name:     row.Name,
		Industry: row.Industry.String,
		Location: row.Location.String,
		About:    row.About.String,
	}, nil
}

func (r *PostgresReader) ApplicantExists(ctx context.Context, id string) (bool, error) {
	exists, err := r.db.ApplicantExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("error checking applicant %s: %w", id, err)
	}
	return exists, nil
}

func wrap(entity, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return fmt.Errorf("error getting %s %s: %w", entity, id, err)
}
