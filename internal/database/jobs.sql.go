package database

import (
	"context"

	"github.com/lib/pq"
)

const getJob = `-- name: GetJob :one
SELECT id, business_id, title, must_haves, description FROM jobs WHERE id=$1
`

func (q *Queries) GetJob(ctx context.Context, id string) (Job, error) {
	row := q.db.QueryRowContext(ctx, getJob, id)
	var i Job
	err := row.Scan(
		&i.ID,
		&i.BusinessID,
		&i.Title,
		pq.Array(&i.MustHaves),
		&i.Description,
	)
	return i, err
}

const getApplication = `-- name: GetApplication :one
SELECT id, job_id, applicant_id, resume_file_id FROM applications WHERE id=$1
`

func (q *Queries) GetApplication(ctx context.Context, id string) (Application, error) {
	row := q.db.QueryRowContext(ctx, getApplication, id)
	var i Application
	err := row.Scan(
		&i.ID,
		&i.JobID,
		&i.ApplicantID,
		&i.ResumeFileID,
	)
	return i, err
}

const getBusiness = `-- name: GetBusiness :one
SELECT id, name, industry, location, about FROM businesses WHERE id=$1
`

func (q *Queries) GetBusiness(ctx context.Context, id string) (Business, error) {
	row := q.db.QueryRowContext(ctx, getBusiness, id)
	var i Business
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Industry,
		&i.Location,
		&i.About,
	)
	return i, err
}

const applicantExists = `-- name: ApplicantExists :one
SELECT EXISTS(SELECT 1 FROM applicants WHERE id=$1)
`

func (q *Queries) ApplicantExists(ctx context.Context, id string) (bool, error) {
	row := q.db.QueryRowContext(ctx, applicantExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
