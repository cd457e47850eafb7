package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board/internal/domain"
)

// ApplicationRepository persists seeker applications.
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
	ListByUser(ctx context.Context, userID int64) ([]domain.ApplicationWithJob, error)
	ListByJob(ctx context.Context, jobID int64) ([]domain.Applicant, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository constructs repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	const query = `
        INSERT INTO applications (job_id, user_id, cover_letter, resume_path, application_date, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		application.JobID,
		application.UserID,
		application.CoverLetter,
		application.ResumePath,
		application.ApplicationDate,
		application.Status,
	).Scan(&application.ID)
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	const query = `
        SELECT id, job_id, user_id, cover_letter, resume_path, application_date, status
        FROM applications WHERE id=$1`
	var application domain.Application
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&application.ID,
		&application.JobID,
		&application.UserID,
		&application.CoverLetter,
		&application.ResumePath,
		&application.ApplicationDate,
		&application.Status,
	); err != nil {
		return nil, notFound(err, fmt.Sprintf("application %d", id))
	}
	return &application, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE applications SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("application %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ApplicationWithJob, error) {
	const query = `
        SELECT a.id, a.job_id, a.user_id, a.cover_letter, a.resume_path, a.application_date, a.status,
               j.id, j.title, j.description, j.location, j.job_type, j.salary, j.posted_by, j.is_closed
        FROM applications a
        JOIN jobs j ON j.id = a.job_id
        WHERE a.user_id=$1
        ORDER BY a.id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ApplicationWithJob
	for rows.Next() {
		var item domain.ApplicationWithJob
		if err := rows.Scan(
			&item.ID,
			&item.JobID,
			&item.UserID,
			&item.CoverLetter,
			&item.ResumePath,
			&item.ApplicationDate,
			&item.Status,
			&item.Job.ID,
			&item.Job.Title,
			&item.Job.Description,
			&item.Job.Location,
			&item.Job.JobType,
			&item.Job.Salary,
			&item.Job.PostedBy,
			&item.Job.IsClosed,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID int64) ([]domain.Applicant, error) {
	const query = `
        SELECT a.id, a.job_id, a.user_id, a.cover_letter, a.resume_path, a.application_date, a.status,
               u.name, u.email
        FROM applications a
        JOIN users u ON u.id = a.user_id
        WHERE a.job_id=$1
        ORDER BY a.id`
	rows, err := r.pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Applicant
	for rows.Next() {
		var item domain.Applicant
		if err := rows.Scan(
			&item.ID,
			&item.JobID,
			&item.UserID,
			&item.CoverLetter,
			&item.ResumePath,
			&item.ApplicationDate,
			&item.Status,
			&item.Name,
			&item.Email,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
